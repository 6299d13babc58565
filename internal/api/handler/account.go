package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pmarinho/bankledger/internal/domain"
	"github.com/pmarinho/bankledger/internal/service"
)

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type accountResponse struct {
	RoutingID     string   `json:"routing_id"`
	AccountNumber string   `json:"account_number"`
	OwnerName     string   `json:"owner_name"`
	Aliases       []string `json:"aliases"`
	Balance       string   `json:"balance"`
}

func newAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		RoutingID:     a.RoutingID(),
		AccountNumber: a.AccountNumber(),
		OwnerName:     a.OwnerName(),
		Aliases:       a.Aliases(),
		Balance:       a.Balance().String(),
	}
}

func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoutingID     string   `json:"routing_id"`
		AccountNumber string   `json:"account_number"`
		OwnerName     string   `json:"owner_name"`
		Aliases       []string `json:"aliases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.RoutingID == "" || req.AccountNumber == "" {
		RespondError(w, r, http.StatusBadRequest, "request/missing-identity", "routing_id and account_number are required")
		return
	}

	account, err := h.svc.Open(req.RoutingID, req.AccountNumber, req.OwnerName, req.Aliases)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Find(chi.URLParam(r, "routing"), chi.URLParam(r, "number"))
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-since", "since must be RFC 3339")
			return
		}
		since = &parsed
	}

	lines, err := h.svc.Statement(chi.URLParam(r, "routing"), chi.URLParam(r, "number"), since)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string][]string{"statement": lines})
}

func (h *AccountHandler) AddAlias(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Alias == "" {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "alias is required")
		return
	}

	if err := h.svc.AddAlias(chi.URLParam(r, "routing"), chi.URLParam(r, "number"), req.Alias); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]string{"alias": req.Alias})
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount        string `json:"amount"`
		Alias         string `json:"alias"`
		RoutingID     string `json:"routing_id"`
		AccountNumber string `json:"account_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	amount, err := domain.MoneyFromString(req.Amount)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-amount", "amount must be a decimal string")
		return
	}

	routing, number := chi.URLParam(r, "routing"), chi.URLParam(r, "number")
	switch {
	case req.Alias != "":
		err = h.svc.DepositViaAlias(routing, number, req.Alias, amount)
	case req.RoutingID != "" || req.AccountNumber != "":
		err = h.svc.DepositViaIdentity(routing, number, req.RoutingID, req.AccountNumber, amount)
	default:
		err = h.svc.Deposit(routing, number, amount)
	}
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	h.respondBalance(w, r, routing, number)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	amount, err := domain.MoneyFromString(req.Amount)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-amount", "amount must be a decimal string")
		return
	}

	routing, number := chi.URLParam(r, "routing"), chi.URLParam(r, "number")
	if err := h.svc.Withdraw(routing, number, amount); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	h.respondBalance(w, r, routing, number)
}

func (h *AccountHandler) respondBalance(w http.ResponseWriter, r *http.Request, routing, number string) {
	account, err := h.svc.Find(routing, number)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"balance": account.Balance().String()})
}
