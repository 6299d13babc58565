package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pmarinho/bankledger/internal/domain"
	"github.com/pmarinho/bankledger/internal/service"
)

type TransferHandler struct {
	accounts  *service.AccountService
	transfers *service.TransferService
}

func NewTransferHandler(accounts *service.AccountService, transfers *service.TransferService) *TransferHandler {
	return &TransferHandler{accounts: accounts, transfers: transfers}
}

type transferParty struct {
	RoutingID     string `json:"routing_id"`
	AccountNumber string `json:"account_number"`
	Alias         string `json:"alias"`
}

func (h *TransferHandler) MakeTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From        transferParty `json:"from"`
		To          transferParty `json:"to"`
		Amount      string        `json:"amount"`
		EffectiveAt string        `json:"effective_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.To.Alias == "" && (req.To.RoutingID == "" || req.To.AccountNumber == "") {
		RespondError(w, r, http.StatusBadRequest, "request/missing-destination", "to.alias or to.routing_id + to.account_number is required")
		return
	}

	amount, err := domain.MoneyFromString(req.Amount)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-amount", "amount must be a decimal string")
		return
	}

	src, err := h.accounts.Find(req.From.RoutingID, req.From.AccountNumber)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	if req.EffectiveAt != "" {
		effective, parseErr := time.Parse(time.RFC3339, req.EffectiveAt)
		if parseErr != nil {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-effective-at", "effective_at must be RFC 3339")
			return
		}
		if req.To.Alias != "" {
			err = h.transfers.ScheduleToAlias(src, req.To.Alias, amount, effective)
		} else {
			err = h.transfers.ScheduleToIdentity(src, req.To.RoutingID, req.To.AccountNumber, amount, effective)
		}
	} else {
		if req.To.Alias != "" {
			err = h.transfers.TransferToAlias(src, req.To.Alias, amount)
		} else {
			err = h.transfers.TransferToIdentity(src, req.To.RoutingID, req.To.AccountNumber, amount)
		}
	}
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{
		"source_balance": src.Balance().String(),
	})
}
