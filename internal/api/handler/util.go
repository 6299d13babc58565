package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pmarinho/bankledger/internal/api/problem"
	"github.com/pmarinho/bankledger/internal/domain"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// RespondDomainError maps a domain error to its HTTP status and problem type.
func RespondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, problemType := mapDomainError(err)
	RespondError(w, r, status, problemType, err.Error())
}

func mapDomainError(err error) (status int, problemType string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "ledger/account-not-found"
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return http.StatusConflict, "ledger/duplicate-identity"
	case errors.Is(err, domain.ErrDuplicateAlias):
		return http.StatusConflict, "ledger/duplicate-alias"
	case errors.Is(err, domain.ErrAmbiguousAlias):
		return http.StatusConflict, "ledger/ambiguous-alias"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "ledger/invalid-amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "ledger/insufficient-funds"
	case errors.Is(err, domain.ErrIdentityMismatch):
		return http.StatusBadRequest, "ledger/identity-mismatch"
	case errors.Is(err, domain.ErrUnknownDestination):
		return http.StatusBadRequest, "ledger/unknown-destination"
	case errors.Is(err, domain.ErrInvalidSchedule):
		return http.StatusBadRequest, "ledger/invalid-schedule"
	case errors.Is(err, domain.ErrInvalidTimeRange):
		return http.StatusBadRequest, "ledger/invalid-time-range"
	default:
		return http.StatusInternalServerError, "internal-server-error"
	}
}
