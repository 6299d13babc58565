package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pmarinho/bankledger/internal/api"
	"github.com/pmarinho/bankledger/internal/config"
	"github.com/pmarinho/bankledger/internal/registry"
	"github.com/pmarinho/bankledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		HTTPPort:           "0",
		LogLevel:           "error",
		GraceWindow:        5 * time.Second,
		PublicRateLimitRPS: 1000,
	}
	logger := zap.NewNop()
	reg := registry.New()
	accountSvc := service.NewAccountService(reg, logger)
	transferSvc := service.NewTransferService(reg, logger).WithGraceWindow(cfg.GraceWindow)

	srv := httptest.NewServer(api.NewRouter(cfg, logger, accountSvc, transferSvc).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func openTestAccount(t *testing.T, srv *httptest.Server, routing, number, owner string, aliases ...string) {
	t.Helper()
	resp, _ := doJSON(t, srv, http.MethodPost, "/v1/accounts", map[string]any{
		"routing_id":     routing,
		"account_number": number,
		"owner_name":     owner,
		"aliases":        aliases,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	srv := setupServer(t)

	openTestAccount(t, srv, "0001", "00000-1", "Paulo", "paulo@email.com")

	// Duplicate identity is a conflict.
	resp, _ := doJSON(t, srv, http.MethodPost, "/v1/accounts", map[string]any{
		"routing_id":     "0001",
		"account_number": "00000-1",
		"owner_name":     "Impostor",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Deposit confirmed by the account's own identity pair.
	resp, body := doJSON(t, srv, http.MethodPost, "/v1/accounts/0001/00000-1/deposits", map[string]any{
		"amount":         "22.80",
		"routing_id":     "0001",
		"account_number": "00000-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "22.8", body["balance"])

	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/accounts/0001/00000-1/withdrawals", map[string]any{
		"amount": "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodGet, "/v1/accounts/0001/00000-1/balance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "22.8", body["balance"])
	assert.Equal(t, "Paulo", body["owner_name"])

	resp, _ = doJSON(t, srv, http.MethodGet, "/v1/accounts/0009/9/balance", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAliasEndpoints(t *testing.T) {
	srv := setupServer(t)
	openTestAccount(t, srv, "0001", "1", "Paulo", "paulo@email.com")
	openTestAccount(t, srv, "0002", "2", "Pedro", "pedro@email.com")

	resp, _ := doJSON(t, srv, http.MethodPost, "/v1/accounts/0002/2/aliases", map[string]any{
		"alias": "paulo@email.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/accounts/0002/2/aliases", map[string]any{
		"alias": "+55-11-98888",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Deposit via a foreign alias is an identity mismatch.
	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/accounts/0001/1/deposits", map[string]any{
		"amount": "10.00",
		"alias":  "pedro@email.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransferOverHTTP(t *testing.T) {
	srv := setupServer(t)
	openTestAccount(t, srv, "0001", "00000-1", "Paulo", "paulo@email.com")
	openTestAccount(t, srv, "0002", "00000-2", "Pedro", "pedro@email.com")

	resp, _ := doJSON(t, srv, http.MethodPost, "/v1/accounts/0002/00000-2/deposits", map[string]any{
		"amount": "18.20",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/v1/transfers", map[string]any{
		"from":   map[string]string{"routing_id": "0002", "account_number": "00000-2"},
		"to":     map[string]string{"alias": "paulo@email.com"},
		"amount": "10.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "8.2", body["source_balance"])

	resp, body = doJSON(t, srv, http.MethodGet, "/v1/accounts/0001/00000-1/balance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", body["balance"])

	// Insufficient funds.
	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/transfers", map[string]any{
		"from":   map[string]string{"routing_id": "0002", "account_number": "00000-2"},
		"to":     map[string]string{"alias": "paulo@email.com"},
		"amount": "50.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Back-dated schedule.
	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/transfers", map[string]any{
		"from":         map[string]string{"routing_id": "0002", "account_number": "00000-2"},
		"to":           map[string]string{"alias": "paulo@email.com"},
		"amount":       "1.00",
		"effective_at": time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown destination.
	resp, _ = doJSON(t, srv, http.MethodPost, "/v1/transfers", map[string]any{
		"from":   map[string]string{"routing_id": "0002", "account_number": "00000-2"},
		"to":     map[string]string{"alias": "nobody@email.com"},
		"amount": "1.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatementOverHTTP(t *testing.T) {
	srv := setupServer(t)
	openTestAccount(t, srv, "0001", "1", "Ana", "ana@email.com")

	for i := 1; i <= 2; i++ {
		resp, _ := doJSON(t, srv, http.MethodPost, "/v1/accounts/0001/1/deposits", map[string]any{
			"amount": fmt.Sprintf("%d.50", i),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, srv, http.MethodGet, "/v1/accounts/0001/1/statement", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines, ok := body["statement"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Deposit: deposit: +1.5")
	assert.Contains(t, lines[1], "Deposit: deposit: +2.5")

	since := time.Now().Add(time.Hour).Format(time.RFC3339)
	resp, _ = doJSON(t, srv, http.MethodGet, "/v1/accounts/0001/1/statement?since="+since, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/v1/accounts/0001/1/statement?since=not-a-time", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv := setupServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodGet, "/healthz/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}
