package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/pmarinho/bankledger/internal/api/handler"
	"github.com/pmarinho/bankledger/internal/api/middleware"
	"github.com/pmarinho/bankledger/internal/config"
	"github.com/pmarinho/bankledger/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	accounts  *service.AccountService
	transfers *service.TransferService
}

func NewRouter(cfg *config.Config, logger *zap.Logger, accounts *service.AccountService, transfers *service.TransferService) *Router {
	return &Router{cfg: cfg, logger: logger, accounts: accounts, transfers: transfers}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	accountHandler := handler.NewAccountHandler(api.accounts)
	transferHandler := handler.NewTransferHandler(api.accounts, api.transfers)
	healthHandler := handler.NewHealthHandler()

	r.Get("/healthz/live", healthHandler.Live)
	r.Get("/healthz/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Post("/v1/accounts", accountHandler.OpenAccount)
		r.Get("/v1/accounts/{routing}/{number}/balance", accountHandler.GetBalance)
		r.Get("/v1/accounts/{routing}/{number}/statement", accountHandler.GetStatement)
		r.Post("/v1/accounts/{routing}/{number}/aliases", accountHandler.AddAlias)
		r.Post("/v1/accounts/{routing}/{number}/deposits", accountHandler.Deposit)
		r.Post("/v1/accounts/{routing}/{number}/withdrawals", accountHandler.Withdraw)

		r.Post("/v1/transfers", transferHandler.MakeTransfer)
	})

	return r
}
