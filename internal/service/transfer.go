package service

import (
	"fmt"
	"time"

	"github.com/pmarinho/bankledger/internal/domain"
	"github.com/pmarinho/bankledger/internal/observability"
	"github.com/pmarinho/bankledger/internal/registry"
	"go.uber.org/zap"
)

// DefaultGraceWindow is how far ahead of "now" an effective time may lie and
// still settle immediately rather than being recorded as scheduled.
const DefaultGraceWindow = 5 * time.Second

// TransferService orchestrates cross-account transfers: it resolves the
// destination through the registry, then posts the balance and ledger
// mutations on both accounts as one atomic operation.
type TransferService struct {
	registry *registry.Registry
	grace    time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewTransferService(reg *registry.Registry, logger *zap.Logger) *TransferService {
	return &TransferService{
		registry: reg,
		grace:    DefaultGraceWindow,
		now:      time.Now,
		log:      logger,
	}
}

// WithGraceWindow overrides the settled-vs-scheduled threshold.
func (s *TransferService) WithGraceWindow(d time.Duration) *TransferService {
	s.grace = d
	return s
}

// WithClock overrides the time source. Test hook.
func (s *TransferService) WithClock(now func() time.Time) *TransferService {
	s.now = now
	return s
}

// TransferToAlias settles an immediate transfer to the account owning the
// alias key.
func (s *TransferService) TransferToAlias(src *domain.Account, alias string, amount domain.Money) error {
	return s.transfer(src, aliasDestination(alias), amount, s.now())
}

// TransferToIdentity settles an immediate transfer to the account owning the
// identity pair.
func (s *TransferService) TransferToIdentity(src *domain.Account, routingID, accountNumber string, amount domain.Money) error {
	return s.transfer(src, identityDestination{routingID, accountNumber}, amount, s.now())
}

// ScheduleToAlias posts a transfer with a caller-supplied effective time,
// resolved by alias key.
func (s *TransferService) ScheduleToAlias(src *domain.Account, alias string, amount domain.Money, effective time.Time) error {
	return s.transfer(src, aliasDestination(alias), amount, effective)
}

// ScheduleToIdentity posts a transfer with a caller-supplied effective time,
// resolved by identity pair.
func (s *TransferService) ScheduleToIdentity(src *domain.Account, routingID, accountNumber string, amount domain.Money, effective time.Time) error {
	return s.transfer(src, identityDestination{routingID, accountNumber}, amount, effective)
}

// destination resolves to a counterparty account and fixes the transfer kind.
type destination interface {
	resolve(reg *registry.Registry) (*domain.Account, error)
	kind() domain.Kind
}

type aliasDestination string

func (d aliasDestination) resolve(reg *registry.Registry) (*domain.Account, error) {
	return reg.FindByAlias(string(d))
}

func (d aliasDestination) kind() domain.Kind { return domain.KindAliasTransfer }

type identityDestination struct {
	routingID     string
	accountNumber string
}

func (d identityDestination) resolve(reg *registry.Registry) (*domain.Account, error) {
	return reg.FindByIdentity(d.routingID, d.accountNumber)
}

func (d identityDestination) kind() domain.Kind { return domain.KindDirectTransfer }

func (s *TransferService) transfer(src *domain.Account, dest destination, amount domain.Money, effective time.Time) error {
	kind := dest.kind()

	dst, err := dest.resolve(s.registry)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrUnknownDestination, err)
		return s.reject(kind, src, err)
	}
	if dst == src {
		err = fmt.Errorf("%w: cannot transfer to the source account itself", domain.ErrUnknownDestination)
		return s.reject(kind, src, err)
	}

	scheduled, err := domain.PostTransfer(src, dst, kind, amount, s.now(), effective, s.grace)
	if err != nil {
		return s.reject(kind, src, err)
	}

	result := "settled"
	if scheduled {
		result = "scheduled"
	}
	s.log.Info("transfer posted",
		zap.String("kind", string(kind)),
		zap.String("source", src.IdentityKey()),
		zap.String("destination", dst.IdentityKey()),
		zap.String("amount", amount.String()),
		zap.Time("effective", effective),
		zap.String("result", result),
	)
	observability.IncrementTransfer(string(kind), result)
	return nil
}

func (s *TransferService) reject(kind domain.Kind, src *domain.Account, err error) error {
	s.log.Warn("transfer rejected",
		zap.String("kind", string(kind)),
		zap.String("source", src.IdentityKey()),
		zap.Error(err),
	)
	observability.IncrementTransfer(string(kind), "rejected")
	return err
}
