package service

import (
	"time"

	"github.com/pmarinho/bankledger/internal/domain"
	"github.com/pmarinho/bankledger/internal/observability"
	"github.com/pmarinho/bankledger/internal/registry"
	"go.uber.org/zap"
)

// AccountService provisions accounts and runs single-account operations
// against the registry's canonical instances.
type AccountService struct {
	registry *registry.Registry
	log      *zap.Logger
}

func NewAccountService(reg *registry.Registry, logger *zap.Logger) *AccountService {
	return &AccountService{registry: reg, log: logger}
}

// Open builds a new account and registers it. Registration is part of the
// provisioning contract: an account that fails to register is discarded.
func (s *AccountService) Open(routingID, accountNumber, ownerName string, aliases []string) (*domain.Account, error) {
	account, err := domain.NewAccountBuilder(routingID, accountNumber).
		OwnerName(ownerName).
		Aliases(aliases...).
		Build()
	if err != nil {
		return nil, err
	}
	if err := s.registry.Register(account); err != nil {
		return nil, err
	}

	s.log.Info("account opened",
		zap.String("identity", account.IdentityKey()),
		zap.String("owner", ownerName),
		zap.Int("aliases", len(aliases)),
	)
	observability.IncrementAccountOpened()
	return account, nil
}

// Find returns the registered account for the identity pair.
func (s *AccountService) Find(routingID, accountNumber string) (*domain.Account, error) {
	return s.registry.FindByIdentity(routingID, accountNumber)
}

// Deposit credits the account directly.
func (s *AccountService) Deposit(routingID, accountNumber string, amount domain.Money) error {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return err
	}
	return s.record("deposit", account.Deposit(amount))
}

// DepositViaAlias credits the account after confirming the quoted alias is
// its own.
func (s *AccountService) DepositViaAlias(routingID, accountNumber, alias string, amount domain.Money) error {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return err
	}
	return s.record("deposit_via_alias", account.DepositViaAlias(alias, amount))
}

// DepositViaIdentity credits the account after confirming the quoted identity
// pair is its own.
func (s *AccountService) DepositViaIdentity(routingID, accountNumber, quotedRoutingID, quotedAccountNumber string, amount domain.Money) error {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return err
	}
	return s.record("deposit_via_identity", account.DepositViaIdentity(quotedRoutingID, quotedAccountNumber, amount))
}

// Withdraw debits the account.
func (s *AccountService) Withdraw(routingID, accountNumber string, amount domain.Money) error {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return err
	}
	return s.record("withdraw", account.Withdraw(amount))
}

// AddAlias registers a new alias key, enforcing registry-wide uniqueness.
func (s *AccountService) AddAlias(routingID, accountNumber, alias string) error {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return err
	}
	return s.record("add_alias", s.registry.AddAlias(account, alias))
}

// Statement collects the rendered statement lines, optionally filtered to
// [since, now].
func (s *AccountService) Statement(routingID, accountNumber string, since *time.Time) ([]string, error) {
	account, err := s.registry.FindByIdentity(routingID, accountNumber)
	if err != nil {
		return nil, err
	}

	seq := account.Statement()
	if since != nil {
		seq, err = account.StatementSince(*since)
		if err != nil {
			return nil, err
		}
	}

	lines := make([]string, 0, account.LedgerSize())
	for line := range seq {
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *AccountService) record(operation string, err error) error {
	if err != nil {
		s.log.Warn("account operation rejected", zap.String("operation", operation), zap.Error(err))
		observability.IncrementOperation(operation, "rejected")
		return err
	}
	observability.IncrementOperation(operation, "ok")
	return nil
}
