package domain

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"
)

// Account is a single bank account: immutable identity pair, owner name, a
// grow-only set of alias keys, the current balance and the transaction
// ledger. The balance always equals the net signed sum of the ledger entries
// since creation.
//
// All mutations go through Account methods, which serialize on the internal
// lock. Accounts are shared by reference: the registry and every holder see
// the same instance, so an update through one handle is visible everywhere.
type Account struct {
	mu            sync.Mutex
	routingID     string
	accountNumber string
	ownerName     string
	aliases       []string
	balance       Money
	ledger        Ledger
	now           func() time.Time
}

// AccountBuilder assembles a new account. The identity pair is fixed at
// construction and never changes afterwards.
type AccountBuilder struct {
	routingID     string
	accountNumber string
	ownerName     string
	aliases       []string
	now           func() time.Time
}

// NewAccountBuilder starts a builder for the given identity pair.
func NewAccountBuilder(routingID, accountNumber string) *AccountBuilder {
	return &AccountBuilder{
		routingID:     routingID,
		accountNumber: accountNumber,
		now:           time.Now,
	}
}

// OwnerName sets the account holder's name.
func (b *AccountBuilder) OwnerName(name string) *AccountBuilder {
	b.ownerName = name
	return b
}

// Aliases sets the initial alias keys.
func (b *AccountBuilder) Aliases(keys ...string) *AccountBuilder {
	b.aliases = append(b.aliases, keys...)
	return b
}

// Clock overrides the time source. Test hook.
func (b *AccountBuilder) Clock(now func() time.Time) *AccountBuilder {
	b.now = now
	return b
}

// Build creates the account with a zero balance and an empty ledger. It fails
// with ErrDuplicateAlias when the initial alias list repeats a key.
func (b *AccountBuilder) Build() (*Account, error) {
	aliases := make([]string, 0, len(b.aliases))
	for _, key := range b.aliases {
		if slices.Contains(aliases, key) {
			return nil, fmt.Errorf("%w: %q listed twice at account creation", ErrDuplicateAlias, key)
		}
		aliases = append(aliases, key)
	}
	return &Account{
		routingID:     b.routingID,
		accountNumber: b.accountNumber,
		ownerName:     b.ownerName,
		aliases:       aliases,
		now:           b.now,
	}, nil
}

// RestoreAccount rebuilds an account from persisted state. Intended for the
// snapshot store only; it bypasses operation validation.
func RestoreAccount(routingID, accountNumber, ownerName string, aliases []string, balance Money, entries []Transaction) *Account {
	a := &Account{
		routingID:     routingID,
		accountNumber: accountNumber,
		ownerName:     ownerName,
		aliases:       slices.Clone(aliases),
		balance:       balance,
		now:           time.Now,
	}
	for _, tx := range entries {
		a.ledger.Append(tx)
	}
	return a
}

func (a *Account) RoutingID() string     { return a.routingID }
func (a *Account) AccountNumber() string { return a.accountNumber }
func (a *Account) OwnerName() string     { return a.ownerName }

// IdentityKey is the canonical string form of the identity pair, also used as
// the global lock ordering key for two-account operations.
func (a *Account) IdentityKey() string {
	return a.routingID + "/" + a.accountNumber
}

// Balance returns the current balance.
func (a *Account) Balance() Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Aliases returns a copy of the account's alias keys.
func (a *Account) Aliases() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.aliases)
}

// HasAlias reports whether the key is among this account's aliases.
func (a *Account) HasAlias(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Contains(a.aliases, key)
}

// Transactions returns a copy of the ledger in ledger order.
func (a *Account) Transactions() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Entries()
}

// LedgerSize returns the number of ledger entries.
func (a *Account) LedgerSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Len()
}

// AddAlias registers a new alias key on this account. It fails with
// ErrDuplicateAlias when the key is already present here; cross-account
// uniqueness is the registry's concern.
func (a *Account) AddAlias(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if slices.Contains(a.aliases, key) {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, key)
	}
	a.aliases = append(a.aliases, key)
	return nil
}

// Withdraw debits the amount and appends a withdrawal entry.
func (a *Account) Withdraw(amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsZeroOrNegative() {
		return fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(a.balance) {
		return fmt.Errorf("%w: withdrawal of %s exceeds balance %s", ErrInsufficientFunds, amount, a.balance)
	}
	a.balance = a.balance.Sub(amount)
	a.ledger.Append(NewTransaction(a.now(), KindWithdrawal, "withdrawal: -"+amount.String()))
	return nil
}

// Deposit credits the amount and appends a deposit entry.
func (a *Account) Deposit(amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsZeroOrNegative() {
		return fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	a.depositLocked(amount)
	return nil
}

// DepositViaAlias is a self-deposit confirmed by quoting one of the account's
// own alias keys. A foreign or unknown key fails with ErrIdentityMismatch.
func (a *Account) DepositViaAlias(key string, amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsZeroOrNegative() {
		return fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	if !slices.Contains(a.aliases, key) {
		return fmt.Errorf("%w: alias %q does not belong to this account", ErrIdentityMismatch, key)
	}
	a.depositLocked(amount)
	return nil
}

// DepositViaIdentity is a self-deposit confirmed by quoting the account's own
// identity pair.
func (a *Account) DepositViaIdentity(routingID, accountNumber string, amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsZeroOrNegative() {
		return fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	if routingID != a.routingID || accountNumber != a.accountNumber {
		return fmt.Errorf("%w: %s/%s is not this account's identity", ErrIdentityMismatch, routingID, accountNumber)
	}
	a.depositLocked(amount)
	return nil
}

func (a *Account) depositLocked(amount Money) {
	a.balance = a.balance.Add(amount)
	a.ledger.Append(NewTransaction(a.now(), KindDeposit, "deposit: +"+amount.String()))
}

// Statement returns a lazy, restartable sequence of rendered statement lines
// in ledger order. Each iteration works over a point-in-time copy of the
// ledger.
func (a *Account) Statement() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tx := range a.Transactions() {
			if !yield(tx.StatementLine()) {
				return
			}
		}
	}
}

// StatementSince is Statement filtered to entries with
// since <= timestamp <= now. It fails with ErrInvalidTimeRange when since is
// in the future. The upper bound is fixed at call time.
func (a *Account) StatementSince(since time.Time) (iter.Seq[string], error) {
	now := a.now()
	if since.After(now) {
		return nil, fmt.Errorf("%w: %s is after the current time %s",
			ErrInvalidTimeRange, since.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return func(yield func(string) bool) {
		a.mu.Lock()
		entries := a.ledger.EntriesBetween(since, now)
		a.mu.Unlock()
		for _, tx := range entries {
			if !yield(tx.StatementLine()) {
				return
			}
		}
	}, nil
}
