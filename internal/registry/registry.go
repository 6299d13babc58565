// Package registry holds the process-wide collection of accounts, keyed by
// identity pair and by alias key. It owns the canonical *Account references:
// lookups hand out the shared instance, never a copy, so a mutation performed
// through any handle is visible through the registry as well.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pmarinho/bankledger/internal/domain"
)

// Registry is the authoritative in-memory account collection. Structural
// mutations (register, add-alias) and reads are serialized on an RWMutex so a
// half-registered account is never observable.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[string]*domain.Account
	byAlias    map[string]*domain.Account
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byIdentity: make(map[string]*domain.Account),
		byAlias:    make(map[string]*domain.Account),
	}
}

// Register inserts a newly built account. It fails with ErrDuplicateIdentity
// when the identity pair is taken and with ErrDuplicateAlias when any of the
// account's initial aliases is already claimed elsewhere.
func (r *Registry) Register(account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := account.IdentityKey()
	if _, exists := r.byIdentity[key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateIdentity, key)
	}
	aliases := account.Aliases()
	for _, alias := range aliases {
		if _, claimed := r.byAlias[alias]; claimed {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateAlias, alias)
		}
	}

	r.byIdentity[key] = account
	for _, alias := range aliases {
		r.byAlias[alias] = account
	}
	return nil
}

// FindByIdentity returns the account owning the identity pair.
func (r *Registry) FindByIdentity(routingID, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byIdentity[routingID+"/"+accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, routingID, accountNumber)
	}
	return account, nil
}

// FindByAlias returns the unique account owning the alias key. The lookup
// scans the account-held alias sets rather than trusting the index alone, so
// drift between the two surfaces as ErrAmbiguousAlias instead of resolving to
// a stale owner.
func (r *Registry) FindByAlias(key string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *domain.Account
	owners := 0
	for _, account := range r.byIdentity {
		if account.HasAlias(key) {
			owners++
			found = account
		}
	}
	switch {
	case owners == 0:
		return nil, fmt.Errorf("%w: alias %q", domain.ErrNotFound, key)
	case owners > 1:
		return nil, fmt.Errorf("%w: %q has %d owners", domain.ErrAmbiguousAlias, key, owners)
	}
	return found, nil
}

// AliasExists reports whether any account claims the alias key.
func (r *Registry) AliasExists(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byAlias[key]
	return ok
}

// IdentityExists reports whether the identity pair is registered.
func (r *Registry) IdentityExists(routingID, accountNumber string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byIdentity[routingID+"/"+accountNumber]
	return ok
}

// AddAlias registers a new alias key on the account, enforcing global
// uniqueness across the whole registry before the account-local add.
func (r *Registry) AddAlias(account *domain.Account, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, claimed := r.byAlias[key]; claimed {
		return fmt.Errorf("%w: %q already belongs to %s", domain.ErrDuplicateAlias, key, owner.IdentityKey())
	}
	if err := account.AddAlias(key); err != nil {
		return err
	}
	r.byAlias[key] = account
	return nil
}

// Accounts returns the registered accounts ordered by identity key. The slice
// is freshly allocated; the elements are the shared canonical instances.
func (r *Registry) Accounts() []*domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.byIdentity))
	for _, account := range r.byIdentity {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].IdentityKey() < accounts[j].IdentityKey()
	})
	return accounts
}
