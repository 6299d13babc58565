// Package store is the optional persistence collaborator: it serializes the
// whole account set to a JSON snapshot and back. The ledger core never calls
// it; the application root does, once at startup and once at shutdown. It
// offers no durability guarantees beyond an atomic file replace.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pmarinho/bankledger/internal/domain"
)

type Meta struct {
	Storage   string    `json:"storage"`
	Timestamp time.Time `json:"timestamp"`
}

type TransactionRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
}

type AccountRecord struct {
	RoutingID     string              `json:"routing_id"`
	AccountNumber string              `json:"account_number"`
	OwnerName     string              `json:"owner_name"`
	Aliases       []string            `json:"aliases"`
	Balance       string              `json:"balance"`
	Ledger        []TransactionRecord `json:"ledger"`
}

type Snapshot struct {
	Meta     Meta            `json:"meta"`
	Accounts []AccountRecord `json:"accounts"`
}

// LoadAll reads the snapshot at path and rebuilds the accounts.
func LoadAll(path string) ([]*domain.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	accounts := make([]*domain.Account, 0, len(snap.Accounts))
	for _, rec := range snap.Accounts {
		balance, err := domain.MoneyFromString(rec.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s/%s: %w", rec.RoutingID, rec.AccountNumber, err)
		}
		entries := make([]domain.Transaction, 0, len(rec.Ledger))
		for _, tr := range rec.Ledger {
			id, err := uuid.Parse(tr.ID)
			if err != nil {
				return nil, fmt.Errorf("account %s/%s: invalid transaction id %q: %w",
					rec.RoutingID, rec.AccountNumber, tr.ID, err)
			}
			entries = append(entries,
				domain.RestoreTransaction(id, tr.Timestamp, domain.Kind(tr.Kind), tr.Description))
		}
		accounts = append(accounts, domain.RestoreAccount(
			rec.RoutingID, rec.AccountNumber, rec.OwnerName, rec.Aliases, balance, entries))
	}
	return accounts, nil
}

// SaveAll writes the accounts to path as a JSON snapshot. The write is
// atomic: a temporary file is renamed over the target, so a crash mid-write
// cannot corrupt an existing snapshot.
func SaveAll(path string, accounts []*domain.Account) error {
	snap := Snapshot{
		Meta: Meta{Storage: "json_snapshot", Timestamp: time.Now()},
	}
	for _, account := range accounts {
		rec := AccountRecord{
			RoutingID:     account.RoutingID(),
			AccountNumber: account.AccountNumber(),
			OwnerName:     account.OwnerName(),
			Aliases:       account.Aliases(),
			Balance:       account.Balance().String(),
		}
		for _, tx := range account.Transactions() {
			rec.Ledger = append(rec.Ledger, TransactionRecord{
				ID:          tx.ID().String(),
				Timestamp:   tx.Timestamp(),
				Kind:        string(tx.Kind()),
				Description: tx.Description(),
			})
		}
		snap.Accounts = append(snap.Accounts, rec)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
