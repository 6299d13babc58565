package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a ledger event.
type Kind string

const (
	KindWithdrawal     Kind = "Withdrawal"
	KindDeposit        Kind = "Deposit"
	KindAliasTransfer  Kind = "AliasTransfer"
	KindDirectTransfer Kind = "DirectTransfer"
)

// transferLabel is the human wording used in transfer descriptions.
func (k Kind) transferLabel() string {
	if k == KindAliasTransfer {
		return "Alias transfer"
	}
	return "Transfer"
}

// Transaction is one immutable ledger event. A transaction is sealed at
// creation; the only permitted mutation is finalizing the description of a
// counterparty copy, exactly once.
type Transaction struct {
	id          uuid.UUID
	timestamp   time.Time
	kind        Kind
	description string
	draft       bool
}

// NewTransaction creates a sealed transaction.
func NewTransaction(timestamp time.Time, kind Kind, description string) Transaction {
	return Transaction{
		id:          uuid.New(),
		timestamp:   timestamp,
		kind:        kind,
		description: description,
	}
}

// RestoreTransaction rebuilds a sealed transaction from persisted state.
func RestoreTransaction(id uuid.UUID, timestamp time.Time, kind Kind, description string) Transaction {
	return Transaction{id: id, timestamp: timestamp, kind: kind, description: description}
}

func (t Transaction) ID() uuid.UUID        { return t.id }
func (t Transaction) Timestamp() time.Time { return t.timestamp }
func (t Transaction) Kind() Kind           { return t.kind }
func (t Transaction) Description() string  { return t.description }

// Counterparty derives an independent copy of the transaction for the other
// side's ledger. The copy gets its own id and stays a draft until its
// description is finalized.
func (t Transaction) Counterparty() Transaction {
	t.id = uuid.New()
	t.draft = true
	return t
}

// FinalizeDescription rewrites a draft's description and seals it. Sealed
// transactions reject any further rewrite.
func (t *Transaction) FinalizeDescription(description string) error {
	if !t.draft {
		return errors.New("transaction is sealed, description cannot be rewritten")
	}
	t.description = description
	t.draft = false
	return nil
}

// StatementLine renders the transaction as a statement row:
// DD/MM/YYYY HH:MM - <Kind>: <description>, with day, month, hour and minute
// zero-padded to two digits.
func (t Transaction) StatementLine() string {
	return fmt.Sprintf("%02d/%02d/%d %02d:%02d - %s: %s",
		t.timestamp.Day(), int(t.timestamp.Month()), t.timestamp.Year(),
		t.timestamp.Hour(), t.timestamp.Minute(), t.kind, t.description)
}
