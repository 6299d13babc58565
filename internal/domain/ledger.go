package domain

import "time"

// Ledger is the append-only, insertion-ordered transaction history of one
// account. Entries are never removed or reordered; insertion order is ledger
// order, which may differ from timestamp order because scheduled transfers
// are appended with a future timestamp.
//
// Ledger is not self-synchronizing: the owning account's lock guards it.
type Ledger struct {
	entries []Transaction
}

// Append adds one entry at the end of the ledger.
func (l *Ledger) Append(tx Transaction) {
	l.entries = append(l.entries, tx)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in ledger order, so callers cannot
// mutate the internal slice.
func (l *Ledger) Entries() []Transaction {
	copied := make([]Transaction, len(l.entries))
	copy(copied, l.entries)
	return copied
}

// EntriesBetween returns the order-preserving subsequence of entries whose
// timestamp falls within [from, to], both bounds inclusive.
func (l *Ledger) EntriesBetween(from, to time.Time) []Transaction {
	var result []Transaction
	for _, tx := range l.entries {
		if tx.Timestamp().Before(from) || tx.Timestamp().After(to) {
			continue
		}
		result = append(result, tx)
	}
	return result
}
