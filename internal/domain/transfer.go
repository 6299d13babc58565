package domain

import (
	"fmt"
	"time"
)

// PostTransfer moves amount from src to dst as one atomic operation: both
// balances and both ledgers are updated under the pair lock, or nothing is.
//
// Validation is fail-fast in contract order: amount, funds, schedule. A
// transfer whose effective time lies within the grace window of now settles
// immediately; a later effective time is recorded as scheduled, still applied
// synchronously but future-stamped and worded as scheduled. Back-dated
// transfers are rejected.
func PostTransfer(src, dst *Account, kind Kind, amount Money, now, effective time.Time, grace time.Duration) (scheduled bool, err error) {
	if src == dst {
		// Guard: locking the same account twice would deadlock.
		return false, fmt.Errorf("%w: source and destination are the same account", ErrUnknownDestination)
	}

	unlock := lockPair(src, dst)
	defer unlock()

	if amount.IsZeroOrNegative() {
		return false, fmt.Errorf("%w: transfer of %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(src.balance) {
		return false, fmt.Errorf("%w: transfer of %s exceeds balance %s", ErrInsufficientFunds, amount, src.balance)
	}
	if effective.Before(now) {
		return false, fmt.Errorf("%w: %s is before the current time %s",
			ErrInvalidSchedule, effective.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	scheduled = effective.Sub(now) > grace

	label := kind.transferLabel()
	counterparts := fmt.Sprintf(" => FROM %s; TO %s;", src.ownerName, dst.ownerName)
	receivedWord, sentWord := "received", "sent"
	if scheduled {
		receivedWord, sentWord = "scheduled", "scheduled"
	}

	received := NewTransaction(effective, kind,
		fmt.Sprintf("%s %s: +%s%s", label, receivedWord, amount, counterparts))
	sent := received.Counterparty()
	if err := sent.FinalizeDescription(
		fmt.Sprintf("%s %s: -%s%s", label, sentWord, amount, counterparts)); err != nil {
		return false, err
	}

	dst.balance = dst.balance.Add(amount)
	dst.ledger.Append(received)
	src.balance = src.balance.Sub(amount)
	src.ledger.Append(sent)
	return scheduled, nil
}

// lockPair acquires both account locks in a fixed global order (by identity
// key) and returns the paired unlock. The fixed order prevents deadlocks when
// two transfers cross the same accounts in opposite directions.
func lockPair(a, b *Account) (unlock func()) {
	first, second := a, b
	if first.IdentityKey() > second.IdentityKey() {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
