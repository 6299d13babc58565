package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementLineZeroPadding(t *testing.T) {
	ts := time.Date(2024, time.January, 2, 3, 4, 59, 0, time.UTC)
	tx := NewTransaction(ts, KindDeposit, "deposit: +5")

	assert.Equal(t, "02/01/2024 03:04 - Deposit: deposit: +5", tx.StatementLine())
}

func TestCounterpartyCopyIsIndependent(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 20, 30, 0, 0, time.UTC)
	original := NewTransaction(ts, KindAliasTransfer, "Alias transfer received: +10")

	mirror := original.Counterparty()
	require.NoError(t, mirror.FinalizeDescription("Alias transfer sent: -10"))

	assert.NotEqual(t, original.ID(), mirror.ID())
	assert.Equal(t, original.Timestamp(), mirror.Timestamp())
	assert.Equal(t, original.Kind(), mirror.Kind())
	assert.Equal(t, "Alias transfer received: +10", original.Description())
	assert.Equal(t, "Alias transfer sent: -10", mirror.Description())
}

func TestDescriptionRewriteAllowedOnce(t *testing.T) {
	tx := NewTransaction(time.Now(), KindDirectTransfer, "Transfer received: +1")

	// Sealed at creation: no rewrite.
	err := tx.FinalizeDescription("changed")
	require.Error(t, err)

	draft := tx.Counterparty()
	require.NoError(t, draft.FinalizeDescription("Transfer sent: -1"))
	err = draft.FinalizeDescription("changed again")
	require.Error(t, err)
	assert.Equal(t, "Transfer sent: -1", draft.Description())
}
