package service

import (
	"testing"
	"time"

	"github.com/pmarinho/bankledger/internal/domain"
	"github.com/pmarinho/bankledger/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRegistersAccount(t *testing.T) {
	reg := registry.New()
	svc := NewAccountService(reg, zap.NewNop())

	account, err := svc.Open("0001", "00000-1", "Paulo", []string{"paulo@email.com"})
	require.NoError(t, err)

	found, err := reg.FindByIdentity("0001", "00000-1")
	require.NoError(t, err)
	assert.Same(t, account, found)
	assert.True(t, reg.AliasExists("paulo@email.com"))
}

func TestOpenRejectsDuplicateIdentity(t *testing.T) {
	reg := registry.New()
	svc := NewAccountService(reg, zap.NewNop())

	_, err := svc.Open("0001", "1", "Paulo", nil)
	require.NoError(t, err)
	_, err = svc.Open("0001", "1", "Impostor", nil)
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestOpenRejectsAliasClaimedElsewhere(t *testing.T) {
	reg := registry.New()
	svc := NewAccountService(reg, zap.NewNop())

	_, err := svc.Open("0001", "1", "Paulo", []string{"paulo@email.com"})
	require.NoError(t, err)
	_, err = svc.Open("0002", "2", "Pedro", []string{"paulo@email.com"})
	require.ErrorIs(t, err, domain.ErrDuplicateAlias)
	assert.False(t, reg.IdentityExists("0002", "2"), "failed provisioning must not leave a half-registered account")
}

func TestAccountOperationsThroughService(t *testing.T) {
	reg := registry.New()
	svc := NewAccountService(reg, zap.NewNop())

	_, err := svc.Open("0001", "1", "Ana", []string{"ana@email.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DepositViaIdentity("0001", "1", "0001", "1", mustMoney(t, "22.80")))
	require.NoError(t, svc.DepositViaAlias("0001", "1", "ana@email.com", mustMoney(t, "10.50")))
	require.NoError(t, svc.Deposit("0001", "1", mustMoney(t, "9.20")))
	require.NoError(t, svc.Withdraw("0001", "1", mustMoney(t, "1.50")))

	account, err := svc.Find("0001", "1")
	require.NoError(t, err)
	assert.True(t, account.Balance().Equal(mustMoney(t, "41")))

	require.NoError(t, svc.AddAlias("0001", "1", "+55-11-97777"))
	err = svc.AddAlias("0001", "1", "ana@email.com")
	require.ErrorIs(t, err, domain.ErrDuplicateAlias)
}

func TestServiceOperationsOnUnknownAccount(t *testing.T) {
	svc := NewAccountService(registry.New(), zap.NewNop())

	require.ErrorIs(t, svc.Deposit("0009", "9", mustMoney(t, "1")), domain.ErrNotFound)
	require.ErrorIs(t, svc.Withdraw("0009", "9", mustMoney(t, "1")), domain.ErrNotFound)
	require.ErrorIs(t, svc.AddAlias("0009", "9", "x"), domain.ErrNotFound)
	_, err := svc.Statement("0009", "9", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatementThroughService(t *testing.T) {
	reg := registry.New()
	svc := NewAccountService(reg, zap.NewNop())

	_, err := svc.Open("0001", "1", "Ana", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Deposit("0001", "1", mustMoney(t, "10")))

	time.Sleep(5 * time.Millisecond)
	cut := time.Now()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.Withdraw("0001", "1", mustMoney(t, "4")))

	all, err := svc.Statement("0001", "1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all[0], "Deposit: deposit: +10")
	assert.Contains(t, all[1], "Withdrawal: withdrawal: -4")

	since, err := svc.Statement("0001", "1", &cut)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, all[1], since[0])

	future := time.Now().Add(time.Hour)
	_, err = svc.Statement("0001", "1", &future)
	require.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
