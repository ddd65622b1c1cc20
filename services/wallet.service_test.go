package services

import (
	"testing"

	"lingo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletDeposit(t *testing.T) {
	f := newFixture(t, nil)

	txn, err := f.svc.Wallet.Deposit(f.ctx, f.student, 12.5)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeDeposit, txn.TransactionType)
	assert.Equal(t, 0.0, txn.BalanceBefore)
	assert.Equal(t, 12.5, txn.BalanceAfter)

	balance, err := f.svc.Wallet.Balance(f.ctx, f.student)
	require.NoError(t, err)
	assert.Equal(t, 12.5, balance)

	_, err = f.svc.Wallet.Deposit(f.ctx, f.student, -1)
	assertCode(t, err, "BAD_REQUEST")
	_, err = f.svc.Wallet.Deposit(f.ctx, 9999, 1)
	assertCode(t, err, "NOT_FOUND")
}
