package domain_test

import (
	"testing"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestWalletAccount_CanApply(t *testing.T) {
	tests := []struct {
		name    string
		wallet  domain.WalletAccount
		amount  string
		allowed bool
	}{
		{
			name:    "credit always allowed",
			wallet:  domain.WalletAccount{Balance: dec("0")},
			amount:  "10.00",
			allowed: true,
		},
		{
			name:    "debit within balance",
			wallet:  domain.WalletAccount{Balance: dec("50.00")},
			amount:  "-40.00",
			allowed: true,
		},
		{
			name:    "debit over balance without credit",
			wallet:  domain.WalletAccount{Balance: dec("50.00")},
			amount:  "-60.00",
			allowed: false,
		},
		{
			name: "debit over balance covered by credit limit",
			wallet: domain.WalletAccount{
				Balance:                dec("50.00"),
				NegativeBalanceAllowed: true,
				CreditLimit:            dec("20.00"),
			},
			amount:  "-60.00",
			allowed: true,
		},
		{
			name: "credit limit ignored when negative balance not allowed",
			wallet: domain.WalletAccount{
				Balance:     dec("50.00"),
				CreditLimit: dec("20.00"),
			},
			amount:  "-60.00",
			allowed: false,
		},
		{
			name: "debit exactly to the floor",
			wallet: domain.WalletAccount{
				Balance:                dec("50.00"),
				NegativeBalanceAllowed: true,
				CreditLimit:            dec("20.00"),
			},
			amount:  "-70.00",
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.wallet.CanApply(dec(tt.amount)))
		})
	}
}

func TestLedgerEntry_Reversal(t *testing.T) {
	entry := domain.LedgerEntry{
		EntryID:      "entry-1",
		AccountID:    "acct-1",
		Amount:       dec("-40.00"),
		CurrencyCode: "USD",
		Reason:       domain.ReasonPayout,
		ReferenceID:  "payout-1",
	}

	rev := entry.Reversal("entry-2")

	assert.Equal(t, "entry-2", rev.EntryID)
	assert.Equal(t, "acct-1", rev.AccountID)
	assert.True(t, rev.Amount.Equal(dec("40.00")))
	assert.Equal(t, domain.ReasonReversal, rev.Reason)
	assert.Equal(t, "payout-1", rev.ReferenceID)
	assert.NotNil(t, rev.OriginalEntryID)
	assert.Equal(t, "entry-1", *rev.OriginalEntryID)
	assert.True(t, entry.Amount.Add(rev.Amount).IsZero())
}
