package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmountFor(t *testing.T) {
	origin := "acc-a"
	destination := "acc-b"
	amount := decimal.RequireFromString("25.50")

	cases := []struct {
		name    string
		tx      Transaction
		account string
		want    string
	}{
		{
			name:    "deposit credits the origin slot",
			tx:      Transaction{Type: TransactionTypeDeposit, Amount: amount, OriginID: &origin},
			account: origin,
			want:    "25.50",
		},
		{
			name:    "withdraw debits the origin",
			tx:      Transaction{Type: TransactionTypeWithdraw, Amount: amount, OriginID: &origin},
			account: origin,
			want:    "-25.50",
		},
		{
			name:    "internal transfer debits the origin",
			tx:      Transaction{Type: TransactionTypeTransferInternal, Amount: amount, OriginID: &origin, DestinationID: &destination},
			account: origin,
			want:    "-25.50",
		},
		{
			name:    "internal transfer credits the destination",
			tx:      Transaction{Type: TransactionTypeTransferInternal, Amount: amount, OriginID: &origin, DestinationID: &destination},
			account: destination,
			want:    "25.50",
		},
		{
			name:    "external transfer debits the origin",
			tx:      Transaction{Type: TransactionTypeTransferExternal, Amount: amount, OriginID: &origin},
			account: origin,
			want:    "-25.50",
		},
		{
			name:    "unrelated account contributes nothing",
			tx:      Transaction{Type: TransactionTypeTransferInternal, Amount: amount, OriginID: &origin, DestinationID: &destination},
			account: "acc-z",
			want:    "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.tx.SignedAmountFor(tc.account)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"want %s, got %s", tc.want, got)
		})
	}
}
