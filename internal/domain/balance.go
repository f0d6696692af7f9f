package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the materialized current balance of one account,
// maintained transactionally by the ledger service and reconcilable
// against posting history. LastPostingID points at the posting that most
// recently touched it.
type AccountBalance struct {
	Account       AccountRef
	BalanceAmount decimal.Decimal
	LastPostingID *int64
	UpdatedAt     time.Time
}

// Apply adds delta and records the triggering posting.
func (b *AccountBalance) Apply(delta decimal.Decimal, postingID int64, now time.Time) {
	b.BalanceAmount = b.BalanceAmount.Add(delta)
	b.LastPostingID = &postingID
	b.UpdatedAt = now
}
