package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the user-facing record of money moved between two owned
// accounts. Like transactions, transfers link to one journal entry and are
// soft-deleted.
type Transfer struct {
	ID             string
	UserID         int64
	OccurredAt     time.Time
	Amount         decimal.Decimal
	From           AccountRef
	To             AccountRef
	Method         string
	Memo           string
	JournalEntryID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Validate checks transfer constraints before any write.
func (t *Transfer) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.From.Equal(t.To) {
		return ErrSameAccount
	}

	for _, ref := range []AccountRef{t.From, t.To} {
		if ref.Kind != AccountKindBank && ref.Kind != AccountKindCreditCard {
			return ErrBalanceNotSupported
		}
	}

	return nil
}

// IsDeleted reports whether the transfer has been soft-deleted.
func (t *Transfer) IsDeleted() bool {
	return t.DeletedAt != nil
}
