package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingType labels a posting as a debit or a credit.
type PostingType string

const (
	PostingTypeDebit  PostingType = "debit"
	PostingTypeCredit PostingType = "credit"
)

// JournalEntry is one complete financial event: two or more postings that
// must net to zero. Entries are immutable once balanced; the only
// destructive operation is whole-entry deletion, which cascades postings.
type JournalEntry struct {
	ID         int64
	UserID     int64
	OccurredAt time.Time
	Memo       string
	CreatedAt  time.Time
}

// Posting is one signed leg of a journal entry against one account.
// Sign follows the posting type regardless of the sign the caller passed:
// debits are positive, credits negative.
type Posting struct {
	ID             int64
	JournalEntryID int64
	Account        AccountRef
	Amount         decimal.Decimal
	Type           PostingType
	Memo           string
	CreatedAt      time.Time
}

// NewPosting builds a posting with the amount normalized to the sign
// convention. Only the magnitude of amount matters.
func NewPosting(entryID int64, account AccountRef, amount decimal.Decimal, ptype PostingType, memo string, now time.Time) *Posting {
	amount = amount.Abs()
	if ptype == PostingTypeCredit {
		amount = amount.Neg()
	}

	return &Posting{
		JournalEntryID: entryID,
		Account:        account,
		Amount:         amount,
		Type:           ptype,
		Memo:           memo,
		CreatedAt:      now,
	}
}

// Validate checks the sign convention.
func (p *Posting) Validate() error {
	if !p.Account.Kind.IsValid() {
		return ErrUnknownAccountKind
	}

	switch p.Type {
	case PostingTypeDebit:
		if !p.Amount.IsPositive() {
			return ErrPostingSign
		}
	case PostingTypeCredit:
		if !p.Amount.IsNegative() {
			return ErrPostingSign
		}
	default:
		return ErrPostingSign
	}

	return nil
}

// SumPostings returns the net amount across postings. Zero for a balanced
// entry.
func SumPostings(postings []*Posting) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range postings {
		sum = sum.Add(p.Amount)
	}

	return sum
}
