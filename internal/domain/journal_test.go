package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPosting_Normalization(t *testing.T) {
	now := time.Now()
	acct := AccountRef{Kind: AccountKindBank, ID: 1}

	tests := []struct {
		name   string
		amount decimal.Decimal
		ptype  PostingType
		want   decimal.Decimal
	}{
		{
			name:   "debit keeps positive amount positive",
			amount: decimal.NewFromInt(100),
			ptype:  PostingTypeDebit,
			want:   decimal.NewFromInt(100),
		},
		{
			name:   "debit forces negative amount positive",
			amount: decimal.NewFromInt(-100),
			ptype:  PostingTypeDebit,
			want:   decimal.NewFromInt(100),
		},
		{
			name:   "credit forces positive amount negative",
			amount: decimal.NewFromInt(250),
			ptype:  PostingTypeCredit,
			want:   decimal.NewFromInt(-250),
		},
		{
			name:   "credit keeps negative amount negative",
			amount: decimal.NewFromInt(-250),
			ptype:  PostingTypeCredit,
			want:   decimal.NewFromInt(-250),
		},
		{
			name:   "fractional credit",
			amount: decimal.RequireFromString("19.99"),
			ptype:  PostingTypeCredit,
			want:   decimal.RequireFromString("-19.99"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPosting(1, acct, tt.amount, tt.ptype, "", now)

			if !p.Amount.Equal(tt.want) {
				t.Errorf("expected amount %s, got %s", tt.want, p.Amount)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("normalized posting should validate: %v", err)
			}
		})
	}
}

func TestPosting_Validate(t *testing.T) {
	acct := AccountRef{Kind: AccountKindBank, ID: 1}

	tests := []struct {
		name        string
		posting     *Posting
		expectError error
	}{
		{
			name:        "debit with negative amount",
			posting:     &Posting{Account: acct, Amount: decimal.NewFromInt(-5), Type: PostingTypeDebit},
			expectError: ErrPostingSign,
		},
		{
			name:        "credit with positive amount",
			posting:     &Posting{Account: acct, Amount: decimal.NewFromInt(5), Type: PostingTypeCredit},
			expectError: ErrPostingSign,
		},
		{
			name:        "zero amount debit",
			posting:     &Posting{Account: acct, Amount: decimal.Zero, Type: PostingTypeDebit},
			expectError: ErrPostingSign,
		},
		{
			name:        "unknown account kind",
			posting:     &Posting{Account: AccountRef{Kind: "loan", ID: 1}, Amount: decimal.NewFromInt(5), Type: PostingTypeDebit},
			expectError: ErrUnknownAccountKind,
		},
		{
			name:        "valid credit",
			posting:     &Posting{Account: acct, Amount: decimal.NewFromInt(-5), Type: PostingTypeCredit},
			expectError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.posting.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && err != tt.expectError {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestSumPostings(t *testing.T) {
	now := time.Now()
	acct := AccountRef{Kind: AccountKindBank, ID: 1}
	control := AccountRef{Kind: AccountKindControl, ID: 1}

	balanced := []*Posting{
		NewPosting(1, acct, decimal.RequireFromString("500.00"), PostingTypeDebit, "", now),
		NewPosting(1, control, decimal.RequireFromString("500.00"), PostingTypeCredit, "", now),
	}

	if sum := SumPostings(balanced); !sum.IsZero() {
		t.Errorf("balanced entry should sum to zero, got %s", sum)
	}

	unbalanced := []*Posting{
		NewPosting(1, acct, decimal.RequireFromString("500.00"), PostingTypeDebit, "", now),
		NewPosting(1, control, decimal.RequireFromString("499.99"), PostingTypeCredit, "", now),
	}

	if sum := SumPostings(unbalanced); sum.IsZero() {
		t.Error("unbalanced entry should not sum to zero")
	}
}
