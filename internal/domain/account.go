package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the concrete account types a posting can target.
type AccountKind string

const (
	AccountKindBank       AccountKind = "bank"
	AccountKindCreditCard AccountKind = "credit_card"
	AccountKindControl    AccountKind = "control"
)

// IsValid checks if the kind is a known account kind.
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindBank, AccountKindCreditCard, AccountKindControl:
		return true
	}
	return false
}

// AccountRef identifies one concrete account as a (kind, id) pair.
// Two refs are the same account only when both kind and id match: a bank
// account and a credit card sharing a numeric id are distinct accounts.
type AccountRef struct {
	Kind AccountKind `json:"kind"`
	ID   int64       `json:"id"`
}

// Equal reports whether two refs identify the same concrete account.
func (r AccountRef) Equal(other AccountRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// Less orders refs by (kind, id). Used to take balance row locks in a
// deterministic order.
func (r AccountRef) Less(other AccountRef) bool {
	if r.Kind != other.Kind {
		return r.Kind < other.Kind
	}
	return r.ID < other.ID
}

func (r AccountRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// BalanceAccount is the capability contract for accounts that carry a
// materialized balance. Control accounts deliberately do not implement it.
type BalanceAccount interface {
	Ref() AccountRef
	Opening() decimal.Decimal
}

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusArchived AccountStatus = "archived"
)

// BankAccount is a user-owned bank account (savings, wallet, cash).
type BankAccount struct {
	ID                 int64
	UserID             int64
	Name               string
	Institution        string
	AccountNumberLast4 string
	OpeningBalance     decimal.Decimal
	Currency           string
	Status             AccountStatus
	OpenedOn           *time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Ref returns the polymorphic reference for this account.
func (a *BankAccount) Ref() AccountRef {
	return AccountRef{Kind: AccountKindBank, ID: a.ID}
}

// Opening returns the balance the account started with.
func (a *BankAccount) Opening() decimal.Decimal {
	return a.OpeningBalance
}

// MaskedNumber returns the display form of the account number.
func (a *BankAccount) MaskedNumber() string {
	if a.AccountNumberLast4 == "" {
		return "N/A"
	}
	return "****" + a.AccountNumberLast4
}

// CreditCard is a user-owned credit card. Its balance is negative while
// money is owed and positive only on overpayment.
type CreditCard struct {
	ID              int64
	UserID          int64
	Name            string
	Institution     string
	CardNumberLast4 string
	CardType        string
	CreditLimit     decimal.Decimal
	BillingDay      int
	DueDay          int
	OpeningBalance  decimal.Decimal
	Currency        string
	Status          AccountStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Ref returns the polymorphic reference for this card.
func (c *CreditCard) Ref() AccountRef {
	return AccountRef{Kind: AccountKindCreditCard, ID: c.ID}
}

// Opening returns the balance the card started with.
func (c *CreditCard) Opening() decimal.Decimal {
	return c.OpeningBalance
}

// MaskedNumber returns the display form of the card number.
func (c *CreditCard) MaskedNumber() string {
	if c.CardNumberLast4 == "" {
		return "N/A"
	}
	return "****" + c.CardNumberLast4
}

// AvailableCredit computes remaining credit from the current balance.
// A balance of -5000 against a 50000 limit leaves 45000 available.
func (c *CreditCard) AvailableCredit(balance decimal.Decimal) decimal.Decimal {
	return c.CreditLimit.Add(balance)
}

// AmountOwed is the absolute value of a negative balance, zero otherwise.
func (c *CreditCard) AmountOwed(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return balance.Neg()
	}
	return decimal.Zero
}
