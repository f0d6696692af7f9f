package domain

// ControlType identifies one of the two synthetic control accounts.
type ControlType string

const (
	ControlTypeIncome  ControlType = "income"
	ControlTypeExpense ControlType = "expense"
)

// ControlAccount is a synthetic ledger account absorbing the other side of
// income and expense postings. Exactly two rows exist, created once at
// bootstrap and never modified afterwards. Control accounts are global and
// ownerless, and carry no materialized balance.
type ControlAccount struct {
	ID          int64
	Name        string
	Type        ControlType
	Description string
}

// Ref returns the polymorphic reference for this control account.
func (c *ControlAccount) Ref() AccountRef {
	return AccountRef{Kind: AccountKindControl, ID: c.ID}
}

// ControlAccounts is the handle to the two bootstrapped control accounts,
// loaded once at process start and passed into the ledger service.
type ControlAccounts struct {
	Income  *ControlAccount
	Expense *ControlAccount
}

// ForKind returns the control account that balances the given transaction kind.
func (c *ControlAccounts) ForKind(kind TransactionKind) *ControlAccount {
	if kind == TransactionKindIncome {
		return c.Income
	}
	return c.Expense
}
