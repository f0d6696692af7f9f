package domain

import "time"

// Category labels transactions. A category is typed income or expense and
// may only be attached to transactions of the matching kind.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Kind      TransactionKind
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether the category can label a transaction of the
// given kind.
func (c *Category) Matches(kind TransactionKind) bool {
	return c.Kind == kind
}
