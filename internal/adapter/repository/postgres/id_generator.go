package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID ids for user-facing records. Ledger rows
// keep bigserial ids assigned by the database.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
