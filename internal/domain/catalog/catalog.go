package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// FlavorType classifies pizza flavors for promotion eligibility.
type FlavorType string

const (
	FlavorTraditional FlavorType = "Traditional"
	FlavorSweet       FlavorType = "Sweet"
	FlavorPremium     FlavorType = "Premium"
)

// Valid reports whether t is one of the known flavor types.
func (t FlavorType) Valid() bool {
	switch t {
	case FlavorTraditional, FlavorSweet, FlavorPremium:
		return true
	}
	return false
}

// Size represents a pizza size option.
type Size struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slices int    `json:"slices"`
}

// Flavor represents a pizza flavor. Price is the extra charge applied when
// the flavor falls outside a promotion slot's allowed types.
type Flavor struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Ingredients []string        `json:"ingredients"`
	Price       decimal.Decimal `json:"price"`
	Type        FlavorType      `json:"type"`
}

// Complement represents a pizza add-on. Price is the extra charge applied
// when the complement is not covered by a promotion slot.
type Complement struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Drink represents a drink catalog item.
type Drink struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NotFoundError indicates a referenced catalog entity does not exist.
// Pricing treats it as a hard input error, never as a zero price.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Reader provides the read-only catalog lookups used by order pricing.
// Batch lookups must fail with NotFoundError when any requested ID is absent.
type Reader interface {
	FlavorsByIDs(ctx context.Context, ids []string) ([]Flavor, error)
	ComplementsByIDs(ctx context.Context, ids []string) ([]Complement, error)
	DrinkByID(ctx context.Context, id string) (*Drink, error)
	SizeByID(ctx context.Context, id string) (*Size, error)
}
