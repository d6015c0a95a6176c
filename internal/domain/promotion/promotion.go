package promotion

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
)

// ErrNotFound is returned when a requested promotion does not exist.
var ErrNotFound = errors.New("promotion not found")

// PizzaSlot describes one pizza included in a promotion's base price: which
// size it is, how many flavors the customer may pick, and which flavor types
// and complements are covered without an extra charge.
type PizzaSlot struct {
	SizeID             string               `json:"size"`
	MaxSliceCount      int                  `json:"maxSliceCount"`
	AllowedFlavorTypes []catalog.FlavorType `json:"allowedFlavorTypes"`
	ComplementIDs      []string             `json:"complements"`
}

// AllowsFlavorType reports whether flavors of type t are covered by the
// slot's base price.
func (s PizzaSlot) AllowsFlavorType(t catalog.FlavorType) bool {
	for _, allowed := range s.AllowedFlavorTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// IncludesComplement reports whether the complement is covered by the slot's
// base price.
func (s PizzaSlot) IncludesComplement(id string) bool {
	for _, c := range s.ComplementIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Promotion is a fixed-price bundle of pizzas and drinks. Choices outside a
// slot's allowances are charged on top of Price at catalog rates.
type Promotion struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Highlighted bool            `json:"highlighted"`
	DrinkIDs    []string        `json:"drinks"`
	Pizzas      []PizzaSlot     `json:"pizzas"`
}

// Repository defines persistence operations for promotions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Promotion, error)
	List(ctx context.Context) ([]Promotion, error)
	Create(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id string) error
}
