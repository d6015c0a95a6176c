// Package api holds the JSON wire representation shared by the HTTP handlers
// and the realtime dashboard channel. Money travels as float64 on the wire
// and as decimal.Decimal everywhere else.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
)

// Payment mirrors order.Payment on the wire.
type Payment struct {
	Type   string  `json:"type"`
	Change float64 `json:"change"`
}

// PizzaSelection mirrors order.PizzaSelection on the wire.
type PizzaSelection struct {
	Size         string   `json:"size"`
	Flavors      []string `json:"flavors"`
	Complements  []string `json:"complements"`
	Observations string   `json:"observations,omitempty"`
	Price        float64  `json:"price"`
}

// DrinkSelection mirrors order.DrinkSelection on the wire.
type DrinkSelection struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price"`
}

// PromotionSelection mirrors order.PromotionSelection on the wire.
type PromotionSelection struct {
	ID     string           `json:"id"`
	Pizzas []PizzaSelection `json:"pizzas"`
	Drinks []DrinkSelection `json:"drinks"`
	Price  float64          `json:"price"`
}

// Order is the full order document returned to API callers and pushed to
// dashboard clients.
type Order struct {
	ID         string               `json:"id"`
	Code       int64                `json:"code"`
	Branch     string               `json:"branch"`
	Customer   string               `json:"customer"`
	Promotions []PromotionSelection `json:"promotions"`
	Drinks     []DrinkSelection     `json:"drinks"`
	Total      float64              `json:"total"`
	Source     string               `json:"source"`
	Status     string               `json:"status"`
	Closed     bool                 `json:"closed"`
	Reason     string               `json:"reason,omitempty"`
	Payment    struct {
		Method Payment `json:"method"`
	} `json:"payment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubmitOrderRequest is the POST /api/order payload. Price fields are
// ignored; the pricing engine recomputes everything.
type SubmitOrderRequest struct {
	Branch     string               `json:"branch"`
	Customer   string               `json:"customer"`
	Source     string               `json:"source"`
	Promotions []PromotionSelection `json:"promotions"`
	Drinks     []DrinkSelection     `json:"drinks"`
	Payment    struct {
		Method Payment `json:"method"`
	} `json:"payment"`
}

// UpdateOrderRequest is the PUT /api/order/{id} payload. Nil fields are left
// untouched.
type UpdateOrderRequest struct {
	Status   *string  `json:"status"`
	Closed   *bool    `json:"closed"`
	Reason   *string  `json:"reason"`
	Customer *string  `json:"customer"`
	Payment  *struct {
		Method Payment `json:"method"`
	} `json:"payment"`
}

// ToDomain converts the submission payload into a domain request.
func (r SubmitOrderRequest) ToDomain() order.SubmitRequest {
	return order.SubmitRequest{
		BranchID:   r.Branch,
		CustomerID: r.Customer,
		Source:     order.Source(r.Source),
		Promotions: promotionSelectionsToDomain(r.Promotions),
		Drinks:     drinkSelectionsToDomain(r.Drinks),
		Payment: order.Payment{
			Type:   order.PaymentType(r.Payment.Method.Type),
			Change: decimal.NewFromFloat(r.Payment.Method.Change),
		},
	}
}

// ToDomain converts the update payload into a domain patch.
func (r UpdateOrderRequest) ToDomain() order.Update {
	u := order.Update{
		Closed:     r.Closed,
		Reason:     r.Reason,
		CustomerID: r.Customer,
	}
	if r.Status != nil {
		s := order.Status(*r.Status)
		u.Status = &s
	}
	if r.Payment != nil {
		u.Payment = &order.Payment{
			Type:   order.PaymentType(r.Payment.Method.Type),
			Change: decimal.NewFromFloat(r.Payment.Method.Change),
		}
	}
	return u
}

// FromOrder converts a domain order into its wire form.
func FromOrder(o *order.Order) Order {
	out := Order{
		ID:         o.ID,
		Code:       o.Code,
		Branch:     o.BranchID,
		Customer:   o.CustomerID,
		Promotions: promotionSelectionsFromDomain(o.Promotions),
		Drinks:     drinkSelectionsFromDomain(o.Drinks),
		Total:      o.Total.InexactFloat64(),
		Source:     string(o.Source),
		Status:     string(o.Status),
		Closed:     o.Closed,
		Reason:     o.Reason,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	out.Payment.Method = Payment{
		Type:   string(o.Payment.Type),
		Change: o.Payment.Change.InexactFloat64(),
	}
	return out
}

// FromOrders converts a slice of domain orders.
func FromOrders(orders []order.Order) []Order {
	out := make([]Order, len(orders))
	for i := range orders {
		out[i] = FromOrder(&orders[i])
	}
	return out
}

func promotionSelectionsToDomain(sels []PromotionSelection) []order.PromotionSelection {
	if len(sels) == 0 {
		return nil
	}
	out := make([]order.PromotionSelection, len(sels))
	for i, s := range sels {
		out[i] = order.PromotionSelection{
			PromotionID: s.ID,
			Pizzas:      pizzaSelectionsToDomain(s.Pizzas),
			Drinks:      drinkSelectionsToDomain(s.Drinks),
		}
	}
	return out
}

func pizzaSelectionsToDomain(sels []PizzaSelection) []order.PizzaSelection {
	out := make([]order.PizzaSelection, len(sels))
	for i, s := range sels {
		out[i] = order.PizzaSelection{
			SizeID:        s.Size,
			FlavorIDs:     s.Flavors,
			ComplementIDs: s.Complements,
			Observations:  s.Observations,
		}
	}
	return out
}

func drinkSelectionsToDomain(sels []DrinkSelection) []order.DrinkSelection {
	if len(sels) == 0 {
		return nil
	}
	out := make([]order.DrinkSelection, len(sels))
	for i, s := range sels {
		out[i] = order.DrinkSelection{DrinkID: s.ID, Name: s.Name}
	}
	return out
}

func promotionSelectionsFromDomain(sels []order.PromotionSelection) []PromotionSelection {
	out := make([]PromotionSelection, len(sels))
	for i, s := range sels {
		out[i] = PromotionSelection{
			ID:     s.PromotionID,
			Pizzas: pizzaSelectionsFromDomain(s.Pizzas),
			Drinks: drinkSelectionsFromDomain(s.Drinks),
			Price:  s.Price.InexactFloat64(),
		}
	}
	return out
}

func pizzaSelectionsFromDomain(sels []order.PizzaSelection) []PizzaSelection {
	out := make([]PizzaSelection, len(sels))
	for i, s := range sels {
		out[i] = PizzaSelection{
			Size:         s.SizeID,
			Flavors:      s.FlavorIDs,
			Complements:  s.ComplementIDs,
			Observations: s.Observations,
			Price:        s.Price.InexactFloat64(),
		}
	}
	return out
}

func drinkSelectionsFromDomain(sels []order.DrinkSelection) []DrinkSelection {
	out := make([]DrinkSelection, len(sels))
	for i, s := range sels {
		out[i] = DrinkSelection{ID: s.DrinkID, Name: s.Name, Price: s.Price.InexactFloat64()}
	}
	return out
}
