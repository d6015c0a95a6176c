package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. Orders enter Processed at submission;
// later transitions are administrative updates.
type Status string

const (
	StatusRequested        Status = "Requested"
	StatusProcessed        Status = "Processed"
	StatusConfirmed        Status = "Confirmed"
	StatusInPreparation    Status = "InPreparation"
	StatusInTransportation Status = "InTransportation"
	StatusDelivered        Status = "Delivered"
	StatusNotDelivered     Status = "NotDelivered"
	StatusCancelled        Status = "Cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusProcessed, StatusConfirmed, StatusInPreparation,
		StatusInTransportation, StatusDelivered, StatusNotDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s ends the order lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusNotDelivered, StatusCancelled:
		return true
	}
	return false
}

// DashboardStatuses are the states shown on the live kitchen/dispatch board.
// Delivered and NotDelivered are done, Requested is not yet actionable.
var DashboardStatuses = []Status{
	StatusProcessed,
	StatusInTransportation,
	StatusInPreparation,
	StatusConfirmed,
	StatusCancelled,
}

// Source identifies where an order was placed.
type Source string

const (
	SourceSite    Source = "Site"
	SourceBalcony Source = "Balcony"
	SourceOthers  Source = "Others"
)

// Valid reports whether s is a known order source.
func (s Source) Valid() bool {
	switch s {
	case SourceSite, SourceBalcony, SourceOthers:
		return true
	}
	return false
}

// PaymentType enumerates the accepted payment methods.
type PaymentType string

const (
	PaymentElo             PaymentType = "Elo"
	PaymentCash            PaymentType = "Cash"
	PaymentVisa            PaymentType = "Visa"
	PaymentHipercard       PaymentType = "Hipercard"
	PaymentMastercard      PaymentType = "Mastercard"
	PaymentVRAlelo         PaymentType = "VR - Alelo"
	PaymentVRSodexo        PaymentType = "VR - Sodexo"
	PaymentVRTicket        PaymentType = "VR - Ticket"
	PaymentAmericanExpress PaymentType = "American Express"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentElo, PaymentCash, PaymentVisa, PaymentHipercard, PaymentMastercard,
		PaymentVRAlelo, PaymentVRSodexo, PaymentVRTicket, PaymentAmericanExpress:
		return true
	}
	return false
}

// Payment records how an order is paid. Change is the cash amount the
// courier must bring back; zero for card payments.
type Payment struct {
	Type   PaymentType     `json:"type"`
	Change decimal.Decimal `json:"change"`
}

// PizzaSelection is the customer's filling of one promotion pizza slot.
// Price is the engine-computed sum of extra charges; caller-supplied values
// are ignored.
type PizzaSelection struct {
	SizeID        string          `json:"size"`
	FlavorIDs     []string        `json:"flavors"`
	ComplementIDs []string        `json:"complements"`
	Observations  string          `json:"observations,omitempty"`
	Price         decimal.Decimal `json:"price"`
}

// DrinkSelection references a drink by ID with its denormalized name.
// Price is the engine-computed catalog price.
type DrinkSelection struct {
	DrinkID string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
}

// PromotionSelection is the customer's filled-in promotion: one pizza
// selection per slot plus the promotion's drinks. Price is the
// engine-computed base price plus pizza extras.
type PromotionSelection struct {
	PromotionID string           `json:"id"`
	Pizzas      []PizzaSelection `json:"pizzas"`
	Drinks      []DrinkSelection `json:"drinks"`
	Price       decimal.Decimal  `json:"price"`
}

// Order is the persisted order aggregate. Selections and their computed
// prices are embedded snapshots; later catalog changes never reprice them.
type Order struct {
	ID         string
	Code       int64
	BranchID   string
	CustomerID string
	Promotions []PromotionSelection
	Drinks     []DrinkSelection
	Total      decimal.Decimal
	Source     Source
	Status     Status
	Closed     bool
	Reason     string
	Payment    Payment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Update is a partial field-level patch applied to an existing order.
// Nil fields are left untouched.
type Update struct {
	Status     *Status
	Closed     *bool
	Reason     *string
	CustomerID *string
	Payment    *Payment
}

// Repository defines persistence operations for orders. Create assigns the
// sequential human-readable code and the timestamps.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, id string, u Update) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListOpen(ctx context.Context, branchID string) ([]Order, error)
	Delete(ctx context.Context, id string) error
}

// Broadcaster pushes order events to connected dashboard clients.
// Delivery is best effort; implementations must not block.
type Broadcaster interface {
	OrderCreated(ctx context.Context, o *Order)
}
