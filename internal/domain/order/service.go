package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leandrosq/pizzaria-backend/internal/domain/branch"
)

// Sentinel errors for order submission.
var (
	ErrMissingCustomer    = errors.New("customer required")
	ErrEmptyOrder         = errors.New("at least one promotion or drink required")
	ErrUnknownSource      = errors.New("unknown order source")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrUnknownPaymentType = errors.New("unknown payment type")
	// ErrZeroTotal rejects orders whose computed total is not positive.
	ErrZeroTotal = errors.New("order total is below or equals zero")
)

// SubmitRequest holds the caller input for a new order. Price fields inside
// the selections are ignored and recomputed by the pricing engine.
type SubmitRequest struct {
	BranchID   string
	CustomerID string
	Source     Source
	Promotions []PromotionSelection
	Drinks     []DrinkSelection
	Payment    Payment
}

// Service orchestrates order submission: validation, branch resolution,
// pricing, status assignment, persistence, and event broadcast. It also
// handles field updates on existing orders.
type Service struct {
	pricer      *Pricer
	orders      Repository
	branches    branch.Selector
	broadcaster Broadcaster
}

// NewService creates an order Service with the required dependencies.
func NewService(
	pricer *Pricer,
	orders Repository,
	branches branch.Selector,
	broadcaster Broadcaster,
) *Service {
	return &Service{
		pricer:      pricer,
		orders:      orders,
		branches:    branches,
		broadcaster: broadcaster,
	}
}

// Submit validates the request, resolves the target branch, prices every
// selection, persists the order with status Processed, and broadcasts the
// persisted document to dashboard clients. Pricing or reference-resolution
// failures abort before any write; broadcast failures never fail the
// submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Order, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomer
	}
	if !req.Source.Valid() {
		return nil, ErrUnknownSource
	}
	if !req.Payment.Type.Valid() {
		return nil, ErrUnknownPaymentType
	}
	if len(req.Promotions) == 0 && len(req.Drinks) == 0 {
		return nil, ErrEmptyOrder
	}

	branchID := req.BranchID
	if branchID == "" {
		b, err := s.branches.Select(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "select branch")
		}
		branchID = b.ID
	}

	total, err := s.pricer.PriceOrder(ctx, req.Promotions, req.Drinks)
	if err != nil {
		return nil, errors.Wrap(err, "price order")
	}
	if total.Sign() <= 0 {
		return nil, ErrZeroTotal
	}

	o := &Order{
		ID:         uuid.New().String(),
		BranchID:   branchID,
		CustomerID: req.CustomerID,
		Promotions: req.Promotions,
		Drinks:     req.Drinks,
		Total:      total,
		Source:     req.Source,
		Status:     StatusProcessed,
		Payment:    req.Payment,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// Fire and forget: the dashboard push must not block or fail the
	// submission. WithoutCancel keeps the broadcast alive after the HTTP
	// request context is done.
	go func(ctx context.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zctx.From(ctx).Error("broadcast panic", zap.Any("panic", rec))
			}
		}()
		s.broadcaster.OrderCreated(ctx, o)
	}(context.WithoutCancel(ctx))

	return o, nil
}

// Update applies a partial field patch to an existing order. Beyond shape
// checks on the enums this is a thin passthrough.
func (s *Service) Update(ctx context.Context, id string, u Update) error {
	if u.Status != nil && !u.Status.Valid() {
		return ErrUnknownStatus
	}
	if u.Payment != nil && !u.Payment.Type.Valid() {
		return ErrUnknownPaymentType
	}
	return s.orders.Update(ctx, id, u)
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// ListOpen answers the dashboard initial-load query: open, non-closed orders
// of the branch in actionable statuses, oldest first.
func (s *Service) ListOpen(ctx context.Context, branchID string) ([]Order, error) {
	return s.orders.ListOpen(ctx, branchID)
}

// Delete removes an order permanently. Administrative use only.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
