package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
)

// TooManyFlavorsError indicates a pizza selection exceeds its slot's
// MaxSliceCount.
type TooManyFlavorsError struct {
	PromotionID string
	Slot        int
	Max         int
	Got         int
}

func (e *TooManyFlavorsError) Error() string {
	return fmt.Sprintf("promotion %s pizza %d allows at most %d flavors, got %d",
		e.PromotionID, e.Slot, e.Max, e.Got)
}

// SlotMismatchError indicates a promotion selection carries more pizzas than
// the promotion has slots.
type SlotMismatchError struct {
	PromotionID string
	Slots       int
	Got         int
}

func (e *SlotMismatchError) Error() string {
	return fmt.Sprintf("promotion %s has %d pizza slots, got %d selections",
		e.PromotionID, e.Slots, e.Got)
}

// PromotionReader provides promotion lookups for pricing.
type PromotionReader interface {
	GetByID(ctx context.Context, id string) (*promotion.Promotion, error)
}

// Pricer turns caller-declared selections into verified, engine-computed
// prices. It never trusts caller-supplied price fields and never substitutes
// zero for an unresolvable reference.
type Pricer struct {
	catalog    catalog.Reader
	promotions PromotionReader
	timeout    time.Duration
}

// NewPricer creates a Pricer. The timeout bounds the catalog resolution of a
// whole order; zero disables it.
func NewPricer(cat catalog.Reader, promos PromotionReader, timeout time.Duration) *Pricer {
	return &Pricer{
		catalog:    cat,
		promotions: promos,
		timeout:    timeout,
	}
}

// PriceOrder computes every selection's price in place and returns the grand
// total, rounded to two decimal places. Selections are independent, so their
// catalog round-trips fan out concurrently and are all joined before any
// summation.
func (p *Pricer) PriceOrder(ctx context.Context, promotions []PromotionSelection, drinks []DrinkSelection) (decimal.Decimal, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range promotions {
		g.Go(func() error {
			return p.PricePromotion(ctx, &promotions[i])
		})
	}
	for i := range drinks {
		g.Go(func() error {
			return p.PriceDrink(ctx, &drinks[i])
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range promotions {
		total = total.Add(promotions[i].Price)
	}
	for i := range drinks {
		total = total.Add(drinks[i].Price)
	}
	return total.Round(2), nil
}

// PriceDrink resolves the drink and writes its catalog price and name into
// the selection.
func (p *Pricer) PriceDrink(ctx context.Context, sel *DrinkSelection) error {
	d, err := p.catalog.DrinkByID(ctx, sel.DrinkID)
	if err != nil {
		return errors.Wrap(err, "resolve drink")
	}
	sel.Name = d.Name
	sel.Price = d.Price
	return nil
}

// PricePromotion computes the charged price for a filled-in promotion: the
// promotion's base price plus the extra charges of every pizza selection.
// Pizza selections fill slots by position. Per-pizza extras are written into
// the selection so the persisted order keeps the full breakdown.
func (p *Pricer) PricePromotion(ctx context.Context, sel *PromotionSelection) error {
	promo, err := p.promotions.GetByID(ctx, sel.PromotionID)
	if err != nil {
		return errors.Wrapf(err, "resolve promotion %s", sel.PromotionID)
	}

	if len(sel.Pizzas) > len(promo.Pizzas) {
		return &SlotMismatchError{
			PromotionID: promo.ID,
			Slots:       len(promo.Pizzas),
			Got:         len(sel.Pizzas),
		}
	}

	total := promo.Price
	for i := range sel.Pizzas {
		extra, err := p.pricePizza(ctx, &sel.Pizzas[i], promo, i)
		if err != nil {
			return err
		}
		total = total.Add(extra)
	}

	for i := range sel.Drinks {
		// Promotion drinks are included in the base price; resolve them only
		// to verify the reference and denormalize the name.
		d, err := p.catalog.DrinkByID(ctx, sel.Drinks[i].DrinkID)
		if err != nil {
			return errors.Wrap(err, "resolve promotion drink")
		}
		sel.Drinks[i].Name = d.Name
		sel.Drinks[i].Price = decimal.Zero
	}

	sel.Price = total.Round(2)
	return nil
}

// pricePizza computes the extra charge of one pizza selection against its
// slot: complements outside the slot's allow-list and flavors whose type is
// outside the slot's allowed types, both at catalog price.
func (p *Pricer) pricePizza(ctx context.Context, sel *PizzaSelection, promo *promotion.Promotion, slotIdx int) (decimal.Decimal, error) {
	slot := promo.Pizzas[slotIdx]

	if slot.MaxSliceCount > 0 && len(sel.FlavorIDs) > slot.MaxSliceCount {
		return decimal.Zero, &TooManyFlavorsError{
			PromotionID: promo.ID,
			Slot:        slotIdx,
			Max:         slot.MaxSliceCount,
			Got:         len(sel.FlavorIDs),
		}
	}

	flavors, err := p.catalog.FlavorsByIDs(ctx, sel.FlavorIDs)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "resolve flavors")
	}
	complements, err := p.catalog.ComplementsByIDs(ctx, sel.ComplementIDs)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "resolve complements")
	}

	extra := decimal.Zero
	for _, f := range flavors {
		if !slot.AllowsFlavorType(f.Type) {
			extra = extra.Add(f.Price)
		}
	}
	for _, c := range complements {
		if !slot.IncludesComplement(c.ID) {
			extra = extra.Add(c.Price)
		}
	}

	sel.Price = extra.Round(2)
	return sel.Price, nil
}
