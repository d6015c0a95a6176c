package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
)

// --- Mock implementations ---

type mockCatalog struct {
	flavors     map[string]catalog.Flavor
	complements map[string]catalog.Complement
	drinks      map[string]catalog.Drink
	sizes       map[string]catalog.Size
}

func (m *mockCatalog) FlavorsByIDs(_ context.Context, ids []string) ([]catalog.Flavor, error) {
	out := make([]catalog.Flavor, 0, len(ids))
	for _, id := range ids {
		f, ok := m.flavors[id]
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "flavor", ID: id}
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *mockCatalog) ComplementsByIDs(_ context.Context, ids []string) ([]catalog.Complement, error) {
	out := make([]catalog.Complement, 0, len(ids))
	for _, id := range ids {
		c, ok := m.complements[id]
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "complement", ID: id}
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalog) DrinkByID(_ context.Context, id string) (*catalog.Drink, error) {
	d, ok := m.drinks[id]
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "drink", ID: id}
	}
	return &d, nil
}

func (m *mockCatalog) SizeByID(_ context.Context, id string) (*catalog.Size, error) {
	s, ok := m.sizes[id]
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "size", ID: id}
	}
	return &s, nil
}

type mockPromotionRepo struct {
	byID map[string]*promotion.Promotion
}

func (m *mockPromotionRepo) GetByID(_ context.Context, id string) (*promotion.Promotion, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, promotion.ErrNotFound
	}
	return p, nil
}

// --- Helpers ---

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestCatalog returns a catalog with one traditional flavor, one premium
// flavor, one complement, and one drink.
func newTestCatalog() *mockCatalog {
	return &mockCatalog{
		flavors: map[string]catalog.Flavor{
			"flavor-marguerita": {
				ID:    "flavor-marguerita",
				Name:  "Marguerita",
				Price: money("8.00"),
				Type:  catalog.FlavorTraditional,
			},
			"flavor-truffle": {
				ID:    "flavor-truffle",
				Name:  "Truffle",
				Price: money("15.50"),
				Type:  catalog.FlavorPremium,
			},
		},
		complements: map[string]catalog.Complement{
			"comp-catupiry": {ID: "comp-catupiry", Name: "Catupiry border", Price: money("10.00")},
		},
		drinks: map[string]catalog.Drink{
			"drink-soda": {ID: "drink-soda", Name: "Soda 2L", Price: money("9.90")},
		},
		sizes: map[string]catalog.Size{
			"size-large": {ID: "size-large", Name: "Large", Slices: 8},
		},
	}
}

// newTestPromotion returns a 34.90 promotion with a single slot allowing two
// traditional flavors and no covered complements.
func newTestPromotion() *promotion.Promotion {
	return &promotion.Promotion{
		ID:    "promo-1",
		Name:  "Large traditional",
		Price: money("34.90"),
		Pizzas: []promotion.PizzaSlot{
			{
				SizeID:             "size-large",
				MaxSliceCount:      2,
				AllowedFlavorTypes: []catalog.FlavorType{catalog.FlavorTraditional},
			},
		},
	}
}

func newTestPricer(promos ...*promotion.Promotion) *Pricer {
	byID := make(map[string]*promotion.Promotion, len(promos))
	for _, p := range promos {
		byID[p.ID] = p
	}
	return NewPricer(newTestCatalog(), &mockPromotionRepo{byID: byID}, 0)
}

// --- Tests ---

func TestPricePromotion_WithinAllowances(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
		},
	}

	require.NoError(t, p.PricePromotion(context.Background(), &sel))
	assert.True(t, money("34.90").Equal(sel.Price), "got %s", sel.Price)
	assert.True(t, decimal.Zero.Equal(sel.Pizzas[0].Price))
}

func TestPricePromotion_ExtraComplement(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{
				SizeID:        "size-large",
				FlavorIDs:     []string{"flavor-marguerita"},
				ComplementIDs: []string{"comp-catupiry"},
			},
		},
	}

	require.NoError(t, p.PricePromotion(context.Background(), &sel))
	assert.True(t, money("44.90").Equal(sel.Price), "got %s", sel.Price)
	assert.True(t, money("10.00").Equal(sel.Pizzas[0].Price))
}

func TestPricePromotion_ExtraFlavorType(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita", "flavor-truffle"}},
		},
	}

	require.NoError(t, p.PricePromotion(context.Background(), &sel))
	// Traditional flavor covered, premium charged as extra.
	assert.True(t, money("50.40").Equal(sel.Price), "got %s", sel.Price)
}

func TestPricePromotion_CoveredComplementIsFree(t *testing.T) {
	promo := newTestPromotion()
	promo.Pizzas[0].ComplementIDs = []string{"comp-catupiry"}
	p := newTestPricer(promo)

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{
				SizeID:        "size-large",
				FlavorIDs:     []string{"flavor-marguerita"},
				ComplementIDs: []string{"comp-catupiry"},
			},
		},
	}

	require.NoError(t, p.PricePromotion(context.Background(), &sel))
	assert.True(t, money("34.90").Equal(sel.Price), "got %s", sel.Price)
}

func TestPricePromotion_TooManyFlavors(t *testing.T) {
	promo := newTestPromotion()
	promo.Pizzas[0].MaxSliceCount = 1
	p := newTestPricer(promo)

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita", "flavor-truffle"}},
		},
	}

	err := p.PricePromotion(context.Background(), &sel)
	var tmErr *TooManyFlavorsError
	require.ErrorAs(t, err, &tmErr)
	assert.Equal(t, 1, tmErr.Max)
	assert.Equal(t, 2, tmErr.Got)
}

func TestPricePromotion_MoreSelectionsThanSlots(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
		},
	}

	err := p.PricePromotion(context.Background(), &sel)
	var smErr *SlotMismatchError
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, 1, smErr.Slots)
}

func TestPricePromotion_UnknownFlavor(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-missing"}},
		},
	}

	err := p.PricePromotion(context.Background(), &sel)
	var nfErr *catalog.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "flavor-missing", nfErr.ID)
}

func TestPricePromotion_UnknownPromotion(t *testing.T) {
	p := newTestPricer()

	sel := PromotionSelection{PromotionID: "promo-missing"}
	err := p.PricePromotion(context.Background(), &sel)
	require.ErrorIs(t, err, promotion.ErrNotFound)
}

func TestPricePromotion_IncludedDrinkIsFree(t *testing.T) {
	promo := newTestPromotion()
	promo.DrinkIDs = []string{"drink-soda"}
	p := newTestPricer(promo)

	sel := PromotionSelection{
		PromotionID: "promo-1",
		Pizzas: []PizzaSelection{
			{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
		},
		Drinks: []DrinkSelection{{DrinkID: "drink-soda"}},
	}

	require.NoError(t, p.PricePromotion(context.Background(), &sel))
	assert.True(t, money("34.90").Equal(sel.Price))
	assert.Equal(t, "Soda 2L", sel.Drinks[0].Name)
	assert.True(t, decimal.Zero.Equal(sel.Drinks[0].Price))
}

func TestPriceDrink(t *testing.T) {
	p := newTestPricer()

	sel := DrinkSelection{DrinkID: "drink-soda"}
	require.NoError(t, p.PriceDrink(context.Background(), &sel))
	assert.True(t, money("9.90").Equal(sel.Price))
	assert.Equal(t, "Soda 2L", sel.Name)
}

func TestPriceDrink_Unknown(t *testing.T) {
	p := newTestPricer()

	sel := DrinkSelection{DrinkID: "drink-missing"}
	err := p.PriceDrink(context.Background(), &sel)
	var nfErr *catalog.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestPriceOrder_Empty(t *testing.T) {
	p := newTestPricer()

	total, err := p.PriceOrder(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(total))
}

func TestPriceOrder_SumsPromotionsAndDrinks(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	promos := []PromotionSelection{
		{
			PromotionID: "promo-1",
			Pizzas: []PizzaSelection{
				{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
			},
		},
	}
	drinks := []DrinkSelection{{DrinkID: "drink-soda"}}

	total, err := p.PriceOrder(context.Background(), promos, drinks)
	require.NoError(t, err)
	assert.True(t, money("44.80").Equal(total), "got %s", total)
	assert.True(t, money("34.90").Equal(promos[0].Price))
	assert.True(t, money("9.90").Equal(drinks[0].Price))
}

func TestPriceOrder_Idempotent(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	build := func() []PromotionSelection {
		return []PromotionSelection{
			{
				PromotionID: "promo-1",
				Pizzas: []PizzaSelection{
					{
						SizeID:        "size-large",
						FlavorIDs:     []string{"flavor-marguerita"},
						ComplementIDs: []string{"comp-catupiry"},
					},
				},
			},
		}
	}

	first, err := p.PriceOrder(context.Background(), build(), nil)
	require.NoError(t, err)
	second, err := p.PriceOrder(context.Background(), build(), nil)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestPriceOrder_FailsOnAnyBadReference(t *testing.T) {
	p := newTestPricer(newTestPromotion())

	promos := []PromotionSelection{
		{
			PromotionID: "promo-1",
			Pizzas: []PizzaSelection{
				{SizeID: "size-large", FlavorIDs: []string{"flavor-marguerita"}},
			},
		},
	}
	drinks := []DrinkSelection{{DrinkID: "drink-missing"}}

	_, err := p.PriceOrder(context.Background(), promos, drinks)
	var nfErr *catalog.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
