//go:build integration

package integration

import (
	"net/http"
	"testing"
)

type flavorResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Price       float64  `json:"price"`
	Type        string   `json:"type"`
}

func TestListFlavors(t *testing.T) {
	resp := doGet(t, "/api/flavor")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	envelope := decodeJSON[struct {
		Flavors []flavorResponse `json:"flavors"`
	}](t, resp)
	if len(envelope.Flavors) < 7 {
		t.Fatalf("expected at least 7 seeded flavors, got %d", len(envelope.Flavors))
	}

	byID := make(map[string]flavorResponse, len(envelope.Flavors))
	for _, f := range envelope.Flavors {
		byID[f.ID] = f
	}
	truffle, ok := byID["flavor-truffle"]
	if !ok {
		t.Fatal("flavor-truffle not seeded")
	}
	if truffle.Type != "Premium" {
		t.Errorf("flavor-truffle type: got %q, want Premium", truffle.Type)
	}
}

func TestFlavorCRUD(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/flavor", map[string]any{
		"name":        "Pepperoni",
		"ingredients": []string{"mozzarella", "pepperoni"},
		"price":       9.0,
		"type":        "Traditional",
	}, authToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", resp.StatusCode)
	}
	created := decodeJSON[struct {
		Data flavorResponse `json:"data"`
	}](t, resp)
	resp.Body.Close()
	if created.Data.ID == "" {
		t.Fatal("create did not assign an ID")
	}

	resp = do(t, http.MethodPut, "/api/flavor/"+created.Data.ID, map[string]any{
		"name":        "Pepperoni",
		"ingredients": []string{"mozzarella", "pepperoni", "oregano"},
		"price":       9.5,
		"type":        "Traditional",
	}, authToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, "/api/flavor/"+created.Data.ID, nil, authToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, "/api/flavor/"+created.Data.ID, nil, authToken)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete again: expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateFlavor_UnknownType(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/flavor", map[string]any{
		"name": "Mystery",
		"type": "Mystical",
	}, authToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreatePromotion_InvalidSlot(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/promotion", map[string]any{
		"name":  "Broken Promo",
		"price": 10.0,
		"pizzas": []map[string]any{{
			"size":               "size-large",
			"maxSliceCount":      2,
			"allowedFlavorTypes": []string{},
		}},
	}, authToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
