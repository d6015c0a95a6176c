package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leandrosq/pizzaria-backend/internal/domain/branch"
	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
	"github.com/leandrosq/pizzaria-backend/internal/domain/customer"
	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
)

// registerCRUD adds the plain create/read/update/delete routes for the
// catalog and reference entities. These carry no business logic.
func (h *Handler) registerCRUD(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/flavor", h.listFlavors)
	mux.HandleFunc("POST /api/flavor", h.requireAuth(h.createFlavor))
	mux.HandleFunc("PUT /api/flavor/{id}", h.requireAuth(h.updateFlavor))
	mux.HandleFunc("DELETE /api/flavor/{id}", h.requireAuth(h.crudDelete(h.catalog.DeleteFlavor)))

	mux.HandleFunc("GET /api/complement", h.listComplements)
	mux.HandleFunc("POST /api/complement", h.requireAuth(h.createComplement))
	mux.HandleFunc("PUT /api/complement/{id}", h.requireAuth(h.updateComplement))
	mux.HandleFunc("DELETE /api/complement/{id}", h.requireAuth(h.crudDelete(h.catalog.DeleteComplement)))

	mux.HandleFunc("GET /api/drink", h.listDrinks)
	mux.HandleFunc("POST /api/drink", h.requireAuth(h.createDrink))
	mux.HandleFunc("PUT /api/drink/{id}", h.requireAuth(h.updateDrink))
	mux.HandleFunc("DELETE /api/drink/{id}", h.requireAuth(h.crudDelete(h.catalog.DeleteDrink)))

	mux.HandleFunc("GET /api/size", h.listSizes)
	mux.HandleFunc("POST /api/size", h.requireAuth(h.createSize))
	mux.HandleFunc("PUT /api/size/{id}", h.requireAuth(h.updateSize))
	mux.HandleFunc("DELETE /api/size/{id}", h.requireAuth(h.crudDelete(h.catalog.DeleteSize)))

	mux.HandleFunc("GET /api/branch", h.listBranches)
	mux.HandleFunc("POST /api/branch", h.requireAuth(h.createBranch))
	mux.HandleFunc("PUT /api/branch/{id}", h.requireAuth(h.updateBranch))
	mux.HandleFunc("DELETE /api/branch/{id}", h.requireAuth(h.crudDelete(h.branches.Delete)))

	mux.HandleFunc("GET /api/customer", h.listCustomers)
	mux.HandleFunc("POST /api/customer", h.requireAuth(h.createCustomer))
	mux.HandleFunc("PUT /api/customer/{id}", h.requireAuth(h.updateCustomer))
	mux.HandleFunc("DELETE /api/customer/{id}", h.requireAuth(h.crudDelete(h.customers.Delete)))

	mux.HandleFunc("GET /api/promotion", h.listPromotions)
	mux.HandleFunc("POST /api/promotion", h.requireAuth(h.createPromotion))
	mux.HandleFunc("PUT /api/promotion/{id}", h.requireAuth(h.updatePromotion))
	mux.HandleFunc("DELETE /api/promotion/{id}", h.requireAuth(h.crudDelete(h.promotions.Delete)))
}

// isNotFound reports whether err is any of the entity not-found errors.
func isNotFound(err error) bool {
	var nfErr *catalog.NotFoundError
	return errors.As(err, &nfErr) ||
		errors.Is(err, branch.ErrNotFound) ||
		errors.Is(err, customer.ErrNotFound) ||
		errors.Is(err, promotion.ErrNotFound)
}

// crudList writes the standard list envelope, mapping repository failures
// to 500.
func crudList[T any](w http.ResponseWriter, r *http.Request, key string, items []T, err error) {
	if err != nil {
		zctx.From(r.Context()).Error("list "+key, zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to search "+key+" on database")
		return
	}
	if items == nil {
		items = []T{}
	}
	respond(w, r, http.StatusOK, map[string]any{"message": "OK", key: items})
}

// crudWrite finalizes create/update calls with the standard envelope.
func crudWrite(w http.ResponseWriter, r *http.Request, v any, err error) {
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, map[string]any{"message": "OK", "data": v})
	case isNotFound(err):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		zctx.From(r.Context()).Error("write entity", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to write on database")
	}
}

// crudDelete wraps a repository delete into a handler.
func (h *Handler) crudDelete(del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := del(r.Context(), r.PathValue("id"))
		switch {
		case err == nil:
			respond(w, r, http.StatusOK, map[string]any{"message": "OK"})
		case isNotFound(err):
			respondError(w, r, http.StatusNotFound, err.Error())
		default:
			zctx.From(r.Context()).Error("delete entity", zap.Error(err))
			respondError(w, r, http.StatusInternalServerError, "unable to delete on database")
		}
	}
}

// --- Flavors ---

func (h *Handler) listFlavors(w http.ResponseWriter, r *http.Request) {
	flavors, err := h.catalog.ListFlavors(r.Context())
	crudList(w, r, "flavors", flavors, err)
}

func (h *Handler) createFlavor(w http.ResponseWriter, r *http.Request) {
	var f catalog.Flavor
	if err := decode(r, &f); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if f.Name == "" || !f.Type.Valid() {
		respondError(w, r, http.StatusBadRequest, "name and a valid type are required")
		return
	}
	f.ID = uuid.New().String()
	crudWrite(w, r, f, h.catalog.CreateFlavor(r.Context(), &f))
}

func (h *Handler) updateFlavor(w http.ResponseWriter, r *http.Request) {
	var f catalog.Flavor
	if err := decode(r, &f); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !f.Type.Valid() {
		respondError(w, r, http.StatusBadRequest, "a valid flavor type is required")
		return
	}
	f.ID = r.PathValue("id")
	crudWrite(w, r, f, h.catalog.UpdateFlavor(r.Context(), &f))
}

// --- Complements ---

func (h *Handler) listComplements(w http.ResponseWriter, r *http.Request) {
	complements, err := h.catalog.ListComplements(r.Context())
	crudList(w, r, "complements", complements, err)
}

func (h *Handler) createComplement(w http.ResponseWriter, r *http.Request) {
	var c catalog.Complement
	if err := decode(r, &c); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = uuid.New().String()
	crudWrite(w, r, c, h.catalog.CreateComplement(r.Context(), &c))
}

func (h *Handler) updateComplement(w http.ResponseWriter, r *http.Request) {
	var c catalog.Complement
	if err := decode(r, &c); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = r.PathValue("id")
	crudWrite(w, r, c, h.catalog.UpdateComplement(r.Context(), &c))
}

// --- Drinks ---

func (h *Handler) listDrinks(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.catalog.ListDrinks(r.Context())
	crudList(w, r, "drinks", drinks, err)
}

func (h *Handler) createDrink(w http.ResponseWriter, r *http.Request) {
	var d catalog.Drink
	if err := decode(r, &d); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	d.ID = uuid.New().String()
	crudWrite(w, r, d, h.catalog.CreateDrink(r.Context(), &d))
}

func (h *Handler) updateDrink(w http.ResponseWriter, r *http.Request) {
	var d catalog.Drink
	if err := decode(r, &d); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	d.ID = r.PathValue("id")
	crudWrite(w, r, d, h.catalog.UpdateDrink(r.Context(), &d))
}

// --- Sizes ---

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.catalog.ListSizes(r.Context())
	crudList(w, r, "sizes", sizes, err)
}

func (h *Handler) createSize(w http.ResponseWriter, r *http.Request) {
	var s catalog.Size
	if err := decode(r, &s); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	s.ID = uuid.New().String()
	crudWrite(w, r, s, h.catalog.CreateSize(r.Context(), &s))
}

func (h *Handler) updateSize(w http.ResponseWriter, r *http.Request) {
	var s catalog.Size
	if err := decode(r, &s); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	s.ID = r.PathValue("id")
	crudWrite(w, r, s, h.catalog.UpdateSize(r.Context(), &s))
}

// --- Branches ---

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branches.List(r.Context())
	crudList(w, r, "branches", branches, err)
}

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var b branch.Branch
	if err := decode(r, &b); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	b.ID = uuid.New().String()
	crudWrite(w, r, b, h.branches.Create(r.Context(), &b))
}

func (h *Handler) updateBranch(w http.ResponseWriter, r *http.Request) {
	var b branch.Branch
	if err := decode(r, &b); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	b.ID = r.PathValue("id")
	crudWrite(w, r, b, h.branches.Update(r.Context(), &b))
}

// --- Customers ---

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	crudList(w, r, "customers", customers, err)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c customer.Customer
	if err := decode(r, &c); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = uuid.New().String()
	crudWrite(w, r, c, h.customers.Create(r.Context(), &c))
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var c customer.Customer
	if err := decode(r, &c); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = r.PathValue("id")
	crudWrite(w, r, c, h.customers.Update(r.Context(), &c))
}

// --- Promotions ---

func (h *Handler) listPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.promotions.List(r.Context())
	crudList(w, r, "promotions", promotions, err)
}

func (h *Handler) createPromotion(w http.ResponseWriter, r *http.Request) {
	var p promotion.Promotion
	if err := decode(r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validatePromotion(&p); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = uuid.New().String()
	crudWrite(w, r, p, h.promotions.Create(r.Context(), &p))
}

func (h *Handler) updatePromotion(w http.ResponseWriter, r *http.Request) {
	var p promotion.Promotion
	if err := decode(r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validatePromotion(&p); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = r.PathValue("id")
	crudWrite(w, r, p, h.promotions.Update(r.Context(), &p))
}

// validatePromotion enforces the shape an orderable promotion must have:
// non-negative slice ceilings and at least one allowed flavor type per slot.
func validatePromotion(p *promotion.Promotion) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	for i, slot := range p.Pizzas {
		if slot.MaxSliceCount < 0 {
			return errors.Errorf("pizza slot %d: maxSliceCount must not be negative", i)
		}
		if len(slot.AllowedFlavorTypes) == 0 {
			return errors.Errorf("pizza slot %d: at least one allowed flavor type is required", i)
		}
		for _, t := range slot.AllowedFlavorTypes {
			if !t.Valid() {
				return errors.Errorf("pizza slot %d: unknown flavor type %q", i, t)
			}
		}
	}
	return nil
}
