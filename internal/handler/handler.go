// Package handler implements the HTTP API on top of the domain services and
// repositories. Routing is a static registry of method-qualified patterns.
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
	"github.com/leandrosq/pizzaria-backend/internal/storage/postgres"
)

// Config carries handler-level settings.
type Config struct {
	// AuthToken guards the catalog and reference write routes. Empty
	// disables the guard.
	AuthToken string
}

// Handler serves the REST API. The order core is injected as a service; the
// plain CRUD entities talk to their repositories directly.
type Handler struct {
	cfg        Config
	orders     *order.Service
	catalog    *postgres.CatalogRepository
	promotions *postgres.PromotionRepository
	branches   *postgres.BranchRepository
	customers  *postgres.CustomerRepository
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	cfg Config,
	orders *order.Service,
	catalog *postgres.CatalogRepository,
	promotions *postgres.PromotionRepository,
	branches *postgres.BranchRepository,
	customers *postgres.CustomerRepository,
) *Handler {
	return &Handler{
		cfg:        cfg,
		orders:     orders,
		catalog:    catalog,
		promotions: promotions,
		branches:   branches,
		customers:  customers,
	}
}

// Register adds every API route to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/order", h.submitOrder)
	mux.HandleFunc("GET /api/order", h.listOrders)
	mux.HandleFunc("GET /api/order/{id}", h.getOrder)
	mux.HandleFunc("PUT /api/order/{id}", h.updateOrder)
	mux.HandleFunc("DELETE /api/order/{id}", h.deleteOrder)

	h.registerCRUD(mux)
}

// requireAuth wraps fn with a bearer-token check. Catalog writes come from
// the back office only; order submission stays public.
func (h *Handler) requireAuth(fn http.HandlerFunc) http.HandlerFunc {
	if h.cfg.AuthToken == "" {
		return fn
	}
	want := []byte("Bearer " + h.cfg.AuthToken)
	return func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			respondError(w, r, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		fn(w, r)
	}
}

// respond writes v as JSON with the given status.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

// respondError writes the standard error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, map[string]any{
		"code":    status,
		"message": message,
	})
}

// decode parses the request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
