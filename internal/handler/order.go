package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/leandrosq/pizzaria-backend/internal/api"
	"github.com/leandrosq/pizzaria-backend/internal/domain/branch"
	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
)

// submitOrder handles POST /api/order: validates, prices, persists, and
// returns the order with its engine-computed prices.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitOrderRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Submit(r.Context(), req.ToDomain())
	if err != nil {
		h.mapSubmitError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, map[string]any{
		"message": "OK",
		"order":   api.FromOrder(o),
	})
}

// mapSubmitError translates domain errors into HTTP responses: malformed
// submissions and the zero-total business rule are 400, unresolvable
// references are 422, anything else is 500.
func (h *Handler) mapSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrMissingCustomer),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrUnknownSource),
		errors.Is(err, order.ErrUnknownPaymentType):
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, order.ErrZeroTotal):
		respondError(w, r, http.StatusBadRequest, "the total value of the order is below or equals zero")
		return
	}

	var nfErr *catalog.NotFoundError
	if errors.As(err, &nfErr) {
		respondError(w, r, http.StatusUnprocessableEntity, nfErr.Error())
		return
	}
	var tmErr *order.TooManyFlavorsError
	if errors.As(err, &tmErr) {
		respondError(w, r, http.StatusUnprocessableEntity, tmErr.Error())
		return
	}
	var smErr *order.SlotMismatchError
	if errors.As(err, &smErr) {
		respondError(w, r, http.StatusUnprocessableEntity, smErr.Error())
		return
	}
	if errors.Is(err, promotion.ErrNotFound) || errors.Is(err, branch.ErrNoneAvailable) {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	zctx.From(r.Context()).Error("submit order", zap.Error(err))
	respondError(w, r, http.StatusInternalServerError, "unable to insert order on database")
}

// listOrders handles GET /api/order.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list orders", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to search orders on database")
		return
	}

	respond(w, r, http.StatusOK, map[string]any{
		"message": "OK",
		"orders":  api.FromOrders(orders),
	})
}

// getOrder handles GET /api/order/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, err.Error())
			return
		}
		zctx.From(r.Context()).Error("get order", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to search order on database")
		return
	}

	respond(w, r, http.StatusOK, map[string]any{
		"message": "OK",
		"order":   api.FromOrder(o),
	})
}

// updateOrder handles PUT /api/order/{id}: a thin field-level patch,
// including status transitions.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateOrderRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.orders.Update(r.Context(), r.PathValue("id"), req.ToDomain())
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, map[string]any{"message": "OK"})
	case errors.Is(err, order.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrUnknownStatus), errors.Is(err, order.ErrUnknownPaymentType):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		zctx.From(r.Context()).Error("update order", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to update order on database")
	}
}

// deleteOrder handles DELETE /api/order/{id}. Administrative use only.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	err := h.orders.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, map[string]any{"message": "OK"})
	case errors.Is(err, order.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		zctx.From(r.Context()).Error("delete order", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "unable to delete order on database")
	}
}
