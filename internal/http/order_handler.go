package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanpin0524/mini-ecommerce-API/internal/auth"
	"github.com/yanpin0524/mini-ecommerce-API/internal/order"
)

// CheckoutService is implemented by order.CheckoutService.
type CheckoutService interface {
	Checkout(ctx context.Context, userID string) (*order.Details, error)
}

// OrderEventsPublisher announces a committed checkout to the rest of the
// system. Publish failures are logged, never surfaced to the caller.
type OrderEventsPublisher interface {
	PublishOrderCreated(ctx context.Context, d *order.Details) error
}

type OrderHandler struct {
	repo      order.Repository
	checkout  CheckoutService
	publisher OrderEventsPublisher
	logger    *log.Logger
}

func NewOrderHandler(repo order.Repository, checkout CheckoutService, publisher OrderEventsPublisher, logger *log.Logger) *OrderHandler {
	return &OrderHandler{repo: repo, checkout: checkout, publisher: publisher, logger: logger}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, id.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	details, err := h.checkout.Checkout(ctx, id.UserID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, order.ErrProductGone):
			writeError(w, http.StatusBadRequest, "cart references a product that no longer exists")
		default:
			writeError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	if err := h.publisher.PublishOrderCreated(ctx, details); err != nil {
		h.logger.Printf("publish OrderCreated for order %s: %v", details.Order.ID, err)
	}

	writeJSON(w, http.StatusCreated, details)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	if details.Order.UserID != id.UserID && !id.Admin {
		writeError(w, http.StatusForbidden, "unauthorized access to order details")
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var body struct {
		DeliveryStatus order.Status `json:"deliveryStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.DeliveryStatus.Valid() {
		writeError(w, http.StatusBadRequest, "invalid delivery status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.UpdateDeliveryStatus(ctx, orderID, body.DeliveryStatus)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update delivery status")
		return
	}

	writeJSON(w, http.StatusOK, o)
}
