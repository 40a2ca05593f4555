package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogapp "github.com/jcmexdev/katana-shop/internal/catalog/app"
	orderapp "github.com/jcmexdev/katana-shop/internal/order/app"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
	"github.com/jcmexdev/katana-shop/internal/pkg/requestmeta"
)

const maxBodyBytes = 1 << 20

// Handler serves the storefront API.
type Handler struct {
	orders      OrderService
	catalog     CatalogService
	diagnostics Diagnostics
}

func NewHandler(orders OrderService, catalog CatalogService, diagnostics Diagnostics) *Handler {
	return &Handler{
		orders:      orders,
		catalog:     catalog,
		diagnostics: diagnostics,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Katana Shop Backend is running"})
}

// ListKatanas returns up to ?limit katanas (default 50, 0 for all).
func (h *Handler) ListKatanas(w http.ResponseWriter, r *http.Request) {
	limit := catalogapp.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	katanas, err := h.catalog.List(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "list katanas failed", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, katanas)
}

// CreateOrder validates the request and stores the order once.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for i, it := range req.Items {
		if reason := quantityProblem(it.Quantity); reason != "" {
			writeValidationError(w, &domain.ValidationError{
				Field:  "items[" + strconv.Itoa(i) + "].quantity",
				Index:  i,
				Reason: reason,
			})
			return
		}
		items = append(items, domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  int(it.Quantity),
			UnitPrice: it.Price,
		})
	}

	id, err := h.orders.CreateOrder(r.Context(), orderapp.CreateOrderInput{
		CustomerName:   req.CustomerName,
		Email:          req.Email,
		Address:        req.Address,
		Items:          items,
		IdempotencyKey: requestmeta.IdempotencyKey(r.Context()),
	})

	var verr *domain.ValidationError
	var perr *domain.PersistenceError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
		return
	case errors.Is(err, orderapp.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
		return
	case errors.Is(err, orderapp.ErrIdempotencyInFlight):
		writeError(w, http.StatusConflict, "idempotency_in_flight", err.Error())
		return
	case errors.As(err, &perr):
		slog.ErrorContext(r.Context(), "order not persisted", "request_id", requestmeta.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "persistence_error", perr.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CreateOrderResponse{ID: id})
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", orderID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Diagnostics always answers 200; problems are reported in the body.
func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.diagnostics.Report(r.Context()))
}

// quantityProblem rejects JSON numbers that cannot become an int quantity.
// Range checks on valid integers are left to the order domain.
func quantityProblem(q float64) string {
	if q != math.Trunc(q) {
		return "must be an integer"
	}
	if math.Abs(q) > math.MaxInt32 {
		return "out of range"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

func writeValidationError(w http.ResponseWriter, err *domain.ValidationError) {
	resp := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
		Field:   err.Field,
	}
	if err.Index != domain.NoIndex {
		idx := err.Index
		resp.Index = &idx
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}
