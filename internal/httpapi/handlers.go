package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"postavka-be/internal/logger"
	"postavka-be/internal/middleware"
	"postavka-be/internal/order"
	"postavka-be/internal/supplier"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type handler struct {
	orders order.Service
}

type createOrderRequest struct {
	SupplierID int64 `json:"supplier_id"`
}

type lineItemRequest struct {
	ProductID int64 `json:"product_id"`
	Amount    int64 `json:"amount"`
}

type removeProductsRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

type setStatusRequest struct {
	Status        string  `json:"status"`
	CancelComment *string `json:"cancel_comment"`
}

type lineItemResponse struct {
	ProductID int64 `json:"product_id"`
	Amount    int64 `json:"amount"`
}

type orderResponse struct {
	ID            int64              `json:"id"`
	Number        string             `json:"number"`
	Status        string             `json:"status"`
	CancelComment *string            `json:"cancel_comment,omitempty"`
	UserID        int64              `json:"user_id"`
	SupplierID    int64              `json:"supplier_id"`
	Products      []lineItemResponse `json:"products"`
}

func toOrderResponse(o *order.Order) orderResponse {
	products := make([]lineItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		products = append(products, lineItemResponse{ProductID: item.ProductID, Amount: item.Amount})
	}
	return orderResponse{
		ID:            o.ID,
		Number:        o.Number.String(),
		Status:        string(o.Status),
		CancelComment: o.CancelComment,
		UserID:        o.UserID,
		SupplierID:    o.SupplierID,
		Products:      products,
	}
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), userID, req.SupplierID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *handler) addProducts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req []lineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	items := make([]order.LineItemInput, 0, len(req))
	for _, item := range req {
		items = append(items, order.LineItemInput{ProductID: item.ProductID, Amount: item.Amount})
	}

	o, err := h.orders.AddLineItems(r.Context(), orderID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *handler) removeProducts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req removeProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.ProductIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	o, err := h.orders.RemoveLineItems(r.Context(), orderID, req.ProductIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *handler) setStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	o, err := h.orders.SetNextStatus(r.Context(), orderID, order.Status(req.Status), req.CancelComment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return 0, false
	}
	return id, true
}

type errorBody struct {
	Error               string  `json:"error"`
	NotSuppliedProducts []int64 `json:"not_supplied_products,omitempty"`

	// Set when the status change committed but the supplier was not
	// notified; the caller may retry the same status request to resend.
	SupplierNotNotified bool           `json:"supplier_not_notified,omitempty"`
	Order               *orderResponse `json:"order,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidTransition *order.InvalidTransitionError
		unsupplied        *order.UnsuppliedProductsError
		publishErr        *order.PublishError
	)

	switch {
	case errors.As(err, &publishErr):
		resp := toOrderResponse(publishErr.Order)
		writeJSON(w, http.StatusBadGateway, errorBody{
			Error:               "order status committed but supplier was not notified",
			SupplierNotNotified: true,
			Order:               &resp,
		})
	case errors.As(err, &unsupplied):
		writeJSON(w, http.StatusConflict, errorBody{
			Error:               "order contains products not supplied by its supplier",
			NotSuppliedProducts: unsupplied.ProductIDs,
		})
	case errors.As(err, &invalidTransition):
		writeJSON(w, http.StatusConflict, errorBody{Error: invalidTransition.Error()})
	case errors.Is(err, order.ErrStatusConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, supplier.ErrSupplierNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, order.ErrMissingCancelReason),
		errors.Is(err, order.ErrOrderNotForming),
		errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrNoItems):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
