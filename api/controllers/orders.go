package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/api/middleware"
	"github.com/carlosmendieta/modique-backend/api/responses"
	"github.com/carlosmendieta/modique-backend/api/validators"
	ordersvc "github.com/carlosmendieta/modique-backend/internal/orders"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/pagination"
	"github.com/carlosmendieta/modique-backend/pkg/types"
)

type orderResponse struct {
	Message string         `json:"message"`
	Order   *ordersvc.View `json:"order"`
}

// orderDetailResponse is the bare single-order shape the detail endpoint
// returns, with no message envelope.
type orderDetailResponse struct {
	Order *ordersvc.View `json:"order"`
}

type orderListResponse struct {
	Message string          `json:"message"`
	Orders  []ordersvc.View `json:"orders"`
}

type orderPageResponse struct {
	Message    string          `json:"message"`
	Orders     []ordersvc.View `json:"orders"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// OrdersListAll returns orders newest first, one cursor page at a time.
func OrdersListAll(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAll(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderPageResponse{
			Message:    "All orders retrieved successfully",
			Orders:     page.Orders,
			NextCursor: page.NextCursor,
		})
	}
}

// OrdersListMine returns the caller's own orders, newest first.
func OrdersListMine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderListResponse{Message: "User orders retrieved successfully", Orders: views})
	}
}

// OrdersGet resolves a single order by its public number. Customers may
// only read their own orders.
func OrdersGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber := chi.URLParam(r, "orderId")
		view, err := svc.GetByOrderNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin)
		if !isAdmin && view.UserID != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFoundf("Order not found"))
			return
		}

		responses.WriteSuccess(w, orderDetailResponse{Order: view})
	}
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// createOrderRequest accepts the checkout payload as clients send it.
// Subtotal and total are decoded but ignored: amounts are always recomputed
// server-side from catalog prices. The shipping fee is taken as a proposal
// and capped by the service.
type createOrderRequest struct {
	Items            []orderItemPayload `json:"items"`
	ShippingAddress  types.Address      `json:"shippingAddress"`
	ShippingFeeCents int64              `json:"shippingFeeCents"`
	ShippingFee      int64              `json:"shippingFee"`
	Subtotal         int64              `json:"subtotal"`
	Total            int64              `json:"total"`
}

// shippingFee prefers the explicit cents field, falling back to the
// checkout UI's shippingFee name.
func (req createOrderRequest) shippingFee() int64 {
	if req.ShippingFeeCents != 0 {
		return req.ShippingFeeCents
	}
	return req.ShippingFee
}

// OrdersCreate places an order from the submitted lines. Amounts are
// recomputed server-side, payment is captured separately.
func OrdersCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.ItemInput, 0, len(payload.Items))
		for _, line := range payload.Items {
			productID, parseErr := uuid.Parse(line.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			items = append(items, ordersvc.ItemInput{
				ProductID: productID,
				Size:      validators.SanitizeString(line.Size, maxSizeLen),
				Quantity:  line.Quantity,
			})
		}

		view, err := svc.Create(r.Context(), userID, ordersvc.CreateInput{
			Items:            items,
			ShippingAddress:  payload.ShippingAddress,
			ShippingFeeCents: payload.shippingFee(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orderResponse{Message: "Order created successfully (without payment)", Order: view})
	}
}

type addPaymentRequest struct {
	Method        string  `json:"method"`
	TransactionID *string `json:"transactionId"`
}

// OrdersAddPayment captures payment for a pending order.
func OrdersAddPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber := chi.URLParam(r, "orderId")
		view, err := svc.AddPayment(r.Context(), orderNumber, ordersvc.PaymentInput{
			Method:        payload.Method,
			TransactionID: payload.TransactionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderResponse{Message: "Payment added successfully", Order: view})
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// OrdersUpdateStatus moves an order to the requested status.
func OrdersUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber := chi.URLParam(r, "orderId")
		view, err := svc.UpdateStatus(r.Context(), orderNumber, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderResponse{Message: "Order status updated successfully", Order: view})
	}
}
