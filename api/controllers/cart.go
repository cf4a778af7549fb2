package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/api/middleware"
	"github.com/carlosmendieta/modique-backend/api/responses"
	"github.com/carlosmendieta/modique-backend/api/validators"
	cartsvc "github.com/carlosmendieta/modique-backend/internal/cart"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
)

// maxSizeLen bounds the size label accepted from clients.
const maxSizeLen = 32

type cartResponse struct {
	Message string        `json:"message"`
	Cart    *cartsvc.View `json:"cart"`
}

// CartGet returns the caller's cart, resolving each product against the
// live catalog.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Message: "Cart retrieved successfully", Cart: view})
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// CartAdd adds a sized product to the caller's cart, creating the cart on
// first use.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ProductID == "" || payload.Size == "" || payload.Quantity == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId, size, and quantity are required"))
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.AddItem(r.Context(), userID, cartsvc.AddItemInput{
			ProductID: productID,
			Size:      validators.SanitizeString(payload.Size, maxSizeLen),
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Message: "Product added to cart successfully", Cart: view})
	}
}

type updateCartQuantityRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Action    string `json:"action"`
}

// CartUpdateQuantity steps a variant's quantity up or down by one.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ProductID == "" || payload.Size == "" || payload.Action == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId, size, and action are required"))
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), userID, cartsvc.UpdateQuantityInput{
			ProductID: productID,
			Size:      validators.SanitizeString(payload.Size, maxSizeLen),
			Action:    payload.Action,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Message: "Cart updated successfully", Cart: view})
	}
}

type removeCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
}

// CartRemove drops a size variant from the caller's cart.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ProductID == "" || payload.Size == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId and size are required"))
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.RemoveItem(r.Context(), userID, cartsvc.RemoveItemInput{
			ProductID: productID,
			Size:      validators.SanitizeString(payload.Size, maxSizeLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Message: "Product removed from cart successfully", Cart: view})
	}
}

// CartClear removes every item from the caller's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Clear(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Message: "Cart cleared successfully", Cart: view})
	}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
