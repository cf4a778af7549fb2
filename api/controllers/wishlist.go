package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/api/responses"
	"github.com/carlosmendieta/modique-backend/api/validators"
	wishlistsvc "github.com/carlosmendieta/modique-backend/internal/wishlist"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
)

type wishlistResponse struct {
	Message  string            `json:"message"`
	Wishlist *wishlistsvc.View `json:"wishlist"`
}

// WishlistGet returns the caller's saved products, newest first.
func WishlistGet(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetWishlist(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Message: "Wishlist retrieved successfully", Wishlist: view})
	}
}

type addWishlistItemRequest struct {
	ProductID string `json:"productId"`
}

// WishlistAdd saves a product to the caller's wishlist. Re-adding an
// already saved product is a no-op.
func WishlistAdd(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addWishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ProductID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.AddItem(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Message: "Product added to wishlist successfully", Wishlist: view})
	}
}

// WishlistRemove drops a product from the caller's wishlist.
func WishlistRemove(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.RemoveItem(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Message: "Product removed from wishlist successfully", Wishlist: view})
	}
}
