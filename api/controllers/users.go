package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/api/responses"
	"github.com/carlosmendieta/modique-backend/api/validators"
	usersvc "github.com/carlosmendieta/modique-backend/internal/users"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/pagination"
)

type userResponse struct {
	Message string        `json:"message"`
	User    *usersvc.View `json:"user"`
}

type userListResponse struct {
	Message string         `json:"message"`
	Users   []usersvc.View `json:"users"`
}

type userActionResponse struct {
	Message string `json:"message"`
}

// UsersList returns accounts, newest first. An optional limit query
// parameter caps the page size.
func UsersList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListAll(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, userListResponse{Message: "Users retrieved successfully", Users: views})
	}
}

// UsersGet returns a single account by id.
func UsersGet(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, userResponse{Message: "User retrieved successfully", User: view})
	}
}

// UsersDelete removes an account.
func UsersDelete(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, userActionResponse{Message: fmt.Sprintf("User %s deleted successfully", fullName(view))})
	}
}

// UsersToggleActive flips an account between active and inactive.
func UsersToggleActive(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ToggleActive(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := "inactive"
		if result.IsActive {
			state = "active"
		}
		responses.WriteSuccess(w, userActionResponse{Message: fmt.Sprintf("User %s is now %s", fullName(view), state)})
	}
}

func fullName(view *usersvc.View) string {
	return strings.TrimSpace(view.FirstName + " " + view.LastName)
}

func pathUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
