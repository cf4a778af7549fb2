package users

import (
	"context"
	"errors"
	"time"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// View is the user payload exposed to admins. The password hash never
// leaves the service layer.
type View struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToggleResult reports the activity flag after a toggle.
type ToggleResult struct {
	UserID   uuid.UUID
	IsActive bool
}

// Service exposes the administrative user operations.
type Service interface {
	ListAll(ctx context.Context, limit int) ([]View, error)
	GetByID(ctx context.Context, id uuid.UUID) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResult, error)
}

type service struct {
	repo Repository
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAll(ctx context.Context, limit int) ([]View, error) {
	users, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	views := make([]View, 0, len(users))
	for i := range users {
		views = append(views, newView(&users[i]))
	}
	return views, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*View, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newView(user)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResult, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := !user.IsActive
	if err := s.repo.SetActive(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle user active")
	}
	return &ToggleResult{UserID: id, IsActive: next}, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func newView(user *models.User) View {
	return View{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Role:        user.Role.String(),
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
