package wishlist

import (
	"context"
	"testing"

	product "github.com/carlosmendieta/modique-backend/internal/products"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := product.OpenTestDB(t)
	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(db),
		ProductRepo:  product.NewRepository(db),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func TestGetWishlistNotFoundWhenEmpty(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)

	_, err := svc.GetWishlist(context.Background(), user.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Wishlist not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAddItemDeduplicates(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1299, map[string]int{"M": 4})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, prod.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddItem(ctx, user.ID, prod.ID)
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if len(view.Products) != 1 {
		t.Fatalf("expected 1 saved product, got %d", len(view.Products))
	}
	saved := view.Products[0]
	if saved.ID != prod.ID || saved.Price != "12.99" {
		t.Fatalf("unexpected product view %+v", saved)
	}
	if len(saved.Sizes) != 1 || saved.Sizes[0].Stock != 4 {
		t.Fatalf("expected resolved sizes, got %+v", saved.Sizes)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)

	_, err := svc.AddItem(context.Background(), user.ID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Product not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	first := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 4})
	second := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 4})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, first.ID); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := svc.AddItem(ctx, user.ID, second.ID); err != nil {
		t.Fatalf("add second: %v", err)
	}

	view, err := svc.RemoveItem(ctx, user.ID, first.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Products) != 1 || view.Products[0].ID != second.ID {
		t.Fatalf("expected only second product, got %+v", view.Products)
	}

	// Removing a product that was never saved is a silent no-op.
	view, err = svc.RemoveItem(ctx, user.ID, uuid.New())
	if err != nil {
		t.Fatalf("remove unknown: %v", err)
	}
	if len(view.Products) != 1 {
		t.Fatalf("expected list unchanged, got %+v", view.Products)
	}
}

func TestRemoveItemWithoutWishlist(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)

	_, err := svc.RemoveItem(context.Background(), user.ID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "Wishlist not found" {
		t.Fatalf("unexpected message %q", got)
	}
}
