package cart

import (
	"context"
	"testing"

	product "github.com/carlosmendieta/modique-backend/internal/products"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := product.OpenTestDB(t)
	svc, err := NewService(NewRepository(db), product.NewRepository(db), gormTxRunner{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !pkgerrors.IsCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestGetReturnsEmptyPlaceholder(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)

	view, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, view.UserID)
	}
	if view.Items == nil || len(view.Items) != 0 {
		t.Fatalf("expected empty items slice, got %+v", view.Items)
	}
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 2599, map[string]int{"M": 3})

	view, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: prod.ID,
		Size:      "M",
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(view.Items))
	}
	item := view.Items[0]
	if item.ProductID != prod.ID {
		t.Fatalf("expected product %s, got %s", prod.ID, item.ProductID)
	}
	if item.Product == nil || item.Product.Title != "Test Product" {
		t.Fatalf("expected resolved product, got %+v", item.Product)
	}
	if len(item.Variants) != 1 || item.Variants[0].Size != "M" || item.Variants[0].Quantity != 2 {
		t.Fatalf("expected variant M x2, got %+v", item.Variants)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: uuid.New(),
		Size:      "M",
		Quantity:  1,
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if got := pkgerrors.As(err).Message(); got != "Product not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAddItemUndeclaredSize(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"S": 5})

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: prod.ID,
		Size:      "XL",
		Quantity:  1,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if got := pkgerrors.As(err).Message(); got != "Size 'XL' not available" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAddItemExceedsStock(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 3})

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: prod.ID,
		Size:      "M",
		Quantity:  4,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if got := pkgerrors.As(err).Message(); got != "Only 3 items available for size 'M'" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAddItemMergeRespectsStockCeiling(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 3})

	if _, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: prod.ID, Size: "M", Quantity: 2,
	}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{
		ProductID: prod.ID, Size: "M", Quantity: 2,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if got := pkgerrors.As(err).Message(); got != "Only 1 items available for size 'M'" {
		t.Fatalf("unexpected message %q", got)
	}

	// The failed call must leave the cart untouched.
	view, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Items) != 1 || len(view.Items[0].Variants) != 1 {
		t.Fatalf("unexpected cart shape %+v", view.Items)
	}
	if view.Items[0].Variants[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 after failed merge, got %d", view.Items[0].Variants[0].Quantity)
	}
}

func TestAddItemAppendsVariantForNewSize(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"S": 2, "M": 2})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "S", Quantity: 1}); err != nil {
		t.Fatalf("add size S: %v", err)
	}
	view, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("add size M: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one item per product, got %d", len(view.Items))
	}
	if len(view.Items[0].Variants) != 2 {
		t.Fatalf("expected 2 variants, got %+v", view.Items[0].Variants)
	}
}

func TestUpdateQuantityIncrementObservesLiveStock(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 2})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "M", Action: "increment",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if got := pkgerrors.As(err).Message(); got != "Only 2 items available for size 'M'" {
		t.Fatalf("unexpected message %q", got)
	}

	// Raise the live stock and retry.
	err = db.Model(&prod.Sizes[0]).Update("stock", 5).Error
	if err != nil {
		t.Fatalf("raise stock: %v", err)
	}
	view, err := svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "M", Action: "increment",
	})
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if view.Items[0].Variants[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Items[0].Variants[0].Quantity)
	}
}

func TestUpdateQuantityDecrementCascadesRemoval(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 5})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	view, err := svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "M", Action: "decrement",
	})
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected item removed with its last variant, got %+v", view.Items)
	}
}

func TestUpdateQuantityInvalidAction(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 5})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "M", Action: "set",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if got := pkgerrors.As(err).Message(); got != "Invalid action, must be 'increment' or 'decrement'" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUpdateQuantityMissingCartAndVariant(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 5})

	ctx := context.Background()
	_, err := svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "M", Action: "increment",
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if got := pkgerrors.As(err).Message(); got != "Cart not found" {
		t.Fatalf("unexpected message %q", got)
	}

	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	_, err = svc.UpdateQuantity(ctx, user.ID, UpdateQuantityInput{
		ProductID: prod.ID, Size: "L", Action: "increment",
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if got := pkgerrors.As(err).Message(); got != "Product size not in cart" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRemoveItemDropsVariantThenItem(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"S": 5, "M": 5})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "S", Quantity: 1}); err != nil {
		t.Fatalf("add S: %v", err)
	}
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("add M: %v", err)
	}

	view, err := svc.RemoveItem(ctx, user.ID, RemoveItemInput{ProductID: prod.ID, Size: "S"})
	if err != nil {
		t.Fatalf("remove S: %v", err)
	}
	if len(view.Items) != 1 || len(view.Items[0].Variants) != 1 {
		t.Fatalf("expected one remaining variant, got %+v", view.Items)
	}

	view, err = svc.RemoveItem(ctx, user.ID, RemoveItemInput{ProductID: prod.ID, Size: "M"})
	if err != nil {
		t.Fatalf("remove M: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after last variant removed, got %+v", view.Items)
	}
}

func TestRemoveItemMissingSizeIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 5})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	view, err := svc.RemoveItem(ctx, user.ID, RemoveItemInput{ProductID: prod.ID, Size: "XL"})
	if err != nil {
		t.Fatalf("remove missing size: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Variants[0].Quantity != 2 {
		t.Fatalf("expected cart unchanged, got %+v", view.Items)
	}
}

func TestClearCart(t *testing.T) {
	svc, db := newTestService(t)
	user := product.MustCreateTestUser(t, db)
	prod := product.MustCreateTestProduct(t, db, 1000, map[string]int{"M": 5})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: prod.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	view, err := svc.Clear(ctx, user.ID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Items)
	}

	_, err = svc.Clear(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
