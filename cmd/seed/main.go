package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	product "github.com/carlosmendieta/modique-backend/internal/products"
	"github.com/carlosmendieta/modique-backend/internal/users"
	"github.com/carlosmendieta/modique-backend/pkg/config"
	"github.com/carlosmendieta/modique-backend/pkg/db"
	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/migrate"
	"github.com/carlosmendieta/modique-backend/pkg/security"
)

type seedUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      enums.UserRole
}

type seedProduct struct {
	SKU        string
	Title      string
	PriceCents int64
	Sizes      map[string]int
}

var seedUsers = []seedUser{
	{Email: "admin@modique.store", Password: "admin-password-change-me", FirstName: "Marta", LastName: "Admin", Role: enums.UserRoleAdmin},
	{Email: "customer@modique.store", Password: "customer-password-change-me", FirstName: "Pau", LastName: "Customer", Role: enums.UserRoleCustomer},
}

var seedProducts = []seedProduct{
	{SKU: "TSHIRT-BASIC", Title: "Basic Cotton Tee", PriceCents: 1999, Sizes: map[string]int{"S": 20, "M": 35, "L": 25, "XL": 10}},
	{SKU: "HOODIE-ZIP", Title: "Zip Hoodie", PriceCents: 4999, Sizes: map[string]int{"S": 10, "M": 15, "L": 12}},
	{SKU: "SNEAKER-LOW", Title: "Low Top Sneaker", PriceCents: 7999, Sizes: map[string]int{"40": 8, "41": 10, "42": 10, "43": 6}},
	{SKU: "CAP-LOGO", Title: "Logo Cap", PriceCents: 1499, Sizes: map[string]int{"One Size": 40}},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", errors.New("app env is prod"))
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database client", err)
		}
	}()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := seedUserRows(ctx, tx, cfg); err != nil {
			return err
		}
		return seedProductRows(ctx, tx)
	})
	requireResource(ctx, logg, "seed data", err)

	logg.Info(ctx, fmt.Sprintf("seeded %d users and %d products", len(seedUsers), len(seedProducts)))
}

func seedUserRows(ctx context.Context, tx *gorm.DB, cfg *config.Config) error {
	repo := users.NewRepository(tx)
	for _, entry := range seedUsers {
		if _, err := repo.FindByEmail(ctx, entry.Email); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check user %s: %w", entry.Email, err)
		}

		hash, err := security.HashPassword(entry.Password, cfg.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", entry.Email, err)
		}
		user := models.User{
			Email:        entry.Email,
			PasswordHash: hash,
			FirstName:    entry.FirstName,
			LastName:     entry.LastName,
			Role:         entry.Role,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", entry.Email, err)
		}
	}
	return nil
}

func seedProductRows(ctx context.Context, tx *gorm.DB) error {
	existing, err := product.NewRepository(tx).ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	seeded := make(map[string]bool, len(existing))
	for _, row := range existing {
		seeded[row.SKU] = true
	}

	for _, entry := range seedProducts {
		if seeded[entry.SKU] {
			continue
		}

		row := models.Product{
			SKU:        entry.SKU,
			Title:      entry.Title,
			PriceCents: entry.PriceCents,
			IsActive:   true,
		}
		for size, stock := range entry.Sizes {
			row.Sizes = append(row.Sizes, models.ProductSize{Size: size, Stock: stock})
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", entry.SKU, err)
		}
	}
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
