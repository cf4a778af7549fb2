package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/carlosmendieta/modique-backend/api/controllers"
	"github.com/carlosmendieta/modique-backend/api/middleware"
	cartsvc "github.com/carlosmendieta/modique-backend/internal/cart"
	ordersvc "github.com/carlosmendieta/modique-backend/internal/orders"
	usersvc "github.com/carlosmendieta/modique-backend/internal/users"
	wishlistsvc "github.com/carlosmendieta/modique-backend/internal/wishlist"
	"github.com/carlosmendieta/modique-backend/pkg/auth/session"
	"github.com/carlosmendieta/modique-backend/pkg/config"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	pkgredis "github.com/carlosmendieta/modique-backend/pkg/redis"
)

// NewRouter assembles the full HTTP surface: public health probes plus
// the authenticated /api subtree.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db *gorm.DB,
	redisClient *pkgredis.Client,
	sessions session.Checker,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
	wishlistService wishlistsvc.Service,
	userService usersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, db, redisClient, logg))
	})

	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, redisClient, logg))
		r.Use(middleware.Idempotency(cfg.Idempotency, redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/add", controllers.CartAdd(cartService, logg))
			r.Post("/remove", controllers.CartRemove(cartService, logg))
			r.Post("/update-quantity", controllers.CartUpdateQuantity(cartService, logg))
			r.Post("/clear", controllers.CartClear(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(adminOnly).Get("/", controllers.OrdersListAll(orderService, logg))
			r.Get("/user/all", controllers.OrdersListMine(orderService, logg))
			r.Post("/create", controllers.OrdersCreate(orderService, logg))
			r.Get("/{orderId}", controllers.OrdersGet(orderService, logg))
			r.Put("/{orderId}/payment", controllers.OrdersAddPayment(orderService, logg))
			r.With(adminOnly).Put("/{orderId}/status", controllers.OrdersUpdateStatus(orderService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(wishlistService, logg))
			r.Post("/add", controllers.WishlistAdd(wishlistService, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", controllers.UsersList(userService, logg))
			r.Get("/{userId}", controllers.UsersGet(userService, logg))
			r.Delete("/{userId}", controllers.UsersDelete(userService, logg))
			r.Patch("/{userId}/active", controllers.UsersToggleActive(userService, logg))
		})
	})

	return r
}
