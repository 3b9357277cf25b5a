package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/logging"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

type catalogService interface {
	List(ctx context.Context, f catalogsvc.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type cartService interface {
	AddProduct(ctx context.Context, store *cart.Store, in cartsvc.AddInput) (cartsvc.Summary, error)
	Remove(store *cart.Store, productID string) cartsvc.Summary
	Clear(store *cart.Store) cartsvc.Summary
	Summary(store *cart.Store) cartsvc.Summary
}

type sessionService interface {
	Login(ctx context.Context, email string) (string, domain.Session, error)
	Lookup(ctx context.Context, token string) (domain.Session, *cart.Store, error)
	Logout(ctx context.Context, token string) error
	TTLSeconds() int
}

// Deps groups the services the router needs.
type Deps struct {
	CatalogSvc  catalogService
	CartSvc     cartService
	SessionSvc  sessionService
	Currency    string
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.CartSvc == nil || deps.SessionSvc == nil {
		return nil, errors.New("httpserver: catalog, cart and session services are required")
	}

	logger = logging.OrNop(logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/categories", h.listCategories)

	router.POST("/auth/login", h.login)

	authed := router.Group("/", sessionMiddleware(deps.SessionSvc))
	authed.POST("/auth/logout", h.logout)
	authed.GET("/auth/me", h.me)
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addCartItem)
	authed.DELETE("/cart/items/:id", h.removeCartItem)
	authed.DELETE("/cart", h.clearCart)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, errNoRoute)
	})

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
