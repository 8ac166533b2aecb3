package server

import (
	"context"
	"net/http"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/handler"
	mw "storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Order    service.OrderService
}

type Server struct {
	echo            *echo.Echo
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	adminHandler    *handler.AdminHandler
	shop            config.Shop
}

func NewServer(services Services, httpCfg config.HTTPServer, shop config.Shop, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if httpCfg.RateLimit > 0 {
		e.Use(rateLimiter(httpCfg))
	}

	s := &Server{
		echo:            e,
		catalogHandler:  handler.NewCatalogHandler(services.Catalog),
		cartHandler:     handler.NewCartHandler(services.Cart),
		checkoutHandler: handler.NewCheckoutHandler(services.Checkout),
		adminHandler:    handler.NewAdminHandler(services.Catalog, services.Order, shop.Currency),
		shop:            shop,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/catalog", s.catalogHandler.ListProducts)
	api.GET("/catalog/:id", s.catalogHandler.GetProduct)

	identify := mw.UserMiddleware()

	// -------- cart --------
	cart := api.Group("/cart", identify)
	cart.GET("", s.cartHandler.GetCart)
	cart.DELETE("", s.cartHandler.ClearCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.DELETE("/items", s.cartHandler.RemoveItem)
	cart.POST("/items/increment", s.cartHandler.IncrementItem)
	cart.POST("/items/decrement", s.cartHandler.DecrementItem)

	// -------- checkout --------
	checkout := api.Group("/checkout", identify)
	checkout.GET("", s.checkoutHandler.Current)
	checkout.POST("/start", s.checkoutHandler.Start)
	checkout.POST("/input", s.checkoutHandler.Text)
	checkout.POST("/choice", s.checkoutHandler.Choice)

	// -------- admin --------
	admin := api.Group("/admin", identify, mw.AdminMiddleware(s.shop.AdminIDs, s.shop.AdminUsername))
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.GET("/products", s.adminHandler.ListProducts)
	admin.POST("/products/:id/toggle", s.adminHandler.ToggleProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeleteProduct)
	admin.GET("/orders/:id", s.adminHandler.GetOrder)
}

// rateLimiter keys on the forwarded user id, falling back to the client IP
// for anonymous catalog reads.
func rateLimiter(cfg config.HTTPServer) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RateLimit),
		Burst:     cfg.RateBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id := c.Request().Header.Get(mw.HeaderUserID); id != "" {
				return "user:" + id, nil
			}
			return "ip:" + c.RealIP(), nil
		},
	})
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
