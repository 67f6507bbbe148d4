package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/storefront/internal/api/handlers"
	"github.com/eshaffer321/storefront/internal/api/middleware"
	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/orders"
)

// Config holds API server configuration.
type Config struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns the loopback defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8085,
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
	}
}

// Server is the storefront bridge: the page shell drives the cart, totals
// and form validation through it.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	carts      *cart.Store
	history    *orders.History
}

// NewServer creates a new API server.
func NewServer(cfg Config, carts *cart.Store, history *orders.History, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		carts:   carts,
		history: history,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(chimw.Recoverer)

	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}
	s.router.Use(middleware.CORS(corsConfig))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix)
	healthHandler := handlers.NewHealthHandler(s.carts)
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api/v1", func(r chi.Router) {
		cartHandler := handlers.NewCartHandler(s.carts, s.logger)
		r.Get("/cart", cartHandler.Get)
		r.Delete("/cart", cartHandler.Clear)
		r.Get("/cart/totals", cartHandler.Totals)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Patch("/cart/items/{key}", cartHandler.UpdateQuantity)
		r.Delete("/cart/items/{key}", cartHandler.RemoveItem)

		pricingHandler := handlers.NewPricingHandler(s.logger)
		r.Get("/shipping/estimate", pricingHandler.Estimate)
		r.Get("/promo/{code}", pricingHandler.Promo)

		checkoutHandler := handlers.NewCheckoutHandler(s.logger)
		r.Post("/checkout/validate", checkoutHandler.Validate)

		ordersHandler := handlers.NewOrdersHandler(s.history, s.logger)
		r.Get("/orders", ordersHandler.List)
		r.Get("/orders/{id}", ordersHandler.Get)
	})
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
