package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/auth"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/middleware"
)

// Server wraps the gin router and the underlying HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
	sessions auth.SessionReader
	srv      *http.Server
}

// New creates the server and registers all routes.
func New(h *handlers.Handlers, sessions auth.SessionReader, cfg *config.Config) *Server {
	router := gin.Default()

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		sessions: sessions,
	}

	s.setupRoutes()

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.Use(middleware.RequireUser(s.sessions, s.config.Session.CookieName))
	{
		api.POST("/cart/items", s.handlers.AddToCart)
		api.PATCH("/cart/items/:id", s.handlers.UpdateCartItem)
		api.GET("/cart", s.handlers.GetCart)

		api.POST("/orders", s.handlers.PlaceOrder)
		api.GET("/orders", s.handlers.ListOrders)
		api.GET("/orders/:id", s.handlers.GetOrder)
	}
}

// Start begins serving requests.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
