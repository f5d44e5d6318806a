package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handlers "github.com/lingvoapp/lingvo-backend/internal/adapter/handler/http"
	"github.com/lingvoapp/lingvo-backend/internal/config"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/middleware/auth"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
	pkgErrors "github.com/lingvoapp/lingvo-backend/pkg/errors"
	pkgLogger "github.com/lingvoapp/lingvo-backend/pkg/logger"
)

// Services bundles the use cases the HTTP surface is built from.
type Services struct {
	Checkout        *usecase.CheckoutService
	Paywall         *usecase.PaywallService
	Webhooks        *usecase.WebhookProcessor
	PaymentProvider provider.Provider
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services *Services
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, logger *zap.Logger, services *Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(pkgLogger.NewEchoRequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := pkgErrors.ToHTTPError(err)

		logger.Error("HTTP error",
			zap.Error(err),
			zap.Int("status", httpErr.Code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()),
		)

		if !c.Response().Committed {
			if sendErr := c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message}); sendErr != nil {
				logger.Error("Failed to send error response", zap.Error(sendErr))
			}
		}
	}

	return &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		services: services,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Prometheus metrics
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(s.services.Checkout, s.logger)
	paywallHandler := handlers.NewPaywallHandler(s.services.Paywall, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.services.Webhooks, s.services.PaymentProvider, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/webhook",
			"/api/v1/paywall",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public routes (no authentication required)
	// Paywall pricing - public so the client can render it pre-login
	v1.GET("/paywall", paywallHandler.GetPaywall)

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	protected.POST("/payments", paymentHandler.CreatePayment)
	protected.GET("/payments", paymentHandler.GetUserPayments)
	protected.GET("/entitlements", paywallHandler.GetEntitlements)

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook/yookassa", webhookHandler.HandleYooKassaWebhook)
}
