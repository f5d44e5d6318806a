package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/lingvoapp/lingvo-backend/internal/domain/errors"
	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/middleware/auth"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
	pkgErrors "github.com/lingvoapp/lingvo-backend/pkg/errors"
)

// PaymentHandler exposes payment creation and payment history for the
// authenticated user.
type PaymentHandler struct {
	checkoutSvc *usecase.CheckoutService
	logger      *zap.Logger
}

func NewPaymentHandler(checkoutSvc *usecase.CheckoutService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkoutSvc: checkoutSvc,
		logger:      logger,
	}
}

type CreatePaymentRequest struct {
	Product   string `json:"product" validate:"required,oneof=monthly quarterly yearly"`
	ReturnURL string `json:"return_url" validate:"omitempty,url"`
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	userID := auth.UserIDFromContext(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result, err := h.checkoutSvc.CreatePayment(c.Request().Context(), userID, model.Product(req.Product), req.ReturnURL)
	if err != nil {
		return h.mapCreateError(c, userID, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) mapCreateError(c echo.Context, userID string, err error) error {
	switch {
	case pkgErrors.Is(err, domainErrors.ErrProviderNotConfigured):
		pkgErrors.LogError(h.logger, err, "Payment provider not configured")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Payments are temporarily unavailable"})
	case pkgErrors.Is(err, domainErrors.ErrTooManyPendingPayments):
		h.logger.Warn("Payment creation rate-limited", zap.String("user_id", userID))
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many pending payments, try again later"})
	case pkgErrors.Is(err, domainErrors.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	case pkgErrors.Is(err, domainErrors.ErrUnknownProduct):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown product"})
	}

	var provErr *provider.ProviderError
	if pkgErrors.As(err, &provErr) {
		pkgErrors.LogError(h.logger, err, "Provider rejected payment creation",
			zap.String("user_id", userID),
			zap.String("provider_code", provErr.Code))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Payment provider error"})
	}

	pkgErrors.LogError(h.logger, err, "Payment creation failed",
		zap.String("user_id", userID))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Payment creation failed"})
}

// GetUserPayments handles GET /api/v1/payments?limit=...
func (h *PaymentHandler) GetUserPayments(c echo.Context) error {
	userID := auth.UserIDFromContext(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	payments, err := h.checkoutSvc.RecentPayments(c.Request().Context(), userID, limit)
	if err != nil {
		pkgErrors.LogError(h.logger, err, "Failed to list payments",
			zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list payments"})
	}

	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}
