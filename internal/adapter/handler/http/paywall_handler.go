package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/lingvoapp/lingvo-backend/internal/domain/errors"
	"github.com/lingvoapp/lingvo-backend/internal/middleware/auth"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
	pkgErrors "github.com/lingvoapp/lingvo-backend/pkg/errors"
)

// PaywallHandler serves the priced paywall for a user.
type PaywallHandler struct {
	paywallSvc *usecase.PaywallService
	logger     *zap.Logger
}

func NewPaywallHandler(paywallSvc *usecase.PaywallService, logger *zap.Logger) *PaywallHandler {
	return &PaywallHandler{
		paywallSvc: paywallSvc,
		logger:     logger,
	}
}

// GetPaywall handles GET /api/v1/paywall?userId=...
func (h *PaywallHandler) GetPaywall(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
	}

	paywall, err := h.paywallSvc.GetPaywall(c.Request().Context(), userID)
	if err != nil {
		if pkgErrors.Is(err, domainErrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		pkgErrors.LogError(h.logger, err, "Failed to build paywall",
			zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build paywall"})
	}

	return c.JSON(http.StatusOK, paywall)
}

// GetEntitlements handles GET /api/v1/entitlements, returning the
// authenticated user's entitlement rows, active and expired alike.
func (h *PaywallHandler) GetEntitlements(c echo.Context) error {
	userID := auth.UserIDFromContext(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ents, err := h.paywallSvc.ListEntitlements(c.Request().Context(), userID)
	if err != nil {
		pkgErrors.LogError(h.logger, err, "Failed to list entitlements",
			zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list entitlements"})
	}

	return c.JSON(http.StatusOK, echo.Map{"entitlements": ents})
}
