package handler

import (
	"net/http"
	"time"

	"daycare-api/internal/service"
	"daycare-api/pkg/logger"
	"daycare-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler exposes login, email verification and the profile endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		prometheus.RecordAuthError("login_failed")
		return respondError(c, err)
	}

	prometheus.IncreaseActiveTokens()

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse verification request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.auth.VerifyEmail(req.Token)
	if err != nil {
		prometheus.RecordAuthError("verification_failed")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Email verified successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	actor := actorFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.auth.Profile(actor.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
