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

// TenantHandler exposes tenant self-registration.
type TenantHandler struct {
	reg *service.RegistrationService
}

func NewTenantHandler(reg *service.RegistrationService) *TenantHandler {
	return &TenantHandler{reg: reg}
}

// RegisterTenant onboards a daycare together with its first admin user and
// returns a session token for the admin.
func (h *TenantHandler) RegisterTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.TenantRegistrationCounter.Inc()

	var req struct {
		Name           string `json:"name"`
		Subdomain      string `json:"subdomain"`
		Email          string `json:"email"`
		AdminFirstName string `json:"adminFirstName"`
		AdminLastName  string `json:"adminLastName"`
		AdminEmail     string `json:"adminEmail"`
		AdminPassword  string `json:"adminPassword"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result, err := h.reg.RegisterTenant(service.RegisterTenantInput{
		Name:           req.Name,
		Subdomain:      req.Subdomain,
		Email:          req.Email,
		AdminFirstName: req.AdminFirstName,
		AdminLastName:  req.AdminLastName,
		AdminEmail:     req.AdminEmail,
		AdminPassword:  req.AdminPassword,
	})
	if err != nil {
		prometheus.RecordAuthError("tenant_registration_failed")
		return respondError(c, err)
	}

	prometheus.IncreaseActiveTokens()

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant registered successfully",
		"tenant":  result.Tenant,
		"user":    result.Admin,
		"token":   result.Token,
	})
}
