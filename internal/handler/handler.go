package handler

import (
	"errors"
	"net/http"
	"strconv"

	"daycare-api/internal/service"
	"daycare-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// actorFromContext rebuilds the authenticated caller from the values the auth
// middleware stored on the context.
func actorFromContext(c echo.Context) service.Actor {
	var actor service.Actor
	if v, ok := c.Get("user_id").(uint); ok {
		actor.UserID = v
	}
	if v, ok := c.Get("email").(string); ok {
		actor.Email = v
	}
	if v, ok := c.Get("role").(string); ok {
		actor.Role = v
	}
	if v, ok := c.Get("tenant_id").(uint); ok {
		actor.TenantID = &v
	}
	return actor
}

// respondError maps service errors onto their HTTP status; anything else is a
// 500 with the details kept in the logs.
func respondError(c echo.Context, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return c.JSON(svcErr.Status, echo.Map{"error": svcErr.Message})
	}
	logger.FromContext(c).Error("request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
