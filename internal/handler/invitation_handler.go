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

// InvitationHandler exposes the staff invitation lifecycle endpoints.
type InvitationHandler struct {
	inv *service.InvitationService
}

func NewInvitationHandler(inv *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{inv: inv}
}

// InviteStaff creates a pending staff invitation and emails the acceptance
// link.
func (h *InvitationHandler) InviteStaff(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInvitationOperation("invite")

	var req struct {
		Email        string `json:"email"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		Phone        string `json:"phone"`
		Role         string `json:"role"`
		ClassroomIDs []uint `json:"classroomIds"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invitation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.inv.InviteStaff(actorFromContext(c), service.InviteStaffInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		ClassroomIDs: req.ClassroomIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Invitation sent successfully",
		"user":    user,
	})
}

// AcceptInvitation consumes an invitation token and sets the account password.
func (h *InvitationHandler) AcceptInvitation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInvitationOperation("accept")

	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse acceptance request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.inv.AcceptInvitation(req.Token, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Invitation accepted successfully",
		"user":    user,
	})
}

// ResendInvitation regenerates the token for a pending invitation and re-sends
// the email.
func (h *InvitationHandler) ResendInvitation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInvitationOperation("resend")

	var req struct {
		UserID uint `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse resend request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.inv.ResendInvitation(actorFromContext(c), req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Invitation resent successfully",
		"user":    user,
	})
}

// ListInvitedUsers returns the tenant's pending invitations, newest first.
func (h *InvitationHandler) ListInvitedUsers(c echo.Context) error {
	prometheus.RecordInvitationOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.inv.ListInvitedUsers(actorFromContext(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// CancelInvitation permanently removes a pending invitation.
func (h *InvitationHandler) CancelInvitation(c echo.Context) error {
	prometheus.RecordInvitationOperation("cancel")

	userID, err := paramUint(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.inv.CancelInvitation(actorFromContext(c), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Invitation canceled successfully"})
}
