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

// ChildHandler exposes the child record endpoints.
type ChildHandler struct {
	children *service.ChildService
}

func NewChildHandler(children *service.ChildService) *ChildHandler {
	return &ChildHandler{children: children}
}

type childRequest struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	DateOfBirth  string  `json:"dateOfBirth"`
	Status       string  `json:"status"`
	ProfilePhoto *string `json:"profilePhoto"`
}

func (r childRequest) toInput() (service.ChildInput, error) {
	in := service.ChildInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Status:       r.Status,
		ProfilePhoto: r.ProfilePhoto,
	}
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			return in, err
		}
		in.DateOfBirth = dob
	}
	return in, nil
}

func (h *ChildHandler) CreateChild(c echo.Context) error {
	log := logger.FromContext(c)

	var req childRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse child request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be YYYY-MM-DD"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	child, err := h.children.CreateChild(actorFromContext(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"child": child})
}

func (h *ChildHandler) ListChildren(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	children, err := h.children.ListChildren(actorFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"children": children})
}

func (h *ChildHandler) GetChild(c echo.Context) error {
	childID, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	detail, err := h.children.GetChild(actorFromContext(c), childID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *ChildHandler) UpdateChild(c echo.Context) error {
	log := logger.FromContext(c)

	childID, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child id"})
	}

	var req childRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse child update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be YYYY-MM-DD"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	child, err := h.children.UpdateChild(actorFromContext(c), childID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"child": child})
}

func (h *ChildHandler) DeleteChild(c echo.Context) error {
	childID, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.children.DeleteChild(actorFromContext(c), childID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Child removed successfully"})
}
