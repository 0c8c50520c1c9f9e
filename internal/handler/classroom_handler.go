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

// ClassroomHandler exposes classrooms, child placements and the service
// catalog.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	catalog    *service.CatalogService
}

func NewClassroomHandler(classrooms *service.ClassroomService, catalog *service.CatalogService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, catalog: catalog}
}

func (h *ClassroomHandler) CreateClassroom(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse classroom request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	classroom, err := h.classrooms.CreateClassroom(actorFromContext(c), req.Name, req.Capacity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"classroom": classroom})
}

func (h *ClassroomHandler) ListClassrooms(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	classrooms, err := h.classrooms.ListClassrooms(actorFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"classrooms": classrooms})
}

// AssignChild places a child in a classroom, replacing any previous active
// placement.
func (h *ClassroomHandler) AssignChild(c echo.Context) error {
	log := logger.FromContext(c)

	classroomID, err := paramUint(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid classroom id"})
	}

	var req struct {
		ChildID uint `json:"childId"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse assignment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	assignment, err := h.classrooms.AssignChild(actorFromContext(c), classroomID, req.ChildID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"assignment": assignment})
}

func (h *ClassroomHandler) CreateService(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse service request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	svc, err := h.catalog.CreateService(actorFromContext(c), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"service": svc})
}

func (h *ClassroomHandler) ListServices(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	services, err := h.catalog.ListServices(actorFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": services})
}
