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

// RelationshipHandler exposes the parent-child relationship endpoints.
type RelationshipHandler struct {
	rel *service.RelationshipService
}

func NewRelationshipHandler(rel *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{rel: rel}
}

// relationshipFlags is the flag subset shared by the relationship request
// bodies. Pointers distinguish "not provided" from an explicit false.
type relationshipFlags struct {
	IsPrimary          *bool `json:"isPrimary"`
	IsEmergencyContact *bool `json:"isEmergencyContact"`
	CanPickup          *bool `json:"canPickup"`
}

func (f relationshipFlags) toService() service.RelationshipFlags {
	return service.RelationshipFlags{
		IsPrimary:          f.IsPrimary,
		IsEmergencyContact: f.IsEmergencyContact,
		CanPickup:          f.CanPickup,
	}
}

// AddNewParent links a parent to a child, creating the parent account when the
// email is unknown.
func (h *RelationshipHandler) AddNewParent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRelationshipOperation("add_new")

	var req struct {
		ChildID      uint   `json:"childId"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Relationship string `json:"relationship"`
		relationshipFlags
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse add-parent request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result, err := h.rel.AddNewParent(actorFromContext(c), service.AddNewParentInput{
		ChildID:      req.ChildID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Flags:        req.toService(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":         "Parent linked successfully",
		"relationship":    result.Relationship,
		"parent":          result.Parent,
		"created_account": result.CreatedAccount,
	})
}

// AddExistingParent links a parent who already has an account in the tenant.
func (h *RelationshipHandler) AddExistingParent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRelationshipOperation("add_existing")

	var req struct {
		ChildID      uint   `json:"childId"`
		ParentID     uint   `json:"parentId"`
		Relationship string `json:"relationship"`
		relationshipFlags
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse add-parent request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	rel, err := h.rel.AddExistingParent(actorFromContext(c), req.ChildID, req.ParentID, req.Relationship, req.toService())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Parent linked successfully",
		"relationship": rel,
	})
}

// UpdateRelationship patches relationship flags; promoting to primary demotes
// the child's other relationships.
func (h *RelationshipHandler) UpdateRelationship(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRelationshipOperation("update")

	relationshipID, err := paramUint(c, "relationshipId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid relationship id"})
	}

	var req struct {
		Relationship *string `json:"relationship"`
		relationshipFlags
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse relationship update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	rel, err := h.rel.UpdateRelationship(actorFromContext(c), relationshipID, service.UpdateRelationshipInput{
		Relationship: req.Relationship,
		Flags:        req.toService(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Relationship updated successfully",
		"relationship": rel,
	})
}

// RemoveRelationship deletes a parent-child link.
func (h *RelationshipHandler) RemoveRelationship(c echo.Context) error {
	prometheus.RecordRelationshipOperation("remove")

	relationshipID, err := paramUint(c, "relationshipId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid relationship id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.rel.RemoveRelationship(actorFromContext(c), relationshipID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Relationship removed successfully"})
}

// ChildParents lists a child's relationships, primary first.
func (h *RelationshipHandler) ChildParents(c echo.Context) error {
	prometheus.RecordRelationshipOperation("list")

	childID, err := paramUint(c, "childId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	parents, err := h.rel.GetChildParents(actorFromContext(c), childID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"parents": parents})
}

// AvailableParents lists the tenant's parents with their linked children,
// optionally filtered by a search term.
func (h *RelationshipHandler) AvailableParents(c echo.Context) error {
	prometheus.RecordRelationshipOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	parents, err := h.rel.GetAvailableParents(actorFromContext(c), c.QueryParam("search"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"parents": parents})
}
