package catalog

import (
	"net/http"
	"strconv"

	"spacebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read side of the catalog.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/spaces", h.SearchSpaces)
	rg.GET("/spaces/:id", h.GetSpace)
	rg.GET("/amenities", h.ListAmenities)
}

// RegisterOwnerRoutes mounts space management, behind JWT auth.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/spaces", h.CreateSpace)
	rg.PUT("/spaces/:id", h.UpdateSpace)
	rg.DELETE("/spaces/:id", h.DeleteSpace)
	rg.GET("/my/spaces", h.ListOwned)
}

// RegisterAdminRoutes mounts amenity catalog management.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/amenities", h.CreateAmenity)
}

func (h *Handler) CreateSpace(c *gin.Context) {
	var req SpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.CreateSpace(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create space")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"space": space})
}

func (h *Handler) UpdateSpace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space id")
		return
	}

	var req SpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.UpdateSpace(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update space")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) GetSpace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space id")
		return
	}

	space, err := h.service.GetSpace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load space")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) DeleteSpace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space id")
		return
	}

	if err := h.service.DeleteSpace(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id); err != nil {
		h.writeError(c, err, "Failed to delete space")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) SearchSpaces(c *gin.Context) {
	var req SearchSpacesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	spaces, total, page, size, err := h.service.SearchSpaces(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to search spaces")
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(spaces, page, size, total))
}

func (h *Handler) ListOwned(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	spaces, total, page, size, err := h.service.ListOwned(c.Request.Context(), c.GetInt64("user_id"), page, size)
	if err != nil {
		h.writeError(c, err, "Failed to list spaces")
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(spaces, page, size, total))
}

func (h *Handler) ListAmenities(c *gin.Context) {
	amenities, err := h.service.ListAmenities(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to list amenities")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"amenities": amenities})
}

func (h *Handler) CreateAmenity(c *gin.Context) {
	var req AmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CreateAmenity(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create amenity")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"amenity": a})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this space")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
