package availability

import (
	"net/http"

	"spacebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.Search)
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	spaces, total, page, size, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability window")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search availability")
		}
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(spaces, page, size, total))
}
