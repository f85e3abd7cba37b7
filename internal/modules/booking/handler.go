package booking

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

// RegisterGuestRoutes mounts endpoints reachable without a token.
// Creation runs behind optional auth so guests can book.
func (h *Handler) RegisterGuestRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/booking-codes/:code", h.GetByCode)
}

// RegisterAuthRoutes mounts endpoints that require a token.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id/status", h.UpdateStatus)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.GET("/my/bookings", h.ListMine)
	rg.GET("/spaces/:id/bookings", h.ListForSpace)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id)
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetByCode(c *gin.Context) {
	b, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update booking status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id, req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	bookings, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), page, size)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListForSpace(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space id")
		return
	}

	bookings, err := h.service.ListForSpace(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), spaceID)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or space not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to act on this booking")
	case ErrBookingConflict:
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Space is not available for the selected time")
	case ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status change not allowed from the current status")
	case ErrCancellationWindowPassed:
		response.Error(c, http.StatusUnprocessableEntity, "CANCELLATION_WINDOW_PASSED", "Too late to cancel this booking")
	case ErrTransientConflict:
		response.Error(c, http.StatusServiceUnavailable, "TRANSIENT_CONFLICT", "Please retry the request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
