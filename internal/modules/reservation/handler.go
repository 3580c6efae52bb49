package reservation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"evcharge/internal/pkg/response"
	"evcharge/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/sessions", h.GetAvailability)
	rg.GET("/user/reservations", h.ListMine)
	rg.POST("/user/reservations", h.Create)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/sessions", h.ListBySession)
	rg.POST("/admin/reservations", h.AdminCreate)
	rg.DELETE("/admin/reservations/:id", h.AdminDelete)
}

type availabilityQuery struct {
	Date        string `form:"date" binding:"required" validate:"datetime=2006-01-02"`
	DurationMin int    `form:"durationMin,default=60" binding:"omitempty,min=30,max=180"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required, durationMin must be 30-180")
		return
	}
	if fields := validator.Validate(q); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", fields)
		return
	}

	sessions, err := h.service.GetAvailability(c.Request.Context(), q.Date, q.DurationMin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) ListMine(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity")
		return
	}

	records, err := h.service.ListByOwner(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": records})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation payload", fields)
		return
	}
	req.OwnerEmail = c.GetString("email")

	r, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, gin.H{
		"reservationId": r.ID,
		"status":        r.Status,
	})
}

type sessionsQuery struct {
	Date string `form:"date" binding:"required" validate:"datetime=2006-01-02"`
}

func (h *Handler) ListBySession(c *gin.Context) {
	var q sessionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}
	if fields := validator.Validate(q); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", fields)
		return
	}

	sessions, err := h.service.ListBySession(c.Request.Context(), q.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) AdminCreate(c *gin.Context) {
	var req AdminCreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation payload", fields)
		return
	}

	r, err := h.service.AdminBook(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"reservation": toRecord(r, time.Now())})
}

func (h *Handler) AdminDelete(c *gin.Context) {
	id := c.Param("id")
	date := c.Query("date")
	sessionID, err := strconv.Atoi(c.Query("sessionId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "sessionId must be an integer")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, date, sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, time or duration")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", "The requested time is already booked")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Storage operation failed")
	}
}
