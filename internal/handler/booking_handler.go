package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/application"
	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	"github.com/rebil-rentals/service-booking/internal/pkg/auth"
	"github.com/rebil-rentals/service-booking/internal/pkg/middleware"
	"github.com/rebil-rentals/service-booking/internal/pkg/response"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes mounts the booking routes on the given group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", middleware.RequireRole(auth.RoleRenter), h.CreateBooking)
		bookings.POST("/manual", middleware.RequireRole(auth.RoleHost), h.CreateManualBooking)
		bookings.GET("/host", middleware.RequireRole(auth.RoleHost), h.GetHostBookings)
		bookings.GET("/renter", middleware.RequireRole(auth.RoleRenter), h.GetRenterBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/transition", h.Transition)
		bookings.GET("/:id/cancellation", h.CheckCancellation)
		bookings.POST("/:id/cancel", h.Cancel)
	}

	availability := rg.Group("/availability")
	availability.Use(middleware.AuthMiddleware(jwtManager))
	{
		availability.GET("/conflicts", h.CheckConflicts)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.CreateBooking(c.Request.Context(), renterID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// CreateManualBooking handles POST /bookings/manual.
func (h *BookingHandler) CreateManualBooking(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req application.CreateManualBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.CreateManualBooking(c.Request.Context(), hostID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dto, err := h.service.GetBooking(c.Request.Context(), bookingID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

type transitionBody struct {
	TargetStatus string `json:"target_status" binding:"required"`
	Reason       string `json:"reason"`
	ReasonCode   string `json:"reason_code"`
}

// Transition handles POST /bookings/:id/transition.
func (h *BookingHandler) Transition(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	target, err := bookingDomain.ParseStatus(body.TargetStatus)
	if err != nil {
		response.BadRequest(c, "invalid target status: "+body.TargetStatus)
		return
	}

	dto, err := h.service.AttemptTransition(c.Request.Context(), bookingID, actorID, application.TransitionRequest{
		TargetStatus: target,
		Reason:       body.Reason,
		ReasonCode:   bookingDomain.EmergencyReason(body.ReasonCode),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// CheckCancellation handles GET /bookings/:id/cancellation.
func (h *BookingHandler) CheckCancellation(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	info, err := h.service.CheckCancellation(c.Request.Context(), bookingID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

type cancelBody struct {
	Track      string `json:"track" binding:"required"`
	Reason     string `json:"reason"`
	ReasonCode string `json:"reason_code"`
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body cancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outcome, err := h.service.Cancel(
		c.Request.Context(), bookingID, actorID,
		bookingDomain.CancellationTrack(body.Track),
		body.Reason,
		bookingDomain.EmergencyReason(body.ReasonCode),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, outcome)
}

// CheckConflicts handles GET /availability/conflicts.
func (h *BookingHandler) CheckConflicts(c *gin.Context) {
	carID, err := uuid.Parse(c.Query("car_id"))
	if err != nil {
		response.BadRequest(c, "invalid car_id")
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "invalid start_date, expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "invalid end_date, expected RFC3339")
		return
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude_booking_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid exclude_booking_id")
			return
		}
		excludeID = &id
	}

	conflicts, err := h.service.CheckConflicts(c.Request.Context(), carID, start, end, excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"has_conflicts": len(conflicts) > 0,
		"conflicts":     conflicts,
	})
}

// GetHostBookings handles GET /bookings/host.
func (h *BookingHandler) GetHostBookings(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetHostBookings(c.Request.Context(), hostID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRenterBookings handles GET /bookings/renter.
func (h *BookingHandler) GetRenterBookings(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetRenterBookings(c.Request.Context(), renterID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
