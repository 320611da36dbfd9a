package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/application"
	"github.com/rebil-rentals/service-booking/internal/pkg/auth"
	"github.com/rebil-rentals/service-booking/internal/pkg/middleware"
	"github.com/rebil-rentals/service-booking/internal/pkg/response"
)

// AdminHandler exposes administrative booking queries.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes mounts the admin routes on the given group.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetStats)
		admin.GET("/bookings/:id/transitions", h.GetAuditTrail)
	}
}

// ListBookings handles GET /admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, bookings, total, page, limit)
}

// GetStats handles GET /admin/bookings/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// GetAuditTrail handles GET /admin/bookings/:id/transitions.
func (h *AdminHandler) GetAuditTrail(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	trail, err := h.service.GetAuditTrail(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trail)
}
