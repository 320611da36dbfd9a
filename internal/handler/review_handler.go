package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rebil-rentals/service-booking/internal/application"
	"github.com/rebil-rentals/service-booking/internal/pkg/auth"
	"github.com/rebil-rentals/service-booking/internal/pkg/middleware"
	"github.com/rebil-rentals/service-booking/internal/pkg/response"
)

// ReviewHandler exposes review eligibility and submission over HTTP.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes mounts the review routes on the given group.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(jwtManager))
	{
		reviews.POST("", h.SubmitReview)
	}

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.GET("/:id/review-eligibility", h.CheckEligibility)
		bookings.GET("/:id/reviews", h.GetBookingReviews)
	}

	users := rg.Group("/users")
	{
		users.GET("/:id/reviews", h.GetUserReviews)
	}
}

// CheckEligibility handles GET /bookings/:id/review-eligibility.
func (h *ReviewHandler) CheckEligibility(c *gin.Context) {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	verdict, err := h.service.CheckEligibility(c.Request.Context(), bookingID, reviewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verdict)
}

// SubmitReview handles POST /reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req application.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.SubmitReview(c.Request.Context(), reviewerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// GetBookingReviews handles GET /bookings/:id/reviews.
func (h *ReviewHandler) GetBookingReviews(c *gin.Context) {
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

	reviews, err := h.service.GetBookingReviews(c.Request.Context(), bookingID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}

// GetUserReviews handles GET /users/:id/reviews. Public reviews only, no
// authentication required.
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	revieweeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetUserReviews(c.Request.Context(), revieweeID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
