package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reviewapp "github.com/storefront/backend/internal/application/review"
)

// ReviewHandler handles product review API endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Eligibility godoc
// @Summary      Check review eligibility for an order
// @Description  Returns a per-line-item verdict on whether the customer may still review each purchased product
// @Tags         reviews
// @Produce      json
// @Param        X-Customer-ID header string true "Customer ID" format(uuid)
// @Param        order_id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.EligibilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews/eligibility/{order_id} [get]
func (h *ReviewHandler) Eligibility(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Customer identity required")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	eligibility, err := h.reviewService.Eligibility(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, eligibility)
}

// Submit godoc
// @Summary      Submit a review
// @Description  Create a verified-purchase review for a product bought in a delivered order
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        X-Customer-ID header string true "Customer ID" format(uuid)
// @Param        request body review.SubmitReviewRequest true "Review submission"
// @Success      201 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Customer identity required")
		return
	}

	var req reviewapp.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, review)
}

// ListByProduct godoc
// @Summary      List reviews for a product
// @Tags         reviews
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=review.ReviewListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews/product/{product_id} [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.reviewService.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, result.Reviews, result.Total, page, pageSize)
}

// GetByID godoc
// @Summary      Get review by ID
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetByID(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.GetByID(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}

// MarkHelpful godoc
// @Summary      Mark a review as helpful
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews/{id}/helpful [post]
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.MarkHelpful(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.POST("", h.Submit)
		reviews.GET("/eligibility/:order_id", h.Eligibility)
		reviews.GET("/product/:product_id", h.ListByProduct)
		reviews.GET("/:id", h.GetByID)
		reviews.POST("/:id/helpful", h.MarkHelpful)
	}
}
