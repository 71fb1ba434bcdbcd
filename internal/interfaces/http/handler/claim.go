package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	claimapp "github.com/storefront/backend/internal/application/claims"
)

// maxAttachmentBytes caps a single claim image upload
const maxAttachmentBytes = 5 << 20

var errAttachmentTooLarge = errors.New("attachment exceeds size limit")

// ClaimHandler handles claim API endpoints
type ClaimHandler struct {
	BaseHandler
	claimService *claimapp.ClaimService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService *claimapp.ClaimService) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
	}
}

// claimFormFields is the multipart form shape of a claim submission
type claimFormFields struct {
	OrderID        string `form:"order_id"`
	OrderNumber    string `form:"order_number"`
	Name           string `form:"name" binding:"required,max=120"`
	Email          string `form:"email" binding:"required,email"`
	WhatsAppNumber string `form:"whatsapp_number" binding:"required,max=32"`
	City           string `form:"city" binding:"required,max=80"`
	ClaimType      string `form:"claim_type" binding:"required"`
	Message        string `form:"message" binding:"required,max=2000"`
}

// Create godoc
// @Summary      Submit a claim
// @Description  Open a return/refund/warranty/complaint claim against a delivered order. Multipart form with up to 5 image attachments under the "images" field.
// @Tags         claims
// @Accept       multipart/form-data
// @Produce      json
// @Param        order_id formData string false "Order ID (or order_number)" format(uuid)
// @Param        order_number formData string false "Order number (or order_id)"
// @Param        name formData string true "Requester name"
// @Param        email formData string true "Requester email"
// @Param        whatsapp_number formData string true "WhatsApp contact number"
// @Param        city formData string true "Requester city"
// @Param        claim_type formData string true "Claim type" Enums(Return Request, Refund Claim, Warranty Claim, Complaint)
// @Param        message formData string true "Problem description"
// @Param        images formData file false "Image attachments (max 5)"
// @Success      201 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	var fields claimFormFields
	if err := c.ShouldBind(&fields); err != nil {
		h.BindError(c, err)
		return
	}

	req := claimapp.CreateClaimRequest{
		OrderNumber:    fields.OrderNumber,
		Name:           fields.Name,
		Email:          fields.Email,
		WhatsAppNumber: fields.WhatsAppNumber,
		City:           fields.City,
		ClaimType:      fields.ClaimType,
		Message:        fields.Message,
	}

	if fields.OrderID != "" {
		orderID, err := uuid.Parse(fields.OrderID)
		if err != nil {
			h.BadRequest(c, "Invalid order ID format")
			return
		}
		req.OrderID = &orderID
	}

	requesterID, err := getOptionalCustomerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	req.RequesterID = requesterID

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["images"] {
			attachment, err := readAttachment(fh)
			if err != nil {
				if errors.Is(err, errAttachmentTooLarge) {
					h.BadRequest(c, "Attachment "+fh.Filename+" exceeds the 5 MiB limit")
					return
				}
				h.BadRequest(c, "Failed to read attachment "+fh.Filename)
				return
			}
			req.Attachments = append(req.Attachments, attachment)
		}
	}

	claim, err := h.claimService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, claim)
}

func readAttachment(fh *multipart.FileHeader) (claimapp.AttachmentInput, error) {
	file, err := fh.Open()
	if err != nil {
		return claimapp.AttachmentInput{}, err
	}
	defer file.Close()

	// Read one byte past the cap so an oversized upload is rejected
	// rather than silently truncated.
	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		return claimapp.AttachmentInput{}, err
	}
	if len(data) > maxAttachmentBytes {
		return claimapp.AttachmentInput{}, errAttachmentTooLarge
	}

	return claimapp.AttachmentInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// GetByID godoc
// @Summary      Get claim by ID
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id} [get]
func (h *ClaimHandler) GetByID(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	claim, err := h.claimService.GetByID(c.Request.Context(), claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// GetByOrder godoc
// @Summary      Get the claim for an order
// @Tags         claims
// @Produce      json
// @Param        order_id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/order/{order_id} [get]
func (h *ClaimHandler) GetByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	claim, err := h.claimService.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// List godoc
// @Summary      List claims
// @Tags         claims
// @Produce      json
// @Param        status query string false "Claim status" Enums(pending, in_progress, resolved, rejected)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]claims.ClaimResponse}
// @Router       /claims [get]
func (h *ClaimHandler) List(c *gin.Context) {
	var filter claimapp.ClaimListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	claims, err := h.claimService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claims)
}

// Start godoc
// @Summary      Start working a claim
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/start [post]
func (h *ClaimHandler) Start(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	claim, err := h.claimService.Start(c.Request.Context(), claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// Resolve godoc
// @Summary      Resolve a claim
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body claims.ResolveClaimRequest true "Resolution notes"
// @Success      200 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/resolve [post]
func (h *ClaimHandler) Resolve(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	var req claimapp.ResolveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	claim, err := h.claimService.Resolve(c.Request.Context(), claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// Reject godoc
// @Summary      Reject a claim
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body claims.RejectClaimRequest false "Rejection notes"
// @Success      200 {object} dto.Response{data=claims.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/reject [post]
func (h *ClaimHandler) Reject(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	var req claimapp.RejectClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	claim, err := h.claimService.Reject(c.Request.Context(), claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// RegisterRoutes registers claim routes
func (h *ClaimHandler) RegisterRoutes(rg *gin.RouterGroup) {
	claims := rg.Group("/claims")
	{
		claims.POST("", h.Create)
		claims.GET("", h.List)
		claims.GET("/:id", h.GetByID)
		claims.GET("/order/:order_id", h.GetByOrder)
		claims.POST("/:id/start", h.Start)
		claims.POST("/:id/resolve", h.Resolve)
		claims.POST("/:id/reject", h.Reject)
	}
}
