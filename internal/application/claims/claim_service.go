package claims

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/claims"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const downloadURLExpiry = 15 * time.Minute

// ClaimService handles claim submission and operator resolution
type ClaimService struct {
	claimRepo claims.ClaimRepository
	orderRepo ordering.OrderRepository
	storage   ObjectStorageService
	logger    *zap.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo claims.ClaimRepository,
	orderRepo ordering.OrderRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *ClaimService {
	return &ClaimService{
		claimRepo: claimRepo,
		orderRepo: orderRepo,
		storage:   storage,
		logger:    logger,
	}
}

// Create submits a new claim for a delivered order.
// Attachments are uploaded before the insert; if the insert fails the
// uploaded objects are deleted so no half-state survives. The unique index
// on order_id is the final arbiter of the one-claim-per-order invariant.
func (s *ClaimService) Create(ctx context.Context, req CreateClaimRequest) (*ClaimResponse, error) {
	order, err := s.resolveOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if !order.IsDelivered() {
		return nil, shared.NewDomainError("ORDER_NOT_DELIVERED", "Claims can only be opened for delivered orders")
	}

	if err := s.verifyRequester(order, req); err != nil {
		return nil, err
	}

	claimType, err := claims.ParseClaimType(req.ClaimType)
	if err != nil {
		return nil, err
	}

	if len(req.Attachments) > claims.MaxImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES",
			fmt.Sprintf("At most %d images are allowed, got %d", claims.MaxImages, len(req.Attachments)))
	}
	for _, att := range req.Attachments {
		if !strings.HasPrefix(att.ContentType, "image/") {
			return nil, shared.NewDomainError("INVALID_ATTACHMENT",
				fmt.Sprintf("Attachment %s is not an image", att.FileName))
		}
	}

	// Friendly precheck; the insert below still closes the race
	exists, err := s.claimRepo.ExistsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CLAIM_EXISTS", "A claim already exists for this order")
	}

	imageKeys, err := s.uploadAttachments(ctx, order.ID, req.Attachments)
	if err != nil {
		return nil, err
	}

	contact := claims.RequesterContact{
		Name:           req.Name,
		Email:          req.Email,
		WhatsAppNumber: req.WhatsAppNumber,
		City:           req.City,
	}

	claim, err := claims.NewClaim(order.ID, contact, claimType, req.Message, imageKeys)
	if err != nil {
		s.deleteUploaded(ctx, imageKeys)
		return nil, err
	}

	if err := s.claimRepo.SaveWithEvents(ctx, claim, claim.GetDomainEvents()); err != nil {
		s.deleteUploaded(ctx, imageKeys)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("CLAIM_EXISTS", "A claim already exists for this order")
		}
		return nil, fmt.Errorf("failed to persist claim: %w", err)
	}
	claim.ClearDomainEvents()

	s.logger.Info("claim submitted",
		zap.String("claim_id", claim.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("claim_type", string(claim.Type)),
		zap.Int("images", len(imageKeys)),
	)

	resp := s.toResponseWithURLs(ctx, claim)
	return &resp, nil
}

// GetByID retrieves a claim by ID
func (s *ClaimService) GetByID(ctx context.Context, claimID uuid.UUID) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponseWithURLs(ctx, claim)
	return &resp, nil
}

// GetByOrder retrieves the claim bound to an order, if any
func (s *ClaimService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponseWithURLs(ctx, claim)
	return &resp, nil
}

// List retrieves claims with filtering for the operator surface
func (s *ClaimService) List(ctx context.Context, filter ClaimListFilter) ([]ClaimResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir

	var (
		result []claims.Claim
		err    error
	)
	if filter.Status != "" {
		result, err = s.claimRepo.FindByStatus(ctx, claims.ClaimStatus(filter.Status), domainFilter)
	} else {
		result, err = s.claimRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ClaimResponse, len(result))
	for i := range result {
		responses[i] = ToClaimResponse(&result[i])
	}
	return responses, nil
}

// Start moves a pending claim to in-progress (operator action)
func (s *ClaimService) Start(ctx context.Context, claimID uuid.UUID) (*ClaimResponse, error) {
	return s.transition(ctx, claimID, func(claim *claims.Claim) error {
		return claim.Start()
	})
}

// Resolve closes a claim as resolved with mandatory notes (operator action)
func (s *ClaimService) Resolve(ctx context.Context, claimID uuid.UUID, req ResolveClaimRequest) (*ClaimResponse, error) {
	return s.transition(ctx, claimID, func(claim *claims.Claim) error {
		return claim.Resolve(req.Notes)
	})
}

// Reject closes a claim as rejected, notes optional (operator action)
func (s *ClaimService) Reject(ctx context.Context, claimID uuid.UUID, req RejectClaimRequest) (*ClaimResponse, error) {
	return s.transition(ctx, claimID, func(claim *claims.Claim) error {
		return claim.Reject(req.Notes)
	})
}

func (s *ClaimService) transition(ctx context.Context, claimID uuid.UUID, apply func(*claims.Claim) error) (*ClaimResponse, error) {
	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if err := apply(claim); err != nil {
		return nil, err
	}

	if err := s.claimRepo.SaveWithLockAndEvents(ctx, claim, claim.GetDomainEvents()); err != nil {
		return nil, err
	}
	claim.ClearDomainEvents()

	s.logger.Info("claim transitioned",
		zap.String("claim_id", claim.ID.String()),
		zap.String("status", string(claim.Status)),
	)

	resp := s.toResponseWithURLs(ctx, claim)
	return &resp, nil
}

// resolveOrder finds the order by ID or by order number
func (s *ClaimService) resolveOrder(ctx context.Context, req CreateClaimRequest) (*ordering.Order, error) {
	if req.OrderID != nil {
		return s.orderRepo.FindByID(ctx, *req.OrderID)
	}
	if req.OrderNumber != "" {
		return s.orderRepo.FindByOrderNumber(ctx, req.OrderNumber)
	}
	return nil, shared.NewDomainError("INVALID_ORDER_REF", "Either order_id or order_number is required")
}

// verifyRequester checks the claim is opened by the order's owner.
// Guest orders are matched on the submission email instead.
func (s *ClaimService) verifyRequester(order *ordering.Order, req CreateClaimRequest) error {
	if req.RequesterID != nil {
		if !order.BelongsTo(*req.RequesterID) {
			return shared.ErrForbidden
		}
		return nil
	}
	if !strings.EqualFold(order.Email, req.Email) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *ClaimService) uploadAttachments(ctx context.Context, orderID uuid.UUID, attachments []AttachmentInput) ([]string, error) {
	keys := make([]string, 0, len(attachments))
	for _, att := range attachments {
		ext := path.Ext(att.FileName)
		key := fmt.Sprintf("claims/%s/%s%s", orderID, uuid.New(), ext)
		if err := s.storage.Upload(ctx, key, att.Data, att.ContentType); err != nil {
			s.deleteUploaded(ctx, keys)
			return nil, fmt.Errorf("failed to upload attachment %s: %w", att.FileName, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// deleteUploaded best-effort removes uploaded objects after a failed insert
func (s *ClaimService) deleteUploaded(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			s.logger.Warn("failed to delete orphaned attachment",
				zap.String("storage_key", key),
				zap.Error(err),
			)
		}
	}
}

// toResponseWithURLs attaches presigned download URLs to the image keys
func (s *ClaimService) toResponseWithURLs(ctx context.Context, claim *claims.Claim) ClaimResponse {
	resp := ToClaimResponse(claim)
	for i := range resp.Images {
		url, _, err := s.storage.GenerateDownloadURL(ctx, resp.Images[i].StorageKey, downloadURLExpiry)
		if err != nil {
			s.logger.Warn("failed to generate attachment URL",
				zap.String("storage_key", resp.Images[i].StorageKey),
				zap.Error(err),
			)
			continue
		}
		resp.Images[i].URL = url
	}
	return resp
}
