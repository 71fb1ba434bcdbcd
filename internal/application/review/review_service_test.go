package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByAuthorAndOrder(ctx context.Context, authorID, orderID uuid.UUID) ([]review.Review, error) {
	args := m.Called(ctx, authorID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	args := m.Called(ctx, rv)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	args := m.Called(ctx, rv)
	return args.Error(0)
}

func (m *MockReviewRepository) ExistsByTriple(ctx context.Context, authorID, productID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, authorID, productID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository mocks the order lookups behind the review gate
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveWithEvents(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status ordering.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type reviewFixture struct {
	service    *ReviewService
	reviewRepo *MockReviewRepository
	orderRepo  *MockOrderRepository
	author     uuid.UUID
	earbudsID  uuid.UUID
	caseID     uuid.UUID
	order      *ordering.Order
}

// newReviewFixture builds a delivered two-item order owned by the author
func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	author := uuid.New()
	earbudsID := uuid.New()
	caseID := uuid.New()

	order, err := ordering.NewOrder(
		"ORD-042",
		&author,
		"ayesha@example.com",
		ordering.ShippingContact{
			Name:       "Ayesha Khan",
			Phone:      "+92 300 1234567",
			Address:    "12-B Gulberg III",
			City:       "Lahore",
			Province:   "Punjab",
			PostalCode: "54000",
		},
		ordering.PaymentMethodCOD,
		[]ordering.CartLine{
			{ProductID: &earbudsID, ProductName: "Wireless Earbuds", UnitPrice: valueobject.NewMoneyPKRFromInt(2999), Quantity: 1},
			{ProductID: &caseID, ProductName: "Phone Case", VariantDetails: "Matte Black", UnitPrice: valueobject.NewMoneyPKRFromInt(2499), Quantity: 2},
		},
		valueobject.NewMoneyPKRFromInt(200),
		valueobject.ZeroPKR(),
		"", "",
	)
	require.NoError(t, err)
	require.NoError(t, order.Process())
	require.NoError(t, order.Ship("TCS", "TCS12345", "https://tcs.example.com/track/TCS12345"))
	require.NoError(t, order.Deliver())
	order.ClearDomainEvents()

	reviewRepo := new(MockReviewRepository)
	orderRepo := new(MockOrderRepository)
	return &reviewFixture{
		service:    NewReviewService(reviewRepo, orderRepo, zap.NewNop()),
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		author:     author,
		earbudsID:  earbudsID,
		caseID:     caseID,
		order:      order,
	}
}

func (f *reviewFixture) submitRequest() SubmitReviewRequest {
	return SubmitReviewRequest{
		ProductID: f.earbudsID,
		OrderID:   f.order.ID,
		Rating:    5,
		Title:     "Great sound",
		Comment:   "Battery easily lasts the full day.",
	}
}

func TestReviewService_Eligibility(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.earbudsID, f.order.ID).Return(false, nil).Once()
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.caseID, f.order.ID).Return(true, nil).Once()

	resp, err := f.service.Eligibility(context.Background(), f.author, f.order.ID)

	require.NoError(t, err)
	assert.Equal(t, "ORD-042", resp.OrderNumber)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Eligible)
	assert.Empty(t, resp.Items[0].Reason)
	assert.False(t, resp.Items[1].Eligible)
	assert.Equal(t, "already reviewed", resp.Items[1].Reason)
}

func TestReviewService_EligibilityUndeliveredOrder(t *testing.T) {
	f := newReviewFixture(t)
	f.order.Status = ordering.OrderStatusShipped
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()

	resp, err := f.service.Eligibility(context.Background(), f.author, f.order.ID)

	require.NoError(t, err)
	for _, item := range resp.Items {
		assert.False(t, item.Eligible)
		assert.Equal(t, "order not delivered", item.Reason)
	}
	f.reviewRepo.AssertNotCalled(t, "ExistsByTriple", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_EligibilityDeletedProduct(t *testing.T) {
	f := newReviewFixture(t)
	f.order.Items[0].ProductID = nil
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.caseID, f.order.ID).Return(false, nil).Once()

	resp, err := f.service.Eligibility(context.Background(), f.author, f.order.ID)

	require.NoError(t, err)
	assert.False(t, resp.Items[0].Eligible)
	assert.Equal(t, "product no longer available", resp.Items[0].Reason)
	assert.True(t, resp.Items[1].Eligible)
}

func TestReviewService_EligibilityForeignOrder(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()

	_, err := f.service.Eligibility(context.Background(), uuid.New(), f.order.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestReviewService_Submit(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.earbudsID, f.order.ID).Return(false, nil).Once()
	f.reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*review.Review")).Return(nil).Once()

	resp, err := f.service.Submit(context.Background(), f.author, f.submitRequest())

	require.NoError(t, err)
	assert.Equal(t, f.earbudsID, resp.ProductID)
	assert.Equal(t, 5, resp.Rating)
	assert.True(t, resp.VerifiedPurchase)
	assert.Zero(t, resp.HelpfulCount)
	f.reviewRepo.AssertExpectations(t)
}

func TestReviewService_SubmitRejectsUndeliveredOrder(t *testing.T) {
	f := newReviewFixture(t)
	f.order.Status = ordering.OrderStatusProcessing
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()

	_, err := f.service.Submit(context.Background(), f.author, f.submitRequest())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ORDER_NOT_DELIVERED", domainErr.Code)
}

func TestReviewService_SubmitRejectsForeignAuthor(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()

	_, err := f.service.Submit(context.Background(), uuid.New(), f.submitRequest())

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestReviewService_SubmitRejectsProductNotInOrder(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()

	req := f.submitRequest()
	req.ProductID = uuid.New()

	_, err := f.service.Submit(context.Background(), f.author, req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_IN_ORDER", domainErr.Code)
}

func TestReviewService_SubmitRejectsDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.earbudsID, f.order.ID).Return(true, nil).Once()

	_, err := f.service.Submit(context.Background(), f.author, f.submitRequest())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REVIEW_EXISTS", domainErr.Code)
	f.reviewRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReviewService_SubmitDuplicateRace(t *testing.T) {
	f := newReviewFixture(t)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	// Precheck passes but the composite unique index catches the race
	f.reviewRepo.On("ExistsByTriple", mock.Anything, f.author, f.earbudsID, f.order.ID).Return(false, nil).Once()
	f.reviewRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists).Once()

	_, err := f.service.Submit(context.Background(), f.author, f.submitRequest())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REVIEW_EXISTS", domainErr.Code)
}

func TestReviewService_ListByProduct(t *testing.T) {
	f := newReviewFixture(t)

	rv, err := review.NewReview(f.earbudsID, f.order.ID, f.author, 4, "", "Solid value for the price.", nil, true)
	require.NoError(t, err)

	f.reviewRepo.On("FindByProduct", mock.Anything, f.earbudsID, mock.Anything).Return([]review.Review{*rv}, nil).Once()
	f.reviewRepo.On("CountByProduct", mock.Anything, f.earbudsID).Return(int64(7), nil).Once()

	resp, err := f.service.ListByProduct(context.Background(), f.earbudsID, ReviewListFilter{Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Total)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, 4, resp.Reviews[0].Rating)
}

func TestReviewService_MarkHelpful(t *testing.T) {
	f := newReviewFixture(t)

	rv, err := review.NewReview(f.earbudsID, f.order.ID, f.author, 5, "", "Battery easily lasts the full day.", nil, true)
	require.NoError(t, err)

	f.reviewRepo.On("FindByID", mock.Anything, rv.ID).Return(rv, nil).Once()
	f.reviewRepo.On("Update", mock.Anything, rv).Return(nil).Once()

	resp, err := f.service.MarkHelpful(context.Background(), rv.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.HelpfulCount)
}

func TestReviewService_MarkHelpfulNotFound(t *testing.T) {
	f := newReviewFixture(t)
	id := uuid.New()
	f.reviewRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

	_, err := f.service.MarkHelpful(context.Background(), id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
