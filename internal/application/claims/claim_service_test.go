package claims

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/claims"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClaimRepository is a mock implementation of ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*claims.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*claims.Claim, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByStatus(ctx context.Context, status claims.ClaimStatus, filter shared.Filter) ([]claims.Claim, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindAll(ctx context.Context, filter shared.Filter) ([]claims.Claim, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]claims.Claim), args.Error(1)
}

func (m *MockClaimRepository) SaveWithEvents(ctx context.Context, claim *claims.Claim, events []shared.DomainEvent) error {
	args := m.Called(ctx, claim, events)
	return args.Error(0)
}

func (m *MockClaimRepository) SaveWithLockAndEvents(ctx context.Context, claim *claims.Claim, events []shared.DomainEvent) error {
	args := m.Called(ctx, claim, events)
	return args.Error(0)
}

func (m *MockClaimRepository) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) CountByStatus(ctx context.Context, status claims.ClaimStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository mocks the order lookup side of claim creation
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

// fakeStorage is an in-memory ObjectStorageService for service tests
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failOn  int // fail the nth upload (1-based), 0 disables
	uploads int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failOn > 0 && f.uploads == f.failOn {
		return assert.AnError
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/" + key, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func deliveredOrder(t *testing.T, customerID *uuid.UUID) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(
		"ORD-042",
		customerID,
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
			{ProductName: "Wireless Earbuds", UnitPrice: valueobject.NewMoneyPKRFromInt(2999), Quantity: 1},
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
	return order
}

func testCreateRequest(orderID uuid.UUID) CreateClaimRequest {
	return CreateClaimRequest{
		OrderID:        &orderID,
		Name:           "Ayesha Khan",
		Email:          "ayesha@example.com",
		WhatsAppNumber: "+92 300 1234567",
		City:           "Lahore",
		ClaimType:      "Warranty Claim",
		Message:        "The left earbud stopped charging after two days.",
		Attachments: []AttachmentInput{
			{FileName: "earbud.jpg", ContentType: "image/jpeg", Data: []byte("jpeg bytes")},
		},
	}
}

func TestClaimService_Create(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	storage := newFakeStorage()
	service := NewClaimService(claimRepo, orderRepo, storage, zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()
	claimRepo.On("ExistsByOrderID", mock.Anything, order.ID).Return(false, nil).Once()
	claimRepo.On("SaveWithEvents", mock.Anything, mock.AnythingOfType("*claims.Claim"), mock.Anything).
		Run(func(args mock.Arguments) {
			events := args.Get(2).([]shared.DomainEvent)
			require.Len(t, events, 1)
			assert.Equal(t, "ClaimSubmitted", events[0].EventType())
		}).
		Return(nil).Once()

	resp, err := service.Create(context.Background(), testCreateRequest(order.ID))

	require.NoError(t, err)
	assert.Equal(t, order.ID, resp.OrderID)
	assert.Equal(t, "warranty", resp.Type)
	assert.Equal(t, "Warranty Claim", resp.TypeLabel)
	assert.Equal(t, "pending", resp.Status)
	assert.Nil(t, resp.ResolutionNotes)
	require.Len(t, resp.Images, 1)
	assert.Contains(t, resp.Images[0].URL, resp.Images[0].StorageKey)
	assert.Len(t, storage.objects, 1)
	claimRepo.AssertExpectations(t)
}

func TestClaimService_CreateByOrderNumber(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByOrderNumber", mock.Anything, "ORD-042").Return(order, nil).Once()
	claimRepo.On("ExistsByOrderID", mock.Anything, order.ID).Return(false, nil).Once()
	claimRepo.On("SaveWithEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := testCreateRequest(order.ID)
	req.OrderID = nil
	req.OrderNumber = "ORD-042"
	req.Attachments = nil

	resp, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, resp.Images)
}

func TestClaimService_CreateRejectsUndeliveredOrder(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	order.Status = ordering.OrderStatusShipped
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	_, err := service.Create(context.Background(), testCreateRequest(order.ID))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ORDER_NOT_DELIVERED", domainErr.Code)
	claimRepo.AssertNotCalled(t, "SaveWithEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_CreateRejectsForeignCustomer(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	owner := uuid.New()
	order := deliveredOrder(t, &owner)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	req := testCreateRequest(order.ID)
	stranger := uuid.New()
	req.RequesterID = &stranger

	_, err := service.Create(context.Background(), req)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestClaimService_CreateRejectsGuestEmailMismatch(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	req := testCreateRequest(order.ID)
	req.Email = "someoneelse@example.com"

	_, err := service.Create(context.Background(), req)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestClaimService_CreateRejectsTooManyImages(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	storage := newFakeStorage()
	service := NewClaimService(claimRepo, orderRepo, storage, zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	req := testCreateRequest(order.ID)
	req.Attachments = nil
	for i := 0; i < 6; i++ {
		req.Attachments = append(req.Attachments, AttachmentInput{
			FileName: "img.jpg", ContentType: "image/jpeg", Data: []byte("x"),
		})
	}

	_, err := service.Create(context.Background(), req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOO_MANY_IMAGES", domainErr.Code)
	// Nothing uploaded before the rejection
	assert.Zero(t, storage.uploads)
}

func TestClaimService_CreateRejectsNonImageAttachment(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	req := testCreateRequest(order.ID)
	req.Attachments = []AttachmentInput{
		{FileName: "invoice.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	}

	_, err := service.Create(context.Background(), req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ATTACHMENT", domainErr.Code)
}

func TestClaimService_CreateRejectsDuplicate(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()
	claimRepo.On("ExistsByOrderID", mock.Anything, order.ID).Return(true, nil).Once()

	_, err := service.Create(context.Background(), testCreateRequest(order.ID))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLAIM_EXISTS", domainErr.Code)
}

func TestClaimService_CreateDuplicateRaceCleansUploads(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	storage := newFakeStorage()
	service := NewClaimService(claimRepo, orderRepo, storage, zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()
	// Precheck passes but the unique index catches the concurrent insert
	claimRepo.On("ExistsByOrderID", mock.Anything, order.ID).Return(false, nil).Once()
	claimRepo.On("SaveWithEvents", mock.Anything, mock.Anything, mock.Anything).
		Return(shared.ErrAlreadyExists).Once()

	_, err := service.Create(context.Background(), testCreateRequest(order.ID))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLAIM_EXISTS", domainErr.Code)
	assert.Len(t, storage.deleted, 1)
	assert.Empty(t, storage.objects)
}

func pendingClaim(t *testing.T) *claims.Claim {
	t.Helper()
	claim, err := claims.NewClaim(
		uuid.New(),
		claims.RequesterContact{
			Name:           "Ayesha Khan",
			Email:          "ayesha@example.com",
			WhatsAppNumber: "+92 300 1234567",
			City:           "Lahore",
		},
		claims.ClaimTypeWarranty,
		"The left earbud stopped charging.",
		nil,
	)
	require.NoError(t, err)
	claim.ClearDomainEvents()
	return claim
}

func TestClaimService_StartResolveFlow(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	claim := pendingClaim(t)
	claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil)
	claimRepo.On("SaveWithLockAndEvents", mock.Anything, claim, mock.Anything).Return(nil)

	resp, err := service.Start(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)

	resp, err = service.Resolve(context.Background(), claim.ID, ResolveClaimRequest{
		Notes: "Replacement unit dispatched.",
	})
	require.NoError(t, err)
	assert.Equal(t, "resolved", resp.Status)
	require.NotNil(t, resp.ResolutionNotes)
	assert.Equal(t, "Replacement unit dispatched.", *resp.ResolutionNotes)
}

func TestClaimService_RejectWithoutNotesKeepsNil(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	claim := pendingClaim(t)
	require.NoError(t, claim.Start())
	claim.ClearDomainEvents()

	claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil).Once()
	claimRepo.On("SaveWithLockAndEvents", mock.Anything, claim, mock.Anything).Return(nil).Once()

	resp, err := service.Reject(context.Background(), claim.ID, RejectClaimRequest{})

	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	// Nil notes are distinct from an empty explanation
	assert.Nil(t, resp.ResolutionNotes)
}

func TestClaimService_StartTwiceFails(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	claim := pendingClaim(t)
	require.NoError(t, claim.Start())
	claim.ClearDomainEvents()

	claimRepo.On("FindByID", mock.Anything, claim.ID).Return(claim, nil).Once()

	_, err := service.Start(context.Background(), claim.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	claimRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_CreateRejectsUnknownType(t *testing.T) {
	claimRepo := new(MockClaimRepository)
	orderRepo := new(MockOrderRepository)
	service := NewClaimService(claimRepo, orderRepo, newFakeStorage(), zap.NewNop())

	order := deliveredOrder(t, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

	req := testCreateRequest(order.ID)
	req.ClaimType = "Price Match"

	_, err := service.Create(context.Background(), req)
	assert.Error(t, err)
}
