package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
	"github.com/lingvoapp/lingvo-backend/internal/domain/provider"
	"github.com/lingvoapp/lingvo-backend/internal/domain/repository"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Insert(ctx context.Context, payment *model.Payment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) CountPendingSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Payment, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.Payment), args.Error(1)
}

// MockEntitlementRepository is a mock implementation of EntitlementRepository
type MockEntitlementRepository struct {
	mock.Mock
}

func (m *MockEntitlementRepository) GetForUpdate(ctx context.Context, userID string, product model.Product) (*model.Entitlement, error) {
	args := m.Called(ctx, userID, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepository) Create(ctx context.Context, ent *model.Entitlement) (bool, error) {
	args := m.Called(ctx, ent)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementRepository) UpdateEndsAt(ctx context.Context, userID string, product model.Product, endsAt time.Time) error {
	args := m.Called(ctx, userID, product, endsAt)
	return args.Error(0)
}

func (m *MockEntitlementRepository) GetActive(ctx context.Context, userID string, at time.Time) (*model.Entitlement, error) {
	args := m.Called(ctx, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepository) HasLapsed(ctx context.Context, userID string, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementRepository) ListByUser(ctx context.Context, userID string) ([]model.Entitlement, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Entitlement), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CountCompletedLessons(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPricingRepository is a mock implementation of PricingRepository
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) GetActiveByCohort(ctx context.Context, cohort model.Cohort) (*model.CohortPricing, error) {
	args := m.Called(ctx, cohort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CohortPricing), args.Error(1)
}

func (m *MockPricingRepository) ListActive(ctx context.Context) ([]model.CohortPricing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.CohortPricing), args.Error(1)
}

func (m *MockPricingRepository) Upsert(ctx context.Context, pricing *model.CohortPricing) error {
	args := m.Called(ctx, pricing)
	return args.Error(0)
}

// MockPublisher is a mock implementation of event.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// MockProvider is a mock implementation of provider.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreatePaymentResponse), args.Error(1)
}

func (m *MockProvider) NormalizeWebhook(body []byte, idempotencyKey string) *provider.CanonicalWebhookEvent {
	args := m.Called(body, idempotencyKey)
	return args.Get(0).(*provider.CanonicalWebhookEvent)
}

func (m *MockProvider) VerifyWebhookSignature(body []byte, signature string) error {
	args := m.Called(body, signature)
	return args.Error(0)
}

// fakeUnitOfWork runs the callback immediately against the given mock
// repositories, standing in for a real database transaction.
type fakeUnitOfWork struct {
	payments     *MockPaymentRepository
	entitlements *MockEntitlementRepository
	users        *MockUserRepository
}

func (f *fakeUnitOfWork) Payments() repository.PaymentRepository {
	return f.payments
}

func (f *fakeUnitOfWork) Entitlements() repository.EntitlementRepository {
	return f.entitlements
}

func (f *fakeUnitOfWork) Users() repository.UserRepository {
	return f.users
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepositories) error) error {
	return fn(f)
}
