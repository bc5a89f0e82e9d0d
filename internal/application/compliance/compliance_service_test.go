package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/compliance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MockRequirementRepository is a mock implementation of compliance.RequirementRepository
type MockRequirementRepository struct {
	mock.Mock
}

func (m *MockRequirementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*compliance.ComplianceRequirement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compliance.ComplianceRequirement), args.Error(1)
}

func (m *MockRequirementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]compliance.ComplianceRequirement, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]compliance.ComplianceRequirement), args.Error(1)
}

func (m *MockRequirementRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]compliance.ComplianceRequirement, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]compliance.ComplianceRequirement), args.Error(1)
}

func (m *MockRequirementRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]compliance.ComplianceRequirement, error) {
	args := m.Called(ctx, tenantID, before)
	return args.Get(0).([]compliance.ComplianceRequirement), args.Error(1)
}

func (m *MockRequirementRepository) Save(ctx context.Context, r *compliance.ComplianceRequirement) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequirementRepository) SaveWithEvent(ctx context.Context, r *compliance.ComplianceRequirement, ev *compliance.ComplianceEvent) error {
	args := m.Called(ctx, r, ev)
	return args.Error(0)
}

func (m *MockRequirementRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of compliance.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByRequirement(ctx context.Context, tenantID, requirementID uuid.UUID, filter shared.Filter) ([]compliance.ComplianceEvent, error) {
	args := m.Called(ctx, tenantID, requirementID, filter)
	return args.Get(0).([]compliance.ComplianceEvent), args.Error(1)
}

func (m *MockEventRepository) Save(ctx context.Context, ev *compliance.ComplianceEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func newComplianceService(t *testing.T) (*ComplianceService, *MockRequirementRepository, *MockEventRepository, uuid.UUID) {
	t.Helper()
	reqRepo := new(MockRequirementRepository)
	evRepo := new(MockEventRepository)
	return NewComplianceService(reqRepo, evRepo, zap.NewNop()), reqRepo, evRepo, uuid.New()
}

func annualFireCheck(t *testing.T, tenantID uuid.UUID) *compliance.ComplianceRequirement {
	t.Helper()
	r, err := compliance.NewRequirement(tenantID, uuid.New(), "Fire risk assessment",
		compliance.CategoryFire, "RRO 2005", 365)
	require.NoError(t, err)
	return r
}

func TestRecordCompletion_SavesEvidenceAndResetsClock(t *testing.T) {
	service, reqRepo, _, tenantID := newComplianceService(t)
	r := annualFireCheck(t, tenantID)
	staffID := uuid.New()
	completedAt := time.Now().AddDate(0, 0, -1)

	reqRepo.On("FindByIDForTenant", mock.Anything, tenantID, r.ID).Return(r, nil)
	reqRepo.On("SaveWithEvent", mock.Anything, r, mock.MatchedBy(func(ev *compliance.ComplianceEvent) bool {
		return ev.RequirementID == r.ID && ev.CompletedBy == staffID
	})).Return(nil)

	event, err := service.RecordCompletion(context.Background(), RecordCompletionInput{
		TenantID:      tenantID,
		RequirementID: r.ID,
		CompletedBy:   staffID,
		CompletedAt:   completedAt,
		Notes:         "Annual assessment by Marsden Fire Safety",
	})

	require.NoError(t, err)
	assert.Equal(t, r.ID, event.RequirementID)
	require.NotNil(t, r.LastCompletedAt)
	assert.Equal(t, completedAt.AddDate(0, 0, 365), r.NextDue())
}

func TestRecordCompletion_FutureDateRejected(t *testing.T) {
	service, reqRepo, _, tenantID := newComplianceService(t)
	r := annualFireCheck(t, tenantID)

	reqRepo.On("FindByIDForTenant", mock.Anything, tenantID, r.ID).Return(r, nil)

	_, err := service.RecordCompletion(context.Background(), RecordCompletionInput{
		TenantID:      tenantID,
		RequirementID: r.ID,
		CompletedBy:   uuid.New(),
		CompletedAt:   time.Now().AddDate(0, 0, 7),
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_COMPLETION_DATE", domainErr.Code)
	reqRepo.AssertNotCalled(t, "SaveWithEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordCompletion_RetiredRequirementRejected(t *testing.T) {
	service, reqRepo, _, tenantID := newComplianceService(t)
	r := annualFireCheck(t, tenantID)
	r.Retire()

	reqRepo.On("FindByIDForTenant", mock.Anything, tenantID, r.ID).Return(r, nil)

	_, err := service.RecordCompletion(context.Background(), RecordCompletionInput{
		TenantID:      tenantID,
		RequirementID: r.ID,
		CompletedBy:   uuid.New(),
		CompletedAt:   time.Now(),
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INACTIVE_REQUIREMENT", domainErr.Code)
}

func TestDueRequirements_SplitsDueAndOverdue(t *testing.T) {
	service, reqRepo, _, tenantID := newComplianceService(t)

	overdue := annualFireCheck(t, tenantID)
	past := time.Now().AddDate(-1, 0, -10)
	overdue.LastCompletedAt = &past

	dueSoon, err := compliance.NewRequirement(tenantID, uuid.New(), "Legionella check",
		compliance.CategoryHygiene, "HSG274", 180)
	require.NoError(t, err)
	recent := time.Now().AddDate(0, 0, -170)
	dueSoon.LastCompletedAt = &recent

	reqRepo.On("FindDueBefore", mock.Anything, tenantID, mock.AnythingOfType("time.Time")).
		Return([]compliance.ComplianceRequirement{*overdue, *dueSoon}, nil)

	standings, err := service.DueRequirements(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, compliance.StatusOverdue, standings[0].Status)
	assert.Equal(t, compliance.StatusDue, standings[1].Status)
}

func TestCreateRequirement_InvalidInterval(t *testing.T) {
	service, reqRepo, _, tenantID := newComplianceService(t)

	_, err := service.CreateRequirement(context.Background(), CreateRequirementInput{
		TenantID:     tenantID,
		CareHomeID:   uuid.New(),
		Name:         "Daily impossible audit",
		Category:     "cqc",
		IntervalDays: 0,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INTERVAL", domainErr.Code)
	reqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
