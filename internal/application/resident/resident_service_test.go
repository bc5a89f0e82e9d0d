package resident

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MockResidentRepository is a mock implementation of resident.ResidentRepository
type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*resident.Resident, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resident.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (*resident.Resident, error) {
	args := m.Called(ctx, tenantID, nhsNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resident.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]resident.Resident, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]resident.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status resident.ResidentStatus, filter shared.Filter) ([]resident.Resident, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]resident.Resident), args.Error(1)
}

func (m *MockResidentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResidentRepository) ExistsByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, nhsNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockResidentRepository) RoomOccupied(ctx context.Context, tenantID, careHomeID uuid.UUID, room string) (bool, error) {
	args := m.Called(ctx, tenantID, careHomeID, room)
	return args.Bool(0), args.Error(1)
}

func (m *MockResidentRepository) Save(ctx context.Context, r *resident.Resident) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResidentRepository) SaveWithLock(ctx context.Context, r *resident.Resident) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResidentRepository) SaveBatch(ctx context.Context, residents []*resident.Resident) error {
	args := m.Called(ctx, residents)
	return args.Error(0)
}

func (m *MockResidentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCarePlanRepository is a mock implementation of resident.CarePlanRepository
type MockCarePlanRepository struct {
	mock.Mock
}

func (m *MockCarePlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*resident.CarePlan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resident.CarePlan), args.Error(1)
}

func (m *MockCarePlanRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]resident.CarePlan, error) {
	args := m.Called(ctx, tenantID, residentID, filter)
	return args.Get(0).([]resident.CarePlan), args.Error(1)
}

func (m *MockCarePlanRepository) FindActiveDueForReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]resident.CarePlan, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]resident.CarePlan), args.Error(1)
}

func (m *MockCarePlanRepository) Save(ctx context.Context, plan *resident.CarePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCarePlanRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func newTestResident(t *testing.T, tenantID uuid.UUID) *resident.Resident {
	t.Helper()
	r, err := resident.NewResident(
		tenantID, uuid.New(),
		"Margaret", "Whitfield", "943 476 5919",
		time.Date(1942, 3, 17, 0, 0, 0, 0, time.UTC),
		resident.CareLevelNursing,
	)
	require.NoError(t, err)
	return r
}

func TestCreateResident_RejectsDuplicateNHSNumber(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	carePlanRepo := new(MockCarePlanRepository)
	svc := NewResidentService(residentRepo, carePlanRepo, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()

	residentRepo.On("ExistsByNHSNumber", ctx, tenantID, "9434765919").Return(true, nil)

	_, err := svc.CreateResident(ctx, CreateResidentInput{
		TenantID:    tenantID,
		CareHomeID:  uuid.New(),
		FirstName:   "Margaret",
		LastName:    "Whitfield",
		NHSNumber:   "943 476 5919",
		DateOfBirth: time.Date(1942, 3, 17, 0, 0, 0, 0, time.UTC),
		CareLevel:   "nursing",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_NHS_NUMBER", domainErr.Code)
	residentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAdmitResident_RejectsOccupiedRoom(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	carePlanRepo := new(MockCarePlanRepository)
	svc := NewResidentService(residentRepo, carePlanRepo, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()
	r := newTestResident(t, tenantID)

	residentRepo.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	residentRepo.On("RoomOccupied", ctx, tenantID, *r.CareHomeID, "12").Return(true, nil)

	_, err := svc.AdmitResident(ctx, AdmitResidentInput{
		TenantID:   tenantID,
		ResidentID: r.ID,
		Room:       "12",
		AdmittedAt: time.Now(),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROOM_OCCUPIED", domainErr.Code)
	assert.Equal(t, resident.ResidentStatusEnquiry, r.Status)
}

func TestAdmitResident_Success(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	carePlanRepo := new(MockCarePlanRepository)
	svc := NewResidentService(residentRepo, carePlanRepo, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()
	r := newTestResident(t, tenantID)

	residentRepo.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	residentRepo.On("RoomOccupied", ctx, tenantID, *r.CareHomeID, "12").Return(false, nil)
	residentRepo.On("SaveWithLock", ctx, r).Return(nil)

	admitted, err := svc.AdmitResident(ctx, AdmitResidentInput{
		TenantID:   tenantID,
		ResidentID: r.ID,
		Room:       "12",
		AdmittedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, resident.ResidentStatusAdmitted, admitted.Status)
	assert.Equal(t, "12", admitted.Room)
}

func TestDischargeResident_ArchivesActivePlans(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	carePlanRepo := new(MockCarePlanRepository)
	svc := NewResidentService(residentRepo, carePlanRepo, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()
	r := newTestResident(t, tenantID)
	require.NoError(t, r.Admit("12", time.Now().Add(-30*24*time.Hour)))

	plan, err := resident.NewCarePlan(tenantID, r.ID, "Mobility support", "", 90)
	require.NoError(t, err)
	require.NoError(t, plan.Activate(uuid.New()))

	residentRepo.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	residentRepo.On("SaveWithLock", ctx, r).Return(nil)
	carePlanRepo.On("FindByResident", ctx, tenantID, r.ID, mock.Anything).Return([]resident.CarePlan{*plan}, nil)
	carePlanRepo.On("Save", ctx, mock.Anything).Return(nil)

	discharged, err := svc.DischargeResident(ctx, DischargeResidentInput{
		TenantID:     tenantID,
		ResidentID:   r.ID,
		DischargedAt: time.Now(),
		Note:         "Moved to family care",
	})
	require.NoError(t, err)
	assert.Equal(t, resident.ResidentStatusDischarged, discharged.Status)
	carePlanRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(p *resident.CarePlan) bool {
		return p.Status == resident.CarePlanStatusArchived
	}))
}

func TestPlansDueForReview_FiltersCurrentPlans(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	carePlanRepo := new(MockCarePlanRepository)
	svc := NewCarePlanService(carePlanRepo, residentRepo, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()

	overdue, err := resident.NewCarePlan(tenantID, uuid.New(), "Nutrition", "", 30)
	require.NoError(t, err)
	require.NoError(t, overdue.Activate(uuid.New()))
	past := time.Now().Add(-24 * time.Hour)
	overdue.NextReviewAt = &past

	current, err := resident.NewCarePlan(tenantID, uuid.New(), "Mobility", "", 90)
	require.NoError(t, err)
	require.NoError(t, current.Activate(uuid.New()))

	carePlanRepo.On("FindActiveDueForReview", ctx, tenantID, mock.Anything).
		Return([]resident.CarePlan{*overdue, *current}, nil)

	items, err := svc.PlansDueForReview(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, resident.ReviewOverdue, items[0].Status)
	assert.Equal(t, "Nutrition", items[0].Plan.Title)
}
