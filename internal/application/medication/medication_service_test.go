package medication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/medication"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MockPrescriptionRepository is a mock implementation of medication.PrescriptionRepository
type MockPrescriptionRepository struct {
	mock.Mock
}

func (m *MockPrescriptionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*medication.Prescription, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medication.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]medication.Prescription, error) {
	args := m.Called(ctx, tenantID, residentID, filter)
	return args.Get(0).([]medication.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepository) FindActiveByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]medication.Prescription, error) {
	args := m.Called(ctx, tenantID, residentID)
	return args.Get(0).([]medication.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepository) Save(ctx context.Context, p *medication.Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrescriptionRepository) SaveWithLock(ctx context.Context, p *medication.Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrescriptionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockScheduleRepository is a mock implementation of medication.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindSlot(ctx context.Context, tenantID, id uuid.UUID) (*medication.ScheduleSlot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medication.ScheduleSlot), args.Error(1)
}

func (m *MockScheduleRepository) FindSlotsByPrescription(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]medication.ScheduleSlot, error) {
	args := m.Called(ctx, tenantID, prescriptionID, from, to)
	return args.Get(0).([]medication.ScheduleSlot), args.Error(1)
}

func (m *MockScheduleRepository) FindSlotsByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]medication.ScheduleSlot, error) {
	args := m.Called(ctx, tenantID, residentID, from, to)
	return args.Get(0).([]medication.ScheduleSlot), args.Error(1)
}

func (m *MockScheduleRepository) ExistingSlotTimes(ctx context.Context, tenantID, prescriptionID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, tenantID, prescriptionID, from, to)
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockScheduleRepository) SaveSlots(ctx context.Context, slots []*medication.ScheduleSlot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockScheduleRepository) SaveSlot(ctx context.Context, slot *medication.ScheduleSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

// MockAdministrationRepository is a mock implementation of medication.AdministrationRepository
type MockAdministrationRepository struct {
	mock.Mock
}

func (m *MockAdministrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*medication.AdministrationRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medication.AdministrationRecord), args.Error(1)
}

func (m *MockAdministrationRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, from, to time.Time) ([]medication.AdministrationRecord, error) {
	args := m.Called(ctx, tenantID, residentID, from, to)
	return args.Get(0).([]medication.AdministrationRecord), args.Error(1)
}

func (m *MockAdministrationRepository) CountPRNGivenOn(ctx context.Context, tenantID, prescriptionID uuid.UUID, day time.Time) (int, error) {
	args := m.Called(ctx, tenantID, prescriptionID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockAdministrationRepository) Save(ctx context.Context, rec *medication.AdministrationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockResidentRepository mocks only the lookups the medication service uses
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

type medFixture struct {
	prescriptionRepo   *MockPrescriptionRepository
	scheduleRepo       *MockScheduleRepository
	administrationRepo *MockAdministrationRepository
	residentRepo       *MockResidentRepository
	service            *MedicationService
	tenantID           uuid.UUID
	resident           *resident.Resident
}

func newMedFixture(t *testing.T) *medFixture {
	t.Helper()
	tenantID := uuid.New()

	r, err := resident.NewResident(
		tenantID, uuid.New(),
		"Arthur", "Pembroke", "",
		time.Date(1938, 11, 2, 0, 0, 0, 0, time.UTC),
		resident.CareLevelNursing,
	)
	require.NoError(t, err)
	require.NoError(t, r.Admit("7", time.Now().Add(-60*24*time.Hour)))

	f := &medFixture{
		prescriptionRepo:   new(MockPrescriptionRepository),
		scheduleRepo:       new(MockScheduleRepository),
		administrationRepo: new(MockAdministrationRepository),
		residentRepo:       new(MockResidentRepository),
		tenantID:           tenantID,
		resident:           r,
	}
	f.service = NewMedicationService(f.prescriptionRepo, f.scheduleRepo, f.administrationRepo, f.residentRepo, zap.NewNop())
	return f
}

func (f *medFixture) newPrescription(t *testing.T, freq medication.Frequency, maxDaily int) *medication.Prescription {
	t.Helper()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	p, err := medication.NewPrescription(
		f.tenantID, f.resident.ID,
		"Amlodipine", "5mg", medication.RouteOral, freq,
		start, nil, maxDaily,
	)
	require.NoError(t, err)
	return p
}

func TestCreatePrescription_RequiresAdmittedResident(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()

	enquiry, err := resident.NewResident(
		f.tenantID, uuid.New(),
		"Edith", "Marsh", "",
		time.Date(1945, 6, 20, 0, 0, 0, 0, time.UTC),
		resident.CareLevelResidential,
	)
	require.NoError(t, err)
	f.residentRepo.On("FindByIDForTenant", ctx, f.tenantID, enquiry.ID).Return(enquiry, nil)

	_, err = f.service.CreatePrescription(ctx, CreatePrescriptionInput{
		TenantID:       f.tenantID,
		ResidentID:     enquiry.ID,
		MedicationName: "Amlodipine",
		Dose:           "5mg",
		Route:          "oral",
		Frequency:      "OD",
		StartDate:      time.Now(),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_ADMITTED", domainErr.Code)
}

func TestGenerateSchedule_SkipsExistingTimes(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()
	p := f.newPrescription(t, medication.FrequencyBD, 0)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	// day one's slots already exist from a previous run
	existing := []time.Time{
		time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
	}

	f.prescriptionRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.scheduleRepo.On("ExistingSlotTimes", ctx, f.tenantID, p.ID, from, to).Return(existing, nil)
	f.scheduleRepo.On("SaveSlots", ctx, mock.Anything).Return(nil)

	slots, err := f.service.GenerateSchedule(ctx, GenerateScheduleInput{
		TenantID:       f.tenantID,
		PrescriptionID: p.ID,
		From:           from,
		To:             to,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), slots[0].ScheduledAt)
	assert.Equal(t, time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC), slots[1].ScheduledAt)
}

func TestGenerateSchedule_PRNProducesNoSlots(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()
	p := f.newPrescription(t, medication.FrequencyPRN, 4)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	f.prescriptionRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.scheduleRepo.On("ExistingSlotTimes", ctx, f.tenantID, p.ID, from, to).Return([]time.Time{}, nil)

	slots, err := f.service.GenerateSchedule(ctx, GenerateScheduleInput{
		TenantID:       f.tenantID,
		PrescriptionID: p.ID,
		From:           from,
		To:             to,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
	f.scheduleRepo.AssertNotCalled(t, "SaveSlots", mock.Anything, mock.Anything)
}

func TestRecordAdministration_CompletesSlotOnce(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()
	p := f.newPrescription(t, medication.FrequencyOD, 0)

	slots, err := medication.GenerateSlots(p,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	slot := slots[0]

	f.scheduleRepo.On("FindSlot", ctx, f.tenantID, slot.ID).Return(slot, nil)
	f.prescriptionRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.scheduleRepo.On("SaveSlot", ctx, slot).Return(nil)
	f.administrationRepo.On("Save", ctx, mock.Anything).Return(nil)

	rec, err := f.service.RecordAdministration(ctx, RecordAdministrationInput{
		TenantID:       f.tenantID,
		SlotID:         slot.ID,
		AdministeredBy: uuid.New(),
		Outcome:        "given",
		AdministeredAt: slot.ScheduledAt.Add(5 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, medication.OutcomeGiven, rec.Outcome)
	assert.True(t, slot.Completed)

	// a second entry against the same slot is rejected
	_, err = f.service.RecordAdministration(ctx, RecordAdministrationInput{
		TenantID:       f.tenantID,
		SlotID:         slot.ID,
		AdministeredBy: uuid.New(),
		Outcome:        "given",
		AdministeredAt: slot.ScheduledAt.Add(10 * time.Minute),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SLOT_COMPLETED", domainErr.Code)
}

func TestRecordPRN_EnforcesDailyMaximum(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()
	p := f.newPrescription(t, medication.FrequencyPRN, 2)
	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	f.prescriptionRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.administrationRepo.On("CountPRNGivenOn", ctx, f.tenantID, p.ID, at).Return(2, nil)

	_, err := f.service.RecordPRN(ctx, RecordPRNInput{
		TenantID:       f.tenantID,
		PrescriptionID: p.ID,
		AdministeredBy: uuid.New(),
		Note:           "Pain 6/10",
		AdministeredAt: at,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MAX_DOSES_REACHED", domainErr.Code)
	f.administrationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMARChart_JoinsSlotsWithRecords(t *testing.T) {
	f := newMedFixture(t)
	ctx := context.Background()
	p := f.newPrescription(t, medication.FrequencyBD, 0)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots, err := medication.GenerateSlots(p, from, to, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	rec, err := medication.NewAdministrationRecord(p, slots[0], uuid.New(), medication.OutcomeGiven, "", slots[0].ScheduledAt)
	require.NoError(t, err)

	f.scheduleRepo.On("FindSlotsByResident", ctx, f.tenantID, f.resident.ID, from, to).
		Return([]medication.ScheduleSlot{*slots[0], *slots[1]}, nil)
	f.administrationRepo.On("FindByResident", ctx, f.tenantID, f.resident.ID, from, to).
		Return([]medication.AdministrationRecord{*rec}, nil)

	rows, err := f.service.MARChart(ctx, f.tenantID, f.resident.ID, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Record)
	assert.Equal(t, medication.OutcomeGiven, rows[0].Record.Outcome)
	assert.Nil(t, rows[1].Record)
}
