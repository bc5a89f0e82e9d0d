package migration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/migration"
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

// MockImportJobRepository is a mock implementation of migration.ImportJobRepository
type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*migration.ImportJob, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*migration.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]migration.ImportJob, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]migration.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) Save(ctx context.Context, job *migration.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

const residentCSV = `first_name,last_name,nhs_number,date_of_birth,care_level,room,admitted_on,gp_name,next_of_kin_name,next_of_kin_phone
Arthur,Pembroke,943 476 5919,1942-03-17,nursing,12,2024-06-01,Dr Shah,Margaret Pembroke,020 7946 0958
Edith,Caldwell,4010232137,1938-11-02,dementia,14,2024-07-15,Dr Shah,,
Harold,Finch,,1945-01-20,residential,,,,,
`

func newImportFixture(t *testing.T) (*ResidentImportService, *MockResidentRepository, *MockImportJobRepository, ImportResidentsInput) {
	t.Helper()
	residentRepo := new(MockResidentRepository)
	jobRepo := new(MockImportJobRepository)
	service := NewResidentImportService(residentRepo, jobRepo, zap.NewNop())
	input := ImportResidentsInput{
		TenantID:   uuid.New(),
		CareHomeID: uuid.New(),
		RunBy:      uuid.New(),
		FileName:   "residents.csv",
		Data:       []byte(residentCSV),
	}
	return service, residentRepo, jobRepo, input
}

func TestImportResidents_ImportsAllRows(t *testing.T) {
	service, residentRepo, jobRepo, input := newImportFixture(t)

	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*migration.ImportJob")).Return(nil)
	residentRepo.On("ExistsByNHSNumber", mock.Anything, input.TenantID, mock.Anything).Return(false, nil)
	residentRepo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(residents []*resident.Resident) bool {
		if len(residents) != 3 {
			return false
		}
		return residents[0].Status == resident.ResidentStatusAdmitted &&
			residents[0].Room == "12" &&
			residents[2].Status == resident.ResidentStatusEnquiry
	})).Return(nil)

	result, err := service.ImportResidents(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errored)
	assert.Equal(t, migration.ImportStatusCompleted, result.Job.Status)
	assert.Equal(t, 3, result.Job.TotalRows)
}

func TestImportResidents_DryRunWritesNothing(t *testing.T) {
	service, residentRepo, jobRepo, input := newImportFixture(t)
	input.DryRun = true

	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*migration.ImportJob")).Return(nil)
	residentRepo.On("ExistsByNHSNumber", mock.Anything, input.TenantID, mock.Anything).Return(false, nil)

	result, err := service.ImportResidents(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.True(t, result.Job.DryRun)
	residentRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestImportResidents_SkipsExistingNHSNumbers(t *testing.T) {
	service, residentRepo, jobRepo, input := newImportFixture(t)

	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*migration.ImportJob")).Return(nil)
	residentRepo.On("ExistsByNHSNumber", mock.Anything, input.TenantID, "9434765919").Return(true, nil)
	residentRepo.On("ExistsByNHSNumber", mock.Anything, input.TenantID, "4010232137").Return(false, nil)
	residentRepo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(residents []*resident.Resident) bool {
		return len(residents) == 2
	})).Return(nil)

	result, err := service.ImportResidents(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportResidents_RecordsRowErrorsAndContinues(t *testing.T) {
	service, residentRepo, jobRepo, input := newImportFixture(t)
	input.Data = []byte(strings.Join([]string{
		"first_name,last_name,nhs_number,date_of_birth,care_level",
		"Arthur,Pembroke,9434765919,17/03/1942,nursing",
		"Edith,Caldwell,4010232137,1938-11-02,hyperbaric",
		"Harold,Finch,,1945-01-20,residential",
		"",
	}, "\n"))

	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*migration.ImportJob")).Return(nil)
	residentRepo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(residents []*resident.Resident) bool {
		return len(residents) == 1 && residents[0].LastName == "Finch"
	})).Return(nil)

	result, err := service.ImportResidents(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Errored)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "date_of_birth", result.Issues[0].Column)
	assert.Equal(t, 2, result.Issues[0].Row)
}

func TestImportResidents_MissingColumnsFailsJob(t *testing.T) {
	service, _, jobRepo, input := newImportFixture(t)
	input.Data = []byte("first_name,last_name\nArthur,Pembroke\n")

	jobRepo.On("Save", mock.Anything, mock.MatchedBy(func(job *migration.ImportJob) bool {
		return job.Status == migration.ImportStatusFailed
	})).Return(nil)

	_, err := service.ImportResidents(context.Background(), input)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "MISSING_COLUMNS", domainErr.Code)
	jobRepo.AssertExpectations(t)
}

func TestImportResidents_NormalizesLegacyNameCasing(t *testing.T) {
	service, residentRepo, jobRepo, input := newImportFixture(t)
	input.Data = []byte(strings.Join([]string{
		"first_name,last_name,nhs_number,date_of_birth,care_level",
		"ARTHUR,PEMBROKE,,1942-03-17,nursing",
		"edith,caldwell,,1938-11-02,dementia",
		"Fiona,McDonald,,1950-05-09,residential",
		"",
	}, "\n"))

	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*migration.ImportJob")).Return(nil)
	residentRepo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(residents []*resident.Resident) bool {
		return len(residents) == 3 &&
			residents[0].FirstName == "Arthur" && residents[0].LastName == "Pembroke" &&
			residents[1].FirstName == "Edith" && residents[1].LastName == "Caldwell" &&
			residents[2].LastName == "McDonald"
	})).Return(nil)

	result, err := service.ImportResidents(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	residentRepo.AssertExpectations(t)
}
