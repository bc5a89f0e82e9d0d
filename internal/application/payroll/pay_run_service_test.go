package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/domain/payroll"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// MockRunRepository is a mock implementation of payroll.RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.PayRun, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayRun), args.Error(1)
}

func (m *MockRunRepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, period payroll.Period) (*payroll.PayRun, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayRun), args.Error(1)
}

func (m *MockRunRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payroll.PayRun, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]payroll.PayRun), args.Error(1)
}

func (m *MockRunRepository) Save(ctx context.Context, run *payroll.PayRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) SaveWithLock(ctx context.Context, run *payroll.PayRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of payroll.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.PayrollRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayrollRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, period payroll.Period) (*payroll.PayrollRecord, error) {
	args := m.Called(ctx, tenantID, employeeID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayrollRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]payroll.PayrollRecord, error) {
	args := m.Called(ctx, tenantID, runID)
	return args.Get(0).([]payroll.PayrollRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]payroll.PayrollRecord, error) {
	args := m.Called(ctx, tenantID, employeeID, filter)
	return args.Get(0).([]payroll.PayrollRecord), args.Error(1)
}

func (m *MockRecordRepository) Save(ctx context.Context, rec *payroll.PayrollRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) SaveBatch(ctx context.Context, recs []*payroll.PayrollRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteDraftsByRun(ctx context.Context, tenantID, runID uuid.UUID) error {
	args := m.Called(ctx, tenantID, runID)
	return args.Error(0)
}

// MockEmployeeRepository mocks only what the pay run service needs
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEmployeeRepository) SaveWithLock(ctx context.Context, e *hr.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEmployeeRepository) SaveWithRegistrations(ctx context.Context, e *hr.Employee, regs []*hr.ProfessionalRegistration) error {
	args := m.Called(ctx, e, regs)
	return args.Error(0)
}

func (m *MockEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func monthlyPeriod() payroll.Period {
	return payroll.Period{TaxYear: "2025-26", Number: 3, Frequency: payrolltax.FrequencyMonthly}
}

func newEmployee(t *testing.T, tenantID uuid.UUID, number string, salary int64, freq payrolltax.PayFrequency) hr.Employee {
	t.Helper()
	e, err := hr.NewEmployee(
		tenantID, uuid.New(),
		number, "Test", "Employee", "Care Assistant",
		"AB123456C", "1257L", payrolltax.NICategoryA,
		hr.Contract{
			Basis:        hr.PayBasisSalaried,
			AnnualSalary: decimal.NewFromInt(salary),
			PayFrequency: freq,
			StartDate:    time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC),
		},
	)
	require.NoError(t, err)
	return *e
}

func newService(runRepo *MockRunRepository, recordRepo *MockRecordRepository, employeeRepo *MockEmployeeRepository) *PayRunService {
	return NewPayRunService(runRepo, recordRepo, employeeRepo,
		payrolltax.NewCalculator(payrolltax.TaxYear2025()), zap.NewNop())
}

func TestRunPayroll_CalculatesRecordsForMatchingEmployees(t *testing.T) {
	runRepo := new(MockRunRepository)
	recordRepo := new(MockRecordRepository)
	employeeRepo := new(MockEmployeeRepository)
	svc := newService(runRepo, recordRepo, employeeRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	monthly := newEmployee(t, tenantID, "EMP-001", 36000, payrolltax.FrequencyMonthly)
	weekly := newEmployee(t, tenantID, "EMP-002", 24000, payrolltax.FrequencyWeekly)

	runRepo.On("FindByPeriod", ctx, tenantID, monthlyPeriod()).Return(nil, shared.ErrNotFound)
	employeeRepo.On("FindActiveForTenant", ctx, tenantID).Return([]hr.Employee{monthly, weekly}, nil)
	runRepo.On("Save", ctx, mock.Anything).Return(nil)
	recordRepo.On("SaveBatch", ctx, mock.Anything).Return(nil)

	result, err := svc.RunPayroll(ctx, RunPayrollInput{TenantID: tenantID, Period: monthlyPeriod()})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, weekly.ID, result.Skipped[0].EmployeeID)

	rec := result.Records[0]
	assert.Equal(t, monthly.ID, rec.EmployeeID)
	assert.Equal(t, "3000", rec.GrossPay.String())
	assert.True(t, rec.NetPay.IsPositive())
	assert.True(t, rec.NetPay.LessThan(rec.GrossPay))

	assert.Equal(t, 1, result.Run.EmployeeCount)
	assert.Equal(t, "3000", result.Run.TotalGross.String())
	assert.Equal(t, payroll.RunStatusDraft, result.Run.Status)
}

func TestRunPayroll_RerunReplacesDraftRecords(t *testing.T) {
	runRepo := new(MockRunRepository)
	recordRepo := new(MockRecordRepository)
	employeeRepo := new(MockEmployeeRepository)
	svc := newService(runRepo, recordRepo, employeeRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	existing, err := payroll.NewPayRun(tenantID, monthlyPeriod())
	require.NoError(t, err)

	runRepo.On("FindByPeriod", ctx, tenantID, monthlyPeriod()).Return(existing, nil)
	recordRepo.On("DeleteDraftsByRun", ctx, tenantID, existing.ID).Return(nil)
	employeeRepo.On("FindActiveForTenant", ctx, tenantID).
		Return([]hr.Employee{newEmployee(t, tenantID, "EMP-001", 30000, payrolltax.FrequencyMonthly)}, nil)
	runRepo.On("Save", ctx, existing).Return(nil)
	recordRepo.On("SaveBatch", ctx, mock.Anything).Return(nil)

	result, err := svc.RunPayroll(ctx, RunPayrollInput{TenantID: tenantID, Period: monthlyPeriod()})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.Run.ID)
	recordRepo.AssertCalled(t, "DeleteDraftsByRun", ctx, tenantID, existing.ID)
}

func TestRunPayroll_RejectsApprovedRun(t *testing.T) {
	runRepo := new(MockRunRepository)
	recordRepo := new(MockRecordRepository)
	employeeRepo := new(MockEmployeeRepository)
	svc := newService(runRepo, recordRepo, employeeRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	run, err := payroll.NewPayRun(tenantID, monthlyPeriod())
	require.NoError(t, err)
	run.EmployeeCount = 3
	require.NoError(t, run.Approve(uuid.New()))

	runRepo.On("FindByPeriod", ctx, tenantID, monthlyPeriod()).Return(run, nil)

	_, err = svc.RunPayroll(ctx, RunPayrollInput{TenantID: tenantID, Period: monthlyPeriod()})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RUN_LOCKED", domainErr.Code)
}

func TestApproveRun_ApprovesAllRecords(t *testing.T) {
	runRepo := new(MockRunRepository)
	recordRepo := new(MockRecordRepository)
	employeeRepo := new(MockEmployeeRepository)
	svc := newService(runRepo, recordRepo, employeeRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	approver := uuid.New()

	run, err := payroll.NewPayRun(tenantID, monthlyPeriod())
	require.NoError(t, err)

	rec, err := payroll.NewPayrollRecord(tenantID, uuid.New(), monthlyPeriod(), payrolltax.Breakdown{
		GrossPay: decimal.NewFromInt(3000),
		NetPay:   decimal.NewFromInt(2400),
	})
	require.NoError(t, err)
	require.NoError(t, run.SetTotals([]*payroll.PayrollRecord{rec}))

	runRepo.On("FindByIDForTenant", ctx, tenantID, run.ID).Return(run, nil)
	recordRepo.On("FindByRun", ctx, tenantID, run.ID).Return([]payroll.PayrollRecord{*rec}, nil)
	recordRepo.On("Save", ctx, mock.Anything).Return(nil)
	runRepo.On("SaveWithLock", ctx, run).Return(nil)

	require.NoError(t, svc.ApproveRun(ctx, ApproveRunInput{
		TenantID:   tenantID,
		RunID:      run.ID,
		ApprovedBy: approver,
	}))
	assert.Equal(t, payroll.RunStatusApproved, run.Status)
	recordRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(r *payroll.PayrollRecord) bool {
		return r.Status == payroll.RecordStatusApproved && *r.ApprovedBy == approver
	}))
}

func TestApproveRun_RejectsEmptyRun(t *testing.T) {
	runRepo := new(MockRunRepository)
	recordRepo := new(MockRecordRepository)
	employeeRepo := new(MockEmployeeRepository)
	svc := newService(runRepo, recordRepo, employeeRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	run, err := payroll.NewPayRun(tenantID, monthlyPeriod())
	require.NoError(t, err)
	runRepo.On("FindByIDForTenant", ctx, tenantID, run.ID).Return(run, nil)

	err = svc.ApproveRun(ctx, ApproveRunInput{TenantID: tenantID, RunID: run.ID, ApprovedBy: uuid.New()})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_RUN", domainErr.Code)
}
