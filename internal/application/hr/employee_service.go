package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/hr"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/payrolltax"
)

// EmployeeService handles staff records and professional registrations
type EmployeeService struct {
	employeeRepo     hr.EmployeeRepository
	registrationRepo hr.RegistrationRepository
	logger           *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employeeRepo hr.EmployeeRepository,
	registrationRepo hr.RegistrationRepository,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo:     employeeRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// HireEmployee creates an employee and any registrations supplied at hire in
// one transaction.
func (s *EmployeeService) HireEmployee(ctx context.Context, input HireEmployeeInput) (*hr.Employee, error) {
	exists, err := s.employeeRepo.ExistsByNumber(ctx, input.TenantID, input.EmployeeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMPLOYEE_NUMBER_TAKEN", "An employee with this number already exists")
	}

	e, err := hr.NewEmployee(
		input.TenantID, input.CareHomeID,
		input.EmployeeNumber, input.FirstName, input.LastName, input.JobTitle,
		input.NINumber, input.TaxCode, payrolltax.NICategory(input.NICategory),
		input.Contract,
	)
	if err != nil {
		return nil, err
	}
	e.Email = input.Email
	if err := e.SetPhone(input.Phone); err != nil {
		return nil, err
	}

	regs := make([]*hr.ProfessionalRegistration, 0, len(input.Registrations))
	for _, r := range input.Registrations {
		reg, err := hr.NewRegistration(
			input.TenantID, e.ID,
			hr.RegistrationType(r.Type), r.Reference,
			r.IssuedAt, r.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	if err := s.employeeRepo.SaveWithRegistrations(ctx, e, regs); err != nil {
		return nil, err
	}

	s.logger.Info("Employee hired",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_number", e.EmployeeNumber),
		zap.Int("registrations", len(regs)))
	return e, nil
}

// GetEmployee retrieves an employee within a tenant
func (s *EmployeeService) GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	return s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListEmployees lists a tenant's employees with pagination
func (s *EmployeeService) ListEmployees(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[hr.Employee], error) {
	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.employeeRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(employees, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SetTaxDetails updates HMRC coding after a coding notice
func (s *EmployeeService) SetTaxDetails(ctx context.Context, input SetTaxDetailsInput) error {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, input.TenantID, input.EmployeeID)
	if err != nil {
		return err
	}
	if err := e.SetTaxDetails(
		input.TaxCode,
		payrolltax.NICategory(input.NICategory),
		payrolltax.StudentLoanPlan(input.StudentLoan),
	); err != nil {
		return err
	}
	if err := s.employeeRepo.SaveWithLock(ctx, e); err != nil {
		return err
	}
	s.logger.Info("Tax details updated",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("employee_id", e.ID.String()),
		zap.String("tax_code", e.TaxCode))
	return nil
}

// SetPension records auto-enrolment choices
func (s *EmployeeService) SetPension(ctx context.Context, input SetPensionInput) error {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, input.TenantID, input.EmployeeID)
	if err != nil {
		return err
	}
	if err := e.SetPension(input.OptOut, input.Rate); err != nil {
		return err
	}
	return s.employeeRepo.SaveWithLock(ctx, e)
}

// MarkOnLeave pauses an employment
func (s *EmployeeService) MarkOnLeave(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if err := e.MarkOnLeave(); err != nil {
		return err
	}
	return s.employeeRepo.SaveWithLock(ctx, e)
}

// Reinstate returns an on-leave employee to active
func (s *EmployeeService) Reinstate(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if err := e.Reinstate(); err != nil {
		return err
	}
	return s.employeeRepo.SaveWithLock(ctx, e)
}

// RecordLeaving ends an employment
func (s *EmployeeService) RecordLeaving(ctx context.Context, input RecordLeavingInput) error {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, input.TenantID, input.EmployeeID)
	if err != nil {
		return err
	}
	if err := e.RecordLeaving(input.LeavingOn); err != nil {
		return err
	}
	if err := s.employeeRepo.SaveWithLock(ctx, e); err != nil {
		return err
	}
	s.logger.Info("Employee left",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("employee_id", e.ID.String()))
	return nil
}

// AddRegistration records a registration for an existing employee
func (s *EmployeeService) AddRegistration(ctx context.Context, tenantID, employeeID uuid.UUID, input RegistrationInput) (*hr.ProfessionalRegistration, error) {
	if _, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}
	reg, err := hr.NewRegistration(
		tenantID, employeeID,
		hr.RegistrationType(input.Type), input.Reference,
		input.IssuedAt, input.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if err := s.registrationRepo.Save(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// RenewRegistration extends a registration after revalidation
func (s *EmployeeService) RenewRegistration(ctx context.Context, input RenewRegistrationInput) error {
	reg, err := s.registrationRepo.FindByIDForTenant(ctx, input.TenantID, input.RegistrationID)
	if err != nil {
		return err
	}
	if err := reg.Renew(input.ExpiresAt); err != nil {
		return err
	}
	return s.registrationRepo.Save(ctx, reg)
}

// ExpiringRegistrations returns registrations already expired or inside the
// warning window.
func (s *EmployeeService) ExpiringRegistrations(ctx context.Context, tenantID uuid.UUID) ([]ExpiringRegistration, error) {
	now := time.Now()
	regs, err := s.registrationRepo.FindExpiringBefore(ctx, tenantID, now.AddDate(0, 0, 60))
	if err != nil {
		return nil, err
	}

	items := make([]ExpiringRegistration, 0, len(regs))
	for _, reg := range regs {
		standing := reg.Standing(now)
		if standing == hr.RegistrationValid {
			continue
		}
		items = append(items, ExpiringRegistration{Registration: reg, Standing: standing})
	}
	return items, nil
}
