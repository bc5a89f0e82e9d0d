package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// TenantService handles tenant onboarding and care home registration
type TenantService struct {
	tenantRepo   identity.TenantRepository
	careHomeRepo identity.CareHomeRepository
	logger       *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	careHomeRepo identity.CareHomeRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		careHomeRepo: careHomeRepo,
		logger:       logger,
	}
}

// CreateTenant onboards a new care-home operator
func (s *TenantService) CreateTenant(ctx context.Context, input CreateTenantInput) (*identity.Tenant, error) {
	exists, err := s.tenantRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("TENANT_CODE_TAKEN", "A tenant with this code already exists")
	}

	tenant, err := identity.NewTenant(input.Code, input.Name, identity.TenantPlan(input.Plan))
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("plan", string(tenant.Plan)))
	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return s.tenantRepo.FindByID(ctx, id)
}

// ListTenants lists tenants with pagination
func (s *TenantService) ListTenants(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.Tenant], error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(tenants, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateTenant updates a tenant's details
func (s *TenantService) UpdateTenant(ctx context.Context, input UpdateTenantInput) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(input.Name, tenant.ContactName, tenant.ContactEmail, tenant.ContactPhone); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// SuspendTenant suspends a tenant, blocking all logins
func (s *TenantService) SuspendTenant(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := tenant.Suspend(); err != nil {
		return err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return err
	}
	s.logger.Warn("Tenant suspended", zap.String("tenant_id", id.String()))
	return nil
}

// ActivateTenant reactivates a suspended tenant
func (s *TenantService) ActivateTenant(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := tenant.Activate(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}

// CreateCareHome registers a care home under a tenant
func (s *TenantService) CreateCareHome(ctx context.Context, input CreateCareHomeInput) (*identity.CareHome, error) {
	if _, err := s.tenantRepo.FindByID(ctx, input.TenantID); err != nil {
		return nil, err
	}

	home, err := identity.NewCareHome(input.TenantID, input.Name, input.CQCProviderID, input.BedCount)
	if err != nil {
		return nil, err
	}
	if input.AddressLine1 != "" || input.Postcode != "" {
		if err := home.SetAddress(input.AddressLine1, "", input.City, input.Postcode); err != nil {
			return nil, err
		}
	}
	if err := s.careHomeRepo.Save(ctx, home); err != nil {
		return nil, err
	}

	s.logger.Info("Care home registered",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("care_home_id", home.ID.String()),
		zap.String("name", home.Name))
	return home, nil
}

// GetCareHome retrieves a care home by ID within a tenant
func (s *TenantService) GetCareHome(ctx context.Context, tenantID, id uuid.UUID) (*identity.CareHome, error) {
	return s.careHomeRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListCareHomes lists a tenant's care homes
func (s *TenantService) ListCareHomes(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.CareHome], error) {
	homes, err := s.careHomeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.careHomeRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(homes, total, filter.Page, filter.PageSize)
	return &result, nil
}
