// Package scheduler runs the periodic due-date sweep: compliance
// requirements, care plan reviews and professional registrations that are
// due or overdue are surfaced into the logs for every active tenant.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	complianceapp "github.com/writecarenotes/backend/internal/application/compliance"
	hrapp "github.com/writecarenotes/backend/internal/application/hr"
	residentapp "github.com/writecarenotes/backend/internal/application/resident"
	"github.com/writecarenotes/backend/internal/domain/compliance"
	"github.com/writecarenotes/backend/internal/domain/identity"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/config"
)

// Scheduler periodically sweeps every active tenant for items needing
// attention. It only reads and logs; acting on the findings stays with the
// care home's staff.
type Scheduler struct {
	tenantRepo        identity.TenantRepository
	complianceService *complianceapp.ComplianceService
	carePlanService   *residentapp.CarePlanService
	employeeService   *hrapp.EmployeeService
	config            config.SchedulerConfig
	logger            *zap.Logger
	wg                sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(
	tenantRepo identity.TenantRepository,
	complianceService *complianceapp.ComplianceService,
	carePlanService *residentapp.CarePlanService,
	employeeService *hrapp.EmployeeService,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *Scheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	return &Scheduler{
		tenantRepo:        tenantRepo,
		complianceService: complianceService,
		carePlanService:   carePlanService,
		employeeService:   employeeService,
		config:            cfg,
		logger:            logger,
	}
}

// Start launches the sweep loop. It runs until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.config.CheckInterval)
		defer ticker.Stop()

		s.logger.Info("Scheduler started",
			zap.Duration("check_interval", s.config.CheckInterval),
			zap.Int("lookahead_days", s.config.LookaheadDays))

		s.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Scheduler stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the sweep loop has exited
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// sweep runs one pass over every active tenant
func (s *Scheduler) sweep(ctx context.Context) {
	tenantIDs, err := s.tenantRepo.FindAllActiveIDs(ctx)
	if err != nil {
		s.logger.Error("Scheduler could not list active tenants", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.sweepTenant(ctx, tenantID)
	}
}

func (s *Scheduler) sweepTenant(ctx context.Context, tenantID uuid.UUID) {
	s.checkCompliance(ctx, tenantID)
	s.checkCarePlans(ctx, tenantID)
	s.checkRegistrations(ctx, tenantID)
}

func (s *Scheduler) checkCompliance(ctx context.Context, tenantID uuid.UUID) {
	standings, err := s.complianceService.DueRequirements(ctx, tenantID)
	if err != nil {
		s.logger.Error("Compliance sweep failed",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return
	}
	for _, standing := range standings {
		field := s.logger.Warn
		if standing.Status == compliance.StatusOverdue {
			field = s.logger.Error
		}
		field("Compliance requirement needs attention",
			zap.String("tenant_id", tenantID.String()),
			zap.String("requirement_id", standing.Requirement.ID.String()),
			zap.String("name", standing.Requirement.Name),
			zap.String("status", string(standing.Status)),
			zap.Time("next_due", standing.NextDue))
	}
}

func (s *Scheduler) checkCarePlans(ctx context.Context, tenantID uuid.UUID) {
	items, err := s.carePlanService.PlansDueForReview(ctx, tenantID, shared.Filter{})
	if err != nil {
		s.logger.Error("Care plan sweep failed",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return
	}
	for _, item := range items {
		s.logger.Warn("Care plan review due",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan_id", item.Plan.ID.String()),
			zap.String("resident_id", item.Plan.ResidentID.String()),
			zap.String("title", item.Plan.Title),
			zap.String("status", string(item.Status)))
	}
}

func (s *Scheduler) checkRegistrations(ctx context.Context, tenantID uuid.UUID) {
	expiring, err := s.employeeService.ExpiringRegistrations(ctx, tenantID)
	if err != nil {
		s.logger.Error("Registration sweep failed",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return
	}
	for _, item := range expiring {
		s.logger.Warn("Professional registration expiring",
			zap.String("tenant_id", tenantID.String()),
			zap.String("registration_id", item.Registration.ID.String()),
			zap.String("employee_id", item.Registration.EmployeeID.String()),
			zap.String("type", string(item.Registration.Type)),
			zap.String("standing", string(item.Standing)),
			zap.Time("expires_at", item.Registration.ExpiresAt))
	}
}
