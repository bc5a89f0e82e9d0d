package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/compliance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ComplianceService tracks recurring regulatory obligations and their evidence
type ComplianceService struct {
	requirementRepo compliance.RequirementRepository
	eventRepo       compliance.EventRepository
	logger          *zap.Logger
}

// NewComplianceService creates a new compliance service
func NewComplianceService(
	requirementRepo compliance.RequirementRepository,
	eventRepo compliance.EventRepository,
	logger *zap.Logger,
) *ComplianceService {
	return &ComplianceService{
		requirementRepo: requirementRepo,
		eventRepo:       eventRepo,
		logger:          logger,
	}
}

// CreateRequirement registers a recurring obligation for a care home
func (s *ComplianceService) CreateRequirement(ctx context.Context, input CreateRequirementInput) (*compliance.ComplianceRequirement, error) {
	r, err := compliance.NewRequirement(
		input.TenantID, input.CareHomeID, input.Name,
		compliance.RequirementCategory(input.Category),
		input.Regulation, input.IntervalDays,
	)
	if err != nil {
		return nil, err
	}
	if err := s.requirementRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Compliance requirement registered",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("requirement_id", r.ID.String()),
		zap.String("name", r.Name),
		zap.Int("interval_days", r.IntervalDays))
	return r, nil
}

// GetRequirement retrieves a requirement within a tenant
func (s *ComplianceService) GetRequirement(ctx context.Context, tenantID, id uuid.UUID) (*compliance.ComplianceRequirement, error) {
	return s.requirementRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListRequirements lists a tenant's requirements with their derived standing
func (s *ComplianceService) ListRequirements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RequirementStanding, error) {
	requirements, err := s.requirementRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return standings(requirements, time.Now()), nil
}

// RecordCompletion evidences a completed obligation and resets its clock
func (s *ComplianceService) RecordCompletion(ctx context.Context, input RecordCompletionInput) (*compliance.ComplianceEvent, error) {
	r, err := s.requirementRepo.FindByIDForTenant(ctx, input.TenantID, input.RequirementID)
	if err != nil {
		return nil, err
	}

	event, err := r.RecordCompletion(input.CompletedBy, input.CompletedAt, input.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.requirementRepo.SaveWithEvent(ctx, r, event); err != nil {
		return nil, err
	}

	s.logger.Info("Compliance completion recorded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("requirement_id", r.ID.String()),
		zap.String("name", r.Name),
		zap.Time("completed_at", input.CompletedAt))
	return event, nil
}

// RetireRequirement stops tracking an obligation
func (s *ComplianceService) RetireRequirement(ctx context.Context, tenantID, id uuid.UUID) error {
	r, err := s.requirementRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	r.Retire()
	return s.requirementRepo.Save(ctx, r)
}

// CompletionHistory lists the evidence trail for one requirement
func (s *ComplianceService) CompletionHistory(ctx context.Context, tenantID, requirementID uuid.UUID, filter shared.Filter) ([]compliance.ComplianceEvent, error) {
	return s.eventRepo.FindByRequirement(ctx, tenantID, requirementID, filter)
}

// DueRequirements lists active requirements that are due or overdue. The
// repository pre-filters on the next-due date; the standing is derived here so
// due and overdue are distinguished consistently.
func (s *ComplianceService) DueRequirements(ctx context.Context, tenantID uuid.UUID) ([]RequirementStanding, error) {
	now := time.Now()
	requirements, err := s.requirementRepo.FindDueBefore(ctx, tenantID, now.AddDate(0, 0, 30))
	if err != nil {
		return nil, err
	}

	due := make([]RequirementStanding, 0, len(requirements))
	for _, st := range standings(requirements, now) {
		if st.Status == compliance.StatusCompliant {
			continue
		}
		due = append(due, st)
	}
	return due, nil
}

func standings(requirements []compliance.ComplianceRequirement, now time.Time) []RequirementStanding {
	result := make([]RequirementStanding, 0, len(requirements))
	for _, r := range requirements {
		result = append(result, RequirementStanding{
			Requirement: r,
			Status:      r.Status(now),
			NextDue:     r.NextDue(),
		})
	}
	return result
}
