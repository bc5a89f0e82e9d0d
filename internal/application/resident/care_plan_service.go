package resident

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// CarePlanService handles care plan drafting and the review cycle
type CarePlanService struct {
	carePlanRepo resident.CarePlanRepository
	residentRepo resident.ResidentRepository
	logger       *zap.Logger
}

// NewCarePlanService creates a new care plan service
func NewCarePlanService(
	carePlanRepo resident.CarePlanRepository,
	residentRepo resident.ResidentRepository,
	logger *zap.Logger,
) *CarePlanService {
	return &CarePlanService{
		carePlanRepo: carePlanRepo,
		residentRepo: residentRepo,
		logger:       logger,
	}
}

// CreateCarePlan drafts a plan for a resident
func (s *CarePlanService) CreateCarePlan(ctx context.Context, input CreateCarePlanInput) (*resident.CarePlan, error) {
	if _, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID); err != nil {
		return nil, err
	}

	plan, err := resident.NewCarePlan(input.TenantID, input.ResidentID, input.Title, input.Summary, input.ReviewEveryDays)
	if err != nil {
		return nil, err
	}
	if err := s.carePlanRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ActivateCarePlan publishes a draft plan and starts its review clock
func (s *CarePlanService) ActivateCarePlan(ctx context.Context, tenantID, planID, by uuid.UUID) (*resident.CarePlan, error) {
	plan, err := s.carePlanRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if err := plan.Activate(by); err != nil {
		return nil, err
	}
	if err := s.carePlanRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("Care plan activated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("care_plan_id", planID.String()))
	return plan, nil
}

// ReviewCarePlan records a completed review
func (s *CarePlanService) ReviewCarePlan(ctx context.Context, input ReviewCarePlanInput) (*resident.CarePlan, error) {
	plan, err := s.carePlanRepo.FindByIDForTenant(ctx, input.TenantID, input.CarePlanID)
	if err != nil {
		return nil, err
	}
	if err := plan.RecordReview(input.ReviewedBy, input.Summary); err != nil {
		return nil, err
	}
	if err := s.carePlanRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListCarePlans lists a resident's care plans
func (s *CarePlanService) ListCarePlans(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]resident.CarePlan, error) {
	return s.carePlanRepo.FindByResident(ctx, tenantID, residentID, filter)
}

// PlansDueForReview returns active plans that are due or overdue for review
func (s *CarePlanService) PlansDueForReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CarePlanReviewItem, error) {
	plans, err := s.carePlanRepo.FindActiveDueForReview(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]CarePlanReviewItem, 0, len(plans))
	for _, plan := range plans {
		status := plan.ReviewStatus(now)
		if status == resident.ReviewCurrent {
			continue
		}
		items = append(items, CarePlanReviewItem{Plan: plan, Status: status})
	}
	return items, nil
}
