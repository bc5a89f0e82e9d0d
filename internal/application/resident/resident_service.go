package resident

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ResidentService handles the resident admission lifecycle
type ResidentService struct {
	residentRepo resident.ResidentRepository
	carePlanRepo resident.CarePlanRepository
	logger       *zap.Logger
}

// NewResidentService creates a new resident service
func NewResidentService(
	residentRepo resident.ResidentRepository,
	carePlanRepo resident.CarePlanRepository,
	logger *zap.Logger,
) *ResidentService {
	return &ResidentService{
		residentRepo: residentRepo,
		carePlanRepo: carePlanRepo,
		logger:       logger,
	}
}

// CreateResident records a new enquiry
func (s *ResidentService) CreateResident(ctx context.Context, input CreateResidentInput) (*resident.Resident, error) {
	r, err := resident.NewResident(
		input.TenantID, input.CareHomeID,
		input.FirstName, input.LastName, input.NHSNumber,
		input.DateOfBirth, resident.CareLevel(input.CareLevel),
	)
	if err != nil {
		return nil, err
	}

	if r.NHSNumber != "" {
		exists, err := s.residentRepo.ExistsByNHSNumber(ctx, input.TenantID, r.NHSNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_NHS_NUMBER", "A resident with this NHS number already exists")
		}
	}

	if err := s.residentRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Resident enquiry created",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", r.ID.String()))
	return r, nil
}

// GetResident retrieves a resident within a tenant
func (s *ResidentService) GetResident(ctx context.Context, tenantID, id uuid.UUID) (*resident.Resident, error) {
	return s.residentRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListResidents lists a tenant's residents with pagination
func (s *ResidentService) ListResidents(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[resident.Resident], error) {
	residents, err := s.residentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.residentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(residents, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AdmitResident admits an enquiry into residence. The requested room must be
// free within the care home.
func (s *ResidentService) AdmitResident(ctx context.Context, input AdmitResidentInput) (*resident.Resident, error) {
	r, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.residentRepo.RoomOccupied(ctx, input.TenantID, *r.CareHomeID, input.Room)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, shared.NewDomainError("ROOM_OCCUPIED", "Room is already occupied")
	}

	if err := r.Admit(input.Room, input.AdmittedAt); err != nil {
		return nil, err
	}
	if err := s.residentRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Resident admitted",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", r.ID.String()),
		zap.String("room", r.Room))
	return r, nil
}

// TransferRoom moves an admitted resident to a free room
func (s *ResidentService) TransferRoom(ctx context.Context, input TransferRoomInput) (*resident.Resident, error) {
	r, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.residentRepo.RoomOccupied(ctx, input.TenantID, *r.CareHomeID, input.Room)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, shared.NewDomainError("ROOM_OCCUPIED", "Room is already occupied")
	}

	if err := r.TransferRoom(input.Room); err != nil {
		return nil, err
	}
	if err := s.residentRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DischargeResident ends a residency and archives the resident's active care
// plans.
func (s *ResidentService) DischargeResident(ctx context.Context, input DischargeResidentInput) (*resident.Resident, error) {
	r, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID)
	if err != nil {
		return nil, err
	}
	if err := r.Discharge(input.DischargedAt, input.Note); err != nil {
		return nil, err
	}
	if err := s.residentRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	if err := s.archiveActivePlans(ctx, input.TenantID, r.ID); err != nil {
		s.logger.Error("Failed to archive care plans on discharge",
			zap.String("resident_id", r.ID.String()), zap.Error(err))
	}

	s.logger.Info("Resident discharged",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", r.ID.String()))
	return r, nil
}

// RecordDeath closes a resident record following a death in residence
func (s *ResidentService) RecordDeath(ctx context.Context, tenantID, residentID uuid.UUID, at time.Time) (*resident.Resident, error) {
	r, err := s.residentRepo.FindByIDForTenant(ctx, tenantID, residentID)
	if err != nil {
		return nil, err
	}
	if err := r.RecordDeath(at); err != nil {
		return nil, err
	}
	if err := s.residentRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	if err := s.archiveActivePlans(ctx, tenantID, r.ID); err != nil {
		s.logger.Error("Failed to archive care plans",
			zap.String("resident_id", r.ID.String()), zap.Error(err))
	}
	return r, nil
}

// SetNextOfKin updates the resident's emergency contact
func (s *ResidentService) SetNextOfKin(ctx context.Context, input SetNextOfKinInput) error {
	r, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID)
	if err != nil {
		return err
	}
	if err := r.SetNextOfKin(input.Kin); err != nil {
		return err
	}
	return s.residentRepo.SaveWithLock(ctx, r)
}

// SetGP updates the resident's GP details
func (s *ResidentService) SetGP(ctx context.Context, tenantID, residentID uuid.UUID, name, practice string) error {
	r, err := s.residentRepo.FindByIDForTenant(ctx, tenantID, residentID)
	if err != nil {
		return err
	}
	r.SetGP(name, practice)
	return s.residentRepo.SaveWithLock(ctx, r)
}

func (s *ResidentService) archiveActivePlans(ctx context.Context, tenantID, residentID uuid.UUID) error {
	plans, err := s.carePlanRepo.FindByResident(ctx, tenantID, residentID, shared.DefaultFilter())
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].Status != resident.CarePlanStatusActive {
			continue
		}
		plans[i].Archive()
		if err := s.carePlanRepo.Save(ctx, &plans[i]); err != nil {
			return err
		}
	}
	return nil
}
