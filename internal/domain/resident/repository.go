package resident

import (
	"context"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// ResidentRepository defines the interface for resident persistence
type ResidentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Resident, error)
	FindByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (*Resident, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Resident, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ResidentStatus, filter shared.Filter) ([]Resident, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNHSNumber(ctx context.Context, tenantID uuid.UUID, nhsNumber string) (bool, error)
	RoomOccupied(ctx context.Context, tenantID, careHomeID uuid.UUID, room string) (bool, error)
	Save(ctx context.Context, r *Resident) error
	SaveWithLock(ctx context.Context, r *Resident) error
	SaveBatch(ctx context.Context, residents []*Resident) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CarePlanRepository defines the interface for care plan persistence
type CarePlanRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CarePlan, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]CarePlan, error)
	FindActiveDueForReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CarePlan, error)
	Save(ctx context.Context, plan *CarePlan) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)
	FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]Document, error)
	Save(ctx context.Context, doc *Document) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
