package family

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/family"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// PortalService manages family contacts and the updates published to them
type PortalService struct {
	contactRepo  family.ContactRepository
	updateRepo   family.UpdateRepository
	residentRepo resident.ResidentRepository
	logger       *zap.Logger
}

// NewPortalService creates a new portal service
func NewPortalService(
	contactRepo family.ContactRepository,
	updateRepo family.UpdateRepository,
	residentRepo resident.ResidentRepository,
	logger *zap.Logger,
) *PortalService {
	return &PortalService{
		contactRepo:  contactRepo,
		updateRepo:   updateRepo,
		residentRepo: residentRepo,
		logger:       logger,
	}
}

// AddContact grants a relative portal access to one resident's record
func (s *PortalService) AddContact(ctx context.Context, input AddContactInput) (*family.FamilyContact, error) {
	if _, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID); err != nil {
		return nil, err
	}
	if existing, err := s.contactRepo.FindByEmail(ctx, input.TenantID, input.Email); err == nil &&
		existing != nil && existing.ResidentID == input.ResidentID && existing.Active {
		return nil, shared.NewDomainError("CONTACT_EXISTS", "This email already has access to the resident")
	}

	contact, err := family.NewFamilyContact(
		input.TenantID, input.ResidentID,
		input.Name, input.Relationship, input.Email,
		family.AccessLevel(input.AccessLevel),
	)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := contact.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	s.logger.Info("Family contact added",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", input.ResidentID.String()),
		zap.String("contact_id", contact.ID.String()),
		zap.String("access_level", string(contact.AccessLevel)))
	return contact, nil
}

// ListContacts lists the portal contacts for a resident
func (s *PortalService) ListContacts(ctx context.Context, tenantID, residentID uuid.UUID) ([]family.FamilyContact, error) {
	return s.contactRepo.FindByResident(ctx, tenantID, residentID)
}

// SetAccessLevel changes how much of the record a contact can see
func (s *PortalService) SetAccessLevel(ctx context.Context, tenantID, contactID uuid.UUID, level string) error {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return err
	}
	if err := contact.SetAccessLevel(family.AccessLevel(level)); err != nil {
		return err
	}
	return s.contactRepo.Save(ctx, contact)
}

// RevokeAccess deactivates a contact's portal access
func (s *PortalService) RevokeAccess(ctx context.Context, tenantID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return err
	}
	contact.Deactivate()
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return err
	}

	s.logger.Info("Portal access revoked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("contact_id", contactID.String()))
	return nil
}

// PublishUpdate posts a care-team update to a resident's family
func (s *PortalService) PublishUpdate(ctx context.Context, input PublishUpdateInput) (*family.PortalUpdate, error) {
	if _, err := s.residentRepo.FindByIDForTenant(ctx, input.TenantID, input.ResidentID); err != nil {
		return nil, err
	}

	update, err := family.NewPortalUpdate(
		input.TenantID, input.ResidentID, input.AuthorID,
		input.Title, input.Body,
		family.AccessLevel(input.Visibility),
	)
	if err != nil {
		return nil, err
	}
	if err := s.updateRepo.Save(ctx, update); err != nil {
		return nil, err
	}

	s.logger.Info("Portal update published",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("resident_id", input.ResidentID.String()),
		zap.String("update_id", update.ID.String()),
		zap.String("visibility", string(update.Visibility)))
	return update, nil
}

// UpdatesForContact lists the updates a contact is allowed to see, newest
// first per the repository ordering.
func (s *PortalService) UpdatesForContact(ctx context.Context, tenantID, contactID uuid.UUID, filter shared.Filter) ([]UpdateView, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.Active {
		return nil, shared.ErrForbidden
	}

	updates, err := s.updateRepo.FindByResident(ctx, tenantID, contact.ResidentID, filter)
	if err != nil {
		return nil, err
	}

	visible := make([]UpdateView, 0, len(updates))
	for i := range updates {
		if !updates[i].VisibleTo(contact) {
			continue
		}
		visible = append(visible, UpdateView{
			Update:       updates[i],
			Acknowledged: updates[i].AcknowledgedBy(contact.ID),
		})
	}
	return visible, nil
}

// Acknowledge records that a contact has read an update
func (s *PortalService) Acknowledge(ctx context.Context, input AcknowledgeInput) error {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, input.TenantID, input.ContactID)
	if err != nil {
		return err
	}
	update, err := s.updateRepo.FindByIDForTenant(ctx, input.TenantID, input.UpdateID)
	if err != nil {
		return err
	}
	if err := update.Acknowledge(contact); err != nil {
		return err
	}
	return s.updateRepo.SaveWithLock(ctx, update)
}
