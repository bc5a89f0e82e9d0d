package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/writecarenotes/backend/internal/domain/family"
	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// MockContactRepository is a mock implementation of family.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*family.FamilyContact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*family.FamilyContact), args.Error(1)
}

func (m *MockContactRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*family.FamilyContact, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*family.FamilyContact), args.Error(1)
}

func (m *MockContactRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID) ([]family.FamilyContact, error) {
	args := m.Called(ctx, tenantID, residentID)
	return args.Get(0).([]family.FamilyContact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c *family.FamilyContact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockUpdateRepository is a mock implementation of family.UpdateRepository
type MockUpdateRepository struct {
	mock.Mock
}

func (m *MockUpdateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*family.PortalUpdate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*family.PortalUpdate), args.Error(1)
}

func (m *MockUpdateRepository) FindByResident(ctx context.Context, tenantID, residentID uuid.UUID, filter shared.Filter) ([]family.PortalUpdate, error) {
	args := m.Called(ctx, tenantID, residentID, filter)
	return args.Get(0).([]family.PortalUpdate), args.Error(1)
}

func (m *MockUpdateRepository) Save(ctx context.Context, u *family.PortalUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUpdateRepository) SaveWithLock(ctx context.Context, u *family.PortalUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

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

type portalFixture struct {
	contactRepo  *MockContactRepository
	updateRepo   *MockUpdateRepository
	residentRepo *MockResidentRepository
	service      *PortalService
	tenantID     uuid.UUID
	resident     *resident.Resident
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()

	tenantID := uuid.New()
	r, err := resident.NewResident(tenantID, uuid.New(), "Arthur", "Pembroke", "",
		time.Date(1942, 3, 17, 0, 0, 0, 0, time.UTC), resident.CareLevelResidential)
	require.NoError(t, err)

	f := &portalFixture{
		contactRepo:  new(MockContactRepository),
		updateRepo:   new(MockUpdateRepository),
		residentRepo: new(MockResidentRepository),
		tenantID:     tenantID,
		resident:     r,
	}
	f.service = NewPortalService(f.contactRepo, f.updateRepo, f.residentRepo, zap.NewNop())
	return f
}

func (f *portalFixture) contact(t *testing.T, level family.AccessLevel) *family.FamilyContact {
	t.Helper()
	c, err := family.NewFamilyContact(f.tenantID, f.resident.ID, "Margaret Pembroke",
		"Daughter", "margaret.pembroke@example.com", level)
	require.NoError(t, err)
	return c
}

func TestAddContact_DuplicateEmailForResident(t *testing.T) {
	f := newPortalFixture(t)
	existing := f.contact(t, family.AccessUpdatesOnly)

	f.residentRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.resident.ID).Return(f.resident, nil)
	f.contactRepo.On("FindByEmail", mock.Anything, f.tenantID, "margaret.pembroke@example.com").Return(existing, nil)

	_, err := f.service.AddContact(context.Background(), AddContactInput{
		TenantID:     f.tenantID,
		ResidentID:   f.resident.ID,
		Name:         "Margaret Pembroke",
		Relationship: "Daughter",
		Email:        "margaret.pembroke@example.com",
		AccessLevel:  "full",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONTACT_EXISTS", domainErr.Code)
	f.contactRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdatesForContact_FiltersByAccessLevel(t *testing.T) {
	f := newPortalFixture(t)
	contact := f.contact(t, family.AccessUpdatesOnly)
	authorID := uuid.New()

	general, err := family.NewPortalUpdate(f.tenantID, f.resident.ID, authorID,
		"Spring garden party", "Arthur enjoyed the garden party this afternoon.", family.AccessUpdatesOnly)
	require.NoError(t, err)
	clinical, err := family.NewPortalUpdate(f.tenantID, f.resident.ID, authorID,
		"Care plan review outcome", "The nursing team reviewed the mobility plan.", family.AccessFull)
	require.NoError(t, err)

	f.contactRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, contact.ID).Return(contact, nil)
	f.updateRepo.On("FindByResident", mock.Anything, f.tenantID, f.resident.ID, mock.Anything).
		Return([]family.PortalUpdate{*general, *clinical}, nil)

	views, err := f.service.UpdatesForContact(context.Background(), f.tenantID, contact.ID, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Spring garden party", views[0].Update.Title)
	assert.False(t, views[0].Acknowledged)
}

func TestUpdatesForContact_RevokedContactForbidden(t *testing.T) {
	f := newPortalFixture(t)
	contact := f.contact(t, family.AccessFull)
	contact.Deactivate()

	f.contactRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, contact.ID).Return(contact, nil)

	_, err := f.service.UpdatesForContact(context.Background(), f.tenantID, contact.ID, shared.DefaultFilter())

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.updateRepo.AssertNotCalled(t, "FindByResident", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcknowledge_RecordsOnceAndPersists(t *testing.T) {
	f := newPortalFixture(t)
	contact := f.contact(t, family.AccessFull)

	update, err := family.NewPortalUpdate(f.tenantID, f.resident.ID, uuid.New(),
		"New photo album", "Photos from the week are in the album.", family.AccessUpdatesOnly)
	require.NoError(t, err)

	f.contactRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, contact.ID).Return(contact, nil)
	f.updateRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, update.ID).Return(update, nil)
	f.updateRepo.On("SaveWithLock", mock.Anything, update).Return(nil)

	input := AcknowledgeInput{TenantID: f.tenantID, UpdateID: update.ID, ContactID: contact.ID}
	require.NoError(t, f.service.Acknowledge(context.Background(), input))
	require.NoError(t, f.service.Acknowledge(context.Background(), input))

	assert.True(t, update.AcknowledgedBy(contact.ID))
	assert.Len(t, update.AckedBy, 1)
}

func TestAcknowledge_InvisibleUpdateForbidden(t *testing.T) {
	f := newPortalFixture(t)
	contact := f.contact(t, family.AccessUpdatesOnly)

	update, err := family.NewPortalUpdate(f.tenantID, f.resident.ID, uuid.New(),
		"Clinical summary", "Restricted to full-access contacts.", family.AccessFull)
	require.NoError(t, err)

	f.contactRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, contact.ID).Return(contact, nil)
	f.updateRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, update.ID).Return(update, nil)

	err = f.service.Acknowledge(context.Background(), AcknowledgeInput{
		TenantID: f.tenantID, UpdateID: update.ID, ContactID: contact.ID,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.updateRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
