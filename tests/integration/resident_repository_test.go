package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writecarenotes/backend/internal/domain/resident"
	"github.com/writecarenotes/backend/internal/domain/shared"
	"github.com/writecarenotes/backend/internal/infrastructure/persistence"
)

func TestResidentRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormResidentRepository(testDB.DB)
	ctx := context.Background()
	tenantID := uuid.New()
	careHomeID := uuid.New()

	newResident := func(first, last, nhs string) *resident.Resident {
		r, err := resident.NewResident(tenantID, careHomeID, first, last, nhs,
			time.Date(1940, 5, 12, 0, 0, 0, 0, time.UTC), resident.CareLevelNursing)
		require.NoError(t, err)
		return r
	}

	t.Run("round-trips a resident with next of kin", func(t *testing.T) {
		r := newResident("Arthur", "Pembroke", "9434765919")
		require.NoError(t, r.SetNextOfKin(resident.NextOfKin{
			Name:         "Margaret Pembroke",
			Relationship: "daughter",
			Phone:        "020 7946 0958",
		}))
		require.NoError(t, repo.Save(ctx, r))

		found, err := repo.FindByIDForTenant(ctx, tenantID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pembroke", found.LastName)
		assert.Equal(t, "Margaret Pembroke", found.NextOfKin.Name)
		assert.Equal(t, resident.CareLevelNursing, found.CareLevel)
	})

	t.Run("NHS number lookups are scoped to the tenant", func(t *testing.T) {
		exists, err := repo.ExistsByNHSNumber(ctx, tenantID, "9434765919")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNHSNumber(ctx, uuid.New(), "9434765919")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("another tenant cannot read the resident", func(t *testing.T) {
		r := newResident("Edith", "Caldwell", "")
		require.NoError(t, repo.Save(ctx, r))

		_, err := repo.FindByIDForTenant(ctx, uuid.New(), r.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("optimistic lock rejects a stale write", func(t *testing.T) {
		r := newResident("Harold", "Finch", "")
		require.NoError(t, repo.Save(ctx, r))

		require.NoError(t, r.Admit("12", time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, r))

		// Replay the same version; the row has moved on
		r.Version--
		err := repo.SaveWithLock(ctx, r)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}
