package compliance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFireCheck(t *testing.T) *ComplianceRequirement {
	t.Helper()
	r, err := NewRequirement(uuid.New(), uuid.New(), "Fire risk assessment", CategoryFire, "RRO 2005", 365)
	require.NoError(t, err)
	return r
}

func TestNewRequirement_Validation(t *testing.T) {
	tenantID, homeID := uuid.New(), uuid.New()

	_, err := NewRequirement(tenantID, homeID, "", CategoryFire, "", 365)
	assert.Error(t, err, "empty name")

	_, err = NewRequirement(tenantID, homeID, "Audit", RequirementCategory("hse"), "", 365)
	assert.Error(t, err, "unknown category")

	_, err = NewRequirement(tenantID, homeID, "Audit", CategoryCQC, "", 0)
	assert.Error(t, err, "interval too short")

	_, err = NewRequirement(tenantID, homeID, "Audit", CategoryCQC, "", 2000)
	assert.Error(t, err, "interval too long")
}

func TestRequirement_NeverCompletedIsDueImmediately(t *testing.T) {
	r := newFireCheck(t)
	assert.Equal(t, StatusOverdue, r.Status(time.Now().Add(time.Hour)))
}

func TestRequirement_StatusDerivation(t *testing.T) {
	r := newFireCheck(t)
	completed := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	ev, err := r.RecordCompletion(uuid.New(), completed, "annual assessment")
	require.NoError(t, err)
	assert.Equal(t, r.ID, ev.RequirementID)

	due := completed.AddDate(0, 0, 365)
	assert.Equal(t, due, r.NextDue())
	assert.Equal(t, StatusCompliant, r.Status(completed.AddDate(0, 6, 0)))
	assert.Equal(t, StatusDue, r.Status(due.AddDate(0, 0, -10)))
	assert.Equal(t, StatusOverdue, r.Status(due.AddDate(0, 0, 1)))
}

func TestRequirement_RecordCompletion_Rules(t *testing.T) {
	r := newFireCheck(t)
	by := uuid.New()

	_, err := r.RecordCompletion(by, time.Now().Add(48*time.Hour), "")
	assert.Error(t, err, "future completion")

	first := time.Now().AddDate(0, -1, 0)
	_, err = r.RecordCompletion(by, first, "")
	require.NoError(t, err)

	_, err = r.RecordCompletion(by, first.AddDate(0, 0, -7), "")
	assert.Error(t, err, "backdated before previous completion")
}

func TestRequirement_RetiredTakesNoCompletions(t *testing.T) {
	r := newFireCheck(t)
	r.Retire()

	_, err := r.RecordCompletion(uuid.New(), time.Now(), "")
	assert.Error(t, err)
}
