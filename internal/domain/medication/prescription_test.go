package medication

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testStart = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) // a Monday
	testEnd   = time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
)

func newScript(t *testing.T, freq Frequency, maxDaily int) *Prescription {
	t.Helper()
	p, err := NewPrescription(uuid.New(), uuid.New(), "Paracetamol", "500mg", RouteOral, freq, testStart, nil, maxDaily)
	require.NoError(t, err)
	return p
}

func TestNewPrescription_Validation(t *testing.T) {
	tenantID, residentID := uuid.New(), uuid.New()

	_, err := NewPrescription(tenantID, residentID, "", "500mg", RouteOral, FrequencyOD, testStart, nil, 0)
	assert.Error(t, err, "empty name")

	_, err = NewPrescription(tenantID, residentID, "Paracetamol", "", RouteOral, FrequencyOD, testStart, nil, 0)
	assert.Error(t, err, "empty dose")

	_, err = NewPrescription(tenantID, residentID, "Paracetamol", "500mg", Route("iv-drip"), FrequencyOD, testStart, nil, 0)
	assert.Error(t, err, "unknown route")

	_, err = NewPrescription(tenantID, residentID, "Paracetamol", "500mg", RouteOral, Frequency("HOURLY"), testStart, nil, 0)
	assert.Error(t, err, "unknown frequency")

	before := testStart.AddDate(0, 0, -1)
	_, err = NewPrescription(tenantID, residentID, "Paracetamol", "500mg", RouteOral, FrequencyOD, testStart, &before, 0)
	assert.Error(t, err, "end before start")

	_, err = NewPrescription(tenantID, residentID, "Paracetamol", "500mg", RouteOral, FrequencyPRN, testStart, nil, 0)
	assert.Error(t, err, "PRN needs a daily maximum")
}

func TestPrescription_DosesPerDay(t *testing.T) {
	assert.Equal(t, 1, newScript(t, FrequencyOD, 0).DosesPerDay())
	assert.Equal(t, 2, newScript(t, FrequencyBD, 0).DosesPerDay())
	assert.Equal(t, 3, newScript(t, FrequencyTDS, 0).DosesPerDay())
	assert.Equal(t, 4, newScript(t, FrequencyQDS, 0).DosesPerDay())
	assert.Equal(t, 1, newScript(t, FrequencyON, 0).DosesPerDay())
	assert.Equal(t, 0, newScript(t, FrequencyPRN, 4).DosesPerDay())
}

func TestPrescription_Lifecycle(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	assert.True(t, p.ActiveOn(testStart))
	assert.False(t, p.ActiveOn(testStart.AddDate(0, 0, -1)))

	nurse := uuid.New()
	require.NoError(t, p.Discontinue(nurse, "rash"))
	assert.Equal(t, PrescriptionStatusDiscontinued, p.Status)
	assert.False(t, p.ActiveOn(testStart))
	assert.Error(t, p.Discontinue(nurse, "again"))
}

func TestPrescription_MarkExpired(t *testing.T) {
	end := testEnd
	p, err := NewPrescription(uuid.New(), uuid.New(), "Amoxicillin", "250mg", RouteOral, FrequencyTDS, testStart, &end, 0)
	require.NoError(t, err)

	assert.Error(t, p.MarkExpired(testStart.AddDate(0, 0, 2)), "not yet expired")
	require.NoError(t, p.MarkExpired(testEnd.AddDate(0, 0, 1)))
	assert.Equal(t, PrescriptionStatusExpired, p.Status)
}

func TestGenerateSlots_DailyFrequencies(t *testing.T) {
	// three days of BD gives six slots at the 08:00 and 20:00 rounds
	p := newScript(t, FrequencyBD, 0)
	slots, err := GenerateSlots(p, testStart, testStart.AddDate(0, 0, 2), nil)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, testStart.Add(8*time.Hour), slots[0].ScheduledAt)
	assert.Equal(t, testStart.Add(20*time.Hour), slots[1].ScheduledAt)
	assert.Equal(t, p.ID, slots[0].PrescriptionID)
	assert.Equal(t, p.ResidentID, slots[0].ResidentID)
}

func TestGenerateSlots_WeeklyOnStartWeekday(t *testing.T) {
	p := newScript(t, FrequencyWeekly, 0)
	slots, err := GenerateSlots(p, testStart, testStart.AddDate(0, 0, 13), nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Monday, slots[0].ScheduledAt.Weekday())
	assert.Equal(t, time.Monday, slots[1].ScheduledAt.Weekday())
}

func TestGenerateSlots_PRNProducesNone(t *testing.T) {
	p := newScript(t, FrequencyPRN, 4)
	slots, err := GenerateSlots(p, testStart, testEnd, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_SkipsExistingTimes(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	existing := []time.Time{testStart.Add(8 * time.Hour)}

	slots, err := GenerateSlots(p, testStart, testStart.AddDate(0, 0, 1), existing)
	require.NoError(t, err)
	require.Len(t, slots, 1, "first day already booked")
	assert.Equal(t, testStart.AddDate(0, 0, 1).Add(8*time.Hour), slots[0].ScheduledAt)
}

func TestGenerateSlots_RespectsEndDate(t *testing.T) {
	end := testStart.AddDate(0, 0, 2)
	p, err := NewPrescription(uuid.New(), uuid.New(), "Amoxicillin", "250mg", RouteOral, FrequencyOD, testStart, &end, 0)
	require.NoError(t, err)

	slots, err := GenerateSlots(p, testStart, testStart.AddDate(0, 0, 10), nil)
	require.NoError(t, err)
	assert.Len(t, slots, 3, "start day through end day inclusive")
}

func TestGenerateSlots_InvalidRange(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	_, err := GenerateSlots(p, testEnd, testStart, nil)
	assert.Error(t, err)
}

func TestNewAdministrationRecord(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	slots, err := GenerateSlots(p, testStart, testStart, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	nurse := uuid.New()

	rec, err := NewAdministrationRecord(p, slots[0], nurse, OutcomeGiven, "", slots[0].ScheduledAt)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGiven, rec.Outcome)
	assert.True(t, slots[0].Completed)

	// the slot can only be recorded once
	_, err = NewAdministrationRecord(p, slots[0], nurse, OutcomeGiven, "", slots[0].ScheduledAt)
	assert.Error(t, err)
}

func TestNewAdministrationRecord_RefusalNeedsNote(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	slots, err := GenerateSlots(p, testStart, testStart, nil)
	require.NoError(t, err)
	nurse := uuid.New()

	_, err = NewAdministrationRecord(p, slots[0], nurse, OutcomeRefused, "", slots[0].ScheduledAt)
	assert.Error(t, err)

	rec, err := NewAdministrationRecord(p, slots[0], nurse, OutcomeRefused, "resident declined", slots[0].ScheduledAt)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefused, rec.Outcome)
}

func TestNewAdministrationRecord_WrongSlot(t *testing.T) {
	p := newScript(t, FrequencyOD, 0)
	other := newScript(t, FrequencyOD, 0)
	slots, err := GenerateSlots(other, testStart, testStart, nil)
	require.NoError(t, err)

	_, err = NewAdministrationRecord(p, slots[0], uuid.New(), OutcomeGiven, "", testStart)
	assert.Error(t, err)
}

func TestNewPRNAdministration(t *testing.T) {
	p := newScript(t, FrequencyPRN, 2)
	nurse := uuid.New()
	at := testStart.Add(10 * time.Hour)

	rec, err := NewPRNAdministration(p, nurse, "pain 6/10", at, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGiven, rec.Outcome)
	assert.Nil(t, rec.SlotID)

	_, err = NewPRNAdministration(p, nurse, "", at, 2)
	assert.Error(t, err, "daily maximum reached")

	scheduled := newScript(t, FrequencyOD, 0)
	_, err = NewPRNAdministration(scheduled, nurse, "", at, 0)
	assert.Error(t, err, "not a PRN prescription")
}
