package medication

import (
	"time"

	"github.com/google/uuid"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Standard slot times by frequency. Homes run fixed medication rounds, so
// slots land on round times rather than arbitrary clock offsets.
var slotHours = map[Frequency][]int{
	FrequencyOD:     {8},
	FrequencyBD:     {8, 20},
	FrequencyTDS:    {8, 13, 20},
	FrequencyQDS:    {8, 12, 16, 20},
	FrequencyON:     {21},
	FrequencyWeekly: {8},
}

// ScheduleSlot is a planned administration of one prescription at one time
type ScheduleSlot struct {
	shared.TenantAggregateRoot
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_slot_prescription_time"`
	ResidentID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ScheduledAt    time.Time `gorm:"not null;uniqueIndex:idx_slot_prescription_time"`
	Completed      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ScheduleSlot) TableName() string {
	return "medication_schedule_slots"
}

// GenerateSlots expands a prescription into administration slots between from
// and to inclusive of both dates. PRN prescriptions produce no slots. Times
// already present in existing are skipped, so regeneration over an overlapping
// range never double-books.
func GenerateSlots(p *Prescription, from, to time.Time, existing []time.Time) ([]*ScheduleSlot, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Range end must not precede range start")
	}
	if p.PRN {
		return nil, nil
	}
	hours, ok := slotHours[p.Frequency]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Frequency cannot be scheduled")
	}

	taken := make(map[time.Time]struct{}, len(existing))
	for _, t := range existing {
		taken[t.UTC()] = struct{}{}
	}

	var slots []*ScheduleSlot
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(end) {
		if p.ActiveOn(day) && dosingDay(p, day) {
			for _, h := range hours {
				at := day.Add(time.Duration(h) * time.Hour)
				if _, dup := taken[at]; dup {
					continue
				}
				taken[at] = struct{}{}
				slot := &ScheduleSlot{
					TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
					PrescriptionID:      p.ID,
					ResidentID:          p.ResidentID,
					ScheduledAt:         at,
				}
				slots = append(slots, slot)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots, nil
}

// dosingDay reports whether the prescription doses on the given day. Weekly
// prescriptions dose on the weekday of their start date.
func dosingDay(p *Prescription, day time.Time) bool {
	if p.Frequency != FrequencyWeekly {
		return true
	}
	return day.Weekday() == p.StartDate.Weekday()
}
