package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Availability is the three-way classification of a slot for display.
type Availability string

const (
	SlotFree  Availability = "free"
	SlotTaken Availability = "taken"
	SlotPast  Availability = "past"
)

// Clock supplies "now" so past/future classification is deterministic in
// tests. Production code uses RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ResolveSlot classifies one (doctor, date, time) slot against a set of
// appointments. Past classification takes precedence for display, but the
// occupant is returned either way so occupancy is never hidden.
//
// The appointment set is expected to be range-filtered already (a week at
// most), so a linear scan is fine.
func ResolveSlot(doctorID uuid.UUID, date, tod string, appts []*Appointment, now time.Time) (Availability, *Appointment) {
	var occupant *Appointment
	for _, a := range appts {
		if a.Occupies(doctorID, date, tod) {
			occupant = a
			break
		}
	}

	if instant, err := SlotInstant(date, tod); err == nil && instant.Before(now) {
		return SlotPast, occupant
	}
	if occupant != nil {
		return SlotTaken, occupant
	}
	return SlotFree, nil
}
