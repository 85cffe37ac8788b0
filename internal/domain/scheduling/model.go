package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Layouts for the date formats used throughout the scheduling domain. Dates
// are calendar days without a time component; times of day are minute
// granularity, 24-hour clock.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusCheckedIn  Status = "checked-in"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
	StatusRejected   Status = "rejected"
)

// PaymentStatus is carried on the appointment but owned by the billing
// workflow; the scheduling engine never transitions it.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true, StatusCheckedIn: true, StatusInProgress: true,
	StatusCompleted: true, StatusCanceled: true, StatusRejected: true,
}

// statusTransitions defines the legal lifecycle moves. Terminal statuses
// (completed, canceled, rejected) have no entry and therefore no exits.
var statusTransitions = map[Status][]Status{
	StatusScheduled:  {StatusCheckedIn, StatusCanceled, StatusRejected},
	StatusCheckedIn:  {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCanceled},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return validStatuses[s] && len(statusTransitions[s]) == 0
}

// Blocks reports whether an appointment in this status occupies its slot.
// Canceled and rejected appointments vacate the slot immediately.
func (s Status) Blocks() bool {
	return validStatuses[s] && s != StatusCanceled && s != StatusRejected
}

// Appointment maps to the appointment table. Doctor and patient names are
// snapshots taken at booking time, not live references.
type Appointment struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	DoctorID      uuid.UUID     `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	DoctorName    string        `db:"doctor_name" json:"doctor_name"`
	PatientName   string        `db:"patient_name" json:"patient_name"`
	Date          string        `db:"date" json:"date"`
	StartTime     string        `db:"start_time" json:"start_time"`
	EndTime       string        `db:"end_time" json:"end_time"`
	Status        Status        `db:"status" json:"status"`
	Reason        string        `db:"reason" json:"reason"`
	Notes         string        `db:"notes" json:"notes"`
	IsFollowUp    bool          `db:"is_follow_up" json:"is_follow_up"`
	PreviousID    *uuid.UUID    `db:"previous_appointment_id" json:"previous_appointment_id,omitempty"`
	Fees          float64       `db:"fees" json:"fees"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Occupies reports whether the appointment claims the given slot.
func (a *Appointment) Occupies(doctorID uuid.UUID, date, startTime string) bool {
	return a.DoctorID == doctorID && a.Date == date && a.StartTime == startTime && a.Status.Blocks()
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// ParseTimeOfDay validates an HH:MM time of day and returns minutes since
// midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q, want HH:MM", ErrInvalidInput, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes returns tod shifted forward by mins, carrying minutes into
// hours (16:45 + 30 -> 17:15).
func AddMinutes(tod string, mins int) (string, error) {
	total, err := ParseTimeOfDay(tod)
	if err != nil {
		return "", err
	}
	total += mins
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60), nil
}

// SlotInstant combines a date and time of day into a local wall-clock
// instant.
func SlotInstant(date, tod string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	mins, err := ParseTimeOfDay(tod)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(mins) * time.Minute), nil
}
