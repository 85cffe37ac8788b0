package scheduling

import "errors"

// Errors returned by the scheduling engine. All are terminal for the single
// operation; callers choose whether to retry with different input.
var (
	ErrSlotTaken         = errors.New("slot is already booked")
	ErrSlotInPast        = errors.New("slot is in the past")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrPatientNotFound   = errors.New("patient not found")
)
