package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// AppointmentRepository is the external appointment store. Implementations
// must return ErrNotFound for unknown ids and ErrSlotTaken when a create
// violates the one-live-appointment-per-slot constraint.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// ListInRange returns every appointment for the doctor with
	// from <= date <= to (ISO dates). Ranges are a week at most.
	ListInRange(ctx context.Context, doctorID uuid.UUID, from, to string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
}

// DoctorRef and PatientRef are the identity snapshots the engine
// denormalizes onto appointments at booking time.
type DoctorRef struct {
	ID   uuid.UUID
	Name string
}

type PatientRef struct {
	ID   uuid.UUID
	Name string
}

// DoctorDirectory resolves doctor identities; owned by an external
// collaborator.
type DoctorDirectory interface {
	LookupDoctor(ctx context.Context, id uuid.UUID) (*DoctorRef, error)
}

// PatientDirectory resolves patient identities; owned by an external
// collaborator.
type PatientDirectory interface {
	LookupPatient(ctx context.Context, id uuid.UUID) (*PatientRef, error)
}
