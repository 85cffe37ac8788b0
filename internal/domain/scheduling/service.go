package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service owns the appointment lifecycle: booking, status transitions, and
// cancellation. Reads need no locking; Book serializes its check-then-act
// per slot key so two concurrent bookings of the same slot cannot both
// observe it free.
type Service struct {
	appts    AppointmentRepository
	doctors  DoctorDirectory
	patients PatientDirectory
	grid     *Grid
	clock    Clock
	locks    slotLocks
	log      zerolog.Logger
}

func NewService(appts AppointmentRepository, doctors DoctorDirectory, patients PatientDirectory, grid *Grid, clock Clock, log zerolog.Logger) *Service {
	return &Service{
		appts:    appts,
		doctors:  doctors,
		patients: patients,
		grid:     grid,
		clock:    clock,
		log:      log,
	}
}

// slotLocks hands out one mutex per (doctor, date, start) key. The map only
// ever holds one entry per distinct slot booked through this process, so it
// stays small for a clinic-sized calendar.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *slotLocks) acquire(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func slotKey(doctorID uuid.UUID, date, start string) string {
	return doctorID.String() + "|" + date + "|" + start
}

// BookingRequest is the input to Book.
type BookingRequest struct {
	DoctorID   uuid.UUID  `json:"doctor_id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	Date       string     `json:"date"`
	StartTime  string     `json:"start_time"`
	Reason     string     `json:"reason"`
	Notes      string     `json:"notes"`
	Fees       float64    `json:"fees"`
	IsFollowUp bool       `json:"is_follow_up"`
	PreviousID *uuid.UUID `json:"previous_appointment_id,omitempty"`
}

func (r *BookingRequest) validate() error {
	if r.DoctorID == uuid.Nil {
		return fmt.Errorf("%w: doctor_id is required", ErrInvalidInput)
	}
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if _, err := ParseTimeOfDay(r.StartTime); err != nil {
		return err
	}
	if r.Fees < 0 {
		return fmt.Errorf("%w: fees must be non-negative", ErrInvalidInput)
	}
	return nil
}

// Book creates a scheduled appointment, guarding the no-double-booking
// invariant. Validation happens before any store interaction; the
// availability re-check and the insert are serialized per slot key, and the
// repository's uniqueness constraint backstops writers in other processes.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	instant, err := SlotInstant(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}
	if instant.Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotInPast, req.Date, req.StartTime)
	}

	doctor, err := s.doctors.LookupDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDoctorNotFound, req.DoctorID)
	}
	patient, err := s.patients.LookupPatient(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, req.PatientID)
	}

	lock := s.locks.acquire(slotKey(req.DoctorID, req.Date, req.StartTime))
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.appts.ListInRange(ctx, req.DoctorID, req.Date, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if avail, _ := ResolveSlot(req.DoctorID, req.Date, req.StartTime, existing, instant); avail == SlotTaken {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotTaken, req.Date, req.StartTime)
	}

	endTime, err := AddMinutes(req.StartTime, s.grid.SlotMinutes())
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	appt := &Appointment{
		ID:            uuid.New(),
		DoctorID:      req.DoctorID,
		PatientID:     req.PatientID,
		DoctorName:    doctor.Name,
		PatientName:   patient.Name,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       endTime,
		Status:        StatusScheduled,
		Reason:        strings.TrimSpace(req.Reason),
		Notes:         req.Notes,
		IsFollowUp:    req.IsFollowUp,
		PreviousID:    req.PreviousID,
		Fees:          req.Fees,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.appts.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", appt.DoctorID.String()).
		Str("date", appt.Date).
		Str("start_time", appt.StartTime).
		Msg("appointment booked")

	return appt, nil
}

// Transition moves an appointment to newStatus, enforcing the lifecycle
// state machine. Terminal statuses permit no further transitions.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus Status) (*Appointment, error) {
	if !validStatuses[newStatus] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}

	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(appt.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
	}

	appt.Status = newStatus
	appt.UpdatedAt = s.clock.Now()
	if err := s.appts.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("status", string(newStatus)).
		Msg("appointment status changed")

	return appt, nil
}

// Cancel transitions the appointment to canceled, freeing its slot for
// subsequent bookings.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.Transition(ctx, id, StatusCanceled)
}

// UpdateNotes replaces the free-text notes on an existing appointment.
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appt.Notes = notes
	appt.UpdatedAt = s.clock.Now()
	if err := s.appts.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

// ListForDoctorRange returns the doctor's appointments with dates in
// [from, to], both ISO dates inclusive.
func (s *Service) ListForDoctorRange(ctx context.Context, doctorID uuid.UUID, from, to string) ([]*Appointment, error) {
	if _, err := ParseDate(from); err != nil {
		return nil, err
	}
	if _, err := ParseDate(to); err != nil {
		return nil, err
	}
	return s.appts.ListInRange(ctx, doctorID, from, to)
}
