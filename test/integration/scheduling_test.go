package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-server/internal/domain/directory"
	"github.com/clinichq/clinic-server/internal/domain/scheduling"
)

func newTestAppointment(doctor *directory.Doctor, patient *directory.Patient, date, start, end string) *scheduling.Appointment {
	return &scheduling.Appointment{
		ID:            uuid.New(),
		DoctorID:      doctor.ID,
		PatientID:     patient.ID,
		DoctorName:    doctor.Name,
		PatientName:   patient.Name,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		Status:        scheduling.StatusScheduled,
		Reason:        "Routine checkup",
		Fees:          doctor.Fees,
		PaymentStatus: scheduling.PaymentPending,
	}
}

func TestAppointmentPersistence(t *testing.T) {
	ctx := context.Background()
	repo := scheduling.NewAppointmentRepoPG(globalDB.Pool)
	doctor := createTestDoctor(t, ctx, "Dr. Appt Persist")
	patient := createTestPatient(t, ctx, "Appt Patient")

	t.Run("CreateAndGet", func(t *testing.T) {
		appt := newTestAppointment(doctor, patient, "2026-09-14", "09:00", "09:30")
		if err := repo.Create(ctx, appt); err != nil {
			t.Fatalf("Create appointment: %v", err)
		}

		got, err := repo.GetByID(ctx, appt.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.DoctorName != doctor.Name || got.PatientName != patient.Name {
			t.Errorf("name snapshots not persisted: %q / %q", got.DoctorName, got.PatientName)
		}
		if got.Date != "2026-09-14" || got.StartTime != "09:00" || got.EndTime != "09:30" {
			t.Errorf("slot fields mismatch: %s %s-%s", got.Date, got.StartTime, got.EndTime)
		}
		if got.Status != scheduling.StatusScheduled {
			t.Errorf("expected scheduled, got %s", got.Status)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected created_at to be set by the database")
		}
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		if !errors.Is(err, scheduling.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		ghost := newTestAppointment(doctor, patient, "2026-09-14", "10:00", "10:30")
		err := repo.Update(ctx, ghost)
		if !errors.Is(err, scheduling.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAppointmentSlotConstraint(t *testing.T) {
	ctx := context.Background()
	repo := scheduling.NewAppointmentRepoPG(globalDB.Pool)
	doctor := createTestDoctor(t, ctx, "Dr. Unique Slot")
	patient := createTestPatient(t, ctx, "Slot Patient A")
	other := createTestPatient(t, ctx, "Slot Patient B")

	first := newTestAppointment(doctor, patient, "2026-09-15", "11:00", "11:30")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	t.Run("DuplicateRejected", func(t *testing.T) {
		dup := newTestAppointment(doctor, other, "2026-09-15", "11:00", "11:30")
		err := repo.Create(ctx, dup)
		if !errors.Is(err, scheduling.ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
	})

	t.Run("OtherSlotAllowed", func(t *testing.T) {
		next := newTestAppointment(doctor, other, "2026-09-15", "11:30", "12:00")
		if err := repo.Create(ctx, next); err != nil {
			t.Fatalf("adjacent slot booking: %v", err)
		}
	})

	t.Run("CancellationFreesSlot", func(t *testing.T) {
		first.Status = scheduling.StatusCanceled
		if err := repo.Update(ctx, first); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		rebook := newTestAppointment(doctor, other, "2026-09-15", "11:00", "11:30")
		if err := repo.Create(ctx, rebook); err != nil {
			t.Fatalf("rebooking canceled slot: %v", err)
		}
	})
}

func TestAppointmentListing(t *testing.T) {
	ctx := context.Background()
	repo := scheduling.NewAppointmentRepoPG(globalDB.Pool)
	doctor := createTestDoctor(t, ctx, "Dr. Lister")
	patient := createTestPatient(t, ctx, "Listing Patient")

	slots := []struct{ date, start, end string }{
		{"2026-09-13", "09:00", "09:30"},
		{"2026-09-16", "10:00", "10:30"},
		{"2026-09-19", "14:00", "14:30"},
		{"2026-09-21", "09:00", "09:30"}, // outside the week window below
	}
	for _, s := range slots {
		appt := newTestAppointment(doctor, patient, s.date, s.start, s.end)
		if err := repo.Create(ctx, appt); err != nil {
			t.Fatalf("seed booking %s %s: %v", s.date, s.start, err)
		}
	}

	t.Run("ListInRange", func(t *testing.T) {
		appts, err := repo.ListInRange(ctx, doctor.ID, "2026-09-13", "2026-09-19")
		if err != nil {
			t.Fatalf("ListInRange: %v", err)
		}
		if len(appts) != 3 {
			t.Fatalf("expected 3 appointments in range, got %d", len(appts))
		}
		for _, a := range appts {
			if a.Date < "2026-09-13" || a.Date > "2026-09-19" {
				t.Errorf("appointment %s outside range", a.Date)
			}
		}
	})

	t.Run("ListByDoctor_Paginated", func(t *testing.T) {
		page, total, err := repo.ListByDoctor(ctx, doctor.ID, 2, 0)
		if err != nil {
			t.Fatalf("ListByDoctor: %v", err)
		}
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
		if len(page) != 2 {
			t.Errorf("expected page of 2, got %d", len(page))
		}
	})

	t.Run("ListByPatient", func(t *testing.T) {
		appts, total, err := repo.ListByPatient(ctx, patient.ID, 100, 0)
		if err != nil {
			t.Fatalf("ListByPatient: %v", err)
		}
		if total != 4 || len(appts) != 4 {
			t.Errorf("expected 4 appointments, got total=%d len=%d", total, len(appts))
		}
	})
}
