package scheduling

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newProjectorEnv(t *testing.T) (*testEnv, *Projector) {
	t.Helper()
	env := newTestEnv(t)
	return env, NewProjector(env.repo, DefaultGrid(), env.clock)
}

func TestProjectDay(t *testing.T) {
	env, proj := newProjectorEnv(t)

	appt, err := env.svc.Book(context.Background(), env.bookingReq("2026-09-14", "09:30"))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	views, err := proj.ProjectDay(context.Background(), env.doctorID, "2026-09-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(views) != 19 {
		t.Fatalf("expected 19 slot views, got %d", len(views))
	}

	var takenCount int
	for _, v := range views {
		if v.Date != "2026-09-14" {
			t.Errorf("expected date on every view, got %s", v.Date)
		}
		switch v.Time {
		case "09:30":
			if v.Availability != SlotTaken {
				t.Errorf("expected 09:30 taken, got %s", v.Availability)
			}
			if v.Appointment == nil || v.Appointment.ID != appt.ID {
				t.Error("expected occupant on taken slot")
			}
			takenCount++
		default:
			if v.Availability != SlotFree {
				t.Errorf("expected %s free, got %s", v.Time, v.Availability)
			}
			if v.Appointment != nil {
				t.Errorf("expected no occupant at %s", v.Time)
			}
		}
	}
	if takenCount != 1 {
		t.Errorf("expected exactly 1 taken slot, got %d", takenCount)
	}
}

func TestProjectDay_PastClassification(t *testing.T) {
	env, proj := newProjectorEnv(t)

	// Noon on the projected day: morning slots are past, afternoon free.
	env.clock.Set(time.Date(2026, 9, 14, 12, 0, 0, 0, time.Local))

	views, err := proj.ProjectDay(context.Background(), env.doctorID, "2026-09-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, v := range views {
		mins, err := ParseTimeOfDay(v.Time)
		if err != nil {
			t.Fatalf("bad slot time %s: %v", v.Time, err)
		}
		if mins < 12*60 {
			if v.Availability != SlotPast {
				t.Errorf("expected %s past, got %s", v.Time, v.Availability)
			}
		} else {
			if v.Availability != SlotFree {
				t.Errorf("expected %s free, got %s", v.Time, v.Availability)
			}
		}
	}
}

func TestProjectDay_InvalidDate(t *testing.T) {
	_, proj := newProjectorEnv(t)

	if _, err := proj.ProjectDay(context.Background(), uuid.New(), "next tuesday"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestProjectWeek_Completeness(t *testing.T) {
	env, proj := newProjectorEnv(t)

	week, err := proj.ProjectWeek(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week.Days))
	}
	if week.Days[0] != "2026-09-13" || week.Days[6] != "2026-09-19" {
		t.Errorf("unexpected week window %s..%s", week.Days[0], week.Days[6])
	}
	if len(week.Times) != 19 {
		t.Fatalf("expected 19 slot times, got %d", len(week.Times))
	}
	if len(week.Rows) != 19 {
		t.Fatalf("expected 19 rows, got %d", len(week.Rows))
	}

	total := 0
	for i, row := range week.Rows {
		if len(row) != 7 {
			t.Fatalf("row %d: expected 7 cells, got %d", i, len(row))
		}
		for j, cell := range row {
			if cell.Time != week.Times[i] {
				t.Errorf("cell [%d][%d]: time %s != row label %s", i, j, cell.Time, week.Times[i])
			}
			if cell.Date != week.Days[j] {
				t.Errorf("cell [%d][%d]: date %s != column label %s", i, j, cell.Date, week.Days[j])
			}
			total++
		}
	}
	if total != 19*7 {
		t.Errorf("expected %d cells, got %d", 19*7, total)
	}
}

func TestProjectWeek_MarksBookedSlot(t *testing.T) {
	env, proj := newProjectorEnv(t)

	appt, err := env.svc.Book(context.Background(), env.bookingReq("2026-09-16", "10:00"))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	week, err := proj.ProjectWeek(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, row := range week.Rows {
		for _, cell := range row {
			if cell.Date == "2026-09-16" && cell.Time == "10:00" {
				found = true
				if cell.Availability != SlotTaken {
					t.Errorf("expected taken, got %s", cell.Availability)
				}
				if cell.Appointment == nil || cell.Appointment.ID != appt.ID {
					t.Error("expected occupant in week cell")
				}
			} else if cell.Availability == SlotTaken {
				t.Errorf("unexpected taken cell at %s %s", cell.Date, cell.Time)
			}
		}
	}
	if !found {
		t.Error("booked slot not present in week view")
	}
}

func TestProjectWeek_CanceledSlotShowsFree(t *testing.T) {
	env, proj := newProjectorEnv(t)

	appt, err := env.svc.Book(context.Background(), env.bookingReq("2026-09-16", "10:00"))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if _, err := env.svc.Cancel(context.Background(), appt.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	week, err := proj.ProjectWeek(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, row := range week.Rows {
		for _, cell := range row {
			if cell.Date == "2026-09-16" && cell.Time == "10:00" {
				if cell.Availability != SlotFree {
					t.Errorf("expected canceled slot free, got %s", cell.Availability)
				}
			}
		}
	}
}

func TestProjectWeek_Idempotent(t *testing.T) {
	env, proj := newProjectorEnv(t)

	if _, err := env.svc.Book(context.Background(), env.bookingReq("2026-09-16", "10:00")); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	first, err := proj.ProjectWeek(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := proj.ProjectWeek(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical projections for unchanged appointments")
	}
}

func TestProjector_SeparatesDoctors(t *testing.T) {
	env, proj := newProjectorEnv(t)

	otherDoctor := uuid.New()
	other := NewService(
		env.repo,
		&mockDoctorDir{doctors: map[uuid.UUID]string{otherDoctor: "Dr. B"}},
		&mockPatientDir{patients: map[uuid.UUID]string{env.patientID: "Ravi Kumar"}},
		DefaultGrid(),
		env.clock,
		zerolog.Nop(),
	)
	req := BookingRequest{
		DoctorID:  otherDoctor,
		PatientID: env.patientID,
		Date:      "2026-09-16",
		StartTime: "10:00",
	}
	if _, err := other.Book(context.Background(), req); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	views, err := proj.ProjectDay(context.Background(), env.doctorID, "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range views {
		if v.Availability != SlotFree {
			t.Errorf("other doctor's booking leaked into projection at %s", v.Time)
		}
	}
}
