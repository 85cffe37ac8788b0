package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-server/internal/domain/directory"
)

func TestDoctorCRUD(t *testing.T) {
	ctx := context.Background()
	repo := directory.NewDoctorRepoPG(globalDB.Pool)

	t.Run("Create", func(t *testing.T) {
		d := &directory.Doctor{
			ID:             uuid.New(),
			Name:           "Dr. Asha Rao",
			Specialization: ptrStr("Cardiology"),
			Phone:          ptrStr("555-0142"),
			Fees:           800,
			Active:         true,
		}
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create doctor: %v", err)
		}

		got, err := repo.GetByID(ctx, d.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != d.Name {
			t.Errorf("expected name %q, got %q", d.Name, got.Name)
		}
		if got.Specialization == nil || *got.Specialization != "Cardiology" {
			t.Errorf("specialization not persisted: %v", got.Specialization)
		}
		if got.Fees != 800 {
			t.Errorf("expected fees 800, got %v", got.Fees)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected created_at to be set by the database")
		}
	})

	t.Run("Update", func(t *testing.T) {
		d := createTestDoctor(t, ctx, "Dr. Update Me")
		d.Fees = 650
		d.Phone = ptrStr("555-0199")
		if err := repo.Update(ctx, d); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := repo.GetByID(ctx, d.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Fees != 650 {
			t.Errorf("expected fees 650, got %v", got.Fees)
		}
		if got.Phone == nil || *got.Phone != "555-0199" {
			t.Errorf("phone not updated: %v", got.Phone)
		}
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		if !errors.Is(err, directory.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete_Deactivates", func(t *testing.T) {
		d := createTestDoctor(t, ctx, "Dr. Gone Soon")
		if err := repo.Delete(ctx, d.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		// The row survives but is hidden from listings.
		got, err := repo.GetByID(ctx, d.ID)
		if err != nil {
			t.Fatalf("GetByID after delete: %v", err)
		}
		if got.Active {
			t.Error("expected doctor to be inactive after delete")
		}

		doctors, _, err := repo.List(ctx, 100, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for _, listed := range doctors {
			if listed.ID == d.ID {
				t.Error("deleted doctor still present in listing")
			}
		}
	})
}

func TestPatientCRUD(t *testing.T) {
	ctx := context.Background()
	repo := directory.NewPatientRepoPG(globalDB.Pool)

	t.Run("Create", func(t *testing.T) {
		p := &directory.Patient{
			ID:         uuid.New(),
			Name:       "Meera Iyer",
			Gender:     ptrStr("female"),
			Phone:      ptrStr("555-0173"),
			BloodGroup: ptrStr("O+"),
			Active:     true,
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create patient: %v", err)
		}
		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != p.Name {
			t.Errorf("expected name %q, got %q", p.Name, got.Name)
		}
		if got.BloodGroup == nil || *got.BloodGroup != "O+" {
			t.Errorf("blood group not persisted: %v", got.BloodGroup)
		}
	})

	t.Run("List_CountsActive", func(t *testing.T) {
		before, totalBefore, err := repo.List(ctx, 1, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		_ = before

		createTestPatient(t, ctx, "List Patient A")
		createTestPatient(t, ctx, "List Patient B")

		_, totalAfter, err := repo.List(ctx, 1, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if totalAfter != totalBefore+2 {
			t.Errorf("expected total %d, got %d", totalBefore+2, totalAfter)
		}
	})
}
