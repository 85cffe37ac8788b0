package scheduling

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory AppointmentRepository used by tests and
// by demo mode. It enforces the same one-live-appointment-per-slot
// constraint as the Postgres index.
type MemoryRepository struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *MemoryRepository) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Status.Blocks() {
		for _, existing := range m.appts {
			if existing.Occupies(a.DoctorID, a.Date, a.StartTime) {
				return ErrSlotTaken
			}
		}
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) Update(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *MemoryRepository) ListInRange(_ context.Context, doctorID uuid.UUID, from, to string) ([]*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*Appointment
	for _, a := range m.appts {
		// ISO dates compare lexicographically.
		if a.DoctorID == doctorID && a.Date >= from && a.Date <= to {
			cp := *a
			items = append(items, &cp)
		}
	}
	sortAppointments(items)
	return items, nil
}

func (m *MemoryRepository) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return m.listBy(func(a *Appointment) bool { return a.DoctorID == doctorID }, limit, offset)
}

func (m *MemoryRepository) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return m.listBy(func(a *Appointment) bool { return a.PatientID == patientID }, limit, offset)
}

func (m *MemoryRepository) listBy(match func(*Appointment) bool, limit, offset int) ([]*Appointment, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*Appointment
	for _, a := range m.appts {
		if match(a) {
			cp := *a
			items = append(items, &cp)
		}
	}
	sortAppointments(items)
	total := len(items)
	if offset >= total {
		return nil, total, nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

func sortAppointments(items []*Appointment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].StartTime < items[j].StartTime
	})
}
