package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// SlotView is one cell of a calendar projection.
type SlotView struct {
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Availability Availability `json:"availability"`
	Appointment  *Appointment `json:"appointment,omitempty"`
}

// WeekView is the slot-by-day matrix for one doctor's display week. Rows is
// indexed [slot][day]; Days and Times give the axis labels in order.
type WeekView struct {
	DoctorID uuid.UUID    `json:"doctor_id"`
	Days     []string     `json:"days"`
	Times    []string     `json:"times"`
	Rows     [][]SlotView `json:"rows"`
}

// Projector composes the slot grid and availability resolver into the
// week/day matrices consumed by presentation. It only reads; calling it
// repeatedly with an unchanged appointment set yields identical results.
type Projector struct {
	appts AppointmentRepository
	grid  *Grid
	clock Clock
}

func NewProjector(appts AppointmentRepository, grid *Grid, clock Clock) *Projector {
	return &Projector{appts: appts, grid: grid, clock: clock}
}

// ProjectDay returns one SlotView per daily slot for the given doctor and
// date, in grid order.
func (p *Projector) ProjectDay(ctx context.Context, doctorID uuid.UUID, date string) ([]SlotView, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	appts, err := p.appts.ListInRange(ctx, doctorID, date, date)
	if err != nil {
		return nil, err
	}

	now := p.clock.Now()
	var views []SlotView
	for _, tod := range p.grid.DailySlots() {
		avail, occupant := ResolveSlot(doctorID, date, tod, appts, now)
		views = append(views, SlotView{Date: date, Time: tod, Availability: avail, Appointment: occupant})
	}
	return views, nil
}

// ProjectWeek returns the full slot-by-day matrix for the display week
// containing anchor (an ISO date). One range query covers the whole window.
func (p *Projector) ProjectWeek(ctx context.Context, doctorID uuid.UUID, anchor string) (*WeekView, error) {
	anchorDay, err := ParseDate(anchor)
	if err != nil {
		return nil, err
	}

	window := p.grid.WeekWindow(anchorDay)
	days := make([]string, len(window))
	for i, d := range window {
		days[i] = d.Format(DateLayout)
	}

	appts, err := p.appts.ListInRange(ctx, doctorID, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}

	now := p.clock.Now()
	times := p.grid.DailySlots()
	rows := make([][]SlotView, len(times))
	for i, tod := range times {
		row := make([]SlotView, len(days))
		for j, date := range days {
			avail, occupant := ResolveSlot(doctorID, date, tod, appts, now)
			row[j] = SlotView{Date: date, Time: tod, Availability: avail, Appointment: occupant}
		}
		rows[i] = row
	}

	return &WeekView{DoctorID: doctorID, Days: days, Times: times, Rows: rows}, nil
}
