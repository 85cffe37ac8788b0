package scheduling

import (
	"fmt"
	"time"
)

// Grid generates the clinic's bookable time-slot grid: a fixed daily list of
// HH:MM start times and the 7-day window containing any anchor date. It is
// pure; the only clock it ever sees is the anchor passed in.
type Grid struct {
	openMins    int
	closeMins   int
	slotMinutes int
	weekStart   time.Weekday
}

// NewGrid builds a grid from the clinic's operating hours. closeTime is
// inclusive: it is the start time of the last bookable slot of the day.
func NewGrid(openTime, closeTime string, slotMinutes int, weekStart time.Weekday) (*Grid, error) {
	open, err := ParseTimeOfDay(openTime)
	if err != nil {
		return nil, err
	}
	close, err := ParseTimeOfDay(closeTime)
	if err != nil {
		return nil, err
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidInput, slotMinutes)
	}
	if close < open {
		return nil, fmt.Errorf("%w: close time %s before open time %s", ErrInvalidInput, closeTime, openTime)
	}
	return &Grid{openMins: open, closeMins: close, slotMinutes: slotMinutes, weekStart: weekStart}, nil
}

// DefaultGrid returns the standard clinic grid: 08:00 through 17:00
// inclusive at 30-minute granularity (19 slots), weeks starting Sunday.
func DefaultGrid() *Grid {
	g, _ := NewGrid("08:00", "17:00", 30, time.Sunday)
	return g
}

// SlotMinutes returns the fixed appointment duration.
func (g *Grid) SlotMinutes() int { return g.slotMinutes }

// DailySlots returns the ordered list of bookable HH:MM start times for one
// clinic day.
func (g *Grid) DailySlots() []string {
	var slots []string
	for m := g.openMins; m <= g.closeMins; m += g.slotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// WeekWindow returns the 7 consecutive dates of the display week containing
// anchor, starting from the configured start-of-week. The returned values
// are midnight in anchor's location.
func (g *Grid) WeekWindow(anchor time.Time) []time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	offset := (int(day.Weekday()) - int(g.weekStart) + 7) % 7
	start := day.AddDate(0, 0, -offset)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
