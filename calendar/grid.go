// Package calendar lays out month grids for the calendar screen.
package calendar

import (
	"fmt"
	"time"

	"github.com/andrewpaige1/studydesk/models"
)

// Columns is the width of the grid, Sunday first.
const Columns = 7

var Weekdays = [Columns]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// LeadingBlanks is the weekday index (0 = Sunday) of the month's first day.
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DaysIn returns the number of days of month in year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateKey formats a day as the zero-padded YYYY-MM-DD key events are
// stored under.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// Cell is one grid slot. Blank cells have Day 0 and no key.
type Cell struct {
	Day    int                    `json:"day"`
	Key    string                 `json:"key,omitempty"`
	Today  bool                   `json:"today"`
	Events []models.CalendarEvent `json:"events,omitempty"`
}

func (c Cell) Blank() bool { return c.Day == 0 }

type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []Cell     `json:"cells"`
}

// Build returns the grid for year/month: LeadingBlanks blank cells followed
// by one cell per day. today is compared by calendar day, not instant.
func Build(year int, month time.Month, today time.Time, events []models.CalendarEvent) Grid {
	blanks := LeadingBlanks(year, month)
	days := DaysIn(year, month)

	byKey := make(map[string][]models.CalendarEvent, len(events))
	for _, ev := range events {
		byKey[ev.Date] = append(byKey[ev.Date], ev)
	}

	ty, tm, td := today.Date()
	cells := make([]Cell, blanks, blanks+days)
	for day := 1; day <= days; day++ {
		key := DateKey(year, month, day)
		cells = append(cells, Cell{
			Day:    day,
			Key:    key,
			Today:  ty == year && tm == month && td == day,
			Events: byKey[key],
		})
	}
	return Grid{Year: year, Month: month, Cells: cells}
}

// Weeks splits the cells into rows of Columns, padding the last row with
// blanks.
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += Columns {
		end := i + Columns
		row := make([]Cell, Columns)
		if end > len(g.Cells) {
			end = len(g.Cells)
		}
		copy(row, g.Cells[i:end])
		rows = append(rows, row)
	}
	return rows
}

// EventsOn returns the events whose date equals key exactly.
func EventsOn(events []models.CalendarEvent, key string) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, ev := range events {
		if ev.Date == key {
			out = append(out, ev)
		}
	}
	return out
}

// Upcoming returns at most limit events dated today or later, in input
// order. Events are expected sorted by date.
func Upcoming(events []models.CalendarEvent, today time.Time, limit int) []models.CalendarEvent {
	y, m, d := today.Date()
	from := DateKey(y, m, d)
	out := []models.CalendarEvent{}
	for _, ev := range events {
		if len(out) == limit {
			break
		}
		if ev.Date >= from {
			out = append(out, ev)
		}
	}
	return out
}

// Shift moves year/month by delta months.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
