package calendar

import (
	"testing"
	"time"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_CellCount(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  time.Month
		blanks int
		days   int
	}{
		// 1 April 2026 is a Wednesday.
		{"wednesday start, 30 days", 2026, time.April, 3, 30},
		{"leap february", 2024, time.February, 4, 29},
		{"sunday start", 2023, time.October, 0, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.year, tt.month, time.Time{}, nil)
			require.Len(t, g.Cells, tt.blanks+tt.days)
			for i := 0; i < tt.blanks; i++ {
				assert.True(t, g.Cells[i].Blank())
			}
			assert.Equal(t, 1, g.Cells[tt.blanks].Day)
			assert.Equal(t, tt.days, g.Cells[len(g.Cells)-1].Day)
		})
	}
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-03-05", DateKey(2024, time.March, 5))
	assert.Equal(t, "2024-12-25", DateKey(2024, time.December, 25))
}

func TestBuild_TodayAndEvents(t *testing.T) {
	today := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.Local)
	events := []models.CalendarEvent{
		{ID: "1", Date: "2024-03-05", Title: "Exam"},
		{ID: "2", Date: "2024-03-5", Title: "not padded"},
		{ID: "3", Date: "2024-04-05", Title: "next month"},
	}
	g := Build(2024, time.March, today, events)

	var todays []Cell
	for _, c := range g.Cells {
		if c.Today {
			todays = append(todays, c)
		}
	}
	require.Len(t, todays, 1)
	assert.Equal(t, 5, todays[0].Day)
	require.Len(t, todays[0].Events, 1)
	assert.Equal(t, "Exam", todays[0].Events[0].Title)

	april := Build(2024, time.April, today, events)
	for _, c := range april.Cells {
		assert.False(t, c.Today)
	}
}

func TestWeeks_PadsLastRow(t *testing.T) {
	g := Build(2026, time.April, time.Time{}, nil)
	weeks := g.Weeks()
	require.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, Columns)
	}
	assert.True(t, weeks[4][6].Blank())
}

func TestUpcoming(t *testing.T) {
	today := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	events := []models.CalendarEvent{
		{ID: "past", Date: "2024-03-04"},
		{ID: "today", Date: "2024-03-05"},
		{ID: "later", Date: "2024-04-01"},
	}
	got := Upcoming(events, today, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].ID)

	assert.Len(t, Upcoming(events, today, 1), 1)
}

func TestShift(t *testing.T) {
	y, m := Shift(2024, time.January, -1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)

	y, m = Shift(2024, time.December, 1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
}
