package models

import "time"

// EventType describes one kind of calendar event and its colour.
type EventType struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Colour string `json:"colour"`
}

var EventTypes = []EventType{
	{ID: "exam", Label: "Exam", Colour: "#c12e5a"},
	{ID: "study", Label: "Study Session", Colour: "#c17b2e"},
	{ID: "assignment", Label: "Assignment Due", Colour: "#2e7bc1"},
	{ID: "revision", Label: "Revision", Colour: "#6b4fc8"},
}

const defaultEventColour = "#c17b2e"

// EventColour returns the palette colour of an event type.
func EventColour(typeID string) string {
	for _, t := range EventTypes {
		if t.ID == typeID {
			return t.Colour
		}
	}
	return defaultEventColour
}

// CalendarEvent is a dated entry on the user's calendar. Date is YYYY-MM-DD.
type CalendarEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Colour    string    `gorm:"size:16" json:"colour"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }
