package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/andrewpaige1/studydesk/calendar"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/resource"
)

const (
	upcomingLimit     = 10
	deleteEventPrompt = "Delete this event?"
)

// Calendar is the month view of study events.
type Calendar struct {
	*env
	events resource.Remote[[]models.CalendarEvent]

	mu    sync.Mutex
	year  int
	month time.Month
	today time.Time
}

func newCalendar(e *env) *Calendar {
	c := &Calendar{env: e}
	c.resetLocked()
	return c
}

func (c *Calendar) resetLocked() {
	c.today = c.Now()
	c.year, c.month = c.today.Year(), c.today.Month()
}

// Mount takes the "today" snapshot, shows the current month and loads the
// user's events.
func (c *Calendar) Mount(ctx context.Context) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	_, err = c.events.Load(ctx, func(ctx context.Context) ([]models.CalendarEvent, error) {
		return c.env.Calendar.List(ctx, sess.User.ID)
	})
	if err != nil {
		c.toasts.Error("Failed to load events.")
		return err
	}
	return nil
}

// Navigate moves the shown month by delta months.
func (c *Calendar) Navigate(delta int) {
	c.mu.Lock()
	c.year, c.month = calendar.Shift(c.year, c.month, delta)
	c.mu.Unlock()
}

// Show jumps to year/month.
func (c *Calendar) Show(year int, month time.Month) error {
	if month < time.January || month > time.December || year < 1 {
		return c.invalid("Invalid month.")
	}
	c.mu.Lock()
	c.year, c.month = year, month
	c.mu.Unlock()
	return nil
}

func (c *Calendar) Grid() calendar.Grid {
	events, _ := c.events.Get()
	c.mu.Lock()
	year, month, today := c.year, c.month, c.today
	c.mu.Unlock()
	return calendar.Build(year, month, today, events)
}

func (c *Calendar) EventsOn(key string) []models.CalendarEvent {
	events, _ := c.events.Get()
	return calendar.EventsOn(events, key)
}

func (c *Calendar) Upcoming() []models.CalendarEvent {
	events, _ := c.events.Get()
	c.mu.Lock()
	today := c.today
	c.mu.Unlock()
	return calendar.Upcoming(events, today, upcomingLimit)
}

// NewEvent is the add-event form.
type NewEvent struct {
	Title string `validate:"required,max=200"`
	Type  string `validate:"required,oneof=exam study assignment revision"`
	Date  string `validate:"required,datetime=2006-01-02"`
}

func (c *Calendar) AddEvent(ctx context.Context, in NewEvent) (*models.CalendarEvent, error) {
	sess, err := c.session()
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := c.check(in, "Please fill in all fields."); err != nil {
		return nil, err
	}
	ev, err := c.env.Calendar.Create(ctx, models.CalendarEvent{
		UserID: sess.User.ID,
		Title:  in.Title,
		Type:   in.Type,
		Date:   in.Date,
	})
	if err != nil {
		c.log.Warn("event create failed", "error", err)
		c.toasts.Error("Failed to save event.")
		return nil, err
	}
	c.events.Update(func(es []models.CalendarEvent) []models.CalendarEvent {
		return insertEvent(es, *ev)
	})
	c.toasts.Success("Event added!")
	return ev, nil
}

// insertEvent keeps events ordered by date, new events last within a day.
func insertEvent(es []models.CalendarEvent, ev models.CalendarEvent) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(es)+1)
	placed := false
	for _, e := range es {
		if !placed && e.Date > ev.Date {
			out = append(out, ev)
			placed = true
		}
		out = append(out, e)
	}
	if !placed {
		out = append(out, ev)
	}
	return out
}

func (c *Calendar) DeleteEvent(ctx context.Context, id string, cf Confirm) error {
	if err := confirm(cf, deleteEventPrompt); err != nil {
		return err
	}
	if err := c.env.Calendar.Delete(ctx, id); err != nil {
		c.log.Warn("event delete failed", "event_id", id, "error", err)
		c.toasts.Error("Failed to delete event.")
		return err
	}
	c.events.Update(func(es []models.CalendarEvent) []models.CalendarEvent {
		out := make([]models.CalendarEvent, 0, len(es))
		for _, e := range es {
			if e.ID != id {
				out = append(out, e)
			}
		}
		return out
	})
	c.toasts.Success("Event deleted.")
	return nil
}

func (c *Calendar) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.events.Reset()
}

type CalendarState struct {
	Year     int                                       `json:"year"`
	Month    time.Month                                `json:"month"`
	Weekdays [calendar.Columns]string                  `json:"weekdays"`
	Weeks    [][]calendar.Cell                         `json:"weeks"`
	Upcoming []models.CalendarEvent                    `json:"upcoming"`
	Events   resource.Snapshot[[]models.CalendarEvent] `json:"events"`
	Types    []models.EventType                        `json:"types"`
}

func (c *Calendar) Snapshot() CalendarState {
	g := c.Grid()
	return CalendarState{
		Year:     g.Year,
		Month:    g.Month,
		Weekdays: calendar.Weekdays,
		Weeks:    g.Weeks(),
		Upcoming: c.Upcoming(),
		Events:   c.events.Snapshot(),
		Types:    models.EventTypes,
	}
}
