package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarDB keeps calendar events directly in the shared database.
type CalendarDB struct {
	*gorm.DB
}

func NewCalendarDB(db *gorm.DB) *CalendarDB { return &CalendarDB{DB: db} }

func (db *CalendarDB) List(ctx context.Context, userID string) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("date ASC").Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Create stores event with a fresh ID and the colour of its type.
func (db *CalendarDB) Create(ctx context.Context, event models.CalendarEvent) (*models.CalendarEvent, error) {
	event.ID = uuid.NewString()
	event.Title = strings.TrimSpace(event.Title)
	event.Colour = models.EventColour(event.Type)
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

func (db *CalendarDB) Delete(ctx context.Context, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
