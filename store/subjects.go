package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectDB reads and writes subjects directly in the shared database.
type SubjectDB struct {
	*gorm.DB
}

func NewSubjectDB(db *gorm.DB) *SubjectDB { return &SubjectDB{DB: db} }

func (db *SubjectDB) List(ctx context.Context, userID string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (db *SubjectDB) Get(ctx context.Context, userID, id string) (*models.Subject, error) {
	var subject models.Subject
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return &subject, nil
}

func (db *SubjectDB) Create(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	subject.ID = uuid.NewString()
	subject.Name = strings.TrimSpace(subject.Name)
	if subject.Colour == "" {
		subject.Colour = models.SubjectColours[0]
	}
	if err := db.WithContext(ctx).Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return &subject, nil
}

// Delete removes the subject and, when the lectures table shares this
// database, unassigns its lectures in the same transaction.
func (db *SubjectDB) Delete(ctx context.Context, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Migrator().HasTable("lectures") {
			if err := tx.Table("lectures").Where("subject_id = ?", id).Update("subject_id", nil).Error; err != nil {
				return fmt.Errorf("unassign lectures: %w", err)
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Subject{})
		if res.Error != nil {
			return fmt.Errorf("delete subject: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SubjectAPI manages subjects through the backend API.
type SubjectAPI struct {
	client *apiclient.Client
}

func NewSubjectAPI(client *apiclient.Client) *SubjectAPI { return &SubjectAPI{client: client} }

func (a *SubjectAPI) List(ctx context.Context, userID string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := a.client.Get(ctx, "/subjects/?user_id="+url.QueryEscape(userID), &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// Get has no backend endpoint of its own, so it scans the owner's list.
func (a *SubjectAPI) Get(ctx context.Context, userID, id string) (*models.Subject, error) {
	subjects, err := a.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i].ID == id {
			return &subjects[i], nil
		}
	}
	return nil, ErrNotFound
}

func (a *SubjectAPI) Create(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	body := struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Colour string `json:"colour,omitempty"`
	}{subject.UserID, strings.TrimSpace(subject.Name), subject.Colour}

	var created models.Subject
	if err := a.client.Post(ctx, "/subjects/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *SubjectAPI) Delete(ctx context.Context, id string) error {
	return a.client.Delete(ctx, "/subjects/"+url.PathEscape(id), nil)
}
