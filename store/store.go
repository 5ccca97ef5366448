// Package store puts one repository interface in front of every entity so
// screens never know whether a record lives behind the backend API or in the
// shared database.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/andrewpaige1/studydesk/models"
)

var ErrNotFound = errors.New("store: not found")

type SubjectRepository interface {
	List(ctx context.Context, userID string) ([]models.Subject, error)
	// Get returns one of userID's subjects.
	Get(ctx context.Context, userID, id string) (*models.Subject, error)
	Create(ctx context.Context, subject models.Subject) (*models.Subject, error)
	// Delete removes the subject; its lectures become unassigned.
	Delete(ctx context.Context, id string) error
}

type LectureRepository interface {
	// List returns the user's lectures, optionally narrowed to one subject.
	List(ctx context.Context, userID, subjectID string) ([]models.Lecture, error)
	Get(ctx context.Context, id string) (*models.Lecture, error)
	// Delete removes a lecture and its generated materials.
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id, subjectID string) error
	Ingest(ctx context.Context, req IngestRequest) (*models.IngestResult, error)
}

type MaterialsRepository interface {
	Get(ctx context.Context, lectureID string) (*models.Materials, error)
	GenerateQuiz(ctx context.Context, lectureID string) ([]models.QuizQuestion, error)
	GenerateFlashcards(ctx context.Context, lectureID string) ([]models.Flashcard, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Save(ctx context.Context, settings models.UserSettings) error
}

type CalendarRepository interface {
	// List returns the user's events ordered by date ascending.
	List(ctx context.Context, userID string) ([]models.CalendarEvent, error)
	Create(ctx context.Context, event models.CalendarEvent) (*models.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

// Assistant covers the conversational and single-question endpoints.
type Assistant interface {
	ConceptMap(ctx context.Context, req models.ConceptMapRequest) (*models.ConceptMap, error)
	// Chat answers within one lecture's context; ChatGeneral has none.
	Chat(ctx context.Context, req models.ChatRequest) (string, error)
	ChatGeneral(ctx context.Context, req models.ChatRequest) (string, error)
	Solve(ctx context.Context, req models.SolveRequest) (string, error)
	SolveWithFile(ctx context.Context, req models.SolveRequest, file Upload) (string, error)
}

// SubjectTools generates subject-level aggregates over several lectures.
type SubjectTools interface {
	Summary(ctx context.Context, req models.SummaryRequest) (*models.CourseSummary, error)
	StudyPlan(ctx context.Context, req models.StudyPlanRequest) (*models.StudyPlan, error)
	PracticeExam(ctx context.Context, req PracticeExamRequest) (*models.PracticeExam, error)
}

// Upload is a file handed to the backend in a multipart form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// IngestRequest creates a lecture from one of the four sources. Exactly the
// payload field matching Source is used.
type IngestRequest struct {
	UserID      string
	SubjectID   string
	LectureName string
	Source      models.SourceType
	YouTubeURL  string
	Transcript  string
	File        *Upload
	Audio       *Upload
}

type PracticeExamRequest struct {
	SubjectName string
	LectureIDs  []string
	PastPaper   *Upload
}
