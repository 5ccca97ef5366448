package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/models"
)

// LectureAPI manages lectures through the backend API.
type LectureAPI struct {
	client *apiclient.Client
}

func NewLectureAPI(client *apiclient.Client) *LectureAPI { return &LectureAPI{client: client} }

func (a *LectureAPI) List(ctx context.Context, userID, subjectID string) ([]models.Lecture, error) {
	q := url.Values{"user_id": {userID}}
	if subjectID != "" {
		q.Set("subject_id", subjectID)
	}
	var lectures []models.Lecture
	if err := a.client.Get(ctx, "/lectures/?"+q.Encode(), &lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (a *LectureAPI) Get(ctx context.Context, id string) (*models.Lecture, error) {
	var lecture models.Lecture
	if err := a.client.Get(ctx, "/lectures/"+url.PathEscape(id), &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (a *LectureAPI) Delete(ctx context.Context, id string) error {
	return a.client.Delete(ctx, "/lectures/"+url.PathEscape(id), nil)
}

func (a *LectureAPI) Move(ctx context.Context, id, subjectID string) error {
	return a.client.Patch(ctx, "/lectures/"+url.PathEscape(id)+"/move", url.Values{"subject_id": {subjectID}}, nil)
}

// Ingest posts the multipart form of req to the endpoint of its source.
func (a *LectureAPI) Ingest(ctx context.Context, req IngestRequest) (*models.IngestResult, error) {
	form, err := req.form()
	if err != nil {
		return nil, err
	}
	var result models.IngestResult
	if err := a.client.PostForm(ctx, req.Source.Endpoint(), form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (req IngestRequest) form() (*apiclient.Form, error) {
	if !req.Source.Valid() {
		return nil, fmt.Errorf("ingest: unknown source %q", req.Source)
	}
	form := apiclient.NewForm().
		AddField("user_id", req.UserID).
		AddField("subject_id", req.SubjectID).
		AddField("lecture_name", req.LectureName)

	switch req.Source {
	case models.SourceYouTube:
		form.AddField("youtube_url", req.YouTubeURL)
	case models.SourceTranscript:
		form.AddField("transcript", req.Transcript)
	case models.SourceFile:
		if req.File == nil {
			return nil, fmt.Errorf("ingest: no file attached")
		}
		form.AddFile("file", req.File.Filename, req.File.Content)
	case models.SourceRecording:
		if req.Audio == nil {
			return nil, fmt.Errorf("ingest: no recording attached")
		}
		form.AddFile("audio", req.Audio.Filename, req.Audio.Content)
	}
	return form, nil
}

// MaterialsAPI reads and generates a lecture's study materials.
type MaterialsAPI struct {
	client *apiclient.Client
}

func NewMaterialsAPI(client *apiclient.Client) *MaterialsAPI { return &MaterialsAPI{client: client} }

func (a *MaterialsAPI) Get(ctx context.Context, lectureID string) (*models.Materials, error) {
	var m models.Materials
	if err := a.client.Get(ctx, "/materials/"+url.PathEscape(lectureID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (a *MaterialsAPI) GenerateQuiz(ctx context.Context, lectureID string) ([]models.QuizQuestion, error) {
	var quiz []models.QuizQuestion
	if err := a.client.Post(ctx, "/materials/"+url.PathEscape(lectureID)+"/generate-quiz", nil, &quiz); err != nil {
		return nil, err
	}
	if quiz == nil {
		quiz = []models.QuizQuestion{}
	}
	return quiz, nil
}

func (a *MaterialsAPI) GenerateFlashcards(ctx context.Context, lectureID string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := a.client.Post(ctx, "/materials/"+url.PathEscape(lectureID)+"/generate-flashcards", nil, &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

// SettingsAPI reads and saves user settings through the backend API.
type SettingsAPI struct {
	client *apiclient.Client
}

func NewSettingsAPI(client *apiclient.Client) *SettingsAPI { return &SettingsAPI{client: client} }

// Get returns the saved settings with defaults for any empty field.
func (a *SettingsAPI) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	var s models.UserSettings
	if err := a.client.Get(ctx, "/settings/"+url.PathEscape(userID), &s); err != nil {
		return nil, err
	}
	if s.UserID == "" {
		s.UserID = userID
	}
	s = s.WithDefaults()
	return &s, nil
}

func (a *SettingsAPI) Save(ctx context.Context, settings models.UserSettings) error {
	return a.client.Post(ctx, "/settings/", settings, nil)
}
