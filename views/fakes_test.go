package views

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/store"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	signUpSession *auth.Session
	err           error
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	return p.signUpSession, p.err
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &auth.Session{AccessToken: "tok", User: auth.User{ID: "user-1", Email: email}}, nil
}

func (p *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	return nil, p.err
}

func (p *fakeProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

type fakeSubjects struct {
	mu       sync.Mutex
	subjects []models.Subject
	created  []models.Subject
	deleted  []string
	err      error
}

func (f *fakeSubjects) List(ctx context.Context, userID string) ([]models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Subject{}, f.subjects...), f.err
}

func (f *fakeSubjects) Get(ctx context.Context, userID, id string) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subjects {
		if s.ID == id && s.UserID == userID {
			cp := s
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSubjects) Create(ctx context.Context, s models.Subject) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s.ID = "subject-new"
	f.created = append(f.created, s)
	f.subjects = append(f.subjects, s)
	return &s, nil
}

func (f *fakeSubjects) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeLectures struct {
	mu       sync.Mutex
	lectures []models.Lecture
	ingested []store.IngestRequest
	audio    []byte
	deleted  []string
	moved    map[string]string
	err      error

	// listing is signalled and listGate awaited after List has read the
	// lectures, when set.
	listing  chan struct{}
	listGate chan struct{}
}

func (f *fakeLectures) List(ctx context.Context, userID, subjectID string) ([]models.Lecture, error) {
	f.mu.Lock()
	out := []models.Lecture{}
	for _, l := range f.lectures {
		if subjectID == "" || l.InSubject(subjectID) {
			out = append(out, l)
		}
	}
	err, listing, gate := f.err, f.listing, f.listGate
	f.mu.Unlock()

	if gate != nil {
		listing <- struct{}{}
		<-gate
	}
	return out, err
}

func (f *fakeLectures) Get(ctx context.Context, id string) (*models.Lecture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lectures {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeLectures) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	f.lectures = withoutLecture(f.lectures, id)
	return nil
}

func (f *fakeLectures) Move(ctx context.Context, id, subjectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moved == nil {
		f.moved = map[string]string{}
	}
	f.moved[id] = subjectID
	for i := range f.lectures {
		if f.lectures[i].ID == id {
			sid := subjectID
			f.lectures[i].SubjectID = &sid
		}
	}
	return nil
}

func (f *fakeLectures) Ingest(ctx context.Context, req store.IngestRequest) (*models.IngestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if req.Audio != nil {
		f.audio, _ = io.ReadAll(req.Audio.Content)
	}
	f.ingested = append(f.ingested, req)
	sid := req.SubjectID
	l := models.Lecture{ID: "lecture-new", UserID: req.UserID, SubjectID: &sid, Title: req.LectureName, SourceType: req.Source}
	f.lectures = append(f.lectures, l)
	return &models.IngestResult{Lecture: l, Title: l.Title}, nil
}

func (f *fakeLectures) ingestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ingested)
}

type fakeMaterials struct {
	mu         sync.Mutex
	materials  map[string]models.Materials
	quiz       []models.QuizQuestion
	flashcards []models.Flashcard
	err        error
	gate       chan struct{}
	calls      int
}

func (f *fakeMaterials) Get(ctx context.Context, lectureID string) (*models.Materials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.materials[lectureID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMaterials) wait() error {
	f.mu.Lock()
	f.calls++
	gate, err := f.gate, f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeMaterials) GenerateQuiz(ctx context.Context, lectureID string) ([]models.QuizQuestion, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	return f.quiz, nil
}

func (f *fakeMaterials) GenerateFlashcards(ctx context.Context, lectureID string) ([]models.Flashcard, error) {
	if err := f.wait(); err != nil {
		return nil, err
	}
	return f.flashcards, nil
}

type fakeSettings struct {
	mu    sync.Mutex
	saved []models.UserSettings
	got   *models.UserSettings
	err   error
}

func (f *fakeSettings) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	if f.got == nil {
		return nil, store.ErrNotFound
	}
	cp := *f.got
	return &cp, nil
}

func (f *fakeSettings) Save(ctx context.Context, s models.UserSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

type fakeCalendar struct {
	mu     sync.Mutex
	events []models.CalendarEvent
	calls  int
}

func (f *fakeCalendar) List(ctx context.Context, userID string) ([]models.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CalendarEvent{}, f.events...), nil
}

func (f *fakeCalendar) Create(ctx context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	ev.ID = "event-new"
	ev.Colour = models.EventColour(ev.Type)
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeCalendar) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

type fakeAssistant struct {
	mu       sync.Mutex
	chats    []models.ChatRequest
	general  []models.ChatRequest
	solved   []models.SolveRequest
	files    []string
	conceptM *models.ConceptMap
	err      error
}

func (f *fakeAssistant) ConceptMap(ctx context.Context, req models.ConceptMapRequest) (*models.ConceptMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conceptM, nil
}

func (f *fakeAssistant) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, req)
	return "lecture reply", f.err
}

func (f *fakeAssistant) ChatGeneral(ctx context.Context, req models.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.general = append(f.general, req)
	return "general reply", f.err
}

func (f *fakeAssistant) Solve(ctx context.Context, req models.SolveRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.solved = append(f.solved, req)
	return "## Solution", f.err
}

func (f *fakeAssistant) SolveWithFile(ctx context.Context, req models.SolveRequest, file store.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file.Filename)
	return "## Solution from file", f.err
}

type fakeTools struct {
	mu        sync.Mutex
	summaries []models.SummaryRequest
	plans     []models.StudyPlanRequest
	exams     []store.PracticeExamRequest
}

func (f *fakeTools) Summary(ctx context.Context, req models.SummaryRequest) (*models.CourseSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, req)
	return &models.CourseSummary{Overview: "overview"}, nil
}

func (f *fakeTools) StudyPlan(ctx context.Context, req models.StudyPlanRequest) (*models.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, req)
	return &models.StudyPlan{DaysUntilExam: 3}, nil
}

func (f *fakeTools) PracticeExam(ctx context.Context, req store.PracticeExamRequest) (*models.PracticeExam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exams = append(f.exams, req)
	return &models.PracticeExam{
		Title:    "Mock",
		Sections: []models.ExamSection{{Name: "A", Questions: []models.ExamQuestion{{Number: 1}, {Number: 2}}}},
	}, nil
}

type fixture struct {
	app       *App
	sessions  *auth.SessionStore
	provider  *fakeProvider
	subjects  *fakeSubjects
	lectures  *fakeLectures
	materials *fakeMaterials
	settings  *fakeSettings
	calendar  *fakeCalendar
	assistant *fakeAssistant
	tools     *fakeTools
}

var testToday = time.Date(2026, time.April, 15, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// newFixture builds an App signed in as user-1 with two subjects and two
// lectures in the first subject.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: auth.NewSessionStore(),
		provider: &fakeProvider{},
		subjects: &fakeSubjects{subjects: []models.Subject{
			{ID: "s1", UserID: "user-1", Name: "Biology", Colour: "#c17b2e"},
			{ID: "s2", UserID: "user-1", Name: "History", Colour: "#2e7bc1"},
		}},
		lectures: &fakeLectures{lectures: []models.Lecture{
			{ID: "l1", UserID: "user-1", SubjectID: strPtr("s1"), Title: "Cells"},
			{ID: "l2", UserID: "user-1", SubjectID: strPtr("s1"), Title: "Genetics"},
		}},
		materials: &fakeMaterials{materials: map[string]models.Materials{
			"l1": {LectureID: "l1", Notes: "# Cells", Summary: "cells"},
			"l2": {LectureID: "l2", Notes: "# Genetics"},
		}},
		settings:  &fakeSettings{},
		calendar:  &fakeCalendar{},
		assistant: &fakeAssistant{},
		tools:     &fakeTools{},
	}
	f.sessions.Set(&auth.Session{AccessToken: "tok", User: auth.User{ID: "user-1", Email: "a@b.c"}})

	f.app = NewApp(Deps{
		Auth:      auth.NewService(f.provider, f.sessions, nil),
		Subjects:  f.subjects,
		Lectures:  f.lectures,
		Materials: f.materials,
		Settings:  f.settings,
		Calendar:  f.calendar,
		Assistant: f.assistant,
		Tools:     f.tools,
		Now:       func() time.Time { return testToday },
	})
	t.Cleanup(f.app.Close)
	require.NoError(t, f.app.Home.Mount(context.Background()))
	return f
}

// lastToast drains the queue and returns its last entry.
func (f *fixture) lastToast(t *testing.T) Toast {
	t.Helper()
	toasts := f.app.Toasts.Drain()
	require.NotEmpty(t, toasts)
	return toasts[len(toasts)-1]
}
