package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/config"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/store"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// backend fakes the study API.
type backend struct {
	mu       sync.Mutex
	lectures []models.Lecture
	quizFail bool
	ingested []string
}

func (b *backend) failQuiz(fail bool) {
	b.mu.Lock()
	b.quizFail = fail
	b.mu.Unlock()
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /lectures/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		utils.WriteJSON(w, http.StatusOK, b.lectures)
	})
	mux.HandleFunc("GET /lectures/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, l := range b.lectures {
			if l.ID == r.PathValue("id") {
				utils.WriteJSON(w, http.StatusOK, l)
				return
			}
		}
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Lecture not found"})
	})
	mux.HandleFunc("DELETE /lectures/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := b.lectures[:0]
		for _, l := range b.lectures {
			if l.ID != r.PathValue("id") {
				out = append(out, l)
			}
		}
		b.lectures = out
		utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	mux.HandleFunc("POST /lectures/from-transcript", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.ingested = append(b.ingested, r.FormValue("transcript"))
		sid := r.FormValue("subject_id")
		l := models.Lecture{ID: "l-new", UserID: r.FormValue("user_id"), SubjectID: &sid, Title: r.FormValue("lecture_name")}
		b.lectures = append(b.lectures, l)
		utils.WriteJSON(w, http.StatusOK, models.IngestResult{Lecture: l, Title: l.Title})
	})
	mux.HandleFunc("GET /materials/{id}", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, models.Materials{LectureID: r.PathValue("id"), Notes: "# Notes"})
	})
	mux.HandleFunc("POST /materials/{id}/generate-quiz", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		fail := b.quizFail
		b.mu.Unlock()
		if fail {
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"detail": "model overloaded"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, []models.QuizQuestion{
			{Question: "q1", Options: []string{"a", "b"}, Correct: 1},
		})
	})
	mux.HandleFunc("GET /settings/{id}", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "no settings"})
	})
	mux.HandleFunc("POST /settings/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	mux.HandleFunc("POST /chat/general", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, models.ChatReply{Reply: "hello there"})
	})
	return mux
}

type testServer struct {
	handler  http.Handler
	sessions *auth.SessionStore
	backend  *backend
	subject  *models.Subject
	app      *views.App
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := openTestDB(t)
	subjects := store.NewSubjectDB(db)
	subject, err := subjects.Create(context.Background(), models.Subject{UserID: "user-1", Name: "Biology"})
	require.NoError(t, err)

	be := &backend{lectures: []models.Lecture{
		{ID: "l1", UserID: "user-1", SubjectID: &subject.ID, Title: "Cells"},
		{ID: "l2", UserID: "user-1", Title: "Unfiled"},
	}}
	api := httptest.NewServer(be.handler())
	t.Cleanup(api.Close)
	client := apiclient.New(api.URL)

	sessions := auth.NewSessionStore()
	sessions.Set(&auth.Session{AccessToken: "tok", User: auth.User{ID: "user-1", Email: "a@b.c"}})

	app := views.NewApp(views.Deps{
		Auth:      auth.NewService(auth.NewGoTrue(client), sessions, nil),
		Subjects:  subjects,
		Lectures:  store.NewLectureAPI(client),
		Materials: store.NewMaterialsAPI(client),
		Settings:  store.NewSettingsAPI(client),
		Calendar:  store.NewCalendarDB(db),
		Assistant: store.NewAssistantAPI(client),
		Tools:     store.NewSubjectToolsAPI(client),
		Now:       func() time.Time { return time.Date(2026, time.April, 15, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(app.Close)

	h := &AppHandler{App: app, Log: logger.Nop()}
	mux := http.NewServeMux()
	h.Routes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })
	return &testServer{handler: mux, sessions: sessions, backend: be, subject: subject, app: app}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetHome(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/home?q=cel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		View     string `json:"view"`
		Lectures struct {
			Status string           `json:"status"`
			Data   []models.Lecture `json:"data"`
		} `json:"lectures"`
		Subjects struct {
			Data []models.Subject `json:"data"`
		} `json:"subjects"`
		Filtered []models.Lecture    `json:"filtered"`
		Settings models.UserSettings `json:"settings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "library", body.View)
	assert.Equal(t, "ready", body.Lectures.Status)
	assert.Len(t, body.Lectures.Data, 2)
	require.Len(t, body.Subjects.Data, 1)
	assert.Equal(t, "Biology", body.Subjects.Data[0].Name)
	require.Len(t, body.Filtered, 1)
	assert.Equal(t, "l1", body.Filtered[0].ID)
	assert.Equal(t, "Tutor", body.Settings.ChatbotName)
}

func TestNoSessionRedirects(t *testing.T) {
	s := newTestServer(t)
	s.sessions.Clear()
	rec := s.do(t, http.MethodGet, "/api/home", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody[utils.ErrorBody](t, rec)
	assert.Equal(t, utils.AuthRedirect, body.Redirect)
}

func TestLectureFlow(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/home", nil).Code)

	rec := s.do(t, http.MethodPost, "/api/lectures/l1/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[views.LectureState](t, rec)
	assert.Equal(t, "l1", st.ID)
	assert.Equal(t, views.TabNotes, st.Tab)
	assert.Equal(t, "# Notes", st.Materials.Data.Notes)

	rec = s.do(t, http.MethodGet, "/api/lecture/concept-map.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/lecture/quiz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st = decodeBody[views.LectureState](t, rec)
	assert.Equal(t, views.TabQuiz, st.Tab)
	require.Len(t, st.Materials.Data.Quiz, 1)

	rec = s.do(t, http.MethodPost, "/api/lecture/quiz/0/answer", map[string]any{"option": 1, "submit": true})
	require.Equal(t, http.StatusOK, rec.Code)
	st = decodeBody[views.LectureState](t, rec)
	assert.Equal(t, 1, st.Correct)
	assert.True(t, st.Submitted[0])

	rec = s.do(t, http.MethodPost, "/api/lecture/tab", map[string]string{"tab": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBackendFailureIsBadGateway(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/lectures/l1/open", nil).Code)
	s.backend.failQuiz(true)

	rec := s.do(t, http.MethodPost, "/api/lecture/quiz", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "model overloaded", decodeBody[utils.ErrorBody](t, rec).Error)

	toasts := decodeBody[[]views.Toast](t, s.do(t, http.MethodGet, "/api/toasts", nil))
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Failed to generate quiz: model overloaded", toasts[len(toasts)-1].Message)

	// The busy flag was released.
	s.backend.failQuiz(false)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/lecture/quiz", nil).Code)
}

func TestDeleteLectureNeedsConfirmation(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/home", nil).Code)

	rec := s.do(t, http.MethodDelete, "/api/lectures/l1", nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.NotEmpty(t, decodeBody[utils.ErrorBody](t, rec).Prompt)

	rec = s.do(t, http.MethodDelete, "/api/lectures/l1?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.app.Home.Snapshot().Lectures.Data, 1)
}

func TestCreateLecture(t *testing.T) {
	s := newTestServer(t)

	post := func(fields map[string]string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			require.NoError(t, mw.WriteField(k, v))
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/lectures", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := post(map[string]string{"source_type": "transcript", "subject_id": s.subject.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please fill in all required fields.", decodeBody[utils.ErrorBody](t, rec).Error)
	s.backend.mu.Lock()
	assert.Empty(t, s.backend.ingested)
	s.backend.mu.Unlock()

	rec = post(map[string]string{
		"source_type":  "transcript",
		"lecture_name": "Mitosis",
		"subject_id":   s.subject.ID,
		"transcript":   "cells divide",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decodeBody[models.IngestResult](t, rec)
	assert.Equal(t, "l-new", res.Lecture.ID)
	s.backend.mu.Lock()
	assert.Equal(t, []string{"cells divide"}, s.backend.ingested)
	s.backend.mu.Unlock()
	assert.Equal(t, "l-new", s.app.Lecture.CurrentID())
}

func TestRecordingFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/recording/chunk", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/recording/start", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/recording/start", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/recording/chunk", strings.NewReader("audio"))
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/recording/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		State string `json:"state"`
		Asset struct {
			Size int `json:"size"`
		} `json:"asset"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "captured", status.State)
	assert.Equal(t, 5, status.Asset.Size)
}

func TestCalendarEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/calendar/events", map[string]string{"title": "", "type": "exam", "date": "2026-04-20"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/calendar/events", map[string]string{"title": "Final", "type": "exam", "date": "2026-04-20"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ev := decodeBody[models.CalendarEvent](t, rec)
	assert.Equal(t, "#c12e5a", ev.Colour)

	rec = s.do(t, http.MethodGet, "/api/calendar?year=2026&month=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decodeBody[views.CalendarState](t, rec)
	assert.Equal(t, 2026, cal.Year)
	require.Len(t, cal.Upcoming, 1)
	assert.Equal(t, "Final", cal.Upcoming[0].Title)

	rec = s.do(t, http.MethodGet, "/api/calendar?year=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/calendar/events/"+ev.ID+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[views.CalendarState](t, rec).Upcoming)
}

func TestSettingsAndChat(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/settings", map[string]string{"chatbot_tone": "rude"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/settings", map[string]string{"chatbot_tone": "strict", "chatbot_name": "Ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", decodeBody[views.SettingsState](t, rec).Settings.ChatbotName)

	rec = s.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	chat := decodeBody[views.ChatState](t, rec)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "hello there", chat.Messages[1].Content)
	assert.Equal(t, "Ada", chat.AssistantName)
}

func TestSolverValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/solver", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please enter a question or attach a file.", decodeBody[utils.ErrorBody](t, rec).Error)
}
