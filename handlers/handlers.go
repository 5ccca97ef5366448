// Package handlers exposes the screen containers as a JSON API for the
// browser.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/recording"
	"github.com/andrewpaige1/studydesk/store"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

// maxUpload bounds multipart bodies (lecture files, past papers, solver
// attachments).
const maxUpload = 64 << 20

// AppHandler serves every screen of one App.
type AppHandler struct {
	App *views.App
	Log *logger.Logger
}

// Routes registers the API on mux. protect wraps the routes that need a
// signed-in user.
func (h *AppHandler) Routes(mux *http.ServeMux, protect func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /healthz", h.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/sign-in", h.SignIn)
	mux.HandleFunc("POST /api/auth/sign-up", h.SignUp)
	mux.HandleFunc("POST /api/auth/sign-out", protect(h.SignOut))
	mux.HandleFunc("GET /api/toasts", h.Toasts)

	// Home
	mux.HandleFunc("GET /api/home", protect(h.GetHome))
	mux.HandleFunc("POST /api/home/library", protect(h.OpenLibrary))
	mux.HandleFunc("POST /api/home/reload", protect(h.ReloadHome))

	// Lectures
	mux.HandleFunc("POST /api/lectures", protect(h.CreateLecture))
	mux.HandleFunc("POST /api/lectures/{lectureID}/open", protect(h.OpenLecture))
	mux.HandleFunc("DELETE /api/lectures/{lectureID}", protect(h.DeleteLecture))

	// Open lecture
	mux.HandleFunc("GET /api/lecture", protect(h.GetLecture))
	mux.HandleFunc("POST /api/lecture/tab", protect(h.SelectLectureTab))
	mux.HandleFunc("POST /api/lecture/quiz", protect(h.GenerateQuiz))
	mux.HandleFunc("POST /api/lecture/quiz/{index}/answer", protect(h.AnswerQuiz))
	mux.HandleFunc("POST /api/lecture/flashcards", protect(h.GenerateFlashcards))
	mux.HandleFunc("POST /api/lecture/flashcards/flip", protect(h.FlipFlashcard))
	mux.HandleFunc("POST /api/lecture/flashcards/goto", protect(h.GoToFlashcard))
	mux.HandleFunc("POST /api/lecture/concept-map", protect(h.GenerateConceptMap))
	mux.HandleFunc("GET /api/lecture/concept-map.png", protect(h.ConceptMapPNG))
	mux.HandleFunc("POST /api/lecture/move", protect(h.MoveLecture))
	mux.HandleFunc("DELETE /api/lecture", protect(h.DeleteOpenLecture))

	// Subjects
	mux.HandleFunc("POST /api/subjects/{subjectID}/open", protect(h.OpenSubject))
	mux.HandleFunc("DELETE /api/subjects/{subjectID}", protect(h.DeleteSubject))
	mux.HandleFunc("GET /api/subject", protect(h.GetSubject))
	mux.HandleFunc("POST /api/subject/tab", protect(h.SelectSubjectTab))
	mux.HandleFunc("POST /api/subject/summary", protect(h.GenerateSummary))
	mux.HandleFunc("POST /api/subject/study-plan", protect(h.GenerateStudyPlan))
	mux.HandleFunc("POST /api/subject/practice-exam", protect(h.GeneratePracticeExam))
	mux.HandleFunc("POST /api/subject/practice-exam/{number}/answer", protect(h.AnswerExam))

	// Recording
	mux.HandleFunc("GET /api/recording", protect(h.GetRecording))
	mux.HandleFunc("POST /api/recording/start", protect(h.StartRecording))
	mux.HandleFunc("POST /api/recording/chunk", protect(h.PushRecordingChunk))
	mux.HandleFunc("POST /api/recording/stop", protect(h.StopRecording))
	mux.HandleFunc("DELETE /api/recording", protect(h.DiscardRecording))

	// Calendar
	mux.HandleFunc("GET /api/calendar", protect(h.GetCalendar))
	mux.HandleFunc("POST /api/calendar/events", protect(h.AddEvent))
	mux.HandleFunc("DELETE /api/calendar/events/{eventID}", protect(h.DeleteEvent))

	// Settings
	mux.HandleFunc("GET /api/settings", protect(h.GetSettings))
	mux.HandleFunc("PUT /api/settings", protect(h.SaveSettings))

	// Solver works signed out too.
	mux.HandleFunc("GET /api/solver", h.GetSolver)
	mux.HandleFunc("POST /api/solver", h.Solve)

	// Chat
	mux.HandleFunc("GET /api/chat", protect(h.GetChat))
	mux.HandleFunc("POST /api/chat", protect(h.SendChat))
}

func (h *AppHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AppHandler) Toasts(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.App.Toasts.Drain())
}

// fail maps err to a status and writes it.
func (h *AppHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr     *apiclient.Error
		validErr   *views.ValidationError
		confirmErr *views.ConfirmationError
	)
	switch {
	case errors.Is(err, views.ErrNoSession):
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "Not signed in", Redirect: utils.AuthRedirect})
	case errors.As(err, &confirmErr):
		utils.WriteJSON(w, http.StatusPreconditionRequired, utils.ErrorBody{Error: "Confirmation required", Prompt: confirmErr.Prompt})
	case errors.As(err, &validErr):
		utils.WriteError(w, http.StatusUnprocessableEntity, validErr.Message)
	case errors.Is(err, views.ErrBusy),
		errors.Is(err, recording.ErrAlreadyRecording),
		errors.Is(err, recording.ErrNotRecording):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, recording.ErrMicrophone):
		utils.WriteError(w, http.StatusForbidden, "Microphone access denied.")
	case errors.Is(err, views.ErrNotFound), errors.Is(err, store.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: apiErr.Message, Redirect: utils.AuthRedirect})
			return
		}
		h.Log.Warn("backend call failed", "path", r.URL.Path, "status", apiErr.Status, "error", apiErr.Message)
		utils.WriteError(w, http.StatusBadGateway, apiErr.Message)
	default:
		h.Log.Error("request failed", "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &views.ValidationError{Message: fmt.Sprintf("Invalid request body: %v", err)}
	}
	return nil
}

func confirmed(r *http.Request) views.Confirm {
	return views.Confirmed(r.URL.Query().Get("confirm") == "true")
}

// formFile reads the optional multipart file field name fully into memory.
func formFile(r *http.Request, name string) (*store.Upload, error) {
	file, header, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &views.ValidationError{Message: fmt.Sprintf("Invalid %s upload.", name)}
	}
	defer file.Close()
	return upload(file, header)
}

func upload(file multipart.File, header *multipart.FileHeader) (*store.Upload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	return &store.Upload{Filename: header.Filename, Content: bytes.NewReader(data)}, nil
}

// parseForm accepts multipart and urlencoded bodies alike.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUpload)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return &views.ValidationError{Message: "Invalid form."}
	}
	return nil
}
