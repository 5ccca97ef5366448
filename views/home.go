package views

import (
	"context"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/resource"
	"golang.org/x/sync/errgroup"
)

type View string

const (
	ViewLibrary View = "library"
	ViewLecture View = "lecture"
	ViewSubject View = "subject"
)

const (
	deleteLecturePrompt = "Delete this lecture and all its study materials?"
	deleteSubjectPrompt = "Delete this subject? Lectures will be unassigned."
)

// Home is the main screen: sidebar, library and whichever lecture or
// subject is open.
type Home struct {
	*env
	lecture *LectureView
	subject *SubjectView
	chat    *ChatPanel

	mu              sync.Mutex
	view            View
	selectedSubject string
	user            *auth.User

	settings resource.Remote[models.UserSettings]
	subjects resource.Remote[[]models.Subject]
	lectures resource.Remote[[]models.Lecture]
}

func newHome(e *env, lecture *LectureView, subject *SubjectView) *Home {
	h := &Home{env: e, lecture: lecture, subject: subject, view: ViewLibrary}
	lecture.onDeleted = h.lectureDeleted
	lecture.onMoved = h.Reload
	return h
}

// Mount establishes the session and loads settings, subjects and lectures.
// Settings that fail to load fall back to the defaults.
func (h *Home) Mount(ctx context.Context) error {
	sess, err := h.session()
	if err != nil {
		return err
	}
	user := sess.User
	h.mu.Lock()
	h.user = &user
	h.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		_, err := h.settings.Load(ctx, func(ctx context.Context) (models.UserSettings, error) {
			s, err := h.env.Settings.Get(ctx, user.ID)
			if err != nil {
				h.log.Warn("settings load failed, using defaults", "error", err)
				return models.DefaultSettings(user.ID), nil
			}
			return *s, nil
		})
		return err
	})
	g.Go(func() error { return h.loadLists(ctx, user.ID) })
	if err := g.Wait(); err != nil {
		h.log.Warn("home load failed", "error", err)
	}
	return nil
}

// Reload refreshes subjects and lectures.
func (h *Home) Reload(ctx context.Context) error {
	sess, err := h.session()
	if err != nil {
		return err
	}
	return h.loadLists(ctx, sess.User.ID)
}

func (h *Home) loadLists(ctx context.Context, userID string) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := h.subjects.Load(ctx, func(ctx context.Context) ([]models.Subject, error) {
			return h.Subjects.List(ctx, userID)
		})
		return err
	})
	g.Go(func() error {
		_, err := h.lectures.Load(ctx, func(ctx context.Context) ([]models.Lecture, error) {
			return h.Lectures.List(ctx, userID, "")
		})
		return err
	})
	return g.Wait()
}

// CurrentSettings returns the loaded settings or the defaults.
func (h *Home) CurrentSettings() models.UserSettings {
	if s, ok := h.settings.Get(); ok {
		return s
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := ""
	if h.user != nil {
		id = h.user.ID
	}
	return models.DefaultSettings(id)
}

func (h *Home) settingsSaved(s models.UserSettings) {
	h.settings.Set(s)
}

func (h *Home) OpenLibrary() {
	h.mu.Lock()
	h.view = ViewLibrary
	h.selectedSubject = ""
	h.mu.Unlock()
	h.lecture.Reset()
	h.subject.Reset()
	h.chat.SetLecture("", "")
}

func (h *Home) OpenSubject(ctx context.Context, id string) error {
	h.mu.Lock()
	h.view = ViewSubject
	h.selectedSubject = id
	h.mu.Unlock()
	h.lecture.Reset()
	h.chat.SetLecture("", "")
	return h.subject.Open(ctx, id)
}

func (h *Home) OpenLecture(ctx context.Context, id string) error {
	h.mu.Lock()
	h.view = ViewLecture
	h.mu.Unlock()

	title := ""
	if l := h.findLecture(id); l != nil {
		title = l.Title
	}
	h.chat.SetLecture(id, title)
	if err := h.lecture.Open(ctx, id); err != nil {
		return err
	}
	if title == "" {
		if l, ok := h.lecture.lecture.Get(); ok {
			h.chat.SetLecture(id, l.Title)
		}
	}
	return nil
}

func (h *Home) findLecture(id string) *models.Lecture {
	lectures, _ := h.lectures.Get()
	for i := range lectures {
		if lectures[i].ID == id {
			return &lectures[i]
		}
	}
	return nil
}

// FilteredLectures narrows the library to the selected subject and to
// titles containing query.
func (h *Home) FilteredLectures(query string) []models.Lecture {
	h.mu.Lock()
	subjectID := h.selectedSubject
	h.mu.Unlock()

	lectures, _ := h.lectures.Get()
	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Lecture{}
	for _, l := range lectures {
		if subjectID != "" && !l.InSubject(subjectID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(l.Title), query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// DeleteLecture deletes a lecture from the library list.
func (h *Home) DeleteLecture(ctx context.Context, id string, c Confirm) error {
	if err := confirm(c, deleteLecturePrompt); err != nil {
		return err
	}
	if err := h.Lectures.Delete(ctx, id); err != nil {
		h.toasts.Error("Failed to delete lecture: " + Message(err))
		return err
	}
	h.toasts.Success("Lecture deleted.")
	h.lectureDeleted(id)
	return nil
}

// lectureDeleted drops id from every list and leaves the lecture screen if
// it was showing id.
func (h *Home) lectureDeleted(id string) {
	h.lectures.Update(func(ls []models.Lecture) []models.Lecture {
		return withoutLecture(ls, id)
	})
	h.subject.removeLecture(id)

	if h.lecture.CurrentID() == id {
		h.mu.Lock()
		h.view = ViewLibrary
		h.selectedSubject = ""
		h.mu.Unlock()
		h.lecture.Reset()
		h.chat.SetLecture("", "")
	}
}

func withoutLecture(ls []models.Lecture, id string) []models.Lecture {
	out := make([]models.Lecture, 0, len(ls))
	for _, l := range ls {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// DeleteSubject deletes a subject and reloads the lists, since its lectures
// lose their subject.
func (h *Home) DeleteSubject(ctx context.Context, id string, c Confirm) error {
	if err := confirm(c, deleteSubjectPrompt); err != nil {
		return err
	}
	if err := h.Subjects.Delete(ctx, id); err != nil {
		h.log.Warn("subject delete failed", "subject_id", id, "error", err)
		h.toasts.Error("Failed to delete subject.")
		return err
	}
	h.toasts.Success("Subject deleted.")

	h.subjects.Update(func(ss []models.Subject) []models.Subject {
		out := make([]models.Subject, 0, len(ss))
		for _, s := range ss {
			if s.ID != id {
				out = append(out, s)
			}
		}
		return out
	})
	h.mu.Lock()
	open := h.selectedSubject == id
	h.mu.Unlock()
	if open {
		h.OpenLibrary()
	}
	if err := h.Reload(ctx); err != nil {
		h.log.Warn("reload after subject delete failed", "error", err)
	}
	return nil
}

func (h *Home) SignOut(ctx context.Context) {
	h.Auth.SignOut(ctx)
}

func (h *Home) Reset() {
	h.mu.Lock()
	h.view = ViewLibrary
	h.selectedSubject = ""
	h.user = nil
	h.mu.Unlock()
	h.settings.Reset()
	h.subjects.Reset()
	h.lectures.Reset()
}

type HomeState struct {
	View            View                                `json:"view"`
	User            *auth.User                          `json:"user"`
	Settings        models.UserSettings                 `json:"settings"`
	Subjects        resource.Snapshot[[]models.Subject] `json:"subjects"`
	Lectures        resource.Snapshot[[]models.Lecture] `json:"lectures"`
	SelectedSubject string                              `json:"selected_subject,omitempty"`
	SelectedLecture string                              `json:"selected_lecture,omitempty"`
}

func (h *Home) Snapshot() HomeState {
	settings := h.CurrentSettings()
	h.mu.Lock()
	st := HomeState{
		View:            h.view,
		User:            h.user,
		SelectedSubject: h.selectedSubject,
	}
	h.mu.Unlock()
	st.Settings = settings
	st.Subjects = h.subjects.Snapshot()
	st.Lectures = h.lectures.Snapshot()
	st.SelectedLecture = h.lecture.CurrentID()
	return st
}
