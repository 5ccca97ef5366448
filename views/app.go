package views

import (
	"sync"
	"time"

	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/recording"
)

// App owns every screen container and keeps them in step with the session.
type App struct {
	env *env

	Toasts     *Toasts
	Home       *Home
	Lecture    *LectureView
	Subject    *SubjectView
	Chat       *ChatPanel
	NewLecture *NewLecture
	Calendar   *Calendar
	Settings   *SettingsView
	Solver     *Solver
	AuthPage   *AuthPage

	mu          sync.Mutex
	redirect    string
	userID      string
	unsubscribe func()
}

func NewApp(deps Deps) *App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Microphone == nil {
		deps.Microphone = recording.NewPipe()
	}
	e := &env{Deps: deps, toasts: &Toasts{}, log: deps.Log.With("component", "views")}

	a := &App{env: e, Toasts: e.toasts}
	a.Lecture = newLectureView(e)
	a.Subject = newSubjectView(e)
	a.Home = newHome(e, a.Lecture, a.Subject)
	a.Chat = newChatPanel(e, a.Home.CurrentSettings)
	a.Home.chat = a.Chat
	a.NewLecture = newNewLecture(e, a.Home)
	a.Calendar = newCalendar(e)
	a.Settings = newSettingsView(e, a.Home.settingsSaved)
	a.Solver = newSolver(e)
	a.AuthPage = newAuthPage(e)

	if sess := deps.Auth.Store().Current(); sess != nil {
		a.userID = sess.User.ID
	} else {
		a.redirect = AuthRedirect
	}
	a.unsubscribe = deps.Auth.Store().Subscribe(a.onSession)
	return a
}

// Close stops listening to session changes.
func (a *App) Close() {
	a.unsubscribe()
	a.NewLecture.recorder.Discard()
}

// Redirect is the path the UI must navigate to, or "" to stay.
func (a *App) Redirect() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.redirect
}

func (a *App) onSession(ev auth.Event) {
	a.mu.Lock()
	prev := a.userID
	switch {
	case ev.Lost():
		a.userID = ""
		a.redirect = AuthRedirect
	default:
		a.userID = ev.Session.User.ID
		a.redirect = ""
	}
	a.mu.Unlock()

	if ev.Lost() {
		a.env.log.Info("session lost, resetting screens", "event", ev.Kind.String())
		a.ResetAll()
		return
	}
	if ev.Kind == auth.SignedIn && prev != "" && prev != ev.Session.User.ID {
		a.ResetAll()
	}
}

// ResetAll discards the state of every screen.
func (a *App) ResetAll() {
	a.Home.Reset()
	a.Lecture.Reset()
	a.Subject.Reset()
	a.Chat.Reset()
	a.NewLecture.Reset()
	a.Calendar.Reset()
	a.Settings.Reset()
	a.Solver.Reset()
}
