// Package views holds the state of every screen and the actions users take
// on them. Containers never hold a lock across a network call.
package views

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/conceptmap"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/recording"
	"github.com/andrewpaige1/studydesk/store"
	"github.com/go-playground/validator/v10"
)

// AuthRedirect is where the UI goes when there is no session.
const AuthRedirect = "/auth"

var (
	ErrBusy         = errors.New("views: action already in progress")
	ErrNoSession    = errors.New("views: not signed in")
	ErrValidation   = errors.New("views: invalid input")
	ErrNotConfirmed = errors.New("views: not confirmed")
	ErrNotFound     = errors.New("views: not found")
)

// ValidationError carries the message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfirmationError is returned when a destructive action was not
// confirmed. Prompt is the question the user must answer.
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string        { return "confirmation required: " + e.Prompt }
func (e *ConfirmationError) Is(target error) bool { return target == ErrNotConfirmed }

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Confirmed answers every prompt with ok.
func Confirmed(ok bool) Confirm {
	return func(string) bool { return ok }
}

func confirm(c Confirm, prompt string) error {
	if c == nil || !c(prompt) {
		return &ConfirmationError{Prompt: prompt}
	}
	return nil
}

// Busy tracks in-flight actions by name.
type Busy struct {
	mu    sync.Mutex
	flags map[string]bool
}

// Begin marks action in flight. The returned end must be called once the
// action settles, whatever the outcome.
func (b *Busy) Begin(action string) (end func(), err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.flags == nil {
		b.flags = map[string]bool{}
	}
	if b.flags[action] {
		return nil, fmt.Errorf("%s: %w", action, ErrBusy)
	}
	b.flags[action] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.flags, action)
			b.mu.Unlock()
		})
	}, nil
}

func (b *Busy) Is(action string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flags[action]
}

// Active lists the actions in flight.
func (b *Busy) Active() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(b.flags))
	for k, v := range b.flags {
		out[k] = v
	}
	return out
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastLoading ToastKind = "loading"
)

type Toast struct {
	ID      string    `json:"id,omitempty"`
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

// Toasts queues messages until the UI drains them. A toast with an ID
// replaces a queued toast with the same ID.
type Toasts struct {
	mu    sync.Mutex
	queue []Toast
}

func (t *Toasts) push(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if toast.ID != "" {
		for i := range t.queue {
			if t.queue[i].ID == toast.ID {
				t.queue[i] = toast
				return
			}
		}
	}
	t.queue = append(t.queue, toast)
}

func (t *Toasts) Success(msg string) { t.push(Toast{Kind: ToastSuccess, Message: msg}) }
func (t *Toasts) Error(msg string)   { t.push(Toast{Kind: ToastError, Message: msg}) }

func (t *Toasts) Loading(id, msg string)   { t.push(Toast{ID: id, Kind: ToastLoading, Message: msg}) }
func (t *Toasts) SuccessID(id, msg string) { t.push(Toast{ID: id, Kind: ToastSuccess, Message: msg}) }
func (t *Toasts) ErrorID(id, msg string)   { t.push(Toast{ID: id, Kind: ToastError, Message: msg}) }

// Drain returns and clears the queue.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.queue
	t.queue = nil
	if out == nil {
		out = []Toast{}
	}
	return out
}

// Message is the user-facing text of err.
func Message(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return err.Error()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates v and turns any failure into a toast with msg.
func (e *env) check(v any, msg string) error {
	if err := validate.Struct(v); err != nil {
		e.log.Debug("validation failed", "error", err)
		return e.invalid(msg)
	}
	return nil
}

func (e *env) invalid(msg string) error {
	e.toasts.Error(msg)
	return &ValidationError{Message: msg}
}

// Deps are the collaborators shared by every container.
type Deps struct {
	Auth       *auth.Service
	Subjects   store.SubjectRepository
	Lectures   store.LectureRepository
	Materials  store.MaterialsRepository
	Settings   store.SettingsRepository
	Calendar   store.CalendarRepository
	Assistant  store.Assistant
	Tools      store.SubjectTools
	Renderer   *conceptmap.Renderer
	Microphone recording.Microphone
	Log        *logger.Logger
	Now        func() time.Time
}

type env struct {
	Deps
	toasts *Toasts
	log    *logger.Logger
}

func (e *env) session() (*auth.Session, error) {
	sess := e.Auth.Store().Current()
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}
