package views

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/resource"
	"github.com/andrewpaige1/studydesk/store"
)

const ActionSolve = "solve"

// SubjectMode says where the solver's subject context comes from.
type SubjectMode string

const (
	ModeGeneral SubjectMode = "general"
	ModeMine    SubjectMode = "mine"
	ModeCustom  SubjectMode = "custom"
)

// GeneralSubjects are offered in general mode.
var GeneralSubjects = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "Computer Science",
	"Economics", "Statistics", "Engineering", "Accounting", "History",
}

// FileKind is how an attached question file is read.
type FileKind string

const (
	FileImage FileKind = "image"
	FilePDF   FileKind = "pdf"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// KindOf classifies filename, returning "" for unsupported files.
func KindOf(filename string) FileKind {
	ext := strings.ToLower(path.Ext(filename))
	switch {
	case ext == ".pdf":
		return FilePDF
	case imageExts[ext]:
		return FileImage
	}
	return ""
}

// SolveInput is the solver form.
type SolveInput struct {
	Question string
	Mode     SubjectMode
	// Subject is the picked subject in general and mine modes, the typed
	// one in custom mode.
	Subject string
	File    *store.Upload
}

// Solver answers single questions with full working.
type Solver struct {
	*env
	busy     Busy
	subjects resource.Remote[[]models.Subject]

	mu       sync.Mutex
	mode     SubjectMode
	solution string
}

func newSolver(e *env) *Solver {
	return &Solver{env: e, mode: ModeGeneral}
}

// Mount loads the user's subjects for "mine" mode. Signed-out users can
// still solve.
func (s *Solver) Mount(ctx context.Context) error {
	sess := s.Auth.Store().Current()
	if sess == nil {
		return nil
	}
	_, err := s.subjects.Load(ctx, func(ctx context.Context) ([]models.Subject, error) {
		return s.Subjects.List(ctx, sess.User.ID)
	})
	if err != nil {
		s.log.Warn("solver subjects load failed", "error", err)
	}
	return nil
}

func (s *Solver) Solve(ctx context.Context, in SolveInput) (string, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" && in.File == nil {
		return "", s.invalid("Please enter a question or attach a file.")
	}
	if in.File != nil && KindOf(in.File.Filename) == "" {
		return "", s.invalid("Please attach an image or PDF.")
	}
	mode := in.Mode
	switch mode {
	case ModeGeneral, ModeMine, ModeCustom:
	case "":
		mode = ModeGeneral
	default:
		return "", s.invalid("Unknown subject mode.")
	}

	end, err := s.busy.Begin(ActionSolve)
	if err != nil {
		return "", err
	}
	defer end()

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	req := models.SolveRequest{Question: question, Subject: strings.TrimSpace(in.Subject)}
	var solution string
	if in.File != nil {
		solution, err = s.Assistant.SolveWithFile(ctx, req, *in.File)
	} else {
		solution, err = s.Assistant.Solve(ctx, req)
	}
	if err != nil {
		s.toasts.Error("Failed to solve: " + Message(err))
		return "", err
	}
	s.mu.Lock()
	s.solution = solution
	s.mu.Unlock()
	return solution, nil
}

func (s *Solver) Reset() {
	s.mu.Lock()
	s.mode = ModeGeneral
	s.solution = ""
	s.mu.Unlock()
	s.subjects.Reset()
}

type SolverState struct {
	Mode            SubjectMode                         `json:"mode"`
	Solution        string                              `json:"solution"`
	Solving         bool                                `json:"solving"`
	GeneralSubjects []string                            `json:"general_subjects"`
	MySubjects      resource.Snapshot[[]models.Subject] `json:"my_subjects"`
}

func (s *Solver) Snapshot() SolverState {
	st := SolverState{
		Solving:         s.busy.Is(ActionSolve),
		GeneralSubjects: GeneralSubjects,
		MySubjects:      s.subjects.Snapshot(),
	}
	s.mu.Lock()
	st.Mode = s.mode
	st.Solution = s.solution
	s.mu.Unlock()
	return st
}
