package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrewpaige1/studydesk/conceptmap"
	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/resource"
	"golang.org/x/sync/errgroup"
)

type Tab string

const (
	TabNotes      Tab = "notes"
	TabGlossary   Tab = "glossary"
	TabQuiz       Tab = "quiz"
	TabFlashcards Tab = "flashcards"
	TabConcepts   Tab = "concepts"
)

func (t Tab) valid() bool {
	switch t {
	case TabNotes, TabGlossary, TabQuiz, TabFlashcards, TabConcepts:
		return true
	}
	return false
}

// Busy action names of the lecture screen.
const (
	ActionQuiz       = "quiz"
	ActionFlashcards = "flashcards"
	ActionConcepts   = "concepts"
)

const deleteOpenLecturePrompt = "Delete this lecture and all its study materials? This cannot be undone."

// LectureView is the detail screen of one lecture.
type LectureView struct {
	*env
	busy      Busy
	onDeleted func(id string)
	onMoved   func(ctx context.Context) error

	lecture   resource.Remote[models.Lecture]
	materials resource.Remote[models.Materials]

	mu         sync.Mutex
	id         string
	tab        Tab
	conceptMap *models.ConceptMap
	layout     *conceptmap.Layout
	answers    map[int]int
	submitted  map[int]bool
	flipped    map[int]bool
	cardIndex  int
}

func newLectureView(e *env) *LectureView {
	lv := &LectureView{env: e}
	lv.resetLocked("")
	return lv
}

func (lv *LectureView) resetLocked(id string) {
	lv.id = id
	lv.tab = TabNotes
	lv.conceptMap = nil
	lv.layout = nil
	lv.answers = map[int]int{}
	lv.submitted = map[int]bool{}
	lv.flipped = map[int]bool{}
	lv.cardIndex = 0
}

// Open shows lecture id, dropping everything kept for the previous one,
// and loads the lecture and its materials in parallel.
func (lv *LectureView) Open(ctx context.Context, id string) error {
	if _, err := lv.session(); err != nil {
		return err
	}
	lv.mu.Lock()
	lv.resetLocked(id)
	lv.mu.Unlock()
	lv.lecture.Reset()
	lv.materials.Reset()
	return lv.load(ctx, id)
}

func (lv *LectureView) load(ctx context.Context, id string) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := lv.lecture.Load(ctx, func(ctx context.Context) (models.Lecture, error) {
			l, err := lv.Lectures.Get(ctx, id)
			if err != nil {
				return models.Lecture{}, err
			}
			return *l, nil
		})
		return err
	})
	g.Go(func() error {
		_, err := lv.materials.Load(ctx, func(ctx context.Context) (models.Materials, error) {
			m, err := lv.Materials.Get(ctx, id)
			if err != nil {
				return models.Materials{}, err
			}
			return *m, nil
		})
		return err
	})
	if err := g.Wait(); err != nil {
		lv.toasts.Error("Failed to load lecture: " + Message(err))
		return err
	}
	return nil
}

func (lv *LectureView) CurrentID() string {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	return lv.id
}

// Reset closes the screen.
func (lv *LectureView) Reset() {
	lv.mu.Lock()
	lv.resetLocked("")
	lv.mu.Unlock()
	lv.lecture.Reset()
	lv.materials.Reset()
}

func (lv *LectureView) SelectTab(tab Tab) error {
	if !tab.valid() {
		return lv.invalid(fmt.Sprintf("Unknown tab %q.", tab))
	}
	lv.mu.Lock()
	lv.tab = tab
	lv.mu.Unlock()
	return nil
}

func (lv *LectureView) openID() (string, error) {
	id := lv.CurrentID()
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}

// stillOpen reports whether id is still the lecture on screen.
func (lv *LectureView) stillOpen(id string) bool {
	return lv.CurrentID() == id
}

func (lv *LectureView) GenerateQuiz(ctx context.Context) error {
	id, err := lv.openID()
	if err != nil {
		return err
	}
	end, err := lv.busy.Begin(ActionQuiz)
	if err != nil {
		return err
	}
	defer end()

	quiz, err := lv.Materials.GenerateQuiz(ctx, id)
	if err != nil {
		lv.toasts.Error("Failed to generate quiz: " + Message(err))
		return err
	}
	if !lv.stillOpen(id) {
		return nil
	}
	lv.materials.Update(func(m models.Materials) models.Materials {
		m.Quiz = quiz
		return m
	})
	lv.mu.Lock()
	lv.tab = TabQuiz
	lv.answers = map[int]int{}
	lv.submitted = map[int]bool{}
	lv.mu.Unlock()
	lv.toasts.Success("Quiz generated!")
	return nil
}

func (lv *LectureView) GenerateFlashcards(ctx context.Context) error {
	id, err := lv.openID()
	if err != nil {
		return err
	}
	end, err := lv.busy.Begin(ActionFlashcards)
	if err != nil {
		return err
	}
	defer end()

	cards, err := lv.Materials.GenerateFlashcards(ctx, id)
	if err != nil {
		lv.toasts.Error("Failed to generate flashcards: " + Message(err))
		return err
	}
	if !lv.stillOpen(id) {
		return nil
	}
	lv.materials.Update(func(m models.Materials) models.Materials {
		m.Flashcards = cards
		return m
	})
	lv.mu.Lock()
	lv.tab = TabFlashcards
	lv.cardIndex = 0
	lv.flipped = map[int]bool{}
	lv.mu.Unlock()
	lv.toasts.Success("Flashcards generated!")
	return nil
}

// GenerateConceptMap asks for a fresh map of the lecture's notes and lays
// it out. The map is never stored.
func (lv *LectureView) GenerateConceptMap(ctx context.Context) error {
	id, err := lv.openID()
	if err != nil {
		return err
	}
	lecture, ok1 := lv.lecture.Get()
	materials, ok2 := lv.materials.Get()
	if !ok1 || !ok2 {
		return ErrNotFound
	}
	end, err := lv.busy.Begin(ActionConcepts)
	if err != nil {
		return err
	}
	defer end()

	m, err := lv.Assistant.ConceptMap(ctx, models.ConceptMapRequest{
		LectureID: id,
		Notes:     materials.Notes,
		Title:     lecture.Title,
	})
	if err != nil {
		lv.toasts.Error("Failed to generate concept map: " + Message(err))
		return err
	}
	if !lv.stillOpen(id) {
		return nil
	}

	var layout conceptmap.Layout
	if lv.Renderer != nil {
		layout = lv.Renderer.Layout(*m)
	} else {
		layout = conceptmap.Compute(*m, conceptmap.DefaultWidth, conceptmap.DefaultHeight, conceptmap.ApproxMeasure)
	}
	lv.mu.Lock()
	lv.conceptMap = m
	lv.layout = &layout
	lv.tab = TabConcepts
	lv.mu.Unlock()
	lv.toasts.Success("Concept map generated!")
	return nil
}

// ConceptMapPNG renders the current concept map.
func (lv *LectureView) ConceptMapPNG() ([]byte, error) {
	lv.mu.Lock()
	layout := lv.layout
	lv.mu.Unlock()
	if layout == nil || lv.Renderer == nil {
		return nil, ErrNotFound
	}
	return lv.Renderer.Render(*layout)
}

func (lv *LectureView) quizLen() int {
	m, ok := lv.materials.Get()
	if !ok {
		return 0
	}
	return len(m.Quiz)
}

// SelectAnswer picks option for question q. Submitted questions are
// locked.
func (lv *LectureView) SelectAnswer(q, option int) error {
	m, _ := lv.materials.Get()
	if q < 0 || q >= len(m.Quiz) || option < 0 || option >= len(m.Quiz[q].Options) {
		return ErrNotFound
	}
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if lv.submitted[q] {
		return nil
	}
	lv.answers[q] = option
	return nil
}

// SubmitAnswer reveals the result of question q once an option is picked.
func (lv *LectureView) SubmitAnswer(q int) error {
	if q < 0 || q >= lv.quizLen() {
		return ErrNotFound
	}
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if _, ok := lv.answers[q]; !ok {
		return &ValidationError{Message: "Pick an answer first."}
	}
	lv.submitted[q] = true
	return nil
}

// Score counts correct answers among submitted questions.
func (lv *LectureView) Score() (correct, submitted int) {
	m, _ := lv.materials.Get()
	lv.mu.Lock()
	defer lv.mu.Unlock()
	for q := range lv.submitted {
		if q >= len(m.Quiz) {
			continue
		}
		submitted++
		if lv.answers[q] == m.Quiz[q].Correct {
			correct++
		}
	}
	return correct, submitted
}

func (lv *LectureView) FlipCard() {
	lv.mu.Lock()
	lv.flipped[lv.cardIndex] = !lv.flipped[lv.cardIndex]
	lv.mu.Unlock()
}

// GoToCard moves to card i, clamped to the deck, and turns every card face
// up.
func (lv *LectureView) GoToCard(i int) {
	m, _ := lv.materials.Get()
	n := len(m.Flashcards)
	lv.mu.Lock()
	defer lv.mu.Unlock()
	switch {
	case n == 0 || i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}
	lv.cardIndex = i
	lv.flipped = map[int]bool{}
}

func (lv *LectureView) NextCard() {
	lv.mu.Lock()
	i := lv.cardIndex
	lv.mu.Unlock()
	lv.GoToCard(i + 1)
}

func (lv *LectureView) PrevCard() {
	lv.mu.Lock()
	i := lv.cardIndex
	lv.mu.Unlock()
	lv.GoToCard(i - 1)
}

// Move files the open lecture under subjectID.
func (lv *LectureView) Move(ctx context.Context, subjectID string) error {
	id, err := lv.openID()
	if err != nil {
		return err
	}
	if subjectID == "" {
		return lv.invalid("Please select or create a subject.")
	}
	if err := lv.Lectures.Move(ctx, id, subjectID); err != nil {
		lv.toasts.Error("Failed to move lecture: " + Message(err))
		return err
	}
	lv.toasts.Success("Lecture moved!")
	if lv.onMoved != nil {
		if err := lv.onMoved(ctx); err != nil {
			lv.log.Warn("reload after move failed", "error", err)
		}
	}
	if !lv.stillOpen(id) {
		return nil
	}
	_, err = lv.lecture.Load(ctx, func(ctx context.Context) (models.Lecture, error) {
		l, err := lv.Lectures.Get(ctx, id)
		if err != nil {
			return models.Lecture{}, err
		}
		return *l, nil
	})
	return err
}

// Delete removes the open lecture after confirmation.
func (lv *LectureView) Delete(ctx context.Context, c Confirm) error {
	id, err := lv.openID()
	if err != nil {
		return err
	}
	if err := confirm(c, deleteOpenLecturePrompt); err != nil {
		return err
	}
	if err := lv.Lectures.Delete(ctx, id); err != nil {
		lv.toasts.Error("Failed to delete lecture: " + Message(err))
		return err
	}
	lv.toasts.Success("Lecture deleted.")
	if lv.onDeleted != nil {
		lv.onDeleted(id)
	} else {
		lv.Reset()
	}
	return nil
}

type LectureState struct {
	ID         string                              `json:"id"`
	Tab        Tab                                 `json:"tab"`
	Lecture    resource.Snapshot[models.Lecture]   `json:"lecture"`
	Materials  resource.Snapshot[models.Materials] `json:"materials"`
	ConceptMap *conceptmap.Layout                  `json:"concept_map"`
	Answers    map[int]int                         `json:"answers"`
	Submitted  map[int]bool                        `json:"submitted"`
	Correct    int                                 `json:"correct"`
	CardIndex  int                                 `json:"card_index"`
	Flipped    bool                                `json:"flipped"`
	Busy       map[string]bool                     `json:"busy"`
}

func (lv *LectureView) Snapshot() LectureState {
	correct, _ := lv.Score()
	st := LectureState{
		Lecture:   lv.lecture.Snapshot(),
		Materials: lv.materials.Snapshot(),
		Correct:   correct,
		Busy:      lv.busy.Active(),
	}
	lv.mu.Lock()
	defer lv.mu.Unlock()
	st.ID = lv.id
	st.Tab = lv.tab
	st.ConceptMap = lv.layout
	st.Answers = make(map[int]int, len(lv.answers))
	for k, v := range lv.answers {
		st.Answers[k] = v
	}
	st.Submitted = make(map[int]bool, len(lv.submitted))
	for k, v := range lv.submitted {
		st.Submitted[k] = v
	}
	st.CardIndex = lv.cardIndex
	st.Flipped = lv.flipped[lv.cardIndex]
	return st
}
