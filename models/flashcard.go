package models

// Flashcard is one generated card of a lecture's deck.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizQuestion is one multiple-choice question. Correct indexes Options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty"`
}

type GlossaryItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Materials are the generated study artifacts of one lecture. A nil Quiz or
// Flashcards slice means the artifact has not been generated yet.
type Materials struct {
	LectureID  string         `json:"lecture_id"`
	Summary    string         `json:"summary"`
	Notes      string         `json:"notes"`
	Glossary   []GlossaryItem `json:"glossary"`
	Quiz       []QuizQuestion `json:"quiz"`
	Flashcards []Flashcard    `json:"flashcards"`
}

func (m *Materials) HasQuiz() bool       { return m != nil && m.Quiz != nil }
func (m *Materials) HasFlashcards() bool { return m != nil && m.Flashcards != nil }
