package models

// ConceptTier ranks a concept-map node.
type ConceptTier string

const (
	TierCentral ConceptTier = "central"
	TierMajor   ConceptTier = "major"
	TierMinor   ConceptTier = "minor"
)

type ConceptNode struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Type  ConceptTier `json:"type"`
}

type ConceptEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// ConceptMap is regenerated on every request and never stored.
type ConceptMap struct {
	Nodes []ConceptNode `json:"nodes"`
	Edges []ConceptEdge `json:"edges"`
}

type ConceptMapRequest struct {
	LectureID string `json:"lecture_id"`
	Notes     string `json:"notes"`
	Title     string `json:"title"`
}
