package models

import "time"

type SourceType string

const (
	SourceYouTube    SourceType = "youtube"
	SourceTranscript SourceType = "transcript"
	SourceFile       SourceType = "file"
	SourceRecording  SourceType = "recording"
)

// Valid reports whether s is one of the four ingestion sources.
func (s SourceType) Valid() bool {
	switch s {
	case SourceYouTube, SourceTranscript, SourceFile, SourceRecording:
		return true
	}
	return false
}

// Endpoint is the backend ingestion path for s.
func (s SourceType) Endpoint() string {
	switch s {
	case SourceYouTube:
		return "/lectures/from-youtube"
	case SourceTranscript:
		return "/lectures/from-transcript"
	case SourceFile:
		return "/lectures/from-file"
	case SourceRecording:
		return "/lectures/from-recording"
	}
	return ""
}

// LectureSubject is the subject summary embedded in lecture reads.
type LectureSubject struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

type Lecture struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	SubjectID  *string         `json:"subject_id"`
	Title      string          `json:"title"`
	SourceType SourceType      `json:"source_type"`
	SourceRef  string          `json:"source_ref,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Subject    *LectureSubject `json:"subjects,omitempty"`
}

// InSubject reports whether the lecture is filed under subjectID.
func (l Lecture) InSubject(subjectID string) bool {
	return l.SubjectID != nil && *l.SubjectID == subjectID
}

// IngestResult is returned by every ingestion endpoint.
type IngestResult struct {
	Lecture Lecture `json:"lecture"`
	Title   string  `json:"title"`
}
