package views

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/recording"
	"github.com/andrewpaige1/studydesk/store"
)

const (
	ActionSubmit = "submit"

	// NewSubjectOption is the subject choice meaning "create one from the
	// typed name".
	NewSubjectOption = "__new__"

	generateToastID = "gen"
)

// NewLectureForm is what the user filled in on the new lecture screen.
type NewLectureForm struct {
	Source         models.SourceType
	Name           string
	SubjectID      string
	NewSubjectName string
	YouTubeURL     string
	Transcript     string
	File           *store.Upload
}

// NewLecture turns a source into a lecture with study materials.
type NewLecture struct {
	*env
	home     *Home
	busy     Busy
	recorder *recording.Recorder
}

func newNewLecture(e *env, home *Home) *NewLecture {
	return &NewLecture{
		env:      e,
		home:     home,
		recorder: recording.NewRecorder(e.Microphone, recording.WithLogger(e.log)),
	}
}

// Submit validates the form, creates the subject when asked to, ingests the
// source and opens the resulting lecture.
func (n *NewLecture) Submit(ctx context.Context, form NewLectureForm) (*models.IngestResult, error) {
	sess, err := n.session()
	if err != nil {
		return nil, err
	}
	form.Name = strings.TrimSpace(form.Name)
	form.NewSubjectName = strings.TrimSpace(form.NewSubjectName)

	if form.Source == "" || form.Name == "" {
		return nil, n.invalid("Please fill in all required fields.")
	}
	if !form.Source.Valid() {
		return nil, n.invalid("Please choose a source.")
	}
	newSubject := form.SubjectID == "" || form.SubjectID == NewSubjectOption
	if newSubject && form.NewSubjectName == "" {
		return nil, n.invalid("Please select or create a subject.")
	}

	req := store.IngestRequest{
		UserID:      sess.User.ID,
		LectureName: form.Name,
		Source:      form.Source,
	}
	switch form.Source {
	case models.SourceYouTube:
		req.YouTubeURL = strings.TrimSpace(form.YouTubeURL)
		if req.YouTubeURL == "" {
			return nil, n.invalid("Please fill in all required fields.")
		}
	case models.SourceTranscript:
		req.Transcript = strings.TrimSpace(form.Transcript)
		if req.Transcript == "" {
			return nil, n.invalid("Please fill in all required fields.")
		}
	case models.SourceFile:
		if form.File == nil {
			return nil, n.invalid("Please fill in all required fields.")
		}
		req.File = form.File
	case models.SourceRecording:
		asset := n.recorder.Asset()
		if asset == nil {
			return nil, n.invalid("Please record audio first.")
		}
		req.Audio = &store.Upload{Filename: asset.Filename, Content: asset.Reader()}
	}

	end, err := n.busy.Begin(ActionSubmit)
	if err != nil {
		return nil, err
	}
	defer end()

	n.toasts.Loading(generateToastID, "Generating study materials... this may take 30–90 seconds.")

	req.SubjectID = form.SubjectID
	if newSubject {
		subject, err := n.Subjects.Create(ctx, models.Subject{
			UserID: sess.User.ID,
			Name:   form.NewSubjectName,
			Colour: randomSubjectColour(),
		})
		if err != nil {
			n.toasts.ErrorID(generateToastID, Message(err))
			return nil, err
		}
		req.SubjectID = subject.ID
	}

	result, err := n.Lectures.Ingest(ctx, req)
	if err != nil {
		n.log.Warn("ingest failed", "source", string(form.Source), "error", err)
		n.toasts.ErrorID(generateToastID, Message(err))
		return nil, err
	}
	n.toasts.SuccessID(generateToastID, "Study materials ready!")
	if form.Source == models.SourceRecording {
		n.recorder.Discard()
	}

	if err := n.home.Reload(ctx); err != nil {
		n.log.Warn("reload after ingest failed", "error", err)
	}
	if err := n.home.OpenLecture(ctx, result.Lecture.ID); err != nil {
		n.log.Warn("open new lecture failed", "lecture_id", result.Lecture.ID, "error", err)
	}
	return result, nil
}

func randomSubjectColour() string {
	return models.SubjectColours[rand.IntN(len(models.SubjectColours))]
}

// StartRecording opens the microphone.
func (n *NewLecture) StartRecording(ctx context.Context) error {
	if err := n.recorder.Start(ctx); err != nil {
		if errors.Is(err, recording.ErrMicrophone) {
			n.toasts.Error("Microphone access denied.")
		}
		return err
	}
	return nil
}

// StopRecording ends the capture and keeps the asset for Submit.
func (n *NewLecture) StopRecording() *recording.Asset {
	return n.recorder.Stop()
}

// PushChunk feeds audio captured in the browser into the recorder. It only
// works when the microphone is a push-fed pipe.
func (n *NewLecture) PushChunk(data []byte) error {
	pipe, ok := n.Microphone.(*recording.Pipe)
	if !ok {
		return recording.ErrNotRecording
	}
	return pipe.Push(data)
}

func (n *NewLecture) DiscardRecording() {
	n.recorder.Discard()
}

func (n *NewLecture) RecordingStatus() recording.Status {
	return n.recorder.Status()
}

func (n *NewLecture) Reset() {
	n.recorder.Discard()
}

type NewLectureState struct {
	Submitting bool             `json:"submitting"`
	Recording  recording.Status `json:"recording"`
}

func (n *NewLecture) Snapshot() NewLectureState {
	return NewLectureState{
		Submitting: n.busy.Is(ActionSubmit),
		Recording:  n.recorder.Status(),
	}
}
