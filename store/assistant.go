package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/models"
)

// AssistantAPI calls the concept-map, chat and solver endpoints.
type AssistantAPI struct {
	client *apiclient.Client
}

func NewAssistantAPI(client *apiclient.Client) *AssistantAPI { return &AssistantAPI{client: client} }

func (a *AssistantAPI) ConceptMap(ctx context.Context, req models.ConceptMapRequest) (*models.ConceptMap, error) {
	var m models.ConceptMap
	if err := a.client.Post(ctx, "/concepts/", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (a *AssistantAPI) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	return a.chat(ctx, "/chat/", req)
}

func (a *AssistantAPI) ChatGeneral(ctx context.Context, req models.ChatRequest) (string, error) {
	req.LectureID = ""
	return a.chat(ctx, "/chat/general", req)
}

func (a *AssistantAPI) chat(ctx context.Context, path string, req models.ChatRequest) (string, error) {
	var reply models.ChatReply
	if err := a.client.Post(ctx, path, req, &reply); err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (a *AssistantAPI) Solve(ctx context.Context, req models.SolveRequest) (string, error) {
	var sol models.Solution
	if err := a.client.Post(ctx, "/solver/", req, &sol); err != nil {
		return "", err
	}
	return sol.Solution, nil
}

func (a *AssistantAPI) SolveWithFile(ctx context.Context, req models.SolveRequest, file Upload) (string, error) {
	form := apiclient.NewForm().
		AddField("question", req.Question).
		AddField("subject", req.Subject).
		AddFile("file", file.Filename, file.Content)

	var sol models.Solution
	if err := a.client.PostForm(ctx, "/solver/with-file", form, &sol); err != nil {
		return "", err
	}
	return sol.Solution, nil
}

// SubjectToolsAPI generates subject-level aggregates.
type SubjectToolsAPI struct {
	client *apiclient.Client
}

func NewSubjectToolsAPI(client *apiclient.Client) *SubjectToolsAPI {
	return &SubjectToolsAPI{client: client}
}

func (a *SubjectToolsAPI) Summary(ctx context.Context, req models.SummaryRequest) (*models.CourseSummary, error) {
	var out models.CourseSummary
	if err := a.client.Post(ctx, "/subjects/summary", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *SubjectToolsAPI) StudyPlan(ctx context.Context, req models.StudyPlanRequest) (*models.StudyPlan, error) {
	var out models.StudyPlan
	if err := a.client.Post(ctx, "/subjects/study-plan", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PracticeExam sends lecture_ids as a JSON-encoded form field next to the
// optional past paper.
func (a *SubjectToolsAPI) PracticeExam(ctx context.Context, req PracticeExamRequest) (*models.PracticeExam, error) {
	ids := req.LectureIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode lecture ids: %w", err)
	}
	form := apiclient.NewForm().
		AddField("subject_name", req.SubjectName).
		AddField("lecture_ids", string(raw))
	if req.PastPaper != nil {
		form.AddFile("past_paper", req.PastPaper.Filename, req.PastPaper.Content)
	}

	var out models.PracticeExam
	if err := a.client.PostForm(ctx, "/subjects/practice-exam", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
