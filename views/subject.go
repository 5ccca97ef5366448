package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/resource"
	"github.com/andrewpaige1/studydesk/store"
	"golang.org/x/sync/errgroup"
)

type SubjectTab string

const (
	SubjectTabLectures  SubjectTab = "lectures"
	SubjectTabSummary   SubjectTab = "summary"
	SubjectTabExam      SubjectTab = "exam"
	SubjectTabStudyPlan SubjectTab = "studyplan"
)

const (
	ActionSummary   = "summary"
	ActionStudyPlan = "studyplan"
	ActionExam      = "exam"
)

// SubjectView is the detail screen of one subject and its course tools.
type SubjectView struct {
	*env
	busy Busy

	subject  resource.Remote[models.Subject]
	lectures resource.Remote[[]models.Lecture]

	mu          sync.Mutex
	id          string
	tab         SubjectTab
	summary     *models.CourseSummary
	plan        *models.StudyPlan
	exam        *models.PracticeExam
	examAnswers map[int]string
}

func newSubjectView(e *env) *SubjectView {
	sv := &SubjectView{env: e}
	sv.resetLocked("")
	return sv
}

func (sv *SubjectView) resetLocked(id string) {
	sv.id = id
	sv.tab = SubjectTabLectures
	sv.summary = nil
	sv.plan = nil
	sv.exam = nil
	sv.examAnswers = map[int]string{}
}

// Open shows subject id with its lectures. Generated artifacts of the
// previous subject are dropped.
func (sv *SubjectView) Open(ctx context.Context, id string) error {
	sess, err := sv.session()
	if err != nil {
		return err
	}
	userID := sess.User.ID

	sv.mu.Lock()
	sv.resetLocked(id)
	sv.mu.Unlock()
	sv.subject.Reset()
	sv.lectures.Reset()

	var g errgroup.Group
	g.Go(func() error {
		_, err := sv.subject.Load(ctx, func(ctx context.Context) (models.Subject, error) {
			s, err := sv.Subjects.Get(ctx, userID, id)
			if err != nil {
				return models.Subject{}, err
			}
			return *s, nil
		})
		return err
	})
	g.Go(func() error {
		_, err := sv.lectures.Load(ctx, func(ctx context.Context) ([]models.Lecture, error) {
			return sv.Lectures.List(ctx, userID, id)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		sv.toasts.Error("Failed to load subject: " + Message(err))
		return err
	}
	return nil
}

func (sv *SubjectView) Reset() {
	sv.mu.Lock()
	sv.resetLocked("")
	sv.mu.Unlock()
	sv.subject.Reset()
	sv.lectures.Reset()
}

func (sv *SubjectView) CurrentID() string {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.id
}

func (sv *SubjectView) removeLecture(id string) {
	sv.lectures.Update(func(ls []models.Lecture) []models.Lecture {
		return withoutLecture(ls, id)
	})
}

func (sv *SubjectView) SelectTab(tab SubjectTab) error {
	switch tab {
	case SubjectTabLectures, SubjectTabSummary, SubjectTabExam, SubjectTabStudyPlan:
	default:
		return sv.invalid(fmt.Sprintf("Unknown tab %q.", tab))
	}
	sv.mu.Lock()
	sv.tab = tab
	sv.mu.Unlock()
	return nil
}

// target returns the open subject with its lecture ids, or a validation
// error toasted with empty when it has no lectures.
func (sv *SubjectView) target(empty string) (id, name string, lectureIDs []string, err error) {
	id = sv.CurrentID()
	subject, ok := sv.subject.Get()
	if id == "" || !ok {
		return "", "", nil, ErrNotFound
	}
	lectures, _ := sv.lectures.Get()
	if len(lectures) == 0 {
		return "", "", nil, sv.invalid(empty)
	}
	lectureIDs = make([]string, len(lectures))
	for i, l := range lectures {
		lectureIDs[i] = l.ID
	}
	return id, subject.Name, lectureIDs, nil
}

func (sv *SubjectView) GenerateSummary(ctx context.Context) error {
	id, name, lectureIDs, err := sv.target("No lectures in this subject yet.")
	if err != nil {
		return err
	}
	end, err := sv.busy.Begin(ActionSummary)
	if err != nil {
		return err
	}
	defer end()

	summary, err := sv.Tools.Summary(ctx, models.SummaryRequest{SubjectName: name, LectureIDs: lectureIDs})
	if err != nil {
		sv.toasts.Error("Failed: " + Message(err))
		return err
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.id != id {
		return nil
	}
	sv.summary = summary
	sv.tab = SubjectTabSummary
	sv.toasts.Success("Course summary generated!")
	return nil
}

type studyPlanInput struct {
	ExamDate string `validate:"required,datetime=2006-01-02"`
}

// GenerateStudyPlan builds a day-by-day plan up to examDate (YYYY-MM-DD).
func (sv *SubjectView) GenerateStudyPlan(ctx context.Context, examDate string) error {
	examDate = strings.TrimSpace(examDate)
	if err := sv.check(studyPlanInput{ExamDate: examDate}, "Please enter your exam date."); err != nil {
		return err
	}
	id, name, lectureIDs, err := sv.target("No lectures yet.")
	if err != nil {
		return err
	}
	end, err := sv.busy.Begin(ActionStudyPlan)
	if err != nil {
		return err
	}
	defer end()

	plan, err := sv.Tools.StudyPlan(ctx, models.StudyPlanRequest{
		SubjectName: name,
		LectureIDs:  lectureIDs,
		ExamDate:    examDate,
	})
	if err != nil {
		sv.toasts.Error("Failed: " + Message(err))
		return err
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.id != id {
		return nil
	}
	sv.plan = plan
	sv.tab = SubjectTabStudyPlan
	sv.toasts.Success("Study plan generated!")
	return nil
}

// GeneratePracticeExam writes an exam for the subject, modelled on
// pastPaper when one is given.
func (sv *SubjectView) GeneratePracticeExam(ctx context.Context, pastPaper *store.Upload) error {
	id, name, lectureIDs, err := sv.target("No lectures yet.")
	if err != nil {
		return err
	}
	end, err := sv.busy.Begin(ActionExam)
	if err != nil {
		return err
	}
	defer end()

	exam, err := sv.Tools.PracticeExam(ctx, store.PracticeExamRequest{
		SubjectName: name,
		LectureIDs:  lectureIDs,
		PastPaper:   pastPaper,
	})
	if err != nil {
		sv.toasts.Error("Failed: " + Message(err))
		return err
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.id != id {
		return nil
	}
	sv.exam = exam
	sv.examAnswers = map[int]string{}
	sv.tab = SubjectTabExam
	sv.toasts.Success("Practice exam generated!")
	return nil
}

// AnswerExam records the answer to question number n of the practice exam.
func (sv *SubjectView) AnswerExam(n int, answer string) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.exam == nil {
		return ErrNotFound
	}
	for _, section := range sv.exam.Sections {
		for _, q := range section.Questions {
			if q.Number == n {
				sv.examAnswers[n] = answer
				return nil
			}
		}
	}
	return ErrNotFound
}

type SubjectState struct {
	ID          string                              `json:"id"`
	Tab         SubjectTab                          `json:"tab"`
	Subject     resource.Snapshot[models.Subject]   `json:"subject"`
	Lectures    resource.Snapshot[[]models.Lecture] `json:"lectures"`
	Summary     *models.CourseSummary               `json:"summary"`
	StudyPlan   *models.StudyPlan                   `json:"study_plan"`
	Exam        *models.PracticeExam                `json:"exam"`
	ExamAnswers map[int]string                      `json:"exam_answers"`
	Busy        map[string]bool                     `json:"busy"`
}

func (sv *SubjectView) Snapshot() SubjectState {
	st := SubjectState{
		Subject:  sv.subject.Snapshot(),
		Lectures: sv.lectures.Snapshot(),
		Busy:     sv.busy.Active(),
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	st.ID = sv.id
	st.Tab = sv.tab
	st.Summary = sv.summary
	st.StudyPlan = sv.plan
	st.Exam = sv.exam
	st.ExamAnswers = make(map[int]string, len(sv.examAnswers))
	for k, v := range sv.examAnswers {
		st.ExamAnswers[k] = v
	}
	return st
}
