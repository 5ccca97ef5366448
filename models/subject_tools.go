package models

// CourseSummary aggregates the notes of every lecture in a subject.
type CourseSummary struct {
	Overview  string   `json:"overview"`
	Checklist []string `json:"checklist"`
	Themes    string   `json:"themes"`
}

type StudyDay struct {
	Day      int      `json:"day"`
	Date     string   `json:"date"`
	Focus    string   `json:"focus"`
	Tasks    []string `json:"tasks"`
	Duration string   `json:"duration"`
}

type StudyPlan struct {
	DaysUntilExam int        `json:"days_until_exam"`
	Overview      string     `json:"overview"`
	Schedule      []StudyDay `json:"schedule"`
	Tips          []string   `json:"tips"`
}

type ExamQuestion struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Marks    int      `json:"marks"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
}

type ExamSection struct {
	Name         string         `json:"name"`
	Marks        int            `json:"marks"`
	Instructions string         `json:"instructions"`
	Questions    []ExamQuestion `json:"questions"`
}

type PracticeExam struct {
	Title        string        `json:"title"`
	TotalMarks   int           `json:"total_marks"`
	TimeAllowed  string        `json:"time_allowed"`
	Instructions string        `json:"instructions"`
	Sections     []ExamSection `json:"sections"`
}

type SummaryRequest struct {
	SubjectName string   `json:"subject_name"`
	LectureIDs  []string `json:"lecture_ids"`
}

type StudyPlanRequest struct {
	SubjectName string   `json:"subject_name"`
	LectureIDs  []string `json:"lecture_ids"`
	ExamDate    string   `json:"exam_date"`
}
