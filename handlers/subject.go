package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

// POST /api/subjects/{subjectID}/open
func (h *AppHandler) OpenSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Home.OpenSubject(r.Context(), r.PathValue("subjectID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}

func (h *AppHandler) writeSubject(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusOK, h.App.Subject.Snapshot())
}

// GET /api/subject
func (h *AppHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	h.writeSubject(w)
}

// POST /api/subject/tab {"tab": "summary"}
func (h *AppHandler) SelectSubjectTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab views.SubjectTab `json:"tab"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Subject.SelectTab(req.Tab); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}

// POST /api/subject/summary
func (h *AppHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Subject.GenerateSummary(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}

// POST /api/subject/study-plan {"exam_date": "2026-06-01"}
func (h *AppHandler) GenerateStudyPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExamDate string `json:"exam_date"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Subject.GenerateStudyPlan(r.Context(), req.ExamDate); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}

// POST /api/subject/practice-exam (multipart, optional past_paper)
func (h *AppHandler) GeneratePracticeExam(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.fail(w, r, err)
		return
	}
	pastPaper, err := formFile(r, "past_paper")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Subject.GeneratePracticeExam(r.Context(), pastPaper); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}

// POST /api/subject/practice-exam/{number}/answer {"answer": "..."}
func (h *AppHandler) AnswerExam(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid question number")
		return
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Subject.AnswerExam(n, req.Answer); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSubject(w)
}
