package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

// POST /api/lectures (multipart)
func (h *AppHandler) CreateLecture(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.fail(w, r, err)
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := views.NewLectureForm{
		Source:         models.SourceType(r.FormValue("source_type")),
		Name:           r.FormValue("lecture_name"),
		SubjectID:      r.FormValue("subject_id"),
		NewSubjectName: r.FormValue("new_subject_name"),
		YouTubeURL:     r.FormValue("youtube_url"),
		Transcript:     r.FormValue("transcript"),
		File:           file,
	}
	result, err := h.App.NewLecture.Submit(r.Context(), form)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

// POST /api/lectures/{lectureID}/open
func (h *AppHandler) OpenLecture(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Home.OpenLecture(r.Context(), r.PathValue("lectureID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

func (h *AppHandler) writeLecture(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusOK, h.App.Lecture.Snapshot())
}

// GET /api/lecture
func (h *AppHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	h.writeLecture(w)
}

// POST /api/lecture/tab {"tab": "quiz"}
func (h *AppHandler) SelectLectureTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab views.Tab `json:"tab"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Lecture.SelectTab(req.Tab); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

// POST /api/lecture/quiz
func (h *AppHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Lecture.GenerateQuiz(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

// POST /api/lecture/quiz/{index}/answer {"option": 2, "submit": true}
// A missing option submits the answer already picked.
func (h *AppHandler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid question index")
		return
	}
	var req struct {
		Option *int `json:"option"`
		Submit bool `json:"submit"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	lv := h.App.Lecture
	if req.Option != nil {
		if err := lv.SelectAnswer(index, *req.Option); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Submit || req.Option == nil {
		if err := lv.SubmitAnswer(index); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.writeLecture(w)
}

// POST /api/lecture/flashcards
func (h *AppHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Lecture.GenerateFlashcards(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

// POST /api/lecture/flashcards/flip
func (h *AppHandler) FlipFlashcard(w http.ResponseWriter, r *http.Request) {
	h.App.Lecture.FlipCard()
	h.writeLecture(w)
}

// POST /api/lecture/flashcards/goto {"direction": "next"} or {"index": 3}
func (h *AppHandler) GoToFlashcard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
		Index     *int   `json:"index"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	lv := h.App.Lecture
	switch {
	case req.Index != nil:
		lv.GoToCard(*req.Index)
	case req.Direction == "next":
		lv.NextCard()
	case req.Direction == "prev":
		lv.PrevCard()
	default:
		utils.WriteError(w, http.StatusBadRequest, "direction must be next or prev")
		return
	}
	h.writeLecture(w)
}

// POST /api/lecture/concept-map
func (h *AppHandler) GenerateConceptMap(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Lecture.GenerateConceptMap(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

// GET /api/lecture/concept-map.png
func (h *AppHandler) ConceptMapPNG(w http.ResponseWriter, r *http.Request) {
	png, err := h.App.Lecture.ConceptMapPNG()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// POST /api/lecture/move {"subject_id": "..."}
func (h *AppHandler) MoveLecture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID string `json:"subject_id"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Lecture.Move(r.Context(), req.SubjectID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeLecture(w)
}

// DELETE /api/lecture?confirm=true
func (h *AppHandler) DeleteOpenLecture(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Lecture.Delete(r.Context(), confirmed(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHome(w, r)
}
