package handlers

import (
	"net/http"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

type homeResponse struct {
	views.HomeState
	Filtered []models.Lecture `json:"filtered"`
	Redirect string           `json:"redirect,omitempty"`
}

// GET /api/home?q=
// The first call after sign-in mounts the screen.
func (h *AppHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	home := h.App.Home
	if home.Snapshot().User == nil {
		if err := home.Mount(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.writeHome(w, r)
}

func (h *AppHandler) writeHome(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, homeResponse{
		HomeState: h.App.Home.Snapshot(),
		Filtered:  h.App.Home.FilteredLectures(r.URL.Query().Get("q")),
		Redirect:  h.App.Redirect(),
	})
}

// POST /api/home/library
func (h *AppHandler) OpenLibrary(w http.ResponseWriter, r *http.Request) {
	h.App.Home.OpenLibrary()
	h.writeHome(w, r)
}

// POST /api/home/reload
func (h *AppHandler) ReloadHome(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Home.Reload(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHome(w, r)
}

// DELETE /api/subjects/{subjectID}?confirm=true
func (h *AppHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Home.DeleteSubject(r.Context(), r.PathValue("subjectID"), confirmed(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHome(w, r)
}

// DELETE /api/lectures/{lectureID}?confirm=true
func (h *AppHandler) DeleteLecture(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Home.DeleteLecture(r.Context(), r.PathValue("lectureID"), confirmed(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHome(w, r)
}
