package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

// GET /api/settings
func (h *AppHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sv := h.App.Settings
	if !sv.Snapshot().Loaded {
		if err := sv.Mount(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, sv.Snapshot())
}

// PUT /api/settings with any subset of the settings fields.
func (h *AppHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var patch views.SettingsPatch
	if err := decode(r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	sv := h.App.Settings
	if !sv.Snapshot().Loaded {
		if err := sv.Mount(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	sv.Update(patch)
	if err := sv.Save(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sv.Snapshot())
}

// GET /api/solver
func (h *AppHandler) GetSolver(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Solver.Mount(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.App.Solver.Snapshot())
}

// POST /api/solver, either JSON {"question", "mode", "subject"} or a
// multipart form with the same fields plus "file".
func (h *AppHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var in views.SolveInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Question string            `json:"question"`
			Mode     views.SubjectMode `json:"mode"`
			Subject  string            `json:"subject"`
		}
		if err := decode(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		in = views.SolveInput{Question: req.Question, Mode: req.Mode, Subject: req.Subject}
	} else {
		if err := parseForm(r); err != nil {
			h.fail(w, r, err)
			return
		}
		file, err := formFile(r, "file")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		in = views.SolveInput{
			Question: r.FormValue("question"),
			Mode:     views.SubjectMode(r.FormValue("mode")),
			Subject:  r.FormValue("subject"),
			File:     file,
		}
	}

	solution, err := h.App.Solver.Solve(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"solution": solution})
}

// GET /api/chat
func (h *AppHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.App.Chat.Snapshot())
}

// POST /api/chat {"message": "..."}
func (h *AppHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.App.Chat.Send(r.Context(), req.Message); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.App.Chat.Snapshot())
}
