package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/andrewpaige1/studydesk/resource"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

// GET /api/calendar?year=2026&month=4
// Without year/month the current month is shown.
func (h *AppHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal := h.App.Calendar
	if cal.Snapshot().Events.Status == resource.Idle {
		if err := cal.Mount(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	q := r.URL.Query()
	if q.Get("year") != "" || q.Get("month") != "" {
		year, yErr := strconv.Atoi(q.Get("year"))
		month, mErr := strconv.Atoi(q.Get("month"))
		if yErr != nil || mErr != nil {
			utils.WriteError(w, http.StatusBadRequest, "year and month must be numbers")
			return
		}
		if err := cal.Show(year, time.Month(month)); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, cal.Snapshot())
}

// POST /api/calendar/events {"title", "type", "date"}
func (h *AppHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		Date  string `json:"date"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ev, err := h.App.Calendar.AddEvent(r.Context(), views.NewEvent{Title: req.Title, Type: req.Type, Date: req.Date})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ev)
}

// DELETE /api/calendar/events/{eventID}?confirm=true
func (h *AppHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Calendar.DeleteEvent(r.Context(), r.PathValue("eventID"), confirmed(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.App.Calendar.Snapshot())
}
