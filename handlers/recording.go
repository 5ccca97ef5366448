package handlers

import (
	"io"
	"net/http"

	"github.com/andrewpaige1/studydesk/utils"
)

// maxChunk bounds one uploaded audio slice.
const maxChunk = 8 << 20

func (h *AppHandler) writeRecording(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusOK, h.App.NewLecture.RecordingStatus())
}

// GET /api/recording
func (h *AppHandler) GetRecording(w http.ResponseWriter, r *http.Request) {
	h.writeRecording(w)
}

// POST /api/recording/start
func (h *AppHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.App.NewLecture.StartRecording(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeRecording(w)
}

// POST /api/recording/chunk (raw audio/webm bytes)
func (h *AppHandler) PushRecordingChunk(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChunk))
	if err != nil {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "Chunk too large")
		return
	}
	if err := h.App.NewLecture.PushChunk(data); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/recording/stop
func (h *AppHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	h.App.NewLecture.StopRecording()
	h.writeRecording(w)
}

// DELETE /api/recording
func (h *AppHandler) DiscardRecording(w http.ResponseWriter, r *http.Request) {
	h.App.NewLecture.DiscardRecording()
	h.writeRecording(w)
}
