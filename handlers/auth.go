package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/utils"
	"github.com/andrewpaige1/studydesk/views"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        auth.User `json:"user"`
	// Pending is set when the account still needs email confirmation.
	Pending bool `json:"pending,omitempty"`
}

// POST /api/auth/sign-in
func (h *AppHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, views.ModeLogin)
}

// POST /api/auth/sign-up
func (h *AppHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, views.ModeSignup)
}

func (h *AppHandler) authenticate(w http.ResponseWriter, r *http.Request, mode views.AuthMode) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	page := h.App.AuthPage
	if err := page.SetMode(mode); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := page.Submit(r.Context(), req.Email, req.Password)
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		// Wrong credentials are not a gateway failure.
		utils.WriteError(w, http.StatusUnauthorized, apiErr.Message)
		return
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		utils.WriteError(w, http.StatusUnauthorized, "Sign-in failed: invalid session token.")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if sess == nil {
		utils.WriteJSON(w, http.StatusAccepted, sessionResponse{Pending: true})
		return
	}
	utils.WriteJSON(w, http.StatusOK, sessionResponse{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
		User:        sess.User,
	})
}

// POST /api/auth/sign-out
func (h *AppHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.App.Home.SignOut(r.Context())
	utils.WriteJSON(w, http.StatusOK, map[string]string{"redirect": h.App.Redirect()})
}
