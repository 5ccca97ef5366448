package middleware

import (
	"net/http"

	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/utils"
)

// RequireSession admits a request only when its token belongs to the user
// of the process-wide session. A token for anyone else, or no session at
// all, sends the browser back to sign in.
func RequireSession(sessions *auth.SessionStore, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserID(r)
			if !ok {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "No subject found", Redirect: utils.AuthRedirect})
				return
			}

			sess := sessions.Current()
			if sess == nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "Not signed in", Redirect: utils.AuthRedirect})
				return
			}
			if sess.User.ID != userID {
				log.Warn("token does not match session", "claims_user", userID, "session_user", sess.User.ID)
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "Session mismatch", Redirect: utils.AuthRedirect})
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}
