package middleware

import (
	"context"
	"net/http"

	"github.com/quillnotes/server/internal/auth"
	"github.com/quillnotes/server/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// RequireSession resolves the session cookie into a request-scoped user
// id. JSON callers without a valid session get a 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(auth.SessionCookie)
		if err != nil {
			utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
				Status:  "error",
				Message: "User not logged in",
			})
			return
		}

		userID, err := auth.ParseSessionToken(cookie.Value)
		if err != nil {
			utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
				Status:  "error",
				Message: "User not logged in",
			})
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionUserID returns the user id resolved by RequireSession, if any.
func SessionUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
