package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/quillnotes/server/internal/auth"
	"github.com/quillnotes/server/internal/config"
	"github.com/quillnotes/server/internal/models"
	"github.com/quillnotes/server/internal/policy"
	"github.com/quillnotes/server/internal/render"
	"github.com/quillnotes/server/internal/repositories"
	"github.com/quillnotes/server/internal/utils"
)

var views = render.New()

func authenticator() *auth.Authenticator {
	return auth.NewAuthenticator(repositories.Users())
}

// formMessage maps service errors to the messages shown on the forms.
func formMessage(err error) string {
	switch {
	case errors.Is(err, policy.ErrInvalidEmail):
		return "Invalid email address. Must be a Gmail address."
	case errors.Is(err, policy.ErrWeakPassword):
		return "Password must be at least 6 characters long, contain one uppercase letter, and one special character."
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return "Email already registered."
	case errors.Is(err, repositories.ErrDuplicateUsername):
		return "Username already taken."
	case errors.Is(err, auth.ErrWrongPassword):
		return "Incorrect password."
	case errors.Is(err, auth.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, auth.ErrSamePassword):
		return "New password cannot be the same as the old password."
	default:
		return "Something went wrong. Please try again."
	}
}

// startSession issues a session token for user and sets it as an
// HttpOnly cookie on the response.
func startSession(w http.ResponseWriter, user *models.User) error {
	tokenString, expiration, err := auth.NewSessionToken(user)
	if err != nil {
		return err
	}

	isProd := config.Envs.Environment == "production"
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// GET|POST /signin.html
func SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "signin.html", nil)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := authenticator().SignIn(r.Context(), email, password)
	if errors.Is(err, auth.ErrNoSuchAccount) {
		views.Render(w, "signin.html", map[string]any{"Error": "Account not registered. Please sign up."})
		return
	}
	if err != nil {
		views.Render(w, "signin.html", map[string]any{"Error": formMessage(err)})
		return
	}

	if err := startSession(w, user); err != nil {
		views.Render(w, "signin.html", map[string]any{"Error": formMessage(err)})
		return
	}
	http.Redirect(w, r, "/index.html", http.StatusSeeOther)
}

// GET|POST /signup.html
func SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "signup.html", nil)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := authenticator().SignUp(r.Context(), username, email, password)
	if err != nil {
		views.Render(w, "signup.html", map[string]any{"Error": formMessage(err)})
		return
	}

	if err := startSession(w, user); err != nil {
		views.Render(w, "signup.html", map[string]any{"Error": formMessage(err)})
		return
	}
	http.Redirect(w, r, "/index.html", http.StatusSeeOther)
}

// GET|POST /forgot_password.html
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		views.Render(w, "forgot_password.html", nil)
		return
	}

	email := r.FormValue("email")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	err := authenticator().ResetPassword(r.Context(), email, newPassword, confirmPassword)
	if errors.Is(err, auth.ErrNoSuchAccount) {
		views.Render(w, "forgot_password.html", map[string]any{"Error": "Email not found."})
		return
	}
	if err != nil {
		views.Render(w, "forgot_password.html", map[string]any{"Error": formMessage(err)})
		return
	}

	views.Render(w, "forgot_password.html", map[string]any{"Success": "Password updated successfully."})
}

// POST /auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	isProd := config.Envs.Environment == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Status:  "success",
		Message: "Logged out successfully",
	})
}
