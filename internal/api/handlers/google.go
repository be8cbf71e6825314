package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quillnotes/server/internal/api/services"
	"github.com/quillnotes/server/internal/models"
	"github.com/quillnotes/server/internal/policy"
	"github.com/quillnotes/server/internal/repositories"
)

// GenerateState creates a random OAuth state string carrying optional
// metadata (e.g. the originating flow).
func GenerateState(data map[string]string) (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	randomPart := base64.RawURLEncoding.EncodeToString(randomBytes)

	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	payloadPart := base64.RawURLEncoding.EncodeToString(payloadBytes)

	return fmt.Sprintf("%s.%s", randomPart, payloadPart), nil
}

// DecodeState decodes the metadata back from the state string.
func DecodeState(state string) (map[string]string, error) {
	parts := strings.Split(state, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid state format")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(payloadBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}

	return data, nil
}

// GET /auth/google/login
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState(map[string]string{"flow": "login"})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
//
// Google sign-in doubles as registration: a caller with no account gets
// one created from their Google profile, provided the address passes
// the Gmail-only policy. Password sign-in stays unavailable for such
// accounts until a reset.
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if _, err := DecodeState(r.FormValue("state")); err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.FormValue("code")
	token, err := services.GoogleOauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := services.GoogleOauthConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	if err := policy.ValidateEmail(googleUser.Email); err != nil {
		http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
		return
	}

	users := repositories.Users()
	user, err := users.FindByEmail(r.Context(), googleUser.Email)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{
			Username: googleUser.Name,
			Email:    googleUser.Email,
			Password: "", // Google-authenticated
		}
		if err := users.Create(r.Context(), user); err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
	case err != nil:
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if err := startSession(w, user); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/index.html", http.StatusSeeOther)
}
