package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/quillnotes/server/internal/api"
	"github.com/quillnotes/server/internal/models"
	"github.com/quillnotes/server/internal/repositories"
	"github.com/quillnotes/server/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServer stands up the full router over a fresh in-memory database.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Note{}))
	repositories.DB = db

	srv := httptest.NewServer(api.SetupRouter())
	t.Cleanup(srv.Close)
	return srv
}

// noRedirects returns a client that reports redirects instead of
// following them, so see-other responses can be asserted directly.
func noRedirects() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "irrelevant-hash"}
	require.NoError(t, repositories.Users().Create(context.Background(), user))
	return user
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func sendJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodePayload(t *testing.T, resp *http.Response) utils.Payload {
	t.Helper()
	defer resp.Body.Close()
	var p utils.Payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestRootRedirectsToSignIn(t *testing.T) {
	srv := setupServer(t)

	resp, err := noRedirects().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signin.html", resp.Header.Get("Location"))
}

func TestIndexRequiresSession(t *testing.T) {
	srv := setupServer(t)

	resp, err := noRedirects().Get(srv.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signin.html", resp.Header.Get("Location"))
}

func TestSaveNoteMissingFields(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/save_note", map[string]string{"id": "n1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	p := decodePayload(t, resp)
	assert.Equal(t, "error", p.Status)
	assert.Equal(t, "Missing required fields", p.Message)
}

func TestSaveNoteTwiceKeepsFirstContent(t *testing.T) {
	srv := setupServer(t)
	user := createUser(t, "alice", "alice@gmail.com")

	resp := postJSON(t, srv.URL+"/save_note", map[string]string{
		"id": "n1", "user_id": user.ID.String(), "content": "first",
	})
	p := decodePayload(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", p.Status)

	resp = postJSON(t, srv.URL+"/save_note", map[string]string{
		"id": "n1", "user_id": user.ID.String(), "content": "second",
	})
	p = decodePayload(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "info", p.Status)
	assert.Equal(t, "Note with this ID already exists. No new note created.", p.Message)

	notesResp, err := http.Get(srv.URL + "/get_notes/" + user.ID.String())
	require.NoError(t, err)
	defer notesResp.Body.Close()

	var notes []struct {
		ID        string `json:"id"`
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(notesResp.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "first", notes[0].Content)
	assert.Equal(t, notes[0].ID, notes[0].Timestamp, "the id doubles as the timestamp")
}

func TestSaveNoteUnknownUser(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/save_note", map[string]string{
		"id": "n1", "user_id": "2c4e6f7a-1111-4222-8333-944445555666", "content": "orphan",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	p := decodePayload(t, resp)
	assert.Equal(t, "Unknown user", p.Message)
}

func TestUpdateNoteMissingID(t *testing.T) {
	srv := setupServer(t)

	resp := sendJSON(t, http.MethodPut, srv.URL+"/update_note", map[string]string{
		"id": "missing", "content": "anything",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	p := decodePayload(t, resp)
	assert.Equal(t, "error", p.Status)
	assert.Equal(t, "Note not found", p.Message)
}

func TestDeleteNoteSoftMiss(t *testing.T) {
	srv := setupServer(t)

	resp := sendJSON(t, http.MethodDelete, srv.URL+"/delete_note", map[string]string{"id": "missing"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "a missed delete is not an HTTP error")

	p := decodePayload(t, resp)
	assert.Equal(t, "error", p.Status)
	assert.Equal(t, "Note not found", p.Message)
}

func TestNoteUpdateAndDeleteRoundTrip(t *testing.T) {
	srv := setupServer(t)
	user := createUser(t, "alice", "alice@gmail.com")

	resp := postJSON(t, srv.URL+"/save_note", map[string]string{
		"id": "n1", "user_id": user.ID.String(), "content": "draft",
	})
	decodePayload(t, resp)

	resp = sendJSON(t, http.MethodPut, srv.URL+"/update_note", map[string]string{
		"id": "n1", "content": "final",
	})
	p := decodePayload(t, resp)
	assert.Equal(t, "success", p.Status)

	resp = sendJSON(t, http.MethodDelete, srv.URL+"/delete_note", map[string]string{"id": "n1"})
	p = decodePayload(t, resp)
	assert.Equal(t, "success", p.Status)

	notesResp, err := http.Get(srv.URL + "/get_notes/" + user.ID.String())
	require.NoError(t, err)
	defer notesResp.Body.Close()
	body, _ := io.ReadAll(notesResp.Body)
	assert.JSONEq(t, "[]", string(body))
}

func TestGetNotesFiltersByUser(t *testing.T) {
	srv := setupServer(t)
	alice := createUser(t, "alice", "alice@gmail.com")
	bob := createUser(t, "bob", "bob@gmail.com")

	for _, n := range []map[string]string{
		{"id": "a1", "user_id": alice.ID.String(), "content": "alpha"},
		{"id": "b1", "user_id": bob.ID.String(), "content": "beta"},
	} {
		decodePayload(t, postJSON(t, srv.URL+"/save_note", n))
	}

	notesResp, err := http.Get(srv.URL + "/get_notes/" + alice.ID.String())
	require.NoError(t, err)
	defer notesResp.Body.Close()

	var notes []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(notesResp.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "a1", notes[0].ID)
}

func TestGetUsernameRequiresSession(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/get_username")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	p := decodePayload(t, resp)
	assert.Equal(t, "User not logged in", p.Message)
}

func TestSignUpFlowEstablishesIdentity(t *testing.T) {
	srv := setupServer(t)
	client := noRedirects()

	form := url.Values{
		"username": {"alice"},
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	}
	resp, err := client.PostForm(srv.URL+"/signup.html", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index.html", resp.Header.Get("Location"))

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			session = c
		}
	}
	require.NotNil(t, session, "sign-up should set the session cookie")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/get_username", nil)
	require.NoError(t, err)
	req.AddCookie(session)

	whoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer whoResp.Body.Close()
	require.Equal(t, http.StatusOK, whoResp.StatusCode)

	var who map[string]string
	require.NoError(t, json.NewDecoder(whoResp.Body).Decode(&who))
	assert.Equal(t, "alice", who["username"])
	assert.NotEmpty(t, who["user_id"])

	// Sign-in with the same credentials lands on the same identity.
	signin, err := client.PostForm(srv.URL+"/signin.html", url.Values{
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	})
	require.NoError(t, err)
	defer signin.Body.Close()
	assert.Equal(t, http.StatusSeeOther, signin.StatusCode)
}

func TestGetUsernameStaleIdentity(t *testing.T) {
	srv := setupServer(t)
	client := noRedirects()

	resp, err := client.PostForm(srv.URL+"/signup.html", url.Values{
		"username": {"alice"},
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			session = c
		}
	}
	require.NotNil(t, session)

	// The account disappears while the token is still valid.
	require.NoError(t, repositories.DB.Where("username = ?", "alice").Delete(&models.User{}).Error)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/get_username", nil)
	require.NoError(t, err)
	req.AddCookie(session)

	whoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, whoResp.StatusCode)

	p := decodePayload(t, whoResp)
	assert.Equal(t, "User not found", p.Message)
}

func TestSignInFailuresReRenderForm(t *testing.T) {
	srv := setupServer(t)
	client := noRedirects()

	resp, err := client.PostForm(srv.URL+"/signup.html", url.Values{
		"username": {"alice"},
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			"unregistered account",
			url.Values{"email": {"ghost@gmail.com"}, "password": {"Secret!1"}},
			"Account not registered. Please sign up.",
		},
		{
			"wrong password",
			url.Values{"email": {"alice@gmail.com"}, "password": {"Wrong!pass"}},
			"Incorrect password.",
		},
		{
			"non-gmail address",
			url.Values{"email": {"alice@yahoo.com"}, "password": {"Secret!1"}},
			"Invalid email address. Must be a Gmail address.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.PostForm(srv.URL+"/signin.html", tt.form)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode, "failures re-render the form")
			body, _ := io.ReadAll(resp.Body)
			assert.True(t, strings.Contains(string(body), tt.message), "form should show %q", tt.message)
		})
	}
}

func TestSignUpDuplicateEmailBeatsDuplicateUsername(t *testing.T) {
	srv := setupServer(t)
	client := noRedirects()

	form := url.Values{
		"username": {"alice"},
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	}
	resp, err := client.PostForm(srv.URL+"/signup.html", form)
	require.NoError(t, err)
	resp.Body.Close()

	// Identical username AND email: the email message must win.
	resp, err = client.PostForm(srv.URL+"/signup.html", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Email already registered.")
	assert.NotContains(t, string(body), "Username already taken.")
}

func TestForgotPasswordFlow(t *testing.T) {
	srv := setupServer(t)
	client := noRedirects()

	resp, err := client.PostForm(srv.URL+"/signup.html", url.Values{
		"username": {"alice"},
		"email":    {"alice@gmail.com"},
		"password": {"Secret!1"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	post := func(email, newPw, confirm string) string {
		resp, err := client.PostForm(srv.URL+"/forgot_password.html", url.Values{
			"email":            {email},
			"new_password":     {newPw},
			"confirm_password": {confirm},
		})
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	assert.Contains(t, post("alice@gmail.com", "Newpass!1", "Other!pass"), "Passwords do not match.")
	assert.Contains(t, post("ghost@gmail.com", "Newpass!1", "Newpass!1"), "Email not found.")
	assert.Contains(t, post("alice@gmail.com", "Secret!1", "Secret!1"),
		"New password cannot be the same as the old password.")
	assert.Contains(t, post("alice@gmail.com", "Newpass!1", "Newpass!1"), "Password updated successfully.")

	// The new password works, the old one no longer does.
	signin, err := client.PostForm(srv.URL+"/signin.html", url.Values{
		"email":    {"alice@gmail.com"},
		"password": {"Newpass!1"},
	})
	require.NoError(t, err)
	defer signin.Body.Close()
	assert.Equal(t, http.StatusSeeOther, signin.StatusCode)
}
