package handlers

import (
	"net/http"

	"github.com/quillnotes/server/internal/auth"
)

// GET /
func Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
}

// GET /index.html
//
// The notes page needs a signed-in caller; without a valid session the
// browser is sent back to the sign-in form.
func Index(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
		return
	}
	if _, err := auth.ParseSessionToken(cookie.Value); err != nil {
		http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
		return
	}

	views.Render(w, "index.html", nil)
}
