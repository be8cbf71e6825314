package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/quillnotes/server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quillnotes/server/internal/api/handlers"
	"github.com/quillnotes/server/internal/api/middleware"
	"github.com/quillnotes/server/internal/config"
	"github.com/quillnotes/server/web"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mux.Handle("/static/", http.FileServerFS(web.FS))

	// ---------- PAGES ----------
	mux.HandleFunc("/", handlers.Root)
	mux.HandleFunc("/signin.html", handlers.SignIn)
	mux.HandleFunc("/signup.html", handlers.SignUp)
	mux.HandleFunc("/forgot_password.html", handlers.ForgotPassword)
	mux.HandleFunc("/index.html", handlers.Index)

	// ---------- AUTH ----------
	mux.HandleFunc("/auth/google/login", handlers.HandleGoogleLogin)
	mux.HandleFunc("/auth/google/callback", handlers.HandleGoogleCallback)
	mux.HandleFunc("/auth/logout", handlers.Logout)

	// ---------- NOTES API ----------
	mux.HandleFunc("/save_note", handlers.SaveNote)
	mux.HandleFunc("/update_note", handlers.UpdateNote)
	mux.HandleFunc("/delete_note", handlers.DeleteNote)
	mux.HandleFunc("/get_notes/{user_id}", handlers.GetNotes)
	mux.Handle("/get_username", middleware.RequireSession(http.HandlerFunc(handlers.GetUsername)))

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
