package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"aws-tutor/internal/fetcher"
	"aws-tutor/internal/form"
	"aws-tutor/internal/handlers"
	"aws-tutor/internal/middleware"
)

const sessionCookie = "aws_tutor_session"

type Server struct {
	sessions *SessionStore
	asker    form.Asker
	logger   *zap.Logger
}

func NewServer(sessions *SessionStore, asker form.Asker, logger *zap.Logger) *Server {
	return &Server{
		sessions: sessions,
		asker:    asker,
		logger:   logger,
	}
}

// Routes returns the UI handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Get("/", s.HandleIndex)
	r.Post("/", s.HandleSubmit)

	return r
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	f := s.session(w, r)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleSubmit takes the question field as typed, waits for the answer and
// sends the browser back to the page. The browser's address travels with the
// question so the API limits each user separately.
func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f := s.session(w, r)

	ctx := fetcher.WithClientIP(r.Context(), middleware.ClientIP(r))
	f.SubmitText(ctx, r.PostForm.Get("question"), s.asker)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *form.Form {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	newID, f := s.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return f
}
