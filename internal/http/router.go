package http

import (
	"net/http"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
	"complipilot/internal/config"
	"complipilot/internal/http/handler"
	mw "complipilot/internal/http/middleware"
	"complipilot/internal/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, files *storage.Local) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	users := auth.NewGormStore(db)
	authSvc := &auth.Service{Store: users, Tokens: jwtSvc}

	ah := &handler.AuthHandler{Svc: authSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	compSvc := &compliance.Service{DB: db}
	policyH := &handler.PolicyHandler{Svc: compSvc, Users: users, Files: files}
	gapH := &handler.GapHandler{Svc: compSvc, Users: users}
	taskH := &handler.TaskHandler{Svc: compSvc, Users: users}
	evidenceH := &handler.EvidenceHandler{Svc: compSvc, Users: users, Files: files}

	r.Route("/policies", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", policyH.Create)
		r.Get("/", policyH.List)
		r.Get("/{id}", policyH.Get)
		r.Get("/{id}/file", policyH.File)

		r.Post("/{id}/gaps", gapH.Create)
		r.Get("/{id}/gaps", gapH.List)
	})

	r.Route("/gaps", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/{id}/tasks", taskH.Create)
		r.Get("/{id}/tasks", taskH.List)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Patch("/{id}", taskH.Update)
		r.Post("/{id}/evidence", evidenceH.Upload)
		r.Get("/{id}/evidence", evidenceH.List)
	})

	r.With(auth.RequireAuth(jwtSvc)).Get("/evidence/{id}/file", evidenceH.File)

	return r
}
