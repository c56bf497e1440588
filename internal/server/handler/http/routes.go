package http

import (
	"net/http"

	"github.com/atinyakov/DietJournal/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth    *AuthHandler
	Stage   *StageHandler
	Entry   *EntryHandler
	Product *ProductHandler
	Report  *ReportHandler
	Stats   *StatsHandler
	Health  *HealthHandler
}

// NewRouter constructs the HTTP handler serving the journal API.
//
// Routes:
//
//	POST /api/auth/login                      → Auth.Login
//	POST /api/auth/check                      → Auth.Check
//	POST /api/stage/create                    → Stage.Create
//	POST /api/stage/complete                  → Stage.Complete
//	GET  /api/stage/current/{userID}          → Stage.Current
//	POST /api/entry/save                      → Entry.Save
//	GET  /api/entry/get                       → Entry.Get
//	GET  /api/entry/history/{userID}          → Entry.History
//	POST /api/products/add                    → Product.Add
//	GET  /api/products/list/{userID}          → Product.List
//	GET  /api/products/search/{userID}        → Product.Search
//	POST /api/report/generate                 → Report.Generate
//	GET  /api/stats/weight/{userID}           → Stats.Weight
//	GET  /api/stats/weight/{userID}/summary   → Stats.Summary
//	GET  /reports/{filename}                  → Report.Download
//	GET  /health                              → Health.Health
//
// Middleware chain (applied in order):
//  1. RequestID                             : tags the request with an ID
//  2. WithRequestLogging(logger)            : logs every request
//  3. Recoverer                             : turns panics into 500s
//  4. AllowContentType("application/json")  : rejects non-JSON bodies
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/check", h.Auth.Check)
		})
		r.Route("/stage", func(r chi.Router) {
			r.Post("/create", h.Stage.Create)
			r.Post("/complete", h.Stage.Complete)
			r.Get("/current/{userID}", h.Stage.Current)
		})
		r.Route("/entry", func(r chi.Router) {
			r.Post("/save", h.Entry.Save)
			r.Get("/get", h.Entry.Get)
			r.Get("/history/{userID}", h.Entry.History)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/add", h.Product.Add)
			r.Get("/list/{userID}", h.Product.List)
			r.Get("/search/{userID}", h.Product.Search)
		})
		r.Post("/report/generate", h.Report.Generate)
		r.Get("/stats/weight/{userID}", h.Stats.Weight)
		r.Get("/stats/weight/{userID}/summary", h.Stats.Summary)
	})

	r.Get("/reports/{filename}", h.Report.Download)
	r.Get("/health", h.Health.Health)

	return r
}
