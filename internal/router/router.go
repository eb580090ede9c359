package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/hardiksingla/insightboard/internal/middleware"
	"github.com/hardiksingla/insightboard/internal/middleware/metrics"
	rl "github.com/hardiksingla/insightboard/internal/middleware/ratelimiter"
	"github.com/hardiksingla/insightboard/internal/setup"
)

// New creates and configures the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// No RealIP here: the per-IP limiters key on RemoteAddr, and trusting
	// X-Forwarded-For would let a client rotate headers past them.
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	// setup CORS for the browser client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Auth-Secret"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Signup)
			auth.Post("/logout", h.Logout)

			// Login is brute-forceable, so it gets per-email and per-IP buckets.
			auth.Group(func(login chi.Router) {
				login.Use(mw.RateLimit(rl.NewSubjectRateLimiter(5.0/60.0, 5, 1*time.Hour), mw.GetEmailFromBody)) // 5 per minute by email
				login.Use(mw.RateLimit(rl.NewSubjectRateLimiter(1, 10, 1*time.Hour), mw.GetIP))                  // 1 per second by IP
				login.Post("/login", h.Login)
			})

			// Guarded by the shared secret inside the handler, not a session.
			auth.Post("/sso", h.Sso)
		})

		// Unauthenticated ingestion surface: the push receiver and the
		// pre-auth submission path both land here.
		v1.Group(func(ingest chi.Router) {
			ingest.Use(mw.RateLimit(rl.NewSubjectRateLimiter(1, 3, 1*time.Hour), mw.GetIP)) // 1 per second by IP
			ingest.Post("/posts/ingest", h.IngestPost)
		})
		v1.Post("/email/push", h.EmailPush)

		// Session-scoped routes
		v1.Group(func(loggedIn chi.Router) {
			loggedIn.Use(authMw.NeedAuth())

			loggedIn.Get("/boards", h.GetBoards)
			loggedIn.Post("/boards", h.CreateBoard)

			loggedIn.Get("/posts", h.GetPosts)
			loggedIn.Get("/posts/{id}", h.GetPost)
			loggedIn.Put("/posts/{id}/position", h.UpdatePosition)
			loggedIn.Put("/posts/{id}/board", h.AssignBoard)
			loggedIn.Post("/posts/{id}/generate", h.GenerateContent)
		})
	})

	return r
}
