package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/config"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/handlers"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/middleware"
)

const (
	adminPagePrefix = "/admin"
	adminLoginPage  = "/admin-login"
)

// Deps is everything the router needs from main.
type Deps struct {
	Config  *config.Config
	Handler *handlers.Handler
	Session middleware.SessionChecker
	Redis   *redis.Client // nil disables the submit rate limit
}

// New builds the HTTP router.
func New(d Deps) http.Handler {
	cfg := d.Config
	h := d.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost, "/login", "/api/auth/login") {
			r.Use(mw)
		}
	}

	r.Get("/health", h.Health)

	submitLimit := middleware.SubmitRateLimit(d.Redis, cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	requireAdmin := middleware.RequireAdmin(d.Session)

	// Guest form
	r.With(submitLimit).Post("/submit-entry", h.SubmitEntry)
	r.With(submitLimit).Post("/api/submit", h.SubmitEntry)

	// Admin session
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)

	// Admin API
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/entries", h.ListEntries)
		r.Get("/entries/export", h.ExportEntries)
		r.Get("/entries/stream", h.EntryStream)
		r.Get("/api/entries", h.ListEntries)
	})

	// Admin pages
	pages := adminPages(cfg.AdminUIDir)
	r.Get(adminLoginPage, pages.ServeHTTP)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminPage(d.Session, adminLoginPage))
		r.Get(adminPagePrefix, pages.ServeHTTP)
		r.Get(adminPagePrefix+"/*", pages.ServeHTTP)
	})

	return r
}

// adminPages serves the static dashboard build from dir. Without a build the
// guard still runs and authenticated requests get 404.
func adminPages(dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.Dir(dir))
}
