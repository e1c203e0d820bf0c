package api

import (
	"net/http"

	"github.com/internlog/server/internal/api/handlers"
	"github.com/internlog/server/internal/api/middleware"
	"github.com/internlog/server/internal/config"
	"github.com/internlog/server/internal/metrics"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the router mounts. The domain services satisfy the
// handler interfaces; postgres.Repository satisfies handlers.HealthStore.
type Dependencies struct {
	Users        handlers.UsersService
	Internships  handlers.InternshipsService
	Applications handlers.ApplicationsService
	Logbooks     handlers.LogbooksService
	Tokens       middleware.TokenVerifier
	Health       handlers.HealthStore
}

// BuildInfo is reported by /version and /readyz.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewRouter assembles the HTTP surface. Each route is registered with its own metrics,
// route naming, rate limiting and, where needed, authentication; the rest wraps the mux.
func NewRouter(cfg config.Config, logger zerolog.Logger, deps Dependencies, build BuildInfo) http.Handler {
	env := cfg.Environment

	usersHandler := handlers.NewUsersHandler(deps.Users, env)
	internshipsHandler := handlers.NewInternshipsHandler(deps.Internships, env)
	applicationsHandler := handlers.NewApplicationsHandler(deps.Applications, env)
	logbooksHandler := handlers.NewLogbooksHandler(deps.Logbooks, env)
	healthChecker := handlers.NewHealthChecker(deps.Health, build.Version, build.GitCommit)

	rateLimit := middleware.RateLimit(cfg.RateLimit, env)
	loginTier := middleware.WithRateLimitTierHandler(middleware.TierLogin)
	authenticate := middleware.Authenticate(deps.Tokens, env)

	public := func(h http.HandlerFunc) http.Handler {
		return rateLimit(h)
	}
	credentials := func(h http.HandlerFunc) http.Handler {
		return loginTier(rateLimit(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return rateLimit(authenticate(h))
	}

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, metrics.InstrumentRoute(pattern, middleware.NameRoute(pattern)(h)))
	}

	handle("GET /healthz", handlers.Healthz())
	handle("GET /readyz", healthChecker.Readyz())
	handle("GET /version", VersionHandler(build))
	handle("GET /api/openapi.json", OpenAPIHandler())
	mux.Handle("GET /metrics", metrics.Handler())

	handle("POST /api/register", credentials(usersHandler.Register))
	handle("POST /api/login", credentials(usersHandler.Login))

	handle("GET /api/internships", public(internshipsHandler.List))
	handle("GET /api/internships/{id}", public(internshipsHandler.Get))
	handle("POST /api/internships", protected(internshipsHandler.Post))

	handle("POST /api/apply", protected(applicationsHandler.Apply))
	handle("GET /api/my-applications", protected(applicationsHandler.ListMine))

	handle("POST /api/logbook", protected(logbooksHandler.Create))
	handle("GET /api/logbooks/{internshipId}", protected(logbooksHandler.List))
	handle("POST /api/logbooks/{id}/approve", protected(logbooksHandler.Approve))

	handle("GET /api/users", protected(usersHandler.List))

	var handler http.Handler = mux
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.Recover(env)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}
