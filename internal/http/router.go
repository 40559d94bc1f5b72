package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/go-todo-api/internal/auth"
	"github.com/redmonkez12/go-todo-api/internal/config"
	"github.com/redmonkez12/go-todo-api/internal/httputil"
	"github.com/redmonkez12/go-todo-api/internal/logging"
	"github.com/redmonkez12/go-todo-api/internal/todo"
)

const docsPath = "/docs"

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers groups what the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Todos          *todo.Handler
	// HealthChecks are run by GET /health, keyed by component name.
	HealthChecks map[string]HealthCheck
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.TrustedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(Recoverer)
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth(h.HealthChecks))

	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", docsPath+"/")
		r.Get(docsPath, http.RedirectHandler(docsPath+"/index.html", http.StatusMovedPermanently).ServeHTTP)
		r.Get(docsPath+"/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/signin", h.Auth.SignIn)
		r.Post("/generate", h.Auth.Generate)
		r.With(h.AuthMiddleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	r.Route("/todos", h.Todos.Routes)

	return r
}

// handleHealth runs every check with a short deadline
// @Summary      Health check
// @Description  Report whether the API and its backing services are reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logging.GetLoggerFromContext(r.Context()).Error("health check failed", "component", name, "error", err.Error())
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		httputil.RespondJSON(w, resp, status)
	}
}
