package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Sessions SessionService

	// LoginRatePerMinute and LoginBurst throttle POST /login per client.
	LoginRatePerMinute int
	LoginBurst         int

	// Metrics is the registry exposed at /metrics. Optional.
	Metrics prometheus.Gatherer

	Logger *slog.Logger
}

// NewRouter creates and configures the admin HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := NewRenderer(logger)
	authHandlers := &AuthHandlers{
		Sessions: services.Sessions,
		Renderer: renderer,
		Logger:   logger,
	}
	loginLimiter := NewLoginLimiter(services.LoginRatePerMinute, services.LoginBurst)

	r := chi.NewRouter()
	r.Use(Recover(logger))
	r.Use(Logging(logger))

	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)
	if services.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(services.Metrics, promhttp.HandlerOpts{}))
	}

	r.Get("/login", authHandlers.LoginPage)
	r.With(loginLimiter.Middleware).Post("/login", authHandlers.Login)
	r.Post("/session/validate", authHandlers.Validate)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(services.Sessions, renderer))
		r.Get("/", authHandlers.Dashboard)
		r.Post("/logout", authHandlers.Logout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
