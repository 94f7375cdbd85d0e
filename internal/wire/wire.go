// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"user-management/internal/adaptor"
	"user-management/internal/data/repository"
	"user-management/internal/usecase"
	"user-management/pkg/metrics"
	"user-management/pkg/middleware"
	"user-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the process-wide resources built in main.
type Deps struct {
	Repo     *repository.Repository
	Config   *utils.Config
	Tokens   *utils.TokenManager
	Registry *prometheus.Registry
	DB       Pinger
	Logger   *zap.Logger
}

// Wiring builds services, handlers and routes from deps
func Wiring(deps Deps) *App {
	// a nil *Registry must not reach the constructors as a non-nil interface
	var reg prometheus.Registerer
	if deps.Registry != nil {
		reg = deps.Registry
	}
	authMetrics := metrics.NewAuthMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	service := usecase.NewService(deps.Repo, deps.Tokens, authMetrics, deps.Logger)
	handler := adaptor.NewHandler(service, deps.Logger)

	router := setupRouter(handler, service, httpMetrics, deps)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	httpMetrics *metrics.HTTPMetrics,
	deps Deps,
) *chi.Mux {
	r := chi.NewRouter()
	logger := deps.Logger

	var origins []string
	if deps.Config != nil {
		origins = deps.Config.App.CORSOrigins
	}

	// Apply global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(httpMetrics))
	r.Use(middleware.CORS(origins))

	// Apply routes
	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, service.Guard, logger)
	wireAdmin(r, handler.Admin, service.Guard, logger)

	r.Get("/health", healthHandler(deps.DB, logger))

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

func healthHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
				return
			}
		}

		utils.ResponseSuccess(w, "OK", nil)
	}
}
