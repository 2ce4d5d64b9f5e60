// Package httpapi exposes the catalog over REST.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/catalogcache"
	"github.com/goliatone/go-menu-catalog/internal/metrics"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// API holds the handlers.
type API struct {
	catalog *catalogcache.Catalog
	logger  *zap.Logger
	metrics *metrics.Collector
	health  map[string]HealthCheck
}

// Option customizes an API.
type Option func(*API)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records HTTP metrics and serves /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *API) {
		a.metrics = c
	}
}

// WithHealthCheck adds a named check to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(a *API) {
		a.health[name] = check
	}
}

// New returns an API serving cat.
func New(cat *catalogcache.Catalog, opts ...Option) *API {
	a := &API{
		catalog: cat,
		logger:  zap.NewNop(),
		health:  map[string]HealthCheck{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("http")
	return a
}

// Routes builds the router.
func (a *API) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(a.logger))
	if a.metrics != nil {
		router.Use(instrument(a.metrics))
		router.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}

	router.Get("/healthz", a.healthz)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cacheControl)

		r.Get("/full_menu", a.fullMenu)

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", a.listMenus)
			r.Post("/", a.createMenu)

			r.Route("/{menu_id}", func(r chi.Router) {
				r.Get("/", a.getMenu)
				r.Patch("/", a.updateMenu)
				r.Delete("/", a.deleteMenu)

				r.Route("/submenus", func(r chi.Router) {
					r.Get("/", a.listSubmenus)
					r.Post("/", a.createSubmenu)

					r.Route("/{submenu_id}", func(r chi.Router) {
						r.Get("/", a.getSubmenu)
						r.Patch("/", a.updateSubmenu)
						r.Delete("/", a.deleteSubmenu)

						r.Route("/dishes", func(r chi.Router) {
							r.Get("/", a.listDishes)
							r.Post("/", a.createDish)
							r.Get("/{dish_id}", a.getDish)
							r.Patch("/{dish_id}", a.updateDish)
							r.Delete("/{dish_id}", a.deleteDish)
						})
					})
				})
			})
		})
	})

	return router
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(a.health))
	for name, check := range a.health {
		if err := check(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	writeJSON(w, status, body)
}
