package api

import (
	"net/http"
	"strconv"
	"time"

	"recipebox/metrics"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the recipe backend routes
type Router struct {
	store          *storage.DocumentStore
	metrics        *metrics.Collector
	logger         *utils.Logger
	allowedOrigins []string
}

// NewRouter creates a new router instance
func NewRouter(store *storage.DocumentStore, m *metrics.Collector, logger *utils.Logger, allowedOrigins []string) *Router {
	return &Router{
		store:          store,
		metrics:        m,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(rt.observe)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))

	h := NewRecipeHandler(rt.store, rt.logger)
	router.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Patch)
		r.Delete("/{id}", h.Delete)
	})

	return router
}

// observe logs each request and records it in the HTTP metrics
func (rt *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		rt.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		rt.metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		rt.logger.Debug("%s %s -> %d (%v) [%s]", r.Method, r.URL.Path, status, elapsed, chimiddleware.GetReqID(r.Context()))
	})
}
