package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/metrics"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Auth          *AuthHandler
	Catalog       *CatalogHandler
	Orders        *OrderHandler
	Authenticator *Authenticator
	Metrics       *metrics.Metrics
	Registry      *prometheus.Registry
	Logger        logger.Logger
}

// NewRouter wires all routes and the middleware chain: recovery on the
// outside, then CORS, metrics and request logging.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	requireAuth := deps.Authenticator.Require

	mux.HandleFunc("GET /{$}", welcome)

	mux.HandleFunc("POST /register", deps.Auth.Register)
	mux.HandleFunc("POST /login", deps.Auth.Login)
	mux.HandleFunc("GET /profile", requireAuth(deps.Auth.Profile))

	mux.HandleFunc("POST /restaurants", requireAuth(deps.Catalog.CreateRestaurant))
	mux.HandleFunc("GET /restaurants", deps.Catalog.ListRestaurants)
	mux.HandleFunc("POST /restaurants/{id}/menus", requireAuth(deps.Catalog.CreateMenuItem))
	mux.HandleFunc("GET /restaurants/{id}/menus", deps.Catalog.RestaurantMenu)
	mux.HandleFunc("PUT /menus/{id}", requireAuth(deps.Catalog.UpdateMenuItem))
	mux.HandleFunc("DELETE /menus/{id}", requireAuth(deps.Catalog.DeleteMenuItem))

	mux.HandleFunc("POST /orders", requireAuth(deps.Orders.CreateOrder))
	mux.HandleFunc("GET /orders", requireAuth(deps.Orders.ListOrders))
	mux.HandleFunc("GET /orders/{id}", requireAuth(deps.Orders.OrderDetails))
	mux.HandleFunc("GET /orders/{id}/history", requireAuth(deps.Orders.StatusHistory))
	mux.HandleFunc("PUT /orders/{id}/status", requireAuth(deps.Orders.UpdateStatus))

	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	corsMiddleware := cors.New(cors.Options{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := LoggingMiddleware(deps.Logger)(jsonNotFound(mux))
	handler = MetricsMiddleware(deps.Metrics, mux)(handler)
	handler = corsMiddleware.Handler(handler)
	handler = RecoveryMiddleware(deps.Logger)(handler)
	return handler
}

func welcome(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Welcome to FlavorFi API!")
}

// jsonNotFound rewrites the mux's plain-text fallback 404 into the API's
// {"msg": ...} shape. Only requests with no matching pattern are wrapped, so
// 404s written by matched handlers pass through untouched, as do the mux's
// 405 responses for method mismatches.
func jsonNotFound(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			w = &notFoundRewriter{ResponseWriter: w}
		}
		mux.ServeHTTP(w, r)
	})
}

type notFoundRewriter struct {
	http.ResponseWriter
	intercepted bool
}

func (w *notFoundRewriter) WriteHeader(status int) {
	if status == http.StatusNotFound {
		w.intercepted = true
		respondMessage(w.ResponseWriter, http.StatusNotFound, "Resource not found")
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *notFoundRewriter) Write(b []byte) (int, error) {
	if w.intercepted {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
