// Package api - Thin HTTP layer over the calculation engine.
// The server is only responsible for input ingestion, engine orchestration
// and output serialization; it never performs cost logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"

	"go.uber.org/zap"
)

// CatalogStore is the full catalog surface the server exposes.
type CatalogStore interface {
	Catalog
	ListProducts(ctx context.Context, sellerID string) ([]types.Product, error)
	UpsertProduct(ctx context.Context, p *types.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Server is the API server.
type Server struct {
	handler *Handler
	store   CatalogStore
	mux     *http.ServeMux
	version string
	metrics bool
}

// NewServer creates the API server.
func NewServer(version string, store CatalogStore, calculator Calculator, enableMetrics bool) *Server {
	s := &Server{
		handler: NewHandler(store, calculator),
		store:   store,
		mux:     http.NewServeMux(),
		version: version,
		metrics: enableMetrics,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /calculate-logistics-costs", s.instrument("calculate", s.handler.HandleCalculate))
	s.mux.HandleFunc("POST /quote", s.instrument("quote", s.handler.HandleQuote))

	// Catalog endpoints
	s.mux.HandleFunc("GET /products", s.instrument("products_list", s.handleListProducts))
	s.mux.HandleFunc("GET /products/{id}", s.instrument("products_get", s.handleGetProduct))
	s.mux.HandleFunc("GET /products/{id}/quote", s.instrument("products_quote", s.handler.HandleProductQuote))
	s.mux.HandleFunc("PUT /products/{id}", s.instrument("products_put", s.handleUpsertProduct))
	s.mux.HandleFunc("DELETE /products/{id}", s.instrument("products_delete", s.handleDeleteProduct))

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	if s.metrics {
		s.mux.Handle("GET /metrics", promhttp.Handler())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "landed-cost",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context(), r.URL.Query().Get("seller_id"))
	if err != nil {
		writeError(w, "", "CATALOG_ERROR", errorMessage(err), http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []types.Product{}
	}
	writeJSON(w, products, http.StatusOK)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsType(err, errors.TypeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, "", "CATALOG_ERROR", errorMessage(err), status)
		return
	}
	writeJSON(w, product, http.StatusOK)
}

func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	var product types.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, "", "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	product.ID = r.PathValue("id")
	if product.Name == "" {
		writeError(w, "", "VALIDATION_ERROR", "name is required", http.StatusBadRequest)
		return
	}
	if product.PriceUnit.IsNegative() {
		writeError(w, "", "VALIDATION_ERROR", "price_unit must not be negative", http.StatusBadRequest)
		return
	}

	if err := s.store.UpsertProduct(r.Context(), &product); err != nil {
		writeError(w, "", "CATALOG_ERROR", errorMessage(err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, product, http.StatusOK)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.IsType(err, errors.TypeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, "", "CATALOG_ERROR", errorMessage(err), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landedcost_http_requests_total",
		Help: "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landedcost_http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// instrument records request count and latency per endpoint.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		logging.Debug("request handled",
			zap.String("endpoint", endpoint),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, requestID, code, message string, status int) {
	writeJSON(w, ErrorResponse{
		RequestID: requestID,
		Code:      code,
		Error:     message,
	}, status)
}
