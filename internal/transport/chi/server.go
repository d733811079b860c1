package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/logger"
	categoryuc "github.com/kailas-cloud/storefront/internal/usecase/category"
	collectionuc "github.com/kailas-cloud/storefront/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

// Query parameter names.
const (
	paramHandle   = "collectionHandle"
	paramCategory = "category"
	paramLimit    = "limit"
)

const greeting = "Hello, world!"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Option configures a Server.
type Option func(*Server)

// WithLegacyStatus makes every response HTTP 200, with failures reported as
// status "400" inside the envelope.
func WithLegacyStatus(enabled bool) Option {
	return func(s *Server) { s.legacyStatus = enabled }
}

// Server serves the catalog HTTP API.
type Server struct {
	collections   *collectionuc.Service
	categories    *categoryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	legacyStatus  bool
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	categories *categoryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		collections: collections,
		categories:  categories,
		health:      health,
		logger:      logger,
	}
	for _, o := range opts {
		o(s)
	}
	s.errorHandlers = []errorHandler{
		s.sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		s.sentinelHandler(domain.ErrNoResults, http.StatusNotFound),
		s.sentinelHandler(domain.ErrCollectionUnavailable, http.StatusBadGateway),
		s.sentinelHandler(domain.ErrInvalidDocument, http.StatusBadGateway),
		s.sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway),
	}
	return s
}

// envelope is the response shape of the collection endpoint.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type collectionData struct {
	TotalProducts    int               `json:"totalProducts"`
	CollectionHandle string            `json:"collectionHandle"`
	MatchedProducts  []product.Product `json:"matchedProducts"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(greeting))
}

// GetCollection handles GET /collection. With a category parameter it lists
// raw documents by category instead of resolving a collection.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var limit int
	if err := runtime.BindQueryParameter("form", true, false, paramLimit, params, &limit); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid request: limit must be an integer")
		return
	}
	if limit < 0 {
		s.writeFailure(w, http.StatusBadRequest, "invalid request: limit must not be negative")
		return
	}

	if params.Has(paramCategory) {
		s.browseCategory(w, r, params.Get(paramCategory), limit)
		return
	}

	var handle string
	if err := runtime.BindQueryParameter("form", true, false, paramHandle, params, &handle); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid request: bad collectionHandle")
		return
	}

	res, err := s.collections.Resolve(r.Context(), handle, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.writeSuccess(w, collectionData{
		TotalProducts:    len(res.Products),
		CollectionHandle: res.Handle,
		MatchedProducts:  res.Products,
	})
}

func (s *Server) browseCategory(w http.ResponseWriter, r *http.Request, category string, limit int) {
	docs, err := s.categories.Browse(r.Context(), category, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, docs); err != nil {
		s.handleDomainError(w, r, err)
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	_ = writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) writeSuccess(w http.ResponseWriter, data any) {
	_ = writeJSON(w, http.StatusOK, envelope{
		Status:  strconv.Itoa(http.StatusOK),
		Message: "",
		Data:    data,
	})
}

// writeFailure writes the failure envelope; legacy mode hides the real status.
func (s *Server) writeFailure(w http.ResponseWriter, status int, message string) {
	code := status
	if s.legacyStatus {
		status = http.StatusOK
		code = http.StatusBadRequest
	}
	_ = writeJSON(w, status, envelope{
		Status:  strconv.Itoa(code),
		Message: message,
		Data:    struct{}{},
	})
}

// writeJSON encodes v fully before touching the response, so an encoding
// failure can still be answered with an error status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err //nolint:wrapcheck // surfaced through handleDomainError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNoResults,
		domain.ErrCollectionUnavailable,
		domain.ErrInvalidDocument,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func (s *Server) sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		s.writeFailure(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	s.writeFailure(w, http.StatusInternalServerError, "internal error")
}
