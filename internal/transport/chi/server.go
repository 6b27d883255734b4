package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/boardsearch/internal/logger"
	"github.com/kailas-cloud/boardsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
)

// Client-facing messages for errors whose details stay in the logs.
const (
	msgNotFound    = "search not found or access denied"
	msgPersistence = "failed to persist search history"
	msgInternal    = "internal error"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search and search-history HTTP API.
type Server struct {
	search        Searcher
	history       HistoryManager
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, history HistoryManager, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		history: history,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		detailHandler(domain.ErrValidation, http.StatusBadRequest),
		detailHandler(domain.ErrInvalidReference, http.StatusBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusBadRequest, msgNotFound),
		sentinelHandler(domain.ErrPersistence, http.StatusInternalServerError, msgPersistence),
	}
	return s
}

// Router builds the chi router with the full middleware chain.
// tokens maps bearer tokens to user IDs; see IdentityMiddleware.
func (s *Server) Router(tokens map[string]string) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(s.logger))
	r.Use(IdentityMiddleware(tokens))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/search", func(r chi.Router) {
		r.Post("/", s.Search)
		r.Get("/suggestions", s.Suggestions)
		r.Get("/history", s.History)
		r.Get("/saved", s.Saved)
		r.Get("/stats", s.Stats)
		r.Patch("/{searchId}/save", s.SaveSearch)
		r.Patch("/{searchId}/unsave", s.UnsaveSearch)
		r.Delete("/{searchId}", s.DeleteSearch)
	})
	return r
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	page, limit := request.DefaultPage, request.DefaultLimit
	if body.Page != nil {
		page = *body.Page
	}
	if body.Limit != nil {
		limit = *body.Limit
	}

	req, err := request.New(body.Query, body.Filters, body.SortBy, body.SortOrder, page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "", searchData{
		Results:    orEmpty(resp.Results),
		Pagination: resp.Pagination,
		SearchTime: resp.SearchTime,
		SearchID:   resp.SearchID,
	})
}

// Suggestions handles GET /search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var partial string
	if err := runtime.BindQueryParameter("form", true, true, "query", q, &partial); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}

	out, err := s.history.Suggest(r.Context(), UserFromContext(r.Context()), partial, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", out)
}

// History handles GET /search/history.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.history.History(r.Context(), UserFromContext(r.Context()), page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", pageToJSON(p.Records, p.Pagination))
}

// Saved handles GET /search/saved.
func (s *Server) Saved(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.history.Saved(r.Context(), UserFromContext(r.Context()), page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", pageToJSON(p.Records, p.Pagination))
}

// SaveSearch handles PATCH /search/{searchId}/save.
func (s *Server) SaveSearch(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Save(r.Context(), chi.URLParam(r, "searchId"), UserFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Search saved successfully", recordToJSON(&rec))
}

// UnsaveSearch handles PATCH /search/{searchId}/unsave.
func (s *Server) UnsaveSearch(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Unsave(r.Context(), chi.URLParam(r, "searchId"), UserFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Search unsaved successfully", recordToJSON(&rec))
}

// DeleteSearch handles DELETE /search/{searchId}.
func (s *Server) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Delete(r.Context(), chi.URLParam(r, "searchId"), UserFromContext(r.Context())); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Search deleted successfully"})
}

// Stats handles GET /search/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.history.Stats(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", st)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthJSON{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// pageParams binds page and limit, defaulting absent values.
func pageParams(r *http.Request) (page, limit int, err error) {
	page, limit = request.DefaultPage, request.DefaultLimit
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return page, limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// sentinelHandler answers a matching error with a fixed message.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// detailHandler answers a matching error with its own message. Only for
// errors describing the caller's input.
func detailHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}
