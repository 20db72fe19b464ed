package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/domain"
	"github.com/kailas-cloud/jobrank/internal/domain/search/filter"
	"github.com/kailas-cloud/jobrank/internal/domain/search/request"
	"github.com/kailas-cloud/jobrank/internal/logger"
	healthuc "github.com/kailas-cloud/jobrank/internal/usecase/health"
)

// Query parameter defaults.
const (
	defaultSkillsLimit = 30
	maxSkillsLimit     = 1000
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the jobrank HTTP API on a chi router.
type Server struct {
	search        Searcher
	training      Trainer
	clusters      Clusterer
	analytics     Analytics
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	training Trainer,
	clusters Clusterer,
	analytics Analytics,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		training:  training,
		clusters:  clusters,
		analytics: analytics,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotTrained, http.StatusServiceUnavailable, ErrorCodeNotTrained),
		sentinelHandler(domain.ErrEmptyVocabulary, http.StatusUnprocessableEntity, ErrorCodeTrainingFailed),
		sentinelHandler(domain.ErrDatasetNotFound, http.StatusInternalServerError, ErrorCodeDatasetNotFound),
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/top-skills", s.TopSkills)
		r.Post("/train", s.Train)
		r.Get("/clusters", s.Clusters)
		r.Get("/stats", s.Stats)
		r.Get("/dashboard", s.Dashboard)
		r.Get("/filters", s.Filters)
	})
}

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// request.New reads 0 as "use the default"; an explicit 0 is rejected here.
	if req.Limit != nil && *req.Limit == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			"limit must be between 1 and "+strconv.Itoa(request.MaxTopN))
		return
	}

	filters, err := filter.NewExpression(req.Location, req.WorkType)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	searchReq, err := request.New(req.Query, derefInt(req.Limit), filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), &searchReq)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]JobResponse, len(results))
	for i := range results {
		items[i] = jobToResponse(&results[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Success: true,
		Count:   len(items),
		Results: items,
	})
}

// TopSkills handles GET /api/top-skills.
func (s *Server) TopSkills(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", defaultSkillsLimit, maxSkillsLimit)
	if !ok {
		return
	}

	terms, err := s.search.TopSkills(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SkillsResponse{Success: true, Skills: skillsToResponse(terms)})
}

// Train handles POST /api/train.
func (s *Server) Train(w http.ResponseWriter, r *http.Request) {
	summary, err := s.training.Train(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trainToResponse(summary))
}

// Clusters handles GET /api/clusters.
func (s *Server) Clusters(w http.ResponseWriter, r *http.Request) {
	// upper bound is checked against the corpus size by the service
	k, ok := intParam(w, r, "k", s.clusters.DefaultK(), 0)
	if !ok {
		return
	}

	report, err := s.clusters.Cluster(r.Context(), k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, clustersToResponse(report))
}

// Stats handles GET /api/stats.
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsToResponse(s.analytics.Summary()))
}

// Dashboard handles GET /api/dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := s.analytics.Dashboard(r.Context())
	writeJSON(w, http.StatusOK, dashboardToResponse(&d))
}

// Filters handles GET /api/filters.
func (s *Server) Filters(w http.ResponseWriter, _ *http.Request) {
	f := s.analytics.FilterOptions()
	writeJSON(w, http.StatusOK, FiltersResponse{
		Locations: nonNil(f.Locations()),
		WorkTypes: nonNil(f.WorkTypes()),
	})
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

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// intParam reads an optional positive integer query parameter.
// max <= 0 means unbounded. Writes a 400 and returns false on bad input.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, maxVal int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || (maxVal > 0 && v > maxVal) {
		msg := name + " must be a positive integer"
		if maxVal > 0 {
			msg += " up to " + strconv.Itoa(maxVal)
		}
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
		return 0, false
	}
	return v, true
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Argument errors carry the parameter name and are safe to echo.
func safeDomainMessage(err error) string {
	var argErr *domain.ArgumentError
	if errors.As(err, &argErr) {
		return argErr.Error()
	}
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrNotTrained,
		domain.ErrEmptyVocabulary,
		domain.ErrDatasetNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("unhandled error", zap.Error(err), zap.String("path", r.URL.Path))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
