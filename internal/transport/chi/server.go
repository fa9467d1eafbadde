// Package chi exposes the retrieval core over HTTP: the guest chat
// endpoint, the admin retrieval endpoint, health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/guestlane/guestchat/internal/domain"
	domchunk "github.com/guestlane/guestchat/internal/domain/chunk"
	domintent "github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/resolution"
	"github.com/guestlane/guestchat/internal/domain/session"
	chatuc "github.com/guestlane/guestchat/internal/usecase/chat"
	healthuc "github.com/guestlane/guestchat/internal/usecase/health"
)

// TenantHeader carries the tenant handle on guest chat requests.
const TenantHeader = "X-Tenant"

const maxQueryLen = 2000

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SessionVerifier validates a guest bearer token.
type SessionVerifier interface {
	Verify(token string) (*session.GuestSession, error)
}

// Server is the HTTP API server.
type Server struct {
	chat          *chatuc.Service
	health        *healthuc.Service
	verifier      SessionVerifier
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat *chatuc.Service, health *healthuc.Service,
	verifier SessionVerifier, logger *zap.Logger,
) *Server {
	s := &Server{
		chat:     chat,
		health:   health,
		verifier: verifier,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTenantUnresolved, http.StatusNotFound, "tenant_not_found"),
		sentinelHandler(domain.ErrSessionInvalid, http.StatusUnauthorized, "session_invalid"),
		sentinelHandler(domain.ErrSessionTenantMismatch, http.StatusForbidden, "session_tenant_mismatch"),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, "embedding_unavailable"),
		sentinelHandler(domain.ErrPrimaryDomainUnavailable, http.StatusServiceUnavailable, "retrieval_unavailable"),
	}
	return s
}

// Routes mounts the API routes. adminAuth guards the admin subtree.
func (s *Server) Routes(r chi.Router, adminAuth func(http.Handler) http.Handler) {
	r.Post("/chat/retrieve", s.ChatRetrieve)
	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Post("/admin/retrieve", s.AdminRetrieve)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type chatRetrieveRequest struct {
	Query   string              `json:"query"`
	History []domintent.Message `json:"history,omitempty"`
}

type adminRetrieveRequest struct {
	Tenant     string `json:"tenant"`
	Query      string `json:"query"`
	Resolution string `json:"resolution,omitempty"`
}

type chunkResponse struct {
	ID           string  `json:"id"`
	Domain       string  `json:"domain"`
	Content      string  `json:"content"`
	SectionTitle string  `json:"section_title,omitempty"`
	SourceRef    string  `json:"source_ref,omitempty"`
	Similarity   float64 `json:"similarity"`
}

type retrieveResponse struct {
	TenantID   string          `json:"tenant_id"`
	Intent     intentResponse  `json:"intent"`
	Config     configResponse  `json:"config"`
	Resolution string          `json:"resolution"`
	Degraded   bool            `json:"degraded"`
	Chunks     []chunkResponse `json:"chunks"`
}

type intentResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type configResponse struct {
	TotalCount  int     `json:"total_count"`
	TenantRatio float64 `json:"tenant_ratio"`
	SharedRatio float64 `json:"shared_ratio"`
	Priority    string  `json:"priority"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChatRetrieve handles POST /chat/retrieve.
func (s *Server) ChatRetrieve(w http.ResponseWriter, r *http.Request) {
	var req chatRetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if err := validateQuery(req.Query); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	handle := r.Header.Get(TenantHeader)
	if handle == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", TenantHeader+" header is required")
		return
	}

	sess, err := s.guestSession(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.chat.Retrieve(r.Context(), chatuc.Request{
		TenantHandle: handle,
		Query:        req.Query,
		History:      req.History,
		Session:      sess,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRetrieveResponse(result))
}

// AdminRetrieve handles POST /admin/retrieve.
func (s *Server) AdminRetrieve(w http.ResponseWriter, r *http.Request) {
	var req adminRetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if err := validateQuery(req.Query); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if req.Tenant == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "tenant is required")
		return
	}

	var res resolution.Resolution
	if req.Resolution != "" {
		parsed, err := resolution.Parse(req.Resolution)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		res = parsed
	}

	result, err := s.chat.RetrieveAdmin(r.Context(), chatuc.AdminRequest{
		TenantHandle: req.Tenant,
		Query:        req.Query,
		Resolution:   res,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRetrieveResponse(result))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// guestSession extracts and verifies the optional guest bearer token. A
// missing header is anonymous traffic, not an error; a present-but-invalid
// token is rejected.
func (s *Server) guestSession(r *http.Request) (*session.GuestSession, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, nil
	}

	tok, ok := bearerToken(auth)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return s.verifier.Verify(tok)
}

func validateQuery(q string) error {
	if q == "" {
		return errors.New("query is required")
	}
	if len(q) > maxQueryLen {
		return errors.New("query is too long")
	}
	return nil
}

func toRetrieveResponse(result chatuc.Result) retrieveResponse {
	chunks := make([]chunkResponse, len(result.Retrieved.Chunks))
	for i, c := range result.Retrieved.Chunks {
		chunks[i] = toChunkResponse(c)
	}

	return retrieveResponse{
		TenantID: result.Tenant.ID.String(),
		Intent: intentResponse{
			Category:   string(result.Intent.Category),
			Confidence: result.Intent.Confidence,
		},
		Config: configResponse{
			TotalCount:  result.Config.TotalCount,
			TenantRatio: result.Config.TenantRatio,
			SharedRatio: result.Config.SharedRatio,
			Priority:    string(result.Config.Priority),
		},
		Resolution: string(result.Retrieved.Resolution),
		Degraded:   result.Retrieved.Degraded,
		Chunks:     chunks,
	}
}

func toChunkResponse(c domchunk.Chunk) chunkResponse {
	return chunkResponse{
		ID:           c.ID,
		Domain:       string(c.Domain()),
		Content:      c.Content,
		SectionTitle: c.SectionTitle,
		SourceRef:    c.SourceRef,
		Similarity:   c.Similarity,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTenantUnresolved,
		domain.ErrSessionInvalid,
		domain.ErrSessionTenantMismatch,
		domain.ErrEmbeddingUnavailable,
		domain.ErrPrimaryDomainUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
