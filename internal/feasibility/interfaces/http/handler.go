package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dealer-feasibility/internal/audit"
	"dealer-feasibility/internal/auth"
	projectionapp "dealer-feasibility/internal/feasibility/application"
	feasibility "dealer-feasibility/internal/feasibility/domain"
	"dealer-feasibility/internal/feasibility/interfaces"
	"dealer-feasibility/internal/observability/metrics"
)

// ProjectionHandler handles projection APIs.
type ProjectionHandler struct {
	service        *projectionapp.ProjectionService
	subjectChecker auth.SubjectTenantChecker
	auditLogger    audit.Logger
}

// NewProjectionHandler constructs a handler.
func NewProjectionHandler(service *projectionapp.ProjectionService, subjectChecker auth.SubjectTenantChecker, auditLogger audit.Logger) (*ProjectionHandler, error) {
	if service == nil {
		return nil, errors.New("projection handler: nil service")
	}
	return &ProjectionHandler{service: service, subjectChecker: subjectChecker, auditLogger: auditLogger}, nil
}

// ServeHTTP handles projection routes under /api/v1/projections.
func (h *ProjectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/projections/run" && r.Method == http.MethodPost {
		h.handleRun(w, r)
		return
	}
	if path == "/api/v1/projections/compare" && r.Method == http.MethodPost {
		h.handleCompare(w, r)
		return
	}
	if path == "/api/v1/projections" && r.Method == http.MethodGet {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/projections/") {
		rest := strings.TrimPrefix(path, "/api/v1/projections/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *ProjectionHandler) handleRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID  string `json:"subject_id"`
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.ensureSubjectTenant(r, req.SubjectID); err != nil {
		respondTenantError(w, err)
		return
	}
	result, err := h.service.Run(r.Context(), req.SubjectID, req.ScenarioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
	h.logAudit(r, req.SubjectID, result.ID, "projection.run", map[string]any{
		"scenario_id": req.ScenarioID,
	})
}

func (h *ProjectionHandler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID   string   `json:"subject_id"`
		ScenarioIDs []string `json:"scenario_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.ensureSubjectTenant(r, req.SubjectID); err != nil {
		respondTenantError(w, err)
		return
	}
	results, err := h.service.Compare(r.Context(), req.SubjectID, req.ScenarioIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
	h.logAudit(r, req.SubjectID, "", "projection.compare", map[string]any{
		"scenario_ids": req.ScenarioIDs,
	})
}

func (h *ProjectionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	subjectID := r.URL.Query().Get("subject_id")
	if subjectID == "" {
		http.Error(w, "missing subject_id", http.StatusBadRequest)
		return
	}
	if err := h.ensureSubjectTenant(r, subjectID); err != nil {
		respondTenantError(w, err)
		return
	}
	results, err := h.service.ListBySubject(r.Context(), subjectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

func (h *ProjectionHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 && parts[1] == "export" && r.Method == http.MethodGet {
		h.handleExport(w, r, id)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *ProjectionHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (h *ProjectionHandler) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}

	start := time.Now()
	outcome := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(format, outcome, time.Since(start))
	}()

	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		outcome = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	var data []byte
	var contentType string
	switch format {
	case "pdf":
		data, err = interfaces.BuildProjectionPDF(result)
		contentType = "application/pdf"
	default:
		data, err = interfaces.BuildProjectionXLSX(result)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		outcome = metrics.ResultError
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, result.SubjectID, result.ID, "projection.export", map[string]any{"format": format})
}

func (h *ProjectionHandler) ensureSubjectTenant(r *http.Request, subjectID string) error {
	if h.subjectChecker == nil || subjectID == "" {
		return nil
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return nil
	}
	return h.subjectChecker.EnsureSubjectTenant(r.Context(), tenantID, subjectID)
}

func (h *ProjectionHandler) logAudit(r *http.Request, subjectID, resultID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     tenantID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "projection",
		ResourceID:   resultID,
		SubjectID:    subjectID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondTenantError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, auth.ErrTenantMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, auth.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "tenant check failed", http.StatusInternalServerError)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, feasibility.ErrSubjectNotFound),
		errors.Is(err, feasibility.ErrScenarioNotFound),
		errors.Is(err, feasibility.ErrResultNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, feasibility.ErrInvalidSubject),
		errors.Is(err, feasibility.ErrInvalidScenario),
		errors.Is(err, feasibility.ErrInvalidSchedule),
		errors.Is(err, feasibility.ErrUnknownProduct):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
