package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dealer-feasibility/internal/audit"
	"dealer-feasibility/internal/auth"
	projectionapp "dealer-feasibility/internal/feasibility/application"
	feasibility "dealer-feasibility/internal/feasibility/domain"
)

// CatalogHandler handles subject and scenario APIs.
type CatalogHandler struct {
	service     *projectionapp.ProjectionService
	auditLogger audit.Logger
}

// NewCatalogHandler constructs a handler.
func NewCatalogHandler(service *projectionapp.ProjectionService, auditLogger audit.Logger) (*CatalogHandler, error) {
	if service == nil {
		return nil, errors.New("catalog handler: nil service")
	}
	return &CatalogHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/subjects and /api/v1/scenarios routes.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/subjects" && r.Method == http.MethodPost:
		h.handleSaveSubject(w, r)
	case strings.HasPrefix(path, "/api/v1/subjects/") && r.Method == http.MethodGet:
		h.handleGetSubject(w, r, strings.TrimPrefix(path, "/api/v1/subjects/"))
	case path == "/api/v1/scenarios" && r.Method == http.MethodPost:
		h.handleSaveScenario(w, r)
	case strings.HasPrefix(path, "/api/v1/scenarios/") && r.Method == http.MethodGet:
		h.handleGetScenario(w, r, strings.TrimPrefix(path, "/api/v1/scenarios/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *CatalogHandler) handleSaveSubject(w http.ResponseWriter, r *http.Request) {
	var subject feasibility.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if tenantID := auth.TenantIDFromContext(r.Context()); tenantID != "" {
		if subject.TenantID != "" && subject.TenantID != tenantID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		subject.TenantID = tenantID
	}
	if err := h.service.SaveSubject(r.Context(), subject); err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"subject_id": subject.ID})
	h.logAudit(r, subject.ID, "subject", "subject.save")
}

func (h *CatalogHandler) handleGetSubject(w http.ResponseWriter, r *http.Request, id string) {
	subject, err := h.service.GetSubject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if tenantID := auth.TenantIDFromContext(r.Context()); tenantID != "" {
		if subject.TenantID != "" && subject.TenantID != tenantID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(subject)
}

func (h *CatalogHandler) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var scenario feasibility.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.service.SaveScenario(r.Context(), scenario); err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"scenario_id": scenario.ID})
	h.logAudit(r, scenario.ID, "scenario", "scenario.save")
}

func (h *CatalogHandler) handleGetScenario(w http.ResponseWriter, r *http.Request, id string) {
	scenario, err := h.service.GetScenario(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(scenario)
}

func (h *CatalogHandler) logAudit(r *http.Request, resourceID, resourceType, action string) {
	if h.auditLogger == nil {
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     tenantID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}
