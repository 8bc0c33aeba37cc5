package auth

import (
	"net/http"
	"strings"
)

// Policy determines required roles by request.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth/RBAC.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRole resolves required role for the request. Running and
// comparing projections needs an analyst; reading stored runs needs a
// viewer; exports need an analyst.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	path := r.URL.Path
	method := r.Method

	switch {
	case path == "/api/v1/projections/run":
		return RoleAnalyst, true
	case path == "/api/v1/projections/compare":
		return RoleAnalyst, true
	case path == "/api/v1/projections":
		return RoleViewer, true
	case strings.HasPrefix(path, "/api/v1/projections/"):
		if method == http.MethodGet {
			if strings.HasSuffix(path, "/export") {
				return RoleAnalyst, true
			}
			return RoleViewer, true
		}
		return RoleAdmin, true
	case path == "/api/v1/subjects" || strings.HasPrefix(path, "/api/v1/subjects/"):
		if method == http.MethodGet {
			return RoleViewer, true
		}
		return RoleAdmin, true
	case path == "/api/v1/scenarios" || strings.HasPrefix(path, "/api/v1/scenarios/"):
		if method == http.MethodGet {
			return RoleViewer, true
		}
		return RoleAdmin, true
	}

	if strings.HasPrefix(path, "/api/") {
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return RoleViewer, true
		}
		return RoleAnalyst, true
	}
	return "", false
}
