package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrTenantMismatch indicates resource belongs to a different tenant.
	ErrTenantMismatch = errors.New("tenant mismatch")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
)

// SubjectTenantChecker validates subject tenant ownership.
type SubjectTenantChecker interface {
	EnsureSubjectTenant(ctx context.Context, tenantID, subjectID string) error
}

// SubjectChecker checks subject ownership against stored subjects.
type SubjectChecker struct {
	db *sql.DB
}

// NewSubjectChecker constructs a SubjectChecker.
func NewSubjectChecker(db *sql.DB) *SubjectChecker {
	if db == nil {
		return nil
	}
	return &SubjectChecker{db: db}
}

// EnsureSubjectTenant verifies the subject belongs to the tenant. Subjects
// stored without a tenant are visible to everyone.
func (c *SubjectChecker) EnsureSubjectTenant(ctx context.Context, tenantID, subjectID string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if tenantID == "" || subjectID == "" {
		return nil
	}
	var owner string
	err := c.db.QueryRowContext(ctx, `SELECT tenant_id FROM feasibility_subjects WHERE id = $1`, subjectID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != "" && owner != tenantID {
		return ErrTenantMismatch
	}
	return nil
}
