package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/unicornstore/prebook/internal/domain"
)

// LeadSubmissionRepository stores the audit trail of forwarded leads
type LeadSubmissionRepository interface {
	Create(ctx context.Context, submission *domain.LeadSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadSubmission, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.LeadSubmission, error)
}

// ListFilter narrows an audit log listing. A nil Success lists both outcomes.
type ListFilter struct {
	Success *bool
	Limit   int
	Offset  int
}

// Repositories holds all repository instances
type Repositories struct {
	LeadSubmission LeadSubmissionRepository
}
