package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/repository"
	"github.com/unicornstore/prebook/pkg/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const submissionColumns = `id, request_id, first_name, last_name, email, phone, item_name, visit_date,
	utm_source, utm_medium, utm_campaign, success, crm_lead_id, upstream_status, error_message, created_at`

type leadSubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeadSubmissionRepository creates a new lead submission repository
func NewLeadSubmissionRepository(db *sql.DB, logger *zap.Logger) *leadSubmissionRepository {
	return &leadSubmissionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *leadSubmissionRepository) Create(ctx context.Context, s *domain.LeadSubmission) error {
	query := `
		INSERT INTO lead_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.RequestID,
		s.FirstName,
		s.LastName,
		s.Email,
		s.Phone,
		s.ItemName,
		s.VisitDate,
		s.UTMSource,
		s.UTMMedium,
		s.UTMCampaign,
		s.Success,
		s.CRMLeadID,
		s.UpstreamStatus,
		s.ErrorMessage,
		s.CreatedAt,
	)

	if err != nil {
		fields := []zap.Field{zap.String("id", s.ID.String()), zap.Error(err)}
		if pqErr, ok := err.(*pq.Error); ok {
			fields = append(fields, zap.String("pq_code", string(pqErr.Code)))
		}
		r.logger.Error("Failed to create lead submission", fields...)
		return err
	}

	return nil
}

func (r *leadSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM lead_submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "lead submission", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get lead submission by ID", zap.Error(err))
		return nil, err
	}

	return s, nil
}

func (r *leadSubmissionRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.LeadSubmission, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Success != nil {
		args = append(args, *filter.Success)
		where = append(where, fmt.Sprintf("success = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + submissionColumns + ` FROM lead_submissions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list lead submissions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	submissions := make([]*domain.LeadSubmission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			r.logger.Error("Failed to scan lead submission", zap.Error(err))
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*domain.LeadSubmission, error) {
	var (
		s                                 domain.LeadSubmission
		utmSource, utmMedium, utmCampaign sql.NullString
		crmLeadID, errorMessage           sql.NullString
	)

	err := row.Scan(
		&s.ID,
		&s.RequestID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Phone,
		&s.ItemName,
		&s.VisitDate,
		&utmSource,
		&utmMedium,
		&utmCampaign,
		&s.Success,
		&crmLeadID,
		&s.UpstreamStatus,
		&errorMessage,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.UTMSource = nullable(utmSource)
	s.UTMMedium = nullable(utmMedium)
	s.UTMCampaign = nullable(utmCampaign)
	s.CRMLeadID = nullable(crmLeadID)
	s.ErrorMessage = nullable(errorMessage)
	return &s, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
