package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/repository"
	"github.com/unicornstore/prebook/pkg/errors"
)

// LeadSubmissionResponse is an audit record as served to admins
type LeadSubmissionResponse struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ItemName       string    `json:"item_name"`
	VisitDate      string    `json:"visit_date"`
	UTMSource      *string   `json:"utm_source,omitempty"`
	UTMMedium      *string   `json:"utm_medium,omitempty"`
	UTMCampaign    *string   `json:"utm_campaign,omitempty"`
	Success        bool      `json:"success"`
	CRMLeadID      *string   `json:"crm_lead_id,omitempty"`
	UpstreamStatus int       `json:"upstream_status,omitempty"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toSubmissionResponse(s *domain.LeadSubmission) LeadSubmissionResponse {
	return LeadSubmissionResponse{
		ID:             s.ID.String(),
		RequestID:      s.RequestID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		ItemName:       s.ItemName,
		VisitDate:      s.VisitDate,
		UTMSource:      s.UTMSource,
		UTMMedium:      s.UTMMedium,
		UTMCampaign:    s.UTMCampaign,
		Success:        s.Success,
		CRMLeadID:      s.CRMLeadID,
		UpstreamStatus: s.UpstreamStatus,
		ErrorMessage:   s.ErrorMessage,
		CreatedAt:      s.CreatedAt,
	}
}

// HandleListLeadSubmissions handles GET /v1/admin/leads
func HandleListLeadSubmissions(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 || limit > 500 {
			limit = 50
		}

		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		filter := repository.ListFilter{Limit: limit, Offset: offset}
		if raw := c.Query("success"); raw != "" {
			success, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid success filter"})
				return
			}
			filter.Success = &success
		}

		submissions, err := repos.LeadSubmission.List(c.Request.Context(), filter)
		if err != nil {
			logger.Error("Failed to list lead submissions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		responses := make([]LeadSubmissionResponse, len(submissions))
		for i, s := range submissions {
			responses[i] = toSubmissionResponse(s)
		}

		c.JSON(http.StatusOK, gin.H{
			"submissions": responses,
			"count":       len(responses),
			"limit":       limit,
			"offset":      offset,
		})
	}
}

// HandleGetLeadSubmission handles GET /v1/admin/leads/:id
func HandleGetLeadSubmission(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
			return
		}

		submission, err := repos.LeadSubmission.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "lead submission not found"})
				return
			}
			logger.Error("Failed to get lead submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toSubmissionResponse(submission))
	}
}
