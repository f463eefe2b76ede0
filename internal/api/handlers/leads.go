package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/api/middleware"
	"github.com/unicornstore/prebook/internal/service"
	"github.com/unicornstore/prebook/pkg/errors"
)

const maxLeadBodyBytes = 64 << 10

// LeadCreator forwards a raw lead body to the CRM
type LeadCreator interface {
	CreateLead(ctx context.Context, body []byte, requestID string) (*service.LeadResult, error)
}

// HandleCreateLead handles POST /api/create-lead
func HandleCreateLead(leads LeadCreator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxLeadBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, service.CreateLeadResponse{
				Success:       false,
				Message:       "Invalid request body",
				InvalidFields: []string{"body"},
			})
			return
		}

		result, err := leads.CreateLead(c.Request.Context(), body, middleware.GetRequestID(c))
		if err != nil {
			switch err.(type) {
			case *errors.ErrValidation, *errors.ErrUpstream:
			default:
				logger.Error("Unexpected error creating lead",
					zap.String("request_id", middleware.GetRequestID(c)),
					zap.Error(err),
				)
			}
			c.JSON(leadErrorResponse(err))
			return
		}

		c.JSON(http.StatusOK, service.CreateLeadResponse{
			Success: true,
			Message: "Lead created successfully",
			LeadID:  result.LeadID,
			Data:    result.Body,
		})
	}
}

func leadErrorResponse(err error) (int, service.CreateLeadResponse) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		return http.StatusBadRequest, service.CreateLeadResponse{
			Message:       e.Error(),
			MissingFields: e.Missing,
			InvalidFields: e.Invalid,
		}
	case *errors.ErrUpstream:
		// A 2xx only lands here when the body reported failure. Statuses
		// that are not errors themselves are not mirrored.
		if e.StatusCode < 400 {
			msg, _ := e.Body["message"].(string)
			if msg == "" {
				msg = "Failed to create lead in CRM"
			}
			return http.StatusBadGateway, service.CreateLeadResponse{
				Message:        msg,
				Data:           e.Body,
				UpstreamStatus: e.StatusCode,
			}
		}
		return e.StatusCode, service.CreateLeadResponse{
			Message:        e.Error(),
			Data:           e.Body,
			UpstreamStatus: e.StatusCode,
		}
	default:
		return http.StatusInternalServerError, service.CreateLeadResponse{
			Message: "An unexpected error occurred",
		}
	}
}
