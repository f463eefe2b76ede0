// Package leadclient posts pre-booking leads to the lead proxy.
package leadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/attribution"
	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/domain"
)

const createLeadPath = "/api/create-lead"

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client targeting <baseURL>/api/create-lead
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + createLeadPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Result is a lead the proxy reported as created
type Result struct {
	LeadID  string
	Message string
}

// SubmitError is a lead the proxy or CRM refused. StatusCode is zero when
// the request never produced a response.
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string {
	return e.Message
}

type proxyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
}

// BuildItemName renders the product descriptor sent as the CRM product name.
// Storage is always written compact, "iPhone 17 256GB - Black".
func BuildItemName(sel domain.Selection) string {
	switch sel.Category {
	case domain.CategoryWatch:
		return fmt.Sprintf("%s %s - %s", sel.Product, sel.Size, sel.Color)
	case domain.CategoryAirPods:
		return fmt.Sprintf("%s - %s", sel.Product, sel.Color)
	default:
		return fmt.Sprintf("%s %s - %s", sel.Product, catalog.CompactMeasure(sel.Storage), sel.Finish)
	}
}

// BuildPayload merges the campaign defaults with attr and packs the lead.
// Blank attribution values fall back to the default or are dropped.
func BuildPayload(sel domain.Selection, contact domain.ContactDetails, attr domain.Attribution) domain.LeadPayload {
	return domain.LeadPayload{
		FirstName:         strings.TrimSpace(contact.FirstName),
		LastName:          strings.TrimSpace(contact.LastName),
		Phone:             contact.Phone,
		Mobile:            contact.Phone,
		Email:             strings.TrimSpace(contact.Email),
		ItemName:          BuildItemName(sel),
		ExpectedVisitDate: contact.ExpectedVisitDate,
		Attribution:       attribution.Merge(attribution.ClientDefaults(), attr),
	}
}

// SubmitLead makes a single POST to the proxy. It never retries.
func (c *Client) SubmitLead(ctx context.Context, sel domain.Selection, contact domain.ContactDetails, attr domain.Attribution) (*Result, error) {
	payload := BuildPayload(sel, contact, attr)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Lead proxy unreachable", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, &SubmitError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	var parsed proxyResponse
	parseErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parsed.Message
		if parseErr != nil {
			msg = strings.TrimSpace(string(body))
		}
		if msg == "" {
			msg = fmt.Sprintf("Failed to create lead: %s", resp.Status)
		}
		c.logger.Warn("Lead rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}

	if parseErr != nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "Failed to create lead in CRM"
		}
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}

	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "Failed to create lead in CRM"
		}
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}

	msg := parsed.Message
	if msg == "" {
		msg = "Lead created successfully"
	}
	return &Result{LeadID: parsed.LeadID, Message: msg}, nil
}
