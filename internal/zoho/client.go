package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/config"
	"github.com/unicornstore/prebook/pkg/errors"
)

var tracer = otel.Tracer("github.com/unicornstore/prebook/internal/zoho")

type Client struct {
	apiURL      string
	apiKey      string
	successMode string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a client for the CRM lead-creation function
func NewClient(cfg config.CRMConfig, logger *zap.Logger) *Client {
	return &Client{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		successMode: cfg.SuccessMode,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Lead is the set of fields forwarded to the CRM. Empty optional fields
// are left out of the query.
type Lead struct {
	FirstName         string
	LastName          string
	Phone             string
	Mobile            string
	Email             string
	ProductName       string
	ExpectedVisitDate string

	LeadSource       string
	CampaignName     string
	LeadCampaignName string
	AdName           string
	UTM              string
	UTMCampaign      string
	UTMTerm          string
	UTMContent       string
	UTMMedium        string
	UTMSource        string
}

// Result is a lead the CRM accepted
type Result struct {
	LeadID     string
	StatusCode int
	Body       map[string]interface{}
}

// Query builds the signed query string for lead. The API key travels as
// the zapikey parameter.
func (c *Client) Query(lead Lead) url.Values {
	q := url.Values{}
	q.Set("auth_type", "apikey")
	q.Set("zapikey", c.apiKey)
	q.Set("firstName", lead.FirstName)
	q.Set("lastName", lead.LastName)
	q.Set("phone", lead.Phone)
	q.Set("mobile", lead.Mobile)
	q.Set("email", lead.Email)
	q.Set("productName", lead.ProductName)
	q.Set("expected_visit_date", lead.ExpectedVisitDate)

	optional := []struct{ key, value string }{
		{"leadSource", lead.LeadSource},
		{"campaignName", lead.CampaignName},
		{"leadCampaignName", lead.LeadCampaignName},
		{"adName", lead.AdName},
		{"utm", lead.UTM},
		{"utm_campaign", lead.UTMCampaign},
		{"utm_term", lead.UTMTerm},
		{"utm_content", lead.UTMContent},
		{"utm_medium", lead.UTMMedium},
		{"utm_source", lead.UTMSource},
	}
	for _, p := range optional {
		if p.value != "" {
			q.Set(p.key, p.value)
		}
	}
	return q
}

// CreateLead issues a single GET against the CRM function endpoint.
// A CRM refusal is returned as *errors.ErrUpstream carrying the upstream
// body; any other error means no usable response was received.
func (c *Client) CreateLead(ctx context.Context, lead Lead) (*Result, error) {
	ctx, span := tracer.Start(ctx, "zoho.CreateLead", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	sep := "?"
	if strings.Contains(c.apiURL, "?") {
		sep = "&"
	}
	endpoint := c.apiURL + sep + c.Query(lead).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	body := parseBody(raw)

	c.logger.Debug("CRM response",
		zap.Int("status", resp.StatusCode),
		zap.Any("body", body),
	)

	if !c.succeeded(resp.StatusCode, body) {
		span.SetStatus(codes.Error, "lead refused")
		return nil, &errors.ErrUpstream{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}

	leadID := extractLeadID(body)
	span.SetAttributes(attribute.String("crm.lead_id", leadID))
	return &Result{
		LeadID:     leadID,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) succeeded(statusCode int, body map[string]interface{}) bool {
	if statusCode < 200 || statusCode > 299 {
		return false
	}
	if c.successMode == config.SuccessModePermissive {
		return true
	}
	return strings.EqualFold(stringField(body, "status"), "success") ||
		strings.EqualFold(stringField(body, "code"), "success")
}

// parseBody decodes a JSON object body, keeping numbers intact so long
// record ids survive. Anything else is wrapped as {"message": raw}.
func parseBody(raw []byte) map[string]interface{} {
	var body map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body == nil {
		return map[string]interface{}{"message": string(raw)}
	}
	return body
}

// extractLeadID reads data.id or details.id. data may also be the list
// form returned by the records API.
func extractLeadID(body map[string]interface{}) string {
	for _, key := range []string{"data", "details"} {
		switch v := body[key].(type) {
		case map[string]interface{}:
			if id := idOf(v); id != "" {
				return id
			}
		case []interface{}:
			if len(v) == 0 {
				continue
			}
			if first, ok := v[0].(map[string]interface{}); ok {
				if id := idOf(first); id != "" {
					return id
				}
				if details, ok := first["details"].(map[string]interface{}); ok {
					if id := idOf(details); id != "" {
						return id
					}
				}
			}
		}
	}
	return ""
}

func idOf(m map[string]interface{}) string {
	switch id := m["id"].(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func stringField(body map[string]interface{}, key string) string {
	s, _ := body[key].(string)
	return s
}
