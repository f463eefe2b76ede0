package service

import (
	"context"
	"encoding/json"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/attribution"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/metrics"
	"github.com/unicornstore/prebook/internal/repository"
	"github.com/unicornstore/prebook/internal/zoho"
	"github.com/unicornstore/prebook/pkg/errors"
)

const visitDateLayout = "2006-01-02"

// defaultVisitLead is how far ahead the expected visit is booked when the
// caller leaves it out
const defaultVisitLead = 7 * 24 * time.Hour

// requiredLeadFields in the order they are reported
var requiredLeadFields = []string{"firstName", "lastName", "phone", "email", "itemName"}

const leadSchemaJSON = `{
	"type": "object",
	"required": ["firstName", "lastName", "phone", "email", "itemName"],
	"properties": {
		"firstName":         {"type": "string", "pattern": "\\S"},
		"lastName":          {"type": "string", "pattern": "\\S"},
		"phone":             {"type": "string", "pattern": "\\S"},
		"email":             {"type": "string", "pattern": "\\S"},
		"itemName":          {"type": "string", "pattern": "\\S"},
		"mobile":            {"type": ["string", "null"]},
		"expectedVisitDate": {"type": ["string", "null"]},
		"leadSource":        {"type": ["string", "null"]},
		"campaignName":      {"type": ["string", "null"]},
		"leadCampaignName":  {"type": ["string", "null"]},
		"adName":            {"type": ["string", "null"]},
		"utm":               {"type": ["string", "null"]},
		"utmCampaign":       {"type": ["string", "null"]},
		"utmTerm":           {"type": ["string", "null"]},
		"utmContent":        {"type": ["string", "null"]},
		"utmMedium":         {"type": ["string", "null"]},
		"utmSource":         {"type": ["string", "null"]}
	}
}`

var leadSchema = mustSchema(leadSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("lead schema: " + err.Error())
	}
	return schema
}

// CRM creates leads in the upstream CRM
type CRM interface {
	CreateLead(ctx context.Context, lead zoho.Lead) (*zoho.Result, error)
}

type leadService struct {
	crm       CRM
	repos     *repository.Repositories
	sanitizer *bluemonday.Policy
	now       func() time.Time
	logger    *zap.Logger
}

// NewLeadService creates a new lead service. repos may be nil, in which
// case no audit trail is written.
func NewLeadService(crm CRM, repos *repository.Repositories, logger *zap.Logger) *leadService {
	return &leadService{
		crm:       crm,
		repos:     repos,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the clock used for the default visit date
func (s *leadService) WithClock(now func() time.Time) *leadService {
	s.now = now
	return s
}

// CreateLead validates a raw request body and forwards it to the CRM.
// Errors are *errors.ErrValidation for a bad body, *errors.ErrUpstream for
// a CRM refusal, anything else for an unexpected failure.
func (s *leadService) CreateLead(ctx context.Context, body []byte, requestID string) (*LeadResult, error) {
	req, err := s.DecodeLead(body)
	if err != nil {
		metrics.LeadsSubmitted.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	lead := s.BuildLead(req)

	start := time.Now()
	res, err := s.crm.CreateLead(ctx, lead)
	status := 0
	switch e := err.(type) {
	case nil:
		status = res.StatusCode
	case *errors.ErrUpstream:
		status = e.StatusCode
	}
	metrics.CRMRequestDuration.WithLabelValues(metrics.StatusClass(status)).Observe(time.Since(start).Seconds())

	s.audit(ctx, requestID, lead, res, err)

	if err != nil {
		if upstream, ok := err.(*errors.ErrUpstream); ok {
			metrics.LeadsSubmitted.WithLabelValues(metrics.OutcomeUpstream).Inc()
			s.logger.Warn("CRM refused lead",
				zap.String("request_id", requestID),
				zap.Int("status", upstream.StatusCode),
			)
			return nil, err
		}
		metrics.LeadsSubmitted.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("Failed to create lead in CRM",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.LeadsSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("Lead created",
		zap.String("request_id", requestID),
		zap.String("lead_id", res.LeadID),
	)
	return &LeadResult{LeadID: res.LeadID, Body: res.Body}, nil
}

// DecodeLead checks the body against the lead schema, decodes it and
// strips markup from every value.
func (s *leadService) DecodeLead(body []byte) (*CreateLeadRequest, error) {
	result, err := leadSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, &errors.ErrValidation{Invalid: []string{"body"}}
	}

	missing := make(map[string]bool)
	var invalid []string
	for _, desc := range result.Errors() {
		switch {
		case desc.Type() == "required":
			if field, ok := desc.Details()["property"].(string); ok {
				missing[field] = true
			}
		case desc.Type() == "pattern":
			missing[desc.Field()] = true
		case desc.Type() == "invalid_type" && desc.Value() == nil && isRequiredLeadField(desc.Field()):
			// an explicit null counts as absent
			missing[desc.Field()] = true
		default:
			field := desc.Field()
			if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
				field = "body"
			}
			invalid = append(invalid, field)
		}
	}
	if len(invalid) > 0 {
		return nil, &errors.ErrValidation{Missing: ordered(missing), Invalid: invalid}
	}

	var req CreateLeadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &errors.ErrValidation{Invalid: []string{"body"}}
	}
	s.sanitize(&req)

	// Markup-only values are empty once stripped
	for field, value := range map[string]string{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"phone":     req.Phone,
		"email":     req.Email,
		"itemName":  req.ItemName,
	} {
		if value == "" {
			missing[field] = true
		}
	}
	if len(missing) > 0 {
		return nil, &errors.ErrValidation{Missing: ordered(missing)}
	}

	return &req, nil
}

func isRequiredLeadField(field string) bool {
	for _, f := range requiredLeadFields {
		if f == field {
			return true
		}
	}
	return false
}

func ordered(set map[string]bool) []string {
	var out []string
	for _, field := range requiredLeadFields {
		if set[field] {
			out = append(out, field)
		}
	}
	return out
}

func (s *leadService) sanitize(req *CreateLeadRequest) {
	for _, field := range []*string{&req.FirstName, &req.LastName, &req.Phone, &req.Email, &req.ItemName} {
		*field = s.clean(*field)
	}
	for _, field := range []*string{
		req.Mobile, req.ExpectedVisitDate,
		req.LeadSource, req.CampaignName, req.LeadCampaignName, req.AdName,
		req.UTM, req.UTMCampaign, req.UTMTerm, req.UTMContent, req.UTMMedium, req.UTMSource,
	} {
		if field != nil {
			*field = s.clean(*field)
		}
	}
}

// clean strips complete tags from v. A "<" that opens no tag is text, so
// "O<Neil" and "a < b" pass through unchanged.
func (s *leadService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(escapeStrayLT(v))))
}

var tagStart = regexp.MustCompile(`^(?:</?[A-Za-z][^<>]*>|<!--)`)

func escapeStrayLT(v string) string {
	if !strings.Contains(v, "<") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '<' && !tagStart.MatchString(v[i:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

// BuildLead applies the defaults and maps the request onto CRM fields
func (s *leadService) BuildLead(req *CreateLeadRequest) zoho.Lead {
	d := attribution.ServerDefaults()

	lead := zoho.Lead{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		Mobile:            orFallback(req.Mobile, req.Phone),
		Email:             req.Email,
		ProductName:       req.ItemName,
		ExpectedVisitDate: orFallback(req.ExpectedVisitDate, s.now().UTC().Add(defaultVisitLead).Format(visitDateLayout)),

		LeadSource:       orDefault(req.LeadSource, d.LeadSource),
		CampaignName:     orDefault(req.CampaignName, d.CampaignName),
		LeadCampaignName: orDefault(req.LeadCampaignName, d.LeadCampaignName),
		AdName:           orDefault(req.AdName, d.AdName),
		UTM:              orDefault(req.UTM, d.UTM),
		UTMCampaign:      orDefault(req.UTMCampaign, d.UTMCampaign),
		UTMTerm:          orDefault(req.UTMTerm, d.UTMTerm),
		UTMContent:       orDefault(req.UTMContent, d.UTMContent),
		UTMMedium:        orDefault(req.UTMMedium, d.UTMMedium),
		UTMSource:        orDefault(req.UTMSource, d.UTMSource),
	}
	return lead
}

// orFallback uses fallback when v is absent or empty
func orFallback(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// orDefault uses def only when v is absent; an explicit empty value is kept
func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// audit records the attempt. A failing write is logged and otherwise ignored.
func (s *leadService) audit(ctx context.Context, requestID string, lead zoho.Lead, res *zoho.Result, crmErr error) {
	if s.repos == nil || s.repos.LeadSubmission == nil {
		return
	}

	submission := &domain.LeadSubmission{
		RequestID:   requestID,
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		Email:       lead.Email,
		Phone:       lead.Phone,
		ItemName:    lead.ProductName,
		VisitDate:   lead.ExpectedVisitDate,
		UTMSource:   optional(lead.UTMSource),
		UTMMedium:   optional(lead.UTMMedium),
		UTMCampaign: optional(lead.UTMCampaign),
		CreatedAt:   s.now().UTC(),
	}
	switch e := crmErr.(type) {
	case nil:
		submission.Success = true
		submission.UpstreamStatus = res.StatusCode
		submission.CRMLeadID = optional(res.LeadID)
	case *errors.ErrUpstream:
		submission.UpstreamStatus = e.StatusCode
		submission.ErrorMessage = optional(e.Error())
	default:
		submission.ErrorMessage = optional(e.Error())
	}

	// Don't lose the record when the caller hangs up
	if err := s.repos.LeadSubmission.Create(context.WithoutCancel(ctx), submission); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.logger.Warn("Failed to write lead audit record",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
