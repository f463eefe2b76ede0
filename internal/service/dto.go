package service

import "github.com/unicornstore/prebook/internal/domain"

// CreateLeadRequest is the body of POST /api/create-lead. Optional fields
// are pointers: nil means the caller left the field out and the default
// applies, an empty string switches the field off.
type CreateLeadRequest struct {
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Phone             string  `json:"phone"`
	Mobile            *string `json:"mobile,omitempty"`
	Email             string  `json:"email"`
	ItemName          string  `json:"itemName"`
	ExpectedVisitDate *string `json:"expectedVisitDate,omitempty"`
	LeadSource        *string `json:"leadSource,omitempty"`
	CampaignName      *string `json:"campaignName,omitempty"`
	LeadCampaignName  *string `json:"leadCampaignName,omitempty"`
	AdName            *string `json:"adName,omitempty"`
	UTM               *string `json:"utm,omitempty"`
	UTMCampaign       *string `json:"utmCampaign,omitempty"`
	UTMTerm           *string `json:"utmTerm,omitempty"`
	UTMContent        *string `json:"utmContent,omitempty"`
	UTMMedium         *string `json:"utmMedium,omitempty"`
	UTMSource         *string `json:"utmSource,omitempty"`
}

// CreateLeadResponse is the normalized proxy answer
type CreateLeadResponse struct {
	Success        bool                   `json:"success"`
	Message        string                 `json:"message"`
	LeadID         string                 `json:"leadId,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
	MissingFields  []string               `json:"missingFields,omitempty"`
	InvalidFields  []string               `json:"invalidFields,omitempty"`
	UpstreamStatus int                    `json:"upstreamStatus,omitempty"`
}

// LeadResult is a lead the CRM accepted
type LeadResult struct {
	LeadID string
	Body   map[string]interface{}
}

// OptionsResponse lists the choices offered for one model. Only the lists
// relevant to the model's category are filled.
type OptionsResponse struct {
	Category domain.Category `json:"category"`
	Model    string          `json:"model"`
	Storage  []string        `json:"storage,omitempty"`
	Finishes []string        `json:"finishes,omitempty"`
	Sizes    []string        `json:"sizes,omitempty"`
	Colors   []string        `json:"colors,omitempty"`
}

// ResolveQuery is the selection sent to the variant resolver
type ResolveQuery struct {
	Category string `form:"category"`
	Model    string `form:"model"`
	Storage  string `form:"storage"`
	Size     string `form:"size"`
	Finish   string `form:"finish"`
	Color    string `form:"color"`
}
