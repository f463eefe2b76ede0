// Package attribution holds the campaign tags attached to every lead and
// reads UTM parameters off landing page URLs.
package attribution

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/unicornstore/prebook/internal/domain"
)

const (
	DefaultLeadSource = "TeleCHAMP"
	DefaultCampaign   = "LANDING PAGE PAY"
	DefaultUTMMedium  = "fb"
	DefaultUTMSource  = "FB"
)

// ClientDefaults are the fixed campaign values the landing page sends with
// every lead.
func ClientDefaults() domain.Attribution {
	return domain.Attribution{
		LeadSource:       DefaultLeadSource,
		CampaignName:     DefaultCampaign,
		LeadCampaignName: DefaultCampaign,
		AdName:           DefaultCampaign,
	}
}

// ServerDefaults are applied by the CRM proxy to fields a caller omits
func ServerDefaults() domain.Attribution {
	return domain.Attribution{
		LeadSource:       DefaultLeadSource,
		CampaignName:     DefaultCampaign,
		LeadCampaignName: DefaultCampaign,
		AdName:           DefaultCampaign,
		UTM:              DefaultCampaign,
		UTMCampaign:      DefaultCampaign,
		UTMTerm:          DefaultCampaign,
		UTMContent:       DefaultCampaign,
		UTMMedium:        DefaultUTMMedium,
		UTMSource:        DefaultUTMSource,
	}
}

// FromQuery extracts UTM tags. Each tag is read from its snake_case key,
// then its camelCase key; blank values are treated as absent.
func FromQuery(q url.Values) domain.Attribution {
	return domain.Attribution{
		UTM:         param(q, "utm"),
		UTMCampaign: param(q, "utm_campaign", "utmCampaign"),
		UTMTerm:     param(q, "utm_term", "utmTerm"),
		UTMContent:  param(q, "utm_content", "utmContent"),
		UTMMedium:   param(q, "utm_medium", "utmMedium"),
		UTMSource:   param(q, "utm_source", "utmSource"),
	}
}

// FromURL extracts UTM tags from the query string of a page URL
func FromURL(raw string) (domain.Attribution, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.Attribution{}, fmt.Errorf("failed to parse page url: %w", err)
	}
	return FromQuery(u.Query()), nil
}

func param(q url.Values, keys ...string) string {
	for _, key := range keys {
		if v := q.Get(key); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Merge overlays the non-empty fields of override on base
func Merge(base, override domain.Attribution) domain.Attribution {
	return domain.Attribution{
		LeadSource:       pick(override.LeadSource, base.LeadSource),
		CampaignName:     pick(override.CampaignName, base.CampaignName),
		LeadCampaignName: pick(override.LeadCampaignName, base.LeadCampaignName),
		AdName:           pick(override.AdName, base.AdName),
		UTM:              pick(override.UTM, base.UTM),
		UTMCampaign:      pick(override.UTMCampaign, base.UTMCampaign),
		UTMTerm:          pick(override.UTMTerm, base.UTMTerm),
		UTMContent:       pick(override.UTMContent, base.UTMContent),
		UTMMedium:        pick(override.UTMMedium, base.UTMMedium),
		UTMSource:        pick(override.UTMSource, base.UTMSource),
	}
}

func pick(preferred, fallback string) string {
	if strings.TrimSpace(preferred) != "" {
		return preferred
	}
	return fallback
}
