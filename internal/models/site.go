package models

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category tags where a site comes from or what it serves. The set is open:
// values outside the known constants are carried through unchanged.
type Category string

const (
	CategoryManual   Category = "manual"
	CategoryExternal Category = "externo"
	CategoryWHM      Category = "whm"
	CategoryAPI      Category = "api"
	CategoryCDN      Category = "cdn"
)

// Known reports whether c is one of the enumerated categories.
func (c Category) Known() bool {
	switch c {
	case CategoryManual, CategoryExternal, CategoryWHM, CategoryAPI, CategoryCDN:
		return true
	default:
		return false
	}
}

// Priority is an open tagged value like Category.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Known reports whether p is one of the enumerated priorities.
func (p Priority) Known() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	default:
		return false
	}
}

// OriginInfo holds source-specific attributes of an externally synced site.
// It is display-only.
type OriginInfo struct {
	Type     string `json:"type,omitempty" mapstructure:"type"`
	Username string `json:"username,omitempty" mapstructure:"username"`
	Status   string `json:"status,omitempty" mapstructure:"status"`
}

// Site is a monitoring target.
type Site struct {
	Name     string      `json:"name" mapstructure:"name"`
	URL      string      `json:"url" mapstructure:"url"`
	Category Category    `json:"category,omitempty" mapstructure:"category"`
	Priority Priority    `json:"priority,omitempty" mapstructure:"priority"`
	Origin   *OriginInfo `json:"whmInfo,omitempty" mapstructure:"-"`
}

// WithManualDefaults fills the category and priority a manual entry gets when
// they are left empty.
func (s Site) WithManualDefaults() Site {
	if s.Category == "" {
		s.Category = CategoryManual
	}
	if s.Priority == "" {
		s.Priority = PriorityNormal
	}
	return s
}

// Validate checks that the site has a name and an absolute http(s) URL.
func (s Site) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.URL, validation.Required, validation.By(validateSiteURL)),
	)
}

func validateSiteURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if u.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
