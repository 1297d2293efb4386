// Package report holds the user-editable report model: the flat configuration
// record, the ordered chart selection, and per-chart content options. All
// updates produce new values; nothing here is shared mutable state.
package report

import (
	"fmt"
	"regexp"
	"time"
)

// PageSize selects the paper format of exported reports.
type PageSize string

const (
	PageA4     PageSize = "a4"
	PageLetter PageSize = "letter"
)

// Confidentiality classifies the report for its cover banner.
type Confidentiality string

const (
	ConfidentialityPublic       Confidentiality = "public"
	ConfidentialityInternal     Confidentiality = "internal"
	ConfidentialityConfidential Confidentiality = "confidential"
	ConfidentialityRestricted   Confidentiality = "restricted"
)

// Logo is an uploaded brand image kept inline as a data URI.
type Logo struct {
	DataURI  string `yaml:"dataUri" json:"dataUri"`
	Filename string `yaml:"filename" json:"filename"`
}

// Config is the flat report configuration record. Every field has a default
// and a loaded Config is always fully populated; renderers never see partial
// state.
type Config struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	// Date is the display date on the cover, formatted YYYY-MM-DD.
	Date            string          `yaml:"date" json:"date"`
	CompanyName     string          `yaml:"companyName" json:"companyName"`
	Logo            Logo            `yaml:"logo" json:"logo"`
	AccentColor     string          `yaml:"accentColor" json:"accentColor"`
	PageSize        PageSize        `yaml:"pageSize" json:"pageSize"`
	Confidentiality Confidentiality `yaml:"confidentiality" json:"confidentiality"`

	IncludeCharts           bool `yaml:"includeCharts" json:"includeCharts"`
	IncludeAnalysis         bool `yaml:"includeAnalysis" json:"includeAnalysis"`
	IncludeInsights         bool `yaml:"includeInsights" json:"includeInsights"`
	IncludeExecutiveSummary bool `yaml:"includeExecutiveSummary" json:"includeExecutiveSummary"`

	// ExecutiveSummary and Highlights hold generated summary content once
	// the assist service has produced it.
	ExecutiveSummary string   `yaml:"executiveSummary" json:"executiveSummary"`
	Highlights       []string `yaml:"highlights" json:"highlights"`
}

// DefaultConfig returns a fully populated configuration.
func DefaultConfig() Config {
	return Config{
		Title:           "Dashboard Report",
		Date:            time.Now().Format("2006-01-02"),
		AccentColor:     "#2563EB",
		PageSize:        PageA4,
		Confidentiality: ConfidentialityInternal,
		IncludeCharts:   true,
		IncludeAnalysis: true,
		IncludeInsights: true,
	}
}

var accentColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks enumerated and formatted fields.
func (c Config) Validate() error {
	switch c.PageSize {
	case PageA4, PageLetter:
	default:
		return fmt.Errorf("invalid page size: %s (supported: a4, letter)", c.PageSize)
	}
	switch c.Confidentiality {
	case ConfidentialityPublic, ConfidentialityInternal, ConfidentialityConfidential, ConfidentialityRestricted:
	default:
		return fmt.Errorf("invalid confidentiality: %s (supported: public, internal, confidential, restricted)", c.Confidentiality)
	}
	if c.AccentColor != "" && !accentColorPattern.MatchString(c.AccentColor) {
		return fmt.Errorf("invalid accent color: %s (expected #RRGGBB)", c.AccentColor)
	}
	return nil
}

// Patch is a sparse update to a Config. Nil fields leave the target
// untouched; set fields replace it wholesale.
type Patch struct {
	Title           *string
	Description     *string
	Date            *string
	CompanyName     *string
	Logo            *Logo
	AccentColor     *string
	PageSize        *PageSize
	Confidentiality *Confidentiality

	IncludeCharts           *bool
	IncludeAnalysis         *bool
	IncludeInsights         *bool
	IncludeExecutiveSummary *bool

	ExecutiveSummary *string
	Highlights       *[]string
}

// Apply merges a sparse patch into the configuration.
func (c *Config) Apply(p Patch) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.Logo != nil {
		c.Logo = *p.Logo
	}
	if p.AccentColor != nil {
		c.AccentColor = *p.AccentColor
	}
	if p.PageSize != nil {
		c.PageSize = *p.PageSize
	}
	if p.Confidentiality != nil {
		c.Confidentiality = *p.Confidentiality
	}
	if p.IncludeCharts != nil {
		c.IncludeCharts = *p.IncludeCharts
	}
	if p.IncludeAnalysis != nil {
		c.IncludeAnalysis = *p.IncludeAnalysis
	}
	if p.IncludeInsights != nil {
		c.IncludeInsights = *p.IncludeInsights
	}
	if p.IncludeExecutiveSummary != nil {
		c.IncludeExecutiveSummary = *p.IncludeExecutiveSummary
	}
	if p.ExecutiveSummary != nil {
		c.ExecutiveSummary = *p.ExecutiveSummary
	}
	if p.Highlights != nil {
		c.Highlights = *p.Highlights
	}
}
