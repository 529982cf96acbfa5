package generator

import (
	"strings"
	"time"
)

// Platform is the primary publishing channel selected in the form.
type Platform string

const (
	PlatformAll    Platform = "All Platforms"
	PlatformBlog   Platform = "Website/Blog"
	PlatformSocial Platform = "Social Media"
	PlatformEmail  Platform = "Email Marketing"
)

// Platforms lists the selectable platforms in display order.
func Platforms() []Platform {
	return []Platform{PlatformAll, PlatformBlog, PlatformSocial, PlatformEmail}
}

// ParsePlatform maps a form value onto a Platform. Empty means PlatformAll.
func ParsePlatform(s string) (Platform, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PlatformAll, true
	}
	for _, p := range Platforms() {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// StrategyRequest 是一次生成的用户输入。
type StrategyRequest struct {
	Business string   `json:"business"`
	Audience string   `json:"audience"`
	Goals    string   `json:"goals"`
	Platform Platform `json:"platform"`
}

// Validate checks that the required fields are present. It normalizes an
// empty platform to PlatformAll.
func (r *StrategyRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Business) == "" {
		missing = append(missing, "business")
	}
	if strings.TrimSpace(r.Audience) == "" {
		missing = append(missing, "audience")
	}
	if strings.TrimSpace(r.Goals) == "" {
		missing = append(missing, "goals")
	}
	p, ok := ParsePlatform(string(r.Platform))
	if !ok {
		return &ValidationError{Fields: append(missing, "platform"), Message: "Please choose a supported platform"}
	}
	r.Platform = p
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Please fill all required fields"}
	}
	return nil
}

// Section names one of the six fixed parts of a strategy.
type Section string

const (
	SectionAudienceAnalysis     Section = "audience_analysis"
	SectionContentPillars       Section = "content_pillars"
	SectionDistributionStrategy Section = "distribution_strategy"
	SectionContentCalendar      Section = "content_calendar"
	SectionMetrics              Section = "metrics"
	SectionTimeline             Section = "timeline"
)

// Sections returns the six sections in canonical order.
func Sections() []Section {
	return []Section{
		SectionAudienceAnalysis,
		SectionContentPillars,
		SectionDistributionStrategy,
		SectionContentCalendar,
		SectionMetrics,
		SectionTimeline,
	}
}

// StrategyResult is the parsed model output. A nil slice means the model
// omitted the section; an empty non-nil slice means it returned [].
type StrategyResult struct {
	AudienceAnalysis     []string `json:"audience_analysis" yaml:"audience_analysis"`
	ContentPillars       []string `json:"content_pillars" yaml:"content_pillars"`
	DistributionStrategy []string `json:"distribution_strategy" yaml:"distribution_strategy"`
	ContentCalendar      []string `json:"content_calendar" yaml:"content_calendar"`
	Metrics              []string `json:"metrics" yaml:"metrics"`
	Timeline             []string `json:"timeline" yaml:"timeline"`
}

// Items returns the items of a section and whether the section is present.
func (r StrategyResult) Items(s Section) ([]string, bool) {
	var items []string
	switch s {
	case SectionAudienceAnalysis:
		items = r.AudienceAnalysis
	case SectionContentPillars:
		items = r.ContentPillars
	case SectionDistributionStrategy:
		items = r.DistributionStrategy
	case SectionContentCalendar:
		items = r.ContentCalendar
	case SectionMetrics:
		items = r.Metrics
	case SectionTimeline:
		items = r.Timeline
	default:
		return nil, false
	}
	return items, items != nil
}

// Missing lists the sections absent from the result, in canonical order.
func (r StrategyResult) Missing() []Section {
	var out []Section
	for _, s := range Sections() {
		if _, ok := r.Items(s); !ok {
			out = append(out, s)
		}
	}
	return out
}

// Turn 记录 session 内一次成功的生成。
type Turn struct {
	Request   StrategyRequest `json:"request"`
	CreatedAt time.Time       `json:"created_at"`
}
