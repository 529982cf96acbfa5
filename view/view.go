// Package view projects a StrategyResult into the checklist, timeline and
// metric views shown on the page and in the terminal.
package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"content_strategy_designer/generator"
)

const (
	// TimelineMonths is the fixed number of rows in the timeline table.
	TimelineMonths = 6
	// PlaceholderTarget is shown on every metric card; targets are not collected.
	PlaceholderTarget = "Set your goal"
)

// KeyMode decides how checklist checkboxes are identified.
type KeyMode string

const (
	// KeyBySectionIndex keys a checkbox by section and position.
	KeyBySectionIndex KeyMode = "section_index"
	// KeyByItemText keys a checkbox by the item text, so identical items in
	// different sections share one checkbox.
	KeyByItemText KeyMode = "item_text"
)

// ParseKeyMode maps a config value onto a KeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyBySectionIndex:
		return KeyBySectionIndex, nil
	case KeyByItemText:
		return KeyByItemText, nil
	default:
		return "", fmt.Errorf("unknown checkbox keying %q (want %q or %q)", s, KeyBySectionIndex, KeyByItemText)
	}
}

// CheckKey returns the checkbox key for an item.
func CheckKey(mode KeyMode, section generator.Section, index int, item string) string {
	if mode == KeyByItemText {
		return "check_" + item
	}
	return fmt.Sprintf("check_%s_%d", section, index)
}

// CheckState reports whether a checkbox is ticked.
type CheckState interface {
	Checked(key string) bool
}

type ChecklistItem struct {
	Key     string
	Text    string
	Checked bool
}

type ChecklistGroup struct {
	Section generator.Section
	Title   string
	Items   []ChecklistItem
}

type TimelineRow struct {
	Month string
	Task  string
}

type MetricCard struct {
	Title  string
	Target string
}

// SectionTitle turns "content_pillars" into "Content Pillars".
func SectionTitle(s generator.Section) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

func sectionItems(res generator.StrategyResult, s generator.Section) ([]string, error) {
	items, ok := res.Items(s)
	if !ok {
		return nil, &generator.MissingSectionError{Section: s}
	}
	return items, nil
}

// Checklist builds one group per present section in canonical order.
// Sections the model left out are skipped. checks may be nil.
func Checklist(res generator.StrategyResult, checks CheckState, mode KeyMode) []ChecklistGroup {
	groups := make([]ChecklistGroup, 0, len(generator.Sections()))
	for _, s := range generator.Sections() {
		items, ok := res.Items(s)
		if !ok {
			continue
		}
		g := ChecklistGroup{Section: s, Title: SectionTitle(s)}
		for i, text := range items {
			key := CheckKey(mode, s, i, text)
			g.Items = append(g.Items, ChecklistItem{
				Key:     key,
				Text:    text,
				Checked: checks != nil && checks.Checked(key),
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// Timeline pairs "Month N" labels with timeline items, padding with empty
// tasks or truncating to TimelineMonths rows.
func Timeline(res generator.StrategyResult) ([]TimelineRow, error) {
	items, err := sectionItems(res, generator.SectionTimeline)
	if err != nil {
		return nil, err
	}
	rows := make([]TimelineRow, TimelineMonths)
	for i := range rows {
		rows[i].Month = fmt.Sprintf("Month %d", i+1)
		if i < len(items) {
			rows[i].Task = items[i]
		}
	}
	return rows, nil
}

// MetricCards returns one card per metrics item.
func MetricCards(res generator.StrategyResult) ([]MetricCard, error) {
	items, err := sectionItems(res, generator.SectionMetrics)
	if err != nil {
		return nil, err
	}
	cards := make([]MetricCard, 0, len(items))
	for _, m := range items {
		cards = append(cards, MetricCard{Title: m, Target: PlaceholderTarget})
	}
	return cards, nil
}
