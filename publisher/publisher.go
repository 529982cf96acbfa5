package publisher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"content_strategy_designer/generator"
	"content_strategy_designer/view"
)

// ErrShareUnavailable is returned by Share until sharing exists.
var ErrShareUnavailable = errors.New("sharing is not available yet")

// ShareNotice is the message shown to users who ask to share.
const ShareNotice = "Sharing feature coming soon!"

const (
	JSONContentType     = "application/json"
	MarkdownContentType = "text/markdown; charset=utf-8"
)

// ExportFilename names the JSON download, e.g. content_strategy_20240131.json.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("content_strategy_%s.json", t.Format("20060102"))
}

// MarkdownFilename names the Markdown download.
func MarkdownFilename(t time.Time) string {
	return fmt.Sprintf("content_strategy_%s.md", t.Format("20060102"))
}

// ExportJSON serializes the strategy with 2-space indentation and the six
// sections in canonical order. A strategy missing a section cannot be exported.
func ExportJSON(res generator.StrategyResult) ([]byte, error) {
	if err := generator.CheckShape(res); err != nil {
		return nil, err
	}
	return json.MarshalIndent(res, "", "  ")
}

// RenderMarkdown lays the strategy out as a Markdown document: one heading per
// section, the timeline as a month table and metrics with their targets.
func RenderMarkdown(req generator.StrategyRequest, res generator.StrategyResult) string {
	var sb strings.Builder
	sb.WriteString("# Content Strategy\n\n")
	if req.Business != "" {
		sb.WriteString(fmt.Sprintf("Strategy for **%s** targeting **%s** on %s.\n\n", req.Business, req.Audience, req.Platform))
	}
	if req.Goals != "" {
		sb.WriteString(fmt.Sprintf("Goals: %s\n\n", strings.Join(strings.Fields(req.Goals), " ")))
	}

	for _, g := range view.Checklist(res, nil, view.KeyBySectionIndex) {
		switch g.Section {
		case generator.SectionTimeline:
			rows, _ := view.Timeline(res)
			sb.WriteString("## " + g.Title + "\n\n")
			sb.WriteString("| Month | Tasks |\n| --- | --- |\n")
			for _, r := range rows {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", r.Month, escapeCell(r.Task)))
			}
			sb.WriteString("\n")
		case generator.SectionMetrics:
			cards, _ := view.MetricCards(res)
			sb.WriteString("## " + g.Title + "\n\n")
			for _, c := range cards {
				sb.WriteString(fmt.Sprintf("- **%s**: target %s\n", c.Title, strings.ToLower(c.Target)))
			}
			sb.WriteString("\n")
		default:
			sb.WriteString("## " + g.Title + "\n\n")
			for _, item := range g.Items {
				sb.WriteString("- [ ] " + item.Text + "\n")
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.TaskList))

// RenderHTML converts Markdown to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Digest is a one-line summary of a Markdown document, cut at limit bytes.
func Digest(markdown string, limit int) string {
	var parts []string
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "|") {
			continue
		}
		parts = append(parts, strings.TrimLeft(line, "-[] "))
	}
	joined := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	joined = strings.ReplaceAll(joined, "**", "")
	if limit < 0 {
		limit = 0
	}
	if len(joined) <= limit {
		return joined
	}
	// Back off to a rune boundary.
	for limit > 0 && !utf8.RuneStart(joined[limit]) {
		limit--
	}
	return joined[:limit]
}

// Share publishes a strategy somewhere others can read it. Not built yet.
func Share(generator.StrategyResult) error {
	return ErrShareUnavailable
}
