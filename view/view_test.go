package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_strategy_designer/generator"
)

func exampleResult() generator.StrategyResult {
	return generator.StrategyResult{
		AudienceAnalysis:     []string{"a", "b", "c"},
		ContentPillars:       []string{"d", "e", "f"},
		DistributionStrategy: []string{"g", "h", "i"},
		ContentCalendar:      []string{"j", "k", "l"},
		Metrics:              []string{"m", "n", "o"},
		Timeline:             []string{"p", "q", "r"},
	}
}

func TestTimelinePadsShortSection(t *testing.T) {
	res := exampleResult()
	res.Timeline = []string{"launch", "review"}

	rows, err := Timeline(res)
	require.NoError(t, err)
	require.Len(t, rows, TimelineMonths)
	assert.Equal(t, TimelineRow{Month: "Month 1", Task: "launch"}, rows[0])
	assert.Equal(t, TimelineRow{Month: "Month 2", Task: "review"}, rows[1])
	for _, r := range rows[2:] {
		assert.Empty(t, r.Task)
	}
	assert.Equal(t, "Month 6", rows[5].Month)
}

func TestTimelineTruncatesLongSection(t *testing.T) {
	res := exampleResult()
	res.Timeline = []string{"1", "2", "3", "4", "5", "6", "7", "8"}

	rows, err := Timeline(res)
	require.NoError(t, err)
	require.Len(t, rows, TimelineMonths)
	for i, r := range rows {
		assert.Equal(t, res.Timeline[i], r.Task)
	}
}

func TestTimelineMissingSection(t *testing.T) {
	res := exampleResult()
	res.Timeline = nil

	_, err := Timeline(res)
	assert.ErrorIs(t, err, generator.ErrMissingSection)

	res.Timeline = []string{}
	rows, err := Timeline(res)
	require.NoError(t, err)
	assert.Len(t, rows, TimelineMonths)
}

func TestExampleScenarioViews(t *testing.T) {
	res := exampleResult()

	rows, err := Timeline(res)
	require.NoError(t, err)
	var tasks []string
	for _, r := range rows {
		tasks = append(tasks, r.Task)
	}
	assert.Equal(t, []string{"p", "q", "r", "", "", ""}, tasks)

	cards, err := MetricCards(res)
	require.NoError(t, err)
	assert.Equal(t, []MetricCard{
		{Title: "m", Target: PlaceholderTarget},
		{Title: "n", Target: PlaceholderTarget},
		{Title: "o", Target: PlaceholderTarget},
	}, cards)
}

func TestMetricCardsMissingSection(t *testing.T) {
	res := exampleResult()
	res.Metrics = nil
	_, err := MetricCards(res)
	assert.ErrorIs(t, err, generator.ErrMissingSection)
}

type checks map[string]bool

func (c checks) Checked(k string) bool { return c[k] }

func TestChecklistOrderAndTitles(t *testing.T) {
	groups := Checklist(exampleResult(), nil, KeyBySectionIndex)
	require.Len(t, groups, 6)

	want := []string{"Audience Analysis", "Content Pillars", "Distribution Strategy", "Content Calendar", "Metrics", "Timeline"}
	for i, g := range groups {
		assert.Equal(t, want[i], g.Title)
		assert.Equal(t, generator.Sections()[i], g.Section)
		assert.Len(t, g.Items, 3)
	}
	assert.Equal(t, "check_audience_analysis_0", groups[0].Items[0].Key)
}

func TestChecklistKeyModes(t *testing.T) {
	res := exampleResult()
	res.ContentPillars = []string{"Weekly blog", "x", "y"}
	res.ContentCalendar = []string{"Weekly blog", "z", "w"}

	byIndex := Checklist(res, checks{"check_content_pillars_0": true}, KeyBySectionIndex)
	assert.True(t, byIndex[1].Items[0].Checked)
	assert.False(t, byIndex[3].Items[0].Checked)
	assert.NotEqual(t, byIndex[1].Items[0].Key, byIndex[3].Items[0].Key)

	byText := Checklist(res, checks{"check_Weekly blog": true}, KeyByItemText)
	assert.True(t, byText[1].Items[0].Checked)
	assert.True(t, byText[3].Items[0].Checked)
	assert.Equal(t, byText[1].Items[0].Key, byText[3].Items[0].Key)
}

func TestChecklistSkipsMissingSections(t *testing.T) {
	res := exampleResult()
	res.DistributionStrategy = nil
	groups := Checklist(res, nil, KeyBySectionIndex)
	require.Len(t, groups, 5)
	for _, g := range groups {
		assert.NotEqual(t, generator.SectionDistributionStrategy, g.Section)
	}
}

func TestParseKeyMode(t *testing.T) {
	m, err := ParseKeyMode("")
	require.NoError(t, err)
	assert.Equal(t, KeyBySectionIndex, m)

	m, err = ParseKeyMode("item_text")
	require.NoError(t, err)
	assert.Equal(t, KeyByItemText, m)

	_, err = ParseKeyMode("random")
	assert.Error(t, err)
}

type staticLLM string

func (s staticLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return string(s), nil
}

func TestBuildPage(t *testing.T) {
	agent, err := generator.NewAgent(staticLLM(`{"audience_analysis":["a"],"content_pillars":["b"],"distribution_strategy":["c"],"content_calendar":["d"],"metrics":["e"]}`))
	require.NoError(t, err)
	sess := generator.NewSession("s", agent)

	empty := BuildPage(sess, KeyBySectionIndex, nil)
	assert.False(t, empty.HasResult)
	assert.Len(t, empty.Platforms, 4)

	req := generator.StrategyRequest{Business: "SaaS", Audience: "Devs", Goals: "Grow"}
	_, err = sess.Generate(context.Background(), req)
	require.NoError(t, err)

	page := BuildPage(sess, KeyBySectionIndex, nil)
	assert.True(t, page.HasResult)
	assert.Equal(t, "SaaS", page.Request.Business)
	assert.Len(t, page.Checklist, 5)
	assert.Empty(t, page.Timeline)
	assert.Contains(t, page.RenderError, "timeline")
	assert.Equal(t, 1, page.Generations)
}

func TestPageWithError(t *testing.T) {
	p := Page{}.WithError(&generator.GenerationError{Stage: generator.StageParse, Raw: "oops", Err: errors.New("bad")})
	assert.Equal(t, "oops", p.RawResponse)
	assert.Contains(t, p.Error, "Error parsing strategy")

	p = Page{}.WithError(&generator.ValidationError{Fields: []string{"goals"}, Message: "Please fill all required fields"})
	assert.Equal(t, "Please fill all required fields", p.Error)
	assert.Empty(t, p.RawResponse)
}

func TestBuildPageReportsAnyMissingSection(t *testing.T) {
	agent, err := generator.NewAgent(staticLLM(`{"audience_analysis":["a"],"distribution_strategy":["c"],"content_calendar":["d"],"metrics":["e"],"timeline":["f"]}`))
	require.NoError(t, err)
	sess := generator.NewSession("s", agent)
	_, err = sess.Generate(context.Background(), generator.StrategyRequest{Business: "SaaS", Audience: "Devs", Goals: "Grow"})
	require.NoError(t, err)

	page := BuildPage(sess, KeyBySectionIndex, nil)
	assert.Len(t, page.Checklist, 5)
	assert.Len(t, page.Timeline, TimelineMonths)
	assert.Len(t, page.Metrics, 1)
	assert.Contains(t, page.RenderError, "content_pillars")
}
