package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 返回固定策略，并像常见模型那样在 JSON 前后附带说明文字。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	topic := "your business"
	for _, line := range strings.Split(prompt.User, "\n") {
		if v, ok := strings.CutPrefix(line, "Business Type: "); ok && strings.TrimSpace(v) != "" {
			topic = strings.TrimSpace(v)
			break
		}
	}

	res := StrategyResult{
		AudienceAnalysis: []string{
			"Identify the core pain points of " + topic + " customers",
			"Map where the audience spends time online",
			"Segment readers by experience level",
		},
		ContentPillars: []string{
			"Educational how-to guides",
			"Customer success stories",
			"Industry trends and opinion",
		},
		DistributionStrategy: []string{
			"Publish weekly on the primary platform",
			"Repurpose long posts into short social snippets",
			"Send a monthly email digest",
		},
		ContentCalendar: []string{
			"Monday tutorials",
			"Wednesday case studies",
			"Friday news roundups",
		},
		Metrics: []string{
			"Organic traffic",
			"Email signups",
			"Engagement rate",
		},
		Timeline: []string{
			"Set up the editorial workflow",
			"Publish the first pillar articles",
			"Review metrics and adjust the plan",
		},
	}
	body, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sure! Here is the strategy:\n%s\nHope that helps!", body), nil
}
