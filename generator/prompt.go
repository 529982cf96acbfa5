package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// ItemsPerSection 每个部分要求模型给出的条目数。
const ItemsPerSection = 3

const systemInstruction = "You are a content strategist. Reply with a single JSON object and no other text."

// BuildPrompt 生成内容策略提示词，请求字段原样嵌入。
func BuildPrompt(req StrategyRequest) Prompt {
	var sb strings.Builder
	sb.WriteString("Create a content strategy for:\n")
	sb.WriteString(fmt.Sprintf("Business Type: %s\n", req.Business))
	sb.WriteString(fmt.Sprintf("Audience: %s\n", req.Audience))
	sb.WriteString(fmt.Sprintf("Goals: %s\n", req.Goals))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", req.Platform))
	sb.WriteString("\nReturn the strategy as a simple JSON object with these exact keys:\n")
	for _, s := range Sections() {
		sb.WriteString(fmt.Sprintf("- %s (array of %d points)\n", s, ItemsPerSection))
	}
	sb.WriteString("\nKeep all text simple and avoid any special characters or formatting.\n")
	sb.WriteString("Respond with ONLY the JSON object, nothing else.")

	return Prompt{
		System: systemInstruction,
		User:   sb.String(),
	}
}
