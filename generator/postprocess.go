package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractMode selects how the JSON payload is located in a model response.
type ExtractMode string

const (
	// ExtractBalanced takes the first balanced top-level object that is valid JSON.
	ExtractBalanced ExtractMode = "balanced"
	// ExtractLenient takes everything from the first '{' to the last '}'.
	ExtractLenient ExtractMode = "lenient"
)

// ParseExtractMode maps a config value onto an ExtractMode.
func ParseExtractMode(s string) (ExtractMode, error) {
	switch ExtractMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExtractBalanced:
		return ExtractBalanced, nil
	case ExtractLenient:
		return ExtractLenient, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q (want %q or %q)", s, ExtractBalanced, ExtractLenient)
	}
}

// ExtractJSON 从模型原始返回中取出候选 JSON。
func ExtractJSON(raw string, mode ExtractMode) (string, error) {
	text := strings.TrimSpace(raw)
	if mode == ExtractLenient {
		return extractLenient(text), nil
	}
	return extractBalanced(text)
}

func extractLenient(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

func extractBalanced(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", ErrNoJSONObject
	}
	var lastErr error
	for start != -1 {
		if end, ok := matchBrace(text, start); ok {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
			lastErr = fmt.Errorf("invalid JSON object at offset %d", start)
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrUnbalancedJSON
}

// matchBrace returns the index of the '}' closing the '{' at start, skipping
// braces that appear inside string literals.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// ParseStrategy 把 JSON 对象解码为 StrategyResult，这里不检查各部分是否齐全。
func ParseStrategy(payload string) (StrategyResult, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "{") {
		return StrategyResult{}, ErrNoJSONObject
	}
	var res StrategyResult
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := dec.Decode(&res); err != nil {
		return StrategyResult{}, err
	}
	if dec.More() {
		return StrategyResult{}, fmt.Errorf("unexpected data after JSON object")
	}
	return res, nil
}

// CheckShape 返回第一个缺失的部分（如有）。
func CheckShape(res StrategyResult) error {
	if missing := res.Missing(); len(missing) > 0 {
		return &MissingSectionError{Section: missing[0]}
	}
	return nil
}
