package llm

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoObject is returned when model output holds no JSON object.
var ErrNoObject = errors.New("no JSON object found in model output")

// ParseObject extracts a JSON object from model output. It accepts bare JSON,
// fenced code blocks, and an object surrounded by prose.
func ParseObject(text string) (gjson.Result, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 {
			cleaned = cleaned[nl+1:]
		}
		cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))
	}
	if gjson.Valid(cleaned) {
		if r := gjson.Parse(cleaned); r.IsObject() {
			return r, nil
		}
	}

	start, end := strings.IndexByte(cleaned, '{'), strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return gjson.Result{}, ErrNoObject
	}
	block := cleaned[start : end+1]
	if !gjson.Valid(block) {
		return gjson.Result{}, ErrNoObject
	}
	return gjson.Parse(block), nil
}
