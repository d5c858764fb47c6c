package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// CleanJSONBlock recovers the JSON payload from a model reply. Markdown fences
// are stripped first; if the remainder is still not valid JSON, the longest
// valid object or array found in it is returned. Text with no JSON value is
// returned trimmed but otherwise unchanged so the caller's validation reports it.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))
	if gjson.Valid(text) {
		return text
	}
	if v, ok := embeddedJSON(text); ok {
		return v
	}
	return text
}

// stripFence removes a ``` wrapper and its optional language tag.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		tag := strings.TrimSpace(text[:nl])
		if tag == "" || !strings.ContainsAny(tag, " {[") {
			text = text[nl+1:]
		}
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// embeddedJSON finds the first opening bracket that begins a valid value,
// preferring the farthest matching close so nested values stay whole.
func embeddedJSON(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		open := text[start]
		if open != '{' && open != '[' {
			continue
		}
		closer := byte('}')
		if open == '[' {
			closer = ']'
		}
		for end := strings.LastIndexByte(text, closer); end > start; end = strings.LastIndexByte(text[:end], closer) {
			if candidate := text[start : end+1]; gjson.Valid(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}
