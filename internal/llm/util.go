package llm

import "strings"

// CleanJSONBlock strips markdown code fences from a model response. Models
// sometimes wrap JSON in ``` fences even when the response MIME type asks for
// raw JSON.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a leading language tag such as "json".
	text = strings.TrimPrefix(text, "json")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
