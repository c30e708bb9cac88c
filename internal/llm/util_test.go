package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json untouched", `{"a":1}`, `{"a":1}`},
		{"fence with language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without language tag", "```\n[1,2]\n```", `[1,2]`},
		{"surrounding whitespace", "  \n```json\n{}\n```  ", `{}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty input", "", ""},
		{"fence glued to payload", "```json{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
