package sanitizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dotted word", "A.b.C", "abc"},
		{"quoted word and question", `Mary had a "little" lamb?`, "mary had a little lamb?"},
		{
			"code fence lines vanish",
			"Enter the following command:\n```\necho \"Hello, World!\"\n```",
			"enter the following command\necho hello world",
		},
		{
			"indented block",
			"\n            This is an example of text with a:\n\n            ```\n            code block\n            ```\n        ",
			"this is an example of text with a\ncode block",
		},
		{"contraction", "Don't stop", "dont stop"},
		{"mark only kept on last word", "Wait! Really? Yes.", "wait really yes."},
		{"pure punctuation line", "?!\n...\nok", "ok"},
		{"trailing lone mark word", "hello ?", "hello"},
		{"empty middle word", `a "" b`, "a b"},
		{"crlf", "First line.\r\nSecond\r\n", "first line.\nsecond"},
		{"unicode letters", "Ünïcode Straße 42!", "ünïcode straße 42!"},
		{"empty", "", ""},
		{"whitespace only", " \t\n  \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

var corpus = []string{
	"A.b.C",
	`Mary had a "little" lamb?`,
	"# Title\n\n- item one, item two.\n- `code` here!\n\n```go\nfunc main() {}\n```",
	"?? !! .. \n\n   \t",
	"Trailing mark on mid word! then more",
	"ends with ?",
	"Ünïcode — dashes – and “curly” quotes.",
	"line.\n.line\nli.ne.",
	"don't won't can't.",
	"12.5% of 3,000 users!",
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, s := range corpus {
		once := Sanitize(s)
		assert.Equal(t, once, Sanitize(once), "input %q", s)
	}
}

func TestSanitizeNoEmptyLines(t *testing.T) {
	for _, s := range corpus {
		out := Sanitize(s)
		if out == "" {
			continue
		}
		for _, line := range strings.Split(out, "\n") {
			assert.NotEmpty(t, strings.TrimSpace(line), "input %q", s)
			assert.Equal(t, line, strings.TrimSpace(line), "input %q", s)
		}
	}
}

func TestSentenceMarkOnlyAtLineEnd(t *testing.T) {
	for _, s := range corpus {
		for _, line := range strings.Split(Sanitize(s), "\n") {
			for i, r := range line {
				if IsSentenceMark(r) {
					assert.Equal(t, len(line)-utf8.RuneLen(r), i, "mark inside line %q", line)
				}
			}
		}
	}
}
