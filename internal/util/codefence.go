package util

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// codeFence matches Markdown fence markers such as ``` and ```json,
// together with the newline that follows them.
var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// StripCodeFence removes Markdown code fence markers that models wrap
// around JSON, then trims surrounding whitespace.
func StripCodeFence(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
}

// ParseError reports model output that is not valid JSON.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	snippet := e.Text
	if runes := []rune(snippet); len(runes) > 120 {
		snippet = string(runes[:120]) + "..."
	}
	return fmt.Sprintf("invalid JSON from model (%v): %q", e.Err, snippet)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeJSON strips code fences from text and decodes it into v.
func DecodeJSON(text string, v any) error {
	candidate := StripCodeFence(text)
	if candidate == "" {
		return &ParseError{Text: text, Err: fmt.Errorf("empty response")}
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &ParseError{Text: candidate, Err: err}
	}
	return nil
}
