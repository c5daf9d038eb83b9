package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
)

// RepairJSON recovers a parseable JSON document from raw model output. It
// tries, in order: the output as-is, markdown fence stripping, the first
// top-level bracket span, and truncation repair (closing unterminated strings
// and brackets). When nothing yields valid JSON it returns a malformed-output
// error carrying a snippet of the raw text.
func RepairJSON(raw string) ([]byte, error) {
	content := extractJSON(raw)
	if content != "" && json.Valid([]byte(content)) {
		return []byte(content), nil
	}

	if span := bracketSpan(content); span != "" {
		if json.Valid([]byte(span)) {
			return []byte(span), nil
		}
		if repaired := closeTruncated(span); json.Valid([]byte(repaired)) {
			return []byte(repaired), nil
		}
	}

	return nil, apperrors.ErrMalformedOutput(fmt.Errorf("unrecoverable model output: %q", snippet(raw, 120)))
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// bracketSpan returns the outermost {...} or [...] span found in the text.
// When the opening bracket never closes, the span runs to the end of the text
// so truncation repair can finish the job.
func bracketSpan(content string) string {
	objStart := strings.Index(content, "{")
	arrStart := strings.Index(content, "[")

	start := objStart
	closer := byte('}')
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start = arrStart
		closer = ']'
	}
	if start == -1 {
		return ""
	}

	if end := strings.LastIndexByte(content, closer); end > start {
		return content[start : end+1]
	}
	return content[start:]
}

// closeTruncated appends the closers a truncated JSON document is missing: an
// unterminated string is closed first, a trailing comma or colon is dropped,
// then open brackets are closed innermost-first.
func closeTruncated(content string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := content
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	out = strings.TrimRight(out, " \t\n\r")
	trimmed := strings.TrimRight(out, ",:")
	if trimmed != out {
		// A dangling "key": with no value cannot stand; drop the key too.
		if strings.HasSuffix(out, ":") {
			if idx := strings.LastIndex(trimmed, `"`); idx != -1 {
				if open := strings.LastIndex(trimmed[:idx], `"`); open != -1 {
					trimmed = strings.TrimRight(trimmed[:open], " \t\n\r")
					trimmed = strings.TrimRight(trimmed, ",")
				}
			}
		}
		out = trimmed
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			out += "}"
		} else {
			out += "]"
		}
	}
	return out
}

func snippet(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
