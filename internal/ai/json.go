package ai

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/thomas-vilte/matereview/internal/regex"
)

// StripFence removes one markdown code fence wrapping the whole text, with or
// without a language tag.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := regex.MarkdownFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// SanitizeJSON cleans malformed JSON that LLMs sometimes generate,
// such as unescaped newlines within String Literals.
func SanitizeJSON(s string) string {
	return regex.JSONString.ReplaceAllStringFunc(s, func(m string) string {
		m = strings.ReplaceAll(m, "\r", `\r`)
		return strings.ReplaceAll(m, "\n", `\n`)
	})
}

const (
	maxBraceBlocks = 8
	maxBraceScans  = 32
)

// BraceBlocks returns the outermost balanced {...} substrings of text, largest
// first, at most maxBraceBlocks of them. Braces inside JSON strings are
// ignored. An opening brace that never closes is skipped and the scan resumes
// right after it.
func BraceBlocks(text string) []string {
	var blocks []string

	start := strings.IndexByte(text, '{')
	for scans := 0; start >= 0 && len(blocks) < maxBraceBlocks && scans < maxBraceScans; scans++ {
		next := start + 1
		if end := matchBrace(text, start); end >= 0 {
			blocks = append(blocks, text[start:end+1])
			next = end + 1
		}

		i := strings.IndexByte(text[next:], '{')
		if i < 0 {
			break
		}
		start = next + i
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return len(blocks[i]) > len(blocks[j])
	})
	return blocks
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for j := start; j < len(text); j++ {
		c := text[j]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// decodeValue unmarshals text, retrying once with sanitized string literals.
func decodeValue(text string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, true
	}
	if err := json.Unmarshal([]byte(SanitizeJSON(text)), &v); err == nil {
		return v, true
	}
	return nil, false
}
