package ai

import (
	"math"
	"strconv"
	"strings"

	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/regex"
)

const (
	// UnparsedSummary replaces the summary when the reply is not a review object.
	UnparsedSummary = "Could not parse model output as JSON; see raw_text."
	// TruncationNotice prefixes the summary of reviews built from a cut-down repository.
	TruncationNotice = "(Note: analysis truncated due to repository size limits.) "

	maxRating = 5
)

var reviewKeys = []string{"files_found", "rating_out_of_5", "summary", "findings", "conclusion"}

// DecodedReview is the outcome of decoding a model reply: either a
// ParsedReview or an UnparsedReview.
type DecodedReview interface {
	isDecodedReview()
}

type ParsedReview struct {
	FilesFound []string
	Rating     int
	Summary    string
	Findings   []models.Finding
	Conclusion string
}

type UnparsedReview struct {
	RawText string
}

func (ParsedReview) isDecodedReview()   {}
func (UnparsedReview) isDecodedReview() {}

// Provenance is what the interpreter needs to know about how the prompt was
// built.
type Provenance struct {
	Document models.RenderedDocument
	// ContentTruncated is set when the prompt builder cut the contents.
	ContentTruncated bool
}

// Decode reads a model reply. It tries, in order: the reply as JSON (with a
// surrounding code fence removed), a JSON string holding the object, and the
// largest balanced {...} block found in the text.
func Decode(raw string) DecodedReview {
	text := StripFence(raw)

	if review, ok := decodeReview(text); ok {
		return review
	}

	for _, block := range BraceBlocks(text) {
		if review, ok := decodeReview(block); ok {
			return review
		}
	}

	return UnparsedReview{RawText: raw}
}

func decodeReview(text string) (ParsedReview, bool) {
	v, ok := decodeValue(text)
	if !ok {
		return ParsedReview{}, false
	}

	if s, isString := v.(string); isString {
		if v, ok = decodeValue(StripFence(s)); !ok {
			return ParsedReview{}, false
		}
	}

	obj, isObject := v.(map[string]interface{})
	if !isObject || !hasReviewKey(obj) {
		return ParsedReview{}, false
	}

	return ParsedReview{
		FilesFound: stringList(obj["files_found"]),
		Rating:     coerceRating(obj["rating_out_of_5"]),
		Summary:    stringValue(obj["summary"]),
		Findings:   findingList(obj["findings"]),
		Conclusion: stringValue(obj["conclusion"]),
	}, true
}

// Interpret turns a model reply into a review result. It never fails: replies
// that cannot be decoded come back with RawText set.
func Interpret(raw string, prov Provenance) models.ReviewResult {
	var result models.ReviewResult

	switch review := Decode(raw).(type) {
	case ParsedReview:
		result = models.ReviewResult{
			FilesFound: review.FilesFound,
			Rating:     review.Rating,
			Summary:    review.Summary,
			Findings:   review.Findings,
			Conclusion: review.Conclusion,
		}
	case UnparsedReview:
		rawText := review.RawText
		result = models.ReviewResult{
			FilesFound: []string{},
			Summary:    UnparsedSummary,
			Findings:   []models.Finding{},
			RawText:    &rawText,
		}
	}

	result.IncludedFiles = prov.Document.FilesIncluded
	result.TotalBytes = prov.Document.TotalBytes
	result.Truncated = prov.Document.Truncated || prov.ContentTruncated
	if result.Truncated {
		result.Summary = TruncationNotice + result.Summary
	}

	return result
}

func hasReviewKey(obj map[string]interface{}) bool {
	for _, key := range reviewKeys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringList(v interface{}) []string {
	out := []string{}
	items, _ := v.([]interface{})
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// coerceRating accepts numbers and strings such as "4", "4.5" or "4/5",
// rounds them and clamps to 0..5. Anything else is 0.
func coerceRating(v interface{}) int {
	var f float64
	switch r := v.(type) {
	case float64:
		f = r
	case string:
		m := regex.LeadingNumber.FindStringSubmatch(r)
		if m == nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(0, math.Min(maxRating, math.Round(f))))
}

func findingList(v interface{}) []models.Finding {
	findings := []models.Finding{}
	items, _ := v.([]interface{})
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if f, ok := toFinding(obj); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// toFinding rejects elements without a known severity or an issue text.
func toFinding(obj map[string]interface{}) (models.Finding, bool) {
	severity := models.Severity(strings.ToLower(strings.TrimSpace(stringValue(obj["severity"]))))
	switch severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
	default:
		return models.Finding{}, false
	}

	issue := strings.TrimSpace(stringValue(obj["issue"]))
	if issue == "" {
		return models.Finding{}, false
	}

	finding := models.Finding{
		Severity:   severity,
		Issue:      issue,
		Suggestion: stringValue(obj["suggestion"]),
	}

	if file := strings.TrimSpace(stringValue(obj["file"])); file != "" {
		finding.File = &file
	}

	switch line := obj["line"].(type) {
	case float64:
		if line >= 1 && line == math.Trunc(line) {
			n := int(line)
			finding.Line = &n
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && n >= 1 {
			finding.Line = &n
		}
	}

	return finding, true
}
