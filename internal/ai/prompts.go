package ai

import (
	"bytes"
	"fmt"
	"text/template"
	"unicode/utf8"

	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/selection"
)

// TruncationMarker is appended to repository contents cut at the prompt
// character limit.
const TruncationMarker = "... [truncated] ..."

const systemInstruction = `You are a senior software engineer reviewing take-home coding assignments.
You answer with a single JSON object and nothing else.`

const reviewPromptTemplate = `You are reviewing a coding assignment submitted by a {{.Level}}-level candidate.
Provide a thorough analysis of the repository and assess the code quality based on industry best practices.
Check how well the submission matches the assignment description.

## Assignment
- Description: {{.Assignment}}
- Candidate level: {{.Level}}
{{if .Dependencies}}
## Declared dependencies
{{range .Dependencies}}- {{.Name}}{{if .Version}} {{.Version}}{{end}} ({{.Manager}}{{if .Dev}}, dev{{end}})
{{end}}{{end}}
## Instructions
1. Identify and list the files in the repository.
2. Analyze the code for the following criteria:
   - Code organization and structure
   - Readability (names, comments and documentation)
   - Code quality (best practices, performance, modularity)
   - Error handling and edge cases
   - Use of testing (unit or integration tests)
3. Identify potential issues or areas for improvement. Point at a file and line when you can.
4. Give a rating from 0 to 5, calibrated to a {{.Level}}-level candidate.
5. Write a conclusion summarizing the overall evaluation.

## Output format
Respond with exactly one JSON object, without markdown fences or any text around it, matching this schema:
{
  "files_found": ["<path>"],
  "rating_out_of_5": <integer from 0 to 5>,
  "summary": "<short overall assessment>",
  "findings": [
    {
      "file": "<path or null>",
      "line": <integer or null>,
      "severity": "low" | "medium" | "high",
      "issue": "<what is wrong>",
      "suggestion": "<how to improve it>"
    }
  ],
  "conclusion": "<final verdict>"
}

## Repository contents
{{.Contents}}

Begin the review.`

// PromptData holds the parameters for template rendering
type PromptData struct {
	Assignment   string
	Level        models.CandidateLevel
	Contents     string
	Dependencies []models.Dependency
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// BuildPrompt assembles the review request for a rendered document. Document
// text longer than maxChars characters is cut and gets TruncationMarker.
func BuildPrompt(assignment string, level models.CandidateLevel, doc models.RenderedDocument, maxChars int) (models.CompletionRequest, error) {
	contents, cut := TruncateContent(selection.FormatDocument(doc), maxChars)

	prompt, err := RenderPrompt("review", reviewPromptTemplate, PromptData{
		Assignment:   assignment,
		Level:        level,
		Contents:     contents,
		Dependencies: doc.Dependencies,
	})
	if err != nil {
		return models.CompletionRequest{}, err
	}

	return models.CompletionRequest{
		SystemInstruction: systemInstruction,
		Prompt:            prompt,
		ContentTruncated:  cut,
	}, nil
}

// TruncateContent cuts text after maxChars runes and appends the marker. The
// bool is true when something was cut.
func TruncateContent(text string, maxChars int) (string, bool) {
	if utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}

	cut, n := 0, 0
	for i := range text {
		if n == maxChars {
			cut = i
			break
		}
		n++
	}

	return text[:cut] + "\n" + TruncationMarker, true
}
