package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
)

const maxStars = 5

var severityColors = map[models.Severity]*color.Color{
	models.SeverityHigh:   color.New(color.FgRed, color.Bold),
	models.SeverityMedium: color.New(color.FgYellow, color.Bold),
	models.SeverityLow:    color.New(color.FgCyan),
}

// PrintReview renders a review for the terminal.
func PrintReview(w io.Writer, repo string, result models.ReviewResult, t *i18n.Translations) {
	PrintSectionBanner(w, t.GetMessage("review_heading", 0, map[string]interface{}{"Repo": repo}))

	if result.Truncated {
		PrintWarning(w, t.GetMessage("truncated_warning", 0, nil))
	}
	PrintInfo(w, t.GetMessage("files_included", result.IncludedFiles, map[string]interface{}{
		"Count": result.IncludedFiles,
		"Bytes": result.TotalBytes,
	}))

	if result.RawText != nil {
		_, _ = fmt.Fprintf(w, "\n%s\n", Warning.Sprint(t.GetMessage("raw_reply_label", 0, nil)))
		_, _ = fmt.Fprintln(w, *result.RawText)
		return
	}

	_, _ = fmt.Fprintf(w, "\n%s %s\n", Accent.Sprint(t.GetMessage("rating_label", 0, nil)+":"), stars(result.Rating))

	if result.Summary != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", Info.Sprint(t.GetMessage("summary_label", 0, nil)), result.Summary)
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(t.GetMessage("findings_label", 0, nil)))
	if len(result.Findings) == 0 {
		_, _ = fmt.Fprintf(w, "   %s\n", Dim.Sprint(t.GetMessage("no_findings", 0, nil)))
	}
	for _, f := range result.Findings {
		printFinding(w, f)
	}

	if result.Conclusion != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", Info.Sprint(t.GetMessage("conclusion_label", 0, nil)), result.Conclusion)
	}

	if len(result.FilesFound) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", Dim.Sprint(t.GetMessage("files_label", 0, nil)))
		for _, file := range result.FilesFound {
			_, _ = fmt.Fprintf(w, "   • %s\n", file)
		}
	}
}

func printFinding(w io.Writer, f models.Finding) {
	c, ok := severityColors[f.Severity]
	if !ok {
		c = Dim
	}

	location := ""
	if f.File != nil {
		location = *f.File
		if f.Line != nil {
			location = fmt.Sprintf("%s:%d", location, *f.Line)
		}
		location = Dim.Sprint(" " + location)
	}

	_, _ = fmt.Fprintf(w, "   %s%s %s\n", c.Sprintf("[%s]", strings.ToUpper(string(f.Severity))), location, f.Issue)
	if f.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "      → %s\n", f.Suggestion)
	}
}

func stars(rating int) string {
	rating = max(0, min(maxStars, rating))
	return Warning.Sprint(strings.Repeat("★", rating)) +
		Dim.Sprint(strings.Repeat("☆", maxStars-rating)) +
		fmt.Sprintf(" (%d/%d)", rating, maxStars)
}
