package selection

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/matereview/internal/models"
)

// NoFilesMarker stands in for the file sections when nothing was selected.
const NoFilesMarker = "(no eligible files matched)"

// FormatDocument renders the document as markdown: a file index followed by
// one fenced block per file.
func FormatDocument(doc models.RenderedDocument) string {
	var sb strings.Builder

	sb.WriteString("# Repository Files\n\n")
	if len(doc.Entries) == 0 {
		sb.WriteString(NoFilesMarker)
		sb.WriteString("\n")
		return sb.String()
	}

	for _, e := range doc.Entries {
		fmt.Fprintf(&sb, "- `%s` (%d bytes)\n", e.Path, e.ByteLength)
	}
	if doc.Truncated {
		fmt.Fprintf(&sb, "\n*(truncated: %d files, %d bytes; limits reached)*\n", doc.FilesIncluded, doc.TotalBytes)
	}

	for _, e := range doc.Entries {
		fence := fenceFor(e.Preview)
		fmt.Fprintf(&sb, "\n## `%s` (%d bytes)\n\n", e.Path, e.ByteLength)
		sb.WriteString(fence)
		sb.WriteString("\n")
		if e.Preview != "" {
			sb.WriteString(e.Preview)
			sb.WriteString("\n")
		}
		sb.WriteString(fence)
		sb.WriteString("\n")
	}

	return sb.String()
}

// fenceFor returns a backtick fence longer than any backtick run in body.
func fenceFor(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
