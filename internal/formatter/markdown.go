package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// MarkdownFormatter formats reports as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the reports in markdown format
func (f *MarkdownFormatter) Format(reports []catalog.Report) error {
	if _, err := fmt.Fprintln(f.writer, "# Unused Attribute Options"); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)

	for _, report := range reports {
		f.formatReport(report)
	}
	return nil
}

// FormatReport formats a single report (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatReport(report catalog.Report) {
	f.formatReport(report)
}

func (f *MarkdownFormatter) formatReport(r catalog.Report) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", r.AttributeCode)

	_, _ = fmt.Fprintf(f.writer, "- **Attribute id:** %d\n", r.AttributeID)
	_, _ = fmt.Fprintf(f.writer, "- **Defined options:** %d\n", r.DefinedCount)
	_, _ = fmt.Fprintf(f.writer, "- **Referenced options:** %d\n", r.ReferencedCount)
	_, _ = fmt.Fprintf(f.writer, "- **Unused options:** %d\n", len(r.UnusedOptionIDs))
	if r.DryRun {
		_, _ = fmt.Fprintln(f.writer, "- **Deleted:** 0, dry run")
	} else {
		_, _ = fmt.Fprintf(f.writer, "- **Deleted:** %d\n", r.Deleted)
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(r.UnusedOptionIDs) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Unused option ids")
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", joinIDs(r.UnusedOptionIDs))
	}
}
