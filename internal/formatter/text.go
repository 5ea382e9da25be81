package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// TextFormatter formats reports as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the reports in compact text format
func (f *TextFormatter) Format(reports []catalog.Report) error {
	for i, report := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between attributes
		}

		if err := f.formatReport(report); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatReport(r catalog.Report) error {
	_, err := fmt.Fprintf(f.writer, "ATTRIBUTE %s (id %d)\n", r.AttributeCode, r.AttributeID)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(f.writer, "  defined options: %d\n", r.DefinedCount)
	_, _ = fmt.Fprintf(f.writer, "  referenced options: %d\n", r.ReferencedCount)

	if len(r.UnusedOptionIDs) > 0 {
		_, _ = fmt.Fprintf(f.writer, "  unused options: %d (%s)\n", len(r.UnusedOptionIDs), joinIDs(r.UnusedOptionIDs))
	} else {
		_, _ = fmt.Fprintln(f.writer, "  unused options: 0")
	}

	if r.DryRun {
		_, _ = fmt.Fprintln(f.writer, "  deleted: 0 (dry run)")
	} else {
		_, _ = fmt.Fprintf(f.writer, "  deleted: %d\n", r.Deleted)
	}

	return nil
}

func joinIDs(ids []catalog.OptionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
