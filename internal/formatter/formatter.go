// Package formatter renders pruning reports.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formatter renders reports
type Formatter interface {
	Format(reports []catalog.Report) error
}

// New returns the single-output formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'json')", format)
	}
}
