package formatter

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// JSONFormatter writes reports as an indented JSON array
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the reports as JSON
func (f *JSONFormatter) Format(reports []catalog.Report) error {
	if reports == nil {
		reports = []catalog.Report{}
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
