package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// MultiFileFormatter writes one report file per attribute plus a summary
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text", "markdown" or "json"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the reports to multiple files
func (f *MultiFileFormatter) Format(reports []catalog.Report) error {
	if _, err := New(f.OutputFormat, nil); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeSummary(reports); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	for _, report := range reports {
		if err := f.writeReportFile(report); err != nil {
			return fmt.Errorf("failed to write report file for %s: %w", report.AttributeCode, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeSummary(reports []catalog.Report) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_summary"+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Sort attributes alphabetically
	sorted := make([]catalog.Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AttributeCode < sorted[j].AttributeCode
	})

	switch f.OutputFormat {
	case FormatMarkdown:
		_, _ = fmt.Fprintf(file, "# Pruning Summary\n\n")
		_, _ = fmt.Fprintf(file, "Each attribute has a corresponding file: `<attribute_code>%s`\n\n", f.getFileExtension())
		for _, r := range sorted {
			_, _ = fmt.Fprintf(file, "- **%s**: %d unused, %d deleted\n", r.AttributeCode, len(r.UnusedOptionIDs), r.Deleted)
		}
	case FormatJSON:
		return NewJSONFormatter(file).Format(sorted)
	default:
		_, _ = fmt.Fprintf(file, "PRUNING SUMMARY\n")
		_, _ = fmt.Fprintf(file, "Each attribute has a file: <attribute_code>%s\n\n", f.getFileExtension())
		for _, r := range sorted {
			_, _ = fmt.Fprintf(file, "%s: %d unused, %d deleted\n", r.AttributeCode, len(r.UnusedOptionIDs), r.Deleted)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeReportFile(report catalog.Report) error {
	file, err := os.Create(filepath.Join(f.OutputDir, report.AttributeCode+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		// Reuse the markdown report section without the document header
		NewMarkdownFormatter(file).FormatReport(report)
		return nil
	}

	single, err := New(f.OutputFormat, file)
	if err != nil {
		return err
	}
	return single.Format([]catalog.Report{report})
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}
