// Package extractor turns uploaded file bytes into flat text, implementing
// ports.TextExtractor.
package extractor

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docchat/docchat-go/internal/domain/faults"
)

// FileExtractor extracts text from .pdf and .txt files.
type FileExtractor struct {
	logger *slog.Logger
}

// NewFileExtractor creates a new extractor.
func NewFileExtractor(logger *slog.Logger) *FileExtractor {
	return &FileExtractor{logger: logger}
}

// Extract returns the text content of the file. Any extension other than
// .pdf or .txt is rejected before any further processing.
func (e *FileExtractor) Extract(data []byte, extension string) (string, error) {
	switch strings.ToLower(extension) {
	case ".pdf":
		return e.extractPDF(data)
	case ".txt":
		return string(data), nil
	default:
		return "", faults.Input("file type %s is not supported", extension)
	}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *FileExtractor) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

// extractPDF concatenates per-page text in page order, one newline between
// pages.
func (e *FileExtractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", faults.Wrap(faults.KindInput, err, "reading PDF")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", faults.Wrap(faults.KindInput, err, "extracting text from PDF page %d", i)
		}
		if i > 1 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	e.logger.Debug("pdf extracted", "pages", reader.NumPage(), "bytes", sb.Len())
	return sb.String(), nil
}
