package extractor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/docchat/docchat-go/internal/domain/faults"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtract_Txt(t *testing.T) {
	e := NewFileExtractor(testLogger())

	text, err := e.Extract([]byte("plain text content"), ".txt")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if text != "plain text content" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtract_ExtensionCaseInsensitive(t *testing.T) {
	e := NewFileExtractor(testLogger())

	if _, err := e.Extract([]byte("x"), ".TXT"); err != nil {
		t.Errorf("uppercase extension should be accepted: %v", err)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := NewFileExtractor(testLogger())

	for _, ext := range []string{".docx", ".md", "", ".exe"} {
		_, err := e.Extract([]byte("x"), ext)
		if !faults.IsKind(err, faults.KindInput) {
			t.Errorf("extension %q: expected input fault, got %v", ext, err)
		}
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := NewFileExtractor(testLogger())

	_, err := e.Extract([]byte("definitely not a pdf"), ".pdf")
	if err == nil {
		t.Fatal("expected error for corrupt PDF bytes")
	}
	if !faults.IsKind(err, faults.KindInput) {
		t.Errorf("expected input fault, got %v", err)
	}
}

func TestSupportedExtensions(t *testing.T) {
	e := NewFileExtractor(testLogger())

	exts := e.SupportedExtensions()
	if len(exts) != 2 {
		t.Fatalf("expected 2 extensions, got %v", exts)
	}
}
