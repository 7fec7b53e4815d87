// Package export renders the canonical transcript text into downloadable
// document formats: DOCX, ODT and plain text.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Format identifies an export output format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatODT  Format = "odt"
	FormatTXT  Format = "txt"
)

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatODT:
		return "application/vnd.oasis.opendocument.text"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Render produces the document bytes for the canonical transcript text
// in the requested format. Paragraphs are blank-line separated in the
// input and become document paragraphs in the output.
func Render(text string, format Format) ([]byte, error) {
	switch format {
	case FormatDOCX:
		return renderDOCX(text)
	case FormatODT:
		return renderODT(text)
	case FormatTXT:
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func splitParagraphs(text string) []string {
	var out []string
	for _, chunk := range strings.Split(text, "\n\n") {
		out = append(out, strings.TrimSpace(chunk))
	}
	return out
}

// renderDOCX builds the document with godocx. The library only saves to
// a path, so it goes through a temp file.
func renderDOCX(text string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	for _, para := range splitParagraphs(text) {
		p := doc.AddParagraph("")
		p.AddText(para).Font(fontName).Size(fontSize).Color("000000")
	}

	dir, err := os.MkdirTemp("", "export-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "transcript.docx")
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	return os.ReadFile(path)
}
