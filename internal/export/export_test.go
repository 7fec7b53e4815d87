package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

const sampleText = "[00:00 - 00:05] [Speaker 1]: Hello & welcome.\n\n[00:06 - 00:10] [Speaker 2]: Thanks <for> having me."

func TestRender_TXT(t *testing.T) {
	out, err := Render(sampleText, FormatTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != sampleText {
		t.Error("txt export must be the canonical text unchanged")
	}
}

func TestRender_DOCX(t *testing.T) {
	out, err := Render(sampleText, FormatDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// DOCX is a zip container, starts with PK
	if len(out) < 4 || out[0] != 'P' || out[1] != 'K' {
		t.Error("expected zip container magic")
	}
}

func TestRender_ODT(t *testing.T) {
	out, err := Render(sampleText, FormatODT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}

	if len(r.File) == 0 || r.File[0].Name != "mimetype" {
		t.Fatal("mimetype must be the first entry")
	}
	if r.File[0].Method != zip.Store {
		t.Error("mimetype must be stored uncompressed")
	}

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{"mimetype", "META-INF/manifest.xml", "content.xml", "meta.xml", "styles.xml"} {
		if !names[want] {
			t.Errorf("missing entry %s", want)
		}
	}

	content := readZipEntry(t, r, "content.xml")
	if !strings.Contains(content, "[00:00 - 00:05] [Speaker 1]: Hello &amp; welcome.") {
		t.Errorf("expected escaped paragraph text, got %q", content)
	}
	if !strings.Contains(content, "&lt;for&gt;") {
		t.Error("expected angle brackets to be escaped")
	}
	if got := strings.Count(content, "<text:p>"); got != 2 {
		t.Errorf("expected 2 paragraphs, got %d", got)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(sampleText, Format("pdf"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatDOCX, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{FormatODT, "application/vnd.oasis.opendocument.text"},
		{FormatTXT, "text/plain; charset=utf-8"},
		{Format("pdf"), "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := tt.format.ContentType(); got != tt.want {
			t.Errorf("ContentType(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestSplitParagraphs_EmptyText(t *testing.T) {
	paras := splitParagraphs("")
	if len(paras) != 1 {
		t.Fatalf("expected one empty paragraph, got %d", len(paras))
	}
}

func readZipEntry(t *testing.T, r *zip.Reader, name string) string {
	t.Helper()
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}
