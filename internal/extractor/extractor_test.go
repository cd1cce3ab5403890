package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractText(t *testing.T) {
	path := writeTemp(t, "doc.txt", "The capital of France is Paris.")
	got, err := New().Extract(path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got != "The capital of France is Paris." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtractEmptyText(t *testing.T) {
	path := writeTemp(t, "empty.txt", "   \n\t ")
	_, err := New().Extract(path)
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Extract() error = %v, want ErrNoText", err)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "doc.exe", "binary")
	_, err := New().Extract(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Extract() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	slide, err := zw.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := slide.Write([]byte(`<p:sld><a:t>Paris is the capital</a:t><a:t>of France.</a:t></p:sld>`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := New().Extract(path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !strings.Contains(got, "Paris is the capital") || !strings.Contains(got, "of France.") {
		t.Errorf("Extract() = %q, missing slide text", got)
	}
	if strings.Contains(got, "<a:t>") {
		t.Errorf("Extract() = %q, markup not stripped", got)
	}
}

func TestExtractPDFUnreadableStream(t *testing.T) {
	data := []byte("this is not a pdf")
	_, err := New().ExtractPDF(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Error("ExtractPDF() accepted a non-PDF byte stream")
	}
}

func TestExtractMarkdownStripsFormatting(t *testing.T) {
	path := writeTemp(t, "doc.md", "# Geography\n\nThe **capital** of France is *Paris*.\n")
	got, err := New().Extract(path)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	for _, want := range []string{"Geography", "capital", "Paris."} {
		if !strings.Contains(got, want) {
			t.Errorf("Extract() = %q, missing %q", got, want)
		}
	}
	for _, bad := range []string{"#", "*"} {
		if strings.Contains(got, bad) {
			t.Errorf("Extract() = %q, markdown syntax %q not stripped", got, bad)
		}
	}
}
