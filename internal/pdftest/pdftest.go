// Package pdftest builds small PDF fixtures for tests.
package pdftest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// Write renders a PDF with the given number of pages into dir and returns its
// path. Each page carries the text "Page N".
func Write(t testing.TB, dir string, pages int) string {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 14)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, fmt.Sprintf("Page %d", i))
	}
	path := filepath.Join(dir, fmt.Sprintf("deck-%d.pdf", pages))
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// WriteGarbage writes bytes that are not a PDF and returns the path.
func WriteGarbage(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf at all"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
