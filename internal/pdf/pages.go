package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	rpdf "rsc.io/pdf"
)

func init() {
	// keep pdfcpu from creating a config dir under $HOME
	model.ConfigPath = "disable"
}

// Counter reads the page tree of a PDF file.
type Counter struct{}

// CountPages implements the page counting contract used by the extraction orchestrator.
func (Counter) CountPages(path string) (int, error) {
	return CountPages(path)
}

// CountPages returns the number of pages in the PDF at path. The lightweight
// rsc.io/pdf reader is tried first; files it cannot parse (object streams,
// damaged xref tables) are handed to pdfcpu before giving up.
func CountPages(path string) (int, error) {
	n, err := readerPageCount(path)
	if err == nil {
		return n, nil
	}
	n, fallbackErr := api.PageCountFile(path)
	if fallbackErr == nil {
		return n, nil
	}
	return 0, fmt.Errorf("read page tree of %s: %w", path, errors.Join(err, fallbackErr))
}

func readerPageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	doc, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		return 0, err
	}
	return doc.NumPage(), nil
}
