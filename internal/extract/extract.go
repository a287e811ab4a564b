// Package extract reads document text from PDF and plain-text files.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for file types that cannot be read.
var ErrUnsupported = errors.New("unsupported document type")

// Document is the text of one file.
type Document struct {
	Path  string
	Text  string
	Pages int
}

// Words counts whitespace-delimited words in the extracted text.
func (d Document) Words() int { return len(strings.Fields(d.Text)) }

// File extracts text from a .pdf, .txt or .md file.
func File(ctx context.Context, path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(ctx, path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("read %s: %w", path, err)
		}
		return Document{Path: path, Text: string(data), Pages: 1}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// readPDF joins page texts with newlines. Pages that fail to extract are skipped.
func readPDF(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", path, err)
	}
	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse PDF: %w", err)
	}

	total := reader.NumPage()
	var b strings.Builder
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return Document{Path: path, Text: b.String(), Pages: total}, nil
}
