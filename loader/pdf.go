// Package loader extracts text from source files for ingestion.
package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the extracted text of one PDF page. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// ExtractPDFPages extracts the plain text of every page of a PDF file.
// Pages without extractable text are dropped, so the returned page numbers
// can have gaps.
func ExtractPDFPages(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var pages []Page
	for number := 1; number <= reader.NumPage(); number++ {
		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d of %s: %w", number, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{Number: number, Text: text})
	}

	return pages, nil
}

// ExtractPDFText extracts the text of the whole PDF as one string with
// pages separated by blank lines.
func ExtractPDFText(path string) (string, error) {
	pages, err := ExtractPDFPages(path)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		texts = append(texts, page.Text)
	}
	return strings.Join(texts, "\n\n"), nil
}
