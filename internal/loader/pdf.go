package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/kotae-ai/kotae/internal/models"
)

// loadPDF parses content into one document per non-empty page, so citations
// can point at page granularity.
func loadPDF(path string, content []byte) ([]models.Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	docs := make([]models.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		if len(text) == 0 {
			continue
		}
		docs = append(docs, models.Document{
			Text:       text,
			SourcePath: path,
			Format:     models.FormatPDF,
			Page:       i,
		})
	}
	return docs, nil
}
