package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/kotae-ai/kotae/internal/models"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// wtTag matches <w:t>text</w:t> including variants with attributes such as
// <w:t xml:space="preserve">.
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// loadDocx extracts the text nodes of an OOXML word-processing document into
// a single document. DOCX is a ZIP containing word/document.xml; pulling all
// <w:t> inner text keeps content regardless of paragraph or run attributes.
func loadDocx(path string, content []byte) ([]models.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("load DOCX: not a zip: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("load DOCX: open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		_, readErr := buf.ReadFrom(rc)
		_ = rc.Close()
		if readErr != nil {
			return nil, fmt.Errorf("load DOCX: read %s: %w", f.Name, readErr)
		}
		docXML = buf.Bytes()
		break
	}
	if docXML == nil {
		return nil, fmt.Errorf("load DOCX: %s not found", docxDocumentXMLPath)
	}

	parts := wtTag.FindAllStringSubmatch(string(docXML), -1)
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(p[1]))
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, nil
	}
	return []models.Document{{
		Text:       text,
		SourcePath: path,
		Format:     models.FormatDocx,
	}}, nil
}
