package loader

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/kotae-ai/kotae/internal/models"
)

// loadPlain decodes content into a single text document. Valid UTF-8 is used
// as-is; otherwise the charset is auto-detected and decoded, with a
// replacement-character fallback when detection or decoding fails.
func loadPlain(path string, content []byte, format models.Format) ([]models.Document, error) {
	text := decodeText(content)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []models.Document{{
		Text:       text,
		SourcePath: path,
		Format:     format,
	}}, nil
}

func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	if decoded, ok := detectAndDecode(content); ok {
		return decoded
	}
	return strings.ToValidUTF8(string(content), "�")
}

func detectAndDecode(content []byte) (string, bool) {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(content)
	if err != nil {
		return "", false
	}
	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		return "", false
	}
	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}
