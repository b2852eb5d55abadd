package loader

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// pageTexts decodes the text of pages 1..pageCount through each page's font
// encodings and ToUnicode maps. Pages the reader cannot decode come back
// empty and are reported through onError.
func pageTexts(data []byte, pageCount int, onError func(page int, err error)) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	texts := make([]string, pageCount)
	for i := 1; i <= pageCount && i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		raw, err := p.GetPlainText(nil)
		if err != nil {
			onError(i, err)
			continue
		}
		texts[i-1] = normalizeText(raw)
	}
	return texts, nil
}

// normalizeText drops invalid UTF-8 and unmapped glyphs, collapses runs of
// spaces and removes blank lines.
func normalizeText(raw string) string {
	raw = strings.ToValidUTF8(raw, "")
	raw = strings.ReplaceAll(raw, string(utf8.RuneError), " ")

	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
