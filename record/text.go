package record

import (
	"strings"

	"github.com/beevik/etree"
)

// collapseSpace replaces every run of white space with single space and trims
// the result.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractText returns text content of the element.
//
// When element has <text> children result is []string with one entry per
// child, empty child yields empty string. Otherwise result is element own text as string or nil when element
// has no text at all. White space is always collapsed and trimmed.
func ExtractText(el *etree.Element) any {
	if texts := el.SelectElements("text"); len(texts) > 0 {
		out := make([]string, 0, len(texts))
		for _, t := range texts {
			out = append(out, collapseSpace(t.Text()))
		}
		return out
	}
	if s := el.Text(); len(s) > 0 {
		return collapseSpace(s)
	}
	return nil
}

// isEmptyText reports if extracted value carries nothing.
func isEmptyText(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}
