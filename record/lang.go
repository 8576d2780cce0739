package record

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLang maps two letter language suffix of the tag to ISO 639
// alpha-3 code. Suffixes which are not known languages (country codes, for
// example) are returned unchanged.
func NormalizeLang(suffix string) string {
	base, err := language.ParseBase(strings.ToLower(suffix))
	if err != nil {
		return suffix
	}
	if iso3 := base.ISO3(); len(iso3) == 3 && iso3 != "und" {
		return iso3
	}
	return suffix
}
