package record

import (
	"sort"
	"strings"
)

// ListFields are always represented as sequences regardless of how many
// values record provides.
var ListFields = []string{
	"relevantPublications",
	"fieldOfApplication",
	"function",
	"geometricForm",
	"relevantTCs",
	"replacing",
	"authors",
}

const (
	descriptionField = "description"
	remarksField     = "remarks"
	keywordsField    = "keywords"
)

// ToList coerces extracted value to sequence. Non-empty string becomes single
// element list, nil and empty values become empty list. Localized values are
// flattened in language code order.
func ToList(v any) []string {
	switch v := v.(type) {
	case string:
		if len(v) == 0 {
			return []string{}
		}
		return []string{v}
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case Localized:
		langs := make([]string, 0, len(v))
		for lang := range v {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		out := []string{}
		for _, lang := range langs {
			out = append(out, ToList(v[lang])...)
		}
		return out
	}
	return []string{}
}

// CoerceLists returns fields with every ListFields entry present as a
// sequence.
func CoerceLists(f Fields) Fields {
	out := f.clone()
	for _, name := range ListFields {
		out[name] = ToList(f[name])
	}
	return out
}

// JoinText collapses per language sequences of description and remarks into
// single strings and makes every keywords entry a sequence.
func JoinText(f Fields) Fields {
	out := f.clone()
	for _, name := range []string{descriptionField, remarksField} {
		if loc, ok := f[name].(Localized); ok {
			out[name] = mapLocalized(loc, joinText)
		}
	}
	if loc, ok := f[keywordsField].(Localized); ok {
		out[keywordsField] = mapLocalized(loc, func(v any) any { return ToList(v) })
	}
	return out
}

func mapLocalized(loc Localized, fn func(any) any) Localized {
	out := make(Localized, len(loc))
	for lang, v := range loc {
		out[lang] = fn(v)
	}
	return out
}

// joinText joins sequence with spaces. Text fully wrapped in square brackets
// is a legacy placeholder marker and loses one outer pair of brackets.
func joinText(v any) any {
	list, ok := v.([]string)
	if !ok {
		return v
	}
	s := strings.TrimSpace(strings.Join(list, " "))
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// TakeAttachments removes list of referenced attachment file names from the
// fields.
func TakeAttachments(f Fields) ([]string, Fields) {
	out := f.clone()
	delete(out, AttachmentsField)
	return ToList(f[AttachmentsField]), out
}
