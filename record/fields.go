package record

import (
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// Fields is normalized record content. Values are string, []string, nil (for
// elements without text) or Localized. Field "form" always holds Fields.
type Fields map[string]any

// Localized maps normalized language code to string or []string.
type Localized map[string]any

const (
	FormField        = "form"
	IdentifierField  = "identifier"
	AttachmentsField = "attachments"
)

var (
	localizedTag = regexp.MustCompile(`^([A-Za-z_]+)_([A-Z]{2})$`)
	formKey      = regexp.MustCompile(`^form([A-Z][A-Za-z_]+)$`)
)

// Header carries required record values which are taken out of Fields.
type Header struct {
	Released   time.Time
	Identifier string
}

type requiredField struct {
	key string // normalized key
	tag string // source element, for error reporting
}

var (
	releaseDateField = requiredField{key: "date_Released", tag: "Date_Released"}
	idField          = requiredField{key: "iD", tag: "ID"}
	discardedFields  = []requiredField{
		{key: "cR", tag: "CR"},
		{key: "category", tag: "Category"},
		{key: "modified", tag: "Modified"},
	}
)

func uncap(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// Normalize classifies immediate children of the record root into plain and
// localized fields. Root attributes become plain fields. Fields named
// form<Name> are moved under "form" as <name>.
func Normalize(root *etree.Element) Fields {
	form := Fields{}
	fields := Fields{FormField: form}

	for _, attr := range root.Attr {
		fields[attr.FullKey()] = attr.Value
	}

	for _, child := range root.ChildElements() {
		if m := localizedTag.FindStringSubmatch(child.Tag); m != nil {
			target, key := fields, uncap(m[1])
			if fm := formKey.FindStringSubmatch(key); fm != nil {
				target, key = form, uncap(fm[1])
			}
			text := ExtractText(child)
			if isEmptyText(text) {
				text = ""
			}
			loc, ok := target[key].(Localized)
			if !ok {
				loc = Localized{}
				target[key] = loc
			}
			loc[NormalizeLang(m[2])] = text
			continue
		}

		key := uncap(child.Tag)
		if fm := formKey.FindStringSubmatch(key); fm != nil {
			form[uncap(fm[1])] = ExtractText(child)
			continue
		}
		fields[key] = ExtractText(child)
	}
	return fields
}

// clone makes shallow copy of the fields.
func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Extract takes required values out of the fields: release date is parsed
// and removed, record code is renamed to "identifier" and bookkeeping fields
// are dropped. Any of them being absent is an error.
func Extract(f Fields) (Header, Fields, error) {
	var hdr Header

	for _, rf := range append([]requiredField{releaseDateField, idField}, discardedFields...) {
		if _, ok := f[rf.key]; !ok {
			return hdr, nil, &MissingFieldError{Field: rf.tag}
		}
	}

	released, err := dateText(f, releaseDateField)
	if err != nil {
		return hdr, nil, err
	}
	if hdr.Released, err = ParseDate(released); err != nil {
		return hdr, nil, err
	}
	if hdr.Identifier, err = requiredText(f, idField); err != nil {
		return hdr, nil, err
	}

	out := f.clone()
	delete(out, releaseDateField.key)
	delete(out, idField.key)
	for _, rf := range discardedFields {
		delete(out, rf.key)
	}
	out[IdentifierField] = hdr.Identifier
	return hdr, out, nil
}

func requiredText(f Fields, rf requiredField) (string, error) {
	s, ok := f[rf.key].(string)
	if !ok || len(s) == 0 {
		return "", &InvalidFieldError{Field: rf.tag, Value: f[rf.key]}
	}
	return s, nil
}

// dateText accepts element without text so that it is reported as bad date.
func dateText(f Fields, rf requiredField) (string, error) {
	switch v := f[rf.key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", &InvalidFieldError{Field: rf.tag, Value: f[rf.key]}
}

// ParseDate parses calendar date in YYYY-MM-DD form, month and day may omit
// leading zero.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return time.Time{}, &DateError{Value: s, Err: err}
	}
	return t, nil
}
