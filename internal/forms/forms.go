// Package forms reads the text portion of multipart submissions. Partial
// updates only touch fields that were actually sent, so every accessor
// distinguishes an absent key from an empty value.
package forms

import (
	"mime/multipart"
	"strings"
)

// Values wraps multipart form fields keyed by name.
type Values struct {
	fields map[string][]string
}

// FromMultipart builds Values from a parsed multipart form.
func FromMultipart(form *multipart.Form) Values {
	if form == nil {
		return Values{fields: map[string][]string{}}
	}
	return Values{fields: form.Value}
}

// FromMap builds Values from a plain field map, used by tests.
func FromMap(fields map[string][]string) Values {
	if fields == nil {
		fields = map[string][]string{}
	}
	return Values{fields: fields}
}

// Has reports whether the field was sent at all.
func (v Values) Has(key string) bool {
	_, ok := v.fields[key]
	return ok
}

// Text returns the trimmed first value for the key, or nil when absent.
// An empty submitted value yields a pointer to "".
func (v Values) Text(key string) *string {
	raw, ok := v.fields[key]
	if !ok {
		return nil
	}
	value := ""
	if len(raw) > 0 {
		value = strings.TrimSpace(raw[0])
	}
	return &value
}

// List returns the normalized list for the key and whether it was present.
// Clients send list fields either as repeated keys or as one comma-joined
// string; both shapes collapse to a trimmed list with empties dropped, so
// an empty submission becomes an empty list rather than [""].
func (v Values) List(key string) ([]string, bool) {
	raw, ok := v.fields[key]
	if !ok {
		return nil, false
	}
	return NormalizeList(raw), true
}

// Bool coerces the wire encoding of booleans, the literal string "true",
// into a real boolean. Anything else, including "false", is false. Returns
// nil when the field was not sent.
func (v Values) Bool(key string) *bool {
	raw, ok := v.fields[key]
	if !ok {
		return nil
	}
	value := false
	if len(raw) > 0 {
		value = strings.TrimSpace(raw[0]) == "true"
	}
	return &value
}

// NormalizeList flattens form values into a clean list: each element is
// split on commas, entries are whitespace-trimmed, and empty entries are
// dropped. A nil or all-empty input yields an empty, non-nil list.
func NormalizeList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}
