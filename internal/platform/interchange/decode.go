package interchange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformed is returned by a strict Decoder for text that is not a
	// well-formed object.
	ErrMalformed = errors.New("malformed request body")
	// ErrNested is returned by a strict Decoder when a member holds an
	// object or a list, which the flat decoder cannot represent.
	ErrNested = errors.New("nested values are not supported")
)

// Decode parses a flat object into a mapping of key to string value.
//
// It strips one layer of braces, splits members on commas that are outside
// quoted strings, splits each member on its first colon and strips one
// layer of quotes from key and value. Values are returned verbatim: numbers
// and booleans stay textual and escape sequences are not unescaped.
// Malformed input never fails; members that cannot be split are skipped.
func Decode(text string) map[string]string {
	out := make(map[string]string)
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}
	for _, member := range splitMembers(s) {
		key, value, ok := strings.Cut(member, ":")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.TrimSpace(key), `"`, "")
		out[key] = unquote(strings.TrimSpace(value))
	}
	return out
}

// splitMembers splits s on commas outside double-quoted runs. A quote
// preceded by a backslash does not toggle the quoted state.
func splitMembers(s string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// Decoder decodes request bodies. The zero Decoder is lenient and behaves
// exactly like Decode. A strict Decoder rejects text that is not a
// well-formed flat object before decoding it.
type Decoder struct {
	Strict bool
}

func (d Decoder) Decode(text string) (Body, error) {
	if d.Strict {
		if err := checkFlatObject(text); err != nil {
			return nil, err
		}
	}
	return Body(Decode(text)), nil
}

func checkFlatObject(text string) error {
	if !gjson.Valid(text) {
		return ErrMalformed
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return ErrMalformed
	}
	var nested string
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() || value.IsArray() {
			nested = key.String()
			return false
		}
		return true
	})
	if nested != "" {
		return fmt.Errorf("%w: %q", ErrNested, nested)
	}
	return nil
}

// FieldError describes a missing or unparsable member of a request body.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Key + " " + e.Reason
}

// Body is a decoded request body. Its accessors treat a member whose value
// is the literal null the same as a missing member.
type Body map[string]string

func (b Body) Lookup(key string) (string, bool) {
	v, ok := b[key]
	if !ok || v == "null" {
		return "", false
	}
	return v, true
}

func (b Body) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

// String returns the member value or "" when it is absent.
func (b Body) String(key string) string {
	v, _ := b.Lookup(key)
	return v
}

// Optional returns a pointer to the member value, or nil when absent.
func (b Body) Optional(key string) *string {
	v, ok := b.Lookup(key)
	if !ok {
		return nil
	}
	return &v
}

func (b Body) Require(key string) (string, error) {
	v, ok := b.Lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &FieldError{Key: key, Reason: "is required"}
	}
	return v, nil
}

func (b Body) Int64(key string) (int64, error) {
	v, err := b.Require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, &FieldError{Key: key, Reason: "must be an integer"}
	}
	return n, nil
}

func (b Body) Int(key string) (int, error) {
	n, err := b.Int64(key)
	return int(n), err
}

func (b Body) Decimal(key string) (Decimal, error) {
	v, err := b.Require(key)
	if err != nil {
		return 0, err
	}
	d, err := ParseDecimal(v)
	if err != nil {
		return 0, &FieldError{Key: key, Reason: "must be a decimal amount"}
	}
	return d, nil
}

func (b Body) Date(key string) (Date, error) {
	v, err := b.Require(key)
	if err != nil {
		return Date{}, err
	}
	d, err := ParseDate(v)
	if err != nil {
		return Date{}, &FieldError{Key: key, Reason: "must be a date (YYYY-MM-DD)"}
	}
	return d, nil
}

// OptionalDate returns nil when the member is absent or empty.
func (b Body) OptionalDate(key string) (*Date, error) {
	v, ok := b.Lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := ParseDate(v)
	if err != nil {
		return nil, &FieldError{Key: key, Reason: "must be a date (YYYY-MM-DD)"}
	}
	return &d, nil
}

func (b Body) TimeOfDay(key string) (TimeOfDay, error) {
	v, err := b.Require(key)
	if err != nil {
		return TimeOfDay{}, err
	}
	t, err := ParseTimeOfDay(v)
	if err != nil {
		return TimeOfDay{}, &FieldError{Key: key, Reason: "must be a time (HH:MM)"}
	}
	return t, nil
}

// List splits a comma separated member into trimmed, non-empty items. It
// returns nil when the member is absent.
func (b Body) List(key string) []string {
	v, ok := b.Lookup(key)
	if !ok {
		return nil
	}
	items := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Bool accepts true and false in any case.
func (b Body) Bool(key string) (bool, error) {
	v, err := b.Require(key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &FieldError{Key: key, Reason: "must be true or false"}
}

// NormalizeLabel folds an enumerated label to its wire form: lower case,
// with underscores written as hyphens.
func NormalizeLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

// Label returns the member as one of the allowed labels. Matching is case
// insensitive and accepts "_" for "-".
func (b Body) Label(key string, allowed ...string) (string, error) {
	v, err := b.Require(key)
	if err != nil {
		return "", err
	}
	v = NormalizeLabel(v)
	for _, a := range allowed {
		if v == a {
			return a, nil
		}
	}
	return "", &FieldError{Key: key, Reason: "must be one of " + strings.Join(allowed, ", ")}
}
