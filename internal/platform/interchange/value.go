// Package interchange implements the text interchange format used on the
// HTTP boundary: a small JSON-compatible value model, an encoder driven by
// explicit per-type field lists, and a lenient decoder for flat objects.
package interchange

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union over null, boolean, number, string, list and
// object. The zero Value is null. Numbers keep their literal text so that
// decimals such as 225.50 are written exactly as produced.
type Value struct {
	kind    Kind
	boolean bool
	text    string
	items   []Value
	members []Member
}

// Member is a single key/value pair of an object. Objects preserve member
// order.
type Member struct {
	Key   string
	Value Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

func Int(n int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)} }

func Uint(n uint64) Value { return Value{kind: KindNumber, text: strconv.FormatUint(n, 10)} }

// Float encodes f in its shortest exact decimal form. NaN and infinities
// have no textual number form and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Number wraps an already formatted numeric literal.
func Number(literal string) Value { return Value{kind: KindNumber, text: literal} }

func String(s string) Value { return Value{kind: KindString, text: s} }

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, items: items}
}

func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

// M is shorthand for building an object member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the contents of a string or the literal of a number. It is
// empty for every other kind.
func (v Value) Text() string { return v.text }

// Truth returns the boolean payload; false for non-boolean kinds.
func (v Value) Truth() bool { return v.boolean }

func (v Value) Items() []Value { return v.items }

func (v Value) Members() []Member { return v.members }

// Get returns the first member of an object with the given key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// String renders the value in interchange text form.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolean {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(v.text)
	case KindString:
		b.WriteByte('"')
		b.WriteString(Escape(v.text))
		b.WriteByte('"')
	case KindList:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(Escape(m.Key))
			b.WriteString(`":`)
			m.Value.write(b)
		}
		b.WriteByte('}')
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Escape escapes backslash, double quote, newline, carriage return and tab.
// Other control characters are passed through unchanged.
func Escape(s string) string {
	return escaper.Replace(s)
}
