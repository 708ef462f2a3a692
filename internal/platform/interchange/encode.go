package interchange

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Field is one named entry of a record's field list.
type Field struct {
	Name  string
	Value any
}

// Record is implemented by domain types that can be encoded as objects.
// Fields returns the field list in wire order. A field whose value is
// absent (nil, a nil pointer, a nil slice or a null Value) is left out of
// the encoded object entirely.
type Record interface {
	Fields() []Field
}

// Labeled is implemented by enumerated values. They encode as their
// lower-cased label.
type Labeled interface {
	Label() string
}

// Marshal encodes v and renders it as text.
func Marshal(v any) string {
	return Encode(v).String()
}

// Encode converts v into a Value based on its runtime shape.
//
// A nil value, a nil pointer or a nil record encodes as null. Slices and
// arrays become lists, including nil slices which encode as an empty list.
// Maps keyed by strings become objects with keys in sorted order. Anything
// else that is not understood is encoded as its fmt representation.
func Encode(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case Decimal:
		return Number(x.String())
	case Date:
		return String(x.String())
	case TimeOfDay:
		return String(x.String())
	case DateTime:
		return String(x.String())
	case time.Time:
		return String(DateTimeOf(x).String())
	case []string:
		items := make([]Value, len(x))
		for i, s := range x {
			items[i] = String(s)
		}
		return List(items...)
	case []Value:
		return List(x...)
	case Record:
		if isNil(x) {
			return Null()
		}
		return encodeRecord(x)
	case Labeled:
		if isNil(x) {
			return Null()
		}
		return String(strings.ToLower(x.Label()))
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeRecord(r Record) Value {
	fields := r.Fields()
	members := make([]Member, 0, len(fields))
	for _, f := range fields {
		if absent(f.Value) {
			continue
		}
		members = append(members, Member{Key: f.Name, Value: Encode(f.Value)})
	}
	return Object(members...)
}

func encodeReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return Encode(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = Encode(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			elem := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			members = append(members, Member{Key: k, Value: Encode(elem.Interface())})
		}
		return Object(members...)
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.Invalid:
		return Null()
	}
	return String(fmt.Sprint(rv.Interface()))
}

// absent reports whether a record field should be omitted.
func absent(v any) bool {
	if v == nil {
		return true
	}
	if val, ok := v.(Value); ok {
		return val.IsNull()
	}
	return isNil(v)
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
