// Package response models untyped API envelopes as a tree of tagged values
// and walks them with a small path language ("posts[0]/photos[]/url").
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Object
	Array
	String
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one node of a decoded JSON document.
type Value struct {
	kind Kind
	obj  map[string]Value
	arr  []Value
	str  string // String text, or the literal of a Number.
	b    bool
}

// Parse decodes JSON into a Value. Numbers keep their exact literal.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decoding response: %w", err)
	}
	return FromAny(raw), nil
}

// FromAny converts the output of encoding/json (or hand-built maps and
// slices) into a Value. Unknown types become their fmt text.
func FromAny(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case map[string]any:
		obj := make(map[string]Value, len(v))
		for k, item := range v {
			obj[k] = FromAny(item)
		}
		return Value{kind: Object, obj: obj}
	case []any:
		arr := make([]Value, len(v))
		for i, item := range v {
			arr[i] = FromAny(item)
		}
		return Value{kind: Array, arr: arr}
	case []string:
		arr := make([]Value, len(v))
		for i, item := range v {
			arr[i] = Value{kind: String, str: item}
		}
		return Value{kind: Array, arr: arr}
	case string:
		return Value{kind: String, str: v}
	case json.Number:
		return Value{kind: Number, str: v.String()}
	case int:
		return Value{kind: Number, str: strconv.Itoa(v)}
	case int64:
		return Value{kind: Number, str: strconv.FormatInt(v, 10)}
	case float64:
		return Value{kind: Number, str: strconv.FormatFloat(v, 'f', -1, 64)}
	case bool:
		return Value{kind: Bool, b: v}
	default:
		return Value{kind: String, str: fmt.Sprint(v)}
	}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null or absent.
func (v Value) IsNull() bool { return v.kind == Null }

// Field returns the named member of an object.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.obj[name]
	return f, ok
}

// Has reports whether an object carries the named member.
func (v Value) Has(name string) bool {
	_, ok := v.Field(name)
	return ok
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Len is the element count of an array or member count of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Items returns the elements of an array, or nil.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.arr
}

// Keys returns the sorted member names of an object.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text renders scalars as plain text; ids come back as "123" whether the
// API sent a number or a string. Containers and null render as "".
func (v Value) Text() string {
	switch v.kind {
	case String, Number:
		return v.str
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface converts v back to plain Go values (json.Number for numbers).
func (v Value) Interface() any {
	switch v.kind {
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Interface()
		}
		return out
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case String:
		return v.str
	case Number:
		return json.Number(v.str)
	case Bool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON re-encodes v.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Pretty renders v as indented JSON, sorted by key.
func (v Value) Pretty() string {
	data, err := json.MarshalIndent(v.Interface(), "", "    ")
	if err != nil {
		return fmt.Sprintf("%v", v.Interface())
	}
	return string(data)
}
