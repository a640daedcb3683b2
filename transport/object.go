package transport

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/Jeffail/gabs/v2"
)

// Kind tags the JSON type held by an Object.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}

// Object is a read-only view over decoded JSON. Lookups never return nil:
// a missing key or index yields a Null object so calls can be chained, e.g.
//
//	obj.Get("search_metadata").Get("id").AsString()
type Object struct {
	c *gabs.Container
}

func NewObject(data any) *Object {
	return &Object{c: gabs.Wrap(data)}
}

func wrap(c *gabs.Container) *Object {
	if c == nil {
		return NewObject(nil)
	}
	return &Object{c: c}
}

func (o *Object) Value() any {
	if o == nil || o.c == nil {
		return nil
	}
	return o.c.Data()
}

func (o *Object) Kind() Kind {
	switch o.Value().(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, float32, int, int64, int32, uint64, json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	default:
		return KindNull
	}
}

func (o *Object) IsNull() bool {
	return o.Kind() == KindNull
}

// Get returns the field named key of a mapping.
func (o *Object) Get(key string) *Object {
	m, ok := o.Value().(map[string]any)
	if !ok {
		return NewObject(nil)
	}
	return NewObject(m[key])
}

func (o *Object) Has(key string) bool {
	m, ok := o.Value().(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// Index returns element i of a sequence.
func (o *Object) Index(i int) *Object {
	s, ok := o.Value().([]any)
	if !ok || i < 0 || i >= len(s) {
		return NewObject(nil)
	}
	return NewObject(s[i])
}

// Path resolves a dot separated path through nested mappings, such as
// "search_metadata.status".
func (o *Object) Path(path string) *Object {
	if o == nil || o.c == nil {
		return NewObject(nil)
	}
	return wrap(o.c.Path(path))
}

// Len reports the number of elements of a sequence or fields of a mapping.
func (o *Object) Len() int {
	switch v := o.Value().(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return 0
	}
}

// Keys returns the sorted field names of a mapping.
func (o *Object) Keys() []string {
	if o.Kind() != KindMapping {
		return nil
	}
	children := o.c.ChildrenMap()
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Children returns the elements of a sequence in order.
func (o *Object) Children() []*Object {
	s, ok := o.Value().([]any)
	if !ok {
		return nil
	}
	out := make([]*Object, len(s))
	for i, v := range s {
		out[i] = NewObject(v)
	}
	return out
}

func (o *Object) AsString() (string, bool) {
	s, ok := o.Value().(string)
	return s, ok
}

func (o *Object) AsBool() (bool, bool) {
	b, ok := o.Value().(bool)
	return b, ok
}

func (o *Object) AsFloat() (float64, bool) {
	switch v := o.Value().(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt truncates toward zero. Numbers outside the int64 range report false.
func (o *Object) AsInt() (int64, bool) {
	switch v := o.Value().(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := o.AsFloat()
	if !ok || math.IsNaN(f) || f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// String returns the JSON encoding of the value.
func (o *Object) String() string {
	if o == nil || o.c == nil {
		return "null"
	}
	return o.c.String()
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil || o.c == nil {
		return []byte("null"), nil
	}
	return o.c.MarshalJSON()
}
