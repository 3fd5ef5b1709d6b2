package object

import "strings"

// Tuple represents an immutable ordered collection of objects.
type Tuple struct {
	Elements []Object
}

func NewTuple(elements []Object) *Tuple {
	return &Tuple{Elements: elements}
}

// EmptyTuple is the shared zero-length tuple. Variadic callables invoked
// with no excess positional arguments receive this exact object.
var EmptyTuple = &Tuple{}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	var out strings.Builder
	out.WriteByte('(')
	for i, el := range t.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(el.Inspect())
	}
	if len(t.Elements) == 1 {
		out.WriteByte(',')
	}
	out.WriteByte(')')
	return out.String()
}
func (t *Tuple) Hash() uint32 {
	h := uint32(1)
	for _, el := range t.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

func (t *Tuple) Len() int { return len(t.Elements) }

func (t *Tuple) Equal(other *Tuple) bool {
	if len(t.Elements) != len(other.Elements) {
		return false
	}
	for i, el := range t.Elements {
		if !Equal(el, other.Elements[i]) {
			return false
		}
	}
	return true
}

// Dict is a string-keyed mapping preserving insertion order. The call core
// uses it for variadic-keyword collection, captured keyword defaults and
// global namespaces, all of which key by interned identifier names.
type Dict struct {
	keys  []string
	items map[string]Object
}

func NewDict() *Dict {
	return &Dict{items: make(map[string]Object)}
}

// NewDictSized preallocates for n entries.
func NewDictSized(n int) *Dict {
	return &Dict{
		keys:  make([]string, 0, n),
		items: make(map[string]Object, n),
	}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	var out strings.Builder
	out.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(k)
		out.WriteString(": ")
		out.WriteString(d.items[k].Inspect())
	}
	out.WriteByte('}')
	return out.String()
}
func (d *Dict) Hash() uint32 {
	h := uint32(7)
	for _, k := range d.keys {
		h = 31*h + hashString(k)
		h = 31*h + d.items[k].Hash()
	}
	return h
}

func (d *Dict) Len() int { return len(d.keys) }

// Store sets key to value, keeping first-insertion order on overwrite.
func (d *Dict) Store(key string, value Object) {
	if _, ok := d.items[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.items[key] = value
}

func (d *Dict) Lookup(key string) (Object, bool) {
	v, ok := d.items[key]
	return v, ok
}

// Keys returns the insertion-ordered key list. Callers must not mutate it.
func (d *Dict) Keys() []string { return d.keys }

func (d *Dict) Equal(other *Dict) bool {
	if len(d.keys) != len(other.keys) {
		return false
	}
	for k, v := range d.items {
		ov, ok := other.items[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}
