package object

import (
	"fmt"
	"hash/fnv"
)

// ObjectType identifies the runtime type of an Object
type ObjectType string

const (
	NIL_OBJ     ObjectType = "NIL"
	BOOLEAN_OBJ ObjectType = "BOOLEAN"
	INTEGER_OBJ ObjectType = "INTEGER"
	FLOAT_OBJ   ObjectType = "FLOAT"
	STRING_OBJ  ObjectType = "STRING"
	TUPLE_OBJ   ObjectType = "TUPLE"
	DICT_OBJ    ObjectType = "DICT"
	BYTES_OBJ   ObjectType = "BYTES"
	CELL_OBJ    ObjectType = "CELL"
)

// Object is the generic value representation seen by the call core.
// The full runtime adds iteration/subscript capabilities on top of this;
// the call core only needs identity, printing and hashing.
type Object interface {
	Type() ObjectType
	Inspect() string
	Hash() uint32
}

// Buffer is implemented by objects exposing raw byte storage.
// The inline-asm marshaller passes a pointer to this data.
type Buffer interface {
	BufferData() []byte
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "None" }
func (n *Nil) Hash() uint32     { return 0 }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) Hash() uint32 {
	return uint32(i.Value ^ (i.Value >> 32))
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return fmt.Sprintf("%g", f.Value) }
func (f *Float) Hash() uint32 {
	return hashString(f.Inspect())
}

// Str
type Str struct {
	Value string
}

func (s *Str) Type() ObjectType { return STRING_OBJ }
func (s *Str) Inspect() string  { return fmt.Sprintf("%q", s.Value) }
func (s *Str) Hash() uint32     { return hashString(s.Value) }

// Bytes is a mutable byte buffer. It implements Buffer so the inline-asm
// marshaller can hand its storage to machine code.
type Bytes struct {
	Data []byte
}

func (b *Bytes) Type() ObjectType   { return BYTES_OBJ }
func (b *Bytes) Inspect() string    { return fmt.Sprintf("b%q", b.Data) }
func (b *Bytes) Hash() uint32       { return hashString(string(b.Data)) }
func (b *Bytes) BufferData() []byte { return b.Data }

// Shared singletons. Code comparing against None/True/False may rely on
// pointer identity of these.
var (
	None  = &Nil{}
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

// NewBool returns the shared boolean singleton for v.
func NewBool(v bool) *Boolean {
	if v {
		return True
	}
	return False
}

// Equal reports structural equality between two objects.
func Equal(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Nil:
		return true
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Float:
		return av.Value == b.(*Float).Value
	case *Str:
		return av.Value == b.(*Str).Value
	case *Bytes:
		bv := b.(*Bytes)
		if len(av.Data) != len(bv.Data) {
			return false
		}
		for i := range av.Data {
			if av.Data[i] != bv.Data[i] {
				return false
			}
		}
		return true
	case *Tuple:
		return av.Equal(b.(*Tuple))
	case *Dict:
		return av.Equal(b.(*Dict))
	default:
		// Unknown object kinds compare by identity only.
		return false
	}
}
