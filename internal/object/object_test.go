package object

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Object
		want bool
	}{
		{"nil vs nil", &Nil{}, &Nil{}, true},
		{"singleton none", None, None, true},
		{"bools equal", True, &Boolean{Value: true}, true},
		{"bools differ", True, False, false},
		{"ints equal", &Integer{Value: 5}, &Integer{Value: 5}, true},
		{"ints differ", &Integer{Value: 5}, &Integer{Value: 6}, false},
		{"int vs float", &Integer{Value: 5}, &Float{Value: 5}, false},
		{"floats equal", &Float{Value: 2.5}, &Float{Value: 2.5}, true},
		{"strings equal", &Str{Value: "ab"}, &Str{Value: "ab"}, true},
		{"strings differ", &Str{Value: "ab"}, &Str{Value: "ba"}, false},
		{"bytes equal", &Bytes{Data: []byte{1, 2}}, &Bytes{Data: []byte{1, 2}}, true},
		{"bytes differ", &Bytes{Data: []byte{1, 2}}, &Bytes{Data: []byte{1, 3}}, false},
		{"bytes length", &Bytes{Data: []byte{1}}, &Bytes{Data: []byte{1, 2}}, false},
		{
			"tuples equal",
			NewTuple([]Object{&Integer{Value: 1}, &Str{Value: "x"}}),
			NewTuple([]Object{&Integer{Value: 1}, &Str{Value: "x"}}),
			true,
		},
		{
			"tuples nested",
			NewTuple([]Object{NewTuple([]Object{&Integer{Value: 1}})}),
			NewTuple([]Object{NewTuple([]Object{&Integer{Value: 2}})}),
			false,
		},
		{"empty tuples", EmptyTuple, NewTuple(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %t, want %t", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
			}
		})
	}
}

func TestNewBoolReturnsSingletons(t *testing.T) {
	if NewBool(true) != True || NewBool(false) != False {
		t.Error("NewBool must return the shared singletons")
	}
}

func TestTupleInspect(t *testing.T) {
	tests := []struct {
		tuple *Tuple
		want  string
	}{
		{EmptyTuple, "()"},
		{NewTuple([]Object{&Integer{Value: 1}}), "(1,)"},
		{NewTuple([]Object{&Integer{Value: 1}, &Integer{Value: 2}}), "(1, 2)"},
	}
	for _, tt := range tests {
		if got := tt.tuple.Inspect(); got != tt.want {
			t.Errorf("Inspect = %q, want %q", got, tt.want)
		}
	}
}

func TestDictInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Store("b", &Integer{Value: 2})
	d.Store("a", &Integer{Value: 1})
	d.Store("c", &Integer{Value: 3})
	d.Store("a", &Integer{Value: 9}) // overwrite keeps original position

	keys := d.Keys()
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("keys = %v", keys)
	}
	if v, ok := d.Lookup("a"); !ok || v.(*Integer).Value != 9 {
		t.Error("overwrite did not replace the value")
	}
	if _, ok := d.Lookup("missing"); ok {
		t.Error("lookup of an absent key succeeded")
	}
	if got := d.Inspect(); got != "{b: 2, a: 9, c: 3}" {
		t.Errorf("Inspect = %q", got)
	}
}

func TestDictEqualIgnoresOrder(t *testing.T) {
	d1 := NewDict()
	d1.Store("a", &Integer{Value: 1})
	d1.Store("b", &Integer{Value: 2})

	d2 := NewDict()
	d2.Store("b", &Integer{Value: 2})
	d2.Store("a", &Integer{Value: 1})

	if !d1.Equal(d2) {
		t.Error("dicts with the same entries must be equal regardless of order")
	}

	d2.Store("c", &Integer{Value: 3})
	if d1.Equal(d2) {
		t.Error("dicts of different sizes compared equal")
	}
}

func TestCellAliasesStorage(t *testing.T) {
	c := NewCell(&Integer{Value: 1})
	alias := c
	alias.Set(&Integer{Value: 2})
	if c.Get().(*Integer).Value != 2 {
		t.Error("cell writes must be visible through every reference")
	}
	if got := c.Inspect(); got != "<cell 2>" {
		t.Errorf("Inspect = %q", got)
	}
	if got := NewCell(nil).Inspect(); got != "<cell empty>" {
		t.Errorf("Inspect = %q", got)
	}
}

func TestHashConsistency(t *testing.T) {
	pairs := [][2]Object{
		{&Str{Value: "abc"}, &Str{Value: "abc"}},
		{&Integer{Value: 42}, &Integer{Value: 42}},
		{NewTuple([]Object{&Integer{Value: 1}}), NewTuple([]Object{&Integer{Value: 1}})},
	}
	for _, p := range pairs {
		if p[0].Hash() != p[1].Hash() {
			t.Errorf("equal objects %s hash differently", p[0].Inspect())
		}
	}
}
