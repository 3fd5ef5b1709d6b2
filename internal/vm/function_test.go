package vm

import (
	"testing"

	"github.com/pellet-lang/pellet/internal/object"
	"github.com/pellet-lang/pellet/internal/rawcode"
)

// cellEngine completes by returning the value inside the frame's first
// captured cell.
type cellEngine struct{}

func (cellEngine) Execute(f *Frame, inject object.Object) Completion {
	f.Push(f.Fn().FreeVars()[0].Get())
	return CompleteNormal
}

func TestMakeClosureSharesCells(t *testing.T) {
	in := New(cellEngine{})
	rc := rawcode.New()
	rc.AssignBytecode(rawcode.BuildPrelude(nil, 8, 0, nil, []byte{0x00}), 0, 0, nil, 0)

	cell := object.NewCell(num(1))
	cells := []*object.Cell{cell}

	f1, err := in.MakeClosure(rc, "get", cells, nil, nil)
	if err != nil {
		t.Fatalf("MakeClosure: %s", err)
	}
	f2, err := in.MakeClosure(rc, "get", cells, nil, nil)
	if err != nil {
		t.Fatalf("MakeClosure: %s", err)
	}

	// Both closures must alias the same cell instance, never a copy.
	if f1.(*BytecodeFunction).FreeVars()[0] != cell || f2.(*BytecodeFunction).FreeVars()[0] != cell {
		t.Fatal("captured cells were copied")
	}

	// A write through the shared cell is visible to every closure over it.
	cell.Set(num(7))
	for _, fn := range []Function{f1, f2} {
		res, err := in.Invoke(fn, nil, nil)
		if err != nil {
			t.Fatalf("Invoke: %s", err)
		}
		if res.(*object.Integer).Value != 7 {
			t.Errorf("closure saw %s, want the shared cell's current value", res.Inspect())
		}
	}
}

func TestMakeClosureRejectsNativeRecord(t *testing.T) {
	in := New(&captureEngine{})
	rc := rawcode.New()
	rc.AssignNative(rawcode.KindNativePy, Fn0(func() (object.Object, error) {
		return object.None, nil
	}), 0, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("MakeClosure over a native record must panic")
		}
	}()
	in.MakeClosure(rc, "f", nil, nil, nil)
}
