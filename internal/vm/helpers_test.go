package vm

import (
	"testing"

	"github.com/pellet-lang/pellet/internal/object"
	"github.com/pellet-lang/pellet/internal/rawcode"
)

// captureEngine records bound locals at entry and completes normally with
// a fixed result.
type captureEngine struct {
	nLocals int
	locals  []object.Object
	result  object.Object
}

func (e *captureEngine) Execute(f *Frame, inject object.Object) Completion {
	e.locals = make([]object.Object, e.nLocals)
	for i := range e.locals {
		e.locals[i] = f.Local(i)
	}
	r := e.result
	if r == nil {
		r = object.None
	}
	f.Push(r)
	return CompleteNormal
}

// raiseEngine completes every frame with an exception.
type raiseEngine struct {
	value object.Object
}

func (e *raiseEngine) Execute(f *Frame, inject object.Object) Completion {
	f.SetExcResult(e.value)
	return CompleteException
}

type fnSpec struct {
	name    string
	nPos    int
	nKwOnly int
	names   []string
	flags   rawcode.ScopeFlags
	nState  int
	nExc    int
	cells   []int
	defArgs []object.Object
	defKw   *object.Dict
}

func makeBytecodeFn(t *testing.T, in *Interp, spec fnSpec) *BytecodeFunction {
	t.Helper()
	if spec.nState == 0 {
		spec.nState = 16
	}
	if spec.name == "" {
		spec.name = "f"
	}
	rc := rawcode.New()
	code := rawcode.BuildPrelude(nil, spec.nState, spec.nExc, spec.cells, []byte{0x00})
	rc.AssignBytecode(code, spec.nPos, spec.nKwOnly, spec.names, spec.flags)

	var defTuple *object.Tuple
	if spec.defArgs != nil {
		defTuple = object.NewTuple(spec.defArgs)
	}
	fn, err := in.MakeFunction(rc, spec.name, defTuple, spec.defKw)
	if err != nil {
		t.Fatalf("MakeFunction: %s", err)
	}
	return fn.(*BytecodeFunction)
}

func num(v int64) *object.Integer { return &object.Integer{Value: v} }

func str(s string) *object.Str { return &object.Str{Value: s} }

func kw(name string, v object.Object) KwArg { return KwArg{Name: name, Value: v} }
