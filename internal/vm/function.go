package vm

import (
	"fmt"
	"unsafe"

	"github.com/pellet-lang/pellet/internal/object"
	"github.com/pellet-lang/pellet/internal/rawcode"
)

const FUNCTION_OBJ object.ObjectType = "FUNCTION"

// KwArg is one caller-supplied keyword argument.
type KwArg struct {
	Name  string
	Value object.Object
}

// KwMap is a fixed-size name→value view built directly over the trailing
// keyword pairs of a call. It never copies; keyword-accepting native
// functions receive it for the duration of the call only.
type KwMap struct {
	pairs []KwArg
}

func NewKwMap(pairs []KwArg) *KwMap { return &KwMap{pairs: pairs} }

func (m *KwMap) Len() int       { return len(m.pairs) }
func (m *KwMap) Pairs() []KwArg { return m.pairs }

func (m *KwMap) Lookup(name string) (object.Object, bool) {
	for _, kw := range m.pairs {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// Native function forms. A NativeFunction's handle must be one of these;
// which one is selected by its arity range and keyword flag.
type (
	Fn0   func() (object.Object, error)
	Fn1   func(a object.Object) (object.Object, error)
	Fn2   func(a, b object.Object) (object.Object, error)
	Fn3   func(a, b, c object.Object) (object.Object, error)
	FnVar func(args []object.Object) (object.Object, error)
	FnKw  func(args []object.Object, kwargs *KwMap) (object.Object, error)
)

// Word is one machine word crossing the viper/asm boundary.
type Word = uintptr

// Machine-word function forms used by viper and inline-asm callables.
type (
	MachineFn0 func() Word
	MachineFn1 func(a Word) Word
	MachineFn2 func(a, b Word) Word
	MachineFn3 func(a, b, c Word) Word
)

// FunArgsMax marks "no upper bound" for variadic native functions.
const FunArgsMax = rawcode.MaxArgCount

// Function is implemented by every callable value.
type Function interface {
	object.Object
	Name() string
	// Equal is identity on the underlying code: two callables are equal
	// only when they wrap the same record or are the same value.
	Equal(other object.Object) bool
}

// BytecodeFunction is the runtime-visible callable for a bytecode record,
// carrying the binding-time data the record itself does not: captured
// default values, the defining scope's global namespace, and (for
// closures) the captured cells.
type BytecodeFunction struct {
	rc      *rawcode.RawCode
	name    string
	globals *object.Dict
	prelude rawcode.Prelude

	// defArgs are the trailing positional defaults, captured by reference.
	// They are bound per-call without copying.
	defArgs []object.Object

	// defKwArgs maps keyword-only parameter names to their defaults; nil
	// when the function has none.
	defKwArgs *object.Dict

	// freeVars are the closure cells captured at construction, aliased by
	// the engine when the bytecode dereferences free variables.
	freeVars []*object.Cell
}

func (f *BytecodeFunction) Type() object.ObjectType { return FUNCTION_OBJ }
func (f *BytecodeFunction) Inspect() string         { return fmt.Sprintf("<function %s>", f.name) }
func (f *BytecodeFunction) Hash() uint32 {
	return uint32(uintptr(unsafe.Pointer(f)))
}
func (f *BytecodeFunction) Name() string { return f.name }
func (f *BytecodeFunction) Equal(other object.Object) bool {
	o, ok := other.(*BytecodeFunction)
	return ok && o == f
}

func (f *BytecodeFunction) Raw() *rawcode.RawCode     { return f.rc }
func (f *BytecodeFunction) Prelude() rawcode.Prelude  { return f.prelude }
func (f *BytecodeFunction) Globals() *object.Dict     { return f.globals }
func (f *BytecodeFunction) FreeVars() []*object.Cell  { return f.freeVars }
func (f *BytecodeFunction) Defaults() []object.Object { return f.defArgs }
func (f *BytecodeFunction) KwDefaults() *object.Dict  { return f.defKwArgs }

// NativeFunction is a callable backed by a Go function using the generic
// value representation. Arity is a min..max range (inclusive); keyword-
// accepting functions take the full positional slice plus a KwMap view.
type NativeFunction struct {
	rc       *rawcode.RawCode
	name     string
	nArgsMin int
	nArgsMax int
	isKw     bool
	fn       any
}

func (f *NativeFunction) Type() object.ObjectType { return FUNCTION_OBJ }
func (f *NativeFunction) Inspect() string         { return fmt.Sprintf("<function %s>", f.name) }
func (f *NativeFunction) Hash() uint32 {
	return uint32(uintptr(unsafe.Pointer(f)))
}
func (f *NativeFunction) Name() string { return f.name }

// Equal is identity on the underlying record; two values made from the
// same record compare equal, everything else does not. No deep comparison.
func (f *NativeFunction) Equal(other object.Object) bool {
	o, ok := other.(*NativeFunction)
	if !ok {
		return false
	}
	if o == f {
		return true
	}
	return f.rc != nil && o.rc == f.rc
}

// NewFunction wraps fn as a native callable requiring exactly nArgs
// arguments. fn must have the matching fixed-arity form (Fn0..Fn3) or
// FnVar for nArgs > 3.
func NewFunction(name string, nArgs int, fn any) *NativeFunction {
	return &NativeFunction{name: name, nArgsMin: nArgs, nArgsMax: nArgs, fn: fn}
}

// NewFunctionVar wraps an FnVar accepting nArgsMin or more arguments.
func NewFunctionVar(name string, nArgsMin int, fn FnVar) *NativeFunction {
	return &NativeFunction{name: name, nArgsMin: nArgsMin, nArgsMax: FunArgsMax, fn: fn}
}

// NewFunctionVarBetween wraps an FnVar accepting between nArgsMin and
// nArgsMax arguments, both inclusive.
func NewFunctionVarBetween(name string, nArgsMin, nArgsMax int, fn FnVar) *NativeFunction {
	return &NativeFunction{name: name, nArgsMin: nArgsMin, nArgsMax: nArgsMax, fn: fn}
}

// NewFunctionKw wraps an FnKw accepting keyword arguments and nArgsMin or
// more positional arguments.
func NewFunctionKw(name string, nArgsMin int, fn FnKw) *NativeFunction {
	return &NativeFunction{name: name, nArgsMin: nArgsMin, nArgsMax: FunArgsMax, isKw: true, fn: fn}
}

// ViperFunction is a type-specialized native callable: arguments and the
// return value cross as raw machine words typed by a packed 2-bit
// signature. Exact arity, no variadic or keyword support.
type ViperFunction struct {
	rc      *rawcode.RawCode
	name    string
	nArgs   int
	typeSig rawcode.TypeSig
	fn      any
}

func (f *ViperFunction) Type() object.ObjectType { return FUNCTION_OBJ }
func (f *ViperFunction) Inspect() string         { return fmt.Sprintf("<function %s>", f.name) }
func (f *ViperFunction) Hash() uint32 {
	return uint32(uintptr(unsafe.Pointer(f)))
}
func (f *ViperFunction) Name() string { return f.name }
func (f *ViperFunction) Equal(other object.Object) bool {
	o, ok := other.(*ViperFunction)
	if !ok {
		return false
	}
	return o == f || (f.rc != nil && o.rc == f.rc)
}

// AsmFunction is a hand-written machine-code callable. Arguments are
// converted by a fixed heuristic (see convertForAsm); the single word
// returned is always reinterpreted as a small integer — a known
// limitation of this path, not a bug.
type AsmFunction struct {
	rc    *rawcode.RawCode
	name  string
	nArgs int
	fn    any
}

func (f *AsmFunction) Type() object.ObjectType { return FUNCTION_OBJ }
func (f *AsmFunction) Inspect() string         { return fmt.Sprintf("<function %s>", f.name) }
func (f *AsmFunction) Hash() uint32 {
	return uint32(uintptr(unsafe.Pointer(f)))
}
func (f *AsmFunction) Name() string { return f.name }
func (f *AsmFunction) Equal(other object.Object) bool {
	o, ok := other.(*AsmFunction)
	if !ok {
		return false
	}
	return o == f || (f.rc != nil && o.rc == f.rc)
}

// MakeFunction builds the runtime callable for an assigned record. For
// bytecode records it captures the interpreter's currently-active global
// namespace and the given defaults by reference; native records carry no
// defaults or globals and defArgs/defKwArgs must be nil for them.
func (in *Interp) MakeFunction(rc *rawcode.RawCode, name string, defArgs *object.Tuple, defKwArgs *object.Dict) (Function, error) {
	return in.makeFunction(rc, name, defArgs, defKwArgs, nil)
}

// MakeClosure is MakeFunction plus pre-existing closure cells captured
// from the defining scope. Only bytecode records can be closures.
func (in *Interp) MakeClosure(rc *rawcode.RawCode, name string, cells []*object.Cell, defArgs *object.Tuple, defKwArgs *object.Dict) (Function, error) {
	if rc.Kind() != rawcode.KindBytecode {
		panic(fmt.Sprintf("vm: closure over %s record", rc.Kind()))
	}
	return in.makeFunction(rc, name, defArgs, defKwArgs, cells)
}

func (in *Interp) makeFunction(rc *rawcode.RawCode, name string, defArgs *object.Tuple, defKwArgs *object.Dict, cells []*object.Cell) (Function, error) {
	switch rc.Kind() {
	case rawcode.KindBytecode:
		prelude, err := rawcode.ParsePrelude(rc.Code())
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}
		fn := &BytecodeFunction{
			rc:        rc,
			name:      name,
			globals:   in.globals,
			prelude:   prelude,
			defKwArgs: defKwArgs,
			freeVars:  cells,
		}
		if defArgs != nil {
			fn.defArgs = defArgs.Elements
		}
		return fn, nil
	case rawcode.KindNativePy:
		_, isKw := rc.Fn().(FnKw)
		return &NativeFunction{
			rc:       rc,
			name:     name,
			nArgsMin: rc.NArgs(),
			nArgsMax: rc.NArgs(),
			isKw:     isKw,
			fn:       rc.Fn(),
		}, nil
	case rawcode.KindNativeViper:
		return &ViperFunction{rc: rc, name: name, nArgs: rc.NArgs(), typeSig: rc.TypeSig(), fn: rc.Fn()}, nil
	case rawcode.KindNativeAsm:
		return &AsmFunction{rc: rc, name: name, nArgs: rc.NArgs(), fn: rc.Fn()}, nil
	default:
		// Unassigned records reaching here indicate a prior compiler bug;
		// recovery would propagate an invalid program state.
		panic(fmt.Sprintf("vm: MakeFunction on %s record", rc.Kind()))
	}
}
