package vm

import (
	"errors"
	"fmt"

	"github.com/pellet-lang/pellet/internal/config"
	"github.com/pellet-lang/pellet/internal/object"
)

// Engine executes the decoded bytecode of one frame. It is the external
// collaborator behind every bytecode call: the dispatcher allocates and
// binds the frame, the engine runs it. On CompleteNormal the result is on
// top of the frame's evaluation stack; on CompleteException the raised
// value is in the frame's last state slot. inject, when non-nil, is an
// exception to raise into the frame on entry.
type Engine interface {
	Execute(f *Frame, inject object.Object) Completion
}

// Interp ties an engine to an active global namespace and configuration.
// Execution is single-threaded and cooperative: Invoke is synchronous and
// re-entrant (a native function may call back into Invoke), forming an
// ordinary call stack.
type Interp struct {
	engine  Engine
	globals *object.Dict
	cfg     *config.Config
}

func New(engine Engine) *Interp {
	return &Interp{
		engine:  engine,
		globals: object.NewDict(),
		cfg:     config.Default(),
	}
}

func (in *Interp) SetConfig(cfg *config.Config) { in.cfg = cfg }

// Globals returns the active global namespace. During a bytecode call
// this is the callee's captured namespace.
func (in *Interp) Globals() *object.Dict { return in.globals }
func (in *Interp) SetGlobals(g *object.Dict) { in.globals = g }

// Invoke is the single call entry point for every callable kind. Argument
// binding failures abort the call before any callee code runs; errors
// returned by native functions propagate unmodified.
func (in *Interp) Invoke(callee object.Object, args []object.Object, kwargs []KwArg) (object.Object, error) {
	switch fn := callee.(type) {
	case *BytecodeFunction:
		return in.callBytecode(fn, args, kwargs)
	case *NativeFunction:
		return in.callNative(fn, args, kwargs)
	case *ViperFunction:
		return in.callViper(fn, args, kwargs)
	case *AsmFunction:
		return in.callAsm(fn, args, kwargs)
	default:
		return nil, fmt.Errorf("'%s' object is not callable", callee.Type())
	}
}

func (in *Interp) callBytecode(fn *BytecodeFunction, args []object.Object, kwargs []KwArg) (object.Object, error) {
	f := in.newFrame(fn)
	defer f.release()

	if err := in.bindArgs(fn, f, args, kwargs); err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			ce.unitID = fn.rc.UnitID()
		}
		return nil, err
	}

	// Strict push/pop discipline on the active namespace: set the
	// callee's captured globals, restore the caller's view on every exit
	// path, so nested calls cannot corrupt it.
	saved := in.globals
	in.globals = fn.globals
	defer func() { in.globals = saved }()

	switch kind := in.engine.Execute(f, nil); kind {
	case CompleteNormal:
		return f.Top(), nil
	case CompleteException:
		return nil, &Raised{Value: f.ExcResult()}
	default:
		// Frames allocated here are plain function bodies; a yield from
		// one means the engine and compiler disagree about the record.
		panic(fmt.Sprintf("vm: bytecode call completed with %d", kind))
	}
}

// checkNumArgs validates a native call's shape the same way for all three
// native variants.
func (in *Interp) checkNumArgs(name string, nArgs, nKw, nArgsMin, nArgsMax int, isKw bool) error {
	if nKw > 0 && !isKw {
		return in.unexpectedKeywordError(name, "")
	}
	if nArgs < nArgsMin {
		return in.arityError(name, nArgsMin, nArgs)
	}
	if nArgs > nArgsMax {
		return in.arityError(name, nArgsMax, nArgs)
	}
	return nil
}

func (in *Interp) callNative(fn *NativeFunction, args []object.Object, kwargs []KwArg) (object.Object, error) {
	if err := in.checkNumArgs(fn.name, len(args), len(kwargs), fn.nArgsMin, fn.nArgsMax, fn.isKw); err != nil {
		return nil, err
	}

	if fn.isKw {
		return fn.fn.(FnKw)(args, NewKwMap(kwargs))
	}

	if fn.nArgsMin == fn.nArgsMax && fn.nArgsMin <= 3 {
		switch fn.nArgsMin {
		case 0:
			return fn.fn.(Fn0)()
		case 1:
			return fn.fn.(Fn1)(args[0])
		case 2:
			return fn.fn.(Fn2)(args[0], args[1])
		case 3:
			return fn.fn.(Fn3)(args[0], args[1], args[2])
		}
	}
	return fn.fn.(FnVar)(args)
}

func (in *Interp) callViper(fn *ViperFunction, args []object.Object, kwargs []KwArg) (object.Object, error) {
	if err := in.checkNumArgs(fn.name, len(args), len(kwargs), fn.nArgs, fn.nArgs, false); err != nil {
		return nil, err
	}
	if fn.nArgs > 3 {
		panic(fmt.Sprintf("vm: viper function %s with arity %d", fn.name, fn.nArgs))
	}

	scope := newHandleScope()
	defer scope.free()

	words := make([]Word, len(args))
	for i, a := range args {
		w, err := convertToNative(a, fn.typeSig.Arg(i), scope)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}

	var ret Word
	switch len(args) {
	case 0:
		ret = fn.fn.(MachineFn0)()
	case 1:
		ret = fn.fn.(MachineFn1)(words[0])
	case 2:
		ret = fn.fn.(MachineFn2)(words[0], words[1])
	case 3:
		ret = fn.fn.(MachineFn3)(words[0], words[1], words[2])
	}
	return convertFromNative(ret, fn.typeSig.Ret()), nil
}

func (in *Interp) callAsm(fn *AsmFunction, args []object.Object, kwargs []KwArg) (object.Object, error) {
	if err := in.checkNumArgs(fn.name, len(args), len(kwargs), fn.nArgs, fn.nArgs, false); err != nil {
		return nil, err
	}
	if fn.nArgs > 3 {
		panic(fmt.Sprintf("vm: asm function %s with arity %d", fn.name, fn.nArgs))
	}

	var ret Word
	switch len(args) {
	case 0:
		ret = fn.fn.(MachineFn0)()
	case 1:
		ret = fn.fn.(MachineFn1)(convertForAsm(args[0]))
	case 2:
		ret = fn.fn.(MachineFn2)(convertForAsm(args[0]), convertForAsm(args[1]))
	case 3:
		ret = fn.fn.(MachineFn3)(convertForAsm(args[0]), convertForAsm(args[1]), convertForAsm(args[2]))
	}
	// The asm path has no richer return conversion: the word is always a
	// small integer, whatever the routine actually produced.
	return &object.Integer{Value: int64(ret)}, nil
}
