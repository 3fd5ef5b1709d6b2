// Package pellet is the public embedding surface of the runtime's call
// core. A Runtime owns one interpreter instance: the embedder plugs in a
// bytecode engine, registers native functions into the global namespace
// and invokes callables through Call/CallKw.
package pellet

import (
	"github.com/pellet-lang/pellet/internal/config"
	"github.com/pellet-lang/pellet/internal/object"
	"github.com/pellet-lang/pellet/internal/rawcode"
	"github.com/pellet-lang/pellet/internal/vm"
)

// Re-exported callable constructors and forms, so embedders never import
// internal packages.
type (
	Object = object.Object
	KwArg  = vm.KwArg
	Fn0    = vm.Fn0
	Fn1    = vm.Fn1
	Fn2    = vm.Fn2
	Fn3    = vm.Fn3
	FnVar  = vm.FnVar
	FnKw   = vm.FnKw
	Engine = vm.Engine
)

var (
	None  = object.None
	True  = object.True
	False = object.False
)

// Runtime is one embedded interpreter instance. Not safe for concurrent
// use; execution is single-threaded by design.
type Runtime struct {
	interp *vm.Interp
}

// New creates a runtime around the given bytecode engine.
func New(engine Engine) *Runtime {
	return &Runtime{interp: vm.New(engine)}
}

// LoadConfig applies a pellet.yaml configuration file.
func (r *Runtime) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	r.interp.SetConfig(cfg)
	return nil
}

// Interp exposes the underlying interpreter for engine implementations
// that need to call back in (MakeFunction, nested Invoke).
func (r *Runtime) Interp() *vm.Interp { return r.interp }

// SetGlobal binds name in the active global namespace.
func (r *Runtime) SetGlobal(name string, v Object) {
	r.interp.Globals().Store(name, v)
}

// Global looks name up in the active global namespace.
func (r *Runtime) Global(name string) (Object, bool) {
	return r.interp.Globals().Lookup(name)
}

// Register wraps fn as a native function of exactly nArgs arguments and
// binds it under name. fn must be one of the Fn0..Fn3 forms, or FnVar
// for nArgs > 3.
func (r *Runtime) Register(name string, nArgs int, fn any) {
	r.SetGlobal(name, vm.NewFunction(name, nArgs, fn))
}

// RegisterVar wraps a variadic native function accepting nArgsMin or
// more arguments.
func (r *Runtime) RegisterVar(name string, nArgsMin int, fn FnVar) {
	r.SetGlobal(name, vm.NewFunctionVar(name, nArgsMin, fn))
}

// RegisterKw wraps a keyword-accepting native function.
func (r *Runtime) RegisterKw(name string, nArgsMin int, fn FnKw) {
	r.SetGlobal(name, vm.NewFunctionKw(name, nArgsMin, fn))
}

// Call invokes a callable with positional arguments only.
func (r *Runtime) Call(callee Object, args ...Object) (Object, error) {
	return r.interp.Invoke(callee, args, nil)
}

// CallKw invokes a callable with positional and keyword arguments.
func (r *Runtime) CallKw(callee Object, args []Object, kwargs []KwArg) (Object, error) {
	return r.interp.Invoke(callee, args, kwargs)
}

// MakeFunction builds the runtime callable for an assigned code record,
// capturing the currently-active global namespace.
func (r *Runtime) MakeFunction(rc *rawcode.RawCode, name string, defArgs *object.Tuple, defKwArgs *object.Dict) (vm.Function, error) {
	return r.interp.MakeFunction(rc, name, defArgs, defKwArgs)
}
