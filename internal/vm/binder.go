package vm

import "github.com/pellet-lang/pellet/internal/object"

// bindArgs maps the caller's positional and keyword arguments onto fn's
// declared local slots in f, or fails with a precise diagnosis. On
// success every declared parameter slot, plus the variadic tuple/dict
// slots when declared, holds a value, and closed-over locals are boxed
// into cells. The step ordering is load-bearing: it decides which error
// fires for inputs that are wrong in more than one way (excess positional
// arguments are diagnosed before any keyword problem).
func (in *Interp) bindArgs(fn *BytecodeFunction, f *Frame, args []object.Object, kwargs []KwArg) error {
	rc := fn.rc
	nPos := rc.NPosArgs()
	nKwOnly := rc.NKwOnlyArgs()
	nDef := len(fn.defArgs)
	nArgs := len(args)

	// First variadic slot: the varargs tuple when declared, then the
	// varkw dict one slot above it.
	varSlot := nPos + nKwOnly

	if nArgs > nPos {
		if !rc.TakesVarArgs() {
			return in.arityError(fn.name, nPos, nArgs)
		}
		excess := make([]object.Object, nArgs-nPos)
		copy(excess, args[nPos:])
		f.SetLocal(varSlot, object.NewTuple(excess))
		varSlot++
		args = args[:nPos]
		nArgs = nPos
	} else {
		if rc.TakesVarArgs() {
			f.SetLocal(varSlot, object.EmptyTuple)
			varSlot++
		}
		// Positional-only fast path; with keywords in play the full
		// keyword pass below does its own default filling and checks.
		if len(kwargs) == 0 && fn.defKwArgs == nil {
			if nArgs >= nPos-nDef {
				for i := nArgs; i < nPos; i++ {
					f.SetLocal(i, fn.defArgs[i-(nPos-nDef)])
				}
			} else {
				return in.arityError(fn.name, nPos-nDef, nArgs)
			}
		}
	}

	for i, a := range args {
		f.SetLocal(i, a)
	}

	if len(kwargs) > 0 || fn.defKwArgs != nil {
		var varKw *object.Dict
		if rc.TakesKwArgs() {
			varKw = object.NewDictSized(len(kwargs))
			f.SetLocal(varSlot, varKw)
		}

		// Parameter names are unique by construction (a compile-time
		// invariant), so first match over [positional, keyword-only] is
		// the only match.
		names := rc.ArgNames()
	kwloop:
		for _, kw := range kwargs {
			for j, name := range names {
				if kw.Name == name {
					if f.Local(j) != nil {
						return in.duplicateArgError(fn.name, kw.Name)
					}
					f.SetLocal(j, kw.Value)
					continue kwloop
				}
			}
			if varKw == nil {
				return in.unexpectedKeywordError(fn.name, kw.Name)
			}
			varKw.Store(kw.Name, kw.Value)
		}

		// Trailing positional parameters correspond right-aligned to the
		// captured defaults.
		for i := 0; i < nDef; i++ {
			slot := nPos - 1 - i
			if f.Local(slot) == nil {
				f.SetLocal(slot, fn.defArgs[nDef-1-i])
			}
		}

		for i := nPos - 1 - nDef; i >= 0; i-- {
			if f.Local(i) == nil {
				return in.missingPositionalError(fn.name, i)
			}
		}

		for i := 0; i < nKwOnly; i++ {
			if f.Local(nPos+i) != nil {
				continue
			}
			if fn.defKwArgs != nil {
				if v, ok := fn.defKwArgs.Lookup(names[nPos+i]); ok {
					f.SetLocal(nPos+i, v)
					continue
				}
			}
			return in.missingKeywordError(fn.name, names[nPos+i])
		}
	} else {
		// No keywords given and none captured: keyword-only parameters
		// are unsatisfiable — positional defaults never apply to them.
		if nKwOnly != 0 {
			return in.missingKeywordOnlyError(fn.name)
		}
		if rc.TakesKwArgs() {
			f.SetLocal(varSlot, object.NewDict())
		}
	}

	// Closure prelude: box closed-over locals after all binding so each
	// cell wraps the final bound value.
	for _, local := range fn.prelude.CellLocals {
		f.SetLocal(local, object.NewCell(f.Local(local)))
	}
	return nil
}
