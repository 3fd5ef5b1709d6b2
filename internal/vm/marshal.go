package vm

import (
	"fmt"
	"runtime/cgo"
	"unsafe"

	"github.com/pellet-lang/pellet/internal/object"
	"github.com/pellet-lang/pellet/internal/rawcode"
)

// handleScope pins objects crossing the viper boundary as machine words.
// Object-typed slots travel as cgo handles so a routine can pass an
// argument through to its return slot; the handles stay valid until the
// return word has been converted back.
type handleScope struct {
	handles []cgo.Handle
}

func newHandleScope() *handleScope { return &handleScope{} }

func (s *handleScope) pin(o object.Object) Word {
	h := cgo.NewHandle(o)
	s.handles = append(s.handles, h)
	return Word(h)
}

func (s *handleScope) free() {
	for _, h := range s.handles {
		h.Delete()
	}
	s.handles = nil
}

// isTruthy follows the runtime's generic truth test: None, false, zero
// and empty containers are false.
func isTruthy(o object.Object) bool {
	switch v := o.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return v.Value
	case *object.Integer:
		return v.Value != 0
	case *object.Float:
		return v.Value != 0
	case *object.Str:
		return v.Value != ""
	case *object.Tuple:
		return len(v.Elements) > 0
	case *object.Dict:
		return v.Len() > 0
	case *object.Bytes:
		return len(v.Data) > 0
	default:
		return true
	}
}

// convertToNative turns a generic value into one machine word according
// to a viper 2-bit type slot.
func convertToNative(o object.Object, t rawcode.NativeType, scope *handleScope) (Word, error) {
	switch t {
	case rawcode.TypeObj:
		return scope.pin(o), nil
	case rawcode.TypeBool:
		if isTruthy(o) {
			return 1, nil
		}
		return 0, nil
	case rawcode.TypeInt, rawcode.TypeUint:
		switch v := o.(type) {
		case *object.Integer:
			return Word(v.Value), nil
		case *object.Boolean:
			if v.Value {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("can't convert %s to int", o.Type())
		}
	default:
		panic(fmt.Sprintf("vm: native type %d", t))
	}
}

// convertFromNative turns a viper return word back into a generic value
// according to the signature's return-type slot.
func convertFromNative(w Word, t rawcode.NativeType) object.Object {
	switch t {
	case rawcode.TypeObj:
		return cgo.Handle(w).Value().(object.Object)
	case rawcode.TypeBool:
		return object.NewBool(w != 0)
	case rawcode.TypeInt:
		return &object.Integer{Value: int64(w)}
	case rawcode.TypeUint:
		return &object.Integer{Value: int64(w)}
	default:
		panic(fmt.Sprintf("vm: native type %d", t))
	}
}

// convertForAsm reduces a generic value to one machine word for a
// hand-written assembly routine, by fixed heuristic: integers by value,
// none/false as 0, true as 1, floats truncated, strings/tuples/buffers as
// a pointer to their backing storage. Anything else passes a pointer to
// the boxed object itself — a deliberate leak of the internal layout that
// existing routines depend on, so it must not be hardened here.
func convertForAsm(o object.Object) Word {
	switch v := o.(type) {
	case *object.Integer:
		return Word(v.Value)
	case *object.Nil:
		return 0
	case *object.Boolean:
		if v.Value {
			return 1
		}
		return 0
	case *object.Float:
		return Word(int64(v.Value))
	case *object.Str:
		return Word(uintptr(unsafe.Pointer(unsafe.StringData(v.Value))))
	case *object.Tuple:
		return Word(uintptr(unsafe.Pointer(unsafe.SliceData(v.Elements))))
	default:
		if buf, ok := o.(object.Buffer); ok {
			return Word(uintptr(unsafe.Pointer(unsafe.SliceData(buf.BufferData()))))
		}
		return objectWord(o)
	}
}

// objectWord is the address of the boxed value behind the interface.
func objectWord(o object.Object) Word {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return Word(uintptr((*eface)(unsafe.Pointer(&o)).data))
}
