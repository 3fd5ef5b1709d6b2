// Package rawcode holds the compiled-artifact records that the emitters
// hand to the runtime: one record per compiled code block, binding the
// block's descriptor (arity, flags, parameter names) to exactly one of
// four executable bodies.
package rawcode

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates the executable body carried by a RawCode.
type Kind uint8

const (
	KindUnused Kind = iota
	KindReserved
	KindBytecode
	KindNativePy
	KindNativeViper
	KindNativeAsm
)

func (k Kind) String() string {
	switch k {
	case KindUnused:
		return "unused"
	case KindReserved:
		return "reserved"
	case KindBytecode:
		return "bytecode"
	case KindNativePy:
		return "native"
	case KindNativeViper:
		return "viper"
	case KindNativeAsm:
		return "asm"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ScopeFlags carry per-scope properties resolved by the compiler.
type ScopeFlags uint8

const (
	FlagOptimised   ScopeFlags = 0x01
	FlagNewLocals   ScopeFlags = 0x02
	FlagVarArgs     ScopeFlags = 0x04
	FlagVarKeywords ScopeFlags = 0x08
	FlagNested      ScopeFlags = 0x10
	FlagGenerator   ScopeFlags = 0x20
	// FlagNoFree is set when the scope has no free or cell variables, so
	// frame setup can skip the closure prelude with a single flag test.
	FlagNoFree ScopeFlags = 0x40
)

// NativeType is one 2-bit slot of a viper type signature.
type NativeType uint8

const (
	TypeObj NativeType = iota
	TypeBool
	TypeInt
	TypeUint
)

// TypeSig packs a viper function's machine-word types, 2 bits per slot:
// the return type in the first slot, then arg0, arg1, and so on.
type TypeSig uint32

// MakeTypeSig packs a return type and argument types into a signature.
func MakeTypeSig(ret NativeType, args ...NativeType) TypeSig {
	sig := TypeSig(ret & 3)
	for i, a := range args {
		sig |= TypeSig(a&3) << (2 * (uint(i) + 1))
	}
	return sig
}

// Ret returns the signature's return-type slot.
func (s TypeSig) Ret() NativeType { return NativeType(s & 3) }

// Arg returns the type slot for argument i.
func (s TypeSig) Arg(i int) NativeType {
	return NativeType((s >> (2 * (uint(i) + 1))) & 3)
}

// MaxArgCount bounds the descriptor arity fields. The historical encoding
// used 11-bit fields; these are uint16 with explicit overflow rejection.
const MaxArgCount = 1<<16 - 1

// RawCode is one compiled code block. A record is created empty
// (KindReserved) by the compiler front end and assigned exactly once via
// AssignBytecode or AssignNative; it is never mutated afterwards. Many
// function objects may share one record (closures over the same body), so
// records are read-only after assignment and live for the process.
type RawCode struct {
	kind        Kind
	flags       ScopeFlags
	nPosArgs    uint16
	nKwOnlyArgs uint16
	argNames    []string
	unitID      uuid.UUID

	// bytecode body
	code []byte

	// native body
	fn      any
	nArgs   int
	typeSig TypeSig
}

// New returns an empty record in the reserved state.
func New() *RawCode {
	return &RawCode{kind: KindReserved, unitID: uuid.New()}
}

// AssignBytecode finalizes rc as a bytecode block. Calling it on an
// already-assigned record is a programmer error, not a runtime condition.
func (rc *RawCode) AssignBytecode(code []byte, nPosArgs, nKwOnlyArgs int, argNames []string, flags ScopeFlags) {
	rc.checkUnassigned()
	if nPosArgs < 0 || nPosArgs > MaxArgCount || nKwOnlyArgs < 0 || nKwOnlyArgs > MaxArgCount {
		panic(fmt.Sprintf("rawcode: argument count out of range: %d pos, %d kwonly", nPosArgs, nKwOnlyArgs))
	}
	if len(argNames) != nPosArgs+nKwOnlyArgs {
		panic(fmt.Sprintf("rawcode: %d parameter names for %d parameters", len(argNames), nPosArgs+nKwOnlyArgs))
	}
	rc.kind = KindBytecode
	rc.code = code
	rc.nPosArgs = uint16(nPosArgs)
	rc.nKwOnlyArgs = uint16(nKwOnlyArgs)
	rc.argNames = argNames
	rc.flags = flags
}

// AssignNative finalizes rc as one of the three native variants. fn is the
// function handle the dispatcher will invoke; its concrete type is checked
// at call time, per variant. typeSig is only meaningful for viper records.
func (rc *RawCode) AssignNative(kind Kind, fn any, nArgs int, typeSig TypeSig) {
	rc.checkUnassigned()
	switch kind {
	case KindNativePy, KindNativeViper, KindNativeAsm:
	default:
		panic(fmt.Sprintf("rawcode: AssignNative with kind %s", kind))
	}
	if fn == nil {
		panic("rawcode: AssignNative with nil function")
	}
	rc.kind = kind
	rc.fn = fn
	rc.nArgs = nArgs
	rc.typeSig = typeSig
}

func (rc *RawCode) checkUnassigned() {
	if rc.kind != KindReserved && rc.kind != KindUnused {
		panic(fmt.Sprintf("rawcode: record already assigned as %s", rc.kind))
	}
}

func (rc *RawCode) Kind() Kind        { return rc.kind }
func (rc *RawCode) Flags() ScopeFlags { return rc.flags }
func (rc *RawCode) NPosArgs() int     { return int(rc.nPosArgs) }
func (rc *RawCode) NKwOnlyArgs() int  { return int(rc.nKwOnlyArgs) }
func (rc *RawCode) UnitID() uuid.UUID { return rc.unitID }
func (rc *RawCode) Code() []byte      { return rc.code }
func (rc *RawCode) Fn() any           { return rc.fn }
func (rc *RawCode) NArgs() int        { return rc.nArgs }
func (rc *RawCode) TypeSig() TypeSig  { return rc.typeSig }

// ArgNames returns the ordered parameter-name table: positional parameters
// first, then keyword-only parameters. Order defines binding priority.
func (rc *RawCode) ArgNames() []string { return rc.argNames }

// TakesVarArgs reports whether the block accepts excess positional
// arguments (collected into a tuple).
func (rc *RawCode) TakesVarArgs() bool { return rc.flags&FlagVarArgs != 0 }

// TakesKwArgs reports whether the block accepts unmatched keyword
// arguments (collected into a dict).
func (rc *RawCode) TakesKwArgs() bool { return rc.flags&FlagVarKeywords != 0 }
