package rawcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsReserved(t *testing.T) {
	rc := New()
	assert.Equal(t, KindReserved, rc.Kind())
	assert.NotEqual(t, rc.UnitID(), New().UnitID(), "unit IDs must be unique per record")
}

func TestAssignBytecode(t *testing.T) {
	rc := New()
	code := BuildPrelude(nil, 8, 0, nil, []byte{0x00})
	rc.AssignBytecode(code, 2, 1, []string{"a", "b", "k"}, FlagVarArgs)

	assert.Equal(t, KindBytecode, rc.Kind())
	assert.Equal(t, 2, rc.NPosArgs())
	assert.Equal(t, 1, rc.NKwOnlyArgs())
	assert.Equal(t, []string{"a", "b", "k"}, rc.ArgNames())
	assert.True(t, rc.TakesVarArgs())
	assert.False(t, rc.TakesKwArgs())
	assert.Equal(t, code, rc.Code())
}

func TestAssignIsOnce(t *testing.T) {
	rc := New()
	rc.AssignBytecode(BuildPrelude(nil, 4, 0, nil, nil), 0, 0, nil, 0)

	assert.Panics(t, func() {
		rc.AssignBytecode(nil, 0, 0, nil, 0)
	})
	assert.Panics(t, func() {
		rc.AssignNative(KindNativePy, func() {}, 0, 0)
	})
}

func TestAssignBytecodeValidation(t *testing.T) {
	assert.Panics(t, func() {
		New().AssignBytecode(nil, 1, 0, nil, 0)
	}, "name count must match parameter count")
	assert.Panics(t, func() {
		New().AssignBytecode(nil, MaxArgCount+1, 0, nil, 0)
	}, "arity over the descriptor limit")
	assert.Panics(t, func() {
		New().AssignBytecode(nil, -1, 0, nil, 0)
	})
}

func TestAssignNativeValidation(t *testing.T) {
	assert.Panics(t, func() {
		New().AssignNative(KindBytecode, func() {}, 0, 0)
	}, "bytecode is not a native kind")
	assert.Panics(t, func() {
		New().AssignNative(KindNativePy, nil, 0, 0)
	})
}

func TestTypeSigPacking(t *testing.T) {
	sig := MakeTypeSig(TypeObj, TypeInt, TypeBool, TypeUint)
	assert.Equal(t, TypeObj, sig.Ret())
	assert.Equal(t, TypeInt, sig.Arg(0))
	assert.Equal(t, TypeBool, sig.Arg(1))
	assert.Equal(t, TypeUint, sig.Arg(2))
	assert.Equal(t, TypeObj, sig.Arg(3), "unset slots read as object")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bytecode", KindBytecode.String())
	assert.Equal(t, "viper", KindNativeViper.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestParsePreludeRoundTrip(t *testing.T) {
	info := []byte("module:fn\x00linetable")
	body := []byte{0x10, 0x20, 0x30}
	blob := BuildPrelude(info, 24, 2, []int{1, 3}, body)

	p, err := ParsePrelude(blob)
	require.NoError(t, err)
	assert.Equal(t, 4+len(info), p.InfoSize)
	assert.Equal(t, 24, p.NState)
	assert.Equal(t, 2, p.NExcStack)
	assert.Equal(t, []int{1, 3}, p.CellLocals)
	assert.Equal(t, body, blob[p.CodeOffset:])
}

func TestParsePreludeNoCells(t *testing.T) {
	p, err := ParsePrelude(BuildPrelude(nil, 4, 0, nil, []byte{0x00}))
	require.NoError(t, err)
	assert.Nil(t, p.CellLocals)
	assert.Equal(t, byte(0x00), BuildPrelude(nil, 4, 0, nil, []byte{0x00})[p.CodeOffset])
}

func TestParsePreludeErrors(t *testing.T) {
	valid := BuildPrelude([]byte("info"), 8, 1, []int{2}, []byte{0x00})

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"empty", nil, ErrTruncatedPrelude},
		{"short length field", valid[:3], ErrTruncatedPrelude},
		{"cut inside header", valid[:len(valid)-4], ErrTruncatedPrelude},
		{"info size past end", []byte{0xff, 0xff, 0xff, 0xff}, ErrBadInfoSize},
		{"info size under minimum", []byte{0x02, 0x00, 0x00, 0x00}, ErrBadInfoSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrelude(tt.blob)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
