package rawcode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// The bytecode blob produced by the compiler starts with an opaque code-info
// block (name, line table) that the runtime does not interpret beyond its
// length, followed by the execution prelude:
//
//	u32 LE  code-info size (includes the 4 length bytes themselves)
//	...     rest of the code-info block, skipped
//	u16 LE  state size (local slots + evaluation stack slots)
//	u16 LE  exception-stack size
//	u8      count of closed-over locals
//	u8 × n  local slot indices to box into cells
//	...     first opcode

var (
	ErrTruncatedPrelude = errors.New("truncated bytecode prelude")
	ErrBadInfoSize      = errors.New("bad code-info size")
)

// Prelude is the parsed execution header of a bytecode block.
type Prelude struct {
	InfoSize   int   // size of the opaque code-info block
	NState     int   // local + evaluation stack slots
	NExcStack  int   // exception-handler stack slots
	CellLocals []int // local slot indices to wrap in closure cells
	CodeOffset int   // offset of the first opcode
}

// ParsePrelude decodes the execution header of a bytecode blob.
func ParsePrelude(code []byte) (Prelude, error) {
	var p Prelude
	if len(code) < 4 {
		return p, ErrTruncatedPrelude
	}
	infoSize := int(binary.LittleEndian.Uint32(code))
	if infoSize < 4 || infoSize > len(code) {
		return p, fmt.Errorf("%w: %d of %d bytes", ErrBadInfoSize, infoSize, len(code))
	}
	p.InfoSize = infoSize

	ip := infoSize
	if len(code) < ip+5 {
		return p, ErrTruncatedPrelude
	}
	p.NState = int(binary.LittleEndian.Uint16(code[ip:]))
	p.NExcStack = int(binary.LittleEndian.Uint16(code[ip+2:]))
	ip += 4

	nCells := int(code[ip])
	ip++
	if len(code) < ip+nCells {
		return p, ErrTruncatedPrelude
	}
	if nCells > 0 {
		p.CellLocals = make([]int, nCells)
		for i := 0; i < nCells; i++ {
			p.CellLocals[i] = int(code[ip+i])
		}
	}
	p.CodeOffset = ip + nCells
	return p, nil
}

// BuildPrelude assembles a blob from its parts; the inverse of
// ParsePrelude. The compiler and tests use it, the runtime never does.
func BuildPrelude(info []byte, nState, nExcStack int, cellLocals []int, code []byte) []byte {
	out := make([]byte, 0, 4+len(info)+5+len(cellLocals)+len(code))
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(info)))
	out = append(out, info...)
	out = binary.LittleEndian.AppendUint16(out, uint16(nState))
	out = binary.LittleEndian.AppendUint16(out, uint16(nExcStack))
	out = append(out, byte(len(cellLocals)))
	for _, n := range cellLocals {
		out = append(out, byte(n))
	}
	return append(out, code...)
}
