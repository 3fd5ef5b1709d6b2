package object

import "unsafe"

// Cell is a shared mutable box around one local variable. The call-frame
// prelude wraps every closed-over local in a Cell so that closures created
// later alias the same storage instead of copying the value.
type Cell struct {
	value Object
}

func NewCell(value Object) *Cell {
	return &Cell{value: value}
}

func (c *Cell) Type() ObjectType { return CELL_OBJ }
func (c *Cell) Inspect() string {
	if c.value == nil {
		return "<cell empty>"
	}
	return "<cell " + c.value.Inspect() + ">"
}
func (c *Cell) Hash() uint32 {
	return uint32(uintptr(unsafe.Pointer(c)))
}

func (c *Cell) Get() Object  { return c.value }
func (c *Cell) Set(v Object) { c.value = v }
