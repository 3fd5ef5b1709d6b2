package vm

import (
	"sync"

	"github.com/pellet-lang/pellet/internal/object"
)

// Completion is the engine's report of how a frame finished.
type Completion uint8

const (
	CompleteNormal Completion = iota
	CompleteException
	CompleteYield
)

// ExcEntry is one exception-handler record pushed by the engine. The call
// core only sizes the stack; the engine owns the field meanings.
type ExcEntry struct {
	Handler    int
	StackLevel int
	Prev       object.Object
}

// excEntryWords is the per-entry footprint used when sizing a frame
// against the pooled-placement threshold.
const excEntryWords = 4

type framePlacement uint8

const (
	placementPooled framePlacement = iota
	placementHeap
)

// maxPooledStateSlots caps the backing array kept in pooled frames.
// Thresholds configured above it degrade to heap placement.
const maxPooledStateSlots = 64

// Frame is the per-invocation state of one bytecode call: the combined
// local-slot and evaluation-stack region, plus the exception-handler
// stack. Local slot i lives at state[nState-1-i]; the evaluation stack
// grows upward from state[0]. A frame never escapes its call.
type Frame struct {
	fn        *BytecodeFunction
	state     []object.Object
	sp        int // evaluation stack top; -1 when empty
	exc       []ExcEntry
	nState    int
	ip        int
	placement framePlacement
}

func (f *Frame) Fn() *BytecodeFunction { return f.fn }
func (f *Frame) NState() int           { return f.nState }

// IP is the offset of the next opcode, initially just past the prelude.
func (f *Frame) IP() int      { return f.ip }
func (f *Frame) SetIP(ip int) { f.ip = ip }
func (f *Frame) Code() []byte { return f.fn.rc.Code() }

// Local returns local slot i; nil means unbound.
func (f *Frame) Local(i int) object.Object { return f.state[f.nState-1-i] }

func (f *Frame) SetLocal(i int, v object.Object) { f.state[f.nState-1-i] = v }

// Evaluation stack. The stack region and the local region share one
// allocation and grow toward each other; the compiler guarantees the
// declared state size covers the deepest combined use.
func (f *Frame) Push(v object.Object) {
	f.sp++
	f.state[f.sp] = v
}

func (f *Frame) Pop() object.Object {
	v := f.state[f.sp]
	f.state[f.sp] = nil
	f.sp--
	return v
}

func (f *Frame) Top() object.Object { return f.state[f.sp] }

func (f *Frame) PushExc(e ExcEntry) { f.exc = append(f.exc, e) }
func (f *Frame) PopExc() ExcEntry {
	e := f.exc[len(f.exc)-1]
	f.exc = f.exc[:len(f.exc)-1]
	return e
}
func (f *Frame) ExcDepth() int { return len(f.exc) }

// ExcResult reads the raised value from the frame's last state slot,
// where the engine leaves it on CompleteException.
func (f *Frame) ExcResult() object.Object { return f.state[f.nState-1] }

func (f *Frame) SetExcResult(v object.Object) { f.state[f.nState-1] = v }

var framePool = sync.Pool{
	New: func() any {
		return &Frame{state: make([]object.Object, 0, maxPooledStateSlots)}
	},
}

// newFrame allocates the frame for one invocation of fn. Small frames
// come from a pool (the fast path); anything over the configured word
// threshold is a plain heap allocation. Placement must never be
// observable: both paths behave identically.
func (in *Interp) newFrame(fn *BytecodeFunction) *Frame {
	p := fn.prelude
	words := p.NState + p.NExcStack*excEntryWords

	var f *Frame
	if words <= in.cfg.MaxFrameWords && p.NState <= maxPooledStateSlots {
		f = framePool.Get().(*Frame)
		f.placement = placementPooled
		f.state = f.state[:p.NState]
		for i := range f.state {
			f.state[i] = nil
		}
	} else {
		f = &Frame{
			placement: placementHeap,
			state:     make([]object.Object, p.NState),
		}
	}
	f.fn = fn
	f.nState = p.NState
	f.sp = -1
	f.ip = p.CodeOffset
	if p.NExcStack > 0 {
		f.exc = make([]ExcEntry, 0, p.NExcStack)
	} else {
		f.exc = nil
	}
	return f
}

// release returns a pooled frame for reuse. Called exactly once per
// frame, on every exit path.
func (f *Frame) release() {
	if f.placement != placementPooled {
		return
	}
	for i := range f.state {
		f.state[i] = nil
	}
	f.state = f.state[:0]
	f.fn = nil
	f.exc = nil
	framePool.Put(f)
}
