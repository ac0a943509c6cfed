package hir

import "fmt"

// InstrRef is the dense arena index of an instruction within a Graph.
// It doubles as the instruction's unique id; ids are never reused.
type InstrRef int32

// InstrNone is the null instruction reference.
const InstrNone InstrRef = -1

// String returns a short string representation (e.g. "i5").
func (r InstrRef) String() string {
	if r == InstrNone {
		return "i?"
	}
	return fmt.Sprintf("i%d", int32(r))
}

// Use is one node of a producer's use-list: the consuming instruction and
// the input slot (or environment slot, see envUses) on the consumer side.
type Use struct {
	Consumer InstrRef
	Slot     int32
}

// inputRecord is the consumer side of a def-use edge. It names the producer
// and the position of the matching Use node inside the producer's use
// vector, so that detaching the edge is a single swap-remove.
type inputRecord struct {
	producer InstrRef
	usePos   int32
}

// envSlot is one entry of an instruction's environment: a nullable producer
// reference plus the back-pointer into the producer's env-use vector.
type envSlot struct {
	producer InstrRef // InstrNone when the slot is empty or was cleared
	usePos   int32
}

// Instruction is a single HIR instruction. All cross-instruction links are
// arena references; resolving a reference requires the owning Graph.
type Instruction struct {
	id    InstrRef
	op    Op
	kind  Kind
	block BlockRef

	inputs  []inputRecord
	uses    []Use // value uses of this instruction
	envUses []Use // environment uses of this instruction

	env []envSlot // deoptimization state; nil when absent

	// AuxInt holds op-specific payload (e.g. the value of OpConstInt,
	// the parameter index of OpParam).
	AuxInt int64

	live     bool // phi liveness flag, maintained by dead-phi elimination
	catchPhi bool
}

// ID returns the instruction's unique id.
func (in *Instruction) ID() InstrRef { return in.id }

// Op returns the operation code.
func (in *Instruction) Op() Op { return in.op }

// Kind returns the primitive kind of the produced value.
func (in *Instruction) Kind() Kind { return in.kind }

// Block returns the block currently containing the instruction, or
// BlockNone if the instruction has been unlinked.
func (in *Instruction) Block() BlockRef { return in.block }

// IsInBlock reports whether the instruction is still linked into a block.
func (in *Instruction) IsInBlock() bool { return in.block != BlockNone }

// IsPhi reports whether the instruction is a phi.
func (in *Instruction) IsPhi() bool { return in.op == OpPhi }

// NumInputs returns the number of inputs.
func (in *Instruction) NumInputs() int { return len(in.inputs) }

// InputAt returns the producer of input i.
func (in *Instruction) InputAt(i int) InstrRef { return in.inputs[i].producer }

// Uses returns the use-list of this instruction's value. The returned slice
// is owned by the instruction and must not be mutated by the caller.
func (in *Instruction) Uses() []Use { return in.uses }

// EnvUses returns the environment uses of this instruction's value. The
// returned slice is owned by the instruction and must not be mutated.
func (in *Instruction) EnvUses() []Use { return in.envUses }

// HasUses reports whether any instruction consumes this value as an input.
func (in *Instruction) HasUses() bool { return len(in.uses) > 0 }

// HasEnvUses reports whether any environment slot references this value.
func (in *Instruction) HasEnvUses() bool { return len(in.envUses) > 0 }

// HasEnvironment reports whether the instruction carries deopt state.
func (in *Instruction) HasEnvironment() bool { return in.env != nil }

// EnvSize returns the number of environment slots.
func (in *Instruction) EnvSize() int { return len(in.env) }

// EnvAt returns the producer referenced by environment slot i, or InstrNone
// for an empty slot.
func (in *Instruction) EnvAt(i int) InstrRef { return in.env[i].producer }

// IsLive reports the phi liveness flag. Phis are constructed live.
func (in *Instruction) IsLive() bool { return in.live }

// IsDead reports the inverse of IsLive.
func (in *Instruction) IsDead() bool { return !in.live }

// SetLive marks the phi live.
func (in *Instruction) SetLive() { in.live = true }

// SetDead marks the phi dead.
func (in *Instruction) SetDead() { in.live = false }

// IsCatchPhi reports whether this is a catch-block phi. Catch phis may
// legally have zero inputs while their values are still unresolved.
func (in *Instruction) IsCatchPhi() bool { return in.catchPhi }

// String returns a short string representation (e.g. "i5").
func (in *Instruction) String() string { return in.id.String() }
