// Package hir implements the HIR (high-level intermediate representation)
// graph for the Talon optimizing compiler: basic blocks, instructions with
// use-lists and environments, dominance and loop metadata, and the
// structural/SSA graph checkers that validate it.
//
// Instructions and blocks live in per-graph arenas and reference each other
// through dense integer handles (InstrRef, BlockRef) rather than pointers;
// see graph.go.
package hir

// Op represents an HIR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Values
	OpParam    // method parameter; AuxInt = parameter index
	OpConstInt // integer constant (int or long kind); AuxInt = value
	OpPhi      // φ function; one input per predecessor

	// Control flow (block terminators)
	OpGoto   // unconditional jump to Succs[0]
	OpIf     // conditional branch: if input 0 then Succs[0] else Succs[1]
	OpReturn // method return; optional value input
	OpExit   // method exit (e.g. unwind); no successors

	// Arithmetic
	OpAdd
	OpSub
	OpNeg
	OpMul
	OpDiv
	OpShl
	OpShr
	OpUShr

	// Comparison
	OpCmp // three-way compare; int result
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// Arrays
	OpArrayLength // array length; input 0 = array ref
	OpArrayGet    // input 0 = array ref, input 1 = index
	OpArraySet    // input 0 = array ref, input 1 = index, input 2 = value
	OpBoundsCheck // input 0 = index, input 1 = length; passes the index through

	// Runtime
	OpSuspendCheck // safepoint; carries an environment, no inputs

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an HIR operation.
type OpInfo struct {
	Name          string // human-readable name
	IsControlFlow bool   // true if the op terminates a basic block
	IsCondition   bool   // true for boolean-producing comparison ops
	IsShift       bool   // true for Shl/Shr/UShr
	IsBinary      bool   // true for two-operand arithmetic/comparison ops
}

// opInfoTable maps each Op to its OpInfo.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpParam:    {Name: "Param"},
	OpConstInt: {Name: "ConstInt"},
	OpPhi:      {Name: "Phi"},

	OpGoto:   {Name: "Goto", IsControlFlow: true},
	OpIf:     {Name: "If", IsControlFlow: true},
	OpReturn: {Name: "Return", IsControlFlow: true},
	OpExit:   {Name: "Exit", IsControlFlow: true},

	OpAdd:  {Name: "Add", IsBinary: true},
	OpSub:  {Name: "Sub", IsBinary: true},
	OpNeg:  {Name: "Neg"},
	OpMul:  {Name: "Mul", IsBinary: true},
	OpDiv:  {Name: "Div", IsBinary: true},
	OpShl:  {Name: "Shl", IsBinary: true, IsShift: true},
	OpShr:  {Name: "Shr", IsBinary: true, IsShift: true},
	OpUShr: {Name: "UShr", IsBinary: true, IsShift: true},

	OpCmp: {Name: "Cmp", IsBinary: true},
	OpEq:  {Name: "Eq", IsBinary: true, IsCondition: true},
	OpNe:  {Name: "Ne", IsBinary: true, IsCondition: true},
	OpLt:  {Name: "Lt", IsBinary: true, IsCondition: true},
	OpLe:  {Name: "Le", IsBinary: true, IsCondition: true},
	OpGt:  {Name: "Gt", IsBinary: true, IsCondition: true},
	OpGe:  {Name: "Ge", IsBinary: true, IsCondition: true},

	OpArrayLength: {Name: "ArrayLength"},
	OpArrayGet:    {Name: "ArrayGet"},
	OpArraySet:    {Name: "ArraySet"},
	OpBoundsCheck: {Name: "BoundsCheck"},

	OpSuspendCheck: {Name: "SuspendCheck"},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsControlFlow returns true if this op terminates a basic block.
func (o Op) IsControlFlow() bool { return o.Info().IsControlFlow }

// IsConstant returns true for constant-producing ops.
func (o Op) IsConstant() bool { return o == OpConstInt }

// IsCondition returns true for boolean-producing comparison ops.
func (o Op) IsCondition() bool { return o.Info().IsCondition }

// IsShift returns true for shift ops.
func (o Op) IsShift() bool { return o.Info().IsShift }

// IsBinary returns true for two-operand arithmetic/comparison ops.
func (o Op) IsBinary() bool { return o.Info().IsBinary }
