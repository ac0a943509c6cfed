package induction

import (
	"math"

	"github.com/talon-vm/talon/internal/hir"
)

// Value is the result of a range query: the affine form A*Instr + B, or a
// pure constant when Instr is hir.InstrNone and A is 0. Known == false
// means no usable bound exists and the caller must stay conservative.
type Value struct {
	Known bool
	Instr hir.InstrRef
	A, B  int32
}

// Unknown returns the no-usable-bound value.
func Unknown() Value {
	return Value{Instr: hir.InstrNone}
}

// Constant returns the pure-constant value b.
func Constant(b int32) Value {
	return Value{Known: true, Instr: hir.InstrNone, B: b}
}

// Affine returns the bound a*instr + b. A zero multiplier collapses to a
// pure constant.
func Affine(instr hir.InstrRef, a, b int32) Value {
	if a == 0 {
		instr = hir.InstrNone
	}
	return Value{Known: true, Instr: instr, A: a, B: b}
}

// isConstant reports whether v is a known bound independent of any
// instruction.
func (v Value) isConstant() bool { return v.Known && v.A == 0 }

// VarRange answers conservative lower/upper bound queries for the value an
// instruction may take at a given context point. Every unresolvable case
// degrades to an unknown Value; the analysis never fails.
type VarRange struct {
	graph    *hir.Graph
	analysis *Map
}

// NewVarRange creates a range analysis over g using the supplied
// classification.
func NewVarRange(g *hir.Graph, analysis *Map) *VarRange {
	return &VarRange{graph: g, analysis: analysis}
}

// GetMinInduction returns a conservative lower bound for instruction at the
// program point of context.
func (r *VarRange) GetMinInduction(context, instruction hir.InstrRef) Value {
	loop := r.loopOf(context)
	if loop == nil {
		return Unknown()
	}
	trip := r.tripCount(loop, context)
	return r.getVal(r.analysis.LookupInfo(loop, instruction), trip, true)
}

// GetMaxInduction returns a conservative upper bound for instruction at the
// program point of context.
func (r *VarRange) GetMaxInduction(context, instruction hir.InstrRef) Value {
	loop := r.loopOf(context)
	if loop == nil {
		return Unknown()
	}
	trip := r.tripCount(loop, context)
	return r.simplifyMax(r.getVal(r.analysis.LookupInfo(loop, instruction), trip, false))
}

// loopOf returns the innermost loop enclosing the block of instr.
func (r *VarRange) loopOf(instr hir.InstrRef) *hir.LoopInfo {
	b := r.graph.Instr(instr).Block()
	if b == hir.BlockNone {
		return nil
	}
	return r.graph.Block(b).Loop
}

// tripCount returns the loop's trip-count expression wrapped in a synthetic
// Nop node whose children both hold it, so that getVal can evaluate the
// normalized counter range [0, TC-1] without materializing instructions.
// The expression is only valid when context is past the header: on first
// entry to the header the back-edge test has not executed yet.
func (r *VarRange) tripCount(loop *hir.LoopInfo, context hir.InstrRef) *Info {
	header := r.graph.Block(loop.Header)
	if r.graph.Instr(context).Block() == loop.Header {
		return nil
	}
	tc := r.analysis.LookupInfo(loop, header.LastInstr())
	if tc == nil {
		return nil
	}
	return NewInvariantOp(OpNop, tc, tc)
}

// getVal evaluates the requested extremum of an induction classification.
func (r *VarRange) getVal(info, trip *Info, isMin bool) Value {
	if info == nil {
		return Unknown()
	}
	switch info.Class {
	case ClassInvariant:
		switch info.Op {
		case OpNop: // normalized counter: [0, TC-1]
			if isMin {
				return Constant(0)
			}
			return subValue(r.getVal(info.B, trip, false), Constant(1))
		case OpAdd:
			return addValue(r.getVal(info.A, trip, isMin), r.getVal(info.B, trip, isMin))
		case OpSub: // a - b: the subtrahend contributes with the opposite extremum
			return subValue(r.getVal(info.A, trip, isMin), r.getVal(info.B, trip, !isMin))
		case OpNeg:
			return subValue(Constant(0), r.getVal(info.B, trip, !isMin))
		case OpMul:
			return r.getMul(info.A, info.B, trip, isMin)
		case OpDiv:
			return r.getDiv(info.A, info.B, trip, isMin)
		case OpFetch:
			return r.getFetch(info.Fetch, trip, isMin)
		}
	case ClassLinear:
		// a*i + b: multiply the stride through the counter range, add the base.
		return addValue(r.getMul(info.A, trip, trip, isMin), r.getVal(info.B, trip, isMin))
	case ClassWrapAround, ClassPeriodic:
		return mergeVal(r.getVal(info.A, trip, isMin), r.getVal(info.B, trip, isMin), isMin)
	}
	return Unknown()
}

// getFetch evaluates an invariant leaf.
func (r *VarRange) getFetch(instr hir.InstrRef, trip *Info, isMin bool) Value {
	in := r.graph.Instr(instr)
	if c, ok := constantOf(in); ok {
		return Constant(c)
	}
	if in.Op() == hir.OpAdd && in.NumInputs() == 2 {
		// Peel one constant addend off a shallow a + b.
		if c, ok := constantOf(r.graph.Instr(in.InputAt(0))); ok {
			return addValue(Constant(c), r.getFetch(in.InputAt(1), trip, isMin))
		}
		if c, ok := constantOf(r.graph.Instr(in.InputAt(1))); ok {
			return addValue(r.getFetch(in.InputAt(0), trip, isMin), Constant(c))
		}
	} else if isMin && trip != nil && trip.B != nil &&
		trip.B.Op == OpFetch && trip.B.Fetch == instr {
		// The trip-count value itself: a loop whose body is reached
		// executes at least once.
		return Constant(1)
	}
	return Affine(instr, 1, 0)
}

// getMul evaluates the requested extremum of a product by classifying the
// sign of each operand range and picking the matching pair of extrema.
// An undecidable sign yields unknown.
func (r *VarRange) getMul(info1, info2, trip *Info, isMin bool) Value {
	v1Min := r.getVal(info1, trip, true)
	v1Max := r.getVal(info1, trip, false)
	v2Min := r.getVal(info2, trip, true)
	v2Max := r.getVal(info2, trip, false)
	switch {
	case v1Min.isConstant() && v1Min.B >= 0:
		// Positive range times positive or negative range.
		if v2Min.isConstant() && v2Min.B >= 0 {
			if isMin {
				return mulValue(v1Min, v2Min)
			}
			return mulValue(v1Max, v2Max)
		} else if v2Max.isConstant() && v2Max.B <= 0 {
			if isMin {
				return mulValue(v1Max, v2Min)
			}
			return mulValue(v1Min, v2Max)
		}
	case v1Max.isConstant() && v1Max.B <= 0:
		// Negative range times positive or negative range.
		if v2Min.isConstant() && v2Min.B >= 0 {
			if isMin {
				return mulValue(v1Min, v2Max)
			}
			return mulValue(v1Max, v2Min)
		} else if v2Max.isConstant() && v2Max.B <= 0 {
			if isMin {
				return mulValue(v1Max, v2Max)
			}
			return mulValue(v1Min, v2Min)
		}
	}
	return Unknown()
}

// getDiv is getMul's counterpart for quotients.
func (r *VarRange) getDiv(info1, info2, trip *Info, isMin bool) Value {
	v1Min := r.getVal(info1, trip, true)
	v1Max := r.getVal(info1, trip, false)
	v2Min := r.getVal(info2, trip, true)
	v2Max := r.getVal(info2, trip, false)
	switch {
	case v1Min.isConstant() && v1Min.B >= 0:
		if v2Min.isConstant() && v2Min.B >= 0 {
			if isMin {
				return divValue(v1Min, v2Max)
			}
			return divValue(v1Max, v2Min)
		} else if v2Max.isConstant() && v2Max.B <= 0 {
			if isMin {
				return divValue(v1Max, v2Max)
			}
			return divValue(v1Min, v2Min)
		}
	case v1Max.isConstant() && v1Max.B <= 0:
		if v2Min.isConstant() && v2Min.B >= 0 {
			if isMin {
				return divValue(v1Min, v2Min)
			}
			return divValue(v1Max, v2Max)
		} else if v2Max.isConstant() && v2Max.B <= 0 {
			if isMin {
				return divValue(v1Max, v2Min)
			}
			return divValue(v1Min, v2Max)
		}
	}
	return Unknown()
}

// simplifyMax rewrites an upper bound of the form a*(length/a) + b with
// constant a > 1 into length + b: integer truncation guarantees
// a*(length/a) <= length, and the simpler form is more likely to match an
// upper bound proven elsewhere, such as the array's own length.
func (r *VarRange) simplifyMax(v Value) Value {
	if !v.Known || v.A <= 1 || v.Instr == hir.InstrNone {
		return v
	}
	div := r.graph.Instr(v.Instr)
	if div.Op() != hir.OpDiv || div.NumInputs() != 2 {
		return v
	}
	num := r.graph.Instr(div.InputAt(0))
	if num.Op() != hir.OpArrayLength {
		return v
	}
	if c, ok := constantOf(r.graph.Instr(div.InputAt(1))); ok && c == v.A {
		return Affine(div.InputAt(0), 1, v.B)
	}
	return v
}

// constantOf recognizes 32-bit-representable integer and long constants.
func constantOf(in *hir.Instruction) (int32, bool) {
	if !in.Op().IsConstant() {
		return 0, false
	}
	if in.AuxInt < math.MinInt32 || in.AuxInt > math.MaxInt32 {
		return 0, false
	}
	return int32(in.AuxInt), true
}

// The combination steps below verify in 64-bit precision that the 32-bit
// signed result cannot wrap; on overflow the combined value degrades to
// unknown rather than wrapping.

func isSafe(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

func isSafeAdd(a, b int32) bool { return isSafe(int64(a) + int64(b)) }
func isSafeSub(a, b int32) bool { return isSafe(int64(a) - int64(b)) }
func isSafeMul(a, b int32) bool { return isSafe(int64(a) * int64(b)) }

func isSafeDiv(a, b int32) bool {
	return b != 0 && isSafe(int64(a)/int64(b))
}

// addValue computes v1 + v2.
func addValue(v1, v2 Value) Value {
	if v1.Known && v2.Known && isSafeAdd(v1.B, v2.B) {
		b := v1.B + v2.B
		if v1.A == 0 {
			return Affine(v2.Instr, v2.A, b)
		} else if v2.A == 0 {
			return Affine(v1.Instr, v1.A, b)
		} else if v1.Instr == v2.Instr && isSafeAdd(v1.A, v2.A) {
			return Affine(v1.Instr, v1.A+v2.A, b)
		}
	}
	return Unknown()
}

// subValue computes v1 - v2.
func subValue(v1, v2 Value) Value {
	if v1.Known && v2.Known && isSafeSub(v1.B, v2.B) {
		b := v1.B - v2.B
		if v1.A == 0 && isSafeSub(0, v2.A) {
			return Affine(v2.Instr, -v2.A, b)
		} else if v2.A == 0 {
			return Affine(v1.Instr, v1.A, b)
		} else if v1.Instr == v2.Instr && isSafeSub(v1.A, v2.A) {
			return Affine(v1.Instr, v1.A-v2.A, b)
		}
	}
	return Unknown()
}

// mulValue computes v1 * v2; one side must be a pure constant.
func mulValue(v1, v2 Value) Value {
	if v1.Known && v2.Known {
		if v1.A == 0 {
			if isSafeMul(v1.B, v2.A) && isSafeMul(v1.B, v2.B) {
				return Affine(v2.Instr, v1.B*v2.A, v1.B*v2.B)
			}
		} else if v2.A == 0 {
			if isSafeMul(v2.B, v1.A) && isSafeMul(v2.B, v1.B) {
				return Affine(v1.Instr, v2.B*v1.A, v2.B*v1.B)
			}
		}
	}
	return Unknown()
}

// divValue computes v1 / v2; both sides must be pure constants and the
// divisor nonzero.
func divValue(v1, v2 Value) Value {
	if v1.isConstant() && v2.isConstant() && isSafeDiv(v1.B, v2.B) {
		return Constant(v1.B / v2.B)
	}
	return Unknown()
}

// mergeVal combines the bounds of two alternative sequences; usable only
// when both resolve to the same instruction and multiplier.
func mergeVal(v1, v2 Value, isMin bool) Value {
	if v1.Known && v2.Known && v1.Instr == v2.Instr && v1.A == v2.A {
		if isMin {
			return Affine(v1.Instr, v1.A, min(v1.B, v2.B))
		}
		return Affine(v1.Instr, v1.A, max(v1.B, v2.B))
	}
	return Unknown()
}
