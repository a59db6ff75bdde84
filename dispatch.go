package caravel

import (
	"fmt"
	"math"
)

// arithOp enumerates the arithmetic operations routed through the dispatch
// layer.
type arithOp uint8

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
	opFloorDiv
)

func (op arithOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "floordiv"
	}
}

// cmpOp enumerates the comparison operations.
type cmpOp uint8

const (
	cmpEq cmpOp = iota
	cmpNe
	cmpGt
	cmpLt
	cmpGe
	cmpLe
)

func (op cmpOp) String() string {
	switch op {
	case cmpEq:
		return "eq"
	case cmpNe:
		return "neq"
	case cmpGt:
		return "gt"
	case cmpLt:
		return "lt"
	case cmpGe:
		return "gt_eq"
	default:
		return "lt_eq"
	}
}

// FillStrategy selects how FillNone replaces null values.
type FillStrategy string

const (
	FillForward  FillStrategy = "forward"
	FillBackward FillStrategy = "backward"
	FillMin      FillStrategy = "min"
	FillMax      FillStrategy = "max"
	FillMean     FillStrategy = "mean"
)

// kernels is the set of concrete typed implementations for one dtype. The
// underlying kernels are monomorphized per physical type; this table makes
// that invisible to callers holding a dynamically typed Series. A nil field
// means the (operation, dtype) combination is unsupported and the Series
// surface reports ErrUnsupported.
type kernels struct {
	arith         func(a, b *Series, name string, op arithOp) *Series
	arithScalar   func(s *Series, v any, op arithOp, reflected bool) (*Series, error)
	compare       func(a, b *Series, name string, op cmpOp) *Series
	compareScalar func(s *Series, v any, op cmpOp) (*Series, error)
	argsort       func(s *Series, reverse bool) []uint32
	argUnique     func(s *Series) []uint32
	sum           func(s *Series) any
	min           func(s *Series) any
	max           func(s *Series) any
	mean          func(s *Series) any
	fill          func(s *Series, strategy FillStrategy) (*Series, error)
	take          func(s *Series, name string, indices []int) *Series
	setMask       func(s *Series, mask []bool, v any) (*Series, error)
	setAt         func(s *Series, indices []int, v any) (*Series, error)
	shift         func(s *Series, periods int) *Series
	zip           func(name string, mask []bool, a, b *Series) *Series
	equal         func(a, b *Series, nullEqual bool) bool
	build         func(name string, rows []any) (*Series, error)
	rechunk       func(s *Series) chunk
}

// kernelTable maps every dtype to its kernel set. Built once at package init;
// dispatch is a plain map lookup, never string construction.
var kernelTable map[DType]*kernels

func init() {
	kernelTable = map[DType]*kernels{
		Int8:     intKernels[int8](Int8),
		Int16:    intKernels[int16](Int16),
		Int32:    intKernels[int32](Int32),
		Int64:    intKernels[int64](Int64),
		UInt8:    intKernels[uint8](UInt8),
		UInt16:   intKernels[uint16](UInt16),
		UInt32:   intKernels[uint32](UInt32),
		UInt64:   intKernels[uint64](UInt64),
		Float32:  floatKernels[float32](Float32),
		Float64:  floatKernels[float64](Float64),
		Bool:     boolKernels(),
		String:   stringKernels(),
		Date32:   temporalKernels[int32](Date32),
		Date64:   temporalKernels[int64](Date64),
		Time64:   temporalKernels[int64](Time64),
		Duration: temporalKernels[int64](Duration),
		List:     listKernels(),
	}
}

func kernelFor(dt DType) *kernels {
	return kernelTable[dt]
}

// ============================================================================
// Kernel builders
// ============================================================================

// baseKernels wires the operations every scalar dtype supports: gather,
// copy-on-write mutation, shift, zip, equality, arg_unique, rechunk and fill.
// The fill closure resolves its min/max/mean statistic through the kernel set
// itself, so dtype classes added later extend fill automatically.
func baseKernels[T element](dt DType, coerce func(any) (T, bool)) *kernels {
	k := &kernels{}

	coerceErr := func(v any) error {
		return fmt.Errorf("%w: cannot use %T value with %s series", ErrDTypeMismatch, v, dt)
	}

	k.take = func(s *Series, name string, indices []int) *Series {
		values, validity, _ := collect[T](s.chunks)
		out, vd, nulls := takeVals(values, validity, indices)
		return newSingleChunk(name, dt, out, vd, nulls)
	}

	k.setMask = func(s *Series, mask []bool, v any) (*Series, error) {
		var tv T
		setNull := v == nil
		if !setNull {
			var ok bool
			tv, ok = coerce(v)
			if !ok {
				return nil, coerceErr(v)
			}
		}
		values, validity, _ := collect[T](s.chunks)
		out, vd, nulls := setMaskVals(values, validity, mask, tv, setNull)
		return newSingleChunk(s.name, dt, out, vd, nulls), nil
	}

	k.setAt = func(s *Series, indices []int, v any) (*Series, error) {
		var tv T
		setNull := v == nil
		if !setNull {
			var ok bool
			tv, ok = coerce(v)
			if !ok {
				return nil, coerceErr(v)
			}
		}
		values, validity, _ := collect[T](s.chunks)
		out, vd, nulls := setAtVals(values, validity, indices, tv, setNull)
		return newSingleChunk(s.name, dt, out, vd, nulls), nil
	}

	k.shift = func(s *Series, periods int) *Series {
		values, validity, _ := collect[T](s.chunks)
		out, vd, nulls := shiftVals(values, validity, periods)
		return newSingleChunk(s.name, dt, out, vd, nulls)
	}

	k.zip = func(name string, mask []bool, a, b *Series) *Series {
		av, avd, _ := collect[T](a.chunks)
		bv, bvd, _ := collect[T](b.chunks)
		out, vd, nulls := zipVals(mask, av, avd, bv, bvd)
		return newSingleChunk(name, dt, out, vd, nulls)
	}

	k.equal = func(a, b *Series, nullEqual bool) bool {
		av, avd, _ := collect[T](a.chunks)
		bv, bvd, _ := collect[T](b.chunks)
		return equalVals(av, avd, bv, bvd, nullEqual)
	}

	k.argUnique = func(s *Series) []uint32 {
		values, validity, _ := collect[T](s.chunks)
		return argUniqueIndices(values, validity)
	}

	k.build = func(name string, rows []any) (*Series, error) {
		values := make([]T, len(rows))
		valid := make([]bool, len(rows))
		for i, r := range rows {
			if r == nil {
				continue
			}
			tv, ok := coerce(r)
			if !ok {
				return nil, coerceErr(r)
			}
			values[i] = tv
			valid[i] = true
		}
		vd, nulls := bitmapFromBools(valid)
		return newSingleChunk(name, dt, values, vd, nulls), nil
	}

	k.rechunk = func(s *Series) chunk {
		return rechunked[T](dt, s.chunks)
	}

	k.fill = func(s *Series, strategy FillStrategy) (*Series, error) {
		values, validity, _ := collect[T](s.chunks)
		switch strategy {
		case FillForward:
			out, vd, nulls := fillForwardVals(values, validity)
			return newSingleChunk(s.name, dt, out, vd, nulls), nil
		case FillBackward:
			out, vd, nulls := fillBackwardVals(values, validity)
			return newSingleChunk(s.name, dt, out, vd, nulls), nil
		case FillMin, FillMax, FillMean:
			var statFn func(*Series) any
			switch strategy {
			case FillMin:
				statFn = k.min
			case FillMax:
				statFn = k.max
			default:
				statFn = k.mean
			}
			if statFn == nil {
				return nil, errUnsupported("fill_"+string(strategy), dt)
			}
			stat := statFn(s)
			if stat == nil {
				// all-null series: no statistic to fill with
				return s.Clone(), nil
			}
			fill, ok := coerce(stat)
			if !ok {
				return nil, errUnsupported("fill_"+string(strategy), dt)
			}
			out, vd, nulls := fillConstVals(values, validity, fill)
			return newSingleChunk(s.name, dt, out, vd, nulls), nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
		}
	}

	return k
}

// addOrdered wires comparison, argsort and min/max for dtypes with a total
// order.
func addOrdered[T orderedElem](k *kernels, dt DType, coerce func(any) (T, bool)) {
	k.compare = func(a, b *Series, name string, op cmpOp) *Series {
		av, avd, _ := collect[T](a.chunks)
		bv, bvd, _ := collect[T](b.chunks)
		out, vd, nulls := compareLoop(av, bv, avd, bvd, cmpPred[T](op))
		return newSingleChunk(name, Bool, out, vd, nulls)
	}

	k.compareScalar = func(s *Series, v any, op cmpOp) (*Series, error) {
		tv, ok := coerce(v)
		if !ok {
			return nil, fmt.Errorf("%w: cannot compare %s series with %T", ErrDTypeMismatch, dt, v)
		}
		values, validity, _ := collect[T](s.chunks)
		pred := cmpPred[T](op)
		out := make([]bool, len(values))
		vd, nulls := sliceBitmap(validity, 0, len(values))
		for i, val := range values {
			if vd != nil && !bitIsValid(vd, i) {
				continue
			}
			out[i] = pred(val, tv)
		}
		return newSingleChunk(s.name, Bool, out, vd, nulls), nil
	}

	k.argsort = func(s *Series, reverse bool) []uint32 {
		values, validity, _ := collect[T](s.chunks)
		return argsortIndices(values, validity, reverse)
	}

	k.min = func(s *Series) any {
		values, validity, _ := collect[T](s.chunks)
		v, ok := reduceMin(values, validity)
		if !ok {
			return nil
		}
		return v
	}

	k.max = func(s *Series) any {
		values, validity, _ := collect[T](s.chunks)
		v, ok := reduceMax(values, validity)
		if !ok {
			return nil
		}
		return v
	}
}

// addNumericReductions wires sum and mean.
func addNumericReductions[T number](k *kernels) {
	k.sum = func(s *Series) any {
		values, validity, _ := collect[T](s.chunks)
		v, ok := reduceSum(values, validity)
		if !ok {
			return nil
		}
		return v
	}

	// mean is always float64: integer division must not truncate.
	k.mean = func(s *Series) any {
		values, validity, _ := collect[T](s.chunks)
		v, ok := meanValue(values, validity)
		if !ok {
			return nil
		}
		return v
	}
}

// addArith wires the arithmetic kernels given the dtype's element-level apply
// function and a true-division implementation.
func addArith[T number](k *kernels, dt DType, coerce func(any) (T, bool),
	apply func(op arithOp) func(T, T) (T, bool),
	trueDiv func(s *Series, name string, other []T, otherValidity []byte, reflected bool) *Series) {

	k.arith = func(a, b *Series, name string, op arithOp) *Series {
		av, avd, _ := collect[T](a.chunks)
		bv, bvd, _ := collect[T](b.chunks)
		if op == opDiv {
			return trueDiv(a, name, bv, bvd, false)
		}
		out, vd, nulls := arithLoop(av, bv, avd, bvd, apply(op))
		return newSingleChunk(name, dt, out, vd, nulls)
	}

	k.arithScalar = func(s *Series, v any, op arithOp, reflected bool) (*Series, error) {
		tv, ok := coerce(v)
		if !ok {
			return nil, fmt.Errorf("%w: cannot %s %s series with %T", ErrDTypeMismatch, op, dt, v)
		}
		values, validity, _ := collect[T](s.chunks)
		broadcast := make([]T, len(values))
		for i := range broadcast {
			broadcast[i] = tv
		}
		if op == opDiv {
			return trueDiv(s, s.name, broadcast, nil, reflected), nil
		}
		fn := apply(op)
		var out []T
		var vd []byte
		var nulls int
		if reflected {
			out, vd, nulls = arithLoop(broadcast, values, nil, validity, fn)
		} else {
			out, vd, nulls = arithLoop(values, broadcast, validity, nil, fn)
		}
		return newSingleChunk(s.name, dt, out, vd, nulls), nil
	}
}

// intKernels builds the full kernel set for an integer dtype. True division
// promotes to Float64; floor division by zero yields null.
func intKernels[T integer](dt DType) *kernels {
	coerce := coerceNumeric[T]
	k := baseKernels(dt, coerce)
	addOrdered(k, dt, coerce)
	addNumericReductions[T](k)

	apply := func(op arithOp) func(T, T) (T, bool) {
		switch op {
		case opAdd:
			return func(a, b T) (T, bool) { return a + b, true }
		case opSub:
			return func(a, b T) (T, bool) { return a - b, true }
		case opMul:
			return func(a, b T) (T, bool) { return a * b, true }
		default: // opFloorDiv: floored, not truncated, division
			return func(a, b T) (T, bool) {
				if b == 0 {
					return 0, false
				}
				q := a / b
				if a%b != 0 && (a < 0) != (b < 0) {
					q--
				}
				return q, true
			}
		}
	}

	trueDiv := func(s *Series, name string, other []T, otherValidity []byte, reflected bool) *Series {
		values, validity, _ := collect[T](s.chunks)
		n := len(values)
		out := make([]float64, n)
		vd, nulls := validityAnd(validity, otherValidity, n)
		for i := 0; i < n; i++ {
			if vd != nil && !bitIsValid(vd, i) {
				continue
			}
			if reflected {
				out[i] = float64(other[i]) / float64(values[i])
			} else {
				out[i] = float64(values[i]) / float64(other[i])
			}
		}
		return newSingleChunk(name, Float64, out, vd, nulls)
	}

	addArith(k, dt, coerce, apply, trueDiv)
	return k
}

// floatKernels builds the kernel set for a float dtype. True division keeps
// the operand's own width; IEEE 754 covers division by zero.
func floatKernels[T floater](dt DType) *kernels {
	coerce := coerceNumeric[T]
	k := baseKernels(dt, coerce)
	addOrdered(k, dt, coerce)
	addNumericReductions[T](k)

	apply := func(op arithOp) func(T, T) (T, bool) {
		switch op {
		case opAdd:
			return func(a, b T) (T, bool) { return a + b, true }
		case opSub:
			return func(a, b T) (T, bool) { return a - b, true }
		case opMul:
			return func(a, b T) (T, bool) { return a * b, true }
		case opDiv:
			return func(a, b T) (T, bool) { return a / b, true }
		default: // opFloorDiv
			return func(a, b T) (T, bool) {
				return T(math.Floor(float64(a) / float64(b))), true
			}
		}
	}

	trueDiv := func(s *Series, name string, other []T, otherValidity []byte, reflected bool) *Series {
		values, validity, _ := collect[T](s.chunks)
		div := apply(opDiv)
		var out []T
		var vd []byte
		var nulls int
		if reflected {
			out, vd, nulls = arithLoop(other, values, otherValidity, validity, div)
		} else {
			out, vd, nulls = arithLoop(values, other, validity, otherValidity, div)
		}
		return newSingleChunk(name, dt, out, vd, nulls)
	}

	addArith(k, dt, coerce, apply, trueDiv)
	return k
}

// temporalKernels builds the kernel set for date/time dtypes: ordered and
// gatherable over their raw integer storage, but no arithmetic surface.
func temporalKernels[T integer](dt DType) *kernels {
	coerce := coerceNumeric[T]
	k := baseKernels(dt, coerce)
	addOrdered(k, dt, coerce)
	return k
}

// stringKernels builds the kernel set for UTF-8 strings: lexical ordering,
// no arithmetic.
func stringKernels() *kernels {
	k := baseKernels(String, coerceString)
	addOrdered(k, String, coerceString)
	return k
}

// boolKernels builds the kernel set for booleans. Ordering treats false <
// true; sum/min/max promote to an unsigned 32-bit result because the storage
// has no native reduction kernels.
func boolKernels() *kernels {
	k := baseKernels(Bool, coerceBool)

	b2u := func(b bool) uint8 {
		if b {
			return 1
		}
		return 0
	}

	k.compare = func(a, b *Series, name string, op cmpOp) *Series {
		av, avd, _ := collect[bool](a.chunks)
		bv, bvd, _ := collect[bool](b.chunks)
		pred := cmpPred[uint8](op)
		out, vd, nulls := compareLoop(av, bv, avd, bvd, func(x, y bool) bool {
			return pred(b2u(x), b2u(y))
		})
		return newSingleChunk(name, Bool, out, vd, nulls)
	}

	k.compareScalar = func(s *Series, v any, op cmpOp) (*Series, error) {
		tv, ok := coerceBool(v)
		if !ok {
			return nil, fmt.Errorf("%w: cannot compare Bool series with %T", ErrDTypeMismatch, v)
		}
		values, validity, _ := collect[bool](s.chunks)
		pred := cmpPred[uint8](op)
		out := make([]bool, len(values))
		vd, nulls := sliceBitmap(validity, 0, len(values))
		for i, val := range values {
			if vd != nil && !bitIsValid(vd, i) {
				continue
			}
			out[i] = pred(b2u(val), b2u(tv))
		}
		return newSingleChunk(s.name, Bool, out, vd, nulls), nil
	}

	k.argsort = func(s *Series, reverse bool) []uint32 {
		values, validity, _ := collect[bool](s.chunks)
		u := make([]uint8, len(values))
		for i, v := range values {
			u[i] = b2u(v)
		}
		return argsortIndices(u, validity, reverse)
	}

	k.sum = func(s *Series) any {
		values, validity, _ := collect[bool](s.chunks)
		var count uint32
		seen := false
		for i, v := range values {
			if !bitIsValid(validity, i) {
				continue
			}
			seen = true
			if v {
				count++
			}
		}
		if !seen {
			return nil
		}
		return count
	}

	k.min = func(s *Series) any {
		values, validity, _ := collect[bool](s.chunks)
		best := uint32(1)
		seen := false
		for i, v := range values {
			if !bitIsValid(validity, i) {
				continue
			}
			seen = true
			if !v {
				best = 0
			}
		}
		if !seen {
			return nil
		}
		return best
	}

	k.max = func(s *Series) any {
		values, validity, _ := collect[bool](s.chunks)
		best := uint32(0)
		seen := false
		for i, v := range values {
			if !bitIsValid(validity, i) {
				continue
			}
			seen = true
			if v {
				best = 1
			}
		}
		if !seen {
			return nil
		}
		return best
	}

	k.mean = func(s *Series) any {
		values, validity, _ := collect[bool](s.chunks)
		count := 0
		trues := 0
		for i, v := range values {
			if !bitIsValid(validity, i) {
				continue
			}
			count++
			if v {
				trues++
			}
		}
		if count == 0 {
			return nil
		}
		return float64(trues) / float64(count)
	}

	return k
}

// listKernels builds the restricted kernel set for the nested list dtype:
// gather, equality and rechunk. Everything else is a dispatch miss.
func listKernels() *kernels {
	k := &kernels{}

	k.rechunk = listRechunk

	k.take = func(s *Series, name string, indices []int) *Series {
		lc := listRechunk(s).(*listChunk)
		var childIdx []int
		offsets := make([]int32, 1, len(indices)+1)
		valid := make([]bool, 0, len(indices))
		for _, idx := range indices {
			if lc.valid(idx) {
				for j := int(lc.offsets[idx]); j < int(lc.offsets[idx+1]); j++ {
					childIdx = append(childIdx, j)
				}
				valid = append(valid, true)
			} else {
				valid = append(valid, false)
			}
			offsets = append(offsets, int32(len(childIdx)))
		}
		child, _ := lc.child.Take(childIdx)
		vd, nulls := bitmapFromBools(valid)
		ck, _ := newListChunk(offsets, child, vd, nulls)
		return &Series{name: name, dtype: List, chunks: []chunk{ck}}
	}

	k.equal = func(a, b *Series, nullEqual bool) bool {
		for i := 0; i < a.Len(); i++ {
			av, _ := a.Get(i)
			bv, _ := b.Get(i)
			if av == nil || bv == nil {
				if !(av == nil && bv == nil && nullEqual) {
					return false
				}
				continue
			}
			if !listRowsEqual(av.([]any), bv.([]any), nullEqual) {
				return false
			}
		}
		return true
	}

	return k
}

// listRowsEqual compares two materialized list rows, recursing into nested
// lists. Element nulls follow the same nullEqual rule as SeriesEqual.
func listRowsEqual(a, b []any, nullEqual bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if !(a[i] == nil && b[i] == nil && nullEqual) {
				return false
			}
			continue
		}
		an, aIsList := a[i].([]any)
		bn, bIsList := b[i].([]any)
		if aIsList || bIsList {
			if !aIsList || !bIsList || !listRowsEqual(an, bn, nullEqual) {
				return false
			}
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
