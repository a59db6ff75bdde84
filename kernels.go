package caravel

import (
	"sort"
)

// Physical type classes. Kernels are monomorphized per class so that integer
// division, float flooring and lexical ordering each compile against the
// operations their types actually support.
type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type floater interface {
	~float32 | ~float64
}

type number interface {
	integer | floater
}

type orderedElem interface {
	number | ~string
}

// validityAnd combines two validity bitmaps: a position is null in the result
// when it is null in either input. Returns (nil, 0) when no nulls remain.
func validityAnd(a, b []byte, n int) ([]byte, int) {
	if a == nil && b == nil {
		return nil, 0
	}
	out := newBitmap(n)
	nulls := 0
	for i := 0; i < n; i++ {
		if !bitIsValid(a, i) || !bitIsValid(b, i) {
			setBitNull(out, i)
			nulls++
		}
	}
	if nulls == 0 {
		return nil, 0
	}
	return out, nulls
}

// arithLoop applies a binary arithmetic function element-wise. apply returning
// ok=false marks the position null (integer division by zero).
func arithLoop[T number](a, b []T, av, bv []byte, apply func(T, T) (T, bool)) ([]T, []byte, int) {
	n := len(a)
	out := make([]T, n)
	validity, nulls := validityAnd(av, bv, n)
	for i := 0; i < n; i++ {
		if validity != nil && !bitIsValid(validity, i) {
			continue
		}
		r, ok := apply(a[i], b[i])
		if !ok {
			if validity == nil {
				validity = newBitmap(n)
			}
			setBitNull(validity, i)
			nulls++
			continue
		}
		out[i] = r
	}
	return out, validity, nulls
}

// compareLoop applies a predicate element-wise, producing Bool storage.
// Null positions in either input stay null in the result.
func compareLoop[T any](a, b []T, av, bv []byte, pred func(T, T) bool) ([]bool, []byte, int) {
	n := len(a)
	out := make([]bool, n)
	validity, nulls := validityAnd(av, bv, n)
	for i := 0; i < n; i++ {
		if validity != nil && !bitIsValid(validity, i) {
			continue
		}
		out[i] = pred(a[i], b[i])
	}
	return out, validity, nulls
}

func cmpPred[T orderedElem](op cmpOp) func(T, T) bool {
	switch op {
	case cmpEq:
		return func(a, b T) bool { return a == b }
	case cmpNe:
		return func(a, b T) bool { return a != b }
	case cmpGt:
		return func(a, b T) bool { return a > b }
	case cmpLt:
		return func(a, b T) bool { return a < b }
	case cmpGe:
		return func(a, b T) bool { return a >= b }
	default:
		return func(a, b T) bool { return a <= b }
	}
}

// argsortIndices returns the stable permutation that sorts the values.
// Nulls compare greater than every valid value, so they end up last in
// ascending order and first in descending order.
func argsortIndices[T orderedElem](values []T, validity []byte, reverse bool) []uint32 {
	idx := make([]uint32, len(values))
	for i := range idx {
		idx[i] = uint32(i)
	}
	sort.SliceStable(idx, func(x, y int) bool {
		i, j := int(idx[x]), int(idx[y])
		vi, vj := bitIsValid(validity, i), bitIsValid(validity, j)
		if !vi || !vj {
			if reverse {
				return !vi && vj
			}
			return vi && !vj
		}
		if reverse {
			return values[j] < values[i]
		}
		return values[i] < values[j]
	})
	return idx
}

// argUniqueIndices returns the position of the first occurrence of each
// distinct value, in first-occurrence order. All nulls count as one value.
func argUniqueIndices[T comparable](values []T, validity []byte) []uint32 {
	seen := make(map[T]struct{}, len(values))
	seenNull := false
	out := make([]uint32, 0, len(values))
	for i, v := range values {
		if !bitIsValid(validity, i) {
			if !seenNull {
				seenNull = true
				out = append(out, uint32(i))
			}
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, uint32(i))
	}
	return out
}

// reduceSum accumulates valid values in the native type.
// ok=false means every position was null.
func reduceSum[T number](values []T, validity []byte) (T, bool) {
	var sum T
	seen := false
	for i, v := range values {
		if !bitIsValid(validity, i) {
			continue
		}
		sum += v
		seen = true
	}
	return sum, seen
}

func reduceMin[T orderedElem](values []T, validity []byte) (T, bool) {
	var best T
	seen := false
	for i, v := range values {
		if !bitIsValid(validity, i) {
			continue
		}
		if !seen || v < best {
			best = v
		}
		seen = true
	}
	return best, seen
}

func reduceMax[T orderedElem](values []T, validity []byte) (T, bool) {
	var best T
	seen := false
	for i, v := range values {
		if !bitIsValid(validity, i) {
			continue
		}
		if !seen || v > best {
			best = v
		}
		seen = true
	}
	return best, seen
}

func meanValue[T number](values []T, validity []byte) (float64, bool) {
	sum := 0.0
	count := 0
	for i, v := range values {
		if !bitIsValid(validity, i) {
			continue
		}
		sum += float64(v)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// fillForwardVals carries the last valid value forward. Leading nulls stay
// null because no prior valid value exists.
func fillForwardVals[T element](values []T, validity []byte) ([]T, []byte, int) {
	if validity == nil {
		return values, nil, 0
	}
	out := append([]T(nil), values...)
	newValidity := newBitmap(len(values))
	nulls := 0
	var last T
	haveLast := false
	for i := range out {
		if bitIsValid(validity, i) {
			last = out[i]
			haveLast = true
			continue
		}
		if haveLast {
			out[i] = last
		} else {
			setBitNull(newValidity, i)
			nulls++
		}
	}
	if nulls == 0 {
		return out, nil, 0
	}
	return out, newValidity, nulls
}

// fillBackwardVals carries the next valid value backward. Trailing nulls stay
// null.
func fillBackwardVals[T element](values []T, validity []byte) ([]T, []byte, int) {
	if validity == nil {
		return values, nil, 0
	}
	out := append([]T(nil), values...)
	newValidity := newBitmap(len(values))
	nulls := 0
	var next T
	haveNext := false
	for i := len(out) - 1; i >= 0; i-- {
		if bitIsValid(validity, i) {
			next = out[i]
			haveNext = true
			continue
		}
		if haveNext {
			out[i] = next
		} else {
			setBitNull(newValidity, i)
			nulls++
		}
	}
	if nulls == 0 {
		return out, nil, 0
	}
	return out, newValidity, nulls
}

// fillConstVals replaces every null with a constant.
func fillConstVals[T element](values []T, validity []byte, fill T) ([]T, []byte, int) {
	if validity == nil {
		return values, nil, 0
	}
	out := append([]T(nil), values...)
	for i := range out {
		if !bitIsValid(validity, i) {
			out[i] = fill
		}
	}
	return out, nil, 0
}

// takeVals gathers by position list. Indices are validated by the caller and
// may repeat or reorder freely.
func takeVals[T element](values []T, validity []byte, indices []int) ([]T, []byte, int) {
	out := make([]T, len(indices))
	var newValidity []byte
	nulls := 0
	for i, idx := range indices {
		if !bitIsValid(validity, idx) {
			if newValidity == nil {
				newValidity = newBitmap(len(indices))
			}
			setBitNull(newValidity, i)
			nulls++
			continue
		}
		out[i] = values[idx]
	}
	return out, newValidity, nulls
}

// setMaskVals writes v (or null) at every position where mask is true,
// into fresh storage.
func setMaskVals[T element](values []T, validity []byte, mask []bool, v T, setNull bool) ([]T, []byte, int) {
	out := append([]T(nil), values...)
	var newValidity []byte
	if validity != nil || setNull {
		newValidity = newBitmap(len(values))
		for i := range out {
			if !bitIsValid(validity, i) {
				setBitNull(newValidity, i)
			}
		}
	}
	for i, m := range mask {
		if !m {
			continue
		}
		if setNull {
			setBitNull(newValidity, i)
			continue
		}
		out[i] = v
		if newValidity != nil {
			setBitValid(newValidity, i)
		}
	}
	nulls := 0
	if newValidity != nil {
		nulls = len(out) - countValid(newValidity, len(out))
		if nulls == 0 {
			newValidity = nil
		}
	}
	return out, newValidity, nulls
}

// setAtVals writes v (or null) at the given positions, into fresh storage.
func setAtVals[T element](values []T, validity []byte, indices []int, v T, setNull bool) ([]T, []byte, int) {
	mask := make([]bool, len(values))
	for _, idx := range indices {
		mask[idx] = true
	}
	return setMaskVals(values, validity, mask, v, setNull)
}

// shiftVals moves values by periods, nulling the vacated positions.
func shiftVals[T element](values []T, validity []byte, periods int) ([]T, []byte, int) {
	n := len(values)
	out := make([]T, n)
	newValidity := newBitmap(n)
	nulls := 0
	for i := 0; i < n; i++ {
		src := i - periods
		if src < 0 || src >= n || !bitIsValid(validity, src) {
			setBitNull(newValidity, i)
			nulls++
			continue
		}
		out[i] = values[src]
	}
	if nulls == 0 {
		return out, nil, 0
	}
	return out, newValidity, nulls
}

// zipVals selects from a where mask is true, from b otherwise.
func zipVals[T element](mask []bool, a []T, av []byte, b []T, bv []byte) ([]T, []byte, int) {
	n := len(a)
	out := make([]T, n)
	newValidity := newBitmap(n)
	nulls := 0
	for i := 0; i < n; i++ {
		if mask[i] {
			if !bitIsValid(av, i) {
				setBitNull(newValidity, i)
				nulls++
				continue
			}
			out[i] = a[i]
		} else {
			if !bitIsValid(bv, i) {
				setBitNull(newValidity, i)
				nulls++
				continue
			}
			out[i] = b[i]
		}
	}
	if nulls == 0 {
		return out, nil, 0
	}
	return out, newValidity, nulls
}

// equalVals is the element-wise value equality used by SeriesEqual.
func equalVals[T comparable](a []T, av []byte, b []T, bv []byte, nullEqual bool) bool {
	for i := range a {
		vi, vj := bitIsValid(av, i), bitIsValid(bv, i)
		if vi != vj {
			return false
		}
		if !vi {
			if !nullEqual {
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

// coerceNumeric converts a boxed Go numeric scalar to the kernel's element
// type. Conversion follows Go semantics (float to int truncates).
func coerceNumeric[T number](v any) (T, bool) {
	switch x := v.(type) {
	case int:
		return T(x), true
	case int8:
		return T(x), true
	case int16:
		return T(x), true
	case int32:
		return T(x), true
	case int64:
		return T(x), true
	case uint:
		return T(x), true
	case uint8:
		return T(x), true
	case uint16:
		return T(x), true
	case uint32:
		return T(x), true
	case uint64:
		return T(x), true
	case float32:
		return T(x), true
	case float64:
		return T(x), true
	default:
		var zero T
		return zero, false
	}
}

func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func coerceBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
