package caravel

import (
	"math"
)

// ToList materializes the series as boxed values in logical order. Null
// positions come back as nil; list rows come back as []any.
func (s *Series) ToList() []any {
	out := make([]any, 0, s.Len())
	for _, c := range s.chunks {
		for i := 0; i < c.length(); i++ {
			if c.valid(i) {
				out = append(out, c.value(i))
			} else {
				out = append(out, nil)
			}
		}
	}
	return out
}

func denseFloat64[T number](chunks []chunk) []float64 {
	values, validity, _ := collect[T](chunks)
	out := make([]float64, len(values))
	ParallelFor(len(values), func(start, end int) {
		for i := start; i < end; i++ {
			if !bitIsValid(validity, i) {
				out[i] = math.NaN()
				continue
			}
			out[i] = float64(values[i])
		}
	})
	return out
}

func denseInt64[T number](chunks []chunk) []int64 {
	values, validity, _ := collect[T](chunks)
	out := make([]int64, len(values))
	ParallelFor(len(values), func(start, end int) {
		for i := start; i < end; i++ {
			if !bitIsValid(validity, i) {
				continue
			}
			out[i] = int64(values[i])
		}
	})
	return out
}

// ToFloat64 exports a numeric or temporal series as a fresh dense slice.
// Nulls become NaN.
func (s *Series) ToFloat64() ([]float64, error) {
	switch s.dtype.physical() {
	case Int8:
		return denseFloat64[int8](s.chunks), nil
	case Int16:
		return denseFloat64[int16](s.chunks), nil
	case Int32:
		return denseFloat64[int32](s.chunks), nil
	case Int64:
		return denseFloat64[int64](s.chunks), nil
	case UInt8:
		return denseFloat64[uint8](s.chunks), nil
	case UInt16:
		return denseFloat64[uint16](s.chunks), nil
	case UInt32:
		return denseFloat64[uint32](s.chunks), nil
	case UInt64:
		return denseFloat64[uint64](s.chunks), nil
	case Float32:
		return denseFloat64[float32](s.chunks), nil
	case Float64:
		return denseFloat64[float64](s.chunks), nil
	default:
		return nil, errUnsupported("to_float64", s.dtype)
	}
}

// ToInt64 exports a numeric or temporal series as a fresh dense slice.
// Nulls become zero; callers that need to tell them apart use IsNull.
func (s *Series) ToInt64() ([]int64, error) {
	switch s.dtype.physical() {
	case Int8:
		return denseInt64[int8](s.chunks), nil
	case Int16:
		return denseInt64[int16](s.chunks), nil
	case Int32:
		return denseInt64[int32](s.chunks), nil
	case Int64:
		return denseInt64[int64](s.chunks), nil
	case UInt8:
		return denseInt64[uint8](s.chunks), nil
	case UInt16:
		return denseInt64[uint16](s.chunks), nil
	case UInt32:
		return denseInt64[uint32](s.chunks), nil
	case UInt64:
		return denseInt64[uint64](s.chunks), nil
	case Float32:
		return denseInt64[float32](s.chunks), nil
	case Float64:
		return denseInt64[float64](s.chunks), nil
	default:
		return nil, errUnsupported("to_int64", s.dtype)
	}
}

// Strings exports a String series as a fresh dense slice. Nulls become the
// empty string.
func (s *Series) Strings() ([]string, error) {
	if s.dtype != String {
		return nil, errUnsupported("strings", s.dtype)
	}
	values, validity, _ := collect[string](s.chunks)
	out := make([]string, len(values))
	copy(out, values)
	if validity != nil {
		for i := range out {
			if !bitIsValid(validity, i) {
				out[i] = ""
			}
		}
	}
	return out, nil
}

// DenseView consolidates the series into one chunk in place and returns the
// typed value slice backing it ([]int64, []float64 and so on, per the
// physical dtype). Null positions are indistinguishable from zero values in
// the view; callers needing nulls use ToList or IsNull. The slice shares
// storage with the series and is valid until the next operation that replaces
// its chunks. Numeric and temporal dtypes only.
func (s *Series) DenseView() (any, error) {
	if !s.dtype.IsNumeric() && !s.dtype.IsTemporal() {
		return nil, errUnsupported("dense view", s.dtype)
	}
	s.RechunkMut()
	switch s.dtype.physical() {
	case Int8:
		return asBuffer[int8](s.chunks[0]).values, nil
	case Int16:
		return asBuffer[int16](s.chunks[0]).values, nil
	case Int32:
		return asBuffer[int32](s.chunks[0]).values, nil
	case Int64:
		return asBuffer[int64](s.chunks[0]).values, nil
	case UInt8:
		return asBuffer[uint8](s.chunks[0]).values, nil
	case UInt16:
		return asBuffer[uint16](s.chunks[0]).values, nil
	case UInt32:
		return asBuffer[uint32](s.chunks[0]).values, nil
	case UInt64:
		return asBuffer[uint64](s.chunks[0]).values, nil
	case Float32:
		return asBuffer[float32](s.chunks[0]).values, nil
	default:
		return asBuffer[float64](s.chunks[0]).values, nil
	}
}
