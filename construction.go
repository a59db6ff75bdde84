package caravel

import (
	"fmt"
	"reflect"
)

// Dense constructors copy the input slice into fresh single-chunk storage
// with no validity bitmap. The WithNulls variants take a parallel valid-flag
// slice; a false flag marks that position null and its data value is ignored.

func newDense[T element](name string, dt DType, data []T) *Series {
	values := make([]T, len(data))
	copy(values, data)
	return newSingleChunk(name, dt, values, nil, 0)
}

func newDenseWithNulls[T element](name string, dt DType, data []T, valid []bool) *Series {
	if len(valid) != len(data) {
		return nil
	}
	values := make([]T, len(data))
	copy(values, data)
	vd, nulls := bitmapFromBools(valid)
	return newSingleChunk(name, dt, values, vd, nulls)
}

// NewSeriesInt8 creates an Int8 Series from a dense slice.
func NewSeriesInt8(name string, data []int8) *Series {
	return newDense(name, Int8, data)
}

// NewSeriesInt16 creates an Int16 Series from a dense slice.
func NewSeriesInt16(name string, data []int16) *Series {
	return newDense(name, Int16, data)
}

// NewSeriesInt32 creates an Int32 Series from a dense slice.
func NewSeriesInt32(name string, data []int32) *Series {
	return newDense(name, Int32, data)
}

// NewSeriesInt64 creates an Int64 Series from a dense slice.
func NewSeriesInt64(name string, data []int64) *Series {
	return newDense(name, Int64, data)
}

// NewSeriesUInt8 creates a UInt8 Series from a dense slice.
func NewSeriesUInt8(name string, data []uint8) *Series {
	return newDense(name, UInt8, data)
}

// NewSeriesUInt16 creates a UInt16 Series from a dense slice.
func NewSeriesUInt16(name string, data []uint16) *Series {
	return newDense(name, UInt16, data)
}

// NewSeriesUInt32 creates a UInt32 Series from a dense slice.
func NewSeriesUInt32(name string, data []uint32) *Series {
	return newDense(name, UInt32, data)
}

// NewSeriesUInt64 creates a UInt64 Series from a dense slice.
func NewSeriesUInt64(name string, data []uint64) *Series {
	return newDense(name, UInt64, data)
}

// NewSeriesFloat32 creates a Float32 Series from a dense slice.
func NewSeriesFloat32(name string, data []float32) *Series {
	return newDense(name, Float32, data)
}

// NewSeriesFloat64 creates a Float64 Series from a dense slice.
func NewSeriesFloat64(name string, data []float64) *Series {
	return newDense(name, Float64, data)
}

// NewSeriesBool creates a Bool Series from a dense slice.
func NewSeriesBool(name string, data []bool) *Series {
	return newDense(name, Bool, data)
}

// NewSeriesString creates a String Series from a dense slice.
func NewSeriesString(name string, data []string) *Series {
	return newDense(name, String, data)
}

// NewSeriesDate32 creates a Date32 Series from days since the Unix epoch.
func NewSeriesDate32(name string, days []int32) *Series {
	return newDense(name, Date32, days)
}

// NewSeriesDate64 creates a Date64 Series from milliseconds since the Unix
// epoch.
func NewSeriesDate64(name string, millis []int64) *Series {
	return newDense(name, Date64, millis)
}

// NewSeriesTime64 creates a Time64 Series from nanoseconds since midnight.
func NewSeriesTime64(name string, nanos []int64) *Series {
	return newDense(name, Time64, nanos)
}

// NewSeriesDuration creates a Duration Series from nanosecond spans.
func NewSeriesDuration(name string, nanos []int64) *Series {
	return newDense(name, Duration, nanos)
}

// NewSeriesInt8WithNulls creates an Int8 Series with explicit validity.
func NewSeriesInt8WithNulls(name string, data []int8, valid []bool) *Series {
	return newDenseWithNulls(name, Int8, data, valid)
}

// NewSeriesInt16WithNulls creates an Int16 Series with explicit validity.
func NewSeriesInt16WithNulls(name string, data []int16, valid []bool) *Series {
	return newDenseWithNulls(name, Int16, data, valid)
}

// NewSeriesInt32WithNulls creates an Int32 Series with explicit validity.
func NewSeriesInt32WithNulls(name string, data []int32, valid []bool) *Series {
	return newDenseWithNulls(name, Int32, data, valid)
}

// NewSeriesInt64WithNulls creates an Int64 Series with explicit validity.
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) *Series {
	return newDenseWithNulls(name, Int64, data, valid)
}

// NewSeriesUInt32WithNulls creates a UInt32 Series with explicit validity.
func NewSeriesUInt32WithNulls(name string, data []uint32, valid []bool) *Series {
	return newDenseWithNulls(name, UInt32, data, valid)
}

// NewSeriesUInt64WithNulls creates a UInt64 Series with explicit validity.
func NewSeriesUInt64WithNulls(name string, data []uint64, valid []bool) *Series {
	return newDenseWithNulls(name, UInt64, data, valid)
}

// NewSeriesFloat32WithNulls creates a Float32 Series with explicit validity.
func NewSeriesFloat32WithNulls(name string, data []float32, valid []bool) *Series {
	return newDenseWithNulls(name, Float32, data, valid)
}

// NewSeriesFloat64WithNulls creates a Float64 Series with explicit validity.
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) *Series {
	return newDenseWithNulls(name, Float64, data, valid)
}

// NewSeriesBoolWithNulls creates a Bool Series with explicit validity.
func NewSeriesBoolWithNulls(name string, data []bool, valid []bool) *Series {
	return newDenseWithNulls(name, Bool, data, valid)
}

// NewSeriesStringWithNulls creates a String Series with explicit validity.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) *Series {
	return newDenseWithNulls(name, String, data, valid)
}

// ============================================================================
// Nullable construction with dtype inference
// ============================================================================

// NewSeries builds a Series from a boxed sequence that may contain nil
// entries, which become nulls. The dtype is inferred from the first non-nil
// value: Go integers of any width infer Int64, floats infer Float64, string
// infers String and bool infers Bool. Later elements must coerce to the
// inferred dtype. An all-nil sequence has no dtype and is rejected, as is a
// mapping element, which has no columnar interpretation.
func NewSeries(name string, values []any) (*Series, error) {
	var first any
	for _, v := range values {
		if v != nil {
			first = v
			break
		}
	}
	if first == nil {
		return nil, fmt.Errorf("%w: cannot infer dtype from an all-null sequence", ErrInferenceFailure)
	}

	var dt DType
	switch first.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		dt = Int64
	case float32, float64:
		dt = Float64
	case string:
		dt = String
	case bool:
		dt = Bool
	default:
		if reflect.ValueOf(first).Kind() == reflect.Map {
			return nil, fmt.Errorf("%w: mapping element %T has no columnar interpretation",
				ErrConstructionRejected, first)
		}
		return nil, fmt.Errorf("%w: no dtype for element %T", ErrInferenceFailure, first)
	}
	return kernelFor(dt).build(name, values)
}

// NewSeriesFrom returns a renamed Series sharing the storage of other.
func NewSeriesFrom(name string, other *Series) *Series {
	return other.Rename(name)
}

// ============================================================================
// List construction
// ============================================================================

// NewSeriesList creates a List Series over offset-based storage: row i covers
// values[offsets[i]:offsets[i+1]] of the flattened values Series.
func NewSeriesList(name string, offsets []int32, values *Series) (*Series, error) {
	ck, err := newListChunk(append([]int32(nil), offsets...), values, nil, 0)
	if err != nil {
		return nil, err
	}
	return &Series{name: name, dtype: List, chunks: []chunk{ck}}, nil
}

// NewSeriesListOfFloat64 creates a List Series from a slice of float64 rows.
func NewSeriesListOfFloat64(name string, rows [][]float64) *Series {
	offsets := make([]int32, 1, len(rows)+1)
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	flat := make([]float64, 0, total)
	for _, r := range rows {
		flat = append(flat, r...)
		offsets = append(offsets, int32(len(flat)))
	}
	out, _ := NewSeriesList(name, offsets, NewSeriesFloat64(name, flat))
	return out
}

// NewSeriesListOfInt64 creates a List Series from a slice of int64 rows.
func NewSeriesListOfInt64(name string, rows [][]int64) *Series {
	offsets := make([]int32, 1, len(rows)+1)
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	flat := make([]int64, 0, total)
	for _, r := range rows {
		flat = append(flat, r...)
		offsets = append(offsets, int32(len(flat)))
	}
	out, _ := NewSeriesList(name, offsets, NewSeriesInt64(name, flat))
	return out
}
