package caravel

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// Arrow interchange
// ============================================================================

// dtypeToArrowType converts a DType to the matching Arrow DataType.
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case UInt8:
		return arrow.PrimitiveTypes.Uint8, nil
	case UInt16:
		return arrow.PrimitiveTypes.Uint16, nil
	case UInt32:
		return arrow.PrimitiveTypes.Uint32, nil
	case UInt64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Date32:
		return arrow.FixedWidthTypes.Date32, nil
	case Date64:
		return arrow.FixedWidthTypes.Date64, nil
	case Time64:
		return arrow.FixedWidthTypes.Time64ns, nil
	case Duration:
		return arrow.FixedWidthTypes.Duration_ns, nil
	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

// validBools flattens the validity of every chunk to per-row flags, or nil
// when the series has no nulls. Arrow builders treat a nil flag slice as
// all-valid.
func (s *Series) validBools() []bool {
	if s.NullCount() == 0 {
		return nil
	}
	out := make([]bool, 0, s.Len())
	for _, c := range s.chunks {
		for i := 0; i < c.length(); i++ {
			out = append(out, c.valid(i))
		}
	}
	return out
}

func primitiveToArrow[T number, B interface {
	AppendValues([]T, []bool)
	NewArray() arrow.Array
	Release()
}](s *Series, builder B) arrow.Array {
	defer builder.Release()
	values, _, _ := collect[T](s.chunks)
	builder.AppendValues(values, s.validBools())
	return builder.NewArray()
}

// ToArrow exports the Series as an Arrow array, preserving nulls. The caller
// is responsible for calling Release() on the result.
func (s *Series) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	switch s.dtype {
	case Int8:
		return primitiveToArrow[int8](s, array.NewInt8Builder(mem)), nil
	case Int16:
		return primitiveToArrow[int16](s, array.NewInt16Builder(mem)), nil
	case Int32:
		return primitiveToArrow[int32](s, array.NewInt32Builder(mem)), nil
	case Int64:
		return primitiveToArrow[int64](s, array.NewInt64Builder(mem)), nil
	case UInt8:
		return primitiveToArrow[uint8](s, array.NewUint8Builder(mem)), nil
	case UInt16:
		return primitiveToArrow[uint16](s, array.NewUint16Builder(mem)), nil
	case UInt32:
		return primitiveToArrow[uint32](s, array.NewUint32Builder(mem)), nil
	case UInt64:
		return primitiveToArrow[uint64](s, array.NewUint64Builder(mem)), nil
	case Float32:
		return primitiveToArrow[float32](s, array.NewFloat32Builder(mem)), nil
	case Float64:
		return primitiveToArrow[float64](s, array.NewFloat64Builder(mem)), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		values, _, _ := collect[bool](s.chunks)
		builder.AppendValues(values, s.validBools())
		return builder.NewArray(), nil

	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		values, _, _ := collect[string](s.chunks)
		builder.AppendValues(values, s.validBools())
		return builder.NewArray(), nil

	case Date32:
		builder := array.NewDate32Builder(mem)
		defer builder.Release()
		values, _, _ := collect[int32](s.chunks)
		days := make([]arrow.Date32, len(values))
		for i, v := range values {
			days[i] = arrow.Date32(v)
		}
		builder.AppendValues(days, s.validBools())
		return builder.NewArray(), nil

	case Date64:
		builder := array.NewDate64Builder(mem)
		defer builder.Release()
		values, _, _ := collect[int64](s.chunks)
		millis := make([]arrow.Date64, len(values))
		for i, v := range values {
			millis[i] = arrow.Date64(v)
		}
		builder.AppendValues(millis, s.validBools())
		return builder.NewArray(), nil

	case Time64:
		builder := array.NewTime64Builder(mem, arrow.FixedWidthTypes.Time64ns.(*arrow.Time64Type))
		defer builder.Release()
		values, _, _ := collect[int64](s.chunks)
		nanos := make([]arrow.Time64, len(values))
		for i, v := range values {
			nanos[i] = arrow.Time64(v)
		}
		builder.AppendValues(nanos, s.validBools())
		return builder.NewArray(), nil

	case Duration:
		builder := array.NewDurationBuilder(mem, arrow.FixedWidthTypes.Duration_ns.(*arrow.DurationType))
		defer builder.Release()
		values, _, _ := collect[int64](s.chunks)
		nanos := make([]arrow.Duration, len(values))
		for i, v := range values {
			nanos[i] = arrow.Duration(v)
		}
		builder.AppendValues(nanos, s.validBools())
		return builder.NewArray(), nil

	default:
		return nil, errUnsupported("to_arrow", s.dtype)
	}
}

func arrowToSeries[T element, A interface {
	Len() int
	IsValid(int) bool
	Value(int) T
}](name string, dt DType, a A) *Series {
	n := a.Len()
	values := make([]T, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if a.IsValid(i) {
			values[i] = a.Value(i)
			valid[i] = true
		}
	}
	vd, nulls := bitmapFromBools(valid)
	return newSingleChunk(name, dt, values, vd, nulls)
}

// SeriesFromArrow imports an Arrow array as a single-chunk Series, preserving
// nulls. The array's contents are copied; the caller keeps ownership.
func SeriesFromArrow(name string, arr arrow.Array) (*Series, error) {
	switch a := arr.(type) {
	case *array.Int8:
		return arrowToSeries[int8](name, Int8, a), nil
	case *array.Int16:
		return arrowToSeries[int16](name, Int16, a), nil
	case *array.Int32:
		return arrowToSeries[int32](name, Int32, a), nil
	case *array.Int64:
		return arrowToSeries[int64](name, Int64, a), nil
	case *array.Uint8:
		return arrowToSeries[uint8](name, UInt8, a), nil
	case *array.Uint16:
		return arrowToSeries[uint16](name, UInt16, a), nil
	case *array.Uint32:
		return arrowToSeries[uint32](name, UInt32, a), nil
	case *array.Uint64:
		return arrowToSeries[uint64](name, UInt64, a), nil
	case *array.Float32:
		return arrowToSeries[float32](name, Float32, a), nil
	case *array.Float64:
		return arrowToSeries[float64](name, Float64, a), nil
	case *array.Boolean:
		return arrowToSeries[bool](name, Bool, a), nil
	case *array.String:
		return arrowToSeries[string](name, String, a), nil

	case *array.Date32:
		n := a.Len()
		values := make([]int32, n)
		valid := make([]bool, n)
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				values[i] = int32(a.Value(i))
				valid[i] = true
			}
		}
		vd, nulls := bitmapFromBools(valid)
		return newSingleChunk(name, Date32, values, vd, nulls), nil

	case *array.Date64:
		return temporalFromArrow(name, Date64, a.Len(), a.IsValid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Time64:
		return temporalFromArrow(name, Time64, a.Len(), a.IsValid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Duration:
		return temporalFromArrow(name, Duration, a.Len(), a.IsValid, func(i int) int64 { return int64(a.Value(i)) }), nil

	default:
		return nil, fmt.Errorf("unsupported Arrow array type: %T", arr)
	}
}

func temporalFromArrow(name string, dt DType, n int, isValid func(int) bool, value func(int) int64) *Series {
	values := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if isValid(i) {
			values[i] = value(i)
			valid[i] = true
		}
	}
	vd, nulls := bitmapFromBools(valid)
	return newSingleChunk(name, dt, values, vd, nulls)
}
