package caravel

import (
	"fmt"
	"strconv"
)

// Cast converts the series to another dtype. Numeric and temporal casts
// follow Go conversion semantics (float to int truncates, narrowing wraps);
// temporal casts reinterpret the raw integer payload without unit scaling.
// Any castable dtype also casts to String. Round-trips are lossless only when
// the target domain contains the source values.
func (s *Series) Cast(to DType) (*Series, error) {
	if to == s.dtype {
		return s.Clone(), nil
	}
	if to == String {
		return s.castToString()
	}
	if !to.IsNumeric() && !to.IsTemporal() {
		return nil, fmt.Errorf("%w: cast from %s to %s", ErrUnsupported, s.dtype, to)
	}
	switch s.dtype.physical() {
	case Int8:
		return castFrom[int8](s, to)
	case Int16:
		return castFrom[int16](s, to)
	case Int32:
		return castFrom[int32](s, to)
	case Int64:
		return castFrom[int64](s, to)
	case UInt8:
		return castFrom[uint8](s, to)
	case UInt16:
		return castFrom[uint16](s, to)
	case UInt32:
		return castFrom[uint32](s, to)
	case UInt64:
		return castFrom[uint64](s, to)
	case Float32:
		return castFrom[float32](s, to)
	case Float64:
		return castFrom[float64](s, to)
	default:
		return nil, fmt.Errorf("%w: cast from %s to %s", ErrUnsupported, s.dtype, to)
	}
}

func castFrom[F number](s *Series, to DType) (*Series, error) {
	switch to.physical() {
	case Int8:
		return castConvert[F, int8](s, to), nil
	case Int16:
		return castConvert[F, int16](s, to), nil
	case Int32:
		return castConvert[F, int32](s, to), nil
	case Int64:
		return castConvert[F, int64](s, to), nil
	case UInt8:
		return castConvert[F, uint8](s, to), nil
	case UInt16:
		return castConvert[F, uint16](s, to), nil
	case UInt32:
		return castConvert[F, uint32](s, to), nil
	case UInt64:
		return castConvert[F, uint64](s, to), nil
	case Float32:
		return castConvert[F, float32](s, to), nil
	case Float64:
		return castConvert[F, float64](s, to), nil
	default:
		return nil, fmt.Errorf("%w: cast from %s to %s", ErrUnsupported, s.dtype, to)
	}
}

func castConvert[F number, T number](s *Series, to DType) *Series {
	values, validity, nulls := collect[F](s.chunks)
	out := make([]T, len(values))
	ParallelFor(len(values), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = T(values[i])
		}
	})
	return newSingleChunk(s.name, to, out, validity, nulls)
}

func (s *Series) castToString() (*Series, error) {
	if s.dtype == List {
		return nil, fmt.Errorf("%w: cast from %s to %s", ErrUnsupported, s.dtype, String)
	}
	rows := s.ToList()
	out := make([]string, len(rows))
	valid := make([]bool, len(rows))
	for i, r := range rows {
		if r == nil {
			continue
		}
		valid[i] = true
		switch v := r.(type) {
		case string:
			out[i] = v
		case bool:
			out[i] = strconv.FormatBool(v)
		case float32:
			out[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		case float64:
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			out[i] = fmt.Sprintf("%d", r)
		}
	}
	vd, nulls := bitmapFromBools(valid)
	return newSingleChunk(s.name, String, out, vd, nulls), nil
}
