package caravel

import (
	"fmt"
)

// Binary operations take a dynamic operand: another *Series (element-wise, on
// matching dtype and length), a []any sequence (run through the nullable
// constructor, then treated as a Series), or a plain Go scalar (broadcast).
// Reflected variants compute the operation with the operand on the left,
// matching the result dtype and null behavior of the forward form.

// operand resolves other to a Series when it is one (directly or as a []any
// sequence). A nil Series result with nil error means other is a scalar.
func (s *Series) operand(other any) (*Series, error) {
	var o *Series
	switch x := other.(type) {
	case *Series:
		o = x
	case []any:
		built, err := NewSeries(s.name, x)
		if err != nil {
			return nil, err
		}
		o = built
	default:
		return nil, nil
	}
	if o.dtype != s.dtype {
		return nil, fmt.Errorf("%w: %s vs %s", ErrDTypeMismatch, s.dtype, o.dtype)
	}
	if o.Len() != s.Len() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, s.Len(), o.Len())
	}
	return o, nil
}

func (s *Series) arith(op arithOp, other any, reflected bool) (*Series, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.arith == nil {
		return nil, errUnsupported(op.String(), s.dtype)
	}
	o, err := s.operand(other)
	if err != nil {
		return nil, err
	}
	if o != nil {
		if reflected {
			return k.arith(o, s, s.name, op), nil
		}
		return k.arith(s, o, s.name, op), nil
	}
	return k.arithScalar(s, other, op, reflected)
}

// Add returns s + other.
func (s *Series) Add(other any) (*Series, error) {
	return s.arith(opAdd, other, false)
}

// Sub returns s - other.
func (s *Series) Sub(other any) (*Series, error) {
	return s.arith(opSub, other, false)
}

// Mul returns s * other.
func (s *Series) Mul(other any) (*Series, error) {
	return s.arith(opMul, other, false)
}

// Div returns s / other as true division: integer series promote the result
// to Float64, float series keep their width.
func (s *Series) Div(other any) (*Series, error) {
	return s.arith(opDiv, other, false)
}

// FloorDiv returns s divided by other, floored, keeping the series dtype.
// Integer division by zero yields null at that position.
func (s *Series) FloorDiv(other any) (*Series, error) {
	return s.arith(opFloorDiv, other, false)
}

// RAdd returns other + s.
func (s *Series) RAdd(other any) (*Series, error) {
	return s.arith(opAdd, other, true)
}

// RSub returns other - s.
func (s *Series) RSub(other any) (*Series, error) {
	return s.arith(opSub, other, true)
}

// RMul returns other * s.
func (s *Series) RMul(other any) (*Series, error) {
	return s.arith(opMul, other, true)
}

// RDiv returns other / s with the same promotion rules as Div.
func (s *Series) RDiv(other any) (*Series, error) {
	return s.arith(opDiv, other, true)
}

// RFloorDiv returns other divided by s, floored.
func (s *Series) RFloorDiv(other any) (*Series, error) {
	return s.arith(opFloorDiv, other, true)
}

func (s *Series) compare(op cmpOp, other any) (*Series, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.compare == nil {
		return nil, errUnsupported(op.String(), s.dtype)
	}
	o, err := s.operand(other)
	if err != nil {
		return nil, err
	}
	if o != nil {
		return k.compare(s, o, s.name, op), nil
	}
	return k.compareScalar(s, other, op)
}

// Eq returns a Bool Series marking where s == other. Positions that are null
// in either operand stay null.
func (s *Series) Eq(other any) (*Series, error) {
	return s.compare(cmpEq, other)
}

// Neq returns a Bool Series marking where s != other.
func (s *Series) Neq(other any) (*Series, error) {
	return s.compare(cmpNe, other)
}

// Gt returns a Bool Series marking where s > other.
func (s *Series) Gt(other any) (*Series, error) {
	return s.compare(cmpGt, other)
}

// Lt returns a Bool Series marking where s < other.
func (s *Series) Lt(other any) (*Series, error) {
	return s.compare(cmpLt, other)
}

// GtEq returns a Bool Series marking where s >= other.
func (s *Series) GtEq(other any) (*Series, error) {
	return s.compare(cmpGe, other)
}

// LtEq returns a Bool Series marking where s <= other.
func (s *Series) LtEq(other any) (*Series, error) {
	return s.compare(cmpLe, other)
}
