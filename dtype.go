package caravel

import "fmt"

// DType represents the data type of a Series
type DType uint8

const (
	// Signed integers
	Int8 DType = iota
	Int16
	Int32
	Int64

	// Unsigned integers
	UInt8
	UInt16
	UInt32
	UInt64

	// Floating point
	Float32
	Float64

	// Other scalar types
	Bool
	String

	// Temporal types
	Date32   // days since epoch
	Date64   // milliseconds since epoch
	Time64   // nanoseconds since midnight
	Duration // nanoseconds

	// Nested type
	List // Variable-length list of elements
)

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt16:
		return "UInt16"
	case UInt32:
		return "UInt32"
	case UInt64:
		return "UInt64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Date32:
		return "Date32"
	case Date64:
		return "Date64"
	case Time64:
		return "Time64"
	case Duration:
		return "Duration"
	case List:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(d))
	}
}

// IsNumeric returns true if the dtype is a numeric type
func (d DType) IsNumeric() bool {
	switch d {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsFloat returns true if the dtype is a floating point type
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsInteger returns true if the dtype is an integer type
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// IsSigned returns true if the dtype is a signed numeric type
func (d DType) IsSigned() bool {
	switch d {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsTemporal returns true if the dtype stores a date, time or duration
func (d DType) IsTemporal() bool {
	switch d {
	case Date32, Date64, Time64, Duration:
		return true
	default:
		return false
	}
}

// Size returns the size in bytes of one element, or -1 for variable-size types
func (d DType) Size() int {
	switch d {
	case Int8, UInt8, Bool:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32, Date32:
		return 4
	case Int64, UInt64, Float64, Date64, Time64, Duration:
		return 8
	case String, List:
		return -1
	default:
		return 0
	}
}

// physical returns the dtype whose element representation backs d in chunk
// storage. Temporal dtypes reuse the integer buffers of their resolution.
func (d DType) physical() DType {
	switch d {
	case Date32:
		return Int32
	case Date64, Time64, Duration:
		return Int64
	default:
		return d
	}
}
