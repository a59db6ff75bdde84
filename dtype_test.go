package caravel

import (
	"testing"
)

func TestDType_String(t *testing.T) {
	cases := []struct {
		dtype DType
		want  string
	}{
		{Int8, "Int8"},
		{Int64, "Int64"},
		{UInt16, "UInt16"},
		{Float32, "Float32"},
		{Float64, "Float64"},
		{Bool, "Bool"},
		{String, "String"},
		{Date32, "Date32"},
		{Date64, "Date64"},
		{Time64, "Time64"},
		{Duration, "Duration"},
		{List, "List"},
	}
	for _, tc := range cases {
		if got := tc.dtype.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
	if got := DType(200).String(); got != "Unknown(200)" {
		t.Errorf("String() = %q, want Unknown(200)", got)
	}
}

func TestDType_Predicates(t *testing.T) {
	if !Int32.IsNumeric() || !Float64.IsNumeric() {
		t.Error("Int32/Float64 should be numeric")
	}
	if Bool.IsNumeric() || String.IsNumeric() || Date32.IsNumeric() {
		t.Error("Bool/String/Date32 should not be numeric")
	}
	if !Float32.IsFloat() || Int64.IsFloat() {
		t.Error("IsFloat misclassifies")
	}
	if !UInt8.IsInteger() || Float64.IsInteger() {
		t.Error("IsInteger misclassifies")
	}
	if !Int8.IsSigned() || UInt64.IsSigned() {
		t.Error("IsSigned misclassifies")
	}
	if !Duration.IsTemporal() || Int64.IsTemporal() {
		t.Error("IsTemporal misclassifies")
	}
}

func TestDType_Size(t *testing.T) {
	cases := []struct {
		dtype DType
		want  int
	}{
		{Int8, 1},
		{Bool, 1},
		{Int16, 2},
		{Float32, 4},
		{Date32, 4},
		{Int64, 8},
		{Duration, 8},
		{String, -1},
		{List, -1},
	}
	for _, tc := range cases {
		if got := tc.dtype.Size(); got != tc.want {
			t.Errorf("%s.Size() = %d, want %d", tc.dtype, got, tc.want)
		}
	}
}

func TestDType_Physical(t *testing.T) {
	if Date32.physical() != Int32 {
		t.Errorf("Date32.physical() = %v, want Int32", Date32.physical())
	}
	if Date64.physical() != Int64 || Time64.physical() != Int64 || Duration.physical() != Int64 {
		t.Error("millisecond/nanosecond temporals should store as Int64")
	}
	if Float64.physical() != Float64 {
		t.Errorf("Float64.physical() = %v, want Float64", Float64.physical())
	}
}
