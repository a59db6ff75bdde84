package caravel

import (
	"errors"
	"testing"
)

func TestSeries_Cast_IntToFloat(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2})
	got, err := s.Cast(Float64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	want := NewSeriesFloat64("x", []float64{1, 2})
	if !got.SeriesEqual(want, true) {
		t.Errorf("Cast(Float64) = %v, want [1, 2]", got.ToList())
	}
}

func TestSeries_Cast_FloatToIntTruncates(t *testing.T) {
	s := NewSeriesFloat64("x", []float64{1.9, -1.9})
	got, err := s.Cast(Int64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	want := NewSeriesInt64("x", []int64{1, -1})
	if !got.SeriesEqual(want, true) {
		t.Errorf("Cast(Int64) = %v, want [1, -1]", got.ToList())
	}
}

func TestSeries_Cast_RoundTripWidened(t *testing.T) {
	s := NewSeriesInt32("x", []int32{-5, 0, 7})
	wide, err := s.Cast(Int64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	back, err := wide.Cast(Int32)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if !back.SeriesEqual(s, true) {
		t.Errorf("widening round trip = %v, want original values", back.ToList())
	}
}

func TestSeries_Cast_PreservesNulls(t *testing.T) {
	s := NewSeriesInt64WithNulls("x", []int64{1, 0}, []bool{true, false})
	got, err := s.Cast(Float64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if got.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", got.NullCount())
	}
	if v, _ := got.Get(1); v != nil {
		t.Errorf("Get(1) = %v, want nil", v)
	}
}

func TestSeries_Cast_SameDType(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1})
	got, err := s.Cast(Int64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if !got.SeriesEqual(s, true) {
		t.Errorf("identity cast = %v, want unchanged", got.ToList())
	}
}

func TestSeries_Cast_Temporal(t *testing.T) {
	s := NewSeriesInt32("x", []int32{19000, 19001})
	d, err := s.Cast(Date32)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if d.DType() != Date32 {
		t.Errorf("DType() = %v, want %v", d.DType(), Date32)
	}
	// Raw payload is reinterpreted, not scaled
	if v, _ := d.Get(0); v != int32(19000) {
		t.Errorf("Get(0) = %v, want 19000", v)
	}

	back, err := d.Cast(Int64)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if v, _ := back.Get(1); v != int64(19001) {
		t.Errorf("Get(1) = %v, want 19001", v)
	}
}

func TestSeries_Cast_ToString(t *testing.T) {
	s := NewSeriesInt64WithNulls("x", []int64{42, 0}, []bool{true, false})
	got, err := s.Cast(String)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if v, _ := got.Get(0); v != "42" {
		t.Errorf("Get(0) = %v, want 42", v)
	}
	if v, _ := got.Get(1); v != nil {
		t.Errorf("Get(1) = %v, want nil", v)
	}

	f := NewSeriesFloat64("f", []float64{1.5})
	fs, err := f.Cast(String)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if v, _ := fs.Get(0); v != "1.5" {
		t.Errorf("Get(0) = %v, want 1.5", v)
	}

	b := NewSeriesBool("b", []bool{true})
	bs, err := b.Cast(String)
	if err != nil {
		t.Fatalf("Cast error: %v", err)
	}
	if v, _ := bs.Get(0); v != "true" {
		t.Errorf("Get(0) = %v, want true", v)
	}
}

func TestSeries_Cast_Unsupported(t *testing.T) {
	s := NewSeriesString("x", []string{"1"})
	if _, err := s.Cast(Int64); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Cast String to Int64 error = %v, want ErrUnsupported", err)
	}

	l := NewSeriesListOfFloat64("l", [][]float64{{1}})
	if _, err := l.Cast(String); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Cast List to String error = %v, want ErrUnsupported", err)
	}

	i := NewSeriesInt64("i", []int64{1})
	if _, err := i.Cast(Bool); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Cast Int64 to Bool error = %v, want ErrUnsupported", err)
	}
	if _, err := i.Cast(List); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Cast Int64 to List error = %v, want ErrUnsupported", err)
	}
}
