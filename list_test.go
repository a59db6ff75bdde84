package caravel

import (
	"errors"
	"testing"
)

func TestNewSeriesListOfFloat64(t *testing.T) {
	s := NewSeriesListOfFloat64("l", [][]float64{{1, 2}, {}, {3}})

	if s.DType() != List {
		t.Errorf("DType() = %v, want %v", s.DType(), List)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	row, err := s.Get(0)
	if err != nil {
		t.Fatalf("Get(0) error: %v", err)
	}
	vals, ok := row.([]any)
	if !ok {
		t.Fatalf("Get(0) type = %T, want []any", row)
	}
	if len(vals) != 2 || vals[0] != 1.0 || vals[1] != 2.0 {
		t.Errorf("Get(0) = %v, want [1, 2]", vals)
	}

	empty, _ := s.Get(1)
	if len(empty.([]any)) != 0 {
		t.Errorf("Get(1) = %v, want empty row", empty)
	}
}

func TestNewSeriesList_BadOffsets(t *testing.T) {
	child := NewSeriesInt64("c", []int64{1, 2})
	if _, err := NewSeriesList("l", []int32{0, 2, 1}, child); !errors.Is(err, ErrConstructionRejected) {
		t.Errorf("decreasing offsets error = %v, want ErrConstructionRejected", err)
	}
	if _, err := NewSeriesList("l", []int32{0, 1}, child); !errors.Is(err, ErrConstructionRejected) {
		t.Errorf("short last offset error = %v, want ErrConstructionRejected", err)
	}
}

func TestSeriesList_Take(t *testing.T) {
	s := NewSeriesListOfInt64("l", [][]int64{{1}, {2, 3}, {4}})
	got, err := s.Take([]int{2, 0})
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	r0, _ := got.Get(0)
	if vals := r0.([]any); len(vals) != 1 || vals[0] != int64(4) {
		t.Errorf("Get(0) = %v, want [4]", r0)
	}
	r1, _ := got.Get(1)
	if vals := r1.([]any); len(vals) != 1 || vals[0] != int64(1) {
		t.Errorf("Get(1) = %v, want [1]", r1)
	}
}

func TestSeriesList_Filter(t *testing.T) {
	s := NewSeriesListOfInt64("l", [][]int64{{1}, {2, 3}})
	mask := NewSeriesBool("m", []bool{false, true})
	got, err := s.Filter(mask)
	if err != nil {
		t.Fatalf("Filter error: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", got.Len())
	}
	row, _ := got.Get(0)
	if vals := row.([]any); len(vals) != 2 || vals[1] != int64(3) {
		t.Errorf("Get(0) = %v, want [2, 3]", row)
	}
}

func TestSeriesList_AppendAndRechunk(t *testing.T) {
	a := NewSeriesListOfInt64("l", [][]int64{{1, 2}})
	b := NewSeriesListOfInt64("l2", [][]int64{{3}})
	if err := a.Append(b); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}

	r := a.Rechunk()
	if r.NChunks() != 1 {
		t.Errorf("NChunks() = %d, want 1", r.NChunks())
	}
	row, _ := r.Get(1)
	if vals := row.([]any); len(vals) != 1 || vals[0] != int64(3) {
		t.Errorf("Get(1) after rechunk = %v, want [3]", row)
	}
}

func TestSeriesList_Append_ElementMismatch(t *testing.T) {
	a := NewSeriesListOfInt64("l", [][]int64{{1}})
	b := NewSeriesListOfFloat64("l2", [][]float64{{1}})
	if err := a.Append(b); !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("Append error = %v, want ErrDTypeMismatch", err)
	}
}

func TestSeriesList_SeriesEqual(t *testing.T) {
	a := NewSeriesListOfInt64("a", [][]int64{{1}, {2, 3}})
	b := NewSeriesListOfInt64("b", [][]int64{{1}, {2, 3}})
	if !a.SeriesEqual(b, true) {
		t.Error("equal list series compare unequal")
	}

	c := NewSeriesListOfInt64("c", [][]int64{{1}, {2, 4}})
	if a.SeriesEqual(c, true) {
		t.Error("different list series compare equal")
	}

	d := NewSeriesListOfInt64("d", [][]int64{{1}, {2}})
	if a.SeriesEqual(d, true) {
		t.Error("different row lengths compare equal")
	}
}

func TestSeriesList_UnsupportedOps(t *testing.T) {
	s := NewSeriesListOfInt64("l", [][]int64{{1}})
	if _, err := s.Sum(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Sum error = %v, want ErrUnsupported", err)
	}
	if _, err := s.FillNone(FillForward); !errors.Is(err, ErrUnsupported) {
		t.Errorf("FillNone error = %v, want ErrUnsupported", err)
	}
	if _, err := s.Shift(1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Shift error = %v, want ErrUnsupported", err)
	}
	if _, err := s.Add(s); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Add error = %v, want ErrUnsupported", err)
	}
}

func TestSeriesList_SliceWindow(t *testing.T) {
	s := NewSeriesListOfInt64("l", [][]int64{{1}, {2, 3}, {4}})
	sub, err := s.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if sub.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sub.Len())
	}
	row, _ := sub.Get(0)
	if vals := row.([]any); len(vals) != 2 || vals[0] != int64(2) {
		t.Errorf("Get(0) = %v, want [2, 3]", row)
	}
	row, _ = sub.Get(1)
	if vals := row.([]any); len(vals) != 1 || vals[0] != int64(4) {
		t.Errorf("Get(1) = %v, want [4]", row)
	}
}
