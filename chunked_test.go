package caravel

import (
	"testing"
)

// ============================================================================
// Chunk / Rechunk Tests
// ============================================================================

func TestSeries_Rechunk(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2})
	s.Append(NewSeriesInt64("y", []int64{3, 4}))
	if s.NChunks() != 2 {
		t.Fatalf("NChunks() = %d, want 2", s.NChunks())
	}

	r := s.Rechunk()
	if r.NChunks() != 1 {
		t.Errorf("Rechunk().NChunks() = %d, want 1", r.NChunks())
	}
	if r.Len() != 4 {
		t.Errorf("Rechunk().Len() = %d, want 4", r.Len())
	}
	if !r.SeriesEqual(s, true) {
		t.Errorf("Rechunk() = %v, want same values as source", r.ToList())
	}
	// Source keeps its chunking
	if s.NChunks() != 2 {
		t.Errorf("source NChunks() = %d, want 2", s.NChunks())
	}
}

func TestSeries_Rechunk_Idempotent(t *testing.T) {
	s := NewSeriesFloat64("x", []float64{1, 2})
	r := s.Rechunk().Rechunk()
	if r.NChunks() != 1 {
		t.Errorf("NChunks() = %d, want 1", r.NChunks())
	}
	if !r.SeriesEqual(s, true) {
		t.Errorf("double Rechunk changed values: %v", r.ToList())
	}
}

func TestSeries_RechunkMut(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1})
	s.Append(NewSeriesInt64("y", []int64{2}))
	s.RechunkMut()
	if s.NChunks() != 1 {
		t.Errorf("NChunks() = %d, want 1", s.NChunks())
	}
	if v, _ := s.Get(1); v != int64(2) {
		t.Errorf("Get(1) = %v, want 2", v)
	}
}

func TestSeries_Rechunk_PreservesNulls(t *testing.T) {
	s := NewSeriesInt64WithNulls("x", []int64{1, 0}, []bool{true, false})
	s.Append(NewSeriesInt64WithNulls("y", []int64{0, 4}, []bool{false, true}))

	r := s.Rechunk()
	if r.NullCount() != 2 {
		t.Errorf("NullCount() = %d, want 2", r.NullCount())
	}
	if v, _ := r.Get(1); v != nil {
		t.Errorf("Get(1) = %v, want nil", v)
	}
	if v, _ := r.Get(3); v != int64(4) {
		t.Errorf("Get(3) = %v, want 4", v)
	}
}

func TestSeries_Get_AcrossChunks(t *testing.T) {
	s := NewSeriesString("x", []string{"a", "b"})
	s.Append(NewSeriesString("y", []string{"c"}))

	for i, want := range []string{"a", "b", "c"} {
		v, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", i, err)
		}
		if v != want {
			t.Errorf("Get(%d) = %v, want %s", i, v, want)
		}
	}
}

func TestSeries_Ops_AcrossChunks(t *testing.T) {
	a := NewSeriesInt64("a", []int64{1, 2})
	a.Append(NewSeriesInt64("a2", []int64{3}))
	b := NewSeriesInt64("b", []int64{10, 20, 30})

	got, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	want := NewSeriesInt64("a", []int64{11, 22, 33})
	if !got.SeriesEqual(want, true) {
		t.Errorf("Add across chunks = %v, want [11, 22, 33]", got.ToList())
	}
}

func TestSeries_Slice_WithinChunkSharesStorage(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2, 3, 4})
	sub, err := s.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if sub.NChunks() != 1 {
		t.Errorf("NChunks() = %d, want 1", sub.NChunks())
	}
	if v, _ := sub.Get(0); v != int64(2) {
		t.Errorf("Get(0) = %v, want 2", v)
	}
}

func TestSeries_Slice_SpansChunks(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2})
	s.Append(NewSeriesInt64("y", []int64{3, 4}))

	sub, err := s.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	want := NewSeriesInt64("x", []int64{2, 3})
	if !sub.SeriesEqual(want, true) {
		t.Errorf("Slice(1, 2) = %v, want [2, 3]", sub.ToList())
	}
	if sub.NChunks() != 2 {
		t.Errorf("NChunks() = %d, want 2", sub.NChunks())
	}
}

func TestSeries_Slice_ValidityWindow(t *testing.T) {
	s := NewSeriesInt64WithNulls("x", []int64{1, 0, 3, 0}, []bool{true, false, true, false})
	sub, err := s.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if sub.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", sub.NullCount())
	}
	if v, _ := sub.Get(0); v != nil {
		t.Errorf("Get(0) = %v, want nil", v)
	}
	if v, _ := sub.Get(1); v != int64(3) {
		t.Errorf("Get(1) = %v, want 3", v)
	}
}

// ============================================================================
// Bitmap Tests
// ============================================================================

func TestBitmapFromBools(t *testing.T) {
	bm, nulls := bitmapFromBools([]bool{true, false, true})
	if nulls != 1 {
		t.Errorf("nulls = %d, want 1", nulls)
	}
	if !bitIsValid(bm, 0) || bitIsValid(bm, 1) || !bitIsValid(bm, 2) {
		t.Error("bitmap bits do not match input flags")
	}
}

func TestBitmapFromBools_AllValid(t *testing.T) {
	bm, nulls := bitmapFromBools([]bool{true, true})
	if bm != nil {
		t.Error("all-valid input should produce nil bitmap")
	}
	if nulls != 0 {
		t.Errorf("nulls = %d, want 0", nulls)
	}
}

func TestSliceBitmap(t *testing.T) {
	bm, _ := bitmapFromBools([]bool{false, true, false, true})

	win, nulls := sliceBitmap(bm, 1, 2)
	if nulls != 1 {
		t.Errorf("nulls = %d, want 1", nulls)
	}
	if !bitIsValid(win, 0) || bitIsValid(win, 1) {
		t.Error("window bits do not match source range")
	}

	// Window with no nulls collapses to nil
	win2, nulls2 := sliceBitmap(bm, 1, 1)
	if win2 != nil || nulls2 != 0 {
		t.Errorf("null-free window = (%v, %d), want (nil, 0)", win2, nulls2)
	}
}

func TestCountValid(t *testing.T) {
	bm, _ := bitmapFromBools([]bool{true, false, true, true})
	if got := countValid(bm, 4); got != 3 {
		t.Errorf("countValid = %d, want 3", got)
	}
	if got := countValid(nil, 7); got != 7 {
		t.Errorf("countValid(nil) = %d, want 7", got)
	}
}
