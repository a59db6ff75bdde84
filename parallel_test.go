package caravel

import (
	"sync/atomic"
	"testing"
)

func TestDefaultParallelConfig(t *testing.T) {
	cfg := DefaultParallelConfig()

	if cfg == nil {
		t.Fatal("DefaultParallelConfig returned nil")
	}
	if cfg.MinRowsForParallel <= 0 {
		t.Errorf("MinRowsForParallel should be positive, got %d", cfg.MinRowsForParallel)
	}
	if cfg.MorselSize <= 0 {
		t.Errorf("MorselSize should be positive, got %d", cfg.MorselSize)
	}
	if !cfg.Enabled {
		t.Error("Enabled should be true by default")
	}
}

func TestSetGetParallelConfig(t *testing.T) {
	original := GetParallelConfig()
	defer SetParallelConfig(original)

	custom := &ParallelConfig{
		MinRowsForParallel: 1000,
		MorselSize:         512,
		MaxWorkers:         2,
		Enabled:            false,
	}
	SetParallelConfig(custom)

	got := GetParallelConfig()
	if got.MinRowsForParallel != 1000 {
		t.Errorf("MinRowsForParallel = %d, want 1000", got.MinRowsForParallel)
	}
	if got.Enabled {
		t.Error("Enabled should be false")
	}

	// Setting nil should not change config
	SetParallelConfig(nil)
	if GetParallelConfig() != custom {
		t.Error("SetParallelConfig(nil) should not change config")
	}
}

func TestParallelConfigShouldParallelize(t *testing.T) {
	cfg := &ParallelConfig{
		MinRowsForParallel: 1000,
		Enabled:            true,
	}

	if cfg.shouldParallelize(500) {
		t.Error("Should not parallelize 500 rows when min is 1000")
	}
	if !cfg.shouldParallelize(2000) {
		t.Error("Should parallelize 2000 rows when min is 1000")
	}

	cfg.Enabled = false
	if cfg.shouldParallelize(2000) {
		t.Error("Should not parallelize when disabled")
	}
}

func TestMorselIteratorNext(t *testing.T) {
	mi := NewMorselIterator(25, 10)

	m1 := mi.Next()
	if m1 == nil || m1.Start != 0 || m1.End != 10 {
		t.Errorf("First morsel = %v, want {0, 10}", m1)
	}

	m2 := mi.Next()
	if m2 == nil || m2.Start != 10 || m2.End != 20 {
		t.Errorf("Second morsel = %v, want {10, 20}", m2)
	}

	m3 := mi.Next()
	if m3 == nil || m3.Start != 20 || m3.End != 25 {
		t.Errorf("Third morsel = %v, want {20, 25}", m3)
	}

	if m4 := mi.Next(); m4 != nil {
		t.Errorf("Fourth morsel should be nil, got %v", m4)
	}
}

func TestMorselIteratorEmpty(t *testing.T) {
	mi := NewMorselIterator(0, 10)
	if m := mi.Next(); m != nil {
		t.Errorf("Empty iterator should return nil, got %v", m)
	}
}

func TestParallelForSequential(t *testing.T) {
	original := GetParallelConfig()
	defer SetParallelConfig(original)

	// Force sequential execution
	SetParallelConfig(&ParallelConfig{
		MinRowsForParallel: 10000,
		MorselSize:         100,
		Enabled:            true,
	})

	sum := int64(0)
	ParallelFor(100, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt64(&sum, int64(i))
		}
	})

	expected := int64(99 * 100 / 2)
	if sum != expected {
		t.Errorf("Sum = %d, want %d", sum, expected)
	}
}

func TestParallelForParallel(t *testing.T) {
	original := GetParallelConfig()
	defer SetParallelConfig(original)

	// Force parallel execution
	SetParallelConfig(&ParallelConfig{
		MinRowsForParallel: 10,
		MorselSize:         100,
		MaxWorkers:         4,
		Enabled:            true,
	})

	sum := int64(0)
	ParallelFor(1000, func(start, end int) {
		localSum := int64(0)
		for i := start; i < end; i++ {
			localSum += int64(i)
		}
		atomic.AddInt64(&sum, localSum)
	})

	expected := int64(999 * 1000 / 2)
	if sum != expected {
		t.Errorf("Sum = %d, want %d", sum, expected)
	}
}
