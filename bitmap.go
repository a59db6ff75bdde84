package caravel

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// Validity bitmaps follow the Arrow layout: one bit per element, LSB first,
// bit set = valid. A nil bitmap means every element is valid, which is the
// fast path for Series built from dense typed slices.

// newBitmap allocates an all-valid bitmap for n elements.
func newBitmap(n int) []byte {
	bm := make([]byte, bitutil.BytesForBits(int64(n)))
	bitutil.SetBitsTo(bm, 0, int64(n), true)
	return bm
}

// bitmapFromBools packs a valid-flag slice into a bitmap. Returns the bitmap
// and the number of null (false) entries. If every flag is true the bitmap is
// nil so the dense fast path stays available.
func bitmapFromBools(valid []bool) ([]byte, int) {
	nulls := 0
	for _, v := range valid {
		if !v {
			nulls++
		}
	}
	if nulls == 0 {
		return nil, 0
	}
	bm := make([]byte, bitutil.BytesForBits(int64(len(valid))))
	for i, v := range valid {
		if v {
			bitutil.SetBit(bm, i)
		}
	}
	return bm, nulls
}

// bitIsValid reports whether position i is valid. A nil bitmap is all-valid.
func bitIsValid(bm []byte, i int) bool {
	return bm == nil || bitutil.BitIsSet(bm, i)
}

func setBitValid(bm []byte, i int) {
	bitutil.SetBit(bm, i)
}

func setBitNull(bm []byte, i int) {
	bitutil.ClearBit(bm, i)
}

// countValid returns the number of set bits in the first n positions.
func countValid(bm []byte, n int) int {
	if bm == nil {
		return n
	}
	return int(bitutil.CountSetBits(bm, 0, n))
}

// sliceBitmap copies bits [offset, offset+length) into a fresh bitmap.
// Returns nil when the source bitmap is nil or the window contains no nulls.
func sliceBitmap(bm []byte, offset, length int) ([]byte, int) {
	if bm == nil {
		return nil, 0
	}
	valid := int(bitutil.CountSetBits(bm, offset, length))
	if valid == length {
		return nil, 0
	}
	out := make([]byte, bitutil.BytesForBits(int64(length)))
	for i := 0; i < length; i++ {
		if bitutil.BitIsSet(bm, offset+i) {
			bitutil.SetBit(out, i)
		}
	}
	return out, length - valid
}
