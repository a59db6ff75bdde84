package caravel

import (
	"fmt"
)

// Series is a named, typed column. Its logical contents are the ordered
// concatenation of one or more contiguous chunks, each carrying an optional
// validity bitmap for null tracking. Every operation dispatches through the
// kernel table on the runtime dtype and returns a new Series (or a scalar);
// chunk memory is never mutated in place, so Clone and Append can share
// storage freely.
//
// A Series is not safe for concurrent mutation. Callers that hand one to
// another goroutine either synchronize externally or Clone first.
type Series struct {
	name   string
	dtype  DType
	chunks []chunk
}

// newSingleChunk wraps typed storage in a one-chunk Series.
func newSingleChunk[T element](name string, dtype DType, values []T, validity []byte, nulls int) *Series {
	return &Series{
		name:   name,
		dtype:  dtype,
		chunks: []chunk{newBuffer(dtype, values, validity, nulls)},
	}
}

// ============================================================================
// Metadata
// ============================================================================

// Name returns the series name.
func (s *Series) Name() string {
	return s.name
}

// Rename returns a new Series with the given name. Storage is shared.
func (s *Series) Rename(name string) *Series {
	out := s.Clone()
	out.name = name
	return out
}

// DType returns the data type.
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of elements across all chunks.
func (s *Series) Len() int {
	total := 0
	for _, c := range s.chunks {
		total += c.length()
	}
	return total
}

// IsEmpty returns true if the series has no elements.
func (s *Series) IsEmpty() bool {
	return s.Len() == 0
}

// IsNumeric returns true if the series dtype is numeric.
func (s *Series) IsNumeric() bool {
	return s.dtype.IsNumeric()
}

// IsFloat returns true if the series holds floating point values.
func (s *Series) IsFloat() bool {
	return s.dtype.IsFloat()
}

// Clone returns an independent Series wrapper over the same immutable chunk
// memory.
func (s *Series) Clone() *Series {
	return &Series{
		name:   s.name,
		dtype:  s.dtype,
		chunks: append([]chunk(nil), s.chunks...),
	}
}

// ============================================================================
// Chunk management
// ============================================================================

// NChunks returns the number of physical chunks.
func (s *Series) NChunks() int {
	return len(s.chunks)
}

// Rechunk returns a Series whose contents live in exactly one contiguous
// chunk. Idempotent; a single-chunk Series comes back as a shared view.
func (s *Series) Rechunk() *Series {
	return &Series{
		name:   s.name,
		dtype:  s.dtype,
		chunks: []chunk{kernelFor(s.dtype).rechunk(s)},
	}
}

// RechunkMut consolidates the chunks of this Series in place.
func (s *Series) RechunkMut() {
	s.chunks = []chunk{kernelFor(s.dtype).rechunk(s)}
}

// Append adds the chunks of other to this Series. No element data is copied;
// both Series reference the same immutable chunks afterwards.
func (s *Series) Append(other *Series) error {
	if other.dtype != s.dtype {
		return fmt.Errorf("%w: cannot append %s to %s", ErrDTypeMismatch, other.dtype, s.dtype)
	}
	if s.dtype == List {
		se := s.chunks[0].(*listChunk).elementDType()
		oe := other.chunks[0].(*listChunk).elementDType()
		if se != oe {
			return fmt.Errorf("%w: cannot append List[%s] to List[%s]", ErrDTypeMismatch, oe, se)
		}
	}
	s.chunks = append(s.chunks, other.chunks...)
	return nil
}

// ============================================================================
// Indexing, filtering, slicing
// ============================================================================

// Get returns the element at index i, or nil for a null position.
func (s *Series) Get(i int) (any, error) {
	if i < 0 || i >= s.Len() {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, s.Len())
	}
	for _, c := range s.chunks {
		if i < c.length() {
			if !c.valid(i) {
				return nil, nil
			}
			return c.value(i), nil
		}
		i -= c.length()
	}
	return nil, nil
}

// boolMask flattens a Bool mask Series to plain flags, folding null mask
// positions to false.
func boolMask(mask *Series, n int) ([]bool, error) {
	if mask.dtype != Bool {
		return nil, fmt.Errorf("%w: mask must be Bool, got %s", ErrDTypeMismatch, mask.dtype)
	}
	if mask.Len() != n {
		return nil, fmt.Errorf("%w: mask length %d, series length %d", ErrShapeMismatch, mask.Len(), n)
	}
	out := make([]bool, 0, n)
	for _, c := range mask.chunks {
		b := asBuffer[bool](c)
		for i, v := range b.values {
			out = append(out, v && b.valid(i))
		}
	}
	return out, nil
}

// Filter returns the elements where mask is true, in order. Null mask
// positions are excluded.
func (s *Series) Filter(mask *Series) (*Series, error) {
	keep, err := boolMask(mask, s.Len())
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(keep))
	for i, m := range keep {
		if m {
			indices = append(indices, i)
		}
	}
	k := kernelFor(s.dtype)
	if k == nil || k.take == nil {
		return nil, errUnsupported("filter", s.dtype)
	}
	return k.take(s, s.name, indices), nil
}

// Slice returns elements [offset, offset+length) as chunk views; element
// storage is shared with the source.
func (s *Series) Slice(offset, length int) (*Series, error) {
	if offset < 0 || length < 0 || offset+length > s.Len() {
		return nil, fmt.Errorf("%w: slice offset %d length %d, series length %d",
			ErrIndexOutOfRange, offset, length, s.Len())
	}
	out := make([]chunk, 0, len(s.chunks))
	off, rem := offset, length
	for _, c := range s.chunks {
		cl := c.length()
		if off >= cl {
			off -= cl
			continue
		}
		take := cl - off
		if take > rem {
			take = rem
		}
		out = append(out, c.window(off, take))
		rem -= take
		off = 0
		if rem == 0 {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, s.chunks[0].window(0, 0))
	}
	return &Series{name: s.name, dtype: s.dtype, chunks: out}, nil
}

// Head returns the first n elements. n is clamped to the series length.
func (s *Series) Head(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.Len() {
		n = s.Len()
	}
	out, _ := s.Slice(0, n)
	return out
}

// Tail returns the last n elements. n is clamped to the series length.
func (s *Series) Tail(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > s.Len() {
		n = s.Len()
	}
	out, _ := s.Slice(s.Len()-n, n)
	return out
}

// Limit returns at most n elements from the start.
func (s *Series) Limit(n int) *Series {
	return s.Head(n)
}

// Take gathers elements by position. The index list may repeat and reorder
// positions; the result follows the order of the list.
func (s *Series) Take(indices []int) (*Series, error) {
	n := s.Len()
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: take index %d, length %d", ErrIndexOutOfRange, idx, n)
		}
	}
	k := kernelFor(s.dtype)
	if k == nil || k.take == nil {
		return nil, errUnsupported("take", s.dtype)
	}
	return k.take(s, s.name, indices), nil
}

// ============================================================================
// Copy-on-write mutation
// ============================================================================

// Set returns a new Series with value written at every position where mask is
// true. A nil value sets those positions to null. The receiver is unchanged.
func (s *Series) Set(mask *Series, value any) (*Series, error) {
	keep, err := boolMask(mask, s.Len())
	if err != nil {
		return nil, err
	}
	k := kernelFor(s.dtype)
	if k == nil || k.setMask == nil {
		return nil, errUnsupported("set", s.dtype)
	}
	return k.setMask(s, keep, value)
}

// SetAtIdx returns a new Series with value written at the given positions.
// A nil value sets those positions to null. The receiver is unchanged.
func (s *Series) SetAtIdx(indices []int, value any) (*Series, error) {
	n := s.Len()
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: set index %d, length %d", ErrIndexOutOfRange, idx, n)
		}
	}
	k := kernelFor(s.dtype)
	if k == nil || k.setAt == nil {
		return nil, errUnsupported("set_at_idx", s.dtype)
	}
	return k.setAt(s, indices, value)
}

// ============================================================================
// Sorting and uniqueness
// ============================================================================

// Argsort returns the permutation that would sort the series. Nulls sort
// after every valid value: last for ascending, first for descending. Equal
// values keep their original relative order.
func (s *Series) Argsort(reverse bool) ([]uint32, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.argsort == nil {
		return nil, errUnsupported("argsort", s.dtype)
	}
	return k.argsort(s, reverse), nil
}

// Sort returns a new sorted Series; the receiver is unchanged. The sort is
// realized by taking the Argsort permutation, so the two always agree.
func (s *Series) Sort(reverse bool) (*Series, error) {
	perm, err := s.Argsort(reverse)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(perm))
	for i, p := range perm {
		indices[i] = int(p)
	}
	return kernelFor(s.dtype).take(s, s.name, indices), nil
}

// SortMut sorts this Series in place by swapping in the sorted chunk list.
func (s *Series) SortMut(reverse bool) error {
	sorted, err := s.Sort(reverse)
	if err != nil {
		return err
	}
	s.chunks = sorted.chunks
	return nil
}

// ArgUnique returns the position of the first occurrence of each distinct
// value, in first-occurrence order. All nulls count as one distinct value.
func (s *Series) ArgUnique() ([]uint32, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.argUnique == nil {
		return nil, errUnsupported("arg_unique", s.dtype)
	}
	return k.argUnique(s), nil
}

// Unique returns the distinct values in first-occurrence order.
func (s *Series) Unique() (*Series, error) {
	perm, err := s.ArgUnique()
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(perm))
	for i, p := range perm {
		indices[i] = int(p)
	}
	return kernelFor(s.dtype).take(s, s.name, indices), nil
}

// ============================================================================
// Reductions
// ============================================================================

// Sum reduces the series to the sum of its valid values, in the native type.
// Bool promotes to uint32. Returns nil when every value is null.
func (s *Series) Sum() (any, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.sum == nil {
		return nil, errUnsupported("sum", s.dtype)
	}
	return k.sum(s), nil
}

// Min returns the minimum valid value, or nil when every value is null.
// Bool promotes to uint32.
func (s *Series) Min() (any, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.min == nil {
		return nil, errUnsupported("min", s.dtype)
	}
	return k.min(s), nil
}

// Max returns the maximum valid value, or nil when every value is null.
// Bool promotes to uint32.
func (s *Series) Max() (any, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.max == nil {
		return nil, errUnsupported("max", s.dtype)
	}
	return k.max(s), nil
}

// Mean returns the mean of the valid values as float64 regardless of the
// source dtype, or nil when every value is null.
func (s *Series) Mean() (any, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.mean == nil {
		return nil, errUnsupported("mean", s.dtype)
	}
	return k.mean(s), nil
}

// ============================================================================
// Null handling
// ============================================================================

// IsNull returns a Bool Series that is true at null positions.
func (s *Series) IsNull() *Series {
	out := make([]bool, 0, s.Len())
	for _, c := range s.chunks {
		for i := 0; i < c.length(); i++ {
			out = append(out, !c.valid(i))
		}
	}
	return newSingleChunk(s.name, Bool, out, nil, 0)
}

// NullCount returns the number of null positions across all chunks.
func (s *Series) NullCount() int {
	total := 0
	for _, c := range s.chunks {
		total += c.nullCount()
	}
	return total
}

// HasNulls returns true if the series has any null values.
func (s *Series) HasNulls() bool {
	return s.NullCount() > 0
}

// FillNone returns a new Series with nulls replaced per the strategy.
// Leading nulls survive FillForward and trailing nulls survive FillBackward;
// the statistic strategies leave an all-null series unchanged.
func (s *Series) FillNone(strategy FillStrategy) (*Series, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.fill == nil {
		return nil, errUnsupported("fill_none", s.dtype)
	}
	return k.fill(s, strategy)
}

// ============================================================================
// Equality, shifting, zipping
// ============================================================================

// SeriesEqual reports element-wise value equality with other. Nulls compare
// equal to nulls only when nullEqual is true. Names are not compared.
func (s *Series) SeriesEqual(other *Series, nullEqual bool) bool {
	if s.dtype != other.dtype || s.Len() != other.Len() {
		return false
	}
	k := kernelFor(s.dtype)
	if k == nil || k.equal == nil {
		return false
	}
	return k.equal(s, other, nullEqual)
}

// Shift moves values by periods positions (negative shifts left). Vacated
// positions become null.
func (s *Series) Shift(periods int) (*Series, error) {
	k := kernelFor(s.dtype)
	if k == nil || k.shift == nil {
		return nil, errUnsupported("shift", s.dtype)
	}
	return k.shift(s, periods), nil
}

// ZipWith selects from this Series where mask is true and from other where it
// is false. Null mask positions select from other.
func (s *Series) ZipWith(mask, other *Series) (*Series, error) {
	if other.dtype != s.dtype {
		return nil, fmt.Errorf("%w: zip %s with %s", ErrDTypeMismatch, s.dtype, other.dtype)
	}
	if other.Len() != s.Len() {
		return nil, fmt.Errorf("%w: %d != %d", ErrShapeMismatch, s.Len(), other.Len())
	}
	keep, err := boolMask(mask, s.Len())
	if err != nil {
		return nil, err
	}
	k := kernelFor(s.dtype)
	if k == nil || k.zip == nil {
		return nil, errUnsupported("zip_with", s.dtype)
	}
	return k.zip(s.name, keep, s, other), nil
}

// ============================================================================
// Apply
// ============================================================================

// Apply maps fn over every valid element, keeping the dtype. Null positions
// stay null; fn never sees them. fn may return nil to null out an element.
func (s *Series) Apply(fn func(any) any) (*Series, error) {
	return s.ApplyTo(s.dtype, fn)
}

// ApplyTo maps fn over every valid element, building the result with the
// given output dtype.
func (s *Series) ApplyTo(dtypeOut DType, fn func(any) any) (*Series, error) {
	k := kernelFor(dtypeOut)
	if k == nil || k.build == nil {
		return nil, errUnsupported("apply", dtypeOut)
	}
	rows := s.ToList()
	out := make([]any, len(rows))
	for i, r := range rows {
		if r == nil {
			continue
		}
		out[i] = fn(r)
	}
	return k.build(s.name, out)
}
