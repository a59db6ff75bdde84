package caravel

import "fmt"

// element is the closed set of physical storage types. Temporal dtypes share
// the integer buffers of their resolution (see DType.physical).
type element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool | ~string
}

// chunk is one contiguous fixed-type storage segment. A Series is the ordered
// concatenation of its chunks. Chunk memory is immutable once built; every
// mutating-looking operation allocates fresh chunks.
type chunk interface {
	dataType() DType
	length() int
	nullCount() int
	valid(i int) bool
	// value returns the boxed element at i. The result is unspecified for
	// null positions; callers check valid first.
	value(i int) any
	// window returns a view of [offset, offset+length). Element storage is
	// shared, the validity window is copied.
	window(offset, length int) chunk
}

// buffer is the concrete chunk for all scalar dtypes.
type buffer[T element] struct {
	dtype    DType
	values   []T
	validity []byte // Arrow layout, nil = no nulls
	nulls    int
}

func newBuffer[T element](dtype DType, values []T, validity []byte, nulls int) *buffer[T] {
	return &buffer[T]{dtype: dtype, values: values, validity: validity, nulls: nulls}
}

func (b *buffer[T]) dataType() DType { return b.dtype }
func (b *buffer[T]) length() int     { return len(b.values) }
func (b *buffer[T]) nullCount() int  { return b.nulls }

func (b *buffer[T]) valid(i int) bool {
	return bitIsValid(b.validity, i)
}

func (b *buffer[T]) value(i int) any {
	return b.values[i]
}

func (b *buffer[T]) window(offset, length int) chunk {
	validity, nulls := sliceBitmap(b.validity, offset, length)
	return &buffer[T]{
		dtype:    b.dtype,
		values:   b.values[offset : offset+length : offset+length],
		validity: validity,
		nulls:    nulls,
	}
}

// asBuffer recovers the typed chunk behind the chunk interface. A failed
// assertion means a chunk dtype invariant was broken upstream, which is a
// programming error, not a recoverable condition.
func asBuffer[T element](c chunk) *buffer[T] {
	b, ok := c.(*buffer[T])
	if !ok {
		panic(fmt.Sprintf("caravel: chunk storage %T does not match dtype %s", c, c.dataType()))
	}
	return b
}

// collect returns the full logical contents of the chunks as one value slice
// plus validity bitmap. For a single chunk the value slice shares the chunk's
// backing memory; multi-chunk Series are concatenated into fresh storage.
func collect[T element](chunks []chunk) ([]T, []byte, int) {
	if len(chunks) == 1 {
		b := asBuffer[T](chunks[0])
		return b.values, b.validity, b.nulls
	}
	total := 0
	nulls := 0
	for _, c := range chunks {
		total += c.length()
		nulls += c.nullCount()
	}
	values := make([]T, 0, total)
	var validity []byte
	if nulls > 0 {
		validity = newBitmap(total)
	}
	pos := 0
	for _, c := range chunks {
		b := asBuffer[T](c)
		values = append(values, b.values...)
		if validity != nil && b.validity != nil {
			for i := 0; i < len(b.values); i++ {
				if !bitIsValid(b.validity, i) {
					setBitNull(validity, pos+i)
				}
			}
		}
		pos += len(b.values)
	}
	return values, validity, nulls
}

// rechunked consolidates the chunks into exactly one chunk of the same dtype.
func rechunked[T element](dtype DType, chunks []chunk) chunk {
	if len(chunks) == 1 {
		return chunks[0]
	}
	values, validity, nulls := collect[T](chunks)
	return newBuffer(dtype, values, validity, nulls)
}

// ============================================================================
// List chunk
// ============================================================================

// listChunk stores variable-length lists with offset-based storage: row i
// covers values[offsets[i]:offsets[i+1]] of the flattened child Series.
type listChunk struct {
	offsets  []int32 // len = rows + 1
	child    *Series
	validity []byte
	nulls    int
}

func newListChunk(offsets []int32, child *Series, validity []byte, nulls int) (*listChunk, error) {
	if len(offsets) < 1 {
		return nil, fmt.Errorf("%w: list offsets must have at least one element", ErrConstructionRejected)
	}
	rows := len(offsets) - 1
	for i := 0; i < rows; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, fmt.Errorf("%w: list offsets decrease at row %d", ErrConstructionRejected, i)
		}
	}
	if int(offsets[rows]) != child.Len() {
		return nil, fmt.Errorf("%w: last offset %d does not match values length %d",
			ErrConstructionRejected, offsets[rows], child.Len())
	}
	return &listChunk{offsets: offsets, child: child, validity: validity, nulls: nulls}, nil
}

func (l *listChunk) dataType() DType { return List }
func (l *listChunk) length() int     { return len(l.offsets) - 1 }
func (l *listChunk) nullCount() int  { return l.nulls }

func (l *listChunk) valid(i int) bool {
	return bitIsValid(l.validity, i)
}

func (l *listChunk) value(i int) any {
	start := int(l.offsets[i])
	end := int(l.offsets[i+1])
	out := make([]any, 0, end-start)
	for j := start; j < end; j++ {
		v, _ := l.child.Get(j)
		out = append(out, v)
	}
	return out
}

func (l *listChunk) window(offset, length int) chunk {
	validity, nulls := sliceBitmap(l.validity, offset, length)
	return &listChunk{
		offsets:  l.offsets[offset : offset+length+1],
		child:    l.child,
		validity: validity,
		nulls:    nulls,
	}
}

// elementDType returns the dtype of the flattened list elements.
func (l *listChunk) elementDType() DType {
	return l.child.DType()
}

// listRechunk consolidates a list Series into one chunk, concatenating the
// child Series of every chunk and rebasing offsets to start at zero.
func listRechunk(s *Series) chunk {
	if len(s.chunks) == 1 {
		return s.chunks[0]
	}
	rows := 0
	for _, c := range s.chunks {
		rows += c.length()
	}
	offsets := make([]int32, 1, rows+1)
	valid := make([]bool, 0, rows)
	var child *Series
	base := int32(0)
	for _, c := range s.chunks {
		lc := c.(*listChunk)
		first := lc.offsets[0]
		last := lc.offsets[len(lc.offsets)-1]
		sub, _ := lc.child.Slice(int(first), int(last-first))
		if child == nil {
			child = sub
		} else {
			child.Append(sub)
		}
		for i := 0; i < lc.length(); i++ {
			offsets = append(offsets, base+lc.offsets[i+1]-first)
			valid = append(valid, lc.valid(i))
		}
		base += last - first
	}
	validity, nulls := bitmapFromBools(valid)
	ck, _ := newListChunk(offsets, child, validity, nulls)
	return ck
}
