package source

import "fmt"

// Range is a half-open byte span [Begin, End) over one Buffer.
// The zero Range is not bound to any buffer and is used for absent locations.
type Range struct {
	buf   *Buffer
	begin int
	end   int
}

// NewRange validates and creates a range over buf.
func NewRange(buf *Buffer, begin, end int) (Range, error) {
	if buf == nil {
		return Range{}, fmt.Errorf("%w: nil buffer", ErrInvalidRange)
	}
	if begin < 0 || end > buf.Len() || begin > end {
		return Range{}, &RangeError{Begin: begin, End: end, Size: buf.Len()}
	}
	return Range{buf: buf, begin: begin, end: end}, nil
}

// Buffer returns the owning buffer.
func (r Range) Buffer() *Buffer {
	return r.buf
}

// Valid reports whether the range is bound to a buffer.
func (r Range) Valid() bool {
	return r.buf != nil
}

// Begin returns the start offset (inclusive).
func (r Range) Begin() int {
	return r.begin
}

// End returns the end offset (exclusive).
func (r Range) End() int {
	return r.end
}

// Size returns the length of the range in bytes.
func (r Range) Size() int {
	return r.end - r.begin
}

// Empty reports whether the range has zero length.
func (r Range) Empty() bool {
	return r.begin == r.end
}

// Source returns the text covered by the range.
func (r Range) Source() string {
	if r.buf == nil {
		return ""
	}
	return r.buf.content[r.begin:r.end]
}

// IsBlank reports whether the covered text is only spaces and tabs.
func (r Range) IsBlank() bool {
	return IsBlank(r.Source())
}

// Line returns the 1-based line of Begin.
func (r Range) Line() int {
	if r.buf == nil {
		return 0
	}
	line, _ := r.buf.LineAt(r.begin)
	return line
}

// LastLine returns the 1-based line of End.
func (r Range) LastLine() int {
	if r.buf == nil {
		return 0
	}
	line, _ := r.buf.LineAt(r.end)
	return line
}

// Column returns the 0-based column of Begin.
func (r Range) Column() int {
	if r.buf == nil {
		return 0
	}
	return r.buf.Column(r.begin)
}

// LastColumn returns the 0-based column of End.
func (r Range) LastColumn() int {
	if r.buf == nil {
		return 0
	}
	return r.buf.Column(r.end)
}

// SourceRange returns r, so a bare range can stand in wherever a node or
// token is accepted as a position.
func (r Range) SourceRange() Range {
	return r
}

// BeginPos returns the empty range at Begin.
func (r Range) BeginPos() Range {
	return Range{buf: r.buf, begin: r.begin, end: r.begin}
}

// EndPos returns the empty range at End.
func (r Range) EndPos() Range {
	return Range{buf: r.buf, begin: r.end, end: r.end}
}

// Join returns the smallest range covering both r and other.
// Ranges over different buffers cannot be joined; r is returned unchanged.
func (r Range) Join(other Range) Range {
	if r.buf != other.buf {
		return r
	}
	return Range{buf: r.buf, begin: min(r.begin, other.begin), end: max(r.end, other.end)}
}

// Adjust shifts Begin and End by the given deltas.
func (r Range) Adjust(beginDelta, endDelta int) (Range, error) {
	return NewRange(r.buf, r.begin+beginDelta, r.end+endDelta)
}

// Resize returns the range of length n starting at Begin.
func (r Range) Resize(n int) (Range, error) {
	return NewRange(r.buf, r.begin, r.begin+n)
}

// Within reports whether r lies entirely inside outer.
func (r Range) Within(outer Range) bool {
	return r.buf == outer.buf && outer.begin <= r.begin && r.end <= outer.end
}

// Overlaps reports whether the two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.buf == other.buf && max(r.begin, other.begin) < min(r.end, other.end)
}

// Touches reports whether one range ends exactly where the other begins.
func (r Range) Touches(other Range) bool {
	return r.buf == other.buf && (r.end == other.begin || other.end == r.begin)
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.begin && offset < r.end
}

// String renders the range for diagnostics and error messages.
func (r Range) String() string {
	if r.buf == nil {
		return "[-]"
	}
	return fmt.Sprintf("%s[%d, %d)", r.buf.name, r.begin, r.end)
}
