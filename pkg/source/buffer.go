// Package source holds immutable source buffers and the half-open byte
// ranges that index into them.
package source

// Buffer is the immutable text of one file together with its line table.
// Edits never change a Buffer; applying them produces a new one.
type Buffer struct {
	name    string
	content string
	lines   []LineInfo
}

// NewBuffer creates a buffer from content. The bytes are copied.
func NewBuffer(name string, content []byte) *Buffer {
	return NewBufferString(name, string(content))
}

// NewBufferString creates a buffer from a string.
func NewBufferString(name, content string) *Buffer {
	return &Buffer{
		name:    name,
		content: content,
		lines:   BuildLines(content),
	}
}

// Name returns the buffer name, usually a file path.
func (b *Buffer) Name() string {
	return b.name
}

// Source returns the full buffer text.
func (b *Buffer) Source() string {
	return b.content
}

// Bytes returns a copy of the buffer content.
func (b *Buffer) Bytes() []byte {
	return []byte(b.content)
}

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int {
	return len(b.content)
}

// Lines returns the line table. Callers must not modify it.
func (b *Buffer) Lines() []LineInfo {
	return b.lines
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the LineInfo for a 1-based line number.
func (b *Buffer) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(b.lines) {
		return LineInfo{}, false
	}
	return b.lines[line-1], true
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (b *Buffer) LineAt(offset int) (int, int) {
	idx := lineIndex(b.lines, len(b.content), offset)
	if idx < 0 {
		return 0, 0
	}
	return idx + 1, offset - b.lines[idx].StartOffset + 1
}

// LineStart returns the offset of the first byte of the line containing offset.
// Returns -1 if the offset is out of range.
func (b *Buffer) LineStart(offset int) int {
	idx := lineIndex(b.lines, len(b.content), offset)
	if idx < 0 {
		return -1
	}
	return b.lines[idx].StartOffset
}

// Column returns the 0-based byte column of offset within its line.
// Returns -1 if the offset is out of range.
func (b *Buffer) Column(offset int) int {
	start := b.LineStart(offset)
	if start < 0 {
		return -1
	}
	return offset - start
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (b *Buffer) Offset(line, col int) (int, bool) {
	info, ok := b.Line(line)
	if !ok || col < 1 {
		return 0, false
	}

	offset := info.StartOffset + col - 1
	if offset > info.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns the text of a 1-based line number, excluding the terminator.
func (b *Buffer) LineContent(line int) string {
	info, ok := b.Line(line)
	if !ok {
		return ""
	}
	return b.content[info.StartOffset:info.NewlineStart]
}

// Slice returns the text in [begin, end), or "" when the bounds are invalid.
func (b *Buffer) Slice(begin, end int) string {
	if begin < 0 || end > len(b.content) || begin > end {
		return ""
	}
	return b.content[begin:end]
}

// ByteAt returns the byte at offset.
func (b *Buffer) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= len(b.content) {
		return 0, false
	}
	return b.content[offset], true
}

// Range creates a range over this buffer.
func (b *Buffer) Range(begin, end int) (Range, error) {
	return NewRange(b, begin, end)
}

// MustRange is like Range but panics on invalid bounds.
func (b *Buffer) MustRange(begin, end int) Range {
	r, err := NewRange(b, begin, end)
	if err != nil {
		panic(err)
	}
	return r
}

// FullRange returns the range covering the whole buffer.
func (b *Buffer) FullRange() Range {
	return Range{buf: b, begin: 0, end: len(b.content)}
}

// LineRange returns the range of a 1-based line, terminator excluded.
func (b *Buffer) LineRange(line int) (Range, bool) {
	info, ok := b.Line(line)
	if !ok {
		return Range{}, false
	}
	return Range{buf: b, begin: info.StartOffset, end: info.NewlineStart}, true
}

// WithContent returns a new buffer with the same name and new content.
func (b *Buffer) WithContent(content []byte) *Buffer {
	return NewBuffer(b.name, content)
}
