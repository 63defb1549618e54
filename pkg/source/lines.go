package source

import (
	"sort"
	"strings"
)

// LineInfo locates one physical line of a buffer by byte offsets.
type LineInfo struct {
	StartOffset  int // first byte of the line
	NewlineStart int // first byte of "\n" or "\r\n"; buffer end for an unterminated line
	EndOffset    int // just past the terminator
}

// Blank reports whether the line holds nothing but its terminator.
func (l LineInfo) Blank() bool {
	return l.StartOffset == l.NewlineStart
}

// BuildLines splits content into lines, accepting LF and CRLF endings. A
// buffer always ends with a possibly empty unterminated line, so empty
// content has one empty line.
func BuildLines(content string) []LineInfo {
	lines := make([]LineInfo, 0, strings.Count(content, "\n")+1)
	start := 0
	for {
		nl := strings.IndexByte(content[start:], '\n')
		if nl < 0 {
			break
		}
		end := start + nl
		term := end
		if end > start && content[end-1] == '\r' {
			term--
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: term, EndOffset: end + 1})
		start = end + 1
	}
	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

// lineIndex returns the 0-based line holding offset, or -1 outside the
// buffer. The end-of-buffer offset belongs to the last line.
func lineIndex(lines []LineInfo, size, offset int) int {
	switch {
	case offset < 0 || offset > size || len(lines) == 0:
		return -1
	case offset == size:
		return len(lines) - 1
	}
	idx := sort.Search(len(lines), func(i int) bool { return lines[i].EndOffset > offset })
	return min(idx, len(lines)-1)
}
