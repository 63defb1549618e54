package fix

// ApplyEdits splices prepared edits into content in a single pass. The
// result is a new slice; content is not modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	out := make([]byte, 0, max(size, 0))
	at := 0
	for _, e := range edits {
		out = append(out, content[at:e.StartOffset]...)
		out = append(out, e.NewText...)
		at = e.EndOffset
	}
	return append(out, content[at:]...)
}
