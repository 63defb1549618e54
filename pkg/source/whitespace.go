package source

// IsBlank reports whether text is non-empty and made only of spaces and tabs.
func IsBlank(text string) bool {
	if text == "" {
		return false
	}
	for idx := range len(text) {
		if text[idx] != ' ' && text[idx] != '\t' {
			return false
		}
	}
	return true
}

// IsSpaces reports whether text is non-empty and made only of space characters.
func IsSpaces(text string) bool {
	if text == "" {
		return false
	}
	for idx := range len(text) {
		if text[idx] != ' ' {
			return false
		}
	}
	return true
}

// IsLineTerminator reports whether text is exactly "\n" or "\r\n".
func IsLineTerminator(text string) bool {
	return text == "\n" || text == "\r\n"
}
