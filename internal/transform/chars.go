package transform

import "unicode"

// isSpace reports whether r is whitespace in the Unicode sense, including
// the file, group, record and unit separators (U+001C..U+001F).
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isWord reports whether r is a word character: any letter, any number, or '_'
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
