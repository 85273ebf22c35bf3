// Package strutil provides string operations layered on top of the B1
// scanner's byte primitives: character-class replacement, trimming, and
// case folding. Every operation is total over its input -- nil/empty
// buffers yield empty output, never an error.
package strutil

import "loganalytics-pipeline/pkg/scanner"

// ReplaceChar returns a new buffer with every occurrence of old replaced by
// new, leaving the input untouched.
func ReplaceChar(data []byte, old, new byte) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	for _, off := range scanner.New(data).FindAllChar(old) {
		out[off] = new
	}
	return out
}

// ReplaceChars returns a new buffer with every byte in set replaced by new.
func ReplaceChars(data []byte, set []byte, new byte) []byte {
	if len(data) == 0 {
		return nil
	}
	isSet := [256]bool{}
	for _, c := range set {
		isSet[c] = true
	}
	out := make([]byte, len(data))
	for i, c := range data {
		if isSet[c] {
			out[i] = new
		} else {
			out[i] = c
		}
	}
	return out
}

// ToLower returns a new buffer with ASCII uppercase letters folded to
// lowercase; non-ASCII bytes pass through unchanged.
func ToLower(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data))
	for i, c := range data {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

// Trim strips leading and trailing ASCII whitespace (space, tab, CR, LF).
func Trim(data []byte) []byte {
	start, end := 0, len(data)
	for start < end && isSpace(data[start]) {
		start++
	}
	for end > start && isSpace(data[end-1]) {
		end--
	}
	return data[start:end]
}

// Contains reports whether needle occurs in data.
func Contains(data, needle []byte) bool {
	return scanner.New(data).Contains(needle)
}

// CollapseSpaces replaces every run of ASCII whitespace with a single space
// and trims the result, mirroring the preprocessor's "use_simd" delimiter
// normalization path (character-class replace + collapse + trim).
func CollapseSpaces(data []byte) []byte {
	trimmed := Trim(data)
	if len(trimmed) == 0 {
		return nil
	}
	out := make([]byte, 0, len(trimmed))
	prevSpace := false
	for _, c := range trimmed {
		if isSpace(c) {
			if !prevSpace {
				out = append(out, ' ')
			}
			prevSpace = true
			continue
		}
		out = append(out, c)
		prevSpace = false
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
