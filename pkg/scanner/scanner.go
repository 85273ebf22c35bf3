// Package scanner implements byte/substring search over contiguous,
// read-only buffers. Two code paths are modeled: a wide-lane path that
// scans eight bytes at a time via uint64 word reads (finishing the buffer
// tail byte by byte), and a scalar fallback; there is no separate
// narrower-lane path. Both must agree on every result; only throughput
// differs between them. No path reads past the end
// of the buffer, and every operation is total -- empty or nil input yields
// "not found" or an empty result, never an error.
package scanner

import (
	"math/bits"
	"runtime"
)

const wideLane = 8 // bytes processed per uint64 word

// Capabilities records which scan lane width this process will prefer.
// There is no cgo/assembly SIMD here (a go build-only module can't reach
// AVX2/NEON intrinsics); WideLane models the same "detect, then dispatch to
// an optimized pure-Go path" shape the corpus uses for its own SIMD
// placeholders, with a real throughput difference (word-at-a-time versus
// byte-at-a-time) backing the two paths instead of an identical fallback.
type Capabilities struct {
	WideLane bool
	Platform string
}

// Detect reports the scan-lane capability for the current process. Every
// platform Go supports can do 8-byte-aligned word loads, so WideLane is
// unconditionally true; the field exists so callers and tests can force the
// scalar path via NewWithCapabilities for parity testing.
func Detect() Capabilities {
	return Capabilities{WideLane: true, Platform: runtime.GOARCH}
}

// Scanner performs read-only scans over a byte buffer. The zero value is not
// usable; construct via New.
type Scanner struct {
	data  []byte
	caps  Capabilities
}

// New wraps data for scanning using the detected capabilities.
func New(data []byte) *Scanner {
	return &Scanner{data: data, caps: Detect()}
}

// NewWithCapabilities wraps data, forcing a specific lane width. Used by
// tests to assert that the scalar and wide-lane paths agree.
func NewWithCapabilities(data []byte, caps Capabilities) *Scanner {
	return &Scanner{data: data, caps: caps}
}

// Bytes returns the underlying buffer. The returned slice is a view; it must
// not outlive whatever owns data (e.g. an mmapfile.File's mapping).
func (s *Scanner) Bytes() []byte { return s.data }

// Len returns the number of bytes in the buffer.
func (s *Scanner) Len() int { return len(s.data) }

// FindChar returns the offset of the first occurrence of c, or -1.
func (s *Scanner) FindChar(c byte) int {
	if len(s.data) == 0 {
		return -1
	}
	if s.caps.WideLane {
		return findCharWide(s.data, c)
	}
	return findCharScalar(s.data, 0, c)
}

// FindLast returns the offset of the last occurrence of c, or -1.
func (s *Scanner) FindLast(c byte) int {
	for i := len(s.data) - 1; i >= 0; i-- {
		if s.data[i] == c {
			return i
		}
	}
	return -1
}

// CountChar returns the number of occurrences of c in the buffer.
func (s *Scanner) CountChar(c byte) int {
	count := 0
	pattern := uint64(c) * 0x0101010101010101
	i := 0
	n := len(s.data)
	for ; i+wideLane <= n; i += wideLane {
		word := loadWord(s.data[i : i+wideLane])
		count += bits.OnesCount64(matchMask(word, pattern))
	}
	for ; i < n; i++ {
		if s.data[i] == c {
			count++
		}
	}
	return count
}

// FindAllChar returns the ordered offsets of every occurrence of c.
func (s *Scanner) FindAllChar(c byte) []int {
	var offsets []int
	for i, b := range s.data {
		if b == c {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// FindSubstring returns the offset of the first occurrence of needle, or -1.
// A single-byte needle delegates to FindChar.
func (s *Scanner) FindSubstring(needle []byte) int {
	if len(needle) == 0 {
		return -1
	}
	if len(needle) == 1 {
		return s.FindChar(needle[0])
	}
	if len(needle) > len(s.data) {
		return -1
	}
	first := needle[0]
	n := len(s.data) - len(needle)
	for i := 0; i <= n; i++ {
		idx := findCharScalar(s.data, i, first)
		if idx < 0 || idx > n {
			return -1
		}
		if matchAt(s.data, idx, needle) {
			return idx
		}
		i = idx
	}
	return -1
}

// Contains reports whether needle occurs anywhere in the buffer.
func (s *Scanner) Contains(needle []byte) bool {
	return s.FindSubstring(needle) >= 0
}

// SplitIter is a lazy, non-restartable iterator over sub-ranges of the
// scanned buffer delimited by a single byte.
type SplitIter struct {
	data  []byte
	delim byte
	pos   int
	done  bool
}

// Split returns a lazy iterator over the buffer's delim-separated parts. A
// trailing empty part after a final delimiter is yielded, matching the
// source's split semantics (an empty line at EOF is still a part).
func (s *Scanner) Split(delim byte) *SplitIter {
	return &SplitIter{data: s.data, delim: delim}
}

// Next returns the next part and true, or (nil, false) once exhausted.
func (it *SplitIter) Next() ([]byte, bool) {
	if it.done {
		return nil, false
	}
	rest := it.data[it.pos:]
	idx := findCharScalar(rest, 0, it.delim)
	if idx < 0 {
		it.done = true
		return rest, true
	}
	part := rest[:idx]
	it.pos += idx + 1
	return part, true
}

func matchAt(data []byte, at int, needle []byte) bool {
	if at+len(needle) > len(data) {
		return false
	}
	for i, c := range needle {
		if data[at+i] != c {
			return false
		}
	}
	return true
}

func findCharScalar(data []byte, from int, c byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == c {
			return i
		}
	}
	return -1
}

func findCharWide(data []byte, c byte) int {
	pattern := uint64(c) * 0x0101010101010101
	i := 0
	n := len(data)
	for ; i+wideLane <= n; i += wideLane {
		word := loadWord(data[i : i+wideLane])
		mask := matchMask(word, pattern)
		if mask != 0 {
			return i + bits.TrailingZeros64(mask)/8
		}
	}
	return findCharScalar(data, i, c)
}

func loadWord(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// matchMask applies the SWAR "find zero byte" test to word^pattern: bytes
// equal to the search character become zero bytes, and the result has the
// high bit set in exactly those bytes' positions. The carry-free form is
// used so that no other byte is flagged, which CountChar relies on.
func matchMask(word, pattern uint64) uint64 {
	x := word ^ pattern
	y := (x & 0x7f7f7f7f7f7f7f7f) + 0x7f7f7f7f7f7f7f7f
	return ^(y | x | 0x7f7f7f7f7f7f7f7f)
}
