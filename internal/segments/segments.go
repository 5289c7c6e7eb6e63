// Package segments converts numbers to and from seven-segment matchstick layouts.
//
// Segment positions follow the usual a..g naming:
//
//	 aaa
//	f   b
//	 ggg
//	e   c
//	 ddd
package segments

import (
	"fmt"
	"strconv"
	"strings"
)

// Count of segments in one digit.
const Count = 7

// Segment indices.
const (
	A = iota
	B
	C
	D
	E
	F
	G
)

// Pattern is one digit: true means a stick sits at that segment.
type Pattern [Count]bool

// Config is a whole number, most-significant digit first.
type Config []Pattern

var digits = [10]Pattern{
	{true, true, true, true, true, true, false},     // 0
	{false, true, true, false, false, false, false}, // 1
	{true, true, false, true, true, false, true},    // 2
	{true, true, true, true, false, false, true},    // 3
	{false, true, true, false, false, true, true},   // 4
	{true, false, true, true, false, true, true},    // 5
	{true, false, true, true, true, true, true},     // 6
	{true, true, true, false, false, false, false},  // 7
	{true, true, true, true, true, true, true},      // 8
	{true, true, true, true, false, true, true},     // 9
}

// Digit returns the canonical pattern for d. It panics when d is outside 0..9.
func Digit(d int) Pattern {
	return digits[d]
}

// Encode converts n into one pattern per decimal digit. No padding is added.
func Encode(n int) (Config, error) {
	if n < 0 {
		return nil, fmt.Errorf("encode %d: negative numbers have no layout", n)
	}
	s := strconv.Itoa(n)
	out := make(Config, 0, len(s))
	for _, ch := range s {
		out = append(out, digits[ch-'0'])
	}
	return out, nil
}

// DecodeDigit matches p against the canonical table.
func DecodeDigit(p Pattern) (int, bool) {
	for d, want := range digits {
		if p == want {
			return d, true
		}
	}
	return -1, false
}

// DecodeNumber decodes every digit left to right. Any unrecognized digit
// fails the whole configuration.
func DecodeNumber(c Config) (int, bool) {
	if len(c) == 0 {
		return -1, false
	}
	var b strings.Builder
	for _, p := range c {
		d, ok := DecodeDigit(p)
		if !ok {
			return -1, false
		}
		b.WriteByte(byte('0' + d))
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return -1, false
	}
	return n, true
}

// Sticks counts active segments across the configuration.
func Sticks(c Config) int {
	n := 0
	for _, p := range c {
		n += p.Sticks()
	}
	return n
}

// Sticks counts active segments in one digit.
func (p Pattern) Sticks() int {
	n := 0
	for _, on := range p {
		if on {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no storage with c.
func Clone(c Config) Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	copy(out, c)
	return out
}

// Equal reports whether a and b have the same shape and segments.
func Equal(a, b Config) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Name returns the letter for segment i ("a".."g").
func Name(i int) string {
	if i < 0 || i >= Count {
		return "?"
	}
	return string(rune('a' + i))
}

// Index maps a segment letter to its position.
func Index(r rune) (int, bool) {
	switch {
	case r >= 'a' && r <= 'g':
		return int(r - 'a'), true
	case r >= 'A' && r <= 'G':
		return int(r - 'A'), true
	}
	return -1, false
}

// String lists the active segments, e.g. "acdefg".
func (p Pattern) String() string {
	var b strings.Builder
	for i, on := range p {
		if on {
			b.WriteString(Name(i))
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// String renders each digit's active segments separated by spaces.
func (c Config) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
