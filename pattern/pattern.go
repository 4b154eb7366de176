// Copyright (c) 2024, The spread Authors
// See LICENSE for licensing information

// Package pattern parses strings containing brace-delimited sets and
// bracket-delimited ranges, like "https://example.com/{a,b}/img[08-12].png",
// and expands them into the full cartesian product of strings they denote.
//
// A pattern is made of plain text, alternative sets such as {a,b,c}, numeric
// ranges such as [080-120] which keep the zero padding of their narrower
// endpoint, and alphabetic ranges such as [a-z] or [AA-AK] which count in
// bijective base-26 so that the step after "az" is "ba". Delimiters do not
// nest, and there is no escaping mechanism for literal braces or brackets.
package pattern

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// A Pattern is the result of parsing a pattern string. It is immutable;
// a single Pattern may be expanded any number of times, concurrently if
// needed.
type Pattern struct {
	original string
	segs     []segment
}

// SyntaxError represents an error found when parsing a pattern. Offset is
// the 0-indexed byte position of the offending character in the original
// string.
type SyntaxError struct {
	Offset int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Text)
}

// Parser states. Delimiters do not nest, so at most one set or range is
// open at any point of the scan.
const (
	scanPlain     = iota
	scanSet       // inside an unclosed '{'
	scanRangeLow  // inside an unclosed '[', before the '-'
	scanRangeHigh // inside an unclosed '[', after the '-'
)

// Parse scans s left to right into its segments. Alternatives and range
// endpoints have their surrounding whitespace trimmed; plain text is kept
// verbatim. Commas and hyphens outside any delimiter are ordinary
// characters.
//
// Parse never panics on malformed input; mismatched, nested or
// unterminated delimiters and ranges whose endpoints are not both numeric
// or both letters of one case return a *SyntaxError.
func Parse(s string) (*Pattern, error) {
	p := &Pattern{original: s}
	state := scanPlain
	start := 0 // where the current buffer began
	open := 0  // offset of the currently open '{' or '['
	var alts []string
	var low string
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			if state != scanPlain {
				return nil, unexpected(c, i)
			}
			if i > start {
				p.segs = append(p.segs, literal(s[start:i]))
			}
			alts = nil
			state, open, start = scanSet, i, i+1
		case '}':
			if state != scanSet {
				return nil, unexpected(c, i)
			}
			alts = append(alts, strings.TrimSpace(s[start:i]))
			p.segs = append(p.segs, alternatives(alts))
			state, start = scanPlain, i+1
		case '[':
			if state != scanPlain {
				return nil, unexpected(c, i)
			}
			if i > start {
				p.segs = append(p.segs, literal(s[start:i]))
			}
			state, open, start = scanRangeLow, i, i+1
		case ']':
			if state != scanRangeLow && state != scanRangeHigh {
				return nil, unexpected(c, i)
			}
			if state == scanRangeLow {
				return nil, &SyntaxError{open, fmt.Sprintf("range %q is missing a %q", s[open+1:i], "-")}
			}
			seg, err := rangeSegment(low, strings.TrimSpace(s[start:i]), open)
			if err != nil {
				return nil, err
			}
			p.segs = append(p.segs, seg)
			state, start = scanPlain, i+1
		case ',':
			switch state {
			case scanSet:
				alts = append(alts, strings.TrimSpace(s[start:i]))
				start = i + 1
			case scanRangeLow, scanRangeHigh:
				// a range is one low-high pair, not a list
				return nil, unexpected(c, i)
			}
		case '-':
			if state == scanRangeLow {
				low = strings.TrimSpace(s[start:i])
				state, start = scanRangeHigh, i+1
			}
			// elsewhere, an ordinary character
		}
	}
	switch state {
	case scanSet:
		return nil, &SyntaxError{open, `reached end of pattern without closing "{"`}
	case scanRangeLow, scanRangeHigh:
		return nil, &SyntaxError{open, `reached end of pattern without closing "["`}
	}
	if start < len(s) {
		p.segs = append(p.segs, literal(s[start:]))
	}
	return p, nil
}

func unexpected(c byte, off int) *SyntaxError {
	return &SyntaxError{off, fmt.Sprintf("unexpected %q", string(c))}
}

// rangeSegment classifies a bracket range given its trimmed endpoint
// literals. open is the byte offset of the opening '[', which positions
// any error.
func rangeSegment(low, high string, open int) (segment, error) {
	lit := low + "-" + high
	switch {
	case isDigits(low) && isDigits(high):
		lo, err1 := strconv.Atoi(low)
		hi, err2 := strconv.Atoi(high)
		if err1 != nil || err2 != nil {
			return nil, &SyntaxError{open, fmt.Sprintf("range %q has an endpoint out of bounds", lit)}
		}
		return numberRange{lo, hi, min(len(low), len(high))}, nil
	case isLetters(low) && isLetters(high):
		if len(low) > maxAlphaLen || len(high) > maxAlphaLen {
			return nil, &SyntaxError{open, fmt.Sprintf("range %q has an endpoint out of bounds", lit)}
		}
		switch {
		case isLower(low) && isLower(high):
			return letterRange{alphaRank(low), alphaRank(high), false}, nil
		case isUpper(low) && isUpper(high):
			return letterRange{alphaRank(low), alphaRank(high), true}, nil
		}
		return nil, &SyntaxError{open, fmt.Sprintf("mixed letter case in range %q", lit)}
	}
	return nil, &SyntaxError{open, fmt.Sprintf("invalid range %q", lit)}
}

// String returns the original pattern string as given to Parse.
func (p *Pattern) String() string { return p.original }

// Count returns the number of strings the pattern denotes, without
// enumerating them. Products too large for an int saturate to
// math.MaxInt.
func (p *Pattern) Count() int {
	n := 1
	for _, seg := range p.segs {
		c := seg.count()
		if c != 0 && n > math.MaxInt/c {
			return math.MaxInt
		}
		n *= c
	}
	return n
}

// Expand returns the cartesian product of the pattern's segments as a
// lazy sequence: one string per combination, choosing one value from each
// segment in order, with the first segment varying slowest and the last
// varying fastest, like an odometer. The sequence may be ranged over any
// number of times and stopped early at any point; each call to the
// returned Seq holds its own cursor, so concurrent iterations over one
// Pattern are fine.
//
// A pattern containing a segment that denotes no values, such as a range
// whose low end is above its high end, denotes no strings at all. A
// pattern with no segments denotes a single empty string.
func (p *Pattern) Expand() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seg := range p.segs {
			if seg.count() == 0 {
				return
			}
		}
		idx := make([]int, len(p.segs))
		var sb strings.Builder
		for {
			sb.Reset()
			for i, seg := range p.segs {
				sb.WriteString(seg.value(idx[i]))
			}
			if !yield(sb.String()) {
				return
			}
			i := len(idx) - 1
			for ; i >= 0; i-- {
				if idx[i]++; idx[i] < p.segs[i].count() {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLower(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func isUpper(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
