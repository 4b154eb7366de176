// Copyright (c) 2024, The spread Authors
// See LICENSE for licensing information

package pattern

import "fmt"

// A segment is one parsed piece of a pattern, denoting an ordered finite
// sequence of candidate strings. Values are addressed by index so that
// expansion never materializes a segment's values up front.
type segment interface {
	count() int
	value(i int) string
}

// literal denotes exactly one value, itself.
type literal string

func (l literal) count() int         { return 1 }
func (l literal) value(i int) string { return string(l) }

// alternatives denotes each element of a {a,b,c} set once, in order.
type alternatives []string

func (a alternatives) count() int         { return len(a) }
func (a alternatives) value(i int) string { return a[i] }

// numberRange denotes the integers low through high inclusive, each
// formatted in decimal and zero-padded to width digits.
type numberRange struct {
	low, high int
	width     int
}

func (r numberRange) count() int {
	if r.high < r.low {
		return 0
	}
	return r.high - r.low + 1
}

func (r numberRange) value(i int) string {
	return fmt.Sprintf("%0*d", r.width, r.low+i)
}

// letterRange denotes the bijective base-26 ranks low through high
// inclusive, each rendered as letters of a single case.
type letterRange struct {
	low, high int
	upper     bool
}

func (r letterRange) count() int {
	if r.high < r.low {
		return 0
	}
	return r.high - r.low + 1
}

func (r letterRange) value(i int) string {
	return alphaString(r.low+i, r.upper)
}
