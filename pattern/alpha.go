// Copyright (c) 2024, The spread Authors
// See LICENSE for licensing information

package pattern

// Alphabetic range endpoints count in bijective base-26: the digits are
// 1 through 26 and there is no digit for zero, so "a" is 1, "z" is 26 and
// "aa" is 27. Every positive rank maps to exactly one letter string and
// back, which is what keeps "a" distinct from "aa".

// Ranks of up to 13 letters fit in an int64; longer endpoints are
// rejected at parse time so alphaRank cannot wrap.
const maxAlphaLen = 13

// alphaRank returns the rank of a letter string. Both cases rank the
// same; the caller has already checked that s is non-empty ASCII letters
// of at most maxAlphaLen bytes.
func alphaRank(s string) int {
	rank := 0
	for i := 0; i < len(s); i++ {
		rank = rank*26 + int(s[i]|0x20) - 'a' + 1
	}
	return rank
}

// alphaString is the inverse of alphaRank. rank must be positive.
func alphaString(rank int, upper bool) string {
	base := byte('a')
	if upper {
		base = 'A'
	}
	var buf [14]byte // enough letters for any positive int64 rank
	i := len(buf)
	for rank > 0 {
		rank--
		i--
		buf[i] = base + byte(rank%26)
		rank /= 26
	}
	return string(buf[i:])
}
