package parser

import (
	"sort"
	"strings"
)

// NaturalLess compares two names treating digit runs as numbers,
// so "page_2" sorts before "page_10". Text runs compare case-insensitively.
func NaturalLess(a, b string) bool {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		if x == y {
			continue
		}
		if isDigits(x) && isDigits(y) {
			if c := compareNumeric(x, y); c != 0 {
				return c < 0
			}
			continue
		}
		lx, ly := strings.ToLower(x), strings.ToLower(y)
		if lx != ly {
			return lx < ly
		}
	}
	if len(ca) != len(cb) {
		return len(ca) < len(cb)
	}
	// Equal under natural ordering ("01" vs "1"); keep the result deterministic.
	return a < b
}

// SortNatural sorts names in place using NaturalLess.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// chunks splits s into alternating runs of digits and non-digits.
func chunks(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if i == 0 {
			continue
		}
		prev := rune(s[i-1])
		if isASCIIDigit(r) != isASCIIDigit(prev) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(rune(s[i])) {
			return false
		}
	}
	return true
}

// compareNumeric compares two digit strings by value without overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
