// Package phone turns loosely formatted phone numbers into the set of
// equivalent spellings used for self-service lookup.
//
// The variant set assumes the Algerian numbering plan (country code 213,
// 9-digit subscriber numbers). Numbers from other plans still expand, but two
// spellings of the same foreign number only match when their last nine digits
// agree.
package phone

import "strings"

const (
	// SignificantDigits is the subscriber-number length kept from the input.
	SignificantDigits = 9
	countryCode       = "213"
)

// Digits strips every non-digit character.
func Digits(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Significant returns the last nine digits of input, or all of them if there
// are fewer. Short inputs are not rejected.
func Significant(input string) string {
	d := Digits(input)
	if len(d) > SignificantDigits {
		return d[len(d)-SignificantDigits:]
	}
	return d
}

// Expand returns the fixed set of spellings equivalent to input:
// local with trunk zero, bare, country code, +country code and 00 country code.
func Expand(input string) []string {
	s := Significant(input)
	return []string{
		"0" + s,
		s,
		countryCode + s,
		"+" + countryCode + s,
		"00" + countryCode + s,
	}
}

// Matches is true when the expansions of a and b share at least one spelling.
func Matches(a, b string) bool {
	left := Expand(a)
	for _, r := range Expand(b) {
		for _, l := range left {
			if l == r {
				return true
			}
		}
	}
	return false
}
