// Package payment validates GCash payment reference numbers entered at
// checkout. References are attestations of an out-of-band payment; they
// are format-checked here, never verified against the payment network.
package payment

import "regexp"

// referenceLen is the exact length of a GCash reference number.
const referenceLen = 13

var (
	letters    = regexp.MustCompile(`[a-zA-Z]`)
	whitespace = regexp.MustCompile(`\s`)
	// A reference starts with a digit, then the literal digits 01, then
	// ten more digits.
	pattern = regexp.MustCompile(`^\d01\d{10}$`)
)

// ValidReference reports whether ref is a well-formed reference number.
// All four checks must hold. The pattern check subsumes the letter and
// length checks on most inputs, but the checks are kept separate so that
// malformed edge cases (embedded control characters, mixed content of the
// right length) fail the same way they always have.
func ValidReference(ref string) bool {
	if letters.MatchString(ref) {
		return false
	}
	if whitespace.MatchString(ref) {
		return false
	}
	if len(ref) != referenceLen {
		return false
	}
	return pattern.MatchString(ref)
}
