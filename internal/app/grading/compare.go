package grading

import (
	"strconv"
	"strings"
)

// answersMatch decides correctness of a submitted answer against the
// stored canonical answer.
//
// Coercion rule: both sides are trimmed and parsed as float64. When both
// parse, they are compared numerically, so "12", "12.0" and 12 all match
// a stored "12". When either side is not a number, the trimmed strings
// must match exactly. No epsilon: Primary 5 answers are short decimals
// that round-trip exactly through float64.
func answersMatch(userAnswer, correctAnswer string) bool {
	ua := strings.TrimSpace(userAnswer)
	ca := strings.TrimSpace(correctAnswer)

	uf, uerr := strconv.ParseFloat(ua, 64)
	cf, cerr := strconv.ParseFloat(ca, 64)
	if uerr == nil && cerr == nil {
		return uf == cf
	}
	return ua == ca
}
