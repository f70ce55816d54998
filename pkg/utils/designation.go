package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// PadZeros left-pads a number with zeros up to width digits.
// Numbers already wider than width are returned unchanged.
func PadZeros(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// SettlementCode derives a two-letter upper-case code from a settlement name.
//
// Examples:
//   - "Alpha Base" -> "AB"
//   - "Schiaparelli" -> "SC"
//   - "" -> "XX"
func SettlementCode(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	switch {
	case len(words) == 0:
		return "XX"
	case len(words) == 1:
		w := []rune(strings.ToUpper(words[0]))
		if len(w) == 1 {
			return string(w) + "X"
		}
		return string(w[:2])
	default:
		first := []rune(strings.ToUpper(words[0]))
		second := []rune(strings.ToUpper(words[1]))
		return string(first[0]) + string(second[0])
	}
}

// MissionDesignation builds the public designation of a mission.
// Format: {typeInitial}-{sol:3}-{settlementCode}-{identifier:3}, e.g. "T-012-AB-007".
func MissionDesignation(typeInitial string, sol int, settlementCode string, identifier int) string {
	return fmt.Sprintf("%s-%s-%s-%s",
		strings.ToUpper(typeInitial), PadZeros(sol, 3), settlementCode, PadZeros(identifier, 3))
}
