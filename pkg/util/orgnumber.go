package util

import "strings"

// NormalizeOrgNumber strips spaces from a user-entered organization number.
// Orgnr skrives ofte som "987 654 321" i norske kilder.
func NormalizeOrgNumber(orgNumber string) string {
	return strings.ReplaceAll(strings.TrimSpace(orgNumber), " ", "")
}

// IsValidOrgNumber reports whether the input is a 9-digit numeric string,
// the format used by Enhetsregisteret.
func IsValidOrgNumber(orgNumber string) bool {
	if len(orgNumber) != 9 {
		return false
	}
	for _, r := range orgNumber {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
