package shared

import (
	"regexp"
	"strings"
)

// UK-specific field format validators shared across bounded contexts.

var (
	ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}$`)
	ukPhonePattern    = regexp.MustCompile(`^(\+44\s?|0)\d{2,4}[\s-]?\d{3,4}[\s-]?\d{3,4}$`)
	// NI numbers: two prefix letters (excluding D, F, I, Q, U, V anywhere and
	// O as the second letter), six digits, suffix A-D.
	niNumberPattern = regexp.MustCompile(`^[ABCEGHJ-PRSTW-Z][ABCEGHJ-NPRSTW-Z]\d{6}[A-D]$`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
)

// ValidUKPostcode reports whether s is a plausible UK postcode
func ValidUKPostcode(s string) bool {
	return ukPostcodePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// ValidUKPhone reports whether s is a plausible UK phone number
func ValidUKPhone(s string) bool {
	return ukPhonePattern.MatchString(strings.TrimSpace(s))
}

// ValidNINumber reports whether s is a well-formed National Insurance number
func ValidNINumber(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if len(s) != 9 {
		return false
	}
	switch s[:2] {
	case "BG", "GB", "NK", "KN", "TN", "NT", "ZZ":
		// administratively invalid prefixes
		return false
	}
	return niNumberPattern.MatchString(s)
}

// ValidNHSNumber reports whether s is a valid 10-digit NHS number, including
// the modulus 11 check digit.
func ValidNHSNumber(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(s) != 10 || !digitsOnly.MatchString(s) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * (10 - i)
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		// a remainder of 1 yields no valid check digit
		return false
	}
	return check == int(s[9]-'0')
}
