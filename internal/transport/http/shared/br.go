package shared

import "strings"

// Brazilian document format checks, used by the profile endpoints.

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks length, the all-same-digit degenerate cases and the two
// verification digits.
func ValidCPF(value string) bool {
	digits := onlyDigits(value)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if cpfCheckDigit(digits, 9) != int(digits[9]-'0') {
		return false
	}
	return cpfCheckDigit(digits, 10) == int(digits[10]-'0')
}

func cpfCheckDigit(digits string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// ValidCEP accepts 00000-000 or 00000000.
func ValidCEP(value string) bool {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if len(cleaned) != 8 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
