package lock

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^(\d*)(?:\.(\d*))?$`)

// splitDecimal returns the integer and fractional digits of a non-negative decimal string.
func splitDecimal(amount string) (string, string, error) {
	trimmed := strings.TrimSpace(amount)
	matches := decimalPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return "", "", fmt.Errorf("%q is not a non-negative decimal number", amount)
	}
	whole, frac := matches[1], matches[2]
	if whole == "" && frac == "" {
		return "", "", fmt.Errorf("%q is not a non-negative decimal number", amount)
	}
	if whole == "" {
		whole = "0"
	}
	return whole, frac, nil
}

// ParseUnits scales a major-unit decimal string into minor units using exact integer arithmetic.
// Digits beyond the token precision are rounded half-up.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	whole, frac, err := splitDecimal(amount)
	if err != nil {
		return nil, err
	}

	roundUp := false
	if len(frac) > int(decimals) {
		roundUp = frac[decimals] >= '5'
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a non-negative decimal number", amount)
	}
	if roundUp {
		value.Add(value, big.NewInt(1))
	}
	return value, nil
}

// FormatUnits renders a minor-unit amount as a major-unit decimal string without trailing zeros.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	digits := value.String()
	if decimals == 0 {
		return digits
	}
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	split := len(digits) - int(decimals)
	whole, frac := digits[:split], strings.TrimRight(digits[split:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
