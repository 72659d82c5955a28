package domain

import "fmt"

// FormatBRL renders a cent amount the way the storefront shows prices,
// e.g. 3550 -> "R$ 35.50".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d.%02d", sign, cents/100, cents%100)
}
