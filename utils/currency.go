package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrencyINR formats an amount in Indian Rupees using Indian digit grouping.
// Example: 1234567.5 -> "₹12,34,567.50", 450 -> "₹450"
func FormatCurrencyINR(amount float64) string {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	rounded := math.Round(amount*100) / 100
	integer := math.Floor(rounded)
	paise := int(math.Round((rounded - integer) * 100))

	digits := fmt.Sprintf("%.0f", integer)
	grouped := groupIndian(digits)

	if paise > 0 {
		return fmt.Sprintf("₹%s.%02d", grouped, paise)
	}
	return "₹" + grouped
}

// groupIndian puts the last three digits in one group and every two before that in another.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(parts, ",") + "," + tail
}
