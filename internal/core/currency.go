// Package core currency formatting.
//
// Amounts are formatted with Indian digit grouping (lakh/crore): the last
// three digits form one group, every group above that has two digits. The
// compact form uses the Cr/L/K unit breakpoints at exactly 1e7, 1e5 and 1e3;
// these encode the regional numbering convention and must not drift.
package core

import (
	"math"
	"strconv"
	"strings"
)

// FormatINR renders a full-precision rupee amount rounded to a whole number
// with en-IN grouping, e.g. 1234567 -> "₹12,34,567".
func FormatINR(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))
	return signPrefix(neg) + "₹" + groupIndian(n)
}

// FormatINRCompact renders the abbreviated form used in the chart:
// ≥1 crore -> "₹x.xCr", ≥1 lakh -> "₹x.xL", ≥1 thousand -> "₹x.xK",
// otherwise the raw number.
func FormatINRCompact(amount float64) string {
	neg := amount < 0
	v := math.Abs(amount)
	var s string
	switch {
	case v >= 10000000:
		s = strconv.FormatFloat(v/10000000, 'f', 1, 64) + "Cr"
	case v >= 100000:
		s = strconv.FormatFloat(v/100000, 'f', 1, 64) + "L"
	case v >= 1000:
		s = strconv.FormatFloat(v/1000, 'f', 1, 64) + "K"
	default:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return signPrefix(neg) + "₹" + s
}

// FormatPercent renders a percentage with one decimal, e.g. "35.0%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func signPrefix(neg bool) string {
	if neg {
		return "-"
	}
	return ""
}

// groupIndian inserts separators per the Indian numbering system: the
// low-order group has three digits, all higher groups have two.
func groupIndian(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}
