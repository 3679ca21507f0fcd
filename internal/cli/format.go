// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Locale controls currency and digit grouping.
type Locale struct {
	Name      string
	Currency  string
	Thousands byte
	Decimal   byte
}

// Supported locales.
var (
	PtBR = Locale{Name: "pt-BR", Currency: "R$ ", Thousands: '.', Decimal: ','}
	EnUS = Locale{Name: "en-US", Currency: "$", Thousands: ',', Decimal: '.'}
)

// LocaleByName returns the locale with the given name, or pt-BR.
func LocaleByName(name string) Locale {
	if strings.EqualFold(name, EnUS.Name) {
		return EnUS
	}
	return PtBR
}

// Money formats a currency amount with two decimals.
// e.g., pt-BR 1234.5 -> "R$ 1.234,50"
func (l Locale) Money(v float64) string {
	return l.money(v, 2)
}

// MoneyWhole formats a currency amount without decimals.
func (l Locale) MoneyWhole(v float64) string {
	return l.money(v, 0)
}

func (l Locale) money(v float64, places int) string {
	return l.Currency + l.Decimals(v, places)
}

// Decimals formats v with grouped thousands and a fixed number of places.
func (l Locale) Decimals(v float64, places int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', places, 64)
	whole, frac, _ := strings.Cut(s, ".")
	out := sign + group(whole, l.Thousands)
	if frac != "" {
		out += string(l.Decimal) + frac
	}
	return out
}

// Int formats an integer with the locale thousands separator.
// e.g., pt-BR 1234567 -> "1.234.567"
func (l Locale) Int(n int64) string {
	if n < 0 {
		// -n overflows for math.MinInt64; the uint64 negation does not.
		return "-" + group(strconv.FormatUint(-uint64(n), 10), l.Thousands)
	}
	return group(strconv.FormatUint(uint64(n), 10), l.Thousands)
}

// Delta formats the signed difference between two amounts.
func (l Locale) Delta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + l.Money(delta)
	}
	return "-" + l.Money(-delta)
}

func group(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}

	var result strings.Builder
	remainder := len(digits) % 3
	if remainder > 0 {
		result.WriteString(digits[:remainder])
	}
	for i := remainder; i < len(digits); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(sep)
		}
		result.WriteString(digits[i : i+3])
	}
	return result.String()
}

// FormatCompact formats a count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return EnUS.Int(n)
}

// FormatRate formats a value already expressed in percent.
// e.g., 3.456 with 2 places -> "3.46%"
func FormatRate(pct float64, places int) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	return strconv.FormatFloat(pct, 'f', places, 64) + "%"
}

// FormatRatio formats a multiplier such as ROAS.
// e.g., 2.345 -> "2.35x"
func FormatRatio(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
