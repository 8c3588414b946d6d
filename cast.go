package dbf

import (
	"strings"
	"time"
)

// This file contains helper casting functions for the interface{} values
// held in a Record, so callers don't have to repeat a type switch at every
// call site.

// ToString always returns a string.
func ToString(in interface{}) string {
	if str, ok := in.(string); ok {
		return str
	}
	return ""
}

// ToTrimmedString always returns a string with surrounding spaces trimmed.
func ToTrimmedString(in interface{}) string {
	if str, ok := in.(string); ok {
		return strings.TrimSpace(str)
	}
	return ""
}

// ToInt64 always returns an int64.
func ToInt64(in interface{}) int64 {
	if i, ok := in.(int64); ok {
		return i
	}
	return 0
}

// ToDecimal always returns a Decimal, the zero value if in is not one.
func ToDecimal(in interface{}) Decimal {
	if d, ok := in.(Decimal); ok {
		return d
	}
	return Decimal{}
}

// ToFloat64 returns a float64 for either an int64 or a Decimal value, 0
// otherwise.
func ToFloat64(in interface{}) float64 {
	switch v := in.(type) {
	case Decimal:
		return v.Float64()
	case int64:
		return float64(v)
	default:
		return 0.0
	}
}

// ToTime always returns a time.Time, the zero value if in is nil or absent.
func ToTime(in interface{}) time.Time {
	switch v := in.(type) {
	case *time.Time:
		if v == nil {
			return time.Time{}
		}
		return *v
	case time.Time:
		return v
	default:
		return time.Time{}
	}
}

// ToBool always returns a bool.
func ToBool(in interface{}) bool {
	if b, ok := in.(bool); ok {
		return b
	}
	return false
}
