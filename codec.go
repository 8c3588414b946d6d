package dbf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// This file holds the per-field byte codec primitives: the pure functions
// that turn a fixed-width, space-padded on-disk segment into a native Go
// value and back. None of them know about record offsets, file headers or
// iteration; registry.go binds them to field types.

const dbfDateLayout = "20060102"

// decodeDate parses an 8-byte YYYYMMDD segment. A non-digit, empty, or
// wrong-length value (after trimming surrounding whitespace) decodes to a
// nil time, representing "absent" rather than erroring: malformed date
// fields are common enough in the wild that treating them as absent rather
// than fatal matches the source ecosystem's behavior.
func decodeDate(raw []byte) (*time.Time, error) {
	s := strings.TrimSpace(string(raw))
	if len(s) != 8 || !isAllDigits(s) {
		return nil, nil
	}
	t, err := time.Parse(dbfDateLayout, s)
	if err != nil {
		return nil, nil
	}
	return &t, nil
}

// encodeDate renders a date as YYYYMMDD, or 8 spaces when absent.
func encodeDate(t *time.Time, width int) ([]byte, error) {
	if t == nil {
		return padRight([]byte{}, width, ' '), nil
	}
	return []byte(t.Format(dbfDateLayout)), nil
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// decodeInteger parses a right-justified, space-padded signed integer. It
// also strips leading and trailing NUL bytes, tolerating the NUL-padded
// numeric fields some OpenOffice-derived writers produce instead of the
// space padding the format calls for. An empty or all-space field is 0.
func decodeInteger(raw []byte) (int64, error) {
	s := cleanNumeric(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

// encodeInteger right-justifies the decimal representation to width.
func encodeInteger(v int64, width int) ([]byte, error) {
	s := strconv.FormatInt(v, 10)
	if len(s) > width {
		return nil, fmt.Errorf("integer %d does not fit in width %d", v, width)
	}
	return padLeft([]byte(s), width, ' '), nil
}

// decodeDecimalField parses a right-justified decimal literal, quantizing
// to exactly scale fractional digits. An empty field is 0.
func decodeDecimalField(raw []byte, scale int) (Decimal, error) {
	s := cleanNumeric(raw)
	d, err := parseDecimal(s, scale)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// encodeDecimalField right-justifies a decimal literal with exactly
// d.Scale fractional digits to width.
func encodeDecimalField(d Decimal, width int) ([]byte, error) {
	s := d.String()
	if len(s) > width {
		return nil, fmt.Errorf("decimal %s does not fit in width %d", s, width)
	}
	return padLeft([]byte(s), width, ' '), nil
}

// decodeBoolean trims the field and tests membership in the truthy/falsy
// sets; anything else (including "?", the dBASE "unset" marker) is false.
func decodeBoolean(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	if len(s) == 0 {
		return false
	}
	switch s[0] {
	case 'Y', 'y', 'T', 't':
		return true
	default:
		return false
	}
}

// encodeBoolean emits the single byte 'T' or 'F'.
func encodeBoolean(v bool) []byte {
	if v {
		return []byte{'T'}
	}
	return []byte{'F'}
}

// decodeTextBytes strips trailing spaces and NULs, returning the raw bytes
// unchanged otherwise (byte mode: no charset conversion).
func decodeTextBytes(raw []byte) []byte {
	return trimTrailingSpacesAndNuls(raw)
}

// encodeTextBytes truncates to width, left-justifies and space-pads.
func encodeTextBytes(v []byte, width int) []byte {
	if len(v) > width {
		v = v[:width]
	}
	return padRight(v, width, ' ')
}

func cleanNumeric(raw []byte) string {
	trimmed := trimTrailingSpacesAndNuls(raw)
	return strings.TrimSpace(strings.TrimLeft(string(trimmed), " \x00"))
}

func trimTrailingSpacesAndNuls(raw []byte) []byte {
	end := len(raw)
	for end > 0 && (raw[end-1] == ' ' || raw[end-1] == 0) {
		end--
	}
	return raw[:end]
}

func padLeft(b []byte, width int, pad byte) []byte {
	if len(b) >= width {
		return b
	}
	out := make([]byte, width)
	n := width - len(b)
	for i := 0; i < n; i++ {
		out[i] = pad
	}
	copy(out[n:], b)
	return out
}

func padRight(b []byte, width int, pad byte) []byte {
	if len(b) >= width {
		return b[:width]
	}
	out := make([]byte, width)
	copy(out, b)
	for i := len(b); i < width; i++ {
		out[i] = pad
	}
	return out
}
