package dbf

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
)

// converter is a pure function pair bound to one field: decode turns the
// raw fixed-width segment into a Go value, encode turns a Go value back
// into a segment of exactly field width bytes. Both are resolved once per
// field at Reader/Writer construction time (see resolveConverter) and never
// re-dispatched on a per-record basis.
type converter struct {
	decode func(raw []byte) (interface{}, error)
	encode func(v interface{}) ([]byte, error)
}

// codecContext carries the construction-time settings the resolver needs:
// whether Unicode mode is on, and the decoder/encoder pair to use for C
// fields when it is.
type codecContext struct {
	unicodeMode bool
	decoder     *encoding.Decoder
	encoder     *encoding.Encoder
}

// resolveConverter implements the field-type registry's first-match-wins
// rules from the specification:
//
//  1. C + unicode       -> text (decoded/encoded via ctx's charset)
//  2. C + !unicode       -> text (raw bytes)
//  3. N + decimal > 0    -> fixed-point decimal
//  4. N + decimal == 0   -> integer
//  5. D                  -> date
//  6. L                  -> boolean
func resolveConverter(f FieldSpec, ctx codecContext) (converter, error) {
	width := int(f.Length)
	scale := int(f.Decimal)

	switch {
	case f.Type == 'C' && ctx.unicodeMode:
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				trimmed := decodeTextBytes(raw)
				if ctx.decoder == nil {
					return string(trimmed), nil
				}
				out, err := ctx.decoder.Bytes(trimmed)
				if err != nil {
					return nil, fmt.Errorf("decode text: %w", err)
				}
				return string(out), nil
			},
			encode: func(v interface{}) ([]byte, error) {
				s, ok := asString(v)
				if !ok {
					return nil, fmt.Errorf("expected string, got %T", v)
				}
				raw := []byte(s)
				if ctx.encoder != nil {
					enc, err := ctx.encoder.Bytes(raw)
					if err != nil {
						return nil, fmt.Errorf("encode text: %w", err)
					}
					raw = enc
				}
				return encodeTextBytes(raw, width), nil
			},
		}, nil

	case f.Type == 'C' && !ctx.unicodeMode:
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				return string(decodeTextBytes(raw)), nil
			},
			encode: func(v interface{}) ([]byte, error) {
				switch val := v.(type) {
				case []byte:
					return encodeTextBytes(val, width), nil
				case string:
					return encodeTextBytes([]byte(val), width), nil
				default:
					return nil, fmt.Errorf("expected []byte or string, got %T", v)
				}
			},
		}, nil

	case f.Type == 'N' && scale > 0:
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				return decodeDecimalField(raw, scale)
			},
			encode: func(v interface{}) ([]byte, error) {
				d, err := asDecimal(v, scale)
				if err != nil {
					return nil, err
				}
				return encodeDecimalField(d, width)
			},
		}, nil

	case f.Type == 'N' && scale == 0:
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				return decodeInteger(raw)
			},
			encode: func(v interface{}) ([]byte, error) {
				n, err := asInt64(v)
				if err != nil {
					return nil, err
				}
				return encodeInteger(n, width)
			},
		}, nil

	case f.Type == 'D':
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				return decodeDate(raw)
			},
			encode: func(v interface{}) ([]byte, error) {
				t, err := asDateOrNil(v)
				if err != nil {
					return nil, err
				}
				return encodeDate(t, width)
			},
		}, nil

	case f.Type == 'L':
		return converter{
			decode: func(raw []byte) (interface{}, error) {
				return decodeBoolean(raw), nil
			},
			encode: func(v interface{}) ([]byte, error) {
				b, err := asBool(v)
				if err != nil {
					return nil, err
				}
				return encodeBoolean(b), nil
			},
		}, nil
	}

	return converter{}, ErrUnsupportedFieldType
}

func asString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}

func asDecimal(v interface{}, scale int) (Decimal, error) {
	switch val := v.(type) {
	case Decimal:
		if val.Scale == scale {
			return val, nil
		}
		return parseDecimal(val.String(), scale)
	case float64:
		return NewDecimal(val, scale), nil
	case int64:
		return NewDecimal(float64(val), scale), nil
	case int:
		return NewDecimal(float64(val), scale), nil
	case nil:
		return Decimal{Unscaled: 0, Scale: scale}, nil
	default:
		return Decimal{}, fmt.Errorf("expected Decimal or float64, got %T", v)
	}
}

func asInt64(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asBool(v interface{}) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected bool, got %T", v)
	}
}

func asDateOrNil(v interface{}) (*time.Time, error) {
	switch val := v.(type) {
	case *time.Time:
		return val, nil
	case time.Time:
		return &val, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected *time.Time, got %T", v)
	}
}
