package dbf

import "fmt"

// Record is a single DBF row: a mapping from field name to a typed Go
// value (string, int64, Decimal, *time.Time, or bool, per §3 of the
// specification). When read with ShowDeleted, it additionally carries the
// raw deletion-flag byte under DeletionFlagKey.
type Record map[string]interface{}

// DeletionFlagKey is the reserved Record key under which the deletion flag
// is exposed when an iterator is constructed WithShowDeleted.
const DeletionFlagKey = "_deletion_flag"

// NewFieldSpec builds a FieldSpec and validates it against the per-type
// width/decimal invariants from §3, so a malformed schema is rejected at
// the point the caller builds it rather than deep inside the writer.
func NewFieldSpec(name string, typ byte, length, decimal byte) (FieldSpec, error) {
	f := FieldSpec{Name: name, Type: typ, Length: length, Decimal: decimal}
	if err := ValidateFieldSpec(f); err != nil {
		return FieldSpec{}, err
	}
	return f, nil
}

// ValidateFieldSpec checks one field descriptor against the invariants in
// §3 of the specification.
func ValidateFieldSpec(f FieldSpec) error {
	if len(f.Name) == 0 || len(f.Name) > 10 {
		return fmt.Errorf("dbf: field name %q must be 1..10 characters", f.Name)
	}
	if !isKnownFieldType(f.Type) {
		return ErrUnsupportedFieldType
	}
	if f.Length < 1 {
		return fmt.Errorf("dbf: field %q length must be >= 1", f.Name)
	}
	switch f.Type {
	case 'N':
		if f.Length >= 20 {
			return fmt.Errorf("dbf: numeric field %q width must be < 20", f.Name)
		}
		if f.Decimal > 0 && f.Decimal >= f.Length {
			return fmt.Errorf("dbf: numeric field %q decimal count must be < length", f.Name)
		}
	case 'C':
		if f.Length >= 255 {
			return fmt.Errorf("dbf: character field %q width must be < 255", f.Name)
		}
	case 'L':
		if f.Length != 1 {
			return fmt.Errorf("dbf: logical field %q width must be 1", f.Name)
		}
	case 'D':
		if f.Length != 8 {
			return fmt.Errorf("dbf: date field %q width must be 8", f.Name)
		}
	}
	return nil
}

// ValidateSchema validates every field in a schema and rejects duplicate
// names, which would make Record lookups ambiguous.
func ValidateSchema(fields []FieldSpec) error {
	if len(fields) == 0 {
		return fmt.Errorf("dbf: schema must declare at least one field")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := ValidateFieldSpec(f); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("dbf: duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
