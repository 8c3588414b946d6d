package dbf

import "fmt"

// Validate applies the strict-validation overlay from §4.6: a set of extra
// logical invariants layered over a parsed header, implemented as
// composition rather than inheritance so the base Reader stays usable on
// files that fail these checks. totalBytes is the source's total byte
// length, or a negative number if unknown (the file-size cross-check is
// then skipped).
func Validate(h FileHeader, fields []FieldSpec, totalBytes int64) error {
	if h.RecordLength <= 1 {
		return &ConsistencyError{Msg: "record length must be > 1"}
	}
	if (h.Signature == SigDBaseIII || h.Signature == SigDBaseIV) && h.RecordLength >= 4000 {
		return &ConsistencyError{Msg: "record length must be < 4000 for dBASE III and IV"}
	}
	if h.RecordLength >= 32*1024 {
		return &ConsistencyError{Msg: "record length must be < 32KB"}
	}

	if len(fields) == 0 {
		return &ConsistencyError{Msg: "table must declare at least one field"}
	}
	if h.Signature == SigDBaseIII && len(fields) >= 128 {
		return &ConsistencyError{Msg: "dBASE III tables must have < 128 fields"}
	}
	if h.Signature == SigDBaseIV && len(fields) >= 256 {
		return &ConsistencyError{Msg: "dBASE IV tables must have < 256 fields"}
	}

	for _, f := range fields {
		if err := ValidateFieldSpec(f); err != nil {
			return &ConsistencyError{Msg: err.Error()}
		}
	}

	if totalBytes >= 0 {
		expected := int64(h.HeaderLength) + 1 + int64(h.NumRecords)*int64(h.RecordLength)
		if totalBytes != expected {
			return &CorruptFileError{Expected: expected, Actual: totalBytes}
		}
	}

	return nil
}

// mustValidate turns a Validate failure into a single formatted error that
// wraps the original one.
func mustValidate(h FileHeader, fields []FieldSpec, totalBytes int64) error {
	if err := Validate(h, fields, totalBytes); err != nil {
		return fmt.Errorf("dbf: strict validation failed: %w", err)
	}
	return nil
}
