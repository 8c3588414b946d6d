package dbf

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"
)

// Supported file signatures: dBASE III (0x03), dBASE IV (0x04 and 0x05),
// the "flat" variants without memo or index side-files.
const (
	SigDBaseIII byte = 0x03
	SigDBaseIV  byte = 0x04
	SigDBaseIV5 byte = 0x05
)

const (
	fileHeaderSize  = 32
	fieldHeaderSize = 32
	terminatorByte  = 0x0D
	eofByte         = 0x1A
	deletedByte     = 0x2A
	liveByte        = 0x20
)

func isSupportedSignature(sig byte) bool {
	switch sig {
	case SigDBaseIII, SigDBaseIV, SigDBaseIV5:
		return true
	default:
		return false
	}
}

// FileHeader holds the parsed contents of the 32-byte DBF file header.
type FileHeader struct {
	Signature    byte
	LastModified time.Time
	NumRecords   uint32
	HeaderLength uint16
	RecordLength uint16
	LangByte     byte
}

// rawFileHeader mirrors the on-disk layout exactly, for binary.Read/Write.
type rawFileHeader struct {
	Signature    byte
	Year         uint8
	Month        uint8
	Day          uint8
	NumRecords   uint32
	HeaderLength uint16
	RecordLength uint16
	Reserved1    [17]byte
	LangByte     byte
	Reserved2    [2]byte
}

// FieldSpec describes a single column: its name, DBF type, width and decimal
// count. Invariants (checked by ValidateFieldSpec):
//
//	N width < 20; C width < 255; L width == 1; D width == 8.
//	Decimal is only meaningful for N and must be < Length.
type FieldSpec struct {
	Name    string
	Type    byte
	Length  byte
	Decimal byte
}

// rawFieldHeader mirrors the on-disk 32-byte field descriptor layout.
type rawFieldHeader struct {
	Name      [11]byte
	Type      byte
	Reserved1 [4]byte
	Length    byte
	Decimal   byte
	Reserved2 [14]byte
}

func readFileHeader(r io.Reader) (FileHeader, error) {
	var raw rawFileHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return FileHeader{}, err
	}
	if !isSupportedSignature(raw.Signature) {
		return FileHeader{}, ErrUnsupportedSignature
	}

	year := int(raw.Year) + 1900
	// Some writers store the year as a bare two-digit byte instead of an
	// offset from 1900; this tolerates both by adding another century when
	// the naive interpretation lands before 1950.
	if year < 1950 {
		year += 100
	}

	return FileHeader{
		Signature:    raw.Signature,
		LastModified: time.Date(year, time.Month(raw.Month), int(raw.Day), 0, 0, 0, 0, time.UTC),
		NumRecords:   raw.NumRecords,
		HeaderLength: raw.HeaderLength,
		RecordLength: raw.RecordLength,
		LangByte:     raw.LangByte,
	}, nil
}

func writeFileHeader(w io.Writer, h FileHeader) error {
	year := h.LastModified.Year() - 1900
	if year < 0 {
		year = 0
	}
	raw := rawFileHeader{
		Signature:    h.Signature,
		Year:         uint8(year),
		Month:        uint8(h.LastModified.Month()),
		Day:          uint8(h.LastModified.Day()),
		NumRecords:   h.NumRecords,
		HeaderLength: h.HeaderLength,
		RecordLength: h.RecordLength,
		LangByte:     h.LangByte,
	}
	return binary.Write(w, binary.LittleEndian, &raw)
}

// readFieldSpecs reads numFields 32-byte field descriptors and the
// terminator byte that must immediately follow them.
func readFieldSpecs(r io.Reader, numFields int) ([]FieldSpec, error) {
	fields := make([]FieldSpec, 0, numFields)
	for i := 0; i < numFields; i++ {
		var raw rawFieldHeader
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, err
		}
		if !isKnownFieldType(raw.Type) {
			return nil, ErrUnsupportedFieldType
		}
		nameBytes := raw.Name[:]
		if i := bytes.IndexByte(nameBytes, 0); i >= 0 {
			nameBytes = nameBytes[:i]
		}
		name := string(nameBytes)
		fields = append(fields, FieldSpec{
			Name:    name,
			Type:    raw.Type,
			Length:  raw.Length,
			Decimal: raw.Decimal,
		})
	}

	term := make([]byte, 1)
	if _, err := io.ReadFull(r, term); err != nil {
		return nil, err
	}
	if term[0] != terminatorByte {
		return nil, ErrCorruptHeader
	}
	return fields, nil
}

func writeFieldSpecs(w io.Writer, fields []FieldSpec) error {
	for _, f := range fields {
		if !isKnownFieldType(f.Type) {
			return ErrUnsupportedFieldType
		}
		raw := rawFieldHeader{
			Type:    f.Type,
			Length:  f.Length,
			Decimal: f.Decimal,
		}
		nameBytes := []byte(f.Name)
		if len(nameBytes) > len(raw.Name) {
			nameBytes = nameBytes[:len(raw.Name)]
		}
		copy(raw.Name[:], nameBytes)
		if err := binary.Write(w, binary.LittleEndian, &raw); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{terminatorByte})
	return err
}

func isKnownFieldType(t byte) bool {
	switch t {
	case 'C', 'N', 'D', 'L':
		return true
	default:
		return false
	}
}

// computeHeaderLength returns the header length for a given field count:
// 32 bytes for the file header, 32 bytes per field, plus the terminator.
func computeHeaderLength(numFields int) uint16 {
	return uint16(fileHeaderSize + fieldHeaderSize*numFields + 1)
}

// computeRecordLength returns 1 (deletion flag) plus the sum of field widths.
func computeRecordLength(fields []FieldSpec) uint16 {
	total := uint16(1)
	for _, f := range fields {
		total += uint16(f.Length)
	}
	return total
}
