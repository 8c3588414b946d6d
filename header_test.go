package dbf

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	h := FileHeader{
		Signature:    SigDBaseIII,
		LastModified: time.Date(2019, time.July, 6, 0, 0, 0, 0, time.UTC),
		NumRecords:   3,
		HeaderLength: computeHeaderLength(1),
		RecordLength: 12,
		LangByte:     0x00,
	}
	var buf bytes.Buffer
	if err := writeFileHeader(&buf, h); err != nil {
		t.Fatalf("writeFileHeader: %s", err)
	}
	if buf.Len() != fileHeaderSize {
		t.Fatalf("want %d bytes, have %d", fileHeaderSize, buf.Len())
	}
	got, err := readFileHeader(&buf)
	if err != nil {
		t.Fatalf("readFileHeader: %s", err)
	}
	if got != h {
		t.Errorf("want %+v, have %+v", h, got)
	}
}

func TestReadFileHeader_TwoDigitYearBeforeCutoffIsTwentyFirstCentury(t *testing.T) {
	// year byte 0x13 (19) -> naive 1919, below the 1950 cutoff -> 2019.
	raw := rawFileHeaderBytes(SigDBaseIII, 0x13, 7, 6, 0, computeHeaderLength(1), 12, 0x00)
	h, err := readFileHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readFileHeader: %s", err)
	}
	if h.LastModified.Year() != 2019 {
		t.Errorf("want year 2019, have %d", h.LastModified.Year())
	}
}

func TestReadFileHeader_TwoDigitYearAtOrAboveCutoffIsNineteenHundreds(t *testing.T) {
	// year byte 0x63 (99) -> naive 1999, at/above cutoff -> stays 1999.
	raw := rawFileHeaderBytes(SigDBaseIII, 0x63, 1, 1, 0, computeHeaderLength(1), 12, 0x00)
	h, err := readFileHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readFileHeader: %s", err)
	}
	if h.LastModified.Year() != 1999 {
		t.Errorf("want year 1999, have %d", h.LastModified.Year())
	}
}

func TestReadFileHeader_UnsupportedSignature(t *testing.T) {
	raw := rawFileHeaderBytes(0x99, 0x13, 7, 6, 0, computeHeaderLength(1), 12, 0x00)
	if _, err := readFileHeader(bytes.NewReader(raw)); err != ErrUnsupportedSignature {
		t.Errorf("want ErrUnsupportedSignature, have %v", err)
	}
}

func TestFieldSpecsRoundTrip(t *testing.T) {
	fields := []FieldSpec{
		{Name: "NAME", Type: 'C', Length: 10, Decimal: 0},
		{Name: "BAL", Type: 'N', Length: 8, Decimal: 2},
	}
	var buf bytes.Buffer
	if err := writeFieldSpecs(&buf, fields); err != nil {
		t.Fatalf("writeFieldSpecs: %s", err)
	}
	got, err := readFieldSpecs(&buf, len(fields))
	if err != nil {
		t.Fatalf("readFieldSpecs: %s", err)
	}
	if len(got) != len(fields) {
		t.Fatalf("want %d fields, have %d", len(fields), len(got))
	}
	for i := range fields {
		if got[i] != fields[i] {
			t.Errorf("field %d: want %+v, have %+v", i, fields[i], got[i])
		}
	}
}

func TestReadFieldSpecs_MissingTerminatorIsCorrupt(t *testing.T) {
	fields := []FieldSpec{{Name: "N", Type: 'N', Length: 3, Decimal: 0}}
	var buf bytes.Buffer
	if err := writeFieldSpecs(&buf, fields); err != nil {
		t.Fatalf("writeFieldSpecs: %s", err)
	}
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] = 0xFF
	if _, err := readFieldSpecs(bytes.NewReader(corrupted), len(fields)); err != ErrCorruptHeader {
		t.Errorf("want ErrCorruptHeader, have %v", err)
	}
}

func TestComputeHeaderLength(t *testing.T) {
	if got := computeHeaderLength(2); got != 32+32*2+1 {
		t.Errorf("want %d, have %d", 32+32*2+1, got)
	}
}

func TestComputeRecordLength(t *testing.T) {
	fields := []FieldSpec{
		{Name: "A", Type: 'C', Length: 5},
		{Name: "B", Type: 'N', Length: 4},
	}
	if got := computeRecordLength(fields); got != 1+5+4 {
		t.Errorf("want %d, have %d", 1+5+4, got)
	}
}

// rawFileHeaderBytes packs a raw 32-byte file header for tests that need to
// control the on-disk bytes directly, sidestepping writeFileHeader's own
// year normalization.
func rawFileHeaderBytes(sig, year, month, day byte, numRecords uint32, headerLength, recordLength uint16, lang byte) []byte {
	raw := rawFileHeader{
		Signature:    sig,
		Year:         year,
		Month:        month,
		Day:          day,
		NumRecords:   numRecords,
		HeaderLength: headerLength,
		RecordLength: recordLength,
		LangByte:     lang,
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, &raw)
	return buf.Bytes()
}
