package dbf

import "testing"

func TestLanguageTableSymmetry(t *testing.T) {
	for langByte, entry := range languageTable {
		gotByte, ok := langByteForEncoding(entry.Name)
		if !ok {
			t.Errorf("langByteForEncoding(%q): not found", entry.Name)
			continue
		}
		if gotByte != langByte {
			t.Errorf("langByteForEncoding(%q): want %#x, have %#x", entry.Name, langByte, gotByte)
		}
		gotName, ok := encodingForLangByte(langByte)
		if !ok || gotName != entry.Name {
			t.Errorf("encodingForLangByte(%#x): want %q, have %q (ok=%v)", langByte, entry.Name, gotName, ok)
		}
	}
}

func TestEncodingForLangByte_Unknown(t *testing.T) {
	if _, ok := encodingForLangByte(0xFE); ok {
		t.Error("want ok=false for unrecognized language byte")
	}
}

func TestLangByteForEncoding_Unknown(t *testing.T) {
	if _, ok := langByteForEncoding("bogus"); ok {
		t.Error("want ok=false for unrecognized encoding name")
	}
}

func TestTextCodec_ASCIIDecodeIsPassthroughEncodeRejectsHighBytes(t *testing.T) {
	dec, enc, ok := textCodec("ascii")
	if !ok {
		t.Fatal("want ok=true for ascii")
	}
	if dec != nil {
		t.Error("want nil decoder for ascii (decode raw bytes unchanged)")
	}
	if enc == nil {
		t.Fatal("want non-nil encoder for ascii (rejects non-ASCII bytes)")
	}
	if _, err := enc.Bytes([]byte("hello")); err != nil {
		t.Errorf("encode of plain ASCII: %s", err)
	}
	if _, err := enc.Bytes([]byte("café")); err == nil {
		t.Error("want error encoding non-ASCII bytes as ascii")
	}
}

func TestTextCodec_CP1252RoundTrips(t *testing.T) {
	dec, enc, ok := textCodec("cp1252")
	if !ok {
		t.Fatal("want ok=true for cp1252")
	}
	if dec == nil || enc == nil {
		t.Fatal("want non-nil decoder/encoder for cp1252")
	}
	encoded, err := enc.Bytes([]byte("café"))
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	decoded, err := dec.Bytes(encoded)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if string(decoded) != "café" {
		t.Errorf("want café, have %s", decoded)
	}
}

func TestTextCodec_Unknown(t *testing.T) {
	if _, _, ok := textCodec("bogus"); ok {
		t.Error("want ok=false for unrecognized encoding name")
	}
}
