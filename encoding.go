package dbf

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// encodingEntry pairs a canonical encoding name with a human description,
// matching the layout of the language-byte table in the DBF specification.
type encodingEntry struct {
	Name        string
	Description string
	Charmap     *charmap.Charmap // nil for plain ASCII, which needs no transform
}

// languageTable maps the header's language byte to its encoding. Built once
// at package init and never mutated, so it is safe to share read-only.
var languageTable = map[byte]encodingEntry{
	0x00: {Name: "ascii", Description: "ASCII / no translation"},
	0x01: {Name: "cp437", Description: "DOS USA", Charmap: charmap.CodePage437},
	0x02: {Name: "cp850", Description: "DOS Multilingual", Charmap: charmap.CodePage850},
	0x03: {Name: "cp1252", Description: "Windows ANSI", Charmap: charmap.Windows1252},
	0x64: {Name: "cp852", Description: "EE MS-DOS", Charmap: charmap.CodePage852},
	0x65: {Name: "cp866", Description: "Russian MS-DOS", Charmap: charmap.CodePage866},
	0xC8: {Name: "cp1250", Description: "Windows EE", Charmap: charmap.Windows1250},
	0xC9: {Name: "cp1251", Description: "Russian Windows", Charmap: charmap.Windows1251},
	0xCA: {Name: "cp1254", Description: "Turkish Windows", Charmap: charmap.Windows1254},
	0xCB: {Name: "cp1253", Description: "Greek Windows", Charmap: charmap.Windows1253},
}

// reverseLanguageTable is derived from languageTable so the two can never
// drift out of sync; it forms the involution required by the Encoding
// symmetry testable property.
var reverseLanguageTable = buildReverseLanguageTable()

func buildReverseLanguageTable() map[string]byte {
	rev := make(map[string]byte, len(languageTable))
	for code, entry := range languageTable {
		rev[entry.Name] = code
	}
	return rev
}

// encodingForLangByte resolves a header language byte to its canonical
// encoding name. The bool is false for an unrecognized byte.
func encodingForLangByte(b byte) (string, bool) {
	entry, ok := languageTable[b]
	if !ok {
		return "", false
	}
	return entry.Name, true
}

// langByteForEncoding resolves an encoding name to its header language
// byte. The bool is false for an unrecognized name.
func langByteForEncoding(name string) (byte, bool) {
	b, ok := reverseLanguageTable[name]
	return b, ok
}

// textCodec returns the decoder/encoder pair for a resolved encoding name.
// The ascii entry (nil *charmap.Charmap) has no decoder — any byte decodes
// unchanged — but its encoder rejects bytes outside the 7-bit range, so
// writing non-ASCII text into an ascii-declared table fails instead of
// silently passing the bytes through.
func textCodec(name string) (*encoding.Decoder, *encoding.Encoder, bool) {
	b, ok := langByteForEncoding(name)
	if !ok {
		return nil, nil, false
	}
	entry := languageTable[b]
	if entry.Charmap == nil {
		return nil, &encoding.Encoder{Transformer: asciiEncoder{}}, true
	}
	return entry.Charmap.NewDecoder(), entry.Charmap.NewEncoder(), true
}

// asciiEncoder is a transform.Transformer that copies bytes unchanged but
// errors on the first byte with the high bit set, rather than letting it
// through as the charmap encoders do for their own code page.
type asciiEncoder struct{ transform.NopResetter }

func (asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		if b >= 0x80 {
			return nDst, nSrc, fmt.Errorf("byte %#x at position %d is not ASCII", b, nSrc)
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
