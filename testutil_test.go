package dbf

import (
	"errors"
	"io"
)

// seekBuffer is a minimal in-memory io.ReadWriteSeeker, the seekable
// counterpart to bytes.Buffer (which cannot seek) that both the Reader and
// Writer test suites need to exercise header-rewrite-in-place behavior
// without touching the filesystem.
type seekBuffer struct {
	data []byte
	pos  int64
}

func (b *seekBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	n := copy(b.data[b.pos:end], p)
	b.pos = end
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = b.pos + offset
	case io.SeekEnd:
		newPos = int64(len(b.data)) + offset
	default:
		return 0, errors.New("seekBuffer: invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("seekBuffer: negative position")
	}
	b.pos = newPos
	return newPos, nil
}

func (b *seekBuffer) Size() (int64, error) {
	return int64(len(b.data)), nil
}

func mustFields(t interface {
	Fatalf(format string, args ...interface{})
}, specs [][4]interface{}) []FieldSpec {
	out := make([]FieldSpec, 0, len(specs))
	for _, s := range specs {
		f, err := NewFieldSpec(s[0].(string), s[1].(byte), s[2].(byte), s[3].(byte))
		if err != nil {
			t.Fatalf("building field spec %v: %s", s, err)
		}
		out = append(out, f)
	}
	return out
}
