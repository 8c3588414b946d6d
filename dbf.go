package dbf

import (
	"io"
	"os"
)

// OpenReader opens target for reading and returns a Reader. target may be
// a file path (string) or an already-open io.ReadSeeker; passing a path
// opens it read-only and arranges for Reader.Close to close the handle.
// An unrecognized target type is ErrInvalidMode.
func OpenReader(target interface{}, opts ...ReaderOption) (*Reader, error) {
	switch v := target.(type) {
	case string:
		f, err := os.Open(v)
		if err != nil {
			return nil, err
		}
		r, err := Open(f, opts...)
		if err != nil {
			f.Close()
			return nil, err
		}
		return r, nil
	case io.ReadSeeker:
		return Open(v, opts...)
	default:
		return nil, ErrInvalidMode
	}
}

// OpenWriter opens target for writing and returns a Writer. target may be
// a file path (string, created/truncated) or an already-open
// io.WriteSeeker; passing a path arranges for Writer.Close to close the
// handle. An unrecognized target type is ErrInvalidMode.
func OpenWriter(target interface{}, fields []FieldSpec, opts ...WriterOption) (*Writer, error) {
	switch v := target.(type) {
	case string:
		f, err := os.OpenFile(v, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, err
		}
		w, err := Create(f, fields, opts...)
		if err != nil {
			f.Close()
			return nil, err
		}
		return w, nil
	case io.WriteSeeker:
		return Create(v, fields, opts...)
	default:
		return nil, ErrInvalidMode
	}
}
