// Package dbf provides a streaming reader and writer for the dBASE
// III/IV "flat" DBF table format (signatures 0x03, 0x04 and 0x05): no
// memo or index side-files.
package dbf

import (
	"io"
	"sync"
)

// Reader streams records out of a DBF table. It owns its source for its
// lifetime; the header and field schema are parsed once at construction
// and are immutable afterward.
type Reader struct {
	source io.ReadSeeker

	header FileHeader
	fields []FieldSpec

	unicodeMode  bool
	encodingName string

	converters map[string]converter

	mu sync.Mutex
}

// ReaderOption configures Open.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	unicodeMode   bool
	explicitEnc   string
	useHeaderLang bool
	strict        bool
}

// WithUnicode turns on Unicode mode using an explicit encoding name (one of
// the names in the language-byte table, e.g. "cp1251").
func WithUnicode(encodingName string) ReaderOption {
	return func(c *readerConfig) {
		c.unicodeMode = true
		c.explicitEnc = encodingName
	}
}

// WithUnicodeAuto turns on Unicode mode, resolving the encoding from the
// header's language byte.
func WithUnicodeAuto() ReaderOption {
	return func(c *readerConfig) {
		c.unicodeMode = true
		c.useHeaderLang = true
	}
}

// WithStrict applies the strict-validation overlay during Open.
func WithStrict() ReaderOption {
	return func(c *readerConfig) {
		c.strict = true
	}
}

// Open parses a DBF header and field descriptors from source and returns a
// Reader ready to stream records. The returned error is one of
// ErrUnsupportedSignature, ErrCorruptHeader, ErrUnsupportedFieldType,
// ErrUnresolvableEncoding, or a *ConsistencyError/*CorruptFileError when
// WithStrict is set.
func Open(source io.ReadSeeker, opts ...ReaderOption) (*Reader, error) {
	var cfg readerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	header, err := readFileHeader(source)
	if err != nil {
		return nil, err
	}

	if header.HeaderLength < fileHeaderSize+1 {
		return nil, ErrCorruptHeader
	}
	numFields := (int(header.HeaderLength) - 33) / 32
	fields, err := readFieldSpecs(source, numFields)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		source: source,
		header: header,
		fields: fields,
	}

	if cfg.unicodeMode {
		r.unicodeMode = true
		switch {
		case cfg.explicitEnc != "":
			r.encodingName = cfg.explicitEnc
		case cfg.useHeaderLang:
			name, ok := encodingForLangByte(header.LangByte)
			if !ok {
				return nil, ErrUnresolvableEncoding
			}
			r.encodingName = name
		default:
			return nil, ErrUnresolvableEncoding
		}
	}

	if err := r.buildConverters(); err != nil {
		return nil, err
	}

	if cfg.strict {
		totalBytes := sourceSize(source)
		if err := Validate(header, fields, totalBytes); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Reader) buildConverters() error {
	var ctx codecContext
	ctx.unicodeMode = r.unicodeMode
	if r.unicodeMode {
		dec, enc, ok := textCodec(r.encodingName)
		if !ok {
			return ErrUnresolvableEncoding
		}
		ctx.decoder = dec
		ctx.encoder = enc
	}

	r.converters = make(map[string]converter, len(r.fields))
	for _, f := range r.fields {
		conv, err := resolveConverter(f, ctx)
		if err != nil {
			return err
		}
		r.converters[f.Name] = conv
	}
	return nil
}

// sizer is implemented by sources that can report their total length
// directly as Size() (int64, error). Sources that don't implement it fall
// back to a seek-to-end probe in sourceSize.
type sizer interface {
	Size() (int64, error)
}

// sourceSize returns the total byte length of source if it can be
// determined, else -1 meaning "unknown; skip the strict-mode size
// cross-check."
func sourceSize(source io.ReadSeeker) int64 {
	if s, ok := source.(sizer); ok {
		if n, err := s.Size(); err == nil {
			return n
		}
	}
	cur, err := source.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	end, err := source.Seek(0, io.SeekEnd)
	if err != nil {
		return -1
	}
	if _, err := source.Seek(cur, io.SeekStart); err != nil {
		return -1
	}
	return end
}

// Header returns the parsed file header.
func (r *Reader) Header() FileHeader {
	return r.header
}

// Fields returns the field schema, in on-disk order.
func (r *Reader) Fields() []FieldSpec {
	out := make([]FieldSpec, len(r.fields))
	copy(out, r.fields)
	return out
}

// FieldNames returns the names of every field, in on-disk order.
func (r *Reader) FieldNames() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// FieldPos returns the zero-based position of name, or -1 if not found.
func (r *Reader) FieldPos(name string) int {
	for i, f := range r.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of live+deleted records declared in the header.
func (r *Reader) Len() uint32 {
	return r.header.NumRecords
}

// IterOption configures Records.
type IterOption func(*iterConfig)

type iterConfig struct {
	startFrom   uint32
	limit       uint32
	hasLimit    bool
	showDeleted bool
}

// WithStartFrom begins iteration at the given zero-based record index.
func WithStartFrom(n uint32) IterOption {
	return func(c *iterConfig) { c.startFrom = n }
}

// WithLimit bounds the number of records examined, not necessarily
// yielded: a skipped deleted record still counts against the limit.
func WithLimit(n uint32) IterOption {
	return func(c *iterConfig) {
		c.limit = n
		c.hasLimit = true
	}
}

// WithShowDeleted includes deleted records in the iteration; every record
// then carries its raw deletion-flag byte under DeletionFlagKey.
func WithShowDeleted() IterOption {
	return func(c *iterConfig) { c.showDeleted = true }
}

// RecordIter is a finite, restartable, lazy iterator over a Reader's
// records. Call Records again for a fresh iterator; RecordIter does not
// support rewinding itself.
type RecordIter struct {
	r           *Reader
	cur         uint32
	stopAt      uint32
	showDeleted bool
	rec         Record
	err         error
	done        bool
}

// Records returns a fresh iterator honoring the given options. Each call
// seeks the Reader's source to the requested start position; concurrent
// iterators over the same Reader are not supported (see §5 of the
// specification) because they share one seek cursor.
func (r *Reader) Records(opts ...IterOption) *RecordIter {
	cfg := iterConfig{startFrom: 0}
	for _, opt := range opts {
		opt(&cfg)
	}
	stopAt := r.header.NumRecords
	if cfg.hasLimit {
		stopAt = cfg.startFrom + cfg.limit
		if stopAt > r.header.NumRecords {
			stopAt = r.header.NumRecords
		}
	}

	it := &RecordIter{
		r:           r,
		cur:         cfg.startFrom,
		stopAt:      stopAt,
		showDeleted: cfg.showDeleted,
	}

	offset := int64(r.header.HeaderLength) + int64(r.header.RecordLength)*int64(cfg.startFrom)
	r.mu.Lock()
	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		it.err = err
		it.done = true
	}
	r.mu.Unlock()

	return it
}

// Next advances the iterator, skipping deleted records unless the iterator
// was built WithShowDeleted. It returns false at the end of the bound or
// on error; call Err to distinguish the two.
func (it *RecordIter) Next() bool {
	if it.done {
		return false
	}
	r := it.r
	r.mu.Lock()
	defer r.mu.Unlock()

	for it.cur < it.stopAt {
		idx := it.cur
		it.cur++

		buf := make([]byte, r.header.RecordLength)
		if _, err := io.ReadFull(r.source, buf); err != nil {
			it.err = err
			it.done = true
			return false
		}

		// Any byte other than liveByte counts as deleted, matching real-world
		// writers that use 0x2A but also tolerate other garbage in the flag
		// position; only an exact space means "live".
		deleted := buf[0] != liveByte
		if deleted && !it.showDeleted {
			continue
		}

		rec, err := r.decodeRecord(idx, buf)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		if it.showDeleted {
			rec[DeletionFlagKey] = buf[0]
		}
		it.rec = rec
		return true
	}
	it.done = true
	return false
}

// Record returns the record produced by the most recent successful Next.
func (it *RecordIter) Record() Record {
	return it.rec
}

// Err returns the error that stopped iteration, if any.
func (it *RecordIter) Err() error {
	return it.err
}

// All drains the iterator into a slice, for small tables.
func (it *RecordIter) All() ([]Record, error) {
	var out []Record
	for it.Next() {
		out = append(out, it.Record())
	}
	return out, it.Err()
}

func (r *Reader) decodeRecord(idx uint32, buf []byte) (Record, error) {
	rec := make(Record, len(r.fields))
	offset := 1
	for _, f := range r.fields {
		width := int(f.Length)
		raw := buf[offset : offset+width]
		offset += width

		conv := r.converters[f.Name]
		val, err := conv.decode(raw)
		if err != nil {
			return nil, &FieldConvertError{RecordIndex: idx, FieldName: f.Name, Err: err}
		}
		rec[f.Name] = val
	}
	return rec, nil
}

// RecordAt reads a single record by zero-based index, independent of any
// iterator's cursor. Deleted records are returned like any other; check
// DeletedAt first if that distinction matters.
func (r *Reader) RecordAt(idx uint32) (Record, error) {
	if idx >= r.header.NumRecords {
		return nil, io.EOF
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	offset := int64(r.header.HeaderLength) + int64(r.header.RecordLength)*int64(idx)
	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, r.header.RecordLength)
	if _, err := io.ReadFull(r.source, buf); err != nil {
		return nil, err
	}
	return r.decodeRecord(idx, buf)
}

// DeletedAt reports whether the record at idx is marked deleted, without
// decoding the rest of the record. As during iteration, any flag byte
// other than a space counts as deleted.
func (r *Reader) DeletedAt(idx uint32) (bool, error) {
	if idx >= r.header.NumRecords {
		return false, io.EOF
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	offset := int64(r.header.HeaderLength) + int64(r.header.RecordLength)*int64(idx)
	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		return false, err
	}
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r.source, buf); err != nil {
		return false, err
	}
	return buf[0] != liveByte, nil
}

// Close closes the underlying source if it implements io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
