package dbf

import (
	"fmt"
	"io"
	"time"
)

// writerState is the Open -> Writing -> Closed state machine from §4.5.
type writerState int

const (
	writerOpen writerState = iota
	writerWriting
	writerClosed
)

// Writer appends DBF records to a sink, keeping the header's record count
// current as it goes. Construction writes a provisional header immediately
// so the file is valid even if no records ever follow.
type Writer struct {
	sink io.WriteSeeker

	fields       []FieldSpec
	unicodeMode  bool
	encodingName string
	langByte     byte
	sig          byte

	converters map[string]converter

	header     FileHeader
	numRecords uint32
	state      writerState
}

// WriterOption configures Create.
type WriterOption func(*writerConfig)

type writerConfig struct {
	unicodeMode  bool
	encodingName string
	signature    byte
	modified     time.Time
}

// WithWriterUnicode turns on Unicode mode (the default) with the given
// encoding name, used both to encode C fields and to pick the header's
// language byte.
func WithWriterUnicode(encodingName string) WriterOption {
	return func(c *writerConfig) {
		c.unicodeMode = true
		c.encodingName = encodingName
	}
}

// WithWriterBytes turns Unicode mode off: C fields are written as raw
// bytes, unconverted.
func WithWriterBytes() WriterOption {
	return func(c *writerConfig) {
		c.unicodeMode = false
	}
}

// WithSignature overrides the default dBASE III signature (0x03).
func WithSignature(sig byte) WriterOption {
	return func(c *writerConfig) {
		c.signature = sig
	}
}

// WithLastModified overrides the header's last-modified date (default:
// the date Create is called).
func WithLastModified(t time.Time) WriterOption {
	return func(c *writerConfig) {
		c.modified = t
	}
}

// Create validates fields, writes a provisional header to sink and returns
// a Writer ready to accept records. By default Unicode mode is on with
// encoding "ascii" (language byte 0x00), matching the convention that a
// DBF writer defaults to the most portable encoding unless told otherwise.
func Create(sink io.WriteSeeker, fields []FieldSpec, opts ...WriterOption) (*Writer, error) {
	if err := ValidateSchema(fields); err != nil {
		return nil, err
	}

	cfg := writerConfig{
		unicodeMode:  true,
		encodingName: "ascii",
		signature:    SigDBaseIII,
		modified:     time.Now(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &Writer{
		sink:         sink,
		fields:       fields,
		unicodeMode:  cfg.unicodeMode,
		encodingName: cfg.encodingName,
		sig:          cfg.signature,
	}

	if w.unicodeMode {
		langByte, ok := langByteForEncoding(w.encodingName)
		if !ok {
			return nil, ErrUnsupportedEncoding
		}
		w.langByte = langByte
	}

	if err := w.buildConverters(); err != nil {
		return nil, err
	}

	w.header = FileHeader{
		Signature:    w.sig,
		LastModified: cfg.modified,
		NumRecords:   0,
		HeaderLength: computeHeaderLength(len(fields)),
		RecordLength: computeRecordLength(fields),
		LangByte:     w.langByte,
	}

	if err := requireSeekable(sink); err != nil {
		return nil, err
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}

	w.state = writerOpen
	return w, nil
}

func requireSeekable(sink io.WriteSeeker) error {
	if _, err := sink.Seek(0, io.SeekCurrent); err != nil {
		return ErrNotSeekable
	}
	return nil
}

func (w *Writer) buildConverters() error {
	var ctx codecContext
	ctx.unicodeMode = w.unicodeMode
	if w.unicodeMode {
		dec, enc, ok := textCodec(w.encodingName)
		if !ok {
			return ErrUnsupportedEncoding
		}
		ctx.decoder = dec
		ctx.encoder = enc
	}

	w.converters = make(map[string]converter, len(w.fields))
	for _, f := range w.fields {
		conv, err := resolveConverter(f, ctx)
		if err != nil {
			return err
		}
		w.converters[f.Name] = conv
	}
	return nil
}

// writeHeader seeks to offset 0, (re)writes the file header and field
// descriptors, and restores the previous write position, so it can be
// called mid-stream without disturbing already-written records.
func (w *Writer) writeHeader() error {
	pos, err := w.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := w.sink.Seek(0, io.SeekStart); err != nil {
		return err
	}

	w.header.NumRecords = w.numRecords
	if err := writeFileHeader(w.sink, w.header); err != nil {
		return err
	}
	if err := writeFieldSpecs(w.sink, w.fields); err != nil {
		return err
	}

	if pos > 0 {
		if _, err := w.sink.Seek(pos, io.SeekStart); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord encodes and appends a single record. Every 1000 records the
// header is rewritten in place to keep NumRecords current; on encode
// failure the already-written records are flushed to a consistent state
// before *RecordEncodeError is returned.
func (w *Writer) WriteRecord(rec Record) error {
	if w.state == writerClosed {
		return ErrWriterClosed
	}

	raw := make([]byte, 0, w.header.RecordLength)
	raw = append(raw, liveByte)

	idx := w.numRecords
	for _, f := range w.fields {
		val, ok := rec[f.Name]
		if !ok {
			val = nil
		}
		conv := w.converters[f.Name]
		segment, err := conv.encode(val)
		if err != nil {
			_ = w.Flush()
			return &RecordEncodeError{
				RecordIndex: idx,
				FieldName:   f.Name,
				Err:         &FieldConvertError{RecordIndex: idx, FieldName: f.Name, Err: err},
			}
		}
		if len(segment) != int(f.Length) {
			_ = w.Flush()
			return &RecordEncodeError{
				RecordIndex: idx,
				FieldName:   f.Name,
				Err:         fmt.Errorf("encoded segment is %d bytes, want %d", len(segment), f.Length),
			}
		}
		raw = append(raw, segment...)
	}

	if _, err := w.sink.Write(raw); err != nil {
		return err
	}
	w.numRecords++
	w.state = writerWriting

	if w.numRecords%1000 == 0 {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every record in records via WriteRecord, stopping at the
// first error.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// Write consumes a channel of records, writing each via WriteRecord until
// the channel closes or an error occurs.
func (w *Writer) Write(records <-chan Record) error {
	for rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush rewrites the header with the current record count and flushes the
// sink, if it supports flushing.
func (w *Writer) Flush() error {
	if w.state == writerClosed {
		return ErrWriterClosed
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	if f, ok := w.sink.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// Close rewrites the header one final time, appends the 0x1A EOF marker,
// flushes, and closes the sink if it implements io.Closer. After Close,
// every Writer method returns ErrWriterClosed.
func (w *Writer) Close() error {
	if w.state == writerClosed {
		return ErrWriterClosed
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	if _, err := w.sink.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	if _, err := w.sink.Write([]byte{eofByte}); err != nil {
		return err
	}
	if f, ok := w.sink.(interface{ Sync() error }); ok {
		if err := f.Sync(); err != nil {
			return err
		}
	}
	w.state = writerClosed
	if c, ok := w.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
