package dbf

// This file holds named convenience wrappers around WithUnicode for every
// code page in the language-byte table, and around WithWriterUnicode for
// cp1251, cp866 and cp1252 only, so callers who know their encoding up
// front don't have to spell out the string name.

// WithCP437 turns on Unicode mode using DOS USA (cp437).
func WithCP437() ReaderOption { return WithUnicode("cp437") }

// WithCP850 turns on Unicode mode using DOS Multilingual (cp850).
func WithCP850() ReaderOption { return WithUnicode("cp850") }

// WithCP1252 turns on Unicode mode using Windows ANSI (cp1252).
func WithCP1252() ReaderOption { return WithUnicode("cp1252") }

// WithCP852 turns on Unicode mode using EE MS-DOS (cp852).
func WithCP852() ReaderOption { return WithUnicode("cp852") }

// WithCP866 turns on Unicode mode using Russian MS-DOS (cp866).
func WithCP866() ReaderOption { return WithUnicode("cp866") }

// WithCP1250 turns on Unicode mode using Windows EE (cp1250).
func WithCP1250() ReaderOption { return WithUnicode("cp1250") }

// WithCP1251 turns on Unicode mode using Russian Windows (cp1251).
func WithCP1251() ReaderOption { return WithUnicode("cp1251") }

// WithCP1254 turns on Unicode mode using Turkish Windows (cp1254).
func WithCP1254() ReaderOption { return WithUnicode("cp1254") }

// WithCP1253 turns on Unicode mode using Greek Windows (cp1253).
func WithCP1253() ReaderOption { return WithUnicode("cp1253") }

// WithASCII turns on Unicode mode using plain ASCII (no transform).
func WithASCII() ReaderOption { return WithUnicode("ascii") }

// WithWriterCP1251 sets the writer's encoding to Russian Windows (cp1251).
func WithWriterCP1251() WriterOption { return WithWriterUnicode("cp1251") }

// WithWriterCP866 sets the writer's encoding to Russian MS-DOS (cp866).
func WithWriterCP866() WriterOption { return WithWriterUnicode("cp866") }

// WithWriterCP1252 sets the writer's encoding to Windows ANSI (cp1252).
func WithWriterCP1252() WriterOption { return WithWriterUnicode("cp1252") }
