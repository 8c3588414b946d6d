// Command xdbfdump prints the contents of one or more DBF tables to a
// table, CSV, or header-only view. It is a thin presentation layer over
// package dbf: every value it prints came out of a dbf.Reader.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	dbf "github.com/mjanssen-oss/xdbf"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("xdbfdump: ")

	sep := flag.String("sep", "\n", "record separator (table mode)")
	fieldSep := flag.String("fieldsep", "\t", "field separator (table mode)")
	fieldsFlag := flag.String("fields", "", "comma-separated field subset (default: all)")
	null := flag.String("null", "", "placeholder printed for absent values")
	out := flag.String("out", "", "output path (default: stdout)")
	csvMode := flag.Bool("csv", false, "emit CSV instead of a table")
	infoMode := flag.Bool("info", false, "print header/schema only, no records")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: xdbfdump [flags] file.dbf [file.dbf ...]")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	var fields []string
	if *fieldsFlag != "" {
		fields = strings.Split(*fieldsFlag, ",")
	}

	opts := dumpOptions{
		sep:      *sep,
		fieldSep: *fieldSep,
		fields:   fields,
		null:     *null,
		csv:      *csvMode,
		info:     *infoMode,
	}

	for _, path := range paths {
		if err := dumpFile(w, path, opts); err != nil {
			log.Fatalf("%s: %s", path, err)
		}
	}
}

type dumpOptions struct {
	sep, fieldSep string
	fields        []string
	null          string
	csv, info     bool
}

func dumpFile(w io.Writer, path string, opts dumpOptions) error {
	r, err := dbf.OpenReader(path, dbf.WithUnicodeAuto())
	if err != nil {
		r, err = dbf.OpenReader(path)
		if err != nil {
			return err
		}
	}
	defer r.Close()

	names := opts.fields
	if len(names) == 0 {
		names = r.FieldNames()
	}

	if opts.info {
		return dumpInfo(w, r, names)
	}
	if opts.csv {
		return dumpCSV(w, r, names, opts)
	}
	return dumpTable(w, r, names, opts)
}

func dumpInfo(w io.Writer, r *dbf.Reader, names []string) error {
	h := r.Header()
	fmt.Fprintf(w, "signature: %#02x\n", h.Signature)
	fmt.Fprintf(w, "last modified: %s\n", h.LastModified.Format("2006-01-02"))
	fmt.Fprintf(w, "records: %d\n", h.NumRecords)
	fmt.Fprintf(w, "header length: %d\n", h.HeaderLength)
	fmt.Fprintf(w, "record length: %d\n", h.RecordLength)
	fmt.Fprintf(w, "language byte: %#02x\n", h.LangByte)
	fmt.Fprintln(w, "fields:")
	for _, f := range r.Fields() {
		fmt.Fprintf(w, "  %-10s %c %3d %d\n", f.Name, f.Type, f.Length, f.Decimal)
	}
	return nil
}

func dumpCSV(w io.Writer, r *dbf.Reader, names []string, opts dumpOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}
	it := r.Records()
	for it.Next() {
		rec := it.Record()
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = formatValue(rec[name], opts.null)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func dumpTable(w io.Writer, r *dbf.Reader, names []string, opts dumpOptions) error {
	if _, err := io.WriteString(w, strings.Join(names, opts.fieldSep)+opts.sep); err != nil {
		return err
	}
	it := r.Records()
	for it.Next() {
		rec := it.Record()
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = formatValue(rec[name], opts.null)
		}
		if _, err := io.WriteString(w, strings.Join(row, opts.fieldSep)+opts.sep); err != nil {
			return err
		}
	}
	return it.Err()
}

func formatValue(v interface{}, null string) string {
	switch val := v.(type) {
	case nil:
		return null
	case string:
		return val
	case int64:
		return fmt.Sprintf("%d", val)
	case dbf.Decimal:
		return val.String()
	case bool:
		if val {
			return "T"
		}
		return "F"
	case *time.Time:
		if val == nil {
			return null
		}
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}
