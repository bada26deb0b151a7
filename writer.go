package csvtidy

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const byteOrderMark = "\uFEFF"

var (
	errNilWriter      = errors.New("csvtidy: writer is nil")
	errWriterNoTarget = errors.New("csvtidy: writer destination cannot be nil")
)

// Writer emits CSV records using minimal quoting: a field is quoted only when it
// contains the delimiter, the quote character, or a line break.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool

	err     error
	written bool
}

// NewWriter creates a new buffered Writer. It panics if w is nil.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
		Quote: '"',
	}
}

// Write emits a single CSV record terminated with the configured newline sequence.
// A record made of one empty field is written as a quoted empty string so it reads
// back as a record rather than a blank line; a record with no fields is a blank line.
// The first field of the output is quoted when it starts with U+FEFF so readers do
// not strip it as a byte-order mark.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	comma, quote := w.delimiters()

	if len(record) == 1 && record[0] == "" {
		w.setErr(w.writeQuoted("", quote))
	} else {
		for i, field := range record {
			if i > 0 {
				w.setErr(w.dst.WriteByte(comma))
			}
			leadingBOM := i == 0 && !w.written && strings.HasPrefix(field, byteOrderMark)
			if leadingBOM || FieldRequiresQuotes(field, comma, quote) {
				w.setErr(w.writeQuoted(field, quote))
			} else {
				_, err := w.dst.WriteString(field)
				w.setErr(err)
			}
		}
	}

	if w.UseCRLF {
		_, err := w.dst.WriteString("\r\n")
		w.setErr(err)
	} else {
		w.setErr(w.dst.WriteByte('\n'))
	}
	w.written = true
	return w.err
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	w.setErr(w.dst.Flush())
	return w.err
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) delimiters() (comma, quote byte) {
	comma, quote = w.Comma, w.Quote
	if comma == 0 {
		comma = ','
	}
	if quote == 0 {
		quote = '"'
	}
	return comma, quote
}

// setErr records the first failure; later writes become no-ops on the caller side.
func (w *Writer) setErr(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

func (w *Writer) writeQuoted(field string, quote byte) error {
	if err := w.dst.WriteByte(quote); err != nil {
		return err
	}
	for {
		i := strings.IndexByte(field, quote)
		if i < 0 {
			break
		}
		if _, err := w.dst.WriteString(field[:i+1]); err != nil {
			return err
		}
		if err := w.dst.WriteByte(quote); err != nil {
			return err
		}
		field = field[i+1:]
	}
	if _, err := w.dst.WriteString(field); err != nil {
		return err
	}
	return w.dst.WriteByte(quote)
}

// FieldRequiresQuotes reports whether field must be quoted under the minimal-quoting rule.
func FieldRequiresQuotes(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, comma, '\n', '\r':
			return true
		}
	}
	return false
}
