package csvtidy

import (
	"fmt"
	"strings"
)

const previewFields = 3

// ShapeMismatch describes a data record whose width differs from the expected width.
// Such a row was usually mis-split by an unquoted delimiter in the source file.
type ShapeMismatch struct {
	// Record is the 1-based record number; the header is record 1.
	Record int
	// Line is the source line the record started on, 0 when unknown.
	Line int
	// Fields is the number of fields the record actually has.
	Fields int
	// Want is the expected number of fields.
	Want int
	// Preview holds up to the first three fields.
	Preview []string
	// Suspect is set when the re-joined row contains a call signature or array
	// literal with a comma, the usual cause of the mis-split.
	Suspect bool
}

func (m ShapeMismatch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "record %d", m.Record)
	if m.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", m.Line)
	}
	fmt.Fprintf(&b, ": %d fields, want %d", m.Fields, m.Want)
	if m.Suspect {
		b.WriteString(", unquoted comma inside parentheses or brackets")
	}
	fmt.Fprintf(&b, "; content: %q", m.Preview)
	return b.String()
}

// Diagnose reports every data record of doc whose field count differs from want.
// A want of zero or less uses the header width. The document is not modified.
func Diagnose(doc *Document, want int) []ShapeMismatch {
	if doc == nil || len(doc.Records) == 0 {
		return nil
	}
	if want <= 0 {
		want = len(doc.Header())
	}

	var out []ShapeMismatch
	for i, rec := range doc.Records[1:] {
		if len(rec) == want {
			continue
		}
		idx := i + 1
		n := min(len(rec), previewFields)
		out = append(out, ShapeMismatch{
			Record:  idx + 1,
			Line:    doc.Line(idx),
			Fields:  len(rec),
			Want:    want,
			Preview: append([]string(nil), rec[:n]...),
			Suspect: NeedsQuoting(strings.Join(rec, ",")),
		})
	}
	return out
}
