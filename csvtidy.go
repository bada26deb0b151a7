// # csvtidy: CSV Re-quoting and Row Counting Tools for Go
//
// csvtidy loads CSV files fully into memory, reports rows whose width differs from the header, and rewrites them with a consistent minimal-quoting convention. The rewrite is value-preserving: parsing the output yields exactly the records that were read.
//
// # Features
//
// - CSV reader with custom field and quote separators, optional lazy quotes, and precise `ParseError` locations.
// - Buffered CSV writer that quotes a field only when it contains the delimiter, the quote character, or a line break.
// - `Normalizer` batch driver that isolates per-file failures and never writes a file whose parse failed.
// - Shape diagnostics (`Diagnose`) and the `NeedsQuoting` heuristic for spotting rows mis-split by unquoted call signatures or array literals.
// - Row counting (`CountFiles`) against an expected number of data rows per file.
//
// # Getting Started
//
// The command line front end lives in `cmd/csvtidy`; the package can also be imported directly as `github.com/oleg578/csvtidy`.
package csvtidy
