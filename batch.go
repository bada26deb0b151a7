package csvtidy

import (
	"bytes"
	"path/filepath"

	"github.com/go-logr/logr"
)

// FileResult is the outcome of normalizing one file.
type FileResult struct {
	Path       string
	Records    int
	Mismatches []ShapeMismatch
	// Changed reports whether the rewritten bytes differ from the original bytes.
	Changed bool
	// Written is false when the file was left untouched (error or dry run).
	Written bool
	Err     error
}

// OK reports whether the file was processed without error.
func (r FileResult) OK() bool { return r.Err == nil }

// Kind classifies the result's error.
func (r FileResult) Kind() ErrorKind { return Classify(r.Err) }

// Report collects the per-file results of a batch, in input order.
type Report struct {
	Results []FileResult
}

// Succeeded counts files processed without error.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed counts files whose processing aborted.
func (r Report) Failed() int { return len(r.Results) - r.Succeeded() }

// Mismatches counts shape warnings across all files.
func (r Report) Mismatches() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Mismatches)
	}
	return n
}

// Normalizer rewrites CSV files with minimal quoting.
type Normalizer struct {
	opts Options
	log  logr.Logger
}

// NewNormalizer returns a Normalizer. A zero logr.Logger discards output.
func NewNormalizer(opts Options, log logr.Logger) *Normalizer {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Normalizer{opts: opts, log: log}
}

// ResolvePaths joins relative names onto baseDir. Absolute names are kept.
func ResolvePaths(baseDir string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if baseDir == "" || filepath.IsAbs(name) {
			out = append(out, name)
			continue
		}
		out = append(out, filepath.Join(baseDir, name))
	}
	return out
}

// Run normalizes each path in order. A failure is recorded in that file's result
// and processing continues with the next path; Run itself never fails.
func (n *Normalizer) Run(paths []string) Report {
	rep := Report{Results: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		res := n.NormalizeFile(path)
		if res.Err != nil {
			n.log.Error(res.Err, "normalize failed", "path", path, "kind", res.Kind().String())
		} else {
			n.log.V(1).Info("normalized", "path", path, "records", res.Records, "changed", res.Changed)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

// NormalizeFile loads path, reports shape mismatches, and rewrites the file unless
// DryRun is set. The file is written only after a complete successful parse.
func (n *Normalizer) NormalizeFile(path string) FileResult {
	res := FileResult{Path: path}

	doc, original, err := n.opts.load(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Records = len(doc.Records)

	res.Mismatches = Diagnose(doc, n.opts.ExpectedFields)
	for _, m := range res.Mismatches {
		n.log.Info("shape mismatch", "warning", "ShapeWarning", "path", path,
			"record", m.Record, "line", m.Line, "fields", m.Fields, "want", m.Want, "suspect", m.Suspect)
	}

	out, err := n.opts.serialize(doc.Records)
	if err != nil {
		res.Err = err
		return res
	}
	res.Changed = !bytes.Equal(out, original)

	if n.opts.DryRun {
		return res
	}
	if err := Save(path, out); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	return res
}
