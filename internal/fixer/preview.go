package fixer

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Preview renders a unified diff of fd applied to source. The core
// only previews, never applies, fixes to disk: the result here is a
// string, never written back to source.
func Preview(source []byte, fd *FixDescriptor, filename string, context int) (string, error) {
	fixed := Apply(source, fd)
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(source)),
		B:        difflib.SplitLines(string(fixed)),
		FromFile: filename,
		ToFile:   filename + " (fixed)",
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(d)
}
