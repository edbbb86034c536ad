package matcher

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the difference between expected and actual text, one line
// per changed span: "-" for expected text missing from actual, "+" for
// unexpected text in actual. Equal spans are omitted. Returns "" when the
// inputs are identical.
func Diff(expected, actual string) string {
	if expected == actual {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "- %q\n", d.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "+ %q\n", d.Text)
		case diffmatchpatch.DiffEqual:
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
