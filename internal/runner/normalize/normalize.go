// Package normalize implements the output normalization pipeline applied to
// captured command output before it is compared with an expectation.
package normalize

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/acarl005/stripansi"
	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// InvalidKeywordError reports normalize tokens that are not recognized.
type InvalidKeywordError struct {
	// Tokens holds every unrecognized token, lower-cased and sorted
	Tokens []string
}

func (e *InvalidKeywordError) Error() string {
	quoted := make([]string, len(e.Tokens))
	for i, t := range e.Tokens {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return fmt.Sprintf("invalid normalize keyword(s): %s", strings.Join(quoted, ", "))
}

// Unwrap classifies the error as a configuration error.
func (e *InvalidKeywordError) Unwrap() error {
	return runnertypes.ErrInvalidNormalize
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// ParseKeywords parses a comma- or space-separated keyword list.
// Tokens are case-insensitive and may repeat. The result is returned in
// pipeline order. An empty list means no normalization.
func ParseKeywords(raw string) ([]runnertypes.NormalizeKeyword, error) {
	tokens := strings.FieldsFunc(raw, isSeparator)
	if len(tokens) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[strings.ToLower(t)] = struct{}{}
	}

	known := make(map[string]struct{}, len(runnertypes.NormalizePipeline))
	for _, k := range runnertypes.NormalizePipeline {
		known[string(k)] = struct{}{}
	}
	if invalid := common.SetDifferenceToSlice(seen, known); len(invalid) > 0 {
		return nil, &InvalidKeywordError{Tokens: invalid}
	}

	keywords := make([]runnertypes.NormalizeKeyword, 0, len(seen))
	for _, k := range runnertypes.NormalizePipeline {
		if _, ok := seen[string(k)]; ok {
			keywords = append(keywords, k)
		}
	}
	return keywords, nil
}

// Normalize applies the keyword set to text in pipeline order: ansi before
// whitespace. The declared order of keywords does not matter, and applying
// the same set twice yields the same text as applying it once.
func Normalize(text string, keywords []runnertypes.NormalizeKeyword) string {
	if slices.Contains(keywords, runnertypes.NormalizeANSI) {
		text = StripANSI(text)
	}
	if slices.Contains(keywords, runnertypes.NormalizeWhitespace) {
		text = CollapseWhitespace(text)
	}
	return text
}

// StripANSI removes ANSI/VT escape sequences in their entirety.
// Removing one sequence can join the bytes around it into a new one, so the
// strip is repeated until the text stops changing.
func StripANSI(text string) string {
	for {
		stripped := stripansi.Strip(text)
		if stripped == text {
			return stripped
		}
		text = stripped
	}
}

// CollapseWhitespace trims leading and trailing whitespace and replaces every
// run of whitespace, including newlines and tabs, with a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
