// Package sanitize turns scraped titles and names into safe path segments.
package sanitize

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

const untitled = "untitled"

var separatorReplacer = strings.NewReplacer("/", "-", "\\", "-")

// Name makes s usable as a single path segment. The result never contains a
// path separator and is never empty, "." or "..".
func Name(s string) string {
	s = norm.NFC.String(s)
	s = separatorReplacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ". ")

	if s == "" {
		return untitled
	}

	return s
}

var noiseKeywords = []string{
	"official music video",
	"official video",
	"lyrics",
	"audio",
	"hd",
	"hq",
	"remix",
}

var (
	emptyBrackets = regexp.MustCompile(`[\(\[]\s*[\)\]]`)
	spaces        = regexp.MustCompile(`\s{2,}`)
)

// CleanTitle strips common upload noise ("Official Video", "Lyrics", ...) and
// any of the extra words from a title. Matching is case-insensitive and on
// whole words; the remaining text keeps its original case.
func CleanTitle(title string, extra ...string) string {
	words := lo.Uniq(lo.Filter(
		append(slices.Clone(noiseKeywords), lo.Map(extra, func(w string, _ int) string { return strings.ToLower(strings.TrimSpace(w)) })...),
		func(w string, _ int) bool { return w != "" },
	))

	out := title
	for _, w := range words {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		out = re.ReplaceAllString(out, "")
	}

	out = emptyBrackets.ReplaceAllString(out, "")
	out = spaces.ReplaceAllString(out, " ")
	out = strings.Trim(out, " -–|")

	if out == "" {
		return title
	}

	return out
}
