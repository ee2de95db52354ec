package freetext

import (
	"regexp"
	"strings"

	"github.com/mestredagrelha/grelha/internal/util"
)

var (
	nonNameChars  = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases s, folds accents, strips everything outside
// [a-z0-9 ] and collapses whitespace.
func Normalize(s string) string {
	s = util.FoldDiacritics(strings.ToLower(s))
	s = nonNameChars.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// foldWord normalizes a single token for lexicon lookups.
func foldWord(tok string) string {
	return util.FoldDiacritics(strings.ToLower(strings.TrimSpace(tok)))
}
