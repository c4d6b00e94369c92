package uploader

import (
	"path/filepath"
	"strings"
	"unicode"
)

// PrettyTitle turns a filename stem into a readable title:
// "getting_started-guide" becomes "Getting Started Guide".
func PrettyTitle(stem string) string {
	return TitleCase(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
}

// RootTitle returns the default root page title for a directory path
func RootTitle(dir string) string {
	return TitleCase(filepath.Base(filepath.Clean(dir)))
}

// TitleCase upper-cases the first cased letter of every word and lower-cases
// the rest. A word starts after any rune that has no case, so digits and
// apostrophes split words ("2nd" becomes "2Nd").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevCased := false
	for _, r := range s {
		if !isCased(r) {
			b.WriteRune(r)
			prevCased = false
			continue
		}
		if prevCased {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		prevCased = true
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
