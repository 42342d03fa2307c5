// Package tagmatch suggests tags for a new bookmark by finding the user's
// existing tags in its title and description.
package tagmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// normalize folds case and strips diacritics so "Café" and "cafe" compare
// equal.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return folder.String(out)
}

// tokens splits normalized text into words of letters and digits.
func tokens(s string) []string {
	return strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Match returns the vocabulary entries that occur as whole words in the
// title or description. Multi-word tags (and tags written with dashes or
// underscores) must appear as a contiguous word sequence; the last word may
// carry a plural "s". Results keep vocabulary order and spelling, without
// duplicates.
func Match(title, description string, vocabulary []string) []string {
	var words []string
	words = append(words, tokens(title)...)
	// Break sequences across fields so a tag cannot straddle them.
	words = append(words, "")
	words = append(words, tokens(description)...)
	if len(words) == 1 {
		return nil
	}

	var matched []string
	seen := make(map[string]bool)
	for _, tag := range vocabulary {
		tagWords := tokens(tag)
		if len(tagWords) == 0 {
			continue
		}
		key := strings.Join(tagWords, " ")
		if seen[key] {
			continue
		}
		if containsSequence(words, tagWords) {
			seen[key] = true
			matched = append(matched, tag)
		}
	}
	return matched
}

func containsSequence(words, seq []string) bool {
	last := len(seq) - 1
	for i := 0; i+last < len(words); i++ {
		ok := true
		for j, w := range seq {
			got := words[i+j]
			if got == w || (j == last && got == w+"s") {
				continue
			}
			ok = false
			break
		}
		if ok {
			return true
		}
	}
	return false
}
