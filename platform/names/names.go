// Package names provides person-name normalization utilities.
// This is part of the platform layer and contains no business logic.
package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	smartQuotes = strings.NewReplacer("’", "'", "‘", "'")

	// Latin letters plus apostrophes and hyphens survive; everything else
	// becomes a space.
	nonNameChars = regexp.MustCompile(`[^a-zA-ZÀ-ÖØ-öø-ÿ'-]+`)

	// Apostrophes and hyphens hanging off word edges are dropped; interior
	// ones ("Jean-Luc", "O'Brien") survive.
	danglingLead  = regexp.MustCompile(`(^|\s)[-']+`)
	danglingTrail = regexp.MustCompile(`[-']+(\s|$)`)

	multiSpace = regexp.MustCompile(`\s+`)

	upperCaser = cases.Upper(language.French)
	lowerCaser = cases.Lower(language.French)
)

// Normalize cleans a submitted full name: folds typographic apostrophes,
// strips characters that cannot appear in a name, collapses whitespace and
// title-cases every segment across spaces, hyphens and apostrophes.
// "  jean-LUC   o’brien " becomes "Jean-Luc O'Brien".
func Normalize(input string) string {
	cleaned := smartQuotes.Replace(input)
	cleaned = nonNameChars.ReplaceAllString(cleaned, " ")
	cleaned = danglingLead.ReplaceAllString(cleaned, "$1")
	cleaned = danglingTrail.ReplaceAllString(cleaned, "$1")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}

	words := strings.Split(cleaned, " ")
	for i, word := range words {
		words[i] = titleAcross(word, "-", func(part string) string {
			return titleAcross(part, "'", titleSegment)
		})
	}
	return strings.Join(words, " ")
}

// SplitFirstLast splits a normalized full name into first and last name.
// The first word is the first name; everything after it is the last name.
// Either part is nil when absent.
func SplitFirstLast(normalized string) (first, last *string) {
	if normalized == "" {
		return nil, nil
	}
	parts := strings.Split(normalized, " ")
	if parts[0] != "" {
		first = &parts[0]
	}
	if len(parts) > 1 {
		rest := strings.Join(parts[1:], " ")
		last = &rest
	}
	return first, last
}

func titleAcross(word, sep string, apply func(string) string) string {
	parts := strings.Split(word, sep)
	for i, part := range parts {
		parts[i] = apply(part)
	}
	return strings.Join(parts, sep)
}

func titleSegment(segment string) string {
	if segment == "" {
		return segment
	}
	runes := []rune(segment)
	head := upperCaser.String(string(runes[0]))
	tail := lowerCaser.String(string(runes[1:]))
	return head + tail
}
