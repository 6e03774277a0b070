package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	leadingNumRe  = regexp.MustCompile(`^\d+[_-]`)
	lowerUpperRe  = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigitRe = regexp.MustCompile(`([A-Za-z])(\d)`)
	digitLetterRe = regexp.MustCompile(`(\d)([A-Za-z])`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	separatorReplacer = strings.NewReplacer("_", " ", "-", " ")
)

// NormalizeLabel turns a raw directory or file name into a display label:
// the leading NN_/NN- prefix is stripped, camelCase and letter/digit
// boundaries are split, separators become spaces, runs of whitespace
// collapse, and each word gets an initial capital.
//
//	NormalizeLabel("01_strategy-fundamentals") == "Strategy Fundamentals"
//	NormalizeLabel("Module1BasicConcepts")     == "Module 1 Basic Concepts"
func NormalizeLabel(raw string) string {
	s := leadingNumRe.ReplaceAllString(raw, "")
	s = lowerUpperRe.ReplaceAllString(s, "$1 $2")
	s = letterDigitRe.ReplaceAllString(s, "$1 $2")
	s = digitLetterRe.ReplaceAllString(s, "$1 $2")
	s = separatorReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return titleWords(strings.TrimSpace(s))
}

// titleWords upper-cases the first rune of every word without touching the
// rest, so acronyms like "MBA" survive unchanged.
func titleWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// hasNumericPrefix reports whether name starts with NN_ or NN-.
func hasNumericPrefix(name string) bool {
	return leadingNumRe.MatchString(name)
}
