package classify

import (
	"regexp"
	"strconv"
)

// patternKind says whether a filename rule is module-shaped or lesson-shaped.
type patternKind int

const (
	patternModule patternKind = iota
	patternLesson
)

func (k patternKind) String() string {
	if k == patternLesson {
		return "lesson"
	}
	return "module"
}

// patternRule pairs a compiled regex with the kind of value it yields.
// Rules are evaluated in order by matchFilename; first match wins, which is
// also how filename ambiguity is resolved: module-shaped rules come before
// lesson-shaped ones.
type patternRule struct {
	name string
	kind patternKind
	re   *regexp.Regexp
}

var patternRules = []patternRule{
	{"module-keyword", patternModule, regexp.MustCompile(`(?i)^module[\s_-]+(\d+)`)},
	{"lesson-keyword", patternLesson, regexp.MustCompile(`(?i)^lesson[\s_-]+(\d+)`)},
	{"unit-keyword", patternModule, regexp.MustCompile(`(?i)^(?:week|unit)[\s_-]*(\d+)`)},
	{"session-keyword", patternLesson, regexp.MustCompile(`(?i)^(?:session|class)[\s_-]*(\d+)`)},
	{"module-compact", patternModule, regexp.MustCompile(`(?i)^module(\d+)`)},
	{"numbered-content", patternModule, regexp.MustCompile(`^(\d+)[_-].+`)},
}

// patternMatch is the result of matching a filename (sans extension)
// against the rule table.
type patternMatch struct {
	rule   string
	kind   patternKind
	number int
	label  string
}

// matchFilename runs base through the ordered rule table. The label is the
// whole base name run through NormalizeLabel, which keeps keyword and
// number for keyword-shaped rules ("module-3-risk" -> "Module 3 Risk") and
// strips the numeric prefix for bare numbered content ("02_intro" -> "Intro").
func matchFilename(base string) (patternMatch, bool) {
	for _, rule := range patternRules {
		m := rule.re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		return patternMatch{
			rule:   rule.name,
			kind:   rule.kind,
			number: n,
			label:  NormalizeLabel(base),
		}, true
	}
	return patternMatch{}, false
}
