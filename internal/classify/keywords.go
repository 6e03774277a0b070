package classify

import "strings"

// Keyword substrings that tag a directory as module-level or lesson-level.
// Matching is case-insensitive substring containment.
var (
	moduleKeywords = []string{"module", "course", "week", "unit"}
	lessonKeywords = []string{"lesson", "session", "lecture", "class"}
)

// keywordHit records which ancestor directory carried an indicator.
// distance 0 is the immediate parent.
type keywordHit struct {
	dir      string
	distance int
}

// scanDirKeywords walks ancestors nearest-first and returns the closest
// directory carrying a module indicator and the closest carrying a lesson
// indicator. Either may be nil.
func scanDirKeywords(ancestors []string) (module, lesson *keywordHit) {
	for i, dir := range ancestors {
		lower := strings.ToLower(dir)
		if module == nil && containsAny(lower, moduleKeywords) {
			module = &keywordHit{dir: dir, distance: i}
		}
		if lesson == nil && containsAny(lower, lessonKeywords) {
			lesson = &keywordHit{dir: dir, distance: i}
		}
		if module != nil && lesson != nil {
			break
		}
	}
	return module, lesson
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
