// Package models defines the domain types for Ansuz.
package models

import "time"

// Tier identifies which resolution source produced a hierarchy field value.
// Lower tiers take precedence; a value set by a lower-numbered tier is never
// overwritten by a higher-numbered one.
type Tier int

const (
	// TierNone marks an unresolved field.
	TierNone Tier = 0
	// TierOverride is a caller-supplied value (CLI flag or API argument).
	TierOverride Tier = 1
	// TierSpecialCase is a configured special-program literal found in the path.
	TierSpecialCase Tier = 2
	// TierIndexTitle is a title read from an index file's frontmatter.
	TierIndexTitle Tier = 3
	// TierPath is a cleaned directory name at the level's expected depth.
	TierPath Tier = 4
	// TierDefault is the configured default (program only).
	TierDefault Tier = 5
)

func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierSpecialCase:
		return "special-case"
	case TierIndexTitle:
		return "index-title"
	case TierPath:
		return "path"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}

// Strategy identifies which extraction strategy produced a module or
// lesson value.
type Strategy int

const (
	// StrategyNone marks an unresolved field.
	StrategyNone Strategy = 0
	// StrategyFilenamePattern matched an ordered filename regex rule.
	StrategyFilenamePattern Strategy = 1
	// StrategyDirectoryKeyword found a keyword substring in an ancestor directory.
	StrategyDirectoryKeyword Strategy = 2
	// StrategyNumberedPair inferred module/lesson from numbered parent directories.
	StrategyNumberedPair Strategy = 3
)

func (s Strategy) String() string {
	switch s {
	case StrategyFilenamePattern:
		return "filename-pattern"
	case StrategyDirectoryKeyword:
		return "directory-keyword"
	case StrategyNumberedPair:
		return "numbered-pair"
	default:
		return "none"
	}
}

// HierarchyField is an optional hierarchy value with its provenance tier.
// A zero Value means the field is unresolved.
type HierarchyField struct {
	Value string `json:"value,omitempty"`
	Tier  Tier   `json:"tier,omitempty"`
}

// Set reports whether the field has been resolved.
func (f HierarchyField) Set() bool { return f.Value != "" }

// Hierarchy holds the coarse classification levels above module/lesson.
type Hierarchy struct {
	Program HierarchyField `json:"program"`
	Course  HierarchyField `json:"course"`
	Class   HierarchyField `json:"class"`
}

// StructureField is an optional module or lesson value together with the
// strategy that produced it.
type StructureField struct {
	Value    string   `json:"value,omitempty"`
	Strategy Strategy `json:"strategy,omitempty"`
}

// Set reports whether the field has been resolved.
func (f StructureField) Set() bool { return f.Value != "" }

// Structure holds the module/lesson classification of a file. Both fields
// are independent optionals: a file may receive either, both, or neither.
type Structure struct {
	Module StructureField `json:"module"`
	Lesson StructureField `json:"lesson"`
}

// Result is the full classification outcome for one file. It is created
// fresh per file and never mutated after resolution.
type Result struct {
	Path      string    `json:"path"`
	Hierarchy Hierarchy `json:"hierarchy"`
	Structure Structure `json:"structure"`
}

// Overrides carries caller-supplied hierarchy values. A non-empty field
// always wins over every computed source.
type Overrides struct {
	Program string `json:"program,omitempty"`
	Course  string `json:"course,omitempty"`
	Class   string `json:"class,omitempty"`
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return o.Program == "" && o.Course == "" && o.Class == ""
}

// FileMeta is a lightweight representation returned by vault list operations.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
