package classify

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// Action is the merge decision for one frontmatter field.
type Action int

const (
	// ActionAdd writes a field that is absent from the document.
	ActionAdd Action = iota + 1
	// ActionModify replaces a placeholder, empty, or degenerate value.
	ActionModify
	// ActionPreserve keeps the existing value; the inferred one is discarded.
	ActionPreserve
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionModify:
		return "modify"
	case ActionPreserve:
		return "preserve"
	default:
		return "none"
	}
}

// Change is one entry of a merge plan: what to do with a field and the
// value it ends up with.
type Change struct {
	Key      string `json:"key"`
	Action   Action `json:"action"`
	Value    string `json:"value"`
	Previous string `json:"previous,omitempty"`
}

// InferredField is a key/value pair produced by classification, in the
// order it should appear in frontmatter.
type InferredField struct {
	Key   string
	Value string
}

// InferredFields flattens a classification result into ordered frontmatter
// fields, skipping anything that stayed unresolved.
func InferredFields(res *models.Result) []InferredField {
	candidates := []InferredField{
		{"program", res.Hierarchy.Program.Value},
		{"course", res.Hierarchy.Course.Value},
		{"class", res.Hierarchy.Class.Value},
		{"module", res.Structure.Module.Value},
		{"lesson", res.Structure.Lesson.Value},
	}
	out := candidates[:0]
	for _, c := range candidates {
		if c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}

// PlanChanges decides per field whether the inferred value is added,
// replaces a provisional value, or yields to what the document already
// carries. The document itself is not touched; see ApplyChanges.
func PlanChanges(doc *parser.Document, fields []InferredField, placeholders []string) []Change {
	changes := make([]Change, 0, len(fields))
	for _, f := range fields {
		existing, present := doc.Get(f.Key)
		switch {
		case !present:
			changes = append(changes, Change{Key: f.Key, Action: ActionAdd, Value: f.Value})
		case isProvisional(existing, f.Key, placeholders):
			changes = append(changes, Change{Key: f.Key, Action: ActionModify, Value: f.Value, Previous: existing})
		default:
			changes = append(changes, Change{Key: f.Key, Action: ActionPreserve, Value: existing})
		}
	}
	return changes
}

// ApplyChanges writes the add/modify entries of a plan into the document
// and returns how many fields were mutated.
func ApplyChanges(doc *parser.Document, changes []Change) int {
	mutated := 0
	for _, c := range changes {
		if c.Action == ActionAdd || c.Action == ActionModify {
			doc.Set(c.Key, c.Value)
			mutated++
		}
	}
	return mutated
}

// isProvisional reports whether an existing value is eligible for
// replacement: empty, a configured placeholder, or the field's own name as
// a degenerate fallback.
func isProvisional(existing, key string, placeholders []string) bool {
	v := strings.TrimSpace(existing)
	if v == "" || strings.EqualFold(v, key) {
		return true
	}
	for _, p := range placeholders {
		if v == p {
			return true
		}
	}
	return false
}
