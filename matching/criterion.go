package matching

// Criterion is the audience restriction attached to a notification event.
// It has the same shape as Targeting but drives a user-store query instead
// of a per-note predicate: each present field becomes an OR-set constraint,
// present fields combine with AND, and absent fields impose no constraint.
type Criterion struct {
	Branches  []string `json:"branches,omitempty"`
	Semesters []int    `json:"semesters,omitempty"`
	Year      *int     `json:"year,omitempty"`
}

// Empty reports whether no dimension is constrained. An empty criterion
// means "every user in the system", which is a distinct code path from a
// criterion that matches nobody.
func (c Criterion) Empty() bool {
	return len(c.Branches) == 0 && len(c.Semesters) == 0 && c.Year == nil
}
