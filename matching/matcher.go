// Package matching implements the note eligibility engine: the rule set that
// decides which study notes a student profile can see. It is pure and
// side-effect free so the production note listing, the notification audience
// builder, and the debug endpoint all share one implementation.
package matching

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Targeting is the optional audience restriction attached to a note.
// Empty or nil fields are wildcards: they restrict nothing.
// Semester entries are kept as raw values because legacy rows mix numeric
// strings with numbers; comparison is always numeric.
type Targeting struct {
	Branches    []string
	Semesters   []any
	YearOfStudy any // nil means all years
}

// Profile is the subset of a student profile the engine matches against.
// Nil pointers mean the field was never filled in.
type Profile struct {
	Branch      string
	Semester    *int
	YearOfStudy *int
}

// Normalize lowercases a branch string and strips all whitespace. Branch
// names were historically entered by hand, so "Computer Science and
// Engineering (CS)" and "computer science and engineering(cs)" must compare
// equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// branchEntryMatches applies the bidirectional substring rule on normalized
// values. The rule tolerates truncated branch strings at the cost of
// precision; see the package documentation before tightening it.
func branchEntryMatches(entry, profileBranch string) bool {
	return entry == profileBranch ||
		strings.Contains(entry, profileBranch) ||
		strings.Contains(profileBranch, entry)
}

// toInt coerces a raw targeting value to an int. Legacy imports stored
// semesters and years as strings or JSON numbers; anything that cannot be
// read as a whole number simply fails the comparison.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	case *int:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return 0, false
	}
}

func branchMatches(t Targeting, p Profile) bool {
	if len(t.Branches) == 0 {
		return true
	}
	profileBranch := Normalize(p.Branch)
	if profileBranch == "" {
		// An unset profile branch never matches a targeted note. Treating
		// it as a wildcard here is exactly the bug class that hid targeted
		// notes behind phantom matches.
		return false
	}
	for _, b := range t.Branches {
		if branchEntryMatches(Normalize(b), profileBranch) {
			return true
		}
	}
	return false
}

func semesterMatches(t Targeting, p Profile) bool {
	if len(t.Semesters) == 0 {
		return true
	}
	if p.Semester == nil {
		return false
	}
	for _, raw := range t.Semesters {
		if n, ok := toInt(raw); ok && n == *p.Semester {
			return true
		}
	}
	return false
}

func yearMatches(t Targeting, p Profile) bool {
	if t.YearOfStudy == nil {
		return true
	}
	want, ok := toInt(t.YearOfStudy)
	if !ok {
		// Unreadable targeting value: the comparison cannot be made, so the
		// dimension conservatively fails rather than widening the audience.
		return false
	}
	return p.YearOfStudy != nil && *p.YearOfStudy == want
}

// IsVisible reports whether a note with the given targeting is visible to
// the profile. All three dimensions must match; each dimension wildcards
// independently on empty/absent targeting.
func IsVisible(t Targeting, p Profile) bool {
	return branchMatches(t, p) && semesterMatches(t, p) && yearMatches(t, p)
}

// Filter returns the items whose targeting matches the profile, in input
// order. It allocates only for the result and holds no state between calls.
func Filter[T any](items []T, p Profile, targeting func(T) Targeting) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if IsVisible(targeting(item), p) {
			out = append(out, item)
		}
	}
	return out
}

// Report is the per-dimension outcome of a single match, including the
// normalized values that were compared. It backs the debug endpoint and the
// server-side trace logging used to resolve "I can't see my notes" tickets.
type Report struct {
	BranchMatch   bool     `json:"branch_match"`
	SemesterMatch bool     `json:"semester_match"`
	YearMatch     bool     `json:"year_match"`
	ProfileBranch string   `json:"normalized_profile_branch"`
	NoteBranches  []string `json:"normalized_note_branches"`
}

// Matched reports the overall outcome.
func (r Report) Matched() bool {
	return r.BranchMatch && r.SemesterMatch && r.YearMatch
}

// Explain evaluates a single (targeting, profile) pair and returns the
// per-dimension outcome. Explain and IsVisible always agree.
func Explain(t Targeting, p Profile) Report {
	normalized := make([]string, len(t.Branches))
	for i, b := range t.Branches {
		normalized[i] = Normalize(b)
	}
	return Report{
		BranchMatch:   branchMatches(t, p),
		SemesterMatch: semesterMatches(t, p),
		YearMatch:     yearMatches(t, p),
		ProfileBranch: Normalize(p.Branch),
		NoteBranches:  normalized,
	}
}
