package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Computer Science", "computerscience"},
		{"strips spaces", "  EC  ", "ec"},
		{"strips inner whitespace", "Electronics and Communication\tEngineering (EC)", "electronicsandcommunicationengineering(ec)"},
		{"parenthetical spacing variants collapse", "Computer Science and Engineering (CS)", Normalize("Computer Science and Engineering(CS)")},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestIsVisibleFullyWildcardNote(t *testing.T) {
	note := Targeting{}

	profiles := []Profile{
		{},
		{Branch: "Computer Science and Engineering(CS)"},
		{Branch: "EC", Semester: intPtr(3), YearOfStudy: intPtr(2)},
		{Semester: intPtr(8)},
	}

	for _, p := range profiles {
		assert.True(t, IsVisible(note, p), "fully wildcard note must be visible to every profile: %+v", p)
	}
}

func TestIsVisibleBranchDimension(t *testing.T) {
	t.Run("normalization invariance", func(t *testing.T) {
		note := Targeting{Branches: []string{"Computer Science and Engineering(CS)"}}
		p := Profile{Branch: "computer science and engineering (cs)"}
		assert.True(t, IsVisible(note, p))

		// Swapping the casing/whitespace to the other side changes nothing.
		note = Targeting{Branches: []string{"computer science and engineering (cs)"}}
		p = Profile{Branch: "Computer Science and Engineering(CS)"}
		assert.True(t, IsVisible(note, p))
	})

	t.Run("bidirectional substring", func(t *testing.T) {
		note := Targeting{Branches: []string{"Electronics and Communication Engineering (EC)"}}
		assert.True(t, IsVisible(note, Profile{Branch: "EC)"}), "truncated profile branch contained in entry")

		note = Targeting{Branches: []string{"EC"}}
		assert.True(t, IsVisible(note, Profile{Branch: "Electronics and Communication Engineering (EC)"}), "entry contained in profile branch")
	})

	t.Run("unset profile branch fails targeted note", func(t *testing.T) {
		// Regression guard: an empty profile branch must never be swallowed
		// as a wildcard against a targeted note.
		note := Targeting{Branches: []string{"Computer Science and Engineering(CS)"}}
		assert.False(t, IsVisible(note, Profile{}))
		assert.False(t, IsVisible(note, Profile{Branch: "   "}))
		assert.False(t, IsVisible(note, Profile{Branch: "", Semester: intPtr(3), YearOfStudy: intPtr(2)}))
	})

	t.Run("non-matching branch fails", func(t *testing.T) {
		note := Targeting{Branches: []string{"Electrical and Electronics Engineering (EE)"}}
		assert.False(t, IsVisible(note, Profile{Branch: "Mechanical Engineering (ME)"}))
	})
}

func TestIsVisibleSemesterDimension(t *testing.T) {
	t.Run("numeric match across value types", func(t *testing.T) {
		// Legacy rows carry semesters as strings or JSON numbers.
		assert.True(t, IsVisible(Targeting{Semesters: []any{"3"}}, Profile{Semester: intPtr(3)}))
		assert.True(t, IsVisible(Targeting{Semesters: []any{float64(3)}}, Profile{Semester: intPtr(3)}))
		assert.True(t, IsVisible(Targeting{Semesters: []any{json.Number("3")}}, Profile{Semester: intPtr(3)}))
		assert.True(t, IsVisible(Targeting{Semesters: []any{int32(3)}}, Profile{Semester: intPtr(3)}))
	})

	t.Run("unset profile semester fails targeted note", func(t *testing.T) {
		assert.False(t, IsVisible(Targeting{Semesters: []any{3}}, Profile{Branch: "EC"}))
	})

	t.Run("malformed entries never match", func(t *testing.T) {
		assert.False(t, IsVisible(Targeting{Semesters: []any{"abc"}}, Profile{Semester: intPtr(3)}))
		assert.False(t, IsVisible(Targeting{Semesters: []any{nil}}, Profile{Semester: intPtr(3)}))
		// A malformed entry must not collapse into a wildcard.
		assert.False(t, IsVisible(Targeting{Semesters: []any{"abc"}}, Profile{}))
	})

	t.Run("no match on different semester", func(t *testing.T) {
		assert.False(t, IsVisible(Targeting{Semesters: []any{3}}, Profile{Semester: intPtr(4)}))
	})
}

func TestIsVisibleYearDimension(t *testing.T) {
	assert.True(t, IsVisible(Targeting{YearOfStudy: 2}, Profile{YearOfStudy: intPtr(2)}))
	assert.True(t, IsVisible(Targeting{YearOfStudy: "2"}, Profile{YearOfStudy: intPtr(2)}))
	assert.False(t, IsVisible(Targeting{YearOfStudy: 2}, Profile{YearOfStudy: intPtr(3)}))
	assert.False(t, IsVisible(Targeting{YearOfStudy: 2}, Profile{}))
	assert.False(t, IsVisible(Targeting{YearOfStudy: "not-a-year"}, Profile{YearOfStudy: intPtr(2)}))
}

func TestIsVisibleDimensionsAreIndependent(t *testing.T) {
	// A note may wildcard branch while restricting semester, and so on.
	note := Targeting{Semesters: []any{3}}
	assert.True(t, IsVisible(note, Profile{Semester: intPtr(3)}))
	assert.False(t, IsVisible(note, Profile{Branch: "EC", Semester: intPtr(4)}))

	note = Targeting{Branches: []string{"EC"}, YearOfStudy: 2}
	assert.False(t, IsVisible(note, Profile{Branch: "EC", YearOfStudy: intPtr(1)}))
	assert.True(t, IsVisible(note, Profile{Branch: "EC", YearOfStudy: intPtr(2)}))
}

func TestFilterEndToEnd(t *testing.T) {
	type note struct {
		title     string
		targeting Targeting
	}
	catalog := []note{
		{title: "DSP Unit 1", targeting: Targeting{Semesters: []any{3}}},
		{title: "VLSI Notes", targeting: Targeting{Branches: []string{"EC"}, YearOfStudy: 2}},
	}
	targetingOf := func(n note) Targeting { return n.targeting }

	p := Profile{Branch: "EC", Semester: intPtr(3), YearOfStudy: intPtr(2)}
	visible := Filter(catalog, p, targetingOf)
	require.Len(t, visible, 2)

	p.Semester = intPtr(4)
	visible = Filter(catalog, p, targetingOf)
	require.Len(t, visible, 1)
	assert.Equal(t, "VLSI Notes", visible[0].title)
}

func TestFilterIsIdempotent(t *testing.T) {
	catalog := []Targeting{
		{},
		{Branches: []string{"CS"}},
		{Semesters: []any{1, 2}},
	}
	id := func(t Targeting) Targeting { return t }
	p := Profile{Branch: "CS", Semester: intPtr(1)}

	first := Filter(catalog, p, id)
	second := Filter(catalog, p, id)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestExplainAgreesWithIsVisible(t *testing.T) {
	notes := []Targeting{
		{},
		{Branches: []string{"Computer Science and Engineering(CS)"}},
		{Branches: []string{"EC"}, Semesters: []any{"3"}, YearOfStudy: 2},
		{Semesters: []any{5, 6}},
	}
	profiles := []Profile{
		{},
		{Branch: "computer science and engineering (cs)"},
		{Branch: "EC", Semester: intPtr(3), YearOfStudy: intPtr(2)},
		{Branch: "EC", Semester: intPtr(6)},
	}

	for _, n := range notes {
		for _, p := range profiles {
			report := Explain(n, p)
			assert.Equal(t, IsVisible(n, p), report.Matched(), "note %+v profile %+v", n, p)
		}
	}
}

func TestExplainReportsNormalizedValues(t *testing.T) {
	note := Targeting{Branches: []string{"Computer Science and Engineering (CS)"}}
	p := Profile{Branch: "computer science and engineering(cs)"}

	report := Explain(note, p)
	assert.True(t, report.BranchMatch)
	assert.Equal(t, "computerscienceandengineering(cs)", report.ProfileBranch)
	require.Len(t, report.NoteBranches, 1)
	assert.Equal(t, "computerscienceandengineering(cs)", report.NoteBranches[0])
}

func TestCriterionEmpty(t *testing.T) {
	assert.True(t, Criterion{}.Empty())
	assert.False(t, Criterion{Branches: []string{"CS"}}.Empty())
	assert.False(t, Criterion{Semesters: []int{1}}.Empty())
	assert.False(t, Criterion{Year: intPtr(2)}.Empty())
}
