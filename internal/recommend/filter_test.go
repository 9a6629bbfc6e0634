package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupath/internal/domain"
)

func collegeIDs(items []domain.College) []string {
	ids := make([]string, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}
	return ids
}

func scienceStream(t *testing.T) StreamDefinition {
	t.Helper()
	s, ok := DefaultStreamTable().Lookup("science")
	require.True(t, ok)
	return s
}

func TestFilterAndRank_StreamMatchOnly(t *testing.T) {
	c := Criteria{Stream: scienceStream(t)}

	ranked := filterAndRank(testInventory().Colleges, collegeKind, c, -1)

	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c6", "c8"}, collegeIDs(ranked.Items))
	assert.Equal(t, 6, ranked.Total)
}

func TestFilterAndRank_LocationIsCaseInsensitive(t *testing.T) {
	c := CriteriaFrom(scienceStream(t), Preferences{"location": "TAMIL_NADU"}, TierNone)

	ranked := filterAndRank(testInventory().Colleges, collegeKind, c, -1)

	assert.Equal(t, []string{"c1", "c2", "c3"}, collegeIDs(ranked.Items))
}

func TestFilterAndRank_CityFallsBackToName(t *testing.T) {
	c := CriteriaFrom(scienceStream(t), Preferences{"location": "tamil_nadu", "city": "madras"}, TierNone)

	ranked := filterAndRank(testInventory().Colleges, collegeKind, c, -1)

	assert.Equal(t, []string{"c3"}, collegeIDs(ranked.Items))
}

func TestFilterAndRank_AnyLocationDisablesFilter(t *testing.T) {
	c := CriteriaFrom(scienceStream(t), Preferences{"location": "any"}, TierNone)
	assert.Empty(t, c.Location)
}

func TestFilterAndRank_BudgetAndScholarship(t *testing.T) {
	prefs := Preferences{"budget": "low", "scholarship_priority": 5.0}
	c := CriteriaFrom(scienceStream(t), prefs, TierNone)

	ranked := filterAndRank(testInventory().Colleges, collegeKind, c, -1)

	// fee ascendente entre los que tienen beca
	assert.Equal(t, []string{"c3", "c6", "c1", "c4"}, collegeIDs(ranked.Items))
	for _, col := range ranked.Items {
		assert.LessOrEqual(t, *col.AnnualFee, 100000.0)
		assert.True(t, col.ScholarshipAvailable)
	}
}

func TestFilterAndRank_InstitutionType(t *testing.T) {
	c := CriteriaFrom(scienceStream(t), Preferences{"type_preference": "private"}, TierNone)

	ranked := filterAndRank(testInventory().Colleges, collegeKind, c, -1)

	assert.Equal(t, []string{"c2", "c4", "c8"}, collegeIDs(ranked.Items))
}

func TestFilterAndRank_AcademicTiers(t *testing.T) {
	inv := testInventory().Colleges
	stream := scienceStream(t)

	high := filterAndRank(inv, collegeKind, CriteriaFrom(stream, nil, TierExcellent), -1)
	// cutoff descendente, sin cutoff al final
	assert.Equal(t, []string{"c1", "c4", "c2", "c8", "c6"}, collegeIDs(high.Items))

	mid := filterAndRank(inv, collegeKind, CriteriaFrom(stream, nil, TierAverage), -1)
	assert.Equal(t, []string{"c2", "c3", "c4", "c8"}, collegeIDs(mid.Items))

	low := filterAndRank(inv, collegeKind, CriteriaFrom(stream, nil, TierBelowAverage), -1)
	assert.Equal(t, []string{"c3", "c6"}, collegeIDs(low.Items))
}

func TestFilterAndRank_Monotonic(t *testing.T) {
	inv := testInventory().Colleges
	stream := scienceStream(t)
	steps := []Preferences{
		{},
		{"location": "tamil_nadu"},
		{"location": "tamil_nadu", "budget": "medium"},
		{"location": "tamil_nadu", "budget": "medium", "type_preference": "Public"},
		{"location": "tamil_nadu", "budget": "medium", "type_preference": "Public", "scholarship_priority": 4.0},
	}

	var previous map[string]bool
	for i, prefs := range steps {
		ranked := filterAndRank(inv, collegeKind, CriteriaFrom(stream, prefs, TierNone), -1)
		current := map[string]bool{}
		for _, id := range collegeIDs(ranked.Items) {
			current[id] = true
			if previous != nil {
				assert.True(t, previous[id], "step %d re-admitted %s", i, id)
			}
		}
		previous = current
	}
}

func TestFilterAndRank_TruncatesAfterSorting(t *testing.T) {
	c := CriteriaFrom(scienceStream(t), Preferences{"budget": "low"}, TierNone)
	inv := testInventory().Colleges

	full := filterAndRank(inv, collegeKind, c, -1)
	top := filterAndRank(inv, collegeKind, c, 2)

	assert.Equal(t, full.Total, top.Total)
	assert.GreaterOrEqual(t, top.Total, len(top.Items))
	assert.Equal(t, full.Items[:2], top.Items)
}

func TestFilterAndRank_EmptyInventory(t *testing.T) {
	ranked := filterAndRank(nil, collegeKind, Criteria{Stream: scienceStream(t)}, 5)
	assert.Empty(t, ranked.Items)
	assert.Zero(t, ranked.Total)
}

func TestParseAcademicTier(t *testing.T) {
	assert.Equal(t, TierVeryGood, ParseAcademicTier("Very Good"))
	assert.Equal(t, TierVeryGood, ParseAcademicTier("very-good"))
	assert.Equal(t, TierBelowAverage, ParseAcademicTier("below_average"))
	assert.Equal(t, TierNone, ParseAcademicTier("genius"))
}

func TestMatchScore(t *testing.T) {
	scores := map[string]float64{"analytical": 10, "technical": 5}
	assert.Equal(t, 75.0, MatchScore([]string{"analytical", "technical"}, scores))
	assert.Equal(t, 0.0, MatchScore(nil, scores))
	assert.Equal(t, 0.0, MatchScore([]string{"analytical"}, nil))
}

func TestFilterAndRank_PublicPreferenceCoversGovernmentAndAided(t *testing.T) {
	colleges := []domain.College{
		{ID: "g1", Name: "State Engineering College", Type: "Government", Courses: []string{"B.E Civil"}},
		{ID: "a1", Name: "Aided Science College", Type: "Aided", Courses: []string{"B.Sc Physics"}},
		{ID: "p1", Name: "Public Tech University", Type: "Public", Courses: []string{"B.Tech CSE"}},
		{ID: "x1", Name: "Private Tech Institute", Type: "Private", Courses: []string{"B.Tech IT"}},
	}
	c := CriteriaFrom(scienceStream(t), Preferences{"type_preference": "Public"}, TierNone)

	ranked := filterAndRank(colleges, collegeKind, c, -1)

	assert.Equal(t, []string{"g1", "a1", "p1"}, collegeIDs(ranked.Items))
}

func TestFilterAndRank_InstitutionTypeIgnoresScholarshipFunder(t *testing.T) {
	scholarships := []domain.Scholarship{
		{ID: "sg", Name: "Government Grant", Provider: "Ministry", Type: "Government", Streams: []string{"all"}},
		{ID: "sp", Name: "Private Award", Provider: "Trust", Type: "Private", Streams: []string{"science"}},
	}
	for _, pref := range []string{"Public", "Private"} {
		c := CriteriaFrom(scienceStream(t), Preferences{"type_preference": pref}, TierNone)
		ranked := filterAndRank(scholarships, scholarshipKind, c, -1)
		assert.Len(t, ranked.Items, 2, "type_preference=%s", pref)
	}
}

func TestFilterAndRank_CityKeepsStatewideCandidates(t *testing.T) {
	scholarships := []domain.Scholarship{
		{ID: "tn", Name: "Tamil Nadu Tuition Waiver", Provider: "Government of Tamil Nadu", State: "Tamil Nadu", Streams: []string{"all"}},
		{ID: "ka", Name: "Karnataka Grant", Provider: "Government of Karnataka", State: "Karnataka", Streams: []string{"all"}},
		{ID: "nat", Name: "National Merit", Provider: "Ministry", Streams: []string{"all"}},
	}
	c := CriteriaFrom(scienceStream(t), Preferences{"location": "tamil_nadu", "city": "chennai"}, TierNone)

	ranked := filterAndRank(scholarships, scholarshipKind, c, -1)

	ids := make([]string, len(ranked.Items))
	for i, s := range ranked.Items {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"tn", "nat"}, ids)
}

func TestFilterAndRank_ScholarshipEligibilityByTier(t *testing.T) {
	scholarships := []domain.Scholarship{
		{ID: "m50", Name: "Post Matric", Provider: "Ministry", Streams: []string{"all"}, MinPercentage: ptr(50)},
		{ID: "m85", Name: "Merit", Provider: "Ministry", Streams: []string{"all"}, MinPercentage: ptr(85)},
		{ID: "open", Name: "Open Grant", Provider: "Trust", Streams: []string{"all"}},
	}
	ids := func(tier AcademicTier) []string {
		ranked := filterAndRank(scholarships, scholarshipKind, CriteriaFrom(scienceStream(t), nil, tier), -1)
		out := []string{}
		for _, s := range ranked.Items {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"m50", "m85", "open"}, ids(TierExcellent))
	assert.Equal(t, []string{"m50", "open"}, ids(TierGood))
	assert.Equal(t, []string{"open"}, ids(TierBelowAverage))
}
