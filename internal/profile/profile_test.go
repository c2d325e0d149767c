package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"3.85", Float(3.85)},
		{" 4 ", Float(4)},
		{"", nil},
		{"abc", nil},
		{"3.5abc", nil},
		{"NaN", nil},
		{"Inf", nil},
	}
	for _, tt := range tests {
		got := ParseFloat(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.InDelta(t, *tt.want, *got, 1e-9)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"1450", Int(1450)},
		{" 36 ", Int(36)},
		{"-3", Int(-3)},
		{"12abc", nil},
		{"", nil},
		{"abc", nil},
		{"-", nil},
	}
	for _, tt := range tests {
		got := ParseInt(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got)
	}
}

func TestParseActivities(t *testing.T) {
	acts := ParseActivities("Student Body President, NHS President\n\n", true)
	require.Len(t, acts, 2)
	assert.Equal(t, "Student Body President", acts[0].Name)
	assert.True(t, acts[1].Leadership)
	assert.Equal(t, 4, acts[1].Tier)

	assert.Empty(t, ParseActivities("  ,  ", false))
}

func TestEffectiveDefaults(t *testing.T) {
	var p Profile
	assert.Equal(t, DefaultGPA, p.EffectiveGPA())
	assert.Equal(t, DefaultSAT, p.EffectiveSAT())

	p.GPA = Float(math.NaN())
	p.SATScore = Int(0)
	assert.Equal(t, DefaultGPA, p.EffectiveGPA())
	assert.Equal(t, DefaultSAT, p.EffectiveSAT())

	p.GPA = Float(3.95)
	p.SATScore = Int(1500)
	assert.Equal(t, 3.95, p.EffectiveGPA())
	assert.Equal(t, 1500, p.EffectiveSAT())
}

func TestBuilder_FormSettersReplaceGroup(t *testing.T) {
	b := NewBuilder()
	b.SetAcademics(AcademicsForm{GPA: "3.5", APCourses: "6"}.Parse())
	b.SetAcademics(AcademicsForm{GPA: "3.9"}.Parse())
	b.SetScores(ScoresForm{SATScore: "1400", ACTScore: "not a number"}.Parse())

	p := b.Profile()
	require.NotNil(t, p.GPA)
	assert.Equal(t, 3.9, *p.GPA)
	assert.Nil(t, p.APCourses, "a resubmitted form owns every field it shows")
	require.NotNil(t, p.SATScore)
	assert.Equal(t, 1400, *p.SATScore)
	assert.Nil(t, p.ACTScore)
}

func TestBuilder_InvalidReentryFallsBackToDefault(t *testing.T) {
	for _, text := range []string{"abc", ""} {
		b := NewBuilder()
		b.SetAcademics(AcademicsForm{GPA: "4.0"}.Parse())
		b.SetScores(ScoresForm{SATScore: "1550"}.Parse())

		b.SetAcademics(AcademicsForm{GPA: text}.Parse())
		b.SetScores(ScoresForm{SATScore: text}.Parse())

		p := b.Profile()
		assert.Nil(t, p.GPA, "GPA re-entered as %q", text)
		assert.Equal(t, DefaultGPA, p.EffectiveGPA())
		assert.Nil(t, p.SATScore, "SAT re-entered as %q", text)
		assert.Equal(t, DefaultSAT, p.EffectiveSAT())
	}
}

func TestBuilder_PatchLeavesNilFieldsAlone(t *testing.T) {
	b := NewBuilder()
	b.SetAcademics(AcademicsForm{GPA: "3.5", APCourses: "6"}.Parse())
	b.Patch(Update{Academics: Academics{GPA: Float(3.9)}})

	p := b.Profile()
	assert.Equal(t, 3.9, *p.GPA)
	require.NotNil(t, p.APCourses)
	assert.Equal(t, 6, *p.APCourses)
}

func TestBuilder_SnapshotIsIndependent(t *testing.T) {
	b := NewBuilder()
	b.SetAcademics(Academics{GPA: Float(3.2)})
	b.SetExtracurriculars(Extracurriculars{Activities: []Activity{{Name: "Debate"}}})

	snap := b.Profile()
	*snap.GPA = 1.0
	snap.Extracurriculars[0].Name = "changed"

	again := b.Profile()
	assert.Equal(t, 3.2, *again.GPA)
	assert.Equal(t, "Debate", again.Extracurriculars[0].Name)
}

func TestBuilder_PatchAndReset(t *testing.T) {
	b := NewBuilder()
	b.SetDemographics(Demographics{Ethnicity: "Asian", State: "California", FirstGen: true})
	b.Patch(Update{
		Scores:       Scores{SATScore: Int(1550)},
		Demographics: &Demographics{Income: "Under $30,000", FirstGen: true},
	})

	p := b.Profile()
	assert.Equal(t, "Asian", p.Demographics.Ethnicity)
	assert.Equal(t, "Under $30,000", p.Demographics.Income)
	assert.Equal(t, 1550, *p.SATScore)

	b.Reset()
	assert.Equal(t, Profile{}, b.Profile())
}

func TestExtracurricularsForm_ClearsOnEmpty(t *testing.T) {
	b := NewBuilder()
	b.SetExtracurriculars(ExtracurricularsForm{Activities: "Robotics"}.Parse())
	require.Len(t, b.Profile().Extracurriculars, 1)

	b.SetExtracurriculars(ExtracurricularsForm{}.Parse())
	assert.Empty(t, b.Profile().Extracurriculars)
}
