// Package profile holds the student's academic profile as it is collected by the
// wizard, one field group at a time.
package profile

import "math"

// Defaults substituted by the predictor when a field is absent.
const (
	DefaultGPA = 3.0
	DefaultSAT = 1200
)

// Activity is a single extracurricular entry.
type Activity struct {
	Name              string `json:"name" yaml:"name"`
	Tier              int    `json:"tier" yaml:"tier"` // 1 (national) .. 4 (school)
	YearsParticipated int    `json:"years_participated" yaml:"years_participated"`
	Leadership        bool   `json:"leadership" yaml:"leadership"`
}

// Demographics are optional background fields.
type Demographics struct {
	Ethnicity string `json:"ethnicity,omitempty" yaml:"ethnicity"`
	FirstGen  bool   `json:"first_gen" yaml:"first_gen"`
	Income    string `json:"income,omitempty" yaml:"income"`
	State     string `json:"state,omitempty" yaml:"state"`
}

// Profile is the cumulative record. Numeric fields are nil until set.
//
// Extracurriculars and Demographics are collected and reported back to the
// user but are not read by the predictor.
type Profile struct {
	GPA         *float64 `json:"gpa,omitempty"`
	WeightedGPA *float64 `json:"weighted_gpa,omitempty"`
	SATScore    *int     `json:"sat_score,omitempty"`
	ACTScore    *int     `json:"act_score,omitempty"`
	APCourses   *int     `json:"ap_courses,omitempty"`
	IBCourses   *int     `json:"ib_courses,omitempty"`
	ClassRank   *int     `json:"class_rank,omitempty"`
	ClassSize   *int     `json:"class_size,omitempty"`

	Extracurriculars []Activity   `json:"extracurriculars,omitempty"`
	Demographics     Demographics `json:"demographics"`
}

// EffectiveGPA returns the unweighted GPA, or DefaultGPA when it is absent.
// Zero and NaN count as absent.
func (p Profile) EffectiveGPA() float64 {
	if p.GPA == nil || math.IsNaN(*p.GPA) || *p.GPA == 0 {
		return DefaultGPA
	}
	return *p.GPA
}

// EffectiveSAT returns the SAT score, or DefaultSAT when it is absent or zero.
func (p Profile) EffectiveSAT() int {
	if p.SATScore == nil || *p.SATScore == 0 {
		return DefaultSAT
	}
	return *p.SATScore
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.GPA = cloneFloat(p.GPA)
	out.WeightedGPA = cloneFloat(p.WeightedGPA)
	out.SATScore = cloneInt(p.SATScore)
	out.ACTScore = cloneInt(p.ACTScore)
	out.APCourses = cloneInt(p.APCourses)
	out.IBCourses = cloneInt(p.IBCourses)
	out.ClassRank = cloneInt(p.ClassRank)
	out.ClassSize = cloneInt(p.ClassSize)
	if p.Extracurriculars != nil {
		out.Extracurriculars = append([]Activity(nil), p.Extracurriculars...)
	}
	return out
}

// Float returns a pointer to v, for building profiles in code.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
