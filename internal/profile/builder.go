package profile

import "sync"

// Academics is the first wizard group.
type Academics struct {
	GPA         *float64 `json:"gpa,omitempty"`
	WeightedGPA *float64 `json:"weighted_gpa,omitempty"`
	APCourses   *int     `json:"ap_courses,omitempty"`
	IBCourses   *int     `json:"ib_courses,omitempty"`
	ClassRank   *int     `json:"class_rank,omitempty"`
	ClassSize   *int     `json:"class_size,omitempty"`
}

// Scores is the standardized test group.
type Scores struct {
	SATScore *int `json:"sat_score,omitempty"`
	ACTScore *int `json:"act_score,omitempty"`
}

// Extracurriculars replaces the activity list when Activities is non-nil.
type Extracurriculars struct {
	Activities []Activity `json:"activities"`
}

// Update is a partial edit from the results view. Nil fields are left alone.
type Update struct {
	Academics
	Scores
	Activities   []Activity    `json:"activities,omitempty"`
	Demographics *Demographics `json:"demographics,omitempty"`
}

// Builder accumulates field groups into a Profile. The group setters own
// their fields: a nil value from a submitted form clears the field, so bad
// or empty input falls back to the scoring defaults. Patch is the only
// partial merge.
type Builder struct {
	mu sync.RWMutex
	p  Profile
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetAcademics replaces the academics group.
func (b *Builder) SetAcademics(a Academics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p.GPA = cloneFloat(a.GPA)
	b.p.WeightedGPA = cloneFloat(a.WeightedGPA)
	b.p.APCourses = cloneInt(a.APCourses)
	b.p.IBCourses = cloneInt(a.IBCourses)
	b.p.ClassRank = cloneInt(a.ClassRank)
	b.p.ClassSize = cloneInt(a.ClassSize)
}

// SetScores replaces the test score group.
func (b *Builder) SetScores(s Scores) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p.SATScore = cloneInt(s.SATScore)
	b.p.ACTScore = cloneInt(s.ACTScore)
}

// SetExtracurriculars replaces the activity list.
func (b *Builder) SetExtracurriculars(e Extracurriculars) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.Activities != nil {
		b.p.Extracurriculars = append([]Activity(nil), e.Activities...)
	}
}

// SetDemographics overwrites the demographic fields that are non-empty.
// FirstGen is always taken as given since false is a real answer.
func (b *Builder) SetDemographics(d Demographics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applyDemographics(d)
}

// Patch merges a results-view edit. Nil fields are left alone.
func (b *Builder) Patch(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mergeAcademics(u.Academics)
	b.mergeScores(u.Scores)
	if u.Activities != nil {
		b.p.Extracurriculars = append([]Activity(nil), u.Activities...)
	}
	if u.Demographics != nil {
		b.applyDemographics(*u.Demographics)
	}
}

// Reset drops everything collected so far.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = Profile{}
}

// Profile returns a snapshot of the accumulated profile.
func (b *Builder) Profile() Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.p.Clone()
}

func (b *Builder) mergeAcademics(a Academics) {
	if a.GPA != nil {
		b.p.GPA = cloneFloat(a.GPA)
	}
	if a.WeightedGPA != nil {
		b.p.WeightedGPA = cloneFloat(a.WeightedGPA)
	}
	if a.APCourses != nil {
		b.p.APCourses = cloneInt(a.APCourses)
	}
	if a.IBCourses != nil {
		b.p.IBCourses = cloneInt(a.IBCourses)
	}
	if a.ClassRank != nil {
		b.p.ClassRank = cloneInt(a.ClassRank)
	}
	if a.ClassSize != nil {
		b.p.ClassSize = cloneInt(a.ClassSize)
	}
}

func (b *Builder) mergeScores(s Scores) {
	if s.SATScore != nil {
		b.p.SATScore = cloneInt(s.SATScore)
	}
	if s.ACTScore != nil {
		b.p.ACTScore = cloneInt(s.ACTScore)
	}
}

func (b *Builder) applyDemographics(d Demographics) {
	if d.Ethnicity != "" {
		b.p.Demographics.Ethnicity = d.Ethnicity
	}
	if d.Income != "" {
		b.p.Demographics.Income = d.Income
	}
	if d.State != "" {
		b.p.Demographics.State = d.State
	}
	b.p.Demographics.FirstGen = d.FirstGen
}
