package profile

import (
	"math"
	"strconv"
	"strings"
)

// Option lists shown by the demographics step.
var (
	EthnicityOptions = []string{
		"Asian", "Black/African American", "Hispanic/Latino", "White", "Other", "Prefer not to say",
	}
	StateOptions = []string{"California", "Texas", "New York", "Florida", "Other"}
	IncomeOptions = []string{
		"Under $30,000", "$30,000 - $60,000", "$60,000 - $100,000", "$100,000 - $150,000", "Over $150,000",
	}
)

// ParseFloat turns form text into an optional number. Empty, malformed and
// NaN input all come back as nil.
func ParseFloat(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseInt turns form text into an optional whole number. Like ParseFloat it
// rejects trailing junk, so "12abc" is nil.
func ParseInt(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &v
}

// ParseActivities splits free text on commas and newlines. Entries from the
// leadership box are flagged as leadership roles.
func ParseActivities(text string, leadership bool) []Activity {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
	out := make([]Activity, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			continue
		}
		out = append(out, Activity{Name: name, Tier: 4, Leadership: leadership})
	}
	return out
}

// AcademicsForm is the raw text of the academics step.
type AcademicsForm struct {
	GPA         string `json:"gpa"`
	WeightedGPA string `json:"weighted_gpa"`
	APCourses   string `json:"ap_courses"`
	IBCourses   string `json:"ib_courses"`
	ClassRank   string `json:"class_rank"`
	ClassSize   string `json:"class_size"`
}

// Parse converts the form into a group update.
func (f AcademicsForm) Parse() Academics {
	return Academics{
		GPA:         ParseFloat(f.GPA),
		WeightedGPA: ParseFloat(f.WeightedGPA),
		APCourses:   ParseInt(f.APCourses),
		IBCourses:   ParseInt(f.IBCourses),
		ClassRank:   ParseInt(f.ClassRank),
		ClassSize:   ParseInt(f.ClassSize),
	}
}

// ScoresForm is the raw text of the test score step.
type ScoresForm struct {
	SATScore string `json:"sat_score"`
	ACTScore string `json:"act_score"`
}

// Parse converts the form into a group update.
func (f ScoresForm) Parse() Scores {
	return Scores{SATScore: ParseInt(f.SATScore), ACTScore: ParseInt(f.ACTScore)}
}

// ExtracurricularsForm holds the two free-text boxes of the activities step.
type ExtracurricularsForm struct {
	Leadership string `json:"leadership"`
	Activities string `json:"activities"`
}

// Parse converts the form into a group update. The result always carries a
// non-nil list so submitting empty boxes clears earlier entries.
func (f ExtracurricularsForm) Parse() Extracurriculars {
	acts := append(ParseActivities(f.Leadership, true), ParseActivities(f.Activities, false)...)
	return Extracurriculars{Activities: acts}
}
