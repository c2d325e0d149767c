// Package predict turns a (college, profile) pair into a synthetic admission
// estimate.
//
// The estimate is not a model. It is a uniform random base plus two
// threshold comparisons, clamped, and bucketed into a category. The factor
// weights that accompany it are mostly random and are not an attribution.
//
// # Determinism
//
// All randomness comes from the Source handed to New. Given the same seed,
// college and profile, Predict returns the same Result. Draw order is fixed:
// base probability, then the Extracurriculars, Course Rigor and Demographics
// weights.
package predict

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"admitcast/internal/college"
	"admitcast/internal/profile"
)

// Score bounds and bonuses.
const (
	MinProbability = 0.05
	MaxProbability = 0.95

	baseMin   = 0.1
	baseSpan  = 0.6
	gpaAbove  = 0.15
	gpaBelow  = -0.10
	satAbove  = 0.10
	satBelow  = -0.05
	weightPct = 100

	extracurricularSpan = 30
	courseRigorSpan     = 20
	demographicsSpan    = 15
)

// Factor names, in display order.
const (
	FactorGPA              = "GPA"
	FactorSAT              = "SAT Score"
	FactorExtracurriculars = "Extracurriculars"
	FactorCourseRigor      = "Course Rigor"
	FactorDemographics     = "Demographics"
)

// FactorNames lists every factor a Result carries.
var FactorNames = []string{FactorGPA, FactorSAT, FactorExtracurriculars, FactorCourseRigor, FactorDemographics}

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeeded returns a deterministic source.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Factor is one displayed weight.
type Factor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Result is recomputed from scratch on every call.
type Result struct {
	Probability float64            `json:"probability"`
	Category    Category           `json:"category"`
	Factors     map[string]float64 `json:"factors"`
	Advice      string             `json:"advice"`
}

// OrderedFactors returns the weights in FactorNames order.
func (r Result) OrderedFactors() []Factor {
	out := make([]Factor, 0, len(FactorNames))
	for _, name := range FactorNames {
		if w, ok := r.Factors[name]; ok {
			out = append(out, Factor{Name: name, Weight: w})
		}
	}
	return out
}

// Percent formats the probability for display.
func (r Result) Percent() string {
	return fmt.Sprintf("%.0f%%", r.Probability*100)
}

// Predictor scores profiles. It is safe for concurrent use.
type Predictor struct {
	mu  sync.Mutex
	src Source
}

// New returns a predictor drawing from src. A nil src falls back to an
// unseeded generator.
func New(src Source) *Predictor {
	if src == nil {
		src = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Predictor{src: src}
}

// Predict scores p against c. It never fails: absent fields fall back to
// profile.DefaultGPA and profile.DefaultSAT.
func (pr *Predictor) Predict(c college.College, p profile.Profile) Result {
	pr.mu.Lock()
	base := baseMin + pr.src.Float64()*baseSpan
	extra := (pr.src.Float64() - 0.5) * extracurricularSpan
	rigor := (pr.src.Float64() - 0.5) * courseRigorSpan
	demo := (pr.src.Float64() - 0.5) * demographicsSpan
	pr.mu.Unlock()

	gpa := gpaBonus(c, p)
	sat := satBonus(c, p)
	prob := Clamp(base + gpa + sat)
	cat := CategoryFor(prob)

	return Result{
		Probability: prob,
		Category:    cat,
		Factors: map[string]float64{
			FactorGPA:              gpa * weightPct,
			FactorSAT:              sat * weightPct,
			FactorExtracurriculars: extra,
			FactorCourseRigor:      rigor,
			FactorDemographics:     demo,
		},
		Advice: advice(c, cat, prob),
	}
}

// Deterministic returns the non-random part of the score for p against c.
func Deterministic(c college.College, p profile.Profile) float64 {
	return gpaBonus(c, p) + satBonus(c, p)
}

// Clamp bounds a raw score to [MinProbability, MaxProbability].
func Clamp(v float64) float64 {
	return math.Max(MinProbability, math.Min(MaxProbability, v))
}

func gpaBonus(c college.College, p profile.Profile) float64 {
	if p.EffectiveGPA() > c.MedianGPA {
		return gpaAbove
	}
	return gpaBelow
}

func satBonus(c college.College, p profile.Profile) float64 {
	if float64(p.EffectiveSAT()) > c.SATRange.High {
		return satAbove
	}
	return satBelow
}

func advice(c college.College, cat Category, prob float64) string {
	tail := "Consider strengthening test scores or extracurriculars."
	if prob > 0.5 {
		tail = "Strong academic foundation!"
	}
	return fmt.Sprintf("Your profile shows %s odds for %s. %s", strings.ToLower(cat.String()), c.Name, tail)
}
