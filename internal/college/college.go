// Package college holds the reference records the predictor scores against and
// the best-effort enrichment that may refresh them at startup.
package college

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCollege is returned for ids that are not in the catalog.
var ErrUnknownCollege = errors.New("unknown college")

// Range is an inclusive score band, encoded as a two-element array.
type Range struct {
	Low  float64
	High float64
}

// MarshalJSON encodes the range as [low, high].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

// UnmarshalJSON accepts exactly two numbers.
func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("range must have two elements, got %d", len(pair))
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

// College is an immutable reference record.
type College struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	MedianGPA      float64 `json:"median_gpa"`
	SATRange       Range   `json:"sat_range"`
	ACTRange       Range   `json:"act_range"`
}

// Patch carries the fields an enrichment lookup managed to fetch.
type Patch struct {
	AcceptanceRate *float64 `json:"acceptanceRate,omitempty"`
	MedianGPA      *float64 `json:"medianGpa,omitempty"`
	SATRange       *Range   `json:"satRange,omitempty"`
	ACTRange       *Range   `json:"actRange,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.AcceptanceRate == nil && p.MedianGPA == nil && p.SATRange == nil && p.ACTRange == nil
}

// Apply returns a copy of c with every field present in p overwritten.
func (c College) Apply(p Patch) College {
	if p.AcceptanceRate != nil {
		c.AcceptanceRate = *p.AcceptanceRate
	}
	if p.MedianGPA != nil {
		c.MedianGPA = *p.MedianGPA
	}
	if p.SATRange != nil {
		c.SATRange = *p.SATRange
	}
	if p.ACTRange != nil {
		c.ACTRange = *p.ACTRange
	}
	return c
}

// Fallback returns the static records in display order. Each call returns a
// fresh slice.
func Fallback() []College {
	return []College{
		{
			ID:             "UCB",
			Name:           "UC Berkeley",
			AcceptanceRate: 0.17,
			MedianGPA:      3.89,
			SATRange:       Range{1330, 1530},
			ACTRange:       Range{28, 35},
		},
		{
			ID:             "UCLA",
			Name:           "UCLA",
			AcceptanceRate: 0.14,
			MedianGPA:      3.92,
			SATRange:       Range{1280, 1530},
			ACTRange:       Range{27, 34},
		},
		{
			ID:             "USC",
			Name:           "USC",
			AcceptanceRate: 0.16,
			MedianGPA:      3.79,
			SATRange:       Range{1360, 1530},
			ACTRange:       Range{30, 34},
		},
	}
}
