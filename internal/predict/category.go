package predict

import (
	"encoding/json"
	"fmt"
)

// Category buckets a probability. Values are ordered: a higher Category means
// better odds.
type Category int

const (
	CategoryHighReach Category = iota
	CategoryReach
	CategoryTarget
	CategorySafety
)

// Lower bounds for each category.
const (
	SafetyThreshold = 0.70
	TargetThreshold = 0.40
	ReachThreshold  = 0.15
)

// CategoryFor maps a clamped probability to its category.
func CategoryFor(p float64) Category {
	switch {
	case p >= SafetyThreshold:
		return CategorySafety
	case p >= TargetThreshold:
		return CategoryTarget
	case p >= ReachThreshold:
		return CategoryReach
	default:
		return CategoryHighReach
	}
}

func (c Category) String() string {
	switch c {
	case CategorySafety:
		return "Safety"
	case CategoryTarget:
		return "Target"
	case CategoryReach:
		return "Reach"
	case CategoryHighReach:
		return "High Reach"
	default:
		return "Unknown"
	}
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, error) {
	for c := CategoryHighReach; c <= CategorySafety; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalJSON encodes the display name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes the display name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
