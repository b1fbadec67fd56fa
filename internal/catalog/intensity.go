package catalog

import "fmt"

// Intensity is a preset daily target level.
type Intensity string

const (
	Standard  Intensity = "standard"
	Superstar Intensity = "superstar"
	Legend    Intensity = "legend"
)

// Targets are the daily requirements of an intensity level.
type Targets struct {
	XP               int  `json:"xp"`
	Scary            int  `json:"scary"`
	Critical         int  `json:"critical"`
	OutreachRequired bool `json:"industry_outreach_required,omitempty"`
}

var intensityTargets = map[Intensity]Targets{
	Standard:  {XP: 160, Scary: 1, Critical: 2},
	Superstar: {XP: 200, Scary: 2, Critical: 3},
	Legend:    {XP: 240, Scary: 3, Critical: 4, OutreachRequired: true},
}

// Intensities lists the levels from easiest to hardest.
func Intensities() []Intensity {
	return []Intensity{Standard, Superstar, Legend}
}

// ParseIntensity validates a level name.
func ParseIntensity(s string) (Intensity, error) {
	level := Intensity(s)
	if _, ok := intensityTargets[level]; !ok {
		return "", fmt.Errorf("invalid intensity: %s (must be standard, superstar, or legend)", s)
	}
	return level, nil
}

// Targets returns the daily requirements for the level. Unknown levels get standard targets.
func (i Intensity) Targets() Targets {
	if t, ok := intensityTargets[i]; ok {
		return t
	}
	return intensityTargets[Standard]
}
