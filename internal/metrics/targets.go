package metrics

import (
	"fmt"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/record"
)

// TargetStatus compares one day against an intensity level.
type TargetStatus struct {
	Level    catalog.Intensity `json:"level"`
	Targets  catalog.Targets   `json:"targets"`
	XP       int               `json:"xp"`
	Scary    int               `json:"scary"`
	Critical int               `json:"critical"`
	Outreach bool              `json:"outreach"`
	Met      bool              `json:"met"`
	Missing  []string          `json:"missing,omitempty"`
}

// CheckTargets evaluates a day's record against the level's XP and task-count targets.
// outreach says whether any industry outreach was logged that day.
func (e *Engine) CheckTargets(r record.DailyRecord, level catalog.Intensity, outreach bool) TargetStatus {
	targets := level.Targets()
	status := TargetStatus{
		Level:    level,
		Targets:  targets,
		XP:       r.EffectiveXP(),
		Scary:    r.CompletedIn(catalog.Scary),
		Critical: r.CompletedIn(catalog.Critical),
		Outreach: outreach,
	}

	if status.XP < targets.XP {
		status.Missing = append(status.Missing, fmt.Sprintf("xp %d/%d", status.XP, targets.XP))
	}
	if status.Scary < targets.Scary {
		status.Missing = append(status.Missing, fmt.Sprintf("scary tasks %d/%d", status.Scary, targets.Scary))
	}
	if status.Critical < targets.Critical {
		status.Missing = append(status.Missing, fmt.Sprintf("critical tasks %d/%d", status.Critical, targets.Critical))
	}
	if targets.OutreachRequired && !outreach {
		status.Missing = append(status.Missing, "industry outreach")
	}

	status.Met = len(status.Missing) == 0
	return status
}
