package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/swamp-dev/mastery/internal/catalog"
)

// WeakDomain is a domain whose window average fell below its weak threshold.
type WeakDomain struct {
	Domain  catalog.DomainID `json:"domain"`
	Average float64          `json:"average"`
	Target  int              `json:"target"`
}

// Suggestion is a concrete plan for tomorrow addressing one weak domain.
type Suggestion struct {
	Domain   catalog.DomainID `json:"domain"`
	Category catalog.Category `json:"category"`
	XP       int              `json:"xp"`
	Text     string           `json:"text"`
}

// WeakDomains returns, in catalog order, every domain averaging strictly less than
// WeakRatio of its target over the window. An empty window has no weak domains.
func (e *Engine) WeakDomains(window []DaySummary) []WeakDomain {
	avgs := e.domainAverages(window)
	if avgs == nil {
		return nil
	}

	var weak []WeakDomain
	for i, d := range e.catalog.Domains() {
		if avgs[i] < e.catalog.WeakThreshold(d) {
			weak = append(weak, WeakDomain{Domain: d.ID, Average: avgs[i], Target: d.Target})
		}
	}
	return weak
}

// TomorrowPreview turns weak domains into suggestions, weakest first. Each names the
// domain's first category and the XP still missing from its target.
func (e *Engine) TomorrowPreview(weak []WeakDomain) []Suggestion {
	var out []Suggestion
	for _, w := range weak {
		d, ok := e.catalog.Domain(w.Domain)
		if !ok || len(d.Categories) == 0 {
			continue
		}
		gap := int(math.Ceil(float64(w.Target) - w.Average))
		if gap < 1 {
			gap = 1
		}
		out = append(out, Suggestion{
			Domain:   d.ID,
			Category: d.Categories[0],
			XP:       gap,
			Text: fmt.Sprintf("Schedule %d XP of %s to lift %s (7-day average %.1f of %d)",
				gap, d.Categories[0], d.Name, w.Average, w.Target),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return weakAverage(weak, out[i].Domain) < weakAverage(weak, out[j].Domain)
	})
	return out
}

func weakAverage(weak []WeakDomain, id catalog.DomainID) float64 {
	for _, w := range weak {
		if w.Domain == id {
			return w.Average
		}
	}
	return 0
}
