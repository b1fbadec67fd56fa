// Package catalog holds the static domain and category tables that drive XP accounting.
//
// A Catalog is immutable once built. The metrics engine and the record operations
// receive one at construction, so tests can substitute an alternate domain set.
package catalog

import (
	"fmt"
	"sort"
)

// DomainID identifies one of the tracked life domains.
type DomainID string

const (
	Creation   DomainID = "creation"
	Physical   DomainID = "physical"
	Meditation DomainID = "meditation"
	Recovery   DomainID = "recovery"
)

// Category is a task or activity category.
type Category string

const (
	Scary    Category = "scary"
	Critical Category = "critical"
)

// Domain describes a domain's daily target and the categories that feed it.
type Domain struct {
	ID         DomainID   `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Target     int        `yaml:"target" json:"target"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// Catalog is the read-only table of domains, categories and scoring thresholds.
type Catalog struct {
	domains    []Domain
	byCategory map[Category]DomainID
	fixedXP    map[Category]int

	// QualifyingXP is the daily XP a day needs to count toward a streak or consistency.
	QualifyingXP int
	// IntensiveXP is the daily XP a day needs to count toward intensity.
	IntensiveXP int
	// WeakRatio is the fraction of a domain target below which a domain is weak.
	WeakRatio float64
}

// New builds a catalog from the given domains and special fixed-XP categories.
// A category may belong to at most one domain and may not also be special.
func New(domains []Domain, special map[Category]int) (*Catalog, error) {
	c := &Catalog{
		byCategory:   make(map[Category]DomainID),
		fixedXP:      make(map[Category]int),
		QualifyingXP: 160,
		IntensiveXP:  200,
		WeakRatio:    0.7,
	}

	seen := make(map[DomainID]bool)
	for _, d := range domains {
		if d.ID == "" {
			return nil, fmt.Errorf("domain with empty id")
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate domain %s", d.ID)
		}
		if d.Target <= 0 {
			return nil, fmt.Errorf("domain %s: target must be positive", d.ID)
		}
		seen[d.ID] = true

		cats := append([]Category(nil), d.Categories...)
		for _, cat := range cats {
			if owner, ok := c.byCategory[cat]; ok {
				return nil, fmt.Errorf("category %s belongs to both %s and %s", cat, owner, d.ID)
			}
			c.byCategory[cat] = d.ID
		}
		d.Categories = cats
		c.domains = append(c.domains, d)
	}

	for cat, xp := range special {
		if _, ok := c.byCategory[cat]; ok {
			return nil, fmt.Errorf("special category %s is also mapped to a domain", cat)
		}
		if xp <= 0 {
			return nil, fmt.Errorf("special category %s: xp must be positive", cat)
		}
		c.fixedXP[cat] = xp
	}

	return c, nil
}

// Default returns the standard four-domain catalog.
func Default() *Catalog {
	c, err := New([]Domain{
		{
			ID: Creation, Name: "Creation", Target: 40,
			Categories: []Category{"writing", "acting", "filmmaking", "music", "content"},
		},
		{
			ID: Physical, Name: "Physical", Target: 40,
			Categories: []Category{"workout", "cardio", "strength", "stretching", "sports"},
		},
		{
			ID: Meditation, Name: "Meditation", Target: 40,
			Categories: []Category{"meditation", "breathwork", "journaling", "visualization"},
		},
		{
			ID: Recovery, Name: "Recovery", Target: 40,
			Categories: []Category{"sleep", "nutrition", "hydration", "rest"},
		},
	}, map[Category]int{
		Scary:    10,
		Critical: 5,
	})
	if err != nil {
		panic("catalog.Default: " + err.Error())
	}
	return c
}

// Domains returns the domains in table order.
func (c *Catalog) Domains() []Domain {
	out := make([]Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

// DomainIDs returns the domain identifiers in table order.
func (c *Catalog) DomainIDs() []DomainID {
	ids := make([]DomainID, len(c.domains))
	for i, d := range c.domains {
		ids[i] = d.ID
	}
	return ids
}

// Domain looks up a domain by id.
func (c *Catalog) Domain(id DomainID) (Domain, bool) {
	for _, d := range c.domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

// DomainOf returns the domain that owns a category. Special categories have no domain.
func (c *Catalog) DomainOf(cat Category) (DomainID, bool) {
	id, ok := c.byCategory[cat]
	return id, ok
}

// FixedXP returns the fixed XP for a special category.
func (c *Catalog) FixedXP(cat Category) (int, bool) {
	xp, ok := c.fixedXP[cat]
	return xp, ok
}

// IsSpecial reports whether cat is a fixed-XP category outside the domains.
func (c *Catalog) IsSpecial(cat Category) bool {
	_, ok := c.fixedXP[cat]
	return ok
}

// Valid reports whether cat is known to the catalog.
func (c *Catalog) Valid(cat Category) bool {
	_, inDomain := c.byCategory[cat]
	return inDomain || c.IsSpecial(cat)
}

// Categories returns every known category sorted by name.
func (c *Catalog) Categories() []Category {
	cats := make([]Category, 0, len(c.byCategory)+len(c.fixedXP))
	for cat := range c.byCategory {
		cats = append(cats, cat)
	}
	for cat := range c.fixedXP {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// WeakThreshold returns the average below which a domain counts as weak.
func (c *Catalog) WeakThreshold(d Domain) float64 {
	return float64(d.Target) * c.WeakRatio
}
