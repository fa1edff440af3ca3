// Package catalog holds the static reference data the scoring engine consumes:
// agricultural practices with their weights and the weather shock variants.
package catalog

import (
	"fmt"
	"sort"
)

// Practice is an agricultural action a farmer may adopt in a season.
type Practice struct {
	ID       int     `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Weight   float64 `yaml:"weight" json:"weight"`
	Category string  `yaml:"category,omitempty" json:"category,omitempty"` // presentation grouping only
}

// WeatherShock is an adverse seasonal event. Impact is a negative fraction
// of the current score.
type WeatherShock struct {
	Name   string  `yaml:"name" json:"name"`
	Impact float64 `yaml:"impact" json:"impact"`
}

// Catalog is an immutable set of practices and weather shocks.
type Catalog struct {
	practices []Practice
	byID      map[int]Practice
	shocks    []WeatherShock
}

// New builds a catalog after validating its contents.
func New(practices []Practice, shocks []WeatherShock) (*Catalog, error) {
	c := &Catalog{
		practices: make([]Practice, len(practices)),
		byID:      make(map[int]Practice, len(practices)),
		shocks:    make([]WeatherShock, len(shocks)),
	}
	copy(c.practices, practices)
	copy(c.shocks, shocks)

	if err := c.validate(); err != nil {
		return nil, err
	}

	for _, p := range c.practices {
		c.byID[p.ID] = p
	}
	sort.Slice(c.practices, func(i, j int) bool {
		return c.practices[i].ID < c.practices[j].ID
	})

	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.practices) == 0 {
		return fmt.Errorf("catalog has no practices")
	}
	if len(c.shocks) == 0 {
		return fmt.Errorf("catalog has no weather shocks")
	}

	ids := make(map[int]bool)
	for _, p := range c.practices {
		if p.ID <= 0 {
			return fmt.Errorf("practice %q has non-positive id %d", p.Name, p.ID)
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate practice id: %d", p.ID)
		}
		ids[p.ID] = true

		if p.Name == "" {
			return fmt.Errorf("practice %d has empty name", p.ID)
		}
		if p.Weight <= 0 {
			return fmt.Errorf("practice %d has non-positive weight %v", p.ID, p.Weight)
		}
	}

	names := make(map[string]bool)
	for _, s := range c.shocks {
		if s.Name == "" {
			return fmt.Errorf("weather shock with empty name found")
		}
		if s.Name == NoShock {
			return fmt.Errorf("weather shock name %q is reserved", NoShock)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate weather shock: %s", s.Name)
		}
		names[s.Name] = true

		if s.Impact >= 0 || s.Impact < -1 {
			return fmt.Errorf("weather shock %s impact %v must be in [-1, 0)", s.Name, s.Impact)
		}
	}

	return nil
}

// Practices returns all practices ordered by id.
func (c *Catalog) Practices() []Practice {
	out := make([]Practice, len(c.practices))
	copy(out, c.practices)
	return out
}

// Practice returns the practice with the given id.
func (c *Catalog) Practice(id int) (Practice, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Resolve maps practice ids to practices, preserving order.
// Returns an error naming the first unknown id.
func (c *Catalog) Resolve(ids []int) ([]Practice, error) {
	out := make([]Practice, 0, len(ids))
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown practice id: %d", id)
		}
		out = append(out, p)
	}
	return out, nil
}

// Shocks returns the weather shock variants in catalog order.
func (c *Catalog) Shocks() []WeatherShock {
	out := make([]WeatherShock, len(c.shocks))
	copy(out, c.shocks)
	return out
}

// Shock returns the weather shock with the given name.
func (c *Catalog) Shock(name string) (WeatherShock, bool) {
	for _, s := range c.shocks {
		if s.Name == name {
			return s, true
		}
	}
	return WeatherShock{}, false
}

// Categories returns practices grouped by category, in first-seen order.
// Practices without a category are grouped under "Other".
func (c *Catalog) Categories() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, p := range c.practices {
		name := p.Category
		if name == "" {
			name = "Other"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name})
		}
		groups[i].Practices = append(groups[i].Practices, p)
	}

	return groups
}

// CategoryGroup is a named group of practices.
type CategoryGroup struct {
	Name      string     `json:"name"`
	Practices []Practice `json:"practices"`
}
