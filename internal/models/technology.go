package models

import (
	"fmt"
	"strings"
)

// Technology tracks permanent upgrades and the research points that buy them.
type Technology struct {
	Agriculture    bool `yaml:"agriculture"`
	Military       bool `yaml:"military"`
	Construction   bool `yaml:"construction"`
	Economy        bool `yaml:"economy"`
	ResearchPoints int  `yaml:"research_points"`
}

// ParseTechnology maps a technology name to the resource kind that selects it.
func ParseTechnology(s string) (ResourceType, error) {
	switch strings.ToLower(s) {
	case "agriculture":
		return Food, nil
	case "economy":
		return Gold, nil
	case "construction":
		return Wood, nil
	case "military":
		return Stone, nil
	}
	return 0, fmt.Errorf("%w: unknown technology %q", ErrUnknownChoice, s)
}

// TechnologyName is the inverse of ParseTechnology.
func TechnologyName(kind ResourceType) string {
	switch kind {
	case Food:
		return "agriculture"
	case Gold:
		return "economy"
	case Wood:
		return "construction"
	case Stone:
		return "military"
	}
	return "unknown"
}

func (t *Technology) AddResearchPoints(n int) {
	t.ResearchPoints += n
}

func (t *Technology) flag(kind ResourceType) *bool {
	switch kind {
	case Food:
		return &t.Agriculture
	case Gold:
		return &t.Economy
	case Wood:
		return &t.Construction
	case Stone:
		return &t.Military
	}
	return nil
}

// Advanced reports whether the technology selected by kind is researched.
func (t Technology) Advanced(kind ResourceType) bool {
	if f := t.flag(kind); f != nil {
		return *f
	}
	return false
}

// TryResearch grants the technology selected by kind for ResearchCost points.
// It returns false without touching state when points are short or the
// technology is already known.
func (t *Technology) TryResearch(kind ResourceType) bool {
	if t.ResearchPoints < ResearchCost {
		return false
	}
	f := t.flag(kind)
	if f == nil || *f {
		return false
	}
	*f = true
	t.ResearchPoints -= ResearchCost
	return true
}
