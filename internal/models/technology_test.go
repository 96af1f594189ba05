package models

import "testing"

func TestTryResearch(t *testing.T) {
	var tech Technology
	if tech.TryResearch(Food) {
		t.Fatalf("Expected research to fail without points")
	}

	tech.AddResearchPoints(250)
	if !tech.TryResearch(Food) {
		t.Fatalf("Expected agriculture research to succeed")
	}
	if !tech.Agriculture || tech.ResearchPoints != 150 {
		t.Fatalf("Expected agriculture and 150 points, got %+v", tech)
	}

	if tech.TryResearch(Food) {
		t.Errorf("Expected repeated research to fail")
	}
	if tech.ResearchPoints != 150 {
		t.Errorf("Expected points untouched by redundant research, got %d", tech.ResearchPoints)
	}
}

func TestTechnologyMapping(t *testing.T) {
	tests := []struct {
		name string
		kind ResourceType
		get  func(Technology) bool
	}{
		{"agriculture", Food, func(t Technology) bool { return t.Agriculture }},
		{"economy", Gold, func(t Technology) bool { return t.Economy }},
		{"construction", Wood, func(t Technology) bool { return t.Construction }},
		{"military", Stone, func(t Technology) bool { return t.Military }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tech := Technology{ResearchPoints: ResearchCost}
			if !tech.TryResearch(tt.kind) || !tt.get(tech) {
				t.Errorf("Expected %s to be researched, got %+v", tt.name, tech)
			}
			kind, err := ParseTechnology(tt.name)
			if err != nil || kind != tt.kind {
				t.Errorf("ParseTechnology(%q) = %v, %v", tt.name, kind, err)
			}
			if TechnologyName(tt.kind) != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, TechnologyName(tt.kind))
			}
		})
	}
}
