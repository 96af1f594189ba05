package models

import (
	"errors"
	"strings"
	"testing"
)

func TestNewKingdom(t *testing.T) {
	k := NewKingdom(strings.Repeat("x", 80))
	if len(k.Name) != MaxNameLength-1 {
		t.Errorf("Expected name truncated to %d bytes, got %d", MaxNameLength-1, len(k.Name))
	}
	if k.Placed() {
		t.Errorf("Expected new kingdom to be unplaced")
	}
	if k.Population != 100 || k.Happiness != 50 || k.Resources != StartingResources() {
		t.Errorf("Unexpected starting state %+v", k)
	}
}

func TestProcessTurn(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.ProcessTurn()

	want := Resources{Gold: 1100, Food: 450, Wood: 220, Stone: 220}
	if k.Resources != want {
		t.Errorf("Expected %v, got %v", want, k.Resources)
	}
	if k.Population != 110 || k.Happiness != 55 {
		t.Errorf("Expected population 110 and happiness 55, got %d and %d", k.Population, k.Happiness)
	}
}

func TestProcessTurnAdvancedAndBuildings(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Technology = Technology{Agriculture: true, Economy: true, Construction: true, Military: true}
	k.Buildings = []Building{
		NewBuilding("Farm", Food, 20),
		{Name: "Market", Level: 2, Boost: Gold, BoostAmount: 30},
	}
	k.Happiness = 98
	k.ProcessTurn()

	want := Resources{Gold: 1000 + 200 + 30, Food: 500 + 100 + 20 - 100, Wood: 250, Stone: 250}
	if k.Resources != want {
		t.Errorf("Expected %v, got %v", want, k.Resources)
	}
	if k.Happiness != 100 {
		t.Errorf("Expected happiness capped at 100, got %d", k.Happiness)
	}
}

func TestProcessTurnStarvation(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Resources.Food = 0
	k.Population = 200
	k.Happiness = 5
	k.ProcessTurn()

	if k.Resources.Food != 0 {
		t.Errorf("Expected food clamped to 0, got %d", k.Resources.Food)
	}
	if k.Population != 190 || k.Happiness != 0 {
		t.Errorf("Expected population 190 and happiness 0, got %d and %d", k.Population, k.Happiness)
	}
}

func TestProcessTurnNeverNegative(t *testing.T) {
	k := NewKingdom("Ruin")
	k.Population = 0
	k.Resources.Food = 0
	k.ProcessTurn()
	if k.Population < 0 || k.Resources.Food != 50 {
		t.Errorf("Expected population >= 0 and food 50, got %d and %d", k.Population, k.Resources.Food)
	}

	// A corrupt ledger drives food far below zero; both values floor at zero.
	k = NewKingdom("Ruin")
	k.Population = 5
	k.Resources.Food = -1000
	k.ProcessTurn()
	if k.Population != 0 || k.Resources.Food != 0 {
		t.Errorf("Expected population and food clamped to 0, got %d and %d", k.Population, k.Resources.Food)
	}
}

func TestCollectTaxes(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Happiness = 3
	if tax := k.CollectTaxes(); tax != 200 {
		t.Errorf("Expected 200 tax, got %d", tax)
	}
	if k.Resources.Gold != 1200 || k.Happiness != 0 {
		t.Errorf("Expected 1200 gold and happiness 0, got %d and %d", k.Resources.Gold, k.Happiness)
	}
}

func TestBuild(t *testing.T) {
	k := NewKingdom("Stronghold")
	b, err := k.Build(Market)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Name != "Market" || b.Boost != Gold || b.BoostAmount != BuildingBaseBoost || b.Level != 1 {
		t.Errorf("Unexpected building %+v", b)
	}
	if k.Resources.Gold != 850 || k.Resources.Stone != 150 {
		t.Errorf("Expected 850 gold and 150 stone, got %v", k.Resources)
	}
}

func TestBuildFailureSpendsNothing(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Resources = Resources{Gold: 500, Wood: 10}
	if _, err := k.Build(Farm); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("Expected insufficient resources, got %v", err)
	}
	if k.Resources.Gold != 500 || len(k.Buildings) != 0 {
		t.Errorf("Expected no gold spent and no building, got %v and %d", k.Resources, len(k.Buildings))
	}
}

func TestBuildLimit(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Resources = Resources{Gold: 100000, Wood: 100000}
	for i := 0; i < MaxBuildings; i++ {
		if _, err := k.Build(Farm); err != nil {
			t.Fatalf("Build %d: %v", i, err)
		}
	}
	before := k.Resources
	if _, err := k.Build(Farm); !errors.Is(err, ErrBuildingLimit) {
		t.Fatalf("Expected building limit, got %v", err)
	}
	if k.Resources != before {
		t.Errorf("Expected no resources spent at capacity")
	}
}

func TestUpgradeBuilding(t *testing.T) {
	k := NewKingdom("Stronghold")
	if _, err := k.Build(Farm); err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := k.UpgradeBuilding(0)
	if err != nil {
		t.Fatalf("UpgradeBuilding: %v", err)
	}
	if b.Level != 2 || b.BoostAmount != 30 {
		t.Errorf("Expected level 2 with boost 30, got %+v", b)
	}
	// Build cost 100G/50W, first upgrade costs the same at level 1.
	if k.Resources.Gold != 800 || k.Resources.Wood != 100 {
		t.Errorf("Expected 800 gold and 100 wood, got %v", k.Resources)
	}
	if _, err := k.UpgradeBuilding(3); !errors.Is(err, ErrNoSuchBuilding) {
		t.Errorf("Expected no such building, got %v", err)
	}
}

func TestRecruitAndTrain(t *testing.T) {
	k := NewKingdom("Stronghold")
	if err := k.Recruit(20); err != nil {
		t.Fatalf("Recruit: %v", err)
	}
	if k.Military.Soldiers != 20 || k.Resources.Gold != 800 || k.Resources.Food != 400 {
		t.Errorf("Unexpected state after recruit: %+v %v", k.Military, k.Resources)
	}
	if err := k.Recruit(0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected invalid amount, got %v", err)
	}

	if err := k.TrainTroops(Siege, 4); err != nil {
		t.Fatalf("TrainTroops: %v", err)
	}
	if k.Military.Siege != 4 || k.Resources.Gold != 700 {
		t.Errorf("Expected 4 siege and 700 gold, got %+v %v", k.Military, k.Resources)
	}
	if err := k.TrainTroops(Cavalry, 1000); !errors.Is(err, ErrInsufficientResources) {
		t.Errorf("Expected insufficient resources, got %v", err)
	}
	if k.Military.Cavalry != 0 {
		t.Errorf("Expected failed training to add nothing")
	}
}

func TestRecruitFailureIsAtomic(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Resources = Resources{Gold: 1000, Food: 10}
	if err := k.Recruit(5); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("Expected insufficient resources, got %v", err)
	}
	if k.Resources.Gold != 1000 {
		t.Errorf("Expected gold untouched when food is short, got %d", k.Resources.Gold)
	}
}

func TestRecruitAndTrainRejectOverflowingCounts(t *testing.T) {
	tests := []struct {
		name string
		act  func(k *Kingdom) error
	}{
		{"recruit wraps", func(k *Kingdom) error { return k.Recruit(7378697629483820647) }},
		{"recruit above save range", func(k *Kingdom) error { return k.Recruit(MaxAmount/10 + 1) }},
		{"train wraps", func(k *Kingdom) error { return k.TrainTroops(Soldiers, 1844674407370955162) }},
		{"train above save range", func(k *Kingdom) error { return k.TrainTroops(Siege, MaxAmount/25+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKingdom("Stronghold")
			before := *k
			if err := tt.act(k); !errors.Is(err, ErrAmountTooLarge) {
				t.Fatalf("Expected amount too large, got %v", err)
			}
			if k.Resources != before.Resources || k.Military != before.Military {
				t.Errorf("Expected nothing spent or trained, got %v %+v", k.Resources, k.Military)
			}
		})
	}
}

func TestCost(t *testing.T) {
	if got, err := Cost(MaxAmount/10, 10); err != nil || got != MaxAmount/10*10 {
		t.Errorf("Expected largest fitting cost, got %d, %v", got, err)
	}
	if _, err := Cost(MaxAmount+1, 0); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("Expected count above save range to be refused, got %v", err)
	}
	if _, err := Cost(-1, 10); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected invalid amount, got %v", err)
	}
}

func TestManagePopulation(t *testing.T) {
	k := NewKingdom("Stronghold")
	k.Happiness = 90
	if err := k.ManagePopulation(RaiseHappiness); err != nil {
		t.Fatalf("RaiseHappiness: %v", err)
	}
	if k.Happiness != 100 {
		t.Errorf("Expected happiness capped at 100, got %d", k.Happiness)
	}
	if err := k.ManagePopulation(BoostPopulation); err != nil {
		t.Fatalf("BoostPopulation: %v", err)
	}
	if k.Population != 150 || k.Resources.Gold != 700 || k.Resources.Food != 350 {
		t.Errorf("Unexpected state %d %v", k.Population, k.Resources)
	}
	if err := k.ManagePopulation(PopulationChoice(9)); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Expected unknown choice, got %v", err)
	}
}

func TestResearchAlwaysGrantsPoints(t *testing.T) {
	k := NewKingdom("Stronghold")
	for i := 0; i < 4; i++ {
		if k.Research(Food) {
			t.Fatalf("Expected research %d to fail with %d points", i, k.Technology.ResearchPoints)
		}
	}
	if k.Technology.ResearchPoints != 80 {
		t.Fatalf("Expected 80 points, got %d", k.Technology.ResearchPoints)
	}
	k.Research(Food)
	if !k.Research(Food) {
		t.Fatalf("Expected research to succeed with 100 points")
	}
	if k.Technology.ResearchPoints != 20 {
		t.Errorf("Expected 20 points left, got %d", k.Technology.ResearchPoints)
	}
	// Already known: fails, but still earns points.
	k.Technology.ResearchPoints = 150
	if k.Research(Food) {
		t.Errorf("Expected redundant research to fail")
	}
	if k.Technology.ResearchPoints != 170 {
		t.Errorf("Expected 170 points, got %d", k.Technology.ResearchPoints)
	}
}

func TestFortifyAndSpy(t *testing.T) {
	k := NewKingdom("Stronghold")
	if err := k.Fortify(); err != nil {
		t.Fatalf("Fortify: %v", err)
	}
	if k.Military.Soldiers != 10 || k.Resources.Stone != 150 || k.Resources.Gold != 900 {
		t.Errorf("Unexpected state after fortify %+v %v", k.Military, k.Resources)
	}

	target := NewKingdom("Northland")
	target.Military.Cavalry = 7
	report, err := k.Spy(target)
	if err != nil {
		t.Fatalf("Spy: %v", err)
	}
	if report.Name != "Northland" || report.Military.Cavalry != 7 {
		t.Errorf("Unexpected report %+v", report)
	}
	if k.Resources.Gold != 850 {
		t.Errorf("Expected spying to cost %d gold, got %d left", SpyCost, k.Resources.Gold)
	}

	k.Resources.Gold = 10
	if _, err := k.Spy(target); !errors.Is(err, ErrInsufficientResources) {
		t.Errorf("Expected insufficient resources, got %v", err)
	}
}

func TestKingdomBinaryRoundTrip(t *testing.T) {
	k := NewKingdom("Westeros")
	k.Military = Military{Soldiers: 50, Archers: 3, Cavalry: 2, Siege: 1}
	k.Technology = Technology{Economy: true, ResearchPoints: 40}
	k.Buildings = []Building{NewBuilding("Quarry", Stone, 20)}
	k.SetPosition(4, 7)

	data, err := k.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Kingdom
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Name != k.Name || got.Military != k.Military || got.Technology != k.Technology ||
		got.X != 4 || got.Y != 7 || len(got.Buildings) != 1 || got.Buildings[0] != k.Buildings[0] {
		t.Errorf("Expected %+v, got %+v", k, got)
	}
}
