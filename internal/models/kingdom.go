package models

import "fmt"

// Unplaced is the coordinate of a kingdom that has no cell on the map.
const Unplaced = -1

// PopulationChoice selects a population management policy.
type PopulationChoice int

const (
	RaiseHappiness PopulationChoice = iota + 1
	BoostPopulation
)

var (
	happinessCost = Resources{Gold: 100, Food: 50}
	growthCost    = Resources{Gold: 200, Food: 100}
	fortifyCost   = Resources{Gold: 100, Stone: 50}
)

// Kingdom aggregates everything a single realm owns.
type Kingdom struct {
	Name       string     `yaml:"name"`
	Population int        `yaml:"population"`
	Happiness  int        `yaml:"happiness"`
	Resources  Resources  `yaml:"resources"`
	Military   Military   `yaml:"military"`
	Technology Technology `yaml:"technology"`
	Buildings  []Building `yaml:"buildings"`
	X          int        `yaml:"x"`
	Y          int        `yaml:"y"`
}

// NewKingdom founds a kingdom with the standard endowment, unplaced.
func NewKingdom(name string) *Kingdom {
	return &Kingdom{
		Name:       TruncateName(name),
		Population: 100,
		Happiness:  50,
		Resources:  StartingResources(),
		X:          Unplaced,
		Y:          Unplaced,
	}
}

func (k *Kingdom) Placed() bool {
	return k.X != Unplaced && k.Y != Unplaced
}

func (k *Kingdom) SetPosition(x, y int) {
	k.X, k.Y = x, y
}

// ProcessTurn runs one tick of production, consumption and the
// happiness/population feedback.
func (k *Kingdom) ProcessTurn() {
	r := &k.Resources
	r.Food += pick(k.Technology.Agriculture, 100, 50)
	r.Gold += pick(k.Technology.Economy, 200, 100)
	r.Wood += pick(k.Technology.Construction, 50, 20)
	r.Stone += pick(k.Technology.Military, 50, 20)

	for _, b := range k.Buildings {
		r.Credit(b.Boost, b.BoostAmount)
	}

	r.Food -= k.Population
	if r.Food >= 0 {
		k.Happiness = min(100, k.Happiness+5)
		k.Population += 10
	} else {
		k.Happiness = max(0, k.Happiness-10)
		k.Population -= 10
	}

	k.Population = max(0, k.Population)
	r.Food = max(0, r.Food)
}

func pick(advanced bool, yes, no int) int {
	if advanced {
		return yes
	}
	return no
}

// CollectTaxes adds two gold per head and costs five happiness.
func (k *Kingdom) CollectTaxes() int {
	tax := k.Population * 2
	k.Resources.Gold += tax
	k.Happiness = max(0, k.Happiness-5)
	return tax
}

// Build pays for and adds a structure of the given kind.
func (k *Kingdom) Build(kind BuildingKind) (*Building, error) {
	if len(k.Buildings) >= MaxBuildings {
		return nil, ErrBuildingLimit
	}
	if err := k.Resources.DebitAll(kind.Cost); err != nil {
		return nil, fmt.Errorf("build %s: %w", kind.Name, err)
	}
	k.Buildings = append(k.Buildings, NewBuilding(kind.Name, kind.Boost, BuildingBaseBoost))
	return &k.Buildings[len(k.Buildings)-1], nil
}

// UpgradeBuilding raises the level of the building at index.
func (k *Kingdom) UpgradeBuilding(index int) (*Building, error) {
	if index < 0 || index >= len(k.Buildings) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchBuilding, index)
	}
	b := &k.Buildings[index]
	if err := k.Resources.DebitAll(b.UpgradeCost()); err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", b.Name, err)
	}
	b.Upgrade()
	return b, nil
}

// Recruit hires soldiers for 10 gold and 5 food each.
func (k *Kingdom) Recruit(count int) error {
	gold, err := Cost(count, 10)
	if err != nil {
		return fmt.Errorf("recruit %d: %w", count, err)
	}
	if err := k.Resources.DebitAll(Resources{Gold: gold, Food: gold / 2}); err != nil {
		return fmt.Errorf("recruit %d: %w", count, err)
	}
	k.Military.AddSoldiers(count)
	return nil
}

// TrainTroops pays the unit's gold price and trains amount units.
func (k *Kingdom) TrainTroops(unit UnitType, amount int) error {
	cost, err := Cost(amount, unit.TrainingCost())
	if err != nil {
		return fmt.Errorf("train %d %s: %w", amount, unit, err)
	}
	if err := k.Resources.Debit(Gold, cost); err != nil {
		return fmt.Errorf("train %d %s: %w", amount, unit, err)
	}
	k.Military.Train(unit.TrainingResource(), amount)
	return nil
}

// ManagePopulation spends resources on happiness or growth.
func (k *Kingdom) ManagePopulation(choice PopulationChoice) error {
	switch choice {
	case RaiseHappiness:
		if err := k.Resources.DebitAll(happinessCost); err != nil {
			return fmt.Errorf("raise happiness: %w", err)
		}
		k.Happiness = min(100, k.Happiness+20)
	case BoostPopulation:
		if err := k.Resources.DebitAll(growthCost); err != nil {
			return fmt.Errorf("boost population: %w", err)
		}
		k.Population += 50
	default:
		return ErrUnknownChoice
	}
	return nil
}

// Research attempts the technology selected by kind. Research points are
// granted after every attempt, including failed ones.
func (k *Kingdom) Research(kind ResourceType) bool {
	ok := k.Technology.TryResearch(kind)
	k.Technology.AddResearchPoints(ResearchPerAttempt)
	return ok
}

// Fortify buys ten soldiers' worth of defenses.
func (k *Kingdom) Fortify() error {
	if err := k.Resources.DebitAll(fortifyCost); err != nil {
		return fmt.Errorf("fortify: %w", err)
	}
	k.Military.AddSoldiers(10)
	return nil
}

// Spy pays SpyCost gold for a status report on target.
func (k *Kingdom) Spy(target *Kingdom) (Report, error) {
	if err := k.Resources.Debit(Gold, SpyCost); err != nil {
		return Report{}, fmt.Errorf("spy on %s: %w", target.Name, err)
	}
	return target.Report(), nil
}

// Report is a read-only snapshot of a kingdom.
type Report struct {
	Name       string
	Population int
	Happiness  int
	Resources  Resources
	Military   Military
	Technology Technology
	Buildings  []Building
	X, Y       int
}

func (k *Kingdom) Report() Report {
	return Report{
		Name:       k.Name,
		Population: k.Population,
		Happiness:  k.Happiness,
		Resources:  k.Resources,
		Military:   k.Military,
		Technology: k.Technology,
		Buildings:  append([]Building(nil), k.Buildings...),
		X:          k.X,
		Y:          k.Y,
	}
}
