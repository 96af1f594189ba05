package models

import (
	"fmt"
	"strings"
)

const (
	// BuildingBaseBoost is the boost of a freshly built structure.
	BuildingBaseBoost = 20
	// BuildingUpgradeBoost is added to the boost on every upgrade.
	BuildingUpgradeBoost = 10
)

// BuildingKind is one entry of the construction catalog.
type BuildingKind struct {
	Name  string
	Boost ResourceType
	Cost  Resources
}

var (
	Farm    = BuildingKind{Name: "Farm", Boost: Food, Cost: Resources{Gold: 100, Wood: 50}}
	Market  = BuildingKind{Name: "Market", Boost: Gold, Cost: Resources{Gold: 150, Stone: 50}}
	Quarry  = BuildingKind{Name: "Quarry", Boost: Stone, Cost: Resources{Gold: 100, Wood: 50}}
	Sawmill = BuildingKind{Name: "Sawmill", Boost: Wood, Cost: Resources{Gold: 100, Stone: 50}}
)

// BuildingCatalog lists every structure a kingdom can build.
func BuildingCatalog() []BuildingKind {
	return []BuildingKind{Farm, Market, Quarry, Sawmill}
}

// ParseBuildingKind finds a catalog entry by name.
func ParseBuildingKind(s string) (BuildingKind, error) {
	for _, k := range BuildingCatalog() {
		if strings.EqualFold(s, k.Name) {
			return k, nil
		}
	}
	return BuildingKind{}, fmt.Errorf("%w: unknown structure %q", ErrUnknownChoice, s)
}

// Building is a resource-boosting structure owned by a kingdom.
type Building struct {
	Name        string       `yaml:"name"`
	Level       int          `yaml:"level"`
	Boost       ResourceType `yaml:"boost"`
	BoostAmount int          `yaml:"boost_amount"`
}

func NewBuilding(name string, boost ResourceType, amount int) Building {
	return Building{
		Name:        TruncateName(name),
		Level:       1,
		Boost:       boost,
		BoostAmount: amount,
	}
}

func (b *Building) Upgrade() {
	b.Level++
	b.BoostAmount += BuildingUpgradeBoost
}

// UpgradeCost is the construction cost of b's kind scaled by its level.
// Structures outside the catalog upgrade for 100 gold per level.
func (b Building) UpgradeCost() Resources {
	if k, err := ParseBuildingKind(b.Name); err == nil {
		return k.Cost.Scale(b.Level)
	}
	return Resources{Gold: 100 * b.Level}
}
