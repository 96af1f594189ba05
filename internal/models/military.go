package models

import (
	"fmt"
	"strings"
)

// UnitType names a category of troops.
type UnitType int

const (
	Soldiers UnitType = iota
	Archers
	Cavalry
	Siege
)

func AllUnitTypes() []UnitType {
	return []UnitType{Soldiers, Archers, Cavalry, Siege}
}

func (u UnitType) String() string {
	switch u {
	case Soldiers:
		return "soldiers"
	case Archers:
		return "archers"
	case Cavalry:
		return "cavalry"
	case Siege:
		return "siege"
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// ParseUnitType accepts a unit name, case-insensitively.
func ParseUnitType(s string) (UnitType, error) {
	for _, u := range AllUnitTypes() {
		if strings.EqualFold(s, u.String()) {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrUnknownChoice, s)
}

// TrainingResource is the resource kind that trains u. Training always costs
// gold; the kind only selects the category.
func (u UnitType) TrainingResource() ResourceType {
	switch u {
	case Archers:
		return Food
	case Cavalry:
		return Wood
	case Siege:
		return Stone
	}
	return Gold
}

// TrainingCost is the gold paid per unit trained.
func (u UnitType) TrainingCost() int {
	switch u {
	case Archers:
		return 15
	case Cavalry:
		return 20
	case Siege:
		return 25
	}
	return 10
}

// Military holds a kingdom's troop counts.
type Military struct {
	Soldiers int `yaml:"soldiers"`
	Archers  int `yaml:"archers"`
	Cavalry  int `yaml:"cavalry"`
	Siege    int `yaml:"siege"`
}

func (m Military) Get(u UnitType) int {
	switch u {
	case Soldiers:
		return m.Soldiers
	case Archers:
		return m.Archers
	case Cavalry:
		return m.Cavalry
	case Siege:
		return m.Siege
	}
	return 0
}

func (m Military) AttackPower() int {
	return m.Soldiers*10 + m.Archers*15 + m.Cavalry*20 + m.Siege*25
}

func (m Military) DefensePower() int {
	return m.Soldiers*12 + m.Archers*10 + m.Cavalry*15 + m.Siege*20
}

// Total is the number of units of every kind.
func (m Military) Total() int {
	return m.Soldiers + m.Archers + m.Cavalry + m.Siege
}

// Train adds amount units to the category mapped from kind:
// gold→soldiers, food→archers, wood→cavalry, stone→siege.
func (m *Military) Train(kind ResourceType, amount int) {
	if amount <= 0 {
		return
	}
	switch kind {
	case Gold:
		m.Soldiers += amount
	case Food:
		m.Archers += amount
	case Wood:
		m.Cavalry += amount
	case Stone:
		m.Siege += amount
	}
}

// AddSoldiers is used by recruitment and fortification.
func (m *Military) AddSoldiers(n int) {
	m.Train(Gold, n)
}

// ApplyCasualties removes totalLoss units in proportion to the current
// composition. Each of the first three categories loses its floored share and
// siege absorbs the remainder; every count is clamped at zero.
func (m *Military) ApplyCasualties(totalLoss int) {
	total := m.Total()
	if total == 0 || totalLoss <= 0 {
		return
	}
	soldierLoss := totalLoss * m.Soldiers / total
	archerLoss := totalLoss * m.Archers / total
	cavalryLoss := totalLoss * m.Cavalry / total
	siegeLoss := totalLoss - soldierLoss - archerLoss - cavalryLoss

	m.Soldiers = max(0, m.Soldiers-soldierLoss)
	m.Archers = max(0, m.Archers-archerLoss)
	m.Cavalry = max(0, m.Cavalry-cavalryLoss)
	m.Siege = max(0, m.Siege-siegeLoss)
}
