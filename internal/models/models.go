package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// MaxNameLength is the width of a name field in a save file, terminator included.
	MaxNameLength = 50
	// MaxBuildings is how many structures a kingdom may own.
	MaxBuildings = 10
	// ResearchCost is the number of research points one technology consumes.
	ResearchCost = 100
	// ResearchPerAttempt is granted after every research attempt, successful or not.
	ResearchPerAttempt = 20
	// SpyCost is the gold paid to inspect another kingdom.
	SpyCost = 50
	// MaxAmount is the largest count or cost a save file can hold.
	MaxAmount = math.MaxInt32
)

var (
	ErrInsufficientResources = errors.New("not enough resources")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrBuildingLimit         = errors.New("maximum buildings reached")
	ErrNoSuchBuilding        = errors.New("no such building")
	ErrUnknownChoice         = errors.New("invalid choice")
	ErrAmountTooLarge        = errors.New("amount too large")
)

// Cost prices count items at unitPrice each. Counts whose total would not
// fit in MaxAmount are refused.
func Cost(count, unitPrice int) (int, error) {
	if count <= 0 {
		return 0, ErrInvalidAmount
	}
	if count > MaxAmount || (unitPrice > 0 && count > MaxAmount/unitPrice) {
		return 0, fmt.Errorf("%d at %d each: %w", count, unitPrice, ErrAmountTooLarge)
	}
	return count * unitPrice, nil
}

// ResourceType identifies one of the four fungible resources. The order is
// part of the save format.
type ResourceType int

const (
	Gold ResourceType = iota
	Food
	Wood
	Stone
)

// AllResourceTypes lists resources in ledger order.
func AllResourceTypes() []ResourceType {
	return []ResourceType{Gold, Food, Wood, Stone}
}

func (t ResourceType) String() string {
	switch t {
	case Gold:
		return "gold"
	case Food:
		return "food"
	case Wood:
		return "wood"
	case Stone:
		return "stone"
	}
	return fmt.Sprintf("resource(%d)", int(t))
}

// Valid reports whether t names one of the four resources.
func (t ResourceType) Valid() bool {
	return t >= Gold && t <= Stone
}

// ParseResourceType accepts a resource name, case-insensitively.
func ParseResourceType(s string) (ResourceType, error) {
	for _, t := range AllResourceTypes() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown resource %q", ErrUnknownChoice, s)
}

// TruncateName cuts s to fit a name field, keeping whole UTF-8 sequences.
func TruncateName(s string) string {
	return truncate(s, MaxNameLength-1)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	// Step back over continuation bytes so we never split a rune.
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

// Truncate exposes the rune-safe cut for other bounded text fields.
func Truncate(s string, limit int) string {
	return truncate(s, limit)
}
