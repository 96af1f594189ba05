package models

import "fmt"

// Resources is a kingdom's ledger of fungible goods.
type Resources struct {
	Gold  int `yaml:"gold"`
	Food  int `yaml:"food"`
	Wood  int `yaml:"wood"`
	Stone int `yaml:"stone"`
}

// StartingResources is the endowment every kingdom is founded with.
func StartingResources() Resources {
	return Resources{Gold: 1000, Food: 500, Wood: 200, Stone: 200}
}

func (r *Resources) field(t ResourceType) *int {
	switch t {
	case Gold:
		return &r.Gold
	case Food:
		return &r.Food
	case Wood:
		return &r.Wood
	case Stone:
		return &r.Stone
	}
	return nil
}

// Get returns the balance of t.
func (r Resources) Get(t ResourceType) int {
	if p := r.field(t); p != nil {
		return *p
	}
	return 0
}

// Credit adds amount of t. Non-positive amounts are ignored.
func (r *Resources) Credit(t ResourceType, amount int) {
	if amount <= 0 {
		return
	}
	if p := r.field(t); p != nil {
		*p += amount
	}
}

// Debit removes amount of t, or fails and leaves the ledger untouched.
func (r *Resources) Debit(t ResourceType, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	p := r.field(t)
	if p == nil {
		return fmt.Errorf("%w: unknown resource %d", ErrUnknownChoice, int(t))
	}
	if *p < amount {
		return fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientResources, amount, t, *p)
	}
	*p -= amount
	return nil
}

// CanAfford reports whether every component of cost is covered.
func (r Resources) CanAfford(cost Resources) bool {
	for _, t := range AllResourceTypes() {
		if r.Get(t) < cost.Get(t) {
			return false
		}
	}
	return true
}

// DebitAll pays cost in full or not at all.
func (r *Resources) DebitAll(cost Resources) error {
	for _, t := range AllResourceTypes() {
		if cost.Get(t) < 0 {
			return ErrInvalidAmount
		}
	}
	if !r.CanAfford(cost) {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientResources, cost, *r)
	}
	for _, t := range AllResourceTypes() {
		*r.field(t) -= cost.Get(t)
	}
	return nil
}

// Add credits every positive component of other.
func (r *Resources) Add(other Resources) {
	for _, t := range AllResourceTypes() {
		r.Credit(t, other.Get(t))
	}
}

// Scale returns r with every component multiplied by n.
func (r Resources) Scale(n int) Resources {
	return Resources{Gold: r.Gold * n, Food: r.Food * n, Wood: r.Wood * n, Stone: r.Stone * n}
}

// Total is the sum of all four balances.
func (r Resources) Total() int {
	return r.Gold + r.Food + r.Wood + r.Stone
}

// IsZero reports whether every component is zero.
func (r Resources) IsZero() bool {
	return r == Resources{}
}

func (r Resources) String() string {
	return fmt.Sprintf("%dG %dF %dW %dS", r.Gold, r.Food, r.Wood, r.Stone)
}
