// Package world holds the map: which kingdom sits on which cell, how far each
// kingdom's influence reaches, and how kingdoms within reach fight.
package world

import (
	"errors"
	"fmt"

	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/models"
)

const (
	// MaxSize caps both map dimensions.
	MaxSize = 32
	// DefaultSize matches the classic 10x10 map.
	DefaultSize = 10
	// MaxKingdoms is the default number of influence layers.
	MaxKingdoms = 5
	// maxSlots bounds decoded slot counts.
	maxSlots = 16
)

var (
	ErrOutOfBounds   = errors.New("position out of bounds")
	ErrOccupied      = errors.New("position occupied")
	ErrAlreadyPlaced = errors.New("kingdom already placed")
	ErrNoFreeSlot    = errors.New("maximum kingdoms reached")
	ErrNotPlaced     = errors.New("kingdom not on the map")
)

// Grid is a fixed-size map. Cells hold 0 when empty or slot+1 of the kingdom
// standing there; each slot owns a dense influence layer with values 0..100.
type Grid struct {
	width     int
	height    int
	cells     []int
	slots     []string
	influence [][]int
}

// NewGrid builds an empty map. Dimensions are clamped to [1, MaxSize] and
// slots to [1, 16].
func NewGrid(width, height, slots int) *Grid {
	width = clamp(width, 1, MaxSize)
	height = clamp(height, 1, MaxSize)
	slots = clamp(slots, 1, maxSlots)
	g := &Grid{
		width:     width,
		height:    height,
		cells:     make([]int, width*height),
		slots:     make([]string, slots),
		influence: make([][]int, slots),
	}
	for i := range g.influence {
		g.influence[i] = make([]int, width*height)
	}
	return g
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Slots is the number of kingdoms the map can hold.
func (g *Grid) Slots() int { return len(g.slots) }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Occupied reports whether a cell is taken. Cells off the map count as taken.
func (g *Grid) Occupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[g.index(x, y)] != 0
}

// Occupant returns the name of the kingdom on a cell.
func (g *Grid) Occupant(x, y int) (string, bool) {
	if !g.InBounds(x, y) {
		return "", false
	}
	v := g.cells[g.index(x, y)]
	if v == 0 {
		return "", false
	}
	return g.slots[v-1], true
}

// SlotOf returns the slot assigned to a kingdom, or -1.
func (g *Grid) SlotOf(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range g.slots {
		if n == name {
			return i
		}
	}
	return -1
}

// Place puts k on (x, y), assigns it the lowest free slot and spreads its
// influence. On failure the grid is left untouched.
func (g *Grid) Place(k *models.Kingdom, x, y int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("place %s at (%d,%d): %w", k.Name, x, y, ErrOutOfBounds)
	}
	if g.Occupied(x, y) {
		return fmt.Errorf("place %s at (%d,%d): %w", k.Name, x, y, ErrOccupied)
	}
	if g.SlotOf(k.Name) >= 0 {
		return fmt.Errorf("place %s: %w", k.Name, ErrAlreadyPlaced)
	}
	slot := -1
	for i, n := range g.slots {
		if n == "" {
			slot = i
			break
		}
	}
	if slot < 0 {
		return fmt.Errorf("place %s: %w", k.Name, ErrNoFreeSlot)
	}

	g.slots[slot] = k.Name
	g.cells[g.index(x, y)] = slot + 1
	k.SetPosition(x, y)
	return g.Expand(k)
}

// Move relocates a placed kingdom and re-spreads its influence from the new
// cell. Influence earned at the old cell is kept.
func (g *Grid) Move(k *models.Kingdom, x, y int) error {
	slot, err := g.placedSlot(k)
	if err != nil {
		return err
	}
	if !g.InBounds(x, y) {
		return fmt.Errorf("move %s to (%d,%d): %w", k.Name, x, y, ErrOutOfBounds)
	}
	if g.Occupied(x, y) {
		return fmt.Errorf("move %s to (%d,%d): %w", k.Name, x, y, ErrOccupied)
	}
	g.cells[g.index(k.X, k.Y)] = 0
	g.cells[g.index(x, y)] = slot + 1
	k.SetPosition(x, y)
	return g.Expand(k)
}

// placedSlot checks that k's recorded position really holds k.
func (g *Grid) placedSlot(k *models.Kingdom) (int, error) {
	slot := g.SlotOf(k.Name)
	if slot < 0 || !g.InBounds(k.X, k.Y) || g.cells[g.index(k.X, k.Y)] != slot+1 {
		return -1, fmt.Errorf("%s: %w", k.Name, ErrNotPlaced)
	}
	return slot, nil
}

// Expand raises k's influence on every cell within Manhattan distance
// max(1, attack/10) of its position to 100-10*distance. Influence never drops,
// so repeated calls from the same position change nothing.
func (g *Grid) Expand(k *models.Kingdom) error {
	slot, err := g.placedSlot(k)
	if err != nil {
		return err
	}
	strength := max(1, k.Military.AttackPower()/10)
	layer := g.influence[slot]
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			d := abs(x-k.X) + abs(y-k.Y)
			if d > strength {
				continue
			}
			inf := 100 - 10*d
			i := g.index(x, y)
			if inf > layer[i] {
				layer[i] = inf
			}
		}
	}
	return nil
}

// Influence returns a kingdom's control over a cell, 0 when unknown.
func (g *Grid) Influence(name string, x, y int) int {
	slot := g.SlotOf(name)
	if slot < 0 || !g.InBounds(x, y) {
		return 0
	}
	return g.influence[slot][g.index(x, y)]
}

// ControlledCells counts cells where a kingdom's influence is at least threshold.
func (g *Grid) ControlledCells(name string, threshold int) int {
	slot := g.SlotOf(name)
	if slot < 0 {
		return 0
	}
	n := 0
	for _, v := range g.influence[slot] {
		if v > 0 && v >= threshold {
			n++
		}
	}
	return n
}

// RandomFreeCell picks a uniformly random empty cell.
func (g *Grid) RandomFreeCell(rng dice.Rand) (x, y int, ok bool) {
	free := make([]int, 0, len(g.cells))
	for i, v := range g.cells {
		if v == 0 {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return 0, 0, false
	}
	i := free[rng.IntN(len(free))]
	return i % g.width, i / g.width, true
}

// Distance is the Manhattan distance between two kingdoms.
func Distance(a, b *models.Kingdom) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
