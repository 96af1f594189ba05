// Package diplomacy tracks treaties between kingdoms and how they regard
// one another.
package diplomacy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxTreaties caps the number of treaties in force across the world.
const MaxTreaties = 10

var (
	ErrTreatyLimit     = errors.New("maximum treaties reached")
	ErrTreatyExists    = errors.New("treaty already in force")
	ErrNoTreaty        = errors.New("no treaty in force")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrSelfTreaty      = errors.New("a kingdom cannot treat with itself")
	ErrUnknownType     = errors.New("unknown treaty type")
)

// Relation changes.
const (
	proposeBonus  = 2
	breakPenalty  = -2
	warPenalty    = -3
	friendlyScore = 2
	hostileScore  = -2
)

type TreatyType int

const (
	Peace TreatyType = iota
	Alliance
	Trade
	NonAggression
)

func AllTreatyTypes() []TreatyType {
	return []TreatyType{Peace, Alliance, Trade, NonAggression}
}

func (t TreatyType) String() string {
	switch t {
	case Peace:
		return "Peace"
	case Alliance:
		return "Alliance"
	case Trade:
		return "Trade"
	case NonAggression:
		return "Non-Aggression"
	}
	return fmt.Sprintf("treaty(%d)", int(t))
}

func ParseTreatyType(s string) (TreatyType, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "peace":
		return Peace, nil
	case "alliance":
		return Alliance, nil
	case "trade":
		return Trade, nil
	case "nonaggression":
		return NonAggression, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Status summarizes a relation score.
type Status int

const (
	Friendly Status = iota
	Neutral
	Hostile
	War
)

func (s Status) String() string {
	switch s {
	case Friendly:
		return "friendly"
	case Neutral:
		return "neutral"
	case Hostile:
		return "hostile"
	}
	return "at war"
}

func statusOf(score int) Status {
	switch {
	case score >= friendlyScore:
		return Friendly
	case score >= 0:
		return Neutral
	case score >= hostileScore:
		return Hostile
	}
	return War
}

type Treaty struct {
	Kingdom1        string
	Kingdom2        string
	Type            TreatyType
	TurnEstablished int
	Duration        int
	Active          bool
}

// Involves reports whether name is a party to the treaty.
func (t Treaty) Involves(name string) bool {
	return t.Kingdom1 == name || t.Kingdom2 == name
}

// Other returns the party that is not name.
func (t Treaty) Other(name string) string {
	if t.Kingdom1 == name {
		return t.Kingdom2
	}
	return t.Kingdom1
}

// ExpiresAt is the first turn on which the treaty no longer holds.
func (t Treaty) ExpiresAt() int {
	return t.TurnEstablished + t.Duration
}

func (t Treaty) between(a, b string) bool {
	return (t.Kingdom1 == a && t.Kingdom2 == b) || (t.Kingdom1 == b && t.Kingdom2 == a)
}

// pair is an unordered pair of kingdom names.
type pair struct{ a, b string }

func pairOf(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// Manager owns every treaty in force and the relation score of each pair of
// kingdoms. Pairs without a score are neutral at 0.
type Manager struct {
	treaties  []Treaty
	relations map[pair]int
}

func NewManager() *Manager {
	return &Manager{relations: make(map[pair]int)}
}

// Treaties returns a copy of every treaty in force.
func (m *Manager) Treaties() []Treaty {
	return append([]Treaty(nil), m.treaties...)
}

// Has reports whether a and b share a treaty.
func (m *Manager) Has(a, b string) bool {
	return m.find(a, b) >= 0
}

func (m *Manager) find(a, b string) int {
	for i, t := range m.treaties {
		if t.Active && t.between(a, b) {
			return i
		}
	}
	return -1
}

// Propose signs a treaty between proposer and receiver starting on turn.
func (m *Manager) Propose(proposer, receiver string, kind TreatyType, duration, turn int) (Treaty, error) {
	switch {
	case proposer == receiver:
		return Treaty{}, ErrSelfTreaty
	case duration <= 0:
		return Treaty{}, fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	case kind < Peace || kind > NonAggression:
		return Treaty{}, fmt.Errorf("%w: %d", ErrUnknownType, int(kind))
	case m.Has(proposer, receiver):
		return Treaty{}, fmt.Errorf("%s and %s: %w", proposer, receiver, ErrTreatyExists)
	case len(m.treaties) >= MaxTreaties:
		return Treaty{}, ErrTreatyLimit
	}
	t := Treaty{
		Kingdom1:        proposer,
		Kingdom2:        receiver,
		Type:            kind,
		TurnEstablished: turn,
		Duration:        duration,
		Active:          true,
	}
	m.treaties = append(m.treaties, t)
	m.adjust(proposer, receiver, proposeBonus)
	return t, nil
}

// Break ends the treaty between a and b and sours their relation.
func (m *Manager) Break(a, b string) (Treaty, error) {
	i := m.find(a, b)
	if i < 0 {
		return Treaty{}, fmt.Errorf("%s and %s: %w", a, b, ErrNoTreaty)
	}
	t := m.remove(i)
	m.adjust(a, b, breakPenalty)
	return t, nil
}

// DeclareWar breaks any treaty between declarer and target before the
// declaration's own penalty is applied.
func (m *Manager) DeclareWar(declarer, target string) error {
	if declarer == target {
		return ErrSelfTreaty
	}
	if m.Has(declarer, target) {
		if _, err := m.Break(declarer, target); err != nil {
			return err
		}
	}
	m.adjust(declarer, target, warPenalty)
	return nil
}

// ActiveFor lists the treaties name is party to.
func (m *Manager) ActiveFor(name string) []Treaty {
	var out []Treaty
	for _, t := range m.treaties {
		if t.Active && t.Involves(name) {
			out = append(out, t)
		}
	}
	return out
}

// Relation returns the raw score between a and b.
func (m *Manager) Relation(a, b string) int {
	return m.relations[pairOf(a, b)]
}

func (m *Manager) Relationship(a, b string) Status {
	return statusOf(m.Relation(a, b))
}

// Relations lists name's score with each kingdom it has dealt with, sorted by name.
func (m *Manager) Relations(name string) []Relation {
	var out []Relation
	for p, score := range m.relations {
		var other string
		switch name {
		case p.a:
			other = p.b
		case p.b:
			other = p.a
		default:
			continue
		}
		out = append(out, Relation{With: other, Score: score, Status: statusOf(score)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].With < out[j].With })
	return out
}

type Relation struct {
	With   string
	Score  int
	Status Status
}

func (m *Manager) adjust(a, b string, delta int) {
	m.relations[pairOf(a, b)] += delta
}

// Expire removes every treaty whose duration has run out by turn and returns them.
func (m *Manager) Expire(turn int) []Treaty {
	var expired []Treaty
	for i := 0; i < len(m.treaties); {
		if turn >= m.treaties[i].ExpiresAt() {
			expired = append(expired, m.remove(i))
			continue
		}
		i++
	}
	return expired
}

func (m *Manager) remove(i int) Treaty {
	t := m.treaties[i]
	t.Active = false
	m.treaties = append(m.treaties[:i], m.treaties[i+1:]...)
	return t
}
