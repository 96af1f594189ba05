package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tatianab/stronghold/internal/binfmt"
	"github.com/tatianab/stronghold/internal/comms"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/diplomacy"
	"github.com/tatianab/stronghold/internal/market"
	"github.com/tatianab/stronghold/internal/models"
	"github.com/tatianab/stronghold/internal/world"
)

// DefaultKingdomName is used when the player does not pick one.
const DefaultKingdomName = "Stronghold"

// RivalNames are the computer-controlled kingdoms of every new game.
var RivalNames = []string{"Northland", "Westeros", "Eastfall", "Southreach"}

var (
	ErrUnknownKingdom = errors.New("no such kingdom")
	ErrNameTaken      = errors.New("kingdom name already taken")
	ErrMapTooSmall    = errors.New("map too small for every kingdom")
)

// Options configure a new game.
type Options struct {
	KingdomName string
	MapSize     int
}

// Session is the whole state of one game. Kingdoms[0] is the player.
type Session struct {
	ID        string
	Turn      int
	Kingdoms  []*models.Kingdom
	Grid      *world.Grid
	Diplomacy *diplomacy.Manager
	Market    *market.Market
	Courier   *comms.Courier
	Over      bool
}

// NewSession founds the player's kingdom and its four rivals. Rivals start
// richer and with a standing army; everyone lands on a random free cell.
func NewSession(opts Options, rng dice.Rand) (*Session, error) {
	name := models.TruncateName(strings.TrimSpace(opts.KingdomName))
	if name == "" {
		name = DefaultKingdomName
	}
	for _, rival := range RivalNames {
		if strings.EqualFold(rival, name) {
			return nil, fmt.Errorf("%s: %w", name, ErrNameTaken)
		}
	}
	size := opts.MapSize
	if size <= 0 {
		size = world.DefaultSize
	}
	size = min(size, world.MaxSize)
	kingdomCount := 1 + len(RivalNames)
	if size*size < kingdomCount {
		return nil, fmt.Errorf("%dx%d map: %w", size, size, ErrMapTooSmall)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Turn:      1,
		Grid:      world.NewGrid(size, size, world.MaxKingdoms),
		Diplomacy: diplomacy.NewManager(),
		Market:    market.New(),
		Courier:   comms.NewCourier(),
	}
	s.Kingdoms = append(s.Kingdoms, models.NewKingdom(name))
	for _, rival := range RivalNames {
		k := models.NewKingdom(rival)
		k.Resources.Add(models.Resources{
			Gold:  dice.Between(rng, 500, 999),
			Food:  dice.Between(rng, 300, 599),
			Wood:  dice.Between(rng, 400, 599),
			Stone: dice.Between(rng, 200, 399),
		})
		if err := k.Recruit(dice.Between(rng, 50, 99)); err != nil {
			return nil, fmt.Errorf("raise army for %s: %w", rival, err)
		}
		s.Kingdoms = append(s.Kingdoms, k)
	}
	for _, k := range s.Kingdoms {
		x, y, ok := s.Grid.RandomFreeCell(rng)
		if !ok {
			return nil, ErrMapTooSmall
		}
		if err := s.Grid.Place(k, x, y); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Human returns the player's kingdom.
func (s *Session) Human() *models.Kingdom {
	return s.Kingdoms[0]
}

// Rivals returns the computer-controlled kingdoms.
func (s *Session) Rivals() []*models.Kingdom {
	return s.Kingdoms[1:]
}

// Kingdom finds a kingdom by name, ignoring case.
func (s *Session) Kingdom(name string) (*models.Kingdom, error) {
	for _, k := range s.Kingdoms {
		if strings.EqualFold(k.Name, name) {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKingdom, name)
}

// maxKingdoms bounds decoded kingdom counts.
const maxKingdoms = 16

// MarshalBinary encodes kingdoms, map, treaties, market and messages in that
// order. The session id and turn travel in the save metadata.
func (s *Session) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := binfmt.NewWriter(&buf)
	w.Int(len(s.Kingdoms))
	for _, k := range s.Kingdoms {
		k.EncodeBinary(w)
	}
	s.Grid.EncodeBinary(w)
	s.Diplomacy.EncodeBinary(w)
	s.Market.EncodeBinary(w)
	s.Courier.EncodeBinary(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the game state with the encoded one, keeping ID and Turn.
func (s *Session) UnmarshalBinary(data []byte) error {
	r := binfmt.NewReader(bytes.NewReader(data))
	n := r.Count(maxKingdoms)
	if err := r.Err(); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if n == 0 {
		return errors.New("decode session: no kingdoms")
	}
	kingdoms := make([]*models.Kingdom, n)
	for i := range kingdoms {
		kingdoms[i] = &models.Kingdom{}
		kingdoms[i].DecodeBinary(r)
	}
	next := Session{
		ID:        s.ID,
		Turn:      s.Turn,
		Kingdoms:  kingdoms,
		Grid:      &world.Grid{},
		Diplomacy: diplomacy.NewManager(),
		Market:    market.New(),
		Courier:   comms.NewCourier(),
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("decode kingdoms: %w", err)
	}
	if err := next.Grid.DecodeBinary(r); err != nil {
		return fmt.Errorf("decode map: %w", err)
	}
	if err := next.Diplomacy.DecodeBinary(r); err != nil {
		return fmt.Errorf("decode treaties: %w", err)
	}
	if err := next.Market.DecodeBinary(r); err != nil {
		return fmt.Errorf("decode market: %w", err)
	}
	if err := next.Courier.DecodeBinary(r); err != nil {
		return fmt.Errorf("decode messages: %w", err)
	}
	next.Over = next.Human().Population <= 0
	*s = next
	return nil
}
