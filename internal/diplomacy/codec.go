package diplomacy

import (
	"fmt"
	"sort"

	"github.com/tatianab/stronghold/internal/binfmt"
	"github.com/tatianab/stronghold/internal/models"
)

// maxRelations bounds decoded relation counts.
const maxRelations = 256

// EncodeBinary writes treaties followed by relation scores in name order.
func (m *Manager) EncodeBinary(w *binfmt.Writer) {
	w.Int(len(m.treaties))
	for _, t := range m.treaties {
		w.String(t.Kingdom1, models.MaxNameLength)
		w.String(t.Kingdom2, models.MaxNameLength)
		w.Int(int(t.Type))
		w.Int(t.TurnEstablished)
		w.Int(t.Duration)
		w.Bool(t.Active)
	}

	pairs := make([]pair, 0, len(m.relations))
	for p := range m.relations {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	w.Int(len(pairs))
	for _, p := range pairs {
		w.String(p.a, models.MaxNameLength)
		w.String(p.b, models.MaxNameLength)
		w.Int(m.relations[p])
	}
}

func (m *Manager) DecodeBinary(r *binfmt.Reader) error {
	next := NewManager()
	n := r.Count(MaxTreaties)
	for i := 0; i < n; i++ {
		t := Treaty{
			Kingdom1:        r.String(models.MaxNameLength),
			Kingdom2:        r.String(models.MaxNameLength),
			Type:            TreatyType(r.Int()),
			TurnEstablished: r.Int(),
			Duration:        r.Int(),
			Active:          r.Bool(),
		}
		if t.Type < Peace || t.Type > NonAggression {
			return fmt.Errorf("diplomacy: treaty %d: %w: %d", i, ErrUnknownType, int(t.Type))
		}
		next.treaties = append(next.treaties, t)
	}
	n = r.Count(maxRelations)
	for i := 0; i < n; i++ {
		p := pairOf(r.String(models.MaxNameLength), r.String(models.MaxNameLength))
		next.relations[p] = r.Int()
	}
	if err := r.Err(); err != nil {
		return err
	}
	*m = *next
	return nil
}
