package world

import (
	"bytes"
	"fmt"

	"github.com/tatianab/stronghold/internal/binfmt"
	"github.com/tatianab/stronghold/internal/models"
)

// EncodeBinary writes dimensions, slot names, occupancy and every influence layer.
func (g *Grid) EncodeBinary(w *binfmt.Writer) {
	w.Int(g.width)
	w.Int(g.height)
	w.Int(len(g.slots))
	for _, n := range g.slots {
		w.String(n, models.MaxNameLength)
	}
	for _, v := range g.cells {
		w.Int(v)
	}
	for _, layer := range g.influence {
		for _, v := range layer {
			w.Int(v)
		}
	}
}

// DecodeBinary replaces g with the grid read from r.
func (g *Grid) DecodeBinary(r *binfmt.Reader) error {
	width := r.Count(MaxSize)
	height := r.Count(MaxSize)
	slots := r.Count(maxSlots)
	if err := r.Err(); err != nil {
		return err
	}
	if width == 0 || height == 0 || slots == 0 {
		return fmt.Errorf("world: invalid grid %dx%d with %d slots", width, height, slots)
	}
	next := NewGrid(width, height, slots)
	for i := range next.slots {
		next.slots[i] = r.String(models.MaxNameLength)
	}
	for i := range next.cells {
		v := r.Int()
		if v < 0 || v > slots {
			return fmt.Errorf("world: cell %d holds unknown slot %d", i, v)
		}
		if v > 0 && next.slots[v-1] == "" {
			return fmt.Errorf("world: cell %d points at empty slot %d", i, v-1)
		}
		next.cells[i] = v
	}
	for _, layer := range next.influence {
		for i := range layer {
			layer[i] = r.Int()
		}
	}
	if err := r.Err(); err != nil {
		return err
	}
	*g = *next
	return nil
}

func (g *Grid) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := binfmt.NewWriter(&buf)
	g.EncodeBinary(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Grid) UnmarshalBinary(data []byte) error {
	return g.DecodeBinary(binfmt.NewReader(bytes.NewReader(data)))
}
