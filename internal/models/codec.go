package models

import (
	"bytes"

	"github.com/tatianab/stronghold/internal/binfmt"
)

func (r Resources) EncodeBinary(w *binfmt.Writer) {
	w.Int(r.Gold)
	w.Int(r.Food)
	w.Int(r.Wood)
	w.Int(r.Stone)
}

func (r *Resources) DecodeBinary(rd *binfmt.Reader) {
	r.Gold = rd.Int()
	r.Food = rd.Int()
	r.Wood = rd.Int()
	r.Stone = rd.Int()
}

func (m Military) EncodeBinary(w *binfmt.Writer) {
	w.Int(m.Soldiers)
	w.Int(m.Archers)
	w.Int(m.Cavalry)
	w.Int(m.Siege)
}

func (m *Military) DecodeBinary(r *binfmt.Reader) {
	m.Soldiers = r.Int()
	m.Archers = r.Int()
	m.Cavalry = r.Int()
	m.Siege = r.Int()
}

func (t Technology) EncodeBinary(w *binfmt.Writer) {
	w.Bool(t.Agriculture)
	w.Bool(t.Military)
	w.Bool(t.Construction)
	w.Bool(t.Economy)
	w.Int(t.ResearchPoints)
}

func (t *Technology) DecodeBinary(r *binfmt.Reader) {
	t.Agriculture = r.Bool()
	t.Military = r.Bool()
	t.Construction = r.Bool()
	t.Economy = r.Bool()
	t.ResearchPoints = r.Int()
}

func (b Building) EncodeBinary(w *binfmt.Writer) {
	w.String(b.Name, MaxNameLength)
	w.Int(b.Level)
	w.Int(int(b.Boost))
	w.Int(b.BoostAmount)
}

func (b *Building) DecodeBinary(r *binfmt.Reader) {
	b.Name = r.String(MaxNameLength)
	b.Level = r.Int()
	b.Boost = ResourceType(r.Int())
	b.BoostAmount = r.Int()
}

// EncodeBinary writes the kingdom in save-file field order.
func (k *Kingdom) EncodeBinary(w *binfmt.Writer) {
	w.String(k.Name, MaxNameLength)
	w.Int(k.Population)
	w.Int(k.Happiness)
	k.Resources.EncodeBinary(w)
	k.Military.EncodeBinary(w)
	k.Technology.EncodeBinary(w)
	w.Int(len(k.Buildings))
	for _, b := range k.Buildings {
		b.EncodeBinary(w)
	}
	w.Int(k.X)
	w.Int(k.Y)
}

func (k *Kingdom) DecodeBinary(r *binfmt.Reader) {
	k.Name = r.String(MaxNameLength)
	k.Population = r.Int()
	k.Happiness = r.Int()
	k.Resources.DecodeBinary(r)
	k.Military.DecodeBinary(r)
	k.Technology.DecodeBinary(r)
	n := r.Count(MaxBuildings)
	k.Buildings = make([]Building, n)
	for i := range k.Buildings {
		k.Buildings[i].DecodeBinary(r)
	}
	k.X = r.Int()
	k.Y = r.Int()
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *Kingdom) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := binfmt.NewWriter(&buf)
	k.EncodeBinary(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *Kingdom) UnmarshalBinary(data []byte) error {
	r := binfmt.NewReader(bytes.NewReader(data))
	k.DecodeBinary(r)
	return r.Err()
}
