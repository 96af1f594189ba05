package market

import (
	"fmt"

	"github.com/tatianab/stronghold/internal/binfmt"
	"github.com/tatianab/stronghold/internal/models"
)

// idLength fits a canonical UUID and its terminator.
const idLength = 37

// EncodeBinary writes prices in ledger order followed by pending offers.
func (m *Market) EncodeBinary(w *binfmt.Writer) {
	m.prices.EncodeBinary(w)
	w.Int(len(m.offers))
	for _, o := range m.offers {
		w.String(o.ID, idLength)
		w.String(o.Offerer, models.MaxNameLength)
		w.String(o.Receiver, models.MaxNameLength)
		o.Offering.EncodeBinary(w)
		o.Requesting.EncodeBinary(w)
		w.Bool(o.Smuggling)
	}
}

func (m *Market) DecodeBinary(r *binfmt.Reader) error {
	next := New()
	next.prices.DecodeBinary(r)
	n := r.Count(MaxOffers)
	for i := 0; i < n; i++ {
		var o Offer
		o.ID = r.String(idLength)
		o.Offerer = r.String(models.MaxNameLength)
		o.Receiver = r.String(models.MaxNameLength)
		o.Offering.DecodeBinary(r)
		o.Requesting.DecodeBinary(r)
		o.Smuggling = r.Bool()
		next.offers = append(next.offers, o)
	}
	if err := r.Err(); err != nil {
		return err
	}
	for _, kind := range models.AllResourceTypes() {
		if next.prices.Get(kind) < 1 {
			return fmt.Errorf("market: %s price %d below 1", kind, next.prices.Get(kind))
		}
	}
	*m = *next
	return nil
}
