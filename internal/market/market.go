// Package market prices resources against gold and brokers trade offers
// between kingdoms.
package market

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/models"
)

// MaxOffers caps the number of pending trade offers.
const MaxOffers = 15

var (
	ErrOfferLimit     = errors.New("maximum trade offers reached")
	ErrNoSuchOffer    = errors.New("no such trade offer")
	ErrNotReceiver    = errors.New("offer is addressed to another kingdom")
	ErrNotPurchasable = errors.New("gold cannot be bought or sold")
	ErrEmptyOffer     = errors.New("trade offer is empty")
	ErrSelfTrade      = errors.New("a kingdom cannot trade with itself")
)

// Offer is a proposed exchange: the offerer gives Offering and receives Requesting.
type Offer struct {
	ID         string
	Offerer    string
	Receiver   string
	Offering   models.Resources
	Requesting models.Resources
	Smuggling  bool
	Settled    bool
}

func (o Offer) String() string {
	return fmt.Sprintf("%s offers %s for %s", o.Offerer, o.Offering, o.Requesting)
}

// ShortID is the prefix players type to pick an offer.
func (o Offer) ShortID() string {
	if len(o.ID) < 8 {
		return o.ID
	}
	return o.ID[:8]
}

// Market holds the current gold price of each resource and the pending offers.
type Market struct {
	prices models.Resources
	offers []Offer
	newID  func() string
}

func New() *Market {
	return &Market{
		prices: models.Resources{Gold: 100, Food: 10, Wood: 20, Stone: 30},
		newID:  func() string { return uuid.NewString() },
	}
}

// Prices returns the buying price of every resource.
func (m *Market) Prices() models.Resources {
	return m.prices
}

func (m *Market) Price(kind models.ResourceType) int {
	return m.prices.Get(kind)
}

// SellPrice is what the market pays per unit: half the buying price.
func (m *Market) SellPrice(kind models.ResourceType) int {
	return m.prices.Get(kind) / 2
}

// UpdatePrices moves each price by a uniform -10%..+10%. No price drops below 1.
func (m *Market) UpdatePrices(rng dice.Rand) {
	for _, kind := range models.AllResourceTypes() {
		p := m.prices.Get(kind) * dice.Between(rng, 90, 110) / 100
		m.set(kind, max(1, p))
	}
}

func (m *Market) set(kind models.ResourceType, v int) {
	switch kind {
	case models.Gold:
		m.prices.Gold = v
	case models.Food:
		m.prices.Food = v
	case models.Wood:
		m.prices.Wood = v
	case models.Stone:
		m.prices.Stone = v
	}
}

func tradable(kind models.ResourceType, qty int) error {
	if !kind.Valid() || kind == models.Gold {
		return ErrNotPurchasable
	}
	if qty <= 0 {
		return models.ErrInvalidAmount
	}
	return nil
}

// Buy pays gold for qty units of kind and returns the gold spent.
func (m *Market) Buy(k *models.Kingdom, kind models.ResourceType, qty int) (int, error) {
	if err := tradable(kind, qty); err != nil {
		return 0, err
	}
	cost, err := models.Cost(qty, m.Price(kind))
	if err != nil {
		return 0, fmt.Errorf("buy %d %s: %w", qty, kind, err)
	}
	if err := k.Resources.Debit(models.Gold, cost); err != nil {
		return 0, fmt.Errorf("buy %d %s: %w", qty, kind, err)
	}
	k.Resources.Credit(kind, qty)
	return cost, nil
}

// Sell trades qty units of kind for gold and returns the gold earned.
func (m *Market) Sell(k *models.Kingdom, kind models.ResourceType, qty int) (int, error) {
	if err := tradable(kind, qty); err != nil {
		return 0, err
	}
	earned, err := models.Cost(qty, m.SellPrice(kind))
	if err != nil {
		return 0, fmt.Errorf("sell %d %s: %w", qty, kind, err)
	}
	if err := k.Resources.Debit(kind, qty); err != nil {
		return 0, fmt.Errorf("sell %d %s: %w", qty, kind, err)
	}
	k.Resources.Credit(models.Gold, earned)
	return earned, nil
}

// ProposeTrade records an offer for receiver to accept or reject later.
// Nothing changes hands until the offer is accepted.
func (m *Market) ProposeTrade(offerer, receiver string, offering, requesting models.Resources) (Offer, error) {
	if offerer == receiver {
		return Offer{}, ErrSelfTrade
	}
	if !nonNegative(offering) || !nonNegative(requesting) {
		return Offer{}, models.ErrInvalidAmount
	}
	if offering.IsZero() && requesting.IsZero() {
		return Offer{}, ErrEmptyOffer
	}
	if len(m.offers) >= MaxOffers {
		return Offer{}, ErrOfferLimit
	}
	o := Offer{
		ID:         m.newID(),
		Offerer:    offerer,
		Receiver:   receiver,
		Offering:   offering,
		Requesting: requesting,
	}
	m.offers = append(m.offers, o)
	return o, nil
}

func nonNegative(r models.Resources) bool {
	return r.Gold >= 0 && r.Food >= 0 && r.Wood >= 0 && r.Stone >= 0
}

// Offers returns every pending offer.
func (m *Market) Offers() []Offer {
	return append([]Offer(nil), m.offers...)
}

// OffersFor lists pending offers addressed to name.
func (m *Market) OffersFor(name string) []Offer {
	var out []Offer
	for _, o := range m.offers {
		if o.Receiver == name {
			out = append(out, o)
		}
	}
	return out
}

// Find returns the pending offer whose id starts with prefix. The prefix must
// pick out exactly one offer.
func (m *Market) Find(prefix string) (Offer, error) {
	i, err := m.index(prefix)
	if err != nil {
		return Offer{}, err
	}
	return m.offers[i], nil
}

func (m *Market) index(prefix string) (int, error) {
	found := -1
	for i, o := range m.offers {
		if prefix != "" && len(prefix) <= len(o.ID) && o.ID[:len(prefix)] == prefix {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q is ambiguous", ErrNoSuchOffer, prefix)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNoSuchOffer, prefix)
	}
	return found, nil
}

// Respond settles the offer id on behalf of receiver. Accepting swaps both
// bundles or, when either side cannot pay, changes nothing and keeps the
// offer pending. Rejecting simply withdraws it.
func (m *Market) Respond(id string, receiver, offerer *models.Kingdom, accept bool) (Offer, error) {
	i, err := m.index(id)
	if err != nil {
		return Offer{}, err
	}
	o := m.offers[i]
	if o.Receiver != receiver.Name {
		return Offer{}, fmt.Errorf("%s: %w", receiver.Name, ErrNotReceiver)
	}
	if accept {
		if o.Offerer != offerer.Name {
			return Offer{}, fmt.Errorf("offer from %s, not %s: %w", o.Offerer, offerer.Name, ErrNoSuchOffer)
		}
		if !offerer.Resources.CanAfford(o.Offering) {
			return Offer{}, fmt.Errorf("%s cannot deliver: %w", offerer.Name, models.ErrInsufficientResources)
		}
		if !receiver.Resources.CanAfford(o.Requesting) {
			return Offer{}, fmt.Errorf("%s cannot pay: %w", receiver.Name, models.ErrInsufficientResources)
		}
		// Both sides were checked, so neither debit can fail.
		_ = offerer.Resources.DebitAll(o.Offering)
		_ = receiver.Resources.DebitAll(o.Requesting)
		receiver.Resources.Add(o.Offering)
		offerer.Resources.Add(o.Requesting)
	}
	o.Settled = true
	m.offers = append(m.offers[:i], m.offers[i+1:]...)
	return o, nil
}
