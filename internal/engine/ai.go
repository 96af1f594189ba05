package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/diplomacy"
	"github.com/tatianab/stronghold/internal/models"
)

// treatyChance is the percent chance a rival reaches out each turn.
const treatyChance = 30

// acceptChance is the percent chance a rival takes a trade offer.
const acceptChance = 50

// rivalTurn plays one uniformly chosen action for k, then maybe signs a
// treaty with a random kingdom. It returns the lines worth showing the player.
func (e *Engine) rivalTurn(ctx context.Context, s *Session, k *models.Kingdom) []string {
	log := e.log.With(zap.String("kingdom", k.Name))
	var lines []string

	action, err := e.rivalAction(k)
	if err != nil {
		log.Debug("rival action failed", zap.String("action", action), zap.Error(err))
	} else {
		log.Debug("rival action", zap.String("action", action))
		lines = append(lines, fmt.Sprintf("%s %s.", k.Name, action))
	}

	if !dice.Chance(e.rng, treatyChance) {
		return lines
	}
	target := s.Kingdoms[e.rng.IntN(len(s.Kingdoms))]
	if target == k {
		return lines
	}
	types := diplomacy.AllTreatyTypes()
	kind := types[e.rng.IntN(len(types))]
	duration := dice.Between(e.rng, 5, 14)
	t, err := s.Diplomacy.Propose(k.Name, target.Name, kind, duration, s.Turn)
	if err != nil {
		log.Debug("treaty not signed", zap.String("with", target.Name), zap.Error(err))
		return lines
	}
	line := fmt.Sprintf("%s signs a %s treaty with %s until turn %d.", k.Name, t.Type, target.Name, t.ExpiresAt())
	e.record(ctx, s, chronicle.KindDiplomacy, k.Name, target.Name, line)
	e.notify(s, k.Name, target.Name, fmt.Sprintf("We have signed a %s treaty with you for %d turns.", t.Type, duration))
	return append(lines, line)
}

// AutoPlay has the rival logic steward the player's kingdom for one turn.
// Headless simulations call it before ending each turn.
func (e *Engine) AutoPlay(ctx context.Context, s *Session) ([]string, error) {
	if s.Over {
		return nil, ErrGameOver
	}
	return e.rivalTurn(ctx, s, s.Human()), nil
}

// rivalAction picks one of taxes, build, recruit, train or population and
// describes what was done.
func (e *Engine) rivalAction(k *models.Kingdom) (string, error) {
	switch e.rng.IntN(5) {
	case 0:
		return fmt.Sprintf("collects %d gold in taxes", k.CollectTaxes()), nil
	case 1:
		catalog := models.BuildingCatalog()
		kind := catalog[e.rng.IntN(len(catalog))]
		if _, err := k.Build(kind); err != nil {
			return "build " + kind.Name, err
		}
		return "builds a " + kind.Name, nil
	case 2:
		n := dice.Between(e.rng, 5, 24)
		if err := k.Recruit(n); err != nil {
			return "recruit", err
		}
		return fmt.Sprintf("recruits %d soldiers", n), nil
	case 3:
		units := models.AllUnitTypes()
		unit := units[e.rng.IntN(len(units))]
		n := dice.Between(e.rng, 1, 10)
		if err := k.TrainTroops(unit, n); err != nil {
			return "train " + unit.String(), err
		}
		return fmt.Sprintf("trains %d %s", n, unit), nil
	default:
		if e.rng.IntN(2) == 0 {
			if err := k.ManagePopulation(models.RaiseHappiness); err != nil {
				return "hold a festival", err
			}
			return "holds a festival", nil
		}
		if err := k.ManagePopulation(models.BoostPopulation); err != nil {
			return "settle new families", err
		}
		return "settles new families", nil
	}
}

// answerOffers has each rival accept or reject the trade offers sent to it.
// An accepted offer the rival cannot pay for is rejected instead.
func (e *Engine) answerOffers(ctx context.Context, s *Session) []string {
	var lines []string
	for _, receiver := range s.Rivals() {
		for _, o := range s.Market.OffersFor(receiver.Name) {
			offerer, err := s.Kingdom(o.Offerer)
			if err != nil {
				continue
			}
			accept := dice.Chance(e.rng, acceptChance)
			if accept {
				if _, err := s.Market.Respond(o.ID, receiver, offerer, true); err == nil {
					line := fmt.Sprintf("%s accepts the trade from %s: %s for %s.", receiver.Name, offerer.Name, o.Offering, o.Requesting)
					e.record(ctx, s, chronicle.KindTrade, receiver.Name, offerer.Name, line)
					e.notify(s, receiver.Name, offerer.Name, "We accept your offer.")
					lines = append(lines, line)
					continue
				} else if !errors.Is(err, models.ErrInsufficientResources) {
					e.log.Warn("trade failed", zap.String("offer", o.ID), zap.Error(err))
					continue
				}
			}
			if _, err := s.Market.Respond(o.ID, receiver, offerer, false); err != nil {
				e.log.Warn("trade rejection failed", zap.String("offer", o.ID), zap.Error(err))
				continue
			}
			line := fmt.Sprintf("%s rejects the trade from %s.", receiver.Name, offerer.Name)
			e.record(ctx, s, chronicle.KindTrade, receiver.Name, offerer.Name, line)
			e.notify(s, receiver.Name, offerer.Name, "We decline your offer.")
			lines = append(lines, line)
		}
	}
	return lines
}
