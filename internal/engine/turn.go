package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
)

// EndTurn lets every rival act, answers pending trade offers, runs each
// kingdom's economy, then advances the calendar: treaties lapse, prices
// drift and the player's fate is checked.
func (e *Engine) EndTurn(ctx context.Context, s *Session) (string, error) {
	if s.Over {
		return "", ErrGameOver
	}
	var events []string
	for _, k := range s.Rivals() {
		events = append(events, e.rivalTurn(ctx, s, k)...)
	}
	events = append(events, e.answerOffers(ctx, s)...)

	for _, k := range s.Kingdoms {
		k.ProcessTurn()
	}

	s.Turn++
	for _, t := range s.Diplomacy.Expire(s.Turn) {
		line := fmt.Sprintf("The %s treaty between %s and %s has lapsed.", t.Type, t.Kingdom1, t.Kingdom2)
		e.record(ctx, s, chronicle.KindDiplomacy, t.Kingdom1, t.Kingdom2, line)
		events = append(events, line)
	}
	s.Market.UpdatePrices(e.rng)
	// Rivals go through their mail so it can make room for new messages.
	for _, k := range s.Rivals() {
		s.Courier.Read(k.Name)
	}

	human := s.Human()
	if human.Population <= 0 {
		s.Over = true
		line := fmt.Sprintf("%s has no people left. The kingdom has fallen.", human.Name)
		e.record(ctx, s, chronicle.KindSystem, human.Name, "", line)
		events = append(events, line)
	}
	e.log.Info("turn ended",
		zap.String("session", s.ID),
		zap.Int("turn", s.Turn),
		zap.Int("population", human.Population),
		zap.Int("gold", human.Resources.Gold),
		zap.Bool("over", s.Over),
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn %d begins.", s.Turn)
	for _, line := range events {
		sb.WriteString("\n- " + line)
	}
	fmt.Fprintf(&sb, "\n%s, population %s, happiness %d.", formatResources(human.Resources), comma(human.Population), human.Happiness)

	prose, err := e.narrator.NarrateTurn(ctx, TurnSummary{
		Turn:       s.Turn - 1,
		Kingdom:    human.Name,
		Population: human.Population,
		Happiness:  human.Happiness,
		Resources:  human.Resources,
		Events:     events,
	})
	if err != nil {
		e.log.Warn("turn narration failed", zap.Error(err))
	} else if prose != "" {
		sb.WriteString("\n\n" + prose)
	}
	return sb.String(), nil
}
