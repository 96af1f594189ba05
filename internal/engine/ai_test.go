package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/tatianab/stronghold/internal/diplomacy"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/models"
)

func TestRivalActions(t *testing.T) {
	tests := []struct {
		name  string
		draws []int
		want  string
		check func(t *testing.T, k *models.Kingdom)
	}{
		{"taxes", []int{0}, "collects 200 gold in taxes", nil},
		{"build", []int{1, 3}, "builds a Sawmill", func(t *testing.T, k *models.Kingdom) {
			if len(k.Buildings) != 1 || k.Buildings[0].Boost != models.Wood {
				t.Errorf("Expected a sawmill, got %+v", k.Buildings)
			}
		}},
		// 5 + 7
		{"recruit", []int{2, 7}, "recruits 12 soldiers", func(t *testing.T, k *models.Kingdom) {
			if k.Military.Soldiers != 12 {
				t.Errorf("Expected 12 soldiers, got %d", k.Military.Soldiers)
			}
		}},
		// archers, 1 + 4
		{"train", []int{3, 1, 4}, "trains 5 archers", func(t *testing.T, k *models.Kingdom) {
			if k.Military.Archers != 5 || k.Resources.Gold != 925 {
				t.Errorf("Expected 5 archers for 75 gold, got %d and %d gold", k.Military.Archers, k.Resources.Gold)
			}
		}},
		{"festival", []int{4, 0}, "holds a festival", func(t *testing.T, k *models.Kingdom) {
			if k.Happiness != 70 {
				t.Errorf("Expected happiness 70, got %d", k.Happiness)
			}
		}},
		{"growth", []int{4, 1}, "settles new families", func(t *testing.T, k *models.Kingdom) {
			if k.Population != 150 {
				t.Errorf("Expected population 150, got %d", k.Population)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := models.NewKingdom("Northland")
			e := NewEngine(dice.Fixed(tt.draws...), nil)
			got, err := e.rivalAction(k)
			if err != nil {
				t.Fatalf("rivalAction: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if tt.check != nil {
				tt.check(t, k)
			}
		})
	}
}

func TestRivalActionFailureLeavesKingdomUnchanged(t *testing.T) {
	k := models.NewKingdom("Northland")
	k.Resources = models.Resources{}
	before := *k
	e := NewEngine(dice.Fixed(2, 0), nil)
	if _, err := e.rivalAction(k); err == nil {
		t.Fatalf("Expected a penniless kingdom to fail recruiting")
	}
	if k.Military != before.Military || k.Resources != before.Resources {
		t.Errorf("Expected the kingdom unchanged")
	}
}

func TestRivalSignsTreaty(t *testing.T) {
	s := testSession(t)
	// taxes, treaty roll 10 < 30, target 0 (the player), Trade, 5+3 turns
	e := NewEngine(dice.Fixed(0, 10, 0, 2, 3), nil)
	lines := e.rivalTurn(context.Background(), s, s.Kingdoms[1])

	if len(lines) != 2 || !strings.Contains(lines[1], "signs a Trade treaty with Stronghold until turn 9") {
		t.Fatalf("Unexpected lines %q", lines)
	}
	treaties := s.Diplomacy.ActiveFor("Stronghold")
	if len(treaties) != 1 || treaties[0].Type != diplomacy.Trade || treaties[0].Duration != 8 {
		t.Errorf("Unexpected treaties %+v", treaties)
	}
	if s.Courier.Unread("Stronghold") != 1 {
		t.Errorf("Expected the player to be told")
	}
}

func TestRivalSkipsTreatyWithItself(t *testing.T) {
	s := testSession(t)
	// taxes, treaty roll hits, target 1 is Northland itself
	rng := dice.Fixed(0, 10, 1)
	e := NewEngine(rng, nil)
	lines := e.rivalTurn(context.Background(), s, s.Kingdoms[1])
	if len(lines) != 1 || len(s.Diplomacy.Treaties()) != 0 {
		t.Errorf("Expected no treaty, got %q", lines)
	}
	if rng.Drawn() != 3 {
		t.Errorf("Expected 3 draws, got %d", rng.Drawn())
	}
}

func TestAnswerOffers(t *testing.T) {
	tests := []struct {
		name       string
		roll       int
		requesting models.Resources
		accepted   bool
	}{
		{"accepted", 0, models.Resources{Wood: 50}, true},
		{"rejected", 99, models.Resources{Wood: 50}, false},
		{"unaffordable", 0, models.Resources{Wood: 5000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t)
			if _, err := s.Market.ProposeTrade("Stronghold", "Northland", models.Resources{Gold: 100}, tt.requesting); err != nil {
				t.Fatalf("ProposeTrade: %v", err)
			}
			e := NewEngine(dice.Fixed(tt.roll), nil)
			lines := e.answerOffers(context.Background(), s)

			if len(lines) != 1 || len(s.Market.Offers()) != 0 {
				t.Fatalf("Expected the offer settled, got %q", lines)
			}
			if got := s.Human().Resources.Gold == 900; got != tt.accepted {
				t.Errorf("Expected accepted=%v, gold now %d", tt.accepted, s.Human().Resources.Gold)
			}
			msgs := s.Courier.Read("Stronghold")
			if len(msgs) != 1 || msgs[0].Sender != "Northland" {
				t.Errorf("Expected a reply from Northland, got %+v", msgs)
			}
		})
	}
}

func TestAutoPlayStewardsPlayer(t *testing.T) {
	s := testSession(t)
	// taxes, no treaty
	e := NewEngine(dice.Fixed(0, 99), nil)
	lines, err := e.AutoPlay(context.Background(), s)
	if err != nil {
		t.Fatalf("AutoPlay failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "Stronghold collects 200 gold in taxes." {
		t.Errorf("Unexpected lines %q", lines)
	}
	if s.Human().Resources.Gold != 1200 {
		t.Errorf("Expected 1200 gold, got %d", s.Human().Resources.Gold)
	}

	s.Over = true
	if _, err := e.AutoPlay(context.Background(), s); err != ErrGameOver {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}
}
