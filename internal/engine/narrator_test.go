package engine

import (
	"strings"
	"testing"

	"github.com/tatianab/stronghold/internal/models"
	"github.com/tatianab/stronghold/internal/world"
)

func TestBattlePrompt(t *testing.T) {
	report := &world.BattleReport{
		Attacker:       "Stronghold",
		Defender:       "Northland",
		AttackPower:    400,
		DefensePower:   120,
		AttackerWon:    true,
		AttackerLosses: 12,
		DefenderLosses: 50,
		Plunder:        models.Resources{Gold: 200, Food: 100},
	}
	prompt, err := renderPrompt("narrate_battle", narrateBattlePrompt, report)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{
		"Attacker: Stronghold (strength 400)",
		"Outcome: Stronghold won and carried off 200 gold and 100 food.",
		"Defender losses: 50",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, prompt)
		}
	}

	report.AttackerWon = false
	prompt, err = renderPrompt("narrate_battle", narrateBattlePrompt, report)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Outcome: Northland held the walls.") {
		t.Errorf("Expected the defender to hold in prompt:\n%s", prompt)
	}
}

func TestTurnPrompt(t *testing.T) {
	prompt, err := renderPrompt("narrate_turn", narrateTurnPrompt, TurnSummary{
		Turn:       4,
		Kingdom:    "Stronghold",
		Population: 130,
		Happiness:  65,
		Resources:  models.Resources{Gold: 1400, Food: 380, Wood: 260, Stone: 260},
		Events:     []string{"Northland builds a Farm."},
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{
		"kingdom of Stronghold",
		"Turn: 4",
		"Treasury: 1400 gold, 380 food, 260 wood, 260 stone",
		"- Northland builds a Farm.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, prompt)
		}
	}
}
