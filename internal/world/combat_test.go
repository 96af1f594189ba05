package world

import (
	"errors"
	"testing"

	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/models"
)

// battleMap places two soldier-only kingdoms.
func battleMap(t *testing.T, ax, ay, bx, by int) (*Grid, *models.Kingdom, *models.Kingdom) {
	t.Helper()
	g := NewGrid(10, 10, MaxKingdoms)
	a := models.NewKingdom("Stronghold")
	b := models.NewKingdom("Northland")
	a.Military.Soldiers = 10
	b.Military.Soldiers = 10
	if err := g.Place(a, ax, ay); err != nil {
		t.Fatalf("Place attacker: %v", err)
	}
	if err := g.Place(b, bx, by); err != nil {
		t.Fatalf("Place defender: %v", err)
	}
	return g, a, b
}

func TestAttackRepelled(t *testing.T) {
	g, a, b := battleMap(t, 0, 0, 1, 1)
	// 80+20 = 100% on both sides.
	report, err := g.Attack(a, b, dice.Fixed(20, 20))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if report.AttackerWon {
		t.Fatalf("Expected the defender to hold, got %s", report)
	}
	if report.AttackPower != 100 || report.DefensePower != 120 {
		t.Errorf("Expected powers 100 vs 120, got %d vs %d", report.AttackPower, report.DefensePower)
	}
	if report.AttackerLosses != 24 || report.DefenderLosses != 6 {
		t.Errorf("Expected losses 24/6, got %d/%d", report.AttackerLosses, report.DefenderLosses)
	}
	if a.Military.Soldiers != 0 {
		t.Errorf("Expected attacker soldiers 0, got %d", a.Military.Soldiers)
	}
	if b.Military.Soldiers != 4 {
		t.Errorf("Expected defender soldiers 4, got %d", b.Military.Soldiers)
	}
	if a.Resources != models.StartingResources() || b.Resources != models.StartingResources() {
		t.Errorf("Expected no plunder on a failed attack")
	}
}

func TestAttackWinsAndPlunders(t *testing.T) {
	g, a, b := battleMap(t, 0, 0, 2, 1)
	a.Military = models.Military{Cavalry: 20}
	report, err := g.Attack(a, b, dice.Fixed(20, 20))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if !report.AttackerWon {
		t.Fatalf("Expected the attacker to win, got %s", report)
	}
	// 400 vs 120: attacker loses 12, defender loses 50.
	if a.Military.Cavalry != 8 {
		t.Errorf("Expected 8 cavalry left, got %d", a.Military.Cavalry)
	}
	if b.Military.Soldiers != 0 {
		t.Errorf("Expected defender wiped out, got %d soldiers", b.Military.Soldiers)
	}
	if report.Plunder.Gold != 200 || report.Plunder.Food != 100 {
		t.Errorf("Expected plunder 200 gold 100 food, got %+v", report.Plunder)
	}
	if a.Resources.Gold != 1200 || a.Resources.Food != 600 {
		t.Errorf("Expected attacker 1200 gold 600 food, got %d/%d", a.Resources.Gold, a.Resources.Food)
	}
	if b.Resources.Gold != 800 || b.Resources.Food != 400 {
		t.Errorf("Expected defender 800 gold 400 food, got %d/%d", b.Resources.Gold, b.Resources.Food)
	}
	if total := a.Resources.Gold + b.Resources.Gold; total != 2000 {
		t.Errorf("Expected gold conserved at 2000, got %d", total)
	}
}

func TestAttackTieGoesToDefender(t *testing.T) {
	g, a, b := battleMap(t, 0, 0, 0, 1)
	// 10 soldiers attack at 120, 10 soldiers defend at 100: 120 vs 120.
	report, err := g.Attack(a, b, dice.Fixed(40, 20))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if report.AttackPower != report.DefensePower {
		t.Fatalf("Expected a tie, got %d vs %d", report.AttackPower, report.DefensePower)
	}
	if report.AttackerWon {
		t.Errorf("Expected ties to go to the defender")
	}
}

func TestAttackRollBounds(t *testing.T) {
	g, a, b := battleMap(t, 0, 0, 1, 0)
	report, err := g.Attack(a, b, dice.Fixed(0, 40))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if report.AttackRoll != 80 || report.DefenseRoll != 120 {
		t.Errorf("Expected rolls 80/120, got %d/%d", report.AttackRoll, report.DefenseRoll)
	}
}

func TestAttackRejected(t *testing.T) {
	g, a, b := battleMap(t, 0, 0, 3, 1)
	stray := models.NewKingdom("Nomads")

	tests := []struct {
		name     string
		attacker *models.Kingdom
		defender *models.Kingdom
		wantErr  error
	}{
		{"too far", a, b, ErrTooFar},
		{"self", a, a, ErrSelfAttack},
		{"unplaced defender", a, stray, ErrNotPlaced},
		{"unplaced attacker", stray, b, ErrNotPlaced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beforeA, beforeB := *a, *b
			rng := dice.Fixed(20, 20)
			if _, err := g.Attack(tt.attacker, tt.defender, rng); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if a.Military != beforeA.Military || b.Military != beforeB.Military {
				t.Errorf("Expected armies unchanged")
			}
			if a.Resources != beforeA.Resources || b.Resources != beforeB.Resources {
				t.Errorf("Expected resources unchanged")
			}
			if rng.Drawn() != 0 {
				t.Errorf("Expected no rolls on a rejected attack, got %d", rng.Drawn())
			}
		})
	}
}
