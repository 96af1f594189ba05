package world

import (
	"errors"
	"fmt"

	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/models"
)

// AttackRange is the farthest Manhattan distance an attack can reach.
const AttackRange = 3

var (
	ErrTooFar     = errors.New("target too far to attack")
	ErrSelfAttack = errors.New("a kingdom cannot attack itself")
)

// BattleReport describes a resolved attack.
type BattleReport struct {
	Attacker     string
	Defender     string
	AttackRoll   int // percent applied to the attacker's power, 80..120
	DefenseRoll  int // percent applied to the defender's power, 80..120
	AttackPower  int // after the roll
	DefensePower int // after the roll
	AttackerWon  bool
	// Casualties requested from each side; fewer units may actually fall
	// when an army is smaller than its loss.
	AttackerLosses int
	DefenderLosses int
	Plunder        models.Resources
}

func (r *BattleReport) String() string {
	if r.AttackerWon {
		return fmt.Sprintf("%s defeats %s (%d vs %d) and plunders %d gold, %d food",
			r.Attacker, r.Defender, r.AttackPower, r.DefensePower, r.Plunder.Gold, r.Plunder.Food)
	}
	return fmt.Sprintf("%s repels %s (%d vs %d)", r.Defender, r.Attacker, r.AttackPower, r.DefensePower)
}

// Attack resolves a raid by attacker on defender. Each side's power is scaled
// by an independent roll in [80%, 120%]. The attacker wins only with strictly
// greater power; ties go to the defender. A winner plunders a fifth of the
// defender's gold and food; a repelled attacker takes double casualties while
// the defender takes half.
func (g *Grid) Attack(attacker, defender *models.Kingdom, rng dice.Rand) (*BattleReport, error) {
	if attacker == defender || attacker.Name == defender.Name {
		return nil, ErrSelfAttack
	}
	if _, err := g.placedSlot(attacker); err != nil {
		return nil, err
	}
	if _, err := g.placedSlot(defender); err != nil {
		return nil, err
	}
	if d := Distance(attacker, defender); d > AttackRange {
		return nil, fmt.Errorf("%s -> %s at distance %d: %w", attacker.Name, defender.Name, d, ErrTooFar)
	}

	report := &BattleReport{
		Attacker:    attacker.Name,
		Defender:    defender.Name,
		AttackRoll:  dice.Between(rng, 80, 120),
		DefenseRoll: dice.Between(rng, 80, 120),
	}
	report.AttackPower = attacker.Military.AttackPower() * report.AttackRoll / 100
	report.DefensePower = defender.Military.DefensePower() * report.DefenseRoll / 100

	attackerCasualties := report.DefensePower / 10
	defenderCasualties := report.AttackPower / 8

	if report.AttackPower > report.DefensePower {
		report.AttackerWon = true
		report.AttackerLosses = attackerCasualties
		report.DefenderLosses = defenderCasualties
		attacker.Military.ApplyCasualties(attackerCasualties)
		defender.Military.ApplyCasualties(defenderCasualties)

		// Both shares are fixed before either debit.
		gold := defender.Resources.Gold / 5
		food := defender.Resources.Food / 5
		if err := defender.Resources.Debit(models.Gold, gold); err == nil {
			attacker.Resources.Credit(models.Gold, gold)
			report.Plunder.Gold = gold
		}
		if err := defender.Resources.Debit(models.Food, food); err == nil {
			attacker.Resources.Credit(models.Food, food)
			report.Plunder.Food = food
		}
		return report, nil
	}

	report.AttackerLosses = attackerCasualties * 2
	report.DefenderLosses = defenderCasualties / 2
	attacker.Military.ApplyCasualties(report.AttackerLosses)
	defender.Military.ApplyCasualties(report.DefenderLosses)
	return report, nil
}
