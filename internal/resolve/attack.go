package resolve

import (
	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/core/bonus"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

// unarmedDamage is rolled when an attack carries no weapon.
const unarmedDamage = "1d8"

// AttackRequest describes a single attack to resolve.
type AttackRequest struct {
	Attacker *combatant.Sheet
	Defender *combatant.Sheet
	// Weapon names a ruleset weapon; empty means unarmed.
	Weapon string
	// Touch attacks target touch AC and never threaten criticals.
	Touch bool
}

// AttackResult captures the outcome of one resolved attack. Debug holds
// every intermediate value of the pipeline keyed by name, so a journal
// reader can re-derive the arithmetic.
type AttackResult struct {
	Attacker           string         `json:"attacker"`
	Defender           string         `json:"defender"`
	Weapon             string         `json:"weapon,omitempty"`
	NaturalRoll        int            `json:"natural_roll"`
	Hit                bool           `json:"hit"`
	Critical           bool           `json:"critical"`
	ConcealmentApplied bool           `json:"concealment_applied"`
	Damage             int            `json:"damage"`
	Debug              map[string]int `json:"debug"`
}

// ResolveAttack runs the full attack pipeline against the shared
// roller.
//
// # Pipeline
//
// Roll the natural d20. Stack the attack bonus from {bab, ability,
// weapon, penalty} entries, where the ability modifier is DEX for
// ranged or unarmed attacks and STR otherwise. Pick the defense: touch
// AC for touch attacks, flat-footed AC when the defender is
// flat-footed, the bare base 10 when both apply, full AC otherwise. The
// attack hits when natural + bonus meets the defense, or always on a
// natural 20. A hit against a concealed defender then rolls percentile
// concealment; at or under the concealment percentage the hit converts
// to a miss, flagged ConcealmentApplied, and processing stops. A
// surviving hit within the weapon's threat range (never for touch or
// unarmed attacks) rolls a confirmation d20 against the same bonus and
// defense; confirmation multiplies the damage roll by the weapon's
// critical multiplier. Damage is the weapon's damage notation (1d8
// unarmed) times the multiplier, plus the ability modifier.
//
// # Dice consumption
//
// In order: the natural d20; a percentile roll only when the attack hit
// a concealed defender; a confirmation d20 only when the surviving hit
// landed in threat range; the damage roll only when a hit survives
// concealment. A miss consumes the natural d20 alone.
func ResolveAttack(ctx *Context, req AttackRequest) (AttackResult, error) {
	var weapon ruleset.Weapon
	armed := req.Weapon != ""
	if armed {
		w, err := ctx.Rules.Weapon(req.Weapon)
		if err != nil {
			return AttackResult{}, err
		}
		weapon = w
	}

	natural := ctx.Dice.D20()

	ability := combatant.STR
	if !armed || weapon.Ranged {
		ability = combatant.DEX
	}
	abilityMod := req.Attacker.AbilityMod(ability)

	entries := []bonus.Entry{
		{Value: req.Attacker.BAB, Type: "bab"},
		{Value: abilityMod, Type: "ability"},
	}
	if armed {
		entries = append(entries, bonus.Entry{Value: weapon.AttackBonus, Type: "weapon"})
	}
	if req.Attacker.ArmorCheckPenalty != 0 {
		entries = append(entries, bonus.Entry{Value: -req.Attacker.ArmorCheckPenalty, Type: "penalty"})
	}
	effBonus := bonus.Stack(entries, ctx.Rules.StackingRules()).Total

	defense := effectiveDefense(req.Defender, req.Touch)

	result := AttackResult{
		Attacker:    req.Attacker.Name,
		Defender:    req.Defender.Name,
		Weapon:      req.Weapon,
		NaturalRoll: natural,
		Debug: map[string]int{
			"natural_roll":      natural,
			"ability_mod":       abilityMod,
			"effective_bonus":   effBonus,
			"effective_defense": defense,
		},
	}

	if natural != 20 && natural+effBonus < defense {
		return result, nil
	}

	if req.Defender.Concealment > 0 {
		roll := ctx.Dice.Percentile()
		result.Debug["concealment_roll"] = roll
		if roll <= req.Defender.Concealment {
			result.ConcealmentApplied = true
			return result, nil
		}
	}
	result.Hit = true

	multiplier := 1
	if armed && !req.Touch && natural >= weapon.ThreatRange {
		confirm := ctx.Dice.D20()
		result.Debug["confirm_roll"] = confirm
		if confirm+effBonus >= defense {
			result.Critical = true
			multiplier = weapon.CritMultiplier
		}
	}

	notation := unarmedDamage
	if armed {
		notation = weapon.Damage
	}
	entry, err := ctx.Dice.Roll(notation)
	if err != nil {
		return AttackResult{}, err
	}
	result.Debug["base_damage"] = entry.Total
	result.Damage = entry.Total*multiplier + abilityMod
	return result, nil
}

// effectiveDefense picks the defense value an attack resolves against.
// Touch and flat-footed together strip every adjustment down to the
// bare base.
func effectiveDefense(defender *combatant.Sheet, touch bool) int {
	flat := defender.HasCondition(combatant.FlatFooted)
	switch {
	case touch && flat:
		return 10
	case touch:
		return defender.TouchAC()
	case flat:
		return defender.FlatFootedAC()
	default:
		return defender.AC()
	}
}
