package resolve

import "github.com/louisbranch/skirmish-engine/internal/combatant"

// SpellRequest describes a spell cast to resolve. Slot availability is
// the action layer's concern and is settled before the resolver runs.
type SpellRequest struct {
	Caster *combatant.Sheet
	Target *combatant.Sheet
	Spell  string
}

// SpellResult captures a resolved spell cast.
type SpellResult struct {
	Spell  string `json:"spell"`
	Caster string `json:"caster"`
	Target string `json:"target"`
	Level  int    `json:"level"`
	Damage int    `json:"damage"`
}

// ResolveSpell rolls the spell's configured damage notation through the
// shared roller. It consumes exactly one damage roll; an unknown spell
// fails before any dice are drawn.
func ResolveSpell(ctx *Context, req SpellRequest) (SpellResult, error) {
	spell, err := ctx.Rules.Spell(req.Spell)
	if err != nil {
		return SpellResult{}, err
	}

	entry, err := ctx.Dice.Roll(spell.Damage)
	if err != nil {
		return SpellResult{}, err
	}

	return SpellResult{
		Spell:  req.Spell,
		Caster: req.Caster.Name,
		Target: req.Target.Name,
		Level:  spell.Level,
		Damage: entry.Total,
	}, nil
}
