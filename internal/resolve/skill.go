package resolve

import (
	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/core/check"
)

// SkillCheckRequest describes a skill check to resolve. The DC comes
// from the caller: terrain annotations, edge traversal options, or a
// scenario directly.
type SkillCheckRequest struct {
	Actor *combatant.Sheet
	Skill string
	DC    int
}

// SkillCheckResult reports the comparison inputs of one skill check.
// Pass or fail interpretation belongs to the caller.
type SkillCheckResult struct {
	Skill    string `json:"skill"`
	Actor    string `json:"actor"`
	Roll     int    `json:"roll"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
	DC       int    `json:"dc"`
	Success  bool   `json:"success"`
	Margin   int    `json:"margin"`
}

// ResolveSkillCheck rolls d20 + the skill's governing-ability modifier,
// adjusted by the skill's condition modifiers for every condition the
// actor currently has. It consumes exactly one d20; an unknown skill
// fails before any dice are drawn.
func ResolveSkillCheck(ctx *Context, req SkillCheckRequest) (SkillCheckResult, error) {
	skill, err := ctx.Rules.Skill(req.Skill)
	if err != nil {
		return SkillCheckResult{}, err
	}

	roll := ctx.Dice.D20()

	modifier := req.Actor.AbilityMod(combatant.Ability(skill.Ability))
	for name, adjust := range skill.ConditionModifiers {
		if req.Actor.HasCondition(name) {
			modifier += adjust
		}
	}

	total := roll + modifier
	outcome := check.Against(total, req.DC)
	return SkillCheckResult{
		Skill:    req.Skill,
		Actor:    req.Actor.Name,
		Roll:     roll,
		Modifier: modifier,
		Total:    total,
		DC:       req.DC,
		Success:  outcome.Success,
		Margin:   outcome.Margin,
	}, nil
}
