// Package ruleset holds the data-driven rule tables the engine consumes:
// bonus stacking modes, terrain costs and checks, weapon and spell
// parameters, skills, condition definitions, and movement constants.
//
// A Ruleset is loaded once, validated, and treated as immutable for the
// lifetime of the process. Callers must not mutate it after Load returns.
package ruleset

import (
	"github.com/louisbranch/skirmish-engine/internal/core/bonus"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
)

// Defaults applied to absent optional fields during load.
const (
	DefaultThreatRange         = 19
	DefaultCritMultiplier      = 2
	DefaultPushDistance        = 1
	DefaultClimbRate           = 10
	DefaultStairwellMultiplier = 2
)

// Ruleset is the full set of externally configured rule tables.
type Ruleset struct {
	Stacking   map[string]bonus.Mode   `yaml:"stacking"`
	Terrain    map[string]TerrainRule  `yaml:"terrain"`
	Weapons    map[string]Weapon       `yaml:"weapons"`
	Spells     map[string]Spell        `yaml:"spells"`
	Skills     map[string]Skill        `yaml:"skills"`
	Conditions map[string]ConditionDef `yaml:"conditions"`
	Maneuvers  Maneuvers               `yaml:"maneuvers"`
	Movement   Movement                `yaml:"movement"`
	Regen      Regeneration            `yaml:"regeneration"`
}

// TerrainRule maps a terrain tag to its traversal behavior. A rule is
// either impassable, a plain cost, or a cost gated by a skill check.
type TerrainRule struct {
	Cost       int    `yaml:"cost"`
	Impassable bool   `yaml:"impassable"`
	Skill      string `yaml:"skill"`
	DC         int    `yaml:"dc"`
}

// Weapon holds the attack parameters for one weapon entry.
type Weapon struct {
	Damage         string `yaml:"damage"`
	AttackBonus    int    `yaml:"attack_bonus"`
	ThreatRange    int    `yaml:"threat_range"`
	CritMultiplier int    `yaml:"crit_multiplier"`
	Ranged         bool   `yaml:"ranged"`
}

// Spell holds the resolution parameters for one spell entry.
type Spell struct {
	Damage string `yaml:"damage"`
	Level  int    `yaml:"level"`
}

// Skill names its governing ability and the condition-driven modifiers
// that apply when the acting combatant has the named condition.
type Skill struct {
	Ability            string         `yaml:"ability"`
	ConditionModifiers map[string]int `yaml:"condition_modifiers"`
}

// ConditionDef is the modifier table a named condition applies while
// active, e.g. {ac: -4}.
type ConditionDef struct {
	Modifiers map[string]int `yaml:"modifiers"`
}

// Maneuvers holds combat-maneuver parameters.
type Maneuvers struct {
	PushDistance int `yaml:"push_distance"`
}

// Movement holds the vertical-traversal constants.
type Movement struct {
	ClimbRate           int `yaml:"climb_rate"`
	StairwellMultiplier int `yaml:"stairwell_multiplier"`
}

// Regeneration holds the post-round resource regeneration table.
type Regeneration struct {
	SpellSlotsPerRound int `yaml:"spell_slots_per_round"`
}

// StackingRules exposes the stacking table in the form the bonus
// package consumes.
func (r *Ruleset) StackingRules() bonus.Rules {
	return bonus.Rules(r.Stacking)
}

// Weapon looks up a weapon by name.
func (r *Ruleset) Weapon(name string) (Weapon, error) {
	weapon, ok := r.Weapons[name]
	if !ok {
		return Weapon{}, apperrors.Newf(apperrors.CodeRulesetUnknownWeapon, "unknown weapon %q", name)
	}
	return weapon, nil
}

// Spell looks up a spell by name.
func (r *Ruleset) Spell(name string) (Spell, error) {
	spell, ok := r.Spells[name]
	if !ok {
		return Spell{}, apperrors.Newf(apperrors.CodeRulesetUnknownSpell, "unknown spell %q", name)
	}
	return spell, nil
}

// Skill looks up a skill by name.
func (r *Ruleset) Skill(name string) (Skill, error) {
	skill, ok := r.Skills[name]
	if !ok {
		return Skill{}, apperrors.Newf(apperrors.CodeRulesetUnknownSkill, "unknown skill %q", name)
	}
	return skill, nil
}

// Condition looks up a condition definition by name.
func (r *Ruleset) Condition(name string) (ConditionDef, error) {
	def, ok := r.Conditions[name]
	if !ok {
		return ConditionDef{}, apperrors.Newf(apperrors.CodeRulesetUnknownCondition, "unknown condition %q", name)
	}
	return def, nil
}
