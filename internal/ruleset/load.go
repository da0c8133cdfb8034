package ruleset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/skirmish-engine/internal/core/bonus"
	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
)

//go:embed default.yaml
var defaultTables []byte

// validAbilities are the ability names a skill may be governed by.
var validAbilities = map[string]bool{
	"str": true, "dex": true, "con": true,
	"int": true, "wis": true, "cha": true,
}

// Load reads the YAML rule tables at path and returns a validated Ruleset.
func Load(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: open %q: %w", path, err)
	}
	defer f.Close()

	rules, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("ruleset: parse %q: %w", path, err)
	}
	return rules, nil
}

// LoadFromReader decodes YAML rule tables from r, applies defaults, and
// validates the result. Useful in tests where tables are built from
// string literals.
func LoadFromReader(r io.Reader) (*Ruleset, error) {
	rules := &Ruleset{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(rules); err != nil {
		return nil, fmt.Errorf("ruleset: decode yaml: %w", err)
	}

	applyDefaults(rules)
	if err := Validate(rules); err != nil {
		return nil, apperrors.Newf(apperrors.CodeRulesetInvalid, "invalid ruleset: %v", err)
	}
	return rules, nil
}

// Default returns the ruleset embedded in the binary. Each call decodes a
// fresh copy so no caller can observe another's mutations.
func Default() (*Ruleset, error) {
	rules, err := LoadFromReader(bytes.NewReader(defaultTables))
	if err != nil {
		return nil, fmt.Errorf("ruleset: embedded default: %w", err)
	}
	return rules, nil
}

// applyDefaults fills absent optional fields before validation.
func applyDefaults(rules *Ruleset) {
	for name, weapon := range rules.Weapons {
		if weapon.ThreatRange == 0 {
			weapon.ThreatRange = DefaultThreatRange
		}
		if weapon.CritMultiplier == 0 {
			weapon.CritMultiplier = DefaultCritMultiplier
		}
		rules.Weapons[name] = weapon
	}
	if rules.Maneuvers.PushDistance == 0 {
		rules.Maneuvers.PushDistance = DefaultPushDistance
	}
	if rules.Movement.ClimbRate == 0 {
		rules.Movement.ClimbRate = DefaultClimbRate
	}
	if rules.Movement.StairwellMultiplier == 0 {
		rules.Movement.StairwellMultiplier = DefaultStairwellMultiplier
	}
}

// Validate checks the tables form a coherent whole. It returns a joined
// error listing every failure found.
func Validate(rules *Ruleset) error {
	var errs []error

	for typ, mode := range rules.Stacking {
		if mode != bonus.Stacking && mode != bonus.NonStacking {
			errs = append(errs, fmt.Errorf("stacking.%s: mode %q is invalid; valid values: stacking, non_stacking", typ, mode))
		}
	}

	for tag, rule := range rules.Terrain {
		if rule.Impassable {
			continue
		}
		if rule.Cost < 1 {
			errs = append(errs, fmt.Errorf("terrain.%s: cost must be >= 1", tag))
		}
		if rule.Skill != "" {
			if _, ok := rules.Skills[rule.Skill]; !ok {
				errs = append(errs, fmt.Errorf("terrain.%s: skill %q is not defined", tag, rule.Skill))
			}
			if rule.DC < 1 {
				errs = append(errs, fmt.Errorf("terrain.%s: skill check requires dc >= 1", tag))
			}
		}
	}

	for name, weapon := range rules.Weapons {
		if _, err := dice.Parse(weapon.Damage); err != nil {
			errs = append(errs, fmt.Errorf("weapons.%s: damage: %w", name, err))
		}
		if weapon.ThreatRange < 2 || weapon.ThreatRange > 20 {
			errs = append(errs, fmt.Errorf("weapons.%s: threat_range must be in range 2..20", name))
		}
		if weapon.CritMultiplier < 2 {
			errs = append(errs, fmt.Errorf("weapons.%s: crit_multiplier must be >= 2", name))
		}
	}

	for name, spell := range rules.Spells {
		if _, err := dice.Parse(spell.Damage); err != nil {
			errs = append(errs, fmt.Errorf("spells.%s: damage: %w", name, err))
		}
		if spell.Level < 0 {
			errs = append(errs, fmt.Errorf("spells.%s: level must be >= 0", name))
		}
	}

	for name, skill := range rules.Skills {
		if !validAbilities[skill.Ability] {
			errs = append(errs, fmt.Errorf("skills.%s: ability %q is invalid; valid values: str, dex, con, int, wis, cha", name, skill.Ability))
		}
		for cond := range skill.ConditionModifiers {
			if _, ok := rules.Conditions[cond]; !ok {
				errs = append(errs, fmt.Errorf("skills.%s: condition %q is not defined", name, cond))
			}
		}
	}

	if rules.Maneuvers.PushDistance < 0 {
		errs = append(errs, errors.New("maneuvers.push_distance must be >= 0"))
	}
	if rules.Movement.ClimbRate < 1 {
		errs = append(errs, errors.New("movement.climb_rate must be >= 1"))
	}
	if rules.Movement.StairwellMultiplier < 1 {
		errs = append(errs, errors.New("movement.stairwell_multiplier must be >= 1"))
	}
	if rules.Regen.SpellSlotsPerRound < 0 {
		errs = append(errs, errors.New("regeneration.spell_slots_per_round must be >= 0"))
	}

	return errors.Join(errs...)
}
