package scenario

import (
	"fmt"
	"math"

	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/condition"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/grid"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

const defaultTerrain = "open"

func buildMap(spec *MapSpec) (*grid.Map, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, apperrors.Newf(apperrors.CodeScenarioInvalid,
			"map requires positive dimensions, got %dx%d", spec.Width, spec.Height)
	}

	tag := spec.Default
	if tag == "" {
		tag = defaultTerrain
	}
	m := grid.NewMap(spec.Width, spec.Height, tag)

	for _, t := range spec.Terrain {
		c := grid.Coord{X: t.X, Y: t.Y}
		if !m.InBounds(c) {
			return nil, apperrors.Newf(apperrors.CodeScenarioInvalid,
				"terrain at (%d,%d) outside %dx%d map", t.X, t.Y, spec.Width, spec.Height)
		}
		m.SetTerrain(c, t.Tag)
	}
	for _, e := range spec.Elevations {
		c := grid.Coord{X: e.X, Y: e.Y}
		if !m.InBounds(c) {
			return nil, apperrors.Newf(apperrors.CodeScenarioInvalid,
				"elevation at (%d,%d) outside %dx%d map", e.X, e.Y, spec.Width, spec.Height)
		}
		m.SetElevation(c, e.Feet)
	}
	return m, nil
}

func buildSheets(specs []ActorSpec, rules *ruleset.Ruleset) ([]*combatant.Sheet, error) {
	sheets := make([]*combatant.Sheet, 0, len(specs))
	for _, spec := range specs {
		sheet, err := buildSheet(spec, rules)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// buildSheet translates a script option table into a combatant sheet.
// Weapon and condition names resolve against the ruleset so typos fail
// at load, not mid-round.
func buildSheet(spec ActorSpec, rules *ruleset.Ruleset) (*combatant.Sheet, error) {
	sheet := combatant.New(spec.Name)

	var slots []any
	var slotsMax []any

	for key, value := range spec.Opts {
		switch key {
		case "str", "dex", "con", "int", "wis", "cha":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.Abilities[combatant.Ability(key)] = n
		case "bab":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.BAB = n
		case "ac":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.BaseAC = n
		case "touch_ac":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.BaseTouchAC = n
		case "flat_footed_ac":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.BaseFlatFootedAC = n
		case "cmd":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.CMD = n
		case "armor_check_penalty":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.ArmorCheckPenalty = n
		case "concealment":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.Concealment = n
		case "weapon":
			name, ok := value.(string)
			if !ok || name == "" {
				return nil, badOpt(spec.Name, key, value)
			}
			if _, err := rules.Weapon(name); err != nil {
				return nil, err
			}
			sheet.Weapon = name
		case "x":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.Position.X = n
		case "y":
			n, ok := intOpt(value)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			sheet.Position.Y = n
		case "slots":
			list, ok := value.([]any)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			slots = list
		case "slots_max":
			list, ok := value.([]any)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			slotsMax = list
		case "conditions":
			table, ok := value.(map[string]any)
			if !ok {
				return nil, badOpt(spec.Name, key, value)
			}
			if err := afflictAll(sheet, table, rules); err != nil {
				return nil, err
			}
		default:
			return nil, apperrors.WithMetadata(apperrors.CodeScenarioInvalid,
				"unknown actor option", map[string]string{
					"actor":  spec.Name,
					"option": key,
				})
		}
	}

	if err := applySlots(sheet, spec.Name, slots, slotsMax); err != nil {
		return nil, err
	}
	return sheet, nil
}

// applySlots reads slot counts from positional lists: element i is the
// count for spell level i+1. Max defaults to the current counts.
func applySlots(sheet *combatant.Sheet, actor string, slots, slotsMax []any) error {
	for i, value := range slots {
		n, ok := intOpt(value)
		if !ok || n < 0 {
			return badOpt(actor, "slots", value)
		}
		sheet.SpellSlots[i+1] = n
	}
	if slotsMax == nil {
		for level, n := range sheet.SpellSlots {
			sheet.SpellSlotsMax[level] = n
		}
		return nil
	}
	for i, value := range slotsMax {
		n, ok := intOpt(value)
		if !ok || n < 0 {
			return badOpt(actor, "slots_max", value)
		}
		sheet.SpellSlotsMax[i+1] = n
	}
	return nil
}

func afflictAll(sheet *combatant.Sheet, table map[string]any, rules *ruleset.Ruleset) error {
	for name, value := range table {
		rounds, ok := intOpt(value)
		if !ok || rounds <= 0 {
			return badOpt(sheet.Name, "conditions."+name, value)
		}
		def, err := rules.Condition(name)
		if err != nil {
			return err
		}
		sheet.Afflict(condition.New(name, rounds, def))
	}
	return nil
}

func intOpt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.Mod(v, 1) == 0 {
			return int(v), true
		}
	}
	return 0, false
}

func badOpt(actor, key string, value any) error {
	return apperrors.WithMetadata(apperrors.CodeScenarioInvalid,
		"invalid actor option value", map[string]string{
			"actor":  actor,
			"option": key,
			"value":  fmt.Sprintf("%v", value),
		})
}
