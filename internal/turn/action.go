// Package turn implements the per-round action economy and the
// initiative scheduler: actors submit intents, a Round enforces the
// slot rules at insertion, and the Manager orders the accepted actions
// by initiative, dispatches them against the resolvers, and advances
// the participating actors at the end of the round.
package turn

import (
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/grid"
)

// Kind tags one variant of the closed action set.
type Kind string

const (
	KindAttack         Kind = "attack"
	KindSpell          Kind = "spell"
	KindSkillCheck     Kind = "skill_check"
	KindMove           Kind = "move"
	KindFullRound      Kind = "full_round"
	KindBullRush       Kind = "bull_rush"
	KindGrapple        Kind = "grapple"
	KindUseItem        Kind = "use_item"
	KindApplyCondition Kind = "apply_condition"
	KindFree           Kind = "free"
	KindImmediate      Kind = "immediate"
	KindReadied        Kind = "readied"
	KindDelayed        Kind = "delayed"
)

// Action is one validated, scheduled act. A single struct carries the
// union of kind-specific parameters; the executor switches on Kind.
type Action struct {
	Kind  Kind
	Actor string

	// Target names the defender for attacks and maneuvers, the spell
	// target, or the recipient of a condition (empty means self).
	Target string

	// Weapon names a ruleset weapon for attacks; empty means unarmed.
	Weapon string
	// Touch attacks resolve against touch AC.
	Touch bool

	Spell string

	Skill string
	DC    int

	// Destination is the goal cell for move actions.
	Destination grid.Coord

	// Condition and Rounds parameterize apply_condition.
	Condition string
	Rounds    int

	Item string

	// Note is free-form text carried into the audit log for the
	// generic kinds (free, immediate, readied, delayed, full_round).
	Note string
}

// Intent is the sole intake format for building a round: an actor name,
// an action type string, and type-specific parameters. Parameter values
// may arrive as float64 (decoded JSON, Lua numbers) or int.
type Intent struct {
	Actor  string         `json:"actor"`
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// decodeIntent maps an intent onto the closed action set, coercing and
// checking the kind-specific parameters. It performs no roster or
// ruleset lookups; those belong to the Manager.
func decodeIntent(intent Intent) (Action, error) {
	action := Action{Kind: Kind(intent.Type), Actor: intent.Actor}

	switch action.Kind {
	case KindAttack:
		target, ok := stringParam(intent.Params, "target")
		if !ok {
			return Action{}, missingParam(intent, "target")
		}
		action.Target = target
		action.Weapon, _ = stringParam(intent.Params, "weapon")
		action.Touch, _ = boolParam(intent.Params, "touch")

	case KindSpell:
		spell, ok := stringParam(intent.Params, "spell")
		if !ok {
			return Action{}, missingParam(intent, "spell")
		}
		target, ok := stringParam(intent.Params, "target")
		if !ok {
			return Action{}, missingParam(intent, "target")
		}
		action.Spell = spell
		action.Target = target

	case KindSkillCheck:
		skill, ok := stringParam(intent.Params, "skill")
		if !ok {
			return Action{}, missingParam(intent, "skill")
		}
		dc, ok := intParam(intent.Params, "dc")
		if !ok {
			return Action{}, missingParam(intent, "dc")
		}
		action.Skill = skill
		action.DC = dc

	case KindMove:
		x, okX := intParam(intent.Params, "x")
		y, okY := intParam(intent.Params, "y")
		if !okX || !okY {
			return Action{}, missingParam(intent, "x, y")
		}
		action.Destination = grid.Coord{X: x, Y: y}

	case KindBullRush, KindGrapple:
		target, ok := stringParam(intent.Params, "target")
		if !ok {
			return Action{}, missingParam(intent, "target")
		}
		action.Target = target

	case KindUseItem:
		item, ok := stringParam(intent.Params, "item")
		if !ok {
			return Action{}, missingParam(intent, "item")
		}
		action.Item = item

	case KindApplyCondition:
		name, ok := stringParam(intent.Params, "condition")
		if !ok {
			return Action{}, missingParam(intent, "condition")
		}
		action.Condition = name
		action.Rounds = 1
		if rounds, ok := intParam(intent.Params, "rounds"); ok {
			action.Rounds = rounds
		}
		action.Target, _ = stringParam(intent.Params, "target")

	case KindFullRound, KindFree, KindImmediate, KindReadied, KindDelayed:
		action.Note, _ = stringParam(intent.Params, "note")

	default:
		return Action{}, apperrors.WithMetadata(apperrors.CodeTurnUnknownActionType,
			"unknown action type", map[string]string{
				"actor": intent.Actor,
				"type":  intent.Type,
			})
	}

	return action, nil
}

func missingParam(intent Intent, key string) error {
	return apperrors.WithMetadata(apperrors.CodeTurnInvalidParams,
		"missing or invalid action parameter", map[string]string{
			"actor": intent.Actor,
			"type":  intent.Type,
			"param": key,
		})
}

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func boolParam(params map[string]any, key string) (bool, bool) {
	v, ok := params[key].(bool)
	return v, ok
}

func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
