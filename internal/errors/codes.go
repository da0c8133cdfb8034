// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice errors
	CodeDiceInvalidNotation Code = "DICE_INVALID_NOTATION"

	// Ruleset errors
	CodeRulesetInvalid          Code = "RULESET_INVALID"
	CodeRulesetUnknownWeapon    Code = "RULESET_UNKNOWN_WEAPON"
	CodeRulesetUnknownSpell     Code = "RULESET_UNKNOWN_SPELL"
	CodeRulesetUnknownSkill     Code = "RULESET_UNKNOWN_SKILL"
	CodeRulesetUnknownCondition Code = "RULESET_UNKNOWN_CONDITION"

	// Turn economy errors
	CodeTurnUnknownActor      Code = "TURN_UNKNOWN_ACTOR"
	CodeTurnUnknownActionType Code = "TURN_UNKNOWN_ACTION_TYPE"
	CodeTurnInvalidParams     Code = "TURN_INVALID_PARAMS"
	CodeTurnStandardConflict  Code = "TURN_STANDARD_SLOT_CONFLICT"
	CodeTurnMoveConflict      Code = "TURN_MOVE_SLOT_CONFLICT"
	CodeTurnFullRoundConflict Code = "TURN_FULL_ROUND_CONFLICT"
	CodeTurnSwiftConflict     Code = "TURN_SWIFT_SLOT_CONFLICT"
	CodeTurnDelayedConflict   Code = "TURN_DELAYED_SLOT_CONFLICT"
	CodeTurnAlreadyResolved   Code = "TURN_ALREADY_RESOLVED"

	// Scenario errors
	CodeScenarioInvalid Code = "SCENARIO_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
