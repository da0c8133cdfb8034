package resolve

import (
	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/core/check"
)

// Maneuver names for ManeuverResult.Maneuver.
const (
	ManeuverBullRush = "bull_rush"
	ManeuverGrapple  = "grapple"
)

// ManeuverResult captures a resolved combat maneuver. CMB and CMD are
// precomputed values; maneuvers consume no dice.
type ManeuverResult struct {
	Maneuver     string `json:"maneuver"`
	Attacker     string `json:"attacker"`
	Defender     string `json:"defender"`
	CMB          int    `json:"cmb"`
	CMD          int    `json:"cmd"`
	Success      bool   `json:"success"`
	Margin       int    `json:"margin"`
	PushDistance int    `json:"push_distance,omitempty"`
}

// ResolveBullRush pits the attacker's combat maneuver bonus against the
// defender's combat maneuver defense. Success pushes the defender back
// by the ruleset push distance.
func ResolveBullRush(ctx *Context, attacker, defender *combatant.Sheet) ManeuverResult {
	result := resolveManeuver(ManeuverBullRush, attacker, defender)
	if result.Success {
		result.PushDistance = ctx.Rules.Maneuvers.PushDistance
	}
	return result
}

// ResolveGrapple pits the attacker's combat maneuver bonus against the
// defender's combat maneuver defense.
func ResolveGrapple(_ *Context, attacker, defender *combatant.Sheet) ManeuverResult {
	return resolveManeuver(ManeuverGrapple, attacker, defender)
}

func resolveManeuver(name string, attacker, defender *combatant.Sheet) ManeuverResult {
	cmb := attacker.BAB + attacker.AbilityMod(combatant.STR)
	outcome := check.Opposed(cmb, defender.CMD)
	return ManeuverResult{
		Maneuver: name,
		Attacker: attacker.Name,
		Defender: defender.Name,
		CMB:      cmb,
		CMD:      defender.CMD,
		Success:  outcome.Success,
		Margin:   outcome.Margin,
	}
}
