// Package resolve computes the numeric outcome of individual combat
// actions: attacks, combat maneuvers, spell damage, and skill checks.
//
// Every resolver takes an explicit *Context built for the current
// round. The context carries the shared dice roller and the loaded
// ruleset; there is no ambient engine state. Because the roller is a
// single sequential source, the order in which resolvers run and the
// number of dice each consumes are part of the replay contract. Each
// resolver documents its consumption.
//
// Resolvers validate their inputs against the ruleset before touching
// the roller, so a rejected request never consumes dice.
package resolve

import (
	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

// Context carries the per-round resolution dependencies shared by every
// resolver call in that round.
type Context struct {
	Dice  *dice.Roller
	Rules *ruleset.Ruleset
}
