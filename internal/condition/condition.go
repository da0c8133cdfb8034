// Package condition implements timed combat effects. One Condition type
// covers every named effect; behavior differences come entirely from the
// modifier table configured per name in the ruleset.
package condition

import "github.com/louisbranch/skirmish-engine/internal/ruleset"

// Condition is a named, timed effect attached to exactly one combatant.
// The owner ticks it each round and removes it once expired.
type Condition struct {
	Name      string
	Rounds    int
	Modifiers map[string]int
}

// New creates a condition from its configured definition. The modifier
// table is copied so the condition owns its state exclusively. Negative
// durations are clamped to zero, which makes the condition expired from
// the start.
func New(name string, rounds int, def ruleset.ConditionDef) *Condition {
	if rounds < 0 {
		rounds = 0
	}
	modifiers := make(map[string]int, len(def.Modifiers))
	for stat, value := range def.Modifiers {
		modifiers[stat] = value
	}
	return &Condition{Name: name, Rounds: rounds, Modifiers: modifiers}
}

// Tick decrements the remaining duration by one round.
func (c *Condition) Tick() {
	if c.Rounds > 0 {
		c.Rounds--
	}
}

// Expired reports whether the condition has run out.
func (c *Condition) Expired() bool {
	return c.Rounds <= 0
}

// Modifier returns the modifier this condition applies to the named stat,
// or zero when the stat is unaffected.
func (c *Condition) Modifier(stat string) int {
	return c.Modifiers[stat]
}
