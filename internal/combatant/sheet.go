// Package combatant holds the per-actor combat state the resolvers
// consume: ability modifiers, the three defense values, active
// conditions, spell slots, and grid position. Long-term character
// persistence lives outside the engine; a Sheet is the in-round view
// of one actor.
package combatant

import (
	"sort"

	"github.com/louisbranch/skirmish-engine/internal/condition"
	"github.com/louisbranch/skirmish-engine/internal/grid"
)

// Ability names a combatant ability.
type Ability string

const (
	STR Ability = "str"
	DEX Ability = "dex"
	CON Ability = "con"
	INT Ability = "int"
	WIS Ability = "wis"
	CHA Ability = "cha"
)

// FlatFooted is the condition name the attack resolver checks when
// picking the defender's effective defense.
const FlatFooted = "flat_footed"

// Sheet is the combat-relevant state of one actor for the current
// encounter. Fields are set up by the embedding layer (scenario runner,
// tests); the engine reads them through the query methods and mutates
// only position, conditions, and spell slots.
type Sheet struct {
	Name      string
	Abilities map[Ability]int

	BAB               int
	BaseAC            int
	BaseTouchAC       int
	BaseFlatFootedAC  int
	CMD               int
	ArmorCheckPenalty int
	Concealment       int
	Weapon            string

	SpellSlots    map[int]int
	SpellSlotsMax map[int]int

	Position grid.Coord

	conditions []*condition.Condition
}

// New creates a sheet with neutral scores and the unarmored defenses.
func New(name string) *Sheet {
	return &Sheet{
		Name:             name,
		Abilities:        map[Ability]int{STR: 10, DEX: 10, CON: 10, INT: 10, WIS: 10, CHA: 10},
		BaseAC:           10,
		BaseTouchAC:      10,
		BaseFlatFootedAC: 10,
		CMD:              10,
		SpellSlots:       map[int]int{},
		SpellSlotsMax:    map[int]int{},
	}
}

// AbilityScore returns the raw score for an ability, defaulting to 10.
func (s *Sheet) AbilityScore(ability Ability) int {
	score, ok := s.Abilities[ability]
	if !ok {
		return 10
	}
	return score
}

// AbilityMod computes the standard ability modifier,
// floor((score - 10) / 2).
func (s *Sheet) AbilityMod(ability Ability) int {
	diff := s.AbilityScore(ability) - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// AC returns the full armor class, adjusted by active conditions.
func (s *Sheet) AC() int {
	return s.BaseAC + s.ConditionModifier("ac")
}

// TouchAC returns the touch armor class, adjusted by active conditions.
func (s *Sheet) TouchAC() int {
	return s.BaseTouchAC + s.ConditionModifier("ac")
}

// FlatFootedAC returns the flat-footed armor class, adjusted by active
// conditions.
func (s *Sheet) FlatFootedAC() int {
	return s.BaseFlatFootedAC + s.ConditionModifier("ac")
}

// HasCondition reports whether a condition with the given name is active.
func (s *Sheet) HasCondition(name string) bool {
	for _, c := range s.conditions {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ConditionNames returns the active condition names in stable order.
func (s *Sheet) ConditionNames() []string {
	names := make([]string, 0, len(s.conditions))
	for _, c := range s.conditions {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// ConditionModifier sums the modifiers every active condition applies to
// the named stat.
func (s *Sheet) ConditionModifier(stat string) int {
	total := 0
	for _, c := range s.conditions {
		total += c.Modifier(stat)
	}
	return total
}

// Afflict attaches a condition. Re-applying a condition with the same
// name replaces the old instance, refreshing its duration.
func (s *Sheet) Afflict(c *condition.Condition) {
	for i, existing := range s.conditions {
		if existing.Name == c.Name {
			s.conditions[i] = c
			return
		}
	}
	s.conditions = append(s.conditions, c)
}

// TickConditions advances every active condition one round, removes the
// expired ones, and returns the removed names.
func (s *Sheet) TickConditions() []string {
	var expired []string
	active := s.conditions[:0]
	for _, c := range s.conditions {
		c.Tick()
		if c.Expired() {
			expired = append(expired, c.Name)
			continue
		}
		active = append(active, c)
	}
	s.conditions = active
	return expired
}

// SlotAvailable reports whether at least one spell slot of the given
// level remains.
func (s *Sheet) SlotAvailable(level int) bool {
	return s.SpellSlots[level] > 0
}

// SpendSlot consumes one spell slot of the given level. It returns
// false, without mutating anything, when none remain.
func (s *Sheet) SpendSlot(level int) bool {
	if s.SpellSlots[level] <= 0 {
		return false
	}
	s.SpellSlots[level]--
	return true
}

// RegenerateSlots restores up to perRound slots of every level, capped
// at each level's maximum.
func (s *Sheet) RegenerateSlots(perRound int) {
	if perRound <= 0 {
		return
	}
	for level, max := range s.SpellSlotsMax {
		restored := s.SpellSlots[level] + perRound
		if restored > max {
			restored = max
		}
		s.SpellSlots[level] = restored
	}
}
