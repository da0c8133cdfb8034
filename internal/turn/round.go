package turn

import (
	"sort"

	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
)

// Round accumulates the validated actions of one combat round,
// partitioned per actor into typed slots. Slot rules are enforced at
// insertion: a violating action fails fast with a coded error and
// nothing is recorded for it. Resolution order is computed later from
// the accumulated slots; insertion order matters only within a list
// slot.
type Round struct {
	actors   map[string]*actorSlots
	resolved bool
}

type actorSlots struct {
	immediate []Action
	readied   []Action
	free      []Action
	moves     []Action
	standard  *Action
	swift     *Action
	fullRound *Action
	delayed   *Action
}

// NewRound returns an empty round.
func NewRound() *Round {
	return &Round{actors: make(map[string]*actorSlots)}
}

// Insert places the action into its actor's slot record. Attacks,
// spells, skill checks, item use, and combat maneuvers occupy the
// standard slot; condition application occupies the swift slot.
func (r *Round) Insert(action Action) error {
	if r.resolved {
		return apperrors.WithMetadata(apperrors.CodeTurnAlreadyResolved,
			"round already resolved", actionMetadata(action))
	}

	slots, ok := r.actors[action.Actor]
	if !ok {
		slots = &actorSlots{}
		r.actors[action.Actor] = slots
	}

	switch action.Kind {
	case KindAttack, KindSpell, KindSkillCheck, KindUseItem, KindBullRush, KindGrapple:
		return slots.insertStandard(action)
	case KindMove:
		return slots.insertMove(action)
	case KindFullRound:
		return slots.insertFullRound(action)
	case KindApplyCondition:
		return slots.insertSwift(action)
	case KindDelayed:
		return slots.insertDelayed(action)
	case KindFree:
		slots.free = append(slots.free, action)
		return nil
	case KindImmediate:
		slots.immediate = append(slots.immediate, action)
		return nil
	case KindReadied:
		slots.readied = append(slots.readied, action)
		return nil
	default:
		return apperrors.WithMetadata(apperrors.CodeTurnUnknownActionType,
			"unknown action type", actionMetadata(action))
	}
}

// Actors returns the names of every actor with at least one accepted
// action, in lexicographic order.
func (r *Round) Actors() []string {
	names := make([]string, 0, len(r.actors))
	for name := range r.actors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasDelayed reports whether the actor's round includes a delayed
// action.
func (r *Round) HasDelayed(actor string) bool {
	slots, ok := r.actors[actor]
	return ok && slots.delayed != nil
}

// ActionCount returns the total number of accepted actions.
func (r *Round) ActionCount() int {
	total := 0
	for _, slots := range r.actors {
		total += len(slots.immediate) + len(slots.readied) + len(slots.free) + len(slots.moves)
		for _, a := range []*Action{slots.standard, slots.swift, slots.fullRound, slots.delayed} {
			if a != nil {
				total++
			}
		}
	}
	return total
}

// Resolved reports whether the round has already been dispatched.
func (r *Round) Resolved() bool {
	return r.resolved
}

func (r *Round) markResolved() {
	r.resolved = true
}

// sequence returns one actor's actions in intra-turn execution order.
// On a delayed turn only the immediate, delayed, and readied slots
// execute; standard, move, swift, and free actions are not retroactively
// run.
func (s *actorSlots) sequence(delayedTurn bool) []Action {
	var out []Action
	out = append(out, s.immediate...)
	if delayedTurn {
		if s.delayed != nil {
			out = append(out, *s.delayed)
		}
		out = append(out, s.readied...)
		return out
	}
	if s.fullRound != nil {
		out = append(out, *s.fullRound)
	} else {
		if s.standard != nil {
			out = append(out, *s.standard)
		}
		out = append(out, s.moves...)
	}
	if s.swift != nil {
		out = append(out, *s.swift)
	}
	out = append(out, s.free...)
	out = append(out, s.readied...)
	return out
}

func (s *actorSlots) insertStandard(action Action) error {
	if s.fullRound != nil {
		return slotConflict(apperrors.CodeTurnFullRoundConflict,
			"full-round action excludes a standard action", action)
	}
	if s.standard != nil {
		return slotConflict(apperrors.CodeTurnStandardConflict,
			"standard slot already occupied", action)
	}
	if len(s.moves) >= 2 {
		return slotConflict(apperrors.CodeTurnStandardConflict,
			"two move actions exclude a standard action", action)
	}
	s.standard = &action
	return nil
}

func (s *actorSlots) insertMove(action Action) error {
	if s.fullRound != nil {
		return slotConflict(apperrors.CodeTurnFullRoundConflict,
			"full-round action excludes move actions", action)
	}
	limit := 2
	if s.standard != nil {
		limit = 1
	}
	if len(s.moves) >= limit {
		return slotConflict(apperrors.CodeTurnMoveConflict,
			"move slots exhausted", action)
	}
	s.moves = append(s.moves, action)
	return nil
}

func (s *actorSlots) insertFullRound(action Action) error {
	if s.fullRound != nil {
		return slotConflict(apperrors.CodeTurnFullRoundConflict,
			"full-round slot already occupied", action)
	}
	if s.standard != nil || len(s.moves) > 0 {
		return slotConflict(apperrors.CodeTurnFullRoundConflict,
			"standard or move actions exclude a full-round action", action)
	}
	s.fullRound = &action
	return nil
}

func (s *actorSlots) insertSwift(action Action) error {
	if s.swift != nil {
		return slotConflict(apperrors.CodeTurnSwiftConflict,
			"swift slot already occupied", action)
	}
	s.swift = &action
	return nil
}

func (s *actorSlots) insertDelayed(action Action) error {
	if s.delayed != nil {
		return slotConflict(apperrors.CodeTurnDelayedConflict,
			"delayed slot already occupied", action)
	}
	s.delayed = &action
	return nil
}

func slotConflict(code apperrors.Code, message string, action Action) error {
	return apperrors.WithMetadata(code, message, actionMetadata(action))
}

func actionMetadata(action Action) map[string]string {
	return map[string]string{
		"actor": action.Actor,
		"kind":  string(action.Kind),
	}
}
