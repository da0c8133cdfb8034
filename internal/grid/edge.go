package grid

import "github.com/louisbranch/skirmish-engine/internal/ruleset"

// Traversal methods for crossing a vertical edge.
const (
	MethodJump        = "jump"
	MethodClimbLadder = "climb_ladder"
	MethodGoAround    = "go_around"
	MethodClimbUp     = "climb_up"
)

// EdgeFeatures describes the fixtures present at a vertical edge between
// two adjacent cells. LadderHeight is the ladder length in feet (0 means
// no ladder). WallHeight is an extra parapet on top of the edge; it adds
// to the climbing distance on ascent.
type EdgeFeatures struct {
	LadderHeight int
	Stairwell    bool
	WallHeight   int
}

// TraversalOption is one way to cross a vertical edge. DC of zero means
// no check is needed. Selection among options is the caller's policy.
type TraversalOption struct {
	Method   string `json:"method"`
	Skill    string `json:"skill,omitempty"`
	DC       int    `json:"dc,omitempty"`
	MoveCost int    `json:"move_cost"`
}

// EdgeOptions enumerates the traversal options for a vertical edge.
// diff is elevation(start) - elevation(end): positive descends, negative
// ascends. A zero diff with no features needs no traversal and yields
// nothing.
func EdgeOptions(diff int, features EdgeFeatures, movement ruleset.Movement) []TraversalOption {
	var options []TraversalOption

	if diff > 0 {
		options = append(options, TraversalOption{
			Method:   MethodJump,
			Skill:    "acrobatics",
			DC:       jumpDC(diff),
			MoveCost: 1,
		})
	}

	if features.LadderHeight > 0 {
		options = append(options, TraversalOption{
			Method:   MethodClimbLadder,
			Skill:    "climb",
			DC:       10 + ceilDiv(features.LadderHeight, 5),
			MoveCost: ceilDiv(features.LadderHeight, movement.ClimbRate),
		})
	}

	if features.Stairwell {
		options = append(options, TraversalOption{
			Method:   MethodGoAround,
			MoveCost: movement.StairwellMultiplier,
		})
	}

	if diff < 0 {
		ascent := -diff + features.WallHeight
		options = append(options, TraversalOption{
			Method:   MethodClimbUp,
			Skill:    "climb",
			DC:       jumpDC(ascent),
			MoveCost: ceilDiv(ascent, 10),
		})
	}

	return options
}

// jumpDC derives the check difficulty for a vertical drop or climb:
// base 15, plus one step per 5 feet beyond the first 10.
func jumpDC(feet int) int {
	excess := feet - 10
	if excess < 0 {
		excess = 0
	}
	return 15 + ceilDiv(excess, 5)
}

// ceilDiv divides non-negative a by positive b, rounding up.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
