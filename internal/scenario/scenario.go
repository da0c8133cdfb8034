// Package scenario compiles Lua encounter scripts into runnable
// Scenario values and executes them through the turn manager.
//
// A script builds one Scenario through registered constructors and
// methods and returns it:
//
//	local scene = Scenario.new("ambush")
//	scene:seed(42)
//	scene:map({width = 8, height = 8})
//	scene:terrain(3, 4, "wall")
//	scene:actor("alice", {str = 16, bab = 2, weapon = "longsword"})
//	scene:actor("orc", {ac = 13, x = 5, y = 5})
//
//	local r1 = scene:round()
//	r1:attack("alice", {target = "orc"})
//	r1:move("orc", {x = 3, y = 3})
//
//	return scene
//
// Coordinates are zero-based. Round methods append intents in script
// order; the runner submits them verbatim, so the action economy and
// parameter validation stay the manager's job.
package scenario

import (
	"github.com/louisbranch/skirmish-engine/internal/turn"
)

// Scenario is one compiled encounter: an optional battlefield, the
// starting roster, and the scripted intents of each round.
type Scenario struct {
	Name   string
	Seed   int64
	Map    *MapSpec
	Actors []ActorSpec
	Rounds []RoundSpec
}

// MapSpec describes the battlefield grid. Terrain and Elevations are
// overrides on top of the default terrain tag.
type MapSpec struct {
	Width      int
	Height     int
	Default    string
	Terrain    []TerrainSpec
	Elevations []ElevationSpec
}

// TerrainSpec retags one cell.
type TerrainSpec struct {
	X   int
	Y   int
	Tag string
}

// ElevationSpec sets one cell's elevation in feet.
type ElevationSpec struct {
	X    int
	Y    int
	Feet int
}

// ActorSpec is one roster entry: a name plus the raw option table from
// the script. The runner turns it into a combatant sheet.
type ActorSpec struct {
	Name string
	Opts map[string]any
}

// RoundSpec holds the scripted intents of one round in submission
// order.
type RoundSpec struct {
	Intents []turn.Intent
}
