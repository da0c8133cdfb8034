package grid

import (
	"reflect"
	"testing"

	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

func testTerrain() map[string]ruleset.TerrainRule {
	return map[string]ruleset.TerrainRule{
		"open": {Cost: 1},
		"mud":  {Cost: 5},
		"wall": {Impassable: true},
		"pit":  {Cost: 2, Skill: "acrobatics", DC: 15},
	}
}

func TestFindPathStraightLine(t *testing.T) {
	m := NewMap(5, 5, "open")
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 0, Y: 0}, Coord{X: 4, Y: 0})

	want := []Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	if !reflect.DeepEqual(route.Steps, want) {
		t.Errorf("Steps = %v, want %v", route.Steps, want)
	}
	if route.Cost != 4 {
		t.Errorf("Cost = %d, want 4", route.Cost)
	}
	if len(route.Checks) != 0 {
		t.Errorf("Checks = %v, want none", route.Checks)
	}
}

func TestFindPathBlockedColumn(t *testing.T) {
	m := NewMap(3, 3, "open")
	for y := 0; y < 3; y++ {
		m.SetTerrain(Coord{X: 1, Y: y}, "wall")
	}
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 0, Y: 0}, Coord{X: 2, Y: 2})
	if len(route.Steps) != 0 {
		t.Errorf("Steps = %v, want empty route", route.Steps)
	}
}

func TestFindPathPrefersCheapDetour(t *testing.T) {
	m := NewMap(3, 2, "open")
	m.SetTerrain(Coord{X: 1, Y: 0}, "mud")
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 0, Y: 0}, Coord{X: 2, Y: 0})
	if route.Cost != 4 {
		t.Fatalf("Cost = %d, want 4 (detour around the mud)", route.Cost)
	}
	for _, step := range route.Steps {
		if step == (Coord{X: 1, Y: 0}) {
			t.Errorf("route %v crosses the mud cell", route.Steps)
		}
	}
}

func TestFindPathAnnotatesChecks(t *testing.T) {
	m := NewMap(3, 1, "open")
	m.SetTerrain(Coord{X: 1, Y: 0}, "pit")
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 0, Y: 0}, Coord{X: 2, Y: 0})
	if len(route.Steps) != 3 {
		t.Fatalf("Steps = %v, want the 3-cell line", route.Steps)
	}
	want := []CheckPoint{{Cell: Coord{X: 1, Y: 0}, Skill: "acrobatics", DC: 15}}
	if !reflect.DeepEqual(route.Checks, want) {
		t.Errorf("Checks = %v, want %v", route.Checks, want)
	}
	if route.Cost != 3 {
		t.Errorf("Cost = %d, want 3 (pit costs 2)", route.Cost)
	}
}

func TestFindPathSameCell(t *testing.T) {
	m := NewMap(2, 2, "open")
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 1, Y: 1}, Coord{X: 1, Y: 1})
	if !reflect.DeepEqual(route.Steps, []Coord{{X: 1, Y: 1}}) {
		t.Errorf("Steps = %v, want the single start cell", route.Steps)
	}
	if route.Cost != 0 {
		t.Errorf("Cost = %d, want 0", route.Cost)
	}
}

func TestFindPathInvalidEndpoints(t *testing.T) {
	m := NewMap(3, 3, "open")
	m.SetTerrain(Coord{X: 0, Y: 0}, "wall")
	p := NewPathfinder(m, testTerrain())

	tests := []struct {
		name  string
		start Coord
		goal  Coord
	}{
		{"impassable start", Coord{X: 0, Y: 0}, Coord{X: 2, Y: 2}},
		{"impassable goal", Coord{X: 2, Y: 2}, Coord{X: 0, Y: 0}},
		{"start out of bounds", Coord{X: -1, Y: 0}, Coord{X: 2, Y: 2}},
		{"goal out of bounds", Coord{X: 1, Y: 1}, Coord{X: 3, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := p.FindPath(tt.start, tt.goal)
			if len(route.Steps) != 0 {
				t.Errorf("Steps = %v, want empty route", route.Steps)
			}
		})
	}
}

func TestFindPathUnknownTerrainIsImpassable(t *testing.T) {
	m := NewMap(3, 1, "open")
	m.SetTerrain(Coord{X: 1, Y: 0}, "void")
	p := NewPathfinder(m, testTerrain())

	route := p.FindPath(Coord{X: 0, Y: 0}, Coord{X: 2, Y: 0})
	if len(route.Steps) != 0 {
		t.Errorf("Steps = %v, want empty route across unknown terrain", route.Steps)
	}
}

func TestEntryCost(t *testing.T) {
	m := NewMap(2, 1, "open")
	m.SetTerrain(Coord{X: 1, Y: 0}, "wall")
	p := NewPathfinder(m, testTerrain())

	if got := p.EntryCost(Coord{X: 0, Y: 0}); got != 1 {
		t.Errorf("EntryCost(open) = %d, want 1", got)
	}
	if got := p.EntryCost(Coord{X: 1, Y: 0}); got != CostImpassable {
		t.Errorf("EntryCost(wall) = %d, want CostImpassable", got)
	}
	if got := p.EntryCost(Coord{X: 5, Y: 5}); got != CostImpassable {
		t.Errorf("EntryCost(out of bounds) = %d, want CostImpassable", got)
	}
}
