package grid

import (
	"container/heap"

	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

// CostImpassable is the sentinel cost for cells that cannot be entered.
// It is far above any real terrain cost so comparisons stay in int range.
const CostImpassable = 1 << 30

// CheckPoint annotates a route cell whose terrain demands a skill check
// before entry. The check itself is performed by the caller.
type CheckPoint struct {
	Cell  Coord  `json:"cell"`
	Skill string `json:"skill"`
	DC    int    `json:"dc"`
}

// Route is the outcome of a path search. Steps runs from start to goal
// inclusive; an empty Steps slice means no path exists, which is a valid
// outcome rather than an error. Cost sums the entry cost of every cell
// after the start.
type Route struct {
	Steps  []Coord      `json:"steps"`
	Cost   int          `json:"cost"`
	Checks []CheckPoint `json:"checks,omitempty"`
}

// Pathfinder runs cost-weighted shortest-path searches over a map using
// the ruleset terrain table.
type Pathfinder struct {
	m     *Map
	rules map[string]ruleset.TerrainRule
}

// NewPathfinder creates a pathfinder over the given map and terrain
// table. Terrain tags absent from the table are treated as impassable.
func NewPathfinder(m *Map, rules map[string]ruleset.TerrainRule) *Pathfinder {
	return &Pathfinder{m: m, rules: rules}
}

// EntryCost returns the cost of entering the cell at c, or
// CostImpassable for blocked, unknown, or out-of-bounds cells.
func (p *Pathfinder) EntryCost(c Coord) int {
	if !p.m.InBounds(c) {
		return CostImpassable
	}
	rule, ok := p.rules[p.m.Terrain(c)]
	if !ok || rule.Impassable {
		return CostImpassable
	}
	return rule.Cost
}

// neighborOffsets is the fixed orthogonal expansion order. Keeping the
// order fixed keeps equal-cost searches reproducible across runs.
var neighborOffsets = [4]Coord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// FindPath runs Dijkstra from start to goal and returns the route, with
// skill-check annotations for every entered cell whose terrain requires
// one. Unreachable, blocked, or out-of-bounds endpoints yield an empty
// route.
func (p *Pathfinder) FindPath(start, goal Coord) Route {
	if !p.m.InBounds(start) || !p.m.InBounds(goal) {
		return Route{}
	}
	if p.EntryCost(start) == CostImpassable || p.EntryCost(goal) == CostImpassable {
		return Route{}
	}
	if start == goal {
		return Route{Steps: []Coord{start}}
	}

	dist := map[Coord]int{start: 0}
	prev := map[Coord]Coord{}
	visited := map[Coord]bool{}

	queue := &nodeQueue{}
	heap.Init(queue)
	heap.Push(queue, &pathNode{cell: start, dist: 0})

	for queue.Len() > 0 {
		node := heap.Pop(queue).(*pathNode)
		if visited[node.cell] {
			continue
		}
		visited[node.cell] = true
		if node.cell == goal {
			break
		}

		for _, offset := range neighborOffsets {
			next := Coord{X: node.cell.X + offset.X, Y: node.cell.Y + offset.Y}
			cost := p.EntryCost(next)
			if cost == CostImpassable {
				continue
			}
			candidate := node.dist + cost
			if known, ok := dist[next]; ok && known <= candidate {
				continue
			}
			dist[next] = candidate
			prev[next] = node.cell
			heap.Push(queue, &pathNode{cell: next, dist: candidate})
		}
	}

	total, ok := dist[goal]
	if !ok {
		return Route{}
	}

	steps := []Coord{goal}
	for cell := goal; cell != start; {
		cell = prev[cell]
		steps = append(steps, cell)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	route := Route{Steps: steps, Cost: total}
	for _, cell := range steps[1:] {
		rule := p.rules[p.m.Terrain(cell)]
		if rule.Skill != "" {
			route.Checks = append(route.Checks, CheckPoint{Cell: cell, Skill: rule.Skill, DC: rule.DC})
		}
	}
	return route
}

// pathNode is one priority-queue entry in the Dijkstra frontier.
type pathNode struct {
	cell Coord
	dist int
}

// nodeQueue is a min-heap of frontier nodes ordered by distance.
type nodeQueue []*pathNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	*q = append(*q, x.(*pathNode))
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}
