// Package grid implements the combat map: a 2-D grid of terrain-tagged
// cells with elevations, cost-weighted shortest-path search, and the
// traversal options for crossing vertical edges.
package grid

// Coord addresses one cell on the map.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is one map square. Terrain resolves to movement rules through the
// ruleset terrain table; Elevation is in feet.
type Cell struct {
	Terrain   string
	Elevation int
}

// Map is a width x height grid of cells. It is read-mostly: only the
// explicit setters mutate it, and never during path search.
type Map struct {
	width  int
	height int
	cells  [][]Cell
}

// NewMap creates a map with every cell set to the given terrain tag at
// elevation zero.
func NewMap(width, height int, terrain string) *Map {
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			cells[y][x] = Cell{Terrain: terrain}
		}
	}
	return &Map{width: width, height: height, cells: cells}
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// InBounds reports whether the coordinate addresses a cell on the map.
func (m *Map) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < m.width && c.Y >= 0 && c.Y < m.height
}

// SetTerrain retags a cell. Out-of-bounds coordinates are ignored.
func (m *Map) SetTerrain(c Coord, terrain string) {
	if !m.InBounds(c) {
		return
	}
	m.cells[c.Y][c.X].Terrain = terrain
}

// Terrain returns a cell's terrain tag, or "" when out of bounds.
func (m *Map) Terrain(c Coord) string {
	if !m.InBounds(c) {
		return ""
	}
	return m.cells[c.Y][c.X].Terrain
}

// SetElevation sets a cell's elevation in feet. Out-of-bounds
// coordinates are ignored.
func (m *Map) SetElevation(c Coord, feet int) {
	if !m.InBounds(c) {
		return
	}
	m.cells[c.Y][c.X].Elevation = feet
}

// Elevation returns a cell's elevation in feet, or 0 when out of bounds.
func (m *Map) Elevation(c Coord) int {
	if !m.InBounds(c) {
		return 0
	}
	return m.cells[c.Y][c.X].Elevation
}
