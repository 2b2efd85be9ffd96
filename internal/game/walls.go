package game

import (
	"circle-arena/internal/game/spatial"
)

// wallCellSize matches the long side of a built wall so a wall spans at
// most two or three cells.
const wallCellSize = WallLong

// WallSet owns the walls of a match in build order, with a grid index for
// collision lookups. Walls never move once built, so the index is only
// written on Add.
type WallSet struct {
	walls []*Wall
	grid  *spatial.SpatialGrid
	max   int
}

// NewWallSet creates an empty set. max <= 0 means no cap.
func NewWallSet(width, height float64, max int) *WallSet {
	capacity := max
	if capacity <= 0 {
		capacity = 16
	}
	return &WallSet{
		walls: make([]*Wall, 0, capacity),
		grid:  spatial.NewSpatialGrid(width, height, wallCellSize),
		max:   max,
	}
}

// Add places a solid wall. Returns nil when the set is at capacity.
func (s *WallSet) Add(r Rect) *Wall {
	if s.max > 0 && len(s.walls) >= s.max {
		return nil
	}
	w := &Wall{ID: len(s.walls), Rect: r}
	s.walls = append(s.walls, w)
	s.grid.InsertBox(uint32(w.ID), r.X, r.Y, r.Right(), r.Bottom())
	return w
}

// Blocks reports whether r overlaps any solid wall
func (s *WallSet) Blocks(r Rect) bool {
	for _, id := range s.grid.QueryBox(r.X, r.Y, r.Right(), r.Bottom()) {
		w := s.walls[id]
		if w.Solid() && w.Rect.Overlaps(r) {
			return true
		}
	}
	return false
}

// PhaseFacing phases the first solid wall, in build order, whose center is
// within reach of pos and roughly in front of facing. Returns the phased
// wall or nil when none qualifies.
func (s *WallSet) PhaseFacing(pos, facing Vec2, reach float64) *Wall {
	for _, w := range s.walls {
		if !w.Solid() {
			continue
		}
		toWall := w.Rect.Center().Sub(pos)
		dist := toWall.Len()
		if dist > reach {
			continue
		}
		// Normalize maps a wall centered on pos to the zero vector, which
		// never passes the dot threshold.
		if facing.Dot(toWall.Normalize()) > PhaseDotThreshold {
			w.Phase()
			return w
		}
	}
	return nil
}

// Tick advances every phase timer by one tick and returns how many walls
// turned solid again.
func (s *WallSet) Tick() int {
	restored := 0
	for _, w := range s.walls {
		if w.Tick() {
			restored++
		}
	}
	return restored
}

// All returns the walls in build order. The slice must not be modified.
func (s *WallSet) All() []*Wall {
	return s.walls
}

// Len returns the number of walls
func (s *WallSet) Len() int {
	return len(s.walls)
}

// Full reports whether another wall can be added
func (s *WallSet) Full() bool {
	return s.max > 0 && len(s.walls) >= s.max
}
