package gravitysim

// Quadrant indices, in the ownership order used to break ties in
// QuadrantOf: NW is checked first, then NE, SW, SE.
const (
	QuadNW = iota
	QuadNE
	QuadSW
	QuadSE
)

// Box2 is an axis-aligned bounding box in the plane, given by its top-left
// and bottom-right corners (Y increases downward, following the screen-space
// convention used throughout this package's geometry). Min.X <= Max.X and
// Min.Y <= Max.Y always hold.
type Box2 struct {
	Min, Max Vector2 // top-left, bottom-right
}

// Width returns the horizontal extent of b.
func (b Box2) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of b.
func (b Box2) Height() float64 { return b.Max.Y - b.Min.Y }

// IsSquare reports whether b has equal width and height, the requirement
// for the root bounds of a QuadTree.
func (b Box2) IsSquare() bool { return b.Width() == b.Height() }

// Center returns the midpoint of b.
func (b Box2) Center() Vector2 {
	return Vector2{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
	}
}

// Contains reports whether p lies within the closed rectangle b.
func (b Box2) Contains(p Vector2) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// SquaredDiagonal returns the squared length of b's diagonal.
func (b Box2) SquaredDiagonal() float64 {
	return b.Max.Sub(b.Min).LenSq()
}

// SquaredSide returns the squared side length of b, used by the
// opening-angle traversal as the node "size" term. b is assumed square
// (Width() == Height()), as the root bounds of a QuadTree always are.
func (b Box2) SquaredSide() float64 {
	w := b.Width()
	return w * w
}

// QuadrantOf returns which of the four quadrants of b contains p. Ties on
// the center lines are resolved by ownership order NW, NE, SW, SE: the
// quadrant whose closed half of the split contains p wins, checked in that
// order, consistent with the boundaries returned by Subdivide.
func (b Box2) QuadrantOf(p Vector2) int {
	c := b.Center()
	switch {
	case p.X <= c.X && p.Y <= c.Y:
		return QuadNW
	case p.X > c.X && p.Y <= c.Y:
		return QuadNE
	case p.X <= c.X && p.Y > c.Y:
		return QuadSW
	default:
		return QuadSE
	}
}

// Subdivide splits b into four quadrants at its center: NW covers
// (top-left, center), NE/SW/SE analogously. The returned boxes overlap by a
// measure-zero boundary; QuadrantOf's tie-break determines single ownership
// of any point exactly on a shared edge.
func (b Box2) Subdivide() [4]Box2 {
	c := b.Center()
	var out [4]Box2
	out[QuadNW] = Box2{Min: b.Min, Max: c}
	out[QuadNE] = Box2{Min: Vector2{X: c.X, Y: b.Min.Y}, Max: Vector2{X: b.Max.X, Y: c.Y}}
	out[QuadSW] = Box2{Min: Vector2{X: b.Min.X, Y: c.Y}, Max: Vector2{X: c.X, Y: b.Max.Y}}
	out[QuadSE] = Box2{Min: c, Max: b.Max}
	return out
}
