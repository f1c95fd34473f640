package gravitysim

import "math"

// Vector2 is a planar vector. It is a pure value type: all operations
// return a new Vector2 rather than aliasing or mutating their receiver or
// arguments, except the explicitly-named in-place variants.
type Vector2 struct {
	X, Y float64
}

// Add returns the vector sum p+q.
func (p Vector2) Add(q Vector2) Vector2 {
	return Vector2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference p-q.
func (p Vector2) Sub(q Vector2) Vector2 {
	return Vector2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns -p.
func (p Vector2) Neg() Vector2 {
	return Vector2{X: -p.X, Y: -p.Y}
}

// Scale returns p scaled by f.
func (p Vector2) Scale(f float64) Vector2 {
	return Vector2{X: p.X * f, Y: p.Y * f}
}

// Div returns p with each component divided by f. Division by zero is a
// programming error; callers must not invoke Div with f == 0.
func (p Vector2) Div(f float64) Vector2 {
	return Vector2{X: p.X / f, Y: p.Y / f}
}

// AddInPlace adds q into p.
func (p *Vector2) AddInPlace(q Vector2) {
	p.X += q.X
	p.Y += q.Y
}

// SubInPlace subtracts q from p.
func (p *Vector2) SubInPlace(q Vector2) {
	p.X -= q.X
	p.Y -= q.Y
}

// ScaleInPlace scales p by f.
func (p *Vector2) ScaleInPlace(f float64) {
	p.X *= f
	p.Y *= f
}

// Equal reports whether p and q have identical components.
func (p Vector2) Equal(q Vector2) bool {
	return p.X == q.X && p.Y == q.Y
}

// Dot returns the dot product of p and q.
func (p Vector2) Dot(q Vector2) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the scalar (z-component of the) cross product of p and q.
func (p Vector2) Cross(q Vector2) float64 {
	return p.X*q.Y - p.Y*q.X
}

// LenSq returns the squared Euclidean length of p. Preferred over Length
// when only a comparison is needed, since it avoids the square root.
func (p Vector2) LenSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Length returns the Euclidean length of p.
func (p Vector2) Length() float64 {
	return math.Sqrt(p.LenSq())
}

// Distance returns the Euclidean distance between p and q.
func (p Vector2) Distance(q Vector2) float64 {
	return p.Sub(q).Length()
}

// Normalize returns a unit vector in the direction of p. It returns
// ErrDegenerateVector if p has zero length, in which case the zero vector
// is returned alongside the error.
func (p Vector2) Normalize() (Vector2, error) {
	l := p.Length()
	if l == 0 {
		return Vector2{}, ErrDegenerateVector
	}
	return p.Div(l), nil
}

// MustNormalize returns a unit vector in the direction of p. It panics if p
// has zero length; callers must have already established LenSq() > 0, which
// is why hot-path callers that have already checked avoid the error-return
// form of Normalize.
func (p Vector2) MustNormalize() Vector2 {
	v, err := p.Normalize()
	if err != nil {
		panic(err)
	}
	return v
}

// Rotate returns p rotated counter-clockwise by theta radians.
func (p Vector2) Rotate(theta float64) Vector2 {
	sin, cos := math.Sincos(theta)
	return Vector2{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}
