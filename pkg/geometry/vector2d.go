package geometry

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Epsilon Precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Vector2D represents a 2D vector or point in cartesian space.
// It is a plain value: every transform returns a new Vector2D, so sharing one
// between points can never leak a mutation from one owner to another.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// ---------------------------------------------------------------------
// Named directions
// Functions rather than package variables: each call hands out its own copy.
// ---------------------------------------------------------------------

// Up returns (0, 1).
func Up() Vector2D { return Vector2D{0, 1} }

// Down returns (0, -1).
func Down() Vector2D { return Vector2D{0, -1} }

// Left returns (-1, 0).
func Left() Vector2D { return Vector2D{-1, 0} }

// Right returns (1, 0).
func Right() Vector2D { return Vector2D{1, 0} }

// One returns (1, 1).
func One() Vector2D { return Vector2D{1, 1} }

// None returns (-1, -1).
func None() Vector2D { return Vector2D{-1, -1} }

// Zero returns (0, 0).
func Zero() Vector2D { return Vector2D{} }

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// These methods use value receivers and return new Values.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// This is faster than Len() as it avoids the square root. Use for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
// The receiver must not be the zero vector; callers check LenSqr first.
// A length below Epsilon yields the zero vector instead of NaN components.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{0, 0}
	}
	return v.Mul(1 / l)
}

// IsZero reports whether both components are within Epsilon of zero.
func (v Vector2D) IsZero() bool {
	return math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Lerp (Linear Interpolate) calculates a point between v and target based on t [0, 1].
func (v Vector2D) Lerp(target Vector2D, t float64) Vector2D {
	return v.Add(target.Sub(v).Mul(t))
}

// Clamp returns v with each component limited to [lo, hi] of the matching axis.
func (v Vector2D) Clamp(lo, hi Vector2D) Vector2D {
	return Vector2D{
		X: math.Min(math.Max(v.X, lo.X), hi.X),
		Y: math.Min(math.Max(v.Y, lo.Y), hi.Y),
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector2D) float64 {
	return a.DistanceTo(b)
}

// DistanceSquared returns dx² + dy² between a and b.
// Every threshold in the plexus is compared in this squared form.
func DistanceSquared(a, b Vector2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector2D) Vector2D {
	return a.Lerp(b, 0.5)
}

// VectorTo returns the displacement that moves a onto b.
func VectorTo(a, b Vector2D) Vector2D {
	return b.Sub(a)
}

// ---------------------------------------------------------------------
// Random placement
// ---------------------------------------------------------------------

// RandomInt returns an integer in [lo, hi], both ends included.
// The bounds are swapped when given in reverse order. Any span is accepted,
// including the full int range.
func RandomInt(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return int(rng.Uint64())
	}
	return lo + int(rng.Uint64N(span+1))
}

// randomAxis draws an integer between a and b inclusive. When no integer lies
// between them the smaller bound is returned unchanged.
func randomAxis(rng *rand.Rand, a, b float64) float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	ilo, ihi := math.Ceil(lo), math.Floor(hi)
	if ilo > ihi {
		return lo
	}
	return float64(RandomInt(rng, int(ilo), int(ihi)))
}

// RandomInRect returns a point with an independent random integer per axis
// drawn between the components of a and b, inclusive.
func RandomInRect(rng *rand.Rand, a, b Vector2D) Vector2D {
	return Vector2D{
		X: randomAxis(rng, a.X, b.X),
		Y: randomAxis(rng, a.Y, b.Y),
	}
}

// RandomInRadius offsets center by an independent random integer in
// [-radius, radius] on each axis. The result lies in the enclosing square,
// not the circle.
func RandomInRadius(rng *rand.Rand, center Vector2D, radius int) Vector2D {
	if radius < 0 {
		radius = -radius
	}
	return Vector2D{
		X: center.X + float64(RandomInt(rng, -radius, radius)),
		Y: center.Y + float64(RandomInt(rng, -radius, radius)),
	}
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
