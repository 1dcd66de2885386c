package predicates

import (
	"math"
	"math/big"

	"github.com/golang/geo/r3"
)

const (
	// epsilon is half an ulp of 1.0 for float64.
	epsilon = 1.0 / (1 << 53)

	orientErrBound   = (7.0 + 56.0*epsilon) * epsilon
	inSphereErrBound = (32.0 + 512.0*epsilon) * epsilon

	// exactPrec is large enough that big.Float arithmetic on float64 inputs
	// never rounds. Storage grows with the actual mantissa length only.
	exactPrec = big.MaxExp
)

// Orient3D returns the exact sign of det[p1-p0; p2-p0; p3-p0].
//
// The result is Positive when p3 lies on the positive side of the plane
// through p0, p1, p2 as induced by the tetrahedron orientation convention
// used by the cell arena.
func Orient3D(p0, p1, p2, p3 r3.Vector) Sign {
	det, perm := orientFilter(p0, p1, p2, p3)
	bound := orientErrBound * perm
	if det > bound {
		return Positive
	}
	if -det > bound {
		return Negative
	}
	return orientExact(p0, p1, p2, p3)
}

// Orient3DInexact is the plain floating-point orientation.
// It may be wrong for nearly degenerate input and is only used for hints.
func Orient3DInexact(p0, p1, p2, p3 r3.Vector) Sign {
	u := p1.Sub(p0)
	v := p2.Sub(p0)
	w := p3.Sub(p0)
	return signOf(u.Dot(v.Cross(w)))
}

func orientFilter(p0, p1, p2, p3 r3.Vector) (det, perm float64) {
	ux, uy, uz := p1.X-p0.X, p1.Y-p0.Y, p1.Z-p0.Z
	vx, vy, vz := p2.X-p0.X, p2.Y-p0.Y, p2.Z-p0.Z
	wx, wy, wz := p3.X-p0.X, p3.Y-p0.Y, p3.Z-p0.Z

	return det3(ux, uy, uz, vx, vy, vz, wx, wy, wz)
}

// det3 returns x·(y×z) together with its permanent, the same expression
// evaluated on absolute values, which bounds the rounding error.
func det3(xx, xy, xz, yx, yy, yz, zx, zy, zz float64) (det, perm float64) {
	a1, a2 := yy*zz, yz*zy
	b1, b2 := yz*zx, yx*zz
	c1, c2 := yx*zy, yy*zx

	det = xx*(a1-a2) + xy*(b1-b2) + xz*(c1-c2)
	perm = math.Abs(xx)*(math.Abs(a1)+math.Abs(a2)) +
		math.Abs(xy)*(math.Abs(b1)+math.Abs(b2)) +
		math.Abs(xz)*(math.Abs(c1)+math.Abs(c2))
	return det, perm
}

func orientExact(p0, p1, p2, p3 r3.Vector) Sign {
	a := r3.PreciseVectorFromVector(p0)
	u := r3.PreciseVectorFromVector(p1).Sub(a)
	v := r3.PreciseVectorFromVector(p2).Sub(a)
	w := r3.PreciseVectorFromVector(p3).Sub(a)
	return Sign(u.Dot(v.Cross(w)).Sign())
}

func precise(f float64) *big.Float {
	return new(big.Float).SetPrec(exactPrec).SetFloat64(f)
}
