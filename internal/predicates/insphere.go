package predicates

import (
	"math/big"

	"github.com/golang/geo/r3"
)

// Site is a point taking part in an in-sphere test.
//
// The lifted height of a site is |P|² + T². For unweighted tessellations T
// is zero. ID is the stable vertex id used to break exact ties.
type Site struct {
	P  r3.Vector
	T  float64
	ID int32
}

// InSphere reports whether q is in conflict with the positively oriented
// tetrahedron (a, b, c, d): Positive when q lies strictly inside its
// circumsphere, or strictly below its lifted hyperplane in the weighted case.
//
// The result is never Zero. Exact ties are resolved by symbolic perturbation
// in increasing order of site id.
func InSphere(a, b, c, d, q Site) Sign {
	s := [4]Site{a, b, c, d}

	det, perm := inSphereFilter(&s, q)
	bound := inSphereErrBound * perm
	if det < -bound {
		return Positive
	}
	if det > bound {
		return Negative
	}

	switch inSphereExact(&s, q) {
	case Negative:
		return Positive
	case Positive:
		return Negative
	}
	return inSphereSOS(&s, q)
}

// inSphereFilter evaluates the lifted 4x4 determinant translated to q.
// Row i is (p_i - q, h_i) with h_i = |p_i - q|² + T_i² - T_q².
func inSphereFilter(s *[4]Site, q Site) (det, perm float64) {
	var (
		x, y, z [4]float64
		h, hh   [4]float64
	)
	tq := q.T * q.T
	for i := range s {
		x[i] = s[i].P.X - q.P.X
		y[i] = s[i].P.Y - q.P.Y
		z[i] = s[i].P.Z - q.P.Z
		d2 := x[i]*x[i] + y[i]*y[i] + z[i]*z[i]
		ti := s[i].T * s[i].T
		h[i] = d2 + ti - tq
		hh[i] = d2 + ti + tq
	}

	m0, p0 := det3(x[1], y[1], z[1], x[2], y[2], z[2], x[3], y[3], z[3])
	m1, p1 := det3(x[0], y[0], z[0], x[2], y[2], z[2], x[3], y[3], z[3])
	m2, p2 := det3(x[0], y[0], z[0], x[1], y[1], z[1], x[3], y[3], z[3])
	m3, p3 := det3(x[0], y[0], z[0], x[1], y[1], z[1], x[2], y[2], z[2])

	det = -h[0]*m0 + h[1]*m1 - h[2]*m2 + h[3]*m3
	perm = hh[0]*p0 + hh[1]*p1 + hh[2]*p2 + hh[3]*p3
	return det, perm
}

func inSphereExact(s *[4]Site, q Site) Sign {
	qp := r3.PreciseVectorFromVector(q.P)
	tq := precise(q.T)
	tq.Mul(tq, tq)

	var (
		rows [4]r3.PreciseVector
		h    [4]*big.Float
	)
	for i := range s {
		rows[i] = r3.PreciseVectorFromVector(s[i].P).Sub(qp)
		h[i] = rows[i].Norm2()
		if s[i].T != 0 || q.T != 0 {
			ti := precise(s[i].T)
			ti.Mul(ti, ti)
			h[i].Add(h[i], ti)
			h[i].Sub(h[i], tq)
		}
	}

	minor := func(i, j, k int) *big.Float {
		return rows[i].Dot(rows[j].Cross(rows[k]))
	}

	det := new(big.Float).SetPrec(exactPrec)
	term := new(big.Float).SetPrec(exactPrec)

	det.Sub(det, term.Mul(h[0], minor(1, 2, 3)))
	det.Add(det, term.Mul(h[1], minor(0, 2, 3)))
	det.Sub(det, term.Mul(h[2], minor(0, 1, 3)))
	det.Add(det, term.Mul(h[3], minor(0, 1, 2)))

	return Sign(det.Sign())
}

// inSphereSOS perturbs the lifted heights by decreasing infinitesimals in
// increasing id order. The first non-vanishing cofactor decides.
func inSphereSOS(s *[4]Site, q Site) Sign {
	all := [5]Site{s[0], s[1], s[2], s[3], q}
	order := [5]int{0, 1, 2, 3, 4}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && all[order[j]].ID < all[order[j-1]].ID; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	a, b, c, d := s[0].P, s[1].P, s[2].P, s[3].P
	p := q.P
	for _, i := range order {
		var cof Sign
		switch i {
		case 0:
			cof = Orient3D(b, c, d, p)
		case 1:
			cof = -Orient3D(a, c, d, p)
		case 2:
			cof = Orient3D(a, b, d, p)
		case 3:
			cof = -Orient3D(a, b, c, p)
		case 4:
			cof = Orient3D(a, b, c, d)
		}
		if cof == Negative {
			return Positive
		}
		if cof == Positive {
			return Negative
		}
	}
	return Negative
}
