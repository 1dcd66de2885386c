// Package predicates implements the geometric predicates the tessellation
// is built on: orientation of four points and the (optionally weighted)
// in-sphere test.
//
// Both exact predicates run a floating-point filter first and only fall back
// to exact arithmetic when the sign cannot be certified. The exact path uses
// r3.PreciseVector from github.com/golang/geo, which carries arbitrary
// precision big.Float components, so sums and products of finite float64
// inputs never round.
//
// InSphere never returns Zero: exact ties are broken by symbolic perturbation
// driven by the stable vertex ids, which makes cospherical input behave as if
// it were in general position.
package predicates
