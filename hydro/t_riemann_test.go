// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
)

func Test_limiter01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("limiter01. TVD limiter properties")

	minmod, _ := NewSlopeLimiter("minmod")
	superbee, _ := NewSlopeLimiter("superbee")
	vanleer, _ := NewSlopeLimiter("vanleer")
	mc, _ := NewSlopeLimiter("monotonised_central")

	// opposite signs: all limiters return zero at extrema
	for _, lim := range []SlopeLimiter{minmod, superbee, vanleer, mc} {
		chk.Float64(tst, lim.Name()+" extremum", 0, lim.Limit(1, -1), 0)
		chk.Float64(tst, lim.Name()+" zero slope", 0, lim.Limit(0, 2), 0)
	}

	chk.Float64(tst, "minmod picks smaller", 1e-17, minmod.Limit(1, 2), 1)
	chk.Float64(tst, "minmod negative", 1e-17, minmod.Limit(-2, -1), -1)
	chk.Float64(tst, "superbee", 1e-17, superbee.Limit(1, 2), 2)
	chk.Float64(tst, "vanleer", 1e-15, vanleer.Limit(1, 1), 1)
	chk.Float64(tst, "mc", 1e-15, mc.Limit(1, 1), 1)

	_, err := NewSlopeLimiter("no-such-limiter")
	if err == nil {
		tst.Errorf("expected error for unknown limiter")
	}
}

func Test_riemann01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("riemann01. consistency: F(q,q) equals the exact flux")

	gamma := 7.0 / 5.0
	q := [fluid.NU]float64{1.2, 0.9, 0.4, -0.2, 0.1, 0.3, 1.0}
	var u, fExact [fluid.NU]float64
	fluid.UfromQ(&u, &q, gamma)

	for _, name := range []string{"hllc", "hll"} {
		rs, err := NewRiemannSolver(name)
		if err != nil {
			tst.Errorf("cannot get solver %q:\n%v", name, err)
			return
		}
		for dim := 0; dim < 3; dim++ {
			eulerFlux(&fExact, &q, &u, dim)
			f := rs.Solve(&q, &q, dim, gamma)
			for n := 0; n < fluid.NU; n++ {
				chk.Float64(tst, name+" consistency", 1e-12*(1+math.Abs(fExact[n])), f[n], fExact[n])
			}
		}
	}
}

func Test_riemann02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("riemann02. symmetric states give zero mass flux")

	gamma := 7.0 / 5.0
	qL := [fluid.NU]float64{1, 1, 0.5, 0, 0, 0, 0}
	qR := [fluid.NU]float64{1, 1, -0.5, 0, 0, 0, 0}

	for _, name := range []string{"hllc", "hll"} {
		rs, _ := NewRiemannSolver(name)
		f := rs.Solve(&qL, &qR, 0, gamma)
		chk.Float64(tst, name+" mass flux", 1e-14, f[fluid.DEN], 0)
		chk.Float64(tst, name+" energy flux", 1e-13, f[fluid.PRE], 0)
	}
}

func Test_riemann03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("riemann03. supersonic flow upwinds completely")

	gamma := 7.0 / 5.0
	// both states moving right much faster than sound: flux is the left flux
	qL := [fluid.NU]float64{1, 1, 10, 0, 0, 0.5, 0}
	qR := [fluid.NU]float64{0.5, 0.8, 10, 0, 0, 0.1, 0}
	var uL, fL [fluid.NU]float64
	fluid.UfromQ(&uL, &qL, gamma)
	eulerFlux(&fL, &qL, &uL, 0)

	for _, name := range []string{"hllc", "hll"} {
		rs, _ := NewRiemannSolver(name)
		f := rs.Solve(&qL, &qR, 0, gamma)
		for n := 0; n < fluid.NU; n++ {
			chk.Float64(tst, name+" upwind", 1e-12*(1+math.Abs(fL[n])), f[n], fL[n])
		}
	}
}

func Test_factory01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("factory01. unknown strategy names keep the defaults")

	consts := testConsts()
	h := NewHydrodynamics(consts, 1, 0.5)
	chk.StrAssert(h.RiemannSolverName(), "hllc")
	chk.StrAssert(h.SlopeLimiterName(), "minmod")

	h.SetRiemannSolver("no-such-solver")
	chk.StrAssert(h.RiemannSolverName(), "hllc")

	h.SetSlopeLimiter("no-such-limiter")
	chk.StrAssert(h.SlopeLimiterName(), "minmod")

	h.SetRiemannSolver("hll")
	chk.StrAssert(h.RiemannSolverName(), "hll")
	h.SetSlopeLimiter("superbee")
	chk.StrAssert(h.SlopeLimiterName(), "superbee")
}
