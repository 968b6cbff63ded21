// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
)

// RiemannSolver computes the interface flux from the reconstructed left and right
// primitive states at a cell face normal to dim
type RiemannSolver interface {
	Name() string
	Solve(qL, qR *[fluid.NU]float64, dim int, gamma float64) [fluid.NU]float64
}

// riemannallocators holds all available Riemann solvers
var riemannallocators = make(map[string]func() RiemannSolver)

// SetRiemannAllocator registers a Riemann solver under name
func SetRiemannAllocator(name string, fcn func() RiemannSolver) {
	if _, ok := riemannallocators[name]; ok {
		chk.Panic("cannot register Riemann solver %q because the name exists already", name)
	}
	riemannallocators[name] = fcn
}

// NewRiemannSolver returns the Riemann solver registered under name
func NewRiemannSolver(name string) (rs RiemannSolver, err error) {
	if fcn, ok := riemannallocators[name]; ok {
		return fcn(), nil
	}
	return nil, chk.Err("cannot find Riemann solver named %q", name)
}

// eulerFlux fills f with the exact flux of the conservative state u with primitives q,
// along dim. Passive scalars (HII, ADV) are advected with the mass flux.
func eulerFlux(f, q, u *[fluid.NU]float64, dim int) {
	vn := q[fluid.VEL0+dim]
	f[fluid.DEN] = u[fluid.DEN] * vn
	for d := 0; d < 3; d++ {
		f[fluid.VEL0+d] = u[fluid.VEL0+d] * vn
	}
	f[fluid.VEL0+dim] += q[fluid.PRE]
	f[fluid.PRE] = vn * (u[fluid.PRE] + q[fluid.PRE])
	f[fluid.HII] = u[fluid.HII] * vn
	f[fluid.ADV] = u[fluid.ADV] * vn
}

// waveSpeeds returns the Davis estimates of the slowest and fastest signal speeds
func waveSpeeds(qL, qR *[fluid.NU]float64, dim int, gamma float64) (sl, sr float64) {
	aL := fluid.CalcSoundSpeed(gamma, qL[fluid.PRE], qL[fluid.DEN])
	aR := fluid.CalcSoundSpeed(gamma, qR[fluid.PRE], qR[fluid.DEN])
	uL := qL[fluid.VEL0+dim]
	uR := qR[fluid.VEL0+dim]
	sl = math.Min(uL-aL, uR-aR)
	sr = math.Max(uL+aL, uR+aR)
	return
}

// HLL is the two-wave approximate solver; robust and diffusive
type HLL struct{}

func (o HLL) Name() string { return "hll" }

func (o HLL) Solve(qL, qR *[fluid.NU]float64, dim int, gamma float64) (f [fluid.NU]float64) {
	var uL, uR, fL, fR [fluid.NU]float64
	fluid.UfromQ(&uL, qL, gamma)
	fluid.UfromQ(&uR, qR, gamma)
	eulerFlux(&fL, qL, &uL, dim)
	eulerFlux(&fR, qR, &uR, dim)

	sl, sr := waveSpeeds(qL, qR, dim, gamma)
	switch {
	case sl >= 0:
		f = fL
	case sr <= 0:
		f = fR
	default:
		for n := 0; n < fluid.NU; n++ {
			f[n] = (sr*fL[n] - sl*fR[n] + sl*sr*(uR[n]-uL[n])) / (sr - sl)
		}
	}
	return
}

// HLLC restores the contact wave missing from HLL; the default solver
type HLLC struct{}

func (o HLLC) Name() string { return "hllc" }

func (o HLLC) Solve(qL, qR *[fluid.NU]float64, dim int, gamma float64) (f [fluid.NU]float64) {
	var uL, uR, fL, fR [fluid.NU]float64
	fluid.UfromQ(&uL, qL, gamma)
	fluid.UfromQ(&uR, qR, gamma)
	eulerFlux(&fL, qL, &uL, dim)
	eulerFlux(&fR, qR, &uR, dim)

	sl, sr := waveSpeeds(qL, qR, dim, gamma)
	if sl >= 0 {
		return fL
	}
	if sr <= 0 {
		return fR
	}

	dL, dR := qL[fluid.DEN], qR[fluid.DEN]
	vL, vR := qL[fluid.VEL0+dim], qR[fluid.VEL0+dim]
	pL, pR := qL[fluid.PRE], qR[fluid.PRE]

	// contact wave speed
	sm := (pR - pL + dL*vL*(sl-vL) - dR*vR*(sr-vR)) / (dL*(sl-vL) - dR*(sr-vR))
	if sm >= 0 {
		f = starFlux(&fL, &uL, qL, dim, sl, sm)
	} else {
		f = starFlux(&fR, &uR, qR, dim, sr, sm)
	}
	return
}

// starFlux evaluates F = F_k + S_k (U*_k - U_k) for the HLLC star region on side k
func starFlux(fk, uk, qk *[fluid.NU]float64, dim int, sk, sm float64) (f [fluid.NU]float64) {
	d := qk[fluid.DEN]
	v := qk[fluid.VEL0+dim]
	p := qk[fluid.PRE]

	dStar := d * (sk - v) / (sk - sm)

	var uStar [fluid.NU]float64
	uStar[fluid.DEN] = dStar
	for n := 0; n < 3; n++ {
		uStar[fluid.VEL0+n] = dStar * qk[fluid.VEL0+n]
	}
	uStar[fluid.VEL0+dim] = dStar * sm
	uStar[fluid.PRE] = dStar * (uk[fluid.PRE]/d + (sm-v)*(sm+p/(d*(sk-v)))) // total energy
	uStar[fluid.HII] = dStar * qk[fluid.HII]
	uStar[fluid.ADV] = dStar * qk[fluid.ADV]

	for n := 0; n < fluid.NU; n++ {
		f[n] = fk[n] + sk*(uStar[n]-uk[n])
	}
	return
}

func init() {
	SetRiemannAllocator("hllc", func() RiemannSolver { return HLLC{} })
	SetRiemannAllocator("hll", func() RiemannSolver { return HLL{} })
}
