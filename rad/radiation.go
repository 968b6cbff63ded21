// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rad implements the ray-traced photoionisation integrator
package rad

import (
	"math"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/units"
)

// cgs atomic data for hydrogen photoionisation
const (
	photoXSectionCGS = 6.3e-18  // EUV photoionisation cross-section [cm2]
	caseBRecombCGS   = 2.59e-13 // case-B recombination coefficient at 10^4 K [cm3/s]
)

// Radiation propagates ionising photons from the star along the causal ordering and
// updates the ionisation fraction, contributing photo-heating to the energy source term.
// The rate is photon-conserving: each cell absorbs the photons attenuated between its
// upstream and downstream neutral columns, so R-type fronts advance through optically
// thick gas.
type Radiation struct {
	consts        *units.Constants
	massFractionH float64
	hiiSwitch     float64 // ADV marker threshold stamped on ionised cells
	xsection      float64 // photoionisation cross-section [code units]
	alphaB        float64 // case-B recombination coefficient [code units]
	excessEnergy  float64 // photo-heating energy per ionisation [code units]
	maxFracChange float64 // bound on the ionisation-fraction change per step
}

// NewRadiation returns the radiation integrator. photonEnergy is the mean excess photon
// energy in eV.
func NewRadiation(consts *units.Constants, massFractionH, hiiSwitch, photonEnergy float64) (o *Radiation) {
	o = &Radiation{
		consts:        consts,
		massFractionH: massFractionH,
		hiiSwitch:     hiiSwitch,
		maxFracChange: 0.1,
	}
	o.xsection = consts.Conv.ToCodeUnits(photoXSectionCGS, 0, 2, 0)
	o.alphaB = consts.Conv.ToCodeUnits(caseBRecombCGS, 0, 3, -1)
	o.excessEnergy = consts.Conv.ToCodeUnits(consts.Conv.EVtoErgs(photonEnergy), 1, 2, -2)
	return
}

// InitField precomputes the causal orderings, upwind stencils and path lengths for rays
// from the star, and classifies the source location against this rank's slab
func (o *Radiation) InitField(f *fluid.Fluid) {
	f.Star.SetLocation(f.Grid.Start, f.Grid.End)
	f.Grid.BuildCausalOrderings(&f.Star)
}

// ComponentName returns the diagnostic label
func (o *Radiation) ComponentName() string { return "Radiation" }

// PreTimeStepCalculations refreshes the neutral-hydrogen columns along the causal
// ordering. Idempotent: sweeping twice yields identical columns.
func (o *Radiation) PreTimeStepCalculations(f *fluid.Fluid) {
	if f.Star.On {
		fluid.RayTraceNeutral(f, o.massFractionH)
	}
}

// ionisationRate returns dHII/dt and the volumetric photo-absorption rate for one cell
// from its current state and upstream neutral column
func (o *Radiation) ionisationRate(f *fluid.Fluid, c *fluid.GridCell) (dxdt, absorbed float64) {
	grid := f.Grid
	rsqrd := 0.0
	for d := 0; d < grid.Nd; d++ {
		dd := (c.XC[d] - f.Star.XC[d]) * grid.Dx[d]
		rsqrd += dd * dd
	}
	if rsqrd == 0 {
		return 0, 0
	}
	x := c.Q[fluid.HII]
	nH := o.massFractionH * c.Q[fluid.DEN] / o.consts.HydrogenMass
	if nH <= 0 {
		return 0, 0
	}
	ds := c.DS

	tauIn := o.xsection * c.T[fluid.ColDen]
	dtau := o.xsection * (1 - x) * nH * ds

	// photons absorbed in this cell per unit volume per unit time
	absorbed = f.Star.PhotonRate * math.Exp(-tauIn) * (1 - math.Exp(-dtau)) / (4 * units.Pi * rsqrd * ds)
	dxdt = absorbed/nH - o.alphaB*nH*x*x
	return
}

// CalculateTimeStep bounds the time step by the fractional ionisation change limit
func (o *Radiation) CalculateTimeStep(dtMax float64, f *fluid.Fluid) float64 {
	if !f.Star.On {
		return dtMax
	}
	grid := f.Grid
	dt := dtMax
	for _, id := range grid.OrderedIndices(fluid.OrdCausalNonWind) {
		c := grid.Cell(id)
		dxdt, _ := o.ionisationRate(f, c)
		if dxdt == 0 {
			continue
		}
		dti := o.maxFracChange * (c.Q[fluid.HII] + 0.05) / math.Abs(dxdt)
		if dti < dt {
			dt = dti
		}
	}
	return dt
}

// Integrate walks the causal ordering, advances the ionisation fraction and accumulates
// the photo-heating rate into UDOT. Cells in the source shell are held fully ionised.
func (o *Radiation) Integrate(dt float64, f *fluid.Fluid) {
	if !f.Star.On {
		return
	}
	grid := f.Grid
	for _, name := range []string{fluid.OrdCausalWind, fluid.OrdCausalNonWind} {
		for _, id := range grid.OrderedIndices(name) {
			c := grid.Cell(id)

			dist2 := 0.0
			for d := 0; d < grid.Nd; d++ {
				dd := c.XC[d] - f.Star.XC[d]
				dist2 += dd * dd
			}
			x := c.Q[fluid.HII]
			if dist2 <= 0.95*0.95 {
				// the source shell is kept ionised
				c.UDOT[fluid.HII] += c.Q[fluid.DEN] * (1 - x) / dt
				c.UDOT[fluid.ADV] += c.Q[fluid.DEN] * (1 - c.Q[fluid.ADV]) / dt
				continue
			}

			dxdt, absorbed := o.ionisationRate(f, c)
			xNew := x + dt*dxdt
			if xNew < 0 {
				xNew = 0
			} else if xNew > 1 {
				xNew = 1
			}
			c.UDOT[fluid.HII] += c.Q[fluid.DEN] * (xNew - x) / dt

			// photo-heating by the excess photon energy per absorption
			c.UDOT[fluid.PRE] += o.excessEnergy * absorbed

			// stamp the ionisation-switch marker once the front has reached this cell
			if xNew > o.hiiSwitch && c.Q[fluid.ADV] < 1 {
				c.UDOT[fluid.ADV] += c.Q[fluid.DEN] * (1 - c.Q[fluid.ADV]) / dt
			}
		}
	}
}

// UpdateSourceTerms has no deferred contributions for radiation
func (o *Radiation) UpdateSourceTerms(dt float64, f *fluid.Fluid) {}
