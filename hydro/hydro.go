// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/units"
)

// Hydrodynamics advances the compressible Euler equations with a Godunov scheme: MUSCL
// linear reconstruction, an approximate Riemann solver at cell faces, and external
// gravity source terms. The two-step predictor-corrector wrapping lives in the composite
// stepper; Integrate computes -div F into UDOT for whichever of the two passes is running.
type Hydrodynamics struct {
	consts       *units.Constants
	riemann      RiemannSolver
	limiter      SlopeLimiter
	spatialOrder int
	courant      float64
}

// NewHydrodynamics returns the hydrodynamics integrator with default strategies
func NewHydrodynamics(consts *units.Constants, spatialOrder int, courant float64) (o *Hydrodynamics) {
	o = &Hydrodynamics{consts: consts, spatialOrder: spatialOrder, courant: courant}
	o.riemann, _ = NewRiemannSolver("hllc")
	o.limiter, _ = NewSlopeLimiter("minmod")
	return
}

// SetRiemannSolver selects the Riemann solver by name. An unknown name keeps the default
// and logs a warning.
func (o *Hydrodynamics) SetRiemannSolver(name string) {
	rs, err := NewRiemannSolver(name)
	if err != nil {
		io.Pfyel("WARNING: %v; keeping %q\n", err, o.riemann.Name())
		return
	}
	o.riemann = rs
}

// SetSlopeLimiter selects the slope limiter by name. An unknown name keeps the default
// and logs a warning.
func (o *Hydrodynamics) SetSlopeLimiter(name string) {
	lim, err := NewSlopeLimiter(name)
	if err != nil {
		io.Pfyel("WARNING: %v; keeping %q\n", err, o.limiter.Name())
		return
	}
	o.limiter = lim
}

// RiemannSolverName returns the name of the selected Riemann solver
func (o *Hydrodynamics) RiemannSolverName() string { return o.riemann.Name() }

// SlopeLimiterName returns the name of the selected slope limiter
func (o *Hydrodynamics) SlopeLimiterName() string { return o.limiter.Name() }

// ComponentName returns the diagnostic label
func (o *Hydrodynamics) ComponentName() string { return "Hydrodynamics" }

// PreTimeStepCalculations refreshes the ghost layers from the current primitive state.
// Idempotent.
func (o *Hydrodynamics) PreTimeStepCalculations(f *fluid.Fluid) {
	f.Grid.FillExternalGhosts()
	f.Grid.ExchangePartitionGhosts()
}

// CalculateTimeStep returns the Courant-limited time step
func (o *Hydrodynamics) CalculateTimeStep(dtMax float64, f *fluid.Fluid) float64 {
	grid := f.Grid
	maxSpeed := 0.0
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		a := fluid.CalcSoundSpeed(c.HeatCapacityRatio, c.Q[fluid.PRE], c.Q[fluid.DEN])
		for d := 0; d < grid.Nd; d++ {
			s := math.Abs(c.Q[fluid.VEL0+d]) + a
			if s > maxSpeed {
				maxSpeed = s
			}
		}
	}
	if maxSpeed <= 0 {
		return dtMax
	}
	dt := o.courant * grid.Dx[0] / maxSpeed
	return math.Min(dt, dtMax)
}

// Integrate computes the flux divergence from the current primitives and writes it into
// UDOT. Ghost layers are refreshed first so the face loop can cross partition boundaries.
func (o *Hydrodynamics) Integrate(dt float64, f *fluid.Fluid) {
	grid := f.Grid
	grid.FillExternalGhosts()
	grid.ExchangePartitionGhosts()

	var qFaceL, qFaceR [fluid.NU]float64
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		for d := 0; d < grid.Nd; d++ {
			left := grid.Left(d, id)
			right := grid.Right(d, id)

			// flux through the lower face
			o.faceStates(grid, left, id, d, &qFaceL, &qFaceR)
			fLo := o.riemann.Solve(&qFaceL, &qFaceR, d, c.HeatCapacityRatio)

			// flux through the upper face
			o.faceStates(grid, id, right, d, &qFaceL, &qFaceR)
			fHi := o.riemann.Solve(&qFaceL, &qFaceR, d, c.HeatCapacityRatio)

			for n := 0; n < fluid.NU; n++ {
				c.UDOT[n] -= (fHi[n] - fLo[n]) / grid.Dx[d]
			}
		}
	}
}

// faceStates reconstructs the left and right primitive states at the face between cells
// lo and hi. A missing neighbour (domain corner beyond the ghost layers) falls back to
// the zero-gradient state of the present cell.
func (o *Hydrodynamics) faceStates(grid *fluid.Grid, lo, hi, dim int, qL, qR *[fluid.NU]float64) {
	switch {
	case lo < 0:
		*qL = grid.Cell(hi).Q
	case hi < 0:
		*qR = grid.Cell(lo).Q
	}
	if lo >= 0 {
		c := grid.Cell(lo)
		*qL = c.Q
		if o.spatialOrder > 0 {
			o.addSlope(grid, lo, dim, 0.5, qL)
		}
	}
	if hi >= 0 {
		c := grid.Cell(hi)
		*qR = c.Q
		if o.spatialOrder > 0 {
			o.addSlope(grid, hi, dim, -0.5, qR)
		}
	}
}

// addSlope adds sgn*0.5 of the limited slope of cell id along dim to q
func (o *Hydrodynamics) addSlope(grid *fluid.Grid, id, dim int, half float64, q *[fluid.NU]float64) {
	c := grid.Cell(id)
	left := grid.Left(dim, id)
	right := grid.Right(dim, id)
	if left < 0 || right < 0 {
		return
	}
	cl, cr := grid.Cell(left), grid.Cell(right)
	for n := 0; n < fluid.NU; n++ {
		dq := o.limiter.Limit(c.Q[n]-cl.Q[n], cr.Q[n]-c.Q[n])
		q[n] += half * dq
	}
}

// UpdateSourceTerms folds the external gravity contribution into UDOT
func (o *Hydrodynamics) UpdateSourceTerms(dt float64, f *fluid.Fluid) {
	grid := f.Grid
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		for d := 0; d < grid.Nd; d++ {
			if c.GRAV[d] == 0 {
				continue
			}
			c.UDOT[fluid.VEL0+d] += c.Q[fluid.DEN] * c.GRAV[d]
			c.UDOT[fluid.PRE] += c.Q[fluid.DEN] * c.Q[fluid.VEL0+d] * c.GRAV[d]
		}
	}
}
