// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package torch

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/hydro"
	"github.com/ridoncules/Torch/out"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/rad"
	"github.com/ridoncules/Torch/thermo"
	"github.com/ridoncules/Torch/units"
)

// star-region values of the standard Sod problem (gamma = 7/5, left (1,1,0),
// right (0.125,0.1,0))
const (
	sodPStar    = 0.30313
	sodUStar    = 0.92745
	sodRhoStarL = 0.42632
	sodRhoStarR = 0.26557
)

// sodDensity returns the exact density at position x and time t, diaphragm at x0
func sodDensity(x, x0, t float64) float64 {
	gamma := 7.0 / 5.0
	cl := math.Sqrt(gamma * 1.0 / 1.0)
	cstarL := cl * math.Pow(sodPStar/1.0, (gamma-1)/(2*gamma))

	xHead := x0 - cl*t
	xTail := x0 + (sodUStar-cstarL)*t
	xContact := x0 + sodUStar*t
	ratio := sodRhoStarR / 0.125
	xShock := x0 + sodUStar*ratio/(ratio-1)*t

	switch {
	case x < xHead:
		return 1.0
	case x < xTail:
		u := 2 / (gamma + 1) * (cl + (x-x0)/t)
		c := cl - (gamma-1)/2*u
		return math.Pow(c/cl, 2/(gamma-1))
	case x < xContact:
		return sodRhoStarL
	case x < xShock:
		return sodRhoStarR
	}
	return 0.125
}

func Test_sod01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sod01. shock tube against the analytic solution")

	n := 200
	o := new(Torch)
	o.World = parallel.NewMPIW()
	o.Consts = units.NewConstants(1, 1, 1)
	o.Consts.Nd = 1
	o.Consts.Dfloor = 1e-12
	o.Consts.Pfloor = 1e-12

	grid := fluid.NewGrid(1, [3]int{n, 1, 1}, 1.0, 2, o.World)
	o.Fluid = fluid.NewFluid(grid, o.Consts, 7.0/5.0, 1.0)

	o.Hydro = hydro.NewHydrodynamics(o.Consts, 1, 0.5)
	o.Hydro.SetRiemannSolver("hllc")
	o.Hydro.SetSlopeLimiter("minmod")
	o.Rad = rad.NewRadiation(o.Consts, 1, 1e-2, 5)
	o.Thermo = thermo.NewThermodynamics(o.Consts, thermo.Parameters{HIISwitch: 1e-2, HeatingAmplification: 1, MassFractionH: 1})
	o.Out = out.NewWriter(o.Consts, o.World, tst.TempDir(), false)
	o.components = map[ComponentID]Integrator{HydroID: o.Hydro, ThermoID: o.Thermo, RadID: o.Rad}
	o.activeComponents = []ComponentID{HydroID}
	o.firstTimeStep = true
	o.tmax = 0.2
	o.dtMax = 1e-2

	x0 := 0.5
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		x := (c.XC[0] + 0.5) * grid.Dx[0]
		if x < x0 {
			c.Q = [fluid.NU]float64{1, 1, 0, 0, 0, 0, 0}
		} else {
			c.Q = [fluid.NU]float64{0.125, 0.1, 0, 0, 0, 0, 0}
		}
		fluid.UfromQ(&c.U, &c.Q, c.HeatCapacityRatio)
	}

	// B2: a hydro-only configuration takes the predictor-corrector path
	for grid.CurrentTime < o.tmax {
		grid.Deltatime = o.FullStep(o.tmax - grid.CurrentTime)
		grid.CurrentTime += grid.Deltatime
		if o.Steps() == 0 && grid.Deltatime > o.dtMax*1e-19 {
			tst.Errorf("first step did not use the bootstrap dt: %g", grid.Deltatime)
			return
		}
		o.steps++
	}
	chk.Float64(tst, "final time", 1e-12, grid.CurrentTime, 0.2)

	// wave positions at t = 0.2, to exclude the discontinuity-smearing cells from the
	// pointwise comparison
	gamma := 7.0 / 5.0
	cl := math.Sqrt(gamma)
	cstarL := cl * math.Pow(sodPStar, (gamma-1)/(2*gamma))
	ratio := sodRhoStarR / 0.125
	waves := []float64{
		x0 - cl*0.2,
		x0 + (sodUStar-cstarL)*0.2,
		x0 + sodUStar*0.2,
		x0 + sodUStar*ratio/(ratio-1)*0.2,
	}

	l1 := 0.0
	maxSmooth := 0.0
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		x := (c.XC[0] + 0.5) * grid.Dx[0]
		err := math.Abs(c.Q[fluid.DEN] - sodDensity(x, x0, 0.2))
		l1 += err * grid.Dx[0]

		nearWave := false
		for _, xw := range waves {
			if math.Abs(x-xw) < 4*grid.Dx[0] {
				nearWave = true
			}
		}
		if !nearWave && err > maxSmooth {
			maxSmooth = err
		}
	}

	if l1 > 2e-2 {
		tst.Errorf("L1 density error too large: %g", l1)
	}
	if maxSmooth > 2e-2 {
		tst.Errorf("density error away from the waves too large: %g", maxSmooth)
	}
}
