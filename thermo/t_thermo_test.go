// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermo

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/units"
)

// testSetup builds a single-rank 1D fluid of ionised gas at temperature T with the
// thermodynamics integrator attached
func testSetup(n int, nH, T, hii float64, subcycling bool) (*fluid.Fluid, *Thermodynamics) {
	world := parallel.NewMPIW()
	consts := units.NewConstants(1, 1, 1)
	consts.Nd = 1
	consts.Dfloor = 1e-30
	consts.Pfloor = 1e-30
	grid := fluid.NewGrid(1, [3]int{n, 1, 1}, 3.086e18, 2, world)
	f := fluid.NewFluid(grid, consts, 5.0/3.0, 1.0)

	den := nH * consts.HydrogenMass
	muInv := hii + 1
	pre := muInv * consts.SpecificGasConst * den * T
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		c.Q = [fluid.NU]float64{den, pre, 0, 0, 0, hii, 1} // ADV marker set
		fluid.UfromQ(&c.U, &c.Q, c.HeatCapacityRatio)
	}

	th := NewThermodynamics(consts, Parameters{
		Subcycling:           subcycling,
		HIISwitch:            1e-2,
		HeatingAmplification: 1,
		MassFractionH:        1,
	})
	th.InitialiseMinTempField(f)
	return f, th
}

func Test_thermo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo01. soft landing near the temperature floor")

	_, th := testSetup(4, 100, 1e4, 1, false)

	// B4: at T = TMin + 100 a cooling rate is halved
	chk.Float64(tst, "half way", 1e-15, th.softLanding(-2.0, th.TMin+100, th.TMin), -1.0)
	// at or below the floor cooling shuts off entirely
	chk.Float64(tst, "at floor", 0, th.softLanding(-2.0, th.TMin, th.TMin), 0)
	chk.Float64(tst, "below floor", 0, th.softLanding(-2.0, th.TMin-50, th.TMin), 0)
	// outside the soft band and for net heating the rate is untouched
	chk.Float64(tst, "above band", 1e-15, th.softLanding(-2.0, th.TMin+500, th.TMin), -2.0)
	chk.Float64(tst, "heating", 1e-15, th.softLanding(3.0, th.TMin-50, th.TMin), 3.0)
}

func Test_thermo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo02. cells below the ionisation switch are skipped")

	f, th := testSetup(4, 100, 1e4, 1, false)
	grid := f.Grid

	// B3: unmarked cells get zero rate and a cleared diagnostic snapshot
	off := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[1])
	off.Q[fluid.ADV] = 0
	off.T[fluid.Rate] = 123
	off.H[fluid.HFUV] = 456

	th.PreTimeStepCalculations(f)

	chk.Float64(tst, "rate zero", 0, off.T[fluid.Rate], 0)
	chk.Float64(tst, "H zero", 0, off.H[fluid.HFUV], 0)

	// marked neighbours did get a rate
	on := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[2])
	if on.T[fluid.Rate] == 0 {
		tst.Errorf("marked cell should have a non-zero net rate")
	}
	if on.T[fluid.Rate] >= 0 {
		tst.Errorf("hot ionised gas should cool: rate = %g", on.T[fluid.Rate])
	}
}

func Test_thermo03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo03. thermal time step: sub-cycling relaxes the bound")

	f, th := testSetup(4, 100, 1e4, 1, false)
	th.PreTimeStepCalculations(f)

	dtMax := 1e30
	dtStrict := th.CalculateTimeStep(dtMax, f)
	if dtStrict <= 0 || dtStrict >= dtMax {
		tst.Errorf("thermal dt not limited: %g", dtStrict)
		return
	}

	th.isSubcycling = true
	dtLoose := th.CalculateTimeStep(dtMax, f)
	chk.Float64(tst, "10x looser", 1e-8*dtLoose, dtLoose, 10*dtStrict)
}

func Test_thermo04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo04. single sub-step: pressure change matches the rate")

	f, th := testSetup(4, 100, 1e4, 1, true)
	grid := f.Grid
	th.PreTimeStepCalculations(f)

	c := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[1])
	rate0 := c.T[fluid.Rate]
	dti := math.Abs(0.10 * c.U[fluid.PRE] / rate0)
	dt := dti / 4 // below the local thermal time: exactly one step

	th.Integrate(dt, f)

	// the written-back rate reproduces the clamped pressure update
	pNew := c.Q[fluid.PRE] + c.T[fluid.Rate]*dt*(c.HeatCapacityRatio-1)
	pWant := c.Q[fluid.PRE] + rate0*dt*(c.HeatCapacityRatio-1)
	chk.Float64(tst, "pressure", 1e-12*pWant, pNew, pWant)
}

func Test_thermo05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo05. sub-cycled cooling lands softly on the floor")

	f, th := testSetup(4, 100, 1e4, 1, true)
	grid := f.Grid
	th.PreTimeStepCalculations(f)

	c := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[1])
	rate0 := c.T[fluid.Rate]
	if rate0 >= 0 {
		tst.Errorf("expected net cooling, got rate = %g", rate0)
		return
	}
	dti := math.Abs(0.10 * c.U[fluid.PRE] / rate0)
	dt := 100.4 * dti // forces >= 100 micro-steps

	th.Integrate(dt, f)

	// the effective average rate implies a final state at (or just above) the floor
	pFinal := c.Q[fluid.PRE] + c.T[fluid.Rate]*dt*(c.HeatCapacityRatio-1)
	muInv := 2.0 // fully ionised hydrogen
	tFinal := pFinal / (muInv * f.Consts.SpecificGasConst * c.Q[fluid.DEN])
	if tFinal < c.TMin-1e-9 {
		tst.Errorf("sub-cycled cooling overshot the floor: T = %g < %g", tFinal, c.TMin)
	}
	if tFinal > c.TMin+250 {
		tst.Errorf("sub-cycled cooling did not land near the floor: T = %g", tFinal)
	}
}

func Test_thermo06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermo06. source terms fold the rate into UDOT and clear it")

	f, th := testSetup(4, 100, 1e4, 1, false)
	grid := f.Grid

	c := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[2])
	c.T[fluid.Rate] = -7.5
	c.T[fluid.Heat] = 1.25

	th.UpdateSourceTerms(0.1, f)

	chk.Float64(tst, "udot", 1e-15, c.UDOT[fluid.PRE], -7.5)
	chk.Float64(tst, "rate cleared", 0, c.T[fluid.Rate], 0)
	chk.Float64(tst, "heat cleared", 0, c.T[fluid.Heat], 0)

	// without sub-cycling Integrate leaves the rate untouched
	c.T[fluid.Rate] = -3.0
	th.Integrate(0.1, f)
	chk.Float64(tst, "no subcycle", 1e-15, c.T[fluid.Rate], -3.0)
}
