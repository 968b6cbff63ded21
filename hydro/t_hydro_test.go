// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/units"
)

// testConsts returns unit-scaling constants for hydro tests
func testConsts() *units.Constants {
	consts := units.NewConstants(1, 1, 1)
	consts.Nd = 1
	consts.Dfloor = 1e-12
	consts.Pfloor = 1e-12
	return consts
}

// testFluid builds a single-rank 1D fluid with n cells of unit side length
func testFluid(consts *units.Constants, n int, gamma float64) *fluid.Fluid {
	world := parallel.NewMPIW()
	grid := fluid.NewGrid(1, [3]int{n, 1, 1}, 1.0, 2, world)
	return fluid.NewFluid(grid, consts, gamma, 1.0)
}

func Test_hydro01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydro01. CFL time step of a uniform flow")

	consts := testConsts()
	gamma := 5.0 / 3.0
	f := testFluid(consts, 10, gamma)
	grid := f.Grid

	den, pre, vel := 2.0, 3.0, 0.5
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		c.Q = [fluid.NU]float64{den, pre, vel, 0, 0, 0, 0}
		fluid.UfromQ(&c.U, &c.Q, gamma)
	}

	h := NewHydrodynamics(consts, 1, 0.5)
	a := math.Sqrt(gamma * pre / den)
	want := 0.5 * grid.Dx[0] / (vel + a)
	chk.Float64(tst, "cfl dt", 1e-14, h.CalculateTimeStep(1e30, f), want)

	// dt never exceeds the ceiling
	chk.Float64(tst, "capped dt", 1e-17, h.CalculateTimeStep(want/7, f), want/7)
}

func Test_hydro02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydro02. uniform field produces no flux divergence")

	consts := testConsts()
	gamma := 5.0 / 3.0
	f := testFluid(consts, 16, gamma)
	grid := f.Grid

	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		c.Q = [fluid.NU]float64{1.5, 2.5, 0.25, 0, 0, 0.5, 1}
		fluid.UfromQ(&c.U, &c.Q, gamma)
	}

	h := NewHydrodynamics(consts, 1, 0.5)
	h.PreTimeStepCalculations(f)
	h.Integrate(1e-3, f)

	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		for n := 0; n < fluid.NU; n++ {
			chk.Float64(tst, "udot", 1e-11, c.UDOT[n], 0)
		}
	}
}

func Test_hydro03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydro03. gravity source terms")

	consts := testConsts()
	gamma := 5.0 / 3.0
	f := testFluid(consts, 4, gamma)
	grid := f.Grid

	gacc := -2.5
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		c.Q = [fluid.NU]float64{2, 1, 0.5, 0, 0, 0, 0}
		c.GRAV[0] = gacc
		fluid.UfromQ(&c.U, &c.Q, gamma)
	}

	h := NewHydrodynamics(consts, 1, 0.5)
	h.UpdateSourceTerms(1e-3, f)

	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		chk.Float64(tst, "momentum source", 1e-14, c.UDOT[fluid.VEL0], 2*gacc)
		chk.Float64(tst, "energy source", 1e-14, c.UDOT[fluid.PRE], 2*0.5*gacc)
	}
}

func Test_hydro04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hydro04. conservation: interior fluxes telescope")

	consts := testConsts()
	gamma := 7.0 / 5.0
	f := testFluid(consts, 32, gamma)
	grid := f.Grid

	// smooth non-uniform density advected at constant velocity
	u := 0.1
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		x := (c.XC[0] + 0.5) / 32
		c.Q = [fluid.NU]float64{1 + 0.1*math.Sin(2*units.Pi*x), 1, u, 0, 0, 0, 0}
		fluid.UfromQ(&c.U, &c.Q, gamma)
	}

	h := NewHydrodynamics(consts, 1, 0.5)
	h.PreTimeStepCalculations(f)
	h.Integrate(1e-3, f)

	// interior fluxes telescope: the total mass change is set by the two outer faces
	// alone, where the free boundary repeats the edge state
	sum := 0.0
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		sum += grid.Cell(id).UDOT[fluid.DEN] * grid.Dx[0]
	}
	lo := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[0])
	hi := grid.Cell(grid.OrderedIndices(fluid.OrdGridCells)[31])
	want := lo.Q[fluid.DEN]*u - hi.Q[fluid.DEN]*u
	chk.Float64(tst, "net boundary flux", 1e-11, sum, want)
}
