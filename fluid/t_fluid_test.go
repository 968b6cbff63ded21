// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/units"
)

// testFluid builds a single-rank fluid over an nd-dimensional grid with unit scalings
func testFluid(nd int, ncells [3]int) *Fluid {
	world := parallel.NewMPIW()
	consts := units.NewConstants(1, 1, 1)
	consts.Nd = nd
	consts.Dfloor = 1e-12
	consts.Pfloor = 1e-12
	grid := NewGrid(nd, ncells, 1.0, 2, world)
	return NewFluid(grid, consts, 5.0/3.0, 1.0)
}

func Test_fluid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid01. Q -> U -> Q is the identity")

	states := [][NU]float64{
		{1, 1, 0, 0, 0, 0, 0},
		{1.4e-3, 2.7e-2, 0.3, -1.2, 0.05, 0.5, 1},
		{7.5, 13.2, -4, 4, 4, 1, 0.25},
	}
	gamma := 5.0 / 3.0
	for _, q0 := range states {
		var u, q [NU]float64
		UfromQ(&u, &q0, gamma)
		QfromU(&q, &u, gamma)
		for n := 0; n < NU; n++ {
			chk.Float64(tst, "q", 1e-13*(1+math.Abs(q0[n])), q[n], q0[n])
		}
	}
}

func Test_fluid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid02. primitive floors and clamps")

	f := testFluid(1, [3]int{8, 1, 1})
	grid := f.Grid

	c := grid.Cell(3)
	c.Q[DEN] = -1
	c.Q[PRE] = 0
	c.Q[HII] = 1.5
	c.Q[VEL0] = math.NaN()

	f.FixPrimitives()

	chk.Float64(tst, "den floored", 0, c.Q[DEN], f.Consts.Dfloor)
	chk.Float64(tst, "pre floored", 0, c.Q[PRE], f.Consts.Pfloor)
	chk.Float64(tst, "hii clamped", 0, c.Q[HII], 1)
	chk.Float64(tst, "vel zeroed", 0, c.Q[VEL0], 0)

	// U is consistent with the floored Q
	var q [NU]float64
	QfromU(&q, &c.U, c.HeatCapacityRatio)
	chk.Float64(tst, "U consistent", 1e-15, q[DEN], c.Q[DEN])
}

func Test_fluid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid03. advSolution applies and clears UDOT")

	f := testFluid(1, [3]int{4, 1, 1})
	grid := f.Grid
	for _, id := range grid.OrderedIndices(OrdGridCells) {
		c := grid.Cell(id)
		c.Q = [NU]float64{1, 1, 0, 0, 0, 0, 0}
		UfromQ(&c.U, &c.Q, c.HeatCapacityRatio)
		c.UDOT[PRE] = 2.0
	}
	f.AdvSolution(0.5)
	for _, id := range grid.OrderedIndices(OrdGridCells) {
		c := grid.Cell(id)
		chk.Float64(tst, "energy advanced", 1e-15, c.U[PRE], 1.0/(5.0/3.0-1)+1.0)
		chk.Float64(tst, "udot cleared", 0, c.UDOT[PRE], 0)
	}
}

func Test_fluid04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid04. temperature of neutral and ionised hydrogen")

	f := testFluid(1, [3]int{4, 1, 1})
	R := f.Consts.SpecificGasConst

	// pure neutral hydrogen: mu_inv = 1
	den := units.HydrogenMassCGS * 100 // nH = 100
	T := 100.0
	pre := den * R * T
	chk.Float64(tst, "neutral", 1e-10, f.CalcTemperature(0, pre, den), T)

	// fully ionised hydrogen: mu_inv = 2, so same pressure gives half the temperature
	chk.Float64(tst, "ionised", 1e-10, f.CalcTemperature(1, pre, den), T/2)
}
