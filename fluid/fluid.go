// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"math"

	"github.com/ridoncules/Torch/units"
)

// Fluid couples the grid, the radiation source and the constants, and implements the
// whole-grid state operations
type Fluid struct {
	Grid              *Grid
	Star              Star
	Consts            *units.Constants
	HeatCapacityRatio float64 // ratio of specific heats applied to new cells
	MassFractionH     float64 // hydrogen mass fraction X_H
}

// NewFluid wires a fluid to its grid and constants
func NewFluid(grid *Grid, consts *units.Constants, gamma, massFractionH float64) (o *Fluid) {
	o = &Fluid{Grid: grid, Consts: consts, HeatCapacityRatio: gamma, MassFractionH: massFractionH}
	for id := range grid.cells {
		grid.cells[id].HeatCapacityRatio = gamma
	}
	return
}

// UfromQ converts one primitive state to conservative variables
func UfromQ(u, q *[NU]float64, gamma float64) {
	ke := 0.0
	for d := 0; d < 3; d++ {
		u[VEL0+d] = q[DEN] * q[VEL0+d]
		ke += q[VEL0+d] * q[VEL0+d]
	}
	u[DEN] = q[DEN]
	u[PRE] = q[PRE]/(gamma-1) + 0.5*q[DEN]*ke
	u[HII] = q[DEN] * q[HII]
	u[ADV] = q[DEN] * q[ADV]
}

// QfromU converts one conservative state to primitive variables
func QfromU(q, u *[NU]float64, gamma float64) {
	q[DEN] = u[DEN]
	ke := 0.0
	for d := 0; d < 3; d++ {
		q[VEL0+d] = u[VEL0+d] / u[DEN]
		ke += q[VEL0+d] * q[VEL0+d]
	}
	q[PRE] = (gamma - 1) * (u[PRE] - 0.5*u[DEN]*ke)
	q[HII] = u[HII] / u[DEN]
	q[ADV] = u[ADV] / u[DEN]
}

// GlobalQfromU recomputes the primitive variables of every live cell from U
func (o *Fluid) GlobalQfromU() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		QfromU(&c.Q, &c.U, c.HeatCapacityRatio)
	}
}

// GlobalUfromQ recomputes the conservative variables of every live cell from Q
func (o *Fluid) GlobalUfromQ() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		UfromQ(&c.U, &c.Q, c.HeatCapacityRatio)
	}
}

// GlobalWfromU snapshots U into W for every live cell
func (o *Fluid) GlobalWfromU() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		c.W = c.U
	}
}

// GlobalUfromW restores U from the W snapshot for every live cell
func (o *Fluid) GlobalUfromW() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		c.U = c.W
	}
}

// FixPrimitives floors the primitive variables: density and pressure are clamped to the
// floors, the ionisation fraction to [0,1], and non-finite velocities are zeroed
func (o *Fluid) FixPrimitives() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		fixed := false
		if !(c.Q[DEN] >= o.Consts.Dfloor) {
			c.Q[DEN] = o.Consts.Dfloor
			fixed = true
		}
		if !(c.Q[PRE] >= o.Consts.Pfloor) {
			c.Q[PRE] = o.Consts.Pfloor
			fixed = true
		}
		for d := 0; d < 3; d++ {
			if math.IsNaN(c.Q[VEL0+d]) || math.IsInf(c.Q[VEL0+d], 0) {
				c.Q[VEL0+d] = 0
				fixed = true
			}
		}
		if c.Q[HII] < 0 {
			c.Q[HII] = 0
			fixed = true
		} else if c.Q[HII] > 1 {
			c.Q[HII] = 1
			fixed = true
		}
		if c.Q[ADV] < 0 {
			c.Q[ADV] = 0
			fixed = true
		}
		if fixed {
			UfromQ(&c.U, &c.Q, c.HeatCapacityRatio)
		}
	}
}

// FixSolution floors the conservative variables by recomputing the primitives and
// re-applying the floors
func (o *Fluid) FixSolution() {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		var q [NU]float64
		QfromU(&q, &c.U, c.HeatCapacityRatio)
		changed := false
		if !(q[DEN] >= o.Consts.Dfloor) {
			q[DEN] = o.Consts.Dfloor
			changed = true
		}
		if !(q[PRE] >= o.Consts.Pfloor) {
			q[PRE] = o.Consts.Pfloor
			changed = true
		}
		if q[HII] < 0 {
			q[HII] = 0
			changed = true
		} else if q[HII] > 1 {
			q[HII] = 1
			changed = true
		}
		if changed {
			for d := 0; d < 3; d++ {
				q[VEL0+d] = c.U[VEL0+d] / q[DEN]
			}
			UfromQ(&c.U, &q, c.HeatCapacityRatio)
		}
	}
}

// AdvSolution advances U by dt using the accumulated source terms, then zeroes UDOT
func (o *Fluid) AdvSolution(dt float64) {
	for _, id := range o.Grid.OrderedIndices(OrdGridCells) {
		c := o.Grid.Cell(id)
		for n := 0; n < NU; n++ {
			c.U[n] += dt * c.UDOT[n]
			c.UDOT[n] = 0
		}
	}
}

// CalcTemperature returns the gas temperature of a partially ionised hydrogen/helium mix:
// T = PRE / (mu_inv * R * DEN), with mu_inv = X_H*(HII+1) + (1-X_H)/4
func (o *Fluid) CalcTemperature(hii, pre, den float64) float64 {
	muInv := o.MassFractionH*(hii+1) + (1-o.MassFractionH)*0.25
	return pre / (muInv * o.Consts.SpecificGasConst * den)
}

// CalcSoundSpeed returns the adiabatic sound speed
func CalcSoundSpeed(gamma, pre, den float64) float64 {
	return math.Sqrt(gamma * pre / den)
}
