// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridoncules/Torch/units"
)

func TestRateTablesPassThroughNodes(t *testing.T) {
	conv := &units.NewConstants(1, 1, 1).Conv

	cubic := initCollisionalExcitationHI(conv)
	for i, T := range cehiTemps {
		want := math.Log10(conv.ToCodeUnits(cehiRates[i], 1, 5, -3))
		got := cubic.Interpolate(math.Log10(T))
		assert.InDelta(t, want, got, 1e-9, "cubic node %d", i)
	}

	linear := initRecombinationHII(conv)
	for i := 0; i < recombTableN; i++ {
		T := math.Exp(math.Log(10.0) * (1.0 + 0.2*float64(i)))
		want := conv.ToCodeUnits(recombCoolB[i]/math.Sqrt(T), 0, 3, -1)
		got := linear.Interpolate(T)
		assert.InEpsilon(t, want, got, 1e-9, "linear node %d", i)
	}
}

func TestRateTablesExtrapolateAlongTangents(t *testing.T) {
	conv := &units.NewConstants(1, 1, 1).Conv
	cubic := initCollisionalExcitationHI(conv)

	// beyond the table the curve continues linearly along the end tangent
	dx := 0.5
	yHi := cubic.Interpolate(cubic.xmax)
	sHi := cubic.spline.PredictDerivative(cubic.xmax)
	assert.InDelta(t, yHi+sHi*dx, cubic.Interpolate(cubic.xmax+dx), 1e-9)

	yLo := cubic.Interpolate(cubic.xmin)
	sLo := cubic.spline.PredictDerivative(cubic.xmin)
	assert.InDelta(t, yLo-sLo*dx, cubic.Interpolate(cubic.xmin-dx), 1e-9)

	// monotone continuation for the linear table too
	linear := initRecombinationHII(conv)
	above := linear.Interpolate(linear.xmax * 2)
	assert.Less(t, above, linear.Interpolate(linear.xmax))
}

func TestInterpolationIsMonotoneBetweenNodes(t *testing.T) {
	conv := &units.NewConstants(1, 1, 1).Conv
	linear := initRecombinationHII(conv)

	// recombination cooling coefficient decreases with temperature across the table
	prev := linear.Interpolate(linear.xmin)
	for T := linear.xmin * 1.1; T < linear.xmax; T *= 1.1 {
		cur := linear.Interpolate(T)
		assert.LessOrEqual(t, cur, prev, "T = %g", T)
		prev = cur
	}
}
