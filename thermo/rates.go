// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermo

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/interp"

	"github.com/ridoncules/Torch/units"
)

// collisional excitation cooling of HI, Hummer (1994): temperatures [K] and rates
// [erg cm3/s], splined in log-log space
var cehiTemps = []float64{
	3162.2776602, 3981.0717055, 5011.8723363, 6309.5734448, 7943.2823472,
	10000.0000000, 12589.2541179, 15848.9319246, 19952.6231497, 25118.8643151,
	31622.7766017, 39810.7170553, 50118.7233627, 63095.7344480, 79432.8234724,
	100000.0000000, 125892.5411794, 158489.3192461, 199526.2314969, 251188.6431510,
	316227.7660168, 398107.1705535, 501187.2336273, 630957.3444802, 794328.2347243,
	1000000.0000000,
}

var cehiRates = []float64{
	1.150800e-34, 2.312065e-31, 9.571941e-29, 1.132400e-26, 4.954502e-25,
	9.794900e-24, 1.035142e-22, 6.652732e-22, 2.870781e-21, 9.036495e-21, 2.218196e-20,
	4.456562e-20, 7.655966e-20, 1.158777e-19, 1.588547e-19, 2.013724e-19, 2.393316e-19,
	2.710192e-19, 2.944422e-19, 3.104560e-19, 3.191538e-19, 3.213661e-19, 3.191538e-19,
	3.126079e-19, 3.033891e-19, 2.917427e-19,
}

// free-bound recombination coefficients of HII, Hummer (1994), tabulated against
// T = 10^(1 + 0.2 i); the rate splined is coolb/sqrt(T)
var recombCoolB = []float64{
	8.287e-11, 7.821e-11, 7.356e-11, 6.892e-11, 6.430e-11, 5.971e-11,
	5.515e-11, 5.062e-11, 4.614e-11, 4.170e-11, 3.734e-11, 3.306e-11, 2.888e-11,
	2.484e-11, 2.098e-11, 1.736e-11, 1.402e-11, 1.103e-11, 8.442e-12, 6.279e-12,
	4.539e-12, 3.192e-12, 2.185e-12, 1.458e-12, 9.484e-13, 6.023e-13, 3.738e-13,
	2.268e-13, 1.348e-13, 7.859e-14, 4.499e-14,
}

// recombTableN is the number of table entries actually splined
const recombTableN = 26

// cubicSplineTable is a cubic spline fit with linear tangent extrapolation off both ends
type cubicSplineTable struct {
	spline     interp.NaturalCubic
	xmin, xmax float64
	ymin, ymax float64
	smin, smax float64 // end tangents
}

func newCubicSplineTable(xs, ys []float64) (o *cubicSplineTable) {
	o = new(cubicSplineTable)
	if err := o.spline.Fit(xs, ys); err != nil {
		chk.Panic("thermo: cannot fit cubic spline table: %v", err)
	}
	o.xmin, o.xmax = xs[0], xs[len(xs)-1]
	o.ymin, o.ymax = ys[0], ys[len(ys)-1]
	o.smin = o.spline.PredictDerivative(o.xmin)
	o.smax = o.spline.PredictDerivative(o.xmax)
	return
}

// Interpolate evaluates the spline at x, extending linearly along the end tangents
func (o *cubicSplineTable) Interpolate(x float64) float64 {
	switch {
	case x < o.xmin:
		return o.ymin + o.smin*(x-o.xmin)
	case x > o.xmax:
		return o.ymax + o.smax*(x-o.xmax)
	}
	return o.spline.Predict(x)
}

// linearSplineTable is a piecewise-linear fit with end-segment extension
type linearSplineTable struct {
	spline     interp.PiecewiseLinear
	xmin, xmax float64
	ymin, ymax float64
	smin, smax float64
}

func newLinearSplineTable(xs, ys []float64) (o *linearSplineTable) {
	o = new(linearSplineTable)
	if err := o.spline.Fit(xs, ys); err != nil {
		chk.Panic("thermo: cannot fit linear spline table: %v", err)
	}
	o.xmin, o.xmax = xs[0], xs[len(xs)-1]
	o.ymin, o.ymax = ys[0], ys[len(ys)-1]
	o.smin = o.spline.PredictDerivative(o.xmin)
	o.smax = o.spline.PredictDerivative(o.xmax)
	return
}

// Interpolate evaluates the spline at x, extending the end segments outwards
func (o *linearSplineTable) Interpolate(x float64) float64 {
	switch {
	case x < o.xmin:
		return o.ymin + o.smin*(x-o.xmin)
	case x > o.xmax:
		return o.ymax + o.smax*(x-o.xmax)
	}
	return o.spline.Predict(x)
}

// initCollisionalExcitationHI builds the log-log cubic spline of the HI collisional
// excitation cooling rate in code units
func initCollisionalExcitationHI(conv *units.Converter) *cubicSplineTable {
	n := len(cehiTemps)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = math.Log10(cehiTemps[i])
		ys[i] = math.Log10(conv.ToCodeUnits(cehiRates[i], 1, 5, -3))
	}
	return newCubicSplineTable(xs, ys)
}

// initRecombinationHII builds the linear spline of the HII recombination cooling rate
// in code units
func initRecombinationHII(conv *units.Converter) *linearSplineTable {
	xs := make([]float64, recombTableN)
	ys := make([]float64, recombTableN)
	for i := 0; i < recombTableN; i++ {
		T := math.Exp(math.Log(10.0) * (1.0 + 0.2*float64(i)))
		xs[i] = T
		ys[i] = conv.ToCodeUnits(recombCoolB[i]/math.Sqrt(T), 0, 3, -1)
	}
	return newLinearSplineTable(xs, ys)
}
