// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package thermo implements the non-equilibrium heating/cooling integrator for partially
// ionised hydrogen with metal lines, following Henney et al. (2009)
package thermo

import (
	"math"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/units"
)

// Thermodynamics integrates the heating/cooling source term, optionally sub-cycling when
// the local thermal time falls below the hydro time step. Its rates consume the column
// densities produced by the causal ray-trace sweep.
type Thermodynamics struct {
	consts *units.Constants

	// controls
	isSubcycling         bool
	thermoHIISwitch      float64
	heatingAmplification float64
	massFractionH        float64
	minTempInitialState  bool

	// rate constants [code units where dimensioned]
	z0       float64 // metallicity relative to solar
	T1       float64 // metal line cooling shape constants [K]
	T2       float64
	T3       float64
	T4       float64
	imlc     float64 // ionised metal line cooling coefficient
	nmlc     float64 // neutral metal line cooling coefficient
	ciecMinT float64 // CIE cooling threshold [K]
	ciec     float64 // CIE cooling coefficient
	cxhiDamp float64 // collisional excitation damping temperature [K]
	n0       float64 // neutral/molecular cooling reference density
	nmc      float64 // neutral/molecular cooling coefficient
	fuvhA    float64 // FUV heating coefficients
	fuvhB    float64
	fuvhC    float64
	irhA     float64 // IR heating coefficients
	irhB     float64
	crh      float64 // cosmic ray heating coefficient
	TMin     float64 // default temperature floor [K]
	TSoft    float64 // soft-landing band width above the floor [K]

	// tabulated rates, built once at initialisation
	cehiRates   *cubicSplineTable
	recombRates *linearSplineTable
}

// Parameters configures the thermodynamics integrator
type Parameters struct {
	Subcycling           bool
	HIISwitch            float64
	HeatingAmplification float64
	MassFractionH        float64
	MinTempInitialState  bool
}

// NewThermodynamics returns the thermodynamics integrator with the Henney et al. rate
// constants converted to code units
func NewThermodynamics(consts *units.Constants, p Parameters) (o *Thermodynamics) {
	o = new(Thermodynamics)
	o.consts = consts
	o.isSubcycling = p.Subcycling
	o.thermoHIISwitch = p.HIISwitch
	o.heatingAmplification = p.HeatingAmplification
	o.massFractionH = p.MassFractionH
	o.minTempInitialState = p.MinTempInitialState

	conv := &consts.Conv
	o.z0 = 5.0e-4
	o.T1 = 33610
	o.T2 = 2180
	o.T3 = 28390
	o.T4 = 1780
	o.imlc = conv.ToCodeUnits(2.905e-19, 1, 5, -3)
	o.nmlc = conv.ToCodeUnits(4.477e-20, 1, 5, -3)
	o.ciecMinT = 5.0e4
	o.ciec = conv.ToCodeUnits(3.485e-15, 1, 5, -3)
	o.cxhiDamp = 5.0e5
	o.n0 = conv.ToCodeUnits(1.0e6, 0, -3, 0)
	o.nmc = conv.ToCodeUnits(3.981e-27, 1, 3.8, -3)
	o.fuvhA = conv.ToCodeUnits(1.9e-26, 1, 4, -2)
	o.fuvhB = conv.ToCodeUnits(1.0, 0, 0, -1)
	o.fuvhC = conv.ToCodeUnits(6.4, 0, -1, 0)
	o.irhA = conv.ToCodeUnits(7.7e-32, 1, 4, -2)
	o.irhB = conv.ToCodeUnits(3.0e4, 0, -3, 0)
	o.crh = conv.ToCodeUnits(5.0e-27, 1, 2, -3)
	o.TMin = 100
	o.TSoft = 200

	o.cehiRates = initCollisionalExcitationHI(conv)
	o.recombRates = initRecombinationHII(conv)
	return
}

// ComponentName returns the diagnostic label
func (o *Thermodynamics) ComponentName() string { return "Thermodynamics" }

// InitialiseMinTempField sets each cell's temperature floor, either from the initial
// state or to the default constant
func (o *Thermodynamics) InitialiseMinTempField(f *fluid.Fluid) {
	for _, id := range f.Grid.OrderedIndices(fluid.OrdGridCells) {
		c := f.Grid.Cell(id)
		if o.minTempInitialState {
			c.TMin = f.CalcTemperature(c.Q[fluid.HII], c.Q[fluid.PRE], c.Q[fluid.DEN])
		} else {
			c.TMin = o.TMin
		}
	}
}

// fluxFUV returns the unattenuated FUV photon flux at squared distance distSqrd
func (o *Thermodynamics) fluxFUV(qFUV, distSqrd float64) float64 {
	if distSqrd != 0 {
		return qFUV / (1.2e7 * 4 * units.Pi * distSqrd)
	}
	return 0
}

// ionised metal line cooling (Henney et al. 2009, eq. A9)
func (o *Thermodynamics) ionisedMetalLineCooling(ne, T float64) float64 {
	return o.imlc * o.z0 * ne * ne * math.Exp(-o.T1/T-(o.T2/T)*(o.T2/T))
}

// neutral metal line cooling (Henney et al. 2009, eq. A10)
func (o *Thermodynamics) neutralMetalLineCooling(ne, nn, T float64) float64 {
	return o.nmlc * o.z0 * ne * nn * math.Exp(-o.T3/T-(o.T4/T)*(o.T4/T))
}

// collisional ionisation equilibrium cooling curve (Henney et al. 2009, eq. A13), linearly
// smoothed over 20000 K above the threshold
func (o *Thermodynamics) collisionalIonisationEquilibriumCooling(ne, T float64) float64 {
	if T <= o.ciecMinT {
		return 0
	}
	cieRate := o.ciec * ne * ne * o.z0 * math.Exp(-0.63*math.Log(T)) * (1.0 - math.Exp(-math.Pow(1.0e-5*T, 1.63)))
	smoothing := math.Min(1.0, (T-5.0e4)/2.0e4)
	return cieRate * smoothing
}

// neutral and molecular cooling from cloudy models (Henney et al. 2009, eq. A14)
func (o *Thermodynamics) neutralMolecularLineCooling(nH, hiifrac, T float64) float64 {
	T0 := 70.0 + 220.0*math.Pow(nH/o.n0, 0.2)
	return o.nmc * (1.0 - hiifrac) * (1.0 - hiifrac) * math.Pow(nH, 1.6) * math.Sqrt(T) * math.Exp(-T0/T)
}

// collisionalExcitationHI interpolates the cubic log-log spline of the collisional
// excitation cooling rate of HI and damps it at coronal temperatures
func (o *Thermodynamics) collisionalExcitationHI(nH, hiifrac, T float64) float64 {
	rate := o.cehiRates.Interpolate(math.Log10(T))
	return hiifrac * (1.0 - hiifrac) * nH * nH * math.Exp((2.302585093*rate)-(T/o.cxhiDamp)*(T/o.cxhiDamp))
}

// recombinationHII interpolates the free-free/free-bound cooling rate of ionised
// hydrogen (Henney et al. 2009, eq. A11)
func (o *Thermodynamics) recombinationHII(nH, hiifrac, T float64) float64 {
	rate := o.recombRates.Interpolate(T)
	return hiifrac * hiifrac * nH * nH * o.consts.BoltzmannConst * T * rate
}

// FUV heating (Henney et al. 2009, eq. A3)
func (o *Thermodynamics) farUltraVioletHeating(nH, avFUV, fFUV float64) float64 {
	att := fFUV * math.Exp(-1.9*avFUV)
	return o.fuvhA * nH * att / (o.fuvhB + o.fuvhC*att/nH)
}

// IR heating (Henney et al. 2009, eq. A6)
func (o *Thermodynamics) infraRedHeating(nH, avFUV, fFUV float64) float64 {
	return o.irhA * nH * fFUV * math.Exp(-0.05*avFUV) * math.Exp(-2.0*math.Log(1.0+o.irhB/nH))
}

// cosmic ray heating (Henney et al. 2009, eq. A7), raised 10x to compensate for the
// missing X-ray heating
func (o *Thermodynamics) cosmicRayHeating(nH float64) float64 {
	return o.crh * nH
}

// softLanding attenuates net cooling near the temperature floor to avoid overshooting
// below it
func (o *Thermodynamics) softLanding(rate, T, TMin float64) float64 {
	result := rate
	if rate < 0.0 {
		if T <= TMin {
			result = 0
		} else if T <= TMin+200 {
			result = rate * (T - TMin) / 200
		}
	}
	return result
}

// coolingSum subtracts every cooling mechanism from rate at temperature T
func (o *Thermodynamics) coolingSum(rate, ne, nn, nH, hiifrac, T float64) float64 {
	rate -= o.ionisedMetalLineCooling(ne, T)
	rate -= o.neutralMetalLineCooling(ne, nn, T)
	rate -= o.collisionalExcitationHI(nH, hiifrac, T)
	rate -= o.collisionalIonisationEquilibriumCooling(ne, T)
	rate -= o.neutralMolecularLineCooling(nH, hiifrac, T)
	rate -= o.recombinationHII(nH, hiifrac, T)
	return rate
}

// PreTimeStepCalculations ray-traces the column densities and computes the net
// heating-minus-cooling rate of every cell whose ionisation-switch marker is set.
// The pure heating part is kept separately for the sub-cycle loop.
func (o *Thermodynamics) PreTimeStepCalculations(f *fluid.Fluid) {
	if f.Star.On {
		fluid.RayTrace(f)
	}
	grid := f.Grid

	for _, id := range grid.OrderedIndices(fluid.OrdCausalNonWind) {
		c := grid.Cell(id)

		if c.Q[fluid.ADV] < o.thermoHIISwitch {
			c.T[fluid.Rate] = 0
			for i := 0; i < fluid.NH; i++ {
				c.H[i] = 0
			}
			continue
		}
		nH := o.massFractionH * c.Q[fluid.DEN] / o.consts.HydrogenMass
		hiifrac := c.Q[fluid.HII]
		ne := nH * hiifrac
		nn := nH * (1.0 - hiifrac)
		T := f.CalcTemperature(c.Q[fluid.HII], c.Q[fluid.PRE], c.Q[fluid.DEN])

		fFUV := 0.0
		if f.Star.On {
			rsqrd := 0.0
			for d := 0; d < grid.Nd; d++ {
				dd := (c.XC[d] - f.Star.XC[d]) * grid.Dx[d]
				rsqrd += dd * dd
			}
			fFUV = o.fluxFUV(0.5*f.Star.PhotonRate, rsqrd)
		}
		tau := c.T[fluid.ColDen]
		avFUV := 1.086 * o.consts.DustExtinctionXSec * tau // visual band extinction in magnitudes

		rate := 0.0
		rate += o.farUltraVioletHeating(nH, avFUV, fFUV)
		rate += o.infraRedHeating(nH, avFUV, fFUV)
		rate += o.cosmicRayHeating(nH)

		c.T[fluid.Heat] = rate

		rate = o.coolingSum(rate, ne, nn, nH, hiifrac, T)
		rate = o.softLanding(rate, T, c.TMin)

		c.T[fluid.Rate] = o.heatingAmplification * rate
	}
}

// Integrate sub-cycles the source term: whenever the local thermal time dt_i is shorter
// than dt, the pressure update is split into ceil(dt/dt_i) micro-steps, each recomputing
// the cooling at the current sub-cycle temperature under the frozen heating term. The
// effective average rate is written back for the apply phase.
func (o *Thermodynamics) Integrate(dt float64, f *fluid.Fluid) {
	if !o.isSubcycling {
		return
	}
	grid := f.Grid

	for _, id := range grid.OrderedIndices(fluid.OrdCausalNonWind) {
		c := grid.Cell(id)

		if c.Q[fluid.ADV] < o.thermoHIISwitch {
			for i := 0; i < fluid.NH; i++ {
				c.H[i] = 0
			}
			c.T[fluid.Rate] = 0
			continue
		}
		nH := o.massFractionH * c.Q[fluid.DEN] / o.consts.HydrogenMass
		hiifrac := c.Q[fluid.HII]
		ne := nH * hiifrac
		nn := nH * (1.0 - hiifrac)

		dti := math.Abs(0.10 * c.U[fluid.PRE] / c.T[fluid.Rate])

		// pressure changes over the sub-cycle, therefore temperature does, affecting the
		// cooling rate
		muInv := o.massFractionH*(c.Q[fluid.HII]+1.0) + (1.0-o.massFractionH)*0.25
		pre2temp := 1.0 / (muInv * o.consts.SpecificGasConst * c.Q[fluid.DEN])
		temp2pre := muInv * o.consts.SpecificGasConst * c.Q[fluid.DEN]
		nsub := math.Max(1.0, math.Ceil(dt/dti)) // number of equal sub-cycle steps
		rate2dpre := dt / nsub * (c.HeatCapacityRatio - 1.0)
		dpre2rate := 1.0 / (dt * (c.HeatCapacityRatio - 1.0))

		pressure := c.Q[fluid.PRE] + c.T[fluid.Rate]*rate2dpre
		subcycleT := pressure * pre2temp
		if pressure < o.consts.Pfloor || subcycleT < c.TMin {
			pfloor := math.Max(c.TMin*temp2pre, o.consts.Pfloor)
			subcycleT = pfloor * pre2temp
			pressure = pfloor
		}

		if dt > dti {
			dtdti := dt / dti
			// number of sub-cycle steps; one step has been made already
			nsteps := int(dtdti + 0.5)
			if dtdti-math.Trunc(dtdti) > 0 {
				nsteps = int(dtdti + 1.0)
			}
			dti = dt / float64(nsteps)
			nsteps--

			for i := 0; i < nsteps; i++ {
				subcycleRate := c.T[fluid.Heat]
				subcycleRate = o.coolingSum(subcycleRate, ne, nn, nH, hiifrac, subcycleT)
				subcycleRate = o.heatingAmplification * o.softLanding(subcycleRate, subcycleT, c.TMin)

				pressure += subcycleRate * rate2dpre
				subcycleT = pressure * pre2temp
				if pressure < o.consts.Pfloor || subcycleT < c.TMin {
					pfloor := math.Max(c.TMin*temp2pre, o.consts.Pfloor)
					subcycleT = pfloor * pre2temp
					pressure = pfloor
				}
			}
		}

		c.T[fluid.Rate] = (pressure - c.Q[fluid.PRE]) * dpre2rate
		c.H[fluid.HTot] = c.T[fluid.Rate]
	}
}

// FillHeatingArrays refreshes the per-mechanism heating/cooling diagnostic snapshot,
// written out alongside each checkpoint
func (o *Thermodynamics) FillHeatingArrays(f *fluid.Fluid) {
	if f.Star.On {
		fluid.RayTrace(f)
	}
	grid := f.Grid

	for _, id := range grid.OrderedIndices(fluid.OrdCausalNonWind) {
		c := grid.Cell(id)

		if c.Q[fluid.ADV] < o.thermoHIISwitch {
			for i := 0; i < fluid.NH; i++ {
				c.H[i] = 0
			}
			continue
		}

		nH := o.massFractionH * c.Q[fluid.DEN] / o.consts.HydrogenMass
		hiifrac := c.Q[fluid.HII]
		ne := hiifrac * nH
		nn := (1.0 - hiifrac) * nH
		T := f.CalcTemperature(c.Q[fluid.HII], c.Q[fluid.PRE], c.Q[fluid.DEN])

		fFUV := 0.0
		if f.Star.On {
			rsqrd := 0.0
			for d := 0; d < grid.Nd; d++ {
				dd := (c.XC[d] - f.Star.XC[d]) * grid.Dx[d]
				rsqrd += dd * dd
			}
			fFUV = o.fluxFUV(0.5*f.Star.PhotonRate, rsqrd)
		}
		tau := c.T[fluid.ColDen]
		avFUV := 1.086 * o.consts.DustExtinctionXSec * tau

		c.H[fluid.HFUV] = o.farUltraVioletHeating(nH, avFUV, fFUV)
		c.H[fluid.HIR] = o.infraRedHeating(nH, avFUV, fFUV)
		c.H[fluid.HCR] = o.cosmicRayHeating(nH)

		c.H[fluid.HIML] = -o.ionisedMetalLineCooling(ne, T)
		c.H[fluid.HNML] = -o.neutralMetalLineCooling(ne, nn, T)
		c.H[fluid.HCEHI] = -o.collisionalExcitationHI(nH, hiifrac, T)
		c.H[fluid.HCIE] = -o.collisionalIonisationEquilibriumCooling(ne, T)
		c.H[fluid.HNMC] = -o.neutralMolecularLineCooling(nH, hiifrac, T)

		c.H[fluid.HTot] += c.H[fluid.HRHII] + c.H[fluid.HEUV]
	}
}

// CalculateTimeStep bounds the time step by the thermal time of every cell holding a
// non-zero rate
func (o *Thermodynamics) CalculateTimeStep(dtMax float64, f *fluid.Fluid) float64 {
	dt := dtMax
	frac := 0.1
	if o.isSubcycling {
		frac = 1.0
	}
	for _, id := range f.Grid.OrderedIndices(fluid.OrdGridCells) {
		c := f.Grid.Cell(id)
		if c.T[fluid.Rate] != 0 {
			dti := math.Abs(frac * c.U[fluid.PRE] / c.T[fluid.Rate])
			if dti < dt {
				dt = dti
			}
		}
	}
	return dt
}

// UpdateSourceTerms folds the rates into the energy source term and clears them
func (o *Thermodynamics) UpdateSourceTerms(dt float64, f *fluid.Fluid) {
	for _, id := range f.Grid.OrderedIndices(fluid.OrdCausalNonWind) {
		c := f.Grid.Cell(id)
		c.UDOT[fluid.PRE] += c.T[fluid.Rate]
		c.T[fluid.Rate] = 0
		c.T[fluid.Heat] = 0
	}
}
