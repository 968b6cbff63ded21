// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package torch

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/hydro"
	"github.com/ridoncules/Torch/inp"
	"github.com/ridoncules/Torch/out"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/rad"
	"github.com/ridoncules/Torch/thermo"
	"github.com/ridoncules/Torch/units"
)

// Torch composes the physics integrators under Strang-style operator splitting with a
// shared stability-limited time step
type Torch struct {

	// services
	Consts *units.Constants
	World  *parallel.MPIW
	Fluid  *fluid.Fluid
	Out    *out.Writer

	// integrators
	Hydro  *hydro.Hydrodynamics
	Rad    *rad.Radiation
	Thermo *thermo.Thermodynamics

	// controls
	tmax         float64
	dtMax        float64
	dtMaxFcn     func(t float64) float64
	ncheckpoints int
	radiationOn  bool
	coolingOn    bool
	debug        bool

	// state
	components       map[ComponentID]Integrator
	activeComponents []ComponentID
	stepCounter      int
	steps            int
	stepstart        int
	firstTimeStep    bool
	quitting         bool
	verbose          bool
}

// NewTorch initialises the full simulation from the parameters: constants and scalings,
// grid geometry (possibly read back from an initial-conditions snapshot), integrators
// with their pluggable strategies, the initial state, and the radiation field geometry.
func NewTorch(p *inp.Parameters, world *parallel.MPIW, verbose bool) (o *Torch) {
	o = new(Torch)
	o.World = world
	o.verbose = verbose && world.Rank() == 0
	o.firstTimeStep = true

	o.Consts = units.NewConstants(p.Data.Dscale, p.Data.Pscale, p.Data.Tscale)
	conv := &o.Consts.Conv

	// grid geometry comes from the initial conditions snapshot when restarting
	nd, ncells := p.Grid.Nd, p.Grid.Ncells
	sideLength := conv.ToCodeUnits(p.Grid.SideLength, 0, 1, 0)
	var datap inp.DataParameters
	if p.IC.InitialConditions != "" {
		datap = inp.ReadDataParameters(p.IC.InitialConditions)
		nd, ncells = datap.Nd, datap.Ncells
		sideLength = conv.ToCodeUnits(datap.SideLength, 0, 1, 0)
	}

	o.Consts.Nd = nd
	o.Consts.Dfloor = p.Grid.Dfloor
	o.Consts.Pfloor = p.Grid.Pfloor
	o.Consts.Tfloor = p.Grid.Tfloor

	grid := fluid.NewGrid(nd, ncells, sideLength, 2, world)
	grid.CurrentTime = conv.ToCodeUnits(datap.Time, 0, 0, 1)
	o.Fluid = fluid.NewFluid(grid, o.Consts, p.IC.HeatCapacityRatio, p.Thermo.MassFractionH)

	// radiation source in code units
	o.Fluid.Star = fluid.Star{
		On:             p.Star.On,
		XC:             p.Star.Position,
		MassLossRate:   conv.ToCodeUnits(p.Star.MassLossRate, 1, 0, -1),
		WindVelocity:   conv.ToCodeUnits(p.Star.WindVelocity, 0, 1, -1),
		PhotonRate:     conv.ToCodeUnits(p.Star.PhotonRate, 0, 0, -1),
		WindCellRadius: p.Star.WindCellRadius,
	}

	// integrators; unknown strategy names keep the defaults with a logged warning
	o.Hydro = hydro.NewHydrodynamics(o.Consts, p.Integration.SpatialOrder, p.Integration.CourantFactor)
	o.Hydro.SetRiemannSolver(p.Integration.RiemannSolver)
	o.Hydro.SetSlopeLimiter(p.Integration.SlopeLimiter)
	o.Rad = rad.NewRadiation(o.Consts, p.Thermo.MassFractionH, p.Thermo.HIISwitch, p.Star.PhotonEnergy)
	o.Thermo = thermo.NewThermodynamics(o.Consts, thermo.Parameters{
		Subcycling:           p.Thermo.Subcycling,
		HIISwitch:            p.Thermo.HIISwitch,
		HeatingAmplification: p.Thermo.HeatingAmplification,
		MassFractionH:        p.Thermo.MassFractionH,
		MinTempInitialState:  p.Thermo.MinTempInitialState,
	})

	o.Out = out.NewWriter(o.Consts, world, p.Data.DirOut, p.IC.CompressSnapshots)
	o.components = map[ComponentID]Integrator{HydroID: o.Hydro, ThermoID: o.Thermo, RadID: o.Rad}

	// controls
	o.tmax = p.Integration.Tmax
	o.dtMax = p.Integration.DtMax
	if p.DtMaxFcn != nil {
		fcn := p.DtMaxFcn
		o.dtMaxFcn = func(t float64) float64 { return fcn.F(t, nil) }
	}
	o.ncheckpoints = p.Integration.Ncheckpoints
	o.radiationOn = p.Integration.RadiationOn
	o.coolingOn = p.Integration.CoolingOn
	o.debug = p.Data.Debug

	// initial state: snapshot restart or registered setup function
	if p.IC.InitialConditions != "" {
		inp.ReadGrid(p.IC.InitialConditions, datap, o.Fluid, world)
		o.stepstart = inp.StepIDFromFilename(p.IC.InitialConditions)
		if o.verbose {
			io.Pf("> Grid read from file: %s\n", p.IC.InitialConditions)
		}
	} else {
		o.setUp(p.IC.SetupFunc)
	}
	if p.IC.PatchFilename != "" {
		inp.PatchGrid(p.IC.PatchFilename, p.IC.PatchOffset, o.Fluid, world)
	}

	// convert cell data to code units, fix any broken primitives, derive conservatives
	o.toCodeUnits()
	o.Fluid.FixPrimitives()
	o.Fluid.GlobalUfromQ()

	// temperature floors from the converted initial state
	o.Thermo.InitialiseMinTempField(o.Fluid)

	// path lengths and nearest-neighbour weights for the radiative transfer
	o.Rad.InitField(o.Fluid)

	o.warnReverseShock()

	if o.verbose {
		io.Pf("> Initial setup complete\n")
	}
	return
}

// setUp initialises every cell from the registered setup function, in physical units
func (o *Torch) setUp(name string) {
	fcn, err := inp.GetSetupFunc(name)
	if err != nil {
		chk.Panic("torch: cannot initialise grid: %v", err)
	}
	grid := o.Fluid.Grid
	conv := &o.Consts.Conv
	var starXC [3]float64
	for d := 0; d < 3; d++ {
		starXC[d] = conv.FromCodeUnits(o.Fluid.Star.XC[d]*grid.Dx[d], 0, 1, 0)
	}
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		var xc [3]float64
		for d := 0; d < 3; d++ {
			xc[d] = conv.FromCodeUnits(c.XC[d]*grid.Dx[d], 0, 1, 0)
		}
		den, pre, hii, v0, v1, v2, g0, g1, g2 := fcn(xc, starXC)
		c.Q[fluid.DEN] = den
		c.Q[fluid.PRE] = pre
		c.Q[fluid.HII] = hii
		c.Q[fluid.VEL0] = v0
		c.Q[fluid.VEL1] = v1
		c.Q[fluid.VEL2] = v2
		c.GRAV = [3]float64{g0, g1, g2}
		c.HeatCapacityRatio = o.Fluid.HeatCapacityRatio
	}
}

// toCodeUnits converts the freshly initialised (physical) cell data to code units
func (o *Torch) toCodeUnits() {
	grid := o.Fluid.Grid
	conv := &o.Consts.Conv
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		c.Q[fluid.DEN] = conv.ToCodeUnits(c.Q[fluid.DEN], 1, -3, 0)
		c.Q[fluid.PRE] = conv.ToCodeUnits(c.Q[fluid.PRE], 1, -1, -2)
		for d := 0; d < o.Consts.Nd; d++ {
			c.Q[fluid.VEL0+d] = conv.ToCodeUnits(c.Q[fluid.VEL0+d], 0, 1, -1)
		}
		for d := 0; d < o.Consts.Nd; d++ {
			c.GRAV[d] = conv.ToCodeUnits(c.GRAV[d], 0, 1, -2)
		}
	}
}

// warnReverseShock warns when the stellar wind reverse shock would sit within or close to
// the wind injection region
func (o *Torch) warnReverseShock() {
	star := &o.Fluid.Star
	if !star.On || star.WindCellRadius <= 0 || star.Core != fluid.Here {
		return
	}
	grid := o.Fluid.Grid
	id := grid.Locate(int(star.XC[0]), int(star.XC[1]), int(star.XC[2]))
	if id < 0 {
		return
	}
	edot := 0.5 * star.MassLossRate * star.WindVelocity * star.WindVelocity
	pre := grid.Cell(id).Q[fluid.PRE]
	reverse2 := math.Sqrt(2.0*edot*star.MassLossRate) / (4.0 * units.Pi * pre)
	reverse := math.Sqrt(reverse2) / grid.Dx[0]
	if reverse < float64(5+star.WindCellRadius) {
		io.Pfyel("WARNING: reverse shock within or close to wind injection region: [rs = %g, wir = %d]\n",
			reverse, star.WindCellRadius)
	}
}

// Quit asks the outer loop to stop before the next full step
func (o *Torch) Quit() { o.quitting = true }

// Quitting reports whether the run has been asked to stop
func (o *Torch) Quitting() bool { return o.quitting }

// Steps returns the number of full steps taken
func (o *Torch) Steps() int { return o.steps }

// Run marches the solution until tmax or until the quit flag is raised, writing a
// snapshot at each checkpoint time
func (o *Torch) Run() {
	grid := o.Fluid.Grid
	initTime := grid.CurrentTime

	o.Fluid.GlobalQfromU()
	o.Fluid.FixPrimitives()

	if o.verbose {
		io.Pf("> Marching solution\n")
	}
	progBar := NewProgressBar(o.tmax-initTime, 1000)

	checkpointer := NewCheckpointer(o.tmax, o.ncheckpoints)
	checkpointer.Update(initTime, nil)

	o.Out.Print2D(out.FormatSuffix(checkpointer.Count()), initTime, grid)

	o.activeComponents = []ComponentID{HydroID}
	if o.coolingOn {
		o.activeComponents = append(o.activeComponents, ThermoID)
	}
	if o.radiationOn {
		o.activeComponents = append(o.activeComponents, RadID)
	}

	isFinalPrintOn := false

	o.Thermo.FillHeatingArrays(o.Fluid)

	for grid.CurrentTime < o.tmax && !o.quitting {
		// time until the next data snapshot; print if it has passed
		dtNextCheckpoint := o.dtMax
		if o.dtMaxFcn != nil {
			dtNextCheckpoint = o.dtMaxFcn(grid.CurrentTime)
		}

		printNow := checkpointer.Update(grid.CurrentTime, &dtNextCheckpoint)

		if printNow {
			o.Thermo.FillHeatingArrays(o.Fluid)
			o.Out.PrintHeating(out.FormatSuffix(checkpointer.Count()), grid.CurrentTime, grid)
			o.Out.Print2D(out.FormatSuffix(checkpointer.Count()), grid.CurrentTime, grid)
			isFinalPrintOn = checkpointer.Count() != o.ncheckpoints
		}

		// full integration time step over all physics sub-problems
		grid.Deltatime = o.FullStep(dtNextCheckpoint)
		grid.CurrentTime += grid.Deltatime
		o.steps++

		if o.verbose && progBar.TimeToUpdate() {
			progBar.Update(grid.CurrentTime - initTime)
			io.Pf("%s\r", progBar.FullString())
		}
	}

	if isFinalPrintOn {
		o.Out.Print2D(out.FormatSuffix(o.ncheckpoints), grid.CurrentTime, grid)
	}

	o.World.Barrier()
	progBar.End()
	if o.verbose {
		io.Pf("%s\n", progBar.FinalString())
	}
}

// CalculateTimeStep polls the active integrators for their stability limits and reduces
// the minimum across ranks. The very first call of a run returns dtMax*1e-20 so no
// integrator consumes uninitialised derived quantities.
func (o *Torch) CalculateTimeStep() float64 {
	var dt float64
	if o.firstTimeStep {
		dt = o.dtMax * 1.0e-20
		o.firstTimeStep = false
	} else {
		dtHydro := o.Hydro.CalculateTimeStep(o.dtMax, o.Fluid)
		dtRad := dtHydro
		dtThermo := dtHydro
		if o.radiationOn {
			dtRad = o.Rad.CalculateTimeStep(o.dtMax, o.Fluid)
		}
		if o.coolingOn {
			dtThermo = o.Thermo.CalculateTimeStep(o.dtMax, o.Fluid)
		}
		dt = math.Min(math.Min(dtHydro, dtRad), dtThermo)

		if o.debug {
			thyd := o.World.Minimum(dtHydro / o.tmax)
			trad := o.World.Minimum(dtRad / o.tmax)
			ttherm := o.World.Minimum(dtThermo / o.tmax)

			if thyd <= 1.0e-6 || trad <= 1.0e-6 || ttherm <= 1.0e-6 {
				io.PfRed("ERROR: integration deltas are too small: [hydro = %g, rad = %g, thermo = %g]\n",
					thyd, trad, ttherm)
				o.quitting = true
			}
		}
	}
	dt = o.World.Minimum(dt)
	o.Out.ReduceToPrint(o.Fluid.Grid.CurrentTime, dt)
	o.Fluid.Grid.Deltatime = dt
	return dt
}

// getComponent maps a component id to its integrator
func (o *Torch) getComponent(id ComponentID) Integrator {
	return o.components[id]
}

// SubStep advances one component by dt: its rates are integrated into UDOT, deferred
// source terms folded in, the solution advanced and floored. The first sub-step of a
// sweep skips the redundant primitive refresh.
func (o *Torch) SubStep(dt float64, hasCalculatedHeatFlux bool, comp Integrator) {
	o.CheckValues(comp.ComponentName() + " before")
	if !hasCalculatedHeatFlux {
		o.Fluid.GlobalQfromU()
		o.Fluid.FixPrimitives()
		comp.PreTimeStepCalculations(o.Fluid)
	}
	comp.Integrate(dt, o.Fluid)
	comp.UpdateSourceTerms(dt, o.Fluid)
	o.Fluid.AdvSolution(dt)
	o.Fluid.FixSolution()
	o.CheckValues(comp.ComponentName() + " after")
}

// HydroStep performs the two-step predictor-corrector Godunov advance: a half-step from
// the current state, then a full step from the start-of-step conservatives using the
// half-step primitives
func (o *Torch) HydroStep(dt float64, hasCalculatedHeatFlux bool) {
	o.CheckValues("hydro before")
	o.Fluid.GlobalWfromU()
	if !hasCalculatedHeatFlux {
		o.Fluid.GlobalQfromU()
		o.Fluid.FixPrimitives()
		o.Hydro.PreTimeStepCalculations(o.Fluid)
	}
	o.Hydro.Integrate(dt, o.Fluid)
	o.Hydro.UpdateSourceTerms(dt, o.Fluid)

	o.Fluid.AdvSolution(dt / 2.0)
	o.Fluid.FixSolution()

	// corrector
	o.Fluid.GlobalQfromU()
	o.Fluid.GlobalUfromW()
	o.Hydro.Integrate(dt, o.Fluid)
	o.Hydro.UpdateSourceTerms(dt, o.Fluid)
	o.Fluid.AdvSolution(dt)
	o.Fluid.FixSolution()
	o.CheckValues("hydro after")
}

// FullStep performs one full integration time step of all physics sub-problems and
// returns the step taken. The splitting order rotates each step so the composition stays
// second order.
func (o *Torch) FullStep(dtNextCheckpoint float64) float64 {
	o.Fluid.GlobalQfromU()
	o.Fluid.FixPrimitives()
	if o.coolingOn {
		o.Thermo.PreTimeStepCalculations(o.Fluid)
	}
	if o.radiationOn {
		o.Rad.PreTimeStepCalculations(o.Fluid)
	}

	dt := math.Min(dtNextCheckpoint, o.CalculateTimeStep())

	ncomps := len(o.activeComponents)

	if ncomps == 1 {
		o.HydroStep(dt, true)
		return dt
	}

	o.stepCounter = (o.stepCounter + 1) % ncomps

	for i := 0; i < ncomps; i++ {
		h := 0.5
		if i == ncomps-1 {
			h = 1.0
		}
		o.SubStep(h*dt, i == 0, o.getComponent(o.activeComponents[(i+o.stepCounter)%ncomps]))
	}

	for i := ncomps - 2; i >= 0; i-- {
		o.SubStep(dt/2.0, false, o.getComponent(o.activeComponents[(i+o.stepCounter)%ncomps]))
	}

	return dt
}

// CheckValues scans every cell for non-finite conservatives or vanished density/pressure
// and fails fatally with a dump of the offending cells
func (o *Torch) CheckValues(componentname string) {
	grid := o.Fluid.Grid
	errFound := false
	for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
		c := grid.Cell(id)
		for n := 0; n < fluid.NU; n++ {
			if math.IsNaN(c.U[n]) || math.IsInf(c.U[n], 0) || c.Q[fluid.DEN] == 0 || c.Q[fluid.PRE] == 0 {
				errFound = true
				break
			}
		}
		if errFound {
			break
		}
	}
	if errFound {
		msg := io.Sf("%s produced an error\n", componentname)
		for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
			c := grid.Cell(id)
			bad := c.Q[fluid.DEN] == 0 || c.Q[fluid.PRE] == 0
			for n := 0; n < fluid.NU && !bad; n++ {
				bad = math.IsNaN(c.U[n]) || math.IsInf(c.U[n], 0)
			}
			if bad || math.Abs(c.Q[fluid.VEL0]) > 1e50 || math.Abs(c.Q[fluid.VEL1]) > 1e50 {
				msg += io.Sf("  cell (%d,%d,%d): Q = %v, U = %v\n", c.I, c.J, c.K, c.Q, c.U)
			}
		}
		chk.Panic("%s", msg)
	}
}
