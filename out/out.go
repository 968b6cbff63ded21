// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the snapshot and heating-diagnostic writers
package out

import (
	"bytes"
	"os"

	"github.com/DataDog/zstd"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/units"
)

// Writer writes snapshot and heating files in physical units, one row per cell, in
// rank-serial order so the global cell order is preserved across the decomposition
type Writer struct {
	consts   *units.Constants
	world    *parallel.MPIW
	dirOut   string
	compress bool
}

// NewWriter returns a writer bound to the output directory
func NewWriter(consts *units.Constants, world *parallel.MPIW, dirOut string, compress bool) *Writer {
	return &Writer{consts: consts, world: world, dirOut: dirOut, compress: compress}
}

// FormatSuffix renders a checkpoint index as the six-digit zero-padded file suffix
func FormatSuffix(i int) string {
	return io.Sf("%06d", i)
}

// Print2D writes the snapshot data2D_<suffix>.txt: a header with the grid geometry and
// simulation time, then per-cell positions and primitives, all in physical units. The
// format round-trips through the DataReader.
func (o *Writer) Print2D(suffix string, t float64, grid *fluid.Grid) {
	path := io.Sf("%s/data2D_%s.txt", o.dirOut, suffix)
	conv := &o.consts.Conv

	o.world.Serial(func() {
		var buf bytes.Buffer
		if o.world.Rank() == 0 {
			io.Ff(&buf, "%d %d %d %d %.9e %.9e\n", grid.Nd,
				grid.Ncells[0], grid.Ncells[1], grid.Ncells[2],
				conv.FromCodeUnits(float64(grid.Ncells[0])*grid.Dx[0], 0, 1, 0),
				conv.FromCodeUnits(t, 0, 0, 1))
		}
		for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
			c := grid.Cell(id)
			for d := 0; d < grid.Nd; d++ {
				io.Ff(&buf, "%.9e ", conv.FromCodeUnits(c.XC[d]*grid.Dx[d], 0, 1, 0))
			}
			io.Ff(&buf, "%.9e %.9e %.9e",
				conv.FromCodeUnits(c.Q[fluid.DEN], 1, -3, 0),
				conv.FromCodeUnits(c.Q[fluid.PRE], 1, -1, -2),
				c.Q[fluid.HII])
			for d := 0; d < grid.Nd; d++ {
				io.Ff(&buf, " %.9e", conv.FromCodeUnits(c.Q[fluid.VEL0+d], 0, 1, -1))
			}
			io.Ff(&buf, "\n")
		}
		o.writePart(path, &buf)
	})

	if o.compress {
		o.compressFile(path)
	}
}

// PrintHeating writes the per-mechanism heating/cooling snapshot heating_<suffix>.txt
func (o *Writer) PrintHeating(suffix string, t float64, grid *fluid.Grid) {
	path := io.Sf("%s/heating_%s.txt", o.dirOut, suffix)
	conv := &o.consts.Conv

	o.world.Serial(func() {
		var buf bytes.Buffer
		if o.world.Rank() == 0 {
			io.Ff(&buf, "%d %.9e\n", grid.Nd, conv.FromCodeUnits(t, 0, 0, 1))
		}
		for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
			c := grid.Cell(id)
			for d := 0; d < grid.Nd; d++ {
				io.Ff(&buf, "%.9e ", conv.FromCodeUnits(c.XC[d]*grid.Dx[d], 0, 1, 0))
			}
			for n := 0; n < fluid.NH; n++ {
				io.Ff(&buf, " %.9e", conv.FromCodeUnits(c.H[n], 1, -1, -3))
			}
			io.Ff(&buf, "\n")
		}
		o.writePart(path, &buf)
	})

	if o.compress {
		o.compressFile(path)
	}
}

// ReduceToPrint logs the time step chosen for the current simulation time on rank 0
func (o *Writer) ReduceToPrint(t, dt float64) {
	if o.world.Rank() == 0 {
		io.Pfgrey("t = %.6e, dt = %.6e\n", t, dt)
	}
}

// writePart appends this rank's rows: rank 0 truncates, the others append
func (o *Writer) writePart(path string, buf *bytes.Buffer) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if o.world.Rank() == 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		chk.Panic("out: cannot open output file %q: %v", path, err)
	}
	defer f.Close()
	_, err = f.Write(buf.Bytes())
	if err != nil {
		chk.Panic("out: cannot write output file %q: %v", path, err)
	}
}

// compressFile replaces path with a zstd-compressed copy at path+".zst" on rank 0
func (o *Writer) compressFile(path string) {
	o.world.Barrier()
	if o.world.Rank() != 0 {
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		chk.Panic("out: cannot reread %q for compression: %v", path, err)
	}
	buf, err := zstd.CompressLevel(nil, b, 1)
	if err != nil {
		chk.Panic("out: cannot compress %q: %v", path, err)
	}
	err = os.WriteFile(path+".zst", buf, 0644)
	if err != nil {
		chk.Panic("out: cannot write %q: %v", path+".zst", err)
	}
	os.Remove(path)
}
