// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/fluid"
	"github.com/ridoncules/Torch/parallel"
)

// openSnapshot opens a snapshot file for scanning, transparently decompressing
// zstd-compressed snapshots written by the out package
func openSnapshot(path string) (io.Reader, func()) {
	f, err := os.Open(path)
	if err != nil {
		chk.Panic("DataReader: cannot open snapshot file %q", path)
	}
	if !strings.HasSuffix(path, ".zst") {
		return bufio.NewReader(f), func() { f.Close() }
	}
	defer f.Close()
	b, err := os.ReadFile(path)
	if err != nil {
		chk.Panic("DataReader: cannot read snapshot file %q: %v", path, err)
	}
	raw, err := zstd.Decompress(nil, b)
	if err != nil {
		chk.Panic("DataReader: cannot decompress snapshot file %q: %v", path, err)
	}
	return bytes.NewReader(raw), func() {}
}

// DataParameters holds the grid geometry read from a snapshot file header
type DataParameters struct {
	Nd         int
	Ncells     [3]int
	SideLength float64 // physical units
	Time       float64 // physical units
}

// ReadDataParameters reads the header of an initial-conditions snapshot file.
// The header is a single line: nd n0 n1 n2 sideLength time.
func ReadDataParameters(path string) (datap DataParameters) {
	r, closef := openSnapshot(path)
	defer closef()
	_, err := fmt.Fscan(r, &datap.Nd, &datap.Ncells[0], &datap.Ncells[1], &datap.Ncells[2], &datap.SideLength, &datap.Time)
	if err != nil {
		chk.Panic("DataReader: cannot parse header of %q: %v", path, err)
	}
	return
}

// ReadGrid fills the live cells of this rank's slab from a snapshot file, in rank-serial
// order. Each rank skips rank*(total cells)/nprocs rows before reading its own. Values are
// stored raw (physical units); the caller converts to code units afterwards.
func ReadGrid(path string, datap DataParameters, flu *fluid.Fluid, world *parallel.MPIW) {
	world.Serial(func() {
		r, closef := openSnapshot(path)
		defer closef()

		var hdr DataParameters
		_, err := fmt.Fscan(r, &hdr.Nd, &hdr.Ncells[0], &hdr.Ncells[1], &hdr.Ncells[2], &hdr.SideLength, &hdr.Time)
		if err != nil {
			chk.Panic("DataReader: cannot parse header of %q: %v", path, err)
		}

		ncols := datap.Nd + 3 + datap.Nd // xc, DEN, PRE, HII, VELs
		skip := world.Rank() * datap.Ncells[0] * datap.Ncells[1] * datap.Ncells[2] / world.NProc()
		var ignore float64
		for i := 0; i < skip*ncols; i++ {
			if _, err := fmt.Fscan(r, &ignore); err != nil {
				chk.Panic("DataReader: truncated file %q while skipping: %v", path, err)
			}
		}

		grid := flu.Grid
		for _, id := range grid.OrderedIndices(fluid.OrdGridCells) {
			c := grid.Cell(id)
			for d := 0; d < datap.Nd; d++ {
				if _, err := fmt.Fscan(r, &ignore); err != nil {
					chk.Panic("DataReader: truncated file %q: %v", path, err)
				}
			}
			_, err = fmt.Fscan(r, &c.Q[fluid.DEN], &c.Q[fluid.PRE], &c.Q[fluid.HII])
			if err != nil {
				chk.Panic("DataReader: truncated file %q: %v", path, err)
			}
			for d := 0; d < datap.Nd; d++ {
				if _, err := fmt.Fscan(r, &c.Q[fluid.VEL0+d]); err != nil {
					chk.Panic("DataReader: truncated file %q: %v", path, err)
				}
			}
			c.HeatCapacityRatio = flu.HeatCapacityRatio
		}
	})
}

// PatchGrid overlays a patch snapshot onto the grid at the given cell offset. Rows outside
// this rank's slab are skipped.
func PatchGrid(path string, offset [3]int, flu *fluid.Fluid, world *parallel.MPIW) {
	world.Serial(func() {
		r, closef := openSnapshot(path)
		defer closef()

		var hdr DataParameters
		_, err := fmt.Fscan(r, &hdr.Nd, &hdr.Ncells[0], &hdr.Ncells[1], &hdr.Ncells[2], &hdr.SideLength, &hdr.Time)
		if err != nil {
			chk.Panic("DataReader: cannot parse header of %q: %v", path, err)
		}

		grid := flu.Grid
		var ignore float64
		var row [fluid.NU]float64
		for i := 0; i < hdr.Ncells[0]; i++ {
			for j := 0; j < hdr.Ncells[1]; j++ {
				for k := 0; k < hdr.Ncells[2]; k++ {
					for d := 0; d < hdr.Nd; d++ {
						if _, err := fmt.Fscan(r, &ignore); err != nil {
							chk.Panic("DataReader: truncated patch file %q: %v", path, err)
						}
					}
					_, err = fmt.Fscan(r, &row[fluid.DEN], &row[fluid.PRE], &row[fluid.HII])
					if err != nil {
						chk.Panic("DataReader: truncated patch file %q: %v", path, err)
					}
					for d := 0; d < hdr.Nd; d++ {
						if _, err := fmt.Fscan(r, &row[fluid.VEL0+d]); err != nil {
							chk.Panic("DataReader: truncated patch file %q: %v", path, err)
						}
					}
					id := grid.Locate(offset[0]+i, offset[1]+j, offset[2]+k)
					if id < 0 {
						continue
					}
					c := grid.Cell(id)
					c.Q[fluid.DEN] = row[fluid.DEN]
					c.Q[fluid.PRE] = row[fluid.PRE]
					c.Q[fluid.HII] = row[fluid.HII]
					for d := 0; d < hdr.Nd; d++ {
						c.Q[fluid.VEL0+d] = row[fluid.VEL0+d]
					}
				}
			}
		}
	})
}

// StepIDFromFilename recovers the checkpoint step number from a snapshot filename: the
// digits after the last underscore, before the extension. Returns -1 when absent.
func StepIDFromFilename(filename string) int {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return -1
	}
	id, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return -1
	}
	return id
}
