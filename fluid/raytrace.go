// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"github.com/ridoncules/Torch/parallel"
)

// RayTrace performs the causal column-density sweep from the radiation source across the
// slab, exchanging partition-boundary columns with the neighbouring ranks in source order:
// a rank whose star lies on the LEFT or RIGHT neighbour first receives that neighbour's
// boundary columns, then sweeps its own cells in causal order, then forwards its
// up-stream boundary columns to the peers further from the source. Each cell contributes
// the full hydrogen column DEN/m_H * ds.
func RayTrace(f *Fluid) {
	rayTrace(f, 0, false)
}

// RayTraceNeutral performs the same sweep over the neutral-hydrogen column: each cell
// contributes massFractionH*(1-HII)*nH*ds, and the source shell is transparent. Used by
// the radiation integrator, for which only un-ionised hydrogen absorbs.
func RayTraceNeutral(f *Fluid, massFractionH float64) {
	rayTrace(f, massFractionH, true)
}

func rayTrace(f *Fluid, massFractionH float64, neutralOnly bool) {
	grid := f.Grid
	star := &f.Star
	world := grid.World
	partition := grid.Partition
	partition.ResetBuffer()

	if star.Core != Here && world.Distributed() {
		src := world.Rank() + 1
		ring := OrdRightPartition
		if star.Core == Left {
			src = world.Rank() - 1
			ring = OrdLeftPartition
		}
		partition.RecvData(src, parallel.ThermoMsg)
		for _, id := range grid.OrderedIndices(ring) {
			ghost := grid.Cell(id)
			ghost.T[ColDen] = partition.GetRecvItem()
			ghost.T[DColDen] = partition.GetRecvItem()
		}
	}

	for _, name := range []string{OrdCausalWind, OrdCausalNonWind} {
		for _, id := range grid.OrderedIndices(name) {
			c := grid.Cell(id)
			dist2 := 0.0
			for d := 0; d < grid.Nd; d++ {
				dd := c.XC[d] - star.XC[d]
				dist2 += dd * dd
			}
			updateColDen(c, f, dist2, massFractionH, neutralOnly)
		}
	}

	if !world.Distributed() {
		return
	}
	// forward columns to the processor on the left
	if world.Rank() != 0 && star.Core != Left {
		for _, id := range grid.OrderedIndices(OrdLeftPartition) {
			cell := grid.Cell(grid.Right(0, id))
			partition.AddSendItem(cell.T[ColDen])
			partition.AddSendItem(cell.T[DColDen])
		}
		partition.SendData(world.Rank()-1, parallel.ThermoMsg)
	}
	// forward columns to the processor on the right
	if world.Rank() != world.NProc()-1 && star.Core != Right {
		for _, id := range grid.OrderedIndices(OrdRightPartition) {
			cell := grid.Cell(grid.Left(0, id))
			partition.AddSendItem(cell.T[ColDen])
			partition.AddSendItem(cell.T[DColDen])
		}
		partition.SendData(world.Rank()+1, parallel.ThermoMsg)
	}
}

// updateColDen interpolates the column density to the source from the upwind neighbours
// (Raga weights over their accumulated columns) and refreshes this cell's own column.
// Cells within the source shell (dist2 <= 0.95^2 grid cells) see no column.
func updateColDen(c *GridCell, f *Fluid, dist2, massFractionH float64, neutralOnly bool) {
	grid := f.Grid
	nH := c.Q[DEN] / f.Consts.HydrogenMass
	if neutralOnly {
		nH *= massFractionH * (1 - c.Q[HII])
	}
	if dist2 > 0.95*0.95 {
		var colden [4]float64
		var w [4]float64
		for i := 0; i < 4; i++ {
			if c.NeighbourIDs[i] != -1 {
				n := grid.Cell(c.NeighbourIDs[i])
				colden[i] = n.T[ColDen] + n.T[DColDen]
			}
			if colden[i] != 0 {
				w[i] = c.NeighbourWeights[i] / colden[i]
			}
		}
		sumw := w[0] + w[1] + w[2] + w[3]

		newcolden := 0.0
		for i := 0; i < 4 && sumw != 0; i++ {
			w[i] = w[i] / sumw
			newcolden += w[i] * colden[i]
		}
		c.T[ColDen] = newcolden
	} else {
		c.T[ColDen] = 0
		if neutralOnly {
			nH = 0 // the source shell is transparent
		}
	}
	c.T[DColDen] = nH * c.DS
}
