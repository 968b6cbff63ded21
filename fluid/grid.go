// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/ridoncules/Torch/parallel"
)

// Names of the cell orderings owned by the grid
const (
	OrdGridCells      = "GridCells"           // all live cells, index order
	OrdCausalWind     = "CausalWind"          // wind-injection cells, causal order from the star
	OrdCausalNonWind  = "CausalNonWind"       // all other cells, causal order from the star
	OrdLeftPartition  = "LeftPartitionCells"  // innermost ghost ring on the low-index boundary
	OrdRightPartition = "RightPartitionCells" // innermost ghost ring on the high-index boundary
)

// Grid is an axis-aligned box of cells with uniform spacing, decomposed into contiguous
// slabs along axis 0, one per rank. The cell store holds the live cells first, then the
// left ghost layers, then the right ghost layers; orderings and neighbour stencils index
// into this store.
type Grid struct {

	// geometry
	Nd     int        // number of dimensions
	Ncells [3]int     // global cell counts
	Dx     [3]float64 // uniform cell spacing [code units]

	// time
	CurrentTime float64
	Deltatime   float64

	// decomposition
	Start  int // first owned global index along axis 0
	End    int // one past the last owned global index
	Nghost int // ghost layers on each partition/domain boundary

	// parallel services
	World     *parallel.MPIW
	Partition *parallel.PartitionManager

	// cell store and orderings
	cells     []GridCell
	nlive     int
	nring     int // cells per ghost layer (ncells[1]*ncells[2])
	orderings map[string][]int

	// external boundary conditions on axis 0 ("free" or "reflecting")
	LeftBc, RightBc string
}

// NewGrid builds the slab of the global grid owned by this rank, including ghost layers.
func NewGrid(nd int, ncells [3]int, sideLength float64, nghost int, world *parallel.MPIW) (o *Grid) {
	if nd < 1 || nd > 3 {
		chk.Panic("grid: invalid number of dimensions: %d", nd)
	}
	for d := nd; d < 3; d++ {
		ncells[d] = 1
	}
	o = new(Grid)
	o.Nd = nd
	o.Ncells = ncells
	dx := sideLength / float64(ncells[0])
	o.Dx = [3]float64{dx, dx, dx}
	o.Nghost = nghost
	o.World = world
	o.Partition = parallel.NewPartitionManager(world)
	o.LeftBc, o.RightBc = "free", "free"

	// owned slab
	o.Start = world.Rank() * ncells[0] / world.NProc()
	o.End = (world.Rank() + 1) * ncells[0] / world.NProc()
	if o.End <= o.Start {
		chk.Panic("grid: rank %d owns no cells (ncells[0]=%d, nproc=%d)", world.Rank(), ncells[0], world.NProc())
	}

	nx := o.End - o.Start
	o.nring = ncells[1] * ncells[2]
	o.nlive = nx * o.nring
	o.cells = make([]GridCell, o.nlive+2*nghost*o.nring)

	// live cells
	for di := 0; di < nx; di++ {
		for j := 0; j < ncells[1]; j++ {
			for k := 0; k < ncells[2]; k++ {
				id := (di*ncells[1]+j)*ncells[2] + k
				o.initCell(id, o.Start+di, j, k)
			}
		}
	}

	// ghost layers: left (g=0 innermost, at i=Start-1-g), then right (at i=End+g)
	for g := 0; g < nghost; g++ {
		for j := 0; j < ncells[1]; j++ {
			for k := 0; k < ncells[2]; k++ {
				id := o.nlive + (g*ncells[1]+j)*ncells[2] + k
				o.initCell(id, o.Start-1-g, j, k)
				id = o.nlive + nghost*o.nring + (g*ncells[1]+j)*ncells[2] + k
				o.initCell(id, o.End+g, j, k)
			}
		}
	}

	o.orderings = make(map[string][]int)
	o.buildFixedOrderings()
	return
}

func (o *Grid) initCell(id, i, j, k int) {
	c := &o.cells[id]
	c.ID = id
	c.I, c.J, c.K = i, j, k
	c.XC = [3]float64{float64(i), float64(j), float64(k)}
	c.DS = o.Dx[0]
	for n := 0; n < 4; n++ {
		c.NeighbourIDs[n] = -1
	}
}

// Cell returns the cell with the given store index
func (o *Grid) Cell(id int) *GridCell { return &o.cells[id] }

// NLiveCells returns the number of live (non-ghost) cells in this slab
func (o *Grid) NLiveCells() int { return o.nlive }

// NCellsInRing returns the number of cells in one ghost layer
func (o *Grid) NCellsInRing() int { return o.nring }

// OrderedIndices returns the named cell ordering
func (o *Grid) OrderedIndices(name string) []int {
	ord, ok := o.orderings[name]
	if !ok {
		chk.Panic("grid: unknown cell ordering %q", name)
	}
	return ord
}

// Locate returns the store index of the live cell with global position (i,j,k), or -1 if
// the cell is not owned by this rank.
func (o *Grid) Locate(i, j, k int) int {
	if i < o.Start || i >= o.End || j < 0 || j >= o.Ncells[1] || k < 0 || k >= o.Ncells[2] {
		return -1
	}
	return ((i-o.Start)*o.Ncells[1]+j)*o.Ncells[2] + k
}

// locateAny resolves a global position to a store index, including ghost layers along
// axis 0. Lateral out-of-range positions return -1.
func (o *Grid) locateAny(i, j, k int) int {
	if j < 0 || j >= o.Ncells[1] || k < 0 || k >= o.Ncells[2] {
		return -1
	}
	if i >= o.Start && i < o.End {
		return o.Locate(i, j, k)
	}
	if i < o.Start && i >= o.Start-o.Nghost {
		g := o.Start - 1 - i
		return o.nlive + (g*o.Ncells[1]+j)*o.Ncells[2] + k
	}
	if i >= o.End && i < o.End+o.Nghost {
		g := i - o.End
		return o.nlive + o.Nghost*o.nring + (g*o.Ncells[1]+j)*o.Ncells[2] + k
	}
	return -1
}

// Left returns the store index of the neighbour of cell id one step down along dim, or -1
func (o *Grid) Left(dim, id int) int {
	c := &o.cells[id]
	switch dim {
	case 0:
		return o.locateAny(c.I-1, c.J, c.K)
	case 1:
		return o.locateAny(c.I, c.J-1, c.K)
	}
	return o.locateAny(c.I, c.J, c.K-1)
}

// Right returns the store index of the neighbour of cell id one step up along dim, or -1
func (o *Grid) Right(dim, id int) int {
	c := &o.cells[id]
	switch dim {
	case 0:
		return o.locateAny(c.I+1, c.J, c.K)
	case 1:
		return o.locateAny(c.I, c.J+1, c.K)
	}
	return o.locateAny(c.I, c.J, c.K+1)
}

func (o *Grid) buildFixedOrderings() {
	all := make([]int, o.nlive)
	for i := range all {
		all[i] = i
	}
	o.orderings[OrdGridCells] = all

	// innermost ghost rings, natural order
	left := make([]int, 0, o.nring)
	right := make([]int, 0, o.nring)
	for j := 0; j < o.Ncells[1]; j++ {
		for k := 0; k < o.Ncells[2]; k++ {
			left = append(left, o.nlive+j*o.Ncells[2]+k)
			right = append(right, o.nlive+o.Nghost*o.nring+j*o.Ncells[2]+k)
		}
	}
	o.orderings[OrdLeftPartition] = left
	o.orderings[OrdRightPartition] = right

	// without a source every cell is "non-wind" and index order is causal enough
	o.orderings[OrdCausalWind] = []int{}
	o.orderings[OrdCausalNonWind] = all
}

// BuildCausalOrderings constructs the CausalWind/CausalNonWind orderings and the Raga
// upwind stencil for rays from the star. Called once at initialisation; the per-step ray
// trace is then a linear scan.
func (o *Grid) BuildCausalOrderings(star *Star) {
	if !star.On {
		return
	}

	// causal order: upwind neighbours always have strictly smaller L1 distance to the
	// source, so sorting by L1 distance (index tie-break) puts every cell after them
	type distID struct {
		l1 float64
		r2 float64
		id int
	}
	ds := make([]distID, o.nlive)
	for id := 0; id < o.nlive; id++ {
		c := &o.cells[id]
		l1, r2 := 0.0, 0.0
		for d := 0; d < o.Nd; d++ {
			dd := c.XC[d] - star.XC[d]
			l1 += math.Abs(dd)
			r2 += dd * dd
		}
		ds[id] = distID{l1, r2, id}
	}
	sort.Slice(ds, func(a, b int) bool {
		if ds[a].l1 != ds[b].l1 {
			return ds[a].l1 < ds[b].l1
		}
		return ds[a].id < ds[b].id
	})

	rwind := float64(star.WindCellRadius)
	wind := []int{}
	nonwind := make([]int, 0, o.nlive)
	for _, d := range ds {
		if d.r2 <= rwind*rwind {
			wind = append(wind, d.id)
		} else {
			nonwind = append(nonwind, d.id)
		}
	}
	o.orderings[OrdCausalWind] = wind
	o.orderings[OrdCausalNonWind] = nonwind

	// upwind stencil and path lengths for all cells, ghosts included
	for id := range o.cells {
		o.buildStencil(id, star)
	}
}

// buildStencil computes the four upwind neighbours of cell id with bilinear weights from
// the crossing point of the source ray on the upwind face (Raga method).
func (o *Grid) buildStencil(id int, star *Star) {
	c := &o.cells[id]
	var d [3]float64
	for n := 0; n < o.Nd; n++ {
		d[n] = c.XC[n] - star.XC[n]
	}

	r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
	if r2 == 0 {
		c.DS = o.Dx[0]
		return
	}

	// dominant axis
	m := 0
	for n := 1; n < o.Nd; n++ {
		if math.Abs(d[n]) > math.Abs(d[m]) {
			m = n
		}
	}
	a, b := (m+1)%3, (m+2)%3
	sm := -sign(d[m])
	sa, sb := -sign(d[a]), -sign(d[b])
	fa := math.Abs(d[a]) / math.Abs(d[m])
	fb := math.Abs(d[b]) / math.Abs(d[m])

	// path length of the ray segment crossing this cell
	c.DS = o.Dx[0] * math.Sqrt(r2) / math.Abs(d[m])

	var step [3]int
	add := func(slot int, w float64, da, db int) {
		step[m], step[a], step[b] = sm, da*sa, db*sb
		nid := o.locateAny(c.I+step[0], c.J+step[1], c.K+step[2])
		if w > 0 && nid >= 0 {
			c.NeighbourIDs[slot] = nid
			c.NeighbourWeights[slot] = w
		} else {
			c.NeighbourIDs[slot] = -1
			c.NeighbourWeights[slot] = 0
		}
	}
	add(0, (1-fa)*(1-fb), 0, 0)
	add(1, fa*(1-fb), 1, 0)
	add(2, (1-fa)*fb, 0, 1)
	add(3, fa*fb, 1, 1)
}

func sign(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// FillExternalGhosts applies the external boundary conditions on axis 0: ghost layers
// outside the global domain mirror the edge cells ("free": zero gradient; "reflecting":
// normal velocity flipped). Partition-internal ghosts are filled by neighbour exchange.
func (o *Grid) FillExternalGhosts() {
	if o.Start == 0 {
		for g := 0; g < o.Nghost; g++ {
			for r := 0; r < o.nring; r++ {
				gid := o.nlive + g*o.nring + r
				src := r // live cells at di=0 share the ring layout
				o.copyBoundaryState(gid, src, o.LeftBc)
			}
		}
	}
	if o.End == o.Ncells[0] {
		nx := o.End - o.Start
		for g := 0; g < o.Nghost; g++ {
			for r := 0; r < o.nring; r++ {
				gid := o.nlive + o.Nghost*o.nring + g*o.nring + r
				src := (nx-1)*o.nring + r
				o.copyBoundaryState(gid, src, o.RightBc)
			}
		}
	}
}

func (o *Grid) copyBoundaryState(gid, src int, bc string) {
	g, s := &o.cells[gid], &o.cells[src]
	g.Q, g.U, g.W = s.Q, s.U, s.W
	g.HeatCapacityRatio = s.HeatCapacityRatio
	if bc == "reflecting" {
		g.Q[VEL0] = -s.Q[VEL0]
		g.U[VEL0] = -s.U[VEL0]
		g.W[VEL0] = -s.W[VEL0]
	}
}

// ExchangePartitionGhosts swaps the Nghost edge layers of the primitive and conservative
// state with the neighbouring ranks. Even ranks send first; odd ranks receive first.
func (o *Grid) ExchangePartitionGhosts() {
	if !o.World.Distributed() {
		return
	}
	rank, nproc := o.World.Rank(), o.World.NProc()
	even := rank%2 == 0

	for pass := 0; pass < 2; pass++ {
		sendPass := (pass == 0) == even
		if sendPass {
			if rank > 0 {
				o.sendEdge(rank-1, true)
			}
			if rank < nproc-1 {
				o.sendEdge(rank+1, false)
			}
		} else {
			if rank > 0 {
				o.recvEdge(rank-1, true)
			}
			if rank < nproc-1 {
				o.recvEdge(rank+1, false)
			}
		}
	}
}

// sendEdge queues the Nghost owned layers nearest the given side and sends them
func (o *Grid) sendEdge(dest int, leftSide bool) {
	o.Partition.ResetBuffer()
	nx := o.End - o.Start
	for g := 0; g < o.Nghost; g++ {
		di := g
		if !leftSide {
			di = nx - 1 - g
		}
		for r := 0; r < o.nring; r++ {
			c := &o.cells[di*o.nring+r]
			for n := 0; n < NU; n++ {
				o.Partition.AddSendItem(c.Q[n])
			}
			for n := 0; n < NU; n++ {
				o.Partition.AddSendItem(c.U[n])
			}
		}
	}
	o.Partition.SendData(dest, parallel.HydroMsg)
}

// recvEdge receives a neighbour's edge layers into this side's ghost layers
func (o *Grid) recvEdge(src int, leftSide bool) {
	o.Partition.RecvData(src, parallel.HydroMsg)
	for g := 0; g < o.Nghost; g++ {
		for r := 0; r < o.nring; r++ {
			gid := o.nlive + g*o.nring + r
			if !leftSide {
				gid += o.Nghost * o.nring
			}
			c := &o.cells[gid]
			for n := 0; n < NU; n++ {
				c.Q[n] = o.Partition.GetRecvItem()
			}
			for n := 0; n < NU; n++ {
				c.U[n] = o.Partition.GetRecvItem()
			}
		}
	}
}
