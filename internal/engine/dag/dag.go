// Package dag implements the bipartite game DAG: Adversary and Algorithm
// vertices addressed by stable integer ids in an arena, with a free-list of
// tombstoned ids reused on the next allocation — the Design Notes'
// "prefer arena allocation... arena owns the objects and supports O(1)
// deletion via tombstoning or free-list reuse" in place of the original's
// intrusive-iterator, shared-owning-pointer edge model.
package dag

import (
	"fmt"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
)

// EdgeKind distinguishes the two directions an edge can run.
type EdgeKind int

const (
	AdvToAlg EdgeKind = iota // label = item size offered
	AlgToAdv                 // label = bin index chosen
)

// Edge is an arena-owned directed edge between one adversary and one
// algorithm vertex.
type Edge struct {
	ID         int
	Kind       EdgeKind
	From, To   int // vertex ids, interpreted per Kind
	Label      int
	tombstoned bool
}

// AdvVertex is one adversary-to-move position.
type AdvVertex struct {
	ID        int
	BC        *binconf.BinConf
	Hash      uint64 // hash_with_last
	Win       engine.Victory
	State     engine.VertexState
	Task      bool
	Sapling   bool
	Heuristic engine.Heuristic
	Leaf      engine.LeafKind
	OutEdges  []int // edge ids, one per offered item
	InEdges   []int

	visitedA, visitedB bool
	tombstoned         bool
}

// AlgVertex is one algorithm-to-move position (an item has just been
// announced; NextItem names it).
type AlgVertex struct {
	ID       int
	BC       *binconf.BinConf
	NextItem int
	Hash     uint64 // alg hash
	Win      engine.Victory
	State    engine.VertexState
	OutEdges []int // edge ids, one per chosen bin
	InEdges  []int

	visitedA, visitedB bool
	tombstoned         bool
}

// DAG owns every vertex and edge in the arena and indexes adversary and
// algorithm vertices by their hashes to prevent duplicate insertion.
type DAG struct {
	Adv   []*AdvVertex
	Alg   []*AlgVertex
	Edges []*Edge

	advFree   []int
	algFree   []int
	edgeFree  []int
	advIndex  map[uint64]int
	algIndex  map[uint64]int
	Root      int
	hasRoot   bool
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{
		advIndex: make(map[uint64]int),
		algIndex: make(map[uint64]int),
	}
}

func (d *DAG) allocAdv() int {
	if n := len(d.advFree); n > 0 {
		id := d.advFree[n-1]
		d.advFree = d.advFree[:n-1]
		return id
	}
	d.Adv = append(d.Adv, nil)
	return len(d.Adv) - 1
}

func (d *DAG) allocAlg() int {
	if n := len(d.algFree); n > 0 {
		id := d.algFree[n-1]
		d.algFree = d.algFree[:n-1]
		return id
	}
	d.Alg = append(d.Alg, nil)
	return len(d.Alg) - 1
}

func (d *DAG) allocEdge() int {
	if n := len(d.edgeFree); n > 0 {
		id := d.edgeFree[n-1]
		d.edgeFree = d.edgeFree[:n-1]
		return id
	}
	d.Edges = append(d.Edges, nil)
	return len(d.Edges) - 1
}

// AddAdv inserts an adversary vertex keyed by hash, unless allowDuplicates
// is set. Returns the existing id and found=true if hash already present.
func (d *DAG) AddAdv(bc *binconf.BinConf, hash uint64, allowDuplicates bool) (id int, found bool) {
	if !allowDuplicates {
		if existing, ok := d.advIndex[hash]; ok {
			return existing, true
		}
	}
	id = d.allocAdv()
	d.Adv[id] = &AdvVertex{ID: id, BC: bc, Hash: hash, Win: engine.Uncertain, State: engine.StateFresh}
	if !allowDuplicates {
		d.advIndex[hash] = id
	}
	return id, false
}

// AddAlg inserts an algorithm vertex keyed by hash.
func (d *DAG) AddAlg(bc *binconf.BinConf, nextItem int, hash uint64, allowDuplicates bool) (id int, found bool) {
	if !allowDuplicates {
		if existing, ok := d.algIndex[hash]; ok {
			return existing, true
		}
	}
	id = d.allocAlg()
	d.Alg[id] = &AlgVertex{ID: id, BC: bc, NextItem: nextItem, Hash: hash, Win: engine.Uncertain, State: engine.StateFresh}
	if !allowDuplicates {
		d.algIndex[hash] = id
	}
	return id, false
}

// AddRoot inserts (or finds) the root adversary vertex and records it.
func (d *DAG) AddRoot(bc *binconf.BinConf, hash uint64) int {
	id, _ := d.AddAdv(bc, hash, false)
	d.Root = id
	d.hasRoot = true
	d.Adv[id].Sapling = true
	return id
}

// AddAdvOutEdge connects an adversary vertex to an algorithm vertex,
// labeled by the offered item.
func (d *DAG) AddAdvOutEdge(advID, item, algID int) int {
	id := d.allocEdge()
	e := &Edge{ID: id, Kind: AdvToAlg, From: advID, To: algID, Label: item}
	d.Edges[id] = e
	d.Adv[advID].OutEdges = append(d.Adv[advID].OutEdges, id)
	d.Alg[algID].InEdges = append(d.Alg[algID].InEdges, id)
	return id
}

// AddAlgOutEdge connects an algorithm vertex to an adversary vertex,
// labeled by the chosen bin.
func (d *DAG) AddAlgOutEdge(algID, bin, advID int) int {
	id := d.allocEdge()
	e := &Edge{ID: id, Kind: AlgToAdv, From: algID, To: advID, Label: bin}
	d.Edges[id] = e
	d.Alg[algID].OutEdges = append(d.Alg[algID].OutEdges, id)
	d.Adv[advID].InEdges = append(d.Adv[advID].InEdges, id)
	return id
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// RemoveEdge tombstones e and removes it from both endpoints' adjacency
// lists, without touching the (now possibly unreachable) target vertex.
func (d *DAG) RemoveEdge(edgeID int) {
	e := d.Edges[edgeID]
	if e == nil || e.tombstoned {
		return
	}
	e.tombstoned = true
	switch e.Kind {
	case AdvToAlg:
		d.Adv[e.From].OutEdges = removeID(d.Adv[e.From].OutEdges, edgeID)
		d.Alg[e.To].InEdges = removeID(d.Alg[e.To].InEdges, edgeID)
	case AlgToAdv:
		d.Alg[e.From].OutEdges = removeID(d.Alg[e.From].OutEdges, edgeID)
		d.Adv[e.To].InEdges = removeID(d.Adv[e.To].InEdges, edgeID)
	}
	d.Edges[edgeID] = nil
	d.edgeFree = append(d.edgeFree, edgeID)
}

// RemoveInEdge removes one in-edge of a vertex; if mode is ModeUpdating and
// the target ends up with in-degree zero, its subtree is deleted too
// (cascading tombstoning), and any outstanding task it carried is signalled
// pruned via onPrune, if non-nil.
func (d *DAG) RemoveInEdge(edgeID int, mode engine.MinimaxMode, onPrune func(advID int)) {
	e := d.Edges[edgeID]
	if e == nil {
		return
	}
	var targetIsAdv bool
	var targetID int
	switch e.Kind {
	case AdvToAlg:
		targetIsAdv, targetID = false, e.To
	case AlgToAdv:
		targetIsAdv, targetID = true, e.To
	}
	d.RemoveEdge(edgeID)

	if mode != engine.ModeUpdating {
		return
	}
	if targetIsAdv {
		v := d.Adv[targetID]
		if v != nil && len(v.InEdges) == 0 && targetID != d.Root {
			d.deleteAdvSubtree(targetID, onPrune)
		}
	} else {
		v := d.Alg[targetID]
		if v != nil && len(v.InEdges) == 0 {
			d.deleteAlgSubtree(targetID, onPrune)
		}
	}
}

func (d *DAG) deleteAdvSubtree(id int, onPrune func(int)) {
	v := d.Adv[id]
	if v == nil || v.tombstoned {
		return
	}
	if v.Task && onPrune != nil {
		onPrune(id)
	}
	for _, eid := range append([]int(nil), v.OutEdges...) {
		e := d.Edges[eid]
		if e == nil {
			continue
		}
		to := e.To
		d.RemoveEdge(eid)
		if child := d.Alg[to]; child != nil && len(child.InEdges) == 0 {
			d.deleteAlgSubtree(to, onPrune)
		}
	}
	v.tombstoned = true
	d.Adv[id] = nil
	d.advFree = append(d.advFree, id)
}

func (d *DAG) deleteAlgSubtree(id int, onPrune func(int)) {
	v := d.Alg[id]
	if v == nil || v.tombstoned {
		return
	}
	for _, eid := range append([]int(nil), v.OutEdges...) {
		e := d.Edges[eid]
		if e == nil {
			continue
		}
		to := e.To
		d.RemoveEdge(eid)
		if child := d.Adv[to]; child != nil && len(child.InEdges) == 0 && to != d.Root {
			d.deleteAdvSubtree(to, onPrune)
		}
	}
	v.tombstoned = true
	d.Alg[id] = nil
	d.algFree = append(d.algFree, id)
}

// CollapseAdvToWinningChild removes every out-edge of advID except keepEdge
// — used when the adversary vertex is decided and all but the winning move
// are irrelevant.
func (d *DAG) CollapseAdvToWinningChild(advID, keepEdge int, mode engine.MinimaxMode, onPrune func(int)) {
	v := d.Adv[advID]
	for _, eid := range append([]int(nil), v.OutEdges...) {
		if eid == keepEdge {
			continue
		}
		d.RemoveInEdge(eid, mode, onPrune)
	}
}

// CollapseAlgToWinningChild is the Algorithm-side analogue.
func (d *DAG) CollapseAlgToWinningChild(algID, keepEdge int, mode engine.MinimaxMode, onPrune func(int)) {
	v := d.Alg[algID]
	for _, eid := range append([]int(nil), v.OutEdges...) {
		if eid == keepEdge {
			continue
		}
		d.RemoveInEdge(eid, mode, onPrune)
	}
}

// ConsistencyCheck verifies: every out-edge appears in its sink's in-list
// and vice versa, every non-root vertex has in-degree >= 1, and heuristic
// annotations agree with the leaf kind.
func (d *DAG) ConsistencyCheck() error {
	hasEdge := func(ids []int, id int) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}

	for _, v := range d.Adv {
		if v == nil {
			continue
		}
		if v.ID != d.Root && len(v.InEdges) == 0 {
			return fmt.Errorf("adv vertex %d: non-root with in-degree 0", v.ID)
		}
		if (v.Heuristic != engine.NoHeuristic) != (v.Leaf == engine.HeuristicalLeaf) {
			return fmt.Errorf("adv vertex %d: heuristic/leaf-kind mismatch", v.ID)
		}
		for _, eid := range v.OutEdges {
			e := d.Edges[eid]
			if e == nil {
				return fmt.Errorf("adv vertex %d: dangling out-edge %d", v.ID, eid)
			}
			sink := d.Alg[e.To]
			if sink == nil || !hasEdge(sink.InEdges, eid) {
				return fmt.Errorf("edge %d: missing from sink %d in-list", eid, e.To)
			}
		}
	}
	for _, v := range d.Alg {
		if v == nil {
			continue
		}
		if len(v.InEdges) == 0 {
			return fmt.Errorf("alg vertex %d: in-degree 0", v.ID)
		}
		for _, eid := range v.OutEdges {
			e := d.Edges[eid]
			if e == nil {
				return fmt.Errorf("alg vertex %d: dangling out-edge %d", v.ID, eid)
			}
			sink := d.Adv[e.To]
			if sink == nil || !hasEdge(sink.InEdges, eid) {
				return fmt.Errorf("edge %d: missing from sink %d in-list", eid, e.To)
			}
		}
	}
	return nil
}
