package dag

// Clone copies the DAG reachable from the root into a fresh arena. When
// preserveSharing is true, vertices are re-inserted through the hash index
// so that shared sub-DAGs stay shared (a "DAG clone"); when false, every
// reachable vertex is inserted without the hash check, so vertices whose
// hashes collide are not merged. In both modes the DFS copies each
// original vertex exactly once, so a vertex reached along several paths
// is still a single shared vertex in the copy; shared sub-DAGs are not
// unfolded into a tree.
func (d *DAG) Clone(preserveSharing bool) *DAG {
	out := New()
	advMap := make(map[int]int) // old adv id -> new adv id
	algMap := make(map[int]int)

	d.DFS(func(v *AdvVertex) {
		newID, _ := out.AddAdv(v.BC.Clone(), v.Hash, !preserveSharing)
		nv := out.Adv[newID]
		nv.Win, nv.State, nv.Task, nv.Sapling, nv.Heuristic, nv.Leaf = v.Win, v.State, v.Task, v.Sapling, v.Heuristic, v.Leaf
		advMap[v.ID] = newID
		if v.ID == d.Root {
			out.Root = newID
			out.hasRoot = true
		}
	}, func(v *AlgVertex) {
		newID, _ := out.AddAlg(v.BC.Clone(), v.NextItem, v.Hash, !preserveSharing)
		nv := out.Alg[newID]
		nv.Win, nv.State = v.Win, v.State
		algMap[v.ID] = newID
	}, true)

	for _, v := range d.Adv {
		if v == nil {
			continue
		}
		newFrom, ok := advMap[v.ID]
		if !ok {
			continue
		}
		for _, eid := range v.OutEdges {
			e := d.Edges[eid]
			if e == nil {
				continue
			}
			if newTo, ok := algMap[e.To]; ok {
				out.AddAdvOutEdge(newFrom, e.Label, newTo)
			}
		}
	}
	for _, v := range d.Alg {
		if v == nil {
			continue
		}
		newFrom, ok := algMap[v.ID]
		if !ok {
			continue
		}
		for _, eid := range v.OutEdges {
			e := d.Edges[eid]
			if e == nil {
				continue
			}
			if newTo, ok := advMap[e.To]; ok {
				out.AddAlgOutEdge(newFrom, e.Label, newTo)
			}
		}
	}

	return out
}
