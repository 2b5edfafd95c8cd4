package dag

// AdvVisitor and AlgVisitor are the two callbacks a DFS/BFS traversal
// invokes, one per vertex kind, matching "DFS helpers accept two visitors
// (one per vertex kind)".
type AdvVisitor func(v *AdvVertex)
type AlgVisitor func(v *AlgVertex)

// clearVisited resets one visited flag (the secondary one if secondary is
// set, else the primary one) on every live vertex so a fresh traversal can
// begin; the other flag is left alone so one DFS may invoke another nested
// inside it.
func (d *DAG) clearVisited(secondary bool) {
	for _, v := range d.Adv {
		if v == nil {
			continue
		}
		if secondary {
			v.visitedB = false
		} else {
			v.visitedA = false
		}
	}
	for _, v := range d.Alg {
		if v == nil {
			continue
		}
		if secondary {
			v.visitedB = false
		} else {
			v.visitedA = false
		}
	}
}

// DFS walks the DAG from the root in depth-first order, invoking advFn and
// algFn on first visit to each vertex kind. secondary selects the
// secondary visited flag, for a DFS nested inside another.
func (d *DAG) DFS(advFn AdvVisitor, algFn AlgVisitor, secondary bool) {
	d.clearVisited(secondary)
	if root := d.Adv[d.Root]; root != nil {
		d.dfsAdv(root, advFn, algFn, secondary)
	}
}

func (d *DAG) visitedAdv(v *AdvVertex, secondary bool) bool {
	if secondary {
		return v.visitedB
	}
	return v.visitedA
}

func (d *DAG) markAdv(v *AdvVertex, secondary bool) {
	if secondary {
		v.visitedB = true
	} else {
		v.visitedA = true
	}
}

func (d *DAG) visitedAlg(v *AlgVertex, secondary bool) bool {
	if secondary {
		return v.visitedB
	}
	return v.visitedA
}

func (d *DAG) markAlg(v *AlgVertex, secondary bool) {
	if secondary {
		v.visitedB = true
	} else {
		v.visitedA = true
	}
}

func (d *DAG) dfsAdv(v *AdvVertex, advFn AdvVisitor, algFn AlgVisitor, secondary bool) {
	if d.visitedAdv(v, secondary) {
		return
	}
	d.markAdv(v, secondary)
	if advFn != nil {
		advFn(v)
	}
	for _, eid := range v.OutEdges {
		e := d.Edges[eid]
		if e == nil {
			continue
		}
		if child := d.Alg[e.To]; child != nil {
			d.dfsAlg(child, advFn, algFn, secondary)
		}
	}
}

func (d *DAG) dfsAlg(v *AlgVertex, advFn AdvVisitor, algFn AlgVisitor, secondary bool) {
	if d.visitedAlg(v, secondary) {
		return
	}
	d.markAlg(v, secondary)
	if algFn != nil {
		algFn(v)
	}
	for _, eid := range v.OutEdges {
		e := d.Edges[eid]
		if e == nil {
			continue
		}
		if child := d.Adv[e.To]; child != nil {
			d.dfsAdv(child, advFn, algFn, secondary)
		}
	}
}

// Layer is one BFS layer: the adversary and algorithm vertices discovered
// at that distance from the root, used by DOT emission.
type Layer struct {
	Adv []*AdvVertex
	Alg []*AlgVertex
}

// BFSLayers returns the DAG's vertices grouped layer-by-layer from the
// root, alternating adversary and algorithm vertices.
func (d *DAG) BFSLayers() []Layer {
	d.clearVisited(false)
	root := d.Adv[d.Root]
	if root == nil {
		return nil
	}
	var layers []Layer
	frontierAdv := []*AdvVertex{root}
	root.visitedA = true

	for len(frontierAdv) > 0 {
		layers = append(layers, Layer{Adv: frontierAdv})
		var nextAlg []*AlgVertex
		for _, v := range frontierAdv {
			for _, eid := range v.OutEdges {
				e := d.Edges[eid]
				if e == nil {
					continue
				}
				child := d.Alg[e.To]
				if child == nil || child.visitedA {
					continue
				}
				child.visitedA = true
				nextAlg = append(nextAlg, child)
			}
		}
		if len(nextAlg) == 0 {
			break
		}
		layers = append(layers, Layer{Alg: nextAlg})

		var nextAdv []*AdvVertex
		for _, v := range nextAlg {
			for _, eid := range v.OutEdges {
				e := d.Edges[eid]
				if e == nil {
					continue
				}
				child := d.Adv[e.To]
				if child == nil || child.visitedA {
					continue
				}
				child.visitedA = true
				nextAdv = append(nextAdv, child)
			}
		}
		frontierAdv = nextAdv
	}
	return layers
}
