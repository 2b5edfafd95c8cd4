// Package dotgraph renders the game DAG to Graphviz DOT, per spec §6's
// "DOT output", for visual inspection of a completed or in-progress
// search — never consumed by the engine itself.
package dotgraph

import (
	"fmt"
	"io"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/dag"
	"github.com/bohm/binstretch-search/internal/textformat"
)

func advNodeID(id int) string { return fmt.Sprintf("adv%d", id) }
func algNodeID(id int) string { return fmt.Sprintf("alg%d", id) }

func advLabel(v *dag.AdvVertex) string {
	return fmt.Sprintf("%s\\n%s", textformat.FormatBinConf(v.BC), v.Win)
}

func algLabel(v *dag.AlgVertex) string {
	return fmt.Sprintf("%s\\nsend %d\\n%s", textformat.FormatBinConf(v.BC), v.NextItem, v.Win)
}

func advColor(v *dag.AdvVertex) string {
	switch {
	case v.Win == engine.AdvWins:
		return "lightcoral"
	case v.Win == engine.AlgWins:
		return "lightgreen"
	case v.Task:
		return "lightyellow"
	default:
		return "white"
	}
}

func algColor(v *dag.AlgVertex) string {
	switch v.Win {
	case engine.AdvWins:
		return "lightcoral"
	case engine.AlgWins:
		return "lightgreen"
	default:
		return "white"
	}
}

// Write renders d's full reachable graph as DOT, grouping vertices into
// BFS layers via d.BFSLayers so Graphviz's rank separation roughly tracks
// game depth. One adversary box per AdvVertex, one (rounded) box per
// AlgVertex, edges labeled with the offered item size or chosen bin index.
func Write(w io.Writer, d *dag.DAG) error {
	bw := &errWriter{w: w}

	bw.Printf("digraph binstretch {\n")
	bw.Printf("  rankdir=TB;\n  node [shape=box, style=filled, fontsize=10];\n\n")

	for _, layer := range d.BFSLayers() {
		bw.Printf("  { rank=same;\n")
		for _, v := range layer.Adv {
			bw.Printf("    %s [label=%q, fillcolor=%q];\n", advNodeID(v.ID), advLabel(v), advColor(v))
		}
		for _, v := range layer.Alg {
			bw.Printf("    %s [label=%q, fillcolor=%q, shape=ellipse];\n", algNodeID(v.ID), algLabel(v), algColor(v))
		}
		bw.Printf("  }\n")
	}
	bw.Printf("\n")

	for _, e := range d.Edges {
		if e == nil {
			continue
		}
		switch e.Kind {
		case dag.AdvToAlg:
			bw.Printf("  %s -> %s [label=%q];\n", advNodeID(e.From), algNodeID(e.To), fmt.Sprintf("item %d", e.Label))
		case dag.AlgToAdv:
			bw.Printf("  %s -> %s [label=%q];\n", algNodeID(e.From), advNodeID(e.To), fmt.Sprintf("bin %d", e.Label))
		}
	}

	bw.Printf("}\n")
	return bw.err
}

// errWriter lets Write read as a flat sequence of Printf calls instead of
// threading an error check through every line; the first write error is
// latched and every subsequent Printf becomes a no-op.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
