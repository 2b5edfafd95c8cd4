package minibs

import (
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
)

// Minibs is the built precomputation: the known-sum layer plus one layer
// per quantised item configuration, ready to be queried by the adversary
// step as a cheap substitute for full exploration.
type Minibs struct {
	Tables   *binconf.Tables
	QT       *QuantTables
	KnownSum *cache.KnownSumCache
	Configs  []ItemConfig
	Layers   []*Layer

	byConfigHash map[uint64]*Layer
}

// Build runs the full precomputation for denominator D: the known-sum
// layer first (spec §4.5's special case C = empty), then the general
// layered fixed point over every feasible quantised configuration.
func Build(t *binconf.Tables, d int) *Minibs {
	qt := NewQuantTables(d, t.Bins*t.S+2)

	ks := cache.NewKnownSumCache(16)
	BuildKnownSum(t, ks)

	dpc := cache.NewDPCache(16)
	configs := EnumerateConfigs(t, qt)
	layers := BuildLayers(t, qt, configs, ks, dpc)

	m := &Minibs{Tables: t, QT: qt, KnownSum: ks, Configs: configs, Layers: layers, byConfigHash: make(map[uint64]*Layer, len(layers))}
	for _, l := range layers {
		m.byConfigHash[l.Config.Hash] = l
	}
	return m
}

// Query reports whether the algorithm wins from (loads, realItems): first
// via the matching layer for the quantised configuration, falling back to
// the known-sum layer on a miss — spec §4.5's "queried whenever the
// minibs query fails". The converse never holds (a "false" here doesn't
// prove the adversary wins; it only means this approximation has nothing
// to say), matching property 7's one-directional soundness.
func (m *Minibs) Query(loads []int, quantConfig ItemConfig) bool {
	h := loadHash(m.Tables, loads)
	if layer, ok := m.byConfigHash[quantConfig.Hash]; ok && layer.contains(h) {
		return true
	}
	return m.KnownSum.Contains(h)
}

// Quantize converts a real binconf.ItemConf into the quantised
// configuration Query expects.
func (m *Minibs) Quantize(items binconf.ItemConf) ItemConfig {
	out := NewItemConfig(m.QT.D)
	for size, cnt := range items.Counts {
		for k := 0; k < cnt; k++ {
			out.Counts[Shrink(size, m.QT.D, m.Tables.S)]++
		}
	}
	out.rehash(m.QT)
	return out
}
