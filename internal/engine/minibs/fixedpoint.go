package minibs

import (
	"context"
	"sort"
	"sync"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dp"
	"github.com/bohm/binstretch-search/pkg/parallel"
)

// Layer is one quantised item configuration's winning-set: the per-layer
// hash set variant of spec §4.5 (Open Question (c) — the general variant
// was chosen over the m=3 chain-cover specialisation; see DESIGN.md).
type Layer struct {
	Config  ItemConfig
	Winning map[uint64]struct{}
}

func newLayer(c ItemConfig) *Layer {
	return &Layer{Config: c, Winning: make(map[uint64]struct{})}
}

func (l *Layer) mark(hash uint64)      { l.Winning[hash] = struct{}{} }
func (l *Layer) contains(hash uint64) bool {
	_, ok := l.Winning[hash]
	return ok
}

// EnumerateConfigs lists every quantised item configuration whose weighted
// sum stays within (D-1)*bins and whose grown-back real sizes pass the DP
// feasibility check, sorted descending by Weight so the fixed point can
// process "most-loaded to least-loaded" by walking the slice in order.
func EnumerateConfigs(t *binconf.Tables, qt *QuantTables) []ItemConfig {
	budget := (qt.D - 1) * t.Bins
	var out []ItemConfig

	counts := make([]int, qt.D)
	var rec func(bucket, used int)
	rec = func(bucket, used int) {
		if bucket == qt.D {
			ic := ItemConfig{Counts: append([]int(nil), counts...)}
			ic.rehash(qt)
			if dp.Feasible(t, ic.RealConfig(t, qt)) {
				out = append(out, ic)
			}
			return
		}
		maxCount := qt.MaxMult
		if bucket > 0 {
			if room := (budget - used) / bucket; room < maxCount {
				maxCount = room
			}
		}
		for c := 0; c <= maxCount; c++ {
			counts[bucket] = c
			rec(bucket+1, used+bucket*c)
		}
		counts[bucket] = 0
	}
	rec(0, 0)

	sort.Slice(out, func(i, j int) bool { return out[i].Weight() > out[j].Weight() })
	return out
}

// BuildLayers runs the layered fixed point over every enumerated
// configuration (already sorted most-loaded first) and the known-sum
// layer, returning one Layer per configuration in the same order.
func BuildLayers(t *binconf.Tables, qt *QuantTables, configs []ItemConfig, ks *cache.KnownSumCache, dpc *cache.DPCache) []*Layer {
	layers := make([]*Layer, len(configs))
	byHash := make(map[uint64]*Layer, len(configs))

	tuples := loadTuples(t.Bins, t.R)
	capacity := t.Bins * t.S

	for idx, cfg := range configs {
		layer := newLayer(cfg)
		layers[idx] = layer
		byHash[cfg.Hash] = layer

		real := cfg.RealConfig(t, qt)
		maxItem, feasible := dp.MaxFeasibleItem(t, real, dpc, t.S)

		// Each tuple's decision only reads already-finished heavier layers
		// (configs processed earlier in this descending-weight pass) and
		// marks its own hash, so the tuple loop is safe to run concurrently;
		// only the shared Winning map needs a lock.
		var mu sync.Mutex
		parallel.ForEach(context.Background(), tuples, parallel.DefaultPoolConfig(), func(_ context.Context, loads []int) error {
			total := sum(loads)
			if total >= capacity {
				return nil // trivially alg-winning, not worth recording
			}
			h := loadHash(t, loads)
			if ks.Contains(h) {
				return nil // already decided at the known-sum layer
			}
			if !feasible {
				mu.Lock()
				layer.mark(h) // no item can be sent at all: algorithm wins
				mu.Unlock()
				return nil
			}

			allGood := true
			for item := 1; item <= maxItem && allGood; item++ {
				bucket := Shrink(item, qt.D, t.S)
				successor := cfg.WithBucket(qt, bucket)
				successorLayer := byHash[successor.Hash]
				if !placementWins(t, ks, successorLayer, loads, item, capacity) {
					allGood = false
				}
			}
			if allGood {
				mu.Lock()
				layer.mark(h)
				mu.Unlock()
			}
			return nil
		})
	}
	return layers
}

func placementWins(t *binconf.Tables, ks *cache.KnownSumCache, successor *Layer, loads []int, item, capacity int) bool {
	seen := make(map[int]bool, len(loads))
	for bin, load := range loads {
		if seen[load] {
			continue
		}
		seen[load] = true
		if load+item > t.R-1 {
			continue
		}
		next := make([]int, len(loads))
		copy(next, loads)
		next[bin] += item
		sort.Sort(sort.Reverse(sortableInts(next)))

		if sum(next) >= capacity {
			return true
		}
		h := loadHash(t, next)
		if ks.Contains(h) {
			return true
		}
		if successor != nil && successor.contains(h) {
			return true
		}
	}
	return false
}
