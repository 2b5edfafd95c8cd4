package minibs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
)

// cacheVersion is bumped whenever the on-disk layout changes incompatibly.
const cacheVersion int32 = 1

// ErrSignatureMismatch means the file's (m, R, S, D, version) header does
// not match the tables in memory; spec §6 requires the caller to rebuild
// from scratch in this case rather than attempt a partial restore.
var ErrSignatureMismatch = fmt.Errorf("minibs cache: signature mismatch")

// Save writes the binary minibs cache per spec §6: a signature header,
// the Zobrist tables, the feasible item configurations, the known-sum
// winning set, and each layer's winning set in order.
func Save(w io.Writer, t *binconf.Tables, m *Minibs) error {
	bw := bufio.NewWriter(w)

	for _, v := range []int32{int32(t.Bins), int32(t.R), int32(t.S), int32(m.QT.D), cacheVersion} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := writeU64Matrix(bw, t.Zi); err != nil {
		return err
	}
	if err := writeU64Matrix(bw, t.Zl); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, int32(len(m.Configs))); err != nil {
		return err
	}
	for _, cfg := range m.Configs {
		for _, c := range cfg.Counts {
			if err := binary.Write(bw, binary.LittleEndian, int32(c)); err != nil {
				return err
			}
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(-1)); err != nil {
		return err
	}

	if err := writeHashSet(bw, knownSumHashes(m.KnownSum)); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, int32(len(m.Layers))); err != nil {
		return err
	}
	for _, l := range m.Layers {
		hashes := make([]uint64, 0, len(l.Winning))
		for h := range l.Winning {
			hashes = append(hashes, h)
		}
		if err := writeHashSet(bw, hashes); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeU64Matrix(w io.Writer, m [][]uint64) error {
	for _, row := range m {
		for _, v := range row {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHashSet(w io.Writer, hashes []uint64) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(hashes))); err != nil {
		return err
	}
	for _, h := range hashes {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, int32(-1))
}

func knownSumHashes(ks *cache.KnownSumCache) []uint64 {
	return ks.All()
}

// Load reads back a binary minibs cache, validating the signature and
// Zobrist tables against t before trusting the payload. On a mismatch it
// returns ErrSignatureMismatch and the caller should rebuild via Build.
func Load(r io.Reader, t *binconf.Tables, qt *QuantTables) (*Minibs, error) {
	br := bufio.NewReader(r)

	var bins, rr, ss, d, version int32
	for _, p := range []*int32{&bins, &rr, &ss, &d, &version} {
		if err := binary.Read(br, binary.LittleEndian, p); err != nil {
			return nil, err
		}
	}
	if int(bins) != t.Bins || int(rr) != t.R || int(ss) != t.S || int(d) != qt.D || version != cacheVersion {
		return nil, ErrSignatureMismatch
	}

	gotZi, err := readU64Matrix(br, len(t.Zi), len(t.Zi[0]))
	if err != nil {
		return nil, err
	}
	if !matrixEqual(gotZi, t.Zi) {
		return nil, ErrSignatureMismatch
	}
	gotZl, err := readU64Matrix(br, len(t.Zl), len(t.Zl[0]))
	if err != nil {
		return nil, err
	}
	if !matrixEqual(gotZl, t.Zl) {
		return nil, ErrSignatureMismatch
	}

	var configCount int32
	if err := binary.Read(br, binary.LittleEndian, &configCount); err != nil {
		return nil, err
	}
	configs := make([]ItemConfig, configCount)
	for i := range configs {
		ic := ItemConfig{Counts: make([]int, d)}
		for j := range ic.Counts {
			var c int32
			if err := binary.Read(br, binary.LittleEndian, &c); err != nil {
				return nil, err
			}
			ic.Counts[j] = int(c)
		}
		ic.rehash(qt)
		configs[i] = ic
	}
	var delim int32
	if err := binary.Read(br, binary.LittleEndian, &delim); err != nil {
		return nil, err
	}
	if delim != -1 {
		return nil, fmt.Errorf("minibs cache: missing config-section delimiter")
	}

	ks := cache.NewKnownSumCache(16)
	ksHashes, err := readHashSet(br)
	if err != nil {
		return nil, err
	}
	for _, h := range ksHashes {
		ks.Insert(h)
	}

	var layerCount int32
	if err := binary.Read(br, binary.LittleEndian, &layerCount); err != nil {
		return nil, err
	}
	layers := make([]*Layer, layerCount)
	byHash := make(map[uint64]*Layer, layerCount)
	for i := range layers {
		hashes, err := readHashSet(br)
		if err != nil {
			return nil, err
		}
		var cfg ItemConfig
		if int(i) < len(configs) {
			cfg = configs[i]
		}
		l := newLayer(cfg)
		for _, h := range hashes {
			l.mark(h)
		}
		layers[i] = l
		byHash[cfg.Hash] = l
	}

	return &Minibs{Tables: t, QT: qt, KnownSum: ks, Configs: configs, Layers: layers, byConfigHash: byHash}, nil
}

func readU64Matrix(r io.Reader, rows, cols int) ([][]uint64, error) {
	m := make([][]uint64, rows)
	for i := range m {
		m[i] = make([]uint64, cols)
		for j := range m[i] {
			if err := binary.Read(r, binary.LittleEndian, &m[i][j]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func matrixEqual(a, b [][]uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func readHashSet(r io.Reader) ([]uint64, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	out := make([]uint64, size)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, err
		}
	}
	var delim int32
	if err := binary.Read(r, binary.LittleEndian, &delim); err != nil {
		return nil, err
	}
	if delim != -1 {
		return nil, fmt.Errorf("minibs cache: missing hash-set delimiter")
	}
	return out, nil
}
