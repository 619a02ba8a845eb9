package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// The digests use SHA-256 over a canonical little-endian byte layout. Both
// encodings are fixed: changing a single field width or the ordering forks
// the digest lineage across engine backends.

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteF32(h hashWriter, tmp *[8]byte, v float64) {
	binary.LittleEndian.PutUint32(tmp[:4], math.Float32bits(float32(v)))
	h.Write(tmp[:4])
}

func digestWriteU32(h hashWriter, tmp *[8]byte, v uint32) {
	binary.LittleEndian.PutUint32(tmp[:4], v)
	h.Write(tmp[:4])
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

// SimDigest hashes the canonical state encoding: agents in ascending id
// order (per agent: x, y, vx, vy, energy as float32; SIR as one byte;
// whole hours in state as uint32; age as uint32), then the resource grid
// row-major as float32.
func (w *World) SimDigest() string {
	h := sha256.New()
	var tmp [8]byte

	for _, id := range w.sortedIDs() {
		a := w.agents[id]
		digestWriteF32(h, &tmp, a.X)
		digestWriteF32(h, &tmp, a.Y)
		digestWriteF32(h, &tmp, a.VX)
		digestWriteF32(h, &tmp, a.VY)
		digestWriteF32(h, &tmp, a.Energy)
		h.Write([]byte{byte(a.SIR)})
		digestWriteU32(h, &tmp, uint32(math.Round(a.DaysInState*hoursPerDay)))
		digestWriteU32(h, &tmp, uint32(a.AgeTicks))
	}

	for _, v := range w.resources.cells {
		digestWriteF32(h, &tmp, v)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// RNGDigest hashes the named draw counters: keys in ascending order, each
// as its raw bytes followed by the count as uint64 little-endian.
func (w *World) RNGDigest() string {
	counters := w.rng.Counters()
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	var tmp [8]byte
	for _, k := range keys {
		h.Write([]byte(k))
		digestWriteU64(h, &tmp, counters[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
