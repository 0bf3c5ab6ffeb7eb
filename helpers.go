package grammar

import (
	"math"
	"math/rand"
	"time"
)

// rnd is the single process-level pseudo-random source (spec.md §5:
// "Randomness is drawn from a single process-level pseudo-random source").
// Deterministic reproduction requires calling Seed before generation.
var rnd = rand.New(rand.NewSource(time.Now().UnixNano()))

// Seed reseeds the engine's process-level random source, enabling
// deterministic, reproducible expansions (spec.md §5/§8 "Round-trip /
// idempotence").
func Seed(seed int64) {
	rnd = rand.New(rand.NewSource(seed))
}

// randUint64Inclusive returns a pseudo-random value uniformly distributed in
// [0, span], inclusive, without the overflow that plain `rnd.Int63n(span+1)`
// suffers once span approaches the width of its integer type (span+1 wraps
// to 0 when span is the type's maximum, and Int63n(0) panics).
func randUint64Inclusive(span uint64) uint64 {
	if span == math.MaxUint64 {
		return rnd.Uint64()
	}
	n := span + 1
	// Reject draws below 2^64 mod n so that every residue mod n is equally
	// likely (a plain modulo favours small values when n is large).
	threshold := -n % n
	for {
		if v := rnd.Uint64(); v >= threshold {
			return v % n
		}
	}
}

// randInt64Range returns a pseudo-random integer uniformly distributed in
// [low, high], inclusive on both ends, computing the span in unsigned
// arithmetic so it never overflows regardless of how wide [low, high] is.
func randInt64Range(low, high int64) int64 {
	if high < low {
		return low
	}
	span := uint64(high) - uint64(low)
	return int64(uint64(low) + randUint64Inclusive(span))
}

// randUint64Range returns a pseudo-random integer uniformly distributed in
// [low, high], inclusive on both ends, with no overflow even when
// high-low+1 would wrap an unsigned 64-bit counter.
func randUint64Range(low, high uint64) uint64 {
	if high < low {
		return low
	}
	return low + randUint64Inclusive(high-low)
}
