package radial

import (
	"math/rand/v2"
)

// JitterSource supplies uniform samples in [0, 1) used to vary ring radius.
// Implementations used by a shared [Engine] must be safe for concurrent use.
type JitterSource interface {
	Float64() float64
}

// systemJitter draws from the process-wide generator, which is safe for
// concurrent use and seeded randomly at startup.
type systemJitter struct{}

func (systemJitter) Float64() float64 { return rand.Float64() }

// SystemJitter returns the default, non-reproducible jitter source.
func SystemJitter() JitterSource { return systemJitter{} }

// SeededJitter returns a reproducible jitter source. The same seed yields
// the same sequence of radii. The returned source is not safe for
// concurrent use.
func SeededJitter(seed uint64) JitterSource {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// noJitter always returns the midpoint, which maps to a zero offset.
type noJitter struct{}

func (noJitter) Float64() float64 { return 0.5 }

// NoJitter returns a source that places every node exactly on BaseRadius.
func NoJitter() JitterSource { return noJitter{} }
