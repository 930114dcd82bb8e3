package weight

import (
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws fresh weight values for newly created connection genes from a
// zero-mean normal distribution, clamped to the representable range. It owns
// its own seeded stream so genome construction stays reproducible no matter
// how many draws the mutation operators consume in between.
type Sampler struct {
	dist distuv.Normal
}

// NewSampler returns a sampler with the given seed and standard deviation.
func NewSampler(seed uint64, stdDev float64) *Sampler {
	return &Sampler{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: stdDev,
			Src:   exprand.NewSource(seed),
		},
	}
}

// Sample returns the next weight value in [-1, 1].
func (s *Sampler) Sample() float64 {
	v := s.dist.Rand()
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
