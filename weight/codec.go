package weight

import "math/rand"

// Codec maps between decoded pattern values and the externally visible
// weight range. The pattern itself always decodes into [-1, 1]; Scale
// stretches that interval to [-Scale, Scale] for consumers that materialize
// a network from the genome.
type Codec struct {
	Scale float64
}

// Decode returns the scaled weight encoded by the pattern.
func (c Codec) Decode(p Pattern) float64 {
	return p.Value() * c.scale()
}

// Encode builds a pattern of the given resolution whose decoded, scaled
// value is as close to weight as the resolution allows. It is not a perfect
// inverse of Decode; precision is bounded by the pattern step size.
func (c Codec) Encode(weight float64, resolution int, rng *rand.Rand) (Pattern, error) {
	return NewPatternValue(resolution, weight/c.scale(), rng)
}

func (c Codec) scale() float64 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}
