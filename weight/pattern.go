// Package weight implements the discrete bit-pattern representation of
// connection weights. A weight is not stored as a float: it is a fixed-length
// sequence of bits whose population count encodes a value in [-1, 1]. The
// pattern length is a multiple of 64 controlled by the resolution, so the
// representable step size shrinks as resolution grows.
package weight

import (
	"errors"
	"math"
	"math/rand"

	"github.com/bits-and-blooms/bitset"
)

// WordBits is the pattern length contributed by one unit of resolution.
const WordBits = 64

var (
	ErrZeroResolution = errors.New("weight resolution must be at least 1")
	ErrEmptyPattern   = errors.New("weight pattern must contain at least one word")
	ErrNilRand        = errors.New("random source is required")
)

// Pattern is the bit-level weight state of one connection gene.
//
// The decoded value is (ones - mean) / mean with mean = len/2, so the all-zero
// pattern decodes to -1, the all-one pattern to +1 and a balanced pattern to 0.
type Pattern struct {
	bits *bitset.BitSet
}

// NewPattern returns an all-zero pattern of length resolution*WordBits.
func NewPattern(resolution int) (Pattern, error) {
	if resolution < 1 {
		return Pattern{}, ErrZeroResolution
	}
	return Pattern{bits: bitset.New(uint(resolution * WordBits))}, nil
}

// NewPatternValue returns a pattern of the given resolution encoding value.
func NewPatternValue(resolution int, value float64, rng *rand.Rand) (Pattern, error) {
	p, err := NewPattern(resolution)
	if err != nil {
		return Pattern{}, err
	}
	if err := p.SetValue(value, rng); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// FromWords reconstructs a pattern from its raw 64-bit words, least
// significant bit first. The exact bit state round-trips, not just the
// decoded value.
func FromWords(words []uint64) (Pattern, error) {
	if len(words) == 0 {
		return Pattern{}, ErrEmptyPattern
	}
	return Pattern{bits: bitset.From(append([]uint64(nil), words...))}, nil
}

// Len returns the pattern length in bits.
func (p Pattern) Len() int {
	return int(p.bits.Len())
}

// Resolution returns the pattern length in 64-bit words.
func (p Pattern) Resolution() int {
	return p.Len() / WordBits
}

// Ones returns the population count of the pattern.
func (p Pattern) Ones() int {
	return int(p.bits.Count())
}

// Value decodes the pattern into [-1, 1].
func (p Pattern) Value() float64 {
	mean := float64(p.Len()) / 2
	return (float64(p.Ones()) - mean) / mean
}

// Step returns the distance between neighboring representable values.
func (p Pattern) Step() float64 {
	return 2 / float64(p.Len())
}

// Words returns a copy of the raw pattern words.
func (p Pattern) Words() []uint64 {
	return append([]uint64(nil), p.bits.Bytes()...)
}

// Clone returns an independent copy of the pattern.
func (p Pattern) Clone() Pattern {
	return Pattern{bits: p.bits.Clone()}
}

// Equal reports whether two patterns have identical length and bit state.
func (p Pattern) Equal(q Pattern) bool {
	return p.bits.Equal(q.bits)
}

// SetValue re-encodes the pattern so it decodes as close to value as the
// current resolution allows. The set bits are placed at random positions;
// only the population count is meaningful, but randomized placement keeps
// subsequent per-bit mutation unbiased. Values outside [-1, 1] are clamped.
func (p Pattern) SetValue(value float64, rng *rand.Rand) error {
	if rng == nil {
		return ErrNilRand
	}
	value = math.Max(-1, math.Min(1, value))
	mean := float64(p.Len()) / 2
	ones := int(math.Round(value*mean + mean))

	p.bits.ClearAll()
	for _, i := range rng.Perm(p.Len())[:ones] {
		p.bits.Set(uint(i))
	}
	return nil
}

// FlipEach independently flips every bit with the given probability. This is
// a point-mutation model: rates near 0.5 drive the population count toward a
// binomial centered at mean, eroding the decoded value toward zero, while low
// rates preserve the encoded weight across generations.
func (p Pattern) FlipEach(rate float64, rng *rand.Rand) error {
	if rng == nil {
		return ErrNilRand
	}
	if rate <= 0 {
		return nil
	}
	for i := uint(0); i < uint(p.Len()); i++ {
		if rng.Float64() < rate {
			p.bits.Flip(i)
		}
	}
	return nil
}

// Double extends the pattern to twice its length by writing every bit twice,
// which preserves the decoded value exactly while halving the step size.
// It reports false, leaving the pattern untouched, when doubling would exceed
// maxResolution (maxResolution <= 0 means unbounded).
func (p *Pattern) Double(maxResolution int) bool {
	res := p.Resolution()
	if maxResolution > 0 && res*2 > maxResolution {
		return false
	}
	length := uint(p.Len())
	doubled := bitset.New(length * 2)
	for i := uint(0); i < length; i++ {
		if p.bits.Test(i) {
			doubled.Set(2 * i).Set(2*i + 1)
		}
	}
	p.bits = doubled
	return true
}
