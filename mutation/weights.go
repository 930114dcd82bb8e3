package mutation

import (
	"errors"
	"math/rand"

	"setgenome/genome"
)

// MutateWeights runs the per-bit flip mutation over connection weight
// patterns: every bit of a selected pattern flips independently with
// probability Rate. Single restricts the mutation to one random connection;
// otherwise every connection's pattern is mutated.
type MutateWeights struct {
	Rand   *rand.Rand
	Rate   float64
	Single bool
}

func (o *MutateWeights) Name() string {
	return "mutate_weights"
}

func (o *MutateWeights) Applicable(g *genome.Genome) bool {
	return g.Len() > 0
}

func (o *MutateWeights) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	if o.Rate < 0 || o.Rate > 1 {
		return false, errors.New("per-bit flip rate must be in [0, 1]")
	}
	ids := g.ConnectionIDs()
	if len(ids) == 0 {
		return false, nil
	}
	if o.Single {
		i := o.Rand.Intn(len(ids))
		ids = ids[i : i+1]
	}
	for _, id := range ids {
		c, _ := g.Connection(id)
		if err := c.Weight.FlipEach(o.Rate, o.Rand); err != nil {
			return false, err
		}
	}
	return true, nil
}

// DuplicateWeight doubles the resolution of connection weight patterns,
// preserving each decoded value exactly while halving the step size. Every
// connection is considered independently with probability Chance. The
// genome's max resolution bounds the growth.
type DuplicateWeight struct {
	Rand   *rand.Rand
	Chance float64
}

func (o *DuplicateWeight) Name() string {
	return "duplicate_weight"
}

func (o *DuplicateWeight) Applicable(g *genome.Genome) bool {
	return g.Len() > 0
}

func (o *DuplicateWeight) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	if o.Chance < 0 || o.Chance > 1 {
		return false, errors.New("duplication chance must be in [0, 1]")
	}
	max := g.Config().MaxResolution
	applied := false
	for _, id := range g.ConnectionIDs() {
		if o.Rand.Float64() >= o.Chance {
			continue
		}
		c, _ := g.Connection(id)
		if c.Weight.Double(max) {
			applied = true
		}
	}
	return applied, nil
}
