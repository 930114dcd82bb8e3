package mutation

import (
	"fmt"
	"math/rand"

	"setgenome/genome"
)

// Step is one pipeline stage: an operator plus the probability that it fires
// on a given pass.
type Step struct {
	Chance   float64
	Operator Operator
}

// Pipeline applies a fixed sequence of chance-gated operators to a genome.
// Chances are evaluated in order against one shared random source, so a fixed
// seed reproduces the exact mutation history.
type Pipeline struct {
	Rand  *rand.Rand
	Steps []Step
}

// Apply runs one pass over the genome and reports whether any operator fired
// and changed it.
func (p *Pipeline) Apply(g *genome.Genome) (bool, error) {
	if p == nil || p.Rand == nil {
		return false, ErrNilRand
	}
	changed := false
	for _, step := range p.Steps {
		if step.Chance <= 0 || p.Rand.Float64() >= step.Chance {
			continue
		}
		if !step.Operator.Applicable(g) {
			continue
		}
		applied, err := step.Operator.Apply(g)
		if err != nil {
			return changed, fmt.Errorf("%s: %w", step.Operator.Name(), err)
		}
		changed = changed || applied
	}
	return changed, nil
}
