// Package mutation implements the mutation operators acting on genomes. An
// operator either changes the gene sets or reports that no legal target
// existed; it never leaves a genome violating its invariants.
package mutation

import (
	"errors"

	"setgenome/genome"
)

var (
	ErrNilRand     = errors.New("random source is required")
	ErrNilRegistry = errors.New("identity registry is required")
	ErrNilSampler  = errors.New("weight sampler is required")
)

// Operator is one mutation acting on a genome in place.
//
// Apply reports whether it changed the genome. Finding no legal mutation
// target is the (false, nil) case, not an error; errors are reserved for
// misconfigured operators. Applicable is a cheap pre-check used by pipelines
// and population layers to skip operators that cannot fire.
type Operator interface {
	Name() string
	Applicable(g *genome.Genome) bool
	Apply(g *genome.Genome) (bool, error)
}
