package genome

import (
	"errors"
	"fmt"
	"math/rand"

	"setgenome/gene"
)

// DisjointPolicy controls which parent contributes connection genes that the
// other parent lacks.
type DisjointPolicy int

const (
	// PreferFirst inherits disjoint genes only from the first parent, which
	// callers pass as the fitter one.
	PreferFirst DisjointPolicy = iota
	// InheritAll inherits disjoint genes from both parents.
	InheritAll
)

func (p DisjointPolicy) String() string {
	switch p {
	case PreferFirst:
		return "prefer_first"
	case InheritAll:
		return "inherit_all"
	default:
		return fmt.Sprintf("disjoint_policy(%d)", int(p))
	}
}

// ParseDisjointPolicy is the inverse of DisjointPolicy.String.
func ParseDisjointPolicy(s string) (DisjointPolicy, error) {
	switch s {
	case "prefer_first":
		return PreferFirst, nil
	case "inherit_all":
		return InheritAll, nil
	default:
		return 0, fmt.Errorf("unknown disjoint policy: %q", s)
	}
}

var (
	ErrIncompatibleParents = errors.New("parents do not share input and output genes")
	ErrIdentityConflict    = errors.New("matched connection identity has conflicting endpoints")
)

// Crossover recombines two parents into a child genome. Connection genes are
// aligned by identity: for every identity both parents carry, the child
// inherits one parent's whole bit pattern chosen by a fair coin, never a
// blend. Disjoint genes follow the policy. Hidden nodes enter the child
// lazily, pulled in by the connections that reference them, so the child
// carries no unconnected hidden nodes.
//
// Genes are processed in ascending identity order and an inherited gene that
// would violate the child's pair-uniqueness or acyclicity invariants is
// dropped, so a fixed rng makes the result reproducible.
func Crossover(a, b *Genome, policy DisjointPolicy, rng *rand.Rand) (*Genome, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	if !sameFixedNodes(a, b) {
		return nil, ErrIncompatibleParents
	}

	child := empty(a.cfg)
	child.inputs = append([]gene.ID(nil), a.inputs...)
	child.outputs = append([]gene.ID(nil), a.outputs...)
	for _, id := range a.inputs {
		child.nodes[id] = a.nodes[id]
	}
	for _, id := range a.outputs {
		child.nodes[id] = a.nodes[id]
	}

	for _, id := range a.ConnectionIDs() {
		ca := a.conns[id]
		cb, matched := b.conns[id]
		if !matched {
			child.inherit(a, ca)
			continue
		}
		if ca.Source != cb.Source || ca.Target != cb.Target {
			return nil, fmt.Errorf("%w: %d", ErrIdentityConflict, id)
		}
		donor, from := ca, a
		if rng.Intn(2) == 1 {
			donor, from = cb, b
		}
		child.inherit(from, donor)
	}

	if policy == InheritAll {
		for _, id := range b.ConnectionIDs() {
			if _, matched := a.conns[id]; matched {
				continue
			}
			child.inherit(b, b.conns[id])
		}
	}

	if err := child.Validate(); err != nil {
		return nil, fmt.Errorf("offspring failed validation: %w", err)
	}
	return child, nil
}

// inherit copies one connection gene, plus any hidden endpoint nodes the
// child lacks, from a parent. Genes that would break an invariant of the
// child are silently dropped.
func (g *Genome) inherit(parent *Genome, c *gene.Connection) {
	if g.HasPair(c.Source, c.Target) {
		return
	}
	if c.Source == c.Target && (g.cfg.FeedForward || !g.cfg.AllowSelfLoops) {
		return
	}
	if g.cfg.FeedForward && g.WouldFormCycle(c.Source, c.Target) {
		return
	}

	for _, end := range [2]gene.ID{c.Source, c.Target} {
		if _, ok := g.nodes[end]; ok {
			continue
		}
		n, ok := parent.nodes[end]
		if !ok || n.Role != gene.RoleHidden {
			return
		}
		g.nodes[end] = n
	}

	clone := c.Clone()
	g.conns[clone.ID] = clone
	g.pairs[clone.Pair()] = clone.ID
}

func sameFixedNodes(a, b *Genome) bool {
	if len(a.inputs) != len(b.inputs) || len(a.outputs) != len(b.outputs) {
		return false
	}
	for i, id := range a.inputs {
		if b.inputs[i] != id {
			return false
		}
	}
	for i, id := range a.outputs {
		if b.outputs[i] != id {
			return false
		}
	}
	return true
}
