package mutation

import (
	"math/rand"

	"setgenome/gene"
	"setgenome/genome"
	"setgenome/weight"
)

// AddNode splits a random connection: the connection gene is removed and
// replaced by a new hidden node plus two fresh connections routing around it.
// The identity triple comes from the registry's split cache, so splitting the
// same inherited connection in two genomes yields alignable genes.
//
// With RetainSplit the split connection survives under its identity with its
// weight re-encoded to zero, so the new route starts out as the only signal
// path while the old gene stays alignable.
type AddNode struct {
	Rand        *rand.Rand
	IDs         *gene.Registry
	Sampler     *weight.Sampler
	RetainSplit bool
}

func (o *AddNode) Name() string {
	return "add_node"
}

func (o *AddNode) Applicable(g *genome.Genome) bool {
	return g.Len() > 0
}

func (o *AddNode) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	if o.IDs == nil {
		return false, ErrNilRegistry
	}
	if o.Sampler == nil {
		return false, ErrNilSampler
	}

	ids := g.ConnectionIDs()
	if len(ids) == 0 {
		return false, nil
	}
	split := ids[o.Rand.Intn(len(ids))]
	c, _ := g.Connection(split)
	source, target := c.Source, c.Target

	minted := o.IDs.Split(split, g.ContainsID)
	if o.RetainSplit {
		if err := c.Weight.SetValue(0, o.Rand); err != nil {
			return false, err
		}
	} else if err := g.RemoveConnection(split); err != nil {
		return false, err
	}
	if err := g.AddHiddenNode(gene.NewNode(minted.Node, gene.RoleHidden)); err != nil {
		return false, err
	}

	res := g.Config().Resolution
	inWeight, err := weight.NewPatternValue(res, o.Sampler.Sample(), o.Rand)
	if err != nil {
		return false, err
	}
	outWeight, err := weight.NewPatternValue(res, o.Sampler.Sample(), o.Rand)
	if err != nil {
		return false, err
	}
	if err := g.AddConnection(gene.NewConnection(minted.Inbound, source, minted.Node, inWeight)); err != nil {
		return false, err
	}
	if err := g.AddConnection(gene.NewConnection(minted.Outbound, minted.Node, target, outWeight)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveNode removes a random hidden node and every connection touching it.
type RemoveNode struct {
	Rand *rand.Rand
}

func (o *RemoveNode) Name() string {
	return "remove_node"
}

func (o *RemoveNode) Applicable(g *genome.Genome) bool {
	return len(g.HiddenIDs()) > 0
}

func (o *RemoveNode) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	hidden := g.HiddenIDs()
	if len(hidden) == 0 {
		return false, nil
	}
	if err := g.RemoveNode(hidden[o.Rand.Intn(len(hidden))]); err != nil {
		return false, err
	}
	return true, nil
}

// AddConnection inserts one new connection between a random legal node pair:
// source drawn from inputs and hidden nodes, target from hidden and output
// nodes, skipping pairs that exist or would break the acyclicity policy.
type AddConnection struct {
	Rand    *rand.Rand
	IDs     *gene.Registry
	Sampler *weight.Sampler
}

func (o *AddConnection) Name() string {
	return "add_connection"
}

func (o *AddConnection) Applicable(g *genome.Genome) bool {
	return true
}

func (o *AddConnection) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	if o.IDs == nil {
		return false, ErrNilRegistry
	}
	if o.Sampler == nil {
		return false, ErrNilSampler
	}

	hidden := g.HiddenIDs()
	sources := append(g.InputIDs(), hidden...)
	targets := append(hidden, g.OutputIDs()...)
	cfg := g.Config()

	// Random, seed-reproducible scan over all candidate pairs; the mutation
	// is a no-op only when the graph is complete under the active policy.
	for _, si := range o.Rand.Perm(len(sources)) {
		source := sources[si]
		for _, ti := range o.Rand.Perm(len(targets)) {
			target := targets[ti]
			if source == target && (cfg.FeedForward || !cfg.AllowSelfLoops) {
				continue
			}
			if g.HasPair(source, target) {
				continue
			}
			if cfg.FeedForward && g.WouldFormCycle(source, target) {
				continue
			}
			w, err := weight.NewPatternValue(cfg.Resolution, o.Sampler.Sample(), o.Rand)
			if err != nil {
				return false, err
			}
			if err := g.AddConnection(gene.NewConnection(o.IDs.Next(), source, target, w)); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// RemoveConnection removes one random connection. Endpoint nodes stay even
// if the removal leaves them unconnected.
type RemoveConnection struct {
	Rand *rand.Rand
}

func (o *RemoveConnection) Name() string {
	return "remove_connection"
}

func (o *RemoveConnection) Applicable(g *genome.Genome) bool {
	return g.Len() > 0
}

func (o *RemoveConnection) Apply(g *genome.Genome) (bool, error) {
	if o == nil || o.Rand == nil {
		return false, ErrNilRand
	}
	ids := g.ConnectionIDs()
	if len(ids) == 0 {
		return false, nil
	}
	if err := g.RemoveConnection(ids[o.Rand.Intn(len(ids))]); err != nil {
		return false, err
	}
	return true, nil
}
