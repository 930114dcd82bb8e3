package genome

import (
	"fmt"

	"setgenome/gene"
)

// Validate re-derives every structural invariant from the gene sets. The
// mutating methods uphold the invariants individually; Validate is the
// belt-and-braces check run after bulk construction paths such as crossover
// and record loading.
func (g *Genome) Validate() error {
	if len(g.inputs) != g.cfg.Inputs || len(g.outputs) != g.cfg.Outputs {
		return fmt.Errorf("fixed node counts (%d in, %d out) disagree with config (%d, %d)",
			len(g.inputs), len(g.outputs), g.cfg.Inputs, g.cfg.Outputs)
	}
	for _, id := range g.inputs {
		if n, ok := g.nodes[id]; !ok || n.Role != gene.RoleInput {
			return fmt.Errorf("fixed input node %d missing or misroled", id)
		}
	}
	for _, id := range g.outputs {
		if n, ok := g.nodes[id]; !ok || n.Role != gene.RoleOutput {
			return fmt.Errorf("fixed output node %d missing or misroled", id)
		}
	}

	pairs := make(map[gene.Pair]gene.ID, len(g.conns))
	for id, c := range g.conns {
		if c.ID != id {
			return fmt.Errorf("connection keyed as %d carries identity %d", id, c.ID)
		}
		if _, ok := g.nodes[c.Source]; !ok {
			return fmt.Errorf("connection %d: %w: source %d", id, ErrUnknownEndpoint, c.Source)
		}
		if _, ok := g.nodes[c.Target]; !ok {
			return fmt.Errorf("connection %d: %w: target %d", id, ErrUnknownEndpoint, c.Target)
		}
		if c.Source == c.Target && (g.cfg.FeedForward || !g.cfg.AllowSelfLoops) {
			return fmt.Errorf("connection %d: %w: node %d", id, ErrSelfLoop, c.Source)
		}
		if prev, dup := pairs[c.Pair()]; dup {
			return fmt.Errorf("connections %d and %d: %w: %d->%d", prev, id, ErrDuplicatePair, c.Source, c.Target)
		}
		pairs[c.Pair()] = id
		if indexed, ok := g.pairs[c.Pair()]; !ok || indexed != id {
			return fmt.Errorf("connection %d: pair index out of sync", id)
		}
	}
	if len(g.pairs) != len(g.conns) {
		return fmt.Errorf("pair index holds %d entries for %d connections", len(g.pairs), len(g.conns))
	}

	if g.cfg.FeedForward {
		if err := g.checkAcyclic(); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic runs a three-color DFS over the connection graph.
func (g *Genome) checkAcyclic() error {
	adj := make(map[gene.ID][]gene.ID, len(g.nodes))
	for _, c := range g.conns {
		adj[c.Source] = append(adj[c.Source], c.Target)
	}

	const (
		unseen = iota
		active
		done
	)
	state := make(map[gene.ID]int, len(g.nodes))

	var visit func(id gene.ID) error
	visit = func(id gene.ID) error {
		state[id] = active
		for _, next := range adj[id] {
			switch state[next] {
			case active:
				return fmt.Errorf("%w: through node %d", ErrWouldCycle, next)
			case unseen:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		state[id] = done
		return nil
	}

	for id := range g.nodes {
		if state[id] == unseen {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
