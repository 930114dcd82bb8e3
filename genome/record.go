package genome

import (
	"fmt"

	"setgenome/gene"
	"setgenome/record"
	"setgenome/weight"
)

// Record converts the genome into its serializable form. Nodes are emitted
// inputs first in construction order, then outputs in construction order,
// then hidden nodes in ascending identity order; connections in ascending
// identity order. FromRecord relies on that layout.
func (g *Genome) Record() record.Genome {
	rec := record.Genome{
		Config: record.GenomeConfig{
			Resolution:     g.cfg.Resolution,
			MaxResolution:  g.cfg.MaxResolution,
			FeedForward:    g.cfg.FeedForward,
			AllowSelfLoops: g.cfg.AllowSelfLoops,
			WeightScale:    g.cfg.WeightScale,
		},
		Nodes:       make([]record.Node, 0, len(g.nodes)),
		Connections: make([]record.Connection, 0, len(g.conns)),
	}

	emit := func(id gene.ID) {
		n := g.nodes[id]
		rec.Nodes = append(rec.Nodes, record.Node{ID: uint64(n.ID), Role: n.Role.String()})
	}
	for _, id := range g.inputs {
		emit(id)
	}
	for _, id := range g.outputs {
		emit(id)
	}
	for _, id := range g.HiddenIDs() {
		emit(id)
	}

	for _, c := range g.Connections() {
		rec.Connections = append(rec.Connections, record.Connection{
			ID:     uint64(c.ID),
			Source: uint64(c.Source),
			Target: uint64(c.Target),
			Weight: record.Weight{Bits: c.Weight.Len(), Words: c.Weight.Words()},
		})
	}
	return rec
}

// FromRecord rebuilds a genome from its serializable form, re-checking every
// structural invariant so a corrupted or hand-edited record cannot produce an
// invalid genome.
func FromRecord(rec record.Genome) (*Genome, error) {
	cfg := Config{
		Resolution:     rec.Config.Resolution,
		MaxResolution:  rec.Config.MaxResolution,
		FeedForward:    rec.Config.FeedForward,
		AllowSelfLoops: rec.Config.AllowSelfLoops,
		WeightScale:    rec.Config.WeightScale,
	}

	g := empty(cfg)
	var hidden []gene.Node
	for _, n := range rec.Nodes {
		role, err := gene.ParseRole(n.Role)
		if err != nil {
			return nil, err
		}
		id := gene.ID(n.ID)
		if g.ContainsID(id) {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		switch role {
		case gene.RoleInput:
			cfg.Inputs++
			g.nodes[id] = gene.NewNode(id, role)
			g.inputs = append(g.inputs, id)
		case gene.RoleOutput:
			cfg.Outputs++
			g.nodes[id] = gene.NewNode(id, role)
			g.outputs = append(g.outputs, id)
		case gene.RoleHidden:
			hidden = append(hidden, gene.NewNode(id, role))
		}
	}
	g.cfg = cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, n := range hidden {
		if err := g.AddHiddenNode(n); err != nil {
			return nil, err
		}
	}

	for _, c := range rec.Connections {
		w, err := weight.FromWords(c.Weight.Words)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", c.ID, err)
		}
		if w.Len() != c.Weight.Bits {
			return nil, fmt.Errorf("connection %d: weight declares %d bits but carries %d", c.ID, c.Weight.Bits, w.Len())
		}
		conn := gene.NewConnection(gene.ID(c.ID), gene.ID(c.Source), gene.ID(c.Target), w)
		if err := g.AddConnection(conn); err != nil {
			return nil, fmt.Errorf("connection %d: %w", c.ID, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
