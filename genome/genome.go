// Package genome implements the set-encoded genome: an aggregate of node
// genes and connection genes keyed by identity, with the structural
// invariants enforced on every change. Mutation operators and crossover work
// through the methods here and can never leave a genome in an invalid state.
package genome

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"setgenome/gene"
	"setgenome/weight"
)

var (
	ErrNilRegistry       = errors.New("identity registry is required")
	ErrNilRand           = errors.New("random source is required")
	ErrNilSampler        = errors.New("weight sampler is required")
	ErrUnknownNode       = errors.New("node gene not found")
	ErrUnknownConnection = errors.New("connection gene not found")
	ErrDuplicateID       = errors.New("gene identity already present")
	ErrDuplicatePair     = errors.New("connection pair already present")
	ErrUnknownEndpoint   = errors.New("connection endpoint not in node set")
	ErrSelfLoop          = errors.New("self-loops are not permitted")
	ErrWouldCycle        = errors.New("connection would close a cycle")
	ErrFixedNode         = errors.New("input and output nodes are fixed for the genome's lifetime")
)

// Config is the construction-time policy of a genome.
type Config struct {
	// Inputs and Outputs are the fixed node counts allocated by New.
	Inputs  int
	Outputs int

	// Resolution sets the weight pattern length (Resolution * 64 bits) for
	// newly created connections. MaxResolution bounds resolution duplication;
	// zero means unbounded.
	Resolution    int
	MaxResolution int

	// FeedForward enforces acyclicity of the connection set. AllowSelfLoops
	// is only honored when FeedForward is off.
	FeedForward    bool
	AllowSelfLoops bool

	// WeightScale maps decoded pattern values in [-1, 1] onto the externally
	// visible weight range. Zero means 1.
	WeightScale float64
}

// Validate rejects configurations the genome cannot act on at all.
func (c Config) Validate() error {
	if c.Inputs < 1 {
		return fmt.Errorf("genome needs at least one input node, got %d", c.Inputs)
	}
	if c.Outputs < 1 {
		return fmt.Errorf("genome needs at least one output node, got %d", c.Outputs)
	}
	if c.Resolution < 1 {
		return fmt.Errorf("weight resolution must be at least 1, got %d", c.Resolution)
	}
	if c.MaxResolution != 0 && c.MaxResolution < c.Resolution {
		return fmt.Errorf("max resolution %d is below resolution %d", c.MaxResolution, c.Resolution)
	}
	if c.WeightScale < 0 {
		return fmt.Errorf("weight scale must not be negative, got %f", c.WeightScale)
	}
	if c.FeedForward && c.AllowSelfLoops {
		return errors.New("self-loops cannot be allowed in feed-forward mode")
	}
	return nil
}

// Genome aggregates a node-gene set and a connection-gene set. Nodes are
// value types and immutable; connections are held by pointer because their
// weight patterns mutate in place.
type Genome struct {
	cfg     Config
	nodes   map[gene.ID]gene.Node
	conns   map[gene.ID]*gene.Connection
	pairs   map[gene.Pair]gene.ID
	inputs  []gene.ID
	outputs []gene.ID
}

// New allocates a genome with the configured fixed input and output node
// genes, drawing their identities from the registry. No connections exist
// yet; see Init.
func New(reg *gene.Registry, cfg Config) (*Genome, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := empty(cfg)
	for i := 0; i < cfg.Inputs; i++ {
		n := gene.NewNode(reg.Next(), gene.RoleInput)
		g.nodes[n.ID] = n
		g.inputs = append(g.inputs, n.ID)
	}
	for i := 0; i < cfg.Outputs; i++ {
		n := gene.NewNode(reg.Next(), gene.RoleOutput)
		g.nodes[n.ID] = n
		g.outputs = append(g.outputs, n.ID)
	}
	return g, nil
}

func empty(cfg Config) *Genome {
	return &Genome{
		cfg:   cfg,
		nodes: make(map[gene.ID]gene.Node),
		conns: make(map[gene.ID]*gene.Connection),
		pairs: make(map[gene.Pair]gene.ID),
	}
}

// Init connects the given share of input nodes, starting at a random offset,
// to every output node with freshly sampled weights.
func (g *Genome) Init(reg *gene.Registry, connectedPercent float64, sampler *weight.Sampler, rng *rand.Rand) error {
	if reg == nil {
		return ErrNilRegistry
	}
	if sampler == nil {
		return ErrNilSampler
	}
	if rng == nil {
		return ErrNilRand
	}

	count := int(math.Ceil(connectedPercent * float64(len(g.inputs))))
	if count > len(g.inputs) {
		count = len(g.inputs)
	}
	offset := rng.Intn(len(g.inputs))
	for i := 0; i < count; i++ {
		input := g.inputs[(offset+i)%len(g.inputs)]
		for _, output := range g.outputs {
			if g.HasPair(input, output) {
				continue
			}
			w, err := weight.NewPatternValue(g.cfg.Resolution, sampler.Sample(), rng)
			if err != nil {
				return err
			}
			if err := g.AddConnection(gene.NewConnection(reg.Next(), input, output, w)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config returns the construction-time policy.
func (g *Genome) Config() Config {
	return g.cfg
}

// Len returns the number of connection genes.
func (g *Genome) Len() int {
	return len(g.conns)
}

// NodeCount returns the number of node genes.
func (g *Genome) NodeCount() int {
	return len(g.nodes)
}

// Node looks a node gene up by identity.
func (g *Genome) Node(id gene.ID) (gene.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Connection looks a connection gene up by identity. The returned pointer
// shares the genome's weight pattern; endpoints and identity are immutable.
func (g *Genome) Connection(id gene.ID) (*gene.Connection, bool) {
	c, ok := g.conns[id]
	return c, ok
}

// ContainsID reports whether any gene, node or connection, carries the
// identity.
func (g *Genome) ContainsID(id gene.ID) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	_, ok := g.conns[id]
	return ok
}

// InputIDs returns the fixed input node identities in construction order.
func (g *Genome) InputIDs() []gene.ID {
	return append([]gene.ID(nil), g.inputs...)
}

// OutputIDs returns the fixed output node identities in construction order.
func (g *Genome) OutputIDs() []gene.ID {
	return append([]gene.ID(nil), g.outputs...)
}

// HiddenIDs returns the hidden node identities in ascending order.
func (g *Genome) HiddenIDs() []gene.ID {
	ids := make([]gene.ID, 0, len(g.nodes)-len(g.inputs)-len(g.outputs))
	for id, n := range g.nodes {
		if n.Role == gene.RoleHidden {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// ConnectionIDs returns all connection identities in ascending order. Every
// random choice the operators make draws from this ordering, which is what
// makes mutation reproducible under a fixed seed.
func (g *Genome) ConnectionIDs() []gene.ID {
	ids := make([]gene.ID, 0, len(g.conns))
	for id := range g.conns {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Nodes returns all node genes in ascending identity order.
func (g *Genome) Nodes() []gene.Node {
	nodes := make([]gene.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Connections returns all connection genes in ascending identity order.
func (g *Genome) Connections() []*gene.Connection {
	conns := make([]*gene.Connection, 0, len(g.conns))
	for _, c := range g.conns {
		conns = append(conns, c)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	return conns
}

// HasPair reports whether a connection with the given endpoints exists.
func (g *Genome) HasPair(source, target gene.ID) bool {
	_, ok := g.pairs[gene.Pair{Source: source, Target: target}]
	return ok
}

// DecodedWeight returns the scaled weight of a connection, for consumers
// that materialize a runnable network from the genome.
func (g *Genome) DecodedWeight(id gene.ID) (float64, bool) {
	c, ok := g.conns[id]
	if !ok {
		return 0, false
	}
	return weight.Codec{Scale: g.cfg.WeightScale}.Decode(c.Weight), true
}

// AddHiddenNode inserts a hidden node gene. Input and output genes only ever
// enter a genome through New or crossover.
func (g *Genome) AddHiddenNode(n gene.Node) error {
	if n.Role != gene.RoleHidden {
		return fmt.Errorf("%w: cannot add %s node %d", ErrFixedNode, n.Role, n.ID)
	}
	if g.ContainsID(n.ID) {
		return fmt.Errorf("%w: %d", ErrDuplicateID, n.ID)
	}
	g.nodes[n.ID] = n
	return nil
}

// AddConnection inserts a connection gene after checking every structural
// invariant: unique identity, known endpoints, unique endpoint pair, the
// self-loop policy and the acyclicity policy.
func (g *Genome) AddConnection(c *gene.Connection) error {
	if g.ContainsID(c.ID) {
		return fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
	}
	if _, ok := g.nodes[c.Source]; !ok {
		return fmt.Errorf("%w: source %d", ErrUnknownEndpoint, c.Source)
	}
	if _, ok := g.nodes[c.Target]; !ok {
		return fmt.Errorf("%w: target %d", ErrUnknownEndpoint, c.Target)
	}
	if c.Source == c.Target && (g.cfg.FeedForward || !g.cfg.AllowSelfLoops) {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, c.Source)
	}
	if g.HasPair(c.Source, c.Target) {
		return fmt.Errorf("%w: %d->%d", ErrDuplicatePair, c.Source, c.Target)
	}
	if g.cfg.FeedForward && g.WouldFormCycle(c.Source, c.Target) {
		return fmt.Errorf("%w: %d->%d", ErrWouldCycle, c.Source, c.Target)
	}

	g.conns[c.ID] = c
	g.pairs[c.Pair()] = c.ID
	return nil
}

// RemoveConnection removes a connection gene. Its endpoint nodes stay.
func (g *Genome) RemoveConnection(id gene.ID) error {
	c, ok := g.conns[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownConnection, id)
	}
	delete(g.conns, id)
	delete(g.pairs, c.Pair())
	return nil
}

// RemoveNode removes a hidden node gene and cascade-removes every connection
// referencing it as source or target.
func (g *Genome) RemoveNode(id gene.ID) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if n.Role != gene.RoleHidden {
		return fmt.Errorf("%w: cannot remove %s node %d", ErrFixedNode, n.Role, id)
	}

	for connID, c := range g.conns {
		if c.Source == id || c.Target == id {
			delete(g.conns, connID)
			delete(g.pairs, c.Pair())
		}
	}
	delete(g.nodes, id)
	return nil
}

// WouldFormCycle reports whether adding source->target would close a
// directed cycle through the existing connection set. A self-loop always
// counts as a cycle.
func (g *Genome) WouldFormCycle(source, target gene.ID) bool {
	if source == target {
		return true
	}

	toVisit := []gene.ID{target}
	visited := make(map[gene.ID]bool)
	for len(toVisit) > 0 {
		node := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, c := range g.conns {
			if c.Source != node {
				continue
			}
			if c.Target == source {
				return true
			}
			toVisit = append(toVisit, c.Target)
		}
	}
	return false
}

// Clone returns a deep copy, including independent weight patterns.
func (g *Genome) Clone() *Genome {
	out := empty(g.cfg)
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	for id, c := range g.conns {
		out.conns[id] = c.Clone()
	}
	for pair, id := range g.pairs {
		out.pairs[pair] = id
	}
	out.inputs = append([]gene.ID(nil), g.inputs...)
	out.outputs = append([]gene.ID(nil), g.outputs...)
	return out
}

func sortIDs(ids []gene.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
