// Package setgenome is the embedding surface of the library: one Session
// bundles the run parameters, the shared identity registry, the random source
// and a persistence backend behind a small API.
package setgenome

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"setgenome/gene"
	"setgenome/genome"
	"setgenome/internal/storage"
	"setgenome/mutation"
	"setgenome/params"
	"setgenome/record"
	"setgenome/weight"
)

const defaultDBPath = "setgenome.db"

// Options configures session construction beyond the run parameters.
type Options struct {
	// StoreKind selects the persistence backend: "memory" (default) or
	// "sqlite".
	StoreKind string
	DBPath    string
	// RunID keys the persisted identity-registry state; defaults to "default".
	RunID string
}

// Session is one evolutionary run: every genome it creates shares its
// identity registry, so genes are alignable across the whole run. Session
// methods that touch the random source or the registry are not safe for
// concurrent use.
type Session struct {
	params   *params.Parameters
	ids      *gene.Registry
	rng      *rand.Rand
	sampler  *weight.Sampler
	pipeline *mutation.Pipeline
	policy   genome.DisjointPolicy
	store    storage.Store
	runID    string
}

// New builds a session from validated parameters. Passing nil parameters
// uses the embedded defaults.
func New(p *params.Parameters, opts Options) (*Session, error) {
	if p == nil {
		var err error
		p, err = params.Default()
		if err != nil {
			return nil, err
		}
	} else if err := p.Validate(); err != nil {
		return nil, err
	}

	policy, err := genome.ParseDisjointPolicy(p.Crossover.DisjointPolicy)
	if err != nil {
		return nil, err
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = "default"
	}

	s := &Session{
		params:  p,
		ids:     gene.NewRegistry(),
		rng:     rand.New(rand.NewSource(int64(p.Seed))),
		sampler: weight.NewSampler(p.Seed, p.Structure.WeightStdDev),
		policy:  policy,
		store:   store,
		runID:   runID,
	}

	deps := mutation.Deps{Rand: s.rng, IDs: s.ids, Sampler: s.sampler}
	steps := make([]mutation.Step, 0, len(p.Mutations))
	for _, spec := range p.Mutations {
		op, err := mutation.NewOperator(spec.Name, deps, spec.Options)
		if err != nil {
			return nil, fmt.Errorf("mutation %q: %w", spec.Name, err)
		}
		steps = append(steps, mutation.Step{Chance: spec.Chance, Operator: op})
	}
	s.pipeline = &mutation.Pipeline{Rand: s.rng, Steps: steps}
	return s, nil
}

// Init prepares the persistence backend.
func (s *Session) Init(ctx context.Context) error {
	return s.store.Init(ctx)
}

// Close releases the persistence backend.
func (s *Session) Close() error {
	return storage.CloseIfSupported(s.store)
}

// Registry exposes the shared identity registry, for callers that construct
// genomes outside the session.
func (s *Session) Registry() *gene.Registry {
	return s.ids
}

func (s *Session) genomeConfig() genome.Config {
	st := s.params.Structure
	return genome.Config{
		Inputs:         st.Inputs,
		Outputs:        st.Outputs,
		Resolution:     st.Resolution,
		MaxResolution:  st.MaxResolution,
		FeedForward:    st.FeedForward,
		AllowSelfLoops: st.AllowSelfLoops,
		WeightScale:    st.WeightScale,
	}
}

// UninitializedGenome creates a genome with the configured input and output
// nodes and no connections.
func (s *Session) UninitializedGenome() (*genome.Genome, error) {
	return genome.New(s.ids, s.genomeConfig())
}

// InitializedGenome creates a genome and wires the configured share of its
// inputs to every output with sampled weights.
func (s *Session) InitializedGenome() (*genome.Genome, error) {
	g, err := s.UninitializedGenome()
	if err != nil {
		return nil, err
	}
	if err := g.Init(s.ids, s.params.Structure.ConnectedPercent, s.sampler, s.rng); err != nil {
		return nil, err
	}
	return g, nil
}

// Mutate runs one pass of the configured mutation pipeline over the genome
// and reports whether anything changed.
func (s *Session) Mutate(g *genome.Genome) (bool, error) {
	return s.pipeline.Apply(g)
}

// Crossover recombines two parents under the configured disjoint-gene
// policy. Pass the fitter parent first when the policy is prefer_first.
func (s *Session) Crossover(a, b *genome.Genome) (*genome.Genome, error) {
	return genome.Crossover(a, b, s.policy, s.rng)
}

// Distance returns the compatibility distance between two genomes with equal
// gene and weight weighting.
func (s *Session) Distance(a, b *genome.Genome) float64 {
	return genome.CompatibilityDistance(a, b, 1, 1)
}

// SaveGenome persists a genome and returns its storage ID. An empty id
// assigns a fresh one.
func (s *Session) SaveGenome(ctx context.Context, id string, g *genome.Genome) (string, error) {
	if g == nil {
		return "", errors.New("genome is required")
	}
	if id == "" {
		id = uuid.NewString()
	}

	rec := g.Record()
	rec.ID = id
	rec.CreatedAtUTC = time.Now().UTC().Format(time.RFC3339Nano)
	storage.Stamp(&rec.VersionedRecord)

	if err := s.store.SaveGenome(ctx, rec); err != nil {
		return "", err
	}
	return id, nil
}

// LoadGenome rebuilds a persisted genome, re-validating every invariant.
func (s *Session) LoadGenome(ctx context.Context, id string) (*genome.Genome, error) {
	rec, ok, err := s.store.GetGenome(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("genome not found: %s", id)
	}
	return genome.FromRecord(rec)
}

// LoadGenomeRecord returns the raw persisted form of a genome, used by
// export surfaces.
func (s *Session) LoadGenomeRecord(ctx context.Context, id string) (record.Genome, error) {
	rec, ok, err := s.store.GetGenome(ctx, id)
	if err != nil {
		return record.Genome{}, err
	}
	if !ok {
		return record.Genome{}, fmt.Errorf("genome not found: %s", id)
	}
	return rec, nil
}

// ImportGenomeRecord persists an externally produced genome record after
// checking it rebuilds into a valid genome.
func (s *Session) ImportGenomeRecord(ctx context.Context, rec record.Genome) (string, error) {
	g, err := genome.FromRecord(rec)
	if err != nil {
		return "", err
	}
	return s.SaveGenome(ctx, rec.ID, g)
}

// ListGenomes returns the IDs of all persisted genomes, sorted.
func (s *Session) ListGenomes(ctx context.Context) ([]string, error) {
	return s.store.ListGenomes(ctx)
}

// DeleteGenome removes a persisted genome.
func (s *Session) DeleteGenome(ctx context.Context, id string) error {
	return s.store.DeleteGenome(ctx, id)
}

// PersistRegistry saves the identity-registry state so a later session can
// continue the run without reissuing identities.
func (s *Session) PersistRegistry(ctx context.Context) error {
	snap := s.ids.Snapshot()

	rec := record.Registry{Next: uint64(snap.Next)}
	for conn, entries := range snap.Splits {
		split := record.Split{Connection: uint64(conn)}
		for _, e := range entries {
			split.Entries = append(split.Entries, record.SplitEntry{
				Node:     uint64(e.Node),
				Inbound:  uint64(e.Inbound),
				Outbound: uint64(e.Outbound),
			})
		}
		rec.Splits = append(rec.Splits, split)
	}
	storage.Stamp(&rec.VersionedRecord)
	return s.store.SaveRegistry(ctx, s.runID, rec)
}

// RestoreRegistry replaces the session registry with persisted state. It
// reports false without changing anything when no state was saved under the
// session's run ID.
func (s *Session) RestoreRegistry(ctx context.Context) (bool, error) {
	rec, ok, err := s.store.GetRegistry(ctx, s.runID)
	if err != nil || !ok {
		return false, err
	}

	snap := gene.RegistrySnapshot{
		Next:   gene.ID(rec.Next),
		Splits: make(map[gene.ID][]gene.SplitIDs, len(rec.Splits)),
	}
	for _, split := range rec.Splits {
		entries := make([]gene.SplitIDs, 0, len(split.Entries))
		for _, e := range split.Entries {
			entries = append(entries, gene.SplitIDs{
				Node:     gene.ID(e.Node),
				Inbound:  gene.ID(e.Inbound),
				Outbound: gene.ID(e.Outbound),
			})
		}
		snap.Splits[gene.ID(split.Connection)] = entries
	}
	s.ids.Restore(snap)
	return true, nil
}
