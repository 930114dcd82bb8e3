package storage

import (
	"context"
	"sort"
	"sync"

	"setgenome/record"
)

type MemoryStore struct {
	mu         sync.RWMutex
	genomes    map[string]record.Genome
	registries map[string]record.Registry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.genomes = make(map[string]record.Genome)
	s.registries = make(map[string]record.Registry)
	return nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, genome record.Genome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.genomes[genome.ID] = genome
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, id string) (record.Genome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genome, ok := s.genomes[id]
	return genome, ok, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.genomes))
	for id := range s.genomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) DeleteGenome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.genomes, id)
	return nil
}

func (s *MemoryStore) SaveRegistry(_ context.Context, runID string, reg record.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registries[runID] = reg
	return nil
}

func (s *MemoryStore) GetRegistry(_ context.Context, runID string) (record.Registry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registries[runID]
	return reg, ok, nil
}
