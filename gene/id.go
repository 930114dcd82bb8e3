// Package gene defines the atomic units of the set-encoded genome: globally
// unique gene identities, node genes and connection genes. Identity equality
// is the only basis on which genes are matched across genomes.
package gene

import "sync"

// ID is the historical identity of a gene. IDs are issued by a Registry,
// strictly increase over its lifetime and are never reused, so two genes in
// different genomes carrying the same ID describe the same innovation.
type ID uint64

// SplitIDs is the identity triple minted when a connection is split by an
// add-node mutation: the new hidden node and the two connections that route
// around it.
type SplitIDs struct {
	Node     ID
	Inbound  ID
	Outbound ID
}

// Registry issues gene identities for one evolutionary run. Every genome
// participating in the run must share a single registry; access is serialized
// so populations may be mutated from multiple goroutines.
//
// The registry also caches the identity triples handed out for connection
// splits. Splitting the same inherited connection in two independently
// mutated genomes therefore yields identical identities, which keeps those
// structurally identical mutations alignable during crossover.
type Registry struct {
	mu     sync.Mutex
	next   ID
	splits map[ID][]SplitIDs
}

// NewRegistry returns an empty registry starting at identity 0.
func NewRegistry() *Registry {
	return &Registry{splits: make(map[ID][]SplitIDs)}
}

// Next returns a fresh identity. No two calls ever return the same value.
func (r *Registry) Next() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issue()
}

func (r *Registry) issue() ID {
	id := r.next
	r.next++
	return id
}

// Split returns the identity triple for splitting the given connection.
// Cached triples are replayed in mint order; taken filters out triples whose
// node identity is already present in the caller's genome, which matters when
// one genome splits the same connection more than once. A new triple is
// minted and cached when every cached one is taken.
func (r *Registry) Split(conn ID, taken func(ID) bool) SplitIDs {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cached := range r.splits[conn] {
		if taken == nil || !taken(cached.Node) {
			return cached
		}
	}

	minted := SplitIDs{Node: r.issue(), Inbound: r.issue(), Outbound: r.issue()}
	r.splits[conn] = append(r.splits[conn], minted)
	return minted
}

// RegistrySnapshot is a copyable view of registry state, used to persist
// identity uniqueness across runs.
type RegistrySnapshot struct {
	Next   ID
	Splits map[ID][]SplitIDs
}

// Snapshot returns a deep copy of the registry state.
func (r *Registry) Snapshot() RegistrySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	splits := make(map[ID][]SplitIDs, len(r.splits))
	for conn, entries := range r.splits {
		splits[conn] = append([]SplitIDs(nil), entries...)
	}
	return RegistrySnapshot{Next: r.next, Splits: splits}
}

// Restore replaces the registry state with a snapshot. Shared holders of the
// registry pointer observe the restored state immediately.
func (r *Registry) Restore(snap RegistrySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next = snap.Next
	r.splits = make(map[ID][]SplitIDs, len(snap.Splits))
	for conn, entries := range snap.Splits {
		r.splits[conn] = append([]SplitIDs(nil), entries...)
	}
}

// RestoreRegistry rebuilds a registry from a snapshot.
func RestoreRegistry(snap RegistrySnapshot) *Registry {
	splits := make(map[ID][]SplitIDs, len(snap.Splits))
	for conn, entries := range snap.Splits {
		splits[conn] = append([]SplitIDs(nil), entries...)
	}
	return &Registry{next: snap.Next, splits: splits}
}
