package gene

import (
	"fmt"

	"setgenome/weight"
)

// Pair is the ordered (source, target) endpoint pair of a connection. At most
// one connection gene may exist per pair within a genome.
type Pair struct {
	Source ID
	Target ID
}

// Connection is a connection gene: a directed edge between two node genes.
// Identity and endpoints are immutable once created; only the weight pattern
// mutates in place.
type Connection struct {
	ID     ID
	Source ID
	Target ID
	Weight weight.Pattern
}

func NewConnection(id, source, target ID, w weight.Pattern) *Connection {
	return &Connection{ID: id, Source: source, Target: target, Weight: w}
}

// Pair returns the endpoint pair of the connection.
func (c *Connection) Pair() Pair {
	return Pair{Source: c.Source, Target: c.Target}
}

// Clone returns a deep copy, including an independent weight pattern.
func (c *Connection) Clone() *Connection {
	return &Connection{ID: c.ID, Source: c.Source, Target: c.Target, Weight: c.Weight.Clone()}
}

func (c *Connection) String() string {
	return fmt.Sprintf("connection(%d: %d->%d, weight %.3f)", c.ID, c.Source, c.Target, c.Weight.Value())
}
