// Package record holds the versioned, language-neutral serialization form of
// genomes and registry state. Records round-trip every field exactly,
// including raw weight bit patterns, so a persisted genome reproduces the
// same decoded weights at the same resolution when loaded back.
package record

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is the serialized form of one genome.
type Genome struct {
	VersionedRecord
	ID           string       `json:"id"`
	CreatedAtUTC string       `json:"created_at_utc,omitempty"`
	Config       GenomeConfig `json:"config"`
	Nodes        []Node       `json:"nodes"`
	Connections  []Connection `json:"connections"`
}

// GenomeConfig carries the construction-time policy of a genome.
type GenomeConfig struct {
	Resolution     int     `json:"resolution"`
	MaxResolution  int     `json:"max_resolution"`
	FeedForward    bool    `json:"feed_forward"`
	AllowSelfLoops bool    `json:"allow_self_loops"`
	WeightScale    float64 `json:"weight_scale"`
}

// Node is the serialized form of one node gene.
type Node struct {
	ID   uint64 `json:"id"`
	Role string `json:"role"`
}

// Connection is the serialized form of one connection gene.
type Connection struct {
	ID     uint64 `json:"id"`
	Source uint64 `json:"source"`
	Target uint64 `json:"target"`
	Weight Weight `json:"weight"`
}

// Weight is the raw bit pattern of a connection weight: the bit length plus
// the 64-bit words backing the pattern, least significant bit first.
type Weight struct {
	Bits  int      `json:"bits"`
	Words []uint64 `json:"words"`
}

// Registry is the serialized identity-registry state for one run.
type Registry struct {
	VersionedRecord
	Next   uint64  `json:"next"`
	Splits []Split `json:"splits,omitempty"`
}

// Split is one cached split-innovation entry: the identity triples minted for
// splitting a given connection.
type Split struct {
	Connection uint64       `json:"connection"`
	Entries    []SplitEntry `json:"entries"`
}

// SplitEntry is one minted identity triple.
type SplitEntry struct {
	Node     uint64 `json:"node"`
	Inbound  uint64 `json:"inbound"`
	Outbound uint64 `json:"outbound"`
}
