package storage

import (
	"errors"
	"testing"

	"setgenome/record"
)

func stampedGenome(id string) record.Genome {
	g := record.Genome{
		ID: id,
		Config: record.GenomeConfig{
			Resolution:    1,
			MaxResolution: 4,
			FeedForward:   true,
			WeightScale:   1,
		},
		Nodes: []record.Node{
			{ID: 0, Role: "input"},
			{ID: 1, Role: "output"},
		},
		Connections: []record.Connection{
			{ID: 2, Source: 0, Target: 1, Weight: record.Weight{Bits: 64, Words: []uint64{0xF0F0F0F0F0F0F0F0}}},
		},
	}
	Stamp(&g.VersionedRecord)
	return g
}

func stampedRegistry(next uint64) record.Registry {
	reg := record.Registry{
		Next: next,
		Splits: []record.Split{
			{Connection: 2, Entries: []record.SplitEntry{{Node: 3, Inbound: 4, Outbound: 5}}},
		},
	}
	Stamp(&reg.VersionedRecord)
	return reg
}

func TestGenomeCodecRoundTrip(t *testing.T) {
	genome := stampedGenome("g-1")

	payload, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode genome: %v", err)
	}
	decoded, err := DecodeGenome(payload)
	if err != nil {
		t.Fatalf("decode genome: %v", err)
	}

	if decoded.ID != genome.ID {
		t.Fatalf("id = %q, want %q", decoded.ID, genome.ID)
	}
	if len(decoded.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(decoded.Connections))
	}
	got := decoded.Connections[0].Weight
	if got.Bits != 64 || len(got.Words) != 1 || got.Words[0] != 0xF0F0F0F0F0F0F0F0 {
		t.Fatalf("weight pattern did not round-trip: %+v", got)
	}
}

func TestDecodeGenomeRejectsVersionMismatch(t *testing.T) {
	genome := stampedGenome("g-2")
	genome.SchemaVersion = CurrentSchemaVersion + 1

	payload, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode genome: %v", err)
	}
	if _, err := DecodeGenome(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestRegistryCodecRoundTrip(t *testing.T) {
	reg := record.Registry{
		Next: 9,
		Splits: []record.Split{
			{Connection: 2, Entries: []record.SplitEntry{{Node: 3, Inbound: 4, Outbound: 5}}},
		},
	}
	Stamp(&reg.VersionedRecord)

	payload, err := EncodeRegistry(reg)
	if err != nil {
		t.Fatalf("encode registry: %v", err)
	}
	decoded, err := DecodeRegistry(payload)
	if err != nil {
		t.Fatalf("decode registry: %v", err)
	}

	if decoded.Next != 9 {
		t.Fatalf("next = %d, want 9", decoded.Next)
	}
	if len(decoded.Splits) != 1 || decoded.Splits[0].Entries[0].Inbound != 4 {
		t.Fatalf("splits did not round-trip: %+v", decoded.Splits)
	}
}

func TestDecodeRegistryRejectsVersionMismatch(t *testing.T) {
	reg := record.Registry{Next: 1}
	reg.SchemaVersion = CurrentSchemaVersion
	reg.CodecVersion = CurrentCodecVersion + 1

	payload, err := EncodeRegistry(reg)
	if err != nil {
		t.Fatalf("encode registry: %v", err)
	}
	if _, err := DecodeRegistry(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}
