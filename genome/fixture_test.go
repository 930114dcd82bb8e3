package genome

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"setgenome/gene"
	"setgenome/record"
)

// The fixture is a hand-written persisted genome: two inputs, one output, one
// hidden node, three connections with known bit patterns. It pins the on-disk
// format so codec drift shows up as a test failure, not a silent re-encode.
func TestLoadGenomeFixture(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "fixtures", "genome.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var rec record.Genome
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	g, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if g.NodeCount() != 4 || g.Len() != 3 {
		t.Fatalf("loaded %d nodes, %d connections, want 4 and 3", g.NodeCount(), g.Len())
	}
	if hidden := g.HiddenIDs(); len(hidden) != 1 || hidden[0] != gene.ID(3) {
		t.Fatalf("hidden ids = %v, want [3]", hidden)
	}

	// Ones counts 32, 64 and 48 over 64 bits decode to 0, 1 and 0.5.
	for _, tc := range []struct {
		id   gene.ID
		want float64
	}{
		{4, 0},
		{5, 1},
		{6, 0.5},
	} {
		got, ok := g.DecodedWeight(tc.id)
		if !ok {
			t.Fatalf("connection %d missing", tc.id)
		}
		if got != tc.want {
			t.Errorf("connection %d decodes to %v, want %v", tc.id, got, tc.want)
		}
	}

	// Serializing the loaded genome must reproduce the fixture's gene sets.
	out := g.Record()
	out.VersionedRecord = rec.VersionedRecord
	out.ID = rec.ID
	out.CreatedAtUTC = rec.CreatedAtUTC
	gotJSON, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wantJSON, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("round trip diverged from fixture:\n got %s\nwant %s", gotJSON, wantJSON)
	}
}
