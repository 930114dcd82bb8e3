package setgenome

import (
	"context"
	"testing"

	"setgenome/params"
)

func newTestSession(t *testing.T, mutate func(*params.Parameters)) *Session {
	t.Helper()

	p, err := params.Default()
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	if mutate != nil {
		mutate(p)
	}

	session, err := New(p, Options{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Init(context.Background()); err != nil {
		t.Fatalf("init session: %v", err)
	}
	t.Cleanup(func() {
		if err := session.Close(); err != nil {
			t.Errorf("close session: %v", err)
		}
	})
	return session
}

func TestSessionCreatesGenomesFromParameters(t *testing.T) {
	session := newTestSession(t, nil)

	bare, err := session.UninitializedGenome()
	if err != nil {
		t.Fatalf("uninitialized genome: %v", err)
	}
	if bare.Len() != 0 {
		t.Fatalf("uninitialized genome has %d connections", bare.Len())
	}

	g, err := session.InitializedGenome()
	if err != nil {
		t.Fatalf("initialized genome: %v", err)
	}
	// Defaults: 2 inputs fully connected to 1 output.
	if g.Len() != 2 {
		t.Fatalf("connections = %d, want 2", g.Len())
	}
}

func TestSessionRejectsInvalidParameters(t *testing.T) {
	p, err := params.Default()
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	p.Structure.Inputs = 0
	if _, err := New(p, Options{}); err == nil {
		t.Fatal("invalid parameters accepted")
	}

	p, _ = params.Default()
	p.Mutations = append(p.Mutations, params.OperatorSpec{Name: "transmogrify", Chance: 0.1})
	if _, err := New(p, Options{}); err == nil {
		t.Fatal("unknown mutation accepted")
	}
}

func TestSessionMutateAndCrossover(t *testing.T) {
	session := newTestSession(t, func(p *params.Parameters) {
		p.Crossover.DisjointPolicy = "inherit_all"
	})

	a, err := session.InitializedGenome()
	if err != nil {
		t.Fatalf("genome a: %v", err)
	}
	b := a.Clone()
	for i := 0; i < 10; i++ {
		if _, err := session.Mutate(b); err != nil {
			t.Fatalf("mutate pass %d: %v", i, err)
		}
	}

	child, err := session.Crossover(a, b)
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	for _, id := range child.ConnectionIDs() {
		_, inA := a.Connection(id)
		_, inB := b.Connection(id)
		if !inA && !inB {
			t.Fatalf("offspring gene %d fabricated", id)
		}
	}
	if d := session.Distance(a, a.Clone()); d != 0 {
		t.Fatalf("self distance = %f, want 0", d)
	}
}

func TestSessionPersistsGenomes(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, nil)

	g, err := session.InitializedGenome()
	if err != nil {
		t.Fatalf("genome: %v", err)
	}

	id, err := session.SaveGenome(ctx, "", g)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("save returned empty id")
	}

	loaded, err := session.LoadGenome(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != g.Len() || loaded.NodeCount() != g.NodeCount() {
		t.Fatalf("loaded shape = (%d, %d), want (%d, %d)",
			loaded.NodeCount(), loaded.Len(), g.NodeCount(), g.Len())
	}
	for _, cid := range g.ConnectionIDs() {
		orig, _ := g.Connection(cid)
		got, ok := loaded.Connection(cid)
		if !ok || !got.Weight.Equal(orig.Weight) {
			t.Fatalf("connection %d did not round-trip", cid)
		}
	}

	ids, err := session.ListGenomes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("ids = %v, want [%s]", ids, id)
	}

	rec, err := session.LoadGenomeRecord(ctx, id)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if rec.CreatedAtUTC == "" || rec.SchemaVersion == 0 {
		t.Fatalf("record not stamped: %+v", rec.VersionedRecord)
	}

	if err := session.DeleteGenome(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := session.LoadGenome(ctx, id); err == nil {
		t.Fatal("deleted genome still loads")
	}
}

func TestSessionRegistryPersistence(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, nil)

	restored, err := session.RestoreRegistry(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored {
		t.Fatal("restore reported state before any persist")
	}

	if _, err := session.InitializedGenome(); err != nil {
		t.Fatalf("genome: %v", err)
	}
	next := session.Registry().Next()

	if err := session.PersistRegistry(ctx); err != nil {
		t.Fatalf("persist: %v", err)
	}
	restored, err = session.RestoreRegistry(ctx)
	if err != nil || !restored {
		t.Fatalf("restore = (%v, %v), want (true, nil)", restored, err)
	}

	// The restored counter continues past every identity issued before the
	// persist; nothing is reissued.
	if got := session.Registry().Next(); got <= next {
		t.Fatalf("restored registry reissued identity %d after %d", got, next)
	}
}
