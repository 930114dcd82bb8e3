package genome

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"setgenome/gene"
)

// twoParents builds parents sharing their fixed nodes and one connection
// identity carrying different weights, plus one disjoint connection each.
func twoParents(t *testing.T, reg *gene.Registry, rng *rand.Rand) (*Genome, *Genome, gene.ID) {
	t.Helper()

	cfg := testConfig()
	a := newTestGenome(t, reg, cfg)

	b := empty(cfg)
	b.inputs = a.InputIDs()
	b.outputs = a.OutputIDs()
	for _, id := range b.inputs {
		b.nodes[id], _ = a.Node(id)
	}
	for _, id := range b.outputs {
		b.nodes[id], _ = a.Node(id)
	}

	in0, in1, out := a.inputs[0], a.inputs[1], a.outputs[0]

	shared := reg.Next()
	mustAdd(t, a, gene.NewConnection(shared, in0, out, mustPattern(t, 1, 0.4, rng)))
	mustAdd(t, b, gene.NewConnection(shared, in0, out, mustPattern(t, 1, -0.2, rng)))

	mustAdd(t, a, gene.NewConnection(reg.Next(), in1, out, mustPattern(t, 1, 0.9, rng)))

	hb := gene.NewNode(reg.Next(), gene.RoleHidden)
	if err := b.AddHiddenNode(hb); err != nil {
		t.Fatalf("add hidden: %v", err)
	}
	mustAdd(t, b, gene.NewConnection(reg.Next(), in1, hb.ID, mustPattern(t, 1, -0.5, rng)))
	mustAdd(t, b, gene.NewConnection(reg.Next(), hb.ID, out, mustPattern(t, 1, 0.1, rng)))

	return a, b, shared
}

func TestCrossoverPicksWholePatternsForMatchedGenes(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(1))
	a, b, shared := twoParents(t, reg, rng)

	sawA, sawB := false, false
	for seed := int64(0); seed < 32; seed++ {
		child, err := Crossover(a, b, PreferFirst, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("crossover: %v", err)
		}
		got, ok := child.Connection(shared)
		if !ok {
			t.Fatal("matched gene missing from offspring")
		}

		ca, _ := a.Connection(shared)
		cb, _ := b.Connection(shared)
		switch {
		case got.Weight.Equal(ca.Weight):
			sawA = true
		case got.Weight.Equal(cb.Weight):
			sawB = true
		default:
			t.Fatalf("matched gene weight %f is neither parent's pattern", got.Weight.Value())
		}
	}
	if !sawA || !sawB {
		t.Fatalf("coin flip never chose both parents over 32 seeds (a=%v b=%v)", sawA, sawB)
	}
}

func TestCrossoverDisjointPolicies(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(2))
	a, b, _ := twoParents(t, reg, rng)

	prefer, err := Crossover(a, b, PreferFirst, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	for _, id := range prefer.ConnectionIDs() {
		if _, inA := a.Connection(id); !inA {
			t.Fatalf("prefer_first inherited %d from the second parent", id)
		}
	}

	all, err := Crossover(a, b, InheritAll, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if all.Len() <= prefer.Len() {
		t.Fatalf("inherit_all kept %d genes, prefer_first kept %d", all.Len(), prefer.Len())
	}
	for _, id := range all.ConnectionIDs() {
		_, inA := a.Connection(id)
		_, inB := b.Connection(id)
		if !inA && !inB {
			t.Fatalf("offspring gene %d fabricated", id)
		}
	}

	// Hidden nodes arrive only via the connections that reference them.
	for _, id := range all.HiddenIDs() {
		used := false
		for _, c := range all.Connections() {
			if c.Source == id || c.Target == id {
				used = true
				break
			}
		}
		if !used {
			t.Fatalf("offspring carries unconnected hidden node %d", id)
		}
	}
}

func TestCrossoverIsDeterministic(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(4))
	a, b, _ := twoParents(t, reg, rng)

	first, err := Crossover(a, b, InheritAll, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	second, err := Crossover(a, b, InheritAll, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if !reflect.DeepEqual(first.Record(), second.Record()) {
		t.Fatal("same seed produced different offspring")
	}
}

func TestCrossoverValidatesParents(t *testing.T) {
	regA, regB := gene.NewRegistry(), gene.NewRegistry()
	rng := rand.New(rand.NewSource(5))

	a := newTestGenome(t, regA, testConfig())
	cfg := testConfig()
	cfg.Inputs = 3
	other := newTestGenome(t, regB, cfg)

	if _, err := Crossover(a, other, PreferFirst, rng); !errors.Is(err, ErrIncompatibleParents) {
		t.Fatalf("err = %v, want ErrIncompatibleParents", err)
	}
	if _, err := Crossover(a, a, PreferFirst, nil); !errors.Is(err, ErrNilRand) {
		t.Fatalf("err = %v, want ErrNilRand", err)
	}
}

func TestCrossoverDropsInvariantBreakingGenes(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(6))

	cfg := testConfig()
	a := newTestGenome(t, reg, cfg)
	in, out := a.inputs[0], a.outputs[0]

	b := empty(cfg)
	b.inputs = a.InputIDs()
	b.outputs = a.OutputIDs()
	for _, id := range append(b.inputs, b.outputs...) {
		b.nodes[id], _ = a.Node(id)
	}

	// Same endpoint pair under two different identities, one per parent. Both
	// are disjoint, so inherit_all must drop the later one instead of
	// breaking pair uniqueness.
	mustAdd(t, a, gene.NewConnection(reg.Next(), in, out, mustPattern(t, 1, 0.3, rng)))
	mustAdd(t, b, gene.NewConnection(reg.Next(), in, out, mustPattern(t, 1, -0.3, rng)))

	child, err := Crossover(a, b, InheritAll, rng)
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if child.Len() != 1 {
		t.Fatalf("offspring has %d connections, want 1", child.Len())
	}
	if !child.HasPair(in, out) {
		t.Fatal("offspring lost the pair entirely")
	}
}
