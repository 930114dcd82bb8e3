package genome

import (
	"math"
	"math/rand"
	"testing"

	"setgenome/gene"
)

func TestCompatibilityDistanceIdenticalGenomesIsZero(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(1))
	g := newTestGenome(t, reg, testConfig())
	mustAdd(t, g, gene.NewConnection(reg.Next(), g.inputs[0], g.outputs[0], mustPattern(t, 1, 0.5, rng)))

	if d := CompatibilityDistance(g, g.Clone(), 1, 1); d != 0 {
		t.Fatalf("distance = %f, want 0", d)
	}
}

func TestCompatibilityDistanceDisjointOnly(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(2))

	a := newTestGenome(t, reg, testConfig())
	b := a.Clone()
	mustAdd(t, a, gene.NewConnection(reg.Next(), a.inputs[0], a.outputs[0], mustPattern(t, 1, 0.5, rng)))
	mustAdd(t, b, gene.NewConnection(reg.Next(), b.inputs[1], b.outputs[0], mustPattern(t, 1, 0.5, rng)))

	// No matching genes: the gene term saturates and the weight term is zero.
	if d := CompatibilityDistance(a, b, 1, 1); math.Abs(d-0.5) > 1e-12 {
		t.Fatalf("distance = %f, want 0.5", d)
	}
	if d := CompatibilityDistance(a, b, 1, 0); math.Abs(d-1) > 1e-12 {
		t.Fatalf("gene-only distance = %f, want 1", d)
	}
}

func TestCompatibilityDistanceWeightTerm(t *testing.T) {
	reg := gene.NewRegistry()
	rng := rand.New(rand.NewSource(3))

	a := newTestGenome(t, reg, testConfig())
	b := a.Clone()
	shared := reg.Next()
	mustAdd(t, a, gene.NewConnection(shared, a.inputs[0], a.outputs[0], mustPattern(t, 1, 1, rng)))
	mustAdd(t, b, gene.NewConnection(shared, b.inputs[0], b.outputs[0], mustPattern(t, 1, -1, rng)))

	// One matched gene at maximum weight difference.
	if d := CompatibilityDistance(a, b, 0, 1); math.Abs(d-1) > 1e-12 {
		t.Fatalf("weight-only distance = %f, want 1", d)
	}
	if d := CompatibilityDistance(a, b, 0, 0); d != 0 {
		t.Fatalf("zero factors distance = %f, want 0", d)
	}

	symmetric := CompatibilityDistance(b, a, 1, 1)
	if d := CompatibilityDistance(a, b, 1, 1); math.Abs(d-symmetric) > 1e-12 {
		t.Fatalf("distance is asymmetric: %f vs %f", d, symmetric)
	}
}
