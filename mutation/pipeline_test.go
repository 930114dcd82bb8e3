package mutation

import (
	"math/rand"
	"reflect"
	"testing"

	"setgenome/gene"
	"setgenome/genome"
	"setgenome/weight"
)

func buildPipeline(seed int64, reg *gene.Registry) *Pipeline {
	rng := rand.New(rand.NewSource(seed))
	sampler := weight.NewSampler(uint64(seed), 0.35)
	return &Pipeline{
		Rand: rng,
		Steps: []Step{
			{Chance: 1, Operator: &MutateWeights{Rand: rng, Rate: 0.05}},
			{Chance: 0.5, Operator: &AddConnection{Rand: rng, IDs: reg, Sampler: sampler}},
			{Chance: 0.25, Operator: &AddNode{Rand: rng, IDs: reg, Sampler: sampler}},
			{Chance: 0.1, Operator: &RemoveConnection{Rand: rng}},
		},
	}
}

func TestPipelineIsDeterministicUnderFixedSeed(t *testing.T) {
	run := func() *genome.Genome {
		reg := gene.NewRegistry()
		g, err := genome.New(reg, testConfig())
		if err != nil {
			t.Fatalf("new genome: %v", err)
		}
		connect(t, g, reg, g.InputIDs()[0], g.OutputIDs()[0], 0.5)

		p := buildPipeline(7, reg)
		for i := 0; i < 50; i++ {
			if _, err := p.Apply(g); err != nil {
				t.Fatalf("pass %d: %v", i, err)
			}
		}
		return g
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first.Record(), second.Record()) {
		t.Fatal("same seed produced different mutation histories")
	}
}

func TestPipelineSkipsInapplicableSteps(t *testing.T) {
	reg := gene.NewRegistry()
	g, err := genome.New(reg, testConfig())
	if err != nil {
		t.Fatalf("new genome: %v", err)
	}

	// Only chance-1 steps over an empty connection set: weight mutation and
	// node removal cannot fire, connection addition can.
	rng := rand.New(rand.NewSource(8))
	p := &Pipeline{
		Rand: rng,
		Steps: []Step{
			{Chance: 1, Operator: &MutateWeights{Rand: rng, Rate: 0.5}},
			{Chance: 1, Operator: &RemoveNode{Rand: rng}},
			{Chance: 1, Operator: &AddConnection{Rand: rng, IDs: reg, Sampler: weight.NewSampler(8, 0.35)}},
		},
	}
	changed, err := p.Apply(g)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !changed || g.Len() != 1 {
		t.Fatalf("changed=%v connections=%d, want one new connection", changed, g.Len())
	}
}

func TestPipelineRequiresRand(t *testing.T) {
	var p *Pipeline
	if _, err := p.Apply(nil); err == nil {
		t.Fatal("nil pipeline accepted")
	}
}
