package genome

import (
	"math"

	"setgenome/weight"
)

// CompatibilityDistance measures how structurally and parametrically apart
// two genomes are, normalized into [0, 1]. factorGenes weighs the share of
// connection identities only one parent carries; factorWeights weighs the
// mean decoded-weight difference over the shared identities. The factors are
// normalized by their sum, so only their ratio matters.
//
// Speciation layers use this to group genomes that crossover can recombine
// meaningfully.
func CompatibilityDistance(a, b *Genome, factorGenes, factorWeights float64) float64 {
	total := factorGenes + factorWeights
	if total == 0 {
		return 0
	}

	codecA := weight.Codec{Scale: a.cfg.WeightScale}
	codecB := weight.Codec{Scale: b.cfg.WeightScale}

	matching := 0
	weightDiff := 0.0
	for id, ca := range a.conns {
		cb, ok := b.conns[id]
		if !ok {
			continue
		}
		matching++
		weightDiff += math.Abs(codecA.Decode(ca.Weight) - codecB.Decode(cb.Weight))
	}

	different := len(a.conns) + len(b.conns) - 2*matching
	geneTerm := 0.0
	if n := different + matching; n > 0 {
		geneTerm = factorGenes / total * float64(different) / float64(n)
	}
	weightTerm := 0.0
	if matching > 0 {
		// Each matched pair can differ by at most the full scaled range.
		maxDiff := maxScale(a, b) * 2 * float64(matching)
		weightTerm = factorWeights / total * weightDiff / maxDiff
	}
	return geneTerm + weightTerm
}

func maxScale(a, b *Genome) float64 {
	sa, sb := a.cfg.WeightScale, b.cfg.WeightScale
	if sa == 0 {
		sa = 1
	}
	if sb == 0 {
		sb = 1
	}
	return math.Max(sa, sb)
}
