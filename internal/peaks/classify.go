package peaks

import (
	"fmt"

	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/stats"
)

// Classification is the primary-shape verdict with its auditable rationale
type Classification struct {
	Shape         model.ProblemShape
	Confidence    float64
	Evidence      []string
	LowConfidence bool // Catch-all fallback fired
	Symmetric     bool // Forked only: conflicting peaks evenly matched
}

// Classifier maps a peak analysis to one of the five topology archetypes
type Classifier struct{}

// NewClassifier creates a new primary shape classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify runs the deterministic decision procedure. The branches are
// ordered; the first match wins and every branch records human-readable
// evidence for the verdict.
func (cl *Classifier) Classify(pa model.PeakAnalysis) Classification {
	total := len(pa.Peaks) + len(pa.Hills) + len(pa.Floor)

	// 1. No dominant claim at all.
	if len(pa.Peaks) == 0 {
		return classifySparse(pa, total)
	}

	// 2. A single consensus position.
	if len(pa.Peaks) == 1 {
		p := pa.Peaks[0]
		conf := capConfidence(0.5+0.4*p.SupportRatio, 0.9)
		return Classification{
			Shape:      model.ShapeConvergent,
			Confidence: conf,
			Evidence: []string{
				fmt.Sprintf("single peak %q at %.0f%% support", p.Label, p.SupportRatio*100),
				fmt.Sprintf("%d hill and %d floor claims orbit the consensus", len(pa.Hills), len(pa.Floor)),
			},
		}
	}

	// 3. Peaks in direct conflict.
	if len(pa.PeakConflicts) > 0 {
		symmetric := conflictsSymmetric(pa)
		axisNote := "asymmetric: one side holds clearly more support"
		if symmetric {
			axisNote = "symmetric: conflicting peaks are evenly matched"
		}
		return Classification{
			Shape:      model.ShapeForked,
			Confidence: 0.85,
			Symmetric:  symmetric,
			Evidence: []string{
				fmt.Sprintf("%d peaks with %d conflict edge(s) between them", len(pa.Peaks), len(pa.PeakConflicts)),
				axisNote,
			},
		}
	}

	// 4. No conflicts, but peaks trade off.
	if len(pa.PeakTradeoffs) > 0 {
		return Classification{
			Shape:      model.ShapeConstrained,
			Confidence: 0.8,
			Evidence: []string{
				fmt.Sprintf("%d peaks linked by %d tradeoff edge(s), no direct conflicts", len(pa.Peaks), len(pa.PeakTradeoffs)),
			},
		}
	}

	// 5. Peaks reinforce each other.
	if len(pa.PeakCohesive) > 0 {
		avg := avgPeakSupport(pa)
		return Classification{
			Shape:      model.ShapeConvergent,
			Confidence: capConfidence(0.5+0.35*avg, 0.85),
			Evidence: []string{
				fmt.Sprintf("%d peaks connected only by reinforcing edges (avg support %.0f%%)", len(pa.Peaks), avg*100),
			},
		}
	}

	// 6. Peaks with no edges between them at all.
	if len(pa.PeakConflicts) == 0 && len(pa.PeakTradeoffs) == 0 && len(pa.PeakCohesive) == 0 {
		return Classification{
			Shape:      model.ShapeParallel,
			Confidence: 0.75,
			Evidence: []string{
				fmt.Sprintf("%d peaks with zero edges between them: likely separate dimensions of the answer", len(pa.Peaks)),
			},
		}
	}

	// 7. Mixed or ambiguous relations: default to convergent at reduced
	// confidence. Plausibly a misclassification for unconnected,
	// non-reinforcing peaks; kept pending validation against real data.
	return Classification{
		Shape:         model.ShapeConvergent,
		Confidence:    0.6,
		LowConfidence: true,
		Evidence: []string{
			fmt.Sprintf("%d peaks with ambiguous relations; defaulting to convergent at reduced confidence", len(pa.Peaks)),
		},
	}
}

// classifySparse grades how settled a peakless landscape is by hill density
func classifySparse(pa model.PeakAnalysis, total int) Classification {
	if total == 0 {
		return Classification{
			Shape:      model.ShapeSparse,
			Confidence: 0.9,
			Evidence:   []string{"no claims extracted: nothing to converge on"},
		}
	}

	hillDensity := float64(len(pa.Hills)) / float64(total)
	if hillDensity >= 0.25 {
		return Classification{
			Shape:      model.ShapeSparse,
			Confidence: 0.7,
			Evidence: []string{
				fmt.Sprintf("no peaks, but %d of %d claims hold moderate support: almost settled", len(pa.Hills), total),
			},
		}
	}
	return Classification{
		Shape:      model.ShapeSparse,
		Confidence: 0.9,
		Evidence: []string{
			fmt.Sprintf("no peaks and only %d of %d claims above minority support: genuinely fragmented", len(pa.Hills), total),
		},
	}
}

// conflictsSymmetric reports whether any conflicting peak pair sits within
// the symmetry delta
func conflictsSymmetric(pa model.PeakAnalysis) bool {
	support := make(map[string]float64, len(pa.Peaks))
	for _, p := range pa.Peaks {
		support[p.ID] = p.SupportRatio
	}
	for _, e := range pa.PeakConflicts {
		delta := support[e.From] - support[e.To]
		if delta < 0 {
			delta = -delta
		}
		if delta < symmetryDelta {
			return true
		}
	}
	return false
}

func avgPeakSupport(pa model.PeakAnalysis) float64 {
	ratios := make([]float64, len(pa.Peaks))
	for i, p := range pa.Peaks {
		ratios[i] = p.SupportRatio
	}
	return stats.Mean(ratios)
}

func capConfidence(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	return v
}
