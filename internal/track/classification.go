package track

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ClassificationCalculator determines a track's classification from its
// detections.
type ClassificationCalculator interface {
	Calculate(detections []Detection) string
}

// MaxConfidenceCalculator picks the classification label with the largest
// summed detection confidence. Ties break to the lexicographically smallest
// label so the result never depends on map iteration order.
type MaxConfidenceCalculator struct{}

// Calculate returns the max-confidence-sum label, or "" for no detections.
func (MaxConfidenceCalculator) Calculate(detections []Detection) string {
	confidences := make(map[string][]float64)
	for _, d := range detections {
		confidences[d.Classification] = append(confidences[d.Classification], d.Confidence)
	}
	labels := make([]string, 0, len(confidences))
	for label := range confidences {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var best string
	bestSum := -1.0
	for _, label := range labels {
		if sum := floats.Sum(confidences[label]); sum > bestSum {
			best, bestSum = label, sum
		}
	}
	return best
}
