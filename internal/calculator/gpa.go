package calculator

// MaxGPA is the top of the GPA scale.
const MaxGPA = 10.0

// MarkScore is a mark joined with its subject's maximum.
// Found is false when the mark references a subject that no longer exists.
type MarkScore struct {
	Obtained float64
	MaxMarks float64
	Found    bool
}

// Countable reports whether the mark contributes to GPA.
func (m MarkScore) Countable() bool {
	return m.Found && m.MaxMarks > 0
}

// GPA computes a student's GPA from their marks.
//
// Algorithm:
// - Skip marks whose subject is missing or has MaxMarks <= 0
// - Per mark: (obtained / max) × 10, clamped into [0, 10]
// - Average over the counted marks; 0 when nothing counted
func GPA(marks []MarkScore) float64 {
	var sum float64
	var count int
	for _, m := range marks {
		if !m.Countable() {
			continue
		}
		sum += clamp(m.Obtained/m.MaxMarks*MaxGPA, 0, MaxGPA)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// AverageNonZero averages the values that are greater than zero.
// A genuine zero is indistinguishable from "no data" and is left out of the
// denominator along with it. Returns 0 when no value is positive.
func AverageNonZero(values []float64) float64 {
	var sum float64
	var count int
	for _, v := range values {
		if v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
