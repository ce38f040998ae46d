package carousel

// ComputeProgress returns the position of index among numSlides slides
// as a percentage. It is 0 when there are fewer than two slides.
func ComputeProgress(index, numSlides int) float64 {
	if numSlides <= 1 {
		return 0
	}
	return float64(index) / float64(numSlides-1) * 100
}

// clampIndex forces index into [0, numSlides-1], or 0 with no slides.
func clampIndex(index, numSlides int) int {
	if numSlides <= 0 || index < 0 {
		return 0
	}
	if index >= numSlides {
		return numSlides - 1
	}
	return index
}

// wrapIndex maps any index onto [0, numSlides-1] modulo numSlides.
func wrapIndex(index, numSlides int) int {
	if numSlides <= 0 {
		return 0
	}
	return ((index % numSlides) + numSlides) % numSlides
}
