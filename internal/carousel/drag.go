package carousel

import (
	"math"

	"headlesskit/internal/domain"
)

type dragState struct {
	active bool
	delta  float64
}

// Dragging reports whether a pointer drag is in progress.
func (s *State) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.active
}

// BeginDrag starts a drag. It returns false when the carousel is not
// draggable or has been closed.
func (s *State) BeginDrag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.layout.Draggable {
		return false
	}
	s.drag = dragState{active: true}
	return true
}

// UpdateDrag accumulates pointer movement. A positive delta moves the
// pointer rightwards, pulling earlier slides into view.
func (s *State) UpdateDrag(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag.active {
		s.drag.delta += delta
	}
}

// CancelDrag abandons a drag without navigating.
func (s *State) CancelDrag() {
	s.mu.Lock()
	s.drag = dragState{}
	s.mu.Unlock()
}

// EndDrag finishes a drag by snapping to the nearest slide and returns
// the resulting index. The drag state is cleared on every path.
func (s *State) EndDrag() (int, error) {
	s.mu.Lock()
	if s.closed {
		s.drag = dragState{}
		s.mu.Unlock()
		return 0, domain.ErrClosed
	}
	d := s.drag
	s.drag = dragState{}
	if !d.active || s.numSlides <= 1 {
		idx := s.index
		s.mu.Unlock()
		return idx, nil
	}

	target := snapIndex(s.index, d.delta, s.numSlides, s.layout, s.viewport)
	if s.layout.Loop {
		target = wrapIndex(target, s.numSlides)
	} else {
		target = clampIndex(target, s.numSlides)
	}
	ch, err := s.setIndexLocked(target)
	idx := s.index
	s.mu.Unlock()

	if err != nil {
		return idx, err
	}
	s.publish(ch)
	return idx, nil
}

// Drag runs fn as one drag gesture. fn receives the move function to
// report pointer deltas. The drag always ends: it snaps when fn returns
// nil and is cancelled when fn fails or panics.
func (s *State) Drag(fn func(move func(delta float64)) error) (int, error) {
	if !s.BeginDrag() {
		return s.Index(), nil
	}

	ended := false
	defer func() {
		if !ended {
			s.CancelDrag()
		}
	}()

	if err := fn(s.UpdateDrag); err != nil {
		return s.Index(), err
	}
	ended = true
	return s.EndDrag()
}

// slideMetrics returns the width of one slide and the distance between
// consecutive slide starts for a viewport.
func slideMetrics(l Layout, viewport float64) (slideWidth, step float64) {
	perView := float64(l.SlidesPerView)
	slideWidth = (viewport - l.Gap*(perView-1)) / perView
	return slideWidth, slideWidth + l.Gap
}

// alignOffset is how far a slide's snap point sits from the viewport start.
func alignOffset(a domain.Align, viewport, slideWidth float64) float64 {
	switch a {
	case domain.AlignCenter:
		return (viewport - slideWidth) / 2
	case domain.AlignEnd:
		return viewport - slideWidth
	default:
		return 0
	}
}

// snapIndex returns the slide whose snap position is nearest to the
// current position moved by delta. Without loop, snap positions are
// clamped to the scrollable range like native scroll snapping, so
// several slides can share one position at either end; ties go to the
// earliest slide, or the latest for end alignment. With loop the result
// may lie outside [0, n) and is wrapped by the caller.
func snapIndex(current int, delta float64, n int, l Layout, viewport float64) int {
	slideWidth, step := slideMetrics(l, viewport)
	if viewport <= 0 || step <= 0 || math.Abs(delta) < step/2 {
		return current
	}

	if l.Loop {
		return current + int(math.Round(-delta/step))
	}

	offset := alignOffset(l.Align, viewport, slideWidth)
	contentWidth := float64(n)*slideWidth + float64(n-1)*l.Gap
	maxScroll := math.Max(0, contentWidth-viewport)

	snap := func(i int) float64 {
		return math.Min(math.Max(float64(i)*step-offset, 0), maxScroll)
	}

	position := math.Min(math.Max(snap(current)-delta, 0), maxScroll)

	best, bestDist := current, math.Inf(1)
	for i := 0; i < n; i++ {
		dist := math.Abs(snap(i) - position)
		switch {
		case dist < bestDist:
			best, bestDist = i, dist
		case dist == bestDist && l.Align == domain.AlignEnd:
			best = i
		}
	}
	return best
}
