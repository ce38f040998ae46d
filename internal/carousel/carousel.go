// Package carousel holds the state model of a headless carousel: the
// current slide, layout, autoplay, drag and the derived progress.
package carousel

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/clockz"

	"headlesskit/internal/binding"
	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
)

var instanceCounter atomic.Uint64

// Snapshot is a consistent read of the carousel for rendering.
type Snapshot struct {
	ID         string
	Index      int
	NumSlides  int
	Progress   float64
	Playing    bool
	Dragging   bool
	DragDelta  float64
	Layout     Layout
	LiveRegion string
}

// State is the carousel state model. It is safe for use from the host
// event loop and the autoplay goroutine at the same time.
type State struct {
	id string

	mu        sync.Mutex
	layout    Layout
	numSlides int
	index     int
	progress  float64
	playing   bool
	viewport  float64
	drag      dragState
	closed    bool

	// Cells are written after mu is released; see publish.
	indexCell    binding.Cell[int]
	autoplayCell binding.Cell[bool]
	progressCell binding.Cell[float64]
	unsubs       []func()

	clock        clockz.Clock
	bus          eventbus.EventBus
	onChange     func(int)
	autoplayGen  uint64
	autoplayStop chan struct{}

	slides  *Registry
	bullets *Registry
}

// change describes what a transition touched, for publishing after the
// lock is released.
type change struct {
	indexChanged    bool
	oldIndex        int
	newIndex        int
	autoplayChanged bool
	resized         bool
}

// New mounts a carousel. Invalid options are reported as ErrConfig.
//
// Build opts from DefaultOptions: a zero Options is rejected because
// SlidesPerView must be at least 1, and its Draggable is false. An empty
// Align means AlignStart.
func New(opts Options, options ...Option) (*State, error) {
	opts.Layout = opts.Layout.withDefaults()
	if err := domain.Validate(opts); err != nil {
		return nil, fmt.Errorf("carousel: %w", err)
	}

	cfg := settings{clock: clockz.RealClock}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = fmt.Sprintf("carousel-%d", instanceCounter.Add(1))
	}

	s := &State{
		id:        cfg.id,
		layout:    opts.Layout,
		numSlides: opts.NumSlides,
		clock:     cfg.clock,
		bus:       cfg.bus,
		onChange:  cfg.onChange,
		slides:    newRegistry(),
		bullets:   newRegistry(),
	}

	indexSource := cfg.index
	if indexSource == nil {
		indexSource = cfg.legacyIndex
	}

	var indexBound, autoplayBound bool
	s.indexCell, indexBound = binding.Bind(indexSource, clampIndex(opts.StartIndex, opts.NumSlides))
	s.autoplayCell, autoplayBound = binding.Bind(cfg.autoplay, opts.Autoplay)

	// A bound cell is the source of truth; the start index only seeds
	// a private one.
	s.index = s.normalize(s.indexCell.Get())
	s.progress = ComputeProgress(s.index, s.numSlides)
	s.progressCell, _ = binding.Bind(cfg.progress, s.progress)
	s.playing = s.autoplayCell.Get()

	s.unsubs = append(s.unsubs,
		s.indexCell.Subscribe(s.adoptIndex),
		s.autoplayCell.Subscribe(s.adoptAutoplay),
	)

	if indexBound && s.indexCell.Get() != s.index {
		s.indexCell.Set(s.index)
	}
	s.progressCell.Set(s.progress)

	if s.playing {
		s.mu.Lock()
		s.startAutoplayLocked()
		s.mu.Unlock()
	}

	log.Printf("carousel %s mounted: slides=%d index=%d bound(index=%t autoplay=%t)",
		s.id, s.numSlides, s.index, indexBound, autoplayBound)
	return s, nil
}

// ID returns the instance id.
func (s *State) ID() string { return s.id }

// SlideID returns the element id for the slide at ordinal.
func (s *State) SlideID(ordinal int) string {
	return fmt.Sprintf("%s-slide-%d", s.id, ordinal)
}

// TitleID returns the element id of the carousel title.
func (s *State) TitleID() string { return s.id + "-title" }

// Index returns the current slide index.
func (s *State) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// NumSlides returns the slide count.
func (s *State) NumSlides() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numSlides
}

// Progress returns the derived progress in [0,100].
func (s *State) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Layout returns the current layout.
func (s *State) Layout() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// LiveRegion is the politeness the presentation layer should announce
// slide changes with: "off" while autoplay runs, "polite" otherwise.
func (s *State) LiveRegion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return liveRegion(s.playing)
}

func liveRegion(playing bool) string {
	if playing {
		return "off"
	}
	return "polite"
}

// Snapshot returns a consistent copy of the observable state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		Index:      s.index,
		NumSlides:  s.numSlides,
		Progress:   s.progress,
		Playing:    s.playing,
		Dragging:   s.drag.active,
		DragDelta:  s.drag.delta,
		Layout:     s.layout,
		LiveRegion: liveRegion(s.playing),
	}
}

// IndexCell exposes the index cell for observation or two-way binding.
func (s *State) IndexCell() binding.Cell[int] { return s.indexCell }

// AutoplayCell exposes the autoplay cell.
func (s *State) AutoplayCell() binding.Cell[bool] { return s.autoplayCell }

// ProgressCell exposes the progress cell. Writes to it are overwritten
// on the next recompute.
func (s *State) ProgressCell() binding.Cell[float64] { return s.progressCell }

// Slides returns the slide element registry.
func (s *State) Slides() *Registry { return s.slides }

// Bullets returns the bullet element registry.
func (s *State) Bullets() *Registry { return s.bullets }

// RegisterSlide records the slide element at ordinal. The returned func
// deregisters it.
func (s *State) RegisterSlide(ordinal int, h Handle) func() {
	return s.slides.Register(ordinal, h)
}

// RegisterBullet records the bullet element at ordinal.
func (s *State) RegisterBullet(ordinal int, h Handle) func() {
	return s.bullets.Register(ordinal, h)
}

// SetIndex moves to target. Out-of-range targets fail with ErrOutOfRange
// unless looping, in which case they wrap. With fewer than two slides
// navigation is a no-op.
func (s *State) SetIndex(target int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	ch, err := s.setIndexLocked(target)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish(ch)
	return nil
}

// Next moves one slide forward.
func (s *State) Next() error {
	return s.step(1)
}

// Prev moves one slide back.
func (s *State) Prev() error {
	return s.step(-1)
}

func (s *State) step(delta int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	ch, err := s.setIndexLocked(s.index + delta)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish(ch)
	return nil
}

func (s *State) setIndexLocked(target int) (change, error) {
	n := s.numSlides
	if n <= 1 {
		return change{}, nil
	}
	if target < 0 || target >= n {
		if !s.layout.Loop {
			return change{}, fmt.Errorf("carousel %s: %w: %d not in [0, %d]", s.id, domain.ErrOutOfRange, target, n-1)
		}
		target = wrapIndex(target, n)
	}
	return s.commitIndexLocked(target), nil
}

func (s *State) commitIndexLocked(target int) change {
	if target == s.index {
		return change{}
	}
	old := s.index
	s.index = target
	s.progress = ComputeProgress(target, s.numSlides)
	return change{indexChanged: true, oldIndex: old, newIndex: target}
}

// normalize maps an externally supplied index into range: wrapped when
// looping, clamped otherwise.
func (s *State) normalize(v int) int {
	if s.layout.Loop {
		return wrapIndex(v, s.numSlides)
	}
	return clampIndex(v, s.numSlides)
}

// adoptIndex reacts to writes on the index cell. Our own write-through
// arrives here equal to the mirror and stops.
func (s *State) adoptIndex(v int) {
	s.mu.Lock()
	if s.closed || v == s.index {
		s.mu.Unlock()
		return
	}
	target := s.normalize(v)
	if target != v {
		log.Printf("carousel %s: external index %d normalized to %d", s.id, v, target)
	}
	ch := s.commitIndexLocked(target)
	s.mu.Unlock()

	s.publish(ch)
}

// SetNumSlides updates the slide count, pulling the index back into range.
func (s *State) SetNumSlides(n int) error {
	if n < 0 {
		return fmt.Errorf("carousel %s: %w: slide count %d is negative", s.id, domain.ErrConfig, n)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	if n == s.numSlides {
		s.mu.Unlock()
		return nil
	}
	s.numSlides = n
	ch := change{resized: true}
	if clamped := clampIndex(s.index, n); clamped != s.index {
		old := s.index
		s.index = clamped
		ch.indexChanged, ch.oldIndex, ch.newIndex = true, old, clamped
	}
	s.progress = ComputeProgress(s.index, n)
	s.mu.Unlock()

	s.publish(ch)
	return nil
}

// SetLayout replaces the layout. A changed autoplay interval restarts a
// running timer.
func (s *State) SetLayout(l Layout) error {
	l = l.withDefaults()
	if err := domain.Validate(l); err != nil {
		return fmt.Errorf("carousel %s: %w", s.id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}

	intervalChanged := l.AutoPlayIntervalMs != s.layout.AutoPlayIntervalMs
	s.layout = l
	if !l.Draggable {
		s.drag = dragState{}
	}
	if intervalChanged && s.playing {
		s.stopAutoplayLocked()
		s.startAutoplayLocked()
	}
	return nil
}

// SetViewportWidth records the rendered viewport width used by drag
// snapping.
func (s *State) SetViewportWidth(w float64) {
	if w < 0 {
		w = 0
	}
	s.mu.Lock()
	s.viewport = w
	s.mu.Unlock()
}

// Close unmounts the carousel: the autoplay timer is cancelled and cell
// subscriptions are dropped. It is safe to call more than once.
func (s *State) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopAutoplayLocked()
	s.drag = dragState{}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	log.Printf("carousel %s closed", s.id)
}

// publish mirrors a committed change out to cells, the change callback
// and the bus. Cells always receive the current mirror so that racing
// publishers converge on the latest value.
func (s *State) publish(ch change) {
	if !ch.indexChanged && !ch.autoplayChanged && !ch.resized {
		return
	}

	s.mu.Lock()
	index, progress, playing, n := s.index, s.progress, s.playing, s.numSlides
	s.mu.Unlock()

	if ch.indexChanged {
		s.indexCell.Set(index)
	}
	s.progressCell.Set(progress)
	if ch.autoplayChanged {
		s.autoplayCell.Set(playing)
	}

	// A cell subscriber above may already have moved the index again.
	if ch.indexChanged && s.onChange != nil {
		s.onChange(s.Index())
	}

	if s.bus == nil {
		return
	}
	if ch.indexChanged {
		s.bus.Publish(domain.SlideChangedEvent{
			CarouselID: s.id,
			OldIndex:   ch.oldIndex,
			NewIndex:   ch.newIndex,
			Progress:   ComputeProgress(ch.newIndex, n),
		})
	}
	if ch.resized {
		s.bus.Publish(domain.SlidesResizedEvent{CarouselID: s.id, NumSlides: n})
	}
	if ch.autoplayChanged {
		s.bus.Publish(domain.AutoplayChangedEvent{CarouselID: s.id, Playing: playing})
	}
}
