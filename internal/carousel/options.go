package carousel

import (
	"time"

	"github.com/zoobzio/clockz"

	"headlesskit/internal/binding"
	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
)

// Layout holds the configuration a host may change while the carousel
// is mounted.
type Layout struct {
	SlidesPerView      int          `validate:"gte=1"`
	Gap                float64      `validate:"gte=0"`
	Align              domain.Align `validate:"oneof=start center end"`
	Loop               bool
	Draggable          bool
	StepInteraction    bool // bullets act as interactive steps
	AutoPlayIntervalMs int `validate:"gte=0"`
}

// AutoPlayInterval returns the autoplay period, zero when disabled.
func (l Layout) AutoPlayInterval() time.Duration {
	return time.Duration(l.AutoPlayIntervalMs) * time.Millisecond
}

// Options configures a carousel at mount.
type Options struct {
	Layout
	NumSlides  int `validate:"gte=0"`
	StartIndex int `validate:"gte=0"`
	Autoplay   bool
}

// withDefaults fills in an unset alignment. Other zero values are taken
// as given, so a zero SlidesPerView is still rejected.
func (l Layout) withDefaults() Layout {
	if l.Align == "" {
		l.Align = domain.AlignStart
	}
	return l
}

// DefaultLayout returns the layout used when the host supplies none.
func DefaultLayout() Layout {
	return Layout{
		SlidesPerView: 1,
		Gap:           0,
		Align:         domain.AlignStart,
		Loop:          false,
		Draggable:     true,
	}
}

// DefaultOptions returns mount options with the default layout.
func DefaultOptions() Options {
	return Options{Layout: DefaultLayout()}
}

// Option customises a carousel beyond its plain configuration.
type Option func(*settings)

type settings struct {
	id          string
	clock       clockz.Clock
	bus         eventbus.EventBus
	onChange    func(int)
	index       binding.Cell[int]
	legacyIndex binding.Cell[int]
	autoplay    binding.Cell[bool]
	progress    binding.Cell[float64]
}

// WithID sets the instance id used in events and element ids.
func WithID(id string) Option {
	return func(s *settings) { s.id = id }
}

// WithClock replaces the real clock driving autoplay.
// Use this with clockz.FakeClock for deterministic autoplay testing.
func WithClock(clock clockz.Clock) Option {
	return func(s *settings) { s.clock = clock }
}

// WithBus publishes carousel events on bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(s *settings) { s.bus = bus }
}

// WithOnChange registers a callback invoked after every committed index
// change. It receives the index current at call time, not the one the
// change committed, so the last call always agrees with Index(). Calls
// from the autoplay goroutine and the host are not ordered relative to
// each other.
func WithOnChange(fn func(index int)) Option {
	return func(s *settings) { s.onChange = fn }
}

// WithIndex binds the current index to an external cell.
func WithIndex(cell binding.Cell[int]) Option {
	return func(s *settings) { s.index = cell }
}

// WithLegacyIndex binds the current index through the older slide-index
// cell. It is ignored when WithIndex is also given.
//
// Deprecated: use WithIndex.
func WithLegacyIndex(cell binding.Cell[int]) Option {
	return func(s *settings) { s.legacyIndex = cell }
}

// WithAutoplay binds the autoplay flag to an external cell.
func WithAutoplay(cell binding.Cell[bool]) Option {
	return func(s *settings) { s.autoplay = cell }
}

// WithProgress mirrors the derived progress into an external cell.
func WithProgress(cell binding.Cell[float64]) Option {
	return func(s *settings) { s.progress = cell }
}
