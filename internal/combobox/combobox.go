// Package combobox holds the state model of a headless combobox: the typed
// input, the open listbox, the highlighted and selected options and the
// filtered option list.
package combobox

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
)

var instanceCounter atomic.Uint64

// Config configures a combobox at mount.
type Config struct {
	// Options is the raw option set: strings or records.
	Options []any
	// Keys names the record fields; empty names fall back to DefaultKeys.
	Keys Keys
	// DefaultLabel seeds the input. When it equals an option's label that
	// option starts selected.
	DefaultLabel string
	// Loop wraps keyboard highlighting at the ends of the list.
	Loop bool
}

// DefaultConfig returns a config with the conventional keys.
func DefaultConfig() Config {
	return Config{Keys: DefaultKeys()}
}

// RenderFunc renders one option for display.
type RenderFunc func(opt ResolvedOption, highlighted, selected bool) string

// Option customises a combobox beyond its plain configuration.
type Option func(*settings)

type settings struct {
	id     string
	bus    eventbus.EventBus
	filter Predicate
	render RenderFunc
}

// WithID sets the instance id used in events and option ids.
func WithID(id string) Option {
	return func(s *settings) { s.id = id }
}

// WithBus publishes combobox events on bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(s *settings) { s.bus = bus }
}

// WithFilter replaces the default Contains predicate.
func WithFilter(p Predicate) Option {
	return func(s *settings) { s.filter = p }
}

// WithRenderOption installs a custom option renderer.
func WithRenderOption(fn RenderFunc) Option {
	return func(s *settings) { s.render = fn }
}

// Snapshot is a consistent read of the combobox for rendering.
type Snapshot struct {
	ID               string
	InputValue       string
	Open             bool
	HighlightedIndex int
	SelectedIndex    int
	Filtered         []ResolvedOption
	InputFocused     bool
	TriggerFocused   bool
}

// State is the combobox state model.
type State struct {
	id     string
	bus    eventbus.EventBus
	render RenderFunc

	mu       sync.Mutex
	keys     Keys
	loop     bool
	filter   Predicate
	all      []ResolvedOption
	filtered []ResolvedOption
	input    string
	open     bool
	// highlighted is a position in filtered; selected is a position in
	// all so that it survives refiltering.
	highlighted    int
	selected       int
	inputFocused   bool
	triggerFocused bool
}

// New mounts a combobox. Unresolvable options are reported as ErrConfig.
func New(cfg Config, options ...Option) (*State, error) {
	cfg.Keys = cfg.Keys.withDefaults()
	all, err := ResolveAll(cfg.Options, cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("combobox: %w", err)
	}

	st := settings{filter: Contains}
	for _, opt := range options {
		opt(&st)
	}
	if st.id == "" {
		st.id = fmt.Sprintf("combobox-%d", instanceCounter.Add(1))
	}
	if st.filter == nil {
		st.filter = Contains
	}

	s := &State{
		id:          st.id,
		bus:         st.bus,
		render:      st.render,
		keys:        cfg.Keys,
		loop:        cfg.Loop,
		filter:      st.filter,
		all:         all,
		input:       cfg.DefaultLabel,
		highlighted: -1,
		selected:    -1,
	}
	if cfg.DefaultLabel != "" {
		for _, opt := range all {
			if opt.Label == cfg.DefaultLabel && !opt.Disabled {
				s.selected = opt.Index
				break
			}
		}
	}
	s.refilterLocked()

	log.Printf("combobox %s mounted: options=%d default=%q", s.id, len(all), cfg.DefaultLabel)
	return s, nil
}

// ID returns the instance id.
func (s *State) ID() string { return s.id }

// OptionID returns the element id of the filtered option at i.
func (s *State) OptionID(i int) string {
	return fmt.Sprintf("%s-option-%d", s.id, i)
}

// ListboxID returns the element id of the listbox.
func (s *State) ListboxID() string { return s.id + "-listbox" }

// InputValue returns the typed text.
func (s *State) InputValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// IsOpen reports whether the listbox is open.
func (s *State) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// HighlightedIndex returns the highlighted position in the filtered list,
// or -1.
func (s *State) HighlightedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// SelectedIndex returns the selected option's position in the filtered
// list, or -1 when nothing is selected or the selection is filtered out.
func (s *State) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPosLocked()
}

// Selected returns the selected option, if any.
func (s *State) Selected() (ResolvedOption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 {
		return ResolvedOption{}, false
	}
	return s.all[s.selected], true
}

// FilteredOptions returns a copy of the filtered list.
func (s *State) FilteredOptions() []ResolvedOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ResolvedOption(nil), s.filtered...)
}

// Options returns a copy of the full resolved option set.
func (s *State) Options() []ResolvedOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ResolvedOption(nil), s.all...)
}

// Snapshot returns a consistent copy of the observable state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:               s.id,
		InputValue:       s.input,
		Open:             s.open,
		HighlightedIndex: s.highlighted,
		SelectedIndex:    s.selectedPosLocked(),
		Filtered:         append([]ResolvedOption(nil), s.filtered...),
		InputFocused:     s.inputFocused,
		TriggerFocused:   s.triggerFocused,
	}
}

// RenderOption renders the filtered option at i with the custom renderer,
// or returns its label when none is installed.
func (s *State) RenderOption(i int) string {
	s.mu.Lock()
	if i < 0 || i >= len(s.filtered) {
		s.mu.Unlock()
		return ""
	}
	opt := s.filtered[i]
	highlighted := i == s.highlighted
	selected := opt.Index == s.selected
	render := s.render
	s.mu.Unlock()

	if render == nil {
		return opt.Label
	}
	return render(opt, highlighted, selected)
}

// Open opens the listbox. The selected option is highlighted when it is
// listed, otherwise the first enabled one.
func (s *State) Open() {
	s.mu.Lock()
	var evs events
	s.openLocked(&evs)
	s.mu.Unlock()
	s.emit(evs)
}

// Close closes the listbox and clears the highlight.
func (s *State) Close() {
	s.mu.Lock()
	var evs events
	s.closeLocked(&evs)
	s.mu.Unlock()
	s.emit(evs)
}

// Toggle flips the listbox between open and closed.
func (s *State) Toggle() {
	s.mu.Lock()
	var evs events
	if s.open {
		s.closeLocked(&evs)
	} else {
		s.openLocked(&evs)
	}
	s.mu.Unlock()
	s.emit(evs)
}

// Filter records typed text, opens the list and recomputes the filtered
// options. The first enabled match is highlighted, or none.
func (s *State) Filter(text string) {
	s.mu.Lock()
	var evs events
	s.input = text
	s.refilterLocked()
	if !s.open {
		s.open = true
		evs.toggled = true
	}
	s.setHighlightLocked(s.firstEnabledLocked(), &evs)
	evs.count = true
	s.mu.Unlock()
	s.emit(evs)
}

// HighlightNext moves the highlight to the next enabled option, opening
// the list first when it is closed.
func (s *State) HighlightNext() {
	s.moveHighlight(1)
}

// HighlightPrev moves the highlight to the previous enabled option.
func (s *State) HighlightPrev() {
	s.moveHighlight(-1)
}

func (s *State) moveHighlight(dir int) {
	s.mu.Lock()
	var evs events
	if !s.open {
		s.openLocked(&evs)
		if s.highlighted >= 0 {
			s.mu.Unlock()
			s.emit(evs)
			return
		}
	}
	if next := s.stepLocked(s.highlighted, dir); next >= 0 {
		s.setHighlightLocked(next, &evs)
	}
	s.mu.Unlock()
	s.emit(evs)
}

// stepLocked finds the next enabled position from pos in direction dir.
// It clamps at the ends unless looping and returns pos when nothing else
// is enabled.
func (s *State) stepLocked(pos, dir int) int {
	n := len(s.filtered)
	if n == 0 {
		return -1
	}
	if pos < 0 {
		if dir > 0 {
			pos = -1
		} else {
			pos = n
		}
	}
	for i := 1; i <= n; i++ {
		next := pos + dir*i
		if s.loop {
			next = ((next % n) + n) % n
		} else if next < 0 || next >= n {
			break
		}
		if !s.filtered[next].Disabled {
			return next
		}
	}
	if pos >= 0 && pos < n {
		return pos
	}
	return -1
}

// Highlight highlights the filtered option at i, as on pointer hover.
func (s *State) Highlight(i int) error {
	s.mu.Lock()
	if err := s.checkIndexLocked(i); err != nil {
		s.mu.Unlock()
		return err
	}
	var evs events
	if !s.open {
		s.open = true
		evs.toggled = true
	}
	s.setHighlightLocked(i, &evs)
	s.mu.Unlock()
	s.emit(evs)
	return nil
}

// Select commits the filtered option at i: it becomes the selection, its
// label becomes the input and the list closes. Disabled or missing options
// are rejected with ErrInvalidIndex and leave the state untouched.
func (s *State) Select(i int) error {
	s.mu.Lock()
	if err := s.checkIndexLocked(i); err != nil {
		s.mu.Unlock()
		return err
	}
	opt := s.filtered[i]
	var evs events
	s.selected = opt.Index
	s.input = opt.Label
	s.refilterLocked()
	s.closeLocked(&evs)
	evs.selected = true
	evs.selectedOpt = opt
	evs.selectedPos = s.selectedPosLocked()
	s.mu.Unlock()

	log.Printf("combobox %s: selected %q", s.id, opt.Value)
	s.emit(evs)
	return nil
}

// SelectHighlighted selects the highlighted option.
func (s *State) SelectHighlighted() error {
	return s.Select(s.HighlightedIndex())
}

func (s *State) checkIndexLocked(i int) error {
	if i < 0 || i >= len(s.filtered) {
		return fmt.Errorf("combobox %s: %w: %d not in [0, %d)", s.id, domain.ErrInvalidIndex, i, len(s.filtered))
	}
	if s.filtered[i].Disabled {
		return fmt.Errorf("combobox %s: %w: option %q is disabled", s.id, domain.ErrInvalidIndex, s.filtered[i].Label)
	}
	return nil
}

// SetOptions replaces the upstream option set. The selection is kept when
// an option with the same value survives; the highlight follows the same
// option when it is still listed. On error nothing changes.
func (s *State) SetOptions(raw []any) error {
	all, err := ResolveAll(raw, s.keysSnapshot())
	if err != nil {
		return fmt.Errorf("combobox %s: %w", s.id, err)
	}

	s.mu.Lock()
	var evs events
	var selectedValue string
	hadSelection := s.selected >= 0
	if hadSelection {
		selectedValue = s.all[s.selected].Value
	}
	prev := s.highlighted
	highlightedValue, hadHighlight := s.highlightedValueLocked()

	s.all = all
	s.selected = -1
	if hadSelection {
		for _, opt := range all {
			if opt.Value == selectedValue {
				s.selected = opt.Index
				break
			}
		}
	}
	s.refilterLocked()
	s.rehighlightLocked(prev, highlightedValue, hadHighlight, &evs)
	evs.count = true
	s.mu.Unlock()

	log.Printf("combobox %s: option set replaced (%d options)", s.id, len(all))
	s.emit(evs)
	return nil
}

// SetFilter replaces the filter predicate; nil restores Contains.
func (s *State) SetFilter(p Predicate) {
	if p == nil {
		p = Contains
	}
	s.mu.Lock()
	var evs events
	prev := s.highlighted
	highlightedValue, hadHighlight := s.highlightedValueLocked()
	s.filter = p
	s.refilterLocked()
	s.rehighlightLocked(prev, highlightedValue, hadHighlight, &evs)
	evs.count = true
	s.mu.Unlock()
	s.emit(evs)
}

// SetInputFocused records focus on the text input.
func (s *State) SetInputFocused(focused bool) {
	s.mu.Lock()
	s.inputFocused = focused
	s.mu.Unlock()
}

// SetTriggerFocused records focus on the trigger button.
func (s *State) SetTriggerFocused(focused bool) {
	s.mu.Lock()
	s.triggerFocused = focused
	s.mu.Unlock()
}

// Blur closes the list when neither the input nor the trigger holds focus.
func (s *State) Blur() {
	s.mu.Lock()
	var evs events
	if !s.inputFocused && !s.triggerFocused {
		s.closeLocked(&evs)
	}
	s.mu.Unlock()
	s.emit(evs)
}

// Clear empties the input and drops the selection.
func (s *State) Clear() {
	s.mu.Lock()
	var evs events
	s.input = ""
	s.selected = -1
	s.refilterLocked()
	if s.open {
		s.setHighlightLocked(s.firstEnabledLocked(), &evs)
	}
	evs.count = true
	s.mu.Unlock()
	s.emit(evs)
}

func (s *State) keysSnapshot() Keys {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

func (s *State) openLocked(evs *events) {
	if s.open {
		return
	}
	s.open = true
	evs.toggled = true
	target := s.selectedPosLocked()
	if target < 0 {
		target = s.firstEnabledLocked()
	}
	s.setHighlightLocked(target, evs)
}

func (s *State) closeLocked(evs *events) {
	if !s.open {
		return
	}
	s.open = false
	evs.toggled = true
	s.setHighlightLocked(-1, evs)
}

func (s *State) setHighlightLocked(pos int, evs *events) {
	if pos == s.highlighted {
		return
	}
	s.highlighted = pos
	evs.highlight = true
}

// refilterLocked recomputes the filtered list from the full set. The
// result depends only on the input, the option set and the predicate.
// Callers re-establish the highlight.
func (s *State) refilterLocked() {
	filtered := make([]ResolvedOption, 0, len(s.all))
	for _, opt := range s.all {
		if s.filter(opt, s.input) {
			filtered = append(filtered, opt)
		}
	}
	s.filtered = filtered
}

func (s *State) highlightedValueLocked() (string, bool) {
	if s.highlighted < 0 || s.highlighted >= len(s.filtered) {
		return "", false
	}
	return s.filtered[s.highlighted].Value, true
}

// rehighlightLocked keeps the highlight on the option with value when it is
// still listed and enabled; otherwise an open list falls back to the first
// enabled option.
func (s *State) rehighlightLocked(prev int, value string, had bool, evs *events) {
	target := -1
	if had {
		for i, opt := range s.filtered {
			if opt.Value == value && !opt.Disabled {
				target = i
				break
			}
		}
	}
	if target < 0 && s.open {
		target = s.firstEnabledLocked()
	}
	s.highlighted = target
	if target != prev {
		evs.highlight = true
	}
}

func (s *State) firstEnabledLocked() int {
	for i, opt := range s.filtered {
		if !opt.Disabled {
			return i
		}
	}
	return -1
}

func (s *State) selectedPosLocked() int {
	if s.selected < 0 {
		return -1
	}
	for i, opt := range s.filtered {
		if opt.Index == s.selected {
			return i
		}
	}
	return -1
}

// events collects what a transition touched, published once the lock is
// released.
type events struct {
	toggled     bool
	highlight   bool
	count       bool
	selected    bool
	selectedOpt ResolvedOption
	selectedPos int
}

func (s *State) emit(evs events) {
	if s.bus == nil {
		return
	}
	s.mu.Lock()
	open, highlighted, count := s.open, s.highlighted, len(s.filtered)
	s.mu.Unlock()

	if evs.selected {
		s.bus.Publish(domain.OptionSelectedEvent{
			ComboboxID: s.id,
			Index:      evs.selectedPos,
			Value:      evs.selectedOpt.Value,
			Label:      evs.selectedOpt.Label,
		})
	}
	if evs.count {
		s.bus.Publish(domain.OptionsChangedEvent{ComboboxID: s.id, Count: count})
	}
	if evs.highlight {
		s.bus.Publish(domain.HighlightChangedEvent{ComboboxID: s.id, Index: highlighted})
	}
	if evs.toggled {
		s.bus.Publish(domain.ListboxToggledEvent{ComboboxID: s.id, Open: open})
	}
}
