package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSlideChanged     EventType = "SlideChanged"
	EventAutoplayChanged  EventType = "AutoplayChanged"
	EventSlidesResized    EventType = "SlidesResized"
	EventListboxToggled   EventType = "ListboxToggled"
	EventHighlightChanged EventType = "HighlightChanged"
	EventOptionSelected   EventType = "OptionSelected"
	EventOptionsChanged   EventType = "OptionsChanged"
	EventOptionsReloaded  EventType = "OptionsReloaded"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SlideChangedEvent is emitted when a carousel commits a new index
type SlideChangedEvent struct {
	CarouselID string
	OldIndex   int
	NewIndex   int
	Progress   float64
}

func (e SlideChangedEvent) Type() EventType { return EventSlideChanged }

// AutoplayChangedEvent is emitted when autoplay is switched on or off
type AutoplayChangedEvent struct {
	CarouselID string
	Playing    bool
}

func (e AutoplayChangedEvent) Type() EventType { return EventAutoplayChanged }

// SlidesResizedEvent is emitted when the slide count changes
type SlidesResizedEvent struct {
	CarouselID string
	NumSlides  int
}

func (e SlidesResizedEvent) Type() EventType { return EventSlidesResized }

// ListboxToggledEvent is emitted when a combobox opens or closes its list
type ListboxToggledEvent struct {
	ComboboxID string
	Open       bool
}

func (e ListboxToggledEvent) Type() EventType { return EventListboxToggled }

// HighlightChangedEvent is emitted when the highlighted option moves
type HighlightChangedEvent struct {
	ComboboxID string
	Index      int // -1 when nothing is highlighted
}

func (e HighlightChangedEvent) Type() EventType { return EventHighlightChanged }

// OptionSelectedEvent is emitted when a combobox option is committed
type OptionSelectedEvent struct {
	ComboboxID string
	Index      int
	Value      string
	Label      string
}

func (e OptionSelectedEvent) Type() EventType { return EventOptionSelected }

// OptionsChangedEvent is emitted when a combobox receives a new option set
type OptionsChangedEvent struct {
	ComboboxID string
	Count      int
}

func (e OptionsChangedEvent) Type() EventType { return EventOptionsChanged }

// OptionsReloadedEvent is emitted when the option-set file changes on disk
type OptionsReloadedEvent struct {
	Path    string
	Options []any
}

func (e OptionsReloadedEvent) Type() EventType { return EventOptionsReloaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
