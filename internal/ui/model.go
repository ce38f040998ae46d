package ui

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"headlesskit/internal/carousel"
	"headlesskit/internal/combobox"
	"headlesskit/internal/config"
	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
	"headlesskit/internal/ui/views"
)

// Model is the presentation layer over one carousel and one combobox.
// It renders their snapshots and turns keys, mouse drags and bus events
// into state model operations.
type Model struct {
	config   *config.Config
	carousel *carousel.State
	combobox *combobox.State

	unregister []func()

	width  int
	height int
	focus  views.Focus

	keys      KeyMap
	help      help.Model
	input     textinput.Model
	progress  progress.Model
	bullets   paginator.Model
	renderer  *views.Renderer
	helpText  *HelpRenderer
	helpOps   *HelpOps
	showHelp  bool
	helpStart int

	status        string
	statusIsError bool
	inPagerMode   bool
	readyMarker   bool

	dragging bool
	dragX    int

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the UI model. Slides are registered with the carousel
// by ordinal and deregistered by Close.
func NewModel(cfg *config.Config, car *carousel.State, cb *combobox.State, slides []string) *Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Type to filter…"
	input.SetValue(cb.InputValue())

	bullets := paginator.New()
	bullets.Type = paginator.Dots
	bullets.PerPage = 1
	bullets.ActiveDot = "●"
	bullets.InactiveDot = "○"

	m := &Model{
		config:   cfg,
		carousel: car,
		combobox: cb,
		focus:    views.FocusCarousel,
		keys:     DefaultKeyMap,
		help:     help.New(),
		input:    input,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		bullets:  bullets,
		renderer: views.NewRenderer(),
		helpText: NewHelpRenderer(DefaultKeyMap),
	}

	for i, text := range slides {
		m.unregister = append(m.unregister, car.RegisterSlide(i, text))
		m.unregister = append(m.unregister, car.RegisterBullet(i, i))
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// SetReadyMarker makes the first rendered frame carry views.ReadyMarker.
func (m *Model) SetReadyMarker(on bool) {
	m.readyMarker = on
}

// Focus returns the widget receiving keys.
func (m *Model) Focus() views.Focus { return m.focus }

// Close deregisters the slides from the carousel.
func (m *Model) Close() {
	for _, unregister := range m.unregister {
		unregister()
	}
	m.unregister = nil
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(min(msg.Width-12, 60), 10)
		// The slide area is the terminal width minus padding and borders.
		m.carousel.SetViewportWidth(float64(max(msg.Width-10, 0)))
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case helpPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("Help pager failed: %v", msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	if m.focus == views.FocusCombobox {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
			m.helpStart = 0
		case "j", "down":
			m.helpStart++
		case "k", "up":
			if m.helpStart > 0 {
				m.helpStart--
			}
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.FocusToggle) {
		return m, m.toggleFocus()
	}

	if m.focus == views.FocusCombobox {
		return m.handleComboboxKey(msg)
	}
	return m.handleCarouselKey(msg)
}

func (m *Model) handleCarouselKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.navigate(m.carousel.Next())

	case key.Matches(msg, m.keys.Prev):
		m.navigate(m.carousel.Prev())

	case key.Matches(msg, m.keys.Autoplay):
		if err := m.carousel.ToggleAutoplay(); err != nil {
			m.setError(err.Error())
		}

	case key.Matches(msg, m.keys.Step):
		if !m.carousel.Layout().StepInteraction {
			return m, nil
		}
		ordinal := int(msg.Runes[0] - '1')
		if _, ok := m.carousel.Bullets().Get(ordinal); ok {
			m.navigate(m.carousel.SetIndex(ordinal))
		}

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.FullHelp):
		if m.helpOps == nil {
			return m, nil
		}
		return m, m.fetchHelpPager(m.helpText.RenderHelpContentPlain())
	}
	return m, nil
}

func (m *Model) handleComboboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cb := m.combobox

	switch {
	case key.Matches(msg, m.keys.HighlightNext):
		cb.HighlightNext()
		return m, nil

	case key.Matches(msg, m.keys.HighlightPrev):
		cb.HighlightPrev()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if !cb.IsOpen() {
			cb.Open()
			return m, nil
		}
		if err := cb.SelectHighlighted(); err != nil {
			if errors.Is(err, domain.ErrInvalidIndex) {
				m.setStatus("Nothing to select")
				return m, nil
			}
			m.setError(err.Error())
			return m, nil
		}
		m.input.SetValue(cb.InputValue())
		m.input.CursorEnd()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if cb.IsOpen() {
			cb.Close()
			return m, nil
		}
		return m, m.toggleFocus()

	case key.Matches(msg, m.keys.Trigger):
		cb.SetTriggerFocused(true)
		cb.Toggle()
		cb.SetTriggerFocused(false)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		cb.Clear()
		m.input.SetValue("")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		cb.Filter(after)
	}
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == views.FocusCarousel {
		m.focus = views.FocusCombobox
		m.combobox.SetInputFocused(true)
		return m.input.Focus()
	}
	m.focus = views.FocusCarousel
	m.input.Blur()
	m.combobox.SetInputFocused(false)
	m.combobox.Blur()
	return nil
}

// handleMouse drives carousel drags: press starts, motion accumulates
// horizontal movement, release snaps.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.carousel.BeginDrag() {
			m.dragging = true
			m.dragX = msg.X
		}

	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		m.carousel.UpdateDrag(float64(msg.X - m.dragX))
		m.dragX = msg.X

	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		if _, err := m.carousel.EndDrag(); err != nil {
			m.setError(err.Error())
		}
	}
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch event := e.(type) {
	case eventbus.SlideChangedEvent:
		// Autoplay advances from its own goroutine; the event only
		// triggers a re-render. It can arrive after later key handling,
		// so it must not touch the status line.

	case eventbus.AutoplayChangedEvent:
		if event.Playing {
			m.setStatus("Autoplay on")
		} else {
			m.setStatus("Autoplay off")
		}

	case eventbus.OptionsReloadedEvent:
		if err := m.combobox.SetOptions(event.Options); err != nil {
			m.setError(fmt.Sprintf("Options not reloaded: %v", err))
			return
		}
		m.setStatus(fmt.Sprintf("Reloaded %d options", len(event.Options)))

	case eventbus.OptionSelectedEvent:
		m.setStatus(fmt.Sprintf("Selected %s", event.Label))

	case eventbus.ErrorEvent:
		m.setError(fmt.Sprintf("%s: %v", event.Message, event.Err))
	}
}

func (m *Model) navigate(err error) {
	if err == nil {
		m.status = ""
		return
	}
	if errors.Is(err, domain.ErrOutOfRange) {
		m.setStatus("No more slides")
		return
	}
	m.setError(err.Error())
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsError = false
}

func (m *Model) setError(s string) {
	log.Printf("ui: %s", s)
	m.status = s
	m.statusIsError = true
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	car := m.carousel.Snapshot()
	cb := m.combobox.Snapshot()

	slides := make([]string, 0, car.NumSlides)
	for _, h := range m.carousel.Slides().Ordered() {
		if s, ok := h.(string); ok {
			slides = append(slides, s)
		}
	}

	bullets := ""
	if n := m.carousel.Bullets().Len(); n > 1 {
		m.bullets.SetTotalPages(n)
		m.bullets.Page = car.Index
		bullets = m.bullets.View()
	}

	lines := make([]string, len(cb.Filtered))
	for i := range cb.Filtered {
		lines[i] = m.combobox.RenderOption(i)
	}

	// Keep the text input in step with model-driven input changes.
	if m.input.Value() != cb.InputValue {
		m.input.SetValue(cb.InputValue)
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Focus:         m.focus,
		Carousel:      car,
		Slides:        slides,
		ShowProgress:  m.config.UI.ShowProgress,
		ProgressBar:   m.progress.ViewAs(car.Progress / 100),
		Bullets:       bullets,
		Combobox:      cb,
		OptionLines:   lines,
		InputView:     m.input.View(),
		StatusMessage: m.status,
		StatusIsError: m.statusIsError,
		ReadyMarker:   m.readyMarker,
	}

	if m.config.UI.ShowHelp {
		var km help.KeyMap = carouselKeys{m.keys}
		if m.focus == views.FocusCombobox {
			km = comboboxKeys{m.keys}
		}
		state.HelpBar = m.help.View(km)
	}
	if m.showHelp {
		state.ShowHelp = true
		state.HelpContent = m.helpText.renderHelpContent(m.height, m.helpStart)
	}
	return state
}
