package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"headlesskit/internal/carousel"
	"headlesskit/internal/combobox"
)

// ReadyMarker is printed once the first full frame renders, for scripted
// terminals that wait on it.
const ReadyMarker = "__READY__"

// Focus names the widget that receives keys
type Focus string

const (
	FocusCarousel Focus = "carousel"
	FocusCombobox Focus = "combobox"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Focus  Focus

	Carousel     carousel.Snapshot
	Slides       []string
	ProgressBar  string
	ShowProgress bool
	Bullets      string

	Combobox    combobox.Snapshot
	OptionLines []string // rendered by the combobox's option renderer
	InputView   string

	StatusMessage string
	StatusIsError bool
	HelpBar       string
	ShowHelp      bool
	HelpContent   string
	ReadyMarker   bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	title := r.styles.Title.Render("headlesskit")
	if state.ReadyMarker {
		title += " " + r.styles.Dim.Render(ReadyMarker)
	}
	content.WriteString(title)
	content.WriteString("\n\n")

	paneWidth := state.Width - 6
	if paneWidth < 20 {
		paneWidth = 20
	}

	content.WriteString(r.pane(state.Focus == FocusCarousel, paneWidth).Render(r.renderCarousel(state, paneWidth-4)))
	content.WriteString("\n")
	content.WriteString(r.pane(state.Focus == FocusCombobox, paneWidth).Render(r.renderCombobox(state)))
	content.WriteString("\n")

	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = style.Inherit(r.styles.StatusError)
		}
		content.WriteString(style.Render(state.StatusMessage))
		content.WriteString("\n")
	}
	if state.HelpBar != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpBar))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.ShowHelp && state.HelpContent != "" {
		popup := r.styles.HelpBox.Render(state.HelpContent)
		return lipgloss.Place(state.Width, state.Height, lipgloss.Center, lipgloss.Center, popup,
			lipgloss.WithWhitespaceChars(" "))
	}
	return finalContent
}

func (r *Renderer) pane(focused bool, width int) lipgloss.Style {
	if focused {
		return r.styles.FocusedPane.Width(width)
	}
	return r.styles.Pane.Width(width)
}

func (r *Renderer) renderCarousel(state ViewState, width int) string {
	snap := state.Carousel
	var b strings.Builder

	header := r.styles.Label.Render("Carousel")
	mode := r.styles.Dim.Render("paused")
	if snap.Playing {
		mode = r.styles.Playing.Render("▶ playing")
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", header, mode,
		r.styles.Dim.Render("aria-live="+snap.LiveRegion)))

	if snap.NumSlides == 0 || len(state.Slides) == 0 {
		b.WriteString(r.styles.Dim.Render("No slides"))
		return b.String()
	}

	slideStyle := r.styles.Slide
	if snap.Dragging {
		slideStyle = r.styles.SlideDragging
	}
	b.WriteString(slideStyle.Width(width).Render(r.visibleSlides(state)))
	b.WriteString("\n")

	counter := fmt.Sprintf("%d / %d", snap.Index+1, snap.NumSlides)
	if state.Bullets != "" {
		counter = state.Bullets + "  " + counter
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, counter))

	if state.ShowProgress && state.ProgressBar != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, state.ProgressBar))
	}
	return b.String()
}

// visibleSlides joins the slides in view, starting at the current index
func (r *Renderer) visibleSlides(state ViewState) string {
	snap := state.Carousel
	perView := snap.Layout.SlidesPerView
	if perView < 1 {
		perView = 1
	}
	gap := strings.Repeat(" ", 2+int(snap.Layout.Gap))

	var parts []string
	for i := 0; i < perView && i < len(state.Slides); i++ {
		idx := snap.Index + i
		if idx >= len(state.Slides) {
			if !snap.Layout.Loop {
				break
			}
			idx %= len(state.Slides)
		}
		parts = append(parts, state.Slides[idx])
	}
	return strings.Join(parts, gap+"│"+gap)
}

func (r *Renderer) renderCombobox(state ViewState) string {
	snap := state.Combobox
	var b strings.Builder

	b.WriteString(r.styles.Label.Render("Combobox"))
	b.WriteString("\n")
	b.WriteString(state.InputView)

	if !snap.Open {
		if snap.SelectedIndex >= 0 {
			b.WriteString("  ")
			b.WriteString(r.styles.Selected.Render("✓"))
		}
		return b.String()
	}

	b.WriteString("\n")
	if len(snap.Filtered) == 0 {
		b.WriteString(r.styles.Dim.Render("  No matches"))
		return b.String()
	}
	for i, opt := range snap.Filtered {
		line := state.OptionLines[i]
		marker := "  "
		switch {
		case opt.Disabled:
			line = r.styles.Disabled.Render(line)
		case i == snap.HighlightedIndex:
			marker = r.styles.Highlight.Render("> ")
			line = r.styles.HighlightBg.Render(r.styles.Highlight.Render(line))
		case i == snap.SelectedIndex:
			line = r.styles.Selected.Render(line)
		}
		if i == snap.SelectedIndex {
			line += " " + r.styles.Selected.Render("✓")
		}
		b.WriteString(marker + line)
		if i < len(snap.Filtered)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
