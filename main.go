package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	flag "github.com/spf13/pflag"

	"headlesskit/internal/carousel"
	"headlesskit/internal/combobox"
	"headlesskit/internal/config"
	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
	"headlesskit/internal/ui"
	"headlesskit/internal/watch"
)

func main() {
	var (
		configPath  string
		optionsPath string
		filterKind  string
		loop        bool
		autoplay    bool
		intervalMs  int
		logPath     string
		noColor     bool
		showUsage   bool
	)

	flags := flag.NewFlagSet("headlesskit", flag.ContinueOnError)
	flags.StringVarP(&configPath, "config", "c", config.FileName, "Path to the TOML config file")
	flags.StringVarP(&optionsPath, "options", "o", "", "Option-set file (TOML, YAML or JSON); watched for changes")
	flags.StringVar(&filterKind, "filter", "", "Combobox filter: contains, prefix or fuzzy")
	flags.BoolVar(&loop, "loop", false, "Wrap carousel and combobox navigation at the ends")
	flags.BoolVar(&autoplay, "autoplay", false, "Start the carousel playing")
	flags.IntVar(&intervalMs, "interval", 0, "Autoplay interval in milliseconds")
	flags.StringVar(&logPath, "log", "headlesskit.log", "Log file")
	flags.BoolVar(&noColor, "no-color", false, "Disable colours")
	flags.BoolVarP(&showUsage, "help", "h", false, "Show this help")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: headlesskit [flags]\n\n%s", flags.FlagUsages())
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if showUsage {
		flags.Usage()
		return
	}

	// Set up logging
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus, configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, flags, filterKind, loop, autoplay, intervalMs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	if optionsPath == "" {
		optionsPath = cfg.Combobox.OptionsFile
	}
	options := cfg.Combobox.Options
	if optionsPath != "" {
		options, err = config.LoadOptionsFile(optionsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading options: %v\n", err)
			os.Exit(1)
		}
	}

	car, err := carousel.New(cfg.CarouselOptions(), carousel.WithID("headlesskit-carousel"), carousel.WithBus(bus))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating carousel: %v\n", err)
		os.Exit(1)
	}
	defer car.Close()

	filter, err := combobox.PredicateFor(domain.FilterKind(cfg.Combobox.Filter))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating combobox: %v\n", err)
		os.Exit(1)
	}
	cb, err := combobox.New(cfg.ComboboxOptions(options),
		combobox.WithID("headlesskit-combobox"),
		combobox.WithBus(bus),
		combobox.WithFilter(filter),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating combobox: %v\n", err)
		os.Exit(1)
	}

	uiModel := ui.NewModel(cfg, car, cb, cfg.Carousel.Slides)
	defer uiModel.Close()
	if os.Getenv("HEADLESSKIT_E2E_TEST") == "1" {
		uiModel.SetReadyMarker(true)
	}

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward events to the UI through a bounded channel so a slow
	// render never blocks the bus.
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventSlideChanged,
		eventbus.EventAutoplayChanged,
		eventbus.EventOptionSelected,
		eventbus.EventOptionsReloaded,
		eventbus.EventError,
	} {
		bus.Subscribe(t, forwardEvent)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	if optionsPath != "" {
		if err := watch.WatchOptions(ctx, optionsPath, bus); err != nil {
			log.Printf("Not watching %s: %v", filepath.Base(optionsPath), err)
		}
	}

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cfg *config.Config, flags *flag.FlagSet, filterKind string, loop, autoplay bool, intervalMs int) {
	if flags.Changed("filter") {
		cfg.Combobox.Filter = filterKind
	}
	if flags.Changed("loop") {
		cfg.Carousel.Loop = loop
		cfg.Combobox.Loop = loop
	}
	if flags.Changed("autoplay") {
		cfg.Carousel.Autoplay = autoplay
	}
	if flags.Changed("interval") {
		cfg.Carousel.IntervalMs = intervalMs
	}
}
