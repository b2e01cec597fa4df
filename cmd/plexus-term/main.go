package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/render"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "JSON configuration file (defaults are used when empty)")
	schemaFile := flag.String("schema", "", "JSON schema for the configuration (embedded schema when empty)")
	seed := flag.Uint64("seed", 0, "random seed, 0 for a random one")
	cellWidth := flag.Float64("cell-width", render.DefaultCellWidth, "field pixels per terminal column")
	cellHeight := flag.Float64("cell-height", render.DefaultCellHeight, "field pixels per terminal row")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	cfg := plexus.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = plexus.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// the screen owns stdout, logs go to a file or nowhere
	var logger golog.Logger = golog.DiscardLogger
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logger = golog.New(golog.DebugLevel, f)
	}

	opts := []plexus.Option{plexus.WithConfig(*cfg)}
	if *seed != 0 {
		opts = append(opts, plexus.WithSeed(*seed))
	}

	if err := run(logger, *cellWidth, *cellHeight, cfg.TickInterval(), opts...); err != nil {
		fmt.Fprintf(os.Stderr, "plexus-term: %v\n", err)
		os.Exit(1)
	}
}

func run(logger golog.Logger, cellWidth, cellHeight float64, interval time.Duration, opts ...plexus.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	a, err := newTermApp(screen, logger, cellWidth, cellHeight, opts...)
	if err != nil {
		return err
	}
	defer a.close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.tick()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
