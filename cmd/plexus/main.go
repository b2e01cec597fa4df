package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/app"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "JSON configuration file (defaults are used when empty)")
	schemaFile := flag.String("schema", "", "JSON schema for the configuration (embedded schema when empty)")
	width := flag.Int("width", 1280, "window width in pixels")
	height := flag.Int("height", 720, "window height in pixels")
	seed := flag.Uint64("seed", 0, "random seed, 0 for a random one")
	debug := flag.Bool("debug", false, "log at debug level and show frame stats")
	flag.Parse()

	cfg := plexus.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = plexus.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var logger golog.Logger = golog.New(golog.InfoLevel, os.Stdout)
	if *debug {
		logger = golog.New(golog.DebugLevel, os.Stdout)
	}

	var opts []plexus.Option
	if *seed != 0 {
		opts = append(opts, plexus.WithSeed(*seed))
	}
	if err := run(logger, *cfg, *width, *height, *debug, opts...); err != nil {
		log.Fatal(err)
	}
}

// run owns the actor system so it is stopped on every return path.
func run(logger golog.Logger, cfg plexus.Config, width, height int, debug bool, opts ...plexus.Option) error {
	ctx := context.Background()
	system, err := actor.NewActorSystem("Plexus",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Errorf("plexus: stopping actor system: %v", err)
		}
	}()

	game, err := app.NewGame(ctx, system, cfg, width, height, debug, opts...)
	if err != nil {
		return fmt.Errorf("failed to start plexus: %w", err)
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Plexus")
	return ebiten.RunGame(game)
}
