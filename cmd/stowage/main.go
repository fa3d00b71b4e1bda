// Command stowage is a reference host for the container registry: it wires
// up a keyed notes container and a single settings container, runs the
// initialize/mutate/shutdown lifecycle, and prints what the cache holds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/stowage-dev/stowage/codec"
	"github.com/stowage-dev/stowage/container"
	"github.com/stowage-dev/stowage/observability"
	"github.com/stowage-dev/stowage/registry"
)

type note struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type settings struct {
	Theme string `json:"theme"`
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to registry config JSON file")
		root       = flag.String("root", "", "Parent directory for container directories (overrides config)")
		observer   = flag.String("observer", "slog", "Observer to use for lifecycle events (slog, noop)")
		addTitle   = flag.String("add", "", "Title of a note to store before shutdown")
		addBody    = flag.String("body", "", "Body for -add")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := registry.DefaultConfig()
	if *configFile != "" {
		loaded, err := registry.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *root != "" {
		cfg.Root = *root
	}

	// The registry resolves the root inside its filesystem, which for the
	// default local-disk filesystem starts at /.
	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		log.Fatalf("Failed to resolve root: %v", err)
	}
	cfg.Root = absRoot

	obs, err := observability.GetObserver(*observer)
	if err != nil {
		log.Fatalf("Failed to resolve observer: %v", err)
	}

	notes, err := container.NewKeyed(container.KeyedConfig[string, note]{
		Codec:     codec.JSON{},
		Transform: container.IdentityTransform,
		Compose:   container.IdentityCompose,
		New:       func(key string) note { return note{Title: key} },
		Eager:     true,
		Observer:  obs,
	})
	if err != nil {
		log.Fatalf("Failed to create notes container: %v", err)
	}

	prefs, err := container.NewSingle(container.SingleConfig[settings]{
		Name:  "settings",
		Codec: codec.JSON{},
		New:   func() settings { return settings{Theme: "light"} },
	})
	if err != nil {
		log.Fatalf("Failed to create settings container: %v", err)
	}

	r := registry.New(registry.WithObserver(obs))
	if err := r.Register("notes", notes); err != nil {
		log.Fatalf("Failed to register notes: %v", err)
	}
	if err := r.Register("settings", prefs); err != nil {
		log.Fatalf("Failed to register settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := r.InitializeAll(ctx, cfg.Root); err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}

	if *addTitle != "" {
		n := note{Title: *addTitle, Body: *addBody}
		notes.Store(*addTitle, &n)
	}

	current, err := prefs.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	fmt.Printf("Theme: %s\n", current.Theme)

	keys := notes.CachedKeys()
	sort.Strings(keys)
	fmt.Printf("Notes (%d):\n", len(keys))
	for _, key := range keys {
		if n, ok := notes.Retrieve(key); ok {
			fmt.Printf("  %s: %s\n", n.Title, n.Body)
		}
	}

	if err := r.ShutdownAll(ctx); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}
