package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/thisdougb/logattrs"
	"github.com/thisdougb/logattrs/internal/config"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var configPath string
	var logfile string
	var serveAddr string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is ./config.yml or $HOME/.config/logattrs/config.yml)")
	flag.StringVar(&logfile, "logfile", "", "log file to process in one-shot mode")
	flag.StringVar(&serveAddr, "serve", "", "serve /health and /status endpoints on this address")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("logattrs %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logfile != "" {
		cfg.Logfile = logfile
	}

	if err := run(cfg, serveAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appConfig, serveAddr string) error {
	ctx := config.SetContextCorrelationId(context.Background(), "cli")

	state := logattrs.NewState()
	defer state.Close()

	if err := populate(state, cfg); err != nil {
		return err
	}
	config.LogInfo(ctx, fmt.Sprintf("registered %d attributes", len(state.Names())))

	if serveAddr != "" {
		return serve(state, serveAddr)
	}

	// one-shot mode processes a single file and prints the report
	if cfg.Logfile != "" {
		return processLogfile(ctx, state, cfg.Logfile)
	}

	return runShell(ctx, state, cfg)
}

// populate registers the configured attribute set, falling back to the
// built-in definitions when no attributes file is configured.
func populate(state *logattrs.State, cfg appConfig) error {
	defs := defaultDefinitions()

	if cfg.AttributesFile != "" {
		loaded, err := loadDefinitions(cfg.AttributesFile)
		if err != nil {
			return err
		}
		defs = loaded
	}

	for _, def := range defs {
		if err := state.AddDefinition(def); err != nil {
			return err
		}
	}
	return nil
}

// serve mounts the health and status handlers and blocks.
func serve(state *logattrs.State, addr string) error {
	router := mux.NewRouter()
	router.HandleFunc("/health", state.HealthHandler()).Methods(http.MethodGet)
	router.HandleFunc("/status", state.StatusHandler()).Methods(http.MethodGet)

	fmt.Printf("Serving on http://%s\n", addr)
	return http.ListenAndServe(addr, router)
}
