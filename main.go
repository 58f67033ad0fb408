package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/snapcheck/snapcheck/internal/app"
	"github.com/snapcheck/snapcheck/internal/config"
	"github.com/snapcheck/snapcheck/internal/scheduler"
	"github.com/snapcheck/snapcheck/internal/store"
	"github.com/snapcheck/snapcheck/internal/verifier"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "run":
		runOnce()
	case "watch":
		runWatch()
	case "history":
		runHistory()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: snapcheck <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run [scenario.toml]   Run the verification once (default)")
	fmt.Println("  watch                 Re-run the verification on a schedule")
	fmt.Println("  history [n]           Show the n most recent runs (default 10)")
}

// loadConfig loads the config, creating the default on first run.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// First run - create default config
			cfg = config.Default()
			if err := cfg.Save(); err != nil {
				log.Printf("Warning: could not save default config: %v", err)
			} else {
				path, _ := config.ConfigPath()
				log.Printf("Created default config at: %s", path)
			}
		} else {
			log.Printf("Warning: could not load config: %v (using defaults)", err)
			cfg = config.Default()
		}
	}
	return cfg
}

// newApp wires the store and runner for the given config. The caller must
// close the returned store.
func newApp(cfg *config.Config) (*app.App, *store.Store, error) {
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve history db path: %w", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run history: %w", err)
	}

	runner := verifier.New(
		cfg.Run.Headless,
		cfg.Output.Dir,
		time.Duration(cfg.Run.TimeoutSeconds)*time.Second,
	)

	return app.New(cfg, runner, st), st, nil
}

// runOnce executes the verification a single time. Verification failures
// are recorded in history and logged; the process still exits zero so the
// artifacts and history remain the source of truth.
func runOnce() {
	cfg := loadConfig()
	if len(os.Args) > 2 {
		cfg.Run.ScenarioFile = os.Args[2]
	}

	a, st, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer st.Close()

	if err := a.Verify(context.Background()); err != nil {
		log.Printf("Error: %v", err)
	}
}

// runWatch runs the verification immediately, then on the configured
// schedule until interrupted.
func runWatch() {
	cfg := loadConfig()

	a, st, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer st.Close()

	sched := scheduler.New()
	job := func(ctx context.Context) error {
		return a.Verify(ctx)
	}

	if err := sched.AddWatchJob(cfg.Watch.Schedule, cfg.Watch.IntervalMinutes, job); err != nil {
		log.Fatalf("Failed to schedule verification: %v", err)
	}

	if err := sched.RunNow("verify", job); err != nil {
		log.Printf("Error: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

// runHistory prints the most recent runs.
func runHistory() {
	cfg := loadConfig()

	a, st, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer st.Close()

	limit := 10
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			log.Fatalf("Invalid history limit: %s", os.Args[2])
		}
		limit = n
	}

	runs, err := a.History(limit)
	if err != nil {
		log.Fatalf("Failed to read history: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %-6s  %-12s  %s  (%d screenshots)\n",
			r.Run.StartedAt.Format("2006-01-02 15:04:05"),
			r.Run.Status,
			r.Run.Scenario,
			r.Run.TargetURL,
			len(r.Captures),
		)
		if r.Run.Error != "" {
			fmt.Printf("    %s\n", r.Run.Error)
		}
	}
}
