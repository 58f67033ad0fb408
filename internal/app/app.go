// Package app wires configuration, the scenario runner, run history, and
// reporting into the verification flow.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/snapcheck/snapcheck/internal/config"
	"github.com/snapcheck/snapcheck/internal/report"
	"github.com/snapcheck/snapcheck/internal/scenario"
	"github.com/snapcheck/snapcheck/internal/store"
	"github.com/snapcheck/snapcheck/internal/verifier"
)

// Runner executes a scenario and reports what happened.
type Runner interface {
	Run(ctx context.Context, sc *scenario.Scenario) *verifier.Result
}

// App holds the application state.
type App struct {
	config *config.Config
	runner Runner
	store  *store.Store
}

// New creates a new App instance.
func New(cfg *config.Config, runner Runner, st *store.Store) *App {
	return &App{
		config: cfg,
		runner: runner,
		store:  st,
	}
}

// LoadScenario resolves the scenario for this configuration: the configured
// scenario file if set, otherwise the built-in default, with the target URL
// override applied.
func LoadScenario(cfg *config.Config) (*scenario.Scenario, error) {
	var sc *scenario.Scenario
	if cfg.Run.ScenarioFile != "" {
		loaded, err := scenario.Load(cfg.Run.ScenarioFile)
		if err != nil {
			return nil, err
		}
		sc = loaded
	} else {
		sc = scenario.Default()
	}

	if cfg.Run.TargetURL != "" {
		sc.URL = cfg.Run.TargetURL
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return sc, nil
}

// Verify performs the full verify -> record -> report flow. A failed
// verification is logged and recorded in history, not returned as an
// error; only persistence problems surface to the caller.
func (a *App) Verify(ctx context.Context) error {
	sc, err := LoadScenario(a.config)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	log.Printf("Verifying %s (scenario %s, %d steps)...", sc.URL, sc.Name, len(sc.Steps))

	result := a.runner.Run(ctx, sc)

	if result.Passed() {
		log.Printf("Verification passed: %d screenshots in %v",
			len(result.Captures), result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	} else {
		log.Printf("Verification failed: %v", result.Err)
		log.Printf("Kept %d screenshots taken before the failure", len(result.Captures))
	}

	// Cache the raw result for debugging
	if cachePath, err := store.SaveResultJSON(result); err != nil {
		log.Printf("Failed to cache result: %v", err)
	} else {
		log.Printf("Cached result to: %s", cachePath)
	}

	run, captures := toHistory(result)
	if err := a.store.SaveRun(run, captures); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if a.config.Output.WriteReport {
		path, err := report.WriteFile(a.config.Output.Dir, run, captures)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Printf("Report saved to: %s", path)
	}

	return nil
}

// toHistory converts a runner result into history rows.
func toHistory(result *verifier.Result) (*store.Run, []store.Capture) {
	run := &store.Run{
		ID:         uuid.NewString(),
		Scenario:   result.Scenario,
		TargetURL:  result.TargetURL,
		Status:     store.StatusPassed,
		Error:      result.ErrorText(),
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
	if !result.Passed() {
		run.Status = store.StatusFailed
	}

	captures := make([]store.Capture, 0, len(result.Captures))
	for _, c := range result.Captures {
		captures = append(captures, store.Capture{
			RunID:   run.ID,
			Label:   c.Label,
			Path:    c.Path,
			Size:    c.Size,
			TakenAt: c.TakenAt,
		})
	}

	return run, captures
}

// History returns the most recent runs with their captures, newest first.
func (a *App) History(limit int) ([]store.RunWithCaptures, error) {
	runs, err := a.store.RecentRuns(limit)
	if err != nil {
		return nil, err
	}

	results := make([]store.RunWithCaptures, 0, len(runs))
	for _, run := range runs {
		captures, err := a.store.CapturesForRun(run.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, store.RunWithCaptures{Run: run, Captures: captures})
	}

	return results, nil
}
