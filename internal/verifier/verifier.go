// Package verifier runs verification scenarios in a headless browser and
// captures screenshot artifacts.
package verifier

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/snapcheck/snapcheck/internal/browser"
	"github.com/snapcheck/snapcheck/internal/scenario"
)

// Verifier executes scenarios against a page
type Verifier struct {
	headless  bool
	outputDir string
	timeout   time.Duration
}

// New creates a new verifier. Screenshots are written under outputDir;
// timeout bounds the whole run.
func New(headless bool, outputDir string, timeout time.Duration) *Verifier {
	return &Verifier{
		headless:  headless,
		outputDir: outputDir,
		timeout:   timeout,
	}
}

// Capture is one screenshot artifact produced during a run
type Capture struct {
	Label   string    `json:"label"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	TakenAt time.Time `json:"taken_at"`
}

// Result describes a completed run. Err is nil when every step succeeded;
// Captures holds whatever was taken before a failure.
type Result struct {
	Scenario   string    `json:"scenario"`
	TargetURL  string    `json:"target_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Captures   []Capture `json:"captures"`
	Err        error     `json:"-"`
}

// Passed reports whether the run completed without error.
func (r *Result) Passed() bool {
	return r.Err == nil
}

// ErrorText returns the run error as a string, empty on success.
func (r *Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Run executes the scenario and always returns a Result; failures are
// recorded on the Result rather than panicking. The browser is released
// on every path via deferred cancels.
func (v *Verifier) Run(ctx context.Context, sc *scenario.Scenario) *Result {
	result := &Result{
		Scenario:  sc.Name,
		TargetURL: sc.URL,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
	}()

	opts := browser.Options(v.headless)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// Bound the entire run
	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, v.timeout)
	defer timeoutCancel()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(sc.URL),
	); err != nil {
		result.Err = fmt.Errorf("failed to load %s: %w", sc.URL, err)
		return result
	}

	for i, step := range sc.Steps {
		if err := v.runStep(browserCtx, sc, step, result); err != nil {
			result.Err = fmt.Errorf("step %d (%s): %w", i, step.Type, err)
			return result
		}
	}

	return result
}

// runStep executes a single step, appending captures to the result.
func (v *Verifier) runStep(ctx context.Context, sc *scenario.Scenario, step scenario.Step, result *Result) error {
	switch step.Type {
	case scenario.StepWaitVisible:
		stepCtx, cancel := context.WithTimeout(ctx, step.WaitTimeout())
		defer cancel()
		if err := chromedp.Run(stepCtx,
			chromedp.WaitVisible(step.Selector, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("waiting for %q: %w", step.Selector, err)
		}
		return nil

	case scenario.StepScreenshot:
		capture, err := v.screenshot(ctx, sc.Name, step.Label)
		if err != nil {
			return err
		}
		result.Captures = append(result.Captures, *capture)
		log.Printf("Screenshot %q saved to %s", step.Label, capture.Path)
		return nil

	case scenario.StepClickButton:
		stepCtx, cancel := context.WithTimeout(ctx, step.WaitTimeout())
		defer cancel()
		if err := chromedp.Run(stepCtx,
			chromedp.Click(buttonXPath(step.Text), chromedp.BySearch),
		); err != nil {
			return fmt.Errorf("clicking button %q: %w", step.Text, err)
		}
		return nil

	case scenario.StepSleep:
		return chromedp.Run(ctx, chromedp.Sleep(step.Duration.Duration))

	default:
		// Validate() rejects these before a run starts.
		return fmt.Errorf("unknown step type %q", step.Type)
	}
}

// screenshot captures the viewport and writes it as a PNG artifact.
func (v *Verifier) screenshot(ctx context.Context, name, label string) (*Capture, error) {
	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot %q: %w", label, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("screenshot %q is empty", label)
	}

	if err := os.MkdirAll(v.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(v.outputDir, fmt.Sprintf("%s_%s.png", name, label))
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return nil, fmt.Errorf("writing screenshot %q: %w", label, err)
	}

	return &Capture{
		Label:   label,
		Path:    path,
		Size:    int64(len(buf)),
		TakenAt: time.Now(),
	}, nil
}

// buttonXPath builds an XPath matching a button by its rendered text,
// also matching elements with an explicit button role.
func buttonXPath(text string) string {
	lit := xpathLiteral(text)
	return fmt.Sprintf(
		`//button[normalize-space(.)=%[1]s] | //*[@role="button"][normalize-space(.)=%[1]s]`,
		lit,
	)
}

// xpathLiteral quotes a string for use in an XPath expression. XPath 1.0
// has no escape syntax, so strings containing both quote kinds are built
// with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, `'`+p+`'`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
