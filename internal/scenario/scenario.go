// Package scenario defines the verification scenarios snapcheck executes
// against a page: an ordered list of browser steps decoded from TOML.
package scenario

import (
	"fmt"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
)

// Step types understood by the runner.
const (
	StepWaitVisible = "wait_visible"
	StepScreenshot  = "screenshot"
	StepClickButton = "click_button"
	StepSleep       = "sleep"
)

// DefaultWaitTimeout applies to wait_visible steps that don't set their own.
const DefaultWaitTimeout = 10 * time.Second

// Scenario is a named sequence of steps run against a single URL.
// The runner always navigates to URL before executing Steps.
type Scenario struct {
	Name  string `toml:"name"`
	URL   string `toml:"url"`
	Steps []Step `toml:"steps"`
}

// Step is one browser action. Which fields are required depends on Type:
// wait_visible needs Selector, screenshot needs Label, click_button needs
// Text, sleep needs Duration.
type Step struct {
	Type     string   `toml:"type"`
	Selector string   `toml:"selector,omitempty"`
	Label    string   `toml:"label,omitempty"`
	Text     string   `toml:"text,omitempty"`
	Timeout  Duration `toml:"timeout,omitempty"`
	Duration Duration `toml:"duration,omitempty"`
}

// Duration wraps time.Duration so steps can say timeout = "10s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML encoding.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in scenario: wait for the UAP tracker's canvas,
// capture the initial state, enable AR, and capture the result.
func Default() *Scenario {
	return &Scenario{
		Name: "uap_tracker",
		URL:  "http://localhost:5173/uap",
		Steps: []Step{
			{Type: StepWaitVisible, Selector: "canvas", Timeout: Duration{Duration: 10 * time.Second}},
			{Type: StepScreenshot, Label: "initial"},
			{Type: StepClickButton, Text: "Enable AR"},
			{Type: StepSleep, Duration: Duration{Duration: 1 * time.Second}},
			{Type: StepScreenshot, Label: "ar_enabled"},
		},
	}
}

// Load reads a scenario from a TOML file and validates it.
func Load(path string) (*Scenario, error) {
	var sc Scenario
	if _, err := toml.DecodeFile(path, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &sc, nil
}

// Validate checks that the scenario is runnable.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("scenario url is required")
	}
	if u, err := url.Parse(s.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("scenario url %q is not an absolute URL", s.URL)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}

	labels := make(map[string]bool)
	for i, step := range s.Steps {
		switch step.Type {
		case StepWaitVisible:
			if step.Selector == "" {
				return fmt.Errorf("step %d: wait_visible requires a selector", i)
			}
		case StepScreenshot:
			if step.Label == "" {
				return fmt.Errorf("step %d: screenshot requires a label", i)
			}
			if labels[step.Label] {
				return fmt.Errorf("step %d: duplicate screenshot label %q", i, step.Label)
			}
			labels[step.Label] = true
		case StepClickButton:
			if step.Text == "" {
				return fmt.Errorf("step %d: click_button requires button text", i)
			}
		case StepSleep:
			if step.Duration.Duration <= 0 {
				return fmt.Errorf("step %d: sleep requires a positive duration", i)
			}
		default:
			return fmt.Errorf("step %d: unknown step type %q", i, step.Type)
		}
	}

	return nil
}

// WaitTimeout returns the step's timeout, or the package default.
func (st Step) WaitTimeout() time.Duration {
	if st.Timeout.Duration > 0 {
		return st.Timeout.Duration
	}
	return DefaultWaitTimeout
}
