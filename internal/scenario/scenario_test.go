package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	sc := Default()

	if err := sc.Validate(); err != nil {
		t.Fatalf("default scenario should validate: %v", err)
	}

	if sc.URL != "http://localhost:5173/uap" {
		t.Errorf("unexpected default URL: %s", sc.URL)
	}

	if len(sc.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(sc.Steps))
	}

	first := sc.Steps[0]
	if first.Type != StepWaitVisible || first.Selector != "canvas" {
		t.Errorf("expected to wait for canvas first, got %+v", first)
	}
	if first.WaitTimeout() != 10*time.Second {
		t.Errorf("expected 10s canvas wait, got %v", first.WaitTimeout())
	}

	click := sc.Steps[2]
	if click.Type != StepClickButton || click.Text != "Enable AR" {
		t.Errorf("expected Enable AR click, got %+v", click)
	}

	// The screenshots bracket the click.
	if sc.Steps[1].Type != StepScreenshot || sc.Steps[1].Label != "initial" {
		t.Errorf("expected initial screenshot before click, got %+v", sc.Steps[1])
	}
	if sc.Steps[4].Type != StepScreenshot || sc.Steps[4].Label != "ar_enabled" {
		t.Errorf("expected ar_enabled screenshot after click, got %+v", sc.Steps[4])
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Scenario {
		return &Scenario{
			Name: "test",
			URL:  "http://localhost:8080/",
			Steps: []Step{
				{Type: StepScreenshot, Label: "initial"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{"valid scenario", func(s *Scenario) {}, false},
		{"missing name", func(s *Scenario) { s.Name = "" }, true},
		{"missing url", func(s *Scenario) { s.URL = "" }, true},
		{"relative url", func(s *Scenario) { s.URL = "/uap" }, true},
		{"no steps", func(s *Scenario) { s.Steps = nil }, true},
		{"unknown step type", func(s *Scenario) {
			s.Steps = []Step{{Type: "hover"}}
		}, true},
		{"wait_visible without selector", func(s *Scenario) {
			s.Steps = []Step{{Type: StepWaitVisible}}
		}, true},
		{"screenshot without label", func(s *Scenario) {
			s.Steps = []Step{{Type: StepScreenshot}}
		}, true},
		{"duplicate screenshot label", func(s *Scenario) {
			s.Steps = []Step{
				{Type: StepScreenshot, Label: "a"},
				{Type: StepScreenshot, Label: "a"},
			}
		}, true},
		{"click_button without text", func(s *Scenario) {
			s.Steps = []Step{{Type: StepClickButton}}
		}, true},
		{"sleep without duration", func(s *Scenario) {
			s.Steps = []Step{{Type: StepSleep}}
		}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sc := valid()
			tt.mutate(sc)

			err := sc.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected valid scenario, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")

	content := `
name = "checkout"
url = "http://localhost:3000/shop"

[[steps]]
type = "wait_visible"
selector = "#cart"
timeout = "5s"

[[steps]]
type = "screenshot"
label = "before"

[[steps]]
type = "click_button"
text = "Buy now"

[[steps]]
type = "sleep"
duration = "500ms"

[[steps]]
type = "screenshot"
label = "after"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}

	if sc.Name != "checkout" {
		t.Errorf("expected name checkout, got %s", sc.Name)
	}
	if len(sc.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[0].Timeout.Duration != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", sc.Steps[0].Timeout.Duration)
	}
	if sc.Steps[3].Duration.Duration != 500*time.Millisecond {
		t.Errorf("expected 500ms sleep, got %v", sc.Steps[3].Duration.Duration)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")

	// Valid TOML, invalid scenario (no steps).
	content := `
name = "empty"
url = "http://localhost:3000/"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for scenario with no steps")
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDurationText(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := d.UnmarshalText([]byte("1500ms")); err != nil {
		t.Fatalf("failed to parse duration: %v", err)
	}
	if d.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", d.Duration)
	}

	out, err := d.MarshalText()
	if err != nil {
		t.Fatalf("failed to marshal duration: %v", err)
	}
	if string(out) != "1.5s" {
		t.Errorf("expected 1.5s, got %s", out)
	}

	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
