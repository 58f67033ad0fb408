package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version int          `toml:"version"`
	Run     RunConfig    `toml:"run"`
	Output  OutputConfig `toml:"output"`
	Watch   WatchConfig  `toml:"watch"`
}

type RunConfig struct {
	// TargetURL overrides the scenario's URL when set.
	TargetURL string `toml:"target_url"`
	// ScenarioFile points at a TOML scenario. Empty means the built-in
	// UAP tracker scenario.
	ScenarioFile   string `toml:"scenario_file"`
	Headless       bool   `toml:"headless"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type OutputConfig struct {
	// Dir is where screenshots and reports are written, relative to the
	// working directory unless absolute.
	Dir string `toml:"dir"`
	// HistoryDB is the run-history SQLite path. Empty means the default
	// under the user data dir.
	HistoryDB   string `toml:"history_db"`
	WriteReport bool   `toml:"write_report"`
}

type WatchConfig struct {
	// Schedule is a cron expression. When empty, IntervalMinutes is used.
	Schedule        string `toml:"schedule"`
	IntervalMinutes int    `toml:"interval_minutes"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		Run: RunConfig{
			Headless:       true,
			TimeoutSeconds: 60,
		},
		Output: OutputConfig{
			Dir:         "verification",
			WriteReport: true,
		},
		Watch: WatchConfig{
			IntervalMinutes: 15,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "snapcheck"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory for run history and other app data
func DataDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "snapcheck"), nil
}

// HistoryDBPath resolves the run-history database path, falling back to
// the default location under the user data dir.
func (c *Config) HistoryDBPath() (string, error) {
	if c.Output.HistoryDB != "" {
		return c.Output.HistoryDB, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Load reads config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
