package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/snapcheck/snapcheck/internal/config"
)

// resultsDir returns the cache directory for raw run results.
func resultsDir() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "results"), nil
}

// generateFilename creates a timestamped filename with the given extension.
func generateFilename(ext string) string {
	return time.Now().Format("2006-01-02T15-04-05") + ext
}

// SaveResultJSON saves a JSON-serializable run result to the results cache
// for debugging. Returns the path to the saved file.
func SaveResultJSON[T any](data T) (string, error) {
	dir, err := resultsDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results cache dir: %w", err)
	}

	path := filepath.Join(dir, generateFilename(".json"))

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}

	return path, nil
}

// LatestResultPath returns the path to the most recent cached result.
func LatestResultPath() (string, error) {
	dir, err := resultsDir()
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no cached results")
		}
		return "", err
	}

	// os.ReadDir sorts by name, which is chronological for our timestamps
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	if len(files) == 0 {
		return "", fmt.Errorf("no cached results")
	}

	return filepath.Join(dir, files[len(files)-1]), nil
}
