// ABOUTME: Startup configuration from an env file in the base directory
// ABOUTME: Simple KEY=VALUE parsing; process environment takes precedence

package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const envFileName = ".env"

// LoadEnvFile parses a KEY=VALUE file. Blank lines and lines starting with
// '#' are skipped; values may be wrapped in single or double quotes. When a
// key appears more than once, the first assignment wins.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.TrimSpace(value)
		value = unquote(value)

		// First assignment wins
		if _, exists := values[key]; !exists {
			values[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read env file: %w", err)
	}

	return values, nil
}

// LoadEnv loads the .env file from baseDir into the process environment.
// Variables already present in the environment are never overwritten. A
// missing file is not an error; the env file is optional.
func LoadEnv(baseDir string) error {
	if baseDir == "" {
		return nil
	}

	path := filepath.Join(baseDir, envFileName)
	values, err := LoadEnvFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("unable to set %s: %w", key, err)
		}
	}

	return nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
