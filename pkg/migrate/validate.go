package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFilePattern = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every SQL migration in dir follows the goose naming
// convention and carries both Up and Down sections.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if !migrationFilePattern.MatchString(entry.Name()) {
			return fmt.Errorf("migration %s does not match YYYYMMDDHHMMSS_name.sql", entry.Name())
		}
		payload, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		content := string(payload)
		if !strings.Contains(content, "+goose Up") {
			return fmt.Errorf("migration %s is missing the +goose Up marker", entry.Name())
		}
		if !strings.Contains(content, "+goose Down") {
			return fmt.Errorf("migration %s is missing the +goose Down marker", entry.Name())
		}
	}
	return nil
}
