package config

import (
	"os"
	"path/filepath"

	"wikititle/internal/registry"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string
	Message  string
	Severity ValidationSeverity
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // no errors; warnings are allowed
}

func (r *ValidationResult) add(issue ConfigValidationError) {
	if issue.Severity == SeverityError {
		r.Errors = append(r.Errors, issue)
	} else {
		r.Warnings = append(r.Warnings, issue)
	}
}

// ValidateEnvironment checks the configuration against the file system:
// the profile directory must be a readable directory, and the default site
// should have a profile in it.
func ValidateEnvironment(cfg *Configuration, profileDir string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	info, err := os.Stat(profileDir)
	switch {
	case os.IsNotExist(err):
		result.add(ConfigValidationError{
			Field:    "profileDirectory",
			Message:  "directory does not exist: " + profileDir,
			Severity: SeverityError,
		})
	case os.IsPermission(err):
		result.add(ConfigValidationError{
			Field:    "profileDirectory",
			Message:  "directory is not accessible: " + profileDir,
			Severity: SeverityError,
		})
	case err != nil:
		result.add(ConfigValidationError{
			Field:    "profileDirectory",
			Message:  "error accessing directory: " + err.Error(),
			Severity: SeverityError,
		})
	case !info.IsDir():
		result.add(ConfigValidationError{
			Field:    "profileDirectory",
			Message:  "path is not a directory: " + profileDir,
			Severity: SeverityError,
		})
	}

	if cfg.DefaultSite != "" && len(result.Errors) == 0 {
		path := filepath.Join(profileDir, cfg.DefaultSite+registry.ProfileExt)
		if _, err := os.Stat(path); err != nil {
			result.add(ConfigValidationError{
				Field:    "defaultSite",
				Message:  "no profile for default site: " + path,
				Severity: SeverityWarning,
			})
		}
	}

	if cfg.Watch != nil && cfg.Watch.Enabled && cfg.Watch.DebounceMillis < 10 {
		result.add(ConfigValidationError{
			Field:    "watch.debounceMillis",
			Message:  "very short debounce may reload a profile while it is still being written",
			Severity: SeverityWarning,
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}
