package registry

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns patterns for editor and download leftovers
// that share a directory with profiles.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.swp",
		"*~",
		".#*",
		".~*",
	}
}

// FileFilter decides which files in the profile directory are profiles.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter. If patterns is empty, the default
// patterns are used.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore reports whether the base name of path matches an ignore
// pattern.
func (f *FileFilter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// SiteFor maps a changed file to the site it holds a profile for.
func (f *FileFilter) SiteFor(path string) (string, bool) {
	if f.ShouldIgnore(path) {
		return "", false
	}
	return SiteID(path)
}

// Patterns returns a copy of the ignore patterns.
func (f *FileFilter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}

// SiteID returns the site id encoded in a profile file name.
func SiteID(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(name), ProfileExt) {
		return "", false
	}
	id := name[:len(name)-len(ProfileExt)]
	if id == "" || strings.HasPrefix(id, ".") {
		return "", false
	}
	return id, true
}
