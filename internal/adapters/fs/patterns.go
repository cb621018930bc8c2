package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/gobwas/glob"
)

// ResolveUploadFiles expands file arguments in order. An existing file is taken as is; otherwise the
// last path element is a glob matched against regular files of its directory, falling back to cwd
// when that directory does not exist. Matches of one pattern are sorted by name.
func ResolveUploadFiles(patterns []string, cwd string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		expanded, err := expandHome(pattern)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(cwd, expanded)
		}

		if info, err := os.Stat(expanded); err == nil && info.Mode().IsRegular() {
			files = append(files, expanded)
			continue
		}

		matches, err := matchInDir(expanded, cwd)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, domain.ErrNoFilesToUpload
	}
	return files, nil
}

func matchInDir(path, cwd string) ([]string, error) {
	dir := filepath.Dir(path)
	if !isDir(dir) {
		dir = cwd
	}

	name := filepath.Base(path)
	matcher, err := glob.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", name, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by name.
	var matches []string
	for _, entry := range entries {
		if !matcher.Match(entry.Name()) {
			continue
		}
		candidate := filepath.Join(dir, entry.Name())
		if info, err := os.Stat(candidate); err != nil || !info.Mode().IsRegular() {
			continue
		}
		matches = append(matches, candidate)
	}
	return matches, nil
}
