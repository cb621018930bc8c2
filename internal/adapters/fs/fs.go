package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

const (
	privateDirMode  = 0o700
	privateFileMode = 0o600
	systemTmp       = "/tmp"
	skillsDirName   = "skills"
	maxWalkUp       = 6
)

var (
	dotRuns      = regexp.MustCompile(`\.\.+`)
	unsafeRunes  = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.]`)
	pathSeparate = strings.NewReplacer("/", "_", `\`, "_")
)

// FileSystem applies the tool's path policy: private directories and an output sandbox limited to
// the workspace and the tmp roots.
type FileSystem struct {
	paths domain.Paths
}

var _ ports.FileSystem = (*FileSystem)(nil)

func New(paths domain.Paths) *FileSystem {
	return &FileSystem{paths: paths}
}

// SanitizeFilename never returns a name containing a path separator.
func (f *FileSystem) SanitizeFilename(name string) string {
	name = pathSeparate.Replace(name)
	name = dotRuns.ReplaceAllString(name, ".")
	name = unsafeRunes.ReplaceAllString(name, "_")
	return strings.Trim(strings.TrimSpace(name), ".")
}

func (f *FileSystem) EnsureDir(path string) error {
	if err := os.MkdirAll(path, privateDirMode); err != nil {
		return err
	}
	return HardenPath(path)
}

func (f *FileSystem) ResolveOutputDir(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return f.paths.DefaultOutputDir(), nil
	}

	resolved, err := resolvePath(raw)
	if err != nil {
		return "", fmt.Errorf("resolve output path %q: %w", raw, err)
	}

	roots := []string{f.paths.WorkspaceRoot, f.paths.TmpRoot, systemTmp}
	for _, root := range roots {
		if root == "" {
			continue
		}
		resolvedRoot, err := resolvePath(root)
		if err != nil {
			continue
		}
		if within(resolved, resolvedRoot) {
			return resolved, nil
		}
	}

	return "", fmt.Errorf("%w: %s (workspace %s)", domain.ErrOutputOutsideSandbox, resolved, f.paths.WorkspaceRoot)
}

func (f *FileSystem) RemoveAll(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if err := os.RemoveAll(path); err != nil {
		return true, err
	}
	return true, nil
}

// HardenPath restricts a directory to 0700 and a file to 0600. Missing paths are ignored.
func HardenPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	mode := os.FileMode(privateFileMode)
	if info.IsDir() {
		mode = privateDirMode
	}
	return os.Chmod(path, mode)
}

// ResolveWorkspaceRoot picks the directory holding the tool's state: the explicit override, then the
// working directory when it contains skills/, then the closest ancestor of the executable that does,
// then the working directory.
func ResolveWorkspaceRoot(override, cwd, executable string) string {
	if strings.TrimSpace(override) != "" {
		if resolved, err := resolvePath(override); err == nil {
			return resolved
		}
		return override
	}

	if isDir(filepath.Join(cwd, skillsDirName)) {
		return cwd
	}

	if executable != "" {
		dir := filepath.Dir(executable)
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			dir = resolved
		}
		for i := 0; i < maxWalkUp; i++ {
			parent := filepath.Dir(dir)
			if isDir(filepath.Join(dir, skillsDirName)) && dir != parent {
				return dir
			}
			dir = parent
		}
	}

	return cwd
}

func resolvePath(raw string) (string, error) {
	expanded, err := expandHome(raw)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	// Resolve symlinks on the deepest existing ancestor so a missing leaf is still accepted.
	existing := abs
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
