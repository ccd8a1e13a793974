package uploader

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// resolver maps request paths onto the upload root.
type resolver struct {
	root        string
	allowHidden bool
}

// resolve returns the cleaned slash path relative to the root (always
// starting with "/") and the absolute filesystem path it maps to.
func (r resolver) resolve(requested string) (string, string, error) {
	requested = strings.ReplaceAll(requested, "\\", "/")
	for _, part := range strings.Split(requested, "/") {
		if part == ".." {
			return "", "", fmt.Errorf("%q: %w", requested, domain.ErrPathOutsideRoot)
		}
	}

	rel := path.Clean("/" + requested)
	if !r.allowHidden && isHidden(rel) {
		return "", "", fmt.Errorf("%q: %w", rel, domain.ErrHiddenEntry)
	}

	full := filepath.Join(r.root, filepath.FromSlash(rel))
	if err := r.checkSymlinks(full); err != nil {
		return "", "", fmt.Errorf("%q: %w", rel, err)
	}
	return rel, full, nil
}

// checkSymlinks rejects paths whose existing part resolves outside the root.
func (r resolver) checkSymlinks(full string) error {
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		return err
	}

	existing := full
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return nil
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return err
	}
	if !within(root, resolved) {
		return domain.ErrPathOutsideRoot
	}
	return nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// isHidden reports whether any component of a slash path starts with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
