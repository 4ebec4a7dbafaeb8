package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrProtectedPath = errors.New("protected path")
	ErrOutsideRoot   = errors.New("outside scanned root")
	ErrSymlinkEscape = errors.New("symlink escape detected")
)

// Validator enforces the safety contract for all delete operations.
// Deletions are confined to the root the session scanned.
type Validator struct {
	Root           string
	ProtectedPaths []string
}

// NewValidator creates a validator confined to root, with optional
// additional protected paths
func NewValidator(root string, extraProtected []string) *Validator {
	normalized := ""
	if abs, err := filepath.Abs(root); err == nil {
		normalized = filepath.Clean(abs)
	}
	return &Validator{
		Root:           normalized,
		ProtectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateDeleteTarget is the single-source-of-truth for delete authorization
// Returns typed error on safety violation.
// Targets come from the scanner, built by joining the root the user
// supplied with entry names, so relative segments are legitimate;
// normalization resolves them and the root-confinement and symlink
// checks decide whether the resolved path may be deleted.
func (v *Validator) ValidateDeleteTarget(path string) error {
	// 1. Normalize path to absolute, cleaned form
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	// 2. Block protected paths (system-critical)
	if IsProtectedPath(p, v.ProtectedPaths) {
		return ErrProtectedPath
	}

	// 3. Ensure within the scanned root
	if v.Root == "" || !hasPathPrefix(p, v.Root) {
		return ErrOutsideRoot
	}

	// 4. Detect symlink escape
	escaped, err := DetectSymlinkEscape(p, v.Root)
	if err != nil {
		// If symlink resolution fails (path already gone), allow the
		// deletion attempt; the actual delete will fail anyway
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if escaped {
		return ErrSymlinkEscape
	}

	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// DetectSymlinkEscape resolves symlinks and checks if the resolved
// final parent escapes the scanned root. The target itself may be a
// symlink; deleting a symlink only removes the link.
func DetectSymlinkEscape(cleanAbs, root string) (bool, error) {
	parent := filepath.Dir(cleanAbs)
	resolved, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return false, err
	}
	resolvedAbs, err := filepath.Abs(resolved)
	if err != nil {
		return false, err
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolvedRoot = root
	}
	if !hasPathPrefix(filepath.Clean(resolvedAbs), filepath.Clean(resolvedRoot)) {
		return true, nil
	}
	return false, nil
}

// IsProtectedPath checks if path matches protected system paths
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)

	// Hard block: "/" exact
	if p == string(os.PathSeparator) {
		return true
	}

	for _, prot := range protected {
		prot = filepath.Clean(prot)
		if p == prot || hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

// hasPathPrefix checks if path has the given prefix
func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return path == "/"
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

// defaultProtected returns the base set of protected paths plus any extras
func defaultProtected(extra []string) []string {
	base := []string{
		"/",
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
	}
	return append(base, extra...)
}
