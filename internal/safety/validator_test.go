package safety

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestProtectedPathBlocking verifies protected paths are blocked
func TestProtectedPathBlocking(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"root slash", "/", true},
		{"etc", "/etc", true},
		{"etc subdir", "/etc/ssh", true},
		{"bin", "/bin", true},
		{"bin file", "/bin/bash", true},
		{"usr", "/usr", true},
		{"usr local", "/usr/local", true},
		{"boot", "/boot", true},
		{"lib", "/lib", true},
		{"lib64", "/lib64", true},
		{"sbin", "/sbin", true},
		{"tmp allowed", "/tmp", false},
		{"tmp file", "/tmp/file.txt", false},
		{"home user", "/home/user", false},
	}

	protected := defaultProtected(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsProtectedPath(tt.path, protected)
			if result != tt.expected {
				t.Errorf("IsProtectedPath(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestExtraProtectedPaths(t *testing.T) {
	protected := defaultProtected([]string{"/srv/keep"})

	if !IsProtectedPath("/srv/keep/data.txt", protected) {
		t.Error("extra protected path not enforced")
	}
	if IsProtectedPath("/srv/other", protected) {
		t.Error("unrelated path blocked")
	}
}

func TestValidateDeleteTargetWithinRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "test.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	v := NewValidator(root, nil)
	if err := v.ValidateDeleteTarget(target); err != nil {
		t.Errorf("expected target within root to validate, got %v", err)
	}
}

func TestValidateDeleteTargetOutsideRoot(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	target := filepath.Join(other, "test.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	v := NewValidator(root, nil)
	err := v.ValidateDeleteTarget(target)
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestValidateDeleteTargetProtected(t *testing.T) {
	v := NewValidator("/", nil)
	err := v.ValidateDeleteTarget("/etc/passwd")
	if !errors.Is(err, ErrProtectedPath) {
		t.Errorf("expected ErrProtectedPath, got %v", err)
	}
}

// TestValidateDeleteTargetDotDotInsideRoot pins the normalization
// contract: a target with ".." segments that still resolves inside the
// root is a legitimate delete, not a violation. Scan results inherit
// relative segments whenever the root itself was given relatively.
func TestValidateDeleteTargetDotDotInsideRoot(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	target := filepath.Join(root, "test.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	v := NewValidator(root, nil)
	// Built by concatenation so the ".." survives into the raw input
	raw := root + string(os.PathSeparator) + "sub" + string(os.PathSeparator) + ".." + string(os.PathSeparator) + "test.txt"
	if err := v.ValidateDeleteTarget(raw); err != nil {
		t.Errorf("expected in-root path %s to validate, got %v", raw, err)
	}
}

// TestValidateDeleteTargetDotDotEscapeBlocked proves ".." segments
// cannot be used to resolve past the root: the normalized path falls
// outside and the outside-root check rejects it
func TestValidateDeleteTargetDotDotEscapeBlocked(t *testing.T) {
	root := t.TempDir()

	v := NewValidator(root, nil)
	raw := root + string(os.PathSeparator) + ".." + string(os.PathSeparator) + "test.txt"
	err := v.ValidateDeleteTarget(raw)
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot for %s, got %v", raw, err)
	}
}

// TestValidateDeleteTargetRelativeRoot runs the validator the way the
// session builds it when the user passes a relative root: both the
// root and the target are relative and contain ".." segments
func TestValidateDeleteTargetRelativeRoot(t *testing.T) {
	base := t.TempDir()
	data := filepath.Join(base, "data")
	elsewhere := filepath.Join(base, "elsewhere")
	for _, d := range []string{data, elsewhere} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(data, "test.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(elsewhere); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	v := NewValidator("../data", nil)
	if err := v.ValidateDeleteTarget(filepath.Join("..", "data", "test.txt")); err != nil {
		t.Errorf("expected relative in-root target to validate, got %v", err)
	}
}

func TestValidateDeleteTargetSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "test.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	v := NewValidator(root, nil)
	err := v.ValidateDeleteTarget(filepath.Join(link, "test.txt"))
	if !errors.Is(err, ErrSymlinkEscape) {
		t.Errorf("expected ErrSymlinkEscape, got %v", err)
	}
}

func TestValidateDeleteTargetMissingPathAllowed(t *testing.T) {
	root := t.TempDir()

	v := NewValidator(root, nil)
	// Deleting an already-gone path: validation passes, the delete
	// itself will report the failure
	if err := v.ValidateDeleteTarget(filepath.Join(root, "gone", "test.txt")); err != nil {
		t.Errorf("expected missing path to validate, got %v", err)
	}
}

func TestValidateDeleteTargetEmpty(t *testing.T) {
	v := NewValidator(t.TempDir(), nil)
	if !errors.Is(v.ValidateDeleteTarget("   "), ErrInvalidPath) {
		t.Error("expected ErrInvalidPath for blank target")
	}
}
