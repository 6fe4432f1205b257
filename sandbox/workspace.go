package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Names of the files the orchestrator places in, or reads from, a workspace.
const (
	InstallScriptName = "install_dependencies.sh"
	InstallLogName    = "install.log"
)

// WorkspaceManager creates per-execution directories under a root.
type WorkspaceManager struct {
	root string
	fs   FileSystem
}

// NewWorkspaceManager returns a manager rooted at root (os.TempDir() when empty).
func NewWorkspaceManager(root string, fsys FileSystem) *WorkspaceManager {
	if root == "" {
		root = os.TempDir()
	}
	if fsys == nil {
		fsys = RealFileSystem{}
	}
	return &WorkspaceManager{root: root, fs: fsys}
}

// Workspace is a directory owned by exactly one execution.
type Workspace struct {
	Path string
	fs   FileSystem
}

// Create makes a fresh workspace directory for the given execution.
// The returned path is absolute so it can be used as a bind-mount source.
func (m *WorkspaceManager) Create(executionID string) (*Workspace, error) {
	dir, err := m.fs.MkdirTemp(m.root, "code_exec_"+executionID+"_")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		_ = m.fs.RemoveAll(dir)
		return nil, fmt.Errorf("resolve workspace path: %w", err)
	}
	return &Workspace{Path: abs, fs: m.fs}, nil
}

// WriteSource writes the user code.
func (w *Workspace) WriteSource(name, code string) error {
	if err := w.fs.WriteFile(filepath.Join(w.Path, name), []byte(code), FilePermission); err != nil {
		return fmt.Errorf("write source file: %w", err)
	}
	return nil
}

// WriteInstallScript writes the executable dependency installer.
func (w *Workspace) WriteInstallScript(script string) error {
	if err := w.fs.WriteFile(filepath.Join(w.Path, InstallScriptName), []byte(script), ScriptPermission); err != nil {
		return fmt.Errorf("write install script: %w", err)
	}
	return nil
}

// ReadInstallLog returns what the install script printed, or "" if it never ran.
func (w *Workspace) ReadInstallLog() (string, error) {
	data, err := w.fs.ReadFile(filepath.Join(w.Path, InstallLogName))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read install log: %w", err)
	}
	return string(data), nil
}

// Destroy removes the workspace and everything in it.
func (w *Workspace) Destroy() error {
	if err := w.fs.RemoveAll(w.Path); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Path, err)
	}
	return nil
}
