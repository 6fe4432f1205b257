// Package sandbox provides secure code execution capabilities.
//
// The sandbox package implements the execution engine for running untrusted
// code in isolated containers: per-request workspaces, image provisioning,
// and the container lifecycle with guaranteed cleanup.
package sandbox

import (
	"context"
	"os"
	"time"
)

// ExecuteRequest represents the parameters for code execution
type ExecuteRequest struct {
	Language string
	Version  string // informational only
	Code     string
}

// NoExitCode marks a result without a well-defined process exit.
const NoExitCode = -1

// DefaultVersion is assumed when a request does not name one.
const DefaultVersion = "latest"

// Result represents the outcome of one execution. ExitCode is NoExitCode
// only together with a non-empty Error, which is then one of:
//
//	"timed out"             the execution deadline expired
//	"interrupted: <cause>"  the caller went away or waiting on the container failed
//	"sandbox failed: <msg>" the daemon reported an error for the container
//	anything else           setup failed before the program could run
//
// A non-empty Error with a real ExitCode means the program exited but its
// output could not be captured.
type Result struct {
	Stdout     string        `json:"stdout"`
	Stderr     string        `json:"stderr"`
	ExitCode   int           `json:"exit_code"`
	Error      string        `json:"error,omitempty"`
	InstallLog string        `json:"install_log,omitempty"`
	Duration   time.Duration `json:"-"`
}

// crashed builds the result for an execution that never produced a process exit.
func crashed(err error) Result {
	return Result{
		ExitCode: NoExitCode,
		Error:    err.Error(),
	}
}

// SandboxExecutor defines the interface for sandbox execution
type SandboxExecutor interface {
	// Execute runs req. The only error returned is one wrapping
	// language.ErrUnsupportedLanguage; every other failure is reported
	// through the Result.
	Execute(ctx context.Context, req ExecuteRequest) (Result, error)
}

// File permission constants
const (
	FilePermission   = 0o644
	ScriptPermission = 0o755
)

// FileSystem defines an interface for file system operations
type FileSystem interface {
	MkdirTemp(dir, pattern string) (string, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	ReadFile(filename string) ([]byte, error)
	RemoveAll(path string) error
}

// RealFileSystem implements FileSystem using actual file system operations
type RealFileSystem struct{}

func (RealFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (RealFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}

func (RealFileSystem) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (RealFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
