package language

import (
	"errors"
	"path"
)

// Name is the canonical identifier of a supported language.
type Name string

// Canonical language names
const (
	Python     Name = "python"
	JavaScript Name = "javascript"
	Golang     Name = "golang"
	CPP        Name = "cpp"
)

// ErrUnsupportedLanguage is returned when a language alias matches no profile.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Default container settings
const (
	DefaultWorkDir = "/code"

	DefaultPythonImage     = "python:3.9-slim"
	DefaultJavaScriptImage = "node:16-alpine"
	DefaultGolangImage     = "golang:1.20-alpine"
	DefaultCPPImage        = "gcc:11"
)

// Toolchain is the per-language dependency strategy.
type Toolchain interface {
	// ExtractDependencies scans source text for third-party dependency names.
	// It never fails; unrecognised input yields an empty set.
	ExtractDependencies(code string) DependencySet

	// InstallScript renders a shell script that installs deps. The set is
	// not modified.
	InstallScript(deps DependencySet) string
}

// Profile describes how to run one language inside a container.
type Profile struct {
	Language   Name
	Image      string
	SourceFile string
	WorkDir    string
	RunCommand []string
	Aliases    []string
	Toolchain  Toolchain
}

// ContainerPath is the absolute path of the source file inside the container.
func (p *Profile) ContainerPath() string {
	return path.Join(p.WorkDir, p.SourceFile)
}
