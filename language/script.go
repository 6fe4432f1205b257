package language

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Script markers shared by every generated install script
const (
	scriptShebang    = "#!/bin/sh"
	scriptCompletion = "echo 'Dependency installation complete.'"
	scriptNoDeps     = "echo 'No dependencies to install.'"
	discardOutput    = " > /dev/null 2>&1"
)

// scriptBuilder accumulates an install script line by line.
type scriptBuilder struct {
	b strings.Builder
}

func newScript(title string) *scriptBuilder {
	s := &scriptBuilder{}
	s.line(scriptShebang)
	s.line("echo " + shellquote.Join("Installing "+title+" dependencies..."))
	return s
}

func (s *scriptBuilder) line(l string) {
	s.b.WriteString(l)
	s.b.WriteByte('\n')
}

// quiet runs args with output discarded and reports failure for pkg.
func (s *scriptBuilder) quiet(pkg string, args ...string) {
	s.line(shellquote.Join(args...) + discardOutput + " || " + failureEcho(pkg))
}

// verbose runs args keeping their output and reports failure for pkg.
func (s *scriptBuilder) verbose(pkg string, args ...string) {
	s.line(shellquote.Join(args...) + " || " + failureEcho(pkg))
}

func (s *scriptBuilder) finish() string {
	s.line(scriptCompletion)
	return s.b.String()
}

func failureEcho(pkg string) string {
	return "echo " + shellquote.Join("Failed to install "+pkg)
}

// Synthesize renders the install script for lang, independent of a registry.
// Unknown languages produce a script that installs nothing.
func (r *Registry) Synthesize(lang Name, deps DependencySet) string {
	profile, ok := r.byName[lang]
	if !ok {
		return scriptShebang + "\n" + scriptNoDeps + "\n"
	}
	return profile.Toolchain.InstallScript(deps)
}

// Extract scans code with lang's toolchain. Unknown languages yield an
// empty set.
func (r *Registry) Extract(lang Name, code string) DependencySet {
	profile, ok := r.byName[lang]
	if !ok {
		return DependencySet{}
	}
	return profile.Toolchain.ExtractDependencies(code)
}
