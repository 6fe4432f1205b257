package language

import (
	"regexp"
	"strings"
)

var (
	jsRequireRe = regexp.MustCompile(`\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
	jsImportRe  = regexp.MustCompile(`\bimport\b.*?['"]([^'"]+)['"]`)
)

type javaScriptToolchain struct {
	pinned []Pin
	ignore []string
}

func newJavaScriptToolchain(ov JavaScriptOverrides) *javaScriptToolchain {
	return &javaScriptToolchain{
		pinned: append([]Pin(nil), ov.Pinned...),
		ignore: append([]string(nil), ov.Ignore...),
	}
}

func (j *javaScriptToolchain) ExtractDependencies(code string) DependencySet {
	deps := DependencySet{}
	for _, line := range strings.Split(code, "\n") {
		for _, re := range []*regexp.Regexp{jsRequireRe, jsImportRe} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				j.add(deps, m[1])
			}
		}
	}
	return deps
}

func (j *javaScriptToolchain) add(deps DependencySet, specifier string) {
	// Relative paths and node: builtins are never npm packages.
	if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "node:") {
		return
	}
	base, _, _ := strings.Cut(specifier, "/")
	deps.Add(base)
}

func (j *javaScriptToolchain) InstallScript(deps DependencySet) string {
	s := newScript("JavaScript")
	s.line("mkdir -p node_modules")
	s.quiet("git", "apk", "add", "--no-cache", "git")

	if deps.Len() == 0 {
		return s.finish()
	}

	s.line("npm init -y" + discardOutput)
	for _, pin := range j.pinned {
		if deps.Has(pin.Name) {
			s.quiet(pin.Name, "npm", "install", "--no-save", pin.Name+"@"+pin.Version)
		}
	}

	rest := deps.Without(pinNames(j.pinned)...).Without(j.ignore...)
	for _, dep := range rest.Sorted() {
		s.quiet(dep, "npm", "install", "--no-save", dep)
	}
	return s.finish()
}
