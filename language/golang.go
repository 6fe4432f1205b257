package language

import (
	"regexp"
	"strings"
)

var (
	goBlockRe  = regexp.MustCompile(`^\s*import\s*\(`)
	goSingleRe = regexp.MustCompile("^\\s*import\\s+(?:[A-Za-z_.][A-Za-z0-9_]*\\s+)?[\"`]([^\"`]+)[\"`]")
	goPathRe   = regexp.MustCompile("[\"`]([^\"`]+)[\"`]")
)

type golangToolchain struct {
	module    string
	stdlibPfx []string
	pinned    []Pin
}

func newGolangToolchain(ov GolangOverrides) *golangToolchain {
	return &golangToolchain{
		module:    ov.Module,
		stdlibPfx: append([]string(nil), ov.StdLibPrefixes...),
		pinned:    append([]Pin(nil), ov.Pinned...),
	}
}

func (g *golangToolchain) ExtractDependencies(code string) DependencySet {
	deps := DependencySet{}
	inBlock := false

	for _, line := range strings.Split(code, "\n") {
		if inBlock {
			body, closed := cutBlock(line)
			g.addPaths(deps, body)
			inBlock = !closed
			continue
		}

		if loc := goBlockRe.FindStringIndex(line); loc != nil {
			body, closed := cutBlock(line[loc[1]:])
			g.addPaths(deps, body)
			inBlock = !closed
			continue
		}

		if m := goSingleRe.FindStringSubmatch(line); m != nil {
			g.add(deps, m[1])
		}
	}
	return deps
}

// cutBlock returns the part of an import block line before the closing
// parenthesis, and whether the block closed on this line.
func cutBlock(line string) (string, bool) {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, ")"); i >= 0 {
		return line[:i], true
	}
	return line, false
}

func (g *golangToolchain) addPaths(deps DependencySet, body string) {
	for _, m := range goPathRe.FindAllStringSubmatch(body, -1) {
		g.add(deps, m[1])
	}
}

func (g *golangToolchain) add(deps DependencySet, importPath string) {
	// Prefix match: drops "os/exec" too, and any third-party path sharing a
	// prefix such as "timeutil".
	for _, prefix := range g.stdlibPfx {
		if strings.HasPrefix(importPath, prefix) {
			return
		}
	}
	deps.Add(importPath)
}

func (g *golangToolchain) InstallScript(deps DependencySet) string {
	s := newScript("Go")
	s.line("echo 'module " + g.module + "' > go.mod")

	for _, pin := range g.pinned {
		if deps.Has(pin.Name) {
			s.verbose(pin.Name, "go", "get", pin.Name+"@"+pin.Version)
		}
	}

	rest := deps.Without(pinNames(g.pinned)...)
	for _, dep := range rest.Sorted() {
		s.verbose(dep, "go", "get", dep)
	}
	return s.finish()
}
