package language

import (
	"regexp"
	"strings"
)

var (
	pyImportRe = regexp.MustCompile(`^\s*import\s+(.+)$`)
	pyFromRe   = regexp.MustCompile(`^\s*from\s+([A-Za-z0-9_.]+)\s+import\b`)
	pyModuleRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

type pythonToolchain struct {
	stdlib     map[string]struct{}
	foundation []Pin
	pinned     []Pin
}

func newPythonToolchain(ov PythonOverrides) *pythonToolchain {
	return &pythonToolchain{
		stdlib:     toSet(ov.StdLib),
		foundation: append([]Pin(nil), ov.Foundation...),
		pinned:     append([]Pin(nil), ov.Pinned...),
	}
}

func (p *pythonToolchain) ExtractDependencies(code string) DependencySet {
	deps := DependencySet{}
	for _, line := range strings.Split(code, "\n") {
		if m := pyFromRe.FindStringSubmatch(line); m != nil {
			p.add(deps, m[1])
			continue
		}

		m := pyImportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		names := m[1]
		if i := strings.IndexAny(names, "#;"); i >= 0 {
			names = names[:i]
		}
		// import a, b.c as d
		for _, part := range strings.Split(names, ",") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			p.add(deps, fields[0])
		}
	}
	return deps
}

func (p *pythonToolchain) add(deps DependencySet, module string) {
	if strings.HasPrefix(module, ".") || !pyModuleRe.MatchString(module) {
		return
	}
	top, _, _ := strings.Cut(module, ".")
	if _, std := p.stdlib[top]; std {
		return
	}
	deps.Add(top)
}

func (p *pythonToolchain) InstallScript(deps DependencySet) string {
	s := newScript("Python")
	if deps.Len() == 0 {
		return s.finish()
	}

	s.line("pip install --no-cache-dir --upgrade pip" + discardOutput)

	for _, pin := range p.foundation {
		s.quiet(pin.Name, "pip", "install", "--no-cache-dir", pin.Name+"=="+pin.Version)
	}
	for _, pin := range p.pinned {
		if deps.Has(pin.Name) {
			s.quiet(pin.Name, "pip", "install", "--no-cache-dir", pin.Name+"=="+pin.Version)
		}
	}

	rest := deps.Without(pinNames(p.foundation)...).Without(pinNames(p.pinned)...)
	for _, dep := range rest.Sorted() {
		s.quiet(dep, "pip", "install", "--no-cache-dir", dep)
	}
	return s.finish()
}
