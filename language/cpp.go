package language

import (
	"regexp"
	"strings"
)

var cppIncludeRe = regexp.MustCompile(`#include\s*<([^>]+)>`)

type cppToolchain struct {
	stdlib   map[string]struct{}
	packages []PackageMapping
}

func newCPPToolchain(ov CPPOverrides) *cppToolchain {
	return &cppToolchain{
		stdlib:   toSet(ov.StdLib),
		packages: append([]PackageMapping(nil), ov.Packages...),
	}
}

func (c *cppToolchain) ExtractDependencies(code string) DependencySet {
	deps := DependencySet{}
	for _, line := range strings.Split(code, "\n") {
		m := cppIncludeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		header := strings.TrimSpace(m[1])
		if _, std := c.stdlib[header]; std {
			continue
		}
		if strings.Contains(header, "boost") {
			deps.Add("boost")
			continue
		}
		deps.Add(header)
	}
	return deps
}

// systemPackage maps a dependency to the apt package that provides it.
func (c *cppToolchain) systemPackage(dep string) string {
	lower := strings.ToLower(dep)
	for _, m := range c.packages {
		if strings.Contains(lower, strings.ToLower(m.Match)) {
			return m.Package
		}
	}

	// GL/gl.h -> libgl-dev, zlib.h -> libzlib-dev
	name, _, _ := strings.Cut(lower, "/")
	name, _, _ = strings.Cut(name, ".")
	return "lib" + name + "-dev"
}

func (c *cppToolchain) InstallScript(deps DependencySet) string {
	s := newScript("C++")
	if deps.Len() == 0 {
		return s.finish()
	}

	s.line("apt-get update" + discardOutput)

	seen := make(map[string]struct{}, deps.Len())
	for _, dep := range deps.Sorted() {
		pkg := c.systemPackage(dep)
		if _, dup := seen[pkg]; dup {
			continue
		}
		seen[pkg] = struct{}{}
		s.quiet(pkg, "apt-get", "install", "-y", "--no-install-recommends", pkg)
	}
	return s.finish()
}
