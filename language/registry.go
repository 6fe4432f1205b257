package language

import (
	"fmt"
	"strings"
)

// Registry resolves language aliases to execution profiles. It is built once
// and never mutated, so it is safe for concurrent use.
type Registry struct {
	profiles []*Profile
	byName   map[Name]*Profile
	aliases  map[string]*Profile
}

// NewRegistry builds the registry of supported languages. images overrides
// the default image per language; empty entries keep the default. A nil
// overrides value uses the built-in tables.
func NewRegistry(images map[Name]string, overrides *Overrides) (*Registry, error) {
	if overrides == nil {
		ov, err := DefaultOverrides()
		if err != nil {
			return nil, err
		}
		overrides = ov
	}

	profiles := defaultProfiles(overrides)

	reg := &Registry{
		profiles: profiles,
		byName:   make(map[Name]*Profile, len(profiles)),
		aliases:  make(map[string]*Profile),
	}

	for _, p := range profiles {
		if image := strings.TrimSpace(images[p.Language]); image != "" {
			p.Image = image
		}

		reg.byName[p.Language] = p
		for _, alias := range p.Aliases {
			key := strings.ToLower(alias)
			if existing, ok := reg.aliases[key]; ok {
				return nil, fmt.Errorf("alias %q registered for both %s and %s", alias, existing.Language, p.Language)
			}
			reg.aliases[key] = p
		}
	}

	for lang := range images {
		if _, ok := reg.byName[lang]; !ok {
			return nil, fmt.Errorf("image configured for %w: %s", ErrUnsupportedLanguage, lang)
		}
	}

	return reg, nil
}

func defaultProfiles(ov *Overrides) []*Profile {
	return []*Profile{
		{
			Language:   Python,
			Image:      DefaultPythonImage,
			SourceFile: "code.py",
			WorkDir:    DefaultWorkDir,
			RunCommand: []string{"python", "code.py"},
			Aliases:    []string{"python", "py"},
			Toolchain:  newPythonToolchain(ov.Python),
		},
		{
			Language:   JavaScript,
			Image:      DefaultJavaScriptImage,
			SourceFile: "code.js",
			WorkDir:    DefaultWorkDir,
			RunCommand: []string{"node", "code.js"},
			Aliases:    []string{"javascript", "js"},
			Toolchain:  newJavaScriptToolchain(ov.JavaScript),
		},
		{
			Language:   Golang,
			Image:      DefaultGolangImage,
			SourceFile: "code.go",
			WorkDir:    DefaultWorkDir,
			RunCommand: []string{"go", "run", "code.go"},
			Aliases:    []string{"golang", "go"},
			Toolchain:  newGolangToolchain(ov.Golang),
		},
		{
			Language:   CPP,
			Image:      DefaultCPPImage,
			SourceFile: "code.cpp",
			WorkDir:    DefaultWorkDir,
			RunCommand: []string{"sh", "-c", "g++ -o program code.cpp && ./program"},
			Aliases:    []string{"cpp", "c++"},
			Toolchain:  newCPPToolchain(ov.CPP),
		},
	}
}

// Resolve returns the profile registered for alias. Matching is
// case-insensitive and ignores surrounding whitespace.
func (r *Registry) Resolve(alias string) (*Profile, error) {
	key := strings.ToLower(strings.TrimSpace(alias))
	p, ok := r.aliases[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, alias)
	}
	return p, nil
}

// Profiles returns every profile in registration order.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Aliases returns every accepted alias in registration order.
func (r *Registry) Aliases() []string {
	var out []string
	for _, p := range r.profiles {
		out = append(out, p.Aliases...)
	}
	return out
}

// Images returns the distinct container images used by the profiles.
func (r *Registry) Images() []string {
	seen := make(map[string]struct{}, len(r.profiles))
	var out []string
	for _, p := range r.profiles {
		if _, ok := seen[p.Image]; ok {
			continue
		}
		seen[p.Image] = struct{}{}
		out = append(out, p.Image)
	}
	return out
}
