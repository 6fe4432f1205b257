package language

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed overrides.yaml
var defaultOverrides []byte

// Pin is a package installed at a fixed version.
type Pin struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// PackageMapping maps a header or library name fragment to a system package.
type PackageMapping struct {
	Match   string `yaml:"match"`
	Package string `yaml:"package"`
}

// Overrides holds the per-language lookup tables used by the toolchains.
type Overrides struct {
	Python     PythonOverrides     `yaml:"python"`
	JavaScript JavaScriptOverrides `yaml:"javascript"`
	Golang     GolangOverrides     `yaml:"golang"`
	CPP        CPPOverrides        `yaml:"cpp"`
}

// PythonOverrides configures the pip install policy
type PythonOverrides struct {
	StdLib     []string `yaml:"stdlib"`
	Foundation []Pin    `yaml:"foundation"`
	Pinned     []Pin    `yaml:"pinned"`
}

// JavaScriptOverrides configures the npm install policy
type JavaScriptOverrides struct {
	Pinned []Pin    `yaml:"pinned"`
	Ignore []string `yaml:"ignore"`
}

// GolangOverrides configures the go get policy
type GolangOverrides struct {
	Module         string   `yaml:"module"`
	StdLibPrefixes []string `yaml:"stdlib_prefixes"`
	Pinned         []Pin    `yaml:"pinned"`
}

// CPPOverrides configures the apt-get install policy
type CPPOverrides struct {
	StdLib   []string         `yaml:"stdlib"`
	Packages []PackageMapping `yaml:"packages"`
}

// DefaultOverrides parses the tables compiled into the binary.
func DefaultOverrides() (*Overrides, error) {
	return ParseOverrides(defaultOverrides)
}

// LoadOverrides reads override tables from path, or the built-in tables
// when path is empty.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return DefaultOverrides()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes YAML override tables.
func ParseOverrides(data []byte) (*Overrides, error) {
	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}
	if err := ov.validate(); err != nil {
		return nil, fmt.Errorf("invalid overrides: %w", err)
	}
	return &ov, nil
}

func (o *Overrides) validate() error {
	pins := map[string][]Pin{
		"python.foundation": o.Python.Foundation,
		"python.pinned":     o.Python.Pinned,
		"javascript.pinned": o.JavaScript.Pinned,
		"golang.pinned":     o.Golang.Pinned,
	}
	for section, list := range pins {
		for i, pin := range list {
			if pin.Name == "" || pin.Version == "" {
				return fmt.Errorf("%s[%d] needs both name and version", section, i)
			}
		}
	}

	for i, m := range o.CPP.Packages {
		if m.Match == "" || m.Package == "" {
			return fmt.Errorf("cpp.packages[%d] needs both match and package", i)
		}
	}

	if o.Golang.Module == "" {
		o.Golang.Module = "tempcode"
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func pinNames(pins []Pin) []string {
	names := make([]string, 0, len(pins))
	for _, pin := range pins {
		names = append(names, pin.Name)
	}
	return names
}
