package language

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOverrides(t *testing.T) {
	ov, err := DefaultOverrides()
	require.NoError(t, err)

	assert.Equal(t, []Pin{{Name: "numpy", Version: "1.23.5"}}, ov.Python.Foundation)
	assert.Contains(t, ov.Python.StdLib, "datetime")
	assert.Equal(t, []Pin{{Name: "express", Version: "4.18.2"}}, ov.JavaScript.Pinned)
	assert.Equal(t, "tempcode", ov.Golang.Module)
	assert.Contains(t, ov.Golang.StdLibPrefixes, "net/http")
	require.NotEmpty(t, ov.CPP.Packages)
	assert.Equal(t, PackageMapping{Match: "boost", Package: "libboost-all-dev"}, ov.CPP.Packages[0])
}

func TestParseOverrides(t *testing.T) {
	t.Run("module defaults to tempcode", func(t *testing.T) {
		ov, err := ParseOverrides([]byte("python:\n  stdlib: [os]\n"))
		require.NoError(t, err)
		assert.Equal(t, "tempcode", ov.Golang.Module)
	})

	t.Run("pin needs a version", func(t *testing.T) {
		_, err := ParseOverrides([]byte("python:\n  pinned:\n    - name: pandas\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "python.pinned[0] needs both name and version")
	})

	t.Run("mapping needs a package", func(t *testing.T) {
		_, err := ParseOverrides([]byte("cpp:\n  packages:\n    - match: curl\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cpp.packages[0] needs both match and package")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseOverrides([]byte("python: [unterminated"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse overrides")
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Run("empty path uses built-in tables", func(t *testing.T) {
		ov, err := LoadOverrides("")
		require.NoError(t, err)
		assert.NotEmpty(t, ov.Python.Foundation)
	})

	t.Run("custom file changes the generated script", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overrides.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
python:
  stdlib: [os, sys]
  foundation:
    - name: numpy
      version: "2.0.0"
golang:
  module: sandbox
`), 0o644))

		ov, err := LoadOverrides(path)
		require.NoError(t, err)

		reg, err := NewRegistry(nil, ov)
		require.NoError(t, err)

		assert.Contains(t, reg.Synthesize(Python, NewDependencySet("requests")), "numpy==2.0.0")
		assert.Contains(t, reg.Synthesize(Golang, NewDependencySet()), "echo 'module sandbox' > go.mod")
		assert.Equal(t, []string{"json"}, reg.Extract(Python, "import json").Sorted())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read overrides file")
	})
}

func TestOverridesExtendCPPHeaders(t *testing.T) {
	code := "#include <set>\n#include <queue>\n#include <iostream>\n"

	reg := newTestRegistry(t)
	assert.Equal(t, []string{"queue", "set"}, reg.Extract(CPP, code).Sorted())

	ov, err := ParseOverrides([]byte("cpp:\n  stdlib: [iostream, set, queue]\n"))
	require.NoError(t, err)
	reg, err = NewRegistry(nil, ov)
	require.NoError(t, err)

	assert.Zero(t, reg.Extract(CPP, code).Len())
	assert.NotContains(t, reg.Synthesize(CPP, reg.Extract(CPP, code)), "apt-get")
}
