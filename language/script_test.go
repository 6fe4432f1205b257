package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesize(t *testing.T, lang Name, deps ...string) string {
	t.Helper()
	return newTestRegistry(t).Synthesize(lang, NewDependencySet(deps...))
}

func TestInstallScriptEmpty(t *testing.T) {
	tests := []struct {
		lang Name
		want string
	}{
		{Python, "#!/bin/sh\necho 'Installing Python dependencies...'\necho 'Dependency installation complete.'\n"},
		{CPP, "#!/bin/sh\necho 'Installing C++ dependencies...'\necho 'Dependency installation complete.'\n"},
		{JavaScript, "#!/bin/sh\necho 'Installing JavaScript dependencies...'\n" +
			"mkdir -p node_modules\n" +
			"apk add --no-cache git > /dev/null 2>&1 || echo 'Failed to install git'\n" +
			"echo 'Dependency installation complete.'\n"},
		{Golang, "#!/bin/sh\necho 'Installing Go dependencies...'\n" +
			"echo 'module tempcode' > go.mod\n" +
			"echo 'Dependency installation complete.'\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			assert.Equal(t, tt.want, synthesize(t, tt.lang))
		})
	}
}

func TestInstallScriptPython(t *testing.T) {
	script := synthesize(t, Python, "requests", "pandas", "numpy")

	assert.Equal(t, "#!/bin/sh\n"+
		"echo 'Installing Python dependencies...'\n"+
		"pip install --no-cache-dir --upgrade pip > /dev/null 2>&1\n"+
		"pip install --no-cache-dir numpy==1.23.5 > /dev/null 2>&1 || echo 'Failed to install numpy'\n"+
		"pip install --no-cache-dir pandas==1.5.3 > /dev/null 2>&1 || echo 'Failed to install pandas'\n"+
		"pip install --no-cache-dir requests > /dev/null 2>&1 || echo 'Failed to install requests'\n"+
		"echo 'Dependency installation complete.'\n", script)

	assert.Equal(t, 1, strings.Count(script, "pip install --no-cache-dir numpy"), "numpy is installed only at its pinned version")
}

func TestInstallScriptJavaScript(t *testing.T) {
	script := synthesize(t, JavaScript, "lodash", "express", "axios")

	assert.Equal(t, "#!/bin/sh\n"+
		"echo 'Installing JavaScript dependencies...'\n"+
		"mkdir -p node_modules\n"+
		"apk add --no-cache git > /dev/null 2>&1 || echo 'Failed to install git'\n"+
		"npm init -y > /dev/null 2>&1\n"+
		"npm install --no-save express@4.18.2 > /dev/null 2>&1 || echo 'Failed to install express'\n"+
		"npm install --no-save axios > /dev/null 2>&1 || echo 'Failed to install axios'\n"+
		"npm install --no-save lodash > /dev/null 2>&1 || echo 'Failed to install lodash'\n"+
		"echo 'Dependency installation complete.'\n", script)
}

func TestInstallScriptGolang(t *testing.T) {
	script := synthesize(t, Golang, "github.com/google/uuid", "github.com/gin-gonic/gin")

	assert.Equal(t, "#!/bin/sh\n"+
		"echo 'Installing Go dependencies...'\n"+
		"echo 'module tempcode' > go.mod\n"+
		"go get github.com/google/uuid@v1.3.0 || echo 'Failed to install github.com/google/uuid'\n"+
		"go get github.com/gin-gonic/gin || echo 'Failed to install github.com/gin-gonic/gin'\n"+
		"echo 'Dependency installation complete.'\n", script)
}

func TestInstallScriptCPP(t *testing.T) {
	script := synthesize(t, CPP, "boost", "curl/curl.h", "opencv2/core.hpp", "opencv2/imgproc.hpp", "zlib.h")

	assert.Equal(t, "#!/bin/sh\n"+
		"echo 'Installing C++ dependencies...'\n"+
		"apt-get update > /dev/null 2>&1\n"+
		"apt-get install -y --no-install-recommends libboost-all-dev > /dev/null 2>&1 || echo 'Failed to install libboost-all-dev'\n"+
		"apt-get install -y --no-install-recommends libcurl4-openssl-dev > /dev/null 2>&1 || echo 'Failed to install libcurl4-openssl-dev'\n"+
		"apt-get install -y --no-install-recommends libopencv-dev > /dev/null 2>&1 || echo 'Failed to install libopencv-dev'\n"+
		"apt-get install -y --no-install-recommends libzlib-dev > /dev/null 2>&1 || echo 'Failed to install libzlib-dev'\n"+
		"echo 'Dependency installation complete.'\n", script)
}

func TestSystemPackage(t *testing.T) {
	reg := newTestRegistry(t)
	p, err := reg.Resolve("cpp")
	require.NoError(t, err)
	tc, ok := p.Toolchain.(*cppToolchain)
	require.True(t, ok)

	tests := map[string]string{
		"boost":          "libboost-all-dev",
		"MySQL/mysql.h":  "libmysqlclient-dev",
		"sqlite3.h":      "libsqlite3-dev",
		"json/json.h":    "libjson-dev",
		"jsoncpp/json.h": "libjsoncpp-dev",
		"GL/gl.h":        "libgl-dev",
	}
	for dep, want := range tests {
		assert.Equal(t, want, tc.systemPackage(dep), dep)
	}
}

func TestInstallScriptProperties(t *testing.T) {
	reg := newTestRegistry(t)

	for _, p := range reg.Profiles() {
		t.Run(string(p.Language), func(t *testing.T) {
			deps := NewDependencySet("numpy", "express", "github.com/google/uuid", "boost", "left-pad")
			before := deps.Sorted()

			first := p.Toolchain.InstallScript(deps)
			second := p.Toolchain.InstallScript(deps)

			assert.Equal(t, first, second, "same input must render identically")
			assert.Equal(t, before, deps.Sorted(), "input set must not be modified")
			assert.True(t, strings.HasPrefix(first, "#!/bin/sh\necho 'Installing "))
			assert.True(t, strings.HasSuffix(first, "echo 'Dependency installation complete.'\n"))

			for _, line := range strings.Split(strings.TrimSpace(first), "\n") {
				if strings.Contains(line, "--upgrade pip") {
					continue
				}
				if strings.Contains(line, " install ") || strings.HasPrefix(line, "go get ") {
					assert.Contains(t, line, "|| echo 'Failed to install ", "package lines must not abort the script")
				}
			}
		})
	}
}
