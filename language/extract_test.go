package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, lang Name, code string) []string {
	t.Helper()
	return newTestRegistry(t).Extract(lang, code).Sorted()
}

func TestExtractPython(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"stdlib only", "import os\nimport sys, json\nfrom datetime import datetime\n", []string{}},
		{"aliased import", "import numpy as np\nprint(np.sum([1]))", []string{"numpy"}},
		{"from import", "from flask import Flask", []string{"flask"}},
		{"dotted module", "import matplotlib.pyplot as plt\nfrom os.path import join", []string{"matplotlib"}},
		{"multiple names", "import requests, yaml as y, os", []string{"requests", "yaml"}},
		{"relative import", "from . import sibling\nfrom .pkg import thing", []string{}},
		{"indented import", "def f():\n    import pandas\n", []string{"pandas"}},
		{"trailing comment", "import requests  # http client", []string{"requests"}},
		{"not an import", "print('import numpy')\nimportant = 1", []string{}},
		{"duplicates", "import numpy\nimport numpy as np\nfrom numpy import array", []string{"numpy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract(t, Python, tt.code))
		})
	}
}

func TestExtractJavaScript(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"require", "const _ = require('lodash');", []string{"lodash"}},
		{"double quotes", `const express = require("express");`, []string{"express"}},
		{"subpath", "console.log(require('express/package.json').version)", []string{"express"}},
		{"es import", "import axios from 'axios';\nimport { x } from \"chalk\";", []string{"axios", "chalk"}},
		{"side effect import", "import 'dotenv/config';", []string{"dotenv"}},
		{"relative", "const util = require('./util');\nimport a from '../a';", []string{}},
		{"node builtin", "const fs = require('node:fs');", []string{}},
		{"scoped package", "import x from '@scope/pkg';", []string{"@scope"}},
		{"two on one line", "const a = require('a'), b = require('b');", []string{"a", "b"}},
		{"no imports", "console.log('Hello, World!');", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract(t, JavaScript, tt.code))
		})
	}
}

func TestExtractGolang(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"hello world", "package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(1) }", []string{}},
		{
			"import block",
			"package main\n\nimport (\n\t\"fmt\"\n\t\"github.com/google/uuid\"\n\tgin \"github.com/gin-gonic/gin\"\n\t_ \"github.com/lib/pq\" // driver\n)\n",
			[]string{"github.com/gin-gonic/gin", "github.com/google/uuid", "github.com/lib/pq"},
		},
		{"single aliased", "import yaml \"gopkg.in/yaml.v3\"", []string{"gopkg.in/yaml.v3"}},
		{"one line block", "import ( \"os\"; \"github.com/a/b\" )", []string{"github.com/a/b"}},
		{
			"multiple blocks",
			"import (\n\t\"strings\"\n)\n\nimport (\n\t\"github.com/x/y\"\n)\n",
			[]string{"github.com/x/y"},
		},
		{"stdlib prefix", "import (\n\t\"os/exec\"\n\t\"net/http/httptest\"\n\t\"math/rand\"\n)", []string{}},
		{"prefix weakness", "import \"timeutil\"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract(t, Golang, tt.code))
		})
	}
}

func TestExtractCPP(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"stdlib only", "#include <iostream>\n#include <vector>\n#include <string>", []string{}},
		{"boost collapses", "#include <boost/algorithm/string.hpp>\n#include <boost/asio.hpp>", []string{"boost"}},
		{"third party", "#include <curl/curl.h>\n#include <sqlite3.h>", []string{"curl/curl.h", "sqlite3.h"}},
		{"quoted include ignored", "#include \"local.h\"", []string{}},
		{"spacing", "#include<zlib.h>\n  #include   <GL/gl.h>", []string{"GL/gl.h", "zlib.h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract(t, CPP, tt.code))
		})
	}
}

func TestExtractOrderIndependent(t *testing.T) {
	tests := []struct {
		lang Name
		a, b string
	}{
		{Python, "import requests\nimport yaml\nimport flask", "import flask\nimport yaml\nimport requests"},
		{JavaScript, "const a = require('lodash');\nimport b from 'axios';", "import b from 'axios';\nconst a = require('lodash');"},
		{Golang, "import (\n\t\"github.com/a/b\"\n\t\"github.com/x/y\"\n)", "import \"github.com/x/y\"\nimport \"github.com/a/b\""},
		{CPP, "#include <curl/curl.h>\n#include <boost/asio.hpp>", "#include <boost/asio.hpp>\n#include <curl/curl.h>"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			a := extract(t, tt.lang, tt.a)
			require.NotEmpty(t, a)
			assert.Equal(t, a, extract(t, tt.lang, tt.b))
		})
	}
}
