// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
	return dir
}

func executeForTest(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheck(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"good.avdl": "protocol P { record R { int x; } }\n",
		"bad.avdl":  "protocol P { record R { int 42; } }\n",
	})

	code, _, stderr := executeForTest(t, "check", filepath.Join(dir, "good.avdl"))
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)

	code, _, stderr = executeForTest(t, "check", filepath.Join(dir, "good.avdl"), filepath.Join(dir, "bad.avdl"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "bad.avdl:1:29: syntax error")
	assert.Contains(t, stderr, "    protocol P { record R { int 42; } }\n"+
		"    "+strings.Repeat(" ", 28)+"^\n")

	code, _, stderr = executeForTest(t, "check", "--quiet", filepath.Join(dir, "bad.avdl"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)

	code, _, stderr = executeForTest(t, "check", filepath.Join(dir, "missing.avdl"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing.avdl")
}

func TestNames(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"main.avdl": `@namespace("org.a") protocol P {
  import idl "lib.avdl";
  record R {}
}
`,
		"roots/lib.avdl": `protocol L { @namespace("org.b") error E {} }`,
	})
	main := filepath.Join(dir, "main.avdl")

	code, stdout, _ := executeForTest(t, "names", main)
	assert.Equal(t, 0, code)
	// the root was not given, so the import contributes nothing
	assert.Equal(t, [][]string{{"org.a.R", "R", "org.a"}}, fieldsForTest(stdout))

	code, stdout, _ = executeForTest(t, "names", "--namespace", "org.a", "--root", filepath.Join(dir, "roots"), main)
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{
		{"R", "org.a.R", "org.a"},
		{"org.b.E", "E", "org.b", "error,imported"},
	}, fieldsForTest(stdout))

	code, stdout, _ = executeForTest(t, "names", "--errors", "-I", filepath.Join(dir, "roots"), main)
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"org.b.E", "E", "org.b", "error,imported"}}, fieldsForTest(stdout))

	code, _, stderr := executeForTest(t, "names")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "accepts 1 arg(s)")
}

func TestNamesProjectRoots(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"avroidl.yaml":   "roots:\n  - roots\n",
		"main.avdl":      `protocol P { import idl "lib.avdl"; }`,
		"roots/lib.avdl": `protocol L { fixed MD5(16); }`,
	})

	code, stdout, _ := executeForTest(t, "names", "--project", dir, filepath.Join(dir, "main.avdl"))
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"MD5", "imported"}}, fieldsForTest(stdout))
}

func TestSchemas(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"a.avdl":     "@namespace(\"x\") protocol A {\n  record R {}\n  error Oops {}\n}\n",
		"sub/b.avdl": "protocol B {\n  enum Color { RED }\n  fixed F(4);\n}\n",
	})

	code, stdout, stderr := executeForTest(t, "schemas", "-j", "1", dir)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.avdl") + ":2:10: record x.R",
		filepath.Join(dir, "a.avdl") + ":3:9: error x.Oops",
		filepath.Join(dir, "sub", "b.avdl") + ":2:8: enum Color",
		filepath.Join(dir, "sub", "b.avdl") + ":3:9: fixed F",
	}, strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"))
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	code, _, stderr := executeForTest(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)
}

func fieldsForTest(output string) [][]string {
	var lines [][]string
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		if line != "" {
			lines = append(lines, strings.Fields(line))
		}
	}
	return lines
}
