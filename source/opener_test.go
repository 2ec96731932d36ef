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

package source_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/avroidl/source"
)

func TestOS(t *testing.T) {
	t.Parallel()

	file, err := source.OS{}.Open("testdata/./hello.avdl")
	require.NoError(t, err)
	assert.Equal(t, "protocol Hello {}\n", file.Text())
	assert.True(t, filepath.IsAbs(file.Path()))
	assert.Equal(t, "hello.avdl", filepath.Base(file.Path()))

	_, err = source.OS{}.Open("testdata/missing.avdl")
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = source.OS{}.Open("testdata")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMap(t *testing.T) {
	t.Parallel()

	opener := source.NewMap(nil)
	opener.Add("a/../hello.avdl", "protocol Hello {}\n")

	file, err := opener.Open("./hello.avdl")
	require.NoError(t, err)
	assert.Equal(t, "protocol Hello {}\n", file.Text())
	assert.Equal(t, "hello.avdl", file.Path())

	_, err = opener.Open("missing.avdl")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileLines(t *testing.T) {
	t.Parallel()

	file := source.NewFile("x.avdl", "one\ntwo\n\nfour")
	assert.Equal(t, "one\n", file.Line(1))
	assert.Equal(t, "two\n", file.Line(2))
	assert.Equal(t, "\n", file.Line(3))
	assert.Equal(t, "four", file.Line(4))
	assert.Equal(t, "", file.Line(5))

	var nilFile *source.File
	assert.Equal(t, "", nilFile.Path())
	assert.Equal(t, "", nilFile.Text())
}
