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

package avroidl

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/avroidl/source"
)

func TestSourceResolverOrder(t *testing.T) {
	t.Parallel()
	resolver := &SourceResolver{
		ImportPaths: []string{
			filepath.Join("testdata", "roots", "two"),
			filepath.Join("testdata", "roots", "one"),
		},
	}
	res, err := resolver.FindFileByPath(filepath.Join("testdata", "nav", "first.avdl"), "shared.avdl")
	require.NoError(t, err)
	require.NotNil(t, res.Source)
	assert.True(t, filepath.IsAbs(res.Path))
	assert.Equal(t, filepath.Join("testdata", "roots", "two", "shared.avdl"), relPath(t, res.Path))
	assert.Contains(t, res.Source.Text(), "InTwo")

	// next to the importing file wins over roots
	res, err = resolver.FindFileByPath(filepath.Join("testdata", "roots", "one", "x.avdl"), "shared.avdl")
	require.NoError(t, err)
	assert.Contains(t, res.Source.Text(), "InOne")

	_, err = resolver.FindFileByPath(filepath.Join("testdata", "nav", "first.avdl"), "nope.avdl")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	// directories are not files
	_, err = resolver.FindFileByPath("x.avdl", filepath.Join("testdata", "roots"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func relPath(t *testing.T, path string) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, path)
	require.NoError(t, err)
	return rel
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()
	files := source.NewMap(nil)
	files.Add("a.avdl", "protocol A {}")
	ioErr := errors.New("broken")
	failing := ResolverFunc(func(_, _ string) (SearchResult, error) {
		return SearchResult{}, ioErr
	})
	missing := ResolverFunc(func(_, path string) (SearchResult, error) {
		return SearchResult{}, notFound(path)
	})
	found := &SourceResolver{Opener: files}

	res, err := CompositeResolver{missing, failing, found}.FindFileByPath("p.avdl", "a.avdl")
	require.NoError(t, err)
	assert.Equal(t, "a.avdl", res.Path)

	_, err = CompositeResolver{missing, failing}.FindFileByPath("p.avdl", "a.avdl")
	assert.ErrorIs(t, err, ioErr)

	_, err = CompositeResolver{missing, found}.FindFileByPath("p.avdl", "b.avdl")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = CompositeResolver{}.FindFileByPath("p.avdl", "a.avdl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSearchResultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "x", SearchResult{Path: "x", Source: source.NewFile("y", "")}.path())
	assert.Equal(t, "y", SearchResult{Source: source.NewFile("y", "")}.path())
	assert.Equal(t, "", SearchResult{}.path())
}

func TestSourceResolverOpenError(t *testing.T) {
	t.Parallel()
	ioErr := errors.New("permission denied")
	resolver := &SourceResolver{Opener: openerFunc(func(string) (*source.File, error) {
		return nil, ioErr
	})}
	_, err := resolver.FindFileByPath("dir/p.avdl", "a.avdl")
	assert.ErrorIs(t, err, ioErr)
	assert.ErrorContains(t, err, filepath.Join("dir", "a.avdl"))
}
