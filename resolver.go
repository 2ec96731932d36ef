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
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/source"
)

// Resolver is used by the Finder to locate imported files.
type Resolver interface {
	// FindFileByPath searches for the file imported with the given path by
	// the file named importingFile. If no file can be found, the returned
	// error must wrap fs.ErrNotExist; such imports are silently skipped.
	FindFileByPath(importingFile, path string) (SearchResult, error)
}

// SearchResult represents information about a file that was found.
//
// Exactly one of Source or AST should be set. An AST can only be used for
// IDL imports; protocol and schema imports need Source.
type SearchResult struct {
	// The canonical path of the file found. Files are recognized as the same
	// file, for cycle detection and de-duplication, by this path. If empty,
	// the path of Source or the name of AST is used.
	Path string
	// The file contents.
	Source *source.File
	// An already parsed IDL file, such as the current contents of a file
	// open in an editor.
	AST *ast.FileNode
}

func (r SearchResult) path() string {
	switch {
	case r.Path != "":
		return r.Path
	case r.Source != nil:
		return r.Source.Path()
	case r.AST != nil:
		return r.AST.Name()
	default:
		return ""
	}
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(importingFile, path string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements Resolver.
func (f ResolverFunc) FindFileByPath(importingFile, path string) (SearchResult, error) {
	return f(importingFile, path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can supply a result. If none of the constituent resolvers can
// supply a result, the first error that is not a not-found error is
// returned. If there is no such error, or the slice of resolvers is empty,
// a not-found error is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements Resolver.
func (f CompositeResolver) FindFileByPath(importingFile, path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, notFound(path)
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(importingFile, path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
			firstErr = err
		}
	}
	if firstErr == nil {
		return SearchResult{}, notFound(path)
	}
	return SearchResult{}, firstErr
}

// SourceResolver can resolve imports by loading source files with an
// Opener.
//
// An import is first resolved relative to the directory of the importing
// file. If there is no such file, it is resolved against each of the
// ImportPaths, in order, and the first match is used.
type SourceResolver struct {
	// Additional directories to search, such as module roots.
	ImportPaths []string
	// Used to read files. If nil, files are read from the operating system
	// with source.OS.
	Opener source.Opener
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements Resolver.
func (r *SourceResolver) FindFileByPath(importingFile, path string) (SearchResult, error) {
	opener := r.Opener
	if opener == nil {
		opener = source.OS{}
	}
	for _, candidate := range r.candidates(importingFile, path) {
		file, err := opener.Open(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return SearchResult{}, fmt.Errorf("could not read %s: %w", candidate, err)
		}
		return SearchResult{Path: file.Path(), Source: file}, nil
	}
	return SearchResult{}, notFound(path)
}

func (r *SourceResolver) candidates(importingFile, path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	candidates := make([]string, 0, len(r.ImportPaths)+1)
	candidates = append(candidates, filepath.Join(filepath.Dir(importingFile), path))
	for _, root := range r.ImportPaths {
		candidates = append(candidates, filepath.Join(root, path))
	}
	return candidates
}

func notFound(path string) error {
	return &fs.PathError{Op: "import", Path: path, Err: fs.ErrNotExist}
}
