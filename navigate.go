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
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/parser"
	"github.com/bufbuild/avroidl/project"
	"github.com/bufbuild/avroidl/reporter"
)

// NamedSchema is a named schema declaration found in a project.
type NamedSchema struct {
	Decl ast.NamedSchemaDecl
	// The file that contains the declaration.
	File *ast.FileNode
	// The full name of the declaration, or empty if it has no name.
	FullName string
}

// Pos returns the position of the schema's name, or of the declaration if
// it has no name.
func (s NamedSchema) Pos() ast.SourcePos {
	if name := s.Decl.NameNode(); name != nil {
		return s.File.NodeInfo(name).Start()
	}
	return s.File.NodeInfo(s.Decl).Start()
}

// FindNavigatableNamedSchemasInProject parses every IDL file of the project
// and returns all their named schema declarations, in file order and then
// source order. Imports are not followed. Files that cannot be read are
// skipped; files with syntax errors contribute what could be parsed.
//
// A nil project has no schemas.
//
// Files are parsed in parallel, up to the finder's MaxParallelism, or the
// project's if the finder does not set one. If ctx is cancelled, the
// declarations of the files parsed so far are returned along with the
// context's error.
func (f *Finder) FindNavigatableNamedSchemasInProject(ctx context.Context, proj *project.Project) ([]NamedSchema, error) {
	if proj == nil {
		return nil, nil
	}
	paths, err := proj.Files()
	if err != nil {
		return nil, err
	}
	par := f.MaxParallelism
	if par <= 0 {
		par = proj.MaxParallelism()
	}
	if par <= 0 {
		par = f.parallelism()
	}
	opener := proj.Opener()

	results := make([][]NamedSchema, len(paths))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(par)
	for i, path := range paths {
		if grpCtx.Err() != nil {
			break
		}
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			file, err := opener.Open(path)
			if err != nil {
				f.Logger.Warn().Err(err).Str("file", path).Msg("skipping unreadable file")
				return nil
			}
			handler := reporter.NewHandler(reporter.NewLoggingReporter(f.Logger))
			tree, err := parser.Parse(file.Path(), strings.NewReader(file.Text()), handler)
			if tree == nil {
				f.Logger.Warn().Err(err).Str("file", path).Msg("skipping unparseable file")
				return nil
			}
			results[i] = namedSchemas(tree)
			return nil
		})
	}
	err = grp.Wait()
	if err == nil {
		err = ctx.Err()
	}

	var all []NamedSchema
	for _, schemas := range results {
		all = append(all, schemas...)
	}
	return all, err
}

func namedSchemas(file *ast.FileNode) []NamedSchema {
	if file.Protocol == nil || file.Protocol.Body == nil {
		return nil
	}
	decls := file.Protocol.Body.NamedSchemaDecls()
	schemas := make([]NamedSchema, 0, len(decls))
	for _, decl := range decls {
		fullName, _ := decl.FullName()
		schemas = append(schemas, NamedSchema{Decl: decl, File: file, FullName: fullName})
	}
	return schemas
}
