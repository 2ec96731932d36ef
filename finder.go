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
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/external"
	"github.com/bufbuild/avroidl/internal/cycle"
	"github.com/bufbuild/avroidl/parser"
	"github.com/bufbuild/avroidl/reporter"
)

// Finder answers name lookup queries about Avro IDL files.
//
// Every query re-resolves and re-reads all imports; nothing is cached
// between calls, so results always reflect the files as they are when the
// query runs. A Finder may be used concurrently: each query keeps its own
// state.
type Finder struct {
	// Locates imported files. If nil, a SourceResolver that reads from the
	// operating system, with no additional import paths, is used.
	Resolver Resolver
	// Receives a warning for every import that is skipped because it could
	// not be read or parsed. May be nil. Only warnings are reported, since
	// broken imports never fail a query.
	Reporter reporter.Reporter
	// Diagnostics about import resolution. The zero value discards them.
	Logger zerolog.Logger
	// The maximum number of files parsed in parallel by project-wide
	// queries. If unspecified or set to a non-positive value, then
	// min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
}

// FindAllSchemaNamesAvailableInFile returns all schema names visible at the
// top of the given file, with no error filter and the null namespace as the
// current namespace. See FindAllSchemaNamesAvailableInProtocol.
func (f *Finder) FindAllSchemaNamesAvailableInFile(ctx context.Context, file *ast.FileNode) ([]LookupEntry, error) {
	if file == nil {
		return nil, nil
	}
	return f.FindAllSchemaNamesAvailableInProtocol(ctx, file.Protocol, false, "")
}

// FindAllSchemaNamesAvailableInProtocol returns the named schemas visible in
// the given protocol: its own declarations, followed by those of its imports
// in import order. Imported IDL files contribute their own declarations and
// then, recursively, their imports. Declarations without a name are skipped.
// If errorsOnly is true, only error types are returned.
//
// Entries are formatted relative to the given current namespace, see
// LookupEntry. The protocol's file should be named with its canonical path,
// so that imports that lead back to it are recognized.
//
// Imports that cannot be resolved, read or parsed contribute nothing; that
// is never an error. The only error returned is that of ctx, if it is
// cancelled or its deadline passes before the query completes. In that case
// the entries gathered so far are returned along with the error.
func (f *Finder) FindAllSchemaNamesAvailableInProtocol(ctx context.Context, protocol *ast.ProtocolNode, errorsOnly bool, namespace string) ([]LookupEntry, error) {
	if protocol == nil {
		return nil, nil
	}
	q := &query{
		finder:     f,
		ctx:        ctx,
		logger:     f.Logger,
		errorsOnly: errorsOnly,
		namespace:  namespace,
		seen:       map[entryKey]struct{}{},
	}
	path := protocolPath(protocol)
	// cannot fail on an empty stack
	_ = q.inProgress.Push(path)
	err := q.protocol(path, protocol)
	q.logger.Debug().
		Str("file", path).
		Int("entries", len(q.entries)).
		Strs("schemas", q.schemas.Names()).
		Msg("name lookup done")
	return q.entries, err
}

func (f *Finder) resolver() Resolver {
	if f.Resolver == nil {
		return &SourceResolver{}
	}
	return f.Resolver
}

func (f *Finder) parallelism() int {
	par := f.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if par > cpus {
			par = cpus
		}
	}
	return par
}

func protocolPath(protocol *ast.ProtocolNode) string {
	file := protocol.File()
	if file == nil || file.Name() == "" {
		return ""
	}
	return filepath.Clean(file.Name())
}

// query is the state of a single lookup.
type query struct {
	finder     *Finder
	ctx        context.Context
	logger     zerolog.Logger
	errorsOnly bool
	namespace  string

	// accumulates the named types of all schema imports
	schemas    external.Parser
	inProgress cycle.Stack[string]
	seen       map[entryKey]struct{}
	entries    []LookupEntry
}

// entryKey identifies a schema definition. IDL declarations are keyed by
// their first token, external schemas by full name.
type entryKey struct {
	path     string
	start    ast.Token
	fullName string
}

func (q *query) add(key entryKey, entry LookupEntry) {
	if _, ok := q.seen[key]; ok {
		return
	}
	q.seen[key] = struct{}{}
	q.entries = append(q.entries, entry)
}

// protocol adds the entries declared in and imported into the given
// protocol, which was read from path.
func (q *query) protocol(path string, protocol *ast.ProtocolNode) error {
	if protocol == nil || protocol.Body == nil {
		return nil
	}
	for _, decl := range protocol.Body.NamedSchemaDecls() {
		if q.errorsOnly && !decl.IsErrorType() {
			continue
		}
		entry, ok := declEntry(decl, path, q.namespace)
		if !ok {
			continue
		}
		q.add(entryKey{path: path, start: decl.Start()}, entry)
	}
	for _, imp := range protocol.Body.Imports() {
		if err := q.importFile(path, protocol.File(), imp); err != nil {
			return err
		}
	}
	return nil
}

func (q *query) importFile(importingPath string, file *ast.FileNode, imp *ast.ImportNode) error {
	kind := imp.ImportType()
	if kind == ast.ImportUnknown || imp.Path == nil {
		return nil
	}
	if err := q.ctx.Err(); err != nil {
		return err
	}
	importPath := imp.Path.Value()
	res, err := q.finder.resolver().FindFileByPath(importingPath, importPath)
	if errors.Is(err, fs.ErrNotExist) {
		q.logger.Debug().Str("file", importingPath).Str("import", importPath).Msg("import not found")
		return nil
	}
	if err != nil {
		q.skip(importingPath, file, imp, err)
		return nil
	}
	path := res.path()
	if err := q.inProgress.Push(path); err != nil {
		q.skip(importingPath, file, imp, err)
		return nil
	}
	defer q.inProgress.Pop()
	q.logger.Debug().Str("file", importingPath).Stringer("kind", kind).Str("resolved", path).Msg("import")

	switch kind {
	case ast.ImportIDL:
		tree := res.AST
		if tree == nil {
			if res.Source == nil {
				q.skip(importingPath, file, imp, errors.New("resolver returned no file"))
				return nil
			}
			handler := reporter.NewHandler(reporter.NewLoggingReporter(q.logger))
			tree, err = parser.Parse(path, strings.NewReader(res.Source.Text()), handler)
			if tree == nil {
				q.skip(importingPath, file, imp, err)
				return nil
			}
			if err != nil {
				// keep whatever could be parsed
				q.logger.Debug().Err(err).Str("file", path).Msg("imported file has syntax errors")
			}
		}
		return q.protocol(path, tree.Protocol)

	case ast.ImportProtocol:
		if res.Source == nil {
			q.skip(importingPath, file, imp, fmt.Errorf("%s: protocol imports need the file contents", path))
			return nil
		}
		protocol, err := external.ParseProtocol(res.Source.Bytes())
		if err != nil {
			q.skip(importingPath, file, imp, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		q.addSchemas(path, imp, protocol.Types)

	case ast.ImportSchema:
		if res.Source == nil {
			q.skip(importingPath, file, imp, fmt.Errorf("%s: schema imports need the file contents", path))
			return nil
		}
		schemas, err := q.schemas.Parse(path, res.Source.Bytes())
		if err != nil {
			q.skip(importingPath, file, imp, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		q.addSchemas(path, imp, schemas)
	}
	return nil
}

func (q *query) addSchemas(path string, imp *ast.ImportNode, schemas []external.Schema) {
	for _, schema := range schemas {
		if q.errorsOnly && !schema.IsError {
			continue
		}
		q.add(entryKey{path: path, fullName: schema.FullName}, schemaEntry(schema, imp, path, q.namespace))
	}
}

// skip reports an import that contributes nothing because of err.
func (q *query) skip(importingPath string, file *ast.FileNode, imp *ast.ImportNode, err error) {
	pos := ast.UnknownPos(importingPath)
	if file != nil {
		pos = file.NodeInfo(imp.Path).Start()
	}
	q.logger.Warn().Err(err).Str("pos", pos.String()).Msg("skipping import")
	if q.finder.Reporter != nil {
		q.finder.Reporter.Warning(reporter.Error(pos, err))
	}
}
