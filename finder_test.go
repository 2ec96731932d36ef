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
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/external"
	"github.com/bufbuild/avroidl/internal/cycle"
	"github.com/bufbuild/avroidl/parser"
	"github.com/bufbuild/avroidl/reporter"
	"github.com/bufbuild/avroidl/source"
)

// entry is the comparable part of a LookupEntry.
type entry struct {
	Text         string
	LookupString string
	TypeText     string
	Path         string
	IsError      bool
}

func entriesForTest(entries []LookupEntry) []entry {
	result := make([]entry, len(entries))
	for i, e := range entries {
		result[i] = entry{
			Text:         e.Text,
			LookupString: e.LookupString,
			TypeText:     e.TypeText,
			Path:         e.Path,
			IsError:      e.IsError,
		}
	}
	return result
}

func parseForTest(t *testing.T, files source.Opener, path string) *ast.FileNode {
	t.Helper()
	file, err := files.Open(path)
	require.NoError(t, err)
	tree, err := parser.Parse(file.Path(), strings.NewReader(file.Text()), reporter.NewHandler(nil))
	require.NoError(t, err)
	return tree
}

type warnings struct {
	mu   sync.Mutex
	errs []reporter.ErrorWithPos
}

func (w *warnings) reporter() reporter.Reporter {
	return reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.errs = append(w.errs, err)
	})
}

func newFinderForTest(files map[string]string, roots ...string) (*Finder, *source.Map, *warnings) {
	m := source.NewMap(nil)
	for path, text := range files {
		m.Add(path, text)
	}
	w := &warnings{}
	finder := &Finder{
		Resolver: &SourceResolver{ImportPaths: roots, Opener: m},
		Reporter: w.reporter(),
	}
	return finder, m, w
}

func assertEntries(t *testing.T, expected []entry, actual []LookupEntry) {
	t.Helper()
	if diff := cmp.Diff(expected, entriesForTest(actual)); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestNoImports(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"p.avdl": `protocol P {
			record B {}
			enum A { X }
			record { int missingName; }
			fixed C(4);
			error D { string msg; }
			void ping();
		}`,
	})
	file := parseForTestLenient(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "B", Path: "p.avdl"},
		{Text: "A", Path: "p.avdl"},
		{Text: "C", Path: "p.avdl"},
		{Text: "D", Path: "p.avdl", IsError: true},
	}, entries)
	decls := file.Protocol.Body.NamedSchemaDecls()
	assert.Same(t, decls[0], entries[0].Source)
	assert.Same(t, decls[4], entries[3].Source)
	assert.Empty(t, w.errs)
}

func parseForTestLenient(t *testing.T, files source.Opener, path string) *ast.FileNode {
	t.Helper()
	file, err := files.Open(path)
	require.NoError(t, err)
	handler := reporter.NewHandler(reporter.NewReporter(func(reporter.ErrorWithPos) error { return nil }, nil))
	tree, _ := parser.Parse(file.Path(), strings.NewReader(file.Text()), handler)
	require.NotNil(t, tree)
	return tree
}

func TestDisplayRelativeToNamespace(t *testing.T) {
	t.Parallel()
	finder, files, _ := newFinderForTest(map[string]string{
		"p.avdl": `@namespace("ns.a") protocol P {
			record Foo {}
			@namespace("ns.b") record Bar {}
			@namespace("") record Plain {}
			error ns.a.Oops { string msg; }
		}`,
	})
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, false, "ns.a")
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "Foo", LookupString: "ns.a.Foo", TypeText: "ns.a", Path: "p.avdl"},
		{Text: "ns.b.Bar", LookupString: "Bar", TypeText: "ns.b", Path: "p.avdl"},
		{Text: "Plain", Path: "p.avdl"},
		{Text: "Oops", LookupString: "ns.a.Oops", TypeText: "ns.a", Path: "p.avdl", IsError: true},
	}, entries)

	entries, err = finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, false, "")
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "ns.a.Foo", LookupString: "Foo", TypeText: "ns.a", Path: "p.avdl"},
		{Text: "ns.b.Bar", LookupString: "Bar", TypeText: "ns.b", Path: "p.avdl"},
		{Text: "Plain", Path: "p.avdl"},
		{Text: "ns.a.Oops", LookupString: "Oops", TypeText: "ns.a", Path: "p.avdl", IsError: true},
	}, entries)
}

func TestImportedNamespace(t *testing.T) {
	t.Parallel()
	finder, files, _ := newFinderForTest(map[string]string{
		"p.avdl": `@namespace("ns.a") protocol P {
			import idl "b.avdl";
			record Foo {}
		}`,
		"b.avdl": `@namespace("ns.b") protocol B { record Bar {} }`,
	})
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, false, "ns.a")
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "Foo", LookupString: "ns.a.Foo", TypeText: "ns.a", Path: "p.avdl"},
		{Text: "ns.b.Bar", LookupString: "Bar", TypeText: "ns.b", Path: "b.avdl"},
	}, entries)
	bar, ok := entries[1].Source.(ast.NamedSchemaDecl)
	require.True(t, ok)
	assert.Equal(t, "b.avdl", bar.Protocol().File().Name())
}

func TestErrorsOnly(t *testing.T) {
	t.Parallel()
	finder, files, _ := newFinderForTest(map[string]string{
		"p.avdl": `protocol P {
			import idl "q.avdl";
			import protocol "r.avpr";
			import schema "s.avsc";
			record R {}
			error E1 {}
		}`,
		"q.avdl": `protocol Q { error E2 {} enum N { A } }`,
		"r.avpr": `{"protocol": "R", "types": [
			{"type": "error", "name": "E3", "fields": []},
			{"type": "record", "name": "NotError", "fields": []}
		]}`,
		"s.avsc": `{"type": "record", "name": "S", "fields": []}`,
	})
	file := parseForTest(t, files, "p.avdl")
	all, err := finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, false, "")
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "R", Path: "p.avdl"},
		{Text: "E1", Path: "p.avdl", IsError: true},
		{Text: "E2", Path: "q.avdl", IsError: true},
		{Text: "N", Path: "q.avdl"},
		{Text: "E3", Path: "r.avpr", IsError: true},
		{Text: "NotError", Path: "r.avpr"},
		{Text: "S", Path: "s.avsc"},
	}, all)

	errs, err := finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, true, "")
	require.NoError(t, err)
	var expected []entry
	for _, e := range entriesForTest(all) {
		if e.IsError {
			expected = append(expected, e)
		}
	}
	assert.Len(t, expected, 3)
	assertEntries(t, expected, errs)
}

func TestBrokenImports(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"p.avdl": `protocol P {
			import schema "missing.avsc";
			import idl "missing.avdl";
			import schema "bad.avsc";
			import protocol "bad.avpr";
			import schema "undefined.avsc";
			import schema "good.avsc";
			import protocol "good.avpr";
			import idl "broken.avdl";
			record Own {}
		}`,
		"bad.avsc":       `{"type": "record", "name": `,
		"bad.avpr":       `{"types": []}`,
		"undefined.avsc": `{"type": "record", "name": "U", "fields": [{"name": "x", "type": "Nope"}]}`,
		"good.avsc":      `{"type": "fixed", "name": "G", "size": 1}`,
		"good.avpr":      `{"protocol": "GP", "namespace": "gp", "types": [{"type": "enum", "name": "GE", "symbols": ["A"]}]}`,
		"broken.avdl":    `protocol Broken { record Kept {} record Lost { int } }`,
	})
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "Own", Path: "p.avdl"},
		{Text: "G", Path: "good.avsc"},
		{Text: "gp.GE", LookupString: "GE", TypeText: "gp", Path: "good.avpr"},
		{Text: "Kept", Path: "broken.avdl"},
		{Text: "Lost", Path: "broken.avdl"},
	}, entries)

	// missing files are silent; the three malformed files are reported
	require.Len(t, w.errs, 3)
	assert.Equal(t, "p.avdl:4:39", w.errs[0].GetPosition().String())
	assert.ErrorContains(t, w.errs[0], "bad.avsc")
	assert.ErrorContains(t, w.errs[1], "bad.avpr")
	assert.ErrorContains(t, w.errs[2], "unknown type: Nope")

	imports := file.Protocol.Body.Imports()
	assert.Same(t, imports[5].Path, entries[1].Source)
}

func TestInvalidExternalImports(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"p.avdl": `protocol P {
			import schema "fields.avsc";
			import protocol "symbols.avpr";
			import schema "union.avsc";
			import schema "default.avsc";
			import schema "ok.avsc";
		}`,
		"fields.avsc":  `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}, {"name": "a", "type": "int"}]}`,
		"symbols.avpr": `{"protocol": "S", "types": [{"type": "enum", "name": "E", "symbols": ["X", "X"], "default": "Z"}]}`,
		"union.avsc":   `{"type": "record", "name": "U", "fields": [{"name": "u", "type": ["int", "int"]}]}`,
		"default.avsc": `{"type": "record", "name": "D", "fields": [{"name": "i", "type": "int", "default": "x"}]}`,
		"ok.avsc":      `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`,
	})
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	// R is only registered by the valid document
	assertEntries(t, []entry{
		{Text: "R", Path: "ok.avsc"},
	}, entries)

	require.Len(t, w.errs, 4)
	for i, name := range []string{"fields.avsc", "symbols.avpr", "union.avsc", "default.avsc"} {
		assert.ErrorIs(t, w.errs[i], external.ErrInvalidSchema)
		assert.ErrorContains(t, w.errs[i], name)
	}
}

func TestImportCycle(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"a.avdl": `protocol A { import idl "b.avdl"; record InA {} }`,
		"b.avdl": `protocol B { import idl "a.avdl"; import idl "b.avdl"; record InB {} }`,
	})
	file := parseForTest(t, files, "a.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "InA", Path: "a.avdl"},
		{Text: "InB", Path: "b.avdl"},
	}, entries)

	require.Len(t, w.errs, 2)
	var cycleErr *cycle.Error[string]
	require.ErrorAs(t, w.errs[0], &cycleErr)
	assert.Equal(t, []string{"a.avdl", "b.avdl", "a.avdl"}, cycleErr.Cycle)
	require.ErrorAs(t, w.errs[1], &cycleErr)
	assert.Equal(t, []string{"b.avdl", "b.avdl"}, cycleErr.Cycle)
}

func TestDiamondImports(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"top.avdl":          `protocol Top { import idl "left/l.avdl"; import idl "right/r.avdl"; }`,
		"left/l.avdl":       `protocol L { import idl "../shared/s.avdl"; record Left {} }`,
		"right/r.avdl":      `protocol R { import idl "../shared/s.avdl"; record Right {} }`,
		"shared/s.avdl":     `protocol S { import schema "types.avsc"; import protocol "p.avpr"; record Shared {} }`,
		"shared/types.avsc": `{"type": "fixed", "name": "T", "size": 1}`,
		"shared/p.avpr":     `{"protocol": "P", "types": [{"type": "fixed", "name": "PT", "size": 1}]}`,
	})
	file := parseForTest(t, files, "top.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "Left", Path: "left/l.avdl"},
		{Text: "Shared", Path: "shared/s.avdl"},
		{Text: "T", Path: "shared/types.avsc"},
		{Text: "PT", Path: "shared/p.avpr"},
		{Text: "Right", Path: "right/r.avdl"},
	}, entries)
	assert.Empty(t, w.errs)
}

func TestSchemaImportsShareNames(t *testing.T) {
	t.Parallel()
	finder, files, w := newFinderForTest(map[string]string{
		"p.avdl":           `protocol P { import schema "base.avsc"; import idl "sub/q.avdl"; }`,
		"base.avsc":        `{"type": "record", "name": "org.Base", "fields": []}`,
		"sub/q.avdl":       `protocol Q { import schema "derived.avsc"; }`,
		"sub/derived.avsc": `{"type": "record", "name": "org.Derived", "fields": [{"name": "b", "type": "Base"}]}`,
	})
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInProtocol(context.Background(), file.Protocol, false, "org")
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "Base", LookupString: "org.Base", TypeText: "org", Path: "base.avsc"},
		{Text: "Derived", LookupString: "org.Derived", TypeText: "org", Path: "sub/derived.avsc"},
	}, entries)
	assert.Empty(t, w.errs)

	// each query starts with a fresh set of names
	q := parseForTest(t, files, "sub/q.avdl")
	entries, err = finder.FindAllSchemaNamesAvailableInFile(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, w.errs, 1)
}

func TestImportRoots(t *testing.T) {
	t.Parallel()
	finder, files, _ := newFinderForTest(map[string]string{
		"proj/p.avdl":       `protocol P { import idl "common.avdl"; import idl "local.avdl"; }`,
		"proj/local.avdl":   `protocol Local { record FromLocal {} }`,
		"root1/local.avdl":  `protocol Local { record Shadowed {} }`,
		"root2/common.avdl": `protocol Common { record FromRoot2 {} }`,
		"root3/common.avdl": `protocol Common { record FromRoot3 {} }`,
	}, "root1", "root2", "root3")
	file := parseForTest(t, files, "proj/p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{
		{Text: "FromRoot2", Path: "root2/common.avdl"},
		{Text: "FromLocal", Path: "proj/local.avdl"},
	}, entries)
}

func TestResolverReturnsAST(t *testing.T) {
	t.Parallel()
	files := source.NewMap(nil)
	files.Add("p.avdl", `protocol P { import idl "open.avdl"; }`)
	// the editor's unsaved version of open.avdl
	unsaved, err := parser.Parse("open.avdl", strings.NewReader(`protocol Open { record Unsaved {} }`), reporter.NewHandler(nil))
	require.NoError(t, err)
	finder := &Finder{
		Resolver: CompositeResolver{
			ResolverFunc(func(_, path string) (SearchResult, error) {
				if path == "open.avdl" {
					return SearchResult{AST: unsaved}, nil
				}
				return SearchResult{}, fs.ErrNotExist
			}),
			&SourceResolver{Opener: files},
		},
	}
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{{Text: "Unsaved", Path: "open.avdl"}}, entries)
}

func TestCancellation(t *testing.T) {
	t.Parallel()
	files := source.NewMap(nil)
	files.Add("p.avdl", `protocol P { import idl "a.avdl"; import idl "b.avdl"; record Own {} }`)
	files.Add("a.avdl", `protocol A { record FromA {} }`)
	files.Add("b.avdl", `protocol B { record FromB {} }`)
	file := parseForTest(t, files, "p.avdl")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var opened []string
	finder := &Finder{
		Resolver: &SourceResolver{Opener: openerFunc(func(path string) (*source.File, error) {
			opened = append(opened, path)
			// cancel while the first import is being read
			cancel()
			return files.Open(path)
		})},
	}
	entries, err := finder.FindAllSchemaNamesAvailableInFile(ctx, file)
	require.ErrorIs(t, err, context.Canceled)
	assertEntries(t, []entry{
		{Text: "Own", Path: "p.avdl"},
		{Text: "FromA", Path: "a.avdl"},
	}, entries)
	assert.Equal(t, []string{"a.avdl"}, opened)

	// already cancelled: only the protocol's own declarations
	entries, err = finder.FindAllSchemaNamesAvailableInFile(ctx, file)
	require.ErrorIs(t, err, context.Canceled)
	assertEntries(t, []entry{{Text: "Own", Path: "p.avdl"}}, entries)
}

type openerFunc func(string) (*source.File, error)

func (f openerFunc) Open(path string) (*source.File, error) {
	return f(path)
}

func TestResolverErrorIsReported(t *testing.T) {
	t.Parallel()
	ioErr := errors.New("disk on fire")
	w := &warnings{}
	finder := &Finder{
		Resolver: ResolverFunc(func(_, _ string) (SearchResult, error) {
			return SearchResult{}, ioErr
		}),
		Reporter: w.reporter(),
	}
	files := source.NewMap(nil)
	files.Add("p.avdl", `protocol P { import schema "x.avsc"; record R {} }`)
	file := parseForTest(t, files, "p.avdl")
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), file)
	require.NoError(t, err)
	assertEntries(t, []entry{{Text: "R", Path: "p.avdl"}}, entries)
	require.Len(t, w.errs, 1)
	assert.ErrorIs(t, w.errs[0], ioErr)
}

func TestNilInputs(t *testing.T) {
	t.Parallel()
	var finder Finder
	entries, err := finder.FindAllSchemaNamesAvailableInFile(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	entries, err = finder.FindAllSchemaNamesAvailableInFile(context.Background(), ast.NewEmptyFileNode("empty.avdl"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
