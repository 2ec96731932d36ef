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

// Package avroidl answers name resolution queries about Avro IDL files, the
// kind an editor needs to offer completion and navigation: which named
// schemas are visible from a protocol, and which are declared anywhere in a
// project.
//
// The sub-packages contain the pieces the queries are built from:
//   - parser: parses IDL source into an AST.
//   - ast: the declaration model of parsed files.
//   - external: reads the named types of compiled protocols (.avpr) and
//     schema documents (.avsc).
//   - project: the files and import roots of a project.
//
// # Resolvers
//
// A Resolver is how the Finder locates the files named by imports. The
// SourceResolver looks next to the importing file first, and then in each
// of its ImportPaths, in order. A Resolver can also answer with an AST, so
// that a file being edited is seen with its current, unsaved contents.
//
// # Finder
//
// A Finder runs the queries. The zero value resolves imports on the local
// file system:
//
//	var finder avroidl.Finder
//	entries, err := finder.FindAllSchemaNamesAvailableInFile(ctx, file)
//
// Queries are robust against broken input: imports that are missing,
// malformed or cyclic contribute nothing and are reported as warnings to
// the Finder's Reporter. Only cancellation of the context fails a query.
package avroidl
