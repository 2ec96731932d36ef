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
	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/external"
)

// LookupEntry is a schema name that is visible from a protocol, formatted for
// a completion list.
type LookupEntry struct {
	// The text to show and insert.
	Text string
	// Another string the entry should match when typed, or empty.
	LookupString string
	// The namespace of the schema, shown as a hint. Empty if the schema is
	// in the null namespace.
	TypeText string
	// The node that produced this entry: a named schema declaration for
	// schemas declared in IDL, or the path literal of the import for
	// schemas read from protocol and schema files. The entry does not own
	// it.
	Source ast.Node
	// The canonical path of the file that defines the schema.
	Path string
	// True if the schema is an error type.
	IsError bool
}

// newLookupEntry formats a schema for display from a context whose
// namespace is current. Schemas in the current namespace are shown by simple
// name, others by full name; either form can be typed.
func newLookupEntry(name, namespace, fullName, current string) LookupEntry {
	switch namespace {
	case "":
		return LookupEntry{Text: name}
	case current:
		return LookupEntry{Text: name, LookupString: fullName, TypeText: namespace}
	default:
		return LookupEntry{Text: fullName, LookupString: name, TypeText: namespace}
	}
}

func declEntry(decl ast.NamedSchemaDecl, path, current string) (LookupEntry, bool) {
	fullName, ok := decl.FullName()
	if !ok {
		return LookupEntry{}, false
	}
	entry := newLookupEntry(decl.Name(), decl.Namespace(), fullName, current)
	entry.Source = decl
	entry.Path = path
	entry.IsError = decl.IsErrorType()
	return entry, true
}

func schemaEntry(schema external.Schema, imp *ast.ImportNode, path, current string) LookupEntry {
	entry := newLookupEntry(schema.Name, schema.Namespace, schema.FullName, current)
	entry.Source = imp.Path
	entry.Path = path
	entry.IsError = schema.IsError
	return entry
}
