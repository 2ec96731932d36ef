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


// Package external reads the JSON forms of Avro: compiled protocols (.avpr)
// and schema documents (.avsc). Parsing and validation are done by
// github.com/hamba/avro; this package extracts what name resolution needs,
// the named types each document defines.
//
// Schema documents are parsed against a [Parser], which accumulates the
// named types of every document it has seen so that a schema can refer to
// types defined by an earlier document. Protocols are self-contained and are
// parsed with [ParseProtocol].
package external

import (
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/tidwall/btree"
)

// ErrInvalidSchema is wrapped by errors for documents that are not valid
// Avro, including documents that are not JSON.
var ErrInvalidSchema = errors.New("invalid schema")

// Kind is the kind of a named type.
type Kind int

const (
	KindRecord Kind = iota + 1
	KindEnum
	KindFixed
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFixed:
		return "fixed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Schema describes a named type defined by a protocol or schema document.
type Schema struct {
	Name      string
	Namespace string
	// FullName is Namespace + "." + Name, or just Name if Namespace is empty.
	FullName string
	Kind     Kind
	// IsError is true for records declared with type "error".
	IsError bool
}

func newSchema(named avro.NamedSchema) Schema {
	s := Schema{
		Name:      named.Name(),
		Namespace: named.Namespace(),
		FullName:  named.FullName(),
	}
	switch named := named.(type) {
	case *avro.RecordSchema:
		s.Kind = KindRecord
		s.IsError = named.IsError()
	case *avro.EnumSchema:
		s.Kind = KindEnum
	case *avro.FixedSchema:
		s.Kind = KindFixed
	}
	return s
}

type registration struct {
	// the parsed type; later documents that refer to it see this value
	named  avro.NamedSchema
	origin string
}

// Parser parses schema documents, accumulating the named types they define.
// Types registered by one call to Parse are visible to later calls.
//
// The zero value is ready to use. A Parser is not safe for concurrent use.
type Parser struct {
	cache   avro.SchemaCache
	names   btree.Map[string, registration]
	origins map[string]struct{}
}

// Parse parses the schema document in data, read from the file with the
// given origin (usually a canonical path), and returns the named types that
// were newly registered by it, in the order they are defined.
//
// Parsing the same origin again registers nothing new and is not an error.
// Defining a name that was registered from a different origin is an error.
// If an error is returned, nothing is registered.
func (p *Parser) Parse(origin string, data []byte) ([]Schema, error) {
	if _, ok := p.origins[origin]; ok {
		return nil, nil
	}
	staged := &avro.SchemaCache{}
	staged.AddAll(&p.cache)
	parsed, err := avro.ParseBytesWithCache(data, "", staged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	var added []avro.NamedSchema
	for _, named := range namedSchemas(parsed) {
		if reg, ok := p.names.Get(named.FullName()); ok {
			if reg.named == named {
				// a reference to a type from an earlier document
				continue
			}
			return nil, fmt.Errorf("%w: can't redefine: %s (already defined in %s)", ErrInvalidSchema, named.FullName(), reg.origin)
		}
		added = append(added, named)
	}

	p.cache.AddAll(staged)
	if p.origins == nil {
		p.origins = map[string]struct{}{}
	}
	p.origins[origin] = struct{}{}
	schemas := make([]Schema, len(added))
	for i, named := range added {
		p.names.Set(named.FullName(), registration{named: named, origin: origin})
		schemas[i] = newSchema(named)
	}
	return schemas, nil
}

// Names returns the full names of all registered types, sorted.
func (p *Parser) Names() []string {
	names := make([]string, 0, p.names.Len())
	p.names.Scan(func(name string, _ registration) bool {
		names = append(names, name)
		return true
	})
	return names
}

// namedSchemas returns the named types reachable from the given schemas, in
// definition order. Each type is listed once.
func namedSchemas(schemas ...avro.Schema) []avro.NamedSchema {
	var c collector
	for _, s := range schemas {
		c.visit(s)
	}
	return c.found
}

type collector struct {
	seen  map[avro.NamedSchema]struct{}
	found []avro.NamedSchema
}

func (c *collector) visit(s avro.Schema) {
	switch s := s.(type) {
	case *avro.RefSchema:
		c.visit(s.Schema())
	case *avro.RecordSchema:
		// message requests are records without a name
		if s.FullName() != "" && !c.add(s) {
			return
		}
		for _, f := range s.Fields() {
			c.visit(f.Type())
		}
	case *avro.EnumSchema:
		c.add(s)
	case *avro.FixedSchema:
		c.add(s)
	case *avro.ArraySchema:
		c.visit(s.Items())
	case *avro.MapSchema:
		c.visit(s.Values())
	case *avro.UnionSchema:
		for _, t := range s.Types() {
			c.visit(t)
		}
	}
}

// add records s, reporting false if it was seen before.
func (c *collector) add(s avro.NamedSchema) bool {
	if _, ok := c.seen[s]; ok {
		return false
	}
	if c.seen == nil {
		c.seen = map[avro.NamedSchema]struct{}{}
	}
	c.seen[s] = struct{}{}
	c.found = append(c.found, s)
	return true
}
