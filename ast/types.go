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

package ast

// TypeNode is a reference to a schema, as used for field types, message
// parameters and return types. This is a closed set of variants:
//   - *PrimitiveTypeNode (including logical types and void)
//   - *DecimalTypeNode
//   - *ArrayTypeNode
//   - *MapTypeNode
//   - *UnionTypeNode
//   - *ReferenceTypeNode
//
// Any type can be made nullable with a '?' suffix, which the parser records
// by wrapping it into a *NullableTypeNode.
type TypeNode interface {
	Node
	typeNode()
}

var _ TypeNode = (*PrimitiveTypeNode)(nil)
var _ TypeNode = (*DecimalTypeNode)(nil)
var _ TypeNode = (*ArrayTypeNode)(nil)
var _ TypeNode = (*MapTypeNode)(nil)
var _ TypeNode = (*UnionTypeNode)(nil)
var _ TypeNode = (*ReferenceTypeNode)(nil)
var _ TypeNode = (*NullableTypeNode)(nil)

// PrimitiveTypes lists the primitive type keywords of the IDL. Logical types
// map to their underlying primitive type; plain primitives map to "".
var PrimitiveTypes = map[string]string{
	"boolean": "",
	"bytes":   "",
	"int":     "",
	"string":  "",
	"float":   "",
	"double":  "",
	"long":    "",
	"null":    "",
	"void":    "",

	"date":               "int",
	"time_ms":            "int",
	"timestamp_ms":       "long",
	"local_timestamp_ms": "long",
	"uuid":               "string",
}

// PrimitiveTypeNode is a primitive or logical type keyword.
type PrimitiveTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Name       *IdentNode
}

// NewPrimitiveTypeNode creates a new *PrimitiveTypeNode.
func NewPrimitiveTypeNode(props []*PropertyNode, name *IdentNode) *PrimitiveTypeNode {
	return &PrimitiveTypeNode{
		compositeNode: withProps(props, spanOf(name)),
		Properties:    props,
		Name:          name,
	}
}

func (*PrimitiveTypeNode) typeNode() {}

// DecimalTypeNode is the decimal logical type: decimal(precision, scale).
type DecimalTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Keyword    *IdentNode
	Precision  *IntLiteralNode
	// Optional.
	Scale *IntLiteralNode
}

// NewDecimalTypeNode creates a new *DecimalTypeNode. The given end node is
// the closing parenthesis.
func NewDecimalTypeNode(props []*PropertyNode, keyword *IdentNode, precision, scale *IntLiteralNode, end Node) *DecimalTypeNode {
	return &DecimalTypeNode{
		compositeNode: withProps(props, spanOf(keyword, end)),
		Properties:    props,
		Keyword:       keyword,
		Precision:     precision,
		Scale:         scale,
	}
}

func (*DecimalTypeNode) typeNode() {}

// ArrayTypeNode is an array type: array<T>.
type ArrayTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Keyword    *IdentNode
	Items      TypeNode
}

// NewArrayTypeNode creates a new *ArrayTypeNode. The given end node is the
// closing angle bracket.
func NewArrayTypeNode(props []*PropertyNode, keyword *IdentNode, items TypeNode, end Node) *ArrayTypeNode {
	return &ArrayTypeNode{
		compositeNode: withProps(props, spanOf(keyword, end)),
		Properties:    props,
		Keyword:       keyword,
		Items:         items,
	}
}

func (*ArrayTypeNode) typeNode() {}

// MapTypeNode is a map type: map<T>.
type MapTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Keyword    *IdentNode
	Values     TypeNode
}

// NewMapTypeNode creates a new *MapTypeNode. The given end node is the
// closing angle bracket.
func NewMapTypeNode(props []*PropertyNode, keyword *IdentNode, values TypeNode, end Node) *MapTypeNode {
	return &MapTypeNode{
		compositeNode: withProps(props, spanOf(keyword, end)),
		Properties:    props,
		Keyword:       keyword,
		Values:        values,
	}
}

func (*MapTypeNode) typeNode() {}

// UnionTypeNode is a union type: union { null, string }.
type UnionTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Keyword    *IdentNode
	Types      []TypeNode
}

// NewUnionTypeNode creates a new *UnionTypeNode. The given end node is the
// closing brace.
func NewUnionTypeNode(props []*PropertyNode, keyword *IdentNode, types []TypeNode, end Node) *UnionTypeNode {
	return &UnionTypeNode{
		compositeNode: withProps(props, spanOf(keyword, end)),
		Properties:    props,
		Keyword:       keyword,
		Types:         types,
	}
}

func (*UnionTypeNode) typeNode() {}

// ReferenceTypeNode refers to a named schema by its (possibly qualified)
// name.
type ReferenceTypeNode struct {
	compositeNode
	Properties []*PropertyNode
	Name       *IdentNode
}

// NewReferenceTypeNode creates a new *ReferenceTypeNode.
func NewReferenceTypeNode(props []*PropertyNode, name *IdentNode) *ReferenceTypeNode {
	return &ReferenceTypeNode{
		compositeNode: withProps(props, spanOf(name)),
		Properties:    props,
		Name:          name,
	}
}

func (*ReferenceTypeNode) typeNode() {}

// NullableTypeNode is a type followed by '?', shorthand for a union of null
// and that type.
type NullableTypeNode struct {
	compositeNode
	Type     TypeNode
	Question *RuneNode
}

// NewNullableTypeNode creates a new *NullableTypeNode.
func NewNullableTypeNode(typ TypeNode, question *RuneNode) *NullableTypeNode {
	return &NullableTypeNode{
		compositeNode: spanOf(typ, question),
		Type:          typ,
		Question:      question,
	}
}

func (*NullableTypeNode) typeNode() {}

func withProps(props []*PropertyNode, span compositeNode) compositeNode {
	if len(props) > 0 {
		span.start = props[0].Start()
	}
	return span
}
