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

// NamedSchemaDecl is a declaration of a named schema. This is a closed set
// of variants:
//   - *RecordNode (both records and errors)
//   - *EnumNode
//   - *FixedNode
type NamedSchemaDecl interface {
	BodyElement
	// NameNode returns the name as written in source, or nil if missing.
	NameNode() *IdentNode
	// Name returns the simple name of the schema: the last component of
	// the name as written in source.
	Name() string
	// Namespace returns the namespace of the schema. It is the qualifier of
	// the name as written if it is dotted, else the value of the schema's
	// own "namespace" property, else the namespace of the enclosing
	// protocol.
	Namespace() string
	// FullName returns the namespace-qualified name of the schema. It
	// returns false if the declaration has no name.
	FullName() (string, bool)
	// IsErrorType returns true if the declaration is an error record.
	IsErrorType() bool
	// Properties returns the properties attached to the declaration.
	Properties() []*PropertyNode
	// Protocol returns the enclosing protocol, or nil if the declaration
	// is detached.
	Protocol() *ProtocolNode

	setProtocol(*ProtocolNode)
}

var _ NamedSchemaDecl = (*RecordNode)(nil)
var _ NamedSchemaDecl = (*EnumNode)(nil)
var _ NamedSchemaDecl = (*FixedNode)(nil)

type namedSchema struct {
	compositeNode
	props    []*PropertyNode
	keyword  *IdentNode
	name     *IdentNode
	protocol *ProtocolNode
}

func newNamedSchema(props []*PropertyNode, keyword, name *IdentNode, rest ...Node) namedSchema {
	span := spanOf(keyword, append(rest, name)...)
	if len(props) > 0 {
		span.start = props[0].Start()
	}
	return namedSchema{
		compositeNode: span,
		props:         props,
		keyword:       keyword,
		name:          name,
	}
}

func (n *namedSchema) NameNode() *IdentNode {
	return n.name
}

func (n *namedSchema) Keyword() *IdentNode {
	return n.keyword
}

func (n *namedSchema) Name() string {
	_, simple, _ := splitName(n.name.Value())
	return simple
}

func (n *namedSchema) Namespace() string {
	if ns, _, ok := splitName(n.name.Value()); ok {
		return ns
	}
	if ns, ok := namespaceProperty(n.props); ok {
		return ns
	}
	if n.protocol != nil {
		return n.protocol.Namespace()
	}
	return ""
}

func (n *namedSchema) FullName() (string, bool) {
	name := n.Name()
	if name == "" {
		return "", false
	}
	if ns := n.Namespace(); ns != "" {
		return ns + "." + name, true
	}
	return name, true
}

func (n *namedSchema) Properties() []*PropertyNode {
	return n.props
}

func (n *namedSchema) Protocol() *ProtocolNode {
	return n.protocol
}

func (n *namedSchema) setProtocol(p *ProtocolNode) {
	n.protocol = p
}

func (*namedSchema) bodyElement() {}

// RecordNode represents a record or error declaration:
//
//	record Foo { string name; }
//	error Oops { string message; }
type RecordNode struct {
	namedSchema
	OpenBrace  *RuneNode
	Fields     []*FieldNode
	CloseBrace *RuneNode
}

// NewRecordNode creates a new *RecordNode. The keyword is either "record" or
// "error". The name and braces are optional, to represent incomplete source.
func NewRecordNode(props []*PropertyNode, keyword, name *IdentNode, openBrace *RuneNode, fields []*FieldNode, closeBrace *RuneNode) *RecordNode {
	rest := []Node{openBrace, closeBrace}
	for _, field := range fields {
		rest = append(rest, field)
	}
	return &RecordNode{
		namedSchema: newNamedSchema(props, keyword, name, rest...),
		OpenBrace:   openBrace,
		Fields:      fields,
		CloseBrace:  closeBrace,
	}
}

// IsErrorType implements NamedSchemaDecl.
func (n *RecordNode) IsErrorType() bool {
	return n.keyword.Value() == "error"
}

// EnumNode represents an enum declaration, with an optional default:
//
//	enum Suit { SPADES, HEARTS, DIAMONDS, CLUBS } = SPADES;
type EnumNode struct {
	namedSchema
	Symbols []*IdentNode
	// Optional.
	Default *IdentNode
}

// NewEnumNode creates a new *EnumNode. The name and default are optional.
// The given end node is the last token of the declaration.
func NewEnumNode(props []*PropertyNode, keyword, name *IdentNode, symbols []*IdentNode, def *IdentNode, end Node) *EnumNode {
	rest := []Node{def, end}
	for _, sym := range symbols {
		rest = append(rest, sym)
	}
	return &EnumNode{
		namedSchema: newNamedSchema(props, keyword, name, rest...),
		Symbols:     symbols,
		Default:     def,
	}
}

// IsErrorType implements NamedSchemaDecl.
func (*EnumNode) IsErrorType() bool {
	return false
}

// FixedNode represents a fixed declaration: fixed MD5(16);
type FixedNode struct {
	namedSchema
	// Optional.
	Size *IntLiteralNode
}

// NewFixedNode creates a new *FixedNode. The name and size are optional. The
// given end node is the last token of the declaration.
func NewFixedNode(props []*PropertyNode, keyword, name *IdentNode, size *IntLiteralNode, end Node) *FixedNode {
	var rest []Node
	if size != nil {
		rest = append(rest, size)
	}
	rest = append(rest, end)
	return &FixedNode{
		namedSchema: newNamedSchema(props, keyword, name, rest...),
		Size:        size,
	}
}

// IsErrorType implements NamedSchemaDecl.
func (*FixedNode) IsErrorType() bool {
	return false
}

// ImportType identifies the format of an imported file.
type ImportType int

const (
	// ImportUnknown is used when the import kind is missing or unrecognized.
	ImportUnknown ImportType = iota
	// ImportIDL imports another Avro IDL file.
	ImportIDL
	// ImportProtocol imports a compiled protocol (.avpr) file.
	ImportProtocol
	// ImportSchema imports a schema (.avsc) file.
	ImportSchema
)

func (t ImportType) String() string {
	switch t {
	case ImportIDL:
		return "idl"
	case ImportProtocol:
		return "protocol"
	case ImportSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// ImportNode represents an import declaration: import idl "other.avdl";
type ImportNode struct {
	compositeNode
	Keyword *IdentNode
	// Optional; nil if missing.
	Kind *IdentNode
	// Optional; nil if missing.
	Path *StringLiteralNode
	// Optional; nil if missing.
	Semicolon *RuneNode
}

// NewImportNode creates a new *ImportNode. All arguments but keyword are
// optional.
func NewImportNode(keyword, kind *IdentNode, path *StringLiteralNode, semicolon *RuneNode) *ImportNode {
	return &ImportNode{
		compositeNode: spanOf(keyword, kind, path, semicolon),
		Keyword:       keyword,
		Kind:          kind,
		Path:          path,
		Semicolon:     semicolon,
	}
}

// ImportType returns the declared kind of import.
func (n *ImportNode) ImportType() ImportType {
	switch n.Kind.Value() {
	case "idl":
		return ImportIDL
	case "protocol":
		return ImportProtocol
	case "schema":
		return ImportSchema
	default:
		return ImportUnknown
	}
}

func (*ImportNode) bodyElement() {}

// FieldNode represents a field declaration in a record. A single type can
// declare several variables: int a, b = 1;
type FieldNode struct {
	compositeNode
	Type      TypeNode
	Variables []*VariableNode
	// Optional; nil if missing.
	Semicolon *RuneNode
}

// NewFieldNode creates a new *FieldNode.
func NewFieldNode(typ TypeNode, vars []*VariableNode, semicolon *RuneNode) *FieldNode {
	rest := []Node{semicolon}
	for _, v := range vars {
		rest = append(rest, v)
	}
	return &FieldNode{
		compositeNode: spanOf(typ, rest...),
		Type:          typ,
		Variables:     vars,
		Semicolon:     semicolon,
	}
}

// VariableNode is a named field (or message parameter) with optional
// properties and an optional default value.
type VariableNode struct {
	compositeNode
	Properties []*PropertyNode
	Name       *IdentNode
	// Optional.
	Default JSONValueNode
}

// NewVariableNode creates a new *VariableNode.
func NewVariableNode(props []*PropertyNode, name *IdentNode, def JSONValueNode) *VariableNode {
	span := spanOf(name, def)
	if len(props) > 0 {
		span.start = props[0].Start()
	}
	return &VariableNode{
		compositeNode: span,
		Properties:    props,
		Name:          name,
		Default:       def,
	}
}

// FormalParamNode is a single parameter of a message.
type FormalParamNode struct {
	compositeNode
	Type     TypeNode
	Variable *VariableNode
}

// NewFormalParamNode creates a new *FormalParamNode.
func NewFormalParamNode(typ TypeNode, v *VariableNode) *FormalParamNode {
	return &FormalParamNode{
		compositeNode: spanOf(typ, v),
		Type:          typ,
		Variable:      v,
	}
}

// MessageNode represents a message declaration:
//
//	string hello(string greeting) throws Oops;
//	void ping() oneway;
type MessageNode struct {
	compositeNode
	Properties []*PropertyNode
	ReturnType TypeNode
	Name       *IdentNode
	Params     []*FormalParamNode
	Oneway     bool
	Throws     []*IdentNode
}

// NewMessageNode creates a new *MessageNode. The given end node is the last
// token of the declaration.
func NewMessageNode(props []*PropertyNode, returnType TypeNode, name *IdentNode, params []*FormalParamNode, oneway bool, throws []*IdentNode, end Node) *MessageNode {
	span := spanOf(returnType, name, end)
	if len(props) > 0 {
		span.start = props[0].Start()
	}
	return &MessageNode{
		compositeNode: span,
		Properties:    props,
		ReturnType:    returnType,
		Name:          name,
		Params:        params,
		Oneway:        oneway,
		Throws:        throws,
	}
}

func (*MessageNode) bodyElement() {}
