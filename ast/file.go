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

import "strings"

// FileNode is the root of the AST hierarchy. It represents an entire
// IDL source file.
type FileNode struct {
	compositeNode
	fileInfo *FileInfo

	// A file has at most one protocol. The protocol is nil for an empty file,
	// or when the source was too broken for a protocol declaration to be
	// recognized.
	Protocol *ProtocolNode

	// This synthetic node allows access to final comments and whitespace.
	EOF Token
}

// NewFileNode creates a new *FileNode. The protocol argument is optional.
func NewFileNode(info *FileInfo, protocol *ProtocolNode, eof Token) *FileNode {
	n := &FileNode{
		compositeNode: compositeNode{start: 0, end: eof},
		fileInfo:      info,
		Protocol:      protocol,
		EOF:           eof,
	}
	if protocol != nil {
		protocol.file = n
	}
	return n
}

// NewEmptyFileNode returns an empty AST for a file with the given name.
func NewEmptyFileNode(filename string) *FileNode {
	fileInfo := NewFileInfo(filename, []byte{})
	return NewFileNode(fileInfo, nil, fileInfo.AddToken(0, 0))
}

// Name returns the name of the file.
func (f *FileNode) Name() string {
	return f.fileInfo.Name()
}

// NodeInfo returns the position details for the given node, which must
// belong to this file.
func (f *FileNode) NodeInfo(n Node) NodeInfo {
	return f.fileInfo.NodeInfo(n)
}

// TokenInfo returns the position details for the given token.
func (f *FileNode) TokenInfo(t Token) NodeInfo {
	return f.fileInfo.TokenInfo(t)
}

// FileInfo returns the position bookkeeping of this file.
func (f *FileNode) FileInfo() *FileInfo {
	return f.fileInfo
}

// ProtocolNode represents a protocol declaration:
//
//	@namespace("org.example") protocol Example { ... }
type ProtocolNode struct {
	compositeNode
	file *FileNode

	Properties []*PropertyNode
	Keyword    *IdentNode
	// Optional; nil if the source is missing the protocol name.
	Name *IdentNode
	// Optional; nil if the source is missing the protocol body.
	Body *BodyNode
}

// NewProtocolNode creates a new *ProtocolNode. The name and body arguments
// are optional.
func NewProtocolNode(props []*PropertyNode, keyword, name *IdentNode, body *BodyNode) *ProtocolNode {
	n := &ProtocolNode{
		compositeNode: spanOf(keyword, name, body),
		Properties:    props,
		Keyword:       keyword,
		Name:          name,
		Body:          body,
	}
	if len(props) > 0 {
		n.start = props[0].Start()
	}
	if body != nil {
		for _, decl := range body.NamedSchemaDecls() {
			decl.setProtocol(n)
		}
	}
	return n
}

// File returns the file that contains this protocol, or nil if the protocol
// was not attached to a file.
func (n *ProtocolNode) File() *FileNode {
	return n.file
}

// Namespace returns the namespace of the protocol: the value of its
// "namespace" property, or else the qualifier of its name.
func (n *ProtocolNode) Namespace() string {
	if ns, ok := namespaceProperty(n.Properties); ok {
		return ns
	}
	if ns, _, ok := splitName(n.Name.Value()); ok {
		return ns
	}
	return ""
}

// BodyNode represents the contents of a protocol, between braces.
type BodyNode struct {
	compositeNode
	OpenBrace  *RuneNode
	Decls      []BodyElement
	CloseBrace *RuneNode
}

// NewBodyNode creates a new *BodyNode. The closeBrace argument is optional.
func NewBodyNode(openBrace *RuneNode, decls []BodyElement, closeBrace *RuneNode) *BodyNode {
	rest := make([]Node, 0, len(decls)+1)
	for _, decl := range decls {
		rest = append(rest, decl)
	}
	rest = append(rest, closeBrace)
	return &BodyNode{
		compositeNode: spanOf(openBrace, rest...),
		OpenBrace:     openBrace,
		Decls:         decls,
		CloseBrace:    closeBrace,
	}
}

// NamedSchemaDecls returns the named schema declarations of the body, in
// source order.
func (n *BodyNode) NamedSchemaDecls() []NamedSchemaDecl {
	return collect[NamedSchemaDecl](n)
}

// Imports returns the import declarations of the body, in source order.
func (n *BodyNode) Imports() []*ImportNode {
	return collect[*ImportNode](n)
}

// Messages returns the message declarations of the body, in source order.
func (n *BodyNode) Messages() []*MessageNode {
	return collect[*MessageNode](n)
}

func collect[T BodyElement](n *BodyNode) []T {
	if n == nil {
		return nil
	}
	var res []T
	for _, decl := range n.Decls {
		if t, ok := decl.(T); ok {
			res = append(res, t)
		}
	}
	return res
}

// BodyElement is a declaration that can appear in a protocol body. This is a
// closed set of variants:
//   - NamedSchemaDecl (*RecordNode, *EnumNode, *FixedNode)
//   - *ImportNode
//   - *MessageNode
type BodyElement interface {
	Node
	bodyElement()
}

// PropertyNode represents a schema property: '@' name '(' value ')'.
type PropertyNode struct {
	compositeNode
	At         *RuneNode
	Name       *IdentNode
	OpenParen  *RuneNode
	Value      JSONValueNode
	CloseParen *RuneNode
}

// NewPropertyNode creates a new *PropertyNode. All arguments but at are
// optional, to represent incomplete source.
func NewPropertyNode(at *RuneNode, name *IdentNode, openParen *RuneNode, value JSONValueNode, closeParen *RuneNode) *PropertyNode {
	return &PropertyNode{
		compositeNode: spanOf(at, name, openParen, value, closeParen),
		At:            at,
		Name:          name,
		OpenParen:     openParen,
		Value:         value,
		CloseParen:    closeParen,
	}
}

func namespaceProperty(props []*PropertyNode) (string, bool) {
	for _, prop := range props {
		if prop.Name.Value() != "namespace" {
			continue
		}
		if str, ok := prop.Value.(*StringLiteralNode); ok {
			return str.Value(), true
		}
	}
	return "", false
}

// splitName splits a qualified name into namespace and simple name. It
// returns false if the name is not qualified.
func splitName(name string) (namespace, simple string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}
