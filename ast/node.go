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

// Node is the interface implemented by all nodes in the AST. It
// provides information about the span of this AST node in terms
// of location in the source file.
type Node interface {
	Start() Token
	End() Token
}

// TerminalNode represents a leaf in the AST. These represent
// the tokens/lexemes in the IDL language. Comments are not represented
// as nodes in the tree; they are attributed to terminal nodes.
type TerminalNode interface {
	Node
	Token() Token
}

var _ TerminalNode = (*IdentNode)(nil)
var _ TerminalNode = (*RuneNode)(nil)
var _ TerminalNode = (*StringLiteralNode)(nil)
var _ TerminalNode = (*IntLiteralNode)(nil)
var _ TerminalNode = (*FloatLiteralNode)(nil)

type terminalNode Token

func (n terminalNode) Start() Token {
	return Token(n)
}

func (n terminalNode) End() Token {
	return Token(n)
}

func (n terminalNode) Token() Token {
	return Token(n)
}

// compositeNode tracks the first and last token of a non-terminal node.
type compositeNode struct {
	start, end Token
}

func (n *compositeNode) Start() Token {
	return n.start
}

func (n *compositeNode) End() Token {
	return n.end
}

func spanOf(first Node, rest ...Node) compositeNode {
	c := compositeNode{start: first.Start(), end: first.End()}
	for _, n := range rest {
		if isNil(n) {
			continue
		}
		if n.Start() < c.start {
			c.start = n.Start()
		}
		if n.End() > c.end {
			c.end = n.End()
		}
	}
	return c
}

// isNil reports whether n is nil or a typed nil pointer of one of the
// optional node types.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *IdentNode:
		return n == nil
	case *RuneNode:
		return n == nil
	case *StringLiteralNode:
		return n == nil
	case *IntLiteralNode:
		return n == nil
	case *BodyNode:
		return n == nil
	case *PropertyNode:
		return n == nil
	case *VariableNode:
		return n == nil
	case *JSONArrayNode:
		return n == nil
	case *JSONObjectNode:
		return n == nil
	}
	return false
}

// IdentNode represents an identifier or keyword. Identifiers may be
// qualified (e.g. "org.example.Foo") and may have been written with
// backticks to escape a keyword; Val never includes the backticks.
type IdentNode struct {
	terminalNode
	Val string
}

// NewIdentNode creates a new *IdentNode. The given val is the identifier
// text, without any escaping backticks.
func NewIdentNode(val string, tok Token) *IdentNode {
	return &IdentNode{
		terminalNode: tok.asTerminalNode(),
		Val:          val,
	}
}

// Value returns n's text, or "" for a nil node.
func (n *IdentNode) Value() string {
	if n == nil {
		return ""
	}
	return n.Val
}

// RuneNode represents a single rune in IDL source. Runes are typically
// punctuation characters, like '{', '}', ';', or '<'.
type RuneNode struct {
	terminalNode
	Rune rune
}

// NewRuneNode creates a new *RuneNode with the given properties.
func NewRuneNode(r rune, tok Token) *RuneNode {
	return &RuneNode{
		terminalNode: tok.asTerminalNode(),
		Rune:         r,
	}
}

func (t Token) asTerminalNode() terminalNode {
	return terminalNode(t)
}
