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

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// JSONValueNode is a JSON value literal, as used for property values and
// field defaults. This is a closed set of variants:
//   - *StringLiteralNode
//   - *IntLiteralNode
//   - *FloatLiteralNode
//   - *BoolLiteralNode
//   - *NullLiteralNode
//   - *JSONArrayNode
//   - *JSONObjectNode
type JSONValueNode interface {
	Node
	jsonValue()
}

var _ JSONValueNode = (*StringLiteralNode)(nil)
var _ JSONValueNode = (*IntLiteralNode)(nil)
var _ JSONValueNode = (*FloatLiteralNode)(nil)
var _ JSONValueNode = (*BoolLiteralNode)(nil)
var _ JSONValueNode = (*NullLiteralNode)(nil)
var _ JSONValueNode = (*JSONArrayNode)(nil)
var _ JSONValueNode = (*JSONObjectNode)(nil)

// StringLiteralNode represents a double-quoted string literal. Raw holds the
// literal as written in source, including the quotes and any escapes.
type StringLiteralNode struct {
	terminalNode
	Raw string
}

// NewStringLiteralNode creates a new *StringLiteralNode from the raw,
// quoted source text.
func NewStringLiteralNode(raw string, tok Token) *StringLiteralNode {
	return &StringLiteralNode{
		terminalNode: tok.asTerminalNode(),
		Raw:          raw,
	}
}

// Value returns the unescaped contents of the literal.
func (n *StringLiteralNode) Value() string {
	raw := n.Raw
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	} else {
		raw = strings.TrimPrefix(raw, `"`)
	}
	return Unescape(raw)
}

func (*StringLiteralNode) jsonValue() {}

// IntLiteralNode represents an integer literal: decimal, hexadecimal
// ("0x") or octal (leading "0"), optionally negative and optionally with a
// trailing 'L'. Raw holds the literal as written in source.
type IntLiteralNode struct {
	terminalNode
	Raw string
}

// NewIntLiteralNode creates a new *IntLiteralNode.
func NewIntLiteralNode(raw string, tok Token) *IntLiteralNode {
	return &IntLiteralNode{
		terminalNode: tok.asTerminalNode(),
		Raw:          raw,
	}
}

// Value parses the literal. It returns false if the literal does not fit
// in an int64.
func (n *IntLiteralNode) Value() (int64, bool) {
	raw := strings.TrimRight(n.Raw, "lL")
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	base := 10
	switch {
	case strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X"):
		base, raw = 16, raw[2:]
	case len(raw) > 1 && raw[0] == '0':
		base, raw = 8, raw[1:]
	}
	u, err := strconv.ParseUint(raw, base, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		if u > 1<<63 {
			return 0, false
		}
		return -int64(u), true
	}
	if u > 1<<63-1 {
		return 0, false
	}
	return int64(u), true
}

func (*IntLiteralNode) jsonValue() {}

// ValidIntLiteral reports whether s is a syntactically valid integer
// literal. The value may still be out of range for an int64.
func ValidIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L") {
		s = s[:len(s)-1]
	}
	digits := "0123456789"
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s, digits = s[2:], "0123456789abcdefABCDEF"
	case len(s) > 1 && s[0] == '0':
		s, digits = s[1:], "01234567"
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(digits, c) {
			return false
		}
	}
	return true
}

// FloatLiteralNode represents a floating point literal, including the
// special values NaN and Infinity.
type FloatLiteralNode struct {
	terminalNode
	Raw string
}

// NewFloatLiteralNode creates a new *FloatLiteralNode.
func NewFloatLiteralNode(raw string, tok Token) *FloatLiteralNode {
	return &FloatLiteralNode{
		terminalNode: tok.asTerminalNode(),
		Raw:          raw,
	}
}

// Value parses the literal.
func (n *FloatLiteralNode) Value() (float64, bool) {
	raw := strings.TrimRight(n.Raw, "fFdD")
	switch strings.TrimLeft(raw, "+-") {
	case "NaN", "Infinity":
		raw = strings.Replace(raw, "Infinity", "Inf", 1)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (*FloatLiteralNode) jsonValue() {}

// BoolLiteralNode represents the keywords true and false.
type BoolLiteralNode struct {
	*IdentNode
	Val bool
}

// NewBoolLiteralNode creates a new *BoolLiteralNode from a "true" or
// "false" keyword.
func NewBoolLiteralNode(name *IdentNode) *BoolLiteralNode {
	return &BoolLiteralNode{
		IdentNode: name,
		Val:       name.Val == "true",
	}
}

func (*BoolLiteralNode) jsonValue() {}

// NullLiteralNode represents the keyword null used as a value.
type NullLiteralNode struct {
	*IdentNode
}

// NewNullLiteralNode creates a new *NullLiteralNode.
func NewNullLiteralNode(name *IdentNode) *NullLiteralNode {
	return &NullLiteralNode{IdentNode: name}
}

func (*NullLiteralNode) jsonValue() {}

// JSONArrayNode represents a JSON array: '[' values ']'.
type JSONArrayNode struct {
	compositeNode
	OpenBracket  *RuneNode
	Elements     []JSONValueNode
	CloseBracket *RuneNode
}

// NewJSONArrayNode creates a new *JSONArrayNode.
func NewJSONArrayNode(openBracket *RuneNode, elements []JSONValueNode, closeBracket *RuneNode) *JSONArrayNode {
	return &JSONArrayNode{
		compositeNode: spanOf(openBracket, closeBracket),
		OpenBracket:   openBracket,
		Elements:      elements,
		CloseBracket:  closeBracket,
	}
}

func (*JSONArrayNode) jsonValue() {}

// JSONPairNode is a single member of a JSON object.
type JSONPairNode struct {
	compositeNode
	Key   *StringLiteralNode
	Colon *RuneNode
	Value JSONValueNode
}

// NewJSONPairNode creates a new *JSONPairNode.
func NewJSONPairNode(key *StringLiteralNode, colon *RuneNode, value JSONValueNode) *JSONPairNode {
	return &JSONPairNode{
		compositeNode: spanOf(key, colon, value),
		Key:           key,
		Colon:         colon,
		Value:         value,
	}
}

// JSONObjectNode represents a JSON object: '{' pairs '}'.
type JSONObjectNode struct {
	compositeNode
	OpenBrace  *RuneNode
	Pairs      []*JSONPairNode
	CloseBrace *RuneNode
}

// NewJSONObjectNode creates a new *JSONObjectNode.
func NewJSONObjectNode(openBrace *RuneNode, pairs []*JSONPairNode, closeBrace *RuneNode) *JSONObjectNode {
	return &JSONObjectNode{
		compositeNode: spanOf(openBrace, closeBrace),
		OpenBrace:     openBrace,
		Pairs:         pairs,
		CloseBrace:    closeBrace,
	}
}

func (*JSONObjectNode) jsonValue() {}

// Unescape decodes JavaScript-style escapes in s: \b \t \n \f \r \" \' \\ \/
// and \uXXXX. Unknown escapes yield the escaped character itself, and a
// truncated \u escape is kept verbatim, so this never fails.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			buf.WriteByte(c)
			i++
			continue
		}
		next := s[i+1]
		i += 2
		switch next {
		case 'b':
			buf.WriteByte('\b')
		case 't':
			buf.WriteByte('\t')
		case 'n':
			buf.WriteByte('\n')
		case 'f':
			buf.WriteByte('\f')
		case 'r':
			buf.WriteByte('\r')
		case 'u':
			if i+4 > len(s) {
				buf.WriteString(`\u`)
				continue
			}
			r, err := strconv.ParseUint(s[i:i+4], 16, 32)
			if err != nil {
				buf.WriteString(`\u`)
				continue
			}
			i += 4
			if utf16.IsSurrogate(rune(r)) && i+6 <= len(s) && s[i] == '\\' && s[i+1] == 'u' {
				if low, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					if pair := utf16.DecodeRune(rune(r), rune(low)); pair != utf8.RuneError {
						buf.WriteRune(pair)
						i += 6
						continue
					}
				}
			}
			buf.WriteRune(rune(r))
		default:
			// Covers \" \' \\ \/ and any unknown escape.
			r, size := utf8.DecodeRuneInString(s[i-1:])
			buf.WriteRune(r)
			i += size - 1
		}
	}
	return buf.String()
}
