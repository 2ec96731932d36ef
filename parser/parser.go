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

package parser

import (
	"fmt"
	"io"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/reporter"
)

// Parse parses the given source code, returning the AST for the file.
//
// The returned AST is never nil unless the source could not be read, in
// which case the read error is returned. If the source has syntax errors,
// they are reported to the given handler; if the handler's reporter never
// aborts, the returned tree holds everything that could be recognized and
// the returned error is reporter.ErrInvalidSource.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ast.FileNode, error) {
	lx, err := newLexer(r, filename, handler)
	if err != nil {
		return nil, err
	}
	p := &idlParser{
		info:    lx.info,
		handler: handler,
		tokens:  lx.lexAll(),
	}
	return p.parseFile(), handler.Error()
}

type idlParser struct {
	info    *ast.FileInfo
	handler *reporter.Handler
	tokens  []token
	pos     int
	// the most recently consumed token
	prev token
}

func (p *idlParser) peek() token {
	return p.tokens[p.pos]
}

func (p *idlParser) advance() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	p.prev = t
	return t
}

func (p *idlParser) aborted() bool {
	return p.handler.ReporterError() != nil
}

func (p *idlParser) atEOF() bool {
	return p.peek().kind == tokenEOF
}

func (p *idlParser) isRune(r rune) bool {
	t := p.peek()
	return t.kind == tokenRune && t.r == r
}

func (p *idlParser) isKeyword(keywords ...string) bool {
	t := p.peek()
	if t.kind != tokenIdent || t.quoted {
		return false
	}
	for _, kw := range keywords {
		if t.text == kw {
			return true
		}
	}
	return false
}

func (p *idlParser) errorf(t token, format string, args ...interface{}) {
	_ = p.handler.HandleErrorf(p.info.TokenInfo(t.tok).Start(), format, args...)
}

func (p *idlParser) unexpected(expected string) {
	t := p.peek()
	p.errorf(t, "syntax error: unexpected %s, expecting %s", t.describe(), expected)
}

func (p *idlParser) ident(t token) *ast.IdentNode {
	return ast.NewIdentNode(t.text, t.tok)
}

// node returns a terminal node for an already consumed token.
func (p *idlParser) node(t token) ast.TerminalNode {
	if t.kind == tokenRune {
		return ast.NewRuneNode(t.r, t.tok)
	}
	return p.ident(t)
}

func (p *idlParser) expectRune(r rune) (*ast.RuneNode, bool) {
	if !p.isRune(r) {
		p.unexpected(fmt.Sprintf("'%c'", r))
		return nil, false
	}
	t := p.advance()
	return ast.NewRuneNode(t.r, t.tok), true
}

func (p *idlParser) optionalRune(r rune) *ast.RuneNode {
	if !p.isRune(r) {
		return nil
	}
	t := p.advance()
	return ast.NewRuneNode(t.r, t.tok)
}

func (p *idlParser) expectIdent(what string) (*ast.IdentNode, bool) {
	if p.peek().kind != tokenIdent {
		p.unexpected(what)
		return nil, false
	}
	return p.ident(p.advance()), true
}

func (p *idlParser) expectKeyword(kw string) (*ast.IdentNode, bool) {
	if !p.isKeyword(kw) {
		p.unexpected(fmt.Sprintf("%q", kw))
		return nil, false
	}
	return p.ident(p.advance()), true
}

func (p *idlParser) parseFile() *ast.FileNode {
	var protocol *ast.ProtocolNode
	first := p.peek()
	props, ok := p.parseProperties()
	switch {
	case !ok:
	case p.isKeyword("protocol"):
		protocol = p.parseProtocol(props)
	case p.atEOF() && len(props) == 0:
		// empty file
	default:
		_ = p.handler.HandleError(reporter.Error(p.info.TokenInfo(first.tok).Start(), ErrNoProtocol))
	}
	if !p.aborted() && !p.atEOF() && protocol != nil {
		p.unexpected("end of file")
	}
	return ast.NewFileNode(p.info, protocol, p.tokens[len(p.tokens)-1].tok)
}

func (p *idlParser) parseProtocol(props []*ast.PropertyNode) *ast.ProtocolNode {
	keyword := p.ident(p.advance())
	var name *ast.IdentNode
	if p.isRune('{') {
		p.unexpected("protocol name")
	} else {
		name, _ = p.expectIdent("protocol name")
	}
	var body *ast.BodyNode
	if p.isRune('{') {
		body = p.parseBody()
	} else if !p.aborted() {
		p.unexpected("'{'")
	}
	return ast.NewProtocolNode(props, keyword, name, body)
}

func (p *idlParser) parseBody() *ast.BodyNode {
	openBrace := p.optionalRune('{')
	var decls []ast.BodyElement
	var closeBrace *ast.RuneNode
	for !p.aborted() {
		if p.atEOF() {
			p.unexpected("'}'")
			break
		}
		if p.isRune('}') {
			closeBrace = p.optionalRune('}')
			break
		}
		if p.optionalRune(';') != nil {
			continue
		}
		start := p.pos
		decl, ok := p.parseBodyElement()
		if decl != nil {
			decls = append(decls, decl)
		}
		if !ok {
			p.recover(start)
		}
	}
	return ast.NewBodyNode(openBrace, decls, closeBrace)
}

// recover skips input after a syntax error, up to and including the next ';'
// or block that closes at the current nesting level, or up to a token that
// starts a new declaration.
func (p *idlParser) recover(start int) {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.isRune('{'):
			depth++
		case p.isRune('}'):
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case p.isRune(';'):
			if depth == 0 {
				p.advance()
				return
			}
		case depth == 0 && p.pos > start && (p.isRune('@') || p.isKeyword("record", "error", "enum", "fixed", "import")):
			return
		}
		p.advance()
	}
}

func (p *idlParser) parseBodyElement() (ast.BodyElement, bool) {
	props, ok := p.parseProperties()
	if !ok {
		return nil, false
	}
	switch {
	case p.isKeyword("import"):
		return p.parseImport(props)
	case p.isKeyword("record", "error"):
		return p.parseRecord(props)
	case p.isKeyword("enum"):
		return p.parseEnum(props)
	case p.isKeyword("fixed"):
		return p.parseFixed(props)
	default:
		msg, ok := p.parseMessage(props)
		if msg == nil {
			return nil, false
		}
		return msg, ok
	}
}

func (p *idlParser) parseImport(props []*ast.PropertyNode) (*ast.ImportNode, bool) {
	keyword := p.ident(p.advance())
	if len(props) > 0 {
		p.errorf(p.tokens[p.pos-1], "syntax error: properties are not allowed on imports")
	}
	var kind *ast.IdentNode
	if p.isKeyword("idl", "protocol", "schema") {
		kind = p.ident(p.advance())
	} else {
		p.unexpected(`"idl", "protocol" or "schema"`)
		return ast.NewImportNode(keyword, nil, nil, nil), false
	}
	if p.peek().kind != tokenString {
		p.unexpected("string literal")
		return ast.NewImportNode(keyword, kind, nil, nil), false
	}
	t := p.advance()
	path := ast.NewStringLiteralNode(t.text, t.tok)
	semicolon, ok := p.expectRune(';')
	return ast.NewImportNode(keyword, kind, path, semicolon), ok
}

// parseDeclName parses the name of a named schema declaration. A missing
// name is reported but is not fatal as long as the declaration continues as
// expected with next.
func (p *idlParser) parseDeclName(next rune) (*ast.IdentNode, bool) {
	if p.isRune(next) {
		p.unexpected("name")
		return nil, true
	}
	return p.expectIdent("name")
}

func (p *idlParser) parseRecord(props []*ast.PropertyNode) (*ast.RecordNode, bool) {
	keyword := p.ident(p.advance())
	name, ok := p.parseDeclName('{')
	if !ok {
		return ast.NewRecordNode(props, keyword, nil, nil, nil, nil), false
	}
	openBrace, ok := p.expectRune('{')
	if !ok {
		return ast.NewRecordNode(props, keyword, name, nil, nil, nil), false
	}
	var fields []*ast.FieldNode
	var closeBrace *ast.RuneNode
	for !p.aborted() {
		if p.atEOF() {
			p.unexpected("'}'")
			break
		}
		if p.isRune('}') {
			closeBrace = p.optionalRune('}')
			break
		}
		if p.optionalRune(';') != nil {
			continue
		}
		field, ok := p.parseField()
		if field != nil {
			fields = append(fields, field)
		}
		if !ok {
			p.recoverField()
		}
	}
	return ast.NewRecordNode(props, keyword, name, openBrace, fields, closeBrace), closeBrace != nil
}

// recoverField skips to the end of a broken field: past the next ';' or up
// to the '}' that closes the record.
func (p *idlParser) recoverField() {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.isRune('{') || p.isRune('[') || p.isRune('('):
			depth++
		case p.isRune('}') && depth == 0:
			return
		case p.isRune('}') || p.isRune(']') || p.isRune(')'):
			if depth > 0 {
				depth--
			}
		case p.isRune(';') && depth == 0:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *idlParser) parseField() (*ast.FieldNode, bool) {
	props, ok := p.parseProperties()
	if !ok {
		return nil, false
	}
	typ, ok := p.parseType(props)
	if !ok {
		return nil, false
	}
	vars, ok := p.parseVariables()
	if !ok {
		return ast.NewFieldNode(typ, vars, nil), false
	}
	semicolon, ok := p.expectRune(';')
	return ast.NewFieldNode(typ, vars, semicolon), ok
}

func (p *idlParser) parseVariables() ([]*ast.VariableNode, bool) {
	var vars []*ast.VariableNode
	for {
		v, ok := p.parseVariable()
		if v != nil {
			vars = append(vars, v)
		}
		if !ok {
			return vars, false
		}
		if p.optionalRune(',') == nil {
			return vars, true
		}
	}
}

func (p *idlParser) parseVariable() (*ast.VariableNode, bool) {
	props, ok := p.parseProperties()
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdent("field name")
	if !ok {
		return nil, false
	}
	if p.optionalRune('=') == nil {
		return ast.NewVariableNode(props, name, nil), true
	}
	def, ok := p.parseJSONValue()
	return ast.NewVariableNode(props, name, def), ok
}

func (p *idlParser) parseEnum(props []*ast.PropertyNode) (*ast.EnumNode, bool) {
	keyword := p.ident(p.advance())
	name, ok := p.parseDeclName('{')
	if !ok {
		return ast.NewEnumNode(props, keyword, nil, nil, nil, keyword), false
	}
	if _, ok := p.expectRune('{'); !ok {
		return ast.NewEnumNode(props, keyword, name, nil, nil, keyword), false
	}
	var symbols []*ast.IdentNode
	for !p.isRune('}') {
		sym, ok := p.expectIdent("enum symbol")
		if !ok {
			return ast.NewEnumNode(props, keyword, name, symbols, nil, p.node(p.prev)), false
		}
		symbols = append(symbols, sym)
		if p.optionalRune(',') == nil {
			break
		}
	}
	closeBrace, ok := p.expectRune('}')
	if !ok {
		return ast.NewEnumNode(props, keyword, name, symbols, nil, p.node(p.prev)), false
	}
	if p.optionalRune('=') == nil {
		return ast.NewEnumNode(props, keyword, name, symbols, nil, closeBrace), true
	}
	def, ok := p.expectIdent("enum default symbol")
	if !ok {
		return ast.NewEnumNode(props, keyword, name, symbols, nil, p.node(p.prev)), false
	}
	semicolon, ok := p.expectRune(';')
	if !ok {
		return ast.NewEnumNode(props, keyword, name, symbols, def, def), false
	}
	return ast.NewEnumNode(props, keyword, name, symbols, def, semicolon), true
}

func (p *idlParser) parseFixed(props []*ast.PropertyNode) (*ast.FixedNode, bool) {
	keyword := p.ident(p.advance())
	name, ok := p.parseDeclName('(')
	if !ok {
		return ast.NewFixedNode(props, keyword, nil, nil, keyword), false
	}
	if _, ok := p.expectRune('('); !ok {
		return ast.NewFixedNode(props, keyword, name, nil, p.node(p.prev)), false
	}
	if p.peek().kind != tokenInt {
		p.unexpected("int literal")
		return ast.NewFixedNode(props, keyword, name, nil, p.node(p.prev)), false
	}
	t := p.advance()
	size := ast.NewIntLiteralNode(t.text, t.tok)
	if _, ok := p.expectRune(')'); !ok {
		return ast.NewFixedNode(props, keyword, name, size, size), false
	}
	semicolon, ok := p.expectRune(';')
	if !ok {
		return ast.NewFixedNode(props, keyword, name, size, p.node(p.prev)), false
	}
	return ast.NewFixedNode(props, keyword, name, size, semicolon), true
}

func (p *idlParser) parseMessage(props []*ast.PropertyNode) (*ast.MessageNode, bool) {
	returnType, ok := p.parseType(props)
	if !ok {
		return nil, false
	}
	name, ok := p.expectIdent("message name")
	if !ok {
		return nil, false
	}
	var params []*ast.FormalParamNode
	if _, ok := p.expectRune('('); !ok {
		return ast.NewMessageNode(props, returnType, name, nil, false, nil, name), false
	}
	for !p.isRune(')') {
		paramProps, ok := p.parseProperties()
		if !ok {
			return ast.NewMessageNode(props, returnType, name, params, false, nil, p.node(p.prev)), false
		}
		typ, ok := p.parseType(paramProps)
		if !ok {
			return ast.NewMessageNode(props, returnType, name, params, false, nil, p.node(p.prev)), false
		}
		v, ok := p.parseVariable()
		if v != nil {
			params = append(params, ast.NewFormalParamNode(typ, v))
		}
		if !ok {
			return ast.NewMessageNode(props, returnType, name, params, false, nil, p.node(p.prev)), false
		}
		if p.optionalRune(',') == nil {
			break
		}
	}
	if _, ok := p.expectRune(')'); !ok {
		return ast.NewMessageNode(props, returnType, name, params, false, nil, p.node(p.prev)), false
	}
	var oneway bool
	var throws []*ast.IdentNode
	switch {
	case p.isKeyword("oneway"):
		p.advance()
		oneway = true
	case p.isKeyword("throws"):
		p.advance()
		for {
			errName, ok := p.expectIdent("error name")
			if !ok {
				return ast.NewMessageNode(props, returnType, name, params, false, throws, p.node(p.prev)), false
			}
			throws = append(throws, errName)
			if p.optionalRune(',') == nil {
				break
			}
		}
	}
	semicolon, ok := p.expectRune(';')
	if !ok {
		return ast.NewMessageNode(props, returnType, name, params, oneway, throws, p.node(p.prev)), false
	}
	return ast.NewMessageNode(props, returnType, name, params, oneway, throws, semicolon), true
}

func (p *idlParser) parseType(props []*ast.PropertyNode) (ast.TypeNode, bool) {
	typ, ok := p.parseNonNullableType(props)
	if !ok {
		return typ, false
	}
	if question := p.optionalRune('?'); question != nil {
		return ast.NewNullableTypeNode(typ, question), true
	}
	return typ, true
}

func (p *idlParser) parseNonNullableType(props []*ast.PropertyNode) (ast.TypeNode, bool) {
	t := p.peek()
	if t.kind != tokenIdent {
		p.unexpected("type")
		return nil, false
	}
	if t.quoted {
		return ast.NewReferenceTypeNode(props, p.ident(p.advance())), true
	}
	switch t.text {
	case "array", "map":
		keyword := p.ident(p.advance())
		if _, ok := p.expectRune('<'); !ok {
			return nil, false
		}
		elemProps, ok := p.parseProperties()
		if !ok {
			return nil, false
		}
		elem, ok := p.parseType(elemProps)
		if !ok {
			return nil, false
		}
		end, ok := p.expectRune('>')
		if !ok {
			return nil, false
		}
		if keyword.Val == "array" {
			return ast.NewArrayTypeNode(props, keyword, elem, end), true
		}
		return ast.NewMapTypeNode(props, keyword, elem, end), true
	case "union":
		keyword := p.ident(p.advance())
		if _, ok := p.expectRune('{'); !ok {
			return nil, false
		}
		var types []ast.TypeNode
		for {
			elemProps, ok := p.parseProperties()
			if !ok {
				return nil, false
			}
			elem, ok := p.parseType(elemProps)
			if !ok {
				return nil, false
			}
			types = append(types, elem)
			if p.optionalRune(',') == nil {
				break
			}
		}
		end, ok := p.expectRune('}')
		if !ok {
			return nil, false
		}
		return ast.NewUnionTypeNode(props, keyword, types, end), true
	case "decimal":
		keyword := p.ident(p.advance())
		if _, ok := p.expectRune('('); !ok {
			return nil, false
		}
		precision, ok := p.expectInt()
		if !ok {
			return nil, false
		}
		var scale *ast.IntLiteralNode
		if p.optionalRune(',') != nil {
			if scale, ok = p.expectInt(); !ok {
				return nil, false
			}
		}
		end, ok := p.expectRune(')')
		if !ok {
			return nil, false
		}
		return ast.NewDecimalTypeNode(props, keyword, precision, scale, end), true
	case "record", "error", "enum", "fixed", "import", "protocol", "oneway", "throws", "true", "false":
		p.unexpected("type")
		return nil, false
	}
	if _, ok := ast.PrimitiveTypes[t.text]; ok {
		return ast.NewPrimitiveTypeNode(props, p.ident(p.advance())), true
	}
	return ast.NewReferenceTypeNode(props, p.ident(p.advance())), true
}

func (p *idlParser) expectInt() (*ast.IntLiteralNode, bool) {
	if p.peek().kind != tokenInt {
		p.unexpected("int literal")
		return nil, false
	}
	t := p.advance()
	return ast.NewIntLiteralNode(t.text, t.tok), true
}

func (p *idlParser) parseProperties() ([]*ast.PropertyNode, bool) {
	var props []*ast.PropertyNode
	for p.isRune('@') {
		at := p.optionalRune('@')
		name, ok := p.expectIdent("property name")
		if !ok {
			return props, false
		}
		openParen, ok := p.expectRune('(')
		if !ok {
			return props, false
		}
		value, ok := p.parseJSONValue()
		if !ok {
			return props, false
		}
		closeParen, ok := p.expectRune(')')
		if !ok {
			return props, false
		}
		props = append(props, ast.NewPropertyNode(at, name, openParen, value, closeParen))
	}
	return props, true
}

func (p *idlParser) parseJSONValue() (ast.JSONValueNode, bool) {
	t := p.peek()
	switch t.kind {
	case tokenString:
		p.advance()
		return ast.NewStringLiteralNode(t.text, t.tok), true
	case tokenInt:
		p.advance()
		return ast.NewIntLiteralNode(t.text, t.tok), true
	case tokenFloat:
		p.advance()
		return ast.NewFloatLiteralNode(t.text, t.tok), true
	case tokenIdent:
		if !t.quoted {
			switch t.text {
			case "true", "false":
				return ast.NewBoolLiteralNode(p.ident(p.advance())), true
			case "null":
				return ast.NewNullLiteralNode(p.ident(p.advance())), true
			}
		}
	case tokenRune:
		switch t.r {
		case '[':
			return p.parseJSONArray()
		case '{':
			return p.parseJSONObject()
		}
	}
	p.unexpected("JSON value")
	return nil, false
}

func (p *idlParser) parseJSONArray() (*ast.JSONArrayNode, bool) {
	openBracket := p.optionalRune('[')
	var elements []ast.JSONValueNode
	for !p.isRune(']') {
		elem, ok := p.parseJSONValue()
		if !ok {
			return nil, false
		}
		elements = append(elements, elem)
		if p.optionalRune(',') == nil {
			break
		}
	}
	closeBracket, ok := p.expectRune(']')
	if !ok {
		return nil, false
	}
	return ast.NewJSONArrayNode(openBracket, elements, closeBracket), true
}

func (p *idlParser) parseJSONObject() (*ast.JSONObjectNode, bool) {
	openBrace := p.optionalRune('{')
	var pairs []*ast.JSONPairNode
	for !p.isRune('}') {
		if p.peek().kind != tokenString {
			p.unexpected("string literal")
			return nil, false
		}
		t := p.advance()
		key := ast.NewStringLiteralNode(t.text, t.tok)
		colon, ok := p.expectRune(':')
		if !ok {
			return nil, false
		}
		value, ok := p.parseJSONValue()
		if !ok {
			return nil, false
		}
		pairs = append(pairs, ast.NewJSONPairNode(key, colon, value))
		if p.optionalRune(',') == nil {
			break
		}
	}
	closeBrace, ok := p.expectRune('}')
	if !ok {
		return nil, false
	}
	return ast.NewJSONObjectNode(openBrace, pairs, closeBrace), true
}
