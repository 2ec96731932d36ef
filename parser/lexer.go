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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/reporter"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenInt
	tokenFloat
	tokenRune
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of file"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string literal"
	case tokenInt:
		return "int literal"
	case tokenFloat:
		return "float literal"
	default:
		return "punctuation"
	}
}

// token is a lexed token, ready for the parser.
type token struct {
	kind tokenKind
	// the text of the token; for identifiers this excludes backticks
	text string
	// for identifiers, whether the identifier was escaped with backticks
	// and therefore cannot be a keyword
	quoted bool
	// for runes, the rune
	r   rune
	tok ast.Token
}

func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of file"
	case tokenRune:
		return fmt.Sprintf("'%c'", t.r)
	default:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
}

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError && sz == 1 {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) peekRune() rune {
	if rr.pos >= len(rr.data) {
		return -1
	}
	r, _ := utf8.DecodeRune(rr.data[rr.pos:])
	return r
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}

type idlLex struct {
	input   *runeReader
	info    *ast.FileInfo
	handler *reporter.Handler

	// set after an '@', so that the following property name may contain
	// dashes
	inPropertyName bool

	comments []ast.Token
	eof      ast.Token
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

func newLexer(in io.Reader, filename string, handler *reporter.Handler) (*idlLex, error) {
	br := bufio.NewReader(in)

	// if file has UTF8 byte order marker preface, consume it
	marker, err := br.Peek(3)
	if err == nil && bytes.Equal(marker, utf8Bom) {
		_, _ = br.Discard(3)
	}

	contents, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	return &idlLex{
		input:   &runeReader{data: contents},
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}, nil
}

func (l *idlLex) maybeNewLine(r rune) {
	if r == '\n' {
		l.info.AddLine(l.input.offset())
	}
}

// lexAll tokenizes the whole input. The last token is always the EOF. Lexing
// stops early if the handler aborts.
func (l *idlLex) lexAll() []token {
	var tokens []token
	for {
		t, ok := l.next()
		if !ok {
			// lex errors are reported; skip the offending input
			if l.handler.ReporterError() != nil {
				return append(tokens, l.endOfFile())
			}
			continue
		}
		tokens = append(tokens, t)
		if t.kind == tokenEOF {
			return tokens
		}
	}
}

func (l *idlLex) endOfFile() token {
	l.input.pos = len(l.input.data)
	l.input.setMark()
	l.eof = l.newToken()
	return token{kind: tokenEOF, tok: l.eof}
}

func (l *idlLex) next() (token, bool) {
	for {
		l.input.setMark()

		c, _, err := l.input.readRune()
		if errors.Is(err, io.EOF) {
			return l.endOfFile(), true
		} else if err != nil {
			l.addSourceError(err)
			// skip the rest: the input cannot be decoded
			return l.endOfFile(), true
		}

		if strings.ContainsRune("\n\r\t\f\v ", c) {
			// skip whitespace
			l.maybeNewLine(c)
			continue
		}

		if c == '`' {
			return l.readQuotedIdentifier()
		}

		if isIdentStart(c) {
			l.readIdentifier()
			text := l.input.getMark()
			l.inPropertyName = false
			switch text {
			case "NaN", "Infinity":
				return l.makeToken(tokenFloat, text), true
			}
			return l.makeToken(tokenIdent, text), true
		}

		if (c >= '0' && c <= '9') || (c == '-' && isNumberStart(l.input.peekRune())) {
			return l.readNumber()
		}

		if c == '-' && l.input.peekRune() == 'I' {
			// -Infinity
			l.readIdentifier()
			text := l.input.getMark()
			if text == "-Infinity" {
				return l.makeToken(tokenFloat, text), true
			}
			l.addSourceError(fmt.Errorf("invalid token %q", text))
			return token{}, false
		}

		if c == '"' {
			return l.readStringLiteral()
		}

		if c == '/' {
			// comment
			cn, szn, err := l.input.readRune()
			if err == nil {
				if cn == '/' {
					l.skipToEndOfLineComment()
					l.comments = append(l.comments, l.info.AddToken(l.input.mark, l.input.pos-l.input.mark))
					continue
				}
				if cn == '*' {
					if ok := l.skipToEndOfBlockComment(); !ok {
						l.addSourceError(errors.New("block comment never terminates, unexpected EOF"))
						return token{}, false
					}
					l.comments = append(l.comments, l.info.AddToken(l.input.mark, l.input.pos-l.input.mark))
					continue
				}
				l.input.unreadRune(szn)
			}
		}

		if !strings.ContainsRune("{}()[]<>,;:=@?.", c) {
			l.addSourceError(fmt.Errorf("invalid character %q", c))
			return token{}, false
		}
		l.inPropertyName = c == '@'
		t := l.makeToken(tokenRune, string(c))
		t.r = c
		return t, true
	}
}

func (l *idlLex) makeToken(kind tokenKind, text string) token {
	return token{kind: kind, text: text, tok: l.newToken()}
}

// newToken records the token spanning from the mark to the current position,
// and attributes the pending comments to it.
func (l *idlLex) newToken() ast.Token {
	offset := l.input.mark
	length := l.input.pos - l.input.mark
	tok := l.info.AddToken(offset, length)
	for _, c := range l.comments {
		l.info.AddComment(c, tok)
	}
	l.comments = nil
	return tok
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}

func isNumberStart(c rune) bool {
	return c >= '0' && c <= '9'
}

// readIdentifier consumes an identifier, including dotted qualifiers such as
// "org.example.Foo". Property names may also contain dashes.
func (l *idlLex) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if isIdentPart(c) {
			continue
		}
		if (c == '.' || (c == '-' && l.inPropertyName)) && isIdentStart(l.input.peekRune()) {
			continue
		}
		l.input.unreadRune(sz)
		break
	}
}

func (l *idlLex) readQuotedIdentifier() (token, bool) {
	for {
		c, sz, err := l.input.readRune()
		if err != nil || c == '\n' {
			if c == '\n' {
				l.input.unreadRune(sz)
			}
			l.addSourceError(errors.New("unterminated quoted identifier"))
			return token{}, false
		}
		if c == '`' {
			break
		}
	}
	text := l.input.getMark()
	name := text[1 : len(text)-1]
	if name == "" {
		l.addSourceError(errors.New("empty quoted identifier"))
		return token{}, false
	}
	l.inPropertyName = false
	t := l.makeToken(tokenIdent, name)
	t.quoted = true
	return t, true
}

func (l *idlLex) readNumber() (token, bool) {
	isFloat := false
	allowExpSign := false
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if (c == '-' || c == '+') && !allowExpSign {
			l.input.unreadRune(sz)
			break
		}
		allowExpSign = false
		if c != '.' && (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			c != '-' && c != '+' {
			// no more chars in the number token
			l.input.unreadRune(sz)
			break
		}
		if c == '.' {
			isFloat = true
		}
		if (c == 'e' || c == 'E') && !isHex(l.input.getMark()) {
			// scientific notation char can be followed by
			// an exponent sign
			isFloat = true
			allowExpSign = true
		}
	}
	text := l.input.getMark()
	if isFloat || (!isHex(text) && strings.ContainsAny(text, "fFdD")) {
		if !validFloat(text) {
			l.addSourceError(fmt.Errorf("invalid syntax in float value: %s", text))
			return token{}, false
		}
		return l.makeToken(tokenFloat, text), true
	}
	if !ast.ValidIntLiteral(text) {
		l.addSourceError(fmt.Errorf("invalid syntax in integer value: %s", text))
		return token{}, false
	}
	return l.makeToken(tokenInt, text), true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func validFloat(s string) bool {
	_, ok := ast.NewFloatLiteralNode(s, 0).Value()
	return ok
}

// readStringLiteral consumes a double-quoted string. Escapes are validated
// lazily when the value is requested, so only the quotes matter here.
func (l *idlLex) readStringLiteral() (token, bool) {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			l.addSourceError(io.ErrUnexpectedEOF)
			return l.makeToken(tokenString, l.input.getMark()), true
		}
		if c == '\n' {
			l.input.unreadRune(1)
			l.addSourceError(errors.New("encountered end-of-line before end of string literal"))
			return l.makeToken(tokenString, l.input.getMark()), true
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			// skip the escaped character; a newline cannot be escaped
			if l.input.peekRune() != '\n' {
				_, _, _ = l.input.readRune()
			}
		}
	}
	return l.makeToken(tokenString, l.input.getMark()), true
}

func (l *idlLex) skipToEndOfLineComment() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			return
		}
		if c == '\n' {
			// the newline is not part of the comment
			l.input.unreadRune(sz)
			return
		}
	}
}

func (l *idlLex) skipToEndOfBlockComment() bool {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return false
		}
		l.maybeNewLine(c)
		if c == '*' {
			c, sz, err := l.input.readRune()
			if err != nil {
				return false
			}
			if c == '/' {
				return true
			}
			l.input.unreadRune(sz)
		}
	}
}

func (l *idlLex) addSourceError(err error) {
	_ = l.handler.HandleError(reporter.Error(l.info.SourcePos(l.input.mark), err))
}
