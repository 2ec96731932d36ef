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
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/uniseg"
)

const tabWidth = 8

// FileInfo holds the lines, tokens and comments of a lexed file. Nodes refer
// to their source by token index into a FileInfo.
type FileInfo struct {
	name string
	data []byte
	// start offset of every line; the first is always zero
	lines []int
	// every token in file order, comments included
	tokens []span
	// comment tokens in file order, each with the token it documents
	comments []attribution
}

type span struct {
	offset, length int
}

type attribution struct {
	comment, token Token
}

// Token is the index of a lexed token in its FileInfo.
type Token int

// NewFileInfo creates a new instance for the given file.
func NewFileInfo(filename string, contents []byte) *FileInfo {
	return &FileInfo{
		name:  filename,
		data:  contents,
		lines: []int{0},
	}
}

// Name returns the name of the file.
func (f *FileInfo) Name() string {
	return f.name
}

// AddLine records that a line starts at the given offset, which is one past
// a newline. Lines must be added in order.
func (f *FileInfo) AddLine(offset int) {
	if offset <= f.lines[len(f.lines)-1] || offset > len(f.data) {
		panic(fmt.Sprintf("ast: line offset %d is out of order or past the end of %s", offset, f.name))
	}
	f.lines = append(f.lines, offset)
}

// AddToken records a token of the given length at offset and returns it.
// Tokens must be added in file order and may not overlap.
func (f *FileInfo) AddToken(offset, length int) Token {
	end := 0
	if n := len(f.tokens); n > 0 {
		end = f.tokens[n-1].offset + f.tokens[n-1].length
	}
	if offset < end || length < 0 || offset+length > len(f.data) {
		panic(fmt.Sprintf("ast: token at %d+%d overlaps the previous token or passes the end of %s", offset, length, f.name))
	}
	f.tokens = append(f.tokens, span{offset: offset, length: length})
	return Token(len(f.tokens) - 1)
}

// AddComment attributes a comment, previously added with AddToken, to the
// token that follows it. Comments must be added in file order.
func (f *FileInfo) AddComment(comment, attributedTo Token) {
	if n := len(f.comments); n > 0 && comment <= f.comments[n-1].comment {
		panic(fmt.Sprintf("ast: comment %d is out of order in %s", comment, f.name))
	}
	f.comments = append(f.comments, attribution{comment: comment, token: attributedTo})
}

// NodeInfo returns the position details for the given node.
func (f *FileInfo) NodeInfo(n Node) NodeInfo {
	return NodeInfo{file: f, start: n.Start(), end: n.End()}
}

// TokenInfo returns the position details for the given token.
func (f *FileInfo) TokenInfo(t Token) NodeInfo {
	return NodeInfo{file: f, start: t, end: t}
}

func (f *FileInfo) text(from, to Token) string {
	first, last := f.tokens[from], f.tokens[to]
	return string(f.data[first.offset : last.offset+last.length])
}

// SourcePos computes the line and column for the given byte offset.
//
// Columns are measured in terminal cells: tabs advance to the next multiple
// of eight, and wide or combining characters count by their display width.
func (f *FileInfo) SourcePos(offset int) SourcePos {
	line := sort.Search(len(f.lines), func(n int) bool {
		return f.lines[n] > offset
	})
	col := 0
	for i, part := range strings.Split(string(f.data[f.lines[line-1]:offset]), "\t") {
		if i > 0 {
			col += tabWidth - col%tabWidth
		}
		col += uniseg.StringWidth(part)
	}
	return SourcePos{Filename: f.name, Line: line, Col: col + 1, Offset: offset}
}

// NodeInfo gives access to the source of a node.
type NodeInfo struct {
	file       *FileInfo
	start, end Token
}

func (n NodeInfo) valid() bool {
	return n.file != nil && len(n.file.tokens) > 0
}

// Start returns the position of the first character of the node.
func (n NodeInfo) Start() SourcePos {
	if !n.valid() {
		return UnknownPos(n.fileName())
	}
	return n.file.SourcePos(n.file.tokens[n.start].offset)
}

// RawText returns the source text of the node.
func (n NodeInfo) RawText() string {
	if !n.valid() {
		return ""
	}
	return n.file.text(n.start, n.end)
}

// LeadingComments returns the text of the comments directly before the
// node, delimiters included, in file order.
func (n NodeInfo) LeadingComments() []string {
	if n.file == nil {
		return nil
	}
	comments := n.file.comments
	i := sort.Search(len(comments), func(i int) bool {
		return comments[i].token >= n.start
	})
	var texts []string
	for ; i < len(comments) && comments[i].token == n.start; i++ {
		texts = append(texts, n.file.text(comments[i].comment, comments[i].comment))
	}
	return texts
}

func (n NodeInfo) fileName() string {
	if n.file == nil {
		return ""
	}
	return n.file.name
}

// SourcePos identifies a location in an IDL source file.
type SourcePos struct {
	Filename  string
	Line, Col int
	Offset    int
}

// UnknownPos is a placeholder position when only the source file
// name is known.
func UnknownPos(filename string) SourcePos {
	return SourcePos{Filename: filename}
}

func (pos SourcePos) String() string {
	if pos.Line <= 0 || pos.Col <= 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Col)
}

// DocComment returns the text of the doc comment ("/** ... */") immediately
// preceding the node, with delimiters and leading asterisks removed. It
// returns false if there is no such comment.
func DocComment(info NodeInfo) (string, bool) {
	comments := info.LeadingComments()
	if len(comments) == 0 {
		return "", false
	}
	raw := comments[len(comments)-1]
	if len(raw) < 5 || !strings.HasPrefix(raw, "/**") || !strings.HasSuffix(raw, "*/") {
		return "", false
	}
	lines := strings.Split(raw[3:len(raw)-2], "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), "*")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}
