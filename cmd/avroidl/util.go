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

package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/parser"
	"github.com/bufbuild/avroidl/reporter"
	"github.com/bufbuild/avroidl/source"
)

// parseFile reads and parses the IDL file at path. Syntax errors are sent to
// rep, which also keeps the source for quoting; the returned tree is
// whatever could be recognized.
func parseFile(path string, rep *printingReporter) (*ast.FileNode, error) {
	file, err := source.OS{}.Open(path)
	if err != nil {
		return nil, err
	}
	rep.addSource(file)
	node, err := parser.Parse(file.Path(), bytes.NewReader(file.Bytes()), reporter.NewHandler(rep.reporter()))
	if node == nil {
		return nil, err
	}
	return node, nil
}

// printingReporter writes every diagnostic to w and never aborts. It counts
// the errors it has seen. Errors in a file it has the source of are followed
// by the offending line and a caret under the column.
type printingReporter struct {
	w       io.Writer
	errors  int
	sources map[string]*source.File
}

func (r *printingReporter) addSource(file *source.File) {
	if r.sources == nil {
		r.sources = make(map[string]*source.File)
	}
	r.sources[file.Path()] = file
}

func (r *printingReporter) reporter() reporter.Reporter {
	return reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			r.errors++
			fmt.Fprintln(r.w, err)
			r.quote(err.GetPosition())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			fmt.Fprintf(r.w, "%s: warning: %v\n", err.GetPosition(), err.Unwrap())
		},
	)
}

func (r *printingReporter) quote(pos ast.SourcePos) {
	file, ok := r.sources[pos.Filename]
	if !ok || pos.Col < 1 {
		return
	}
	line := strings.TrimRight(file.Line(pos.Line), "\r\n")
	if line == "" {
		return
	}
	fmt.Fprintf(r.w, "    %s\n    %s^\n", line, strings.Repeat(" ", pos.Col-1))
}
