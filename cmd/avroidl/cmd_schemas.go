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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bufbuild/avroidl"
	"github.com/bufbuild/avroidl/ast"
	"github.com/bufbuild/avroidl/project"
)

type cmdSchemas struct {
	maxParallelism int
}

func (*cmdSchemas) help() *commandHelp {
	return &commandHelp{
		usage:   "schemas [DIR]",
		summary: "List every named schema declared in a project",
		args:    cobra.MaximumNArgs(1),
	}
}

func (cmd *cmdSchemas) flags(flags *pflag.FlagSet) {
	flags.IntVarP(&cmd.maxParallelism, "jobs", "j", 0, "number of files parsed in parallel, overrides the project setting")
}

func (cmd *cmdSchemas) run(ctx context.Context, env *env, argv []string) int {
	dir := "."
	if len(argv) > 0 {
		dir = argv[0]
	}
	proj, err := project.Load(dir)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	finder := &avroidl.Finder{
		Logger:         env.logger,
		MaxParallelism: cmd.maxParallelism,
	}
	schemas, err := finder.FindNavigatableNamedSchemasInProject(ctx, proj)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	for _, schema := range schemas {
		name := schema.FullName
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(env.stdout, "%s: %s %s\n", schema.Pos(), schemaKind(schema.Decl), name)
	}
	return 0
}

func schemaKind(decl ast.NamedSchemaDecl) string {
	switch decl.(type) {
	case *ast.RecordNode:
		if decl.IsErrorType() {
			return "error"
		}
		return "record"
	case *ast.EnumNode:
		return "enum"
	case *ast.FixedNode:
		return "fixed"
	default:
		return "schema"
	}
}
