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
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bufbuild/avroidl"
	"github.com/bufbuild/avroidl/project"
)

type cmdNames struct {
	errorsOnly bool
	namespace  string
	roots      []string
	project    string
}

func (*cmdNames) help() *commandHelp {
	return &commandHelp{
		usage:   "names FILE",
		summary: "List the schema names visible in an IDL file",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdNames) flags(flags *pflag.FlagSet) {
	flags.BoolVar(&cmd.errorsOnly, "errors", false, "only list error types")
	flags.StringVarP(&cmd.namespace, "namespace", "n", "", "format names relative to this namespace")
	flags.StringArrayVarP(&cmd.roots, "root", "I", nil, "additional import root, may be repeated")
	flags.StringVarP(&cmd.project, "project", "p", "", "project directory whose configured roots are searched after --root")
}

func (cmd *cmdNames) run(ctx context.Context, env *env, argv []string) int {
	roots := cmd.roots
	maxParallelism := 0
	if cmd.project != "" {
		proj, err := project.Load(cmd.project)
		if err != nil {
			fmt.Fprintln(env.stderr, err)
			return 1
		}
		roots = append(roots, proj.Roots()...)
		maxParallelism = proj.MaxParallelism()
	}

	diags := &printingReporter{w: env.stderr}
	file, err := parseFile(filepath.Clean(argv[0]), diags)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	finder := &avroidl.Finder{
		Resolver:       &avroidl.SourceResolver{ImportPaths: roots},
		Reporter:       diags.reporter(),
		Logger:         env.logger,
		MaxParallelism: maxParallelism,
	}
	entries, err := finder.FindAllSchemaNamesAvailableInProtocol(ctx, file.Protocol, cmd.errorsOnly, cmd.namespace)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	w := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	for _, entry := range entries {
		var flags []string
		if entry.IsError {
			flags = append(flags, "error")
		}
		if entry.Path != file.Name() {
			flags = append(flags, "imported")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Text, entry.LookupString, entry.TypeText, strings.Join(flags, ","))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	return 0
}
