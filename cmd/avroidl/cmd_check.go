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
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cmdCheck struct {
	quiet bool
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check FILE...",
		summary: "Report syntax errors in IDL files",
		args:    cobra.MinimumNArgs(1),
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	flags.BoolVarP(&cmd.quiet, "quiet", "q", false, "only set the exit status")
}

func (cmd *cmdCheck) run(_ context.Context, env *env, argv []string) int {
	out := env.stderr
	if cmd.quiet {
		out = io.Discard
	}
	rep := &printingReporter{w: out}
	failed := false
	for _, path := range argv {
		if _, err := parseFile(path, rep); err != nil {
			fmt.Fprintln(out, err)
			failed = true
		}
	}
	if failed || rep.errors > 0 {
		return 1
	}
	return 0
}

