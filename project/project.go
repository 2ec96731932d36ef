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

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bufbuild/avroidl/source"
)

// Project is a directory of Avro IDL files.
type Project struct {
	// The project directory.
	Dir string
	// The project configuration. If nil, the default configuration is used.
	Config *Config
}

func (p *Project) config() *Config {
	if p.Config == nil {
		return &Config{}
	}
	return p.Config
}

// Files returns the paths of all IDL files in the project: those matched
// by an include pattern and by no exclude pattern. Paths are joined with the
// project directory, sorted and free of duplicates.
func (p *Project) Files() ([]string, error) {
	config := p.config()
	fsys := os.DirFS(p.Dir)
	var matches []string
	for _, pattern := range config.includes() {
		names, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("listing %s in %s: %w", pattern, p.Dir, err)
		}
		matches = append(matches, names...)
	}
	slices.Sort(matches)
	matches = slices.Compact(matches)

	files := make([]string, 0, len(matches))
	for _, name := range matches {
		excluded, err := p.excluded(name)
		if err != nil {
			return nil, err
		}
		if !excluded {
			files = append(files, filepath.Join(p.Dir, filepath.FromSlash(name)))
		}
	}
	return files, nil
}

func (p *Project) excluded(name string) (bool, error) {
	for _, pattern := range p.config().Exclude {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Roots returns the configured import roots, joined with the project
// directory, in configured order.
func (p *Project) Roots() []string {
	roots := make([]string, 0, len(p.config().Roots))
	for _, root := range p.config().Roots {
		if filepath.IsAbs(root) {
			roots = append(roots, root)
			continue
		}
		roots = append(roots, filepath.Join(p.Dir, root))
	}
	return roots
}

// MaxParallelism returns the configured parallelism, or zero for the
// default.
func (p *Project) MaxParallelism() int {
	return p.config().MaxParallelism
}

// Opener returns the opener used to read the project's files.
func (p *Project) Opener() source.Opener {
	return source.OS{}
}
