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

// Package project describes a tree of Avro IDL files: where it lives, which
// files belong to it and where imports are searched.
//
// A project is configured by an optional avroidl.yaml file in its root
// directory:
//
//	roots:
//	  - third_party/avro
//	include:
//	  - "schemas/**/*.avdl"
//	exclude:
//	  - "**/testdata/**"
//	max_parallelism: 4
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the configuration file, relative to the project
// directory.
const ConfigFile = "avroidl.yaml"

// DefaultInclude is the include pattern used when none is configured.
const DefaultInclude = "**/*.avdl"

// Config is the contents of a project's configuration file.
type Config struct {
	// Directories, relative to the project directory, searched in order
	// for imports that are not found next to the importing file.
	Roots []string `yaml:"roots"`
	// Glob patterns of the IDL files in the project. Patterns use
	// doublestar syntax and are matched against slash-separated paths
	// relative to the project directory.
	Include []string `yaml:"include"`
	// Glob patterns of files to leave out, even if included.
	Exclude []string `yaml:"exclude"`
	// The maximum number of files parsed at once. Non-positive means a
	// default based on the number of CPUs.
	MaxParallelism int `yaml:"max_parallelism"`
}

// ParseConfig parses the YAML contents of a configuration file.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	for _, pattern := range slices.Concat(c.Include, c.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	for _, root := range c.Roots {
		if root == "" {
			return errors.New("empty root directory")
		}
	}
	return nil
}

func (c *Config) includes() []string {
	if len(c.Include) == 0 {
		return []string{DefaultInclude}
	}
	return c.Include
}

// Load loads the project rooted at dir. If dir has no configuration file,
// the default configuration is used.
func Load(dir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Project{Dir: dir, Config: &Config{}}, nil
	}
	if err != nil {
		return nil, err
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return &Project{Dir: dir, Config: config}, nil
}
