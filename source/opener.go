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

package source

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Opener is a mechanism for opening files.
//
// Implementations must report a missing file with an error that wraps
// [fs.ErrNotExist]; the import resolver gives that error special treatment: it
// means "try the next candidate", not "fail".
type Opener interface {
	// Open opens the file at the given path.
	//
	// The path of the returned file should be the canonical form of path, so
	// that the same file opened through two different relative paths can be
	// recognized.
	Open(path string) (*File, error)
}

// Map implements [Opener] via lookup of a built-in map. Keys are cleaned with
// [filepath.Clean] on insertion and lookup.
//
// Missing entries result in [fs.ErrNotExist].
type Map struct {
	files map[string]*File
}

// NewMap creates a new [Map] holding the given files, keyed by path.
func NewMap(m map[string]*File) *Map {
	files := make(map[string]*File, len(m))
	for path, file := range m {
		files[filepath.Clean(path)] = file
	}
	return &Map{files: files}
}

// Add adds a new file to this map, replacing any file at the same path.
func (m *Map) Add(path, text string) {
	path = filepath.Clean(path)
	m.files[path] = NewFile(path, text)
}

// Open implements [Opener].
func (m *Map) Open(path string) (*File, error) {
	file, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return file, nil
}

// OS implements [Opener] on top of the operating system's file system.
//
// Relative paths are made absolute against the current working directory, so
// that the returned path is canonical.
type OS struct{}

// Open implements [Opener].
func (OS) Open(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrNotExist}
	}
	return readAll(abs, file)
}

func readAll(path string, r io.Reader) (*File, error) {
	var buf strings.Builder
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return NewFile(path, buf.String()), nil
}
