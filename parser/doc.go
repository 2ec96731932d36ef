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

// Package parser contains the logic for parsing Avro IDL source code into an
// AST (abstract syntax tree).
//
// The parser is a hand-written recursive-descent parser for the IDL of
// Avro 1.10. It recovers from syntax errors at declaration boundaries, so a
// file with errors still produces a tree holding every declaration that could
// be recognized. Whether an error aborts the parse is decided by the
// reporter.Reporter given to the parser.
package parser
