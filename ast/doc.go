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

// Package ast defines types for modeling the AST (Abstract Syntax
// Tree) of the Avro IDL language.
//
// All nodes of the tree implement the Node interface. Leaf nodes in the
// tree implement TerminalNode. The root of the tree for an IDL file is a
// *FileNode, which holds at most one *ProtocolNode.
//
// Position information is tracked using a *FileInfo, calling its various
// Add* methods as the file is tokenized by the lexer. This allows AST
// nodes to have a compact representation. To extract detailed position
// information, use the NodeInfo method, available on either the *FileInfo
// which produced the node's tokens or the *FileNode root of the tree that
// contains the node.
//
// Comments are not represented as nodes in the tree. Instead, they are
// attributed to the terminal node that follows them. Doc comments (those
// starting with "/**") of a declaration can be retrieved with DocComment.
//
// Several interfaces in this package form closed sets of variants:
// NamedSchemaDecl (records, errors, enums, fixed), TypeNode and
// JSONValueNode. Each carries an unexported marker method so the set cannot be
// extended outside of this package, and consumers are expected to use
// exhaustive type switches over them.
//
// Creation of AST nodes should use the factory functions in this package
// instead of struct literals. Some factory functions accept optional
// arguments, which means the arguments can be nil.
package ast
