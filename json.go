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

package avroidl

import "github.com/bufbuild/avroidl/ast"

// GetJSONString returns the unescaped value of v if it is a string literal.
// It returns false for any other kind of value, including nil.
func GetJSONString(v ast.JSONValueNode) (string, bool) {
	switch v := v.(type) {
	case *ast.StringLiteralNode:
		if v == nil {
			return "", false
		}
		return v.Value(), true
	default:
		return "", false
	}
}

// GetJSONIntValue returns the value of v if it is an integer literal that
// fits in an int64. It returns false for any other kind of value, including
// nil and floating point literals.
func GetJSONIntValue(v ast.JSONValueNode) (int64, bool) {
	switch v := v.(type) {
	case *ast.IntLiteralNode:
		if v == nil {
			return 0, false
		}
		return v.Value()
	default:
		return 0, false
	}
}
