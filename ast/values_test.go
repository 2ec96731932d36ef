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

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		``:              ``,
		`plain`:         `plain`,
		`a\nb`:          "a\nb",
		`tab\there`:     "tab\there",
		`\"quoted\"`:    `"quoted"`,
		`\'single\'`:    `'single'`,
		`back\\slash`:   `back\slash`,
		`sl\/ash`:       `sl/ash`,
		`\u00e9t\u00e9`: "été",
		`\ud83d\ude00`:  "😀",
		`\u12`:          `\u12`,
		`\uzzzz`:        `\uzzzz`,
		`unknown \q`:    `unknown q`,
		`trailing\`:     `trailing\`,
		`\b\f\r`:        "\b\f\r",
		`\é`:            "é",
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, Unescape(input), "input %q", input)
	}
}

func TestStringLiteralValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb", NewStringLiteralNode(`"a\nb"`, 0).Value())
	assert.Equal(t, "", NewStringLiteralNode(`""`, 0).Value())
	// unterminated literals keep what was written
	assert.Equal(t, "abc", NewStringLiteralNode(`"abc`, 0).Value())
}

func TestIntLiteralValue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw string
		val int64
		ok  bool
	}{
		{raw: "0", val: 0, ok: true},
		{raw: "42", val: 42, ok: true},
		{raw: "-42", val: -42, ok: true},
		{raw: "16L", val: 16, ok: true},
		{raw: "0x1F", val: 31, ok: true},
		{raw: "-0x10", val: -16, ok: true},
		{raw: "010", val: 8, ok: true},
		{raw: "9223372036854775807", val: 9223372036854775807, ok: true},
		{raw: "-9223372036854775808", val: -9223372036854775808, ok: true},
		{raw: "9223372036854775808", ok: false},
		{raw: "0xZZ", ok: false},
	}
	for _, tc := range testCases {
		val, ok := NewIntLiteralNode(tc.raw, 0).Value()
		assert.Equal(t, tc.ok, ok, "literal %s", tc.raw)
		assert.Equal(t, tc.val, val, "literal %s", tc.raw)
	}
}

func TestFloatLiteralValue(t *testing.T) {
	t.Parallel()

	f, ok := NewFloatLiteralNode("1.5e3", 0).Value()
	assert.True(t, ok)
	assert.InDelta(t, 1500.0, f, 0)

	f, ok = NewFloatLiteralNode("-Infinity", 0).Value()
	assert.True(t, ok)
	assert.Less(t, f, 0.0)

	_, ok = NewFloatLiteralNode("NaN", 0).Value()
	assert.True(t, ok)
}
