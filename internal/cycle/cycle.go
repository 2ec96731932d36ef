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

// Package cycle contains internal helpers for dealing with dependency cycles.
package cycle

import (
	"fmt"
	"strings"
)

// Error is an error due to cyclic dependencies.
type Error[T any] struct {
	// The offending cycle. The first and last entries will be equal.
	Cycle []T
}

// Error implements [error].
func (e *Error[T]) Error() string {
	var buf strings.Builder
	buf.WriteString("cycle detected: ")
	for i, q := range e.Cycle {
		if i != 0 {
			buf.WriteString(" -> ")
		}
		fmt.Fprintf(&buf, "%v", q)
	}
	return buf.String()
}

// Stack is the set of keys that are currently being resolved, in the order
// they were entered. The zero value is an empty stack.
type Stack[K comparable] struct {
	keys  []K
	index map[K]int
}

// Push enters k. If k is already on the stack, the stack is unchanged and an
// *Error describing the cycle, from the first occurrence of k back to k, is
// returned.
func (s *Stack[K]) Push(k K) error {
	if i, ok := s.index[k]; ok {
		cycle := make([]K, 0, len(s.keys)-i+1)
		cycle = append(cycle, s.keys[i:]...)
		cycle = append(cycle, k)
		return &Error[K]{Cycle: cycle}
	}
	if s.index == nil {
		s.index = map[K]int{}
	}
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
	return nil
}

// Pop leaves the most recently entered key. It panics if the stack is empty.
func (s *Stack[K]) Pop() {
	last := s.keys[len(s.keys)-1]
	delete(s.index, last)
	s.keys = s.keys[:len(s.keys)-1]
}

// Len returns the number of keys on the stack.
func (s *Stack[K]) Len() int {
	return len(s.keys)
}
