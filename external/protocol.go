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


package external

import (
	"fmt"

	"github.com/hamba/avro/v2"
	jsoniter "github.com/json-iterator/go"
)

// Protocol is the result of parsing a compiled protocol.
type Protocol struct {
	Name      string
	Namespace string
	// Types are all named types the protocol defines, in the order they
	// are defined. This includes types defined inline in message
	// signatures.
	Types []Schema
}

// ParseProtocol parses a compiled protocol (.avpr) document. Protocols have
// their own name table: they cannot refer to types from other documents.
func ParseProtocol(data []byte) (*Protocol, error) {
	parsed, err := avro.ParseProtocol(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	roots := make([]avro.Schema, 0, len(parsed.Types()))
	for _, typ := range parsed.Types() {
		roots = append(roots, typ)
	}
	for _, name := range messageNames(data) {
		msg := parsed.Message(name)
		if msg == nil {
			continue
		}
		roots = append(roots, msg.Request())
		if resp := msg.Response(); resp != nil {
			roots = append(roots, resp)
		}
		if errs := msg.Errors(); errs != nil {
			roots = append(roots, errs)
		}
	}

	result := &Protocol{Name: parsed.Name(), Namespace: parsed.Namespace()}
	for _, named := range namedSchemas(roots...) {
		result.Types = append(result.Types, newSchema(named))
	}
	return result, nil
}

// messageNames returns the keys of the protocol's "messages" object in
// document order. The parsed protocol keeps its messages in a map, which
// loses that order. data must already be known to be valid JSON.
func messageNames(data []byte) []string {
	iter := jsoniter.ParseBytes(jsoniter.ConfigDefault, data)
	var names []string
	for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
		if field != "messages" {
			iter.Skip()
			continue
		}
		for name := iter.ReadObject(); name != ""; name = iter.ReadObject() {
			names = append(names, name)
			iter.Skip()
		}
	}
	if iter.Error != nil {
		return nil
	}
	return names
}
