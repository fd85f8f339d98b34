// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package njson is a standalone RFC 8259 JSON parser and emitter built
// around an ordered value tree rather than Go's reflection-based
// encoding/json. It exists to support the three output shapes that
// callers of this runtime's configuration and request-body tooling
// need: a plain dict tree, a NAME/TYPE/VALUE "triples" tree that keeps
// every value's JSON type alongside it, and a flattened "set" shape
// (list of path/value pairs with ".type" sidecar entries) suitable for
// loading straight into a flat key-value store.
//
// Grounded on nsd/tcljson.c: the scanner (JsonPeek/JsonGet/JsonExpect),
// the RFC 8259 number grammar (JsonScanNumber), string escape decoding
// including full UTF-16 surrogate-pair handling (JsonDecodeUnicodeEscape),
// the key-path escaping scheme used by the flattened set output
// (JsonKeyPathAppendEscaped, the ~0/~1/~2 substitutions), and the
// top-level Ns_JsonParse entry point (top-level container constraint,
// triples wrapping of a bare scalar as ["", TYPE, VALUE]).
package njson
