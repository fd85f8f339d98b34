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

// Package httprequest parses a raw HTTP request line into its method,
// version, optional scheme/host/port (for proxy and CONNECT requests),
// and a normalized, segment-split URL.
//
// Grounded on nsd/request.c's Ns_ParseRequest/SetUrl. The accessor
// style (small, independently testable methods hung off one struct) is
// adapted from a framework's request-metadata accessors, generalized
// from wrapping *http.Request to parsing the wire bytes directly,
// since this package runs before any net/http-style request object
// exists.
package httprequest
