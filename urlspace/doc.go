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

// Package urlspace implements the URL-space: a
// per-server trie keyed by path segment, partitioned into independent
// "id spaces" so unrelated subsystems (request handlers, the url2file
// mapper, filters-by-URL) can share one data structure without key
// collisions, with reference-counted values and inheritance.
//
// The trie shape borrows a node/edge-per-segment layout with
// linear-scan lookup at each node, generalized from single-owner route
// handlers to (method, exact-or-inherit) buckets per node, since
// NaviServer's URL-space needs inheritance and independent id-space
// partitioning that a pure HTTP router does not.
package urlspace
