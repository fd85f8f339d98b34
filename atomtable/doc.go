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

// Package atomtable implements the process-wide interned-string registry:
// a fixed set of core atoms with stable ids, plus optional dynamic atoms
// registered before the table is sealed.
//
// A thread-local object cache in the original C server avoids cross-thread
// refcount contention on the shared Tcl_Obj representation of each atom.
// Go has no per-thread storage, so Table uses a per-goroutine cache backed
// by sync.Pool instead: each pooled worker gets a
// scratch *Cache it resets between requests rather than relying on a
// thread-exit destructor.
package atomtable
