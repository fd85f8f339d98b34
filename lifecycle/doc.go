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

// Package lifecycle manages the callback queues that drive a server
// through its stages: pre-startup, startup, signal, ready, shutdown,
// and exit. Most queues run their callbacks in FIFO order on whatever
// goroutine calls the Run method; the ready queue runs each callback
// fire-and-forget with panic recovery, and shutdown runs on a detached
// goroutine so StartShutdown can return immediately while callers wait
// on it separately with WaitShutdown.
//
// Registration is rejected once shutdown has begun, matching the
// registration-closes-at-shutdown behavior of a running server: there
// is no useful place left to run a newly added startup hook.
package lifecycle
