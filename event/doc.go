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

// Package event implements a single-threaded, cooperative event queue
// for socket I/O: callers enqueue a file descriptor and a callback,
// the callback requests the poll conditions (and optional timeout) it
// wants, and RunOnce drives one poll() cycle, invoking callbacks for
// whichever sockets became ready, timed out, or are newly enqueued.
//
// Grounded on nsd/event.c's Ns_CreateEventQueue/Ns_EventEnqueue/
// Ns_EventCallback/Ns_RunEventQueue state machine, including its three
// intrusive lists (init, wait, free) and the NS_SOCK_EXCEPTION/WRITE/READ
// to POLLPRI/POLLOUT/POLLIN mapping. Events are addressed by a stable
// small-integer id into a fixed arena instead of C's linked-list-of-pointers,
// since Go has no pointer arithmetic to hand-roll a free list directly
// over struct fields.
package event
