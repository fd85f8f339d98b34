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

// Package filterchain runs the pre-auth/post-auth filter list, the
// FIFO trace list, the LIFO cleanup list, and the request dispatcher
// that ties them to a urlspace lookup.
//
// Grounded on nsd/filter.c (filter/trace/cleanup registration and the
// BREAK/RETURN/ERROR/OK status algebra, including TRACE's RETURN→OK
// coercion) and nsd/op.c's Ns_ConnRunRequest/Ns_ConnRedirect. The
// copy-the-slice-then-iterate-without-holding-the-lock pattern is
// adapted from this module's own lifecycle hook queues, generalized
// from fixed lifecycle phases to a dynamically registered,
// pattern-matched filter list.
package filterchain
