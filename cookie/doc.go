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

// Package cookie reads and writes HTTP cookie headers: parsing the
// semicolon-separated name="value" pairs of an incoming Cookie header,
// and building the attribute-ordered Set-Cookie value for an outgoing
// response.
//
// Grounded on nsd/cookies.c: GetFromCookieHeader's request-header
// scan, GetFromSetCookieHeader's response-header scan (which only
// examines the first name=value pair, since later semicolons delimit
// attributes rather than more cookies), and Ns_ConnSetCookieEx's fixed
// Set-Cookie attribute emission order.
package cookie
