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

// Package pathutil implements pure byte-string path operations —
// normalization of "." and ".." segments, absolute-path testing,
// hash-prefix layout — plus vhost server-root/page-root resolution
// (ServerRoot, PageRoot) and a urlspace-backed URL→file registry
// (URLToFileRegistry) for the default page-root fallback mapper.
//
// Grounded on nsd/pathname.c's NormalizePath/Ns_HashPath/ServerRoot/
// NsPageRoot and nsd/urlspace.c's Ns_UrlToFile.
package pathutil
