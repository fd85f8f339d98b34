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

// Package otelspan centralizes this module's OpenTelemetry tracer
// construction so every package starts spans through the same named
// tracer and attribute convention instead of calling otel.Tracer
// inline at each call site.
package otelspan

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/naviserver-project/naviserver-sub001"

var tracer = otel.Tracer(instrumentationName)

// Start begins a span named name under the module's shared tracer,
// tagging it with a "component" attribute so spans from different
// packages (filterchain, event) are distinguishable in a trace backend
// without each package minting its own tracer instance.
func Start(ctx context.Context, component, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("component", component))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End finishes span, recording err (if non-nil) as the span's status
// and an exception event.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
