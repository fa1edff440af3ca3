// Copyright (c) 2023 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	traceIDLogField = "traceID"
	userLogField    = "user"
	tracerName      = "khetscore-simulation"
)

// Scope is one traced unit of work: a server span plus a logger tagged with
// the span's trace id. Ctx carries the span for anything called underneath.
type Scope struct {
	Ctx  context.Context
	Log  *log.Entry
	span oteltrace.Span
}

// StartScope opens a server span named name under whatever span ctx carries.
func StartScope(ctx context.Context, name string, attrs ...attribute.KeyValue) *Scope {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, name,
		oteltrace.WithSpanKind(oteltrace.SpanKindServer),
		oteltrace.WithAttributes(attrs...),
	)

	return &Scope{
		Ctx:  spanCtx,
		Log:  log.WithField(traceIDLogField, span.SpanContext().TraceID().String()),
		span: span,
	}
}

// TraceID is the hex trace id, all zeros when the span is not recording.
func (s *Scope) TraceID() string {
	return s.span.SpanContext().TraceID().String()
}

// WithUser tags the span and the logger with the acting username.
func (s *Scope) WithUser(username string) *Scope {
	s.span.SetAttributes(attribute.String("enduser.id", username))
	s.Log = s.Log.WithField(userLogField, username)
	return s
}

func (s *Scope) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

func (s *Scope) TraceEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, oteltrace.WithAttributes(attrs...))
}

// TraceError records err on the span and marks it failed.
func (s *Scope) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Scope) Finish() {
	s.span.End()
}
